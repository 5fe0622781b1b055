package postgres

import (
	"context"
	"time"

	"optin-webhook-service/internal/optin/core/ports"
)

// ConsentLedger is the durable claim store. The claim decision rides on a
// unique (subject_id, campaign_key) constraint, so concurrent claims for
// the same pair race inside postgres, not in this process.
type ConsentLedger struct {
	db DB
}

func NewConsentLedger(db DB) *ConsentLedger {
	return &ConsentLedger{db: db}
}

var _ ports.ConsentLedgerPort = (*ConsentLedger)(nil)

// SQL template
const claimConsentSQL = `
INSERT INTO consent_records (
    subject_id,
    campaign_key,
    triggered_at
) VALUES (
    $1, $2, $3
)
ON CONFLICT (subject_id, campaign_key) DO NOTHING;
`

func (l *ConsentLedger) TryClaim(ctx context.Context, subjectID, campaignKey string) (bool, error) {
	res, err := l.db.ExecContext(ctx, claimConsentSQL,
		subjectID,
		campaignKey,
		time.Now().UTC(),
	)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	// rows == 1 -> first claim
	// rows == 0 -> already claimed (ON CONFLICT DO NOTHING)
	return rows > 0, nil
}
