package postgres

import (
	"context"

	"optin-webhook-service/internal/consents/core/ports"
)

type RowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

type DB interface {
	QueryContext(ctx context.Context, query string, args ...any) (RowScanner, error)
}

type ConsentRepository struct {
	db DB
}

func NewConsentRepository(db DB) *ConsentRepository {
	return &ConsentRepository{db: db}
}

var _ ports.ConsentReaderPort = (*ConsentRepository)(nil)

const countConsentsSQL = `
SELECT
    campaign_key,
    COUNT(*) AS consents
FROM consent_records
GROUP BY campaign_key
ORDER BY campaign_key`

func (r *ConsentRepository) CountByCampaign(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.QueryContext(ctx, countConsentsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)

	for rows.Next() {
		var key string
		var n int64

		if err := rows.Scan(&key, &n); err != nil {
			return nil, err
		}
		counts[key] = n
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}
