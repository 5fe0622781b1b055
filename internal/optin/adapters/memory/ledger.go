// Package memory holds the process-local consent ledger. It honors the
// same claim contract as the postgres adapter but does not survive a
// restart and cannot be shared between instances; it is only suitable for
// single-instance deployments.
package memory

import (
	"context"
	"sync"
	"time"

	"optin-webhook-service/internal/optin/core/domain"
	"optin-webhook-service/internal/optin/core/ports"
)

type ConsentLedger struct {
	mu     sync.Mutex
	claims map[string]domain.ConsentRecord
}

func NewConsentLedger() *ConsentLedger {
	return &ConsentLedger{claims: make(map[string]domain.ConsentRecord)}
}

var _ ports.ConsentLedgerPort = (*ConsentLedger)(nil)

func (l *ConsentLedger) TryClaim(ctx context.Context, subjectID, campaignKey string) (bool, error) {
	key := subjectID + "|" + campaignKey

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.claims[key]; ok {
		return false, nil
	}

	l.claims[key] = domain.ConsentRecord{
		SubjectID:   subjectID,
		CampaignKey: campaignKey,
		TriggeredAt: time.Now().UTC(),
	}
	return true, nil
}

// CountByCampaign backs the consent report when no database is configured.
func (l *ConsentLedger) CountByCampaign(ctx context.Context) (map[string]int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	counts := make(map[string]int64)
	for _, rec := range l.claims {
		counts[rec.CampaignKey]++
	}
	return counts, nil
}
