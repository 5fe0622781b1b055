package ports

import "context"

type ConsentReaderPort interface {
	// CountByCampaign returns the number of recorded consents per
	// campaign key. Read-only; the opt-in ledger owns the records.
	CountByCampaign(ctx context.Context) (map[string]int64, error)
}
