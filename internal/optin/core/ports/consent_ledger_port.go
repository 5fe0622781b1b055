package ports

import "context"

type ConsentLedgerPort interface {
	// TryClaim:
	//   claimed = true,  err = nil  -> first claim for the pair
	//   claimed = false, err = nil  -> already claimed (idempotent)
	//   claimed = false, err != nil -> store error
	//
	// Under concurrent calls with the same (subjectID, campaignKey),
	// exactly one caller observes claimed=true.
	TryClaim(ctx context.Context, subjectID, campaignKey string) (claimed bool, err error)
}
