package ports

import (
	"context"

	"optin-webhook-service/internal/optin/core/domain"
)

type TriggerPort interface {
	// Dispatch starts exactly one downstream job run for the request.
	// Best effort, no retries: a failed call is returned as an error and
	// the caller decides what to do with the consent claim.
	Dispatch(ctx context.Context, req domain.TriggerRequest) error
}
