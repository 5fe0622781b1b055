package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"optin-webhook-service/internal/optin/core/domain"
	"optin-webhook-service/internal/optin/core/ports"
)

type ProcessEventsUseCase struct {
	ledger  ports.ConsentLedgerPort
	trigger ports.TriggerPort
	labels  map[string]string
}

func NewProcessEventsUseCase(
	ledger ports.ConsentLedgerPort,
	trigger ports.TriggerPort,
	labels map[string]string,
) *ProcessEventsUseCase {
	return &ProcessEventsUseCase{
		ledger:  ledger,
		trigger: trigger,
		labels:  labels,
	}
}

type ProcessResult struct {
	Dispatched     int
	Duplicates     int
	DispatchErrors int
	Observed       int
	Ignored        int
}

// Execute runs every normalized event of one delivery through
// classify -> claim -> dispatch. The returned error is reserved for
// ledger failures; a failed dispatch is logged and counted but does not
// fail the delivery, and the consent claim is kept (no duplicate job
// starts on transient trigger-API errors).
func (uc *ProcessEventsUseCase) Execute(ctx context.Context, events []domain.NormalizedEvent) (ProcessResult, error) {
	var res ProcessResult

	for _, ev := range events {
		cls := Classify(ev, uc.labels)

		switch cls.Decision {
		case DecisionObserve:
			uc.observeStatus(ev)
			res.Observed++

		case DecisionOptIn:
			claimed, err := uc.ledger.TryClaim(ctx, ev.SubjectID, cls.CampaignKey)
			if err != nil {
				return res, fmt.Errorf("claim consent: %w", err)
			}

			if !claimed {
				log.Info().
					Str("subject_id", ev.SubjectID).
					Str("campaign_key", cls.CampaignKey).
					Msg("opt-in already claimed, skipping dispatch")
				res.Duplicates++
				continue
			}

			// The claim is committed before the outbound call, so a slow
			// or failed dispatch never reopens it.
			execID := uuid.New()
			req := domain.TriggerRequest{
				CampaignKey: cls.CampaignKey,
				SubjectID:   ev.SubjectID,
			}

			if err := uc.trigger.Dispatch(ctx, req); err != nil {
				log.Error().
					Err(err).
					Str("execution_id", execID.String()).
					Str("subject_id", ev.SubjectID).
					Str("campaign_key", cls.CampaignKey).
					Msg("trigger dispatch failed, consent kept")
				res.DispatchErrors++
				continue
			}

			log.Info().
				Str("execution_id", execID.String()).
				Str("subject_id", ev.SubjectID).
				Str("campaign_key", cls.CampaignKey).
				Msg("opt-in dispatched")
			res.Dispatched++

		default:
			res.Ignored++
		}
	}

	return res, nil
}

func (uc *ProcessEventsUseCase) observeStatus(ev domain.NormalizedEvent) {
	st := ev.Status
	if st == nil {
		return
	}

	e := log.Info().
		Str("message_id", st.MessageID).
		Str("status", st.Status).
		Time("timestamp", st.Timestamp).
		Str("recipient_id", st.RecipientID)

	if len(st.Errors) > 0 {
		e = e.Interface("errors", st.Errors)
	}

	e.Msg("message status update")
}
