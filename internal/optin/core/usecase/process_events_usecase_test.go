package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"optin-webhook-service/internal/optin/core/domain"
	"optin-webhook-service/internal/optin/core/usecase"
)

// fakeLedger implements ConsentLedgerPort for tests.
type fakeLedger struct {
	TryClaimFn func(ctx context.Context, subjectID, campaignKey string) (bool, error)
	calls      int
	lastPair   [2]string
}

func (f *fakeLedger) TryClaim(ctx context.Context, subjectID, campaignKey string) (bool, error) {
	f.calls++
	f.lastPair = [2]string{subjectID, campaignKey}
	if f.TryClaimFn != nil {
		return f.TryClaimFn(ctx, subjectID, campaignKey)
	}
	return true, nil
}

// fakeTrigger implements TriggerPort for tests.
type fakeTrigger struct {
	DispatchFn func(ctx context.Context, req domain.TriggerRequest) error
	calls      int
	lastReq    domain.TriggerRequest
}

func (f *fakeTrigger) Dispatch(ctx context.Context, req domain.TriggerRequest) error {
	f.calls++
	f.lastReq = req
	if f.DispatchFn != nil {
		return f.DispatchFn(ctx, req)
	}
	return nil
}

func optInEvent(subject, label string) domain.NormalizedEvent {
	return domain.NormalizedEvent{
		SubjectID:   subject,
		Kind:        domain.KindButtonAction,
		ActionLabel: label,
		ReceivedAt:  time.Now().UTC(),
	}
}

// ------------------------------------------------------------
// FIRST CLAIM -> ONE DISPATCH
// ------------------------------------------------------------

func TestProcessEvents_OptInDispatchedOnce(t *testing.T) {
	ledger := &fakeLedger{}
	trigger := &fakeTrigger{}

	uc := usecase.NewProcessEventsUseCase(ledger, trigger, testLabels())

	res, err := uc.Execute(context.Background(), []domain.NormalizedEvent{
		optInEvent("491700000001", "yes, send updates"),
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Dispatched != 1 {
		t.Fatalf("expected dispatched=1, got %d", res.Dispatched)
	}
	if trigger.calls != 1 {
		t.Fatalf("expected one dispatch call, got %d", trigger.calls)
	}
	if trigger.lastReq.CampaignKey != "email-updates" || trigger.lastReq.SubjectID != "491700000001" {
		t.Fatalf("unexpected trigger request: %+v", trigger.lastReq)
	}
	if ledger.lastPair != [2]string{"491700000001", "email-updates"} {
		t.Fatalf("unexpected claim pair: %v", ledger.lastPair)
	}
}

// ------------------------------------------------------------
// DUPLICATE CLAIM -> NO DISPATCH
// ------------------------------------------------------------

func TestProcessEvents_DuplicateSkipsDispatch(t *testing.T) {
	ledger := &fakeLedger{
		TryClaimFn: func(ctx context.Context, subjectID, campaignKey string) (bool, error) {
			return false, nil
		},
	}
	trigger := &fakeTrigger{}

	uc := usecase.NewProcessEventsUseCase(ledger, trigger, testLabels())

	res, err := uc.Execute(context.Background(), []domain.NormalizedEvent{
		optInEvent("491700000001", "yes, send updates"),
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Duplicates != 1 || res.Dispatched != 0 {
		t.Fatalf("expected duplicates=1, dispatched=0, got %+v", res)
	}
	if trigger.calls != 0 {
		t.Fatalf("expected no dispatch calls, got %d", trigger.calls)
	}
}

// ------------------------------------------------------------
// DISPATCH FAILURE KEEPS THE CLAIM AND THE 200
// ------------------------------------------------------------

func TestProcessEvents_DispatchErrorDoesNotFailDelivery(t *testing.T) {
	ledger := &fakeLedger{}
	trigger := &fakeTrigger{
		DispatchFn: func(ctx context.Context, req domain.TriggerRequest) error {
			return errors.New("heroku api 503")
		},
	}

	uc := usecase.NewProcessEventsUseCase(ledger, trigger, testLabels())

	res, err := uc.Execute(context.Background(), []domain.NormalizedEvent{
		optInEvent("491700000001", "yes, send updates"),
	})

	if err != nil {
		t.Fatalf("dispatch failure must not fail the delivery, got %v", err)
	}
	if res.DispatchErrors != 1 || res.Dispatched != 0 {
		t.Fatalf("expected dispatch_errors=1, got %+v", res)
	}
	// The claim happened before the dispatch and stays spent; there is no
	// unclaim path, so exactly one TryClaim call is the whole story.
	if ledger.calls != 1 {
		t.Fatalf("expected one claim call, got %d", ledger.calls)
	}
}

// ------------------------------------------------------------
// LEDGER FAILURE -> INTERNAL ERROR
// ------------------------------------------------------------

func TestProcessEvents_LedgerError(t *testing.T) {
	ledger := &fakeLedger{
		TryClaimFn: func(ctx context.Context, subjectID, campaignKey string) (bool, error) {
			return false, errors.New("connection refused")
		},
	}
	trigger := &fakeTrigger{}

	uc := usecase.NewProcessEventsUseCase(ledger, trigger, testLabels())

	_, err := uc.Execute(context.Background(), []domain.NormalizedEvent{
		optInEvent("491700000001", "yes, send updates"),
	})

	if err == nil {
		t.Fatalf("expected error for ledger failure")
	}
	if trigger.calls != 0 {
		t.Fatalf("expected no dispatch after ledger failure, got %d", trigger.calls)
	}
}

// ------------------------------------------------------------
// STATUS BATCH -> OBSERVED ONLY
// ------------------------------------------------------------

func TestProcessEvents_StatusBatchObserved(t *testing.T) {
	ledger := &fakeLedger{}
	trigger := &fakeTrigger{}

	uc := usecase.NewProcessEventsUseCase(ledger, trigger, testLabels())

	events := []domain.NormalizedEvent{
		{Kind: domain.KindStatusUpdate, Status: &domain.StatusRecord{MessageID: "wamid.1", Status: "delivered"}},
		{Kind: domain.KindStatusUpdate, Status: &domain.StatusRecord{MessageID: "wamid.2", Status: "read"}},
	}

	res, err := uc.Execute(context.Background(), events)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Observed != 2 {
		t.Fatalf("expected observed=2, got %d", res.Observed)
	}
	if ledger.calls != 0 || trigger.calls != 0 {
		t.Fatalf("status updates must not touch ledger or trigger (%d, %d)", ledger.calls, trigger.calls)
	}
}

// ------------------------------------------------------------
// MIXED DELIVERY
// ------------------------------------------------------------

func TestProcessEvents_MixedDelivery(t *testing.T) {
	ledger := &fakeLedger{}
	trigger := &fakeTrigger{}

	uc := usecase.NewProcessEventsUseCase(ledger, trigger, testLabels())

	events := []domain.NormalizedEvent{
		{Kind: domain.KindStatusUpdate, Status: &domain.StatusRecord{MessageID: "wamid.1", Status: "sent"}},
		optInEvent("491700000001", "edtech information"),
		{SubjectID: "491700000002", Kind: domain.KindTextAction, ActionLabel: "hello there"},
		{SubjectID: "491700000003", Kind: domain.KindUnrecognized},
	}

	res, err := uc.Execute(context.Background(), events)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Observed != 1 || res.Dispatched != 1 || res.Ignored != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if trigger.lastReq.CampaignKey != "edtech-updates" {
		t.Fatalf("expected edtech-updates dispatch, got %q", trigger.lastReq.CampaignKey)
	}
}
