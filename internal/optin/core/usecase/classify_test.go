package usecase_test

import (
	"testing"

	"optin-webhook-service/internal/optin/core/domain"
	"optin-webhook-service/internal/optin/core/usecase"
)

func testLabels() map[string]string {
	return map[string]string{
		"yes, send updates":  "email-updates",
		"edtech information": "edtech-updates",
	}
}

// ------------------------------------------------------------
// OPT-IN (exact match)
// ------------------------------------------------------------

func TestClassify_ButtonOptIn(t *testing.T) {
	ev := domain.NormalizedEvent{
		SubjectID:   "491700000001",
		Kind:        domain.KindButtonAction,
		ActionLabel: "yes, send updates",
	}

	cls := usecase.Classify(ev, testLabels())

	if cls.Decision != usecase.DecisionOptIn {
		t.Fatalf("expected opt-in, got %v", cls.Decision)
	}
	if cls.CampaignKey != "email-updates" {
		t.Fatalf("expected campaign email-updates, got %q", cls.CampaignKey)
	}
}

func TestClassify_CaseAndWhitespaceInsensitive(t *testing.T) {
	// The label table holds normalized keys; incoming labels are
	// normalized on lookup, so any casing or padding still matches.
	labels := testLabels()

	for _, raw := range []string{"YES, SEND UPDATES", "  Yes, Send Updates  ", "yes, send updates"} {
		ev := domain.NormalizedEvent{
			SubjectID:   "491700000001",
			Kind:        domain.KindTextAction,
			ActionLabel: raw,
		}

		cls := usecase.Classify(ev, labels)
		if cls.Decision != usecase.DecisionOptIn {
			t.Fatalf("label %q: expected opt-in, got %v", raw, cls.Decision)
		}
		if cls.CampaignKey != "email-updates" {
			t.Fatalf("label %q: expected email-updates, got %q", raw, cls.CampaignKey)
		}
	}
}

// ------------------------------------------------------------
// NO SUBSTRING MATCHING
// ------------------------------------------------------------

func TestClassify_SubstringDoesNotOptIn(t *testing.T) {
	// A free-text reply that merely contains a keyword must not trigger.
	tests := []string{
		"yes please send updates about the weather",
		"i said yes, send updates yesterday",
		"edtech information is what my cousin wanted",
	}

	for _, body := range tests {
		ev := domain.NormalizedEvent{
			SubjectID:   "491700000001",
			Kind:        domain.KindTextAction,
			ActionLabel: body,
		}

		cls := usecase.Classify(ev, testLabels())
		if cls.Decision != usecase.DecisionIgnore {
			t.Fatalf("body %q: expected ignore, got %v", body, cls.Decision)
		}
	}
}

// ------------------------------------------------------------
// OBSERVE / IGNORE
// ------------------------------------------------------------

func TestClassify_StatusUpdateObserved(t *testing.T) {
	ev := domain.NormalizedEvent{
		Kind:   domain.KindStatusUpdate,
		Status: &domain.StatusRecord{MessageID: "wamid.1", Status: "delivered"},
	}

	cls := usecase.Classify(ev, testLabels())
	if cls.Decision != usecase.DecisionObserve {
		t.Fatalf("expected observe, got %v", cls.Decision)
	}
	if cls.CampaignKey != "" {
		t.Fatalf("observe must not carry a campaign key, got %q", cls.CampaignKey)
	}
}

func TestClassify_UnknownLabelIgnored(t *testing.T) {
	ev := domain.NormalizedEvent{
		SubjectID:   "491700000001",
		Kind:        domain.KindButtonAction,
		ActionLabel: "stop",
	}

	if cls := usecase.Classify(ev, testLabels()); cls.Decision != usecase.DecisionIgnore {
		t.Fatalf("expected ignore, got %v", cls.Decision)
	}
}

func TestClassify_MissingSubjectIgnored(t *testing.T) {
	ev := domain.NormalizedEvent{
		Kind:        domain.KindButtonAction,
		ActionLabel: "yes, send updates",
	}

	if cls := usecase.Classify(ev, testLabels()); cls.Decision != usecase.DecisionIgnore {
		t.Fatalf("expected ignore for missing subject, got %v", cls.Decision)
	}
}

func TestClassify_UnrecognizedIgnored(t *testing.T) {
	ev := domain.NormalizedEvent{
		SubjectID: "491700000001",
		Kind:      domain.KindUnrecognized,
	}

	if cls := usecase.Classify(ev, testLabels()); cls.Decision != usecase.DecisionIgnore {
		t.Fatalf("expected ignore, got %v", cls.Decision)
	}
}
