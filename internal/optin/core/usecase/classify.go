package usecase

import (
	"strings"

	"optin-webhook-service/internal/optin/core/domain"
)

type Decision int

const (
	DecisionIgnore Decision = iota
	DecisionOptIn
	DecisionObserve
)

type Classification struct {
	Decision    Decision
	CampaignKey string
}

// NormalizeLabel lower-cases and trims an action label. The label table
// and incoming labels are both normalized with this before matching.
func NormalizeLabel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Classify decides what a normalized event means. Status updates are
// observed, button/text actions whose label exactly matches a configured
// entry are opt-ins, everything else is ignored.
//
// Matching is exact on the normalized label, never substring: a text reply
// that merely contains a keyword somewhere must not opt the sender in.
func Classify(ev domain.NormalizedEvent, labels map[string]string) Classification {
	switch ev.Kind {
	case domain.KindStatusUpdate:
		return Classification{Decision: DecisionObserve}

	case domain.KindButtonAction, domain.KindTextAction:
		if ev.SubjectID == "" {
			return Classification{Decision: DecisionIgnore}
		}
		if key, ok := labels[NormalizeLabel(ev.ActionLabel)]; ok {
			return Classification{Decision: DecisionOptIn, CampaignKey: key}
		}
		return Classification{Decision: DecisionIgnore}

	default:
		return Classification{Decision: DecisionIgnore}
	}
}
