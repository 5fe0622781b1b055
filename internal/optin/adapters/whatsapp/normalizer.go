package whatsapp

import (
	"strconv"
	"strings"
	"time"

	"optin-webhook-service/internal/optin/core/domain"
)

// Normalize flattens one webhook delivery into canonical events. A payload
// whose discriminator does not match, or whose expected nesting is absent
// at any level, yields zero events and no error.
//
// Every entry of every statuses batch becomes one StatusUpdate event. For
// messages only the first element is considered, matching upstream
// behavior of one user message per delivery.
func Normalize(p Payload, receivedAt time.Time) []domain.NormalizedEvent {
	if p.Object != ObjectBusinessAccount {
		return nil
	}

	var events []domain.NormalizedEvent

	for _, entry := range p.Entry {
		for _, change := range entry.Changes {
			if change.Field != FieldMessages {
				continue
			}

			for _, st := range change.Value.Statuses {
				events = append(events, domain.NormalizedEvent{
					SubjectID: st.RecipientID,
					Kind:      domain.KindStatusUpdate,
					Status: &domain.StatusRecord{
						MessageID:   st.ID,
						Status:      st.Status,
						Timestamp:   epochToUTC(st.Timestamp),
						RecipientID: st.RecipientID,
						Errors:      statusErrors(st.Errors),
					},
					ReceivedAt: receivedAt,
				})
			}

			if len(change.Value.Messages) > 0 {
				events = append(events, normalizeMessage(change.Value.Messages[0], receivedAt))
			}
		}
	}

	return events
}

func normalizeMessage(m Message, receivedAt time.Time) domain.NormalizedEvent {
	ev := domain.NormalizedEvent{
		SubjectID:  m.From,
		Kind:       domain.KindUnrecognized,
		ReceivedAt: receivedAt,
	}

	switch {
	case m.Button != nil:
		ev.Kind = domain.KindButtonAction
		label := m.Button.Text
		if label == "" {
			label = m.Button.Payload
		}
		ev.ActionLabel = normalizeLabel(label)

	case m.Interactive != nil && m.Interactive.ButtonReply != nil:
		ev.Kind = domain.KindButtonAction
		ev.ActionLabel = normalizeLabel(m.Interactive.ButtonReply.Title)

	case m.Text != nil:
		ev.Kind = domain.KindTextAction
		ev.ActionLabel = normalizeLabel(m.Text.Body)
	}

	// Unknown message types stay KindUnrecognized with the sender id
	// attached, so they are still visible to downstream auditing.
	return ev
}

func normalizeLabel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// epochToUTC maps the upstream epoch-seconds string to UTC. An unparsable
// value degrades to the zero time instead of failing the delivery.
func epochToUTC(s string) time.Time {
	sec, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}

func statusErrors(errs []StatusError) []domain.StatusError {
	if len(errs) == 0 {
		return nil
	}

	out := make([]domain.StatusError, 0, len(errs))
	for _, e := range errs {
		out = append(out, domain.StatusError{Code: e.Code, Title: e.Title})
	}
	return out
}
