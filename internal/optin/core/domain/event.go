package domain

import "time"

type EventKind string

const (
	KindButtonAction EventKind = "button_action"
	KindTextAction   EventKind = "text_action"
	KindStatusUpdate EventKind = "status_update"
	KindUnrecognized EventKind = "unrecognized"
)

// StatusError is one upstream delivery error attached to a status update.
type StatusError struct {
	Code  int
	Title string
}

// StatusRecord carries a message lifecycle update (sent, delivered, read,
// failed) reported by the messaging platform.
type StatusRecord struct {
	MessageID   string
	Status      string
	Timestamp   time.Time
	RecipientID string
	Errors      []StatusError
}

// NormalizedEvent is the canonical unit the pipeline works on, independent
// of the upstream payload shape. Exactly one of ActionLabel or Status is
// populated: ActionLabel for button/text events, Status for status updates.
type NormalizedEvent struct {
	SubjectID   string
	Kind        EventKind
	ActionLabel string
	Status      *StatusRecord
	ReceivedAt  time.Time
}
