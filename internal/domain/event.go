package domain

import "time"

type EventType string

const (
	EventBookingCreated EventType = "BookingCreated"
)

// Payload is implemented by each event kind so new event types only need a
// new payload struct plus a case in the store's decode switch.
type Payload interface {
	EventType() EventType
}

// Event is one entry in the append-only log. Entries are never updated or
// deleted; every read view is derivable from the log alone.
type Event struct {
	ID        string
	Type      EventType
	Payload   Payload
	CreatedAt time.Time
}

type BookingCreatedPayload struct {
	BookingID string `json:"id"`
	UserID    string `json:"user_id"`
	Slot      string `json:"slot"`
}

func (BookingCreatedPayload) EventType() EventType { return EventBookingCreated }
