package domain

import "time"

// Booking is a read view over BookingCreated events, not an entity of its
// own. Slot is kept as the RFC3339 string the producer sent.
type Booking struct {
	ID        string
	UserID    string
	Slot      string
	CreatedAt time.Time
}
