package repository

import (
	"context"

	"bookingengine/internal/domain"
)

// BookingRepository owns both sides of the booking log: the append-only
// events table (source of truth) and the booking read model derived from it.
type BookingRepository interface {
	// AppendBookingCreated writes the event and its read-model row in one
	// transaction.
	AppendBookingCreated(ctx context.Context, payload domain.BookingCreatedPayload) (*domain.Event, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Booking, error)

	// RebuildReadModels replays all BookingCreated events into the read-model
	// table, inserting any rows that are missing. Returns the number repaired.
	RebuildReadModels(ctx context.Context) (int, error)
}
