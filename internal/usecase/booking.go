package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookingengine/internal/domain"
	"bookingengine/internal/repository"
	"github.com/google/uuid"
)

var ErrInvalidSlot = errors.New("slot must be an RFC3339 timestamp")

type BookingUsecase struct {
	bookings repository.BookingRepository
}

func NewBookingUsecase(bookings repository.BookingRepository) *BookingUsecase {
	return &BookingUsecase{bookings: bookings}
}

// CreateBooking appends a BookingCreated event for the user. The slot must
// parse as RFC3339 but is stored as the string the caller sent; there is no
// future-date or overlap check.
func (u *BookingUsecase) CreateBooking(ctx context.Context, userID, slot string) (*domain.Booking, error) {
	if _, err := time.Parse(time.RFC3339, slot); err != nil {
		return nil, ErrInvalidSlot
	}

	payload := domain.BookingCreatedPayload{
		BookingID: uuid.NewString(),
		UserID:    userID,
		Slot:      slot,
	}

	event, err := u.bookings.AppendBookingCreated(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	return &domain.Booking{
		ID:        payload.BookingID,
		UserID:    payload.UserID,
		Slot:      payload.Slot,
		CreatedAt: event.CreatedAt,
	}, nil
}

func (u *BookingUsecase) ListBookings(ctx context.Context, userID string) ([]*domain.Booking, error) {
	bookings, err := u.bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}
