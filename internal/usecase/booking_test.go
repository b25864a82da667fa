package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"bookingengine/internal/domain"
	"bookingengine/internal/usecase"
)

type fakeBookingRepo struct {
	append            func(ctx context.Context, payload domain.BookingCreatedPayload) (*domain.Event, error)
	listByUser        func(ctx context.Context, userID string) ([]*domain.Booking, error)
	rebuildReadModels func(ctx context.Context) (int, error)
}

func (r *fakeBookingRepo) AppendBookingCreated(ctx context.Context, payload domain.BookingCreatedPayload) (*domain.Event, error) {
	return r.append(ctx, payload)
}

func (r *fakeBookingRepo) ListByUser(ctx context.Context, userID string) ([]*domain.Booking, error) {
	return r.listByUser(ctx, userID)
}

func (r *fakeBookingRepo) RebuildReadModels(ctx context.Context) (int, error) {
	return r.rebuildReadModels(ctx)
}

func TestCreateBooking_AppendsEventWithOwnerAndSlot(t *testing.T) {
	var captured domain.BookingCreatedPayload
	repo := &fakeBookingRepo{
		append: func(_ context.Context, payload domain.BookingCreatedPayload) (*domain.Event, error) {
			captured = payload
			return &domain.Event{
				ID:        "event-1",
				Type:      domain.EventBookingCreated,
				Payload:   payload,
				CreatedAt: time.Now(),
			}, nil
		},
	}

	slot := "2026-09-01T10:00:00Z"
	booking, err := usecase.NewBookingUsecase(repo).CreateBooking(context.Background(), "user-1", slot)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if captured.UserID != "user-1" {
		t.Errorf("payload user_id = %q, want user-1", captured.UserID)
	}
	if captured.Slot != slot {
		t.Errorf("payload slot = %q, want %q", captured.Slot, slot)
	}
	if captured.BookingID == "" {
		t.Error("booking ID not generated")
	}
	if booking.ID != captured.BookingID || booking.UserID != "user-1" || booking.Slot != slot {
		t.Errorf("view = %+v does not match payload %+v", booking, captured)
	}
}

func TestCreateBooking_MalformedSlot_ReturnsErrInvalidSlot(t *testing.T) {
	repo := &fakeBookingRepo{
		append: func(context.Context, domain.BookingCreatedPayload) (*domain.Event, error) {
			t.Fatal("append called for malformed slot")
			return nil, nil
		},
	}

	_, err := usecase.NewBookingUsecase(repo).CreateBooking(context.Background(), "user-1", "next tuesday")
	if !errors.Is(err, usecase.ErrInvalidSlot) {
		t.Errorf("err = %v, want ErrInvalidSlot", err)
	}
}

func TestListBookings_ReturnsRepoView(t *testing.T) {
	want := []*domain.Booking{
		{ID: "b-1", UserID: "user-1", Slot: "2026-09-01T10:00:00Z"},
		{ID: "b-2", UserID: "user-1", Slot: "2026-09-02T10:00:00Z"},
	}
	repo := &fakeBookingRepo{
		listByUser: func(_ context.Context, userID string) ([]*domain.Booking, error) {
			if userID != "user-1" {
				t.Errorf("listed for %q, want user-1", userID)
			}
			return want, nil
		},
	}

	got, err := usecase.NewBookingUsecase(repo).ListBookings(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "b-1" || got[1].ID != "b-2" {
		t.Errorf("bookings = %+v, want %+v", got, want)
	}
}
