package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"bookingengine/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

// AppendBookingCreated writes the event and its read-model row in one
// transaction. The events table is the source of truth; the read model is a
// projection that RebuildReadModels can always re-derive.
func (r *BookingRepository) AppendBookingCreated(ctx context.Context, payload domain.BookingCreatedPayload) (*domain.Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal booking payload: %w", err)
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	event := &domain.Event{
		ID:      uuid.NewString(),
		Type:    domain.EventBookingCreated,
		Payload: payload,
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO events (id, type, data)
		VALUES ($1, $2, $3)
		RETURNING created_at`,
		event.ID, event.Type, data,
	).Scan(&event.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("append event: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO booking_read_models (id, user_id, slot, created_at)
		VALUES ($1, $2, $3, $4)`,
		payload.BookingID, payload.UserID, payload.Slot, event.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert read model: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return event, nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Booking, error) {
	query := `
		SELECT id, user_id, slot, created_at
		FROM booking_read_models
		WHERE user_id = $1
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	bookings := []*domain.Booking{}
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.ID, &b.UserID, &b.Slot, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, &b)
	}
	return bookings, rows.Err()
}

// RebuildReadModels replays every BookingCreated event into the read-model
// table. The log is append-only, so repair is insert-only.
func (r *BookingRepository) RebuildReadModels(ctx context.Context) (int, error) {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO booking_read_models (id, user_id, slot, created_at)
		SELECT e.data ->> 'id', e.data ->> 'user_id', e.data ->> 'slot', e.created_at
		FROM events e
		WHERE e.type = $1
		ON CONFLICT (id) DO NOTHING`,
		domain.EventBookingCreated)
	if err != nil {
		return 0, fmt.Errorf("rebuild read models: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
