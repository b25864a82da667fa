package projection

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bookingengine/internal/metrics"
	"bookingengine/internal/repository"
	"github.com/robfig/cron/v3"
)

// Reconciler periodically re-derives the booking read model from the event
// log. The transactional append keeps the two in step during normal
// operation; this is the repair path for anything that slipped through
// (manual event inserts, restores from a log-only backup).
type Reconciler struct {
	bookings repository.BookingRepository
	logger   *slog.Logger
	schedule cron.Schedule
}

func NewReconciler(bookings repository.BookingRepository, logger *slog.Logger, cronExpr string) (*Reconciler, error) {
	sched, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, fmt.Errorf("parse reconcile cron %q: %w", cronExpr, err)
	}
	return &Reconciler{
		bookings: bookings,
		logger:   logger.With("component", "reconciler"),
		schedule: sched,
	}, nil
}

func (r *Reconciler) Start(ctx context.Context) {
	r.logger.Info("reconciler started", "next_run", r.schedule.Next(time.Now()))

	for {
		timer := time.NewTimer(time.Until(r.schedule.Next(time.Now())))
		select {
		case <-ctx.Done():
			timer.Stop()
			r.logger.Info("reconciler shut down")
			return
		case <-timer.C:
			r.reconcile(ctx)
		}
	}
}

func (r *Reconciler) reconcile(ctx context.Context) {
	repaired, err := r.bookings.RebuildReadModels(ctx)
	if err != nil {
		r.logger.Error("reconcile read models", "error", err)
		return
	}
	if repaired > 0 {
		metrics.ReadModelRepairsTotal.Add(float64(repaired))
		r.logger.Warn("read model drift repaired", "rows", repaired)
	}
}
