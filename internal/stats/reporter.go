// Package stats periodically refreshes gauges that need a database query.
package stats

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
)

// UserCounter is satisfied by the postgres UserRepository.
type UserCounter interface {
	Count(ctx context.Context) (int64, error)
}

// Reporter sets the registered-users gauge on a cron schedule.
type Reporter struct {
	users    UserCounter
	gauge    prometheus.Gauge
	schedule cron.Schedule
	logger   *slog.Logger
	now      func() time.Time
}

// NewReporter parses a standard five-field cron expression.
func NewReporter(users UserCounter, gauge prometheus.Gauge, cronExpr string, logger *slog.Logger) (*Reporter, error) {
	sched, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, fmt.Errorf("parse stats cron %q: %w", cronExpr, err)
	}
	return &Reporter{
		users:    users,
		gauge:    gauge,
		schedule: sched,
		logger:   logger.With("component", "stats"),
		now:      time.Now,
	}, nil
}

// Start refreshes once immediately, then on every cron tick until ctx ends.
func (r *Reporter) Start(ctx context.Context) {
	r.logger.Info("stats reporter started")
	r.Refresh(ctx)

	for {
		next := r.schedule.Next(r.now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			r.logger.Info("stats reporter shut down")
			return
		case <-timer.C:
			r.Refresh(ctx)
		}
	}
}

func (r *Reporter) Refresh(ctx context.Context) {
	n, err := r.users.Count(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "count users", "error", err)
		return
	}
	r.gauge.Set(float64(n))
}
