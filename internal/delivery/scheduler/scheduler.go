// Package scheduler fires the daily dispatch cycle at a fixed wall-clock
// time in a configured timezone.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"uvalert/config"
	"uvalert/internal/delivery"
	"uvalert/internal/domain"
	"uvalert/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// Params defines the parameters required for the scheduler
type Params struct {
	fx.In

	Config   *config.Config
	Logger   *slog.Logger
	Dispatch usecase.DispatchUsecase
}

type dailyScheduler struct {
	enabled  bool
	hour     int
	minute   int
	location *time.Location
	dispatch usecase.DispatchUsecase
	logger   *slog.Logger
}

// New creates the daily trigger. The timezone must be a valid IANA name;
// a broken zone config should fail startup, not silently shift send times.
func New(params Params) (delivery.Delivery, error) {
	cfg := params.Config.Scheduler
	if cfg == nil {
		cfg = &config.SchedulerConfig{}
	}

	tz := cfg.Timezone
	if tz == "" {
		tz = "UTC"
	}

	location, err := time.LoadLocation(tz)
	if err != nil {
		return nil, errors.Wrapf(err, "load scheduler timezone %q", tz)
	}

	return &dailyScheduler{
		enabled:  cfg.Enabled,
		hour:     cfg.Hour,
		minute:   cfg.Minute,
		location: location,
		dispatch: params.Dispatch,
		logger:   params.Logger,
	}, nil
}

// Serve blocks, firing one dispatch cycle per day until the context is
// canceled. Triggers that land while a cycle is still running are skipped
// by the usecase, never run in parallel.
func (s *dailyScheduler) Serve(ctx context.Context) error {
	if !s.enabled {
		s.logger.Info("Scheduler disabled, daily dispatch must be triggered manually")
		<-ctx.Done()

		return nil
	}

	clock := domain.Clock()
	s.logger.Info("Scheduler started",
		slog.Int("hour", s.hour),
		slog.Int("minute", s.minute),
		slog.String("timezone", s.location.String()))

	for {
		now := clock.Now().In(s.location)
		next := s.nextTrigger(now)

		s.logger.Debug("Next dispatch scheduled", slog.Time("at", next))

		select {
		case <-ctx.Done():
			return nil
		case <-clock.After(next.Sub(now)):
			s.runOnce(ctx)
		}
	}
}

func (s *dailyScheduler) runOnce(ctx context.Context) {
	report, started, err := s.dispatch.TryRunCycle(ctx)
	switch {
	case err != nil:
		s.logger.Error("Scheduled dispatch cycle failed", slog.Any("error", err))
	case !started:
		s.logger.Warn("Scheduled trigger skipped, previous cycle still running")
	default:
		s.logger.Info("Scheduled dispatch cycle completed",
			slog.Int("total", report.Total),
			slog.Int("sent", report.Sent),
			slog.Int("failed", report.Failed))
	}
}

// nextTrigger returns the next hh:mm wall-clock instant strictly after now.
// Computing it per day in the configured zone keeps DST transitions right.
func (s *dailyScheduler) nextTrigger(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), s.hour, s.minute, 0, 0, s.location)
	if !next.After(now) {
		next = time.Date(now.Year(), now.Month(), now.Day()+1, s.hour, s.minute, 0, 0, s.location)
	}

	return next
}
