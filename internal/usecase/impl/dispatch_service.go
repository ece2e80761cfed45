package impl

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"uvalert/config"
	"uvalert/internal/domain"
	"uvalert/internal/domain/entity"
	"uvalert/internal/domain/guidance"
	"uvalert/internal/domain/repository"
	"uvalert/internal/domain/service"
	"uvalert/internal/infra/metrics"
	"uvalert/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const defaultDispatchWorkers = 4

// dispatchService implements the DispatchUsecase interface.
type dispatchService struct {
	subscriberRepo repository.SubscriberRepository
	geocodeService service.GeocodeService
	uvService      service.UVService
	tokenService   service.UnsubscribeTokenService
	mailRenderer   service.MailRenderer
	mailService    service.MailService
	metrics        *metrics.Metrics
	baseURL        string
	workers        int
	logger         *slog.Logger

	// cycleMu serializes cycles; overlapping triggers would double-send.
	cycleMu sync.Mutex
}

// DispatchServiceParams holds dependencies for dispatchService, injected by Fx.
type DispatchServiceParams struct {
	fx.In

	SubscriberRepo repository.SubscriberRepository
	GeocodeService service.GeocodeService
	UVService      service.UVService
	TokenService   service.UnsubscribeTokenService
	MailRenderer   service.MailRenderer
	MailService    service.MailService
	Metrics        *metrics.Metrics
	Config         *config.Config
	Logger         *slog.Logger
}

// NewDispatchService is the constructor for dispatchService.
func NewDispatchService(params DispatchServiceParams) usecase.DispatchUsecase {
	workers := defaultDispatchWorkers
	baseURL := ""
	if params.Config != nil {
		if params.Config.Dispatch != nil && params.Config.Dispatch.Workers > 0 {
			workers = params.Config.Dispatch.Workers
		}
		if params.Config.Mail != nil {
			baseURL = params.Config.Mail.BaseURL
		}
	}

	return &dispatchService{
		subscriberRepo: params.SubscriberRepo,
		geocodeService: params.GeocodeService,
		uvService:      params.UVService,
		tokenService:   params.TokenService,
		mailRenderer:   params.MailRenderer,
		mailService:    params.MailService,
		metrics:        params.Metrics,
		baseURL:        baseURL,
		workers:        workers,
		logger:         params.Logger,
	}
}

// TryRunCycle starts a cycle unless one is already in flight.
func (srv *dispatchService) TryRunCycle(ctx context.Context) (*entity.DispatchReport, bool, error) {
	if !srv.cycleMu.TryLock() {
		srv.logger.WarnContext(ctx, "dispatch cycle already running, skipping trigger")
		if srv.metrics != nil {
			srv.metrics.CyclesSkipped.Inc()
		}

		return nil, false, nil
	}
	defer srv.cycleMu.Unlock()

	report, err := srv.runCycleLocked(ctx)

	return report, true, err
}

// RunCycle waits for any in-flight cycle to finish, then runs one.
func (srv *dispatchService) RunCycle(ctx context.Context) (*entity.DispatchReport, error) {
	srv.cycleMu.Lock()
	defer srv.cycleMu.Unlock()

	return srv.runCycleLocked(ctx)
}

func (srv *dispatchService) runCycleLocked(ctx context.Context) (*entity.DispatchReport, error) {
	startedAt := domain.Clock().Now()

	subscribers, err := srv.subscriberRepo.ListAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list subscribers for dispatch")
	}

	srv.logger.InfoContext(ctx, "dispatch cycle started",
		slog.Int("subscribers", len(subscribers)),
		slog.Int("workers", srv.workers))

	outcomes := srv.processAll(ctx, subscribers)

	report := &entity.DispatchReport{
		Total:     len(subscribers),
		Outcomes:  outcomes,
		StartedAt: startedAt,
		Duration:  domain.Clock().Now().Sub(startedAt),
	}
	for _, outcome := range outcomes {
		if outcome.Sent {
			report.Sent++
		} else {
			report.Failed++
		}
	}

	srv.recordMetrics(report)

	srv.logger.InfoContext(ctx, "dispatch cycle finished",
		slog.Int("total", report.Total),
		slog.Int("sent", report.Sent),
		slog.Int("failed", report.Failed),
		slog.Duration("duration", report.Duration))

	return report, nil
}

type outcomeWithIndex struct {
	index   int
	outcome entity.DispatchOutcome
}

// processAll fans the subscribers out over a bounded worker pool. Outcomes
// land at their subscriber's index so the report keeps the store order.
func (srv *dispatchService) processAll(ctx context.Context, subscribers []*entity.Subscriber) []entity.DispatchOutcome {
	outcomes := make([]entity.DispatchOutcome, len(subscribers))
	if len(subscribers) == 0 {
		return outcomes
	}

	jobCh := make(chan int, len(subscribers))
	resultCh := make(chan outcomeWithIndex, len(subscribers))

	workerCount := srv.workers
	if len(subscribers) < workerCount {
		workerCount = len(subscribers)
	}

	var workerGroup sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		workerGroup.Add(1)
		go func() {
			defer workerGroup.Done()
			for idx := range jobCh {
				if ctx.Err() != nil {
					resultCh <- outcomeWithIndex{index: idx, outcome: entity.DispatchOutcome{
						SubscriberID:  subscribers[idx].ID,
						Email:         subscribers[idx].Email,
						FailureReason: "cycle canceled",
					}}

					continue
				}

				resultCh <- outcomeWithIndex{index: idx, outcome: srv.processSubscriber(ctx, subscribers[idx])}
			}
		}()
	}

	for i := range subscribers {
		jobCh <- i
	}
	close(jobCh)

	go func() {
		workerGroup.Wait()
		close(resultCh)
	}()

	for r := range resultCh {
		outcomes[r.index] = r.outcome
	}

	return outcomes
}

// processSubscriber walks one recipient through the per-cycle state machine.
// Every failure is absorbed into the outcome; nothing escapes to siblings.
func (srv *dispatchService) processSubscriber(ctx context.Context, subscriber *entity.Subscriber) (outcome entity.DispatchOutcome) {
	outcome = entity.DispatchOutcome{
		SubscriberID: subscriber.ID,
		Email:        subscriber.Email,
	}

	state := entity.DispatchPending
	defer func() {
		if r := recover(); r != nil {
			outcome.Sent = false
			outcome.FailureReason = fmt.Sprintf("panic in state %s: %v", state, r)
			srv.logger.ErrorContext(ctx, "recipient processing panicked",
				slog.String("email", subscriber.Email),
				slog.String("state", string(state)),
				slog.Any("panic", r))
		}
	}()

	// Region and UV lookups degrade internally and never fail.
	region := srv.geocodeService.Resolve(ctx, subscriber.Latitude, subscriber.Longitude)
	state = entity.DispatchResolvedRegion

	dailyMax := srv.uvService.DailyMax(ctx, subscriber.Latitude, subscriber.Longitude)
	current := srv.uvService.Current(ctx, subscriber.Latitude, subscriber.Longitude)
	state = entity.DispatchResolvedUV

	token, err := srv.tokenService.Issue(subscriber.Email)
	if err != nil {
		outcome.FailureReason = errors.Wrap(err, "issue unsubscribe token").Error()
		srv.logFailure(ctx, subscriber, state, err)

		return outcome
	}

	html, err := srv.mailRenderer.RenderAlert(service.AlertMailData{
		Region:          region,
		DailyMax:        dailyMax,
		Current:         current,
		Advisory:        selectAdvisory(dailyMax, current),
		UnsubscribeLink: srv.baseURL + "/unsubscribe?token=" + token,
	})
	if err != nil {
		outcome.FailureReason = errors.Wrap(err, "render alert mail").Error()
		srv.logFailure(ctx, subscriber, state, err)

		return outcome
	}
	state = entity.DispatchRendered

	err = srv.mailService.Send(ctx, service.MailMessage{
		To:      subscriber.Email,
		Subject: fmt.Sprintf("☀️ Alerta Diário - Índice UV (%s)", region.Display),
		HTML:    html,
	})
	if err != nil {
		outcome.FailureReason = errors.Wrap(err, "send alert mail").Error()
		srv.logFailure(ctx, subscriber, state, err)

		return outcome
	}
	state = entity.DispatchSent

	outcome.Sent = true

	return outcome
}

// selectAdvisory prefers the daily peak; the instantaneous value only
// stands in when the peak is unavailable. Neither available yields the
// distinct unknown advisory.
func selectAdvisory(dailyMax, current entity.UVReading) guidance.Advisory {
	switch {
	case dailyMax.HasValue():
		return guidance.Classify(dailyMax.Value)
	case current.HasValue():
		return guidance.Classify(current.Value)
	default:
		return guidance.Classify(nil)
	}
}

func (srv *dispatchService) logFailure(ctx context.Context, subscriber *entity.Subscriber, state entity.DispatchState, err error) {
	srv.logger.ErrorContext(ctx, "recipient dispatch failed",
		slog.String("email", subscriber.Email),
		slog.String("state", string(state)),
		slog.Any("error", err))
}

func (srv *dispatchService) recordMetrics(report *entity.DispatchReport) {
	if srv.metrics == nil {
		return
	}

	srv.metrics.DispatchCycles.Inc()
	srv.metrics.MailsSent.Add(float64(report.Sent))
	srv.metrics.MailsFailed.Add(float64(report.Failed))
	srv.metrics.CycleDuration.Observe(report.Duration.Seconds())
	srv.metrics.SubscribersTotal.Set(float64(report.Total))
}
