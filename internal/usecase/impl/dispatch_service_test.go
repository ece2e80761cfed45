package impl

import (
	"context"
	"sync"
	"testing"
	"time"

	"uvalert/internal/domain/entity"
	"uvalert/internal/domain/guidance"
	"uvalert/internal/domain/service"
	"uvalert/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSubscribers(n int) []*entity.Subscriber {
	subs := make([]*entity.Subscriber, 0, n)
	for i := 0; i < n; i++ {
		subs = append(subs, &entity.Subscriber{
			ID:        uuid.New(),
			Email:     string(rune('a'+i)) + "@example.com",
			Latitude:  -23.55,
			Longitude: -46.63,
		})
	}

	return subs
}

func newDispatchService(repo *fakeSubscriberRepo, mailer *fakeMailService, renderer *fakeMailRenderer) usecase.DispatchUsecase {
	if renderer == nil {
		renderer = &fakeMailRenderer{}
	}

	return NewDispatchService(DispatchServiceParams{
		SubscriberRepo: repo,
		GeocodeService: &fakeGeocodeService{},
		UVService:      &fakeUVService{},
		TokenService:   &fakeTokenService{},
		MailRenderer:   renderer,
		MailService:    mailer,
		Metrics:        nil,
		Config:         testConfig(),
		Logger:         testLogger(),
	})
}

func TestRunCycle_AllSent(t *testing.T) {
	subs := testSubscribers(5)
	repo := &fakeSubscriberRepo{
		listAllFn: func(_ context.Context) ([]*entity.Subscriber, error) { return subs, nil },
	}
	mailer := &fakeMailService{}

	report, err := newDispatchService(repo, mailer, nil).RunCycle(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 5, report.Total)
	assert.Equal(t, 5, report.Sent)
	assert.Equal(t, 0, report.Failed)
	assert.Len(t, mailer.sentMessages(), 5)

	for i, outcome := range report.Outcomes {
		assert.Equal(t, subs[i].ID, outcome.SubscriberID, "outcomes keep store order")
		assert.True(t, outcome.Sent)
	}
}

func TestRunCycle_OneFailureNeverBlocksOthers(t *testing.T) {
	subs := testSubscribers(6)
	unlucky := subs[2].Email

	repo := &fakeSubscriberRepo{
		listAllFn: func(_ context.Context) ([]*entity.Subscriber, error) { return subs, nil },
	}
	mailer := &fakeMailService{
		sendFn: func(_ context.Context, msg service.MailMessage) error {
			if msg.To == unlucky {
				return errors.New("550 mailbox unavailable")
			}

			return nil
		},
	}

	report, err := newDispatchService(repo, mailer, nil).RunCycle(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 6, report.Total)
	assert.Equal(t, 5, report.Sent)
	assert.Equal(t, 1, report.Failed)

	failed := report.Outcomes[2]
	assert.False(t, failed.Sent)
	assert.Equal(t, unlucky, failed.Email)
	assert.Contains(t, failed.FailureReason, "550")
}

func TestRunCycle_EmptyStore(t *testing.T) {
	repo := &fakeSubscriberRepo{
		listAllFn: func(_ context.Context) ([]*entity.Subscriber, error) { return nil, nil },
	}

	report, err := newDispatchService(repo, &fakeMailService{}, nil).RunCycle(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, report.Total)
	assert.Equal(t, 0, report.Sent)
	assert.Equal(t, 0, report.Failed)
}

func TestRunCycle_ListFailure(t *testing.T) {
	repo := &fakeSubscriberRepo{
		listAllFn: func(_ context.Context) ([]*entity.Subscriber, error) {
			return nil, errors.New("connection reset")
		},
	}

	_, err := newDispatchService(repo, &fakeMailService{}, nil).RunCycle(context.Background())

	assert.Error(t, err)
}

func TestRunCycle_DegradedReadingsStillSend(t *testing.T) {
	subs := testSubscribers(1)
	repo := &fakeSubscriberRepo{
		listAllFn: func(_ context.Context) ([]*entity.Subscriber, error) { return subs, nil },
	}
	renderer := &fakeMailRenderer{}
	mailer := &fakeMailService{}

	svc := NewDispatchService(DispatchServiceParams{
		SubscriberRepo: repo,
		GeocodeService: &fakeGeocodeService{
			resolveFn: func(_ context.Context, lat, lon float64) entity.RegionLabel {
				return entity.RegionLabel{Display: "-23.5500, -46.6300", RawCoordinates: true}
			},
		},
		UVService: &fakeUVService{
			dailyMaxFn: func(_ context.Context, _, _ float64) entity.UVReading {
				return entity.UVReading{Source: entity.UVSourceNone}
			},
			currentFn: func(_ context.Context, _, _ float64) entity.UVReading {
				return entity.UVReading{Source: entity.UVSourceNone}
			},
		},
		TokenService: &fakeTokenService{},
		MailRenderer: renderer,
		MailService:  mailer,
		Config:       testConfig(),
		Logger:       testLogger(),
	})

	report, err := svc.RunCycle(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.Sent, "missing data degrades the mail, it does not fail the recipient")

	alert, ok := renderer.lastAlert()
	require.True(t, ok)
	assert.Equal(t, guidance.LevelUnknown, alert.Advisory.Level)
	assert.True(t, alert.Region.RawCoordinates)
}

func TestTryRunCycle_SkipsWhileRunning(t *testing.T) {
	subs := testSubscribers(1)
	repo := &fakeSubscriberRepo{
		listAllFn: func(_ context.Context) ([]*entity.Subscriber, error) { return subs, nil },
	}

	entered := make(chan struct{})
	release := make(chan struct{})
	mailer := &fakeMailService{
		sendFn: func(_ context.Context, _ service.MailMessage) error {
			close(entered)
			<-release

			return nil
		},
	}

	svc := newDispatchService(repo, mailer, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	var firstReport *entity.DispatchReport
	go func() {
		defer wg.Done()
		firstReport, _, _ = svc.TryRunCycle(context.Background())
	}()

	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("first cycle never reached the mail transport")
	}

	// Second trigger while the first cycle is blocked mid-send.
	report, started, err := svc.TryRunCycle(context.Background())
	require.NoError(t, err)
	assert.False(t, started, "overlapping trigger must be skipped")
	assert.Nil(t, report)

	close(release)
	wg.Wait()

	require.NotNil(t, firstReport)
	assert.Equal(t, 1, firstReport.Sent)

	// Once the first cycle finished, triggers run again.
	_, started, err = svc.TryRunCycle(context.Background())
	require.NoError(t, err)
	assert.True(t, started)
}

func TestSelectAdvisory(t *testing.T) {
	high := 8.5
	low := 1.0

	tests := []struct {
		name     string
		dailyMax entity.UVReading
		current  entity.UVReading
		want     guidance.Level
	}{
		{
			name:     "daily max preferred",
			dailyMax: entity.UVReading{Value: &high, Source: entity.UVSourcePrimary},
			current:  entity.UVReading{Value: &low, Source: entity.UVSourceInstant},
			want:     guidance.LevelVeryHigh,
		},
		{
			name:     "current stands in for missing peak",
			dailyMax: entity.UVReading{Source: entity.UVSourceNone},
			current:  entity.UVReading{Value: &low, Source: entity.UVSourceInstant},
			want:     guidance.LevelLow,
		},
		{
			name:     "nothing available yields unknown",
			dailyMax: entity.UVReading{Source: entity.UVSourceNone},
			current:  entity.UVReading{Source: entity.UVSourceNone},
			want:     guidance.LevelUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, selectAdvisory(tt.dailyMax, tt.current).Level)
		})
	}
}
