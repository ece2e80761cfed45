package impl

import (
	"context"
	"sync"

	"uvalert/internal/domain/entity"
	"uvalert/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Hand-rolled fakes for the domain ports. Function fields override behavior
// per test; call records are mutex-protected because the dispatch cycle
// exercises them from multiple workers.

type fakeSubscriberRepo struct {
	mu sync.Mutex

	createFn      func(ctx context.Context, s *entity.Subscriber) error
	findByEmailFn func(ctx context.Context, email string) (*entity.Subscriber, error)
	deleteFn      func(ctx context.Context, id uuid.UUID) error
	listAllFn     func(ctx context.Context) ([]*entity.Subscriber, error)

	created []*entity.Subscriber
	deleted []uuid.UUID
}

func (f *fakeSubscriberRepo) Create(ctx context.Context, s *entity.Subscriber) error {
	f.mu.Lock()
	f.created = append(f.created, s)
	f.mu.Unlock()

	if f.createFn != nil {
		return f.createFn(ctx, s)
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}

	return nil
}

func (f *fakeSubscriberRepo) FindByEmail(ctx context.Context, email string) (*entity.Subscriber, error) {
	if f.findByEmailFn != nil {
		return f.findByEmailFn(ctx, email)
	}

	return nil, errors.New("findByEmailFn not set")
}

func (f *fakeSubscriberRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	f.deleted = append(f.deleted, id)
	f.mu.Unlock()

	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}

	return nil
}

func (f *fakeSubscriberRepo) ListAll(ctx context.Context) ([]*entity.Subscriber, error) {
	if f.listAllFn != nil {
		return f.listAllFn(ctx)
	}

	return nil, nil
}

func (f *fakeSubscriberRepo) deletedIDs() []uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]uuid.UUID(nil), f.deleted...)
}

type fakeGeocodeService struct {
	resolveFn func(ctx context.Context, lat, lon float64) entity.RegionLabel

	mu       sync.Mutex
	resolves int
}

func (f *fakeGeocodeService) Resolve(ctx context.Context, lat, lon float64) entity.RegionLabel {
	f.mu.Lock()
	f.resolves++
	f.mu.Unlock()

	if f.resolveFn != nil {
		return f.resolveFn(ctx, lat, lon)
	}

	return entity.RegionLabel{Display: "Testópolis – TS"}
}

func (f *fakeGeocodeService) resolveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.resolves
}

type fakeUVService struct {
	dailyMaxFn func(ctx context.Context, lat, lon float64) entity.UVReading
	currentFn  func(ctx context.Context, lat, lon float64) entity.UVReading
	inspectFn  func(ctx context.Context, lat, lon float64) (*entity.UVInspection, error)
}

func (f *fakeUVService) DailyMax(ctx context.Context, lat, lon float64) entity.UVReading {
	if f.dailyMaxFn != nil {
		return f.dailyMaxFn(ctx, lat, lon)
	}
	v := 7.5

	return entity.UVReading{Value: &v, Source: entity.UVSourcePrimary}
}

func (f *fakeUVService) Current(ctx context.Context, lat, lon float64) entity.UVReading {
	if f.currentFn != nil {
		return f.currentFn(ctx, lat, lon)
	}

	return entity.UVReading{Source: entity.UVSourceNone}
}

func (f *fakeUVService) Inspect(ctx context.Context, lat, lon float64) (*entity.UVInspection, error) {
	if f.inspectFn != nil {
		return f.inspectFn(ctx, lat, lon)
	}

	return nil, errors.New("inspectFn not set")
}

type fakeTokenService struct {
	issueFn  func(email string) (string, error)
	verifyFn func(token string) (string, error)
}

func (f *fakeTokenService) Issue(email string) (string, error) {
	if f.issueFn != nil {
		return f.issueFn(email)
	}

	return "token-" + email, nil
}

func (f *fakeTokenService) Verify(token string) (string, error) {
	if f.verifyFn != nil {
		return f.verifyFn(token)
	}

	return "", errors.New("verifyFn not set")
}

type fakeMailRenderer struct {
	alertFn        func(data service.AlertMailData) (string, error)
	confirmationFn func(data service.ConfirmationMailData) (string, error)

	mu         sync.Mutex
	alertCalls []service.AlertMailData
}

func (f *fakeMailRenderer) RenderAlert(data service.AlertMailData) (string, error) {
	f.mu.Lock()
	f.alertCalls = append(f.alertCalls, data)
	f.mu.Unlock()

	if f.alertFn != nil {
		return f.alertFn(data)
	}

	return "<html>alert</html>", nil
}

func (f *fakeMailRenderer) RenderConfirmation(data service.ConfirmationMailData) (string, error) {
	if f.confirmationFn != nil {
		return f.confirmationFn(data)
	}

	return "confirmation", nil
}

func (f *fakeMailRenderer) lastAlert() (service.AlertMailData, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.alertCalls) == 0 {
		return service.AlertMailData{}, false
	}

	return f.alertCalls[len(f.alertCalls)-1], true
}

type fakeMailService struct {
	sendFn func(ctx context.Context, msg service.MailMessage) error

	mu   sync.Mutex
	sent []service.MailMessage
}

func (f *fakeMailService) Send(ctx context.Context, msg service.MailMessage) error {
	if f.sendFn != nil {
		if err := f.sendFn(ctx, msg); err != nil {
			return err
		}
	}

	f.mu.Lock()
	f.sent = append(f.sent, msg)
	f.mu.Unlock()

	return nil
}

func (f *fakeMailService) sentMessages() []service.MailMessage {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]service.MailMessage(nil), f.sent...)
}
