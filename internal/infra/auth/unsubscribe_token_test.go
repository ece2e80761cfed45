package auth

import (
	"testing"
	"time"

	"uvalert/config"
	"uvalert/internal/domain"
	domainerrors "uvalert/internal/domain/errors"

	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*unsubscribeTokenService, *clockwork.FakeClock) {
	t.Helper()

	fake := clockwork.NewFakeClockAt(time.Date(2026, 3, 10, 11, 30, 0, 0, time.UTC))
	domain.SetClock(fake)
	t.Cleanup(func() { domain.SetClock(nil) })

	svc, err := NewUnsubscribeTokenService(&config.Config{
		Unsubscribe: &config.UnsubscribeConfig{
			Secret: "test-secret",
			TTL:    7 * 24 * time.Hour,
		},
	})
	require.NoError(t, err)

	concrete, ok := svc.(*unsubscribeTokenService)
	require.True(t, ok)

	return concrete, fake
}

func TestIssueAndVerify(t *testing.T) {
	svc, _ := newTestService(t)

	token, err := svc.Issue("user@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	email, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", email)
}

func TestVerify_JustBeforeExpiry(t *testing.T) {
	svc, fake := newTestService(t)

	token, err := svc.Issue("user@example.com")
	require.NoError(t, err)

	fake.Advance(7*24*time.Hour - time.Second)

	email, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", email)
}

func TestVerify_ExpiredToken(t *testing.T) {
	svc, fake := newTestService(t)

	token, err := svc.Issue("user@example.com")
	require.NoError(t, err)

	fake.Advance(7*24*time.Hour + time.Minute)

	_, err = svc.Verify(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrTokenExpired), "expired tokens report expiry, not generic invalidity")
}

func TestVerify_TamperedToken(t *testing.T) {
	svc, _ := newTestService(t)

	token, err := svc.Issue("user@example.com")
	require.NoError(t, err)

	// Flip a character in the signature segment.
	tampered := []byte(token)
	last := len(tampered) - 1
	if tampered[last] == 'A' {
		tampered[last] = 'B'
	} else {
		tampered[last] = 'A'
	}

	_, err = svc.Verify(string(tampered))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrTokenInvalid))
	assert.False(t, errors.Is(err, domainerrors.ErrTokenExpired))
}

func TestVerify_GarbageToken(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Verify("not-a-token")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrTokenInvalid))
}

func TestNewUnsubscribeTokenService_RequiresSecret(t *testing.T) {
	_, err := NewUnsubscribeTokenService(&config.Config{
		Unsubscribe: &config.UnsubscribeConfig{},
	})
	assert.Error(t, err)
}
