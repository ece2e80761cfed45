// Package auth provides the signed-token implementation backing the
// unsubscribe links.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"uvalert/config"
	"uvalert/internal/domain"
	domainerrors "uvalert/internal/domain/errors"
	"uvalert/internal/domain/service"
)

// unsubscribeTokenService is a concrete implementation of the
// UnsubscribeTokenService interface using the JWT standard.
type unsubscribeTokenService struct {
	secret string        // Secret key for signing unsubscribe tokens.
	ttl    time.Duration // Validity window for issued tokens.
}

// NewUnsubscribeTokenService is the constructor for unsubscribeTokenService.
func NewUnsubscribeTokenService(cfg *config.Config) (service.UnsubscribeTokenService, error) {
	if cfg.Unsubscribe == nil || cfg.Unsubscribe.Secret == "" {
		return nil, errors.New("unsubscribe secret must be provided")
	}

	ttl := cfg.Unsubscribe.TTL
	if ttl <= 0 {
		ttl = time.Hour * 24 * 7
	}

	return &unsubscribeTokenService{
		secret: cfg.Unsubscribe.Secret,
		ttl:    ttl,
	}, nil
}

// Issue creates a signed opt-out token bound to the subscriber's email.
func (s *unsubscribeTokenService) Issue(email string) (string, error) {
	now := domain.Clock().Now()

	claims := jwt.MapClaims{
		"sub": email,                   // Subject (who the token is for)
		"iat": now.Unix(),              // Issued At
		"exp": now.Add(s.ttl).Unix(),   // Expiration Time
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", errors.Wrap(err, "sign unsubscribe token")
	}

	return signed, nil
}

// Verify checks the token signature and expiry and returns the bound email.
// Expired tokens and invalid ones fail distinctly so the user sees the right
// message.
func (s *unsubscribeTokenService) Verify(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return []byte(s.secret), nil
	}, jwt.WithTimeFunc(func() time.Time {
		return domain.Clock().Now()
	}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", domainerrors.ErrTokenExpired.WrapMessage(err.Error())
		}

		return "", domainerrors.ErrTokenInvalid.WrapMessage(err.Error())
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", domainerrors.ErrTokenInvalid
	}

	email, _ := claims["sub"].(string)
	if email == "" {
		return "", domainerrors.ErrTokenInvalid
	}

	return email, nil
}
