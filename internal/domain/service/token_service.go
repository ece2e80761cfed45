package service

// UnsubscribeTokenService issues and verifies the signed, time-limited
// opt-out tokens embedded in outgoing mails. Tokens are self-contained
// capabilities: verification is purely cryptographic plus a time check,
// with no server-side token store.
type UnsubscribeTokenService interface {
	// Issue signs a token binding the given email to the current time.
	Issue(email string) (string, error)

	// Verify returns the email carried by a valid token. It fails with
	// domainerrors.ErrTokenExpired past the validity window and with
	// domainerrors.ErrTokenInvalid for tampered or malformed tokens.
	Verify(token string) (string, error)
}
