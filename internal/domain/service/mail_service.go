package service

import "context"

// MailMessage is a single outbound email. HTML may be empty for plain-text
// mails; Text is the plain fallback when both are set.
type MailMessage struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// MailService abstracts the SMTP transport. Send failures surface as plain
// errors; callers decide between rollback (registration) and failure
// isolation (daily cycle).
type MailService interface {
	Send(ctx context.Context, msg MailMessage) error
}
