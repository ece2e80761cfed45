// Package mail implements the SMTP transport and the mail body templates.
package mail

import (
	"context"
	"log/slog"

	"uvalert/config"
	"uvalert/internal/domain/service"

	mail "github.com/go-mail/mail"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// Params defines the parameters required for the SMTP sender
type Params struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

type smtpSender struct {
	dialer *mail.Dialer
	from   string
	logger *slog.Logger
}

// NewSender creates the SMTP-backed mail service.
func NewSender(params Params) service.MailService {
	cfg := params.Config.Mail

	return &smtpSender{
		dialer: mail.NewDialer(cfg.Host, cfg.Port, cfg.UserName, cfg.Password),
		from:   cfg.From,
		logger: params.Logger,
	}
}

func (s *smtpSender) Send(ctx context.Context, msg service.MailMessage) error {
	// The SMTP dialer has no context hook, so honor cancellation before the
	// dial rather than mid-session.
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "send aborted")
	}

	m := mail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)

	if msg.Text != "" {
		m.SetBody("text/plain", msg.Text)
	}
	if msg.HTML != "" {
		if msg.Text == "" {
			m.SetBody("text/html", msg.HTML)
		} else {
			m.AddAlternative("text/html", msg.HTML)
		}
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return errors.Wrapf(err, "smtp send to %s", msg.To)
	}

	s.logger.DebugContext(ctx, "mail sent",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject))

	return nil
}
