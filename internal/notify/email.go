package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"writers-api/internal/domain"
)

// SMTPConfig holds mail server settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Sender delivers a composed message. *gomail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailNotifier mails verification links over SMTP.
type EmailNotifier struct {
	cfg    SMTPConfig
	sender Sender
	logger logrus.FieldLogger
}

func NewEmailNotifier(cfg SMTPConfig, logger logrus.FieldLogger) *EmailNotifier {
	return &EmailNotifier{
		cfg:    cfg,
		sender: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		logger: logger,
	}
}

func (n *EmailNotifier) SendVerification(ctx context.Context, user *domain.User, link string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(user.Email) == "" {
		return fmt.Errorf("empty recipient")
	}

	// DialAndSend takes no context, so the send is abandoned when ctx ends.
	msg := n.verificationMessage(user, link)
	done := make(chan error, 1)
	go func() { done <- n.sender.DialAndSend(msg) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send email: %w", err)
		}
	case <-ctx.Done():
		return fmt.Errorf("send email: %w", ctx.Err())
	}

	n.logger.WithField("to", user.Email).Info("verification email sent")
	return nil
}

func (n *EmailNotifier) verificationMessage(user *domain.User, link string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.From)
	m.SetAddressHeader("To", user.Email, user.Name)
	m.SetHeader("Subject", "Verify Email Address")
	m.SetBody("text/plain", fmt.Sprintf(
		"Hello %s,\n\nPlease click the link below to verify your email address.\n\n%s\n\nIf you did not create an account, no further action is required.\n",
		user.Name, link,
	))
	m.AddAlternative("text/html", fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
  <div style="max-width: 520px; margin: 0 auto; padding: 16px;">
    <h2>Hello %s,</h2>
    <p>Please click the button below to verify your email address.</p>
    <p><a href="%s" style="display:inline-block;padding:10px 18px;background:#2d3748;color:#fff;text-decoration:none;border-radius:4px;">Verify Email Address</a></p>
    <p>If you did not create an account, no further action is required.</p>
  </div>
</body>
</html>`, html.EscapeString(user.Name), html.EscapeString(link)))
	return m
}
