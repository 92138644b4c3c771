package notify

import (
	"context"

	"github.com/sirupsen/logrus"

	"writers-api/internal/domain"
)

// Notifier delivers the "verify your email" message to a user.
type Notifier interface {
	SendVerification(ctx context.Context, user *domain.User, link string) error
}

// LogNotifier writes verification links to the log instead of mailing them.
// It is used when no SMTP server is configured.
type LogNotifier struct {
	logger logrus.FieldLogger
}

func NewLogNotifier(logger logrus.FieldLogger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendVerification(ctx context.Context, user *domain.User, link string) error {
	n.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
		"link":    link,
	}).Info("verification link (mail disabled)")
	return nil
}
