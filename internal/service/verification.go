package service

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"writers-api/internal/auth"
	"writers-api/internal/domain"
	"writers-api/internal/notify"
)

const defaultSendTimeout = 30 * time.Second

// VerificationMailer sends signed verification links without blocking the
// request that triggered them.
type VerificationMailer struct {
	signer   *auth.URLSigner
	notifier notify.Notifier
	baseURL  string
	logger   logrus.FieldLogger
	timeout  time.Duration
	observe  func(ok bool)
	wg       sync.WaitGroup
}

func NewVerificationMailer(signer *auth.URLSigner, notifier notify.Notifier, baseURL string, logger logrus.FieldLogger) *VerificationMailer {
	return &VerificationMailer{
		signer:   signer,
		notifier: notifier,
		baseURL:  baseURL,
		logger:   logger,
		timeout:  defaultSendTimeout,
		observe:  func(bool) {},
	}
}

// OnResult registers a callback invoked after every send attempt.
func (m *VerificationMailer) OnResult(fn func(ok bool)) {
	if fn != nil {
		m.observe = fn
	}
}

// Link returns the signed verification URL for user.
func (m *VerificationMailer) Link(userID int64) string {
	return m.signer.VerificationURL(m.baseURL, userID, time.Now())
}

// Dispatch sends in the background; failures are logged, never returned.
func (m *VerificationMailer) Dispatch(user *domain.User) {
	u := *user
	link := m.Link(u.ID)

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()

		if err := m.notifier.SendVerification(ctx, &u, link); err != nil {
			m.logger.WithError(err).WithField("user_id", u.ID).Warn("send verification failed")
			m.observe(false)
			return
		}
		m.observe(true)
	}()
}

// Wait blocks until in-flight sends finish.
func (m *VerificationMailer) Wait() {
	m.wg.Wait()
}

// WaitContext is Wait bounded by ctx. It returns ctx.Err() when sends are
// still running as ctx ends.
func (m *VerificationMailer) WaitContext(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
