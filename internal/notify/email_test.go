package notify

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"writers-api/internal/domain"
)

type fakeSender struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m...)
	return nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestEmailNotifier_SendVerification(t *testing.T) {
	sender := &fakeSender{}
	n := NewEmailNotifier(SMTPConfig{From: "noreply@writers.test"}, quietLogger())
	n.sender = sender

	user := &domain.User{ID: 1, Name: "Alice", Email: "a@x.com"}
	err := n.SendVerification(context.Background(), user, "https://w.test/email/verify/1?expires=1&signature=ab")
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, []string{"noreply@writers.test"}, msg.GetHeader("From"))
	assert.Equal(t, []string{"Verify Email Address"}, msg.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "a@x.com")
	assert.Contains(t, buf.String(), "/email/verify/1")
}

func TestEmailNotifier_Errors(t *testing.T) {
	n := NewEmailNotifier(SMTPConfig{From: "noreply@writers.test"}, quietLogger())
	n.sender = &fakeSender{err: errors.New("smtp down")}

	err := n.SendVerification(context.Background(), &domain.User{Email: "a@x.com"}, "link")
	assert.ErrorContains(t, err, "smtp down")

	err = n.SendVerification(context.Background(), &domain.User{}, "link")
	assert.EqualError(t, err, "empty recipient")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = n.SendVerification(ctx, &domain.User{Email: "a@x.com"}, "link")
	assert.ErrorIs(t, err, context.Canceled)
}

type stalledSender struct {
	release chan struct{}
}

func (s stalledSender) DialAndSend(...*gomail.Message) error {
	<-s.release
	return nil
}

func TestEmailNotifier_StalledServerHonoursDeadline(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	n := NewEmailNotifier(SMTPConfig{From: "noreply@writers.test"}, quietLogger())
	n.sender = stalledSender{release: release}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := n.SendVerification(ctx, &domain.User{Email: "a@x.com"}, "link")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)

	err := NewLogNotifier(l).SendVerification(context.Background(), &domain.User{ID: 5, Email: "a@x.com"}, "https://link")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "https://link")
	assert.Contains(t, buf.String(), "user_id=5")
}
