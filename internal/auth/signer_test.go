package auth

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLSigner_RoundTrip(t *testing.T) {
	t.Parallel()

	s := NewURLSigner("sign-key", time.Hour)
	now := time.Now()
	q := s.Sign(7, now)

	assert.True(t, s.Valid("/email/verify/7", q, now))
	assert.True(t, s.Valid("/email/verify/7", q, now.Add(59*time.Minute)))
	assert.False(t, s.Valid("/email/verify/7", q, now.Add(61*time.Minute)))
}

func TestURLSigner_RejectsTampering(t *testing.T) {
	t.Parallel()

	s := NewURLSigner("sign-key", time.Hour)
	now := time.Now()
	q := s.Sign(7, now)

	assert.False(t, s.Valid("/email/verify/8", q, now), "other user id")

	extended := url.Values{}
	extended.Set("expires", "9999999999")
	extended.Set("signature", q.Get("signature"))
	assert.False(t, s.Valid("/email/verify/7", extended, now), "moved expiry")

	assert.False(t, NewURLSigner("other-key", time.Hour).Valid("/email/verify/7", q, now), "other key")
	assert.False(t, s.Valid("/email/verify/7", url.Values{}, now), "missing params")

	garbage := url.Values{"expires": {q.Get("expires")}, "signature": {"zz"}}
	assert.False(t, s.Valid("/email/verify/7", garbage, now), "non-hex signature")
}

func TestURLSigner_VerificationURL(t *testing.T) {
	t.Parallel()

	s := NewURLSigner("sign-key", time.Hour)
	now := time.Now()
	link := s.VerificationURL("https://writers.example.com", 3, now)
	require.True(t, strings.HasPrefix(link, "https://writers.example.com/email/verify/3?"))

	parsed, err := url.Parse(link)
	require.NoError(t, err)
	assert.True(t, s.Valid(parsed.Path, parsed.Query(), now))
}
