package helpers

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestSessionTokens_RoundTrip(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := NewSessionTokens("secret", WithClock(fixedClock(now)))

	tok, exp, err := s.Issue("user-1")
	require.NoError(t, err)
	assert.Equal(t, now.Add(DefaultSessionTTL), exp)
	assert.Equal(t, DefaultSessionTTL, s.TTL())

	uid, err := s.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", uid)
}

func TestSessionTokens_Expiry(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	issuer := NewSessionTokens("secret", WithClock(fixedClock(now)), WithTTL(time.Hour))
	tok, _, err := issuer.Issue("user-1")
	require.NoError(t, err)

	justBefore := NewSessionTokens("secret", WithClock(fixedClock(now.Add(59*time.Minute))))
	_, err = justBefore.Verify(tok)
	assert.NoError(t, err)

	after := NewSessionTokens("secret", WithClock(fixedClock(now.Add(61*time.Minute))))
	_, err = after.Verify(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
	var ite *InvalidTokenError
	require.True(t, errors.As(err, &ite))
	assert.Equal(t, "expired", ite.Reason)
}

func TestSessionTokens_Rejects(t *testing.T) {
	s := NewSessionTokens("secret")
	tok, _, err := s.Issue("user-1")
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)

	noneTok, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"uid": "user-1", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"uid": "user-1"}).SignedString([]byte("secret"))
	require.NoError(t, err)

	cases := map[string]string{
		"empty":        "",
		"garbage":      "not-a-token",
		"tampered":     parts[0] + "." + parts[1] + "." + parts[2] + "x",
		"other secret": mustIssue(t, NewSessionTokens("other")),
		"alg none":     noneTok,
		"no subject":   noSubject,
		"no expiry":    noExpiry,
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := s.Verify(tok)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestSessionTokens_IssueRequiresUser(t *testing.T) {
	_, _, err := NewSessionTokens("secret").Issue("")
	assert.Error(t, err)
}

func mustIssue(t *testing.T, s *SessionTokens) string {
	t.Helper()
	tok, _, err := s.Issue("user-1")
	require.NoError(t, err)
	return tok
}
