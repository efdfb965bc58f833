package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL is how long a session token stays valid after issuance.
const DefaultSessionTTL = 7 * 24 * time.Hour

// ErrInvalidToken is matched by every token verification failure.
var ErrInvalidToken = errors.New("invalid token")

// InvalidTokenError describes why a session token was rejected.
type InvalidTokenError struct {
	Reason string
	Err    error
}

func (e *InvalidTokenError) Error() string {
	if e.Err != nil {
		return "invalid token: " + e.Reason + ": " + e.Err.Error()
	}
	return "invalid token: " + e.Reason
}

func (e *InvalidTokenError) Unwrap() error { return e.Err }

func (e *InvalidTokenError) Is(target error) bool { return target == ErrInvalidToken }

// Claims is the signed payload of a session token.
type Claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// SessionTokens issues and verifies HMAC-signed session tokens.
// It holds no per-session state; a token is valid until its embedded expiry.
type SessionTokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// SessionOption configures SessionTokens.
type SessionOption func(*SessionTokens)

// WithClock replaces time.Now, mainly for expiry tests.
func WithClock(now func() time.Time) SessionOption {
	return func(s *SessionTokens) { s.now = now }
}

// WithTTL overrides DefaultSessionTTL.
func WithTTL(ttl time.Duration) SessionOption {
	return func(s *SessionTokens) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func NewSessionTokens(secret string, opts ...SessionOption) *SessionTokens {
	s := &SessionTokens{
		secret: []byte(secret),
		ttl:    DefaultSessionTTL,
		now:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// TTL returns the lifetime of newly issued tokens.
func (s *SessionTokens) TTL() time.Duration { return s.ttl }

// Issue signs a token for userID that expires TTL from now.
func (s *SessionTokens) Issue(userID string) (string, time.Time, error) {
	if userID == "" {
		return "", time.Time{}, errors.New("empty user id")
	}
	now := s.now()
	exp := now.Add(s.ttl)
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify returns the user id carried by token. Any failure is an *InvalidTokenError.
func (s *SessionTokens) Verify(token string) (string, error) {
	if token == "" {
		return "", &InvalidTokenError{Reason: "empty"}
	}
	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	tkn, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return "", &InvalidTokenError{Reason: tokenFailureReason(err), Err: err}
	}
	if !tkn.Valid {
		return "", &InvalidTokenError{Reason: "not valid"}
	}
	if claims.UserID == "" {
		return "", &InvalidTokenError{Reason: "missing subject"}
	}
	return claims.UserID, nil
}

func tokenFailureReason(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "expired"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "signature mismatch"
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "malformed"
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return "unverifiable"
	default:
		return "rejected"
	}
}
