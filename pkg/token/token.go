// Package token mints and verifies the stateless unsubscribe credential.
// Tokens are base64url(json(payload)) + "." + base64url(HMAC-SHA256(secret,
// encoded payload)); no store lookup is needed to verify one.
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	TypeBirthday    = "birthday"
	TypeAnniversary = "anniversary"
	TypeOccasion    = "occasion"

	// DefaultTTL matches the 180-day expiry of the original links.
	DefaultTTL = 180 * 24 * time.Hour

	devFallbackSecret = "dev-only-unsubscribe-secret"
)

var (
	ErrMalformed       = errors.New("unsubscribe token is malformed")
	ErrBadSignature    = errors.New("unsubscribe token signature mismatch")
	ErrExpired         = errors.New("unsubscribe token has expired")
	ErrMissingFields   = errors.New("unsubscribe token is missing required fields")
	ErrSecretRequired  = errors.New("REMINDER_UNSUBSCRIBE_SECRET must be set in production")
	errUnknownType    = errors.New("unsubscribe token has an unknown type")
)

// Payload is what a token carries. ReminderID is set only for occasion
// tokens that target a single reminder.
type Payload struct {
	CustomerID string `json:"customerId"`
	Type       string `json:"type"`
	ReminderID string `json:"reminderId,omitempty"`
	Exp        int64  `json:"exp"` // epoch millis
}

type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewService builds a signer/verifier. With an empty secret it fails closed
// when env is "production" and otherwise falls back to an insecure dev
// secret, warning loudly.
func NewService(secret, env string, logger *zap.Logger) (*Service, error) {
	if secret == "" {
		if env == "production" {
			return nil, ErrSecretRequired
		}
		logger.Warn("REMINDER_UNSUBSCRIBE_SECRET is not set; using insecure dev fallback secret",
			zap.String("env", env))
		secret = devFallbackSecret
	}
	return &Service{
		secret: []byte(secret),
		ttl:    DefaultTTL,
		now:    time.Now,
	}, nil
}

// WithTTL overrides the token lifetime.
func (s *Service) WithTTL(ttl time.Duration) *Service {
	s.ttl = ttl
	return s
}

// Sign mints a token for one customer/type pair. reminderID may be empty.
func (s *Service) Sign(customerID, typ, reminderID string) (string, error) {
	if customerID == "" {
		return "", ErrMissingFields
	}
	if !validType(typ) {
		return "", fmt.Errorf("%w: %q", errUnknownType, typ)
	}
	p := Payload{
		CustomerID: customerID,
		Type:       typ,
		ReminderID: reminderID,
		Exp:        s.now().Add(s.ttl).UnixMilli(),
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("marshal token payload: %w", err)
	}
	encoded := base64.RawURLEncoding.EncodeToString(raw)
	return encoded + "." + s.signature(encoded), nil
}

// Verify checks signature, expiry and required fields, returning the payload.
func (s *Service) Verify(tok string) (Payload, error) {
	var p Payload

	parts := strings.Split(tok, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return p, ErrMalformed
	}
	expected := s.signature(parts[0])
	if !hmac.Equal([]byte(expected), []byte(parts[1])) {
		return p, ErrBadSignature
	}

	raw, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return p, ErrMalformed
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return p, ErrMalformed
	}
	if p.CustomerID == "" || !validType(p.Type) {
		return p, ErrMissingFields
	}
	if p.Exp <= s.now().UnixMilli() {
		return p, ErrExpired
	}
	return p, nil
}

func (s *Service) signature(encodedPayload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(encodedPayload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func validType(typ string) bool {
	switch typ {
	case TypeBirthday, TypeAnniversary, TypeOccasion:
		return true
	}
	return false
}
