package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	issuer = "notekeeper"

	purposeAccess = "access"
	purposeVerify = "verify_email"
)

// ErrInvalidToken is returned for any token that fails signature, algorithm,
// expiry, issuer or purpose checks.
var ErrInvalidToken = errors.New("invalid token")

// claims is the JWT payload. Purpose separates login tokens from email
// verification tokens so one can never be used as the other.
type claims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HMAC JWTs.
type TokenIssuer struct {
	secret    []byte
	method    *jwt.SigningMethodHMAC
	accessTTL time.Duration
	verifyTTL time.Duration
	now       func() time.Time
}

// Option customises a TokenIssuer.
type Option func(*TokenIssuer)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(t *TokenIssuer) { t.now = now }
}

// NewTokenIssuer returns an issuer for the given HMAC algorithm
// (HS256, HS384 or HS512).
func NewTokenIssuer(secret, algorithm string, accessTTL, verifyTTL time.Duration, opts ...Option) (*TokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("auth.NewTokenIssuer: empty secret")
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("auth.NewTokenIssuer: unsupported algorithm %q", algorithm)
	}
	t := &TokenIssuer{
		secret:    []byte(secret),
		method:    method,
		accessTTL: accessTTL,
		verifyTTL: verifyTTL,
		now:       time.Now,
	}
	for _, o := range opts {
		o(t)
	}
	return t, nil
}

// IssueAccess returns a login token whose subject is userID, and its expiry.
func (t *TokenIssuer) IssueAccess(userID uuid.UUID) (string, time.Time, error) {
	exp := t.now().Add(t.accessTTL)
	s, err := t.sign(userID.String(), purposeAccess, exp)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth.TokenIssuer.IssueAccess: %w", err)
	}
	return s, exp, nil
}

// ParseAccess validates a login token and returns the user ID it names.
func (t *TokenIssuer) ParseAccess(token string) (uuid.UUID, error) {
	c, err := t.parse(token, purposeAccess)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed subject", ErrInvalidToken)
	}
	return id, nil
}

// IssueVerification returns an email verification token for email.
func (t *TokenIssuer) IssueVerification(email string) (string, error) {
	s, err := t.sign(email, purposeVerify, t.now().Add(t.verifyTTL))
	if err != nil {
		return "", fmt.Errorf("auth.TokenIssuer.IssueVerification: %w", err)
	}
	return s, nil
}

// ParseVerification validates an email verification token and returns the
// email address it was issued for.
func (t *TokenIssuer) ParseVerification(token string) (string, error) {
	c, err := t.parse(token, purposeVerify)
	if err != nil {
		return "", err
	}
	if c.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return c.Subject, nil
}

func (t *TokenIssuer) sign(subject, purpose string, exp time.Time) (string, error) {
	now := t.now()
	c := claims{
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	return jwt.NewWithClaims(t.method, c).SignedString(t.secret)
}

func (t *TokenIssuer) parse(token, purpose string) (*claims, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c,
		func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{t.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if c.Purpose != purpose {
		return nil, fmt.Errorf("%w: wrong purpose %q", ErrInvalidToken, c.Purpose)
	}
	return &c, nil
}
