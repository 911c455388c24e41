package api

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/xraph/fareledger/account"
)

// DefaultTokenTTL is the lifetime of issued caller tokens.
const DefaultTokenTTL = 24 * time.Hour

var (
	ErrEmptySecret        = errors.New("api: empty token secret")
	ErrNoAuthHeader       = errors.New("api: authorization header missing")
	ErrBadAuthScheme      = errors.New("api: authorization must start with Bearer")
	ErrInvalidSigningAlgo = errors.New("api: unexpected signing method")
	ErrInvalidToken       = errors.New("api: invalid token")
)

// Claims is the caller token payload. Subject carries the caller address.
type Claims struct {
	jwtlib.RegisteredClaims
}

var _ jwtlib.Claims = (*Claims)(nil)

// Caller returns the address named by the token subject.
func (c *Claims) Caller() (account.Address, error) {
	return account.ParseAddress(c.Subject)
}

// TokenManager issues and verifies HS256 caller tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager creates a token manager. A non-positive ttl uses
// DefaultTokenTTL.
func NewTokenManager(secret string, ttl time.Duration) (*TokenManager, error) {
	s := strings.TrimSpace(secret)
	if s == "" {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenManager{
		secret: []byte(s),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue returns a signed token identifying caller.
func (m *TokenManager) Issue(caller account.Address) (string, *Claims, error) {
	if caller.IsZero() {
		return "", nil, fmt.Errorf("%w: empty caller", account.ErrInvalidAddress)
	}

	now := m.now().UTC()
	claims := &Claims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   caller.String(),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwtlib.NewNumericDate(now),
		},
	}
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("api: sign token: %w", err)
	}
	return signed, claims, nil
}

// Parse verifies the signature and standard claims of token.
func (m *TokenManager) Parse(token string) (*Claims, error) {
	parser := jwtlib.NewParser(
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithTimeFunc(m.now),
	)

	claims := &Claims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(t *jwtlib.Token) (any, error) {
		if t.Method != jwtlib.SigningMethodHS256 {
			return nil, ErrInvalidSigningAlgo
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header value.
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrNoAuthHeader
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return "", ErrBadAuthScheme
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrInvalidToken
	}
	return token, nil
}
