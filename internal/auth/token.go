package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the token lifetime used when none is configured.
const DefaultTokenTTL = 24 * time.Hour

// TokenCodec signs and verifies HS256 bearer tokens.
//
// The signed payload carries exactly five claims: sub (integer user ID),
// email, role, iat, and exp. Verification is strict: a payload missing any
// of them, or carrying them with the wrong type, is rejected as malformed
// rather than coerced.
//
// The key and TTL are process-wide configuration, injected once and never
// mutated, so the codec is safe for concurrent use.
type TokenCodec struct {
	key []byte
	ttl time.Duration
}

// NewTokenCodec creates a codec with the given signing key and default TTL.
// A zero or negative TTL falls back to DefaultTokenTTL.
func NewTokenCodec(key []byte, ttl time.Duration) *TokenCodec {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenCodec{key: key, ttl: ttl}
}

// Sign issues a signed token for the principal using the configured TTL.
func (c *TokenCodec) Sign(p Principal) (string, error) {
	return c.SignWithTTL(p, c.ttl)
}

// SignWithTTL issues a signed token with an explicit lifetime.
// A negative TTL produces an already-expired token; exp is always iat+ttl.
func (c *TokenCodec) SignWithTTL(p Principal, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   p.SubjectID,
		"email": p.Email,
		"role":  string(p.Role),
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify validates a token and returns the embedded principal.
//
// It fails with ErrTokenMalformed for structural problems (wrong segment
// count, bad encoding, wrong claim shape), ErrTokenSignatureInvalid when the
// signature does not match the key (including alg-substitution attempts),
// and ErrTokenExpired when exp is in the past.
func (c *TokenCodec) Verify(tokenString string) (Principal, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	token, err := parser.Parse(tokenString, func(_ *jwt.Token) (any, error) {
		return c.key, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return Principal{}, fmt.Errorf("%w: %w", ErrTokenMalformed, err)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
			return Principal{}, ErrTokenSignatureInvalid
		case errors.Is(err, jwt.ErrTokenExpired):
			return Principal{}, ErrTokenExpired
		default:
			return Principal{}, fmt.Errorf("verifying token: %w", err)
		}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Principal{}, ErrTokenMalformed
	}

	return principalFromClaims(claims)
}

// Decode parses a token without checking signature or expiry.
// It never fails: any malformed input reports ok=false. The result must not
// be used for authorisation decisions — it is for inspection only.
func Decode(tokenString string) (p Principal, ok bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return Principal{}, false
	}

	p, err := principalFromClaims(claims)
	if err != nil {
		return Principal{}, false
	}
	return p, true
}

// IsExpired reports whether a token's exp claim is in the past.
// known is false when the token cannot be decoded or lacks a numeric exp
// claim. The signature is not checked.
func IsExpired(tokenString string) (expired, known bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return false, false
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return false, false
	}
	return time.Now().After(time.Unix(int64(exp), 0)), true
}

// principalFromClaims converts a dynamically shaped payload into a Principal.
// All five claims must be present with the declared types; any deviation is
// ErrTokenMalformed.
func principalFromClaims(claims jwt.MapClaims) (Principal, error) {
	sub, ok := claims["sub"].(float64)
	if !ok {
		return Principal{}, fmt.Errorf("%w: missing or non-numeric sub claim", ErrTokenMalformed)
	}

	email, ok := claims["email"].(string)
	if !ok {
		return Principal{}, fmt.Errorf("%w: missing or non-string email claim", ErrTokenMalformed)
	}

	role, ok := claims["role"].(string)
	if !ok {
		return Principal{}, fmt.Errorf("%w: missing or non-string role claim", ErrTokenMalformed)
	}

	if _, ok := claims["iat"].(float64); !ok {
		return Principal{}, fmt.Errorf("%w: missing or non-numeric iat claim", ErrTokenMalformed)
	}

	if _, ok := claims["exp"].(float64); !ok {
		return Principal{}, fmt.Errorf("%w: missing or non-numeric exp claim", ErrTokenMalformed)
	}

	return Principal{
		SubjectID: int64(sub),
		Email:     email,
		Role:      Role(role),
	}, nil
}
