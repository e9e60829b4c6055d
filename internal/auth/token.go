package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Identity is the authenticated subject for the duration of one request,
// derived from a verified bearer token. It is never persisted.
type Identity struct {
	SubjectID int
	Email     string
	Name      string
}

var (
	ErrMissingToken     = errors.New("no authentication token provided")
	ErrMalformedToken   = errors.New("malformed authentication token")
	ErrTokenExpired     = errors.New("authentication token expired")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrInvalidPayload   = errors.New("invalid token payload")
)

// Verifier signs and verifies HS256 bearer tokens with a process-wide secret.
type Verifier struct {
	secret []byte
	ttl    time.Duration
}

func NewVerifier(secret []byte, ttl time.Duration) *Verifier {
	return &Verifier{secret: secret, ttl: ttl}
}

// Issue signs a token carrying the user's identity claims.
func (v *Verifier) Issue(userID int, email, name string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"name":  name,
		"iat":   now.Unix(),
		"exp":   now.Add(v.ttl).Unix(),
	})
	return token.SignedString(v.secret)
}

// Verify validates the raw token's signature and expiry and extracts the
// identity claims. Pure function of (token, secret, current time).
func (v *Verifier) Verify(raw string) (Identity, error) {
	if raw == "" {
		return Identity{}, ErrMissingToken
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Identity{}, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Identity{}, ErrInvalidSignature
		default:
			return Identity{}, ErrMalformedToken
		}
	}
	if !token.Valid {
		return Identity{}, ErrInvalidSignature
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, ErrInvalidPayload
	}
	// The subject id must be present and numeric; email and name are carried
	// verbatim when present.
	sub, ok := claims["sub"].(float64)
	if !ok {
		return Identity{}, ErrInvalidPayload
	}
	ident := Identity{SubjectID: int(sub)}
	if email, ok := claims["email"].(string); ok {
		ident.Email = email
	}
	if name, ok := claims["name"].(string); ok {
		ident.Name = name
	}
	return ident, nil
}

// TokenFromHeader extracts the bearer token from an Authorization header.
func TokenFromHeader(header string) (string, error) {
	if header == "" {
		return "", ErrMissingToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", ErrMalformedToken
	}
	return parts[1], nil
}
