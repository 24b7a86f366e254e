// Package session turns bearer tokens into profile identities.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Sternrassler/pokedex-client/pkg/profile"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultIssuer is used when a Verifier has no Issuer set.
const DefaultIssuer = "pokedex-proxy"

var (
	// ErrNoToken is returned when the request carries no bearer token.
	ErrNoToken = errors.New("missing bearer token")

	// ErrInvalidToken is returned for tokens that fail verification.
	ErrInvalidToken = errors.New("invalid token")
)

// Verifier signs and verifies HS256 session tokens.
type Verifier struct {
	Secret []byte
	Issuer string
}

// NewVerifier creates a verifier. An empty issuer falls back to DefaultIssuer.
func NewVerifier(secret, issuer string) (*Verifier, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	if issuer == "" {
		issuer = DefaultIssuer
	}
	return &Verifier{Secret: []byte(secret), Issuer: issuer}, nil
}

// Issue signs a token for id that expires after ttl.
func (v *Verifier) Issue(id profile.Identity, ttl time.Duration) (string, error) {
	if id.UID == "" {
		return "", fmt.Errorf("identity uid is required")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": id.UID,
		"iss": v.Issuer,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	if id.Email != "" {
		claims["email"] = id.Email
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.Secret)
}

// Verify parses tokenString and returns the identity it carries.
func (v *Verifier) Verify(tokenString string) (*profile.Identity, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(v.Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	email, _ := claims["email"].(string)

	return &profile.Identity{UID: sub, Email: email}, nil
}

// FromRequest verifies the request's Authorization bearer token.
func (v *Verifier) FromRequest(r *http.Request) (*profile.Identity, error) {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return nil, ErrNoToken
	}
	return v.Verify(strings.TrimSpace(token))
}
