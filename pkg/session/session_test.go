package session

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Sternrassler/pokedex-client/pkg/profile"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVerifier(t *testing.T) *Verifier {
	t.Helper()
	v, err := NewVerifier("test-secret", "")
	require.NoError(t, err)
	return v
}

func TestNewVerifier(t *testing.T) {
	_, err := NewVerifier("", "x")
	assert.Error(t, err)

	v, err := NewVerifier("s", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultIssuer, v.Issuer)
}

func TestIssueAndVerify(t *testing.T) {
	v := newTestVerifier(t)

	token, err := v.Issue(profile.Identity{UID: "ash", Email: "ash@example.com"}, time.Hour)
	require.NoError(t, err)

	id, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "ash", id.UID)
	assert.Equal(t, "ash@example.com", id.Email)
}

func TestIssue_RequiresUID(t *testing.T) {
	v := newTestVerifier(t)
	_, err := v.Issue(profile.Identity{}, time.Hour)
	assert.Error(t, err)
}

func TestVerify_Rejects(t *testing.T) {
	v := newTestVerifier(t)
	other, err := NewVerifier("other-secret", "")
	require.NoError(t, err)
	foreign, err := NewVerifier("test-secret", "someone-else")
	require.NoError(t, err)

	expired, err := v.Issue(profile.Identity{UID: "ash"}, -time.Minute)
	require.NoError(t, err)
	wrongKey, err := other.Issue(profile.Identity{UID: "ash"}, time.Hour)
	require.NoError(t, err)
	wrongIssuer, err := foreign.Issue(profile.Identity{UID: "ash"}, time.Hour)
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "ash",
		"iss": DefaultIssuer,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	noneToken, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noSub := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": DefaultIssuer,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	noSubToken, err := noSub.SignedString(v.Secret)
	require.NoError(t, err)

	tests := map[string]string{
		"expired":      expired,
		"wrong key":    wrongKey,
		"wrong issuer": wrongIssuer,
		"alg none":     noneToken,
		"no subject":   noSubToken,
		"garbage":      "not.a.token",
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestFromRequest(t *testing.T) {
	v := newTestVerifier(t)
	token, err := v.Issue(profile.Identity{UID: "misty"}, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	id, err := v.FromRequest(req)
	require.NoError(t, err)
	assert.Equal(t, "misty", id.UID)
	assert.Empty(t, id.Email)

	for _, header := range []string{"", "Bearer", "Bearer   ", "Basic abc"} {
		req := httptest.NewRequest("GET", "/profile", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		_, err := v.FromRequest(req)
		assert.ErrorIs(t, err, ErrNoToken, "header %q", header)
	}
}
