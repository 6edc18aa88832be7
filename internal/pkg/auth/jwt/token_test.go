package jwt

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken(&Payload{UserID: "u-1", Email: "a@example.com"}, testSecret, time.Hour)
	require.NoError(t, err)

	payload, err := ParseToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "u-1", payload.UserID)
	assert.Equal(t, "a@example.com", payload.Email)
	assert.Equal(t, TokenIssuer, payload.Issuer)
}

func TestParseTokenRejects(t *testing.T) {
	t.Run("wrong secret", func(t *testing.T) {
		token, err := GenerateToken(&Payload{UserID: "u-1"}, testSecret, time.Hour)
		require.NoError(t, err)

		_, err = ParseToken(token, "other")
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := GenerateToken(&Payload{UserID: "u-1"}, testSecret, -time.Minute)
		require.NoError(t, err)

		_, err = ParseToken(token, testSecret)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ParseToken("not.a.token", testSecret)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("missing user id", func(t *testing.T) {
		token, err := GenerateToken(&Payload{Email: "a@example.com"}, testSecret, time.Hour)
		require.NoError(t, err)

		_, err = ParseToken(token, testSecret)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("none algorithm", func(t *testing.T) {
		token := gojwt.NewWithClaims(gojwt.SigningMethodNone, &Payload{UserID: "u-1"})
		signed, err := token.SignedString(gojwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = ParseToken(signed, testSecret)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})
}

func TestBearerToken(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/ws", nil)
	assert.Equal(t, "", BearerToken(r))

	r.Header.Set("Authorization", "Bearer abc")
	assert.Equal(t, "abc", BearerToken(r))

	r.Header.Set("Authorization", "Basic abc")
	assert.Equal(t, "", BearerToken(r))

	q := httptest.NewRequest(http.MethodGet, "/ws?token=xyz", nil)
	assert.Equal(t, "xyz", BearerToken(q))
}
