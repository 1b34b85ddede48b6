package jwt_test

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pharmakit/pkg/jwt"
)

type roleClaims struct {
	jwt.StandardClaims
	Role string `json:"role"`
}

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := jwt.New(nil)
	assert.ErrorIs(t, err, jwt.ErrMissingSigningKey)

	_, err = jwt.NewFromString("")
	assert.ErrorIs(t, err, jwt.ErrMissingSigningKey)

	svc, err := jwt.NewFromString("secret")
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestGenerateAndVerify(t *testing.T) {
	t.Parallel()

	svc, err := jwt.NewFromString("secret")
	require.NoError(t, err)

	exp := time.Now().Add(time.Hour).Unix()
	token, err := svc.Generate(roleClaims{
		StandardClaims: jwt.StandardClaims{Subject: "u1", ExpiresAt: exp},
		Role:           "pharmacist",
	})
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)
	assert.NotContains(t, token, "=")

	t.Run("verify", func(t *testing.T) {
		var claims roleClaims
		require.NoError(t, svc.Verify(token, &claims))
		assert.Equal(t, "u1", claims.Subject)
		assert.Equal(t, "pharmacist", claims.Role)
		assert.Equal(t, exp, claims.ExpiresAt)
	})

	t.Run("wrong key", func(t *testing.T) {
		other, err := jwt.NewFromString("other")
		require.NoError(t, err)

		var claims roleClaims
		assert.ErrorIs(t, other.Verify(token, &claims), jwt.ErrInvalidSignature)
	})

	t.Run("tampered payload", func(t *testing.T) {
		parts := strings.Split(token, ".")
		parts[1] = base64.RawURLEncoding.EncodeToString([]byte(`{"role":"admin","exp":9999999999}`))

		var claims roleClaims
		assert.ErrorIs(t, svc.Verify(strings.Join(parts, "."), &claims), jwt.ErrInvalidSignature)
	})

	t.Run("nil claims", func(t *testing.T) {
		_, err := svc.Generate(nil)
		assert.ErrorIs(t, err, jwt.ErrMissingClaims)
		assert.ErrorIs(t, svc.Verify(token, nil), jwt.ErrMissingClaims)
	})
}

func TestParseValidatesExpiry(t *testing.T) {
	t.Parallel()

	svc, err := jwt.NewFromString("secret")
	require.NoError(t, err)

	token, err := svc.Generate(jwt.StandardClaims{ExpiresAt: time.Now().Add(-time.Minute).Unix()})
	require.NoError(t, err)

	var claims jwt.StandardClaims
	assert.ErrorIs(t, svc.Parse(token, &claims), jwt.ErrExpiredToken)
}

func TestDecode(t *testing.T) {
	t.Parallel()

	svc, err := jwt.NewFromString("backend-only-secret")
	require.NoError(t, err)

	token, err := svc.Generate(roleClaims{
		StandardClaims: jwt.StandardClaims{ExpiresAt: 1700000000},
		Role:           "customer",
	})
	require.NoError(t, err)

	t.Run("reads claims without the key", func(t *testing.T) {
		var claims roleClaims
		require.NoError(t, jwt.Decode(token, &claims))
		assert.Equal(t, "customer", claims.Role)
		assert.Equal(t, time.Unix(1700000000, 0), claims.Expiry())
	})

	malformed := []string{
		"",
		"abc",
		"a.b",
		"..sig",
		"!!!.e30.sig",
		base64.RawURLEncoding.EncodeToString([]byte(`{"typ":"JWT"}`)) + ".e30.sig",
		strings.Split(token, ".")[0] + ".%%%.sig",
		strings.Split(token, ".")[0] + "." + base64.RawURLEncoding.EncodeToString([]byte("not json")) + ".sig",
	}
	for _, tok := range malformed {
		var claims roleClaims
		assert.ErrorIs(t, jwt.Decode(tok, &claims), jwt.ErrInvalidToken, "token %q", tok)
	}

	assert.ErrorIs(t, jwt.Decode(token, nil), jwt.ErrMissingClaims)
}

func TestStandardClaims_ValidAt(t *testing.T) {
	t.Parallel()

	now := time.Unix(1000, 0)

	assert.NoError(t, jwt.StandardClaims{}.ValidAt(now))
	assert.NoError(t, jwt.StandardClaims{ExpiresAt: 1001}.ValidAt(now))
	assert.ErrorIs(t, jwt.StandardClaims{ExpiresAt: 1000}.ValidAt(now), jwt.ErrExpiredToken)
	assert.ErrorIs(t, jwt.StandardClaims{NotBefore: 1001}.ValidAt(now), jwt.ErrInvalidToken)
	assert.True(t, jwt.StandardClaims{}.Expiry().IsZero())
}
