package security_test

import (
	"strings"
	"testing"
	"time"

	"partnerdelivery/internal/adapters/out/security"
	"partnerdelivery/internal/core/domain/model/kernel"
	"partnerdelivery/internal/core/ports"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestBcryptHasher_RoundTrip(t *testing.T) {
	// Given
	hasher := security.NewBcryptHasher(bcrypt.MinCost)

	// When
	hash, err := hasher.Hash("secret1")

	// Then
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)
	require.NoError(t, hasher.Compare(hash, "secret1"))
	require.Error(t, hasher.Compare(hash, "secret2"))
}

func TestNewJWTIssuer_ShortSecret_Fails(t *testing.T) {
	_, err := security.NewJWTIssuer("short")
	require.ErrorIs(t, err, security.ErrSecretTooShort)
}

func TestJWTIssuer_IssueThenParse(t *testing.T) {
	// Given
	issuer, err := security.NewJWTIssuer(secret)
	require.NoError(t, err)
	session := ports.Session{
		PartnerID: kernel.NewUUID(),
		Email:     "priya@example.com",
		ExpiresAt: time.Now().Add(time.Hour).UTC().Truncate(time.Second),
	}

	// When
	token, err := issuer.Issue(session)
	require.NoError(t, err)
	got, err := issuer.Parse(token)

	// Then
	require.NoError(t, err)
	assert.Equal(t, session, got)
}

func TestJWTIssuer_Parse_Rejects(t *testing.T) {
	issuer, err := security.NewJWTIssuer(secret)
	require.NoError(t, err)
	other, err := security.NewJWTIssuer(strings.Repeat("x", 32))
	require.NoError(t, err)

	expired, err := issuer.Issue(ports.Session{PartnerID: kernel.NewUUID(), ExpiresAt: time.Now().Add(-time.Hour)})
	require.NoError(t, err)
	forged, err := other.Issue(ports.Session{PartnerID: kernel.NewUUID(), ExpiresAt: time.Now().Add(time.Hour)})
	require.NoError(t, err)
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": kernel.NewUUID().String()}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	cases := map[string]string{
		"expired":   expired,
		"forged":    forged,
		"alg none":  none,
		"malformed": "not-a-token",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := issuer.Parse(token)
			assert.ErrorIs(t, err, ports.ErrInvalidSession)
		})
	}
}
