package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gracechapel/ministry-api/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-32-bytes-long!!!!"

var testPayload = transfer.TokenPayload{UserID: 7, Email: "pastor@church.org", Role: "pastor", Name: "Pastor John"}

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken(testSecret, testPayload, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, testPayload, claims.TokenPayload)
	assert.Equal(t, tokenIssuer, claims.Issuer)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestValidateToken_Rejects(t *testing.T) {
	valid, err := GenerateToken(testSecret, testPayload, time.Hour)
	require.NoError(t, err)

	expired, err := GenerateToken(testSecret, testPayload, -time.Minute)
	require.NoError(t, err)

	parts := strings.Split(valid, ".")
	require.Len(t, parts, 3)
	tamperedSig := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	forged, err := GenerateToken("another-secret-key-32-bytes-long!", testPayload, time.Hour)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, transfer.CustomClaims{
		TokenPayload: testPayload,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			Issuer:    tokenIssuer,
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"expired", expired},
		{"tampered signature", tamperedSig},
		{"wrong secret", forged},
		{"alg none", unsigned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateToken(testSecret, tt.token)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}
