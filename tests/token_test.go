package tests

import (
	"testing"
	"time"

	"stockwatch/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret, subject string, expiresIn time.Duration) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestTokenDecodeReturnsSubject(t *testing.T) {
	svc := service.NewTokenService(testSecret)

	email, err := svc.Decode(signToken(t, testSecret, "ana@example.com", time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", email)
}

func TestTokenDecodeRejectsWrongSecret(t *testing.T) {
	svc := service.NewTokenService(testSecret)

	_, err := svc.Decode(signToken(t, "other-secret", "ana@example.com", time.Hour))
	assert.Error(t, err)
}

func TestTokenDecodeRejectsExpired(t *testing.T) {
	svc := service.NewTokenService(testSecret)

	_, err := svc.Decode(signToken(t, testSecret, "ana@example.com", -time.Minute))
	assert.Error(t, err)
}

func TestTokenDecodeRejectsGarbage(t *testing.T) {
	svc := service.NewTokenService(testSecret)

	_, err := svc.Decode("not-a-token")
	assert.Error(t, err)
}

func TestTokenDecodeRejectsMissingSubject(t *testing.T) {
	svc := service.NewTokenService(testSecret)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.Decode(signed)
	assert.Error(t, err)
}
