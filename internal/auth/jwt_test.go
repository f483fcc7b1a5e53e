package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	svc := NewTokenService("segredo", time.Hour, "rog-store")

	token, exp, err := svc.Issue("cust-1", "dra.ana@clinica.com", true)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := svc.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "cust-1", claims.CustomerID)
	assert.True(t, claims.IsAdmin)
}

func TestParseRejectsOtherSecret(t *testing.T) {
	token, _, err := NewTokenService("a", time.Hour, "rog-store").Issue("cust-1", "x@y.com", false)
	require.NoError(t, err)

	_, err = NewTokenService("b", time.Hour, "rog-store").Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseExpired(t *testing.T) {
	svc := NewTokenService("segredo", time.Hour, "rog-store")
	svc.ttl = -time.Minute

	token, _, err := svc.Issue("cust-1", "x@y.com", false)
	require.NoError(t, err)

	_, err = svc.Parse(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("membrana123")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "membrana123"))
	assert.False(t, CheckPassword(hash, "errada"))
}
