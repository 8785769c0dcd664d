package utils

import (
	"testing"
	"time"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendnest_backend/internal/config"
	"trendnest_backend/internal/models"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test_secret", Expiry: 30 * time.Minute}
}

func TestJWTRoundTrip(t *testing.T) {
	user := &models.User{ID: gocql.TimeUUID(), Email: "alice@trendnest.shop"}

	token, err := GenerateJWT(user, testJWTConfig())
	require.NoError(t, err)

	email, err := ParseJWT(token, testJWTConfig())
	require.NoError(t, err)
	assert.Equal(t, "alice@trendnest.shop", email)
}

func TestJWTWrongSecret(t *testing.T) {
	user := &models.User{ID: gocql.TimeUUID(), Email: "alice@trendnest.shop"}

	token, err := GenerateJWT(user, testJWTConfig())
	require.NoError(t, err)

	_, err = ParseJWT(token, config.JWTConfig{Secret: "autre_secret", Expiry: 30 * time.Minute})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTExpired(t *testing.T) {
	user := &models.User{ID: gocql.TimeUUID(), Email: "bob@trendnest.shop"}
	cfg := config.JWTConfig{Secret: "test_secret", Expiry: -1 * time.Minute}

	token, err := GenerateJWT(user, cfg)
	require.NoError(t, err)

	_, err = ParseJWT(token, cfg)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseJWTGarbage(t *testing.T) {
	_, err := ParseJWT("pas.un.token", testJWTConfig())
	assert.ErrorIs(t, err, ErrInvalidToken)
}
