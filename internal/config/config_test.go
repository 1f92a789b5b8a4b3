package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsAndOverrides(t *testing.T) {
	t.Setenv("DATABASE_DSN", "postgres://u:p@localhost:5432/notehub")
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, 30*time.Minute, cfg.TokenTTL)

	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("TOKEN_TTL", "15m")

	cfg, err = Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddr)
	require.Equal(t, 15*time.Minute, cfg.TokenTTL)
}

func TestLoad_RequiredFields(t *testing.T) {
	t.Setenv("DATABASE_DSN", "")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}
