package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	t.Setenv("CARDVAULT_ENV", "")
	t.Setenv("CARDVAULT_PORT", "")
	t.Setenv("CARDVAULT_CORS_ORIGINS", "")
	t.Setenv("CARDVAULT_PROVIDER_TIMEOUT", "")

	require.True(t, IsDev())
	require.Equal(t, int64(8080), Server.Port())
	require.Equal(t, []string{"*"}, Server.CorsAllowedOrigins())
	require.Equal(t, 30*time.Second, Provider.RequestTimeout())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CARDVAULT_ENV", "production")
	t.Setenv("CARDVAULT_PORT", "9000")
	t.Setenv("CARDVAULT_CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("CARDVAULT_PROVIDER_TIMEOUT", "5s")

	require.False(t, IsDev())
	require.Equal(t, int64(9000), Server.Port())
	require.Equal(t, []string{"https://a.example", "https://b.example"}, Server.CorsAllowedOrigins())
	require.Equal(t, 5*time.Second, Provider.RequestTimeout())
}

func TestMalformedValuesFallBack(t *testing.T) {
	t.Setenv("CARDVAULT_PORT", "not-a-number")
	t.Setenv("CARDVAULT_PROVIDER_TIMEOUT", "soon")
	t.Setenv("CARDVAULT_CORS_ORIGINS", " , ,")

	require.Equal(t, int64(8080), Server.Port())
	require.Equal(t, 30*time.Second, Provider.RequestTimeout())
	require.Equal(t, []string{"*"}, Server.CorsAllowedOrigins())
}
