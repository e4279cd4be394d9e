package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SDK_TOKEN", "tok")

	cfg := LoadConfig()
	require.Equal(t, "tok", cfg.Token)
	require.Equal(t, "https://api.bartab.dev", cfg.APIBaseURL)
	require.Equal(t, "wss://gateway.bartab.dev", cfg.GatewayURL)
	require.Equal(t, 1, cfg.Shards)
	require.Empty(t, cfg.StateFile)
	require.Equal(t, 30*time.Second, cfg.ReadyWait)
	require.Equal(t, "text", cfg.LogFormat)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("SDK_TOKEN", "tok")
	t.Setenv("SDK_SHARDS", "4")
	t.Setenv("SDK_READY_WAIT", "90s")
	t.Setenv("SDK_STATE_FILE", "/tmp/state.db")
	t.Setenv("LOG_FORMAT", "json")

	cfg := LoadConfig()
	require.Equal(t, 4, cfg.Shards)
	require.Equal(t, 90*time.Second, cfg.ReadyWait)
	require.Equal(t, "/tmp/state.db", cfg.StateFile)
	require.Equal(t, "json", cfg.LogFormat)
}

func TestNewRequiresToken(t *testing.T) {
	_, err := New(Config{})
	require.ErrorIs(t, err, ErrNoToken)
}
