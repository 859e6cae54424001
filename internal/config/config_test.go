package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("LISTEN_ADDR", "")
	t.Setenv("POLL_INTERVAL", "")
	t.Setenv("SKIN_DISPLAY", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 30*time.Second, cfg.PollInterval)
	assert.True(t, cfg.SkinDisplay)
	assert.Equal(t, "scoreboard", cfg.RedisChannel)
}

func TestLoad_EnvFileAndOverrides(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("OUTPUT_PATH=/obs/scoreboard.json\nSPONSOR_DISPLAY=false\nPOLL_INTERVAL=5s\n"), 0o644))

	t.Setenv("OUTPUT_PATH", "")
	t.Setenv("SPONSOR_DISPLAY", "")
	t.Setenv("POLL_INTERVAL", "10s")
	os.Unsetenv("OUTPUT_PATH")
	os.Unsetenv("SPONSOR_DISPLAY")

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, "/obs/scoreboard.json", cfg.OutputPath)
	assert.False(t, cfg.SponsorDisplay)
	assert.Equal(t, 10*time.Second, cfg.PollInterval, "environment wins over the file")
}

func TestLoad_BadValues(t *testing.T) {
	t.Setenv("SKIN_DISPLAY", "sometimes")
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorContains(t, err, "SKIN_DISPLAY")
}

func TestLoad_RejectsNonPositivePollInterval(t *testing.T) {
	for _, v := range []string{"0s", "-5s"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("SKIN_DISPLAY", "")
			t.Setenv("POLL_INTERVAL", v)
			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			assert.ErrorContains(t, err, "POLL_INTERVAL")
		})
	}
}
