package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		preset, configFile, envFile = "", "", ""
		logLevel, logFormat = "info", "text"
	})
}

func TestLoadConfig_FileRefinesPreset(t *testing.T) {
	resetFlags(t)
	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("frame_rate: 7\n"), 0644))

	preset, configFile = "storm", path
	cfg, err := loadConfig(&cobra.Command{})
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.FrameRate)
	assert.Equal(t, "drift", cfg.Waveform.Strategy)
	assert.Equal(t, "weather", cfg.Color.Strategy)
	assert.Equal(t, 18.0, cfg.Weather.Wind.Base)
}

func TestLoadConfig_UnknownPreset(t *testing.T) {
	resetFlags(t)
	preset = "monsoon"
	_, err := loadConfig(&cobra.Command{})
	assert.ErrorContains(t, err, "unknown preset")
}

func TestInitLogger_ReadsEnvFile(t *testing.T) {
	if _, ok := os.LookupEnv("LOG_FORMAT"); ok {
		t.Skip("LOG_FORMAT is set in the environment")
	}
	resetFlags(t)
	t.Cleanup(func() { os.Unsetenv("LOG_FORMAT") })

	envFile = filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("LOG_FORMAT=json\n"), 0644))

	var buf bytes.Buffer
	require.NoError(t, initLogger(&cobra.Command{}, &buf))
	logger.Error("hello")
	assert.True(t, strings.HasPrefix(buf.String(), "{"), buf.String())
}
