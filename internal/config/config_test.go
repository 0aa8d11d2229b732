package config

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	file := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(content), 0644))
	return file
}

func Test_Config_WhenFileMissing_ShouldUseDefaults(t *testing.T) {

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, LevelInfo, cfg.Logger.LogLevel)
	assert.Equal(t, "jobboard", cfg.Logger.AppName)
	assert.Empty(t, cfg.Logger.LokiURL)
	assert.Equal(t, "https://teknorix.jobsoid.com/api/v1", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, 10*time.Minute, cfg.API.LookupCacheTTL)
	assert.Equal(t, 2*time.Second, cfg.Bot.SearchDebounce)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Error(t, cfg.Bot.RequireToken())
}

func Test_Config_FileValuesShouldBeApplied(t *testing.T) {

	file := writeConfig(t, `
logger:
  log_level: DEBUG
api:
  base_url: https://jobs.example.com/api/v1
  timeout: 5s
bot:
  token: fileToken
  session_ttl: 1h
`)

	cfg, err := Load(file)
	require.NoError(t, err)

	assert.Equal(t, LevelDebug, cfg.Logger.LogLevel)
	assert.Equal(t, "https://jobs.example.com/api/v1", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, "fileToken", cfg.Bot.Token)
	assert.Equal(t, time.Hour, cfg.Bot.SessionTTL)
	assert.NoError(t, cfg.Bot.RequireToken())
}

func Test_Config_EnvironmentOverrideWorksCorrect(t *testing.T) {

	file := writeConfig(t, `
api:
  base_url: https://jobs.example.com/api/v1
bot:
  token: fileToken
`)

	t.Setenv("TG_TOKEN", "overrideToken")
	t.Setenv("API_BASE_URL", "https://override.example.com/api/v1")
	t.Setenv("API_TIMEOUT", "3s")
	t.Setenv("API_MAX_REQUESTS_PER_SECOND", "2.5")
	t.Setenv("SEARCH_DEBOUNCE", "500ms")
	t.Setenv("LOG_LEVEL", "ERROR")
	t.Setenv("SERVER_ADDR", ":9999")
	t.Setenv("LOKI_URL", "http://localhost:3100/loki/api/v1/push")

	cfg, err := Load(file)
	require.NoError(t, err)

	assert.Equal(t, "overrideToken", cfg.Bot.Token)
	assert.Equal(t, "https://override.example.com/api/v1", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, float32(2.5), cfg.API.MaxRequestsPerSecond)
	assert.Equal(t, 500*time.Millisecond, cfg.Bot.SearchDebounce)
	assert.Equal(t, LevelError, cfg.Logger.LogLevel)
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, "http://localhost:3100/loki/api/v1/push", cfg.Logger.LokiURL)
}

func Test_Config_WhenInvalid_ShouldFail(t *testing.T) {

	file := writeConfig(t, `
logger:
  log_level: LOUD
api:
  base_url: not a url
`)

	_, err := Load(file)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "LoggerConfig")
	assert.Contains(t, err.Error(), "APIConfig")
}
