package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/nutriplan/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.JSON)
	assert.Equal(t, "nutriplan.db", cfg.Database.Path)
	assert.Equal(t, "https://api.openai.com/v1/chat/completions", cfg.OpenAI.Endpoint)
	assert.Equal(t, "gpt-3.5-turbo", cfg.OpenAI.Model)
	assert.Equal(t, 0.8, cfg.OpenAI.Temperature)
	assert.Equal(t, 1.0, cfg.OpenAI.TopP)
	assert.Equal(t, 1000, cfg.OpenAI.MaxTokens)
	assert.Equal(t, 2*time.Minute, cfg.OpenAI.Timeout)
	assert.Equal(t, config.GuideConfig{Days: 7, MealTokens: 200, ListTokens: 1000, Concurrency: 3}, cfg.Guide)
	assert.Equal(t, config.TaskConfig{Enabled: true, Schedule: "0 0 3 * * *"}, cfg.Scheduler.Tasks[config.TaskSQLMaintenance])
	assert.False(t, cfg.Scheduler.Tasks[config.TaskGuideRefresh].Enabled)
	assert.Empty(t, cfg.Metrics.Addr)
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
  json: true
database:
  path: /tmp/other.db
openai:
  api_key: sk-file
  model: gpt-4o-mini
  temperature: 1.1
  timeout: 30s
guide:
  days: 3
  concurrency: 1
scheduler:
  tasks:
    guide_refresh:
      enabled: true
      schedule: "0 30 7 * * *"
metrics:
  addr: ":9090"
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.JSON)
	assert.Equal(t, "/tmp/other.db", cfg.Database.Path)
	assert.Equal(t, "sk-file", cfg.OpenAI.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(t, 1.1, cfg.OpenAI.Temperature)
	assert.Equal(t, 30*time.Second, cfg.OpenAI.Timeout)
	assert.Equal(t, 3, cfg.Guide.Days)
	assert.Equal(t, 200, cfg.Guide.MealTokens)
	assert.Equal(t, 1, cfg.Guide.Concurrency)
	assert.Equal(t, config.TaskConfig{Enabled: true, Schedule: "0 30 7 * * *"}, cfg.Scheduler.Tasks[config.TaskGuideRefresh])
	assert.Equal(t, ":9090", cfg.Metrics.Addr)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "openai:\n  api_key: sk-file\n")
	t.Setenv("NUTRIPLAN_OPENAI_API_KEY", "sk-env")
	t.Setenv("NUTRIPLAN_LOG_LEVEL", "warn")

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "sk-env", cfg.OpenAI.APIKey)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"temperature out of range", "openai:\n  temperature: 3\n"},
		{"unknown log level", "log:\n  level: verbose\n"},
		{"zero days", "guide:\n  days: 0\n"},
		{"bad endpoint", "openai:\n  endpoint: not a url\n"},
		{"enabled task without schedule", "scheduler:\n  tasks:\n    sql_maintenance:\n      enabled: true\n      schedule: \"\"\n"},
		{"malformed yaml", "log: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.LoadConfig(writeConfig(t, tt.body))
			assert.ErrorIs(t, err, config.ErrConfiguration)
		})
	}
}
