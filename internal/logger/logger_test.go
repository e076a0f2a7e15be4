package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/nutriplan/internal/logger"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, logger.ParseLevel(in), in)
	}
}

func TestNew_JSON(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := logger.New(&buf, "warn", true)

	log.Info("dropped")
	log.Warn("Erro ao carregar dados do usuário", "component", "persistence")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "WARN", rec["level"])
	assert.Equal(t, "Erro ao carregar dados do usuário", rec["msg"])
	assert.Equal(t, "persistence", rec["component"])
}

func TestNew_Text(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := logger.New(&buf, "debug", false)

	log.Debug("Selecionado os dados")

	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), `msg="Selecionado os dados"`)
}
