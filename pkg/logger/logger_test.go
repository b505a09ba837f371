package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-valuacion/pkg/logger"
)

func TestNewWithWriter_JSONYNivel(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter(logger.Config{Env: "production", Level: "warn"}, &buf)

	l.Info().Msg("no se emite")
	l.WithRun("run-1").Warn().Int("dropped", 2).Msg("movimientos descartados")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "run-1", entry["run_id"])
	assert.Equal(t, float64(2), entry["dropped"])
	assert.Equal(t, "movimientos descartados", entry["message"])
}

func TestEnabled(t *testing.T) {
	l := logger.NewWithWriter(logger.Config{Level: "debug"}, &bytes.Buffer{})
	assert.True(t, l.Enabled(zerolog.DebugLevel))
	assert.False(t, l.Enabled(zerolog.TraceLevel))
	assert.False(t, logger.Nop().Enabled(zerolog.ErrorLevel))
}
