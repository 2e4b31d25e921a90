package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   DebugLevel,
		"DEBUG":   DebugLevel,
		"warning": WarnLevel,
		"warn":    WarnLevel,
		"error":   ErrorLevel,
		"info":    InfoLevel,
		"bogus":   InfoLevel,
	}

	for input, expected := range tests {
		assert.Equal(t, expected, ParseLevel(input), input)
	}
}

func TestNew_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Config{Level: InfoLevel, Environment: "production", Output: &buf})
	require.NoError(t, err)

	log.WithComponent("lecturer-service").
		WithLecturerID("lec-1").
		WithError(errors.New("boom")).
		Info("saved")
	require.NoError(t, log.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "saved", entry["msg"])
	assert.Equal(t, "lecturer-service", entry["component"])
	assert.Equal(t, "lec-1", entry["lecturer_id"])
	assert.Equal(t, "boom", entry["error"])
	assert.Contains(t, entry, "timestamp")
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Config{Level: WarnLevel, Encoding: "json", Output: &buf})
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestGlobalLogger(t *testing.T) {
	previous := globalLogger
	t.Cleanup(func() { SetGlobalLogger(previous) })

	nop := NewNop()
	SetGlobalLogger(nop)
	assert.Same(t, nop, GetGlobalLogger())

	SetGlobalLogger(nil)
	assert.NotNil(t, GetGlobalLogger())
}
