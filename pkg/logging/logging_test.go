package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		verbosity int
		wantLevel zerolog.Level
	}{
		{"default warn level", 0, zerolog.WarnLevel},
		{"info level", 1, zerolog.InfoLevel},
		{"debug level", 2, zerolog.DebugLevel},
		{"trace level", 3, zerolog.TraceLevel},
		{"high verbosity defaults to trace", 5, zerolog.TraceLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stateDir := t.TempDir()
			t.Setenv("DOTS_STATE_DIR", stateDir)

			SetupLogger(tt.verbosity)

			assert.Equal(t, tt.wantLevel, zerolog.GlobalLevel())
			_, err := os.Stat(filepath.Join(stateDir, "dots.log"))
			assert.NoError(t, err, "log file should be created")
		})
	}
}

func TestSetup_WritesConsoleAndFile(t *testing.T) {
	var console bytes.Buffer
	logFile := filepath.Join(t.TempDir(), "nested", "dots.log")

	setup(1, &console, logFile)
	logger := GetLogger("walker")
	logger.Info().Str("dst", "/home/me/.zshrc").Msg("copied")

	assert.Contains(t, console.String(), "copied")
	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"walker"`)
	assert.Contains(t, string(data), `"dst":"/home/me/.zshrc"`)
}

func TestSetup_UnwritableLogFileFallsBackToConsole(t *testing.T) {
	var console bytes.Buffer
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	setup(0, &console, filepath.Join(blocker, "dots.log"))
	assert.Contains(t, console.String(), "Failed to create log file")
}

func TestLogHelpers(t *testing.T) {
	var buf bytes.Buffer
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = zerolog.New(&buf)

	LogCommand("install", []string{"--dry-run"})
	done := LogOperationStart(GetLogger("dots"), "install")
	done()

	out := buf.String()
	assert.Contains(t, out, "Executing command")
	assert.Contains(t, out, "--dry-run")
	assert.Contains(t, out, "Operation started")
	assert.Contains(t, out, "Operation completed")
	assert.Contains(t, out, `"duration"`)
}
