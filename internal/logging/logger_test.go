package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zerolog.Level
		wantErr bool
	}{
		{"", zerolog.InfoLevel, false},
		{"debug", zerolog.DebugLevel, false},
		{"WARN", zerolog.WarnLevel, false},
		{"trace", zerolog.TraceLevel, false},
		{"loud", zerolog.NoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	log := WithComponent(NewWithWriter(&buf, zerolog.InfoLevel, FormatJSON), "engine")

	log.Debug().Msg("hidden")
	log.Info().Int("figures", 2).Msg("Engine stopped")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"component":"engine"`)
	assert.Contains(t, out, `"figures":2`)
	assert.Contains(t, out, `"message":"Engine stopped"`)
}

func TestNewWithWriterConsole(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, zerolog.DebugLevel, FormatConsole)

	log.Debug().Str("anchor", "(400,400)").Msg("Start point resolved")

	out := buf.String()
	assert.Contains(t, out, "Start point resolved")
	assert.Contains(t, out, "anchor=(400,400)")
	assert.NotContains(t, out, "\x1b[", "console output to a buffer must not be colored")
}

func TestNewToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "keepalive.log")

	log, closer, err := New(Config{Level: "info", Format: FormatJSON, File: path})
	require.NoError(t, err)
	log.Info().Msg("session started")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "session started")
}

func TestNewInvalidLevel(t *testing.T) {
	_, closer, err := New(Config{Level: "chatty"})
	assert.Error(t, err)
	assert.NoError(t, closer.Close())
}
