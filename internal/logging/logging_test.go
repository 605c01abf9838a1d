package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		want    slog.Level
		wantErr bool
	}{
		{name: "", want: slog.LevelInfo},
		{name: "debug", want: slog.LevelDebug},
		{name: "INFO", want: slog.LevelInfo},
		{name: "warn", want: slog.LevelWarn},
		{name: "warning", want: slog.LevelWarn},
		{name: " error ", want: slog.LevelError},
		{name: "trace", want: slog.LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseLevel(tt.name)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidLevel)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	got, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatText, got)

	got, err = ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, got)
	assert.Equal(t, "json", got.String())
	assert.Equal(t, "text", FormatText.String())

	_, err = ParseFormat("yaml")
	require.ErrorIs(t, err, ErrInvalidFormat)
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("text", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := New(slog.LevelInfo, FormatText, &buf)
		logger.Debug("hidden")
		logger.Info("opened dump", slog.String("table", "page"))

		out := buf.String()
		assert.NotContains(t, out, "hidden")
		assert.Contains(t, out, `msg="opened dump"`)
		assert.Contains(t, out, "table=page")
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := New(slog.LevelDebug, FormatJSON, &buf)
		logger.Debug("scanned metadata", slog.Int("columns", 4))

		var record map[string]any
		require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &record))
		assert.Equal(t, "scanned metadata", record["msg"])
		assert.Equal(t, "DEBUG", record["level"])
		assert.EqualValues(t, 4, record["columns"])
		assert.NotEmpty(t, record["time"])
	})
}

func TestDiscard(t *testing.T) {
	t.Parallel()

	logger := Discard()
	assert.False(t, logger.Enabled(t.Context(), slog.LevelError))
}
