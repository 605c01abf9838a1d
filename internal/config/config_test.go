package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nao1215/mwsql/internal/logging"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "mwsql.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.Equal(t, "utf-8", cfg.Encoding)
	assert.Equal(t, "/public/dumps/public", cfg.MirrorDir)
	assert.Equal(t, "https://dumps.wikimedia.org/", cfg.DumpsURL)
	assert.Equal(t, ".", cfg.OutputDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	require.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("empty path", func(t *testing.T) {
		t.Parallel()

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Config{}, cfg)
	})

	t.Run("file", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "encoding: latin-1\nmirror_dir: /srv/dumps\nlog_level: debug\nlog_format: json\n")
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, Config{
			Encoding:  "latin-1",
			MirrorDir: "/srv/dumps",
			LogLevel:  "debug",
			LogFormat: "json",
		}, cfg)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()

		_, err := Load(writeConfig(t, "encoding: [utf-8\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})
}

func TestOverride(t *testing.T) {
	t.Parallel()

	base := Config{Encoding: "latin-1", OutputDir: "/tmp/a", LogLevel: "debug"}
	got := base.Override(Config{OutputDir: "/tmp/b", DumpsURL: "http://localhost/"})

	assert.Equal(t, Config{
		Encoding:  "latin-1",
		OutputDir: "/tmp/b",
		DumpsURL:  "http://localhost/",
		LogLevel:  "debug",
	}, got)
}

func TestResolve(t *testing.T) {
	t.Parallel()

	t.Run("flags win over file and defaults fill the rest", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "encoding: latin-1\nlog_level: warn\n")
		cfg, err := Resolve(path, Config{LogLevel: "error"})
		require.NoError(t, err)
		assert.Equal(t, "latin-1", cfg.Encoding)
		assert.Equal(t, "error", cfg.LogLevel)
		assert.Equal(t, "text", cfg.LogFormat)
		assert.Equal(t, "/public/dumps/public", cfg.MirrorDir)
	})

	t.Run("invalid log settings", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "log_level: loud\nlog_format: xml\n")
		_, err := Resolve(path, Config{})
		require.ErrorIs(t, err, logging.ErrInvalidLevel)
		require.ErrorIs(t, err, logging.ErrInvalidFormat)
	})
}
