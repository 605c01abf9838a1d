package mwsql

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0600)
}

func TestHeadFile(t *testing.T) {
	t.Parallel()

	want := []string{
		"-- MySQL dump 10.18  Distrib 10.3.27-MariaDB, for debian-linux-gnu (x86_64)",
		"--",
		"-- Host: 10.64.32.82    Database: simplewiki",
		"-- ------------------------------------------------------",
		"-- Server version\t10.4.19-MariaDB-log",
		"",
		"/*!40101 SET @OLD_CHARACTER_SET_CLIENT=@@CHARACTER_SET_CLIENT */;",
		"/*!40101 SET @OLD_CHARACTER_SET_RESULTS=@@CHARACTER_SET_RESULTS */;",
		"/*!40101 SET @OLD_COLLATION_CONNECTION=@@COLLATION_CONNECTION */;",
		"/*!40101 SET NAMES utf8mb4 */;",
	}

	for _, path := range []string{testfileSQL, testfileSQLGZ} {
		t.Run(path, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			require.NoError(t, HeadFile(&buf, path, 10, ""))
			assert.Equal(t, want, strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n"))
		})
	}

	t.Run("fewer lines than requested", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		require.NoError(t, HeadFile(&buf, noInsertSQL, 1000, "utf-8"))
		assert.Equal(t, 9, strings.Count(buf.String(), "\n"))
	})

	t.Run("zero lines", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		require.NoError(t, HeadFile(&buf, testfileSQL, 0, ""))
		assert.Empty(t, buf.String())
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		err := HeadFile(&bytes.Buffer{}, "testdata/missing.sql", 10, "")
		assert.ErrorIs(t, err, ErrFileNotFound)
	})
}
