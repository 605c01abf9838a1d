package mwsql

import (
	"fmt"
	"io"
	"strings"
)

// HeadFile writes the first n lines of a file to w with surrounding
// whitespace removed. Compressed files are decompressed transparently.
// An empty encoding means UTF-8.
func HeadFile(w io.Writer, path string, n int, encoding string) error {
	if _, err := newValidator().validateDumpPath(path); err != nil {
		return err
	}
	if n <= 0 {
		return nil
	}

	written := 0
	for line, err := range newLineSource(path, encoding).lines() {
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, strings.TrimSpace(line)); err != nil {
			return err
		}
		written++
		if written >= n {
			return nil
		}
	}
	return nil
}
