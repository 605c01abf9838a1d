// Package fetch locates MediaWiki SQL dump files.
//
// On Wikimedia Cloud hosts the dumps are mounted under a local mirror and are
// used in place. Everywhere else the file is downloaded from the public dumps
// site into an output directory.
//
// Usage:
//
//	f := fetch.NewFetcher(fetch.NewFetchOptions().WithOutputDir("/tmp"))
//	path, err := f.Fetch(ctx, "simplewiki", "change_tag_def")
//	if err != nil {
//		log.Fatal(err)
//	}
//	dump, err := mwsql.Open(path)
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrNotFound is returned when the dumps site has no such file
	ErrNotFound = errors.New("fetch: dump file not found")
	// ErrDownload is returned when the dumps site answers with an error status
	ErrDownload = errors.New("fetch: download failed")
	// ErrIncompleteDownload is returned when fewer bytes than announced were received
	ErrIncompleteDownload = errors.New("fetch: incomplete download")
	// ErrInvalidName is returned for an empty database or table name
	ErrInvalidName = errors.New("fetch: database and table names must not be empty")
)

// Fetcher resolves dump files from a local mirror or the dumps site.
// A Fetcher is safe for concurrent use.
type Fetcher struct {
	opts FetchOptions
}

// NewFetcher creates a Fetcher. Without options, NewFetchOptions is used.
func NewFetcher(opts ...FetchOptions) *Fetcher {
	options := NewFetchOptions()
	if len(opts) > 0 {
		options = opts[len(opts)-1]
	}
	return &Fetcher{opts: options.normalize()}
}

// FileName returns the dump file name, e.g. "enwiki-latest-page.sql.gz".
func (f *Fetcher) FileName(database, table string) string {
	return fmt.Sprintf("%s-%s-%s.%s.gz", database, f.opts.Date, table, f.opts.Extension)
}

// URL returns the download URL of a dump file.
func (f *Fetcher) URL(database, table string) (string, error) {
	return url.JoinPath(f.opts.BaseURL, database, f.opts.Date, f.FileName(database, table))
}

// MirrorPath returns where the dump file lives under the local mirror.
func (f *Fetcher) MirrorPath(database, table string) string {
	return filepath.Join(f.opts.MirrorDir, database, f.opts.Date, f.FileName(database, table))
}

// hasMirror reports whether the local mirror root exists
func (f *Fetcher) hasMirror() bool {
	if f.opts.MirrorDir == "" {
		return false
	}
	info, err := os.Stat(f.opts.MirrorDir)
	return err == nil && info.IsDir()
}

// Fetch returns a local path to the dump of table in database.
//
// When the mirror root exists, the mirror path is returned without checking
// that the file itself exists. Otherwise the file is downloaded into the
// output directory, replacing any earlier copy.
func (f *Fetcher) Fetch(ctx context.Context, database, table string) (string, error) {
	return f.fetch(ctx, database, table, f.opts.Progress)
}

// FetchAll fetches the dumps of several tables of one database concurrently.
// The returned paths are in the order of tables. Progress lines are not
// written, since concurrent downloads would interleave them.
func (f *Fetcher) FetchAll(ctx context.Context, database string, tables []string) ([]string, error) {
	paths := make([]string, len(tables))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(f.opts.Concurrency)
	for i, table := range tables {
		g.Go(func() error {
			path, err := f.fetch(ctx, database, table, nil)
			if err != nil {
				return err
			}
			paths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

func (f *Fetcher) fetch(ctx context.Context, database, table string, progress io.Writer) (string, error) {
	if strings.TrimSpace(database) == "" || strings.TrimSpace(table) == "" {
		return "", ErrInvalidName
	}

	if f.hasMirror() {
		path := f.MirrorPath(database, table)
		f.opts.Logger.Info("using local dump mirror",
			slog.String("database", database),
			slog.String("table", table),
			slog.String("path", path),
		)
		return path, nil
	}

	source, err := f.URL(database, table)
	if err != nil {
		return "", fmt.Errorf("failed to build download url: %w", err)
	}
	dest := filepath.Join(f.opts.OutputDir, f.FileName(database, table))
	written, err := f.download(ctx, source, dest, progress)
	if err != nil {
		return "", err
	}

	f.opts.Logger.Info("downloaded dump",
		slog.String("url", source),
		slog.String("path", dest),
		slog.Int64("bytes", written),
	)
	return dest, nil
}

// download streams source into dest. The body is written to a temporary
// file next to dest, which is renamed once the byte count is verified.
func (f *Fetcher) download(ctx context.Context, source, dest string, progress io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := f.opts.Client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrDownload, source, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return 0, fmt.Errorf("%w: %s", ErrNotFound, source)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return 0, fmt.Errorf("%w: %s: %s", ErrDownload, source, resp.Status)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".*.part")
	if err != nil {
		return 0, fmt.Errorf("failed to create download file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	counter := newProgressWriter(progress, filepath.Base(dest), resp.ContentLength)
	written, err := io.Copy(io.MultiWriter(tmp, counter), resp.Body)
	counter.finish()
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, fmt.Errorf("%w: %s: received %d bytes", ErrIncompleteDownload, source, written)
		}
		return 0, fmt.Errorf("%w: %s: %w", ErrDownload, source, err)
	}
	if resp.ContentLength > 0 && written != resp.ContentLength {
		return 0, fmt.Errorf("%w: %s: received %d bytes, expected %d",
			ErrIncompleteDownload, source, written, resp.ContentLength)
	}

	if err := tmp.Sync(); err != nil {
		return 0, fmt.Errorf("failed to sync download file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("failed to close download file: %w", err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		_ = os.Remove(tmpName)
		committed = true
		return 0, fmt.Errorf("failed to move download into place: %w", err)
	}
	committed = true
	return written, nil
}
