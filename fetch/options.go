package fetch

import (
	"io"
	"log/slog"
	"net/http"
)

const (
	// DefaultMirrorDir is the dump mirror root on Wikimedia Cloud hosts (PAWS, Toolforge)
	DefaultMirrorDir = "/public/dumps/public"
	// DefaultBaseURL is the public Wikimedia dumps site
	DefaultBaseURL = "https://dumps.wikimedia.org/"
	// DefaultDate selects the most recent dump run
	DefaultDate = "latest"
	// DefaultExtension is the extension of SQL dump files before compression
	DefaultExtension = "sql"
	// DefaultConcurrency is the number of downloads FetchAll runs at once
	DefaultConcurrency = 4
)

// FetchOptions configures a Fetcher.
//
// Example:
//
//	opts := fetch.NewFetchOptions().
//		WithDate("20240101").
//		WithOutputDir("/tmp/dumps")
type FetchOptions struct {
	// MirrorDir is the root of a local dump mirror. When it exists, no download happens.
	MirrorDir string
	// BaseURL is the dumps site downloads come from
	BaseURL string
	// Date is "latest" or a dump run date in YYYYMMDD form
	Date string
	// Extension is the dump file extension before ".gz"
	Extension string
	// OutputDir is the directory downloads are written to
	OutputDir string
	// Client performs the HTTP requests
	Client *http.Client
	// Progress receives a progress line while downloading. nil disables it.
	Progress io.Writer
	// Concurrency bounds the downloads FetchAll runs at once
	Concurrency int
	// Logger receives mirror hits and finished downloads
	Logger *slog.Logger
}

// NewFetchOptions creates FetchOptions with the public Wikimedia defaults.
func NewFetchOptions() FetchOptions {
	return FetchOptions{
		MirrorDir:   DefaultMirrorDir,
		BaseURL:     DefaultBaseURL,
		Date:        DefaultDate,
		Extension:   DefaultExtension,
		OutputDir:   ".",
		Client:      http.DefaultClient,
		Concurrency: DefaultConcurrency,
	}
}

// WithMirrorDir sets the local mirror root
func (o FetchOptions) WithMirrorDir(dir string) FetchOptions {
	o.MirrorDir = dir
	return o
}

// WithBaseURL sets the dumps site URL
func (o FetchOptions) WithBaseURL(baseURL string) FetchOptions {
	o.BaseURL = baseURL
	return o
}

// WithDate sets the dump run date
func (o FetchOptions) WithDate(date string) FetchOptions {
	o.Date = date
	return o
}

// WithExtension sets the dump file extension
func (o FetchOptions) WithExtension(ext string) FetchOptions {
	o.Extension = ext
	return o
}

// WithOutputDir sets the download directory
func (o FetchOptions) WithOutputDir(dir string) FetchOptions {
	o.OutputDir = dir
	return o
}

// WithClient sets the HTTP client
func (o FetchOptions) WithClient(client *http.Client) FetchOptions {
	o.Client = client
	return o
}

// WithProgress sets the writer progress lines go to
func (o FetchOptions) WithProgress(w io.Writer) FetchOptions {
	o.Progress = w
	return o
}

// WithConcurrency sets how many downloads FetchAll runs at once
func (o FetchOptions) WithConcurrency(n int) FetchOptions {
	o.Concurrency = n
	return o
}

// WithLogger sets the logger
func (o FetchOptions) WithLogger(logger *slog.Logger) FetchOptions {
	o.Logger = logger
	return o
}

// normalize fills the zero fields of o with defaults.
func (o FetchOptions) normalize() FetchOptions {
	defaults := NewFetchOptions()
	if o.BaseURL == "" {
		o.BaseURL = defaults.BaseURL
	}
	if o.Date == "" {
		o.Date = defaults.Date
	}
	if o.Extension == "" {
		o.Extension = defaults.Extension
	}
	if o.OutputDir == "" {
		o.OutputDir = defaults.OutputDir
	}
	if o.Client == nil {
		o.Client = defaults.Client
	}
	if o.Concurrency <= 0 {
		o.Concurrency = defaults.Concurrency
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}
