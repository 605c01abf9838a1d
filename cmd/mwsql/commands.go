package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/nao1215/mwsql"
	"github.com/nao1215/mwsql/domain/model"
	"github.com/nao1215/mwsql/driver"
	"github.com/nao1215/mwsql/fetch"
	"github.com/nao1215/mwsql/internal/config"
)

// errOutputWithManyDumps is returned when --output names one file for several dumps
var errOutputWithManyDumps = errors.New("--output can only be used with a single dump, use --output-dir")

// open opens a dump with the configured encoding and logger.
func (rc *runContext) open(ctx context.Context, path string) (*mwsql.Dump, error) {
	return mwsql.OpenContext(ctx, path, mwsql.NewOpenOptions().
		WithEncoding(rc.cfg.Encoding).
		WithLogger(rc.logger))
}

// InfoCmd shows dump metadata.
type InfoCmd struct {
	Dumps []string `arg:"" help:"Dump files" type:"existingfile"`
	JSON  bool     `name:"json" help:"Print metadata as JSON"`
}

type columnInfo struct {
	Name    string `json:"name"`
	SQLType string `json:"sql_type"`
	Kind    string `json:"kind"`
}

type dumpInfo struct {
	Path       string       `json:"path"`
	Database   string       `json:"database"`
	Table      string       `json:"table"`
	Size       int64        `json:"size"`
	SizeHuman  string       `json:"size_human"`
	PrimaryKey []string     `json:"primary_key"`
	Columns    []columnInfo `json:"columns"`
}

func newDumpInfo(dump *mwsql.Dump) dumpInfo {
	types := dump.SQLTypes()
	kinds := dump.Kinds()
	columns := make([]columnInfo, len(dump.Columns()))
	for i, name := range dump.Columns() {
		columns[i] = columnInfo{Name: name, SQLType: types[name], Kind: kinds[i].String()}
	}
	return dumpInfo{
		Path:       dump.Path(),
		Database:   dump.Database(),
		Table:      dump.Name(),
		Size:       dump.Size(),
		SizeHuman:  humanize.Bytes(uint64(dump.Size())), //nolint:gosec // file sizes are never negative
		PrimaryKey: dump.PrimaryKey(),
		Columns:    columns,
	}
}

func (c *InfoCmd) Run(rc *runContext) error {
	ctx := context.Background()
	infos := make([]dumpInfo, 0, len(c.Dumps))
	for _, path := range c.Dumps {
		dump, err := rc.open(ctx, path)
		if err != nil {
			return err
		}
		infos = append(infos, newDumpInfo(dump))
	}

	if c.JSON {
		enc := json.NewEncoder(rc.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	tw := tabwriter.NewWriter(rc.stdout, 0, 4, 2, ' ', 0)
	for _, info := range infos {
		fmt.Fprintf(tw, "path:\t%s\n", info.Path)
		fmt.Fprintf(tw, "database:\t%s\n", info.Database)
		fmt.Fprintf(tw, "table:\t%s\n", info.Table)
		fmt.Fprintf(tw, "size:\t%s\n", info.SizeHuman)
		fmt.Fprintf(tw, "primary key:\t%s\n", strings.Join(info.PrimaryKey, ", "))
		fmt.Fprintf(tw, "columns:\t%d\n", len(info.Columns))
		for _, col := range info.Columns {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", col.Name, col.SQLType, col.Kind)
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

// HeadCmd prints the first lines of a file.
type HeadCmd struct {
	Path  string `arg:"" help:"File to print" type:"existingfile"`
	Lines int    `name:"lines" short:"n" help:"Number of lines" default:"10"`
}

func (c *HeadCmd) Run(rc *runContext) error {
	return mwsql.HeadFile(rc.stdout, c.Path, c.Lines, rc.cfg.Encoding)
}

// PreviewCmd prints the column names and the first rows of a dump.
type PreviewCmd struct {
	Path    string `arg:"" help:"Dump file" type:"existingfile"`
	Rows    int    `name:"rows" short:"n" help:"Number of rows" default:"5"`
	Convert bool   `name:"convert" help:"Convert values to numbers where the column type allows" negatable:"" default:"true"`
}

func (c *PreviewCmd) Run(rc *runContext) error {
	dump, err := rc.open(context.Background(), c.Path)
	if err != nil {
		return err
	}
	return dump.Head(rc.stdout, c.Rows, c.Convert)
}

// ExportCmd writes dumps to files.
type ExportCmd struct {
	Dumps       []string `arg:"" help:"Dump files" type:"existingfile"`
	Output      string   `name:"output" short:"o" help:"Output file (single dump); format and compression follow its extension" type:"path"`
	OutputDir   string   `name:"output-dir" short:"d" help:"Output directory for one file per dump" type:"existingdir" default:"."`
	Format      string   `name:"format" short:"f" help:"Output format: csv, tsv, ltsv, parquet or xlsx"`
	Compression string   `name:"compression" help:"Output compression: none, gz, xz or zstd"`
	Jobs        int      `name:"jobs" short:"j" help:"Dumps exported at once" default:"4"`
}

// options returns the export options for an output path. Flags win over the extension.
func (c *ExportCmd) options(output string) (model.ExportOptions, error) {
	opts := mwsql.NewExportOptions()
	if format, ok := model.OutputFormatFromPath(output); ok {
		opts = opts.WithFormat(format)
	}
	opts = opts.WithCompression(model.CompressionTypeFromPath(output))

	if c.Format != "" {
		format, err := model.ParseOutputFormat(c.Format)
		if err != nil {
			return opts, err
		}
		opts = opts.WithFormat(format)
	}
	if c.Compression != "" {
		compression, err := model.ParseCompressionType(c.Compression)
		if err != nil {
			return opts, err
		}
		opts = opts.WithCompression(compression)
	}
	return opts, nil
}

// outputPath names the file a dump is exported to inside OutputDir.
func (c *ExportCmd) outputPath(dumpPath string) (string, error) {
	opts, err := c.options("")
	if err != nil {
		return "", err
	}
	name := model.TableFromFilePath(dumpPath) + opts.FileExtension()
	return filepath.Join(c.OutputDir, name), nil
}

func (c *ExportCmd) Run(rc *runContext) error {
	if c.Output != "" && len(c.Dumps) > 1 {
		return errOutputWithManyDumps
	}

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(max(c.Jobs, 1))
	for _, path := range c.Dumps {
		g.Go(func() error {
			output := c.Output
			if output == "" {
				var err error
				if output, err = c.outputPath(path); err != nil {
					return err
				}
			}
			opts, err := c.options(output)
			if err != nil {
				return err
			}

			dump, err := rc.open(ctx, path)
			if err != nil {
				return err
			}
			if err := dump.ExportFileContext(ctx, output, opts); err != nil {
				return err
			}
			rc.logger.Info("exported dump",
				"dump", path,
				"output", output,
				"format", opts.Format.String(),
				"compression", opts.Compression.String(),
			)
			return nil
		})
	}
	return g.Wait()
}

// FetchCmd locates or downloads dumps.
type FetchCmd struct {
	Database  string   `arg:"" help:"Wiki database, e.g. enwiki"`
	Tables    []string `arg:"" help:"Tables, e.g. page categorylinks"`
	Date      string   `name:"date" help:"Dump run date (YYYYMMDD) or latest" default:"latest"`
	Extension string   `name:"extension" help:"Dump file extension before .gz" default:"sql"`
	MirrorDir string   `name:"mirror-dir" help:"Local dump mirror root"`
	DumpsURL  string   `name:"dumps-url" help:"Base URL of the dumps site"`
	OutputDir string   `name:"output-dir" short:"d" help:"Download directory"`
}

func (c *FetchCmd) Run(rc *runContext) error {
	cfg := rc.cfg.Override(config.Config{
		MirrorDir: c.MirrorDir,
		DumpsURL:  c.DumpsURL,
		OutputDir: c.OutputDir,
	})

	opts := fetch.NewFetchOptions().
		WithMirrorDir(cfg.MirrorDir).
		WithBaseURL(cfg.DumpsURL).
		WithOutputDir(cfg.OutputDir).
		WithDate(c.Date).
		WithExtension(c.Extension).
		WithLogger(rc.logger)
	if f, ok := rc.stderr.(*os.File); ok {
		opts = opts.WithProgress(fetch.TerminalProgress(f))
	}
	fetcher := fetch.NewFetcher(opts)

	ctx := context.Background()
	var paths []string
	if len(c.Tables) == 1 {
		path, err := fetcher.Fetch(ctx, c.Database, c.Tables[0])
		if err != nil {
			return err
		}
		paths = []string{path}
	} else {
		var err error
		if paths, err = fetcher.FetchAll(ctx, c.Database, c.Tables); err != nil {
			return err
		}
	}

	for _, path := range paths {
		fmt.Fprintln(rc.stdout, path)
	}
	return nil
}

// SQLiteCmd loads dumps into SQLite. With --db the tables are written to a
// database file; with --query the dumps are loaded in memory and queried.
type SQLiteCmd struct {
	Dumps []string `arg:"" help:"Dump files or directories of dumps" type:"path"`
	DB    string   `name:"db" help:"SQLite database file to load the dumps into" type:"path"`
	Query string   `name:"query" short:"q" help:"SQL query to run, results are printed as CSV"`
}

func (c *SQLiteCmd) Run(rc *runContext) error {
	if c.DB == "" && c.Query == "" {
		return errors.New("either --db or --query is required")
	}
	ctx := context.Background()

	if c.DB != "" {
		if err := c.load(ctx, rc); err != nil {
			return err
		}
	}
	if c.Query != "" {
		return c.query(ctx, rc)
	}
	return nil
}

// load writes every dump into the database file.
func (c *SQLiteCmd) load(ctx context.Context, rc *runContext) error {
	db, err := sql.Open("sqlite", c.DB)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	for _, path := range c.Dumps {
		dump, err := rc.open(ctx, path)
		if err != nil {
			return err
		}
		inserted, err := dump.LoadSQLite(ctx, db)
		if err != nil {
			return err
		}
		rc.logger.Info("loaded dump",
			"dump", path,
			"table", dump.SQLiteTableName(),
			"rows", humanize.Comma(inserted),
		)
	}
	return nil
}

// query runs the query against the dumps loaded by the mwsql driver and
// prints the result as CSV.
func (c *SQLiteCmd) query(ctx context.Context, rc *runContext) (err error) {
	db, err := sql.Open(driver.DriverName, strings.Join(c.Dumps, ";"))
	if err != nil {
		return err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, c.Query)
	if err != nil {
		return err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return err
	}
	sink := mwsql.NewCSVSink(rc.stdout)
	defer func() {
		err = errors.Join(err, sink.Close())
	}()
	if err := sink.WriteHeader(columns); err != nil {
		return err
	}

	values := make([]any, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return err
		}
		record := make([]string, len(values))
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			record[i] = model.FormatValue(v)
		}
		if err := sink.WriteRow(record); err != nil {
			return err
		}
	}
	return rows.Err()
}
