// Command mwsql inspects, previews, exports and loads MediaWiki SQL dump files.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/nao1215/mwsql/internal/config"
	"github.com/nao1215/mwsql/internal/logging"
)

const version = "0.1.0"

// CLI defines the command-line interface for mwsql.
type CLI struct {
	// Global flags
	Config    string `name:"config" short:"c" help:"YAML configuration file" type:"path" env:"MWSQL_CONFIG"`
	Encoding  string `name:"encoding" short:"e" help:"Text encoding of dump files (default utf-8)"`
	LogLevel  string `name:"log-level" help:"Log level: debug, info, warn or error"`
	LogFormat string `name:"log-format" help:"Log format: text or json"`

	Info    InfoCmd          `cmd:"" help:"Show the database, table, columns and size of dumps"`
	Head    HeadCmd          `cmd:"" help:"Print the first lines of a (possibly compressed) file"`
	Preview PreviewCmd       `cmd:"" help:"Print the column names and the first rows of a dump"`
	Export  ExportCmd        `cmd:"" help:"Export dumps to CSV, TSV, LTSV, Parquet or XLSX"`
	Fetch   FetchCmd         `cmd:"" help:"Locate or download dumps from the Wikimedia dumps site"`
	SQLite  SQLiteCmd        `cmd:"" name:"sqlite" help:"Load dumps into SQLite and run queries"`
	Version kong.VersionFlag `name:"version" help:"Print version information"`
}

// runContext carries what every command needs. It is bound into kong so
// that Run methods receive it as an argument.
type runContext struct {
	stdout io.Writer
	stderr io.Writer
	cfg    config.Config
	logger *slog.Logger
}

// newParser builds the kong parser writing help and usage to stdout and stderr.
func newParser(cli *CLI, stdout, stderr io.Writer) (*kong.Kong, error) {
	return kong.New(cli,
		kong.Name("mwsql"),
		kong.Description("Read MediaWiki SQL dump files without a database"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Writers(stdout, stderr),
		kong.Vars{"version": version},
	)
}

// run parses args, resolves the configuration and runs the selected command.
func run(args []string, stdout, stderr io.Writer) error {
	var cli CLI
	parser, err := newParser(&cli, stdout, stderr)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := config.Resolve(cli.Config, config.Config{
		Encoding:  cli.Encoding,
		LogLevel:  cli.LogLevel,
		LogFormat: cli.LogFormat,
	})
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	format, err := logging.ParseFormat(cfg.LogFormat)
	if err != nil {
		return err
	}

	return kctx.Run(&runContext{
		stdout: stdout,
		stderr: stderr,
		cfg:    cfg,
		logger: logging.New(level, format, stderr),
	})
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "mwsql: %v\n", err)
		os.Exit(1)
	}
}
