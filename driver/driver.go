// Package driver provides a database/sql driver for MediaWiki SQL dumps.
//
// The driver loads every dump named in the DSN into an in-memory SQLite
// database. Each dump becomes one table named after its CREATE TABLE
// statement, with INTEGER, REAL and TEXT columns and the declared primary key.
//
// Key features:
//   - Plain and compressed dumps (gzip, bzip2, xz, zstd)
//   - Several dumps separated by semicolons, or a directory of dumps
//   - Duplicate table name validation across dumps
//
// Usage:
//
//	import _ "github.com/nao1215/mwsql/driver"
//	db, err := sql.Open("mwsql", "simplewiki-latest-change_tag_def.sql.gz")
package driver

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"modernc.org/sqlite"

	"github.com/nao1215/mwsql"
	"github.com/nao1215/mwsql/domain/model"
)

// DriverName is the name the driver is registered under
const DriverName = "mwsql"

func init() {
	sql.Register(DriverName, NewDriver())
}

// Driver implements database/sql/driver.Driver interface for dump files.
type Driver struct{}

// Connector implements database/sql/driver.Connector interface.
// The dsn field contains dump paths or directories separated by semicolons.
type Connector struct {
	driver *Driver
	dsn    string
}

// Connection implements database/sql/driver.Conn interface.
// It wraps an in-memory SQLite connection holding the loaded dumps.
type Connection struct {
	conn driver.Conn
}

// Transaction implements database/sql/driver.Tx interface.
type Transaction struct {
	tx driver.Tx
}

// NewDriver creates a new dump driver
func NewDriver() *Driver {
	return &Driver{}
}

// Open implements driver.Driver interface
func (d *Driver) Open(dsn string) (driver.Conn, error) {
	connector, err := d.OpenConnector(dsn)
	if err != nil {
		return nil, err
	}
	return connector.Connect(context.Background())
}

// OpenConnector implements driver.DriverContext interface
func (d *Driver) OpenConnector(dsn string) (driver.Connector, error) {
	return &Connector{
		driver: d,
		dsn:    dsn,
	}, nil
}

// Connect implements driver.Connector interface
func (c *Connector) Connect(ctx context.Context) (driver.Conn, error) {
	sqliteDriver := &sqlite.Driver{}
	conn, err := sqliteDriver.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory database: %w", err)
	}

	if err := c.loadPaths(ctx, conn, strings.Split(c.dsn, ";")); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to load dump: %w", err)
	}

	return &Connection{conn: conn}, nil
}

// Driver implements driver.Connector interface
func (c *Connector) Driver() driver.Driver {
	return c.driver
}

// loadPaths loads the dumps named by paths, expanding directories
func (c *Connector) loadPaths(ctx context.Context, conn driver.Conn, paths []string) error {
	files, err := c.collectAllFiles(paths)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return ErrNoFilesLoaded
	}

	for _, path := range files {
		if err := c.loadDump(ctx, conn, path); err != nil {
			return fmt.Errorf("failed to load file %s: %w", path, err)
		}
	}
	return nil
}

// collectAllFiles collects all dump files from multiple paths with duplicate detection
func (c *Connector) collectAllFiles(paths []string) ([]string, error) {
	tableNames := make(map[string]string) // table name -> file path
	var files []string
	provided := 0

	for _, path := range paths {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		provided++

		if err := ValidatePath(path); err != nil {
			return nil, fmt.Errorf("%w: %s", err, path)
		}
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: %s", model.ErrFileNotFound, path)
			}
			return nil, fmt.Errorf("failed to stat path: %w", err)
		}

		if info.IsDir() {
			dirFiles, err := c.collectDirectoryFiles(path, tableNames)
			if err != nil {
				return nil, err
			}
			files = append(files, dirFiles...)
			continue
		}

		if err := addTable(tableNames, path); err != nil {
			return nil, err
		}
		files = append(files, path)
	}

	if provided == 0 {
		return nil, ErrNoPathsProvided
	}
	return files, nil
}

// collectDirectoryFiles collects the dump files of one directory.
// When the same dump exists in several compressions, the least compressed copy is loaded.
func (c *Connector) collectDirectoryFiles(dirPath string, tableNames map[string]string) ([]string, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	byBase := make(map[string]string)
	var order []string
	for _, entry := range entries {
		if entry.IsDir() || !IsDumpFileName(entry.Name()) {
			continue
		}
		filePath := filepath.Join(dirPath, entry.Name())
		base := removeCompressionExtensions(entry.Name())

		existing, ok := byBase[base]
		if !ok {
			byBase[base] = filePath
			order = append(order, base)
			continue
		}
		if countCompressionExtensions(entry.Name()) < countCompressionExtensions(filepath.Base(existing)) {
			byBase[base] = filePath
		}
	}

	if err := ValidateFileCount(len(order)); err != nil {
		return nil, err
	}

	files := make([]string, 0, len(order))
	for _, base := range order {
		if err := addTable(tableNames, byBase[base]); err != nil {
			return nil, err
		}
		files = append(files, byBase[base])
	}
	return files, nil
}

// addTable records the table name a dump file will create. The name is taken
// from the file name here; loadDump checks the declared name again.
func addTable(tableNames map[string]string, path string) error {
	tableName := model.TableFromFilePath(path)
	if existing, ok := tableNames[tableName]; ok {
		return fmt.Errorf("%w: table '%s' from files '%s' and '%s'",
			ErrDuplicateTableName, tableName, existing, path)
	}
	tableNames[tableName] = path
	return nil
}

// removeCompressionExtensions removes compression extensions from filename
func removeCompressionExtensions(fileName string) string {
	for _, ext := range []string{model.ExtGZ, model.ExtBZ2, model.ExtXZ, model.ExtZSTD} {
		if strings.HasSuffix(strings.ToLower(fileName), ext) {
			return fileName[:len(fileName)-len(ext)]
		}
	}
	return fileName
}

// countCompressionExtensions counts how many compression extensions a file has
func countCompressionExtensions(fileName string) int {
	count := 0
	for {
		trimmed := removeCompressionExtensions(fileName)
		if trimmed == fileName {
			return count
		}
		fileName = trimmed
		count++
	}
}

// loadDump creates the table of one dump and inserts its rows
func (c *Connector) loadDump(ctx context.Context, conn driver.Conn, path string) error {
	dump, err := mwsql.OpenContext(ctx, path)
	if err != nil {
		return err
	}
	if len(dump.Columns()) == 0 {
		return model.ErrNoColumns
	}
	if err := ValidateColumnCount(len(dump.Columns())); err != nil {
		return err
	}

	exists, err := tableExists(ctx, conn, dump.SQLiteTableName())
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: table '%s' from file '%s'", ErrDuplicateTableName, dump.SQLiteTableName(), path)
	}

	if err := executeStatement(ctx, conn, dump.CreateTableStatement(), nil); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	stmt, err := prepare(ctx, conn, dump.InsertStatement())
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for args, err := range dump.SQLiteArgs() {
		if err != nil {
			return err
		}
		if err := executeStatement(ctx, stmt, "", args); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", inserted, err)
		}
		inserted++
	}

	slog.Default().Debug("loaded dump into sqlite",
		slog.String("path", path),
		slog.String("table", dump.SQLiteTableName()),
		slog.Int("rows", inserted),
	)
	return nil
}

// tableExists reports whether the SQLite connection already holds a table
func tableExists(ctx context.Context, conn driver.Conn, table string) (bool, error) {
	stmt, err := prepare(ctx, conn, "SELECT count(*) FROM sqlite_master WHERE type='table' AND name = ?")
	if err != nil {
		return false, err
	}
	defer stmt.Close()

	queryer, ok := stmt.(driver.StmtQueryContext)
	if !ok {
		return false, errors.New("statement does not support QueryContext")
	}
	rows, err := queryer.QueryContext(ctx, toNamedValues([]any{table}))
	if err != nil {
		return false, err
	}
	defer rows.Close()

	dest := make([]driver.Value, 1)
	if err := rows.Next(dest); err != nil {
		return false, err
	}
	count, _ := dest[0].(int64)
	return count > 0, nil
}

// prepare prepares a statement on a raw driver connection
func prepare(ctx context.Context, conn driver.Conn, query string) (driver.Stmt, error) {
	if connPrepareCtx, ok := conn.(driver.ConnPrepareContext); ok {
		return connPrepareCtx.PrepareContext(ctx, query)
	}
	return conn.Prepare(query)
}

// executeStatement executes a statement with proper context support
func executeStatement(ctx context.Context, target any, query string, args []any) error {
	switch stmt := target.(type) {
	case driver.Conn:
		preparedStmt, err := prepare(ctx, stmt, query)
		if err != nil {
			return err
		}
		defer preparedStmt.Close()
		return executeStatement(ctx, preparedStmt, "", args)

	case driver.Stmt:
		if stmtExecCtx, ok := stmt.(driver.StmtExecContext); ok {
			_, err := stmtExecCtx.ExecContext(ctx, toNamedValues(args))
			return err
		}
		return ErrStmtExecContextNotSupported

	default:
		return errors.New("unsupported statement type")
	}
}

// toNamedValues converts arguments to driver.NamedValue slice
func toNamedValues(args []any) []driver.NamedValue {
	namedArgs := make([]driver.NamedValue, len(args))
	for i, arg := range args {
		namedArgs[i] = driver.NamedValue{
			Ordinal: i + 1,
			Value:   arg,
		}
	}
	return namedArgs
}

// Close implements driver.Conn interface
func (conn *Connection) Close() error {
	if conn.conn != nil {
		return conn.conn.Close()
	}
	return nil
}

// Begin implements driver.Conn interface (deprecated, use BeginTx instead)
func (conn *Connection) Begin() (driver.Tx, error) {
	return conn.BeginTx(context.Background(), driver.TxOptions{})
}

// BeginTx implements driver.ConnBeginTx interface
func (conn *Connection) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	if connBeginTx, ok := conn.conn.(driver.ConnBeginTx); ok {
		tx, err := connBeginTx.BeginTx(ctx, opts)
		if err != nil {
			return nil, err
		}
		return &Transaction{tx: tx}, nil
	}
	return nil, ErrBeginTxNotSupported
}

// Commit implements driver.Tx interface
func (t *Transaction) Commit() error {
	return t.tx.Commit()
}

// Rollback implements driver.Tx interface
func (t *Transaction) Rollback() error {
	return t.tx.Rollback()
}

// Prepare implements driver.Conn interface (deprecated, use PrepareContext instead)
func (conn *Connection) Prepare(query string) (driver.Stmt, error) {
	return conn.PrepareContext(context.Background(), query)
}

// PrepareContext implements driver.ConnPrepareContext interface
func (conn *Connection) PrepareContext(ctx context.Context, query string) (driver.Stmt, error) {
	if connPrepareCtx, ok := conn.conn.(driver.ConnPrepareContext); ok {
		return connPrepareCtx.PrepareContext(ctx, query)
	}
	return nil, ErrPrepareContextNotSupported
}
