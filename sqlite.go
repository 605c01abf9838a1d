package mwsql

import (
	"context"
	"database/sql"
	"fmt"
	"iter"
	"math"
	"strconv"
	"strings"

	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver

	"github.com/nao1215/mwsql/domain/model"
)

// TxBeginner starts database transactions. *sql.DB and *sql.Conn implement it.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// SQLiteTableName returns the name of the table LoadSQLite creates: the
// declared table name (or the file name) reduced to letters, digits and
// underscores.
func (d *Dump) SQLiteTableName() string {
	return model.NewTableName(d.tableName()).Sanitize().String()
}

// CreateTableStatement returns the CREATE TABLE statement for the dump.
// Columns get the SQLite affinity of their kind; the declared primary key is kept.
func (d *Dump) CreateTableStatement() string {
	kinds := d.Kinds()
	columns := make([]string, 0, len(d.meta.Columns)+1)
	for i, col := range d.meta.Columns {
		columns = append(columns, fmt.Sprintf(`[%s] %s`, col, kinds[i].SQLiteType()))
	}

	if d.meta.HasPrimaryKey() {
		keys := make([]string, len(d.meta.PrimaryKey))
		for i, key := range d.meta.PrimaryKey {
			keys[i] = "[" + key + "]"
		}
		columns = append(columns, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(keys, ", ")))
	}

	return fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS [%s] (%s)`,
		d.SQLiteTableName(),
		strings.Join(columns, ", "),
	)
}

// InsertStatement returns the parameterized INSERT statement for one row.
func (d *Dump) InsertStatement() string {
	return fmt.Sprintf(
		`INSERT INTO [%s] VALUES (%s)`,
		d.SQLiteTableName(),
		buildPlaceholders(len(d.meta.Columns)),
	)
}

// buildPlaceholders creates placeholder string for prepared statements
func buildPlaceholders(count int) string {
	if count == 0 {
		return ""
	}
	return strings.Repeat("?, ", count-1) + "?"
}

// SQLiteArgs returns the INSERT arguments of every row, converted leniently.
// Empty fields of numeric columns become NULL. Unsigned values beyond the
// int64 range are passed as text.
func (d *Dump) SQLiteArgs(cfg ...ReaderConfig) iter.Seq2[[]any, error] {
	opts := NewRowsOptions().WithConvert(true)
	if len(cfg) > 0 {
		opts = opts.WithReaderConfig(cfg[0])
	}

	return func(yield func([]any, error) bool) {
		kinds := d.Kinds()
		for row, err := range d.Rows(opts) {
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(sqliteArgs(row, kinds), nil) {
				return
			}
		}
	}
}

func sqliteArgs(row Row, kinds []model.Kind) []any {
	args := make([]any, len(row))
	for i, v := range row {
		switch value := v.(type) {
		case string:
			if value == "" && i < len(kinds) && kinds[i] != model.KindString {
				args[i] = nil
				continue
			}
			args[i] = value
		case uint64:
			if value > math.MaxInt64 {
				args[i] = strconv.FormatUint(value, 10)
				continue
			}
			args[i] = int64(value)
		default:
			args[i] = value
		}
	}
	return args
}

// LoadSQLite creates the dump's table in db and inserts every row in a
// single transaction. It returns the number of inserted rows.
func (d *Dump) LoadSQLite(ctx context.Context, db TxBeginner, cfg ...ReaderConfig) (int64, error) {
	if len(d.meta.Columns) == 0 {
		return 0, NewErrorContext("load sqlite", d.path).Error(model.ErrNoColumns)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, d.CreateTableStatement()); err != nil {
		return 0, NewErrorContext("create table", d.path).WithTable(d.SQLiteTableName()).Error(err)
	}

	stmt, err := tx.PrepareContext(ctx, d.InsertStatement())
	if err != nil {
		return 0, NewErrorContext("prepare insert", d.path).WithTable(d.SQLiteTableName()).Error(err)
	}
	defer stmt.Close()

	var inserted int64
	for args, err := range d.SQLiteArgs(cfg...) {
		if err != nil {
			return 0, err
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, NewErrorContext("insert", d.path).
				WithTable(d.SQLiteTableName()).
				WithDetails(fmt.Sprintf("row %d", inserted)).
				Error(err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return inserted, nil
}

// OpenSQLite loads the dump into a new in-memory SQLite database.
// The returned database holds a single connection, so every query sees the loaded table.
func (d *Dump) OpenSQLite(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := d.LoadSQLite(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
