// Package mwsql reads MediaWiki SQL dump files.
//
// Wikimedia publishes every wiki table as a MySQL dump: a few header
// comments, one CREATE TABLE statement and long INSERT statements holding
// thousands of row-tuples each. mwsql scans the header for the table
// definition and streams the rows out of the INSERT statements without
// executing any SQL.
//
// # Features
//
//   - Metadata: database, table name, column names, declared SQL types and primary key
//   - Lazy, restartable row streams using range-over-func iterators
//   - Optional conversion of fields to int64, uint64, float64 or string
//   - Transparent decompression (gzip, bzip2, xz, zstandard) and text decoding
//   - Export to CSV, TSV, LTSV, Parquet and Excel (XLSX)
//   - Loading into SQLite for ad-hoc queries
//
// # Basic Usage
//
//	dump, err := mwsql.Open("simplewiki-latest-change_tag_def.sql.gz")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(dump.Columns()) // [ctd_id ctd_name ctd_user_defined ctd_count]
//
//	for row, err := range dump.Rows(mwsql.NewRowsOptions().WithConvert(true)) {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(row) // [1 mw-replace 0 10200]
//	}
//
// Breaking out of the loop closes the file. Calling Rows again reads the
// file from the start.
//
// # Conversion
//
// Declared SQL types map to a Kind by substring: a type containing "int" is
// an integer, one containing "float", "double", "decimal" or "numeric" is a
// floating-point number, everything else is a string. Empty fields are the
// encoding of SQL NULL and are never converted.
//
// In lenient mode (the default) a field that cannot be cast stays a string
// and one warning is logged for the row. In strict mode the stream stops
// with an error that matches ErrConversion.
//
// # Export
//
//	opts := mwsql.NewExportOptions().
//	    WithFormat(mwsql.OutputFormatCSV).
//	    WithCompression(mwsql.CompressionGZ)
//	if err := dump.ExportFile("change_tag_def.csv.gz", opts); err != nil {
//	    log.Fatal(err)
//	}
//
// # SQLite
//
//	db, err := dump.OpenSQLite(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	rows, err := db.QueryContext(ctx, "SELECT ctd_name FROM change_tag_def WHERE ctd_count > 1000")
//
// The driver subpackage registers a database/sql driver that does the same
// for one or more dump files given as DSN. The fetch subpackage locates dumps
// on a local Wikimedia mirror or downloads them from the public dumps site.
package mwsql
