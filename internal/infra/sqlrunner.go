package infra

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

// Row is the single-row result of QueryRow.
type Row interface {
	Scan(dest ...any) error
}

// Rows iterates a multi-row result.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// SQLExecutor defines the contract required by repositories for executing SQL queries.
type SQLExecutor interface {
	Exec(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRow(ctx context.Context, query string, args ...any) Row
	Query(ctx context.Context, query string, args ...any) (Rows, error)
}

// TxRunner is an SQLExecutor that can open a transaction.
type TxRunner interface {
	SQLExecutor
	WithTx(ctx context.Context, fn func(SQLExecutor) error) error
	WithReadTx(ctx context.Context, fn func(SQLExecutor) error) error
}

var markerRegexp = regexp.MustCompile(`^--sql [0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLRunner executes marked queries from the sqlinline catalogue, rewriting
// them for the active dialect and logging each call by its marker.
type SQLRunner struct {
	DB      *sql.DB
	Dialect Dialect
	Logger  zerolog.Logger
	// ReadDB serves WithReadTx when set; otherwise DB does.
	ReadDB *sql.DB

	q  queryer
	tx *sql.Tx
}

func NewSQLRunner(db *sql.DB, dialect Dialect, logger zerolog.Logger) *SQLRunner {
	return &SQLRunner{DB: db, Dialect: dialect, Logger: logger, q: db}
}

// WithReader routes read-only transactions to db.
func (r *SQLRunner) WithReader(db *sql.DB) *SQLRunner {
	r.ReadDB = db
	return r
}

func (r *SQLRunner) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	marker, trimmed, err := r.prepare(query)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug().Str("sql", marker).Msg("exec")
	res, err := r.q.ExecContext(ctx, trimmed, args...)
	if err != nil {
		r.Logger.Error().Err(err).Str("sql", marker).Msg("exec error")
		return nil, err
	}
	return res, nil
}

func (r *SQLRunner) QueryRow(ctx context.Context, query string, args ...any) Row {
	marker, trimmed, err := r.prepare(query)
	if err != nil {
		return errorRow{err: err}
	}
	r.Logger.Debug().Str("sql", marker).Msg("query_row")
	row := r.q.QueryRowContext(ctx, trimmed, args...)
	return loggingRow{row: row, logger: r.Logger, marker: marker}
}

func (r *SQLRunner) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	marker, trimmed, err := r.prepare(query)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug().Str("sql", marker).Msg("query")
	rows, err := r.q.QueryContext(ctx, trimmed, args...)
	if err != nil {
		r.Logger.Error().Err(err).Str("sql", marker).Msg("query error")
		return nil, err
	}
	return rows, nil
}

// WithTx runs fn inside a transaction. Nested calls reuse the open transaction.
func (r *SQLRunner) WithTx(ctx context.Context, fn func(SQLExecutor) error) error {
	if r.tx != nil {
		return fn(r)
	}
	return r.run(ctx, r.DB, nil, fn)
}

// WithReadTx runs fn inside a read-only snapshot. On SQLite the reader
// handle opens deferred transactions, so reports do not take the write lock.
func (r *SQLRunner) WithReadTx(ctx context.Context, fn func(SQLExecutor) error) error {
	if r.tx != nil {
		return fn(r)
	}
	db := r.ReadDB
	if db == nil {
		db = r.DB
	}
	var opts *sql.TxOptions
	if r.Dialect == DialectPostgres {
		opts = &sql.TxOptions{ReadOnly: true}
	}
	return r.run(ctx, db, opts, fn)
}

func (r *SQLRunner) run(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(SQLExecutor) error) error {
	if db == nil {
		return errors.New("sqlrunner: no database")
	}

	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	scoped := &SQLRunner{DB: r.DB, ReadDB: r.ReadDB, Dialect: r.Dialect, Logger: r.Logger, q: tx, tx: tx}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(scoped); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			r.Logger.Error().Err(rbErr).Msg("rollback failed")
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *SQLRunner) prepare(query string) (string, string, error) {
	marker, trimmed, err := extractMarker(query)
	if err != nil {
		return "", "", err
	}
	return marker, r.Dialect.Rebind(trimmed), nil
}

type loggingRow struct {
	row    *sql.Row
	logger zerolog.Logger
	marker string
}

func (l loggingRow) Scan(dest ...any) error {
	err := l.row.Scan(dest...)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		l.logger.Error().Err(err).Str("sql", l.marker).Msg("scan error")
	}
	return err
}

type errorRow struct {
	err error
}

func (e errorRow) Scan(dest ...any) error {
	return e.err
}

func extractMarker(query string) (string, string, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return "", "", errors.New("empty query")
	}
	lines := strings.Split(trimmed, "\n")
	markerLine := strings.TrimSpace(lines[0])
	if !markerRegexp.MatchString(markerLine) {
		return "", "", errors.New("sql marker missing or invalid")
	}
	return strings.TrimSpace(strings.TrimPrefix(markerLine, "--sql ")), strings.Join(lines[1:], "\n"), nil
}

// IsNoRows reports whether err signals an empty single-row result.
func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

var _ TxRunner = (*SQLRunner)(nil)
