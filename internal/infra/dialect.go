package infra

import (
	"errors"
	"regexp"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

const (
	DriverSQLite = "sqlite3"
	DriverPgx    = "pgx"
)

// Dialect adapts the portable query catalogue to one database engine.
// Queries are written with $n placeholders and may end in FOR UPDATE.
type Dialect string

const (
	DialectSQLite   Dialect = DriverSQLite
	DialectPostgres Dialect = DriverPgx
)

var (
	dollarParam    = regexp.MustCompile(`\$(\d+)`)
	forUpdateTrail = regexp.MustCompile(`(?i)\s+FOR\s+UPDATE\b`)
)

// Rebind rewrites a query for the dialect. SQLite gets numbered ?n
// parameters and loses row-lock clauses, since BEGIN IMMEDIATE already
// holds the database write lock for the whole transaction.
func (d Dialect) Rebind(query string) string {
	if d != DialectSQLite {
		return query
	}
	query = forUpdateTrail.ReplaceAllString(query, "")
	return dollarParam.ReplaceAllString(query, "?$1")
}

// IsUniqueViolation reports whether err was raised by a UNIQUE or PRIMARY KEY constraint.
func IsUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// IsForeignKeyViolation reports whether err was raised by a REFERENCES constraint.
func IsForeignKeyViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}
