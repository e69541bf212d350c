package store

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrorKind tags the outcome of Classify.
type ErrorKind int

const (
	KindGeneric ErrorKind = iota
	KindSchemaMismatch
)

// Classification describes a store error. Table and Column are set for
// schema mismatches; Column is empty when a whole table is missing.
type Classification struct {
	Kind   ErrorKind
	Table  string
	Column string
}

// SQLSTATE codes reported by postgres for unknown columns and relations.
const (
	pgUndefinedColumn = "42703"
	pgUndefinedTable  = "42P01"
)

var (
	// REST gateway: Could not find the 'foo' column of 'bar' in the schema cache
	restColumnRe = regexp.MustCompile(`'(.+?)' column of '(.+?)'`)
	// older gateway wording: column 'foo' of 'bar'
	restColumnAltRe = regexp.MustCompile(`column '(.+?)' of '(.+?)'`)
	// postgres: column "foo" of relation "bar" does not exist
	pgColumnRe = regexp.MustCompile(`column "(.+?)" of relation "(.+?)"`)
	// postgres: relation "bar" does not exist
	pgTableRe = regexp.MustCompile(`relation "(.+?)" does not exist`)
	// sqlite: table bar has no column named foo
	sqliteColumnRe = regexp.MustCompile(`table (\S+) has no column named (\S+)`)
	// sqlite: no such table: bar
	sqliteTableRe = regexp.MustCompile(`no such table: (\S+)`)
)

// Classify inspects err and reports whether it is a schema mismatch.
func Classify(err error) Classification {
	if err == nil {
		return Classification{Kind: KindGeneric}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUndefinedColumn:
			c := Classification{Kind: KindSchemaMismatch, Table: pgErr.TableName, Column: pgErr.ColumnName}
			if m := pgColumnRe.FindStringSubmatch(pgErr.Message); m != nil {
				c.Column, c.Table = m[1], m[2]
			}
			return c
		case pgUndefinedTable:
			c := Classification{Kind: KindSchemaMismatch, Table: pgErr.TableName}
			if m := pgTableRe.FindStringSubmatch(pgErr.Message); m != nil {
				c.Table = m[1]
			}
			return c
		}
	}

	msg := err.Error()
	if m := restColumnRe.FindStringSubmatch(msg); m != nil {
		return Classification{Kind: KindSchemaMismatch, Column: m[1], Table: m[2]}
	}
	if m := restColumnAltRe.FindStringSubmatch(msg); m != nil {
		return Classification{Kind: KindSchemaMismatch, Column: m[1], Table: m[2]}
	}
	if m := pgColumnRe.FindStringSubmatch(msg); m != nil {
		return Classification{Kind: KindSchemaMismatch, Column: m[1], Table: m[2]}
	}
	if m := sqliteColumnRe.FindStringSubmatch(msg); m != nil {
		return Classification{Kind: KindSchemaMismatch, Table: m[1], Column: m[2]}
	}
	if m := sqliteTableRe.FindStringSubmatch(msg); m != nil {
		return Classification{Kind: KindSchemaMismatch, Table: m[1]}
	}
	return Classification{Kind: KindGeneric}
}

// SchemaError is a store error caused by a table or column missing from the
// remote schema.
type SchemaError struct {
	Table  string
	Column string
	Err    error
}

func (e *SchemaError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("database schema error: table '%s' not found; create it before using this section", e.Table)
	}
	return fmt.Sprintf("database schema error: column '%s' not found in table '%s'; open table '%s' and make sure a column with that exact name exists (lower case with underscores, e.g. '%s')",
		e.Column, e.Table, e.Table, e.Column)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// Describe rewrites schema mismatches into a *SchemaError naming the missing
// column and table. Other errors are returned unchanged.
func Describe(err error) error {
	if err == nil {
		return nil
	}
	var se *SchemaError
	if errors.As(err, &se) {
		return err
	}
	c := Classify(err)
	if c.Kind != KindSchemaMismatch {
		return err
	}
	return &SchemaError{Table: c.Table, Column: c.Column, Err: err}
}
