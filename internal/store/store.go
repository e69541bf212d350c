// Package store is the client side of the remote table store. Rows are plain
// column maps; callers are responsible for key casing and typing.
package store

import (
	"context"
	"errors"
)

// Row is one table row keyed by column name.
type Row = map[string]any

// ErrNoRows is returned by SelectOne when no row matches.
var ErrNoRows = errors.New("no rows found")

// Op is a filter predicate.
type Op int

const (
	OpEq Op = iota
	OpIn
)

// Filter restricts a statement to rows whose column equals a value or is a
// member of a set.
type Filter struct {
	Column string
	Op     Op
	Value  any
	Values []any
}

// Eq matches rows where column = value.
func Eq(column string, value any) Filter {
	return Filter{Column: column, Op: OpEq, Value: value}
}

// In matches rows where column is one of values.
func In[V any](column string, values []V) Filter {
	vs := make([]any, len(values))
	for i, v := range values {
		vs[i] = v
	}
	return Filter{Column: column, Op: OpIn, Values: vs}
}

// TableStore executes single statements against named tables. Every write
// reads the affected rows back; an empty result with a nil error means the
// write happened but the rows could not be read (typically a read-permission
// gap on the server).
type TableStore interface {
	// Select returns the listed columns (all when empty) of matching rows.
	Select(ctx context.Context, table string, columns []string, filters ...Filter) ([]Row, error)
	// SelectOne returns the first matching row or ErrNoRows.
	SelectOne(ctx context.Context, table string, filters ...Filter) (Row, error)
	Insert(ctx context.Context, table, key string, rows []Row) ([]Row, error)
	Update(ctx context.Context, table string, values Row, filters ...Filter) ([]Row, error)
	Delete(ctx context.Context, table string, filters ...Filter) error
	// Upsert inserts row or replaces the row sharing its key column.
	Upsert(ctx context.Context, table, key string, row Row) ([]Row, error)
	// Count returns the number of matching rows without fetching them.
	Count(ctx context.Context, table string, filters ...Filter) (int64, error)
}

// Transactor is implemented by stores that can run several statements
// atomically.
type Transactor interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}
