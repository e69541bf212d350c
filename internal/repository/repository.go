package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"cuaderno/internal/model"
	"cuaderno/internal/state"
	"cuaderno/internal/store"
)

// Result is the outcome of a successful write. Confirmed is false when the
// store accepted the write but did not echo the row back; Item then holds the
// locally submitted data and Warning explains the gap.
type Result[T model.Entity] struct {
	Item      T
	Confirmed bool
	Warning   string
}

// Repository performs CRUD for one entity kind against the table store and
// keeps the matching local collection in step with confirmed writes.
type Repository[T model.Entity] interface {
	Kind() model.Kind
	// Fetch reads every row of the table without touching local state.
	Fetch(ctx context.Context) ([]T, error)
	// Reset replaces the local collection.
	Reset(items []T)
	Load(ctx context.Context) error
	Add(ctx context.Context, item T) (Result[T], error)
	Update(ctx context.Context, item T) (Result[T], error)
	Delete(ctx context.Context, id string) error
}

type repository[T model.Entity] struct {
	kind  model.Kind
	store store.TableStore
	items *state.Collection[T]
	newID func() string
}

func New[T model.Entity](kind model.Kind, s store.TableStore, items *state.Collection[T]) Repository[T] {
	return &repository[T]{kind: kind, store: s, items: items, newID: uuid.NewString}
}

func (r *repository[T]) Kind() model.Kind {
	return r.kind
}

func (r *repository[T]) Fetch(ctx context.Context) ([]T, error) {
	rows, err := r.store.Select(ctx, r.kind.Table, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", r.kind.Table, store.Describe(err))
	}
	items, err := DecodeRows[T](rows)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", r.kind.Table, err)
	}
	return items, nil
}

func (r *repository[T]) Reset(items []T) {
	r.items.Replace(items)
}

func (r *repository[T]) Load(ctx context.Context) error {
	items, err := r.Fetch(ctx)
	if err != nil {
		return err
	}
	r.Reset(items)
	return nil
}

func (r *repository[T]) Add(ctx context.Context, item T) (Result[T], error) {
	row, err := EncodeRow(item)
	if err != nil {
		return Result[T]{}, err
	}
	row[r.kind.Key] = r.newID()

	echoed, err := r.store.Insert(ctx, r.kind.Table, r.kind.Key, []store.Row{row})
	if err != nil {
		return Result[T]{}, fmt.Errorf("failed to create %s: %w", r.kind.Name, store.Describe(err))
	}

	res, err := r.result(row, echoed)
	if err != nil {
		return Result[T]{}, err
	}
	r.items.Append(res.Item)
	return res, nil
}

func (r *repository[T]) Update(ctx context.Context, item T) (Result[T], error) {
	id := item.EntityID()
	if id == "" {
		return Result[T]{}, fmt.Errorf("failed to update %s: missing id", r.kind.Name)
	}
	row, err := EncodeRow(item)
	if err != nil {
		return Result[T]{}, err
	}
	values := make(store.Row, len(row))
	for k, v := range row {
		if k != r.kind.Key {
			values[k] = v
		}
	}

	echoed, err := r.store.Update(ctx, r.kind.Table, values, store.Eq(r.kind.Key, id))
	if err != nil {
		return Result[T]{}, fmt.Errorf("failed to update %s: %w", r.kind.Name, store.Describe(err))
	}

	row[r.kind.Key] = id
	res, err := r.result(row, echoed)
	if err != nil {
		return Result[T]{}, err
	}
	r.items.ReplaceByID(res.Item)
	return res, nil
}

func (r *repository[T]) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, r.kind.Table, store.Eq(r.kind.Key, id)); err != nil {
		return fmt.Errorf("failed to delete %s: %w", r.kind.Name, store.Describe(err))
	}
	r.items.Remove(id)
	return nil
}

// result prefers the row echoed by the store and falls back to the submitted
// row when the store returned nothing.
func (r *repository[T]) result(submitted store.Row, echoed []store.Row) (Result[T], error) {
	if len(echoed) > 0 {
		item, err := DecodeRow[T](echoed[0])
		if err != nil {
			return Result[T]{}, err
		}
		return Result[T]{Item: item, Confirmed: true}, nil
	}
	item, err := DecodeRow[T](submitted)
	if err != nil {
		return Result[T]{}, err
	}
	return Result[T]{Item: item, Warning: EchoGapWarning(r.kind.Table)}, nil
}

// EchoGapWarning is reported when a write succeeded but the row could not be
// read back.
func EchoGapWarning(table string) string {
	return fmt.Sprintf("saved, but the store did not return the %s row; check that read access is enabled for the table. The local copy is shown until the next reload", table)
}
