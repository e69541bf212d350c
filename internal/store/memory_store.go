package store

import (
	"context"
	"fmt"
	"sync"
)

var _ TableStore = (*MemoryStore)(nil)

// MemoryStore is an in-process TableStore used by tests and by the
// ephemeral "memory" driver. It can simulate server failures and
// read-permission gaps.
type MemoryStore struct {
	mu       sync.Mutex
	tables   map[string][]Row
	hidden   map[string]bool
	failures map[failureKey]error
	calls    []Call
}

// Call records one statement executed against the store.
type Call struct {
	Method  string
	Table   string
	Filters []Filter
}

type failureKey struct {
	method string
	table  string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tables:   make(map[string][]Row),
		hidden:   make(map[string]bool),
		failures: make(map[failureKey]error),
	}
}

// Seed appends rows to a table without recording a call.
func (s *MemoryStore) Seed(table string, rows ...Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rows {
		s.tables[table] = append(s.tables[table], cloneRow(r))
	}
}

// Rows returns a copy of every row in table.
func (s *MemoryStore) Rows(table string) []Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneRows(s.tables[table])
}

// HideReads makes writes to table succeed while returning no rows, the way
// a store without read permission on the table behaves.
func (s *MemoryStore) HideReads(table string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hidden[table] = true
}

// FailOn makes every later call of method ("Select", "Insert", "Update",
// "Delete", "Upsert", "Count") on table return err. An empty table matches
// every table.
func (s *MemoryStore) FailOn(method, table string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[failureKey{method: method, table: table}] = err
}

// Calls returns the statements executed so far.
func (s *MemoryStore) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

func (s *MemoryStore) Select(_ context.Context, table string, columns []string, filters ...Filter) ([]Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("Select", table, filters); err != nil {
		return nil, err
	}
	if s.hidden[table] {
		return []Row{}, nil
	}
	out := make([]Row, 0)
	for _, r := range s.tables[table] {
		if matches(r, filters) {
			out = append(out, project(r, columns))
		}
	}
	return out, nil
}

func (s *MemoryStore) SelectOne(ctx context.Context, table string, filters ...Filter) (Row, error) {
	rows, err := s.Select(ctx, table, nil, filters...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	return rows[0], nil
}

func (s *MemoryStore) Insert(_ context.Context, table, key string, rows []Row) ([]Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("Insert", table, nil); err != nil {
		return nil, err
	}
	for _, r := range rows {
		id, ok := r[key]
		if !ok {
			return nil, fmt.Errorf("insert into %s: row without %s", table, key)
		}
		if s.indexOf(table, key, id) >= 0 {
			return nil, fmt.Errorf("duplicate key value violates unique constraint \"%s_pkey\"", table)
		}
	}
	for _, r := range rows {
		s.tables[table] = append(s.tables[table], cloneRow(r))
	}
	if s.hidden[table] {
		return []Row{}, nil
	}
	return cloneRows(rows), nil
}

func (s *MemoryStore) Update(_ context.Context, table string, values Row, filters ...Filter) ([]Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("Update", table, filters); err != nil {
		return nil, err
	}
	if len(filters) == 0 {
		return nil, fmt.Errorf("update %s: refusing to update without a filter", table)
	}
	var updated []Row
	for _, r := range s.tables[table] {
		if !matches(r, filters) {
			continue
		}
		for k, v := range values {
			r[k] = v
		}
		updated = append(updated, cloneRow(r))
	}
	if s.hidden[table] {
		return []Row{}, nil
	}
	return updated, nil
}

func (s *MemoryStore) Delete(_ context.Context, table string, filters ...Filter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("Delete", table, filters); err != nil {
		return err
	}
	if len(filters) == 0 {
		return fmt.Errorf("delete from %s: refusing to delete without a filter", table)
	}
	kept := s.tables[table][:0]
	for _, r := range s.tables[table] {
		if !matches(r, filters) {
			kept = append(kept, r)
		}
	}
	s.tables[table] = kept
	return nil
}

func (s *MemoryStore) Upsert(_ context.Context, table, key string, row Row) ([]Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("Upsert", table, nil); err != nil {
		return nil, err
	}
	id, ok := row[key]
	if !ok {
		return nil, fmt.Errorf("upsert into %s: row without %s", table, key)
	}
	if i := s.indexOf(table, key, id); i >= 0 {
		s.tables[table][i] = cloneRow(row)
	} else {
		s.tables[table] = append(s.tables[table], cloneRow(row))
	}
	if s.hidden[table] {
		return []Row{}, nil
	}
	return []Row{cloneRow(row)}, nil
}

func (s *MemoryStore) Count(_ context.Context, table string, filters ...Filter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("Count", table, filters); err != nil {
		return 0, err
	}
	var n int64
	for _, r := range s.tables[table] {
		if matches(r, filters) {
			n++
		}
	}
	return n, nil
}

// begin records the call and returns any injected failure. Callers hold mu.
func (s *MemoryStore) begin(method, table string, filters []Filter) error {
	s.calls = append(s.calls, Call{Method: method, Table: table, Filters: filters})
	if err, ok := s.failures[failureKey{method: method, table: table}]; ok {
		return err
	}
	if err, ok := s.failures[failureKey{method: method}]; ok {
		return err
	}
	return nil
}

func (s *MemoryStore) indexOf(table, key string, id any) int {
	for i, r := range s.tables[table] {
		if sameValue(r[key], id) {
			return i
		}
	}
	return -1
}

func matches(r Row, filters []Filter) bool {
	for _, f := range filters {
		switch f.Op {
		case OpIn:
			found := false
			for _, v := range f.Values {
				if sameValue(r[f.Column], v) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		default:
			if !sameValue(r[f.Column], f.Value) {
				return false
			}
		}
	}
	return true
}

// sameValue compares the way SQL equality does: NULL never matches.
func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return false
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func project(r Row, columns []string) Row {
	if len(columns) == 0 {
		return cloneRow(r)
	}
	out := make(Row, len(columns))
	for _, c := range columns {
		out[c] = r[c]
	}
	return out
}

func cloneRow(r Row) Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

func cloneRows(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = cloneRow(r)
	}
	return out
}
