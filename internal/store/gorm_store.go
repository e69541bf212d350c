package store

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	_ TableStore = (*GormStore)(nil)
	_ Transactor = (*GormStore)(nil)
)

// GormStore runs table statements through gorm against postgres or sqlite.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Select(ctx context.Context, table string, columns []string, filters ...Filter) ([]Row, error) {
	q := getDB(ctx, s.db).Table(table)
	if len(columns) > 0 {
		q = q.Select(columns)
	}
	var rows []map[string]interface{}
	if err := where(q, filters).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *GormStore) SelectOne(ctx context.Context, table string, filters ...Filter) (Row, error) {
	var rows []map[string]interface{}
	if err := where(getDB(ctx, s.db).Table(table), filters).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	return rows[0], nil
}

func (s *GormStore) Insert(ctx context.Context, table, key string, rows []Row) ([]Row, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	ids := make([]any, 0, len(rows))
	for _, r := range rows {
		id, ok := r[key]
		if !ok {
			return nil, fmt.Errorf("insert into %s: row without %s", table, key)
		}
		ids = append(ids, id)
	}
	if err := getDB(ctx, s.db).Table(table).Create(rows).Error; err != nil {
		return nil, err
	}
	return s.Select(ctx, table, nil, Filter{Column: key, Op: OpIn, Values: ids})
}

func (s *GormStore) Update(ctx context.Context, table string, values Row, filters ...Filter) ([]Row, error) {
	if len(filters) == 0 {
		return nil, fmt.Errorf("update %s: refusing to update without a filter", table)
	}
	if err := where(getDB(ctx, s.db).Table(table), filters).Updates(values).Error; err != nil {
		return nil, err
	}
	return s.Select(ctx, table, nil, filters...)
}

func (s *GormStore) Delete(ctx context.Context, table string, filters ...Filter) error {
	if len(filters) == 0 {
		return fmt.Errorf("delete from %s: refusing to delete without a filter", table)
	}
	return where(getDB(ctx, s.db).Table(table), filters).Delete(map[string]interface{}{}).Error
}

func (s *GormStore) Upsert(ctx context.Context, table, key string, row Row) ([]Row, error) {
	id, ok := row[key]
	if !ok {
		return nil, fmt.Errorf("upsert into %s: row without %s", table, key)
	}
	updates := make([]string, 0, len(row))
	for col := range row {
		if col != key {
			updates = append(updates, col)
		}
	}
	sort.Strings(updates)

	conflict := clause.OnConflict{Columns: []clause.Column{{Name: key}}}
	if len(updates) > 0 {
		conflict.DoUpdates = clause.AssignmentColumns(updates)
	} else {
		conflict.DoNothing = true
	}
	if err := getDB(ctx, s.db).Table(table).Clauses(conflict).Create(row).Error; err != nil {
		return nil, err
	}
	return s.Select(ctx, table, nil, Eq(key, id))
}

func (s *GormStore) Count(ctx context.Context, table string, filters ...Filter) (int64, error) {
	var n int64
	if err := where(getDB(ctx, s.db).Table(table), filters).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func where(q *gorm.DB, filters []Filter) *gorm.DB {
	for _, f := range filters {
		col := clause.Column{Name: f.Column}
		switch f.Op {
		case OpIn:
			q = q.Where(clause.IN{Column: col, Values: f.Values})
		default:
			q = q.Where(clause.Eq{Column: col, Value: f.Value})
		}
	}
	return q
}
