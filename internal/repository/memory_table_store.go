package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/noah-isme/sma-admin-console/internal/models"
	appErrors "github.com/noah-isme/sma-admin-console/pkg/errors"
)

// MemoryTableStore keeps the tables in process memory. Row indexes are 1-based
// positions, like sheet rows below the header.
type MemoryTableStore struct {
	mu     sync.RWMutex
	tables map[models.TableName][]models.Row
}

// NewMemoryTableStore creates an empty store holding every known table.
func NewMemoryTableStore() *MemoryTableStore {
	tables := make(map[models.TableName][]models.Row)
	for _, name := range models.Tables() {
		tables[name] = nil
	}
	return &MemoryTableStore{tables: tables}
}

// Append adds row after the last row of table.
func (s *MemoryTableStore) Append(_ context.Context, table models.TableName, row models.Row) error {
	schema, err := lookupSchema(table)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[table] = append(s.tables[table], schema.RowFromValues(schema.Values(row)))
	return nil
}

// FindRowByKey returns the index of the first row whose key column equals key.
func (s *MemoryTableStore) FindRowByKey(_ context.Context, table models.TableName, key string) (int64, error) {
	schema, err := lookupSchema(table)
	if err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i, row := range s.tables[table] {
		if row[schema.Key] == key {
			return int64(i + 1), nil
		}
	}
	return 0, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("%s %q not found", schema.Key, key))
}

// ReadRow returns a copy of the row at rowIndex.
func (s *MemoryTableStore) ReadRow(_ context.Context, table models.TableName, rowIndex int64) (models.Row, error) {
	if _, err := lookupSchema(table); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, err := s.row(table, rowIndex)
	if err != nil {
		return nil, err
	}
	return row.Clone(), nil
}

// UpdateCell overwrites a single cell.
func (s *MemoryTableStore) UpdateCell(_ context.Context, table models.TableName, rowIndex int64, column, value string) error {
	if _, err := lookupColumn(table, column); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	row, err := s.row(table, rowIndex)
	if err != nil {
		return err
	}
	row[column] = value
	return nil
}

// CompareAndSwapCell writes value only while the cell still holds expected.
func (s *MemoryTableStore) CompareAndSwapCell(_ context.Context, table models.TableName, rowIndex int64, column, expected, value string) (bool, error) {
	if _, err := lookupColumn(table, column); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	row, err := s.row(table, rowIndex)
	if err != nil {
		return false, err
	}
	if row[column] != expected {
		return false, nil
	}
	row[column] = value
	return true, nil
}

// LoadTable returns copies of every row in insertion order.
func (s *MemoryTableStore) LoadTable(_ context.Context, table models.TableName) ([]models.Row, error) {
	if _, err := lookupSchema(table); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := make([]models.Row, len(s.tables[table]))
	for i, row := range s.tables[table] {
		rows[i] = row.Clone()
	}
	return rows, nil
}

// KeyValues returns the key column of every row.
func (s *MemoryTableStore) KeyValues(_ context.Context, table models.TableName) ([]string, error) {
	schema, err := lookupSchema(table)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, len(s.tables[table]))
	for i, row := range s.tables[table] {
		keys[i] = row[schema.Key]
	}
	return keys, nil
}

// row must be called with the lock held.
func (s *MemoryTableStore) row(table models.TableName, rowIndex int64) (models.Row, error) {
	rows := s.tables[table]
	if rowIndex < 1 || rowIndex > int64(len(rows)) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("row %d not found in %s", rowIndex, table))
	}
	return rows[rowIndex-1], nil
}
