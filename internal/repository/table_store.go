package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/sma-admin-console/internal/models"
	appErrors "github.com/noah-isme/sma-admin-console/pkg/errors"
)

const undefinedTable = "42P01"

// QueryObserver receives the duration of every store round trip.
type QueryObserver interface {
	ObserveDBQuery(label string, duration time.Duration)
}

// TableStore keeps the logical tables in PostgreSQL. Each table has a row_id
// BIGSERIAL column that plays the role of the sheet row number; every other
// column is TEXT and named after the snake_case form of the schema column.
type TableStore struct {
	db       *sqlx.DB
	observer QueryObserver
}

// NewTableStore constructs a TableStore. observer may be nil.
func NewTableStore(db *sqlx.DB, observer QueryObserver) *TableStore {
	return &TableStore{db: db, observer: observer}
}

// Append inserts row at the end of table.
func (r *TableStore) Append(ctx context.Context, table models.TableName, row models.Row) error {
	schema, err := lookupSchema(table)
	if err != nil {
		return err
	}
	placeholders := make([]string, len(schema.Columns))
	for i := range schema.Columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		pq.QuoteIdentifier(schema.SQLTable), columnList(schema.Columns), strings.Join(placeholders, ", "))

	values := schema.Values(row)
	args := make([]interface{}, len(values))
	for i, v := range values {
		args[i] = v
	}

	defer r.observe("append_"+schema.SQLTable, time.Now())
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return classify(err, "append "+string(table))
	}
	return nil
}

// FindRowByKey returns the index of the first row whose key column equals key.
func (r *TableStore) FindRowByKey(ctx context.Context, table models.TableName, key string) (int64, error) {
	schema, err := lookupSchema(table)
	if err != nil {
		return 0, err
	}
	query := fmt.Sprintf("SELECT row_id FROM %s WHERE %s = $1 ORDER BY row_id LIMIT 1",
		pq.QuoteIdentifier(schema.SQLTable), quoteColumn(schema.Key))

	defer r.observe("find_"+schema.SQLTable, time.Now())
	var rowID int64
	if err := r.db.GetContext(ctx, &rowID, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("%s %q not found", schema.Key, key))
		}
		return 0, classify(err, "find in "+string(table))
	}
	return rowID, nil
}

// ReadRow returns the row stored at rowIndex.
func (r *TableStore) ReadRow(ctx context.Context, table models.TableName, rowIndex int64) (models.Row, error) {
	schema, err := lookupSchema(table)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE row_id = $1",
		columnList(schema.Columns), pq.QuoteIdentifier(schema.SQLTable))

	defer r.observe("read_"+schema.SQLTable, time.Now())
	rows, err := r.db.QueryxContext(ctx, query, rowIndex)
	if err != nil {
		return nil, classify(err, "read "+string(table))
	}
	defer rows.Close() //nolint:errcheck

	result, err := scanRows(schema, rows)
	if err != nil {
		return nil, classify(err, "read "+string(table))
	}
	if len(result) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("row %d not found in %s", rowIndex, table))
	}
	return result[0], nil
}

// UpdateCell overwrites a single cell.
func (r *TableStore) UpdateCell(ctx context.Context, table models.TableName, rowIndex int64, column, value string) error {
	schema, err := lookupColumn(table, column)
	if err != nil {
		return err
	}
	query := fmt.Sprintf("UPDATE %s SET %s = $1 WHERE row_id = $2",
		pq.QuoteIdentifier(schema.SQLTable), quoteColumn(column))

	defer r.observe("update_"+schema.SQLTable, time.Now())
	res, err := r.db.ExecContext(ctx, query, value, rowIndex)
	if err != nil {
		return classify(err, "update "+string(table))
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("row %d not found in %s", rowIndex, table))
	}
	return nil
}

// CompareAndSwapCell writes value only while the cell still holds expected. A NULL
// cell compares equal to the empty string.
func (r *TableStore) CompareAndSwapCell(ctx context.Context, table models.TableName, rowIndex int64, column, expected, value string) (bool, error) {
	schema, err := lookupColumn(table, column)
	if err != nil {
		return false, err
	}
	col := quoteColumn(column)
	query := fmt.Sprintf("UPDATE %s SET %s = $1 WHERE row_id = $2 AND COALESCE(%s, '') = $3",
		pq.QuoteIdentifier(schema.SQLTable), col, col)

	defer r.observe("cas_"+schema.SQLTable, time.Now())
	res, err := r.db.ExecContext(ctx, query, value, rowIndex, expected)
	if err != nil {
		return false, classify(err, "compare-and-swap "+string(table))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, classify(err, "compare-and-swap "+string(table))
	}
	return affected == 1, nil
}

// LoadTable returns every row in insertion order.
func (r *TableStore) LoadTable(ctx context.Context, table models.TableName) ([]models.Row, error) {
	schema, err := lookupSchema(table)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY row_id",
		columnList(schema.Columns), pq.QuoteIdentifier(schema.SQLTable))

	defer r.observe("load_"+schema.SQLTable, time.Now())
	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, classify(err, "load "+string(table))
	}
	defer rows.Close() //nolint:errcheck

	result, err := scanRows(schema, rows)
	if err != nil {
		return nil, classify(err, "load "+string(table))
	}
	return result, nil
}

// KeyValues returns the key column of every row, bypassing any cache.
func (r *TableStore) KeyValues(ctx context.Context, table models.TableName) ([]string, error) {
	schema, err := lookupSchema(table)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT COALESCE(%s, '') FROM %s ORDER BY row_id",
		quoteColumn(schema.Key), pq.QuoteIdentifier(schema.SQLTable))

	defer r.observe("keys_"+schema.SQLTable, time.Now())
	var keys []string
	if err := r.db.SelectContext(ctx, &keys, query); err != nil {
		return nil, classify(err, "read keys of "+string(table))
	}
	return keys, nil
}

func (r *TableStore) observe(label string, start time.Time) {
	if r.observer != nil {
		r.observer.ObserveDBQuery(label, time.Since(start))
	}
}

func scanRows(schema models.TableSchema, rows *sqlx.Rows) ([]models.Row, error) {
	var result []models.Row
	for rows.Next() {
		cells := make([]sql.NullString, len(schema.Columns))
		dest := make([]interface{}, len(cells))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		values := make([]string, len(cells))
		for i, cell := range cells {
			values[i] = cell.String
		}
		result = append(result, schema.RowFromValues(values))
	}
	return result, rows.Err()
}

func lookupSchema(table models.TableName) (models.TableSchema, error) {
	schema, ok := models.SchemaFor(table)
	if !ok {
		return models.TableSchema{}, appErrors.Clone(appErrors.ErrTableNotFound, fmt.Sprintf("table %q not found", table))
	}
	return schema, nil
}

func lookupColumn(table models.TableName, column string) (models.TableSchema, error) {
	schema, err := lookupSchema(table)
	if err != nil {
		return schema, err
	}
	if !schema.Has(column) {
		return schema, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("column %q not in %s", column, table))
	}
	return schema, nil
}

func quoteColumn(column string) string {
	return pq.QuoteIdentifier(models.SnakeCase(column))
}

func columnList(columns []string) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quoteColumn(c)
	}
	return strings.Join(quoted, ", ")
}

// classify maps driver failures onto the store error taxonomy.
func classify(err error, op string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == undefinedTable {
		return appErrors.WrapAs(appErrors.ErrTableNotFound, err, op+": table missing in store")
	}
	return appErrors.WrapAs(appErrors.ErrStoreUnavailable, fmt.Errorf("%s: %w", op, err), "")
}
