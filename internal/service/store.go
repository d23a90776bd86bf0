package service

import (
	"context"
	"errors"

	"github.com/noah-isme/sma-admin-console/internal/models"
	appErrors "github.com/noah-isme/sma-admin-console/pkg/errors"
)

// TableStore is the subset of the tabular store adapter the services rely on.
type TableStore interface {
	Append(ctx context.Context, table models.TableName, row models.Row) error
	FindRowByKey(ctx context.Context, table models.TableName, key string) (int64, error)
	ReadRow(ctx context.Context, table models.TableName, rowIndex int64) (models.Row, error)
	CompareAndSwapCell(ctx context.Context, table models.TableName, rowIndex int64, column, expected, value string) (bool, error)
	LoadTable(ctx context.Context, table models.TableName) ([]models.Row, error)
	KeyValues(ctx context.Context, table models.TableName) ([]string, error)
}

// storeFailure keeps typed store errors intact and wraps anything else as internal.
func storeFailure(err error, message string) error {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return err
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

func keySet(keys []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}
