package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/noah-isme/sma-admin-console/internal/models"
	"github.com/noah-isme/sma-admin-console/internal/repository"
	appErrors "github.com/noah-isme/sma-admin-console/pkg/errors"
)

// fakeStore wraps the in-memory store with error injection and call counters.
type fakeStore struct {
	*repository.MemoryTableStore

	appendErr error
	findErr   error
	loadErr   error
	keysErr   error

	// beforeCAS runs right before a compare-and-swap reaches the table.
	beforeCAS func(column string)

	appends  int
	loads    int
	keyReads int
	casCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{MemoryTableStore: repository.NewMemoryTableStore()}
}

func (f *fakeStore) Append(ctx context.Context, table models.TableName, row models.Row) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appends++
	return f.MemoryTableStore.Append(ctx, table, row)
}

func (f *fakeStore) FindRowByKey(ctx context.Context, table models.TableName, key string) (int64, error) {
	if f.findErr != nil {
		return 0, f.findErr
	}
	return f.MemoryTableStore.FindRowByKey(ctx, table, key)
}

func (f *fakeStore) CompareAndSwapCell(ctx context.Context, table models.TableName, rowIndex int64, column, expected, value string) (bool, error) {
	f.casCalls++
	if f.beforeCAS != nil {
		f.beforeCAS(column)
	}
	return f.MemoryTableStore.CompareAndSwapCell(ctx, table, rowIndex, column, expected, value)
}

func (f *fakeStore) LoadTable(ctx context.Context, table models.TableName) ([]models.Row, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	f.loads++
	return f.MemoryTableStore.LoadTable(ctx, table)
}

func (f *fakeStore) KeyValues(ctx context.Context, table models.TableName) ([]string, error) {
	if f.keysErr != nil {
		return nil, f.keysErr
	}
	f.keyReads++
	return f.MemoryTableStore.KeyValues(ctx, table)
}

// seedStudent appends a student row built from raw cells.
func (f *fakeStore) seedStudent(id, name, total, paid, password string) {
	row := models.Row{
		models.ColStudentID: id,
		models.ColName:      name,
		models.ColTotalFees: total,
		models.ColPaidFees:  paid,
		models.ColPassword:  password,
	}
	if err := f.MemoryTableStore.Append(context.Background(), models.TableStudents, row); err != nil {
		panic(err)
	}
}

func (f *fakeStore) seedTeacher(id, name, subject string) {
	row := models.Teacher{TeacherID: id, Name: name, Subject: subject, Password: "ab123456"}.Row()
	if err := f.MemoryTableStore.Append(context.Background(), models.TableTeachers, row); err != nil {
		panic(err)
	}
}

func (f *fakeStore) studentRow(id string) models.Row {
	ctx := context.Background()
	idx, err := f.MemoryTableStore.FindRowByKey(ctx, models.TableStudents, id)
	if err != nil {
		panic(err)
	}
	row, err := f.MemoryTableStore.ReadRow(ctx, models.TableStudents, idx)
	if err != nil {
		panic(err)
	}
	return row
}

// memoryCache mimics the Redis repository: JSON values, miss when absent.
type memoryCache struct {
	mu      sync.Mutex
	items   map[string][]byte
	getErr  error
	setErr  error
	sets    int
	lastTTL time.Duration
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: make(map[string][]byte)}
}

func (c *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return c.getErr
	}
	raw, ok := c.items[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.lastTTL = ttl
	if c.setErr != nil {
		return c.setErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.items[key] = raw
	return nil
}
