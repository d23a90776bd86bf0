package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-admin-console/internal/models"
	appErrors "github.com/noah-isme/sma-admin-console/pkg/errors"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// DirectoryService answers read-only lookups over the roster tables.
type DirectoryService struct {
	store  TableStore
	cache  *TableCache
	logger *zap.Logger
}

// NewDirectoryService constructs the directory service.
func NewDirectoryService(store TableStore, cache *TableCache, logger *zap.Logger) *DirectoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirectoryService{store: store, cache: cache, logger: logger}
}

// SearchStudents matches the term case-insensitively against name and student ID.
func (s *DirectoryService) SearchStudents(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, bool, error) {
	term := strings.ToLower(strings.TrimSpace(filter.Search))
	if term == "" {
		return nil, nil, false, appErrors.Clone(appErrors.ErrValidation, "search term is required")
	}
	rows, hit, err := s.cache.Load(ctx, s.store, models.TableStudents)
	if err != nil {
		return nil, nil, false, storeFailure(err, "failed to search students")
	}

	matches := make([]models.Student, 0)
	for _, row := range rows {
		if strings.Contains(strings.ToLower(row[models.ColName]), term) ||
			strings.Contains(strings.ToLower(row[models.ColStudentID]), term) {
			matches = append(matches, models.StudentFromRow(row))
		}
	}
	start, end, pagination := paginate(len(matches), filter.Page, filter.PageSize)
	s.logger.Debug("student search", zap.String("term", term), zap.Int("matches", len(matches)), zap.Bool("cache_hit", hit))
	return matches[start:end], pagination, hit, nil
}

// ListTeachers returns the teacher roster in registration order.
func (s *DirectoryService) ListTeachers(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, *models.Pagination, bool, error) {
	rows, hit, err := s.cache.Load(ctx, s.store, models.TableTeachers)
	if err != nil {
		return nil, nil, false, storeFailure(err, "failed to list teachers")
	}
	teachers := make([]models.Teacher, len(rows))
	for i, row := range rows {
		teachers[i] = models.TeacherFromRow(row)
	}
	start, end, pagination := paginate(len(teachers), filter.Page, filter.PageSize)
	return teachers[start:end], pagination, hit, nil
}

func paginate(total, page, size int) (int, int, *models.Pagination) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	start := total
	if page-1 <= total/size {
		start = min((page-1)*size, total)
	}
	end := start + size
	if end > total {
		end = total
	}
	return start, end, &models.Pagination{Page: page, PageSize: size, TotalCount: total}
}
