package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-admin-console/internal/models"
	appErrors "github.com/noah-isme/sma-admin-console/pkg/errors"
)

// PublishMaterialRequest holds a material link to publish.
type PublishMaterialRequest struct {
	Scope     models.MaterialScope `json:"scope" validate:"required,oneof=Global Subject"`
	Title     string               `json:"title" validate:"required,max=300"`
	Link      string               `json:"link" validate:"required"`
	TeacherID string               `json:"teacher_id"`
}

// MaterialConfig controls publishing checks.
type MaterialConfig struct {
	VerifyTeacher bool
}

// MaterialService publishes and lists learning materials.
type MaterialService struct {
	store     TableStore
	cache     *TableCache
	metrics   *MetricsService
	cfg       MaterialConfig
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewMaterialService constructs the material service.
func NewMaterialService(store TableStore, cache *TableCache, metrics *MetricsService, cfg MaterialConfig, validate *validator.Validate, logger *zap.Logger) *MaterialService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MaterialService{
		store:     store,
		cache:     cache,
		metrics:   metrics,
		cfg:       cfg,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// Publish appends a material. Global materials never carry a teacher ID.
func (s *MaterialService) Publish(ctx context.Context, req PublishMaterialRequest) (*models.Material, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Link = strings.TrimSpace(req.Link)
	req.TeacherID = strings.TrimSpace(req.TeacherID)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid material payload")
	}

	teacherID := ""
	if req.Scope == models.MaterialScopeSubject {
		teacherID = req.TeacherID
		if s.cfg.VerifyTeacher {
			if err := s.verifyTeacher(ctx, teacherID); err != nil {
				return nil, err
			}
		}
	}

	material := models.Material{
		Type:      req.Scope,
		Title:     req.Title,
		Link:      req.Link,
		TeacherID: teacherID,
		Timestamp: s.now().UTC().Format(time.RFC3339),
	}
	if err := s.store.Append(ctx, models.TableMaterials, material.Row()); err != nil {
		return nil, storeFailure(err, "failed to publish material")
	}
	s.metrics.RecordMaterial(string(material.Type))
	s.logger.Info("material published",
		zap.String("scope", string(material.Type)),
		zap.String("title", material.Title),
		zap.String("teacher_id", teacherID))
	return &material, nil
}

// List returns published materials, optionally narrowed by scope and teacher.
// The boolean reports whether the rows came from cache.
func (s *MaterialService) List(ctx context.Context, filter models.MaterialFilter) ([]models.Material, bool, error) {
	if filter.Scope != "" && !filter.Scope.Valid() {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "scope must be Global or Subject")
	}
	rows, hit, err := s.cache.Load(ctx, s.store, models.TableMaterials)
	if err != nil {
		return nil, false, storeFailure(err, "failed to list materials")
	}
	teacherID := strings.TrimSpace(filter.TeacherID)
	materials := make([]models.Material, 0, len(rows))
	for _, row := range rows {
		m := models.MaterialFromRow(row)
		if filter.Scope != "" && m.Type != filter.Scope {
			continue
		}
		if teacherID != "" && m.TeacherID != teacherID {
			continue
		}
		materials = append(materials, m)
	}
	return materials, hit, nil
}

func (s *MaterialService) verifyTeacher(ctx context.Context, teacherID string) error {
	if teacherID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "teacher_id is required for Subject materials")
	}
	if _, err := s.store.FindRowByKey(ctx, models.TableTeachers, teacherID); err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			return appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return storeFailure(err, "failed to verify teacher")
	}
	return nil
}
