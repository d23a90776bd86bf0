package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-admin-console/internal/middleware"
	"github.com/noah-isme/sma-admin-console/internal/models"
	"github.com/noah-isme/sma-admin-console/internal/service"
	appErrors "github.com/noah-isme/sma-admin-console/pkg/errors"
	"github.com/noah-isme/sma-admin-console/pkg/response"
)

type materialService interface {
	Publish(ctx context.Context, req service.PublishMaterialRequest) (*models.Material, error)
	List(ctx context.Context, filter models.MaterialFilter) ([]models.Material, bool, error)
}

// MaterialHandler exposes material publishing endpoints.
type MaterialHandler struct {
	materials materialService
}

// NewMaterialHandler constructs MaterialHandler.
func NewMaterialHandler(materials materialService) *MaterialHandler {
	return &MaterialHandler{materials: materials}
}

// Publish godoc
// @Summary Publish material
// @Description Global materials are stored without a teacher ID.
// @Tags Materials
// @Accept json
// @Produce json
// @Param payload body service.PublishMaterialRequest true "Material"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /materials [post]
func (h *MaterialHandler) Publish(c *gin.Context) {
	var req service.PublishMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	material, err := h.materials.Publish(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, material)
}

// List godoc
// @Summary List materials
// @Tags Materials
// @Produce json
// @Param scope query string false "Global or Subject"
// @Param teacherId query string false "Owning teacher"
// @Success 200 {object} response.Envelope
// @Router /materials [get]
func (h *MaterialHandler) List(c *gin.Context) {
	filter := models.MaterialFilter{
		Scope:     models.MaterialScope(strings.TrimSpace(c.Query("scope"))),
		TeacherID: c.Query("teacherId"),
	}
	materials, cacheHit, err := h.materials.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, materials, nil, middleware.ExtractMeta(c))
}
