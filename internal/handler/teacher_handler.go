package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-admin-console/internal/middleware"
	"github.com/noah-isme/sma-admin-console/internal/models"
	"github.com/noah-isme/sma-admin-console/internal/service"
	appErrors "github.com/noah-isme/sma-admin-console/pkg/errors"
	"github.com/noah-isme/sma-admin-console/pkg/response"
)

// TeacherHandler exposes teacher endpoints.
type TeacherHandler struct {
	registration registrationService
	directory    directoryService
	exports      exportService
}

// NewTeacherHandler constructs TeacherHandler.
func NewTeacherHandler(registration registrationService, directory directoryService, exports exportService) *TeacherHandler {
	return &TeacherHandler{registration: registration, directory: directory, exports: exports}
}

// Register godoc
// @Summary Register teacher
// @Description Creates a teacher and returns the generated ID and password.
// @Tags Teachers
// @Accept json
// @Produce json
// @Param payload body service.RegisterTeacherRequest true "Teacher payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /teachers [post]
func (h *TeacherHandler) Register(c *gin.Context) {
	var req service.RegisterTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	teacher, err := h.registration.RegisterTeacher(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, teacher)
}

// List godoc
// @Summary List teachers
// @Tags Teachers
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /teachers [get]
func (h *TeacherHandler) List(c *gin.Context) {
	var filter models.TeacherFilter
	filter.Page, filter.PageSize = pageParams(c)

	teachers, pagination, cacheHit, err := h.directory.ListTeachers(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, teachers, pagination, middleware.ExtractMeta(c))
}

// Export godoc
// @Summary Export teacher roster
// @Tags Teachers
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /teachers/export [get]
func (h *TeacherHandler) Export(c *gin.Context) {
	exportTable(c, h.exports, models.TableTeachers)
}
