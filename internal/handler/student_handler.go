package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-admin-console/internal/middleware"
	"github.com/noah-isme/sma-admin-console/internal/models"
	"github.com/noah-isme/sma-admin-console/internal/service"
	appErrors "github.com/noah-isme/sma-admin-console/pkg/errors"
	"github.com/noah-isme/sma-admin-console/pkg/response"
)

type registrationService interface {
	RegisterStudent(ctx context.Context, req service.RegisterStudentRequest) (*models.Student, error)
	RegisterTeacher(ctx context.Context, req service.RegisterTeacherRequest) (*models.Teacher, error)
}

type directoryService interface {
	SearchStudents(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, bool, error)
	ListTeachers(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, *models.Pagination, bool, error)
}

type exportService interface {
	ExportTable(ctx context.Context, table models.TableName, format service.ExportFormat) (*service.ExportFile, error)
}

// StudentHandler exposes student registration, search and export endpoints.
type StudentHandler struct {
	registration registrationService
	directory    directoryService
	exports      exportService
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(registration registrationService, directory directoryService, exports exportService) *StudentHandler {
	return &StudentHandler{registration: registration, directory: directory, exports: exports}
}

// Register godoc
// @Summary Register student
// @Description Creates a student with a fresh ID, zero paid fees and no password.
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body service.RegisterStudentRequest true "Admission form"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /students [post]
func (h *StudentHandler) Register(c *gin.Context) {
	var req service.RegisterStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, err := h.registration.RegisterStudent(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// Search godoc
// @Summary Search students
// @Description Case-insensitive match on name or student ID. Results may be a few seconds stale.
// @Tags Students
// @Produce json
// @Param search query string true "Name or ID fragment"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) Search(c *gin.Context) {
	filter := models.StudentFilter{Search: strings.TrimSpace(c.Query("search"))}
	filter.Page, filter.PageSize = pageParams(c)

	students, pagination, cacheHit, err := h.directory.SearchStudents(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, students, pagination, middleware.ExtractMeta(c))
}

// Export godoc
// @Summary Export student roster
// @Tags Students
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /students/export [get]
func (h *StudentHandler) Export(c *gin.Context) {
	exportTable(c, h.exports, models.TableStudents)
}

func exportTable(c *gin.Context, exports exportService, table models.TableName) {
	format := service.ExportFormat(c.DefaultQuery("format", string(service.ExportFormatCSV)))
	file, err := exports.ExportTable(c.Request.Context(), table, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}

func pageParams(c *gin.Context) (int, int) {
	page, size := 1, 20
	if v, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		page = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		size = v
	}
	return page, size
}
