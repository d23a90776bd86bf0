package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-admin-console/internal/middleware"
	"github.com/noah-isme/sma-admin-console/internal/models"
	"github.com/noah-isme/sma-admin-console/internal/service"
	appErrors "github.com/noah-isme/sma-admin-console/pkg/errors"
)

type fakeRegistration struct {
	studentReq service.RegisterStudentRequest
	teacherReq service.RegisterTeacherRequest
	student    *models.Student
	teacher    *models.Teacher
	err        error
}

func (f *fakeRegistration) RegisterStudent(_ context.Context, req service.RegisterStudentRequest) (*models.Student, error) {
	f.studentReq = req
	return f.student, f.err
}

func (f *fakeRegistration) RegisterTeacher(_ context.Context, req service.RegisterTeacherRequest) (*models.Teacher, error) {
	f.teacherReq = req
	return f.teacher, f.err
}

type fakeDirectory struct {
	studentFilter models.StudentFilter
	teacherFilter models.TeacherFilter
	students      []models.Student
	teachers      []models.Teacher
	hit           bool
	err           error
}

func (f *fakeDirectory) SearchStudents(_ context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, bool, error) {
	f.studentFilter = filter
	if f.err != nil {
		return nil, nil, false, f.err
	}
	return f.students, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: len(f.students)}, f.hit, nil
}

func (f *fakeDirectory) ListTeachers(_ context.Context, filter models.TeacherFilter) ([]models.Teacher, *models.Pagination, bool, error) {
	f.teacherFilter = filter
	if f.err != nil {
		return nil, nil, false, f.err
	}
	return f.teachers, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: len(f.teachers)}, f.hit, nil
}

type fakeExports struct {
	table  models.TableName
	format service.ExportFormat
	file   *service.ExportFile
	err    error
}

func (f *fakeExports) ExportTable(_ context.Context, table models.TableName, format service.ExportFormat) (*service.ExportFile, error) {
	f.table, f.format = table, format
	return f.file, f.err
}

func TestStudentHandlerRegister(t *testing.T) {
	reg := &fakeRegistration{student: &models.Student{StudentID: "A1234567", Name: "Ahmed Ali", TotalFees: 500}}
	h := NewStudentHandler(reg, &fakeDirectory{}, &fakeExports{})

	c, rec := newTestContext(http.MethodPost, "/students", map[string]interface{}{"name": "Ahmed Ali", "total_fees": 500, "phone": "0100"})
	h.Register(c)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Ahmed Ali", reg.studentReq.Name)
	assert.Equal(t, 500.0, reg.studentReq.TotalFees)
	assert.Equal(t, "0100", reg.studentReq.Phone)

	var student models.Student
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &student))
	assert.Equal(t, "A1234567", student.StudentID)
	assert.Equal(t, 0.0, student.PaidFees)
}

func TestStudentHandlerRegisterBadJSON(t *testing.T) {
	h := NewStudentHandler(&fakeRegistration{}, &fakeDirectory{}, &fakeExports{})

	c, rec := newTestContext(http.MethodPost, "/students", `{"name":`)
	h.Register(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeEnvelope(t, rec).Error.Code)
}

func TestStudentHandlerRegisterStoreUnavailable(t *testing.T) {
	reg := &fakeRegistration{err: appErrors.Clone(appErrors.ErrStoreUnavailable, "backing store unavailable")}
	h := NewStudentHandler(reg, &fakeDirectory{}, &fakeExports{})

	c, rec := newTestContext(http.MethodPost, "/students", map[string]interface{}{"name": "Omar"})
	h.Register(c)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "STORE_UNAVAILABLE", decodeEnvelope(t, rec).Error.Code)
}

func TestStudentHandlerSearch(t *testing.T) {
	dir := &fakeDirectory{students: []models.Student{{StudentID: "A1234567", Name: "Ahmed Ali"}}, hit: true}
	h := NewStudentHandler(&fakeRegistration{}, dir, &fakeExports{})

	c, rec := newTestContext(http.MethodGet, "/students?search=%20ahmed%20&page=2&limit=5", nil)
	middleware.WithResponseMeta()(c)
	h.Search(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ahmed", dir.studentFilter.Search)
	assert.Equal(t, 2, dir.studentFilter.Page)
	assert.Equal(t, 5, dir.studentFilter.PageSize)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, true, envelope.Meta["cache_hit"])
	assert.Equal(t, float64(1), envelope.Pagination["total_count"])
}

func TestStudentHandlerSearchValidation(t *testing.T) {
	dir := &fakeDirectory{err: appErrors.Clone(appErrors.ErrValidation, "search term is required")}
	h := NewStudentHandler(&fakeRegistration{}, dir, &fakeExports{})

	c, rec := newTestContext(http.MethodGet, "/students", nil)
	h.Search(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStudentHandlerExport(t *testing.T) {
	exports := &fakeExports{file: &service.ExportFile{Filename: "students.csv", ContentType: "text/csv; charset=utf-8", Body: []byte("StudentID\n")}}
	h := NewStudentHandler(&fakeRegistration{}, &fakeDirectory{}, exports)

	c, rec := newTestContext(http.MethodGet, "/students/export", nil)
	h.Export(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.TableStudents, exports.table)
	assert.Equal(t, service.ExportFormatCSV, exports.format)
	assert.Equal(t, `attachment; filename="students.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "StudentID\n", rec.Body.String())
}
