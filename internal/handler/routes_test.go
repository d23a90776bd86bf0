package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-admin-console/internal/models"
	"github.com/noah-isme/sma-admin-console/internal/repository"
	"github.com/noah-isme/sma-admin-console/internal/service"
)

func newConsoleRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repository.NewMemoryTableStore()
	metrics := service.NewMetricsService()
	cache := service.NewTableCache(nil, metrics, 0, nil, false)
	ids := service.NewIdentifierGenerator(0)
	registration := service.NewRegistrationService(store, ids, metrics, service.RegistrationConfig{UniqueTeacherIDs: true}, nil, nil)
	directory := service.NewDirectoryService(store, cache, nil)
	exports := service.NewExportService(store, cache, nil, nil, nil)

	r := gin.New()
	RegisterOps(r, NewMetricsHandler(metrics, nil))
	RegisterRoutes(r.Group("/api/v1"), Handlers{
		Students:  NewStudentHandler(registration, directory, exports),
		Teachers:  NewTeacherHandler(registration, directory, exports),
		Ledger:    NewLedgerHandler(service.NewLedgerService(store, ids, metrics, nil, nil)),
		Materials: NewMaterialHandler(service.NewMaterialService(store, cache, metrics, service.MaterialConfig{VerifyTeacher: true}, nil, nil)),
	}, zap.NewNop())
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var envelope struct {
		Data map[string]interface{} `json:"data"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	return rec, envelope.Data
}

func TestConsoleRegisterAndCollectFees(t *testing.T) {
	r := newConsoleRouter(t)

	rec, student := doJSON(t, r, http.MethodPost, "/api/v1/students", map[string]interface{}{"name": "Ahmed Ali", "total_fees": 500})
	require.Equal(t, http.StatusCreated, rec.Code)
	id, _ := student["student_id"].(string)
	require.Regexp(t, `^[A-Z][0-9]{7}$`, id)
	assert.Equal(t, "", student["password"])

	rec, first := doJSON(t, r, http.MethodPost, "/api/v1/students/"+id+"/payments", map[string]float64{"amount": 300})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 300.0, first["paid_fees"])
	password, _ := first["password"].(string)
	assert.Regexp(t, `^[A-Za-z]{2}[0-9]{6}$`, password)

	rec, _ = doJSON(t, r, http.MethodPost, "/api/v1/students/"+id+"/payments", map[string]float64{"amount": 200.01})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, second := doJSON(t, r, http.MethodPost, "/api/v1/students/"+id+"/payments", map[string]float64{"amount": 200})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 500.0, second["paid_fees"])
	assert.Equal(t, password, second["password"])

	rec, balance := doJSON(t, r, http.MethodGet, "/api/v1/students/"+id+"/ledger", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, balance["settled"])

	rec, settled := doJSON(t, r, http.MethodPost, "/api/v1/students/"+id+"/payments", map[string]float64{"amount": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "already_settled", settled["outcome"])

	rec, _ = doJSON(t, r, http.MethodGet, "/api/v1/students/Z0000000/ledger", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConsoleTeachersAndMaterials(t *testing.T) {
	r := newConsoleRouter(t)

	rec, teacher := doJSON(t, r, http.MethodPost, "/api/v1/teachers", map[string]string{"name": "Mona", "subject": "Math"})
	require.Equal(t, http.StatusCreated, rec.Code)
	teacherID, _ := teacher["teacher_id"].(string)
	require.Regexp(t, `^T[0-9]{6}$`, teacherID)

	rec, material := doJSON(t, r, http.MethodPost, "/api/v1/materials", map[string]string{
		"scope": "Global", "title": "Calendar", "link": "https://drive.test/cal", "teacher_id": teacherID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "", material["teacher_id"])

	rec, _ = doJSON(t, r, http.MethodPost, "/api/v1/materials", map[string]string{
		"scope": "Subject", "title": "Algebra", "link": "https://drive.test/alg", "teacher_id": "T000000x",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = doJSON(t, r, http.MethodPost, "/api/v1/materials", map[string]string{
		"scope": "Subject", "title": "Algebra", "link": "https://drive.test/alg", "teacher_id": teacherID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/materials?scope=Subject", nil)
	out := httptest.NewRecorder()
	r.ServeHTTP(out, req)
	require.Equal(t, http.StatusOK, out.Code)
	var listed struct {
		Data []models.Material `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Body.Bytes(), &listed))
	require.Len(t, listed.Data, 1)
	assert.Equal(t, teacherID, listed.Data[0].TeacherID)

	csvReq := httptest.NewRequest(http.MethodGet, "/api/v1/teachers/export?format=csv", nil)
	csvOut := httptest.NewRecorder()
	r.ServeHTTP(csvOut, csvReq)
	require.Equal(t, http.StatusOK, csvOut.Code)
	assert.True(t, strings.Contains(csvOut.Body.String(), teacherID))
	assert.False(t, strings.Contains(csvOut.Body.String(), teacher["password"].(string)))
}

func TestConsoleListingBeyondLastPage(t *testing.T) {
	r := newConsoleRouter(t)
	rec, _ := doJSON(t, r, http.MethodPost, "/api/v1/teachers", map[string]string{"name": "Mona", "subject": "Math"})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec, _ = doJSON(t, r, http.MethodPost, "/api/v1/students", map[string]interface{}{"name": "Ahmed Ali", "total_fees": 500})
	require.Equal(t, http.StatusCreated, rec.Code)

	for _, path := range []string{
		"/api/v1/teachers?page=9223372036854775807",
		"/api/v1/students?search=ahmed&page=9223372036854775807&limit=100",
	} {
		out := httptest.NewRecorder()
		r.ServeHTTP(out, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, out.Code, path)
		var listed struct {
			Data []json.RawMessage `json:"data"`
		}
		require.NoError(t, json.Unmarshal(out.Body.Bytes(), &listed), path)
		assert.Empty(t, listed.Data, path)
	}

	rec, _ = doJSON(t, r, http.MethodPost, "/api/v1/students", map[string]interface{}{"name": "Big Fee", "total_fees": 1e17})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }

func TestOpsEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterOps(r, NewMetricsHandler(service.NewMetricsService(), fakePinger{err: errors.New("dial tcp: refused")}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "goroutines_total")
}
