package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-admin-console/internal/models"
	appErrors "github.com/noah-isme/sma-admin-console/pkg/errors"
)

func newExportFixture() (*ExportService, *fakeStore) {
	store := newFakeStore()
	store.seedStudent("A1234567", "Ahmed Ali", "500", "300", "Xy123456")
	store.seedTeacher("T000001", "Mona", "Math")
	svc := NewExportService(store, nil, nil, nil, nil)
	svc.now = func() time.Time { return time.Date(2026, 10, 19, 7, 5, 9, 0, time.UTC) }
	return svc, store
}

func TestExportStudentsCSV(t *testing.T) {
	svc, _ := newExportFixture()

	file, err := svc.ExportTable(context.Background(), models.TableStudents, "CSV")
	require.NoError(t, err)
	assert.Equal(t, "students_20261019_070509.csv", file.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)

	body := string(file.Body)
	assert.Contains(t, body, "StudentID,Name,")
	assert.Contains(t, body, "A1234567,Ahmed Ali")
	assert.NotContains(t, body, "Password")
	assert.NotContains(t, body, "Xy123456")
}

func TestExportTeachersPDF(t *testing.T) {
	svc, _ := newExportFixture()

	file, err := svc.ExportTable(context.Background(), models.TableTeachers, ExportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Body, []byte("%PDF")))
}

func TestExportRejectsUnknownFormatAndTable(t *testing.T) {
	svc, store := newExportFixture()

	_, err := svc.ExportTable(context.Background(), models.TableStudents, "xlsx")
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.ExportTable(context.Background(), models.TableMaterials, ExportFormatCSV)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.ExportTable(context.Background(), "Grades", ExportFormatCSV)
	assert.True(t, errors.Is(err, appErrors.ErrTableNotFound))
	assert.Equal(t, 0, store.loads)
}
