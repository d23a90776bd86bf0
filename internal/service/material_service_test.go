package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-admin-console/internal/models"
	appErrors "github.com/noah-isme/sma-admin-console/pkg/errors"
)

var publishedAt = time.Date(2026, 10, 19, 11, 45, 0, 0, time.FixedZone("EET", 3*3600))

func newMaterialFixture(verify bool) (*MaterialService, *fakeStore) {
	store := newFakeStore()
	svc := NewMaterialService(store, nil, nil, MaterialConfig{VerifyTeacher: verify}, nil, nil)
	svc.now = func() time.Time { return publishedAt }
	return svc, store
}

func TestPublishGlobalDropsTeacherID(t *testing.T) {
	svc, store := newMaterialFixture(true)

	material, err := svc.Publish(context.Background(), PublishMaterialRequest{
		Scope: models.MaterialScopeGlobal, Title: "Exam timetable", Link: "https://drive.test/timetable", TeacherID: "T123456",
	})
	require.NoError(t, err)
	assert.Equal(t, "", material.TeacherID)
	assert.Equal(t, "2026-10-19T08:45:00Z", material.Timestamp)

	rows, err := store.MemoryTableStore.LoadTable(context.Background(), models.TableMaterials)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Global", rows[0][models.ColType])
	assert.Equal(t, "", rows[0][models.ColTeacherID])
}

func TestPublishSubjectVerifiesTeacher(t *testing.T) {
	svc, store := newMaterialFixture(true)
	store.seedTeacher("T123456", "Mona", "Math")

	material, err := svc.Publish(context.Background(), PublishMaterialRequest{
		Scope: models.MaterialScopeSubject, Title: "Algebra unit 1", Link: "https://drive.test/alg1", TeacherID: " T123456 ",
	})
	require.NoError(t, err)
	assert.Equal(t, "T123456", material.TeacherID)

	_, err = svc.Publish(context.Background(), PublishMaterialRequest{
		Scope: models.MaterialScopeSubject, Title: "Physics", Link: "https://drive.test/p", TeacherID: "T999999",
	})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	_, err = svc.Publish(context.Background(), PublishMaterialRequest{
		Scope: models.MaterialScopeSubject, Title: "Physics", Link: "https://drive.test/p",
	})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.Equal(t, 1, store.appends)
}

func TestPublishSubjectWithoutVerification(t *testing.T) {
	svc, store := newMaterialFixture(false)

	material, err := svc.Publish(context.Background(), PublishMaterialRequest{
		Scope: models.MaterialScopeSubject, Title: "Chemistry", Link: "https://drive.test/c", TeacherID: "T999999",
	})
	require.NoError(t, err)
	assert.Equal(t, "T999999", material.TeacherID)
	assert.Equal(t, 1, store.appends)
}

func TestPublishValidation(t *testing.T) {
	svc, store := newMaterialFixture(false)

	cases := map[string]PublishMaterialRequest{
		"missing title": {Scope: models.MaterialScopeGlobal, Link: "https://drive.test/x"},
		"missing link":  {Scope: models.MaterialScopeGlobal, Title: "X", Link: "  "},
		"unknown scope": {Scope: "Class", Title: "X", Link: "https://drive.test/x"},
	}
	for name, req := range cases {
		_, err := svc.Publish(context.Background(), req)
		assert.True(t, errors.Is(err, appErrors.ErrValidation), name)
	}
	assert.Equal(t, 0, store.appends)
}

func TestListMaterialsFilters(t *testing.T) {
	svc, _ := newMaterialFixture(false)
	ctx := context.Background()
	for _, req := range []PublishMaterialRequest{
		{Scope: models.MaterialScopeGlobal, Title: "Calendar", Link: "https://drive.test/cal"},
		{Scope: models.MaterialScopeSubject, Title: "Algebra", Link: "https://drive.test/alg", TeacherID: "T000001"},
		{Scope: models.MaterialScopeSubject, Title: "Optics", Link: "https://drive.test/opt", TeacherID: "T000002"},
	} {
		_, err := svc.Publish(ctx, req)
		require.NoError(t, err)
	}

	all, hit, err := svc.List(ctx, models.MaterialFilter{})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Len(t, all, 3)

	subject, _, err := svc.List(ctx, models.MaterialFilter{Scope: models.MaterialScopeSubject})
	require.NoError(t, err)
	assert.Len(t, subject, 2)

	mine, _, err := svc.List(ctx, models.MaterialFilter{TeacherID: "T000002"})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Optics", mine[0].Title)

	_, _, err = svc.List(ctx, models.MaterialFilter{Scope: "Class"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}
