package unit_tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"promptstudio/internal/models"
	"promptstudio/internal/services"
	"promptstudio/internal/tests/mocks"
)

func newBundleService(t *testing.T, repo *mocks.BundleRepositoryMock) services.BundleService {
	t.Helper()
	svc := services.NewBundleService(repo)
	svc.Startup(context.Background())
	return svc
}

func TestBundleService_CreateAssignsID(t *testing.T) {
	svc := newBundleService(t, &mocks.BundleRepositoryMock{})

	created, err := svc.Create(models.TemplateBundle{Name: "Pack", TemplateIDs: []string{"t1"}})
	assert.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Len(t, svc.List(), 1)
}

func TestBundleService_CreateRequiresName(t *testing.T) {
	svc := newBundleService(t, &mocks.BundleRepositoryMock{})

	_, err := svc.Create(models.TemplateBundle{})
	assert.Error(t, err)
}

func TestBundleService_UpdateReplacesMemberOrder(t *testing.T) {
	svc := newBundleService(t, &mocks.BundleRepositoryMock{})
	created, _ := svc.Create(models.TemplateBundle{Name: "Pack", TemplateIDs: []string{"t1", "t2"}})

	created.TemplateIDs = []string{"t2", "t1"}
	updated, err := svc.Update(created)
	assert.NoError(t, err)
	assert.Equal(t, []string{"t2", "t1"}, updated.TemplateIDs)

	got, err := svc.Get(created.ID)
	assert.NoError(t, err)
	assert.Equal(t, []string{"t2", "t1"}, got.TemplateIDs)
}

func TestBundleService_DeleteAndClear(t *testing.T) {
	var lastWrite []models.TemplateBundle
	repo := &mocks.BundleRepositoryMock{
		ReplaceAllFunc: func(ctx context.Context, bundles []models.TemplateBundle) error {
			lastWrite = bundles
			return nil
		},
	}
	svc := newBundleService(t, repo)
	a, _ := svc.Create(models.TemplateBundle{Name: "A"})
	_, _ = svc.Create(models.TemplateBundle{Name: "B"})

	assert.NoError(t, svc.Delete(a.ID))
	assert.Len(t, svc.List(), 1)

	svc.Clear()
	svc.Flush()
	assert.Empty(t, svc.List())
	assert.Empty(t, lastWrite)
}

func TestBundleService_MergeIsIdempotent(t *testing.T) {
	svc := newBundleService(t, &mocks.BundleRepositoryMock{})
	existing, _ := svc.Create(models.TemplateBundle{Name: "Mine"})

	incoming := []models.TemplateBundle{
		{ID: existing.ID, Name: "Theirs"},
		{ID: "new-b", Name: "New"},
	}

	assert.Equal(t, 1, svc.Merge(incoming))
	assert.Equal(t, 0, svc.Merge(incoming))
	assert.Len(t, svc.List(), 2)

	kept, _ := svc.Get(existing.ID)
	assert.Equal(t, "Mine", kept.Name)
}
