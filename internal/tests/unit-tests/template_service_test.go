package unit_tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"promptstudio/internal/models"
	"promptstudio/internal/services"
	"promptstudio/internal/tests/mocks"
)

func newTemplateService(t *testing.T, repo *mocks.TemplateRepositoryMock) services.TemplateService {
	t.Helper()
	svc := services.NewTemplateService(repo)
	svc.Startup(context.Background())
	return svc
}

func TestTemplateService_CreateAssignsID(t *testing.T) {
	svc := newTemplateService(t, &mocks.TemplateRepositoryMock{})

	created, err := svc.Create(models.PromptTemplate{Title: "Test", Prompt: "body"})
	assert.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Len(t, svc.List(), 1)
}

func TestTemplateService_CreateRequiresTitleAndPrompt(t *testing.T) {
	svc := newTemplateService(t, &mocks.TemplateRepositoryMock{})

	_, err := svc.Create(models.PromptTemplate{Prompt: "body"})
	assert.Error(t, err)

	_, err = svc.Create(models.PromptTemplate{Title: "Test"})
	assert.Error(t, err)
	assert.Empty(t, svc.List())
}

func TestTemplateService_StartupLoadsExisting(t *testing.T) {
	repo := &mocks.TemplateRepositoryMock{
		GetAllFunc: func(ctx context.Context) ([]models.PromptTemplate, error) {
			return []models.PromptTemplate{{ID: "t1", Title: "A", Prompt: "a"}}, nil
		},
	}
	svc := newTemplateService(t, repo)

	assert.Len(t, svc.List(), 1)
	got, err := svc.Get("t1")
	assert.NoError(t, err)
	assert.Equal(t, "A", got.Title)
}

func TestTemplateService_LoadFailureFallsBackToEmpty(t *testing.T) {
	repo := &mocks.TemplateRepositoryMock{
		GetAllFunc: func(ctx context.Context) ([]models.PromptTemplate, error) {
			return nil, assert.AnError
		},
	}
	svc := newTemplateService(t, repo)

	assert.Empty(t, svc.List())
}

func TestTemplateService_UpdateMissingTemplate(t *testing.T) {
	svc := newTemplateService(t, &mocks.TemplateRepositoryMock{})

	_, err := svc.Update(models.PromptTemplate{ID: "nope", Title: "X", Prompt: "x"})
	assert.Error(t, err)
}

func TestTemplateService_DeleteRemovesOnlyTarget(t *testing.T) {
	svc := newTemplateService(t, &mocks.TemplateRepositoryMock{})
	a, _ := svc.Create(models.PromptTemplate{Title: "A", Prompt: "a"})
	b, _ := svc.Create(models.PromptTemplate{Title: "B", Prompt: "b"})

	assert.NoError(t, svc.Delete(a.ID))
	assert.Len(t, svc.List(), 1)
	assert.Equal(t, b.ID, svc.List()[0].ID)
	assert.Error(t, svc.Delete(a.ID))
}

func TestTemplateService_ClearWritesEmptyCollectionThrough(t *testing.T) {
	var lastWrite []models.PromptTemplate
	writes := 0
	repo := &mocks.TemplateRepositoryMock{
		ReplaceAllFunc: func(ctx context.Context, templates []models.PromptTemplate) error {
			lastWrite = templates
			writes++
			return nil
		},
	}
	svc := newTemplateService(t, repo)
	_, _ = svc.Create(models.PromptTemplate{Title: "A", Prompt: "a"})

	svc.Clear()
	svc.Flush()

	assert.Empty(t, svc.List())
	assert.GreaterOrEqual(t, writes, 2)
	assert.Empty(t, lastWrite)
}

func TestTemplateService_MergeIsIdempotent(t *testing.T) {
	svc := newTemplateService(t, &mocks.TemplateRepositoryMock{})
	existing, _ := svc.Create(models.PromptTemplate{Title: "Existing", Prompt: "e"})

	incoming := []models.PromptTemplate{
		{ID: existing.ID, Title: "Clobber attempt", Prompt: "x"},
		{ID: "new-1", Title: "New", Prompt: "n"},
	}

	assert.Equal(t, 1, svc.Merge(incoming))
	assert.Equal(t, 0, svc.Merge(incoming))

	assert.Len(t, svc.List(), 2)
	kept, _ := svc.Get(existing.ID)
	assert.Equal(t, "Existing", kept.Title, "existing record must not be overwritten")
}

func TestTemplateService_TagVocabulary(t *testing.T) {
	svc := newTemplateService(t, &mocks.TemplateRepositoryMock{})
	_, _ = svc.Create(models.PromptTemplate{Title: "A", Prompt: "a", Tags: []string{"night", "city"}})
	_, _ = svc.Create(models.PromptTemplate{Title: "B", Prompt: "b", Tags: []string{"city", "rain"}})

	assert.Equal(t, []string{"city", "night", "rain"}, svc.TagVocabulary())
}
