package unit_tests

import (
	"context"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"

	"promptstudio/internal/llm/client"
	"promptstudio/internal/models"
	"promptstudio/internal/services"
	"promptstudio/internal/tests/mocks"
)

type fakeCompleter struct {
	response string
	err      error
	prompt   string
}

func (f *fakeCompleter) Complete(ctx context.Context, messages []*schema.Message) (string, error) {
	if len(messages) > 1 {
		f.prompt = messages[1].Content
	}
	return f.response, f.err
}

type metadataFixture struct {
	templates services.TemplateService
	settings  services.SettingsService
	catalog   services.ModelCatalogService
	completer *fakeCompleter
	svc       services.MetadataService
}

func newMetadataFixture(t *testing.T, response string) *metadataFixture {
	t.Helper()
	ctx := context.Background()
	t.Setenv("GEMINI_API_KEY", "test-key")

	f := &metadataFixture{
		templates: services.NewTemplateService(&mocks.TemplateRepositoryMock{}),
		settings:  services.NewSettingsService(&mocks.SettingsRepositoryMock{}, services.NewKeyringService()),
		catalog:   services.NewModelCatalogService(&mocks.ModelSettingRepositoryMock{}),
		completer: &fakeCompleter{response: response},
	}
	f.templates.Startup(ctx)
	f.settings.Startup(ctx)
	assert.NoError(t, f.catalog.Startup(ctx))

	f.svc = services.NewMetadataServiceWithCompleter(f.templates, f.settings, f.catalog,
		func(ctx context.Context, cfg client.Config) (services.PromptCompleter, error) {
			return f.completer, nil
		})
	return f
}

func TestGenerateMetadata_ParsesFencedJSON(t *testing.T) {
	f := newMetadataFixture(t, "```json\n{\"title\": \"Neon alley chase\", \"description\": \"A rain-soaked chase.\", \"tags\": [\"night\", \"chase\", \"rain\"]}\n```")

	meta, err := f.svc.GenerateMetadata(context.Background(), "some finished prompt", "")
	assert.NoError(t, err)
	assert.Equal(t, "Neon alley chase", meta.Title)
	assert.Equal(t, []string{"night", "chase", "rain"}, meta.Tags)
}

func TestGenerateMetadata_IncludesTagVocabulary(t *testing.T) {
	f := newMetadataFixture(t, `{"title":"T","description":"D.","tags":["a"]}`)
	_, err := f.templates.Create(models.PromptTemplate{Title: "X", Prompt: "x", Tags: []string{"noir", "city"}})
	assert.NoError(t, err)

	_, err = f.svc.GenerateMetadata(context.Background(), "prompt body", "")
	assert.NoError(t, err)
	assert.Contains(t, f.completer.prompt, "city, noir")
}

func TestGenerateMetadata_ClampsBoundedFields(t *testing.T) {
	longTitle := strings.Repeat("x", 100)
	f := newMetadataFixture(t, `{"title":"`+longTitle+`","description":"D.","tags":["a"]}`)

	meta, err := f.svc.GenerateMetadata(context.Background(), "prompt body", "")
	assert.NoError(t, err)
	assert.Len(t, []rune(meta.Title), 60)
}

func TestBatchMetadata_CountMismatchFailsWholeBatch(t *testing.T) {
	// Three prompts in, two results out: hard failure, nothing saved.
	f := newMetadataFixture(t, `[
		{"title":"One","description":"First.","tags":["a"]},
		{"title":"Two","description":"Second.","tags":["b"]}
	]`)

	saved, err := f.svc.CreateTemplatesFromBatch(context.Background(), []string{"p1", "p2", "p3"}, "", "")
	assert.ErrorIs(t, err, services.ErrBatchCountMismatch)
	assert.Nil(t, saved)
	assert.Empty(t, f.templates.List())
}

func TestBatchMetadata_SavesOnePerPromptInOrder(t *testing.T) {
	f := newMetadataFixture(t, `[
		{"title":"One","description":"First.","tags":["a"]},
		{"title":"Two","description":"Second.","tags":["b"]}
	]`)

	saved, err := f.svc.CreateTemplatesFromBatch(context.Background(), []string{"body one", "body two"}, "keep it moody", "")
	assert.NoError(t, err)
	assert.Len(t, saved, 2)
	assert.Equal(t, "One", saved[0].Title)
	assert.Equal(t, "body one", saved[0].Prompt)
	assert.Equal(t, "Two", saved[1].Title)
	assert.Equal(t, "body two", saved[1].Prompt)
	assert.Len(t, f.templates.List(), 2)

	assert.Contains(t, f.completer.prompt, "keep it moody")
	assert.Contains(t, f.completer.prompt, "PROMPT 2:")
}

func TestGenerateMetadata_MissingAPIKeyFailsFast(t *testing.T) {
	f := newMetadataFixture(t, `{}`)
	t.Setenv("GEMINI_API_KEY", "")

	_, err := f.svc.GenerateMetadata(context.Background(), "prompt", "")
	assert.ErrorIs(t, err, services.ErrMissingAPIKey)
}
