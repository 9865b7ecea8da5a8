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

type fakeStreamer struct {
	fragments []string
	modelName string
	messages  []*schema.Message
}

func (f *fakeStreamer) Stream(ctx context.Context, messages []*schema.Message) (*schema.StreamReader[string], error) {
	f.messages = messages
	return schema.StreamReaderFromArray(f.fragments), nil
}

func (f *fakeStreamer) Model() string {
	return f.modelName
}

type generationFixture struct {
	templates services.TemplateService
	bundles   services.BundleService
	history   services.HistoryService
	settings  services.SettingsService
	catalog   services.ModelCatalogService
}

func newGenerationFixture(t *testing.T) *generationFixture {
	t.Helper()
	ctx := context.Background()

	f := &generationFixture{
		templates: services.NewTemplateService(&mocks.TemplateRepositoryMock{}),
		bundles:   services.NewBundleService(&mocks.BundleRepositoryMock{}),
		history:   services.NewHistoryService(&mocks.HistoryRepositoryMock{}),
		settings:  services.NewSettingsService(&mocks.SettingsRepositoryMock{}, services.NewKeyringService()),
		catalog:   services.NewModelCatalogService(&mocks.ModelSettingRepositoryMock{}),
	}
	f.templates.Startup(ctx)
	f.bundles.Startup(ctx)
	f.history.Startup(ctx)
	f.settings.Startup(ctx)
	assert.NoError(t, f.catalog.Startup(ctx))
	return f
}

func (f *generationFixture) service(streamer *fakeStreamer, factoryErr error, called *bool) services.GenerationService {
	factory := func(ctx context.Context, cfg client.Config) (services.PromptStreamer, error) {
		if called != nil {
			*called = true
		}
		if factoryErr != nil {
			return nil, factoryErr
		}
		return streamer, nil
	}
	return services.NewGenerationServiceWithStreamer(f.templates, f.bundles, f.history, f.settings, f.catalog, factory)
}

func TestGenerate_StreamAccumulatesAndWritesHistory(t *testing.T) {
	f := newGenerationFixture(t)
	t.Setenv("GEMINI_API_KEY", "test-key")

	streamer := &fakeStreamer{fragments: []string{"A", "B", "C"}, modelName: "gemini-2.5-flash"}
	svc := f.service(streamer, nil, nil)

	var received []string
	item, err := svc.Generate(context.Background(), models.GenerationInput{
		Prompt: "a cat on a roof",
		Config: models.GenerationConfig{Style: models.StyleDefault, Length: models.LengthDefault},
	}, func(fragment string) {
		received = append(received, fragment)
	})

	assert.NoError(t, err)
	assert.NotNil(t, item)
	assert.Equal(t, "ABC", item.GeneratedPrompt)
	assert.Equal(t, "a cat on a roof", item.OriginalPrompt)
	assert.Equal(t, models.ModeText, item.Mode)
	assert.Equal(t, []string{"A", "B", "C"}, received)
	assert.NotZero(t, item.CreatedAt)

	history := f.history.List()
	assert.Len(t, history, 1)
	assert.Equal(t, item.ID, history[0].ID)
}

func TestGenerate_EmptyStreamWritesNoHistory(t *testing.T) {
	f := newGenerationFixture(t)
	t.Setenv("GEMINI_API_KEY", "test-key")

	svc := f.service(&fakeStreamer{fragments: []string{}}, nil, nil)

	item, err := svc.Generate(context.Background(), models.GenerationInput{
		Prompt: "anything",
	}, nil)

	assert.NoError(t, err)
	assert.Nil(t, item)
	assert.Empty(t, f.history.List())
}

func TestGenerate_MissingAPIKeyFailsBeforeClientSetup(t *testing.T) {
	f := newGenerationFixture(t)
	t.Setenv("GEMINI_API_KEY", "")

	called := false
	svc := f.service(&fakeStreamer{fragments: []string{"X"}}, nil, &called)

	item, err := svc.Generate(context.Background(), models.GenerationInput{Prompt: "idea"}, nil)

	assert.ErrorIs(t, err, services.ErrMissingAPIKey)
	assert.Nil(t, item)
	assert.False(t, called, "no client may be constructed without a key")
	assert.Empty(t, f.history.List())
}

func TestGenerate_RecordsDeduplicatedReferenceIDs(t *testing.T) {
	f := newGenerationFixture(t)
	t.Setenv("GEMINI_API_KEY", "test-key")

	tmpl, err := f.templates.Create(models.PromptTemplate{Title: "Night", Prompt: "night body", Tags: []string{"night"}})
	assert.NoError(t, err)
	bundle, err := f.bundles.Create(models.TemplateBundle{Name: "Pack", TemplateIDs: []string{tmpl.ID, "dangling-id"}})
	assert.NoError(t, err)

	streamer := &fakeStreamer{fragments: []string{"out"}}
	svc := f.service(streamer, nil, nil)

	// The template qualifies via tag, bundle and individual pick at once.
	item, err := svc.Generate(context.Background(), models.GenerationInput{
		Prompt:              "idea",
		SelectedTags:        []string{"night"},
		SelectedBundleIDs:   []string{bundle.ID},
		SelectedTemplateIDs: []string{tmpl.ID},
	}, nil)

	assert.NoError(t, err)
	assert.Equal(t, []string{tmpl.ID}, item.TemplateIDs)
	assert.Equal(t, []string{bundle.ID}, item.BundleIDs)

	// The reference template body made it into the outbound request.
	assert.Len(t, streamer.messages, 2)
	assert.Equal(t, schema.System, streamer.messages[0].Role)
	assert.True(t, strings.Contains(streamer.messages[1].Content, "REFERENCE TEMPLATE: Night"))
	assert.Equal(t, 1, strings.Count(streamer.messages[1].Content, "REFERENCE TEMPLATE:"))
}

func TestGenerate_RequiresPromptText(t *testing.T) {
	f := newGenerationFixture(t)
	svc := f.service(&fakeStreamer{}, nil, nil)

	_, err := svc.Generate(context.Background(), models.GenerationInput{Prompt: "   "}, nil)
	assert.Error(t, err)
}
