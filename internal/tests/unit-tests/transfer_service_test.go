package unit_tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"promptstudio/internal/models"
	"promptstudio/internal/services"
	"promptstudio/internal/tests/mocks"
)

type storeFixture struct {
	settings  services.SettingsService
	history   services.HistoryService
	templates services.TemplateService
	bundles   services.BundleService
	transfer  services.TransferService
}

func newStoreFixture(t *testing.T) *storeFixture {
	t.Helper()
	ctx := context.Background()

	f := &storeFixture{
		settings:  services.NewSettingsService(&mocks.SettingsRepositoryMock{}, services.NewKeyringService()),
		history:   services.NewHistoryService(&mocks.HistoryRepositoryMock{}),
		templates: services.NewTemplateService(&mocks.TemplateRepositoryMock{}),
		bundles:   services.NewBundleService(&mocks.BundleRepositoryMock{}),
	}
	f.settings.Startup(ctx)
	f.history.Startup(ctx)
	f.templates.Startup(ctx)
	f.bundles.Startup(ctx)
	f.transfer = services.NewTransferService(f.settings, f.history, f.templates, f.bundles)
	return f
}

func (f *storeFixture) seed(t *testing.T) {
	t.Helper()
	_, err := f.templates.Create(models.PromptTemplate{ID: "t1", Title: "Neon", Prompt: "neon body", Tags: []string{"night"}})
	assert.NoError(t, err)
	_, err = f.bundles.Create(models.TemplateBundle{ID: "b1", Name: "Pack", TemplateIDs: []string{"t1"}})
	assert.NoError(t, err)
	f.history.Append(models.HistoryItem{ID: "h1", OriginalPrompt: "idea", GeneratedPrompt: "enhanced", CreatedAt: 42})
	_, err = f.settings.Update(models.APIKeySourceEnvironment, "", "", true)
	assert.NoError(t, err)
}

func TestTransfer_ExportImportRoundTrip(t *testing.T) {
	source := newStoreFixture(t)
	source.seed(t)

	data, err := source.transfer.Export(models.AllCollections())
	assert.NoError(t, err)

	target := newStoreFixture(t)
	summary, err := target.transfer.Import(data, models.AllCollections())
	assert.NoError(t, err)
	assert.True(t, summary.SettingsApplied)
	assert.Equal(t, 1, summary.HistoryAdded)
	assert.Equal(t, 1, summary.TemplatesAdded)
	assert.Equal(t, 1, summary.BundlesAdded)

	assert.Equal(t, source.templates.List(), target.templates.List())
	assert.Equal(t, source.bundles.List(), target.bundles.List())
	assert.Equal(t, source.history.List(), target.history.List())
	assert.Equal(t, source.settings.Get().WelcomeSeen, target.settings.Get().WelcomeSeen)
}

func TestTransfer_ImportTwiceIsNoOp(t *testing.T) {
	source := newStoreFixture(t)
	source.seed(t)
	data, err := source.transfer.Export(models.AllCollections())
	assert.NoError(t, err)

	target := newStoreFixture(t)
	_, err = target.transfer.Import(data, models.AllCollections())
	assert.NoError(t, err)

	second, err := target.transfer.Import(data, models.AllCollections())
	assert.NoError(t, err)
	assert.Equal(t, 0, second.HistoryAdded)
	assert.Equal(t, 0, second.TemplatesAdded)
	assert.Equal(t, 0, second.BundlesAdded)
	assert.Len(t, target.templates.List(), 1)
	assert.Len(t, target.bundles.List(), 1)
	assert.Len(t, target.history.List(), 1)
}

func TestTransfer_ExportRespectsSelection(t *testing.T) {
	source := newStoreFixture(t)
	source.seed(t)

	data, err := source.transfer.Export(models.TransferSelection{Templates: true})
	assert.NoError(t, err)

	target := newStoreFixture(t)
	summary, err := target.transfer.Import(data, models.AllCollections())
	assert.NoError(t, err)
	assert.Equal(t, 1, summary.TemplatesAdded)
	assert.Equal(t, 0, summary.HistoryAdded)
	assert.Equal(t, 0, summary.BundlesAdded)
	assert.False(t, summary.SettingsApplied)
}

func TestTransfer_ImportSelectionSkipsPresentKeys(t *testing.T) {
	source := newStoreFixture(t)
	source.seed(t)
	data, err := source.transfer.Export(models.AllCollections())
	assert.NoError(t, err)

	target := newStoreFixture(t)
	summary, err := target.transfer.Import(data, models.TransferSelection{Bundles: true})
	assert.NoError(t, err)
	assert.Equal(t, 1, summary.BundlesAdded)
	assert.Empty(t, target.templates.List())
	assert.Empty(t, target.history.List())
}

func TestTransfer_MalformedJSONAborts(t *testing.T) {
	target := newStoreFixture(t)

	_, err := target.transfer.Import([]byte("{not json"), models.AllCollections())
	assert.Error(t, err)
	assert.Empty(t, target.templates.List())
}

func TestTransfer_NonArrayCollectionAbortsWholeImport(t *testing.T) {
	target := newStoreFixture(t)

	// History is a valid array but templates is an object: nothing at all
	// may be applied.
	doc := []byte(`{
		"history": [{"id": "h9", "originalPrompt": "x", "generatedPrompt": "y"}],
		"templates": {"id": "t9", "title": "broken"}
	}`)

	_, err := target.transfer.Import(doc, models.AllCollections())
	assert.Error(t, err)
	assert.Empty(t, target.history.List())
	assert.Empty(t, target.templates.List())
}
