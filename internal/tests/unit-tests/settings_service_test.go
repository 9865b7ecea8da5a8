package unit_tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"promptstudio/internal/models"
	"promptstudio/internal/services"
	"promptstudio/internal/tests/mocks"
)

func newSettingsService(t *testing.T, repo *mocks.SettingsRepositoryMock) services.SettingsService {
	t.Helper()
	svc := services.NewSettingsService(repo, services.NewKeyringService())
	svc.Startup(context.Background())
	return svc
}

func TestSettingsService_DefaultsOnFirstRun(t *testing.T) {
	svc := newSettingsService(t, &mocks.SettingsRepositoryMock{})

	settings := svc.Get()
	assert.Equal(t, "dark", settings.Theme)
	assert.Equal(t, models.APIKeySourceEnvironment, settings.APIKeySource)
	assert.False(t, settings.WelcomeSeen)
}

func TestSettingsService_DefaultsOnReadFailure(t *testing.T) {
	repo := &mocks.SettingsRepositoryMock{
		GetFunc: func(ctx context.Context) (*models.Settings, error) {
			return nil, assert.AnError
		},
	}
	svc := newSettingsService(t, repo)

	assert.Equal(t, models.APIKeySourceEnvironment, svc.Get().APIKeySource)
}

func TestSettingsService_UpdateRejectsUnknownSource(t *testing.T) {
	svc := newSettingsService(t, &mocks.SettingsRepositoryMock{})

	_, err := svc.Update("clipboard", "", "", false)
	assert.Error(t, err)
}

func TestSettingsService_UpdateWritesThrough(t *testing.T) {
	var saved *models.Settings
	repo := &mocks.SettingsRepositoryMock{
		SaveFunc: func(ctx context.Context, settings *models.Settings) error {
			saved = settings
			return nil
		},
	}
	svc := newSettingsService(t, repo)

	updated, err := svc.Update(models.APIKeySourceEnvironment, "", "", true)
	assert.NoError(t, err)
	assert.True(t, updated.WelcomeSeen)

	svc.Flush()
	assert.NotNil(t, saved)
	assert.True(t, saved.WelcomeSeen)
	assert.Equal(t, uint(1), saved.ID)
}

func TestSettingsService_MarkWelcomeSeen(t *testing.T) {
	svc := newSettingsService(t, &mocks.SettingsRepositoryMock{})

	assert.True(t, svc.MarkWelcomeSeen().WelcomeSeen)
	assert.True(t, svc.Get().WelcomeSeen)
}

func TestSettingsService_ResolveAPIKeyFromEnvironment(t *testing.T) {
	svc := newSettingsService(t, &mocks.SettingsRepositoryMock{})
	model := &models.LLMModel{ProviderID: "gemini", APIKeyEnv: "PROMPTSTUDIO_TEST_KEY"}

	t.Setenv("PROMPTSTUDIO_TEST_KEY", "secret-123")
	key, err := svc.ResolveAPIKey(model)
	assert.NoError(t, err)
	assert.Equal(t, "secret-123", key)
}

func TestSettingsService_ResolveAPIKeyMissingEnvironment(t *testing.T) {
	svc := newSettingsService(t, &mocks.SettingsRepositoryMock{})
	model := &models.LLMModel{ProviderID: "gemini", APIKeyEnv: "PROMPTSTUDIO_TEST_KEY"}

	t.Setenv("PROMPTSTUDIO_TEST_KEY", "")
	_, err := svc.ResolveAPIKey(model)
	assert.ErrorIs(t, err, services.ErrMissingAPIKey)
}
