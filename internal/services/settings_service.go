package services

import (
	"context"
	"errors"
	"fmt"
	"os"

	"promptstudio/internal/models"
	"promptstudio/internal/repositories"
	"promptstudio/internal/state"
)

type SettingsService interface {
	Startup(ctx context.Context)
	Get() models.Settings
	Update(source models.APIKeySource, provider, customKey string, welcomeSeen bool) (models.Settings, error)
	MarkWelcomeSeen() models.Settings
	Overwrite(settings models.Settings)
	ResolveAPIKey(model *models.LLMModel) (string, error)
	OnStorageError(notify func(error))
	Flush()
}

type settingsService struct {
	repo    repositories.SettingsRepository
	keyring *KeyringService
	state   *state.Singleton[models.Settings]
}

func NewSettingsService(repo repositories.SettingsRepository, keyring *KeyringService) SettingsService {
	s := &settingsService{repo: repo, keyring: keyring}
	s.state = state.NewSingleton("settings", func(ctx context.Context, value *models.Settings) error {
		return repo.Save(ctx, value)
	})
	return s
}

func (s *settingsService) Startup(ctx context.Context) {
	s.state.Load(ctx, s.repo.Get, models.DefaultSettings())
}

func (s *settingsService) Get() models.Settings {
	return s.state.Get()
}

func (s *settingsService) Update(source models.APIKeySource, provider, customKey string, welcomeSeen bool) (models.Settings, error) {
	if source != models.APIKeySourceEnvironment && source != models.APIKeySourceCustom {
		return models.Settings{}, fmt.Errorf("api key source must be %q or %q", models.APIKeySourceEnvironment, models.APIKeySourceCustom)
	}
	if source == models.APIKeySourceCustom && customKey != "" {
		if provider == "" {
			return models.Settings{}, errors.New("provider is required for a custom API key")
		}
		if err := s.keyring.StoreAPIKey(provider, customKey); err != nil {
			return models.Settings{}, fmt.Errorf("storing custom API key: %w", err)
		}
	}

	current := s.state.Get()
	current.APIKeySource = source
	current.WelcomeSeen = welcomeSeen
	s.state.Set(current)
	return current, nil
}

func (s *settingsService) MarkWelcomeSeen() models.Settings {
	current := s.state.Get()
	current.WelcomeSeen = true
	s.state.Set(current)
	return current
}

// Overwrite replaces the settings record wholesale; used by import.
func (s *settingsService) Overwrite(settings models.Settings) {
	settings.ID = 1
	s.state.Set(settings)
}

// ResolveAPIKey returns the key for the model's provider according to the
// configured source. A missing key is a configuration error; callers must
// not attempt any network call when it is returned.
func (s *settingsService) ResolveAPIKey(model *models.LLMModel) (string, error) {
	settings := s.state.Get()
	switch settings.APIKeySource {
	case models.APIKeySourceCustom:
		key, err := s.keyring.GetAPIKey(model.ProviderID)
		if err != nil || key == "" {
			return "", fmt.Errorf("%w: no custom key stored for %s", ErrMissingAPIKey, model.ProviderID)
		}
		return key, nil
	default:
		key := os.Getenv(model.APIKeyEnv)
		if key == "" {
			return "", fmt.Errorf("%w: %s is not set", ErrMissingAPIKey, model.APIKeyEnv)
		}
		return key, nil
	}
}

func (s *settingsService) OnStorageError(notify func(error)) {
	s.state.OnWriteError = notify
}

func (s *settingsService) Flush() {
	s.state.Flush()
}
