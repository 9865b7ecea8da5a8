package mocks

import (
	"context"

	"promptstudio/internal/models"
)

type SettingsRepositoryMock struct {
	GetFunc  func(ctx context.Context) (*models.Settings, error)
	SaveFunc func(ctx context.Context, settings *models.Settings) error
}

func (m *SettingsRepositoryMock) Get(ctx context.Context) (*models.Settings, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx)
	}
	return models.DefaultSettings(), nil
}

func (m *SettingsRepositoryMock) Save(ctx context.Context, settings *models.Settings) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, settings)
	}
	return nil
}
