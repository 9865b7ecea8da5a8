package mocks

import (
	"context"

	"promptstudio/internal/models"
)

type BundleRepositoryMock struct {
	GetFunc        func(ctx context.Context, id string) (*models.TemplateBundle, error)
	GetAllFunc     func(ctx context.Context) ([]models.TemplateBundle, error)
	PutFunc        func(ctx context.Context, bundle *models.TemplateBundle) error
	ReplaceAllFunc func(ctx context.Context, bundles []models.TemplateBundle) error
	DeleteFunc     func(ctx context.Context, id string) error
	ClearFunc      func(ctx context.Context) error
}

func (m *BundleRepositoryMock) Get(ctx context.Context, id string) (*models.TemplateBundle, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, nil
}

func (m *BundleRepositoryMock) GetAll(ctx context.Context) ([]models.TemplateBundle, error) {
	if m.GetAllFunc != nil {
		return m.GetAllFunc(ctx)
	}
	return []models.TemplateBundle{}, nil
}

func (m *BundleRepositoryMock) Put(ctx context.Context, bundle *models.TemplateBundle) error {
	if m.PutFunc != nil {
		return m.PutFunc(ctx, bundle)
	}
	return nil
}

func (m *BundleRepositoryMock) ReplaceAll(ctx context.Context, bundles []models.TemplateBundle) error {
	if m.ReplaceAllFunc != nil {
		return m.ReplaceAllFunc(ctx, bundles)
	}
	return nil
}

func (m *BundleRepositoryMock) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *BundleRepositoryMock) Clear(ctx context.Context) error {
	if m.ClearFunc != nil {
		return m.ClearFunc(ctx)
	}
	return nil
}
