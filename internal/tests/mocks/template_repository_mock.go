package mocks

import (
	"context"

	"promptstudio/internal/models"
)

type TemplateRepositoryMock struct {
	GetFunc        func(ctx context.Context, id string) (*models.PromptTemplate, error)
	GetAllFunc     func(ctx context.Context) ([]models.PromptTemplate, error)
	PutFunc        func(ctx context.Context, template *models.PromptTemplate) error
	ReplaceAllFunc func(ctx context.Context, templates []models.PromptTemplate) error
	DeleteFunc     func(ctx context.Context, id string) error
	ClearFunc      func(ctx context.Context) error
}

func (m *TemplateRepositoryMock) Get(ctx context.Context, id string) (*models.PromptTemplate, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, nil
}

func (m *TemplateRepositoryMock) GetAll(ctx context.Context) ([]models.PromptTemplate, error) {
	if m.GetAllFunc != nil {
		return m.GetAllFunc(ctx)
	}
	return []models.PromptTemplate{}, nil
}

func (m *TemplateRepositoryMock) Put(ctx context.Context, template *models.PromptTemplate) error {
	if m.PutFunc != nil {
		return m.PutFunc(ctx, template)
	}
	return nil
}

func (m *TemplateRepositoryMock) ReplaceAll(ctx context.Context, templates []models.PromptTemplate) error {
	if m.ReplaceAllFunc != nil {
		return m.ReplaceAllFunc(ctx, templates)
	}
	return nil
}

func (m *TemplateRepositoryMock) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *TemplateRepositoryMock) Clear(ctx context.Context) error {
	if m.ClearFunc != nil {
		return m.ClearFunc(ctx)
	}
	return nil
}
