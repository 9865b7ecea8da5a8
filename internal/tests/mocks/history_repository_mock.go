package mocks

import (
	"context"

	"promptstudio/internal/models"
)

type HistoryRepositoryMock struct {
	GetFunc        func(ctx context.Context, id string) (*models.HistoryItem, error)
	GetAllFunc     func(ctx context.Context) ([]models.HistoryItem, error)
	PutFunc        func(ctx context.Context, item *models.HistoryItem) error
	ReplaceAllFunc func(ctx context.Context, items []models.HistoryItem) error
	DeleteFunc     func(ctx context.Context, id string) error
	ClearFunc      func(ctx context.Context) error
}

func (m *HistoryRepositoryMock) Get(ctx context.Context, id string) (*models.HistoryItem, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, nil
}

func (m *HistoryRepositoryMock) GetAll(ctx context.Context) ([]models.HistoryItem, error) {
	if m.GetAllFunc != nil {
		return m.GetAllFunc(ctx)
	}
	return []models.HistoryItem{}, nil
}

func (m *HistoryRepositoryMock) Put(ctx context.Context, item *models.HistoryItem) error {
	if m.PutFunc != nil {
		return m.PutFunc(ctx, item)
	}
	return nil
}

func (m *HistoryRepositoryMock) ReplaceAll(ctx context.Context, items []models.HistoryItem) error {
	if m.ReplaceAllFunc != nil {
		return m.ReplaceAllFunc(ctx, items)
	}
	return nil
}

func (m *HistoryRepositoryMock) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *HistoryRepositoryMock) Clear(ctx context.Context) error {
	if m.ClearFunc != nil {
		return m.ClearFunc(ctx)
	}
	return nil
}
