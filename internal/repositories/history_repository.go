package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"promptstudio/internal/models"
)

type HistoryRepository interface {
	Get(ctx context.Context, id string) (*models.HistoryItem, error)
	GetAll(ctx context.Context) ([]models.HistoryItem, error)
	Put(ctx context.Context, item *models.HistoryItem) error
	ReplaceAll(ctx context.Context, items []models.HistoryItem) error
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

type historyRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) Get(ctx context.Context, id string) (*models.HistoryItem, error) {
	var item models.HistoryItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("history item %s not found: %w", id, err)
		}
		return nil, fmt.Errorf("getting history item %s: %w", id, err)
	}
	return &item, nil
}

func (r *historyRepository) GetAll(ctx context.Context) ([]models.HistoryItem, error) {
	var list []models.HistoryItem
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	return list, nil
}

func (r *historyRepository) Put(ctx context.Context, item *models.HistoryItem) error {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return fmt.Errorf("saving history item %s: %w", item.ID, err)
	}
	return nil
}

// ReplaceAll is a full overwrite of the collection, not a merge.
func (r *historyRepository) ReplaceAll(ctx context.Context, items []models.HistoryItem) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.HistoryItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		return fmt.Errorf("replacing history: %w", err)
	}
	return nil
}

func (r *historyRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&models.HistoryItem{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("deleting history item %s: %w", id, err)
	}
	return nil
}

func (r *historyRepository) Clear(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Where("1 = 1").Delete(&models.HistoryItem{}).Error; err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	return nil
}
