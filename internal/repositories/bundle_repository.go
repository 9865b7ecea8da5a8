package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"promptstudio/internal/models"
)

type BundleRepository interface {
	Get(ctx context.Context, id string) (*models.TemplateBundle, error)
	GetAll(ctx context.Context) ([]models.TemplateBundle, error)
	Put(ctx context.Context, bundle *models.TemplateBundle) error
	ReplaceAll(ctx context.Context, bundles []models.TemplateBundle) error
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

type bundleRepository struct {
	db *gorm.DB
}

func NewBundleRepository(db *gorm.DB) BundleRepository {
	return &bundleRepository{db: db}
}

func (r *bundleRepository) Get(ctx context.Context, id string) (*models.TemplateBundle, error) {
	var bundle models.TemplateBundle
	if err := r.db.WithContext(ctx).First(&bundle, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("bundle %s not found: %w", id, err)
		}
		return nil, fmt.Errorf("getting bundle %s: %w", id, err)
	}
	return &bundle, nil
}

func (r *bundleRepository) GetAll(ctx context.Context) ([]models.TemplateBundle, error) {
	var list []models.TemplateBundle
	if err := r.db.WithContext(ctx).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("listing bundles: %w", err)
	}
	return list, nil
}

func (r *bundleRepository) Put(ctx context.Context, bundle *models.TemplateBundle) error {
	if err := r.db.WithContext(ctx).Save(bundle).Error; err != nil {
		return fmt.Errorf("saving bundle %s: %w", bundle.ID, err)
	}
	return nil
}

// ReplaceAll is a full overwrite of the collection, not a merge.
func (r *bundleRepository) ReplaceAll(ctx context.Context, bundles []models.TemplateBundle) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.TemplateBundle{}).Error; err != nil {
			return err
		}
		if len(bundles) == 0 {
			return nil
		}
		return tx.Create(&bundles).Error
	})
	if err != nil {
		return fmt.Errorf("replacing bundles: %w", err)
	}
	return nil
}

func (r *bundleRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&models.TemplateBundle{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("deleting bundle %s: %w", id, err)
	}
	return nil
}

func (r *bundleRepository) Clear(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Where("1 = 1").Delete(&models.TemplateBundle{}).Error; err != nil {
		return fmt.Errorf("clearing bundles: %w", err)
	}
	return nil
}
