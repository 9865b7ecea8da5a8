package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"promptstudio/internal/models"
)

type TemplateRepository interface {
	Get(ctx context.Context, id string) (*models.PromptTemplate, error)
	GetAll(ctx context.Context) ([]models.PromptTemplate, error)
	Put(ctx context.Context, template *models.PromptTemplate) error
	ReplaceAll(ctx context.Context, templates []models.PromptTemplate) error
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

type templateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &templateRepository{db: db}
}

func (r *templateRepository) Get(ctx context.Context, id string) (*models.PromptTemplate, error) {
	var tmpl models.PromptTemplate
	if err := r.db.WithContext(ctx).First(&tmpl, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("template %s not found: %w", id, err)
		}
		return nil, fmt.Errorf("getting template %s: %w", id, err)
	}
	return &tmpl, nil
}

func (r *templateRepository) GetAll(ctx context.Context) ([]models.PromptTemplate, error) {
	var list []models.PromptTemplate
	if err := r.db.WithContext(ctx).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	return list, nil
}

func (r *templateRepository) Put(ctx context.Context, template *models.PromptTemplate) error {
	if err := r.db.WithContext(ctx).Save(template).Error; err != nil {
		return fmt.Errorf("saving template %s: %w", template.ID, err)
	}
	return nil
}

// ReplaceAll is a full overwrite of the collection, not a merge.
func (r *templateRepository) ReplaceAll(ctx context.Context, templates []models.PromptTemplate) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.PromptTemplate{}).Error; err != nil {
			return err
		}
		if len(templates) == 0 {
			return nil
		}
		return tx.Create(&templates).Error
	})
	if err != nil {
		return fmt.Errorf("replacing templates: %w", err)
	}
	return nil
}

func (r *templateRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&models.PromptTemplate{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("deleting template %s: %w", id, err)
	}
	return nil
}

func (r *templateRepository) Clear(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Where("1 = 1").Delete(&models.PromptTemplate{}).Error; err != nil {
		return fmt.Errorf("clearing templates: %w", err)
	}
	return nil
}
