package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"promptstudio/internal/models"
	"promptstudio/internal/repositories"
	"promptstudio/internal/state"
)

type BundleService interface {
	Startup(ctx context.Context)
	List() []models.TemplateBundle
	Get(id string) (*models.TemplateBundle, error)
	Create(b models.TemplateBundle) (models.TemplateBundle, error)
	Update(b models.TemplateBundle) (models.TemplateBundle, error)
	Delete(id string) error
	Clear()
	Merge(incoming []models.TemplateBundle) int
	OnStorageError(notify func(error))
	Flush()
}

type bundleService struct {
	repo  repositories.BundleRepository
	state *state.Collection[models.TemplateBundle]
}

func NewBundleService(repo repositories.BundleRepository) BundleService {
	return &bundleService{
		repo:  repo,
		state: state.NewCollection("bundles", repo.ReplaceAll),
	}
}

func (s *bundleService) Startup(ctx context.Context) {
	s.state.Load(ctx, s.repo.GetAll, []models.TemplateBundle{})
}

func (s *bundleService) List() []models.TemplateBundle {
	return s.state.Items()
}

func (s *bundleService) Get(id string) (*models.TemplateBundle, error) {
	for _, b := range s.state.Items() {
		if b.ID == id {
			return &b, nil
		}
	}
	return nil, fmt.Errorf("bundle %s not found", id)
}

func (s *bundleService) Create(b models.TemplateBundle) (models.TemplateBundle, error) {
	if strings.TrimSpace(b.Name) == "" {
		return models.TemplateBundle{}, fmt.Errorf("bundle name is required")
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	s.state.Update(func(items []models.TemplateBundle) []models.TemplateBundle {
		return append(items, b)
	})
	return b, nil
}

func (s *bundleService) Update(b models.TemplateBundle) (models.TemplateBundle, error) {
	if b.ID == "" {
		return models.TemplateBundle{}, fmt.Errorf("bundle id is required")
	}
	found := false
	s.state.Update(func(items []models.TemplateBundle) []models.TemplateBundle {
		for i := range items {
			if items[i].ID == b.ID {
				items[i] = b
				found = true
				break
			}
		}
		return items
	})
	if !found {
		return models.TemplateBundle{}, fmt.Errorf("bundle %s not found", b.ID)
	}
	return b, nil
}

func (s *bundleService) Delete(id string) error {
	found := false
	s.state.Update(func(items []models.TemplateBundle) []models.TemplateBundle {
		kept := items[:0]
		for _, item := range items {
			if item.ID == id {
				found = true
				continue
			}
			kept = append(kept, item)
		}
		return kept
	})
	if !found {
		return fmt.Errorf("bundle %s not found", id)
	}
	return nil
}

func (s *bundleService) Clear() {
	s.state.Update(func([]models.TemplateBundle) []models.TemplateBundle {
		return nil
	})
}

// Merge adds incoming bundles whose id is not already present; existing
// records win. Returns the number added.
func (s *bundleService) Merge(incoming []models.TemplateBundle) int {
	added := 0
	s.state.Update(func(items []models.TemplateBundle) []models.TemplateBundle {
		seen := make(map[string]bool, len(items))
		for _, item := range items {
			seen[item.ID] = true
		}
		for _, in := range incoming {
			if in.ID == "" || seen[in.ID] {
				continue
			}
			seen[in.ID] = true
			items = append(items, in)
			added++
		}
		return items
	})
	return added
}

func (s *bundleService) OnStorageError(notify func(error)) {
	s.state.OnWriteError = notify
}

func (s *bundleService) Flush() {
	s.state.Flush()
}
