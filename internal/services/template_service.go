package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"promptstudio/internal/models"
	"promptstudio/internal/repositories"
	"promptstudio/internal/state"
)

type TemplateService interface {
	Startup(ctx context.Context)
	List() []models.PromptTemplate
	Get(id string) (*models.PromptTemplate, error)
	Create(t models.PromptTemplate) (models.PromptTemplate, error)
	Update(t models.PromptTemplate) (models.PromptTemplate, error)
	Delete(id string) error
	Clear()
	Merge(incoming []models.PromptTemplate) int
	TagVocabulary() []string
	OnStorageError(notify func(error))
	Flush()
}

type templateService struct {
	repo  repositories.TemplateRepository
	state *state.Collection[models.PromptTemplate]
}

func NewTemplateService(repo repositories.TemplateRepository) TemplateService {
	return &templateService{
		repo:  repo,
		state: state.NewCollection("templates", repo.ReplaceAll),
	}
}

func (s *templateService) Startup(ctx context.Context) {
	s.state.Load(ctx, s.repo.GetAll, []models.PromptTemplate{})
}

func (s *templateService) List() []models.PromptTemplate {
	return s.state.Items()
}

func (s *templateService) Get(id string) (*models.PromptTemplate, error) {
	for _, t := range s.state.Items() {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("template %s not found", id)
}

func (s *templateService) Create(t models.PromptTemplate) (models.PromptTemplate, error) {
	if strings.TrimSpace(t.Title) == "" {
		return models.PromptTemplate{}, fmt.Errorf("template title is required")
	}
	if strings.TrimSpace(t.Prompt) == "" {
		return models.PromptTemplate{}, fmt.Errorf("template prompt is required")
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	s.state.Update(func(items []models.PromptTemplate) []models.PromptTemplate {
		return append(items, t)
	})
	return t, nil
}

func (s *templateService) Update(t models.PromptTemplate) (models.PromptTemplate, error) {
	if t.ID == "" {
		return models.PromptTemplate{}, fmt.Errorf("template id is required")
	}
	found := false
	s.state.Update(func(items []models.PromptTemplate) []models.PromptTemplate {
		for i := range items {
			if items[i].ID == t.ID {
				items[i] = t
				found = true
				break
			}
		}
		return items
	})
	if !found {
		return models.PromptTemplate{}, fmt.Errorf("template %s not found", t.ID)
	}
	return t, nil
}

func (s *templateService) Delete(id string) error {
	found := false
	s.state.Update(func(items []models.PromptTemplate) []models.PromptTemplate {
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
		return fmt.Errorf("template %s not found", id)
	}
	return nil
}

func (s *templateService) Clear() {
	s.state.Update(func([]models.PromptTemplate) []models.PromptTemplate {
		return nil
	})
}

// Merge adds incoming templates whose id is not already present. Existing
// records are never overwritten; returns the number added.
func (s *templateService) Merge(incoming []models.PromptTemplate) int {
	added := 0
	s.state.Update(func(items []models.PromptTemplate) []models.PromptTemplate {
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

// TagVocabulary returns the sorted set of tags across all templates.
func (s *templateService) TagVocabulary() []string {
	seen := make(map[string]bool)
	var tags []string
	for _, t := range s.state.Items() {
		for _, tag := range t.Tags {
			if tag == "" || seen[tag] {
				continue
			}
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	return tags
}

// OnStorageError registers the sink for failed write-throughs.
func (s *templateService) OnStorageError(notify func(error)) {
	s.state.OnWriteError = notify
}

func (s *templateService) Flush() {
	s.state.Flush()
}
