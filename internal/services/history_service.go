package services

import (
	"context"
	"fmt"

	"promptstudio/internal/models"
	"promptstudio/internal/repositories"
	"promptstudio/internal/state"
)

type HistoryService interface {
	Startup(ctx context.Context)
	List() []models.HistoryItem
	Get(id string) (*models.HistoryItem, error)
	Append(item models.HistoryItem)
	Delete(id string) error
	Clear()
	Merge(incoming []models.HistoryItem) int
	OnStorageError(notify func(error))
	Flush()
}

type historyService struct {
	repo  repositories.HistoryRepository
	state *state.Collection[models.HistoryItem]
}

func NewHistoryService(repo repositories.HistoryRepository) HistoryService {
	return &historyService{
		repo:  repo,
		state: state.NewCollection("history", repo.ReplaceAll),
	}
}

func (s *historyService) Startup(ctx context.Context) {
	s.state.Load(ctx, s.repo.GetAll, []models.HistoryItem{})
}

func (s *historyService) List() []models.HistoryItem {
	return s.state.Items()
}

func (s *historyService) Get(id string) (*models.HistoryItem, error) {
	for _, item := range s.state.Items() {
		if item.ID == id {
			return &item, nil
		}
	}
	return nil, fmt.Errorf("history item %s not found", id)
}

// Append prepends the newest record; history is shown newest-first.
func (s *historyService) Append(item models.HistoryItem) {
	s.state.Update(func(items []models.HistoryItem) []models.HistoryItem {
		return append([]models.HistoryItem{item}, items...)
	})
}

func (s *historyService) Delete(id string) error {
	found := false
	s.state.Update(func(items []models.HistoryItem) []models.HistoryItem {
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
		return fmt.Errorf("history item %s not found", id)
	}
	return nil
}

func (s *historyService) Clear() {
	s.state.Update(func([]models.HistoryItem) []models.HistoryItem {
		return nil
	})
}

// Merge adds incoming records whose id is not already present; existing
// records win. Returns the number added.
func (s *historyService) Merge(incoming []models.HistoryItem) int {
	added := 0
	s.state.Update(func(items []models.HistoryItem) []models.HistoryItem {
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

func (s *historyService) OnStorageError(notify func(error)) {
	s.state.OnWriteError = notify
}

func (s *historyService) Flush() {
	s.state.Flush()
}
