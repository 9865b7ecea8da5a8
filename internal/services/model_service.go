package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"promptstudio/internal/assets"
	"promptstudio/internal/models"
	"promptstudio/internal/repositories"
)

type ModelCatalogService interface {
	Startup(ctx context.Context) error
	ListModelGroups() ([]models.LLMModelGroup, error)
	GetModel(modelKey string) (*models.LLMModel, error)
	DefaultModel() (*models.LLMModel, error)
	SetModelEnabled(modelKey string, enabled bool) (*models.LLMModel, error)
	SetProviderEnabled(provider string, enabled bool) ([]models.LLMModel, error)
}

type modelCatalogService struct {
	repo repositories.ModelSettingRepository
	ctx  context.Context

	mu            sync.RWMutex
	providerOrder []string
	providerNames map[string]string
	providerEnvs  map[string]string
	models        map[string]*catalogModel
	settings      map[string]bool
}

type catalogModel struct {
	Key             string
	ProviderID      string
	Provider        string
	APIKeyEnv       string
	DisplayName     string
	APIName         string
	ReasoningEffort string
}

type rawModelFile struct {
	Providers []rawProvider `json:"providers"`
}

type rawProvider struct {
	ID          string     `json:"id"`
	DisplayName string     `json:"displayName"`
	APIKeyEnv   string     `json:"apiKeyEnv"`
	Models      []rawModel `json:"models"`
}

type rawModel struct {
	DisplayName     string `json:"displayName"`
	APIName         string `json:"apiName"`
	ReasoningEffort string `json:"reasoningEffort,omitempty"`
}

func NewModelCatalogService(repo repositories.ModelSettingRepository) ModelCatalogService {
	return &modelCatalogService{
		repo:          repo,
		models:        make(map[string]*catalogModel),
		settings:      make(map[string]bool),
		providerNames: make(map[string]string),
		providerEnvs:  make(map[string]string),
	}
}

func computeModelKey(providerID string, mdl rawModel) string {
	return providerID + ":" + strings.TrimSpace(mdl.APIName)
}

func (s *modelCatalogService) Startup(ctx context.Context) error {
	s.ctx = ctx

	var parsed rawModelFile
	if err := json.Unmarshal(assets.ModelsData, &parsed); err != nil {
		return fmt.Errorf("parse models asset: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.providerOrder = make([]string, 0, len(parsed.Providers))
	for _, provider := range parsed.Providers {
		providerID := strings.TrimSpace(provider.ID)
		if providerID == "" {
			continue
		}
		s.providerNames[providerID] = strings.TrimSpace(provider.DisplayName)
		s.providerEnvs[providerID] = strings.TrimSpace(provider.APIKeyEnv)
		s.providerOrder = append(s.providerOrder, providerID)
		for _, mdl := range provider.Models {
			key := computeModelKey(providerID, mdl)
			s.models[key] = &catalogModel{
				Key:             key,
				ProviderID:      providerID,
				Provider:        s.providerNames[providerID],
				APIKeyEnv:       s.providerEnvs[providerID],
				DisplayName:     strings.TrimSpace(mdl.DisplayName),
				APIName:         strings.TrimSpace(mdl.APIName),
				ReasoningEffort: strings.TrimSpace(mdl.ReasoningEffort),
			}
		}
	}

	// Load existing settings and seed defaults
	existing, err := s.repo.List()
	if err != nil {
		return fmt.Errorf("load model settings: %w", err)
	}
	for _, setting := range existing {
		s.settings[setting.ModelKey] = setting.Enabled
	}
	for key, def := range s.models {
		if _, ok := s.settings[key]; !ok {
			if _, err := s.repo.Upsert(key, def.ProviderID, true); err != nil {
				return fmt.Errorf("seed model setting for %s: %w", key, err)
			}
			s.settings[key] = true
		}
	}

	return nil
}

func (s *modelCatalogService) toLLMModel(def *catalogModel) models.LLMModel {
	enabled, ok := s.settings[def.Key]
	if !ok {
		enabled = true
	}
	return models.LLMModel{
		Key:             def.Key,
		DisplayName:     def.DisplayName,
		APIName:         def.APIName,
		ProviderID:      def.ProviderID,
		ProviderName:    def.Provider,
		APIKeyEnv:       def.APIKeyEnv,
		ReasoningEffort: def.ReasoningEffort,
		Enabled:         enabled,
	}
}

func (s *modelCatalogService) providerName(providerID string) string {
	if name := s.providerNames[providerID]; name != "" {
		return name
	}
	return providerID
}

func (s *modelCatalogService) ListModelGroups() ([]models.LLMModelGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	groups := make([]models.LLMModelGroup, 0, len(s.providerOrder))
	for _, providerID := range s.providerOrder {
		group := models.LLMModelGroup{
			ProviderID:   providerID,
			ProviderName: s.providerName(providerID),
		}
		var modelsForProvider []models.LLMModel
		for _, mdl := range s.models {
			if mdl.ProviderID != providerID {
				continue
			}
			modelsForProvider = append(modelsForProvider, s.toLLMModel(mdl))
		}
		sort.SliceStable(modelsForProvider, func(i, j int) bool {
			return strings.ToLower(modelsForProvider[i].DisplayName) < strings.ToLower(modelsForProvider[j].DisplayName)
		})
		group.Models = modelsForProvider
		groups = append(groups, group)
	}
	return groups, nil
}

func (s *modelCatalogService) GetModel(modelKey string) (*models.LLMModel, error) {
	modelKey = strings.TrimSpace(modelKey)
	if modelKey == "" {
		return nil, fmt.Errorf("model key is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	def, ok := s.models[modelKey]
	if !ok {
		return nil, fmt.Errorf("model %s not found", modelKey)
	}
	model := s.toLLMModel(def)
	return &model, nil
}

// DefaultModel returns the first enabled model in catalog order.
func (s *modelCatalogService) DefaultModel() (*models.LLMModel, error) {
	groups, err := s.ListModelGroups()
	if err != nil {
		return nil, err
	}
	for _, group := range groups {
		for _, mdl := range group.Models {
			if mdl.Enabled {
				return &mdl, nil
			}
		}
	}
	return nil, fmt.Errorf("no enabled model in catalog")
}

func (s *modelCatalogService) SetModelEnabled(modelKey string, enabled bool) (*models.LLMModel, error) {
	modelKey = strings.TrimSpace(modelKey)
	if modelKey == "" {
		return nil, fmt.Errorf("model key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	def, ok := s.models[modelKey]
	if !ok {
		return nil, fmt.Errorf("model %s not found", modelKey)
	}

	if _, err := s.repo.Upsert(modelKey, def.ProviderID, enabled); err != nil {
		return nil, err
	}
	s.settings[modelKey] = enabled
	model := s.toLLMModel(def)
	return &model, nil
}

func (s *modelCatalogService) SetProviderEnabled(provider string, enabled bool) ([]models.LLMModel, error) {
	provider = strings.TrimSpace(provider)
	if provider == "" {
		return nil, fmt.Errorf("provider is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.SetProviderEnabled(provider, enabled); err != nil {
		return nil, err
	}

	updated := make([]models.LLMModel, 0)
	for _, mdl := range s.models {
		if mdl.ProviderID != provider {
			continue
		}
		s.settings[mdl.Key] = enabled
		updated = append(updated, s.toLLMModel(mdl))
	}
	sort.SliceStable(updated, func(i, j int) bool {
		return strings.ToLower(updated[i].DisplayName) < strings.ToLower(updated[j].DisplayName)
	})
	return updated, nil
}
