package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	"promptstudio/internal/llm/client"
	"promptstudio/internal/models"
)

const (
	maxMetadataTitleLen       = 60
	maxMetadataDescriptionLen = 160
)

// PromptCompleter is the outbound boundary of a metadata request.
type PromptCompleter interface {
	Complete(ctx context.Context, messages []*schema.Message) (string, error)
}

// CompleterFactory builds the provider client once the API key is resolved.
type CompleterFactory func(ctx context.Context, cfg client.Config) (PromptCompleter, error)

func defaultCompleterFactory(ctx context.Context, cfg client.Config) (PromptCompleter, error) {
	return client.New(ctx, cfg)
}

type MetadataService interface {
	GenerateMetadata(ctx context.Context, generatedPrompt, modelKey string) (*models.TemplateMetadata, error)
	CreateTemplatesFromBatch(ctx context.Context, promptBodies []string, guidance, modelKey string) ([]models.PromptTemplate, error)
}

type metadataService struct {
	templates    TemplateService
	settings     SettingsService
	catalog      ModelCatalogService
	newCompleter CompleterFactory
}

func NewMetadataService(templates TemplateService, settings SettingsService, catalog ModelCatalogService) MetadataService {
	return &metadataService{
		templates:    templates,
		settings:     settings,
		catalog:      catalog,
		newCompleter: defaultCompleterFactory,
	}
}

// NewMetadataServiceWithCompleter injects a completer factory for tests.
func NewMetadataServiceWithCompleter(templates TemplateService, settings SettingsService, catalog ModelCatalogService, factory CompleterFactory) MetadataService {
	s := NewMetadataService(templates, settings, catalog).(*metadataService)
	s.newCompleter = factory
	return s
}

func (s *metadataService) completer(ctx context.Context, modelKey string) (PromptCompleter, error) {
	var (
		model *models.LLMModel
		err   error
	)
	if modelKey != "" {
		model, err = s.catalog.GetModel(modelKey)
	} else {
		model, err = s.catalog.DefaultModel()
	}
	if err != nil {
		return nil, err
	}
	apiKey, err := s.settings.ResolveAPIKey(model)
	if err != nil {
		return nil, err
	}
	return s.newCompleter(ctx, client.Config{
		Provider: model.ProviderID,
		Model:    model.APIName,
		APIKey:   apiKey,
	})
}

func vocabularyLine(tags []string) string {
	if len(tags) == 0 {
		return "Existing tag vocabulary: (none yet)"
	}
	return "Existing tag vocabulary: " + strings.Join(tags, ", ")
}

// GenerateMetadata requests catalog metadata for one finished prompt.
func (s *metadataService) GenerateMetadata(ctx context.Context, generatedPrompt, modelKey string) (*models.TemplateMetadata, error) {
	if strings.TrimSpace(generatedPrompt) == "" {
		return nil, fmt.Errorf("prompt text is required")
	}
	completer, err := s.completer(ctx, modelKey)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString(vocabularyLine(s.templates.TagVocabulary()))
	b.WriteString("\n\nPROMPT:\n")
	b.WriteString(generatedPrompt)

	raw, err := completer.Complete(ctx, []*schema.Message{
		schema.SystemMessage(client.MetadataSystemPrompt()),
		schema.UserMessage(b.String()),
	})
	if err != nil {
		return nil, fmt.Errorf("metadata request: %w", err)
	}

	var meta models.TemplateMetadata
	if err := json.Unmarshal([]byte(extractJSON(raw)), &meta); err != nil {
		return nil, fmt.Errorf("parsing metadata response: %w", err)
	}
	clampMetadata(&meta)
	return &meta, nil
}

// CreateTemplatesFromBatch requests metadata for N raw prompt bodies and
// saves one template per body. A response with any other count than N fails
// the whole batch before anything is saved.
func (s *metadataService) CreateTemplatesFromBatch(ctx context.Context, promptBodies []string, guidance, modelKey string) ([]models.PromptTemplate, error) {
	if len(promptBodies) == 0 {
		return nil, fmt.Errorf("at least one prompt body is required")
	}
	completer, err := s.completer(ctx, modelKey)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString(vocabularyLine(s.templates.TagVocabulary()))
	if strings.TrimSpace(guidance) != "" {
		b.WriteString("\n\nShared guidance for every prompt: ")
		b.WriteString(guidance)
	}
	fmt.Fprintf(&b, "\n\nProduce metadata for the following %d prompts, in order.\n", len(promptBodies))
	for i, body := range promptBodies {
		fmt.Fprintf(&b, "\nPROMPT %d:\n%s\n", i+1, body)
	}

	raw, err := completer.Complete(ctx, []*schema.Message{
		schema.SystemMessage(client.MetadataSystemPrompt()),
		schema.UserMessage(b.String()),
	})
	if err != nil {
		return nil, fmt.Errorf("batch metadata request: %w", err)
	}

	var metas []models.TemplateMetadata
	if err := json.Unmarshal([]byte(extractJSON(raw)), &metas); err != nil {
		return nil, fmt.Errorf("parsing batch metadata response: %w", err)
	}
	if len(metas) != len(promptBodies) {
		log.Error().Int("requested", len(promptBodies)).Int("received", len(metas)).Msg("batch metadata count mismatch")
		return nil, fmt.Errorf("%w: requested %d, received %d", ErrBatchCountMismatch, len(promptBodies), len(metas))
	}

	saved := make([]models.PromptTemplate, 0, len(promptBodies))
	for i, body := range promptBodies {
		meta := metas[i]
		clampMetadata(&meta)
		tmpl, err := s.templates.Create(models.PromptTemplate{
			Title:       meta.Title,
			Description: meta.Description,
			Prompt:      body,
			Tags:        meta.Tags,
		})
		if err != nil {
			return nil, fmt.Errorf("saving template %d of batch: %w", i+1, err)
		}
		saved = append(saved, tmpl)
	}
	return saved, nil
}

func clampMetadata(meta *models.TemplateMetadata) {
	meta.Title = truncateRunes(strings.TrimSpace(meta.Title), maxMetadataTitleLen)
	meta.Description = truncateRunes(strings.TrimSpace(meta.Description), maxMetadataDescriptionLen)
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// extractJSON strips markdown fences and surrounding prose from a model
// response, keeping the outermost JSON value.
func extractJSON(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if after, ok := strings.CutPrefix(trimmed, "```json"); ok {
		trimmed = after
	} else if after, ok := strings.CutPrefix(trimmed, "```"); ok {
		trimmed = after
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	trimmed = strings.TrimSpace(trimmed)

	start := strings.IndexAny(trimmed, "[{")
	if start < 0 {
		return trimmed
	}
	var end int
	if trimmed[start] == '[' {
		end = strings.LastIndex(trimmed, "]")
	} else {
		end = strings.LastIndex(trimmed, "}")
	}
	if end <= start {
		return trimmed
	}
	return trimmed[start : end+1]
}
