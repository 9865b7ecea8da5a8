package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"promptstudio/internal/llm/client"
	"promptstudio/internal/models"
)

// PromptStreamer is the outbound boundary of a generation request: a single
// attempt producing a forward-only fragment stream.
type PromptStreamer interface {
	Stream(ctx context.Context, messages []*schema.Message) (*schema.StreamReader[string], error)
	Model() string
}

// StreamerFactory builds the provider client once the API key is resolved.
type StreamerFactory func(ctx context.Context, cfg client.Config) (PromptStreamer, error)

func defaultStreamerFactory(ctx context.Context, cfg client.Config) (PromptStreamer, error) {
	return client.New(ctx, cfg)
}

type GenerationService interface {
	Generate(ctx context.Context, input models.GenerationInput, onFragment func(fragment string)) (*models.HistoryItem, error)
	ResolveSelection(input models.GenerationInput) []models.PromptTemplate
}

type generationService struct {
	templates   TemplateService
	bundles     BundleService
	history     HistoryService
	settings    SettingsService
	catalog     ModelCatalogService
	newStreamer StreamerFactory
}

func NewGenerationService(
	templates TemplateService,
	bundles BundleService,
	history HistoryService,
	settings SettingsService,
	catalog ModelCatalogService,
) GenerationService {
	return &generationService{
		templates:   templates,
		bundles:     bundles,
		history:     history,
		settings:    settings,
		catalog:     catalog,
		newStreamer: defaultStreamerFactory,
	}
}

// NewGenerationServiceWithStreamer injects a streamer factory; tests use it
// to stand in for the network.
func NewGenerationServiceWithStreamer(
	templates TemplateService,
	bundles BundleService,
	history HistoryService,
	settings SettingsService,
	catalog ModelCatalogService,
	factory StreamerFactory,
) GenerationService {
	s := NewGenerationService(templates, bundles, history, settings, catalog).(*generationService)
	s.newStreamer = factory
	return s
}

// ResolveSelection computes the deduplicated reference set for an input.
func (s *generationService) ResolveSelection(input models.GenerationInput) []models.PromptTemplate {
	return ResolveReferences(
		s.templates.List(),
		s.bundles.List(),
		input.SelectedTags,
		input.SelectedBundleIDs,
		input.SelectedTemplateIDs,
	)
}

// Generate runs one enhancement request end to end: resolve the API key
// (failing fast before any network attempt), resolve references, stream the
// response, and append a history record only after the stream concluded with
// non-empty content. An empty stream produces no record and no error.
// Each call owns its stream and output buffer; overlapping calls never share
// state.
func (s *generationService) Generate(ctx context.Context, input models.GenerationInput, onFragment func(fragment string)) (*models.HistoryItem, error) {
	if strings.TrimSpace(input.Prompt) == "" {
		return nil, fmt.Errorf("prompt text is required")
	}

	var (
		model *models.LLMModel
		err   error
	)
	if input.ModelKey != "" {
		model, err = s.catalog.GetModel(input.ModelKey)
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

	references := s.ResolveSelection(input)
	messages := client.BuildMessages(input, references)

	streamer, err := s.newStreamer(ctx, client.Config{
		Provider: model.ProviderID,
		Model:    model.APIName,
		APIKey:   apiKey,
	})
	if err != nil {
		return nil, err
	}

	reader, err := streamer.Stream(ctx, messages)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	var output strings.Builder
	for {
		fragment, recvErr := reader.Recv()
		if recvErr != nil {
			if errors.Is(recvErr, io.EOF) {
				break
			}
			// No partial commit: a failed stream leaves history untouched.
			return nil, fmt.Errorf("generation stream: %w", recvErr)
		}
		output.WriteString(fragment)
		if onFragment != nil {
			onFragment(fragment)
		}
	}

	generated := output.String()
	if generated == "" {
		log.Warn().Str("model", model.Key).Msg("generation stream ended with no content")
		return nil, nil
	}

	referenceIDs := make([]string, 0, len(references))
	for _, ref := range references {
		referenceIDs = append(referenceIDs, ref.ID)
	}

	item := models.HistoryItem{
		ID:              uuid.NewString(),
		OriginalPrompt:  input.Prompt,
		GeneratedPrompt: generated,
		CreatedAt:       time.Now().UnixMilli(),
		Model:           model.APIName,
		Mode:            input.Config.Mode(),
		Config:          input.Config,
		TemplateIDs:     referenceIDs,
		BundleIDs:       input.SelectedBundleIDs,
	}
	s.history.Append(item)

	log.Info().
		Str("model", model.Key).
		Int("references", len(references)).
		Int("output_chars", len(generated)).
		Msg("generation completed")

	return &item, nil
}
