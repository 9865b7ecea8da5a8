package services

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"promptstudio/internal/models"
)

// TransferService serializes the four collections to a single JSON document
// and merges such documents back in. The in-memory state is the source for
// export and the target for import.
type TransferService interface {
	Export(selection models.TransferSelection) ([]byte, error)
	Import(data []byte, selection models.TransferSelection) (*models.ImportSummary, error)
}

type transferService struct {
	settings  SettingsService
	history   HistoryService
	templates TemplateService
	bundles   BundleService
}

func NewTransferService(settings SettingsService, history HistoryService, templates TemplateService, bundles BundleService) TransferService {
	return &transferService{
		settings:  settings,
		history:   history,
		templates: templates,
		bundles:   bundles,
	}
}

func (s *transferService) Export(selection models.TransferSelection) ([]byte, error) {
	doc := models.ExportDocument{}
	if selection.Settings {
		settings := s.settings.Get()
		doc.Settings = &settings
	}
	if selection.History {
		doc.History = s.history.List()
	}
	if selection.Templates {
		doc.Templates = s.templates.List()
	}
	if selection.Bundles {
		doc.Bundles = s.bundles.List()
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding export document: %w", err)
	}
	return data, nil
}

// rawExportDocument defers decoding of each collection so shape validation
// for every selected key happens before anything is applied.
type rawExportDocument struct {
	Settings  json.RawMessage `json:"settings"`
	History   json.RawMessage `json:"history"`
	Templates json.RawMessage `json:"templates"`
	Bundles   json.RawMessage `json:"bundles"`
}

// Import merges the selected collections from the document: array
// collections keep all existing records and add only incoming records with
// unknown ids; settings, when selected, are overwritten wholesale. Malformed
// JSON or a non-array value where an array is expected aborts the whole
// import with no partial effect.
func (s *transferService) Import(data []byte, selection models.TransferSelection) (*models.ImportSummary, error) {
	var raw rawExportDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("malformed import document: %w", err)
	}

	// Decode everything first; nothing is applied until all selected
	// collections validated.
	var (
		settings  *models.Settings
		history   []models.HistoryItem
		templates []models.PromptTemplate
		bundles   []models.TemplateBundle
	)
	if selection.Settings && len(raw.Settings) > 0 {
		settings = &models.Settings{}
		if err := json.Unmarshal(raw.Settings, settings); err != nil {
			return nil, fmt.Errorf("invalid settings record in import: %w", err)
		}
	}
	if selection.History && len(raw.History) > 0 {
		if err := json.Unmarshal(raw.History, &history); err != nil {
			return nil, fmt.Errorf("invalid history collection in import: %w", err)
		}
	}
	if selection.Templates && len(raw.Templates) > 0 {
		if err := json.Unmarshal(raw.Templates, &templates); err != nil {
			return nil, fmt.Errorf("invalid templates collection in import: %w", err)
		}
	}
	if selection.Bundles && len(raw.Bundles) > 0 {
		if err := json.Unmarshal(raw.Bundles, &bundles); err != nil {
			return nil, fmt.Errorf("invalid bundles collection in import: %w", err)
		}
	}

	summary := &models.ImportSummary{}
	if settings != nil {
		s.settings.Overwrite(*settings)
		summary.SettingsApplied = true
	}
	summary.HistoryAdded = s.history.Merge(history)
	summary.TemplatesAdded = s.templates.Merge(templates)
	summary.BundlesAdded = s.bundles.Merge(bundles)

	log.Info().
		Bool("settings", summary.SettingsApplied).
		Int("history", summary.HistoryAdded).
		Int("templates", summary.TemplatesAdded).
		Int("bundles", summary.BundlesAdded).
		Msg("import applied")

	return summary, nil
}
