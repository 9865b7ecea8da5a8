package models

// GenerationMode is the shape of the generated output.
type GenerationMode string

const (
	ModeText GenerationMode = "Text"
	ModeJSON GenerationMode = "JSON"
)

// PromptStyle steers the visual register of the generated prompt.
type PromptStyle string

const (
	StyleDefault   PromptStyle = "default"
	StyleAnime     PromptStyle = "anime"
	StyleRealistic PromptStyle = "realistic"
)

// PromptLength controls output length. It is only a meaningful control in
// JSON mode or long-scene-script mode; the plain single-shot mode ignores it.
type PromptLength string

const (
	LengthDefault PromptLength = "default"
	LengthShort   PromptLength = "short"
	LengthLong    PromptLength = "long"
)

// GenerationConfig is the flag snapshot attached to a request and persisted
// on the resulting history record.
type GenerationConfig struct {
	Style     PromptStyle  `json:"style"`
	Length    PromptLength `json:"length"`
	JSONMode  bool         `json:"jsonMode"`
	Reasoning bool         `json:"reasoning"`
	MarsLSP   bool         `json:"marsLsp"`
}

// Mode derives the output mode from the JSON flag.
func (c GenerationConfig) Mode() GenerationMode {
	if c.JSONMode {
		return ModeJSON
	}
	return ModeText
}

// GenerationInput is one enhancement request as submitted by the UI.
// Selections are resolved against the template and bundle collections before
// the outbound request is built.
type GenerationInput struct {
	Prompt              string           `json:"prompt"`
	Media               *MediaAttachment `json:"media,omitempty"`
	Config              GenerationConfig `json:"config"`
	ModelKey            string           `json:"modelKey,omitempty"`
	SelectedTags        []string         `json:"selectedTags,omitempty"`
	SelectedBundleIDs   []string         `json:"selectedBundleIds,omitempty"`
	SelectedTemplateIDs []string         `json:"selectedTemplateIds,omitempty"`
}
