package models

// ExportDocument is the single JSON document produced by export and consumed
// by import. Each top-level key is present only when the corresponding
// collection was selected.
type ExportDocument struct {
	Settings  *Settings        `json:"settings,omitempty"`
	History   []HistoryItem    `json:"history,omitempty"`
	Templates []PromptTemplate `json:"templates,omitempty"`
	Bundles   []TemplateBundle `json:"bundles,omitempty"`
}

// TransferSelection picks which collections an export or import touches.
type TransferSelection struct {
	Settings  bool `json:"settings"`
	History   bool `json:"history"`
	Templates bool `json:"templates"`
	Bundles   bool `json:"bundles"`
}

// AllCollections selects every collection.
func AllCollections() TransferSelection {
	return TransferSelection{Settings: true, History: true, Templates: true, Bundles: true}
}

// ImportSummary reports what an import actually applied.
type ImportSummary struct {
	SettingsApplied bool `json:"settingsApplied"`
	HistoryAdded    int  `json:"historyAdded"`
	TemplatesAdded  int  `json:"templatesAdded"`
	BundlesAdded    int  `json:"bundlesAdded"`
}
