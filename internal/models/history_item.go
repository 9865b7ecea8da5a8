package models

// HistoryItem records one successful generation. Immutable once created,
// except for deletion. Template/bundle ids are weak references resolved by
// lookup at read time.
type HistoryItem struct {
	ID              string           `gorm:"primaryKey;size:36" json:"id"`
	OriginalPrompt  string           `gorm:"type:text;not null" json:"originalPrompt"`
	GeneratedPrompt string           `gorm:"type:text;not null" json:"generatedPrompt"`
	CreatedAt       int64            `gorm:"not null" json:"createdAt"` // epoch millis
	Model           string           `gorm:"size:255" json:"model"`
	Mode            GenerationMode   `gorm:"size:16" json:"mode"`
	Config          GenerationConfig `gorm:"serializer:json;type:text" json:"config"`
	TemplateIDs     []string         `gorm:"serializer:json;type:text" json:"templateIds"`
	BundleIDs       []string         `gorm:"serializer:json;type:text" json:"bundleIds"`
}
