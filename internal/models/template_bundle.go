package models

// TemplateBundle is a named, ordered grouping of template identifiers.
// Member ids are weak references: a template deleted after being added leaves
// a dangling id behind, which readers filter out instead of treating as
// corruption.
type TemplateBundle struct {
	ID          string   `gorm:"primaryKey;size:36" json:"id"`
	Name        string   `gorm:"size:255;not null" json:"name"`
	Description string   `gorm:"type:text" json:"description"`
	TemplateIDs []string `gorm:"serializer:json;type:text" json:"templateIds"`
}
