package models

// MediaAttachment is a binary payload carried inline as base64 plus its MIME
// type, both for persisted example media and for generation requests.
type MediaAttachment struct {
	Data     string `json:"data"`
	MIMEType string `json:"mimeType"`
}

// PromptTemplate is a saved, reusable prompt with metadata. Tags have set
// semantics (insertion order is irrelevant for matching).
type PromptTemplate struct {
	ID           string           `gorm:"primaryKey;size:36" json:"id"`
	Title        string           `gorm:"size:255;not null" json:"title"`
	Description  string           `gorm:"type:text" json:"description"`
	Prompt       string           `gorm:"type:text;not null" json:"prompt"`
	Tags         []string         `gorm:"serializer:json;type:text" json:"tags"`
	ModelNames   []string         `gorm:"serializer:json;type:text" json:"modelNames"`
	ExampleVideo *MediaAttachment `gorm:"serializer:json;type:text" json:"exampleVideo,omitempty"`
}

// HasTag reports whether the template carries the given tag.
func (t PromptTemplate) HasTag(tag string) bool {
	for _, candidate := range t.Tags {
		if candidate == tag {
			return true
		}
	}
	return false
}
