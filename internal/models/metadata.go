package models

// TemplateMetadata is the structured result of a metadata-generation request:
// a bounded title, a one-sentence description and 3-5 tags, preferring reuse
// of the existing tag vocabulary.
type TemplateMetadata struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}
