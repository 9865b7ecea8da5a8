package models

// APIKeySource selects where the generation API key is read from.
type APIKeySource string

const (
	APIKeySourceEnvironment APIKeySource = "environment"
	APIKeySourceCustom      APIKeySource = "custom"
)

// Settings is the single-row settings table (ID=1). The custom API key itself
// is never persisted here; it lives in the OS keychain and only the source
// selector is stored.
type Settings struct {
	ID           uint         `gorm:"primaryKey" json:"-"`
	Theme        string       `gorm:"not null;default:dark" json:"theme"`
	APIKeySource APIKeySource `gorm:"size:32;not null;default:environment" json:"apiKeySource"`
	WelcomeSeen  bool         `gorm:"not null;default:false" json:"welcomeSeen"`
}

// DefaultSettings returns the record seeded on first run.
func DefaultSettings() *Settings {
	return &Settings{
		ID:           1,
		Theme:        "dark",
		APIKeySource: APIKeySourceEnvironment,
		WelcomeSeen:  false,
	}
}
