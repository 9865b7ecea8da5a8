package services

import (
	"context"

	"gorm.io/gorm"

	"promptstudio/internal/repositories"
)

// DbServices aggregates all domain services backed by the database.
// Fields use plural names (e.g., Templates) to align with Go conventions
// seen in service/store containers.
type DbServices struct {
	Settings      SettingsService
	History       HistoryService
	Templates     TemplateService
	Bundles       BundleService
	Models        ModelCatalogService
	Notifications *NotificationService
}

// NewDbServices constructs the service container using repositories backed by
// db and routes every storage write failure into the notification queue.
func NewDbServices(db *gorm.DB, keyring *KeyringService) *DbServices {
	settingsRepo := repositories.NewSettingsRepository(db)
	historyRepo := repositories.NewHistoryRepository(db)
	templateRepo := repositories.NewTemplateRepository(db)
	bundleRepo := repositories.NewBundleRepository(db)
	modelSettingRepo := repositories.NewModelSettingRepository(db)

	s := &DbServices{
		Settings:      NewSettingsService(settingsRepo, keyring),
		History:       NewHistoryService(historyRepo),
		Templates:     NewTemplateService(templateRepo),
		Bundles:       NewBundleService(bundleRepo),
		Models:        NewModelCatalogService(modelSettingRepo),
		Notifications: NewNotificationService(),
	}
	s.Settings.OnStorageError(storageNotifier(s.Notifications, "settings"))
	s.History.OnStorageError(storageNotifier(s.Notifications, "history"))
	s.Templates.OnStorageError(storageNotifier(s.Notifications, "templates"))
	s.Bundles.OnStorageError(storageNotifier(s.Notifications, "bundles"))
	return s
}

// StartDbServices loads each collection into memory; array collections seed
// with empty defaults and the settings singleton seeds with defaults.
func (s *DbServices) StartDbServices(ctx context.Context) error {
	s.Settings.Startup(ctx)
	s.History.Startup(ctx)
	s.Templates.Startup(ctx)
	s.Bundles.Startup(ctx)
	return s.Models.Startup(ctx)
}

// Flush waits for all pending write-throughs; called on shutdown.
func (s *DbServices) Flush() {
	s.Settings.Flush()
	s.History.Flush()
	s.Templates.Flush()
	s.Bundles.Flush()
}
