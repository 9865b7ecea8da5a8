package main

import (
	"context"
	"fmt"

	"gorm.io/gorm/logger"

	"promptstudio/internal/config"
	"promptstudio/internal/database"
	"promptstudio/internal/services"
)

// App wires the database, services and clients together and owns their
// lifecycle.
type App struct {
	ctx context.Context

	DB         *services.DbServices
	Keyring    *services.KeyringService
	Generation services.GenerationService
	Metadata   services.MetadataService
	Transfer   services.TransferService

	dbClose func() error
}

func NewApp(cfg *config.Config) (*App, error) {
	db, err := database.Init(database.Config{
		Path:     cfg.DBPath,
		LogLevel: logger.Warn,
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	app := &App{}
	if sqlDB, err := db.DB(); err == nil {
		app.dbClose = sqlDB.Close
	}

	app.Keyring = services.NewKeyringService()
	app.DB = services.NewDbServices(db, app.Keyring)
	app.Generation = services.NewGenerationService(
		app.DB.Templates,
		app.DB.Bundles,
		app.DB.History,
		app.DB.Settings,
		app.DB.Models,
	)
	app.Metadata = services.NewMetadataService(app.DB.Templates, app.DB.Settings, app.DB.Models)
	app.Transfer = services.NewTransferService(app.DB.Settings, app.DB.History, app.DB.Templates, app.DB.Bundles)

	return app, nil
}

// Startup loads every collection into memory.
func (a *App) Startup(ctx context.Context) error {
	a.ctx = ctx
	return a.DB.StartDbServices(ctx)
}

// Shutdown flushes pending write-throughs and closes the database.
func (a *App) Shutdown() {
	a.DB.Flush()
	if a.dbClose != nil {
		_ = a.dbClose()
	}
}
