// Package server exposes the application services to the browser UI over a
// local HTTP API. Everything stateful lives in the services; handlers only
// translate between HTTP and service calls.
package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"promptstudio/internal/services"
)

// Deps carries the services a Server needs.
type Deps struct {
	DB         *services.DbServices
	Generation services.GenerationService
	Metadata   services.MetadataService
	Transfer   services.TransferService
}

type Server struct {
	engine *gin.Engine
	deps   Deps
}

func New(deps Deps) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger())

	// The UI is served from a browser origin we do not control (file://,
	// dev server, packaged shell), so the local API stays origin-open.
	engine.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
		MaxAge:          12 * time.Hour,
	}))

	s := &Server{engine: engine, deps: deps}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")

	api.GET("/health", s.handleHealth)

	api.GET("/settings", s.handleGetSettings)
	api.PUT("/settings", s.handleUpdateSettings)
	api.POST("/settings/welcome-seen", s.handleWelcomeSeen)

	api.GET("/notifications", s.handleListNotifications)

	api.GET("/models", s.handleListModels)
	api.POST("/models/:key/enabled", s.handleSetModelEnabled)
	api.POST("/providers/:id/enabled", s.handleSetProviderEnabled)

	api.GET("/templates", s.handleListTemplates)
	api.POST("/templates", s.handleCreateTemplate)
	api.PUT("/templates/:id", s.handleUpdateTemplate)
	api.DELETE("/templates/:id", s.handleDeleteTemplate)
	api.DELETE("/templates", s.handleClearTemplates)

	api.GET("/bundles", s.handleListBundles)
	api.POST("/bundles", s.handleCreateBundle)
	api.PUT("/bundles/:id", s.handleUpdateBundle)
	api.DELETE("/bundles/:id", s.handleDeleteBundle)
	api.DELETE("/bundles", s.handleClearBundles)
	api.GET("/bundles/:id/templates", s.handleBundleTemplates)

	api.GET("/history", s.handleListHistory)
	api.DELETE("/history/:id", s.handleDeleteHistory)
	api.DELETE("/history", s.handleClearHistory)
	api.POST("/history/:id/save-template", s.handleSaveHistoryAsTemplate)

	api.POST("/generate", s.handleGenerate)
	api.POST("/generate/resolve", s.handleResolveReferences)

	api.POST("/metadata", s.handleGenerateMetadata)
	api.POST("/metadata/batch", s.handleBatchMetadata)

	api.POST("/export", s.handleExport)
	api.POST("/import", s.handleImport)
}

// Handler exposes the router so tests can drive the API in-process.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run blocks serving the API.
func (s *Server) Run(addr string) error {
	log.Info().Str("addr", addr).Msg("prompt studio API listening")
	return s.engine.Run(addr)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}
