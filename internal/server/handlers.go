package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"promptstudio/internal/models"
	"promptstudio/internal/services"
)

// All errors surface as transient, dismissible notifications in the UI; the
// API reports them uniformly and never kills the process.
func fail(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error()})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleListNotifications hands the pending notifications (failed storage
// write-throughs and the like) to the UI and clears the queue.
func (s *Server) handleListNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, s.deps.DB.Notifications.Drain())
}

// --- settings ---

type updateSettingsRequest struct {
	APIKeySource models.APIKeySource `json:"apiKeySource"`
	Provider     string              `json:"provider"`
	APIKey       string              `json:"apiKey"`
	WelcomeSeen  bool                `json:"welcomeSeen"`
}

func (s *Server) handleGetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, s.deps.DB.Settings.Get())
}

func (s *Server) handleUpdateSettings(c *gin.Context) {
	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	settings, err := s.deps.DB.Settings.Update(req.APIKeySource, req.Provider, req.APIKey, req.WelcomeSeen)
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (s *Server) handleWelcomeSeen(c *gin.Context) {
	c.JSON(http.StatusOK, s.deps.DB.Settings.MarkWelcomeSeen())
}

// --- models ---

type setEnabledRequest struct {
	Enabled bool `json:"enabled"`
}

func (s *Server) handleListModels(c *gin.Context) {
	groups, err := s.deps.DB.Models.ListModelGroups()
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

func (s *Server) handleSetModelEnabled(c *gin.Context) {
	var req setEnabledRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	model, err := s.deps.DB.Models.SetModelEnabled(c.Param("key"), req.Enabled)
	if err != nil {
		fail(c, http.StatusNotFound, err)
		return
	}
	c.JSON(http.StatusOK, model)
}

// handleSetProviderEnabled toggles every model of one provider at once.
func (s *Server) handleSetProviderEnabled(c *gin.Context) {
	var req setEnabledRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	updated, err := s.deps.DB.Models.SetProviderEnabled(c.Param("id"), req.Enabled)
	if err != nil {
		fail(c, http.StatusNotFound, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// --- templates ---

func (s *Server) handleListTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, s.deps.DB.Templates.List())
}

func (s *Server) handleCreateTemplate(c *gin.Context) {
	var t models.PromptTemplate
	if err := c.ShouldBindJSON(&t); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	created, err := s.deps.DB.Templates.Create(t)
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) handleUpdateTemplate(c *gin.Context) {
	var t models.PromptTemplate
	if err := c.ShouldBindJSON(&t); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	t.ID = c.Param("id")
	updated, err := s.deps.DB.Templates.Update(t)
	if err != nil {
		fail(c, http.StatusNotFound, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) handleDeleteTemplate(c *gin.Context) {
	if err := s.deps.DB.Templates.Delete(c.Param("id")); err != nil {
		fail(c, http.StatusNotFound, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleClearTemplates(c *gin.Context) {
	s.deps.DB.Templates.Clear()
	c.Status(http.StatusNoContent)
}

// --- bundles ---

func (s *Server) handleListBundles(c *gin.Context) {
	c.JSON(http.StatusOK, s.deps.DB.Bundles.List())
}

func (s *Server) handleCreateBundle(c *gin.Context) {
	var b models.TemplateBundle
	if err := c.ShouldBindJSON(&b); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	created, err := s.deps.DB.Bundles.Create(b)
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) handleUpdateBundle(c *gin.Context) {
	var b models.TemplateBundle
	if err := c.ShouldBindJSON(&b); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	b.ID = c.Param("id")
	updated, err := s.deps.DB.Bundles.Update(b)
	if err != nil {
		fail(c, http.StatusNotFound, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) handleDeleteBundle(c *gin.Context) {
	if err := s.deps.DB.Bundles.Delete(c.Param("id")); err != nil {
		fail(c, http.StatusNotFound, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleClearBundles(c *gin.Context) {
	s.deps.DB.Bundles.Clear()
	c.Status(http.StatusNoContent)
}

// handleBundleTemplates resolves a bundle's member templates, dropping
// dangling ids.
func (s *Server) handleBundleTemplates(c *gin.Context) {
	bundle, err := s.deps.DB.Bundles.Get(c.Param("id"))
	if err != nil {
		fail(c, http.StatusNotFound, err)
		return
	}
	live := services.LiveBundleTemplates(*bundle, s.deps.DB.Templates.List())
	c.JSON(http.StatusOK, live)
}

// --- history ---

type saveTemplateRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

func (s *Server) handleListHistory(c *gin.Context) {
	c.JSON(http.StatusOK, s.deps.DB.History.List())
}

func (s *Server) handleDeleteHistory(c *gin.Context) {
	if err := s.deps.DB.History.Delete(c.Param("id")); err != nil {
		fail(c, http.StatusNotFound, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleClearHistory(c *gin.Context) {
	s.deps.DB.History.Clear()
	c.Status(http.StatusNoContent)
}

func (s *Server) handleSaveHistoryAsTemplate(c *gin.Context) {
	var req saveTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	item, err := s.deps.DB.History.Get(c.Param("id"))
	if err != nil {
		fail(c, http.StatusNotFound, err)
		return
	}
	created, err := s.deps.DB.Templates.Create(models.PromptTemplate{
		Title:       req.Title,
		Description: req.Description,
		Prompt:      item.GeneratedPrompt,
		Tags:        req.Tags,
		ModelNames:  []string{item.Model},
	})
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// --- generation ---

// handleGenerate streams fragments to the client as server-sent events and
// finishes with either a "done" event carrying the new history record, an
// "empty" event when the stream produced nothing, or an "error" event.
func (s *Server) handleGenerate(c *gin.Context) {
	var input models.GenerationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}

	type generateResult struct {
		item *models.HistoryItem
		err  error
	}
	fragments := make(chan string, 16)
	done := make(chan generateResult, 1)

	go func() {
		item, err := s.deps.Generation.Generate(c.Request.Context(), input, func(fragment string) {
			fragments <- fragment
		})
		close(fragments)
		done <- generateResult{item: item, err: err}
	}()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		fragment, ok := <-fragments
		if !ok {
			return false
		}
		c.SSEvent("fragment", fragment)
		return true
	})

	// The stream loop exits early when the client goes away; keep draining
	// so the generation goroutine can finish instead of blocking on a full
	// channel.
	for range fragments {
	}

	result := <-done
	switch {
	case result.err != nil:
		status := "error"
		if errors.Is(result.err, services.ErrMissingAPIKey) {
			status = "configuration"
		}
		c.SSEvent(status, result.err.Error())
	case result.item == nil:
		c.SSEvent("empty", "stream produced no content")
	default:
		c.SSEvent("done", result.item)
	}
	c.Writer.Flush()
}

func (s *Server) handleResolveReferences(c *gin.Context) {
	var input models.GenerationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, s.deps.Generation.ResolveSelection(input))
}

// --- metadata ---

type metadataRequest struct {
	Prompt   string `json:"prompt"`
	ModelKey string `json:"modelKey"`
}

type batchMetadataRequest struct {
	Prompts  []string `json:"prompts"`
	Guidance string   `json:"guidance"`
	ModelKey string   `json:"modelKey"`
}

func (s *Server) handleGenerateMetadata(c *gin.Context) {
	var req metadataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	meta, err := s.deps.Metadata.GenerateMetadata(c.Request.Context(), req.Prompt, req.ModelKey)
	if err != nil {
		fail(c, metadataStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, meta)
}

func (s *Server) handleBatchMetadata(c *gin.Context) {
	var req batchMetadataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	saved, err := s.deps.Metadata.CreateTemplatesFromBatch(c.Request.Context(), req.Prompts, req.Guidance, req.ModelKey)
	if err != nil {
		fail(c, metadataStatus(err), err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func metadataStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrMissingAPIKey):
		return http.StatusPreconditionFailed
	case errors.Is(err, services.ErrBatchCountMismatch):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// --- import/export ---

type exportRequest struct {
	Selection models.TransferSelection `json:"selection"`
}

type importRequest struct {
	Selection models.TransferSelection `json:"selection"`
	Document  json.RawMessage          `json:"document"`
}

func (s *Server) handleExport(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	data, err := s.deps.Transfer.Export(req.Selection)
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}

func (s *Server) handleImport(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	summary, err := s.deps.Transfer.Import(req.Document, req.Selection)
	if err != nil {
		fail(c, http.StatusUnprocessableEntity, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
