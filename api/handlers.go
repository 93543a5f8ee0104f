// Package api exposes a built site index over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-site-index/internal/analytics"
	"github.com/gcbaptista/go-site-index/internal/builder"
	"github.com/gcbaptista/go-site-index/internal/engine"
	internalErrors "github.com/gcbaptista/go-site-index/internal/errors"
	"github.com/gcbaptista/go-site-index/internal/jobs"
)

// BuildFunc rebuilds and persists the index, returning statistics of the run.
type BuildFunc func(ctx context.Context) (builder.Report, error)

// API holds dependencies for API handlers.
type API struct {
	holder    *engine.Holder
	analytics *analytics.Service
	jobs      *jobs.Manager
	rebuild   BuildFunc
	target    string
}

// Options configures optional API features. A nil Jobs or Rebuild leaves the build endpoints
// unregistered; a nil Analytics gets a fresh in-memory service.
type Options struct {
	Analytics *analytics.Service
	Jobs      *jobs.Manager
	Rebuild   BuildFunc
	Target    string // Artifact location reported on build jobs
}

// NewAPI creates a new API handler structure.
func NewAPI(holder *engine.Holder, opts Options) *API {
	if opts.Analytics == nil {
		opts.Analytics = analytics.NewService(analytics.DefaultMaxEvents)
	}
	return &API{
		holder:    holder,
		analytics: opts.Analytics,
		jobs:      opts.Jobs,
		rebuild:   opts.Rebuild,
		target:    opts.Target,
	}
}

// SetupRoutes defines all the API routes for the query server.
func SetupRoutes(router *gin.Engine, holder *engine.Holder, opts Options) {
	apiHandler := NewAPI(holder, opts)

	router.Use(RequestIDMiddleware(), CORSMiddleware(), RequestSizeLimitMiddleware(MaxRequestBodySize))

	router.GET("/health", apiHandler.HealthCheckHandler)
	router.GET("/stats", apiHandler.StatsHandler)
	router.POST("/reload", apiHandler.ReloadHandler)
	router.GET("/analytics", apiHandler.GetAnalyticsHandler)

	router.GET("/search", apiHandler.SearchHandler)
	router.POST("/search", apiHandler.SearchJSONHandler)

	router.GET("/documents", apiHandler.GetDocumentsHandler)
	router.GET("/documents/*path", apiHandler.GetDocumentHandler)

	if apiHandler.jobs != nil && apiHandler.rebuild != nil {
		router.POST("/build", apiHandler.BuildHandler)
		jobRoutes := router.Group("/jobs")
		{
			jobRoutes.GET("", apiHandler.ListJobsHandler)
			jobRoutes.GET("/metrics", apiHandler.GetJobMetricsHandler)
			jobRoutes.GET("/:jobId", apiHandler.GetJobHandler)
		}
	}
}

// HealthCheckHandler provides a simple health check endpoint
func (api *API) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "go-site-index",
		"timestamp": fmt.Sprintf("%d", time.Now().Unix()),
	})
}

// StatsHandler returns the document count and index settings of the loaded index
func (api *API) StatsHandler(c *gin.Context) {
	eng, ok := api.engineOrError(c)
	if !ok {
		return
	}

	settings := eng.Settings()
	c.JSON(http.StatusOK, gin.H{
		"count":             eng.Count(),
		"searchable_fields": settings.SearchableFields,
		"typo_settings": gin.H{
			"min_word_size_for_1_typo":  settings.MinWordSizeFor1Typo,
			"min_word_size_for_2_typos": settings.MinWordSizeFor2Typos,
		},
		"field_settings": gin.H{
			"fields_without_prefix_search": settings.FieldsWithoutPrefixSearch,
		},
	})
}

// ReloadHandler drops the cached index and loads the artifact again
func (api *API) ReloadHandler(c *gin.Context) {
	api.holder.Reset()

	eng, ok := api.engineOrError(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "reloaded",
		"count":  eng.Count(),
	})
}

// GetAnalyticsHandler returns query analytics of the last day and week
func (api *API) GetAnalyticsHandler(c *gin.Context) {
	documents := 0
	if eng, err := api.holder.Get(c.Request.Context()); err == nil {
		documents = eng.Count()
	}
	c.JSON(http.StatusOK, api.analytics.GetDashboardData(documents))
}

// engineOrError returns the loaded engine, or writes the matching error response.
func (api *API) engineOrError(c *gin.Context) (*engine.Engine, bool) {
	eng, err := api.holder.Get(c.Request.Context())
	if err != nil {
		if errors.Is(err, internalErrors.ErrIndexUnavailable) {
			SendIndexUnavailableError(c, err)
			return nil, false
		}
		SendInternalError(c, "load index", err)
		return nil, false
	}
	return eng, true
}
