package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gcbaptista/go-symptom-mapper/services"
)

// API holds dependencies for API handlers
type API struct {
	mapper services.SymptomMapper
}

// NewAPI creates a new API handler structure.
func NewAPI(mapper services.SymptomMapper) *API {
	return &API{mapper: mapper}
}

// SetupRoutes defines all the API routes for the symptom mapper.
func SetupRoutes(router *gin.Engine, mapper services.SymptomMapper) {
	apiHandler := NewAPI(mapper)

	router.Use(RequestIDMiddleware())

	router.GET("/health", apiHandler.HealthCheckHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	symptomRoutes := router.Group("/symptoms")
	{
		symptomRoutes.GET("/resolve", apiHandler.ResolveQueryHandler)          // Resolve ?q=...
		symptomRoutes.POST("/_resolve", apiHandler.ResolveHandler)             // Resolve with optional explanation
		symptomRoutes.POST("/_multi_resolve", apiHandler.MultiResolveHandler) // Resolve named queries in parallel
	}

	dictionaryRoutes := router.Group("/dictionary")
	{
		dictionaryRoutes.GET("/stats", apiHandler.DictionaryStatsHandler)
		dictionaryRoutes.POST("/_reload", apiHandler.ReloadHandler)
	}

	jobRoutes := router.Group("/jobs")
	{
		jobRoutes.GET("", apiHandler.ListJobsHandler)
		jobRoutes.GET("/metrics", apiHandler.GetJobMetricsHandler)
		jobRoutes.GET("/:jobId", apiHandler.GetJobHandler)
	}

	unmappedRoutes := router.Group("/unmapped")
	{
		unmappedRoutes.GET("", apiHandler.ListUnmappedHandler)
		unmappedRoutes.GET("/top", apiHandler.TopUnmappedHandler)
	}
}

// HealthCheckHandler provides a simple health check endpoint.
// A service with an empty dictionary is healthy but reports itself as degraded.
func (api *API) HealthCheckHandler(c *gin.Context) {
	stats := api.mapper.DictionaryStats()
	status := "healthy"
	if stats.Empty {
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":             status,
		"service":            "go-symptom-mapper",
		"dictionary_version": stats.Version,
		"timestamp":          fmt.Sprintf("%d", time.Now().Unix()),
	})
}

// DictionaryStatsHandler returns statistics of the published snapshots
func (api *API) DictionaryStatsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, api.mapper.DictionaryStats())
}
