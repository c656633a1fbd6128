package handlers

import (
	"fmt"
	"kanban/analytics"
	"kanban/middleware"
	"kanban/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Store is everything the router needs from persistence.
type Store interface {
	FeatureStore
	ProjectStore
	Pinger
}

// NewRouter builds the gin engine with every route mounted.
func NewRouter(store Store, tracker analytics.Tracker, logger *zap.Logger) (*gin.Engine, error) {
	if err := models.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger))

	r.GET("/health", HealthCheck(store))

	RegisterProjectRoutes(&r.RouterGroup, store, logger)
	RegisterFeatureRoutes(&r.RouterGroup, store, tracker, logger)

	return r, nil
}

func RegisterProjectRoutes(rg *gin.RouterGroup, store ProjectStore, logger *zap.Logger) {
	projects := rg.Group("/projects")
	projects.GET("", ListProjects(store))
	projects.POST("", CreateProject(store, logger))
	projects.GET("/:project_id", GetProject(store))
	projects.DELETE("/:project_id", DeleteProject(store))
}

// RegisterFeatureRoutes mounts /features. Only the id-scoped routes go
// through LoadFeature.
func RegisterFeatureRoutes(rg *gin.RouterGroup, store FeatureStore, tracker analytics.Tracker, logger *zap.Logger) {
	features := rg.Group("/features")
	features.GET("", ListFeatures(store))
	features.POST("", CreateFeature(store, tracker, logger))

	feature := features.Group("/:"+middleware.FeatureIDParam, middleware.LoadFeature(store))
	feature.GET("", GetFeature())
	feature.PUT("", UpdateFeature(store, tracker, logger))
	feature.DELETE("", DeleteFeature(store, logger))
}
