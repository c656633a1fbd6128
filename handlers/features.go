package handlers

import (
	"context"
	"errors"
	"kanban/analytics"
	"kanban/database"
	"kanban/middleware"
	"kanban/models"
	"kanban/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FeatureStore is the persistence the feature handlers depend on.
// *database.DB satisfies it.
type FeatureStore interface {
	middleware.FeatureFinder
	FindFeaturesByProject(ctx context.Context, projectID uuid.UUID) ([]models.Feature, error)
	CreateFeature(ctx context.Context, data models.CreateFeature) (*models.Feature, error)
	UpdateFeature(ctx context.Context, id uuid.UUID, data models.UpdateFeature) (*models.Feature, error)
	DeleteFeature(ctx context.Context, id uuid.UUID) (int64, error)
}

func ListFeatures(store FeatureStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var params models.FeatureSearchParams
		if err := c.ShouldBindQuery(&params); err != nil {
			response.Error(c, response.Validation(err))
			return
		}

		projectID, err := uuid.Parse(params.ProjectID)
		if err != nil {
			response.Error(c, response.Validation(errors.New("invalid project_id")))
			return
		}

		features, err := store.FindFeaturesByProject(c.Request.Context(), projectID)
		if err != nil {
			response.Error(c, response.Storage("failed to list features", err))
			return
		}

		response.Success(c, features)
	}
}

func CreateFeature(store FeatureStore, tracker analytics.Tracker, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreateFeature
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, response.Validation(err))
			return
		}

		ctx := c.Request.Context()
		feature, err := store.CreateFeature(ctx, req)
		if err != nil {
			logger.Error("CreateFeature failed", zap.Stringer("project_id", req.ProjectID), zap.Error(err))
			response.Error(c, response.Storage("failed to create feature", err))
			return
		}

		tracker.TrackIfAllowed(ctx, "feature_created", map[string]any{
			"feature_id":   feature.ID.String(),
			"project_id":   feature.ProjectID.String(),
			"feature_name": feature.Name,
		})

		response.Success(c, feature)
	}
}

// GetFeature returns the feature resolved by middleware.LoadFeature.
func GetFeature() gin.HandlerFunc {
	return func(c *gin.Context) {
		feature, ok := middleware.FeatureFromContext(c)
		if !ok {
			response.Error(c, response.NotFound("feature not found"))
			return
		}

		response.Success(c, feature)
	}
}

// UpdateFeature applies a partial update to the loaded feature. The target id
// always comes from the path, never from the body.
func UpdateFeature(store FeatureStore, tracker analytics.Tracker, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		feature, ok := middleware.FeatureFromContext(c)
		if !ok {
			response.Error(c, response.NotFound("feature not found"))
			return
		}

		var req models.UpdateFeature
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, response.Validation(err))
			return
		}

		ctx := c.Request.Context()
		updated, err := store.UpdateFeature(ctx, feature.ID, req)
		if err != nil {
			if errors.Is(err, database.ErrFeatureNotFound) {
				response.Error(c, response.NotFound("feature not found"))
				return
			}
			logger.Error("UpdateFeature failed", zap.Stringer("feature_id", feature.ID), zap.Error(err))
			response.Error(c, response.Storage("failed to update feature", err))
			return
		}

		tracker.TrackIfAllowed(ctx, "feature_updated", map[string]any{
			"feature_id":   feature.ID.String(),
			"feature_name": updated.Name,
		})

		response.Success(c, updated)
	}
}

// DeleteFeature removes the loaded feature. Zero affected rows means another
// request deleted it after it was loaded, which is reported as not found.
func DeleteFeature(store FeatureStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		feature, ok := middleware.FeatureFromContext(c)
		if !ok {
			response.Error(c, response.NotFound("feature not found"))
			return
		}

		affected, err := store.DeleteFeature(c.Request.Context(), feature.ID)
		if err != nil {
			logger.Error("DeleteFeature failed", zap.Stringer("feature_id", feature.ID), zap.Error(err))
			response.Error(c, response.Storage("failed to delete feature", err))
			return
		}
		if affected == 0 {
			response.Error(c, response.NotFound("feature not found"))
			return
		}

		response.Empty(c)
	}
}
