package middleware

import (
	"context"
	"errors"
	"kanban/models"
	"kanban/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// FeatureKey is the gin context key the resolved feature is stored under.
const FeatureKey = "feature"

// FeatureIDParam is the path parameter LoadFeature reads.
const FeatureIDParam = "feature_id"

// FeatureFinder is the lookup LoadFeature needs from the store.
type FeatureFinder interface {
	FindFeatureByID(ctx context.Context, id uuid.UUID) (*models.Feature, error)
}

// LoadFeature resolves :feature_id before the handler runs. A missing feature
// ends the request with a not found envelope; otherwise the feature is stored
// in the context for FeatureFromContext.
//
// The stored feature is a snapshot taken at lookup time. It can be deleted or
// changed by another request before the handler's own write runs.
func LoadFeature(store FeatureFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		featureID, err := uuid.Parse(c.Param(FeatureIDParam))
		if err != nil {
			response.Error(c, response.Validation(errors.New("invalid feature ID")))
			return
		}

		feature, err := store.FindFeatureByID(c.Request.Context(), featureID)
		if err != nil {
			response.Error(c, response.Storage("failed to load feature", err))
			return
		}
		if feature == nil {
			response.Error(c, response.NotFound("feature not found"))
			return
		}

		c.Set(FeatureKey, feature)
		c.Next()
	}
}

// FeatureFromContext returns the feature stored by LoadFeature.
func FeatureFromContext(c *gin.Context) (*models.Feature, bool) {
	value, ok := c.Get(FeatureKey)
	if !ok {
		return nil, false
	}
	feature, ok := value.(*models.Feature)
	return feature, ok && feature != nil
}
