package models

import (
	"time"

	"github.com/google/uuid"
)

// Feature is a named item that belongs to exactly one project.
// ID, ProjectID and CreatedAt never change after insert; UpdatedAt is
// refreshed on every successful update and is never before CreatedAt.
type Feature struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ProjectID uuid.UUID `json:"project_id" db:"project_id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CreateFeature is the payload for POST /features.
type CreateFeature struct {
	ProjectID uuid.UUID `json:"project_id" binding:"required"`
	Name      string    `json:"name" binding:"required,notblank"`
}

// UpdateFeature is the payload for PUT /features/:feature_id.
// A nil Name keeps the stored name.
type UpdateFeature struct {
	Name *string `json:"name" binding:"omitempty,notblank"`
}

// FeatureSearchParams scopes GET /features to a single project.
type FeatureSearchParams struct {
	ProjectID string `form:"project_id" binding:"required,uuid"`
}
