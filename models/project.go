package models

import (
	"time"

	"github.com/google/uuid"
)

// Project is the parent of features. Features reference it through project_id
// and are removed with it by the database.
type Project struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CreateProjectRequest is the payload for creating a new project.
type CreateProjectRequest struct {
	Name string `json:"name" binding:"required,notblank,max=255"`
}
