package handlers

import (
	"context"
	"errors"
	"kanban/database"
	"kanban/models"
	"kanban/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProjectStore is the persistence the project handlers depend on.
type ProjectStore interface {
	CreateProject(ctx context.Context, name string) (*models.Project, error)
	ListProjects(ctx context.Context) ([]models.Project, error)
	GetProject(ctx context.Context, projectID uuid.UUID) (*models.Project, error)
	DeleteProject(ctx context.Context, projectID uuid.UUID) error
}

func CreateProject(store ProjectStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreateProjectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Debug("Bind error", zap.Error(err))
			response.Error(c, response.Validation(err))
			return
		}

		project, err := store.CreateProject(c.Request.Context(), req.Name)
		if err != nil {
			logger.Error("CreateProject database error", zap.Error(err))
			response.Error(c, response.Storage("failed to create project", err))
			return
		}

		response.Success(c, project)
	}
}

func ListProjects(store ProjectStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		projects, err := store.ListProjects(c.Request.Context())
		if err != nil {
			response.Error(c, response.Storage("failed to list projects", err))
			return
		}

		response.Success(c, projects)
	}
}

func GetProject(store ProjectStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, err := uuid.Parse(c.Param("project_id"))
		if err != nil {
			response.Error(c, response.Validation(errors.New("invalid project ID")))
			return
		}

		project, err := store.GetProject(c.Request.Context(), projectID)
		if err != nil {
			response.Error(c, projectError(err, "failed to get project"))
			return
		}

		response.Success(c, project)
	}
}

func DeleteProject(store ProjectStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, err := uuid.Parse(c.Param("project_id"))
		if err != nil {
			response.Error(c, response.Validation(errors.New("invalid project ID")))
			return
		}

		if err := store.DeleteProject(c.Request.Context(), projectID); err != nil {
			response.Error(c, projectError(err, "failed to delete project"))
			return
		}

		response.Empty(c)
	}
}

func projectError(err error, message string) *response.AppError {
	if errors.Is(err, database.ErrProjectNotFound) && !errors.Is(err, database.ErrStorage) {
		return response.NotFound("project not found")
	}
	return response.Storage(message, err)
}
