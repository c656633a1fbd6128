package database

import (
	"context"
	"errors"
	"fmt"
	"kanban/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

func (db *DB) CreateProject(ctx context.Context, name string) (*models.Project, error) {
	query := `
		INSERT INTO projects (name)
		VALUES ($1)
		RETURNING id, name, created_at, updated_at
	`

	project, err := scanProject(db.Pool.QueryRow(ctx, query, name))
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", mapPostgresError(err))
	}

	db.logger.Info("Created project", zap.String("name", project.Name), zap.Stringer("project_id", project.ID))
	return project, nil
}

func (db *DB) ListProjects(ctx context.Context) ([]models.Project, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM projects
		ORDER BY created_at DESC
	`

	rows, err := db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", mapPostgresError(err))
	}
	defer rows.Close()

	projects, err := scanProjects(rows)
	if err != nil {
		return nil, mapPostgresError(err)
	}
	return projects, nil
}

func (db *DB) GetProject(ctx context.Context, projectID uuid.UUID) (*models.Project, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM projects
		WHERE id = $1
	`

	project, err := scanProject(db.Pool.QueryRow(ctx, query, projectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", mapPostgresError(err))
	}

	return project, nil
}

// DeleteProject removes a project; its features go with it (ON DELETE CASCADE).
func (db *DB) DeleteProject(ctx context.Context, projectID uuid.UUID) error {
	query := `DELETE FROM projects WHERE id = $1`

	result, err := db.Pool.Exec(ctx, query, projectID)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", mapPostgresError(err))
	}

	if result.RowsAffected() == 0 {
		return ErrProjectNotFound
	}

	db.logger.Info("Deleted project", zap.Stringer("project_id", projectID))
	return nil
}

// Helper functions

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProject(row rowScanner) (*models.Project, error) {
	var project models.Project
	err := row.Scan(
		&project.ID,
		&project.Name,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &project, nil
}

type rowsScanner interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

func scanProjects(rows rowsScanner) ([]models.Project, error) {
	projects := []models.Project{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *project)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}

	return projects, nil
}
