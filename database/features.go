package database

import (
	"context"
	"errors"
	"fmt"
	"kanban/models"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const featureColumns = `id, project_id, name, created_at, updated_at`

// FindFeaturesByProject returns every feature of a project ordered by name.
// Names compare byte-wise (COLLATE "C"), so "Zeta" sorts before "alpha".
// Returns an empty slice (not nil) when the project has no features.
func (db *DB) FindFeaturesByProject(ctx context.Context, projectID uuid.UUID) (features []models.Feature, err error) {
	ctx, span := startSpan(ctx, "FindFeaturesByProject", attribute.String("project.id", projectID.String()))
	defer func() { endSpan(span, err) }()
	defer db.logDuration("FindFeaturesByProject", time.Now(), zap.Stringer("project_id", projectID))

	query := `
		SELECT ` + featureColumns + `
		FROM features
		WHERE project_id = $1
		ORDER BY name COLLATE "C" ASC
	`

	rows, err := db.Pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list features: %w", mapPostgresError(err))
	}
	defer rows.Close()

	features, err = scanFeatures(rows)
	if err != nil {
		return nil, mapPostgresError(err)
	}
	return features, nil
}

// FindFeatureByID returns nil and no error when the feature does not exist.
func (db *DB) FindFeatureByID(ctx context.Context, id uuid.UUID) (feature *models.Feature, err error) {
	ctx, span := startSpan(ctx, "FindFeatureByID", attribute.String("feature.id", id.String()))
	defer func() { endSpan(span, err) }()
	defer db.logDuration("FindFeatureByID", time.Now(), zap.Stringer("feature_id", id))

	query := `
		SELECT ` + featureColumns + `
		FROM features
		WHERE id = $1
	`

	feature, err = scanFeature(db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get feature: %w", mapPostgresError(err))
	}

	return feature, nil
}

// CreateFeature inserts a feature with a fresh id. Both timestamps come from
// the same NOW() so created_at equals updated_at on the returned row.
func (db *DB) CreateFeature(ctx context.Context, data models.CreateFeature) (feature *models.Feature, err error) {
	ctx, span := startSpan(ctx, "CreateFeature", attribute.String("project.id", data.ProjectID.String()))
	defer func() { endSpan(span, err) }()
	defer db.logDuration("CreateFeature", time.Now(), zap.Stringer("project_id", data.ProjectID))

	query := `
		INSERT INTO features (id, project_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING ` + featureColumns

	feature, err = scanFeature(db.Pool.QueryRow(ctx, query, uuid.New(), data.ProjectID, data.Name))
	if err != nil {
		return nil, fmt.Errorf("failed to create feature: %w", mapPostgresError(err))
	}

	db.logger.Info("Created feature",
		zap.Stringer("feature_id", feature.ID),
		zap.Stringer("project_id", feature.ProjectID),
		zap.String("name", feature.Name))
	return feature, nil
}

// UpdateFeature merges data into the stored feature and bumps updated_at.
//
// The merge reads the row and then writes it in a separate statement, so two
// concurrent updates of the same feature can each merge against a stale copy
// and the last write wins. updated_at is written as GREATEST(NOW(), updated_at)
// and therefore never moves backwards.
func (db *DB) UpdateFeature(ctx context.Context, id uuid.UUID, data models.UpdateFeature) (feature *models.Feature, err error) {
	ctx, span := startSpan(ctx, "UpdateFeature", attribute.String("feature.id", id.String()))
	defer func() { endSpan(span, err) }()
	defer db.logDuration("UpdateFeature", time.Now(), zap.Stringer("feature_id", id))

	existing, err := db.FindFeatureByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("failed to update feature %s: %w", id, ErrFeatureNotFound)
	}

	name := existing.Name
	if data.Name != nil {
		name = *data.Name
	}

	query := `
		UPDATE features
		SET name = $2, updated_at = GREATEST(NOW(), updated_at)
		WHERE id = $1
		RETURNING ` + featureColumns

	feature, err = scanFeature(db.Pool.QueryRow(ctx, query, id, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("failed to update feature %s: %w", id, ErrFeatureNotFound)
		}
		return nil, fmt.Errorf("failed to update feature: %w", mapPostgresError(err))
	}

	db.logger.Info("Updated feature", zap.Stringer("feature_id", id), zap.String("name", feature.Name))
	return feature, nil
}

// DeleteFeature hard-deletes a feature and returns the number of rows removed.
// Deleting a missing id returns 0 and no error.
func (db *DB) DeleteFeature(ctx context.Context, id uuid.UUID) (affected int64, err error) {
	ctx, span := startSpan(ctx, "DeleteFeature", attribute.String("feature.id", id.String()))
	defer func() { endSpan(span, err) }()
	defer db.logDuration("DeleteFeature", time.Now(), zap.Stringer("feature_id", id))

	result, err := db.Pool.Exec(ctx, `DELETE FROM features WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete feature: %w", mapPostgresError(err))
	}

	affected = result.RowsAffected()
	span.SetAttributes(attribute.Int64("db.rows_affected", affected))
	if affected > 0 {
		db.logger.Info("Deleted feature", zap.Stringer("feature_id", id))
	}
	return affected, nil
}

func startSpan(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, "database."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(append(attrs, attribute.String("db.system", "postgresql"))...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func scanFeature(row rowScanner) (*models.Feature, error) {
	var feature models.Feature
	err := row.Scan(
		&feature.ID,
		&feature.ProjectID,
		&feature.Name,
		&feature.CreatedAt,
		&feature.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &feature, nil
}

func scanFeatures(rows rowsScanner) ([]models.Feature, error) {
	features := []models.Feature{}
	for rows.Next() {
		feature, err := scanFeature(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feature: %w", err)
		}
		features = append(features, *feature)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating features: %w", err)
	}

	return features, nil
}
