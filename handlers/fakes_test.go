package handlers

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"kanban/database"
	"kanban/models"

	"github.com/google/uuid"
)

// memStore is an in-memory Store with the same observable contract as
// *database.DB.
type memStore struct {
	mu       sync.Mutex
	features map[uuid.UUID]models.Feature
	projects map[uuid.UUID]models.Project
	clock    time.Time

	// err, when set, is returned by every operation.
	err error
	// deleteRaces makes DeleteFeature remove the row before its own delete,
	// as a concurrent request would.
	deleteRaces bool
	pingErr     error
}

func newMemStore() *memStore {
	return &memStore{
		features: map[uuid.UUID]models.Feature{},
		projects: map[uuid.UUID]models.Project{},
		clock:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *memStore) now() time.Time {
	s.clock = s.clock.Add(time.Millisecond)
	return s.clock
}

func (s *memStore) FindFeaturesByProject(ctx context.Context, projectID uuid.UUID) ([]models.Feature, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}

	features := []models.Feature{}
	for _, f := range s.features {
		if f.ProjectID == projectID {
			features = append(features, f)
		}
	}
	sort.Slice(features, func(i, j int) bool { return features[i].Name < features[j].Name })
	return features, nil
}

func (s *memStore) FindFeatureByID(ctx context.Context, id uuid.UUID) (*models.Feature, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}

	f, ok := s.features[id]
	if !ok {
		return nil, nil
	}
	return &f, nil
}

func (s *memStore) CreateFeature(ctx context.Context, data models.CreateFeature) (*models.Feature, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if _, ok := s.projects[data.ProjectID]; !ok {
		return nil, fmt.Errorf("failed to create feature: %w: %w", database.ErrStorage, database.ErrProjectNotFound)
	}

	now := s.now()
	f := models.Feature{
		ID:        uuid.New(),
		ProjectID: data.ProjectID,
		Name:      data.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.features[f.ID] = f
	return &f, nil
}

func (s *memStore) UpdateFeature(ctx context.Context, id uuid.UUID, data models.UpdateFeature) (*models.Feature, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}

	f, ok := s.features[id]
	if !ok {
		return nil, fmt.Errorf("failed to update feature %s: %w", id, database.ErrFeatureNotFound)
	}
	if data.Name != nil {
		f.Name = *data.Name
	}
	f.UpdatedAt = s.now()
	s.features[id] = f
	return &f, nil
}

func (s *memStore) DeleteFeature(ctx context.Context, id uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	if s.deleteRaces {
		delete(s.features, id)
	}

	if _, ok := s.features[id]; !ok {
		return 0, nil
	}
	delete(s.features, id)
	return 1, nil
}

func (s *memStore) CreateProject(ctx context.Context, name string) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}

	now := s.now()
	p := models.Project{ID: uuid.New(), Name: name, CreatedAt: now, UpdatedAt: now}
	s.projects[p.ID] = p
	return &p, nil
}

func (s *memStore) ListProjects(ctx context.Context) ([]models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}

	projects := []models.Project{}
	for _, p := range s.projects {
		projects = append(projects, p)
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].CreatedAt.After(projects[j].CreatedAt) })
	return projects, nil
}

func (s *memStore) GetProject(ctx context.Context, projectID uuid.UUID) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}

	p, ok := s.projects[projectID]
	if !ok {
		return nil, database.ErrProjectNotFound
	}
	return &p, nil
}

func (s *memStore) DeleteProject(ctx context.Context, projectID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}

	if _, ok := s.projects[projectID]; !ok {
		return database.ErrProjectNotFound
	}
	delete(s.projects, projectID)
	for id, f := range s.features {
		if f.ProjectID == projectID {
			delete(s.features, id)
		}
	}
	return nil
}

func (s *memStore) Ping(ctx context.Context) error {
	return s.pingErr
}

type trackedEvent struct {
	name       string
	properties map[string]any
}

// recordingTracker captures events synchronously.
type recordingTracker struct {
	mu     sync.Mutex
	events []trackedEvent
}

func (t *recordingTracker) TrackIfAllowed(ctx context.Context, event string, properties map[string]any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, trackedEvent{name: event, properties: properties})
}

func (t *recordingTracker) recorded() []trackedEvent {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]trackedEvent(nil), t.events...)
}
