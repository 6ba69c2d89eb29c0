package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/doublediamond/internal/repository"
)

// Service handles project operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new project service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger}
}

// CreateBundle creates a project with its entities and returns the project
// id. IDs are assigned to every entity that lacks one.
func (s *Service) CreateBundle(ctx context.Context, userID string, bundle *Bundle) (string, error) {
	if bundle == nil || strings.TrimSpace(bundle.Project.Name) == "" || strings.TrimSpace(userID) == "" {
		return "", ErrInvalidInput
	}

	proj := &bundle.Project
	if proj.ID == "" {
		proj.ID = uuid.NewString()
	}
	proj.UserID = userID
	if proj.CreatedAt.IsZero() {
		proj.CreatedAt = time.Now()
	}
	for i := range bundle.Empathy {
		bundle.Empathy[i].ID = ensureID(bundle.Empathy[i].ID)
		bundle.Empathy[i].ProjectID = proj.ID
	}
	for i := range bundle.POVs {
		bundle.POVs[i].ID = ensureID(bundle.POVs[i].ID)
		bundle.POVs[i].ProjectID = proj.ID
	}
	for i := range bundle.HMWs {
		bundle.HMWs[i].ID = ensureID(bundle.HMWs[i].ID)
		bundle.HMWs[i].ProjectID = proj.ID
	}
	for i := range bundle.Ideas {
		bundle.Ideas[i].ID = ensureID(bundle.Ideas[i].ID)
		bundle.Ideas[i].ProjectID = proj.ID
	}
	for i := range bundle.Assets {
		bundle.Assets[i].ID = ensureID(bundle.Assets[i].ID)
		bundle.Assets[i].ProjectID = proj.ID
	}

	id, err := s.repo.CreateBundle(ctx, userID, bundle)
	if err != nil {
		return "", fmt.Errorf("creating project: %w", err)
	}
	if id != proj.ID {
		s.logger.Info("project already exists for export", "project_id", id, "export_id", deref(proj.SourceExportID))
	}
	return id, nil
}

// Get fetches a project by ID.
func (s *Service) Get(ctx context.Context, userID, id string) (*Project, error) {
	proj, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}

// GetBundle fetches a project with all entities.
func (s *Service) GetBundle(ctx context.Context, userID, id string) (*Bundle, error) {
	bundle, err := s.repo.GetBundle(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project bundle: %w", err)
	}
	return bundle, nil
}

// List returns project summaries.
func (s *Service) List(ctx context.Context, userID string) ([]ProjectSummary, error) {
	return s.repo.List(ctx, userID)
}

func ensureID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
