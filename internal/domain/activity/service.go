package activity

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// Service handles activity log operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new activity service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// LogActivity logs an activity entry with the current timestamp if missing.
func (s *Service) LogActivity(ctx context.Context, userID string, entry *ActivityEntry) error {
	if entry == nil || !entry.ActivityType.Valid() {
		return ErrInvalidInput
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now()
	}
	if err := s.repo.Log(ctx, userID, entry); err != nil {
		return fmt.Errorf("logging activity: %w", err)
	}
	s.logger.Debug("activity logged", "type", entry.ActivityType, "project_id", entry.ProjectID)
	return nil
}

// GetRecentActivity lists activity entries with filtering, newest first.
func (s *Service) GetRecentActivity(ctx context.Context, userID string, opts ListActivityOptions) ([]ActivityEntry, error) {
	if opts.ActivityType != nil && !opts.ActivityType.Valid() {
		return nil, ErrInvalidInput
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultListLimit
	}
	if opts.Limit > maxListLimit {
		opts.Limit = maxListLimit
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	return s.repo.List(ctx, userID, opts)
}
