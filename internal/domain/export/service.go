package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/doublediamond/internal/domain/activity"
	"github.com/rpggio/doublediamond/internal/domain/diamond"
	"github.com/rpggio/doublediamond/internal/repository"
)

// Service runs exports of scored double diamond projects.
type Service struct {
	repo       Repository
	diamonds   Diamonds
	projects   Projects
	activities ActivityLogger
	observer   Observer
	logger     *slog.Logger
	now        func() time.Time
}

// NewService creates a new export service. activities, observer and logger
// may be nil.
func NewService(
	repo Repository,
	diamonds Diamonds,
	projects Projects,
	activities ActivityLogger,
	observer Observer,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		repo:       repo,
		diamonds:   diamonds,
		projects:   projects,
		activities: activities,
		observer:   observer,
		logger:     logger,
		now:        time.Now,
	}
}

// Export creates a new primary-model project from a scored double diamond
// project. Every call that passes the precondition checks writes its own
// export record, including failed attempts, and creates its own project.
func (s *Service) Export(ctx context.Context, userID, diamondID, targetName string) (*Result, error) {
	dd, err := s.diamonds.Get(ctx, userID, diamondID)
	if err != nil {
		return nil, err
	}
	if !dd.HasScores() {
		return nil, ErrNotReady
	}

	rec := &Export{
		ID:         uuid.NewString(),
		UserID:     userID,
		DiamondID:  diamondID,
		TargetName: targetName,
		Cost:       dd.TotalCost,
		Status:     StatusProcessing,
		CreatedAt:  s.now(),
	}
	if err := s.repo.Create(ctx, userID, rec); err != nil {
		return nil, fmt.Errorf("creating export record: %w", err)
	}

	return s.run(ctx, userID, rec, dd)
}

// Retry re-runs an existing export record against the current project
// state. A completed record returns its project without doing any work, and
// because target projects are keyed by export id a retry never produces a
// second project for the same record.
func (s *Service) Retry(ctx context.Context, userID, exportID string) (*Result, error) {
	rec, err := s.Get(ctx, userID, exportID)
	if err != nil {
		return nil, err
	}
	if rec.Status == StatusCompleted && rec.ProjectID != nil {
		return &Result{ExportID: rec.ID, ProjectID: *rec.ProjectID, Phases: rec.Phases}, nil
	}

	dd, err := s.diamonds.Get(ctx, userID, rec.DiamondID)
	if err != nil {
		return nil, err
	}
	if !dd.HasScores() {
		return nil, ErrNotReady
	}

	rec.Status = StatusProcessing
	rec.Error = ""
	rec.Cost = dd.TotalCost
	if err := s.repo.Update(ctx, userID, rec); err != nil {
		return nil, fmt.Errorf("updating export record: %w", err)
	}

	return s.run(ctx, userID, rec, dd)
}

// Get fetches an export record.
func (s *Service) Get(ctx context.Context, userID, exportID string) (*Export, error) {
	rec, err := s.repo.Get(ctx, userID, exportID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExportNotFound
		}
		return nil, fmt.Errorf("getting export: %w", err)
	}
	return rec, nil
}

// List returns the export attempts of a double diamond project, newest first.
func (s *Service) List(ctx context.Context, userID, diamondID string) ([]Export, error) {
	if _, err := s.diamonds.Get(ctx, userID, diamondID); err != nil {
		return nil, err
	}
	return s.repo.ListByDiamond(ctx, userID, diamondID)
}

func (s *Service) run(ctx context.Context, userID string, rec *Export, dd *diamond.Project) (*Result, error) {
	logger := s.logger.With("export_id", rec.ID, "project_id", rec.DiamondID)
	rec.Attempts++

	bundle, phases, err := Transform(dd, rec.TargetName)
	if err != nil {
		return nil, s.fail(ctx, userID, rec, logger, err)
	}
	rec.Phases = phases
	exportID := rec.ID
	bundle.Project.SourceExportID = &exportID

	projectID, err := s.projects.CreateBundle(ctx, userID, bundle)
	if err != nil {
		return nil, s.fail(ctx, userID, rec, logger, err)
	}

	completed := s.now()
	rec.ProjectID = &projectID
	rec.Status = StatusCompleted
	rec.CompletedAt = &completed
	if err := s.repo.Update(ctx, userID, rec); err != nil {
		// The project exists; a retry finds it by source export id.
		return nil, s.fail(ctx, userID, rec, logger, fmt.Errorf("completing export record: %w", err))
	}

	if err := s.diamonds.LinkExport(ctx, userID, rec.DiamondID, projectID); err != nil {
		logger.Warn("failed to link exported project", "error", err)
	}

	logger.Info("export completed", "target_project_id", projectID, "phases", len(phases))
	s.observe("completed")
	s.logActivity(ctx, userID, &activity.ActivityEntry{
		ProjectID:    rec.DiamondID,
		ExportID:     &exportID,
		ActivityType: activity.TypeExportCompleted,
		Summary:      fmt.Sprintf("exported to project %s", projectID),
	})

	return &Result{ExportID: rec.ID, ProjectID: projectID, Phases: phases}, nil
}

func (s *Service) fail(ctx context.Context, userID string, rec *Export, logger *slog.Logger, cause error) error {
	completed := s.now()
	rec.Status = StatusFailed
	rec.Error = cause.Error()
	rec.CompletedAt = &completed
	if err := s.repo.Update(ctx, userID, rec); err != nil {
		logger.Error("failed to record export failure", "error", err, "cause", cause)
	}

	logger.Warn("export failed", "error", cause)
	s.observe("failed")
	exportID := rec.ID
	s.logActivity(ctx, userID, &activity.ActivityEntry{
		ProjectID:    rec.DiamondID,
		ExportID:     &exportID,
		ActivityType: activity.TypeExportFailed,
		Summary:      "export failed",
		Details:      cause.Error(),
	})

	return &ExportError{ExportID: rec.ID, Cause: cause}
}

func (s *Service) logActivity(ctx context.Context, userID string, entry *activity.ActivityEntry) {
	if s.activities == nil {
		return
	}
	if err := s.activities.LogActivity(ctx, userID, entry); err != nil {
		s.logger.Warn("failed to log activity", "type", entry.ActivityType, "error", err)
	}
}

func (s *Service) observe(outcome string) {
	if s.observer != nil {
		s.observer.ObserveExport(outcome)
	}
}
