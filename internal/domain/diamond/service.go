package diamond

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/doublediamond/internal/domain/activity"
	"github.com/rpggio/doublediamond/internal/repository"
)

// Service drives projects through the phases. Generate is the orchestrator:
// every stage, DFV included, goes through the same validate, call, persist path.
type Service struct {
	repo       Repository
	generator  Generator
	activities ActivityLogger
	observer   Observer
	logger     *slog.Logger
	leases     *leases
	now        func() time.Time
}

// NewService creates a new double diamond service. activities, observer and
// logger may be nil.
func NewService(
	repo Repository,
	generator Generator,
	activities ActivityLogger,
	observer Observer,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		repo:       repo,
		generator:  generator,
		activities: activities,
		observer:   observer,
		logger:     logger,
		leases:     newLeases(),
		now:        time.Now,
	}
}

// CreateRequest defines project creation inputs.
type CreateRequest struct {
	Briefing Briefing
}

// BriefingPatch is a partial briefing update; nil fields are left alone.
type BriefingPatch struct {
	Name             *string
	Description      *string
	Sector           *string
	SuccessCase      *string
	CustomCase       *string
	CustomCaseURLs   *[]string
	TargetAudience   *string
	ProblemStatement *string
}

// SelectionRequest stores user choices among generated define or develop content.
type SelectionRequest struct {
	Phase Phase
	POV   []string
	HMW   []string
	Ideas []string
}

// Create creates a new project with every stage pending.
func (s *Service) Create(ctx context.Context, userID string, req CreateRequest) (*Project, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidInput
	}
	if err := ValidateCreateInput(req); err != nil {
		return nil, err
	}

	now := s.now()
	proj := &Project{
		ID:        uuid.NewString(),
		UserID:    userID,
		Briefing:  req.Briefing,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, phase := range Stages {
		proj.State(phase).Status = StatusPending
	}
	proj.Refresh()

	if err := s.repo.Create(ctx, userID, proj); err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}

	s.logActivity(ctx, userID, &activity.ActivityEntry{
		ProjectID:    proj.ID,
		ActivityType: activity.TypeProjectCreated,
		Summary:      fmt.Sprintf("created project %q", proj.Briefing.Name),
	})

	return proj, nil
}

// Get fetches a project by ID with its derived fields recomputed.
func (s *Service) Get(ctx context.Context, userID, id string) (*Project, error) {
	proj, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	s.leases.overlay(proj)
	return proj, nil
}

// List returns project summaries for a user.
func (s *Service) List(ctx context.Context, userID string) ([]ProjectSummary, error) {
	summaries, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return summaries, nil
}

// Delete removes a project.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("deleting project: %w", err)
	}
	return nil
}

// UpdateBriefing applies a partial briefing update. Phase statuses are never touched.
func (s *Service) UpdateBriefing(ctx context.Context, userID, id string, patch BriefingPatch) (*Project, error) {
	if err := ValidateBriefingPatch(patch); err != nil {
		return nil, err
	}
	proj, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	applyPatch(&proj.Briefing, patch)
	proj.UpdatedAt = s.now()

	if err := s.repo.UpdateBriefing(ctx, userID, id, proj.Briefing, proj.UpdatedAt); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("updating briefing: %w", err)
	}

	s.logActivity(ctx, userID, &activity.ActivityEntry{
		ProjectID:    id,
		ActivityType: activity.TypeBriefingUpdated,
		Summary:      "updated briefing",
	})

	s.leases.overlay(proj)
	return proj, nil
}

// Select stores the user's choice of POV/HMW statements or ideas. Later
// phases are generated from the selection when one exists.
func (s *Service) Select(ctx context.Context, userID, id string, req SelectionRequest) (*Project, error) {
	proj, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := ValidateSelection(proj, req); err != nil {
		return nil, err
	}

	switch req.Phase {
	case PhaseDefine:
		proj.Define.SelectedPOV = req.POV
		proj.Define.SelectedHMW = req.HMW
	case PhaseDevelop:
		proj.Develop.SelectedIdeas = req.Ideas
	}
	proj.UpdatedAt = s.now()

	if err := s.repo.SaveSelections(ctx, userID, id, req, proj.UpdatedAt); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("saving selections: %w", err)
	}

	s.logActivity(ctx, userID, &activity.ActivityEntry{
		ProjectID:    id,
		Phase:        string(req.Phase),
		ActivityType: activity.TypeSelectionUpdated,
		Summary:      fmt.Sprintf("updated %s selections", req.Phase),
	})

	return proj, nil
}

// Generate runs one generation for a stage. On success the payload is
// persisted in a single write and the stage becomes completed; on failure
// nothing is written and the returned *GenerationError carries the cause.
// The generator is called exactly once; retrying is the caller's decision.
func (s *Service) Generate(ctx context.Context, userID, id string, phase Phase, locale string) (*Project, error) {
	if phase.Index() < 0 {
		return nil, ErrUnknownPhase
	}
	proj, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := CanGenerate(phase, proj.Statuses()); err != nil {
		return nil, err
	}

	if !s.leases.acquire(id, phase) {
		return nil, ErrGenerationInProgress
	}
	defer s.leases.release(id, phase)

	logger := s.logger.With("project_id", id, "phase", phase)
	logger.Debug("generation started", "locale", locale, "prior_status", proj.State(phase).Status)

	start := s.now()
	result, err := s.generator.Generate(ctx, BuildContext(proj, phase, locale))
	if err == nil {
		err = checkResult(phase, result)
	}
	elapsed := s.now().Sub(start).Seconds()
	if err != nil {
		s.observe(phase, "failed", elapsed)
		logger.Warn("generation failed", "error", err)
		s.logActivity(ctx, userID, &activity.ActivityEntry{
			ProjectID:    id,
			Phase:        string(phase),
			ActivityType: activity.TypeGenerationFailed,
			Summary:      fmt.Sprintf("generation of %s failed", phase),
			Details:      err.Error(),
		})
		return nil, &GenerationError{Phase: phase, Cause: err}
	}

	now := s.now()
	applyPayload(proj, phase, result.Payload, now)
	proj.GenerationCount++
	proj.TotalCost += result.Cost
	proj.UpdatedAt = now
	proj.Refresh()

	update := PhaseUpdate{
		ProjectID:   id,
		Phase:       phase,
		Payload:     result.Payload,
		GeneratedAt: now,
		Cost:        result.Cost,
		Progress:    Compute(proj),
	}
	if err := s.repo.SavePhase(ctx, userID, update); err != nil {
		s.observe(phase, "failed", elapsed)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("saving %s: %w", phase, err)
	}

	s.observe(phase, "completed", elapsed)
	logger.Info("generation completed", "cost", result.Cost, "completion", proj.CompletionPercentage)
	s.logActivity(ctx, userID, &activity.ActivityEntry{
		ProjectID:    id,
		Phase:        string(phase),
		ActivityType: activity.TypePhaseGenerated,
		Summary:      fmt.Sprintf("generated %s", phase),
	})

	s.leases.overlay(proj)
	removePhase(&proj.Generating, phase)
	return proj, nil
}

// LinkExport records the primary-model project created by the latest export.
func (s *Service) LinkExport(ctx context.Context, userID, id, projectID string) error {
	if err := s.repo.LinkExport(ctx, userID, id, projectID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("linking export: %w", err)
	}
	return nil
}

func (s *Service) load(ctx context.Context, userID, id string) (*Project, error) {
	proj, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	proj.Refresh()
	return proj, nil
}

func (s *Service) logActivity(ctx context.Context, userID string, entry *activity.ActivityEntry) {
	if s.activities == nil {
		return
	}
	if err := s.activities.LogActivity(ctx, userID, entry); err != nil {
		s.logger.Warn("failed to log activity", "type", entry.ActivityType, "error", err)
	}
}

func (s *Service) observe(phase Phase, outcome string, seconds float64) {
	if s.observer != nil {
		s.observer.ObserveGeneration(string(phase), outcome, seconds)
	}
}

func checkResult(phase Phase, result *Result) error {
	if result == nil || result.Payload == nil {
		return fmt.Errorf("%w: empty result", ErrInvalidPayload)
	}
	if result.Payload.Phase() != phase {
		return fmt.Errorf("%w: got %s content for %s", ErrInvalidPayload, result.Payload.Phase(), phase)
	}
	if result.Cost < 0 {
		return fmt.Errorf("%w: negative cost", ErrInvalidPayload)
	}
	return result.Payload.Validate()
}

// applyPayload replaces a stage's content in place. Selections belong to the
// content they were made from, so they are cleared with it.
func applyPayload(p *Project, phase Phase, payload Payload, at time.Time) {
	switch v := payload.(type) {
	case *DiscoverPayload:
		p.Discover.Payload = v
	case *DefinePayload:
		p.Define.Payload = v
		p.Define.SelectedPOV = nil
		p.Define.SelectedHMW = nil
	case *DevelopPayload:
		p.Develop.Payload = v
		p.Develop.SelectedIdeas = nil
	case *DeliverPayload:
		p.Deliver.Payload = v
	case *DFVPayload:
		p.DFV.Payload = v
	}
	st := p.State(phase)
	st.Status = StatusCompleted
	st.GeneratedAt = &at
}

func applyPatch(b *Briefing, patch BriefingPatch) {
	if patch.Name != nil {
		b.Name = *patch.Name
	}
	if patch.Description != nil {
		b.Description = *patch.Description
	}
	if patch.Sector != nil {
		b.Sector = *patch.Sector
	}
	if patch.SuccessCase != nil {
		b.SuccessCase = *patch.SuccessCase
	}
	if patch.CustomCase != nil {
		b.CustomCase = *patch.CustomCase
	}
	if patch.CustomCaseURLs != nil {
		b.CustomCaseURLs = *patch.CustomCaseURLs
	}
	if patch.TargetAudience != nil {
		b.TargetAudience = *patch.TargetAudience
	}
	if patch.ProblemStatement != nil {
		b.ProblemStatement = *patch.ProblemStatement
	}
}

func removePhase(list *[]Phase, phase Phase) {
	out := (*list)[:0]
	for _, p := range *list {
		if p != phase {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		out = nil
	}
	*list = out
}
