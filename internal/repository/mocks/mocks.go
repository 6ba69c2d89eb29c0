package mocks

import (
	"context"
	"time"

	"github.com/rpggio/doublediamond/internal/domain/activity"
	"github.com/rpggio/doublediamond/internal/domain/diamond"
	"github.com/rpggio/doublediamond/internal/domain/export"
	"github.com/rpggio/doublediamond/internal/domain/project"
	"github.com/stretchr/testify/mock"
)

// DiamondRepository is a mock for diamond.Repository.
type DiamondRepository struct {
	mock.Mock
}

func (m *DiamondRepository) Create(ctx context.Context, userID string, proj *diamond.Project) error {
	args := m.Called(ctx, userID, proj)
	return args.Error(0)
}

func (m *DiamondRepository) Get(ctx context.Context, userID, id string) (*diamond.Project, error) {
	args := m.Called(ctx, userID, id)
	if proj, ok := args.Get(0).(*diamond.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DiamondRepository) List(ctx context.Context, userID string) ([]diamond.ProjectSummary, error) {
	args := m.Called(ctx, userID)
	if list, ok := args.Get(0).([]diamond.ProjectSummary); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DiamondRepository) Delete(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *DiamondRepository) UpdateBriefing(ctx context.Context, userID, id string, briefing diamond.Briefing, at time.Time) error {
	args := m.Called(ctx, userID, id, briefing, at)
	return args.Error(0)
}

func (m *DiamondRepository) SavePhase(ctx context.Context, userID string, update diamond.PhaseUpdate) error {
	args := m.Called(ctx, userID, update)
	return args.Error(0)
}

func (m *DiamondRepository) SaveSelections(ctx context.Context, userID, id string, req diamond.SelectionRequest, at time.Time) error {
	args := m.Called(ctx, userID, id, req, at)
	return args.Error(0)
}

func (m *DiamondRepository) LinkExport(ctx context.Context, userID, id, projectID string) error {
	args := m.Called(ctx, userID, id, projectID)
	return args.Error(0)
}

// Generator is a mock for diamond.Generator.
type Generator struct {
	mock.Mock
}

func (m *Generator) Generate(ctx context.Context, gc diamond.GenerationContext) (*diamond.Result, error) {
	args := m.Called(ctx, gc)
	if res, ok := args.Get(0).(*diamond.Result); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

// ProjectRepository is a mock for project.Repository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) CreateBundle(ctx context.Context, userID string, bundle *project.Bundle) (string, error) {
	args := m.Called(ctx, userID, bundle)
	if fn, ok := args.Get(0).(func(context.Context, string, *project.Bundle) string); ok {
		return fn(ctx, userID, bundle), args.Error(1)
	}
	return args.String(0), args.Error(1)
}

func (m *ProjectRepository) Get(ctx context.Context, userID, id string) (*project.Project, error) {
	args := m.Called(ctx, userID, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) GetBundle(ctx context.Context, userID, id string) (*project.Bundle, error) {
	args := m.Called(ctx, userID, id)
	if bundle, ok := args.Get(0).(*project.Bundle); ok {
		return bundle, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) List(ctx context.Context, userID string) ([]project.ProjectSummary, error) {
	args := m.Called(ctx, userID)
	if list, ok := args.Get(0).([]project.ProjectSummary); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ExportRepository is a mock for export.Repository.
type ExportRepository struct {
	mock.Mock
}

func (m *ExportRepository) Create(ctx context.Context, userID string, rec *export.Export) error {
	args := m.Called(ctx, userID, rec)
	return args.Error(0)
}

func (m *ExportRepository) Get(ctx context.Context, userID, id string) (*export.Export, error) {
	args := m.Called(ctx, userID, id)
	if rec, ok := args.Get(0).(*export.Export); ok {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ExportRepository) Update(ctx context.Context, userID string, rec *export.Export) error {
	args := m.Called(ctx, userID, rec)
	return args.Error(0)
}

func (m *ExportRepository) ListByDiamond(ctx context.Context, userID, diamondID string) ([]export.Export, error) {
	args := m.Called(ctx, userID, diamondID)
	if list, ok := args.Get(0).([]export.Export); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// Diamonds is a mock for export.Diamonds.
type Diamonds struct {
	mock.Mock
}

func (m *Diamonds) Get(ctx context.Context, userID, id string) (*diamond.Project, error) {
	args := m.Called(ctx, userID, id)
	if proj, ok := args.Get(0).(*diamond.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Diamonds) LinkExport(ctx context.Context, userID, id, projectID string) error {
	args := m.Called(ctx, userID, id, projectID)
	return args.Error(0)
}

// Projects is a mock for export.Projects.
type Projects struct {
	mock.Mock
}

func (m *Projects) CreateBundle(ctx context.Context, userID string, bundle *project.Bundle) (string, error) {
	args := m.Called(ctx, userID, bundle)
	return args.String(0), args.Error(1)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, userID string, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, userID, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, userID string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, userID, opts)
	if list, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ActivityLogger is a mock for the activity sink used by the engine services.
type ActivityLogger struct {
	mock.Mock
}

func (m *ActivityLogger) LogActivity(ctx context.Context, userID string, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, userID, entry)
	return args.Error(0)
}
