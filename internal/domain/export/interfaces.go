package export

import (
	"context"

	"github.com/rpggio/doublediamond/internal/domain/activity"
	"github.com/rpggio/doublediamond/internal/domain/diamond"
	"github.com/rpggio/doublediamond/internal/domain/project"
)

// Repository provides persistence for export records.
type Repository interface {
	Create(ctx context.Context, userID string, rec *Export) error
	Get(ctx context.Context, userID, id string) (*Export, error)
	Update(ctx context.Context, userID string, rec *Export) error
	ListByDiamond(ctx context.Context, userID, diamondID string) ([]Export, error)
}

// Diamonds reads and links double diamond projects.
type Diamonds interface {
	Get(ctx context.Context, userID, id string) (*diamond.Project, error)
	LinkExport(ctx context.Context, userID, id, projectID string) error
}

// Projects creates primary-model projects. CreateBundle must return the
// existing project id when the bundle's SourceExportID was already used.
type Projects interface {
	CreateBundle(ctx context.Context, userID string, bundle *project.Bundle) (string, error)
}

// ActivityLogger records export events.
type ActivityLogger interface {
	LogActivity(ctx context.Context, userID string, entry *activity.ActivityEntry) error
}

// Observer receives export outcomes for metrics.
type Observer interface {
	ObserveExport(outcome string)
}
