package diamond

import (
	"context"
	"time"

	"github.com/rpggio/doublediamond/internal/domain/activity"
)

// Repository provides persistence for double diamond projects.
type Repository interface {
	Create(ctx context.Context, userID string, proj *Project) error
	Get(ctx context.Context, userID, id string) (*Project, error)
	List(ctx context.Context, userID string) ([]ProjectSummary, error)
	Delete(ctx context.Context, userID, id string) error
	UpdateBriefing(ctx context.Context, userID, id string, briefing Briefing, at time.Time) error
	SavePhase(ctx context.Context, userID string, update PhaseUpdate) error
	SaveSelections(ctx context.Context, userID, id string, req SelectionRequest, at time.Time) error
	LinkExport(ctx context.Context, userID, id, projectID string) error
}

// PhaseUpdate is the single write of a successful generation. Only the
// columns of Phase are touched; the counters are incremented in place.
type PhaseUpdate struct {
	ProjectID   string
	Phase       Phase
	Payload     Payload
	GeneratedAt time.Time
	Cost        float64
	Progress    Progress
}

// Generator is the external content-generation service.
type Generator interface {
	Generate(ctx context.Context, gc GenerationContext) (*Result, error)
}

// Result is the output of one generator call.
type Result struct {
	Payload Payload
	Cost    float64
}

// ActivityLogger records engine events.
type ActivityLogger interface {
	LogActivity(ctx context.Context, userID string, entry *activity.ActivityEntry) error
}

// Observer receives generation outcomes for metrics.
type Observer interface {
	ObserveGeneration(phase, outcome string, seconds float64)
}
