package export

import (
	"time"

	"github.com/rpggio/doublediamond/internal/domain/diamond"
)

// Status is the outcome of an export attempt.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Export is one export attempt of a double diamond project into the
// primary project model.
type Export struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	DiamondID   string          `json:"diamond_id"`
	ProjectID   *string         `json:"project_id,omitempty"`
	TargetName  string          `json:"target_name"`
	Phases      []diamond.Phase `json:"phases"`
	Cost        float64         `json:"cost"`
	Status      Status          `json:"status"`
	Error       string          `json:"error,omitempty"`
	Attempts    int             `json:"attempts"`
	CreatedAt   time.Time       `json:"created_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// Result is returned by a successful export.
type Result struct {
	ExportID  string          `json:"export_id"`
	ProjectID string          `json:"project_id"`
	Phases    []diamond.Phase `json:"phases"`
}
