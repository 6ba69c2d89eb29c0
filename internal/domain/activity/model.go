package activity

import "time"

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeProjectCreated   ActivityType = "project_created"
	TypeBriefingUpdated  ActivityType = "briefing_updated"
	TypePhaseGenerated   ActivityType = "phase_generated"
	TypeGenerationFailed ActivityType = "generation_failed"
	TypeSelectionUpdated ActivityType = "selection_updated"
	TypeExportCompleted  ActivityType = "export_completed"
	TypeExportFailed     ActivityType = "export_failed"
)

// Valid reports whether t is a known activity type.
func (t ActivityType) Valid() bool {
	switch t {
	case TypeProjectCreated, TypeBriefingUpdated, TypePhaseGenerated, TypeGenerationFailed,
		TypeSelectionUpdated, TypeExportCompleted, TypeExportFailed:
		return true
	}
	return false
}

// ActivityEntry represents an event in the activity log
type ActivityEntry struct {
	ID           int64        `json:"id"`
	UserID       string       `json:"user_id"`
	ProjectID    string       `json:"project_id"`
	Phase        string       `json:"phase,omitempty"`
	ExportID     *string      `json:"export_id,omitempty"`
	ActivityType ActivityType `json:"type"`
	Summary      string       `json:"summary"`
	Details      string       `json:"details,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}
