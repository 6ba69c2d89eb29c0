package diamond

import "time"

// Phase names one stage of the Double Diamond.
type Phase string

const (
	PhaseDiscover Phase = "discover"
	PhaseDefine   Phase = "define"
	PhaseDevelop  Phase = "develop"
	PhaseDeliver  Phase = "deliver"
	PhaseDFV      Phase = "dfv"
)

// Phases is the fixed order of the four diamond phases.
var Phases = []Phase{PhaseDiscover, PhaseDefine, PhaseDevelop, PhaseDeliver}

// Stages is Phases followed by the terminal DFV stage.
var Stages = []Phase{PhaseDiscover, PhaseDefine, PhaseDevelop, PhaseDeliver, PhaseDFV}

// ParsePhase validates a phase name.
func ParsePhase(s string) (Phase, error) {
	for _, p := range Stages {
		if string(p) == s {
			return p, nil
		}
	}
	return "", ErrUnknownPhase
}

// Index returns the position of the phase in Stages, or -1.
func (p Phase) Index() int {
	for i, s := range Stages {
		if s == p {
			return i
		}
	}
	return -1
}

// Status is the generation status of a stage.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Briefing is the user-entered framing that feeds every generation.
type Briefing struct {
	Name             string   `json:"name"`
	Description      string   `json:"description,omitempty"`
	Sector           string   `json:"sector,omitempty"`
	SuccessCase      string   `json:"success_case,omitempty"`
	CustomCase       string   `json:"custom_case,omitempty"`
	CustomCaseURLs   []string `json:"custom_case_urls,omitempty"`
	TargetAudience   string   `json:"target_audience,omitempty"`
	ProblemStatement string   `json:"problem_statement,omitempty"`
}

// PhaseState tracks the status of a single stage.
type PhaseState struct {
	Status      Status     `json:"status"`
	GeneratedAt *time.Time `json:"generated_at,omitempty"`
}

// Completed reports whether the stage has a validated payload.
func (s PhaseState) Completed() bool {
	return s.Status == StatusCompleted
}

// DiscoverState is the discover phase with its payload slot.
type DiscoverState struct {
	PhaseState
	Payload *DiscoverPayload `json:"payload,omitempty"`
}

// DefineState is the define phase with its payload slot and user selections.
type DefineState struct {
	PhaseState
	Payload     *DefinePayload `json:"payload,omitempty"`
	SelectedPOV []string       `json:"selected_pov,omitempty"`
	SelectedHMW []string       `json:"selected_hmw,omitempty"`
}

// DevelopState is the develop phase with its payload slot and selected ideas.
type DevelopState struct {
	PhaseState
	Payload       *DevelopPayload `json:"payload,omitempty"`
	SelectedIdeas []string        `json:"selected_ideas,omitempty"`
}

// DeliverState is the deliver phase with its payload slot.
type DeliverState struct {
	PhaseState
	Payload *DeliverPayload `json:"payload,omitempty"`
}

// DFVState is the terminal scoring stage.
type DFVState struct {
	PhaseState
	Payload *DFVPayload `json:"payload,omitempty"`
}

// Project is the Double Diamond aggregate root.
type Project struct {
	ID                string   `json:"id"`
	UserID            string   `json:"user_id"`
	ExportedProjectID *string  `json:"exported_project_id,omitempty"`
	Briefing          Briefing `json:"briefing"`

	Discover DiscoverState `json:"discover"`
	Define   DefineState   `json:"define"`
	Develop  DevelopState  `json:"develop"`
	Deliver  DeliverState  `json:"deliver"`
	DFV      DFVState      `json:"dfv"`

	// Cached values recomputed from statuses on every read and write.
	CurrentPhase         Phase `json:"current_phase"`
	CompletionPercentage int   `json:"completion_percentage"`
	IsCompleted          bool  `json:"is_completed"`

	// Generating lists stages with a generation call in flight.
	Generating []Phase `json:"generating,omitempty"`

	GenerationCount int64     `json:"generation_count"`
	TotalCost       float64   `json:"total_cost"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// State returns the status holder of a stage.
func (p *Project) State(phase Phase) *PhaseState {
	switch phase {
	case PhaseDiscover:
		return &p.Discover.PhaseState
	case PhaseDefine:
		return &p.Define.PhaseState
	case PhaseDevelop:
		return &p.Develop.PhaseState
	case PhaseDeliver:
		return &p.Deliver.PhaseState
	case PhaseDFV:
		return &p.DFV.PhaseState
	default:
		return nil
	}
}

// Statuses snapshots the status of every stage.
func (p *Project) Statuses() map[Phase]Status {
	out := make(map[Phase]Status, len(Stages))
	for _, phase := range Stages {
		out[phase] = p.State(phase).Status
	}
	return out
}

// Payload returns the stored payload for a stage, or nil.
func (p *Project) Payload(phase Phase) Payload {
	switch phase {
	case PhaseDiscover:
		if p.Discover.Payload != nil {
			return p.Discover.Payload
		}
	case PhaseDefine:
		if p.Define.Payload != nil {
			return p.Define.Payload
		}
	case PhaseDevelop:
		if p.Develop.Payload != nil {
			return p.Develop.Payload
		}
	case PhaseDeliver:
		if p.Deliver.Payload != nil {
			return p.Deliver.Payload
		}
	case PhaseDFV:
		if p.DFV.Payload != nil {
			return p.DFV.Payload
		}
	}
	return nil
}

// HasScores reports whether DFV scoring has been stored.
func (p *Project) HasScores() bool {
	return p.DFV.Completed() && p.DFV.Payload != nil
}

// Refresh recomputes the cached progress fields from statuses.
func (p *Project) Refresh() {
	progress := Compute(p)
	p.CurrentPhase = progress.CurrentPhase
	p.CompletionPercentage = progress.CompletionPercentage
	p.IsCompleted = p.HasScores()
}

// ProjectSummary is a lightweight representation for listing.
type ProjectSummary struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Sector               string    `json:"sector,omitempty"`
	CurrentPhase         Phase     `json:"current_phase"`
	CompletionPercentage int       `json:"completion_percentage"`
	IsCompleted          bool      `json:"is_completed"`
	Exported             bool      `json:"exported"`
	UpdatedAt            time.Time `json:"updated_at"`
}
