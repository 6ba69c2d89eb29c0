package diamond

// stageWeight is the share of the completion percentage each completed
// stage contributes.
const stageWeight = 100 / 5

// Progress is derived from stage statuses alone.
type Progress struct {
	CompletionPercentage int   `json:"completion_percentage"`
	CurrentPhase         Phase `json:"current_phase"`
}

// Compute derives completion and the current phase pointer. In-progress
// stages earn no credit, so a failed generation never moves the number.
func Compute(p *Project) Progress {
	progress := Progress{CurrentPhase: PhaseDFV}
	for _, phase := range Phases {
		if !p.State(phase).Completed() {
			progress.CurrentPhase = phase
			break
		}
	}
	for _, phase := range Phases {
		if p.State(phase).Completed() {
			progress.CompletionPercentage += stageWeight
		}
	}
	if p.HasScores() {
		progress.CompletionPercentage += stageWeight
	}
	return progress
}
