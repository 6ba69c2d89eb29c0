package diamond

import (
	"fmt"
	"strings"
)

// CanGenerate decides whether a stage may be (re)generated given the
// statuses of the stages before it. It is pure and must be re-evaluated on
// every request.
func CanGenerate(phase Phase, statuses map[Phase]Status) error {
	idx := phase.Index()
	if idx < 0 {
		return ErrUnknownPhase
	}
	if idx == 0 {
		return nil
	}
	prev := Stages[idx-1]
	if statuses[prev] != StatusCompleted {
		return &PrerequisiteError{Phase: phase, Missing: prev}
	}
	return nil
}

// ValidateCreateInput validates fields required to create a project.
func ValidateCreateInput(req CreateRequest) error {
	if strings.TrimSpace(req.Briefing.Name) == "" {
		return ErrInvalidInput
	}
	return validateURLs(req.Briefing.CustomCaseURLs)
}

// ValidateBriefingPatch validates a partial briefing update.
func ValidateBriefingPatch(patch BriefingPatch) error {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return ErrInvalidInput
	}
	if patch.CustomCaseURLs != nil {
		return validateURLs(*patch.CustomCaseURLs)
	}
	return nil
}

func validateURLs(urls []string) error {
	for _, u := range urls {
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			return ErrInvalidInput
		}
	}
	return nil
}

// ValidateSelection checks that every selected value exists in the
// generated payload of the phase.
func ValidateSelection(p *Project, req SelectionRequest) error {
	switch req.Phase {
	case PhaseDefine:
		if p.Define.Payload == nil {
			return fmt.Errorf("%w: define has no generated content", ErrNotSelectable)
		}
		povs := make([]string, 0, len(p.Define.Payload.POVStatements))
		for _, pov := range p.Define.Payload.POVStatements {
			povs = append(povs, pov.Statement)
		}
		hmws := make([]string, 0, len(p.Define.Payload.HMWQuestions))
		for _, hmw := range p.Define.Payload.HMWQuestions {
			hmws = append(hmws, hmw.Question)
		}
		if !subset(req.POV, povs) || !subset(req.HMW, hmws) {
			return ErrNotSelectable
		}
		if len(req.Ideas) > 0 {
			return ErrInvalidInput
		}
	case PhaseDevelop:
		if p.Develop.Payload == nil {
			return fmt.Errorf("%w: develop has no generated content", ErrNotSelectable)
		}
		titles := make([]string, 0, len(p.Develop.Payload.Ideas)+len(p.Develop.Payload.CrossPollinatedIdeas))
		for _, idea := range p.Develop.Payload.Ideas {
			titles = append(titles, idea.Title)
		}
		for _, idea := range p.Develop.Payload.CrossPollinatedIdeas {
			titles = append(titles, idea.Title)
		}
		if !subset(req.Ideas, titles) {
			return ErrNotSelectable
		}
		if len(req.POV) > 0 || len(req.HMW) > 0 {
			return ErrInvalidInput
		}
	default:
		return ErrInvalidInput
	}
	return nil
}

func subset(selected, available []string) bool {
	set := make(map[string]struct{}, len(available))
	for _, v := range available {
		set[v] = struct{}{}
	}
	for _, v := range selected {
		if _, ok := set[v]; !ok {
			return false
		}
	}
	return true
}
