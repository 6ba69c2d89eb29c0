package diamond

// GenerationContext is everything the generator sees for one call. Payloads
// of the requested stage and of later stages are never included.
type GenerationContext struct {
	ProjectID string           `json:"project_id"`
	Phase     Phase            `json:"phase"`
	Locale    string           `json:"locale"`
	Briefing  Briefing         `json:"briefing"`
	Discover  *DiscoverPayload `json:"discover,omitempty"`
	Define    *DefinePayload   `json:"define,omitempty"`
	Develop   *DevelopPayload  `json:"develop,omitempty"`
	Deliver   *DeliverPayload  `json:"deliver,omitempty"`
}

// BuildContext assembles the generation context for a stage from the
// briefing and the stored payloads of prior stages. User selections narrow
// the define and develop content that is fed forward.
func BuildContext(p *Project, phase Phase, locale string) GenerationContext {
	gc := GenerationContext{
		ProjectID: p.ID,
		Phase:     phase,
		Locale:    locale,
		Briefing:  p.Briefing,
	}
	idx := phase.Index()
	if idx > PhaseDiscover.Index() {
		gc.Discover = p.Discover.Payload
	}
	if idx > PhaseDefine.Index() && p.Define.Payload != nil {
		gc.Define = p.Define.Selected()
	}
	if idx > PhaseDevelop.Index() && p.Develop.Payload != nil {
		gc.Develop = p.Develop.Selected()
	}
	if idx > PhaseDeliver.Index() {
		gc.Deliver = p.Deliver.Payload
	}
	return gc
}

// Selected returns the define content narrowed to the user's selections.
// Without selections the full payload is returned.
func (s DefineState) Selected() *DefinePayload {
	if s.Payload == nil {
		return nil
	}
	if len(s.SelectedPOV) == 0 && len(s.SelectedHMW) == 0 {
		return s.Payload
	}
	out := &DefinePayload{
		POVStatements: s.Payload.POVStatements,
		HMWQuestions:  s.Payload.HMWQuestions,
	}
	if len(s.SelectedPOV) > 0 {
		keep := toSet(s.SelectedPOV)
		out.POVStatements = nil
		for _, pov := range s.Payload.POVStatements {
			if _, ok := keep[pov.Statement]; ok {
				out.POVStatements = append(out.POVStatements, pov)
			}
		}
	}
	if len(s.SelectedHMW) > 0 {
		keep := toSet(s.SelectedHMW)
		out.HMWQuestions = nil
		for _, hmw := range s.Payload.HMWQuestions {
			if _, ok := keep[hmw.Question]; ok {
				out.HMWQuestions = append(out.HMWQuestions, hmw)
			}
		}
	}
	return out
}

// Selected returns the develop ideas narrowed to the user's selections.
func (s DevelopState) Selected() *DevelopPayload {
	if s.Payload == nil {
		return nil
	}
	if len(s.SelectedIdeas) == 0 {
		return s.Payload
	}
	keep := toSet(s.SelectedIdeas)
	out := &DevelopPayload{}
	for _, idea := range s.Payload.Ideas {
		if _, ok := keep[idea.Title]; ok {
			out.Ideas = append(out.Ideas, idea)
		}
	}
	for _, idea := range s.Payload.CrossPollinatedIdeas {
		if _, ok := keep[idea.Title]; ok {
			out.CrossPollinatedIdeas = append(out.CrossPollinatedIdeas, idea)
		}
	}
	return out
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
