package diamond

import (
	"fmt"
	"strings"
)

// Payload is the generated content of one stage. Each stage has its own
// concrete type; the orchestrator validates it before persisting.
type Payload interface {
	Phase() Phase
	Validate() error
}

// EmpathyMap holds the four classic empathy quadrants.
type EmpathyMap struct {
	Says   []string `json:"says,omitempty"`
	Thinks []string `json:"thinks,omitempty"`
	Does   []string `json:"does,omitempty"`
	Feels  []string `json:"feels,omitempty"`
}

func (m EmpathyMap) empty() bool {
	return len(m.Says)+len(m.Thinks)+len(m.Does)+len(m.Feels) == 0
}

// PainPoint is a user pain point discovered during research.
type PainPoint struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Severity    int    `json:"severity,omitempty"`
}

// Insight is a research insight with its origin.
type Insight struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Source      string `json:"source,omitempty"`
}

// DiscoverPayload is the output of the discover phase.
type DiscoverPayload struct {
	PainPoints []PainPoint `json:"pain_points"`
	Insights   []Insight   `json:"insights"`
	UserNeeds  []string    `json:"user_needs"`
	EmpathyMap EmpathyMap  `json:"empathy_map"`
}

func (*DiscoverPayload) Phase() Phase { return PhaseDiscover }

func (d *DiscoverPayload) Validate() error {
	if len(d.PainPoints) == 0 && len(d.Insights) == 0 {
		return invalidPayload(PhaseDiscover, "no pain points or insights")
	}
	for i, pp := range d.PainPoints {
		if strings.TrimSpace(pp.Title) == "" {
			return invalidPayload(PhaseDiscover, fmt.Sprintf("pain point %d has no title", i))
		}
		if pp.Severity < 0 || pp.Severity > 5 {
			return invalidPayload(PhaseDiscover, fmt.Sprintf("pain point %d severity %d out of range", i, pp.Severity))
		}
	}
	for i, in := range d.Insights {
		if strings.TrimSpace(in.Title) == "" {
			return invalidPayload(PhaseDiscover, fmt.Sprintf("insight %d has no title", i))
		}
	}
	return nil
}

// POVStatement frames a user need as "user needs X because Y".
type POVStatement struct {
	User      string `json:"user"`
	Need      string `json:"need"`
	Insight   string `json:"insight"`
	Statement string `json:"statement"`
}

// HMWQuestion is a "How might we" question derived from a POV.
type HMWQuestion struct {
	Question string `json:"question"`
	Focus    string `json:"focus,omitempty"`
}

// DefinePayload is the output of the define phase.
type DefinePayload struct {
	POVStatements []POVStatement `json:"pov_statements"`
	HMWQuestions  []HMWQuestion  `json:"hmw_questions"`
}

func (*DefinePayload) Phase() Phase { return PhaseDefine }

func (d *DefinePayload) Validate() error {
	if len(d.POVStatements) == 0 {
		return invalidPayload(PhaseDefine, "no POV statements")
	}
	if len(d.HMWQuestions) == 0 {
		return invalidPayload(PhaseDefine, "no HMW questions")
	}
	for i, pov := range d.POVStatements {
		if strings.TrimSpace(pov.Statement) == "" {
			return invalidPayload(PhaseDefine, fmt.Sprintf("POV %d has no statement", i))
		}
	}
	for i, hmw := range d.HMWQuestions {
		if strings.TrimSpace(hmw.Question) == "" {
			return invalidPayload(PhaseDefine, fmt.Sprintf("HMW %d has no question", i))
		}
	}
	return nil
}

// Idea is a candidate solution.
type Idea struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Inspiration []string `json:"inspiration,omitempty"`
	Score       int      `json:"score,omitempty"`
}

// DevelopPayload is the output of the develop phase.
type DevelopPayload struct {
	Ideas                []Idea `json:"ideas"`
	CrossPollinatedIdeas []Idea `json:"cross_pollinated_ideas,omitempty"`
}

func (*DevelopPayload) Phase() Phase { return PhaseDevelop }

func (d *DevelopPayload) Validate() error {
	if len(d.Ideas) == 0 {
		return invalidPayload(PhaseDevelop, "no ideas")
	}
	for i, idea := range append(append([]Idea(nil), d.Ideas...), d.CrossPollinatedIdeas...) {
		if strings.TrimSpace(idea.Title) == "" {
			return invalidPayload(PhaseDevelop, fmt.Sprintf("idea %d has no title", i))
		}
	}
	return nil
}

// MVPConcept describes the minimum viable product.
type MVPConcept struct {
	Name          string   `json:"name"`
	Tagline       string   `json:"tagline,omitempty"`
	Description   string   `json:"description"`
	CoreFeatures  []string `json:"core_features,omitempty"`
	ValueProposal string   `json:"value_proposition,omitempty"`
}

// LogoSuggestion is a brand mark idea.
type LogoSuggestion struct {
	Concept string   `json:"concept"`
	Colors  []string `json:"colors,omitempty"`
	Style   string   `json:"style,omitempty"`
}

// LandingSection is one block of the landing page.
type LandingSection struct {
	Heading string `json:"heading"`
	Body    string `json:"body,omitempty"`
}

// LandingPage is the proposed landing-page structure.
type LandingPage struct {
	Headline     string           `json:"headline"`
	Subheadline  string           `json:"subheadline,omitempty"`
	CallToAction string           `json:"call_to_action,omitempty"`
	Sections     []LandingSection `json:"sections,omitempty"`
}

// SocialPost is a piece of launch copy for one channel.
type SocialPost struct {
	Channel string `json:"channel"`
	Copy    string `json:"copy"`
}

// TestPlan describes how the MVP is validated with users.
type TestPlan struct {
	Objective  string   `json:"objective"`
	Methods    []string `json:"methods,omitempty"`
	Metrics    []string `json:"metrics,omitempty"`
	Hypotheses []string `json:"hypotheses,omitempty"`
}

// DeliverPayload is the output of the deliver phase.
type DeliverPayload struct {
	MVPConcept      MVPConcept       `json:"mvp_concept"`
	LogoSuggestions []LogoSuggestion `json:"logo_suggestions,omitempty"`
	LandingPage     LandingPage      `json:"landing_page"`
	SocialCopy      []SocialPost     `json:"social_copy,omitempty"`
	TestPlan        TestPlan         `json:"test_plan"`
}

func (*DeliverPayload) Phase() Phase { return PhaseDeliver }

func (d *DeliverPayload) Validate() error {
	if strings.TrimSpace(d.MVPConcept.Name) == "" && strings.TrimSpace(d.MVPConcept.Description) == "" {
		return invalidPayload(PhaseDeliver, "missing MVP concept")
	}
	if strings.TrimSpace(d.TestPlan.Objective) == "" {
		return invalidPayload(PhaseDeliver, "missing test plan objective")
	}
	return nil
}

// AxisAnalysis is the rationale behind one DFV score.
type AxisAnalysis struct {
	Strengths []string `json:"strengths"`
	Concerns  []string `json:"concerns"`
	Reasoning string   `json:"reasoning"`
}

// DFVAnalysis groups the per-axis rationale.
type DFVAnalysis struct {
	Desirability AxisAnalysis `json:"desirability"`
	Feasibility  AxisAnalysis `json:"feasibility"`
	Viability    AxisAnalysis `json:"viability"`
}

// DFVPayload is the output of the terminal DFV scoring stage.
type DFVPayload struct {
	Desirability    int         `json:"desirability"`
	Feasibility     int         `json:"feasibility"`
	Viability       int         `json:"viability"`
	Analysis        DFVAnalysis `json:"analysis"`
	Feedback        string      `json:"feedback,omitempty"`
	Recommendations []string    `json:"recommendations"`
	NextSteps       []string    `json:"next_steps"`
}

func (*DFVPayload) Phase() Phase { return PhaseDFV }

func (d *DFVPayload) Validate() error {
	scores := map[string]int{
		"desirability": d.Desirability,
		"feasibility":  d.Feasibility,
		"viability":    d.Viability,
	}
	for axis, score := range scores {
		if score < 0 || score > 100 {
			return invalidPayload(PhaseDFV, fmt.Sprintf("%s score %d outside [0,100]", axis, score))
		}
	}
	return nil
}

// Overall is the mean of the three axis scores.
func (d *DFVPayload) Overall() int {
	return (d.Desirability + d.Feasibility + d.Viability) / 3
}

// NewPayload returns an empty payload of the stage's concrete type.
func NewPayload(phase Phase) (Payload, error) {
	switch phase {
	case PhaseDiscover:
		return &DiscoverPayload{}, nil
	case PhaseDefine:
		return &DefinePayload{}, nil
	case PhaseDevelop:
		return &DevelopPayload{}, nil
	case PhaseDeliver:
		return &DeliverPayload{}, nil
	case PhaseDFV:
		return &DFVPayload{}, nil
	default:
		return nil, ErrUnknownPhase
	}
}

func invalidPayload(phase Phase, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidPayload, phase, reason)
}
