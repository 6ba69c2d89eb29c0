package generator

import (
	"context"
	"fmt"

	"github.com/rpggio/doublediamond/internal/domain/diamond"
)

// Stub produces deterministic content for every stage without leaving the
// process. It is the default provider for local runs and tests.
type Stub struct {
	cost float64
}

// NewStub returns a Stub that charges cost per call.
func NewStub(cost float64) *Stub {
	return &Stub{cost: cost}
}

// Generate returns canned content shaped by the briefing and prior stages.
func (s *Stub) Generate(ctx context.Context, gc diamond.GenerationContext) (*diamond.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	subject := gc.Briefing.Name
	if subject == "" {
		subject = "the product"
	}
	audience := gc.Briefing.TargetAudience
	if audience == "" {
		audience = "Users"
	}

	var payload diamond.Payload
	switch gc.Phase {
	case diamond.PhaseDiscover:
		payload = &diamond.DiscoverPayload{
			PainPoints: []diamond.PainPoint{
				{Title: "Slow onboarding", Description: fmt.Sprintf("%s take too long to get value from %s", audience, subject), Severity: 4},
				{Title: "Unclear pricing", Severity: 3},
			},
			Insights: []diamond.Insight{
				{Title: "Time is the main currency", Source: "interviews"},
			},
			UserNeeds: []string{"Get started in minutes", "Know the cost up front"},
			EmpathyMap: diamond.EmpathyMap{
				Says:   []string{"I don't have time for this"},
				Thinks: []string{"Is this worth it?"},
				Does:   []string{"Compares alternatives"},
				Feels:  []string{"Impatient"},
			},
		}
	case diamond.PhaseDefine:
		user := audience
		need := "to get started in minutes"
		if gc.Discover != nil && len(gc.Discover.UserNeeds) > 0 {
			need = gc.Discover.UserNeeds[0]
		}
		payload = &diamond.DefinePayload{
			POVStatements: []diamond.POVStatement{
				{User: user, Need: need, Insight: "time is the main currency", Statement: fmt.Sprintf("%s need %s because time is the main currency", user, need)},
				{User: user, Need: "pricing clarity", Insight: "surprises erode trust", Statement: fmt.Sprintf("%s need pricing clarity because surprises erode trust", user)},
			},
			HMWQuestions: []diamond.HMWQuestion{
				{Question: fmt.Sprintf("How might we make %s useful in the first five minutes?", subject), Focus: "onboarding"},
				{Question: "How might we make the cost obvious?", Focus: "pricing"},
			},
		}
	case diamond.PhaseDevelop:
		focus := "onboarding"
		if gc.Define != nil && len(gc.Define.HMWQuestions) > 0 && gc.Define.HMWQuestions[0].Focus != "" {
			focus = gc.Define.HMWQuestions[0].Focus
		}
		payload = &diamond.DevelopPayload{
			Ideas: []diamond.Idea{
				{Title: "Guided first run", Description: "A three-step walkthrough", Category: focus, Score: 8},
				{Title: "Price calculator", Description: "Estimate cost before signing up", Category: "pricing", Score: 6},
			},
			CrossPollinatedIdeas: []diamond.Idea{
				{Title: "Game-style tutorial", Description: "Borrowed from mobile games", Category: focus, Inspiration: []string{"games"}, Score: 7},
			},
		}
	case diamond.PhaseDeliver:
		name := subject + " Quickstart"
		if gc.Develop != nil && len(gc.Develop.Ideas) > 0 {
			name = gc.Develop.Ideas[0].Title
		}
		payload = &diamond.DeliverPayload{
			MVPConcept: diamond.MVPConcept{
				Name:          name,
				Tagline:       "Value in five minutes",
				Description:   fmt.Sprintf("A minimal %s that proves the first-run experience", subject),
				CoreFeatures:  []string{"Walkthrough", "Sample data"},
				ValueProposal: "Less waiting, more doing",
			},
			LogoSuggestions: []diamond.LogoSuggestion{
				{Concept: "A stopwatch folded into a check mark", Colors: []string{"#1F6FEB", "#FFFFFF"}, Style: "flat"},
			},
			LandingPage: diamond.LandingPage{
				Headline:     "Start in minutes",
				CallToAction: "Try it free",
				Sections:     []diamond.LandingSection{{Heading: "How it works", Body: "Three steps."}},
			},
			SocialCopy: []diamond.SocialPost{{Channel: "linkedin", Copy: "We made getting started boring. In a good way."}},
			TestPlan: diamond.TestPlan{
				Objective:  "Validate that new users reach value in five minutes",
				Methods:    []string{"Moderated usability test"},
				Metrics:    []string{"Time to first value"},
				Hypotheses: []string{"Guided setup halves time to value"},
			},
		}
	case diamond.PhaseDFV:
		payload = &diamond.DFVPayload{
			Desirability: 78,
			Feasibility:  85,
			Viability:    64,
			Analysis: diamond.DFVAnalysis{
				Desirability: diamond.AxisAnalysis{Strengths: []string{"Addresses the top pain point"}, Concerns: []string{"Novelty may fade"}, Reasoning: "Strong pull from interviews"},
				Feasibility:  diamond.AxisAnalysis{Strengths: []string{"Existing components"}, Concerns: []string{}, Reasoning: "Small build"},
				Viability:    diamond.AxisAnalysis{Strengths: []string{"Reduces churn"}, Concerns: []string{"Revenue impact unproven"}, Reasoning: "Indirect monetization"},
			},
			Feedback:        "Promising; validate the revenue story early",
			Recommendations: []string{"Run a pricing test alongside the MVP"},
			NextSteps:       []string{"Recruit five users for the usability test"},
		}
	default:
		return nil, diamond.ErrUnknownPhase
	}

	return &diamond.Result{Payload: payload, Cost: s.cost}, nil
}
