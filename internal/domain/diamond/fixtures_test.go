package diamond_test

import (
	"time"

	"github.com/rpggio/doublediamond/internal/domain/diamond"
)

func discoverPayload() *diamond.DiscoverPayload {
	return &diamond.DiscoverPayload{
		PainPoints: []diamond.PainPoint{{Title: "Long queues", Description: "Customers wait 20 minutes", Severity: 4}},
		Insights:   []diamond.Insight{{Title: "Mornings peak", Source: "interviews"}},
		UserNeeds:  []string{"Order ahead"},
		EmpathyMap: diamond.EmpathyMap{Says: []string{"I'm late"}, Feels: []string{"Stressed"}},
	}
}

func definePayload() *diamond.DefinePayload {
	return &diamond.DefinePayload{
		POVStatements: []diamond.POVStatement{
			{User: "Commuter", Need: "coffee fast", Insight: "mornings peak", Statement: "Commuters need coffee fast"},
			{User: "Barista", Need: "steady flow", Insight: "rush hour", Statement: "Baristas need a steady flow"},
		},
		HMWQuestions: []diamond.HMWQuestion{
			{Question: "How might we remove the queue?"},
			{Question: "How might we spread demand?"},
		},
	}
}

func developPayload() *diamond.DevelopPayload {
	return &diamond.DevelopPayload{
		Ideas:                []diamond.Idea{{Title: "Pre-order app"}, {Title: "Express lane"}},
		CrossPollinatedIdeas: []diamond.Idea{{Title: "Airline-style boarding groups", Inspiration: []string{"airlines"}}},
	}
}

func deliverPayload() *diamond.DeliverPayload {
	return &diamond.DeliverPayload{
		MVPConcept:  diamond.MVPConcept{Name: "QueueLess", Description: "Order ahead and skip the line"},
		LandingPage: diamond.LandingPage{Headline: "Skip the line"},
		TestPlan:    diamond.TestPlan{Objective: "Validate pre-order demand"},
	}
}

func dfvPayload() *diamond.DFVPayload {
	return &diamond.DFVPayload{
		Desirability:    80,
		Feasibility:     70,
		Viability:       60,
		Recommendations: []string{"Pilot in one store"},
		NextSteps:       []string{"Build clickable prototype"},
	}
}

func payloadFor(phase diamond.Phase) diamond.Payload {
	switch phase {
	case diamond.PhaseDiscover:
		return discoverPayload()
	case diamond.PhaseDefine:
		return definePayload()
	case diamond.PhaseDevelop:
		return developPayload()
	case diamond.PhaseDeliver:
		return deliverPayload()
	default:
		return dfvPayload()
	}
}

// newProject returns a project whose first n stages are completed with content.
func newProject(n int) *diamond.Project {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	p := &diamond.Project{
		ID:        "dd1",
		UserID:    "user1",
		Briefing:  diamond.Briefing{Name: "Coffee", ProblemStatement: "Queues are long"},
		CreatedAt: at,
		UpdatedAt: at,
	}
	for i, phase := range diamond.Stages {
		st := p.State(phase)
		if i >= n {
			st.Status = diamond.StatusPending
			continue
		}
		st.Status = diamond.StatusCompleted
		st.GeneratedAt = &at
		switch v := payloadFor(phase).(type) {
		case *diamond.DiscoverPayload:
			p.Discover.Payload = v
		case *diamond.DefinePayload:
			p.Define.Payload = v
		case *diamond.DevelopPayload:
			p.Develop.Payload = v
		case *diamond.DeliverPayload:
			p.Deliver.Payload = v
		case *diamond.DFVPayload:
			p.DFV.Payload = v
		}
	}
	p.Refresh()
	return p
}
