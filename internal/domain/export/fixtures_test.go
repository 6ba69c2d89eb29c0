package export_test

import (
	"time"

	"github.com/rpggio/doublediamond/internal/domain/diamond"
)

// scoredProject returns a double diamond project with every stage completed.
func scoredProject() *diamond.Project {
	at := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	completed := diamond.PhaseState{Status: diamond.StatusCompleted, GeneratedAt: &at}
	p := &diamond.Project{
		ID:       "dd1",
		UserID:   "user1",
		Briefing: diamond.Briefing{Name: "Coffee", ProblemStatement: "Queues are long"},
		Discover: diamond.DiscoverState{PhaseState: completed, Payload: &diamond.DiscoverPayload{
			PainPoints: []diamond.PainPoint{{Title: "Long queues", Description: "20 minute waits", Severity: 4}},
			Insights:   []diamond.Insight{{Title: "Mornings peak"}},
			UserNeeds:  []string{"Order ahead"},
			EmpathyMap: diamond.EmpathyMap{Says: []string{"I'm late"}, Feels: []string{"Stressed"}},
		}},
		Define: diamond.DefineState{PhaseState: completed, Payload: &diamond.DefinePayload{
			POVStatements: []diamond.POVStatement{
				{User: "Commuter", Need: "coffee fast", Statement: "Commuters need coffee fast"},
				{User: "Barista", Need: "steady flow", Statement: "Baristas need a steady flow"},
			},
			HMWQuestions: []diamond.HMWQuestion{{Question: "How might we remove the queue?"}},
		}},
		Develop: diamond.DevelopState{PhaseState: completed, Payload: &diamond.DevelopPayload{
			Ideas:                []diamond.Idea{{Title: "Pre-order app", Score: 8}, {Title: "Express lane"}},
			CrossPollinatedIdeas: []diamond.Idea{{Title: "Airline-style boarding groups"}},
		}},
		Deliver: diamond.DeliverState{PhaseState: completed, Payload: &diamond.DeliverPayload{
			MVPConcept:      diamond.MVPConcept{Name: "QueueLess", Description: "Order ahead"},
			LogoSuggestions: []diamond.LogoSuggestion{{Concept: "Cup"}, {Concept: "Clock"}},
			LandingPage:     diamond.LandingPage{Headline: "Skip the line"},
			SocialCopy:      []diamond.SocialPost{{Channel: "x", Copy: "No more queues"}},
			TestPlan:        diamond.TestPlan{Objective: "Validate demand"},
		}},
		DFV: diamond.DFVState{PhaseState: completed, Payload: &diamond.DFVPayload{
			Desirability: 80, Feasibility: 70, Viability: 60,
		}},
		GenerationCount: 5,
		TotalCost:       1.25,
		CreatedAt:       at,
		UpdatedAt:       at,
	}
	p.Refresh()
	return p
}
