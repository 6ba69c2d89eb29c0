package generator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rpggio/doublediamond/internal/domain/diamond"
)

var phaseInstructions = map[diamond.Phase]string{
	diamond.PhaseDiscover: `Research the problem space. Respond with JSON:
{"pain_points":[{"title","description","severity":1-5}],"insights":[{"title","description","source"}],
"user_needs":[string],"empathy_map":{"says":[],"thinks":[],"does":[],"feels":[]}}`,
	diamond.PhaseDefine: `Synthesize the research into problem framings. Respond with JSON:
{"pov_statements":[{"user","need","insight","statement"}],"hmw_questions":[{"question","focus"}]}`,
	diamond.PhaseDevelop: `Ideate solutions for the framed problems, including ideas borrowed from other industries. Respond with JSON:
{"ideas":[{"title","description","category","score":1-10}],"cross_pollinated_ideas":[{"title","description","category","inspiration":[]}]}`,
	diamond.PhaseDeliver: `Turn the strongest idea into launch material. Respond with JSON:
{"mvp_concept":{"name","tagline","description","core_features":[],"value_proposition"},
"logo_suggestions":[{"concept","colors":[],"style"}],
"landing_page":{"headline","subheadline","call_to_action","sections":[{"heading","body"}]},
"social_copy":[{"channel","copy"}],"test_plan":{"objective","methods":[],"metrics":[],"hypotheses":[]}}`,
	diamond.PhaseDFV: `Score the delivered concept for desirability, feasibility and viability from 0 to 100. Respond with JSON:
{"desirability":int,"feasibility":int,"viability":int,
"analysis":{"desirability":{"strengths":[],"concerns":[],"reasoning"},"feasibility":{...},"viability":{...}},
"feedback":string,"recommendations":[],"next_steps":[]}`,
}

// buildPrompt renders the instruction for a stage followed by the briefing
// and the prior-stage context as JSON.
func buildPrompt(gc diamond.GenerationContext) (string, error) {
	instruction, ok := phaseInstructions[gc.Phase]
	if !ok {
		return "", diamond.ErrUnknownPhase
	}

	contextJSON, err := json.MarshalIndent(gc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal context: %w", err)
	}

	var b strings.Builder
	b.WriteString("You are a design thinking facilitator running the ")
	b.WriteString(string(gc.Phase))
	b.WriteString(" stage of a Double Diamond process.\n\n")
	b.WriteString(instruction)
	b.WriteString("\n\n")
	if gc.Locale != "" {
		fmt.Fprintf(&b, "Write all text in the locale %q.\n\n", gc.Locale)
	}
	b.WriteString("Project context:\n")
	b.Write(contextJSON)
	b.WriteString("\n\nRespond ONLY with the JSON object, no additional text.")
	return b.String(), nil
}
