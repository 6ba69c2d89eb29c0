package transport

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"text/template"

	"github.com/go-chi/chi/v5"

	"github.com/rpggio/doublediamond/internal/domain/diamond"
)

var documentTemplate = template.Must(template.New("document").Funcs(template.FuncMap{
	"join": strings.Join,
}).Parse(`# {{.Briefing.Name}}
{{with .Briefing.Description}}
{{.}}
{{end}}
Progress: {{.CompletionPercentage}}% (current phase: {{.CurrentPhase}})

## Briefing
{{with .Briefing.Sector}}- Sector: {{.}}
{{end}}{{with .Briefing.TargetAudience}}- Target audience: {{.}}
{{end}}{{with .Briefing.ProblemStatement}}- Problem: {{.}}
{{end}}{{with .Briefing.SuccessCase}}- Success case: {{.}}
{{end}}{{with .Briefing.CustomCase}}- Custom case: {{.}}
{{end}}
## Discover ({{.Discover.Status}})
{{with .Discover.Payload}}{{range .PainPoints}}- Pain: {{.Title}}{{with .Description}}. {{.}}{{end}}
{{end}}{{range .Insights}}- Insight: {{.Title}}{{with .Description}}. {{.}}{{end}}
{{end}}{{range .UserNeeds}}- Need: {{.}}
{{end}}{{end}}
## Define ({{.Define.Status}})
{{with .Define.Selected}}{{range .POVStatements}}- POV: {{.Statement}}
{{end}}{{range .HMWQuestions}}- HMW: {{.Question}}
{{end}}{{end}}
## Develop ({{.Develop.Status}})
{{with .Develop.Selected}}{{range .Ideas}}- {{.Title}}{{with .Description}}: {{.}}{{end}}
{{end}}{{range .CrossPollinatedIdeas}}- {{.Title}} (cross-pollinated){{with .Description}}: {{.}}{{end}}
{{end}}{{end}}
## Deliver ({{.Deliver.Status}})
{{with .Deliver.Payload}}### {{.MVPConcept.Name}}
{{with .MVPConcept.Tagline}}_{{.}}_
{{end}}
{{.MVPConcept.Description}}
{{with .MVPConcept.CoreFeatures}}
Core features: {{join . ", "}}
{{end}}
Test plan: {{.TestPlan.Objective}}
{{end}}
## DFV ({{.DFV.Status}})
{{with .DFV.Payload}}- Desirability: {{.Desirability}}
- Feasibility: {{.Feasibility}}
- Viability: {{.Viability}}
- Overall: {{.Overall}}
{{with .Feedback}}
{{.}}
{{end}}{{range .Recommendations}}- Recommendation: {{.}}
{{end}}{{range .NextSteps}}- Next step: {{.}}
{{end}}{{end}}`))

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// RenderDocument writes a printable Markdown summary of the project.
func RenderDocument(proj *diamond.Project) (string, error) {
	var b strings.Builder
	if err := documentTemplate.Execute(&b, proj); err != nil {
		return "", fmt.Errorf("render document: %w", err)
	}
	return b.String(), nil
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	proj, err := s.services.Diamonds.Get(r.Context(), uid, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	doc, err := RenderDocument(proj)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	name := strings.Trim(unsafeFilename.ReplaceAllString(proj.Briefing.Name, "-"), "-")
	if name == "" {
		name = proj.ID
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="%s.md"`, name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}
