package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `doublediamond walks a product idea through the Double Diamond: discover, define, develop, deliver, then a DFV score.

Core concepts:
- Project: a briefing plus one slot per stage. Each stage is pending, in_progress or completed.
- Stage order: discover -> define -> develop -> deliver -> dfv. A stage can only be generated once the previous one is completed.
- Selections: after define, choose the POV and HMW statements to keep; after develop, choose ideas. Later stages build on the selection, or on everything when nothing is selected.
- Export: once dfv is completed, export_project turns the result into a primary project (empathy map, POVs, HMWs, ideas, assets).

Default workflow:
1) create_project with a briefing (name is required).
2) generate_phase phase=discover, then define, develop, deliver, dfv in order.
   - PREREQUISITE_NOT_MET tells you which stage is missing.
   - GENERATION_IN_PROGRESS means another call for the same stage is running; wait and call get_project.
   - GENERATION_FAILED leaves the project unchanged; retry the same call.
3) select between stages to narrow what feeds forward.
4) export_project, then get_exported_project with the returned project id.

Docs:
- doublediamond://docs/workflow
- doublediamond://docs/phases
- doublediamond://docs/errors
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "doublediamond://docs/workflow",
		Name:        "docs_workflow",
		Title:       "Double Diamond workflow",
		Description: "Stage order, selections and export in one page.",
		Content: `# Double Diamond workflow

## Stages

| Stage    | Requires  | Produces                                        |
|----------|-----------|-------------------------------------------------|
| discover | briefing  | empathy map, insights, user needs               |
| define   | discover  | POV statements, HMW questions                   |
| develop  | define    | ideas, cross-pollinated ideas                   |
| deliver  | develop   | MVP concept, logos, landing page, test plan     |
| dfv      | deliver   | desirability, feasibility, viability scores     |

Generating a stage again replaces its content. Later stages keep their content
but were generated from the old version; regenerate them if that matters.

## Selections

- define: ` + "`pov`" + ` and ` + "`hmw`" + ` hold statements copied from the define payload.
- develop: ` + "`ideas`" + ` holds idea titles.
- An empty selection means "use everything".
- Regenerating define or develop clears that stage's selection.

## Export

Export needs a completed dfv stage. The result names the new project id and the
stages that were carried over. A failed export can be retried with the same
export id; a retry never creates a second project.
`,
	},
	{
		URI:         "doublediamond://docs/phases",
		Name:        "docs_phases",
		Title:       "Stage payloads",
		Description: "Shape of each generated stage payload.",
		Content: `# Stage payloads

- discover: ` + "`empathy_map`" + ` {says, thinks, does, feels}, ` + "`pain_points`" + `, ` + "`insights`" + `, ` + "`user_needs`" + `.
- define: ` + "`pov_statements`" + ` {user, need, insight, statement}, ` + "`hmw_questions`" + ` {question, focus}.
- develop: ` + "`ideas`" + ` and ` + "`cross_pollinated_ideas`" + ` {title, description, category, inspiration}.
- deliver: ` + "`mvp_concept`" + `, ` + "`logo_suggestions`" + `, ` + "`landing_page`" + `, ` + "`social_copy`" + `, ` + "`test_plan`" + `.
- dfv: ` + "`desirability`" + `, ` + "`feasibility`" + ` and ` + "`viability`" + ` scores (0-100), per-axis ` + "`analysis`" + `, ` + "`recommendations`" + `, ` + "`next_steps`" + `.

Each generation records its cost; the project total is the sum.
`,
	},
	{
		URI:         "doublediamond://docs/errors",
		Name:        "docs_errors",
		Title:       "Tool error codes",
		Description: "Error codes returned by tools and how to recover.",
		Content: `# Error codes

- PROJECT_NOT_FOUND: the project id does not exist for this user.
- EXPORT_NOT_FOUND: the export id does not exist for this user.
- INVALID_INPUT: a required field is missing or malformed.
- UNKNOWN_PHASE: phase must be discover, define, develop, deliver or dfv.
- PREREQUISITE_NOT_MET: generate the missing stage first.
- GENERATION_IN_PROGRESS: the same stage is already generating.
- GENERATION_FAILED: the generator failed or returned an invalid payload; nothing was saved.
- NOT_SELECTABLE: selections only apply to define and develop.
- NOT_READY: export needs a completed dfv stage.
- EXPORT_FAILED: the export was recorded as failed; retry it.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
