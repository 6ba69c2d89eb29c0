package mcp

import (
	"github.com/rpggio/doublediamond/internal/domain/activity"
	"github.com/rpggio/doublediamond/internal/domain/diamond"
	"github.com/rpggio/doublediamond/internal/domain/export"
	"github.com/rpggio/doublediamond/internal/domain/project"
)

type CreateProjectParams struct {
	Name             string   `json:"name" jsonschema:"Project name"`
	Description      string   `json:"description,omitempty" jsonschema:"Short description"`
	Sector           string   `json:"sector,omitempty" jsonschema:"Target sector"`
	SuccessCase      string   `json:"success_case,omitempty" jsonschema:"Reference success case to learn from"`
	CustomCase       string   `json:"custom_case,omitempty" jsonschema:"Free-text case when no reference case fits"`
	CustomCaseURLs   []string `json:"custom_case_urls,omitempty" jsonschema:"Links supporting the custom case"`
	TargetAudience   string   `json:"target_audience,omitempty" jsonschema:"Who the product is for"`
	ProblemStatement string   `json:"problem_statement,omitempty" jsonschema:"The problem to solve"`
}

func (p CreateProjectParams) briefing() diamond.Briefing {
	return diamond.Briefing{
		Name:             p.Name,
		Description:      p.Description,
		Sector:           p.Sector,
		SuccessCase:      p.SuccessCase,
		CustomCase:       p.CustomCase,
		CustomCaseURLs:   p.CustomCaseURLs,
		TargetAudience:   p.TargetAudience,
		ProblemStatement: p.ProblemStatement,
	}
}

type ListProjectsParams struct{}

type GetProjectParams struct {
	ID string `json:"id" jsonschema:"Double diamond project ID"`
}

type UpdateBriefingParams struct {
	ID               string    `json:"id" jsonschema:"Double diamond project ID"`
	Name             *string   `json:"name,omitempty"`
	Description      *string   `json:"description,omitempty"`
	Sector           *string   `json:"sector,omitempty"`
	SuccessCase      *string   `json:"success_case,omitempty"`
	CustomCase       *string   `json:"custom_case,omitempty"`
	CustomCaseURLs   *[]string `json:"custom_case_urls,omitempty"`
	TargetAudience   *string   `json:"target_audience,omitempty"`
	ProblemStatement *string   `json:"problem_statement,omitempty"`
}

func (p UpdateBriefingParams) patch() diamond.BriefingPatch {
	return diamond.BriefingPatch{
		Name:             p.Name,
		Description:      p.Description,
		Sector:           p.Sector,
		SuccessCase:      p.SuccessCase,
		CustomCase:       p.CustomCase,
		CustomCaseURLs:   p.CustomCaseURLs,
		TargetAudience:   p.TargetAudience,
		ProblemStatement: p.ProblemStatement,
	}
}

type GeneratePhaseParams struct {
	ID     string `json:"id" jsonschema:"Double diamond project ID"`
	Phase  string `json:"phase" jsonschema:"discover, define, develop, deliver or dfv"`
	Locale string `json:"locale,omitempty" jsonschema:"Locale for generated text, e.g. en-US"`
}

type SelectParams struct {
	ID    string   `json:"id" jsonschema:"Double diamond project ID"`
	Phase string   `json:"phase" jsonschema:"define or develop"`
	POV   []string `json:"pov,omitempty" jsonschema:"POV statements to keep (define)"`
	HMW   []string `json:"hmw,omitempty" jsonschema:"HMW questions to keep (define)"`
	Ideas []string `json:"ideas,omitempty" jsonschema:"Idea titles to keep (develop)"`
}

type ExportProjectParams struct {
	ID          string `json:"id" jsonschema:"Double diamond project ID"`
	ProjectName string `json:"project_name,omitempty" jsonschema:"Name of the created project (defaults to the briefing name)"`
}

type ListExportsParams struct {
	ID string `json:"id" jsonschema:"Double diamond project ID"`
}

type GetExportedProjectParams struct {
	ID string `json:"id" jsonschema:"Primary project ID returned by export_project"`
}

type GetRecentActivityParams struct {
	ProjectID    string `json:"project_id,omitempty" jsonschema:"Filter by double diamond project"`
	Phase        string `json:"phase,omitempty" jsonschema:"Filter by phase"`
	ActivityType string `json:"activity_type,omitempty" jsonschema:"Filter by activity type"`
	Limit        int    `json:"limit,omitempty" jsonschema:"Maximum entries (default 50)"`
	Offset       int    `json:"offset,omitempty"`
}

type ProjectResult struct {
	Project *diamond.Project `json:"project"`
}

type ProjectListResult struct {
	Projects []diamond.ProjectSummary `json:"projects"`
}

type ExportResult struct {
	Export *export.Result `json:"export"`
}

type ExportListResult struct {
	Exports []export.Export `json:"exports"`
}

type BundleResult struct {
	Bundle *project.Bundle `json:"bundle"`
}

type ActivityResult struct {
	Entries []activity.ActivityEntry `json:"entries"`
}
