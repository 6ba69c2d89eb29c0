package mcp

import (
	"context"
	"encoding/json"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/doublediamond/internal/domain/activity"
	"github.com/rpggio/doublediamond/internal/domain/diamond"
	"github.com/rpggio/doublediamond/internal/domain/export"
)

func registerTools(server *sdkmcp.Server, services Services) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_project",
		Description: "Create a double diamond project from a briefing. Every phase starts pending.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, args CreateProjectParams) (*sdkmcp.CallToolResult, any, error) {
		proj, err := services.Diamonds.Create(ctx, getUserID(ctx), diamond.CreateRequest{Briefing: args.briefing()})
		if err != nil {
			return nil, nil, toolError(err)
		}
		return jsonResult(ProjectResult{Project: proj})
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List double diamond projects with their progress",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ ListProjectsParams) (*sdkmcp.CallToolResult, any, error) {
		list, err := services.Diamonds.List(ctx, getUserID(ctx))
		if err != nil {
			return nil, nil, toolError(err)
		}
		if list == nil {
			list = []diamond.ProjectSummary{}
		}
		return jsonResult(ProjectListResult{Projects: list})
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_project",
		Description: "Get a double diamond project with phase statuses, generated content, selections and progress",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, args GetProjectParams) (*sdkmcp.CallToolResult, any, error) {
		proj, err := services.Diamonds.Get(ctx, getUserID(ctx), args.ID)
		if err != nil {
			return nil, nil, toolError(err)
		}
		return jsonResult(ProjectResult{Project: proj})
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_briefing",
		Description: "Update briefing fields. Omitted fields are unchanged; phase statuses are never touched.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, args UpdateBriefingParams) (*sdkmcp.CallToolResult, any, error) {
		proj, err := services.Diamonds.UpdateBriefing(ctx, getUserID(ctx), args.ID, args.patch())
		if err != nil {
			return nil, nil, toolError(err)
		}
		return jsonResult(ProjectResult{Project: proj})
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "generate_phase",
		Description: "Generate content for one phase. Each phase requires the previous one to be completed; dfv requires deliver.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, args GeneratePhaseParams) (*sdkmcp.CallToolResult, any, error) {
		phase, err := diamond.ParsePhase(args.Phase)
		if err != nil {
			return nil, nil, toolError(err)
		}
		proj, err := services.Diamonds.Generate(context.WithoutCancel(ctx), getUserID(ctx), args.ID, phase, args.Locale)
		if err != nil {
			return nil, nil, toolError(err)
		}
		return jsonResult(ProjectResult{Project: proj})
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "select",
		Description: "Choose which POV/HMW statements (define) or ideas (develop) later phases build on",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, args SelectParams) (*sdkmcp.CallToolResult, any, error) {
		phase, err := diamond.ParsePhase(args.Phase)
		if err != nil {
			return nil, nil, toolError(err)
		}
		proj, err := services.Diamonds.Select(ctx, getUserID(ctx), args.ID, diamond.SelectionRequest{
			Phase: phase,
			POV:   args.POV,
			HMW:   args.HMW,
			Ideas: args.Ideas,
		})
		if err != nil {
			return nil, nil, toolError(err)
		}
		return jsonResult(ProjectResult{Project: proj})
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "export_project",
		Description: "Export a scored project into a new primary project. Requires dfv to be completed.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, args ExportProjectParams) (*sdkmcp.CallToolResult, any, error) {
		res, err := services.Exports.Export(ctx, getUserID(ctx), args.ID, args.ProjectName)
		if err != nil {
			return nil, nil, toolError(err)
		}
		return jsonResult(ExportResult{Export: res})
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_exports",
		Description: "List export attempts of a double diamond project, newest first",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, args ListExportsParams) (*sdkmcp.CallToolResult, any, error) {
		list, err := services.Exports.List(ctx, getUserID(ctx), args.ID)
		if err != nil {
			return nil, nil, toolError(err)
		}
		if list == nil {
			list = []export.Export{}
		}
		return jsonResult(ExportListResult{Exports: list})
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_exported_project",
		Description: "Get a primary project created by export_project, with its empathy entries, POVs, HMWs, ideas and assets",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, args GetExportedProjectParams) (*sdkmcp.CallToolResult, any, error) {
		bundle, err := services.Projects.GetBundle(ctx, getUserID(ctx), args.ID)
		if err != nil {
			return nil, nil, toolError(err)
		}
		return jsonResult(BundleResult{Bundle: bundle})
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_recent_activity",
		Description: "List recent generation, selection and export events",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, args GetRecentActivityParams) (*sdkmcp.CallToolResult, any, error) {
		opts := activity.ListActivityOptions{
			ProjectID: args.ProjectID,
			Phase:     args.Phase,
			Limit:     args.Limit,
			Offset:    args.Offset,
		}
		if args.ActivityType != "" {
			typ := activity.ActivityType(args.ActivityType)
			opts.ActivityType = &typ
		}
		entries, err := services.Activity.GetRecentActivity(ctx, getUserID(ctx), opts)
		if err != nil {
			return nil, nil, toolError(err)
		}
		if entries == nil {
			entries = []activity.ActivityEntry{}
		}
		return jsonResult(ActivityResult{Entries: entries})
	})
}

// jsonResult returns v as the tool's text content.
func jsonResult(v any) (*sdkmcp.CallToolResult, any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, nil, err
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil, nil
}
