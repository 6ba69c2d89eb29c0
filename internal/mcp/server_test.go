package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/doublediamond/internal/domain/activity"
	"github.com/rpggio/doublediamond/internal/domain/diamond"
	"github.com/rpggio/doublediamond/internal/domain/export"
	"github.com/rpggio/doublediamond/internal/domain/project"
	"github.com/rpggio/doublediamond/internal/generator"
	"github.com/rpggio/doublediamond/internal/mcp"
	"github.com/rpggio/doublediamond/internal/sqlite"
)

func newServer(t *testing.T, mode string, auth bool) *sdkmcp.Server {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { _ = db.Close() })

	activitySvc := activity.NewService(sqlite.NewActivityRepository(db), nil)
	projectSvc := project.NewService(sqlite.NewProjectRepository(db), nil)
	diamondSvc := diamond.NewService(sqlite.NewDiamondRepository(db), generator.NewStub(0.1), activitySvc, nil, nil)
	exportSvc := export.NewService(sqlite.NewExportRepository(db), diamondSvc, projectSvc, activitySvc, nil, nil)

	return mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Diamonds: diamondSvc,
			Exports:  exportSvc,
			Projects: projectSvc,
			Activity: activitySvc,
		},
		Resolver:      sqlite.NewAPIKeyRepository(db),
		AuthEnabled:   auth,
		TransportMode: mode,
	})
}

func connect(t *testing.T, server *sdkmcp.Server) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = session.Close()
		_ = serverSession.Wait()
	})
	return session
}

func call(t *testing.T, session *sdkmcp.ClientSession, name string, args map[string]any) *sdkmcp.CallToolResult {
	t.Helper()
	result, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err, "CallTool %s failed", name)
	require.NotEmpty(t, result.Content, "tool %s returned no content", name)
	return result
}

func text(t *testing.T, result *sdkmcp.CallToolResult) string {
	t.Helper()
	for _, content := range result.Content {
		if tc, ok := content.(*sdkmcp.TextContent); ok {
			return tc.Text
		}
	}
	t.Fatal("no text content")
	return ""
}

func callOK(t *testing.T, session *sdkmcp.ClientSession, name string, args map[string]any, out any) {
	t.Helper()
	result := call(t, session, name, args)
	require.False(t, result.IsError, "tool %s returned error: %s", name, text(t, result))
	require.NoError(t, json.Unmarshal([]byte(text(t, result)), out))
}

type projectResult struct {
	Project diamond.Project `json:"project"`
}

func TestServer_ListsToolsAndDocs(t *testing.T) {
	session := connect(t, newServer(t, "stdio", false))
	ctx := context.Background()

	init := session.InitializeResult()
	require.NotNil(t, init)
	assert.Equal(t, "doublediamond", init.ServerInfo.Name)

	tools, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	names := make(map[string]bool)
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{
		"create_project", "list_projects", "get_project", "update_briefing",
		"generate_phase", "select", "export_project", "list_exports",
		"get_exported_project", "get_recent_activity",
	} {
		assert.True(t, names[want], "missing tool %s", want)
	}

	resources, err := session.ListResources(ctx, nil)
	require.NoError(t, err)
	require.Len(t, resources.Resources, 3)

	read, err := session.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: "doublediamond://docs/workflow"})
	require.NoError(t, err)
	require.Len(t, read.Contents, 1)
	assert.Contains(t, read.Contents[0].Text, "discover")
}

func TestServer_Workflow(t *testing.T) {
	session := connect(t, newServer(t, "stdio", false))

	var created projectResult
	callOK(t, session, "create_project", map[string]any{
		"name":            "Bike share",
		"target_audience": "commuters",
	}, &created)
	id := created.Project.ID
	require.NotEmpty(t, id)

	var got projectResult
	callOK(t, session, "generate_phase", map[string]any{"id": id, "phase": "discover", "locale": "en-US"}, &got)
	assert.True(t, got.Project.Discover.Completed())

	blocked := call(t, session, "generate_phase", map[string]any{"id": id, "phase": "develop"})
	assert.True(t, blocked.IsError)
	assert.Contains(t, text(t, blocked), "PREREQUISITE_NOT_MET")

	callOK(t, session, "generate_phase", map[string]any{"id": id, "phase": "define"}, &got)
	require.NotNil(t, got.Project.Define.Payload)
	hmw := got.Project.Define.Payload.HMWQuestions[0].Question

	callOK(t, session, "select", map[string]any{"id": id, "phase": "define", "hmw": []string{hmw}}, &got)
	assert.Equal(t, []string{hmw}, got.Project.Define.SelectedHMW)

	notReady := call(t, session, "export_project", map[string]any{"id": id})
	assert.True(t, notReady.IsError)
	assert.Contains(t, text(t, notReady), "NOT_READY")

	for _, phase := range []string{"develop", "deliver", "dfv"} {
		callOK(t, session, "generate_phase", map[string]any{"id": id, "phase": phase}, &got)
	}
	assert.Equal(t, 100, got.Project.CompletionPercentage)

	var exported struct {
		Export export.Result `json:"export"`
	}
	callOK(t, session, "export_project", map[string]any{"id": id, "project_name": "Bikes"}, &exported)
	require.NotEmpty(t, exported.Export.ProjectID)

	var bundle struct {
		Bundle project.Bundle `json:"bundle"`
	}
	callOK(t, session, "get_exported_project", map[string]any{"id": exported.Export.ProjectID}, &bundle)
	assert.Equal(t, "Bikes", bundle.Bundle.Project.Name)
	require.Len(t, bundle.Bundle.HMWs, 1)
	assert.Equal(t, hmw, bundle.Bundle.HMWs[0].Question)

	var exports struct {
		Exports []export.Export `json:"exports"`
	}
	callOK(t, session, "list_exports", map[string]any{"id": id}, &exports)
	require.Len(t, exports.Exports, 1)
	assert.Equal(t, export.StatusCompleted, exports.Exports[0].Status)

	var recent struct {
		Entries []activity.ActivityEntry `json:"entries"`
	}
	callOK(t, session, "get_recent_activity", map[string]any{
		"project_id":    id,
		"activity_type": string(activity.TypePhaseGenerated),
	}, &recent)
	assert.Len(t, recent.Entries, 5)

	var list struct {
		Projects []diamond.ProjectSummary `json:"projects"`
	}
	callOK(t, session, "list_projects", nil, &list)
	require.Len(t, list.Projects, 1)
	assert.True(t, list.Projects[0].Exported)
}

func TestServer_ToolErrors(t *testing.T) {
	session := connect(t, newServer(t, "stdio", false))

	missing := call(t, session, "get_project", map[string]any{"id": "nope"})
	assert.True(t, missing.IsError)
	assert.Contains(t, text(t, missing), "PROJECT_NOT_FOUND")

	unknown := call(t, session, "generate_phase", map[string]any{"id": "nope", "phase": "launch"})
	assert.True(t, unknown.IsError)
	assert.Contains(t, text(t, unknown), "UNKNOWN_PHASE")

	invalid := call(t, session, "create_project", map[string]any{"name": "  "})
	assert.True(t, invalid.IsError)
	assert.Contains(t, text(t, invalid), "INVALID_INPUT")
}

func TestServer_HTTPAuthRejectsMissingToken(t *testing.T) {
	session := connect(t, newServer(t, "http", true))

	_, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: "list_projects"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unauthorized")
}
