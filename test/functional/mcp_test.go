package functional_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/doublediamond/internal/testserver"
)

// bearerTransport adds an Authorization header to every request.
type bearerTransport struct {
	token string
	base  http.RoundTripper
}

func (b *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+b.token)
	return b.base.RoundTrip(req)
}

func connectHTTP(t *testing.T, ts *testserver.TestServer, token string) *sdkmcp.ClientSession {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	transport := &sdkmcp.StreamableClientTransport{
		Endpoint: ts.URL("/mcp"),
		HTTPClient: &http.Client{
			Transport: &bearerTransport{token: token, base: http.DefaultTransport},
		},
	}
	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, transport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func callTool(t *testing.T, session *sdkmcp.ClientSession, name string, args map[string]any, out any) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := session.CallTool(ctx, &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err, "CallTool %s failed", name)
	require.NotEmpty(t, result.Content, "Tool %s returned no content", name)
	textContent, ok := result.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok, "Tool %s returned no text content", name)
	require.False(t, result.IsError, "Tool %s returned error: %s", name, textContent.Text)
	if out != nil {
		require.NoError(t, json.Unmarshal([]byte(textContent.Text), out))
	}
}

type projectEnvelope struct {
	Project struct {
		ID                   string `json:"id"`
		CompletionPercentage int    `json:"completion_percentage"`
		ExportedProjectID    string `json:"exported_project_id"`
	} `json:"project"`
}

func TestFunctional_MCPOverHTTP(t *testing.T) {
	ts := testserver.New(t, "token", "user1")
	session := connectHTTP(t, ts, ts.Token)

	var created projectEnvelope
	callTool(t, session, "create_project", map[string]any{"name": "Meal kits"}, &created)
	require.NotEmpty(t, created.Project.ID)

	var progressed projectEnvelope
	for _, phase := range []string{"discover", "define", "develop", "deliver", "dfv"} {
		callTool(t, session, "generate_phase", map[string]any{"id": created.Project.ID, "phase": phase}, &progressed)
	}
	assert.Equal(t, 100, progressed.Project.CompletionPercentage)

	var exported struct {
		Export struct {
			ProjectID string `json:"project_id"`
		} `json:"export"`
	}
	callTool(t, session, "export_project", map[string]any{"id": created.Project.ID}, &exported)
	require.NotEmpty(t, exported.Export.ProjectID)

	// The REST API sees the same data for the same token.
	req, err := http.NewRequest(http.MethodGet, ts.URL("/projects/"+exported.Export.ProjectID), nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+ts.Token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestFunctional_MCPRejectsUnknownToken(t *testing.T) {
	ts := testserver.New(t, "token", "user1")
	session := connectHTTP(t, ts, "wrong")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := session.CallTool(ctx, &sdkmcp.CallToolParams{Name: "list_projects"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unauthorized")
}

func TestFunctional_MCPUsersAreIsolated(t *testing.T) {
	ts := testserver.New(t, "token", "user1")
	require.NoError(t, ts.AddAPIKey("token2", "user2"))

	owner := connectHTTP(t, ts, "token")
	other := connectHTTP(t, ts, "token2")

	var created projectEnvelope
	callTool(t, owner, "create_project", map[string]any{"name": "Private"}, &created)

	var list struct {
		Projects []json.RawMessage `json:"projects"`
	}
	callTool(t, other, "list_projects", nil, &list)
	assert.Empty(t, list.Projects)
}
