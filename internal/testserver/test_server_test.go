package testserver_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/doublediamond/internal/domain/diamond"
	"github.com/rpggio/doublediamond/internal/domain/project"
	"github.com/rpggio/doublediamond/internal/testserver"
)

type client struct {
	t     *testing.T
	ts    *testserver.TestServer
	token string
}

func (c *client) do(method, path string, body any) (int, []byte) {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, c.ts.URL(path), reader)
	require.NoError(c.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.ts.Server.Client().Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp.StatusCode, data
}

func (c *client) project(method, path string, body any, wantStatus int) diamond.Project {
	c.t.Helper()
	status, data := c.do(method, path, body)
	require.Equal(c.t, wantStatus, status, string(data))
	var proj diamond.Project
	require.NoError(c.t, json.Unmarshal(data, &proj))
	return proj
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Phase   string `json:"phase"`
		Missing string `json:"missing"`
	} `json:"error"`
}

type exportResponse struct {
	Success   bool     `json:"success"`
	ProjectID string   `json:"projectId"`
	ExportID  string   `json:"exportId"`
	Phases    []string `json:"phases"`
	Code      string   `json:"code"`
}

func TestServer_FullJourney(t *testing.T) {
	ts := testserver.New(t, "token-1", "user-1")
	c := &client{t: t, ts: ts, token: ts.Token}

	created := c.project(http.MethodPost, "/double-diamond", map[string]any{
		"name":             "Coffee subscription",
		"sector":           "food",
		"targetAudience":   "remote workers",
		"problemStatement": "Good coffee at home is hard",
	}, http.StatusCreated)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, diamond.PhaseDiscover, created.CurrentPhase)
	assert.Equal(t, 0, created.CompletionPercentage)
	base := "/double-diamond/" + created.ID

	// Develop before define is rejected and changes nothing.
	c.project(http.MethodPost, base+"/generate/discover", map[string]any{"locale": "en-US"}, http.StatusOK)
	status, data := c.do(http.MethodPost, base+"/generate/develop", nil)
	require.Equal(t, http.StatusConflict, status, string(data))
	var prereq errorResponse
	require.NoError(t, json.Unmarshal(data, &prereq))
	assert.Equal(t, "PREREQUISITE_NOT_MET", prereq.Error.Code)
	assert.Equal(t, "develop", prereq.Error.Phase)
	assert.Equal(t, "define", prereq.Error.Missing)

	defined := c.project(http.MethodPost, base+"/generate/define", nil, http.StatusOK)
	require.NotNil(t, defined.Define.Payload)
	require.NotEmpty(t, defined.Define.Payload.POVStatements)
	assert.Equal(t, 40, defined.CompletionPercentage)

	pov := defined.Define.Payload.POVStatements[0].Statement
	selected := c.project(http.MethodPut, base+"/selections", map[string]any{
		"phase": "define",
		"pov":   []string{pov},
	}, http.StatusOK)
	assert.Equal(t, []string{pov}, selected.Define.SelectedPOV)

	for _, phase := range []string{"develop", "deliver", "dfv"} {
		c.project(http.MethodPost, base+"/generate/"+phase, nil, http.StatusOK)
	}

	scored := c.project(http.MethodGet, base, nil, http.StatusOK)
	assert.Equal(t, 100, scored.CompletionPercentage)
	assert.True(t, scored.IsCompleted)
	assert.EqualValues(t, 5, scored.GenerationCount)
	assert.InDelta(t, 5*testserver.StubCost, scored.TotalCost, 1e-9)
	require.NotNil(t, scored.DFV.Payload)

	status, data = c.do(http.MethodPost, base+"/export", map[string]any{"projectName": "Coffee club"})
	require.Equal(t, http.StatusOK, status, string(data))
	var exported exportResponse
	require.NoError(t, json.Unmarshal(data, &exported))
	assert.True(t, exported.Success)
	require.NotEmpty(t, exported.ProjectID)
	require.NotEmpty(t, exported.ExportID)
	assert.Equal(t, []string{"discover", "define", "develop", "deliver", "dfv"}, exported.Phases)

	status, data = c.do(http.MethodPost, "/exports/"+exported.ExportID+"/retry", nil)
	require.Equal(t, http.StatusOK, status, string(data))
	var retried exportResponse
	require.NoError(t, json.Unmarshal(data, &retried))
	assert.Equal(t, exported.ProjectID, retried.ProjectID)

	status, data = c.do(http.MethodGet, "/projects/"+exported.ProjectID, nil)
	require.Equal(t, http.StatusOK, status, string(data))
	var bundle project.Bundle
	require.NoError(t, json.Unmarshal(data, &bundle))
	assert.Equal(t, "Coffee club", bundle.Project.Name)
	require.Len(t, bundle.POVs, 1)
	assert.Equal(t, pov, bundle.POVs[0].Statement)
	assert.NotEmpty(t, bundle.Empathy)
	assert.NotEmpty(t, bundle.Ideas)
	assert.NotEmpty(t, bundle.Assets)

	linked := c.project(http.MethodGet, base, nil, http.StatusOK)
	require.NotNil(t, linked.ExportedProjectID)
	assert.Equal(t, exported.ProjectID, *linked.ExportedProjectID)

	status, data = c.do(http.MethodGet, base+"/export/pdf", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(data), "Coffee subscription")

	status, data = c.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, strings.Contains(string(data), "dd_generations_total"))
}

func TestServer_ExportBeforeScoring(t *testing.T) {
	ts := testserver.New(t, "token-1", "user-1")
	c := &client{t: t, ts: ts, token: ts.Token}

	created := c.project(http.MethodPost, "/double-diamond", map[string]any{"name": "Early"}, http.StatusCreated)

	status, data := c.do(http.MethodPost, "/double-diamond/"+created.ID+"/export", nil)
	require.Equal(t, http.StatusConflict, status, string(data))
	var body exportResponse
	require.NoError(t, json.Unmarshal(data, &body))
	assert.False(t, body.Success)
	assert.Equal(t, "NOT_READY", body.Code)
}

func TestServer_RequiresToken(t *testing.T) {
	ts := testserver.New(t, "token-1", "user-1")

	anonymous := &client{t: t, ts: ts}
	status, _ := anonymous.do(http.MethodGet, "/double-diamond", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	wrong := &client{t: t, ts: ts, token: "nope"}
	status, _ = wrong.do(http.MethodGet, "/double-diamond", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = anonymous.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestServer_UsersAreIsolated(t *testing.T) {
	ts := testserver.New(t, "token-1", "user-1")
	require.NoError(t, ts.AddAPIKey("token-2", "user-2"))

	owner := &client{t: t, ts: ts, token: "token-1"}
	other := &client{t: t, ts: ts, token: "token-2"}

	created := owner.project(http.MethodPost, "/double-diamond", map[string]any{"name": "Mine"}, http.StatusCreated)

	status, _ := other.do(http.MethodGet, "/double-diamond/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = other.do(http.MethodPost, "/double-diamond/"+created.ID+"/generate/discover", nil)
	assert.Equal(t, http.StatusNotFound, status)
}
