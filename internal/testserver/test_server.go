package testserver

import (
	"context"
	"net/http/httptest"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/doublediamond/internal/domain/activity"
	"github.com/rpggio/doublediamond/internal/domain/diamond"
	"github.com/rpggio/doublediamond/internal/domain/export"
	"github.com/rpggio/doublediamond/internal/domain/project"
	"github.com/rpggio/doublediamond/internal/generator"
	"github.com/rpggio/doublediamond/internal/mcp"
	"github.com/rpggio/doublediamond/internal/metrics"
	"github.com/rpggio/doublediamond/internal/sqlite"
	"github.com/rpggio/doublediamond/internal/transport"
)

// Generation cost reported by the stub generator for every call.
const StubCost = 0.25

type TestServer struct {
	Server  *httptest.Server
	DB      *sqlite.DB
	MCP     *sdkmcp.Server
	Metrics *metrics.Metrics
	Token   string
	UserID  string

	apiKeys *sqlite.APIKeyRepository
}

// New starts an HTTP server over an in-memory database with the stub
// generator. Requests must carry token as a bearer token.
func New(t *testing.T, token, userID string) *TestServer {
	return NewWithGenerator(t, token, userID, generator.NewStub(StubCost))
}

// NewWithGenerator is New with a caller-supplied generator.
func NewWithGenerator(t *testing.T, token, userID string, gen diamond.Generator) *TestServer {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	diamondRepo := sqlite.NewDiamondRepository(db)
	projectRepo := sqlite.NewProjectRepository(db)
	exportRepo := sqlite.NewExportRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)
	apiKeys := sqlite.NewAPIKeyRepository(db)

	m := metrics.New()

	activitySvc := activity.NewService(activityRepo, nil)
	projectSvc := project.NewService(projectRepo, nil)
	diamondSvc := diamond.NewService(diamondRepo, gen, activitySvc, m, nil)
	exportSvc := export.NewService(exportRepo, diamondSvc, projectSvc, activitySvc, m, nil)

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Diamonds: diamondSvc,
			Exports:  exportSvc,
			Projects: projectSvc,
			Activity: activitySvc,
		},
		Resolver:      apiKeys,
		AuthEnabled:   true,
		TransportMode: "http",
	})

	router := transport.NewServer(transport.Services{
		Diamonds: diamondSvc,
		Exports:  exportSvc,
		Projects: projectSvc,
		Activity: activitySvc,
	}, transport.Options{
		Auth:     transport.AuthMiddleware(apiKeys),
		MCP:      mcp.HTTPHandler(mcpServer),
		Metrics:  m.Handler(),
		Recorder: m,
	})
	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:  server,
		DB:      db,
		MCP:     mcpServer,
		Metrics: m,
		Token:   token,
		UserID:  userID,
		apiKeys: apiKeys,
	}

	require.NoError(t, ts.AddAPIKey(token, userID))

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}

// AddAPIKey registers another bearer token.
func (ts *TestServer) AddAPIKey(token, userID string) error {
	return ts.apiKeys.Add(context.Background(), token, userID, "test")
}

// URL joins path onto the server base URL.
func (ts *TestServer) URL(path string) string {
	return ts.Server.URL + path
}
