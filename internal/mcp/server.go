package mcp

import (
	"context"
	"log/slog"
	"net/http"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/doublediamond/internal/domain/activity"
	"github.com/rpggio/doublediamond/internal/domain/diamond"
	"github.com/rpggio/doublediamond/internal/domain/export"
	"github.com/rpggio/doublediamond/internal/domain/project"
)

// DiamondService defines double diamond operations needed by MCP.
type DiamondService interface {
	Create(ctx context.Context, userID string, req diamond.CreateRequest) (*diamond.Project, error)
	Get(ctx context.Context, userID, id string) (*diamond.Project, error)
	List(ctx context.Context, userID string) ([]diamond.ProjectSummary, error)
	UpdateBriefing(ctx context.Context, userID, id string, patch diamond.BriefingPatch) (*diamond.Project, error)
	Select(ctx context.Context, userID, id string, req diamond.SelectionRequest) (*diamond.Project, error)
	Generate(ctx context.Context, userID, id string, phase diamond.Phase, locale string) (*diamond.Project, error)
}

// ExportService defines export operations needed by MCP.
type ExportService interface {
	Export(ctx context.Context, userID, diamondID, targetName string) (*export.Result, error)
	List(ctx context.Context, userID, diamondID string) ([]export.Export, error)
}

// ProjectService defines primary-model project reads needed by MCP.
type ProjectService interface {
	GetBundle(ctx context.Context, userID, id string) (*project.Bundle, error)
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, userID string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Diamonds DiamondService
	Exports  ExportService
	Projects ProjectService
	Activity ActivityService
}

// Config contains server configuration.
type Config struct {
	Services      Services
	Resolver      UserResolver
	AuthEnabled   bool
	DefaultUser   string
	TransportMode string // "stdio" or "http"
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	defaultUser := cfg.DefaultUser
	if defaultUser == "" {
		defaultUser = "local"
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "doublediamond",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       logger,
	})

	registerDocResources(server)

	// Stdio is local-only and never authenticates.
	if cfg.TransportMode != "stdio" && cfg.AuthEnabled {
		server.AddReceivingMiddleware(authMiddleware(cfg.Resolver))
	} else {
		server.AddReceivingMiddleware(noAuthMiddleware(defaultUser))
	}
	server.AddReceivingMiddleware(trafficLoggingMiddleware(logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(logger, "outbound"))

	registerTools(server, cfg.Services)

	return server
}

// HTTPHandler serves server over the streamable HTTP transport.
func HTTPHandler(server *sdkmcp.Server) http.Handler {
	return sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server {
		return server
	}, nil)
}
