package transport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rpggio/doublediamond/internal/domain/activity"
	"github.com/rpggio/doublediamond/internal/domain/diamond"
	"github.com/rpggio/doublediamond/internal/domain/export"
	"github.com/rpggio/doublediamond/internal/domain/project"
)

// DiamondService defines double diamond operations needed by HTTP.
type DiamondService interface {
	Create(ctx context.Context, userID string, req diamond.CreateRequest) (*diamond.Project, error)
	Get(ctx context.Context, userID, id string) (*diamond.Project, error)
	List(ctx context.Context, userID string) ([]diamond.ProjectSummary, error)
	Delete(ctx context.Context, userID, id string) error
	UpdateBriefing(ctx context.Context, userID, id string, patch diamond.BriefingPatch) (*diamond.Project, error)
	Select(ctx context.Context, userID, id string, req diamond.SelectionRequest) (*diamond.Project, error)
	Generate(ctx context.Context, userID, id string, phase diamond.Phase, locale string) (*diamond.Project, error)
}

// ExportService defines export operations needed by HTTP.
type ExportService interface {
	Export(ctx context.Context, userID, diamondID, targetName string) (*export.Result, error)
	Retry(ctx context.Context, userID, exportID string) (*export.Result, error)
	List(ctx context.Context, userID, diamondID string) ([]export.Export, error)
}

// ProjectService defines primary-model project reads needed by HTTP.
type ProjectService interface {
	List(ctx context.Context, userID string) ([]project.ProjectSummary, error)
	GetBundle(ctx context.Context, userID, id string) (*project.Bundle, error)
}

// ActivityService defines activity reads needed by HTTP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, userID string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Services contains all domain services needed by HTTP.
type Services struct {
	Diamonds DiamondService
	Exports  ExportService
	Projects ProjectService
	Activity ActivityService
}

// RequestRecorder counts handled requests.
type RequestRecorder interface {
	RecordRequest(method, route string, status int)
}

// Options configures optional server features.
type Options struct {
	// Auth installs the user-resolving middleware on API routes.
	Auth func(http.Handler) http.Handler
	// MCP, when set, is mounted at /mcp. It authenticates its own calls.
	MCP http.Handler
	// Metrics, when set, is served at MetricsPath without auth.
	Metrics     http.Handler
	MetricsPath string
	Recorder    RequestRecorder
	Logger      *slog.Logger
}

// Server wires HTTP handlers.
type Server struct {
	services Services
	logger   *slog.Logger
}

// NewServer creates an HTTP server router with middleware.
func NewServer(services Services, opts Options) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger, opts.Recorder))

	srv := &Server{services: services, logger: logger}

	r.Get("/health", srv.handleHealth)
	if opts.Metrics != nil {
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Method(http.MethodGet, path, opts.Metrics)
	}

	if opts.MCP != nil {
		r.Handle("/mcp", opts.MCP)
	}

	r.Group(func(r chi.Router) {
		if opts.Auth != nil {
			r.Use(opts.Auth)
		}

		r.Route("/double-diamond", func(r chi.Router) {
			r.Post("/", srv.handleCreate)
			r.Get("/", srv.handleList)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", srv.handleGet)
				r.Patch("/", srv.handleUpdateBriefing)
				r.Delete("/", srv.handleDelete)
				r.Post("/generate/{phase}", srv.handleGenerate)
				r.Put("/selections", srv.handleSelect)
				r.Post("/export", srv.handleExport)
				r.Get("/exports", srv.handleListExports)
				r.Get("/export/pdf", srv.handleDocument)
				r.Get("/activity", srv.handleActivity)
			})
		})

		r.Post("/exports/{exportID}/retry", srv.handleRetryExport)

		r.Get("/projects", srv.handleListProjects)
		r.Get("/projects/{id}", srv.handleGetProject)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// writeError logs unexpected failures and writes the mapped error body.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := MapError(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err,
		)
	}
	writeErrorBody(w, status, body)
}

func userID(r *http.Request) (string, error) {
	id, ok := UserFromContext(r.Context())
	if !ok || id == "" {
		return "", ErrUnauthorized
	}
	return id, nil
}
