package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/doublediamond/internal/config"
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

const usage = `usage:
  doublediamond                       run the server
  doublediamond apikey <user> [desc]  create a bearer token for user`

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == "stdio" {
		logWriter = os.Stderr
	}
	if cfg.Log.File != "" {
		fileWriter, file, err := newLogFileWriter(cfg.Log.File)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer file.Close()
			logWriter = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		logger.Error("failed to prepare database path", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	apiKeys := sqlite.NewAPIKeyRepository(db)

	if len(os.Args) > 1 {
		if err := runCommand(os.Args[1:], apiKeys); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		return
	}

	gen, err := generator.New(cfg.Generator, logger)
	if err != nil {
		logger.Error("failed to create generator", "error", err)
		os.Exit(1)
	}

	m := metrics.New()

	activitySvc := activity.NewService(sqlite.NewActivityRepository(db), logger)
	projectSvc := project.NewService(sqlite.NewProjectRepository(db), logger)
	diamondSvc := diamond.NewService(sqlite.NewDiamondRepository(db), gen, activitySvc, m, logger)
	exportSvc := export.NewService(sqlite.NewExportRepository(db), diamondSvc, projectSvc, activitySvc, m, logger)

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Diamonds: diamondSvc,
			Exports:  exportSvc,
			Projects: projectSvc,
			Activity: activitySvc,
		},
		Resolver:      apiKeys,
		AuthEnabled:   cfg.Auth.Enabled,
		DefaultUser:   cfg.Auth.DefaultUser,
		TransportMode: cfg.Transport.Mode,
		Logger:        logger,
	})

	logger.Info("generator ready", "provider", cfg.Generator.Provider, "model", cfg.Generator.Model)

	// Branch based on transport mode
	if cfg.Transport.Mode == "stdio" {
		runStdioMode(logger, mcpServer)
		return
	}

	auth := transport.StaticUserMiddleware(cfg.Auth.DefaultUser)
	if cfg.Auth.Enabled {
		auth = transport.AuthMiddleware(apiKeys)
	}
	opts := transport.Options{
		Auth:     auth,
		MCP:      mcp.HTTPHandler(mcpServer),
		Recorder: m,
		Logger:   logger,
	}
	if cfg.Metrics.Enabled {
		opts.Metrics = m.Handler()
		opts.MetricsPath = cfg.Metrics.Path
	}
	router := transport.NewServer(transport.Services{
		Diamonds: diamondSvc,
		Exports:  exportSvc,
		Projects: projectSvc,
		Activity: activitySvc,
	}, opts)

	runHTTPMode(logger, router, cfg.Server.Host, cfg.Server.Port)
}

func runCommand(args []string, apiKeys *sqlite.APIKeyRepository) error {
	switch args[0] {
	case "apikey":
		if len(args) < 2 || args[1] == "" {
			return errors.New(usage)
		}
		desc := ""
		if len(args) > 2 {
			desc = args[2]
		}
		token := uuid.NewString()
		if err := apiKeys.Add(context.Background(), token, args[1], desc); err != nil {
			return fmt.Errorf("add api key: %w", err)
		}
		fmt.Println(token)
		return nil
	default:
		return errors.New(usage)
	}
}

func runStdioMode(logger *slog.Logger, mcpServer *sdkmcp.Server) {
	logger.Info("starting stdio transport", "auth", "disabled")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Run blocks until stdin closes or context is canceled
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("stdio server error", "error", err)
		os.Exit(1)
	}
}

func runHTTPMode(logger *slog.Logger, handler http.Handler, host string, port int) {
	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer)
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	// Generations run detached from request contexts; give them time to land.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

const (
	maxLogSizeBytes  = 6 * 1024 * 1024
	keepLogSizeBytes = 5 * 1024 * 1024
)

type logFileWriter struct {
	path string
	file *os.File
	mu   sync.Mutex
}

func newLogFileWriter(path string) (*logFileWriter, *os.File, error) {
	if err := ensureLogDir(path); err != nil {
		return nil, nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	writer := &logFileWriter{path: path, file: file}
	if err := writer.truncateIfNeeded(); err != nil {
		return nil, nil, err
	}
	return writer, file, nil
}

func ensureLogDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func (w *logFileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err := w.file.Write(p)
	if err != nil {
		return n, err
	}
	if err := w.truncateIfNeeded(); err != nil {
		return n, err
	}
	return n, nil
}

func (w *logFileWriter) truncateIfNeeded() error {
	info, err := w.file.Stat()
	if err != nil {
		return err
	}
	size := info.Size()
	if size <= maxLogSizeBytes {
		return nil
	}
	if size <= keepLogSizeBytes {
		return nil
	}

	buf := make([]byte, keepLogSizeBytes)
	if _, err := w.file.Seek(size-keepLogSizeBytes, io.SeekStart); err != nil {
		return err
	}
	n, err := w.file.Read(buf)
	if err != nil && err != io.EOF {
		return err
	}
	buf = buf[:n]

	if err := w.file.Truncate(0); err != nil {
		return err
	}
	if _, err := w.file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if _, err := w.file.Write(buf); err != nil {
		return err
	}
	_, err = w.file.Seek(0, io.SeekEnd)
	return err
}
