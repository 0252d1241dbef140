package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kfreiman/mockinterview/internal/app"
)

const (
	// ServerName is reported to MCP clients
	ServerName = "MockInterviewServer"
	// Version is reported to MCP clients and health checks
	Version = "1.0.0"

	shutdownTimeout = 10 * time.Second
)

// Server encapsulates the MCP server with all its dependencies
type Server struct {
	mcpServer *mcp.Server
	app       *app.App
	logger    *slog.Logger
	port      int
}

// NewServer creates a new MCP server over the wired components
func NewServer(a *app.App, logger *slog.Logger) *Server {
	s := &Server{
		app:    a,
		logger: logger,
		port:   a.Config.Port,
	}

	s.mcpServer = mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Version: Version,
	}, &mcp.ServerOptions{
		Instructions: ServerInstructions,
	})

	s.registerHandlers()
	return s
}

// registerHandlers registers all resources, tools, and prompts on the MCP server
func (s *Server) registerHandlers() {
	s.registerResources()
	s.registerTools()
	s.registerPrompts()
}

func (s *Server) registerResources() {
	storageHandler := NewStorageResourceHandler(s.app.Storage).WithLogger(s.logger)

	for _, resource := range ResourceDefinitions {
		s.mcpServer.AddResource(resource, storageHandler.ReadResource)
	}
	for _, template := range ResourceTemplateDefinitions {
		s.mcpServer.AddResourceTemplate(template, storageHandler.ReadResource)
	}
}

func (s *Server) registerTools() {
	ingestTool := NewIngestDocumentTool(s.app.Ingestor).WithLogger(s.logger)
	s.mcpServer.AddTool(ToolDefinitions["ingest_document"], ingestTool.Call)

	personasTool := NewGeneratePersonasTool(s.app).WithLogger(s.logger)
	s.mcpServer.AddTool(ToolDefinitions["generate_personas"], personasTool.Call)

	gapTool := NewAnalyzeGapTool(s.app).WithLogger(s.logger)
	s.mcpServer.AddTool(ToolDefinitions["analyze_gap"], gapTool.Call)

	startTool := NewStartInterviewTool(s.app).WithLogger(s.logger)
	s.mcpServer.AddTool(ToolDefinitions["start_interview"], startTool.Call)

	currentTool := NewCurrentQuestionTool(s.app.Sessions)
	s.mcpServer.AddTool(ToolDefinitions["current_question"], currentTool.Call)

	submitTool := NewSubmitAnswerTool(s.app.Sessions).WithLogger(s.logger)
	s.mcpServer.AddTool(ToolDefinitions["submit_answer"], submitTool.Call)

	exportTool := NewExportTranscriptTool(s.app.Sessions)
	s.mcpServer.AddTool(ToolDefinitions["export_transcript"], exportTool.Call)

	evaluateTool := NewEvaluateInterviewTool(s.app).WithLogger(s.logger)
	s.mcpServer.AddTool(ToolDefinitions["evaluate_interview"], evaluateTool.Call)

	listTool := NewListDocumentsTool(s.app.Storage)
	s.mcpServer.AddTool(ToolDefinitions["list_documents"], listTool.Call)

	cleanupTool := NewCleanupStorageTool(s.app.Storage).WithLogger(s.logger)
	s.mcpServer.AddTool(ToolDefinitions["cleanup_storage"], cleanupTool.Call)
}

func (s *Server) registerPrompts() {
	prompt := NewMockInterviewPrompt(s.app.Storage)
	for _, promptDef := range PromptDefinitions {
		s.mcpServer.AddPrompt(promptDef, prompt.Handle)
	}
}

// Handler returns the HTTP routes of the server
func (s *Server) Handler() http.Handler {
	httpHandler := mcp.NewStreamableHTTPHandler(func(req *http.Request) *mcp.Server {
		return s.mcpServer
	}, &mcp.StreamableHTTPOptions{
		JSONResponse: true,
	})

	mux := http.NewServeMux()
	mux.Handle("/mcp", httpHandler)
	mux.HandleFunc("/health/live", s.LivenessHandler)
	mux.HandleFunc("/health/ready", s.ReadinessHandler)
	mux.HandleFunc("/", s.indexHandler)
	return mux
}

// ListenAndServe serves HTTP until ctx is cancelled, then shuts down
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.InfoContext(ctx, "starting MCP server",
			"port", s.port,
			"endpoints", []string{"/mcp", "/health/live", "/health/ready", "/"},
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.InfoContext(shutdownCtx, "shutting down MCP server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// indexHandler returns the server information page
func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintf(w, "Mock Interview MCP Server\n\n")
	fmt.Fprintf(w, "Endpoints:\n")
	fmt.Fprintf(w, "  POST /mcp          - Streamable HTTP transport\n")
	fmt.Fprintf(w, "  GET  /health/live  - Liveness probe\n")
	fmt.Fprintf(w, "  GET  /health/ready - Readiness probe\n")
	fmt.Fprintf(w, "  GET  /             - This help message\n\n")
	fmt.Fprintf(w, "Server: %s %s\n", ServerName, Version)
}
