package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docsum/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

// ServerName identifies docsum to MCP clients.
const ServerName = "docsum"

// Instructions tells clients how the tools and resources fit together.
const Instructions = "Summarise or extract text from local PDF, DOCX, PNG, JPEG, CSV and TXT files. " +
	"Call summarise_document with a file path for a structured summary, or extract_text for the raw text. " +
	"Read docsum://cache for extraction cache statistics and docsum://prompts/{name} for the " +
	"map and combine prompt templates."

// shutdownTimeout bounds how long in-flight tool calls may finish after cancellation.
const shutdownTimeout = 5 * time.Second

// Server exposes the document pipeline to MCP clients: summarise_document and
// extract_text read a local file and run it through the pipeline service.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

// NewServer validates ports and registers the document tools and resources.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	impl := &mcp.Implementation{
		Name:    ServerName,
		Version: Version,
	}

	s := &Server{
		ports:  ports,
		server: mcp.NewServer(impl, &mcp.ServerOptions{Instructions: Instructions}),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Run serves over stdio, which is how desktop MCP clients launch docsum.
// It blocks until the context is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Handler returns the streamable HTTP handler for the document tools.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)
}

// RunHTTP serves the streamable HTTP transport on addr until ctx is cancelled.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("mcp server shutdown: %v", err)
		}
	}()

	logger.Info("mcp server listening on %s", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
