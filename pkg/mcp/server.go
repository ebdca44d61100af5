package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/tempo/pkg/engine"
	"github.com/macropower/tempo/pkg/loader"
	"github.com/macropower/tempo/pkg/profile"
	"github.com/macropower/tempo/pkg/version"
)

// Server implements the MCP server for tempo.
type Server struct {
	server    *mcp.Server
	tracer    trace.Tracer
	engine    *engine.Engine
	reloadErr error
	address   string
	engOpts   []engine.EngineOpt
	mu        sync.RWMutex
}

// NewServer creates a new MCP server over profiles. The engine options
// configure how expand picks a profile when none is named.
func NewServer(address string, profiles *profile.Collection, opts ...engine.EngineOpt) *Server {
	impl := &mcp.Implementation{
		Name:    name,
		Version: version.GetVersion(),
	}

	s := &Server{
		address: address,
		server:  mcp.NewServer(impl, &mcp.ServerOptions{Instructions: instructions}),
		tracer:  otel.Tracer("mcp-server"),
		engine:  engine.New(profiles, opts...),
		engOpts: opts,
	}

	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_profiles",
		Description: "List the loaded profiles and their rules, in the order they are applied.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{},
		},
	}, WithTracing(s.tracer, s.handleListProfiles))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "expand",
		Description: "Expand text with a profile. You MUST use a profile label EXACTLY as returned by list_profiles, or leave it empty.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"input": {
					Type:        "string",
					Description: "The text to expand.",
				},
				"profile": {
					Type:        "string",
					Description: "The label of the profile to apply. When empty, the configured selectors and default profile are used.",
				},
			},
			Required: []string{"input"},
		},
	}, WithTracing(s.tracer, s.handleExpand))
}

// SetProfiles replaces the served profiles.
func (s *Server) SetProfiles(profiles *profile.Collection) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.engine = engine.New(profiles, s.engOpts...)
	s.reloadErr = nil
}

// Watch applies every event from events until the channel closes or ctx is
// done. A failed reload keeps the previous profiles, and is reported by the
// tools until the next successful reload.
func (s *Server) Watch(ctx context.Context, events <-chan loader.Event) {
	for {
		select {
		case <-ctx.Done():
			return

		case evt, ok := <-events:
			if !ok {
				return
			}

			if evt.Err != nil {
				slog.WarnContext(ctx, "reload profiles", slog.Any("error", evt.Err))

				s.mu.Lock()
				s.reloadErr = evt.Err
				s.mu.Unlock()

				continue
			}

			slog.InfoContext(ctx, "reloaded profiles", slog.Int("count", evt.Profiles.Len()))
			s.SetProfiles(evt.Profiles)
		}
	}
}

func (s *Server) snapshot() (*engine.Engine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.engine, s.reloadErr
}

func (s *Server) Server() *mcp.Server {
	return s.server
}

// Serve starts the MCP server. Without an address, it serves over stdio.
func (s *Server) Serve(ctx context.Context) error {
	slog.InfoContext(ctx, "starting MCP server", slog.String("address", s.address))

	if s.address == "" {
		err := s.serveStdio(ctx)
		if err != nil {
			return fmt.Errorf("serve stdio: %w", err)
		}

		return nil
	}

	err := s.serveHTTP(ctx)
	if err != nil {
		return fmt.Errorf("serve HTTP: %w", err)
	}

	return nil
}

func (s *Server) serveHTTP(ctx context.Context) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)

	server := &http.Server{
		Addr:    s.address,
		Handler: handler,

		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()

		err := server.Shutdown(shutdownCtx)
		if err != nil {
			slog.Error("shut down MCP server", slog.Any("error", err))
		}
	}()

	err := server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("MCP server failed: %w", err)
	}

	return nil
}

func (s *Server) serveStdio(ctx context.Context) error {
	t := mcp.NewLoggingTransport(mcp.NewStdioTransport(), os.Stderr)

	err := s.server.Run(ctx, t)
	if err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}

	return nil
}
