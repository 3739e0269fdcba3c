// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes dayglow's location and phase tools via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/dayglow/internal/apperr"
	"github.com/starford/dayglow/internal/models"
	"github.com/starford/dayglow/internal/phase"
	"github.com/starford/dayglow/internal/storage"
)

// Gazetteer looks up a city by name.
type Gazetteer interface {
	Lookup(name string) (models.Location, error)
}

// Applier sets the wallpaper for a bucket.
type Applier interface {
	Apply(ctx context.Context, bucket int) bool
}

// Deps are the collaborators the tools operate on.
type Deps struct {
	Store     storage.Provider
	Gazetteer Gazetteer
	Clock     phase.EventSource
	Applier   Applier
	Fallback  models.Location
	Now       func() time.Time
}

// Server wraps the MCP server with dayglow tools. It never prompts; when no
// location is cached the fallback location is used.
type Server struct {
	mcp  *server.MCPServer
	deps Deps
}

// New creates a new MCP server with all dayglow tools registered.
func New(d Deps) *Server {
	if d.Now == nil {
		d.Now = time.Now
	}
	s := &Server{deps: d}

	s.mcp = server.NewMCPServer(
		"Dayglow",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("get_location",
		mcp.WithDescription("Return the cached location as JSON."),
	), s.getLocation)

	s.mcp.AddTool(mcp.NewTool("get_phase",
		mcp.WithDescription("Compute the current phase bucket (1-16) and today's solar events "+
			"for the cached location, or the default location when nothing is cached."),
		mcp.WithString("at", mcp.Description("Optional RFC 3339 instant to evaluate instead of now")),
	), s.getPhase)

	s.mcp.AddTool(mcp.NewTool("apply_wallpaper",
		mcp.WithDescription("Set the desktop wallpaper to the image for the current phase bucket."),
	), s.applyWallpaper)

	s.mcp.AddTool(mcp.NewTool("lookup_city",
		mcp.WithDescription("Look up a city in the offline gazetteer. Accepts \"City\" or \"City, Region\"."),
		mcp.WithString("name", mcp.Required(), mcp.Description("City name")),
	), s.lookupCity)

	s.mcp.AddResource(
		mcp.NewResource("dayglow://phases", "Phase Table",
			mcp.WithResourceDescription("How instants of the day map to the sixteen wallpaper buckets."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readPhaseTable,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// location returns the cached location, or the fallback when none is usable.
func (s *Server) location() models.Location {
	loc, err := s.deps.Store.Load()
	if err != nil {
		return s.deps.Fallback
	}
	return loc
}

func (s *Server) getLocation(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	loc, err := s.deps.Store.Load()
	if errors.Is(err, apperr.ErrNotFound) {
		return mcp.NewToolResultText("no cached location"), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(loc, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getPhase(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	now := s.deps.Now()
	if at := req.GetString("at", ""); at != "" {
		t, err := time.Parse(time.RFC3339, at)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid at: %v", err)), nil
		}
		now = t
	}

	report, err := phase.Describe(s.deps.Clock, s.location(), now)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) applyWallpaper(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	bucket, err := phase.Select(s.deps.Clock, s.location(), s.deps.Now())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !s.deps.Applier.Apply(ctx, bucket) {
		return mcp.NewToolResultError(fmt.Sprintf("wallpaper not applied for bucket %d", bucket)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("applied bucket %d", bucket)), nil
}

func (s *Server) lookupCity(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	loc, err := s.deps.Gazetteer.Lookup(name)
	if errors.Is(err, apperr.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", name)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(loc, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readPhaseTable(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "dayglow://phases",
			MIMEType: "text/markdown",
			Text:     PhaseTable,
		},
	}, nil
}
