// ABOUTME: MCP server initialization and configuration
// ABOUTME: Exposes the plan store to AI agents as tools and a plan resource

package mcp

import (
	"context"
	"fmt"

	"github.com/harper/itinerary/internal/geocode"
	"github.com/harper/itinerary/internal/plan"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server around a plan store.
type Server struct {
	mcp      *mcp.Server
	store    *plan.Store
	geocoder geocode.Geocoder
}

// NewServer creates MCP server with all capabilities. geocoder may be nil,
// in which case locations must be given coordinates.
func NewServer(store *plan.Store, geocoder geocode.Geocoder) (*Server, error) {
	if store == nil {
		return nil, fmt.Errorf("plan store is required")
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "itinerary",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcp:      mcpServer,
		store:    store,
		geocoder: geocoder,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server in stdio mode.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}
