// ABOUTME: MCP resource definitions
// ABOUTME: Provides a read-only view of the whole plan for AI agents

package mcp

import (
	"context"
	"fmt"

	"github.com/harper/itinerary/internal/codec"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const planResourceURI = "itinerary://plan"

func (s *Server) registerResources() {
	s.mcp.AddResource(&mcp.Resource{
		Name:        planResourceURI,
		Description: "The full travel plan in its export JSON shape",
		URI:         planResourceURI,
		MIMEType:    "application/json",
	}, s.handlePlanResource)
}

func (s *Server) handlePlanResource(_ context.Context, _ *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	data, err := codec.Encode(s.store.Plan())
	if err != nil {
		return nil, fmt.Errorf("failed to encode plan: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      planResourceURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		},
	}, nil
}
