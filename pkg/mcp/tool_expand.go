package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/macropower/tempo/pkg/engine"
	"github.com/macropower/tempo/pkg/log"
)

// ExpandParams defines parameters for the expand tool.
type ExpandParams struct {
	Input   string `json:"input"`
	Profile string `json:"profile,omitempty"`
}

// ExpandResult contains the result of an expansion.
type ExpandResult struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message"`
	Output  string `json:"output,omitempty"`
	Profile string `json:"profile,omitempty"`
	Found   bool   `json:"found"`
}

func (s *Server) handleExpand(
	ctx context.Context,
	_ *mcp.ServerSession,
	params *mcp.CallToolParamsFor[ExpandParams],
) (*mcp.CallToolResultFor[ExpandResult], error) {
	e, _ := s.snapshot()
	args := params.Arguments

	p, err := e.Select(ctx, args.Input, args.Profile)
	if errors.Is(err, engine.ErrProfileNotFound) {
		return createExpandError(ExpandResult{
			Profile: args.Profile,
			Error:   err.Error(),
			Message: "INVALID INPUT ERROR: No profile found. Use an EXACT label from the list_profiles tool.",
		}), nil
	}

	if err != nil {
		return createExpandError(ExpandResult{
			Profile: args.Profile,
			Error:   err.Error(),
			Message: "Could not select a profile.",
		}), nil
	}

	out, err := engine.ApplyFormat(args.Input, p)
	if err != nil {
		return nil, fmt.Errorf("apply profile %q: %w", p.Label(), err)
	}

	log.WithContext(ctx).DebugContext(ctx, "expanded input",
		slog.String("profile", p.Label()),
		slog.Int("input_length", len(args.Input)),
		slog.Int("output_length", len(out)),
	)

	result := ExpandResult{
		Found:   true,
		Profile: p.Label(),
		Output:  out,
		Message: fmt.Sprintf("Expanded with profile %q.", p.Label()),
	}

	return &mcp.CallToolResultFor[ExpandResult]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: out},
		},
		StructuredContent: result,
	}, nil
}

func createExpandError(result ExpandResult) *mcp.CallToolResultFor[ExpandResult] {
	return &mcp.CallToolResultFor[ExpandResult]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: result.Message + " " + result.Error},
		},
		StructuredContent: result,
		IsError:           true,
	}
}
