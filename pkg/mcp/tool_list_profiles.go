package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/macropower/tempo/pkg/profile"
)

// ListProfilesParams defines parameters for the list_profiles tool.
type ListProfilesParams struct{}

// ListProfilesResult contains the result of listing profiles.
type ListProfilesResult struct {
	Error        string           `json:"error,omitempty"`
	Message      string           `json:"message"`
	Profiles     []ProfileSummary `json:"profiles"`
	ProfileCount int              `json:"profileCount"`
}

// ProfileSummary describes one profile.
type ProfileSummary struct {
	Label string        `json:"label"`
	Path  string        `json:"path,omitempty"`
	Rules []RuleSummary `json:"rules"`
}

// RuleSummary describes one rule of a profile.
type RuleSummary struct {
	Type    string `json:"type"`
	Pattern string `json:"pattern"`
	Replace string `json:"replace,omitempty"`
	Format  string `json:"format,omitempty"`
	Enabled bool   `json:"enabled"`
}

func (s *Server) handleListProfiles(
	_ context.Context,
	_ *mcp.ServerSession,
	_ *mcp.CallToolParamsFor[ListProfilesParams],
) (*mcp.CallToolResultFor[ListProfilesResult], error) {
	e, reloadErr := s.snapshot()

	result := ListProfilesResult{
		Profiles: []ProfileSummary{},
	}

	if reloadErr != nil {
		result.Error = fmt.Sprintf("last reload failed, showing previous profiles: %v", reloadErr)
	}

	for _, p := range e.Profiles().Profiles() {
		result.Profiles = append(result.Profiles, summarizeProfile(p))
	}

	result.ProfileCount = len(result.Profiles)
	result.Message = fmt.Sprintf("Found %d profiles.", result.ProfileCount)

	return &mcp.CallToolResultFor[ListProfilesResult]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: result.Message},
		},
		StructuredContent: result,
	}, nil
}

func summarizeProfile(p *profile.Profile) ProfileSummary {
	ps := ProfileSummary{
		Label: p.Label(),
		Path:  p.Path(),
		Rules: make([]RuleSummary, 0, p.Len()),
	}

	for _, r := range p.Rules() {
		rec := r.Record()
		rs := RuleSummary{
			Type:    string(r.Kind()),
			Pattern: rec.Raw,
			Enabled: r.Enabled(),
		}
		if rec.Replace != nil {
			rs.Replace = truncateString(*rec.Replace, maxPreview)
		}
		if rec.Format != nil {
			rs.Format = *rec.Format
		}

		ps.Rules = append(ps.Rules, rs)
	}

	return ps
}
