package mcp_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/macropower/tempo/pkg/engine"
	"github.com/macropower/tempo/pkg/loader"
	"github.com/macropower/tempo/pkg/mcp"
	"github.com/macropower/tempo/pkg/profile"
	"github.com/macropower/tempo/pkg/rule"
)

type stubSelector string

func (s stubSelector) Select(_ string, _ []string) (string, error) {
	return string(s), nil
}

func testProfiles() *profile.Collection {
	clk := rule.FixedClock(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.Local))

	return profile.NewCollection(
		profile.New("greet", profile.WithPath("greet.yaml"), profile.WithRules(
			rule.NewRaw("h", "hello"),
			rule.NewRaw("tem", "tempo", rule.Disabled()),
		)),
		profile.New("time", profile.WithPath("time.toml"), profile.WithRules(
			rule.NewDateTime(":now", "%Y-%m-%d", rule.WithClock(clk)),
		)),
	)
}

func connect(t *testing.T, s *mcp.Server) *sdk.ClientSession {
	t.Helper()

	ctx := t.Context()
	clientTransport, serverTransport := sdk.NewInMemoryTransports()

	serverSession, err := s.Server().Connect(ctx, serverTransport)
	require.NoError(t, err)

	client := sdk.NewClient(&sdk.Implementation{Name: "client"}, nil)
	clientSession, err := client.Connect(ctx, clientTransport)
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, clientSession.Close())
		assert.NoError(t, serverSession.Wait())
	})

	return clientSession
}

//nolint:paralleltest,tparallel // Shares a clientSession.
func TestServer_Integration(t *testing.T) {
	t.Parallel()

	s := mcp.NewServer("", testProfiles(), engine.WithDefaultProfile("greet"))
	clientSession := connect(t, s)

	tcs := map[string]struct {
		params      *sdk.CallToolParams
		want        map[string]any
		wantIsError bool
	}{
		"list_profiles": {
			params: &sdk.CallToolParams{
				Name:      "list_profiles",
				Arguments: map[string]any{},
			},
			want: map[string]any{
				"message":      "Found 2 profiles.",
				"profileCount": float64(2),
				"profiles": []any{
					map[string]any{
						"label": "greet",
						"path":  "greet.yaml",
						"rules": []any{
							map[string]any{"type": "Raw", "pattern": "h", "replace": "hello", "enabled": true},
							map[string]any{"type": "Raw", "pattern": "tem", "replace": "tempo", "enabled": false},
						},
					},
					map[string]any{
						"label": "time",
						"path":  "time.toml",
						"rules": []any{
							map[string]any{"type": "DateTime", "pattern": ":now", "format": "%Y-%m-%d", "enabled": true},
						},
					},
				},
			},
		},
		"expand with profile": {
			params: &sdk.CallToolParams{
				Name:      "expand",
				Arguments: map[string]any{"input": "h :now", "profile": "time"},
			},
			want: map[string]any{
				"found":   true,
				"profile": "time",
				"output":  "h 2024-01-01",
				"message": `Expanded with profile "time".`,
			},
		},
		"expand with default profile": {
			params: &sdk.CallToolParams{
				Name:      "expand",
				Arguments: map[string]any{"input": "h, tem"},
			},
			want: map[string]any{
				"found":   true,
				"profile": "greet",
				"output":  "hello, tem",
				"message": `Expanded with profile "greet".`,
			},
		},
		"expand with unknown profile": {
			params: &sdk.CallToolParams{
				Name:      "expand",
				Arguments: map[string]any{"input": "h", "profile": "missing"},
			},
			want: map[string]any{
				"found":   false,
				"profile": "missing",
				"error":   `profile not found: "missing"`,
				"message": "INVALID INPUT ERROR: No profile found. Use an EXACT label from the list_profiles tool.",
			},
			wantIsError: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			r, err := clientSession.CallTool(t.Context(), tc.params)
			require.NoError(t, err)
			require.NotNil(t, r)

			assert.Equal(t, tc.wantIsError, r.IsError)
			assert.Equal(t, tc.want, r.StructuredContent)
			assert.NotEmpty(t, r.Content)
		})
	}
}

func TestServer_ExpandWithoutProfile(t *testing.T) {
	t.Parallel()

	s := mcp.NewServer("", testProfiles())
	clientSession := connect(t, s)

	r, err := clientSession.CallTool(t.Context(), &sdk.CallToolParams{
		Name:      "expand",
		Arguments: map[string]any{"input": "h, tem"},
	})
	require.NoError(t, err)
	require.True(t, r.IsError)

	content, ok := r.StructuredContent.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, content["found"])
	assert.NotContains(t, content, "output")
}

func TestServer_ExpandWithSelector(t *testing.T) {
	t.Parallel()

	s := mcp.NewServer("", testProfiles(),
		engine.WithSelector(stubSelector("time")),
		engine.WithDefaultProfile("greet"),
	)
	clientSession := connect(t, s)

	r, err := clientSession.CallTool(t.Context(), &sdk.CallToolParams{
		Name:      "expand",
		Arguments: map[string]any{"input": ":now"},
	})
	require.NoError(t, err)
	require.False(t, r.IsError)

	text, ok := r.Content[0].(*sdk.TextContent)
	require.True(t, ok)
	assert.Equal(t, "2024-01-01", text.Text)
}

func TestServer_Watch(t *testing.T) {
	t.Parallel()

	s := mcp.NewServer("", testProfiles(), engine.WithDefaultProfile("greet"))
	clientSession := connect(t, s)

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	events := make(chan loader.Event)
	done := make(chan struct{})

	go func() {
		defer close(done)

		s.Watch(ctx, events)
	}()

	expand := func() map[string]any {
		r, err := clientSession.CallTool(t.Context(), &sdk.CallToolParams{
			Name:      "expand",
			Arguments: map[string]any{"input": "h"},
		})
		require.NoError(t, err)

		content, ok := r.StructuredContent.(map[string]any)
		require.True(t, ok)

		return content
	}

	events <- loader.Event{Profiles: profile.NewCollection(
		profile.New("greet", profile.WithRules(rule.NewRaw("h", "hi"))),
	)}
	// Each send only completes once the previous event was applied.
	events <- loader.Event{Err: errors.New("bad profile")}
	events <- loader.Event{Err: errors.New("bad profile")}

	assert.Equal(t, "hi", expand()["output"])

	r, err := clientSession.CallTool(t.Context(), &sdk.CallToolParams{
		Name:      "list_profiles",
		Arguments: map[string]any{},
	})
	require.NoError(t, err)

	content, ok := r.StructuredContent.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, content["error"], "bad profile")
	assert.InDelta(t, float64(1), content["profileCount"], 0)

	close(events)
	<-done
}
