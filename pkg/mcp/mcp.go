// Package mcp serves tempo's profiles over the Model Context Protocol.
//
// The server exposes two tools: list_profiles describes the loaded profiles
// and their rules, and expand applies a profile to an input.
package mcp

import "unicode/utf8"

const (
	name         = "tempo"
	instructions = `MCP Server 'tempo' expands text with named profiles of replacement rules.

A profile is an ordered list of rules. Raw rules replace every occurrence of a literal pattern. DateTime rules replace a pattern with the current date and time, formatted with strftime directives.

Workflow:
1. Use 'list_profiles' to see the available profiles and their rules.
2. Use 'expand' with the text to expand. Name a profile with the EXACT label from 'list_profiles', or leave it empty to let the configured selectors and default profile decide.

'expand' never returns the input unchanged when no profile can be found; it reports an error instead.
`

	// maxPreview bounds rule replacements shown by list_profiles.
	maxPreview = 200
)

// truncateString truncates a string to at most maxLen bytes without splitting
// a rune, marking the cut.
func truncateString(str string, maxLen int) string {
	if len(str) > maxLen {
		for maxLen > 0 && !utf8.RuneStart(str[maxLen]) {
			maxLen--
		}

		return str[:maxLen] + "\n[OUTPUT TRUNCATED]"
	}

	return str
}
