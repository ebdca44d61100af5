package ui

import "slices"

// History is a bounded list of submitted inputs with a browsing position.
type History struct {
	entries []string
	draft   string
	limit   int
	pos     int
}

// NewHistory keeps up to limit entries. A limit of zero keeps nothing.
func NewHistory(limit int) *History {
	return &History{limit: max(0, limit)}
}

// Push records s, unless it is empty or repeats the newest entry, and resets
// the browsing position.
func (h *History) Push(s string) {
	defer func() { h.pos = len(h.entries) }()

	if s == "" || h.limit == 0 {
		return
	}

	if n := len(h.entries); n > 0 && h.entries[n-1] == s {
		return
	}

	h.entries = append(h.entries, s)
	if over := len(h.entries) - h.limit; over > 0 {
		h.entries = slices.Delete(h.entries, 0, over)
	}
}

// Prev steps to the next older entry. Leaving the newest position saves
// current, so that [History.Next] can restore it.
func (h *History) Prev(current string) (string, bool) {
	if h.pos == 0 {
		return "", false
	}

	if h.pos == len(h.entries) {
		h.draft = current
	}

	h.pos--

	return h.entries[h.pos], true
}

// Next steps to the next newer entry, ending at the saved draft.
func (h *History) Next() (string, bool) {
	if h.pos >= len(h.entries) {
		return "", false
	}

	h.pos++
	if h.pos == len(h.entries) {
		return h.draft, true
	}

	return h.entries[h.pos], true
}

// Entries returns the entries, oldest first.
func (h *History) Entries() []string {
	return slices.Clone(h.entries)
}

func (h *History) Len() int {
	return len(h.entries)
}
