package profile

import (
	"maps"
	"slices"
)

// Collection holds the profiles of a session, keyed by label.
// It is read-mostly once loaded and is not safe for concurrent writes.
// The zero value is an empty collection ready to use.
type Collection struct {
	profiles map[string]*Profile
}

// NewCollection creates a collection holding the given profiles. Later
// profiles replace earlier ones with the same label.
func NewCollection(profiles ...*Profile) *Collection {
	c := &Collection{profiles: make(map[string]*Profile, len(profiles))}
	for _, p := range profiles {
		c.Add(p)
	}

	return c
}

// Add stores p under its label. If a profile with the same label was already
// present it is replaced and returned.
func (c *Collection) Add(p *Profile) *Profile {
	if c.profiles == nil {
		c.profiles = map[string]*Profile{}
	}

	prev := c.profiles[p.Label()]
	c.profiles[p.Label()] = p

	return prev
}

// Get returns the profile with the given label.
func (c *Collection) Get(label string) (*Profile, bool) {
	if c == nil {
		return nil, false
	}

	p, ok := c.profiles[label]

	return p, ok
}

// Labels returns every label, sorted.
func (c *Collection) Labels() []string {
	if c == nil {
		return nil
	}

	return slices.Sorted(maps.Keys(c.profiles))
}

// Profiles returns every profile, sorted by label.
func (c *Collection) Profiles() []*Profile {
	labels := c.Labels()

	out := make([]*Profile, 0, len(labels))
	for _, l := range labels {
		out = append(out, c.profiles[l])
	}

	return out
}

// Len returns the number of profiles.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}

	return len(c.profiles)
}
