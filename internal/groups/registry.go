// Package groups tracks alert groups: the server-backed list refreshed by a
// background poll, plus "pending" groups created locally that the server does
// not know about yet. Refreshes merge rather than overwrite, so a group the
// user just created is never clobbered by a poll that raced its creation.
package groups

import (
	"errors"
	"strings"

	"github.com/emberline/pricewatch/internal/selection"
)

var (
	// ErrEmptyName rejects blank or whitespace-only group names.
	ErrEmptyName = errors.New("group name is required")
	// ErrDuplicateName rejects a name already present, ignoring case.
	// The server remains authoritative; this only catches the obvious case
	// before a round trip.
	ErrDuplicateName = errors.New("group name already exists")
)

// Group is one alert group. Pending groups have an empty ID until the server
// reports them.
type Group struct {
	ID   string
	Name string
}

// Registry holds the merged view of server-backed and pending groups.
type Registry struct {
	server  []Group
	pending []Group
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// nameKey is the case-insensitive identity of a group. Merging on it reuses
// the same dedupe machinery the collection applicator uses for item ids.
func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register adds a pending group created locally. The name must be non-blank
// and not collide (case-insensitively) with any known group.
func (r *Registry) Register(name string) (Group, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return Group{}, ErrEmptyName
	}
	key := nameKey(trimmed)
	for _, g := range r.All() {
		if nameKey(g.Name) == key {
			return Group{}, ErrDuplicateName
		}
	}
	g := Group{Name: trimmed}
	r.pending = append(r.pending, g)
	return g, nil
}

// SetServer replaces the server-backed list from a poll. Pending groups the
// server now reports are promoted (the server row wins, bringing its ID);
// the rest survive until a later poll confirms them.
func (r *Registry) SetServer(server []Group) {
	known := make(map[string]struct{}, len(server))
	for _, g := range server {
		known[nameKey(g.Name)] = struct{}{}
	}
	remaining := r.pending[:0]
	for _, g := range r.pending {
		if _, ok := known[nameKey(g.Name)]; !ok {
			remaining = append(remaining, g)
		}
	}
	r.pending = remaining
	r.server = append([]Group(nil), server...)
}

// All returns the merged view: server groups in server order, then pending
// groups not yet reported, in creation order.
func (r *Registry) All() []Group {
	merged, _ := selection.MergeItems(toItems(r.server), toItems(r.pending))
	byKey := make(map[string]Group, len(r.server)+len(r.pending))
	for _, g := range r.pending {
		byKey[nameKey(g.Name)] = g
	}
	for _, g := range r.server {
		byKey[nameKey(g.Name)] = g
	}
	out := make([]Group, 0, len(merged))
	for _, item := range merged {
		out = append(out, byKey[item.ID])
	}
	return out
}

// Pending returns the groups still awaiting server confirmation.
func (r *Registry) Pending() []Group {
	out := make([]Group, len(r.pending))
	copy(out, r.pending)
	return out
}

// Names returns the merged group names, for suggestion lists.
func (r *Registry) Names() []string {
	all := r.All()
	out := make([]string, len(all))
	for i, g := range all {
		out[i] = g.Name
	}
	return out
}

func toItems(groups []Group) []selection.Item {
	items := make([]selection.Item, len(groups))
	for i, g := range groups {
		items[i] = selection.Item{ID: nameKey(g.Name), Name: g.Name}
	}
	return items
}
