package selection

import "strings"

// Item is one selectable market item. ID holds the normalized (string) form of
// the backend identifier; all equality checks go through NormalizeID so items
// sourced from endpoints that emit numeric ids compare equal to the same item
// sourced as a string.
type Item struct {
	ID   string
	Name string
}

// NormalizeID returns the canonical form of an item identifier used for every
// set-membership and equality check.
func NormalizeID(id string) string {
	return strings.TrimSpace(id)
}
