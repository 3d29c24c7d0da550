package api

import (
	"fmt"
	"strings"
)

// Collection is a named, persisted, ordered list of items used to bulk-fill
// an alert's item selection. ItemIDs and ItemNames are positionally paired:
// index i names item i. Collections are value snapshots; the server never
// mutates one in place.
type Collection struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	ItemIDs   []ItemID `json:"item_ids"`
	ItemNames []string `json:"item_names"`
}

// Items zips the paired id and name arrays into items. A length mismatch
// would mean a corrupt collection; the shorter side bounds the result so the
// pairing invariant holds for everything returned.
func (col Collection) Items() []Item {
	n := len(col.ItemIDs)
	if len(col.ItemNames) < n {
		n = len(col.ItemNames)
	}
	items := make([]Item, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, Item{ID: col.ItemIDs[i], Name: col.ItemNames[i]})
	}
	return items
}

type collectionListResponse struct {
	Collections []Collection `json:"collections"`
}

// ListCollections fetches the caller's saved collections.
func (c *Client) ListCollections() ([]Collection, error) {
	data, err := c.get("/api/item-collections/")
	if err != nil {
		return nil, err
	}
	var resp collectionListResponse
	if err := decode(data, &resp); err != nil {
		return nil, err
	}
	return resp.Collections, nil
}

// CreateCollection saves a named snapshot of the given items. The name must
// be non-empty after trimming and the item list non-empty; both are rejected
// client-side before any request is issued. Name uniqueness (case-insensitive
// per owner) is enforced by the server and surfaces as a *ConflictError.
func (c *Client) CreateCollection(name string, items []Item) (*Collection, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, &ValidationError{Reason: "collection name is required"}
	}
	if len(items) == 0 {
		return nil, &ValidationError{Reason: "collection needs at least one item"}
	}

	ids := make([]ItemID, len(items))
	names := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
		names[i] = item.Name
	}

	data, err := c.post("/api/item-collections/create/", map[string]any{
		"name":       trimmed,
		"item_ids":   ids,
		"item_names": names,
	})
	if err != nil {
		return nil, err
	}

	// Some deployments answer 200 with an error payload instead of an error
	// status; treat a duplicate-name message as a conflict either way.
	if msg := extractErrorMessage(data); msg != "" {
		if strings.Contains(strings.ToLower(msg), "exist") {
			return nil, &ConflictError{Message: msg}
		}
		return nil, &TransportError{Op: "create collection", Err: fmt.Errorf("%s", msg)}
	}

	var created Collection
	if err := decode(data, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteCollection removes a saved collection. Deleting a collection the
// server no longer has yields a *NotFoundError; callers treat that as soft
// and refresh their listing.
func (c *Client) DeleteCollection(id int) error {
	data, err := c.post(fmt.Sprintf("/api/item-collections/%d/delete/", id), nil)
	if err != nil {
		return err
	}
	if msg := extractErrorMessage(data); msg != "" {
		if strings.Contains(strings.ToLower(msg), "not found") {
			return &NotFoundError{Message: msg}
		}
		return &TransportError{Op: "delete collection", Err: fmt.Errorf("%s", msg)}
	}
	return nil
}
