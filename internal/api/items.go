package api

import (
	"encoding/json"
	"strings"
	"unicode/utf8"
)

// ItemID is the canonical string form of an item identifier. Different
// backend endpoints emit ids as JSON numbers or strings; normalizing at the
// decode boundary keeps every later equality check trivial.
type ItemID string

func (id *ItemID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = ItemID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ItemID(n.String())
	return nil
}

func (id ItemID) String() string {
	return string(id)
}

// ParseItemID normalizes a raw identifier into its canonical form.
func ParseItemID(raw string) ItemID {
	return ItemID(strings.TrimSpace(raw))
}

// Item is one searchable market item.
type Item struct {
	ID   ItemID `json:"id"`
	Name string `json:"name"`
}

// SearchItems queries the item search endpoint. Queries shorter than two
// characters never reach the network; the UI treats them as "no dropdown".
func (c *Client) SearchItems(query string) ([]Item, error) {
	q := strings.TrimSpace(query)
	if utf8.RuneCountInString(q) < 2 {
		return nil, nil
	}
	data, err := c.get(buildQuery("/api/items/", map[string]string{"q": q}))
	if err != nil {
		return nil, err
	}
	var items []Item
	if err := decode(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}
