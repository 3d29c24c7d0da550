package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchItemsQueriesEndpoint(t *testing.T) {
	var gotPath, gotQuery string
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("q")
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": "1", "name": "Coal"},
			{"id": "2", "name": "Coke"},
		})
	})

	items, err := client.SearchItems("co")
	require.NoError(t, err)
	assert.Equal(t, "/api/items/", gotPath)
	assert.Equal(t, "co", gotQuery)
	require.Len(t, items, 2)
	assert.Equal(t, "Coal", items[0].Name)
}

func TestSearchItemsShortQuerySkipsNetwork(t *testing.T) {
	requests := 0
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		json.NewEncoder(w).Encode([]map[string]any{})
	})

	items, err := client.SearchItems("c")
	require.NoError(t, err)
	assert.Nil(t, items)
	assert.Equal(t, 0, requests)

	_, err = client.SearchItems("  c  ")
	require.NoError(t, err)
	assert.Equal(t, 0, requests)

	// A single multi-byte rune is still one character.
	_, err = client.SearchItems("é")
	require.NoError(t, err)
	assert.Equal(t, 0, requests)

	// Two multi-byte runes clear the gate.
	_, err = client.SearchItems("金属")
	require.NoError(t, err)
	assert.Equal(t, 1, requests)
}

func TestItemIDNormalizesNumbersAndStrings(t *testing.T) {
	var fromNumber Item
	require.NoError(t, json.Unmarshal([]byte(`{"id": 42, "name": "Coal"}`), &fromNumber))
	assert.Equal(t, ItemID("42"), fromNumber.ID)

	var fromString Item
	require.NoError(t, json.Unmarshal([]byte(`{"id": " 42 ", "name": "Coal"}`), &fromString))
	assert.Equal(t, ItemID("42"), fromString.ID)

	assert.Equal(t, fromNumber.ID, fromString.ID)
}

func TestItemIDHelpers(t *testing.T) {
	assert.Equal(t, ItemID("7"), ParseItemID(" 7 "))
	assert.Equal(t, "7", ParseItemID("7").String())
}
