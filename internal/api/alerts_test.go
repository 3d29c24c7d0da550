package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListAlertGroups(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/alert-groups/", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"groups": []map[string]any{
				{"id": 1, "name": "Metals"},
				{"id": "2", "name": "Fuels"},
			},
		})
	})

	groups, err := client.ListAlertGroups()
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, ItemID("1"), groups[0].ID)
	assert.Equal(t, "Fuels", groups[1].Name)
}

func TestCreateAlert(t *testing.T) {
	var body map[string]any
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/alerts/create/", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		json.NewEncoder(w).Encode(map[string]any{"id": 9})
	})

	id, err := client.CreateAlert(CreateAlertInput{
		Type:      "spike",
		ItemIDs:   []ItemID{"1", "2"},
		Group:     " Metals ",
		Threshold: "15",
	})
	require.NoError(t, err)
	assert.Equal(t, 9, id)
	assert.Equal(t, "spike", body["type"])
	assert.Equal(t, "Metals", body["group"])
}

func TestCreateAlertRequiresItems(t *testing.T) {
	requests := 0
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
	})

	_, err := client.CreateAlert(CreateAlertInput{Type: "spread"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 0, requests)
}
