package api

import "strings"

// AlertGroup is a server-side grouping label for alerts.
type AlertGroup struct {
	ID   ItemID `json:"id"`
	Name string `json:"name"`
}

type alertGroupListResponse struct {
	Groups []AlertGroup `json:"groups"`
}

// ListAlertGroups fetches the alert groups the server knows about. The UI
// polls this and merges the result with locally created pending groups.
func (c *Client) ListAlertGroups() ([]AlertGroup, error) {
	data, err := c.get("/api/alert-groups/")
	if err != nil {
		return nil, err
	}
	var resp alertGroupListResponse
	if err := decode(data, &resp); err != nil {
		return nil, err
	}
	return resp.Groups, nil
}

// CreateAlertInput carries one alert form submission.
type CreateAlertInput struct {
	Type      string   `json:"type"`
	ItemIDs   []ItemID `json:"item_ids"`
	Group     string   `json:"group,omitempty"`
	Threshold string   `json:"threshold,omitempty"`
}

type createAlertResponse struct {
	ID int `json:"id"`
}

// CreateAlert submits a new price alert. The item list must be non-empty;
// that is validated client-side before the request goes out.
func (c *Client) CreateAlert(input CreateAlertInput) (int, error) {
	if len(input.ItemIDs) == 0 {
		return 0, &ValidationError{Reason: "alert needs at least one item"}
	}
	input.Group = strings.TrimSpace(input.Group)

	data, err := c.post("/api/alerts/create/", input)
	if err != nil {
		return 0, err
	}
	var resp createAlertResponse
	if err := decode(data, &resp); err != nil {
		return 0, err
	}
	return resp.ID, nil
}
