package ui

import (
	"net/http"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberline/pricewatch/internal/api"
	"github.com/emberline/pricewatch/internal/config"
	"github.com/emberline/pricewatch/internal/selection"
)

func newTestApp(t *testing.T, handler http.HandlerFunc) App {
	t.Helper()
	_, client := testClient(t, handler)
	return NewApp(client, config.Config{PollSecs: 30})
}

func updateApp(t *testing.T, m App, msg tea.Msg) (App, tea.Cmd) {
	t.Helper()
	model, cmd := m.Update(msg)
	return model.(App), cmd
}

func TestAppDigitsSwitchTabsWhenIdle(t *testing.T) {
	m := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {})

	m, _ = updateApp(t, m, keyMsg("3"))
	assert.Equal(t, tabSustained, m.tab)

	m, _ = updateApp(t, m, keyMsg("5"))
	assert.Equal(t, tabCollections, m.tab)

	m, _ = updateApp(t, m, keyMsg("1"))
	assert.Equal(t, tabSpike, m.tab)
}

func TestAppDigitsReachFocusedInput(t *testing.T) {
	m := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {})

	// Move focus to the threshold field, then type a number.
	m, _ = updateApp(t, m, keyMsg("tab"))
	require.Equal(t, focusThreshold, m.forms[tabSpike].focus)

	m, _ = updateApp(t, m, keyMsg("4"))
	assert.Equal(t, tabSpike, m.tab)
	assert.Equal(t, "4", m.forms[tabSpike].threshold.Value())
}

func TestAppGroupPollMergesIntoRegistry(t *testing.T) {
	m := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := m.registry.Register("Metals")
	require.NoError(t, err)

	m, cmd := updateApp(t, m, groupsPolledMsg{groups: []api.AlertGroup{
		{ID: "11", Name: "Gems"},
	}})
	require.NotNil(t, cmd) // next poll scheduled

	names := m.registry.Names()
	assert.Equal(t, []string{"Gems", "Metals"}, names)
	// Still pending: the server has not reported it yet.
	require.Len(t, m.registry.Pending(), 1)

	m, _ = updateApp(t, m, groupsPolledMsg{groups: []api.AlertGroup{
		{ID: "11", Name: "Gems"},
		{ID: "12", Name: "Metals"},
	}})
	assert.Empty(t, m.registry.Pending())
}

func TestAppApplyCollectionFillsTargetForm(t *testing.T) {
	m := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {})
	m, _ = updateApp(t, m, collectionsLoadedMsg{cols: []api.Collection{{
		ID:        3,
		Name:      "Metals",
		ItemIDs:   []api.ItemID{"1", "2"},
		ItemNames: []string{"Coal", "Iron"},
	}}})

	m.forms[tabSpread].picker.Selection().Add(selection.Item{ID: "1", Name: "Coal"})

	m, cmd := updateApp(t, m, applyCollectionMsg{
		collectionID: 3,
		target:       alertSpread,
		mode:         selection.Merge,
	})
	require.NotNil(t, cmd)

	items := m.forms[tabSpread].SelectedItems()
	require.Len(t, items, 2)
	assert.Equal(t, "Coal", items[0].Name)
	assert.Equal(t, "Iron", items[1].Name)

	// The shell jumps to the form that received the items.
	assert.Equal(t, tabSpread, m.tab)
	assert.Contains(t, m.toast, `applied "Metals"`)
	assert.Contains(t, m.toast, "1 added")
}

func TestAppApplyCollectionReplaceMode(t *testing.T) {
	m := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {})
	m, _ = updateApp(t, m, collectionsLoadedMsg{cols: []api.Collection{{
		ID:        3,
		Name:      "Metals",
		ItemIDs:   []api.ItemID{"2"},
		ItemNames: []string{"Iron"},
	}}})
	m.forms[tabSpike].picker.Selection().Add(selection.Item{ID: "1", Name: "Coal"})

	m, _ = updateApp(t, m, applyCollectionMsg{
		collectionID: 3,
		target:       alertSpike,
		mode:         selection.Replace,
	})

	items := m.forms[tabSpike].SelectedItems()
	require.Len(t, items, 1)
	assert.Equal(t, "Iron", items[0].Name)
}

func TestAppApplyStaleCollectionReloadsListing(t *testing.T) {
	listed := 0
	m := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/item-collections/" {
			listed++
			w.Write([]byte(`{"collections":[]}`))
		}
	})

	m, cmd := updateApp(t, m, applyCollectionMsg{
		collectionID: 99,
		target:       alertSpike,
		mode:         selection.Merge,
	})
	assert.Equal(t, "collection no longer exists", m.toast)

	require.NotNil(t, cmd)
	cmd() // batch runs the reload and the toast timer; either order is fine
	assert.Empty(t, m.forms[tabSpike].SelectedItems())
}

func TestAppSearchResultsSurviveTabSwitch(t *testing.T) {
	m := newTestApp(t, itemSearchHandler(t, map[string][]map[string]any{
		"co": {{"id": 1, "name": "Coal"}},
	}))

	var cmds []tea.Cmd
	for _, r := range "co" {
		var cmd tea.Cmd
		m, cmd = updateApp(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		cmds = append(cmds, cmd)
	}
	require.NotNil(t, cmds[1])
	result := cmds[1]()

	// The user flips to another tab before the response lands. Dropdowns are
	// per-form, so the owning form still receives and shows its results.
	m.tab = tabSustained
	m, _ = updateApp(t, m, result)

	assert.True(t, m.forms[tabSpike].picker.Open())
	assert.False(t, m.forms[tabSustained].picker.Open())
}

func TestAppAlertSavedShowsToast(t *testing.T) {
	m := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {})
	m.forms[tabSpike].picker.Selection().Add(selection.Item{ID: "1", Name: "Coal"})

	m, cmd := updateApp(t, m, alertSavedMsg{kind: alertSpike, id: 12})
	require.NotNil(t, cmd)
	assert.Contains(t, m.toast, "Spike alert #12 created")
	assert.Empty(t, m.forms[tabSpike].SelectedItems())
}

func TestAppQuitConfirm(t *testing.T) {
	m := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {})

	m, cmd := updateApp(t, m, keyMsg("q"))
	assert.True(t, m.quitConfirm)
	assert.Nil(t, cmd)

	m, _ = updateApp(t, m, keyMsg("n"))
	assert.False(t, m.quitConfirm)

	m, _ = updateApp(t, m, keyMsg("q"))
	m, cmd = updateApp(t, m, keyMsg("y"))
	require.NotNil(t, cmd)
	_, isQuitMsg := cmd().(tea.QuitMsg)
	assert.True(t, isQuitMsg)
}

func TestAppCtrlCAlwaysQuits(t *testing.T) {
	m := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {})
	// Even while a text field is focused.
	m, _ = updateApp(t, m, keyMsg("tab"))

	_, cmd := updateApp(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	_, isQuitMsg := cmd().(tea.QuitMsg)
	assert.True(t, isQuitMsg)
}

// queryLineRow locates the picker's query line in a rendered frame. Mouse
// hit-testing is row arithmetic against the configured origin, so the two
// must agree exactly or every hover and click lands one row off.
func queryLineRow(t *testing.T, view string) int {
	t.Helper()
	for i, line := range strings.Split(view, "\n") {
		if strings.Contains(line, "Item:") {
			return i
		}
	}
	t.Fatal("no query line in rendered view")
	return -1
}

func TestAppFormMouseAnchorMatchesRenderedRow(t *testing.T) {
	m := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {})
	m, _ = updateApp(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})

	assert.Equal(t, m.forms[tabSpike].picker.originRow, queryLineRow(t, m.View()))

	m, _ = updateApp(t, m, keyMsg("3"))
	assert.Equal(t, m.forms[tabSustained].picker.originRow, queryLineRow(t, m.View()))
}

func TestAppCollectionsCreateMouseAnchorMatchesRenderedRow(t *testing.T) {
	m := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {})
	m, _ = updateApp(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})

	m, _ = updateApp(t, m, keyMsg("5"))
	m, _ = updateApp(t, m, keyMsg("n"))

	assert.Equal(t, m.collections.picker.originRow, queryLineRow(t, m.View()))
}

func TestAppHelpOverlayToggles(t *testing.T) {
	m := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {})

	m, _ = updateApp(t, m, keyMsg("?"))
	assert.True(t, m.helpVisible)
	// Help never leaks the key into the form's search query.
	assert.Empty(t, m.forms[tabSpike].picker.query)

	// Any key dismisses it.
	m, _ = updateApp(t, m, keyMsg("x"))
	assert.False(t, m.helpVisible)
	assert.Empty(t, m.forms[tabSpike].picker.query)
}

func TestAppToastClears(t *testing.T) {
	m := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {})
	m, _ = updateApp(t, m, alertSavedMsg{kind: alertSpread, id: 1})
	require.NotEmpty(t, m.toast)

	m, _ = updateApp(t, m, clearToastMsg{})
	assert.Empty(t, m.toast)
}
