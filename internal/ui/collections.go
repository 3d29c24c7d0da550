package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/emberline/pricewatch/internal/api"
	"github.com/emberline/pricewatch/internal/selection"
	"github.com/emberline/pricewatch/internal/ui/components"
)

// collectionsView tracks which screen the collections tab shows.
type collectionsView int

const (
	viewCollectionList collectionsView = iota
	viewCollectionCreate
	viewConfirmDelete
	viewPickApplyMode
	viewPickApplyTarget
)

// create-form focus targets.
const (
	createFocusName = iota
	createFocusItems
)

type collectionsLoadedMsg struct {
	cols []api.Collection
}

type collectionsLoadFailedMsg struct {
	err error
}

type collectionCreatedMsg struct {
	col        api.Collection
	applyAfter bool
}

type collectionCreateFailedMsg struct {
	err error
}

type collectionDeletedMsg struct {
	id int
}

type collectionDeleteFailedMsg struct {
	id  int
	err error
}

// applyCollectionMsg asks the app shell to fill an alert form's selection
// from a saved collection. The shell owns the forms, so it does the routing.
type applyCollectionMsg struct {
	collectionID int
	target       alertKind
	mode         selection.Mode
}

// CollectionsModel is the saved-collections tab: listing, creation with an
// inline item picker, deletion with confirmation, and applying a collection
// into one of the alert forms.
type CollectionsModel struct {
	client *api.Client

	view    collectionsView
	cols    []api.Collection
	list    *components.List
	loading bool
	warn    string
	errText string
	width   int

	// create form
	name        textinput.Model
	picker      Picker
	createFocus int
	saving      bool
	applyAfter  bool

	// apply flow state, filled step by step
	applyID   int
	applyName string
	applyMode selection.Mode

	deleteTarget *api.Collection
}

// NewCollectionsModel builds the tab; call Load for the initial fetch.
func NewCollectionsModel(client *api.Client) CollectionsModel {
	name := textinput.New()
	name.Placeholder = "collection name"
	name.Prompt = "> "
	name.CharLimit = 64
	name.Focus()

	return CollectionsModel{
		client: client,
		list:   components.NewList(12),
		name:   name,
		picker: NewPicker(client, selection.NewSet()),
	}
}

// Load fetches the collection list. Failures are soft: the tab shows an
// empty list with a warning instead of blocking the UI.
func (m CollectionsModel) Load() (CollectionsModel, tea.Cmd) {
	m.loading = true
	client := m.client
	return m, func() tea.Msg {
		cols, err := client.ListCollections()
		if err != nil {
			return collectionsLoadFailedMsg{err: err}
		}
		return collectionsLoadedMsg{cols: cols}
	}
}

// Collections returns the last fetched listing.
func (m CollectionsModel) Collections() []api.Collection {
	return m.cols
}

// SetWidth propagates the terminal width for box rendering.
func (m *CollectionsModel) SetWidth(width int) {
	m.width = width
}

func (m CollectionsModel) Update(msg tea.Msg) (CollectionsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case collectionsLoadedMsg:
		m.loading = false
		m.warn = ""
		m.setCollections(msg.cols)
		return m, nil

	case collectionsLoadFailedMsg:
		m.loading = false
		m.setCollections(nil)
		m.warn = "could not load collections: " + msg.err.Error()
		return m, nil

	case collectionCreatedMsg:
		m.saving = false
		m.errText = ""
		m.resetCreateForm()
		m.view = viewCollectionList
		var cmd tea.Cmd
		m, cmd = m.Load()
		if msg.applyAfter {
			m.applyID = msg.col.ID
			m.applyName = msg.col.Name
			m.view = viewPickApplyMode
		}
		return m, cmd

	case collectionCreateFailedMsg:
		m.saving = false
		m.errText = msg.err.Error()
		return m, nil

	case collectionDeletedMsg:
		return m.Load()

	case collectionDeleteFailedMsg:
		if api.IsNotFound(msg.err) {
			// Already gone server-side; refreshing is the fix.
			m.warn = "collection was already deleted"
			return m.Load()
		}
		m.errText = msg.err.Error()
		return m, nil

	case tea.MouseMsg:
		if m.view == viewCollectionCreate {
			var cmd tea.Cmd
			m.picker, cmd = m.picker.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.view == viewCollectionCreate {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m CollectionsModel) handleKey(msg tea.KeyMsg) (CollectionsModel, tea.Cmd) {
	switch m.view {
	case viewCollectionList:
		return m.handleListKey(msg)
	case viewCollectionCreate:
		return m.handleCreateKey(msg)
	case viewConfirmDelete:
		return m.handleConfirmDeleteKey(msg)
	case viewPickApplyMode:
		return m.handlePickModeKey(msg)
	case viewPickApplyTarget:
		return m.handlePickTargetKey(msg)
	}
	return m, nil
}

func (m CollectionsModel) handleListKey(msg tea.KeyMsg) (CollectionsModel, tea.Cmd) {
	switch {
	case isUp(msg):
		m.list.Up()
	case isDown(msg):
		m.list.Down()
	case isKey(msg, "r"):
		return m.Load()
	case isKey(msg, "n"):
		m.view = viewCollectionCreate
		m.errText = ""
		m.createFocus = createFocusName
		m.name.Focus()
	case isKey(msg, "d"):
		if col := m.selectedCollection(); col != nil {
			m.deleteTarget = col
			m.view = viewConfirmDelete
		}
	case isKey(msg, "a"), isEnter(msg):
		if col := m.selectedCollection(); col != nil {
			m.applyID = col.ID
			m.applyName = col.Name
			m.view = viewPickApplyMode
		}
	}
	return m, nil
}

func (m CollectionsModel) handleCreateKey(msg tea.KeyMsg) (CollectionsModel, tea.Cmd) {
	if m.saving {
		return m, nil
	}

	switch {
	case isBack(msg):
		// Let an open dropdown consume the first esc.
		if m.createFocus == createFocusItems && m.picker.Open() {
			var cmd tea.Cmd
			m.picker, cmd = m.picker.Update(msg)
			return m, cmd
		}
		m.resetCreateForm()
		m.view = viewCollectionList
		return m, nil

	case isKey(msg, "ctrl+s"):
		return m.submitCreate(false)

	case isKey(msg, "ctrl+a"):
		return m.submitCreate(true)

	case isForwardTab(msg), isBackTab(msg):
		if m.createFocus == createFocusItems && m.picker.Open() {
			var cmd tea.Cmd
			m.picker, cmd = m.picker.Update(msg)
			return m, cmd
		}
		if m.createFocus == createFocusName {
			m.createFocus = createFocusItems
			m.name.Blur()
		} else {
			m.createFocus = createFocusName
			m.name.Focus()
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.createFocus == createFocusName {
		m.name, cmd = m.name.Update(msg)
	} else {
		m.picker, cmd = m.picker.Update(msg)
	}
	return m, cmd
}

func (m CollectionsModel) handleConfirmDeleteKey(msg tea.KeyMsg) (CollectionsModel, tea.Cmd) {
	switch {
	case isKey(msg, "y"):
		target := m.deleteTarget
		m.deleteTarget = nil
		m.view = viewCollectionList
		if target == nil {
			return m, nil
		}
		client := m.client
		id := target.ID
		return m, func() tea.Msg {
			if err := client.DeleteCollection(id); err != nil {
				return collectionDeleteFailedMsg{id: id, err: err}
			}
			return collectionDeletedMsg{id: id}
		}
	case isKey(msg, "n"), isBack(msg):
		m.deleteTarget = nil
		m.view = viewCollectionList
	}
	return m, nil
}

func (m CollectionsModel) handlePickModeKey(msg tea.KeyMsg) (CollectionsModel, tea.Cmd) {
	switch {
	case isKey(msg, "m"):
		m.applyMode = selection.Merge
		m.view = viewPickApplyTarget
	case isKey(msg, "r"):
		m.applyMode = selection.Replace
		m.view = viewPickApplyTarget
	case isBack(msg):
		m.view = viewCollectionList
	}
	return m, nil
}

func (m CollectionsModel) handlePickTargetKey(msg tea.KeyMsg) (CollectionsModel, tea.Cmd) {
	if isBack(msg) {
		m.view = viewCollectionList
		return m, nil
	}
	for n := 1; n <= 4; n++ {
		if isTab(msg, n) {
			target := alertKind(n - 1)
			id, mode := m.applyID, m.applyMode
			m.view = viewCollectionList
			return m, func() tea.Msg {
				return applyCollectionMsg{collectionID: id, target: target, mode: mode}
			}
		}
	}
	return m, nil
}

// submitCreate validates locally and posts the new collection. With
// applyAfter the created collection immediately enters the apply flow.
func (m CollectionsModel) submitCreate(applyAfter bool) (CollectionsModel, tea.Cmd) {
	name := strings.TrimSpace(m.name.Value())
	items := m.stagedItems()
	if name == "" {
		m.errText = "collection name is required"
		return m, nil
	}
	if len(items) == 0 {
		m.errText = "add at least one item"
		return m, nil
	}

	m.saving = true
	m.errText = ""
	m.applyAfter = applyAfter
	client := m.client
	return m, func() tea.Msg {
		col, err := client.CreateCollection(name, items)
		if err != nil {
			return collectionCreateFailedMsg{err: err}
		}
		return collectionCreatedMsg{col: *col, applyAfter: applyAfter}
	}
}

func (m CollectionsModel) stagedItems() []api.Item {
	staged := m.picker.Selection().Items()
	items := make([]api.Item, len(staged))
	for i, it := range staged {
		items[i] = api.Item{ID: api.ParseItemID(it.ID), Name: it.Name}
	}
	return items
}

func (m *CollectionsModel) setCollections(cols []api.Collection) {
	m.cols = cols
	labels := make([]string, len(cols))
	for i, col := range cols {
		label := fmt.Sprintf("%s (%d items)", components.SanitizeOneLine(col.Name), len(col.ItemIDs))
		labels[i] = components.ClampTextWidth(label, components.BoxContentWidth(m.width))
	}
	m.list.SetItems(labels)
}

func (m CollectionsModel) selectedCollection() *api.Collection {
	idx := m.list.Selected()
	if idx < 0 || idx >= len(m.cols) {
		return nil
	}
	col := m.cols[idx]
	return &col
}

func (m *CollectionsModel) resetCreateForm() {
	m.name.SetValue("")
	m.name.Focus()
	m.createFocus = createFocusName
	m.picker.Selection().ReplaceAll(nil)
	m.applyAfter = false
}

func (m CollectionsModel) View() string {
	switch m.view {
	case viewCollectionCreate:
		return m.viewCreate()
	case viewConfirmDelete:
		name := ""
		if m.deleteTarget != nil {
			name = components.SanitizeOneLine(m.deleteTarget.Name)
		}
		return components.ConfirmDialog("Delete Collection",
			fmt.Sprintf("Delete %q? Existing alerts keep their items.", name))
	case viewPickApplyMode:
		return components.ChoiceDialog(
			fmt.Sprintf("Apply %q", components.SanitizeOneLine(m.applyName)),
			[]string{"m: merge into current selection", "r: replace current selection"})
	case viewPickApplyTarget:
		return components.ChoiceDialog("Apply to which alert?", []string{
			"1: Spike", "2: Spread", "3: Sustained", "4: Threshold"})
	}
	return m.viewList()
}

func (m CollectionsModel) viewList() string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("Saved Collections"))
	b.WriteString("\n")

	switch {
	case m.loading:
		b.WriteString(MutedStyle.Render("Loading..."))
		b.WriteString("\n")
	case len(m.cols) == 0:
		b.WriteString(MutedStyle.Render("No collections yet. Press n to create one."))
		b.WriteString("\n")
	default:
		for rel, label := range m.list.Visible() {
			abs := m.list.RelToAbs(rel)
			if m.list.IsSelected(abs) {
				b.WriteString(SelectedStyle.Render("> " + label))
			} else {
				b.WriteString(NormalStyle.Render("  " + label))
			}
			b.WriteString("\n")
		}
		if col := m.selectedCollection(); col != nil {
			names := make([]string, len(col.Items()))
			for i, item := range col.Items() {
				names[i] = item.Name
			}
			b.WriteString("\n")
			b.WriteString(components.InfoRow("items", strings.Join(names, ", ")))
			b.WriteString("\n")
		}
	}

	if m.warn != "" {
		b.WriteString(WarningStyle.Render(m.warn))
		b.WriteString("\n")
	}
	if m.errText != "" {
		b.WriteString(components.ErrorBox("Error", m.errText, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(MutedStyle.Render("n: new · a/enter: apply · d: delete · r: refresh"))
	return b.String()
}

func (m CollectionsModel) viewCreate() string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("New Collection"))
	b.WriteString("\n")

	b.WriteString(MutedStyle.Render("Name: "))
	b.WriteString(m.name.View())
	b.WriteString("\n\n")

	b.WriteString(m.picker.View())
	b.WriteString("\n")

	staged := m.picker.Selection().Items()
	b.WriteString(MutedStyle.Render(fmt.Sprintf("Items staged: %d", len(staged))))
	b.WriteString("\n\n")

	switch {
	case m.saving:
		b.WriteString(WarningStyle.Render("Saving..."))
	case m.errText != "":
		b.WriteString(ErrorStyle.Render(m.errText))
	default:
		b.WriteString(MutedStyle.Render("tab: switch field · ctrl+s: save · ctrl+a: save and apply · esc: back"))
	}
	return b.String()
}
