package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/emberline/pricewatch/internal/api"
	"github.com/emberline/pricewatch/internal/groups"
	"github.com/emberline/pricewatch/internal/selection"
)

// alertKind enumerates the alert types the backend accepts, one form tab each.
type alertKind int

const (
	alertSpike alertKind = iota
	alertSpread
	alertSustained
	alertThreshold
)

func (k alertKind) String() string {
	switch k {
	case alertSpike:
		return "Spike"
	case alertSpread:
		return "Spread"
	case alertSustained:
		return "Sustained"
	case alertThreshold:
		return "Threshold"
	}
	return "Unknown"
}

// apiType is the wire name the create endpoint expects for this kind.
func (k alertKind) apiType() string {
	switch k {
	case alertSpike:
		return "spike"
	case alertSpread:
		return "spread"
	case alertSustained:
		return "sustained"
	case alertThreshold:
		return "threshold"
	}
	return ""
}

// form focus targets, cycled with tab when the dropdown is closed.
const (
	focusItems = iota
	focusThreshold
	focusGroup
	focusCount
)

// alertSavedMsg reports a successful alert creation.
type alertSavedMsg struct {
	kind alertKind
	id   int
}

// alertSaveFailedMsg reports a failed alert creation.
type alertSaveFailedMsg struct {
	kind alertKind
	err  error
}

// AlertFormModel is one alert-creation tab: an item picker, a threshold
// input, and a group input backed by the shared group registry.
type AlertFormModel struct {
	client   *api.Client
	registry *groups.Registry
	kind     alertKind

	picker    Picker
	threshold textinput.Model
	group     textinput.Model

	focus   int
	saving  bool
	errText string
}

// NewAlertFormModel builds the form for one alert kind.
func NewAlertFormModel(client *api.Client, registry *groups.Registry, kind alertKind) AlertFormModel {
	threshold := textinput.New()
	threshold.Placeholder = "e.g. 12.50"
	threshold.Prompt = "> "
	threshold.CharLimit = 32

	group := textinput.New()
	group.Placeholder = "optional group"
	group.Prompt = "> "
	group.CharLimit = 64

	return AlertFormModel{
		client:    client,
		registry:  registry,
		kind:      kind,
		picker:    NewPicker(client, selection.NewSet()),
		threshold: threshold,
		group:     group,
	}
}

// Kind returns the alert type this form creates.
func (m AlertFormModel) Kind() alertKind {
	return m.kind
}

// SelectedItems returns the items currently staged on this form.
func (m AlertFormModel) SelectedItems() []selection.Item {
	return m.picker.Selection().Items()
}

// ApplyCollection merges or replaces the form's selection with a saved
// collection's items and reveals the selected-items panel so the result is
// visible. Returns how many items were actually new.
func (m *AlertFormModel) ApplyCollection(items []selection.Item, mode selection.Mode) int {
	_, added := selection.Apply(m.picker.Selection(), items, mode)
	m.picker.OpenPanel()
	return added
}

// SetOrigin anchors the form's picker for mouse hit-testing.
func (m *AlertFormModel) SetOrigin(row int) {
	m.picker.SetOrigin(row)
}

func (m AlertFormModel) Update(msg tea.Msg) (AlertFormModel, tea.Cmd) {
	switch msg := msg.(type) {
	case alertSavedMsg:
		if msg.kind != m.kind {
			return m, nil
		}
		m.saving = false
		m.errText = ""
		// The server accepted the alert, so a new group name now exists
		// server-side; track it as pending until a poll reports it. A
		// duplicate just means the group was already known.
		if name := strings.TrimSpace(m.group.Value()); name != "" {
			m.registry.Register(name)
		}
		m.picker.Selection().ReplaceAll(nil)
		m.threshold.SetValue("")
		m.group.SetValue("")
		return m, nil

	case alertSaveFailedMsg:
		if msg.kind != m.kind {
			return m, nil
		}
		m.saving = false
		m.errText = msg.err.Error()
		return m, nil

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Async picker results flow through regardless of focus.
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func (m AlertFormModel) handleKey(msg tea.KeyMsg) (AlertFormModel, tea.Cmd) {
	if m.saving {
		return m, nil
	}

	switch {
	case isKey(msg, "ctrl+s"):
		return m.submit()

	case isKey(msg, "ctrl+p"):
		m.picker.TogglePanel()
		return m, nil

	case isForwardTab(msg), isBackTab(msg):
		// With the dropdown open, tab navigates candidates instead of fields.
		if m.focus == focusItems && m.picker.Open() {
			var cmd tea.Cmd
			m.picker, cmd = m.picker.Update(msg)
			return m, cmd
		}
		if isForwardTab(msg) {
			m.focus = (m.focus + 1) % focusCount
		} else {
			m.focus--
			if m.focus < 0 {
				m.focus = focusCount - 1
			}
		}
		m.syncFocus()
		return m, nil
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusItems:
		m.picker, cmd = m.picker.Update(msg)
	case focusThreshold:
		m.threshold, cmd = m.threshold.Update(msg)
	case focusGroup:
		m.group, cmd = m.group.Update(msg)
	}
	return m, cmd
}

func (m *AlertFormModel) syncFocus() {
	m.threshold.Blur()
	m.group.Blur()
	switch m.focus {
	case focusThreshold:
		m.threshold.Focus()
	case focusGroup:
		m.group.Focus()
	}
}

// submit validates the form locally and fires the create request. A new
// group name is not registered until the server accepts the alert; a failed
// write must leave local state untouched.
func (m AlertFormModel) submit() (AlertFormModel, tea.Cmd) {
	items := m.picker.Selection().Items()
	if len(items) == 0 {
		m.errText = "add at least one item"
		return m, nil
	}

	groupName := strings.TrimSpace(m.group.Value())

	ids := make([]api.ItemID, len(items))
	for i, item := range items {
		ids[i] = api.ParseItemID(item.ID)
	}
	input := api.CreateAlertInput{
		Type:      m.kind.apiType(),
		ItemIDs:   ids,
		Group:     groupName,
		Threshold: strings.TrimSpace(m.threshold.Value()),
	}

	m.saving = true
	m.errText = ""
	kind := m.kind
	client := m.client
	return m, func() tea.Msg {
		id, err := client.CreateAlert(input)
		if err != nil {
			return alertSaveFailedMsg{kind: kind, err: err}
		}
		return alertSavedMsg{kind: kind, id: id}
	}
}

func (m AlertFormModel) View() string {
	var b strings.Builder

	b.WriteString(HeaderStyle.Render(fmt.Sprintf("New %s Alert", m.kind)))
	b.WriteString("\n")

	b.WriteString(m.picker.View())
	b.WriteString("\n\n")

	b.WriteString(MutedStyle.Render("Threshold: "))
	b.WriteString(m.threshold.View())
	b.WriteString("\n")

	b.WriteString(MutedStyle.Render("Group:     "))
	b.WriteString(m.group.View())
	b.WriteString("\n")

	if names := m.registry.Names(); len(names) > 0 {
		b.WriteString(MutedStyle.Render("  known: " + strings.Join(names, ", ")))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.saving:
		b.WriteString(WarningStyle.Render("Saving..."))
	case m.errText != "":
		b.WriteString(ErrorStyle.Render(m.errText))
	default:
		b.WriteString(MutedStyle.Render("tab: next field · ctrl+s: save · ctrl+p: selected items"))
	}

	return b.String()
}
