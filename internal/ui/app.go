package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/emberline/pricewatch/internal/api"
	"github.com/emberline/pricewatch/internal/config"
	"github.com/emberline/pricewatch/internal/groups"
	"github.com/emberline/pricewatch/internal/selection"
	"github.com/emberline/pricewatch/internal/ui/components"
)

// tab indices. The first four are alert forms, one per alert kind.
const (
	tabSpike = iota
	tabSpread
	tabSustained
	tabThreshold
	tabCollections
	tabCount
)

var tabTitles = [tabCount]string{"Spike", "Spread", "Sustained", "Threshold", "Collections"}

const toastDuration = 2500 * time.Millisecond

// headerRows is the fixed height above tab content: banner, tab bar, blank.
const headerRows = 3

// contentTopRow is the first row of tab content, below the header and the
// content box's top border and padding row.
const contentTopRow = headerRows + 2

type pollTickMsg struct{}

type groupsPolledMsg struct {
	groups []api.AlertGroup
}

type groupsPollFailedMsg struct {
	err error
}

type clearToastMsg struct{}

// App is the root model: the tab bar, four alert forms sharing one group
// registry, and the collections tab that feeds them.
type App struct {
	client   *api.Client
	cfg      config.Config
	registry *groups.Registry

	tab         int
	forms       [4]AlertFormModel
	collections CollectionsModel

	width       int
	height      int
	toast       string
	quitConfirm bool
	helpVisible bool
}

// NewApp wires the root model.
func NewApp(client *api.Client, cfg config.Config) App {
	registry := groups.NewRegistry()
	app := App{
		client:      client,
		cfg:         cfg,
		registry:    registry,
		collections: NewCollectionsModel(client),
	}
	for i := range app.forms {
		app.forms[i] = NewAlertFormModel(client, registry, alertKind(i))
		// The form title renders two rows (header style pads below), so the
		// picker's query line is the third content row.
		app.forms[i].SetOrigin(contentTopRow + 2)
	}
	// The create view stacks the two-row title, the name field and a blank
	// line above the picker.
	app.collections.picker.SetOrigin(contentTopRow + 4)
	return app
}

func (m App) Init() tea.Cmd {
	client := m.client
	return tea.Batch(
		func() tea.Msg { return pollTickMsg{} },
		func() tea.Msg {
			cols, err := client.ListCollections()
			if err != nil {
				return collectionsLoadFailedMsg{err: err}
			}
			return collectionsLoadedMsg{cols: cols}
		},
		textinput.Blink,
	)
}

func (m App) pollInterval() time.Duration {
	secs := m.cfg.PollSecs
	if secs <= 0 {
		secs = 30
	}
	return time.Duration(secs) * time.Second
}

func (m App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.collections.SetWidth(msg.Width)
		return m, nil

	case clearToastMsg:
		m.toast = ""
		return m, nil

	case pollTickMsg:
		client := m.client
		return m, func() tea.Msg {
			gs, err := client.ListAlertGroups()
			if err != nil {
				return groupsPollFailedMsg{err: err}
			}
			return groupsPolledMsg{groups: gs}
		}

	case groupsPolledMsg:
		server := make([]groups.Group, len(msg.groups))
		for i, g := range msg.groups {
			server[i] = groups.Group{ID: g.ID.String(), Name: g.Name}
		}
		m.registry.SetServer(server)
		return m, m.schedulePoll()

	case groupsPollFailedMsg:
		// Polling is best-effort; keep the last known groups and try again.
		return m, m.schedulePoll()

	case applyCollectionMsg:
		return m.applyCollection(msg)

	case collectionsLoadedMsg, collectionsLoadFailedMsg,
		collectionCreatedMsg, collectionCreateFailedMsg,
		collectionDeletedMsg, collectionDeleteFailedMsg:
		var cmd tea.Cmd
		m.collections, cmd = m.collections.Update(msg)
		return m, cmd

	case alertSavedMsg:
		var cmd tea.Cmd
		m.forms[msg.kind], cmd = m.forms[msg.kind].Update(msg)
		return m, tea.Batch(cmd, m.setToast(fmt.Sprintf("%s alert #%d created", msg.kind, msg.id)))

	case alertSaveFailedMsg:
		var cmd tea.Cmd
		m.forms[msg.kind], cmd = m.forms[msg.kind].Update(msg)
		return m, cmd

	case itemCommittedMsg:
		return m, m.setToast("added " + components.SanitizeOneLine(msg.item.Name))

	case duplicateItemMsg:
		return m, m.setToast(components.SanitizeOneLine(msg.name) + " is already selected")

	case itemPoppedMsg:
		return m, m.setToast("removed " + components.SanitizeOneLine(msg.item.Name))

	case pickerResultsMsg, pickerSearchFailedMsg:
		// Async search results carry an owner id; every picker sees them and
		// all but the owner drop them, so tab switches never strand a result.
		return m.broadcast(msg)

	case tea.MouseMsg:
		return m.routeToActive(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.quitConfirm {
		switch {
		case isKey(msg, "y"):
			return m, tea.Quit
		case isKey(msg, "n"), isBack(msg):
			m.quitConfirm = false
		}
		return m, nil
	}

	if isKey(msg, "ctrl+c") {
		return m, tea.Quit
	}

	if m.helpVisible {
		m.helpVisible = false
		return m, nil
	}

	if !m.activeCapturesText() {
		if isKey(msg, "q") {
			m.quitConfirm = true
			return m, nil
		}
		if isKey(msg, "?") {
			m.helpVisible = true
			return m, nil
		}
		for n := 1; n <= tabCount; n++ {
			if isTab(msg, n) {
				return m.switchTab(n - 1)
			}
		}
	}

	return m.routeToActive(msg)
}

func (m App) switchTab(tab int) (tea.Model, tea.Cmd) {
	if tab == m.tab {
		return m, nil
	}
	m.tab = tab
	if tab == tabCollections {
		var cmd tea.Cmd
		m.collections, cmd = m.collections.Load()
		return m, cmd
	}
	return m, nil
}

// activeCapturesText reports whether the focused widget on the current tab is
// consuming plain keystrokes, in which case digit and letter shortcuts must
// not hijack them.
func (m App) activeCapturesText() bool {
	if m.tab == tabCollections {
		return m.collections.view != viewCollectionList
	}
	form := m.forms[m.tab]
	if form.focus != focusItems {
		return true
	}
	return form.picker.query != "" || form.picker.Open()
}

func (m App) routeToActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.tab == tabCollections {
		m.collections, cmd = m.collections.Update(msg)
	} else {
		m.forms[m.tab], cmd = m.forms[m.tab].Update(msg)
	}
	return m, cmd
}

// broadcast hands a message to every sub-model that might own it.
func (m App) broadcast(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, len(m.forms)+1)
	for i := range m.forms {
		var cmd tea.Cmd
		m.forms[i], cmd = m.forms[i].Update(msg)
		cmds = append(cmds, cmd)
	}
	var cmd tea.Cmd
	m.collections, cmd = m.collections.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// applyCollection resolves a collection id against the last fetched listing
// and fills the target alert form. A stale id means the collection was
// deleted since the listing; reload instead of failing hard.
func (m App) applyCollection(msg applyCollectionMsg) (tea.Model, tea.Cmd) {
	var col *api.Collection
	for i := range m.collections.Collections() {
		if m.collections.Collections()[i].ID == msg.collectionID {
			col = &m.collections.Collections()[i]
			break
		}
	}
	if col == nil {
		var reload tea.Cmd
		m.collections, reload = m.collections.Load()
		return m, tea.Batch(reload, m.setToast("collection no longer exists"))
	}

	apiItems := col.Items()
	items := make([]selection.Item, len(apiItems))
	for i, it := range apiItems {
		items[i] = selection.Item{ID: it.ID.String(), Name: it.Name}
	}
	added := m.forms[msg.target].ApplyCollection(items, msg.mode)

	m.tab = int(msg.target)
	return m, m.setToast(fmt.Sprintf("applied %q to %s (%d added)",
		components.SanitizeOneLine(col.Name), msg.target, added))
}

func (m *App) setToast(text string) tea.Cmd {
	m.toast = text
	return tea.Tick(toastDuration, func(time.Time) tea.Msg { return clearToastMsg{} })
}

func helpText() string {
	rows := []string{
		components.InfoRow("1-4", "alert form tabs"),
		components.InfoRow("5", "saved collections"),
		components.InfoRow("type 2+ chars", "search items"),
		components.InfoRow("up/down, tab", "move highlight"),
		components.InfoRow("enter", "add highlighted item"),
		components.InfoRow("backspace", "remove last item (empty query)"),
		components.InfoRow("ctrl+s", "save"),
		components.InfoRow("ctrl+p", "toggle selected items"),
		components.InfoRow("q", "quit"),
	}
	return strings.Join(rows, "\n")
}

func (m App) schedulePoll() tea.Cmd {
	return tea.Tick(m.pollInterval(), func(time.Time) tea.Msg { return pollTickMsg{} })
}

func (m App) View() string {
	var b strings.Builder

	b.WriteString(BannerStyle.Render("pricewatch"))
	b.WriteString("\n")

	tabs := make([]string, tabCount)
	for i, title := range tabTitles {
		label := fmt.Sprintf("%d %s", i+1, title)
		if i == m.tab {
			tabs[i] = TabActiveStyle.Render(label)
		} else {
			tabs[i] = TabInactiveStyle.Render(label)
		}
	}
	b.WriteString(strings.Join(tabs, " "))
	b.WriteString("\n\n")

	if m.quitConfirm {
		b.WriteString(components.Indent(components.ConfirmDialog("Quit", "Leave pricewatch?"), 2))
		return b.String()
	}
	if m.helpVisible {
		b.WriteString(components.TitledBox("Help", helpText(), m.width))
		return b.String()
	}

	var content string
	if m.tab == tabCollections {
		content = m.collections.View()
	} else {
		content = m.forms[m.tab].View()
	}
	b.WriteString(components.TitledBox(tabTitles[m.tab], content, m.width))

	b.WriteString("\n")
	if m.toast != "" {
		toast := SuccessStyle.Render(components.ClampTextWidth(m.toast, components.BoxContentWidth(m.width)))
		b.WriteString(components.Box(toast, m.width))
		b.WriteString("\n")
	}
	b.WriteString(components.StatusBar([]string{
		components.Hint("1-5", "tabs"),
		components.Hint("tab", "next field"),
		components.Hint("q", "quit"),
	}, m.width))
	return b.String()
}
