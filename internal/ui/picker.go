package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/emberline/pricewatch/internal/api"
	"github.com/emberline/pricewatch/internal/selection"
	"github.com/emberline/pricewatch/internal/ui/components"
)

// pickerState tracks the autocomplete dropdown lifecycle.
type pickerState int

const (
	pickerIdle     pickerState = iota // no dropdown
	pickerQuerying                    // search in flight
	pickerShowing                     // dropdown visible
)

// minQueryLen is the shortest query the search endpoint accepts.
const minQueryLen = 2

// pickerResultsMsg delivers search results to the picker that asked for them.
// seq and query pin the response to the exact request: anything issued before
// the picker's current sequence is stale and dropped on arrival.
type pickerResultsMsg struct {
	owner int
	seq   int
	query string
	items []api.Item
}

// pickerSearchFailedMsg reports a failed search; the dropdown fails soft.
type pickerSearchFailedMsg struct {
	owner int
	seq   int
	err   error
}

// itemCommittedMsg is emitted when a candidate lands in the selection.
type itemCommittedMsg struct {
	item selection.Item
}

// duplicateItemMsg is emitted when a commit targeted an already-selected id.
type duplicateItemMsg struct {
	name string
}

// itemPoppedMsg is emitted by the backspace pop-last shortcut.
type itemPoppedMsg struct {
	item selection.Item
}

var pickerSerial int

// Picker drives one item-search input: query text, the suggestion dropdown
// and its keyboard/mouse navigation, committing candidates into the
// associated selection set. One Picker per selection context.
type Picker struct {
	client *api.Client
	sel    *selection.Set

	owner       int
	seq         int
	query       string
	state       pickerState
	candidates  []api.Item
	highlighted int // -1 means none
	panelOpen   bool

	// originRow anchors mouse hit-testing: the parent places the query line
	// at this absolute row, candidate i renders at originRow+1+i.
	originRow int
	width     int
}

// NewPicker builds a picker committing into the given selection set.
func NewPicker(client *api.Client, sel *selection.Set) Picker {
	pickerSerial++
	return Picker{
		client:      client,
		sel:         sel,
		owner:       pickerSerial,
		highlighted: -1,
	}
}

// Selection exposes the set the picker commits into.
func (p Picker) Selection() *selection.Set {
	return p.sel
}

// Open reports whether the dropdown is visible.
func (p Picker) Open() bool {
	return p.state == pickerShowing
}

// SetOrigin anchors the picker's first rendered row for mouse hit-testing.
func (p *Picker) SetOrigin(row int) {
	p.originRow = row
}

func (p Picker) Update(msg tea.Msg) (Picker, tea.Cmd) {
	switch msg := msg.(type) {
	case pickerResultsMsg:
		if msg.owner != p.owner {
			return p, nil
		}
		if msg.seq != p.seq || msg.query != p.query {
			// Superseded query; drop unconditionally.
			return p, nil
		}
		candidates := p.filterSelected(msg.items)
		if len(candidates) == 0 {
			p.state = pickerIdle
			p.candidates = nil
			p.highlighted = -1
			return p, nil
		}
		p.state = pickerShowing
		p.candidates = candidates
		p.highlighted = -1
		return p, nil

	case pickerSearchFailedMsg:
		if msg.owner != p.owner || msg.seq != p.seq {
			return p, nil
		}
		p.state = pickerIdle
		p.candidates = nil
		p.highlighted = -1
		return p, nil

	case tea.KeyMsg:
		return p.handleKey(msg)

	case tea.MouseMsg:
		return p.handleMouse(msg)
	}
	return p, nil
}

func (p Picker) handleKey(msg tea.KeyMsg) (Picker, tea.Cmd) {
	switch {
	case isBack(msg):
		if p.state != pickerIdle {
			p.closeDropdown()
		}
		return p, nil

	case isDown(msg), isForwardTab(msg):
		if p.state == pickerShowing && len(p.candidates) > 0 {
			p.highlighted = (p.highlighted + 1) % len(p.candidates)
		}
		return p, nil

	case isUp(msg), isBackTab(msg):
		if p.state == pickerShowing && len(p.candidates) > 0 {
			p.highlighted--
			if p.highlighted < 0 {
				p.highlighted = len(p.candidates) - 1
			}
		}
		return p, nil

	case isEnter(msg):
		if p.state == pickerShowing && p.highlighted >= 0 && p.highlighted < len(p.candidates) {
			return p.commit(p.candidates[p.highlighted])
		}
		// No highlight: swallow the key so it never submits anything.
		return p, nil

	case isKey(msg, "ctrl+u"):
		if p.query != "" {
			p.query = ""
			p.closeDropdown()
			p.seq++
		}
		return p, nil

	case isKey(msg, "backspace", "delete"):
		if p.query == "" {
			if p.state != pickerShowing && p.sel.Len() > 0 {
				item, _ := p.sel.PopLast()
				return p, func() tea.Msg { return itemPoppedMsg{item: item} }
			}
			return p, nil
		}
		runes := []rune(p.query)
		p.query = string(runes[:len(runes)-1])
		return p.refreshSearch()

	default:
		ch := msg.String()
		if len([]rune(ch)) == 1 || ch == " " {
			if ch == " " && p.query == "" {
				return p, nil
			}
			p.query += ch
			return p.refreshSearch()
		}
	}
	return p, nil
}

func (p Picker) handleMouse(msg tea.MouseMsg) (Picker, tea.Cmd) {
	row := msg.Y - p.originRow - 1
	inDropdown := p.state == pickerShowing && row >= 0 && row < len(p.candidates)

	switch msg.Action {
	case tea.MouseActionMotion:
		if inDropdown {
			p.highlighted = row
		}
		return p, nil
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return p, nil
		}
		if inDropdown {
			return p.commit(p.candidates[row])
		}
		// Click outside the widget closes the dropdown and the panel.
		if msg.Y < p.originRow || msg.Y > p.originRow+p.rowCount() {
			p.closeDropdown()
			p.panelOpen = false
		}
		return p, nil
	}
	return p, nil
}

// rowCount is the number of rows the picker currently occupies, starting at
// originRow: the query line plus any visible candidates and panel lines.
func (p Picker) rowCount() int {
	rows := 0
	if p.state == pickerShowing {
		rows += len(p.candidates)
	}
	if p.panelOpen {
		rows += p.sel.Len() + 1
	}
	return rows
}

// refreshSearch reacts to query text changes: short queries drop straight to
// idle and invalidate any in-flight request; longer ones issue a new search.
func (p Picker) refreshSearch() (Picker, tea.Cmd) {
	p.seq++
	q := strings.TrimSpace(p.query)
	if utf8.RuneCountInString(q) < minQueryLen {
		p.state = pickerIdle
		p.candidates = nil
		p.highlighted = -1
		return p, nil
	}
	p.state = pickerQuerying
	owner, seq := p.owner, p.seq
	client := p.client
	return p, func() tea.Msg {
		items, err := client.SearchItems(q)
		if err != nil {
			return pickerSearchFailedMsg{owner: owner, seq: seq, err: err}
		}
		return pickerResultsMsg{owner: owner, seq: seq, query: p.query, items: items}
	}
}

// commit adds the candidate to the selection and resets the input. A
// duplicate id leaves the set untouched but resets the input identically,
// reporting the duplicate for user feedback.
func (p Picker) commit(candidate api.Item) (Picker, tea.Cmd) {
	item := selection.Item{ID: candidate.ID.String(), Name: candidate.Name}
	dup := !p.sel.Add(item)

	p.query = ""
	p.closeDropdown()
	p.seq++

	if dup {
		return p, func() tea.Msg { return duplicateItemMsg{name: item.Name} }
	}
	return p, func() tea.Msg { return itemCommittedMsg{item: item} }
}

func (p *Picker) closeDropdown() {
	p.state = pickerIdle
	p.candidates = nil
	p.highlighted = -1
}

// filterSelected drops candidates already present in the selection.
func (p Picker) filterSelected(items []api.Item) []api.Item {
	out := make([]api.Item, 0, len(items))
	for _, item := range items {
		if p.sel.Contains(item.ID.String()) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// TogglePanel shows or hides the selected-items panel.
func (p *Picker) TogglePanel() {
	p.panelOpen = !p.panelOpen
}

// OpenPanel forces the selected-items panel visible, used as the refresh
// hook after a collection is applied to this picker's selection.
func (p *Picker) OpenPanel() {
	p.panelOpen = true
}

func (p Picker) View() string {
	var b strings.Builder

	b.WriteString(MutedStyle.Render("Item: "))
	b.WriteString("> ")
	b.WriteString(NormalStyle.Render(p.query))
	b.WriteString(AccentStyle.Render("_"))
	b.WriteString("\n")

	switch p.state {
	case pickerQuerying:
		b.WriteString(MutedStyle.Render("  Searching..."))
		b.WriteString("\n")
	case pickerShowing:
		for i, candidate := range p.candidates {
			label := fmt.Sprintf("%s  %s",
				candidateName(candidate),
				MutedStyle.Render(candidate.ID.String()))
			if i == p.highlighted {
				b.WriteString(SelectedStyle.Render("  > " + label))
			} else {
				b.WriteString(NormalStyle.Render("    " + label))
			}
			b.WriteString("\n")
		}
	}

	if p.panelOpen {
		b.WriteString(MutedStyle.Render(fmt.Sprintf("Selected (%d):", p.sel.Len())))
		b.WriteString("\n")
		for _, item := range p.sel.Items() {
			b.WriteString(NormalStyle.Render("  - " + sanitizeName(item.Name)))
			b.WriteString("\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func candidateName(item api.Item) string {
	return sanitizeName(item.Name)
}

func sanitizeName(name string) string {
	return components.SanitizeOneLine(name)
}
