package tui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Makepad-fr/shoplist/internal/shoplist"
	"github.com/Makepad-fr/shoplist/internal/store"
	"github.com/Makepad-fr/shoplist/internal/ui"
	"github.com/Makepad-fr/shoplist/internal/view"
)

// nodeItem adapts a view node to bubbles/list.Item
type nodeItem struct {
	node *view.Node
}

func (i nodeItem) Title() string       { return i.node.Text }
func (i nodeItem) Description() string { return "" }
func (i nodeItem) FilterValue() string { return i.node.Text }

type focusArea int

const (
	focusList focusArea = iota
	focusForm
	focusFilter
)

type pendingAction int

const (
	pendingNone pendingAction = iota
	pendingRemove
	pendingClear
)

// answer is the Confirmer handed to the controller. The TUI asks the
// question itself, records the key, then replays the request.
type answer struct{ yes bool }

func (a *answer) Confirm(string) bool { return a.yes }

// notice collects warnings raised during one controller call.
type notice struct{ msg string }

func (n *notice) Warn(msg string) { n.msg = msg }

type keyMap struct {
	Add, Edit, Remove, Clear, Filter, Quit key.Binding
	// ForceQuit works from every focus, including the text inputs.
	ForceQuit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Add:    key.NewBinding(key.WithKeys("a", "i"), key.WithHelp("a", "add")),
		Edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Remove: key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "remove")),
		Clear:  key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear all")),
		Filter: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Quit:   key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),

		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

type modelTUI struct {
	list   list.Model
	keys   keyMap
	ctl    *shoplist.Controller
	lv     *view.List
	answer *answer
	notice *notice
	log    *zap.Logger

	form   textinput.Model // item input, mirrors lv.Input()
	filter textinput.Model // filter box, only while the list is non-empty
	focus  focusArea

	pending     pendingAction
	pendingNode *view.Node

	status    string
	statusErr bool
	err       error // store fault; ends the program
}

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(nodeItem)
	if !ok {
		return
	}
	t := ui.Current()
	line := mutedStyle.Render(t.Bullet) + " " + it.node.Text
	if it.node.Editing {
		line = editingStyle.Render(t.Editing + " " + it.node.Text)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprint(w, prefix+line)
}

func newModel(kv store.KV, log *zap.Logger) (modelTUI, error) {
	if log == nil {
		log = zap.NewNop()
	}
	lv := view.New()
	ans := &answer{}
	nt := &notice{}
	ctl := shoplist.New(lv, kv,
		shoplist.WithConfirmer(ans),
		shoplist.WithWarner(nt),
		shoplist.WithLogger(log),
	)
	if err := ctl.LoadAll(); err != nil {
		return modelTUI{}, err
	}

	keys := newKeyMap()
	l := list.New(nil, itemDelegate{}, 76, 14)
	l.SetShowTitle(false)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.SetStatusBarItemName("item", "items")
	extra := func() []key.Binding {
		return []key.Binding{keys.Add, keys.Edit, keys.Remove, keys.Clear, keys.Filter}
	}
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	form := textinput.New()
	form.Prompt = "> "
	form.Placeholder = "Enter item"
	form.CharLimit = 200

	filter := textinput.New()
	filter.Prompt = "/ "
	filter.Placeholder = "Filter items"

	m := modelTUI{
		list:   l,
		keys:   keys,
		ctl:    ctl,
		lv:     lv,
		answer: ans,
		notice: nt,
		log:    log,
		form:   form,
		filter: filter,
	}
	m.syncList()
	return m, nil
}

// Run starts the Bubble Tea program over kv. Every change is persisted as
// it happens, so quitting needs no save step.
func Run(kv store.KV, log *zap.Logger) error {
	m, err := newModel(kv, log)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := finalModel.(modelTUI); ok && fm.err != nil {
		return fm.err
	}
	return nil
}

// Update and View implement Bubble Tea's Model on modelTUI
func (m modelTUI) Init() tea.Cmd { return nil }

func (m modelTUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		// textinput panics on widths below 1
		m.list.SetSize(max(ws.Width-4, 1), max(ws.Height-10, 1))
		m.form.Width = max(ws.Width-10, 1)
		m.filter.Width = max(ws.Width-10, 1)
		return m, nil
	}

	km, isKey := msg.(tea.KeyMsg)
	if isKey && key.Matches(km, m.keys.ForceQuit) {
		return m, tea.Quit
	}

	// confirmation prompt
	if m.pending != pendingNone {
		if !isKey {
			return m, nil
		}
		switch km.String() {
		case "y", "Y":
			return m.resolvePending(true)
		case "n", "N", "esc":
			return m.resolvePending(false)
		}
		return m, nil
	}

	switch m.focus {
	case focusForm:
		return m.updateForm(msg)
	case focusFilter:
		return m.updateFilter(msg)
	}

	if isKey {
		switch {
		case key.Matches(km, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(km, m.keys.Add):
			m.focus = focusForm
			m.form.SetValue(m.lv.Input())
			return m, m.form.Focus()
		case key.Matches(km, m.keys.Edit):
			n := m.selected()
			if n == nil {
				return m, nil
			}
			if err := m.ctl.RequestEditItem(n); err != nil {
				m.setStatus(err.Error(), true)
				return m, nil
			}
			m.focus = focusForm
			m.form.SetValue(m.lv.Input())
			m.form.CursorEnd()
			m.syncList()
			return m, m.form.Focus()
		case key.Matches(km, m.keys.Remove):
			if n := m.selected(); n != nil {
				m.pending, m.pendingNode = pendingRemove, n
			}
			return m, nil
		case key.Matches(km, m.keys.Clear):
			if m.lv.ControlsVisible() {
				m.pending = pendingClear
			}
			return m, nil
		case key.Matches(km, m.keys.Filter):
			if m.lv.ControlsVisible() {
				m.focus = focusFilter
				return m, m.filter.Focus()
			}
			return m, nil
		case km.String() == "esc":
			// leaving edit mode is a UI refresh
			m.ctl.RefreshUIState()
			m.form.SetValue("")
			m.syncList()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m modelTUI) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "enter":
			text := m.form.Value()
			m.lv.SetInput(text)
			err := m.ctl.Submit(text)
			m.takeNotice()
			switch {
			case errors.Is(err, shoplist.ErrEmptyLabel):
				return m, nil
			case err != nil:
				return m.fail(err)
			}
			m.setStatus("added "+text, false)
			m.form.SetValue(m.lv.Input())
			m.syncList()
			return m, nil
		case "esc":
			if m.ctl.Mode() == view.ModeEdit {
				m.ctl.RefreshUIState()
			}
			m.form.SetValue(m.lv.Input())
			m.form.Blur()
			m.focus = focusList
			m.syncList()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	m.lv.SetInput(m.form.Value())
	return m, cmd
}

func (m modelTUI) updateFilter(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "enter", "esc":
			m.filter.Blur()
			m.focus = focusList
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.ctl.Filter(m.filter.Value())
	m.syncList()
	return m, cmd
}

func (m modelTUI) resolvePending(yes bool) (tea.Model, tea.Cmd) {
	m.answer.yes = yes
	action, n := m.pending, m.pendingNode
	m.pending, m.pendingNode = pendingNone, nil

	var (
		done bool
		err  error
	)
	switch action {
	case pendingRemove:
		done, err = m.ctl.RequestRemove(n)
		if done {
			m.setStatus("removed "+n.Text, false)
		}
	case pendingClear:
		done, err = m.ctl.ClearAll()
		if done {
			m.setStatus("cleared", false)
		}
	}
	m.answer.yes = false
	if err != nil {
		return m.fail(err)
	}
	if done {
		m.form.SetValue(m.lv.Input())
	}
	m.syncList()
	return m, nil
}

func (m modelTUI) fail(err error) (tea.Model, tea.Cmd) {
	m.log.Error("store fault", zap.Error(err))
	m.err = err
	return m, tea.Quit
}

func (m *modelTUI) takeNotice() {
	if m.notice.msg != "" {
		m.setStatus(m.notice.msg, true)
		m.notice.msg = ""
	}
}

func (m *modelTUI) setStatus(s string, isErr bool) {
	m.status, m.statusErr = s, isErr
}

func (m modelTUI) selected() *view.Node {
	if it, ok := m.list.SelectedItem().(nodeItem); ok {
		return it.node
	}
	return nil
}

// syncList copies the visible nodes into the bubbles list.
func (m *modelTUI) syncList() {
	vis := m.lv.Visible()
	items := make([]list.Item, 0, len(vis))
	for _, n := range vis {
		items = append(items, nodeItem{node: n})
	}
	idx := m.list.Index()
	m.list.SetItems(items)
	if idx >= len(items) {
		idx = len(items) - 1
	}
	if idx >= 0 {
		m.list.Select(idx)
	}
	if !m.lv.ControlsVisible() {
		m.filter.SetValue("")
	}
}

func (m modelTUI) View() string {
	var b strings.Builder

	total, shown := m.lv.Len(), len(m.lv.Visible())
	header := fmt.Sprintf("%s   %s %d", titleStyle.Render("Shopping List"), accentStyle.Render("Total"), total)
	if shown != total {
		header += mutedStyle.Render(fmt.Sprintf("  (showing %d)", shown))
	}
	b.WriteString(header + "\n\n")

	button := addButtonStyle.Render(m.lv.SubmitLabel())
	if m.lv.Mode() == view.ModeEdit {
		button = updateButtonStyle.Render(m.lv.SubmitLabel())
	}
	b.WriteString(m.form.View() + "  " + button + "\n")

	if m.lv.ControlsVisible() {
		b.WriteString(m.filter.View() + "\n")
	}
	b.WriteString("\n")

	if total == 0 {
		b.WriteString(mutedStyle.Render("no items") + "\n")
	} else {
		b.WriteString(m.list.View() + "\n")
	}

	switch m.pending {
	case pendingRemove:
		b.WriteString(warnStyle.Render(shoplist.PromptRemove+" remove "+m.pendingNode.Text+" [y/n]") + "\n")
	case pendingClear:
		b.WriteString(warnStyle.Render(shoplist.PromptClear+" [y/n]") + "\n")
	default:
		if m.status != "" {
			if m.statusErr {
				b.WriteString(errorStyle.Render("✖ "+m.status) + "\n")
			} else {
				b.WriteString(mutedStyle.Render("✔ "+m.status) + "\n")
			}
		}
	}
	return frameStyle.Render(strings.TrimRight(b.String(), "\n"))
}
