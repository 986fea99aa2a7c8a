package tui

import (
	"bytes"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/shoplist/internal/shoplist"
	"github.com/Makepad-fr/shoplist/internal/store"
	"github.com/Makepad-fr/shoplist/internal/store/memstore"
	"github.com/Makepad-fr/shoplist/internal/ui"
	"github.com/Makepad-fr/shoplist/internal/view"
)

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func send(t *testing.T, m modelTUI, msgs ...tea.Msg) modelTUI {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(modelTUI)
		require.True(t, ok)
	}
	return m
}

func setupModel(t *testing.T, labels ...string) (modelTUI, *memstore.Store) {
	t.Helper()
	kv := memstore.New()
	if len(labels) > 0 {
		require.NoError(t, store.SaveLabels(kv, labels))
	}
	m, err := newModel(kv, nil)
	require.NoError(t, err)
	return m, kv
}

func persisted(t *testing.T, kv store.KV) []string {
	t.Helper()
	got, err := store.LoadLabels(kv)
	require.NoError(t, err)
	return got
}

func TestNewModelLoadsStore(t *testing.T) {
	m, _ := setupModel(t, "Eggs", "Milk")
	assert.Len(t, m.list.Items(), 2)
	assert.True(t, m.lv.ControlsVisible())
	assert.Equal(t, focusList, m.focus)
}

func TestAddThroughForm(t *testing.T) {
	m, kv := setupModel(t)
	m = send(t, m, runes("a"), runes("Eggs"), enter)

	assert.Equal(t, []string{"Eggs"}, persisted(t, kv))
	assert.Len(t, m.list.Items(), 1)
	assert.Equal(t, "", m.form.Value())
	assert.Equal(t, focusForm, m.focus)
	assert.False(t, m.statusErr)
}

func TestEmptySubmitShowsWarning(t *testing.T) {
	m, kv := setupModel(t)
	m = send(t, m, runes("a"), enter)

	assert.True(t, m.statusErr)
	assert.Equal(t, shoplist.WarnEmpty, m.status)
	assert.Empty(t, persisted(t, kv))
}

func TestEditReplacesSelected(t *testing.T) {
	m, kv := setupModel(t, "Eggs")
	m = send(t, m, runes("e"))
	assert.Equal(t, view.ModeEdit, m.lv.Mode())
	assert.Equal(t, "Eggs", m.form.Value())
	assert.Contains(t, m.View(), "Update Item")

	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlU}, runes("Bacon"), enter)
	assert.Equal(t, []string{"Bacon"}, persisted(t, kv))
	assert.Equal(t, view.ModeAdd, m.lv.Mode())
	assert.Contains(t, m.View(), "Add Item")
}

func TestEscLeavesEditMode(t *testing.T) {
	m, kv := setupModel(t, "Eggs")
	m = send(t, m, runes("e"), esc)
	assert.Equal(t, view.ModeAdd, m.lv.Mode())
	assert.Equal(t, focusList, m.focus)
	assert.Equal(t, []string{"Eggs"}, persisted(t, kv))
}

func TestRemoveAsksFirst(t *testing.T) {
	m, kv := setupModel(t, "Eggs", "Milk")

	m = send(t, m, runes("d"))
	assert.Equal(t, pendingRemove, m.pending)
	assert.Contains(t, m.View(), shoplist.PromptRemove)

	m = send(t, m, runes("n"))
	assert.Equal(t, pendingNone, m.pending)
	assert.Equal(t, []string{"Eggs", "Milk"}, persisted(t, kv))

	m = send(t, m, runes("d"), runes("y"))
	assert.Equal(t, []string{"Milk"}, persisted(t, kv))
	assert.Len(t, m.list.Items(), 1)
	assert.False(t, m.answer.yes, "answer resets after use")
}

func TestClearAll(t *testing.T) {
	m, kv := setupModel(t, "Eggs", "Milk")
	m = send(t, m, runes("C"), runes("y"))

	assert.Empty(t, m.list.Items())
	assert.False(t, kv.Has(store.ItemsKey))
	assert.False(t, m.lv.ControlsVisible())

	m = send(t, m, runes("C"))
	assert.Equal(t, pendingNone, m.pending, "clear is hidden on an empty list")
}

func TestFilterHidesRows(t *testing.T) {
	m, kv := setupModel(t, "Eggs", "Milk")
	m = send(t, m, runes("/"), runes("EG"))

	require.Len(t, m.list.Items(), 1)
	assert.Equal(t, "Eggs", m.list.Items()[0].(nodeItem).node.Text)
	assert.Equal(t, []string{"Eggs", "Milk"}, persisted(t, kv))

	m = send(t, m, tea.KeyMsg{Type: tea.KeyBackspace}, tea.KeyMsg{Type: tea.KeyBackspace}, enter)
	assert.Len(t, m.list.Items(), 2)
	assert.Equal(t, focusList, m.focus)
}

func TestQuit(t *testing.T) {
	m, _ := setupModel(t)
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestCtrlCQuitsFromInputs(t *testing.T) {
	ctrlC := tea.KeyMsg{Type: tea.KeyCtrlC}

	m, _ := setupModel(t, "Eggs")
	m = send(t, m, runes("a"))
	require.Equal(t, focusForm, m.focus)
	_, cmd := m.Update(ctrlC)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	m, _ = setupModel(t, "Eggs")
	m = send(t, m, runes("/"))
	require.Equal(t, focusFilter, m.focus)
	_, cmd = m.Update(ctrlC)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestQTypesIntoForm(t *testing.T) {
	m, kv := setupModel(t)
	m = send(t, m, runes("a"), runes("q"), enter)
	assert.Equal(t, []string{"q"}, persisted(t, kv))
}

func TestNarrowWindowRenders(t *testing.T) {
	for w := 0; w <= 12; w++ {
		m, _ := setupModel(t, "Eggs", "Milk")
		m = send(t, m, tea.WindowSizeMsg{Width: w, Height: 3})
		assert.NotPanics(t, func() { _ = m.View() }, "width %d", w)
		assert.GreaterOrEqual(t, m.form.Width, 1)
		assert.GreaterOrEqual(t, m.filter.Width, 1)
	}
}

func TestDelegateUsesThemeMarks(t *testing.T) {
	ui.SetTheme("mono")
	t.Cleanup(func() { ui.SetTheme("classic") })

	m, _ := setupModel(t, "Eggs", "Milk")
	m = send(t, m, runes("e"))
	require.Equal(t, view.ModeEdit, m.ctl.Mode())

	var buf bytes.Buffer
	itemDelegate{}.Render(&buf, m.list, 0, m.list.Items()[0])
	assert.Contains(t, buf.String(), "* Eggs")

	buf.Reset()
	itemDelegate{}.Render(&buf, m.list, 1, m.list.Items()[1])
	assert.Contains(t, buf.String(), "- Milk")
}

func TestNewModelMalformedStore(t *testing.T) {
	kv := memstore.New()
	require.NoError(t, kv.Set(store.ItemsKey, "nope"))
	_, err := newModel(kv, nil)
	assert.ErrorIs(t, err, store.ErrMalformed)
}
