// Package shoplist holds the list controller: it owns the item labels,
// mirrors them into a view and into a durable store, answers filter
// queries, and runs the add/edit form state machine. It knows nothing
// about terminals; front ends drive it with method calls.
package shoplist

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Makepad-fr/shoplist/internal/model"
	"github.com/Makepad-fr/shoplist/internal/store"
	"github.com/Makepad-fr/shoplist/internal/view"
)

// ErrEmptyLabel is returned by Submit for empty input.
var ErrEmptyLabel = errors.New("shoplist: empty item")

// User-facing strings, exported so front ends and tests can match them.
const (
	WarnEmpty    = "Please add an item"
	PromptRemove = "Are you sure?"
	PromptClear  = "Clear all items?"
)

// View is the rendering surface the controller mirrors into.
type View interface {
	Append(text string) *view.Node
	Remove(n *view.Node) bool
	Nodes() []*view.Node
	Input() string
	SetInput(s string)
	SetMode(m view.Mode)
	SetControlsVisible(visible bool)
}

// Confirmer answers a yes/no question synchronously.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Warner shows a user-facing warning.
type Warner interface {
	Warn(msg string)
}

// WarnFunc adapts a function to Warner.
type WarnFunc func(msg string)

func (f WarnFunc) Warn(msg string) { f(msg) }

type Option func(*Controller)

func WithConfirmer(c Confirmer) Option { return func(ctl *Controller) { ctl.confirm = c } }
func WithWarner(w Warner) Option       { return func(ctl *Controller) { ctl.warn = w } }
func WithLogger(l *zap.Logger) Option  { return func(ctl *Controller) { ctl.log = l } }

// Controller is not safe for concurrent use; every call is expected to
// come from one event loop.
type Controller struct {
	view    View
	kv      store.KV
	confirm Confirmer
	warn    Warner
	log     *zap.Logger

	target *view.Node
}

// New builds a controller. Without WithConfirmer every destructive
// request is declined.
func New(v View, kv store.KV, opts ...Option) *Controller {
	c := &Controller{
		view:    v,
		kv:      kv,
		confirm: ConfirmFunc(func(string) bool { return false }),
		warn:    WarnFunc(func(string) {}),
		log:     zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	c.log = c.log.Named("shoplist")
	return c
}

// LoadAll rebuilds the view from the persisted list.
func (c *Controller) LoadAll() error {
	labels, err := store.LoadLabels(c.kv)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	for _, n := range c.view.Nodes() {
		c.view.Remove(n)
	}
	for _, l := range labels {
		c.view.Append(l)
	}
	c.log.Debug("loaded", zap.Int("count", len(labels)))
	c.RefreshUIState()
	return nil
}

// Submit adds text as a new item. In edit mode the edit target is
// removed first, so the new label lands at the end of the list.
func (c *Controller) Submit(text string) error {
	if text == "" {
		c.log.Info("rejected empty submit")
		c.warn.Warn(WarnEmpty)
		return ErrEmptyLabel
	}

	if t := c.target; t != nil {
		c.view.Remove(t)
		c.target = nil
		if _, err := store.RemoveFirstLabel(c.kv, t.Text); err != nil {
			return fmt.Errorf("replace %q: %w", t.Text, err)
		}
		c.log.Debug("replaced", zap.String("old", t.Text), zap.String("label", text))
	}

	c.view.Append(text)
	if err := store.AppendLabel(c.kv, text); err != nil {
		return fmt.Errorf("add %q: %w", text, err)
	}
	c.log.Debug("added", zap.String("label", text))
	c.view.SetInput("")
	c.RefreshUIState()
	return nil
}

// RequestRemove deletes n after confirmation. The persisted entry removed
// is the first one whose label equals n's text, which is not necessarily
// n's own position when labels repeat.
func (c *Controller) RequestRemove(n *view.Node) (bool, error) {
	if !c.has(n) {
		return false, view.ErrUnknownNode
	}
	if !c.confirm.Confirm(PromptRemove) {
		c.log.Info("remove declined", zap.String("label", n.Text))
		return false, nil
	}
	c.view.Remove(n)
	if n == c.target {
		c.target = nil
	}
	if _, err := store.RemoveFirstLabel(c.kv, n.Text); err != nil {
		return true, fmt.Errorf("remove %q: %w", n.Text, err)
	}
	c.log.Debug("removed", zap.String("label", n.Text))
	c.RefreshUIState()
	return true, nil
}

// RequestEditItem makes n the edit target and pre-fills the input.
func (c *Controller) RequestEditItem(n *view.Node) error {
	if !c.has(n) {
		return view.ErrUnknownNode
	}
	for _, o := range c.view.Nodes() {
		o.Editing = false
	}
	n.Editing = true
	c.target = n
	c.view.SetMode(view.ModeEdit)
	c.view.SetInput(n.Text)
	c.log.Debug("editing", zap.String("label", n.Text))
	return nil
}

// ClearAll empties the view and deletes the persisted key after
// confirmation.
func (c *Controller) ClearAll() (bool, error) {
	if !c.confirm.Confirm(PromptClear) {
		c.log.Info("clear declined")
		return false, nil
	}
	nodes := c.view.Nodes()
	for _, n := range nodes {
		c.view.Remove(n)
	}
	c.target = nil
	if err := store.ClearLabels(c.kv); err != nil {
		return true, fmt.Errorf("clear: %w", err)
	}
	c.log.Debug("cleared", zap.Int("count", len(nodes)))
	c.RefreshUIState()
	return true, nil
}

// Filter hides every node whose text does not contain query,
// case-insensitively. The store is not touched.
func (c *Controller) Filter(query string) {
	q := strings.ToLower(query)
	for _, n := range c.view.Nodes() {
		n.Hidden = !strings.Contains(strings.ToLower(n.Text), q)
	}
}

// RefreshUIState shows the filter and clear controls iff the list is
// non-empty, and drops back to add mode with an empty input.
func (c *Controller) RefreshUIState() {
	nodes := c.view.Nodes()
	c.view.SetControlsVisible(len(nodes) > 0)
	for _, n := range nodes {
		n.Editing = false
	}
	c.target = nil
	c.view.SetMode(view.ModeAdd)
	c.view.SetInput("")
}

func (c *Controller) Mode() view.Mode {
	if c.target != nil {
		return view.ModeEdit
	}
	return view.ModeAdd
}

func (c *Controller) EditTarget() *view.Node { return c.target }

// Labels returns the view's labels in display order.
func (c *Controller) Labels() []string {
	nodes := c.view.Nodes()
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Text)
	}
	return out
}

// Items snapshots the view in display order, filter and edit state included.
func (c *Controller) Items() []model.Item {
	nodes := c.view.Nodes()
	out := make([]model.Item, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, model.Item{Label: n.Text, Hidden: n.Hidden, Editing: n.Editing})
	}
	return out
}

// Persisted reads the stored list back.
func (c *Controller) Persisted() ([]string, error) { return store.LoadLabels(c.kv) }

func (c *Controller) has(n *view.Node) bool {
	if n == nil {
		return false
	}
	for _, o := range c.view.Nodes() {
		if o == n {
			return true
		}
	}
	return false
}
