// Package view is a headless rendering surface for the shopping list:
// an ordered list of nodes, the item input, the submit-mode indicator and
// the filter/clear controls. Front ends (TUI, CLI) read it back to draw.
package view

import "errors"

var ErrUnknownNode = errors.New("view: node not in list")

// Mode is what the next submit does.
type Mode int

const (
	ModeAdd Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "add"
}

// Node is one rendered entry. Callers hold *Node as a reference, so two
// nodes with the same text are still distinct.
type Node struct {
	Text    string
	Hidden  bool
	Editing bool
}

// List is the in-memory view. The zero value is ready to use.
type List struct {
	nodes    []*Node
	input    string
	mode     Mode
	controls bool
}

func New() *List { return &List{} }

func (l *List) Append(text string) *Node {
	n := &Node{Text: text}
	l.nodes = append(l.nodes, n)
	return n
}

// Remove detaches n. It reports false if n is not a child of l.
func (l *List) Remove(n *Node) bool {
	i := l.IndexOf(n)
	if i < 0 {
		return false
	}
	l.nodes = append(l.nodes[:i], l.nodes[i+1:]...)
	return true
}

// Nodes returns the children in display order. The slice is a copy; the
// nodes are shared.
func (l *List) Nodes() []*Node {
	out := make([]*Node, len(l.nodes))
	copy(out, l.nodes)
	return out
}

// Visible returns the children not hidden by a filter.
func (l *List) Visible() []*Node {
	out := make([]*Node, 0, len(l.nodes))
	for _, n := range l.nodes {
		if !n.Hidden {
			out = append(out, n)
		}
	}
	return out
}

func (l *List) Len() int { return len(l.nodes) }

func (l *List) IndexOf(n *Node) int {
	for i, c := range l.nodes {
		if c == n {
			return i
		}
	}
	return -1
}

// At returns the i-th child (0-based).
func (l *List) At(i int) (*Node, error) {
	if i < 0 || i >= len(l.nodes) {
		return nil, ErrUnknownNode
	}
	return l.nodes[i], nil
}

func (l *List) Input() string         { return l.input }
func (l *List) SetInput(s string)     { l.input = s }
func (l *List) Mode() Mode            { return l.mode }
func (l *List) SetMode(m Mode)        { l.mode = m }
func (l *List) ControlsVisible() bool { return l.controls }
func (l *List) SetControlsVisible(b bool) {
	l.controls = b
}

// SubmitLabel is the text shown on the submit control for the current mode.
func (l *List) SubmitLabel() string {
	if l.mode == ModeEdit {
		return "Update Item"
	}
	return "Add Item"
}
