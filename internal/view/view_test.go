package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendRemoveByIdentity(t *testing.T) {
	l := New()
	a := l.Append("Eggs")
	b := l.Append("Eggs")
	require.Equal(t, 2, l.Len())

	assert.True(t, l.Remove(b))
	nodes := l.Nodes()
	require.Len(t, nodes, 1)
	assert.Same(t, a, nodes[0])

	assert.False(t, l.Remove(b), "already detached")
}

func TestVisibleSkipsHidden(t *testing.T) {
	l := New()
	l.Append("Eggs")
	m := l.Append("Milk")
	m.Hidden = true

	vis := l.Visible()
	require.Len(t, vis, 1)
	assert.Equal(t, "Eggs", vis[0].Text)
}

func TestAtBounds(t *testing.T) {
	l := New()
	_, err := l.At(0)
	assert.ErrorIs(t, err, ErrUnknownNode)

	n := l.Append("Bread")
	got, err := l.At(0)
	require.NoError(t, err)
	assert.Same(t, n, got)
}

func TestSubmitLabelFollowsMode(t *testing.T) {
	l := New()
	assert.Equal(t, "Add Item", l.SubmitLabel())
	l.SetMode(ModeEdit)
	assert.Equal(t, "Update Item", l.SubmitLabel())
	assert.Equal(t, "edit", l.Mode().String())
}
