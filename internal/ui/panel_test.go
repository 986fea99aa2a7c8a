package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPanelPadsToWidestLine(t *testing.T) {
	SetTheme("mono")
	t.Cleanup(func() { SetTheme("classic") })

	var buf bytes.Buffer
	Panel(&buf, []string{"Eggs", C(fgRed, "Milk and honey")})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "+"+strings.Repeat("-", 16)+"+", lines[0])
	assert.Equal(t, "| Eggs           |", lines[1])
	assert.Equal(t, "| Milk and honey |", lines[2])
}

func TestPanelCountsWideRunes(t *testing.T) {
	SetTheme("mono")
	t.Cleanup(func() { SetTheme("classic") })

	var buf bytes.Buffer
	Panel(&buf, []string{"牛乳", "abcd"})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, "| 牛乳 |", lines[1])
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "█████░░░░░  50%", ProgressBar(1, 2, 10))
	assert.Equal(t, "░░░░░   0%", ProgressBar(0, 0, 1))
}

func TestMonoDisablesColor(t *testing.T) {
	SetTheme("mono")
	t.Cleanup(func() { SetTheme("classic") })
	var buf bytes.Buffer
	OK(&buf, "added")
	assert.Equal(t, "✔ added\n", buf.String())
}

func TestColorForcing(t *testing.T) {
	SetTheme("classic")
	t.Cleanup(func() { SetTheme("classic") })

	SetColorForcing(true, false)
	assert.Equal(t, fgRed+"x"+reset, C(fgRed, "x"))

	SetColorForcing(true, true)
	assert.Equal(t, "x", C(fgRed, "x"))

	SetColorForcing(true, false)
	SetTheme("classic")
	assert.False(t, forceColor, "SetTheme resets forcing")
}
