package cli

import (
	"fmt"

	"github.com/mattn/go-runewidth"

	"github.com/Makepad-fr/shoplist/internal/model"
	"github.com/Makepad-fr/shoplist/internal/ui"
)

const maxLabelWidth = 80

// listLines renders the view for `ls`. Indexes are positions in the full
// list so they stay valid for rm/edit while a filter is active.
func listLines(items []model.Item, filter string) []string {
	t := ui.Current()
	total, shown := len(items), model.Shown(items)

	header := fmt.Sprintf("%s  %s %d",
		ui.C(t.Title, "Shopping List"),
		ui.C(t.Accent, "Total"), total,
	)
	lines := []string{header}
	if filter != "" {
		lines = append(lines, ui.C(t.Muted, fmt.Sprintf("filter %q  %s", filter, ui.ProgressBar(shown, total, 20))))
	}
	lines = append(lines, "")

	if shown == 0 {
		lines = append(lines, ui.C(t.Muted, "no items"))
	}
	for i, it := range items {
		if it.Hidden {
			continue
		}
		mark := t.Bullet
		if it.Editing {
			mark = t.Editing
		}
		label := runewidth.Truncate(it.Label, maxLabelWidth, "...")
		lines = append(lines, fmt.Sprintf("%s %s %s",
			ui.Dim(fmt.Sprintf("%2d.", i+1)), ui.C(t.Muted, mark), label))
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(t.Muted, "Tip: add with `shoplist add \"Oat milk\"`"))
	return lines
}
