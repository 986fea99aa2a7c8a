package model

// Item is one entry on the shopping list as a front end sees it.
// Labels are not unique; the list is ordered by insertion.
type Item struct {
	Label   string
	Hidden  bool // filtered out
	Editing bool // current edit target
}

// Shown counts the items not hidden by a filter.
func Shown(items []Item) int {
	n := 0
	for _, it := range items {
		if !it.Hidden {
			n++
		}
	}
	return n
}
