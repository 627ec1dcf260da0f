package msg

import (
	"fmt"
	"sort"
)

// Bag accumulates findings for one file or one run.
type Bag struct {
	items []Finding
}

// NewBag creates an empty bag with room for n findings.
func NewBag(n int) *Bag {
	return &Bag{items: make([]Finding, 0, n)}
}

// Add appends a finding.
func (b *Bag) Add(f Finding) {
	b.items = append(b.items, f)
}

// Len returns the number of findings.
func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns a read-only view of the findings.
// Callers must not modify the returned slice.
func (b *Bag) Items() []Finding {
	return b.items
}

// Merge appends the findings of another bag.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.items = append(b.items, other.items...)
}

// Has reports whether any finding of the given category is present.
func (b *Bag) Has(cat Category) bool {
	for i := range b.items {
		if b.items[i].Category == cat {
			return true
		}
	}
	return false
}

// Sort orders findings by path, position, category and id for stable output.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		fi, fj := b.items[i], b.items[j]
		if fi.Path != fj.Path {
			return fi.Path < fj.Path
		}
		if fi.Pos.Line != fj.Pos.Line {
			return fi.Pos.Line < fj.Pos.Line
		}
		if fi.Pos.Col != fj.Pos.Col {
			return fi.Pos.Col < fj.Pos.Col
		}
		if fi.Category != fj.Category {
			return fi.Category < fj.Category
		}
		return fi.MessageID < fj.MessageID
	})
}

// Dedup removes findings sharing id and position.
func (b *Bag) Dedup() {
	seen := make(map[string]bool, len(b.items))
	out := b.items[:0]
	for _, f := range b.items {
		key := fmt.Sprintf("%s:%s:%d:%d", f.MessageID, f.Path, f.Pos.Line, f.Pos.Col)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, f)
	}
	b.items = out
}
