// Package contlist is the continuation machine: a persistent singly-linked
// list of work still owed by ancestor rules, pending right siblings and
// pending inserted-text frames. Nodes are immutable once published; pushing
// returns a new head that shares its tail with the parent path's list.
package contlist

import "github.com/dekarrin/unambig/internal/grammar"

// Item is one continuation frame: either a pending right-sibling
// nonterminal (IsText false) or a pending inserted-text fragment
// (IsText true).
type Item struct {
	IsText bool

	// Sym is the pending right-sibling symbol. Only meaningful when
	// !IsText.
	Sym string

	// GramProps is the grammatical-property triple that governs this
	// branch's terminal rules. Only meaningful when !IsText.
	GramProps *grammar.GramProps

	// Text is the pending inserted text. Only meaningful when IsText.
	Text grammar.TextValue

	// SymCount is the count of items in the list below this one that can
	// yield semantics.
	SymCount int

	// Size is the total length of the list including this item.
	Size int

	Next *Item
}

func prevCounts(prev *Item) (symCount, size int) {
	if prev == nil {
		return 0, 0
	}
	return prev.SymCount, prev.Size
}

// PushSymbol prepends a pending right-sibling frame. symCanProduceSemantic
// should be the binary rule's SecondRHSCanProduceSemantic flag.
func PushSymbol(prev *Item, sym string, gramProps *grammar.GramProps, symCanProduceSemantic bool) *Item {
	prevSymCount, prevSize := prevCounts(prev)
	delta := 0
	if symCanProduceSemantic {
		delta = 1
	}
	return &Item{
		Sym:       sym,
		GramProps: gramProps,
		SymCount:  prevSymCount + delta,
		Size:      prevSize + 1,
		Next:      prev,
	}
}

// PushText prepends a pending inserted-text frame.
func PushText(prev *Item, text grammar.TextValue) *Item {
	prevSymCount, prevSize := prevCounts(prev)
	return &Item{
		IsText:   true,
		Text:     text,
		SymCount: prevSymCount,
		Size:     prevSize + 1,
		Next:     prev,
	}
}

// Size returns the list's Size field, or 0 for an empty list. Convenience
// accessor for callers that only have the head pointer.
func Size(list *Item) int {
	if list == nil {
		return 0
	}
	return list.Size
}

// SymCount returns the list's SymCount field, or 0 for an empty list.
func SymCount(list *Item) int {
	if list == nil {
		return 0
	}
	return list.SymCount
}

// DrainResult is the outcome of draining a continuation list after a
// terminal rule is applied.
type DrainResult struct {
	// TextPrefix holds the consecutive pending-text frames consumed from
	// the head, in order.
	TextPrefix []grammar.TextValue

	// Complete is true when the list was fully drained (no pending-symbol
	// frame was found).
	Complete bool

	// Sym and GramProps are populated from the first pending-symbol frame
	// reached, when !Complete.
	Sym       string
	GramProps *grammar.GramProps

	// Rest is the continuation list after popping that pending-symbol
	// frame (or nil when Complete).
	Rest *Item
}

// Drain implements the "drain on terminal" operation: consume consecutive
// pending-text frames from the head, stopping at the
// first pending-symbol frame (whose Sym/GramProps become the caller's new
// CurSym/GramProps) or at an empty list (the path is complete).
func Drain(list *Item) DrainResult {
	var res DrainResult
	cur := list
	for cur != nil && cur.IsText {
		res.TextPrefix = append(res.TextPrefix, cur.Text)
		cur = cur.Next
	}
	if cur == nil {
		res.Complete = true
		return res
	}
	res.Sym = cur.Sym
	res.GramProps = cur.GramProps
	res.Rest = cur.Next
	return res
}

// Syms returns the sequence of pending-symbol Sym values in the list,
// ignoring pending-text frames. Used when comparing rightmost symbols
// between two paths.
func Syms(list *Item) []string {
	var out []string
	for cur := list; cur != nil; cur = cur.Next {
		if !cur.IsText {
			out = append(out, cur.Sym)
		}
	}
	return out
}

// SymsEqual reports whether two continuation lists have the same sequence
// of pending-symbol Sym values, ignoring pending-text frames.
func SymsEqual(a, b *Item) bool {
	as, bs := Syms(a), Syms(b)
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}
