// Package ambiguity is the equivalence comparator and the tree
// reconstruction/diff used to render a trimmed ambiguous pair.
package ambiguity

import (
	"sort"
	"strings"

	"github.com/dekarrin/unambig/internal/grammar"
	"github.com/dekarrin/unambig/internal/path"
	"github.com/dekarrin/unambig/internal/semalg"
)

// Tree is a shallow parse-tree node reconstructed from a path's rule
// lineage.
type Tree struct {
	Symbol           string
	Children         []*Tree
	Text             *string
	Semantic         *string
	InsertedSemantic *string
	IsPlaceholder    bool
	InsertedBlank    bool
}

// Equal reports deep structural equality: same symbol, same text,
// recursively same children. Used both by the tree-diff walk and by
// --find-all's trimmed-tree deduplication.
func (t *Tree) Equal(o *Tree) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Symbol != o.Symbol || t.IsPlaceholder != o.IsPlaceholder || t.InsertedBlank != o.InsertedBlank {
		return false
	}
	if (t.Text == nil) != (o.Text == nil) {
		return false
	}
	if t.Text != nil && *t.Text != *o.Text {
		return false
	}
	if len(t.Children) != len(o.Children) {
		return false
	}
	for i := range t.Children {
		if !t.Children[i].Equal(o.Children[i]) {
			return false
		}
	}
	return true
}

func textValueString(tv grammar.TextValue) string {
	switch tv.Kind {
	case grammar.TextPlain:
		return tv.Plain
	case grammar.TextTable:
		keys := make([]string, 0, len(tv.Table))
		for k := range tv.Table {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+"="+tv.Table[k])
		}
		return "{" + strings.Join(parts, ",") + "}"
	case grammar.TextSequence:
		parts := make([]string, 0, len(tv.Seq))
		for _, e := range tv.Seq {
			parts = append(parts, textValueString(e))
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}

func semanticString(sv grammar.SemanticValue) *string {
	if !sv.Present {
		return nil
	}
	var s string
	if sv.IsRHS {
		s = semalg.ToString(sv.RHS)
	} else {
		s = semalg.ToString([]semalg.Node{sv.LHS})
	}
	return &s
}

// Reconstruct rebuilds the shallow parse tree for a complete path by
// walking its Prev lineage: read from the leaf backward, it is exactly
// the postfix order a shift-reduce stack machine expects — terminal
// rules shift a wrapped leaf, binary rules reduce two, unary nonterminal
// rules reduce one, insertion rules reduce one and attach the inserted
// text on the correct side.
func Reconstruct(p *path.Path) *Tree {
	var stack []*Tree
	for cur := p; cur != nil && cur.Prev != nil; cur = cur.Prev {
		r := cur.Rule
		owning := ""
		if cur.Prev.CurSym != nil {
			owning = *cur.Prev.CurSym
		}

		switch {
		case r.IsTerminal:
			leaf := &Tree{Symbol: r.Literal, IsPlaceholder: r.IsPlaceholder}
			if r.Text.Kind != grammar.TextNone {
				txt := textValueString(r.Text)
				leaf.Text = &txt
			}
			node := &Tree{Symbol: owning, Children: []*Tree{leaf}, IsPlaceholder: r.IsPlaceholder}
			stack = append(stack, node)

		case r.IsInsertion():
			if len(stack) == 0 {
				continue
			}
			child := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			txt := textValueString(r.Text)
			textLeaf := &Tree{Text: &txt}
			var children []*Tree
			if *r.InsertedSymIndex == 0 {
				children = []*Tree{textLeaf, child}
			} else {
				children = []*Tree{child, textLeaf}
			}
			node := &Tree{
				Symbol:           owning,
				Children:         children,
				Semantic:         semanticString(r.Semantic),
				InsertedSemantic: semanticString(r.InsertedSemantic),
				InsertedBlank:    *r.InsertedSymIndex == 1 && len(r.RHS) == 2,
			}
			stack = append(stack, node)

		case len(r.RHS) == 2:
			if len(stack) < 2 {
				continue
			}
			c1 := stack[len(stack)-1]
			c2 := stack[len(stack)-2]
			stack = stack[:len(stack)-2]
			node := &Tree{
				Symbol:           owning,
				Children:         []*Tree{c1, c2},
				Semantic:         semanticString(r.Semantic),
				InsertedSemantic: semanticString(r.InsertedSemantic),
			}
			stack = append(stack, node)

		default:
			if len(stack) == 0 {
				continue
			}
			child := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			node := &Tree{
				Symbol:   owning,
				Children: []*Tree{child},
				Semantic: semanticString(r.Semantic),
			}
			stack = append(stack, node)
		}
	}

	if len(stack) != 1 {
		if len(stack) == 0 {
			return nil
		}
		return stack[len(stack)-1]
	}
	return stack[0]
}

// rightmostSpine returns the nodes from root to rightmost leaf, always
// descending into the last child.
func rightmostSpine(t *Tree) []*Tree {
	if t == nil {
		return nil
	}
	spine := []*Tree{t}
	cur := t
	for len(cur.Children) > 0 {
		cur = cur.Children[len(cur.Children)-1]
		spine = append(spine, cur)
	}
	return spine
}

// Diff trims two ambiguous trees to their point of difference: invert
// both trees to their rightmost spines, walk from the leaf upward while
// corresponding ancestor pairs are node-equal, and at the first differing
// pair trim the last child from each side, removing the
// confirmed-identical common rightmost tail while preserving the
// differing context. A second Diff call on the result is a no-op: having
// already trimmed the common tail, the new leaf-rank comparison either
// finds a genuine difference immediately or reaches a childless leaf,
// where trimming is a no-op.
func Diff(t1, t2 *Tree) {
	s1 := rightmostSpine(t1)
	s2 := rightmostSpine(t2)

	minLen := len(s1)
	if len(s2) < minLen {
		minLen = len(s2)
	}

	for i := 0; i < minLen; i++ {
		rank1 := s1[len(s1)-1-i]
		rank2 := s2[len(s2)-1-i]
		if !rank1.Equal(rank2) {
			trimLastChild(rank1)
			trimLastChild(rank2)
			return
		}
	}
}

func trimLastChild(t *Tree) {
	if t == nil || len(t.Children) == 0 {
		return
	}
	t.Children = t.Children[:len(t.Children)-1]
}
