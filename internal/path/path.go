// Package path is the per-derivation working state and the path-expander
// operation: depth-first creation of new paths from a parent path and a
// candidate rule, threading the continuation machine, the semantic
// reduction list, the person-number list, and the conjugator.
package path

import (
	"github.com/dekarrin/unambig/internal/conjugate"
	"github.com/dekarrin/unambig/internal/contlist"
	"github.com/dekarrin/unambig/internal/grammar"
	"github.com/dekarrin/unambig/internal/pnlist"
	"github.com/dekarrin/unambig/internal/semlist"
)

// Outcome reports whether CreatePath produced a new path or the candidate
// rule must be discarded (an illegal semantic merge/reduction).
type Outcome int

const (
	// OK means a new Path was produced.
	OK Outcome = iota
	// Discard means the rule application is illegal; drop this branch.
	Discard
)

// Path is one derivation-in-progress below a chosen root nonterminal.
type Path struct {
	// CurSym is the next nonterminal to expand, or nil when the path has
	// reached a terminal frontier (invariant 1: CurSym == nil &&
	// NextItemList == nil means the path is complete).
	CurSym *string

	// GramProps is the grammatical-property triple inherited from the
	// most recent nonterminal rule, governing the very next terminal
	// rule taken under CurSym.
	GramProps *grammar.GramProps

	NextItemList     *contlist.Item
	SemanticList     *semlist.Frame
	PersonNumberList *pnlist.Entry

	// Text is the ordered sequence of surface items accumulated so far.
	// It is copy-on-write: no path mutates a Text slice it inherited.
	Text []grammar.TextValue

	// Terminals is the space-prefixed concatenation of terminal symbols
	// emitted so far — the bucket equivalence key.
	Terminals string

	// SymCount is the number of grammar symbols consumed, compared
	// against the tree-symbol budget.
	SymCount int

	// Rule and Prev form the back-pointer chain used only to reconstruct
	// parse trees on report.
	Rule *grammar.Rule
	Prev *Path
}

// Root builds the synthetic root path for nonterminal n: cur_sym = n,
// rule = {rhs: [n]}, sym_count = 1.
func Root(n string) *Path {
	rootRule := &grammar.Rule{RHS: []string{n}}
	return &Path{
		CurSym:   &n,
		Rule:     rootRule,
		SymCount: 1,
	}
}

// Complete reports whether p has reached a complete derivation: no
// pending symbol and a fully drained continuation.
func (p *Path) Complete() bool {
	return p.CurSym == nil && p.NextItemList == nil
}

func cloneText(text []grammar.TextValue, extra ...grammar.TextValue) []grammar.TextValue {
	out := make([]grammar.TextValue, len(text), len(text)+len(extra))
	copy(out, text)
	return append(out, extra...)
}

func symCountDelta(r *grammar.Rule) int {
	if r.IsInsertion() {
		return 1
	}
	return len(r.RHS)
}

// CreatePath implements create_path: given the parent path and a
// candidate rule belonging to prev.CurSym, produce the successor path (or
// Discard it).
func CreatePath(prev *Path, r *grammar.Rule) (*Path, Outcome, error) {
	if r.IsTerminal {
		return createTerminalPath(prev, r)
	}
	return createNonterminalPath(prev, r)
}

func createNonterminalPath(prev *Path, r *grammar.Rule) (*Path, Outcome, error) {
	curNextSymCount := contlist.SymCount(prev.NextItemList)
	semList, outcome := semlist.AppendSemantic(prev.SemanticList, *r, curNextSymCount)
	if outcome == semlist.Discard {
		return nil, Discard, nil
	}

	contSize := -1
	if prev.NextItemList != nil {
		contSize = prev.NextItemList.Size
	}
	pnList := prev.PersonNumberList
	if r.PersonNumber != "" {
		pnList = pnlist.Push(pnList, r.PersonNumber, contSize)
	}

	childSym := r.RHS[0]
	newPath := &Path{
		CurSym:           &childSym,
		GramProps:        r.GramProps,
		SemanticList:     semList,
		PersonNumberList: pnList,
		Text:             prev.Text,
		Terminals:        prev.Terminals,
		SymCount:         prev.SymCount + symCountDelta(r),
		Rule:             r,
		Prev:             prev,
	}

	switch {
	case r.IsInsertion() && *r.InsertedSymIndex == 0:
		resolved, err := conjugate.Resolve(r.Text, pnList, nil, "")
		if err != nil {
			return nil, OK, err
		}
		newPath.Text = cloneText(prev.Text, resolved)
		newPath.NextItemList = prev.NextItemList
	case r.IsInsertion() && *r.InsertedSymIndex == 1:
		newPath.NextItemList = contlist.PushText(prev.NextItemList, r.Text)
	case len(r.RHS) == 2:
		newPath.NextItemList = contlist.PushSymbol(prev.NextItemList, r.RHS[1], r.GramProps, r.SecondRHSCanProduceSemantic)
	default:
		newPath.NextItemList = prev.NextItemList
	}

	return newPath, OK, nil
}

func createTerminalPath(prev *Path, r *grammar.Rule) (*Path, Outcome, error) {
	curNextSymCount := contlist.SymCount(prev.NextItemList)
	semList, outcome := semlist.ReduceSemanticTree(prev.SemanticList, curNextSymCount)
	if outcome == semlist.Discard {
		return nil, Discard, nil
	}

	text := prev.Text
	if r.Text.Kind != grammar.TextNone {
		resolved, err := conjugate.Resolve(r.Text, prev.PersonNumberList, prev.GramProps, r.Tense)
		if err != nil {
			return nil, OK, err
		}
		text = cloneText(text, resolved)
	} else if r.IsPlaceholder && prev.CurSym != nil {
		text = cloneText(text, grammar.PlainText(*prev.CurSym))
	}

	drained := contlist.Drain(prev.NextItemList)
	for _, frag := range drained.TextPrefix {
		resolved, err := conjugate.Resolve(frag, prev.PersonNumberList, nil, "")
		if err != nil {
			return nil, OK, err
		}
		text = cloneText(text, resolved)
	}

	newPath := &Path{
		SemanticList:     semList,
		PersonNumberList: prev.PersonNumberList,
		Text:             text,
		Terminals:        prev.Terminals + " " + r.Literal,
		SymCount:         prev.SymCount + 1,
		Rule:             r,
		Prev:             prev,
	}

	if drained.Complete {
		newPath.CurSym = nil
		newPath.GramProps = nil
		newPath.NextItemList = nil
	} else {
		sym := drained.Sym
		newPath.CurSym = &sym
		newPath.GramProps = drained.GramProps
		newPath.NextItemList = drained.Rest
	}

	restSize := 0
	if newPath.NextItemList != nil {
		restSize = newPath.NextItemList.Size
	}
	newPath.PersonNumberList = pnlist.Truncate(newPath.PersonNumberList, restSize)

	return newPath, OK, nil
}
