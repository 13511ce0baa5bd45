// Package grammar holds the rule and grammar data model for an annotated
// context-free grammar. A Grammar is taken as already-compiled input; the
// construction helpers, entity categories, integer symbols, pruning, and
// edit-rule generation that would normally produce one are external
// collaborators out of scope for this repository.
package grammar

import (
	"sort"

	"github.com/dekarrin/unambig/internal/semalg"
)

// GramProps is the optional {grammatical case, required tense, accepted
// tense} triple carried by a nonterminal rule and applied to the
// conjugation of terminal rules produced below that rule's RHS.
type GramProps struct {
	Case          string
	RequiredTense string
	AcceptedTense string
}

// TextKind tags the shape of a TextValue.
type TextKind int

const (
	// TextNone means no text is attached at all.
	TextNone TextKind = iota
	// TextPlain is a literal string.
	TextPlain
	// TextTable is an inflection-table mapping property name to form.
	TextTable
	// TextSequence is an ordered sequence of TextValue items, produced by
	// a prior insertion.
	TextSequence
)

// TextValue is a tagged union: a terminal rule's text is either a plain
// string, an inflection table, or a sequence of such items.
type TextValue struct {
	Kind  TextKind
	Plain string
	Table map[string]string
	Seq   []TextValue
}

// PlainText builds a TextValue wrapping a literal string.
func PlainText(s string) TextValue { return TextValue{Kind: TextPlain, Plain: s} }

// TableText builds a TextValue wrapping an inflection table.
func TableText(t map[string]string) TextValue { return TextValue{Kind: TextTable, Table: t} }

// SeqText builds a TextValue wrapping an ordered sequence of items.
func SeqText(items ...TextValue) TextValue { return TextValue{Kind: TextSequence, Seq: items} }

// SemanticValue is an attached semantic, either a left-hand-side
// (unreduced) form or a reduced (RHS) form.
type SemanticValue struct {
	Present bool
	IsRHS   bool
	RHS     []semalg.Node
	LHS     semalg.Node
}

// RHSSemantic builds a reduced (RHS) semantic value from one or more nodes.
func RHSSemantic(nodes ...semalg.Node) SemanticValue {
	return SemanticValue{Present: true, IsRHS: true, RHS: nodes}
}

// LHSSemantic builds an unreduced (LHS) semantic value from a single
// under-applied functor node.
func LHSSemantic(n semalg.Node) SemanticValue {
	return SemanticValue{Present: true, IsRHS: false, LHS: n}
}

// Rule is a single right-hand side alternative for some nonterminal.
type Rule struct {
	// IsTerminal is whether this rule's RHS is a literal token.
	IsTerminal bool

	// RHS holds one or two nonterminal symbols for a nonterminal rule. For
	// an insertion rule RHS holds the single symbol of the surviving
	// child; InsertedSymIndex says which side of that child the inserted
	// text belongs on.
	RHS []string

	// Literal is the terminal rule's literal token text. Unused for
	// nonterminal rules.
	Literal string

	// InsertedSymIndex is 0 or 1 for an insertion rule, nil otherwise.
	InsertedSymIndex *int

	// SecondRHSCanProduceSemantic gates whether the second branch of a
	// binary, non-insertion rule can yield a semantic.
	SecondRHSCanProduceSemantic bool

	// RHSCanProduceSemantic is the overall version of the above, used
	// when deciding whether to reduce an LHS semantic immediately.
	RHSCanProduceSemantic bool

	// Semantic is the rule's own attached semantic, if any.
	Semantic SemanticValue

	// InsertedSemantic is the semantic carried specifically by an
	// insertion, pushed above the rule's own (LHS) semantic frame.
	InsertedSemantic SemanticValue

	// GramProps, if set, governs conjugation of terminal rules produced
	// below this rule's RHS.
	GramProps *GramProps

	// PersonNumber, if non-empty, is propagated forward to conjugate a
	// subsequent verb.
	PersonNumber string

	// Text is the terminal rule's surface text, or an insertion rule's
	// inserted text.
	Text TextValue

	// Tense is the terminal rule's own tense, checked against an ancestor
	// rule's AcceptedTense.
	Tense string

	// IsPlaceholder marks a terminal rule whose symbol itself is emitted
	// verbatim (e.g. <int>).
	IsPlaceholder bool

	// IsTransposition marks a rule removed before enumeration begins.
	IsTransposition bool
}

// IsInsertion reports whether r is an insertion rule.
func (r Rule) IsInsertion() bool { return r.InsertedSymIndex != nil }

// Grammar maps a nonterminal symbol to its ordered sequence of rules.
type Grammar map[string][]Rule

// RemoveTranspositions returns a copy of g with every IsTransposition rule
// removed. This runs exactly once, before enumeration, and the result is
// treated as immutable thereafter.
func (g Grammar) RemoveTranspositions() Grammar {
	out := make(Grammar, len(g))
	for nt, rules := range g {
		kept := make([]Rule, 0, len(rules))
		for _, r := range rules {
			if r.IsTransposition {
				continue
			}
			kept = append(kept, r)
		}
		out[nt] = kept
	}
	return out
}

// SortedNonterminals returns the grammar's nonterminal symbols in
// lexicographic order, giving the driver a deterministic iteration order
// independent of Go's randomized map order.
func (g Grammar) SortedNonterminals() []string {
	keys := make([]string, 0, len(g))
	for k := range g {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
