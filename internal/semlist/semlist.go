// Package semlist is the semantic reduction list: a persistent
// reverse-linked list of unreduced semantic frames, each either a reduced
// (RHS) array or an under-applied (LHS) functor awaiting arguments,
// incrementally reduced as enumeration proceeds.
package semlist

import (
	"github.com/dekarrin/unambig/internal/ambigerr"
	"github.com/dekarrin/unambig/internal/grammar"
	"github.com/dekarrin/unambig/internal/semalg"
)

// Frame is one semantic reduction list node.
type Frame struct {
	IsRHS bool
	RHS   []semalg.Node
	LHS   semalg.Node

	// SymCountAtPush is the enclosing continuation list's SymCount at the
	// moment this frame was pushed. Only meaningful for LHS frames: a
	// later terminal rule may reduce this frame only once every
	// semantic-bearing branch that followed it has closed.
	SymCountAtPush int

	Next *Frame
}

// Outcome reports whether a semlist operation produced a new list head or
// requires the path to be discarded.
type Outcome int

const (
	// OK means the operation succeeded.
	OK Outcome = iota
	// Discard means the path carrying this semantic list must be dropped.
	Discard
)

// AppendSemantic implements the "Append-semantic" operation, run when a
// nonterminal rule is taken during expansion. curNextSymCount is the
// enclosing continuation list's SymCount at this point.
func AppendSemantic(prev *Frame, r grammar.Rule, curNextSymCount int) (*Frame, Outcome) {
	if r.InsertedSemantic.Present {
		below := prev
		if r.Semantic.Present {
			if r.Semantic.IsRHS {
				below = &Frame{IsRHS: true, RHS: r.Semantic.RHS, Next: prev}
			} else {
				below = &Frame{IsRHS: false, LHS: r.Semantic.LHS, SymCountAtPush: curNextSymCount, Next: prev}
			}
		}
		return &Frame{IsRHS: true, RHS: r.InsertedSemantic.RHS, Next: below}, OK
	}

	if !r.Semantic.Present {
		return prev, OK
	}

	if r.Semantic.IsRHS {
		newRHS := r.Semantic.RHS
		switch {
		case prev != nil && prev.IsRHS:
			merged, ok := semalg.MergeRHS(prev.RHS, newRHS)
			if !ok {
				return nil, Discard
			}
			return &Frame{IsRHS: true, RHS: merged, Next: prev.Next}, OK
		case prev != nil && !prev.IsRHS && !r.RHSCanProduceSemantic:
			reduced, ok := semalg.Reduce(prev.LHS, newRHS)
			if !ok {
				return nil, Discard
			}
			return &Frame{IsRHS: true, RHS: reduced, Next: prev.Next}, OK
		case prev != nil && !prev.IsRHS:
			if isIllegalSemanticReduction(prev, newRHS) {
				return nil, Discard
			}
			return &Frame{IsRHS: true, RHS: newRHS, Next: prev}, OK
		default:
			return &Frame{IsRHS: true, RHS: newRHS, Next: prev}, OK
		}
	}

	// LHS semantic.
	lhs := r.Semantic.LHS
	if prev != nil && prev.IsRHS && semalg.IsForbiddenMultiple(prev.RHS, lhs) {
		return nil, Discard
	}
	return &Frame{IsRHS: false, LHS: lhs, SymCountAtPush: curNextSymCount, Next: prev}, OK
}

// isIllegalSemanticReduction implements the "Illegal-reduction check": an
// LHS frame whose functor has max_params=1 and whose parent is an RHS
// frame is rejected early if applying it to newRHS would merge with the
// parent RHS in a way forbidden by IsIllegalRHS.
func isIllegalSemanticReduction(lhsFrame *Frame, newRHS []semalg.Node) bool {
	if lhsFrame.LHS.MaxParams != 1 {
		return false
	}
	parent := lhsFrame.Next
	if parent == nil || !parent.IsRHS {
		return false
	}
	reduced, ok := semalg.Reduce(lhsFrame.LHS, newRHS)
	if !ok {
		return true
	}
	return semalg.IsIllegalRHS(parent.RHS, reduced)
}

// ReduceSemanticTree implements the "Reduce-semantic-tree" operation, run
// when a terminal rule is applied. curNextSymCount is the enclosing
// continuation list's SymCount at this point.
func ReduceSemanticTree(list *Frame, curNextSymCount int) (*Frame, Outcome) {
	if list == nil || !list.IsRHS {
		return list, OK
	}

	acc := list.RHS
	rest := list.Next
	for rest != nil && rest.IsRHS {
		merged, ok := semalg.MergeRHS(rest.RHS, acc)
		if !ok {
			return nil, Discard
		}
		acc = merged
		rest = rest.Next
	}

	if rest != nil && !rest.IsRHS && curNextSymCount <= rest.SymCountAtPush {
		reduced, ok := semalg.Reduce(rest.LHS, acc)
		if !ok {
			return nil, Discard
		}
		return ReduceSemanticTree(&Frame{IsRHS: true, RHS: reduced, Next: rest.Next}, curNextSymCount)
	}

	return &Frame{IsRHS: true, RHS: acc, Next: rest}, OK
}

// ForceComplete implements "Forced completion": it merges the list
// ignoring arity requirements, then sorts the result by the semantic
// algebra's canonical comparator.
//
// It returns (result, true, nil) on success, (nil, false, nil) when a
// forced LHS reduction is legitimately illegal (the comparator skips that
// comparison, or in --semantic-check mode the path is locally discarded
// as a latent illegal semantic), and (nil, false, err) only when an
// RHS+RHS merge is illegal mid-walk. RHS+RHS merges are already
// illegality-checked incrementally by AppendSemantic, so seeing one fail
// here means a path that should have been discarded earlier was not —
// an impossible bug, and therefore fatal.
func ForceComplete(list *Frame) ([]semalg.Node, bool, error) {
	cur := list
	for cur != nil {
		if cur.IsRHS {
			if cur.Next == nil {
				acc := append([]semalg.Node(nil), cur.RHS...)
				semalg.SortCanonical(acc)
				return acc, true, nil
			}
			if cur.Next.IsRHS {
				merged, ok := semalg.MergeRHS(cur.Next.RHS, cur.RHS)
				if !ok {
					return nil, false, ambigerr.Fatal("illegal RHS merge encountered during forced semantic completion", nil)
				}
				cur = &Frame{IsRHS: true, RHS: merged, Next: cur.Next.Next}
				continue
			}
			// cur.Next is an LHS frame awaiting cur's RHS as argument.
			reduced, ok := semalg.ForceReduce(cur.Next.LHS, cur.RHS)
			if !ok {
				return nil, false, nil
			}
			cur = &Frame{IsRHS: true, RHS: reduced, Next: cur.Next.Next}
			continue
		}
		// The head itself is an LHS frame with nothing accumulated below
		// it yet: force-reduce it against an empty argument array.
		reduced, ok := semalg.ForceReduce(cur.LHS, nil)
		if !ok {
			return nil, false, nil
		}
		cur = &Frame{IsRHS: true, RHS: reduced, Next: cur.Next}
	}
	return nil, true, nil
}
