// Package semalg is the pure semantic algebra that the ambiguity detector
// treats as an external collaborator. The grammar compilation pipeline that
// would normally produce these values is out of scope; this package only
// supplies the handful of operations the core engine calls by name:
// MergeRHS, Reduce, ArraysEqual, IsForbiddenMultiple, and IsIllegalRHS,
// plus a canonical comparator and the observability-only helpers
// (SumCosts, ToString, ColorString).
package semalg

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Node is a semantic value: a named functor applied to zero or more
// argument nodes. A Node with len(Args) < MaxParams is the "LHS"
// (unreduced) form — a functor still awaiting arguments. A Node with
// len(Args) >= MaxParams, held in a []Node array, is the "RHS" (reduced)
// form.
type Node struct {
	Name      string
	MaxParams int
	Args      []Node
	Cost      int
}

// IsFullyApplied reports whether n has received all the arguments its
// functor accepts.
func (n Node) IsFullyApplied() bool {
	return len(n.Args) >= n.MaxParams
}

// MergeRHS concatenates two already-reduced semantic arrays, as happens
// when two adjacent RHS frames in the semantic reduction list are
// combined. It is illegal for the same functor name to appear twice in
// the merged array.
func MergeRHS(a, b []Node) ([]Node, bool) {
	if IsIllegalRHS(a, b) {
		return nil, false
	}
	merged := make([]Node, 0, len(a)+len(b))
	merged = append(merged, a...)
	merged = append(merged, b...)
	return merged, true
}

// Reduce applies an unreduced LHS functor to a reduced RHS array,
// producing a new one-element reduced array. It fails if doing so would
// overflow the functor's arity or produce an illegal result.
func Reduce(lhs Node, rhs []Node) ([]Node, bool) {
	newArgs := make([]Node, 0, len(lhs.Args)+len(rhs))
	newArgs = append(newArgs, lhs.Args...)
	newArgs = append(newArgs, rhs...)
	if len(newArgs) > lhs.MaxParams {
		return nil, false
	}
	if IsIllegalRHS(lhs.Args, rhs) {
		return nil, false
	}
	result := Node{Name: lhs.Name, MaxParams: lhs.MaxParams, Args: newArgs, Cost: lhs.Cost + sumNodeCosts(rhs)}
	return []Node{result}, true
}

// ForceReduce applies lhs to rhs like Reduce but ignores the functor's
// arity requirement, as the forced completion of a still-open path needs.
// It still fails on an illegal result.
func ForceReduce(lhs Node, rhs []Node) ([]Node, bool) {
	newArgs := make([]Node, 0, len(lhs.Args)+len(rhs))
	newArgs = append(newArgs, lhs.Args...)
	newArgs = append(newArgs, rhs...)
	if IsIllegalRHS(lhs.Args, rhs) {
		return nil, false
	}
	result := Node{Name: lhs.Name, MaxParams: lhs.MaxParams, Args: newArgs, Cost: lhs.Cost + sumNodeCosts(rhs)}
	return []Node{result}, true
}

// ArraysEqual compares two reduced semantic arrays for equality, treating
// both-absent (nil) as equal.
func ArraysEqual(a, b []Node) bool {
	if a == nil && b == nil {
		return true
	}
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !nodeEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func nodeEqual(a, b Node) bool {
	if a.Name != b.Name || len(a.Args) != len(b.Args) {
		return false
	}
	for i := range a.Args {
		if !nodeEqual(a.Args[i], b.Args[i]) {
			return false
		}
	}
	return true
}

// IsForbiddenMultiple reports whether pushing the unreduced functor lhs
// onto a semantic list that already has the reduced array rhs in scope
// would create a forbidden repetition of the same functor.
func IsForbiddenMultiple(rhs []Node, lhs Node) bool {
	for _, n := range rhs {
		if n.Name == lhs.Name {
			return true
		}
	}
	return false
}

// IsIllegalRHS reports whether appending newRHS to the already-accumulated
// children would repeat a functor name, which this algebra treats as the
// one illegal condition a reduced semantic array can have.
func IsIllegalRHS(children []Node, newRHS []Node) bool {
	seen := make(map[string]int, len(children)+len(newRHS))
	for _, n := range children {
		seen[n.Name]++
	}
	for _, n := range newRHS {
		seen[n.Name]++
		if seen[n.Name] > 1 {
			return true
		}
	}
	return false
}

var collator = collate.New(language.Und)

// Less is the canonical comparator used to sort a force-completed semantic
// array before comparing it with ArraysEqual. It orders primarily by
// functor name, using a locale-stable collator so the order doesn't depend
// on Go's raw byte comparison of arbitrary functor source text, then by
// arity and argument structure.
func Less(a, b Node) bool {
	if c := collator.CompareString(a.Name, b.Name); c != 0 {
		return c < 0
	}
	if len(a.Args) != len(b.Args) {
		return len(a.Args) < len(b.Args)
	}
	for i := range a.Args {
		if Less(a.Args[i], b.Args[i]) {
			return true
		}
		if Less(b.Args[i], a.Args[i]) {
			return false
		}
	}
	return false
}

// SumCosts totals the Cost of every node in a reduced semantic array,
// recursively. Observability-only; never consulted for ambiguity verdicts.
func SumCosts(ns []Node) int {
	total := 0
	for _, n := range ns {
		total += n.Cost + SumCosts(n.Args)
	}
	return total
}

func sumNodeCosts(ns []Node) int {
	return SumCosts(ns)
}

// ToString renders a reduced semantic array for reports. Observability-only.
func ToString(ns []Node) string {
	if len(ns) == 0 {
		return "()"
	}
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = nodeToString(n)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func nodeToString(n Node) string {
	if len(n.Args) == 0 {
		return n.Name
	}
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = nodeToString(a)
	}
	return fmt.Sprintf("%s(%s)", n.Name, strings.Join(parts, ", "))
}

// ColorString is like ToString but wraps each functor name in ANSI color
// codes for interactive terminals. Observability-only.
func ColorString(ns []Node) string {
	if len(ns) == 0 {
		return "()"
	}
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = colorNodeString(n)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func colorNodeString(n Node) string {
	name := "\033[36m" + n.Name + "\033[0m"
	if len(n.Args) == 0 {
		return name
	}
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = colorNodeString(a)
	}
	return fmt.Sprintf("%s(%s)", name, strings.Join(parts, ", "))
}

// SortCanonical sorts a reduced semantic array in place using Less.
func SortCanonical(ns []Node) {
	sort.SliceStable(ns, func(i, j int) bool {
		return Less(ns[i], ns[j])
	})
}
