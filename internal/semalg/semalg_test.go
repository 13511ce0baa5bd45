package semalg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func leaf(name string) Node { return Node{Name: name, MaxParams: 0} }

func TestMergeRHS(t *testing.T) {
	merged, ok := MergeRHS([]Node{leaf("a")}, []Node{leaf("b")})
	assert.True(t, ok)
	assert.Equal(t, []Node{leaf("a"), leaf("b")}, merged)

	_, ok = MergeRHS([]Node{leaf("a")}, []Node{leaf("a")})
	assert.False(t, ok, "merging two nodes with the same functor name is illegal")
}

func TestReduce(t *testing.T) {
	lhs := Node{Name: "wrap", MaxParams: 1}
	reduced, ok := Reduce(lhs, []Node{leaf("arg")})
	assert.True(t, ok)
	assert.Len(t, reduced, 1)
	assert.Equal(t, "wrap", reduced[0].Name)
	assert.Equal(t, []Node{leaf("arg")}, reduced[0].Args)

	// overflowing arity fails
	_, ok = Reduce(lhs, []Node{leaf("a"), leaf("b")})
	assert.False(t, ok)
}

func TestForceReduceIgnoresArityButNotIllegality(t *testing.T) {
	lhs := Node{Name: "wrap", MaxParams: 1}
	reduced, ok := ForceReduce(lhs, []Node{leaf("a"), leaf("b")})
	assert.True(t, ok, "arity overflow is allowed when forcing completion")
	assert.Len(t, reduced[0].Args, 2)

	partial := Node{Name: "wrap", MaxParams: 2, Args: []Node{leaf("a")}}
	_, ok = ForceReduce(partial, []Node{leaf("a")})
	assert.False(t, ok, "a repeated functor name among the arguments is still illegal")
}

func TestArraysEqual(t *testing.T) {
	assert.True(t, ArraysEqual(nil, nil), "both-absent counts as equal")
	assert.False(t, ArraysEqual([]Node{leaf("a")}, nil))
	assert.True(t, ArraysEqual([]Node{leaf("a")}, []Node{leaf("a")}))
	assert.False(t, ArraysEqual([]Node{leaf("a")}, []Node{leaf("b")}))

	nested := []Node{{Name: "wrap", MaxParams: 1, Args: []Node{leaf("x")}}}
	nestedSame := []Node{{Name: "wrap", MaxParams: 1, Args: []Node{leaf("x")}}}
	nestedDiff := []Node{{Name: "wrap", MaxParams: 1, Args: []Node{leaf("y")}}}
	assert.True(t, ArraysEqual(nested, nestedSame))
	assert.False(t, ArraysEqual(nested, nestedDiff))
}

func TestIsForbiddenMultiple(t *testing.T) {
	rhs := []Node{leaf("dup")}
	assert.True(t, IsForbiddenMultiple(rhs, Node{Name: "dup", MaxParams: 1}))
	assert.False(t, IsForbiddenMultiple(rhs, Node{Name: "other", MaxParams: 1}))
}

func TestIsIllegalRHS(t *testing.T) {
	assert.True(t, IsIllegalRHS([]Node{leaf("a")}, []Node{leaf("a")}))
	assert.False(t, IsIllegalRHS([]Node{leaf("a")}, []Node{leaf("b")}))
	assert.False(t, IsIllegalRHS(nil, []Node{leaf("a")}))
}

func TestLessOrdersByNameThenArity(t *testing.T) {
	assert.True(t, Less(leaf("alpha"), leaf("beta")))
	assert.False(t, Less(leaf("beta"), leaf("alpha")))
	assert.False(t, Less(leaf("alpha"), leaf("alpha")))

	short := Node{Name: "same", MaxParams: 1}
	long := Node{Name: "same", MaxParams: 1, Args: []Node{leaf("x")}}
	assert.True(t, Less(short, long))
}

func TestSortCanonicalIsOrderInsensitive(t *testing.T) {
	a := []Node{leaf("beta"), leaf("alpha")}
	b := []Node{leaf("alpha"), leaf("beta")}

	SortCanonical(a)
	SortCanonical(b)

	assert.True(t, ArraysEqual(a, b))
}

func TestSumCosts(t *testing.T) {
	ns := []Node{
		{Name: "a", Cost: 2, Args: []Node{{Name: "b", Cost: 3}}},
	}
	assert.Equal(t, 5, SumCosts(ns))
}

func TestToString(t *testing.T) {
	assert.Equal(t, "()", ToString(nil))

	ns := []Node{{Name: "wrap", MaxParams: 1, Args: []Node{leaf("x")}}}
	assert.Equal(t, "[wrap(x)]", ToString(ns))
}
