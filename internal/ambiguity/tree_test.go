package ambiguity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/unambig/internal/grammar"
	"github.com/dekarrin/unambig/internal/path"
)

func TestTreeEqual(t *testing.T) {
	a := &Tree{Symbol: "X", Children: []*Tree{{Symbol: "y"}}}
	b := &Tree{Symbol: "X", Children: []*Tree{{Symbol: "y"}}}
	c := &Tree{Symbol: "X", Children: []*Tree{{Symbol: "z"}}}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.True(t, (*Tree)(nil).Equal(nil))
	assert.False(t, a.Equal(nil))
}

func TestReconstructBinaryRule(t *testing.T) {
	g := grammar.Grammar{
		"S": {{RHS: []string{"X", "Y"}}},
		"X": {{IsTerminal: true, Literal: "a"}},
		"Y": {{IsTerminal: true, Literal: "b"}},
	}
	root := path.Root("S")
	p1, _, err := path.CreatePath(root, &g["S"][0])
	require.NoError(t, err)
	p2, _, err := path.CreatePath(p1, &g["X"][0])
	require.NoError(t, err)
	p3, _, err := path.CreatePath(p2, &g["Y"][0])
	require.NoError(t, err)
	require.True(t, p3.Complete())

	tree := Reconstruct(p3)
	require.NotNil(t, tree)
	assert.Equal(t, "S", tree.Symbol)
	require.Len(t, tree.Children, 2)
	assert.Equal(t, "X", tree.Children[0].Symbol)
	assert.Equal(t, "a", tree.Children[0].Children[0].Symbol)
	assert.Equal(t, "Y", tree.Children[1].Symbol)
	assert.Equal(t, "b", tree.Children[1].Children[0].Symbol)
}

func TestReconstructInsertionAttachesTextOnCorrectSide(t *testing.T) {
	idx0 := 0
	g := grammar.Grammar{
		"S": {{RHS: []string{"A"}, InsertedSymIndex: &idx0, Text: grammar.PlainText("the ")}},
		"A": {{IsTerminal: true, Literal: "cat"}},
	}
	root := path.Root("S")
	p1, _, err := path.CreatePath(root, &g["S"][0])
	require.NoError(t, err)
	p2, _, err := path.CreatePath(p1, &g["A"][0])
	require.NoError(t, err)

	tree := Reconstruct(p2)
	require.NotNil(t, tree)
	assert.Equal(t, "S", tree.Symbol)
	require.Len(t, tree.Children, 2)
	require.NotNil(t, tree.Children[0].Text)
	assert.Equal(t, "the ", *tree.Children[0].Text)
	assert.Equal(t, "A", tree.Children[1].Symbol)
}

func leafTree(sym string) *Tree { return &Tree{Symbol: sym} }

func TestDiffTrimsConfirmedIdenticalRightmostTail(t *testing.T) {
	t1 := &Tree{Symbol: "S", Children: []*Tree{
		{Symbol: "A", Children: []*Tree{leafTree("x")}},
		{Symbol: "B", Children: []*Tree{leafTree("shared")}},
	}}
	t2 := &Tree{Symbol: "S", Children: []*Tree{
		{Symbol: "A", Children: []*Tree{leafTree("y")}},
		{Symbol: "B", Children: []*Tree{leafTree("shared")}},
	}}

	Diff(t1, t2)

	require.Len(t, t1.Children, 1, "the identical trailing B subtree is trimmed")
	require.Len(t, t2.Children, 1)
	assert.Equal(t, "A", t1.Children[0].Symbol)
	assert.Equal(t, "A", t2.Children[0].Symbol)
}

func TestDiffIsIdempotent(t *testing.T) {
	t1 := &Tree{Symbol: "S", Children: []*Tree{
		{Symbol: "A", Children: []*Tree{leafTree("x")}},
		{Symbol: "B", Children: []*Tree{leafTree("shared")}},
	}}
	t2 := &Tree{Symbol: "S", Children: []*Tree{
		{Symbol: "A", Children: []*Tree{leafTree("y")}},
		{Symbol: "B", Children: []*Tree{leafTree("shared")}},
	}}

	Diff(t1, t2)
	snapshot1 := *t1
	snapshot2 := *t2

	Diff(t1, t2)
	assert.Equal(t, snapshot1.Children, t1.Children, "a second Diff pass over already-trimmed trees is a no-op")
	assert.Equal(t, snapshot2.Children, t2.Children)
}
