package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemoveTranspositions(t *testing.T) {
	g := Grammar{
		"S": {
			{IsTerminal: true, Literal: "a"},
			{IsTerminal: true, Literal: "b", IsTransposition: true},
		},
		"T": {
			{IsTerminal: true, Literal: "c", IsTransposition: true},
		},
	}

	out := g.RemoveTranspositions()

	assert.Len(t, out["S"], 1)
	assert.Equal(t, "a", out["S"][0].Literal)
	assert.Len(t, out["T"], 0)

	// original grammar is untouched
	assert.Len(t, g["S"], 2)
}

func TestSortedNonterminals(t *testing.T) {
	g := Grammar{
		"zebra": {{IsTerminal: true}},
		"alpha": {{IsTerminal: true}},
		"mid":   {{IsTerminal: true}},
	}

	assert.Equal(t, []string{"alpha", "mid", "zebra"}, g.SortedNonterminals())
}

func TestIsInsertion(t *testing.T) {
	idx := 1
	r := Rule{RHS: []string{"x"}, InsertedSymIndex: &idx}
	assert.True(t, r.IsInsertion())

	plain := Rule{RHS: []string{"x"}}
	assert.False(t, plain.IsInsertion())
}

func TestTextValueConstructors(t *testing.T) {
	assert.Equal(t, TextValue{Kind: TextPlain, Plain: "x"}, PlainText("x"))

	tbl := map[string]string{"pl": "x"}
	assert.Equal(t, TextValue{Kind: TextTable, Table: tbl}, TableText(tbl))

	seq := SeqText(PlainText("a"), PlainText("b"))
	assert.Equal(t, TextSequence, seq.Kind)
	assert.Len(t, seq.Seq, 2)
}
