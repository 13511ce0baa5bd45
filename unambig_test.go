package unambig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transpositionGrammar() Grammar {
	return Grammar{
		"S": {
			{RHS: []string{"X", "Y"}},
			{RHS: []string{"Y", "X"}},
		},
		"X": {{IsTerminal: true, Literal: "a"}},
		"Y": {{IsTerminal: true, Literal: "a"}},
	}
}

func TestDetectFindsAmbiguity(t *testing.T) {
	results, stats, err := Detect(transpositionGrammar(), Options{}, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "S", results[0].Nonterminal)
	assert.Len(t, results[0].Reports, 1)
	assert.Equal(t, 1, stats.TotalReports)
}

func TestDetectWithTestRulesMismatchIsFatal(t *testing.T) {
	g := Grammar{
		"[ambig-bad]": {
			{IsTerminal: true, Literal: "a"},
			{IsTerminal: true, Literal: "b"},
		},
	}
	_, _, err := Detect(g, Options{UseTestRules: true}, nil)
	require.Error(t, err)
	assert.True(t, IsFatal(err))
}

func TestDetectWithNilLoggerDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		_, _, _ = Detect(transpositionGrammar(), Options{}, nil)
	})
}

func TestCoveredNonterminals(t *testing.T) {
	results, _, err := Detect(transpositionGrammar(), Options{}, nil)
	require.NoError(t, err)

	covered := CoveredNonterminals(results)
	assert.True(t, covered["S"])
	assert.False(t, covered["X"], "only root nonterminals actually compared are covered, not their children")
}

func TestTextConstructorsAreExported(t *testing.T) {
	assert.Equal(t, PlainText("x"), PlainText("x"))
	assert.NotEqual(t, PlainText("x"), PlainText("y"))

	tbl := TableText(map[string]string{"pl": "are"})
	assert.Equal(t, "are", tbl.Table["pl"])

	seq := SeqText(PlainText("a"), PlainText("b"))
	assert.Len(t, seq.Seq, 2)
}
