package conjugate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/unambig/internal/ambigerr"
	"github.com/dekarrin/unambig/internal/grammar"
	"github.com/dekarrin/unambig/internal/pnlist"
)

func table() grammar.TextValue {
	return grammar.TableText(map[string]string{
		"pl":     "are",
		"sg":     "is",
		"past":   "were",
		"Nom":    "she",
		"threeSg": "they",
	})
}

func TestResolvePlainPassesThrough(t *testing.T) {
	out, err := Resolve(grammar.PlainText("hello"), nil, nil, "")
	require.NoError(t, err)
	assert.Equal(t, grammar.PlainText("hello"), out)
}

func TestResolveTablePassesThroughWhenNoPropertyAvailable(t *testing.T) {
	out, err := Resolve(table(), nil, nil, "")
	require.NoError(t, err)
	assert.Equal(t, grammar.TextTable, out.Kind, "with nothing to match against, the table is left unresolved")
}

func TestResolveTablePrefersGramPropsTense(t *testing.T) {
	gp := &grammar.GramProps{RequiredTense: "past", AcceptedTense: "pl", Case: "Nom"}
	out, err := Resolve(table(), pnlist.Push(nil, "pl", 1), gp, "pl")
	require.NoError(t, err)
	assert.Equal(t, grammar.PlainText("were"), out, "required tense wins over every later step")
}

func TestResolveTableFallsBackToAcceptedTense(t *testing.T) {
	gp := &grammar.GramProps{AcceptedTense: "pl"}
	out, err := Resolve(table(), nil, gp, "pl")
	require.NoError(t, err)
	assert.Equal(t, grammar.PlainText("are"), out)
}

func TestResolveTableAcceptedTenseRequiresMatchingTense(t *testing.T) {
	gp := &grammar.GramProps{AcceptedTense: "pl", Case: "Nom"}
	out, err := Resolve(table(), nil, gp, "past")
	require.NoError(t, err)
	assert.Equal(t, grammar.PlainText("she"), out, "supplied tense disagrees with accepted tense, so case is tried next")
}

func TestResolveTableFallsBackToCase(t *testing.T) {
	gp := &grammar.GramProps{Case: "Nom"}
	out, err := Resolve(table(), nil, gp, "")
	require.NoError(t, err)
	assert.Equal(t, grammar.PlainText("she"), out)
}

func TestResolveTableFallsBackToPersonNumberHead(t *testing.T) {
	out, err := Resolve(table(), pnlist.Push(nil, "threeSg", 1), nil, "")
	require.NoError(t, err)
	assert.Equal(t, grammar.PlainText("they"), out)
}

func TestResolveTableLookupIsCaseFolded(t *testing.T) {
	gp := &grammar.GramProps{Case: "nom"}
	out, err := Resolve(table(), nil, gp, "")
	require.NoError(t, err)
	assert.Equal(t, grammar.PlainText("she"), out)
}

func TestResolveTableFailsWhenPropertyAvailableButUnmatched(t *testing.T) {
	gp := &grammar.GramProps{Case: "Acc"}
	_, err := Resolve(table(), nil, gp, "")
	require.Error(t, err)
	var aerr *ambigerr.Error
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, ambigerr.KindConjugationFailure, aerr.Kind())
	assert.True(t, aerr.Fatal())
}

func TestResolveSequenceJoinsAllPlainResults(t *testing.T) {
	seq := grammar.SeqText(grammar.PlainText("a"), grammar.PlainText("b"))
	out, err := Resolve(seq, nil, nil, "")
	require.NoError(t, err)
	assert.Equal(t, grammar.PlainText("ab"), out)
}

func TestResolveSequenceKeepsSequenceShapeWhenATableElementIsUnresolved(t *testing.T) {
	seq := grammar.SeqText(grammar.PlainText("the "), table())
	out, err := Resolve(seq, nil, nil, "")
	require.NoError(t, err)
	assert.Equal(t, grammar.TextSequence, out.Kind)
	assert.Len(t, out.Seq, 2)
}

func TestResolveSequencePropagatesElementFailure(t *testing.T) {
	gp := &grammar.GramProps{Case: "Acc"}
	seq := grammar.SeqText(grammar.PlainText("the "), table())
	_, err := Resolve(seq, nil, gp, "")
	require.Error(t, err)
}
