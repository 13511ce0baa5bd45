package driver

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/unambig/internal/ambigerr"
	"github.com/dekarrin/unambig/internal/grammar"
	"github.com/dekarrin/unambig/internal/semalg"
)

func quietLogger() Logger {
	return ambigerr.NewLogger(io.Discard, true)
}

func TestRunSkipsSingleRuleNonterminals(t *testing.T) {
	g := grammar.Grammar{
		"S": {{RHS: []string{"A"}}},
		"A": {{IsTerminal: true, Literal: "a"}},
	}
	results, stats, err := Run(g, Options{}, quietLogger())
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, 0, stats.NonterminalsRun)
}

func TestRunReportsAmbiguityForTranspositionGrammar(t *testing.T) {
	g := grammar.Grammar{
		"S": {
			{RHS: []string{"X", "Y"}},
			{RHS: []string{"Y", "X"}},
		},
		"X": {{IsTerminal: true, Literal: "a"}},
		"Y": {{IsTerminal: true, Literal: "a"}},
	}
	results, stats, err := Run(g, Options{}, quietLogger())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "S", results[0].Nonterminal)
	assert.Len(t, results[0].Reports, 1)
	assert.Equal(t, 1, stats.NonterminalsRun)
	assert.Equal(t, 1, stats.TotalReports)
}

func TestRunUseTestRulesDetectsMissingAmbiguity(t *testing.T) {
	g := grammar.Grammar{
		"[ambig-test]": {
			{IsTerminal: true, Literal: "a"},
			{IsTerminal: true, Literal: "b"},
		},
	}
	_, _, err := Run(g, Options{UseTestRules: true}, quietLogger())
	require.Error(t, err)
	assert.True(t, ambigerr.IsFatal(err))
}

func TestRunUseTestRulesDetectsSpuriousAmbiguity(t *testing.T) {
	g := grammar.Grammar{
		"[unambig-test]": {
			{RHS: []string{"X", "Y"}},
			{RHS: []string{"Y", "X"}},
		},
		"X": {{IsTerminal: true, Literal: "a"}},
		"Y": {{IsTerminal: true, Literal: "a"}},
	}
	_, _, err := Run(g, Options{UseTestRules: true}, quietLogger())
	require.Error(t, err)
	assert.True(t, ambigerr.IsFatal(err))
}

func TestRunUseTestRulesAcceptsCorrectlyClassifiedGrammar(t *testing.T) {
	g := grammar.Grammar{
		"[ambig-test]": {
			{RHS: []string{"X", "Y"}},
			{RHS: []string{"Y", "X"}},
		},
		"[unambig-test]": {
			{IsTerminal: true, Literal: "a"},
			{IsTerminal: true, Literal: "b"},
		},
		"X": {{IsTerminal: true, Literal: "a"}},
		"Y": {{IsTerminal: true, Literal: "a"}},
	}
	results, _, err := Run(g, Options{UseTestRules: true}, quietLogger())
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestRunIllFormedGrammarWhenTestSymbolHasTooFewRules(t *testing.T) {
	g := grammar.Grammar{
		"[ambig-bad]": {{IsTerminal: true, Literal: "a"}},
	}
	_, _, err := Run(g, Options{UseTestRules: true}, quietLogger())
	require.Error(t, err)
	assert.True(t, ambigerr.IsFatal(err))
}

func TestRunSemanticCheckStillExpandsSingleRuleNonterminal(t *testing.T) {
	g := grammar.Grammar{
		"S": {{RHS: []string{"A"}}},
		"A": {{IsTerminal: true, Literal: "a"}},
	}
	results, _, err := Run(g, Options{SemanticCheck: true}, quietLogger())
	require.NoError(t, err)

	var sResult *NTResult
	for i := range results {
		if results[i].Nonterminal == "S" {
			sResult = &results[i]
		}
	}
	require.NotNil(t, sResult, "SemanticCheck forces expansion of single-rule nonterminals")
	assert.Empty(t, sResult.Reports, "the comparator is never invoked for a single-rule nonterminal")
	assert.True(t, sResult.PathCount > 0)
}

func TestRunSemanticCheckLogsLatentIllegalSemantic(t *testing.T) {
	// The LHS functor already holds an "a" argument, and the only path to
	// store leaves it unreduced (the semantic-bearing sibling Y is still
	// pending when t's terminal reduces), so only forced completion ever
	// applies it to the second "a" and discovers the repeated functor.
	wrap := semalg.Node{Name: "wrap", MaxParams: 2, Args: []semalg.Node{{Name: "a"}}}
	g := grammar.Grammar{
		"S": {{
			RHS:                         []string{"X", "Y"},
			Semantic:                    grammar.LHSSemantic(wrap),
			SecondRHSCanProduceSemantic: true,
			RHSCanProduceSemantic:       true,
		}},
		"X": {{
			RHS:                   []string{"t"},
			Semantic:              grammar.RHSSemantic(semalg.Node{Name: "a"}),
			RHSCanProduceSemantic: true,
		}},
		"t": {{IsTerminal: true, Literal: "a"}},
	}

	var buf bytes.Buffer
	logger := ambigerr.NewLogger(&buf, false)
	_, _, err := Run(g, Options{SemanticCheck: true, StoreIncompleteTrees: true}, logger)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "latent illegal semantic")
}

func TestCoveredNonterminals(t *testing.T) {
	results := []NTResult{{Nonterminal: "S"}, {Nonterminal: "T"}}
	s := CoveredNonterminals(results)
	assert.True(t, s.Has("S"))
	assert.True(t, s.Has("T"))
	assert.False(t, s.Has("U"))
}
