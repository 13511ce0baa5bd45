package path

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/unambig/internal/grammar"
)

func TestRootBuildsSyntheticRootPath(t *testing.T) {
	r := Root("S")
	require.NotNil(t, r.CurSym)
	assert.Equal(t, "S", *r.CurSym)
	assert.Equal(t, 1, r.SymCount)
	assert.Equal(t, []string{"S"}, r.Rule.RHS)
	assert.False(t, r.Complete())
}

func TestCompleteRequiresNoCurSymAndDrainedContinuation(t *testing.T) {
	p := &Path{}
	assert.True(t, p.Complete())

	sym := "A"
	p2 := &Path{CurSym: &sym}
	assert.False(t, p2.Complete())
}

func binaryGrammar() grammar.Grammar {
	return grammar.Grammar{
		"S": {{RHS: []string{"A", "B"}}},
		"A": {{IsTerminal: true, Literal: "a"}},
		"B": {{IsTerminal: true, Literal: "b"}},
	}
}

func TestCreatePathWalksABinaryRuleThroughToCompletion(t *testing.T) {
	g := binaryGrammar()
	root := Root("S")

	p1, outcome, err := CreatePath(root, &g["S"][0])
	require.NoError(t, err)
	require.Equal(t, OK, outcome)
	require.NotNil(t, p1.CurSym)
	assert.Equal(t, "A", *p1.CurSym)
	assert.NotNil(t, p1.NextItemList, "the right sibling B is pushed onto the continuation")

	p2, outcome, err := CreatePath(p1, &g["A"][0])
	require.NoError(t, err)
	require.Equal(t, OK, outcome)
	require.NotNil(t, p2.CurSym)
	assert.Equal(t, "B", *p2.CurSym, "draining the continuation surfaces the pending sibling")
	assert.Equal(t, " a", p2.Terminals)
	assert.False(t, p2.Complete())

	p3, outcome, err := CreatePath(p2, &g["B"][0])
	require.NoError(t, err)
	require.Equal(t, OK, outcome)
	assert.Equal(t, " a b", p3.Terminals)
	assert.True(t, p3.Complete())
}

func TestCreatePathDoesNotMutateParentText(t *testing.T) {
	g := grammar.Grammar{
		"S": {{RHS: []string{"A", "B"}}},
		"A": {{IsTerminal: true, Literal: "a", Text: grammar.PlainText("a")}},
		"B": {{IsTerminal: true, Literal: "b", Text: grammar.PlainText("b")}},
	}
	root := Root("S")
	p1, _, err := CreatePath(root, &g["S"][0])
	require.NoError(t, err)
	p2, _, err := CreatePath(p1, &g["A"][0])
	require.NoError(t, err)

	assert.Empty(t, p1.Text, "the parent path's own Text slice is untouched by the child's append")
	assert.Len(t, p2.Text, 1)
}

func TestCreatePathInsertionBeforeAttachesTextImmediately(t *testing.T) {
	idx0 := 0
	g := grammar.Grammar{
		"S": {{RHS: []string{"A"}, InsertedSymIndex: &idx0, Text: grammar.PlainText("the ")}},
		"A": {{IsTerminal: true, Literal: "cat"}},
	}
	root := Root("S")
	p1, outcome, err := CreatePath(root, &g["S"][0])
	require.NoError(t, err)
	require.Equal(t, OK, outcome)
	require.Len(t, p1.Text, 1)
	assert.Equal(t, grammar.PlainText("the "), p1.Text[0])
	assert.Nil(t, p1.NextItemList, "an insertion at index 0 carries forward the parent's continuation unchanged")
}

func TestCreatePathInsertionAfterDefersTextAsPendingFrame(t *testing.T) {
	idx1 := 1
	g := grammar.Grammar{
		"S": {{RHS: []string{"A"}, InsertedSymIndex: &idx1, Text: grammar.PlainText("!")}},
		"A": {{IsTerminal: true, Literal: "go"}},
	}
	root := Root("S")
	p1, outcome, err := CreatePath(root, &g["S"][0])
	require.NoError(t, err)
	require.Equal(t, OK, outcome)
	assert.Empty(t, p1.Text, "the inserted text is queued, not appended, until the real child drains")

	p2, outcome, err := CreatePath(p1, &g["A"][0])
	require.NoError(t, err)
	require.Equal(t, OK, outcome)
	require.Len(t, p2.Text, 1, "the bare terminal rule carries no Text of its own, only the deferred insertion does")
	assert.Equal(t, grammar.PlainText("!"), p2.Text[0])
	assert.True(t, p2.Complete())
}

func TestCreateTerminalPathEmitsPlaceholderSymbolVerbatim(t *testing.T) {
	g := grammar.Grammar{
		"S":     {{RHS: []string{"<int>"}}},
		"<int>": {{IsTerminal: true, IsPlaceholder: true}},
	}
	root := Root("S")
	p1, _, err := CreatePath(root, &g["S"][0])
	require.NoError(t, err)

	p2, outcome, err := CreatePath(p1, &g["<int>"][0])
	require.NoError(t, err)
	require.Equal(t, OK, outcome)
	require.Len(t, p2.Text, 1)
	assert.Equal(t, grammar.PlainText("<int>"), p2.Text[0])
}

func TestCreatePathCountsTerminalSymbols(t *testing.T) {
	g := binaryGrammar()
	root := Root("S")

	p1, _, err := CreatePath(root, &g["S"][0])
	require.NoError(t, err)
	assert.Equal(t, 3, p1.SymCount, "root symbol plus the binary rule's two RHS symbols")

	p2, _, err := CreatePath(p1, &g["A"][0])
	require.NoError(t, err)
	assert.Equal(t, 4, p2.SymCount, "a terminal rule consumes one symbol")

	p3, _, err := CreatePath(p2, &g["B"][0])
	require.NoError(t, err)
	assert.Equal(t, 5, p3.SymCount)
}

func TestSymCountDeltaCountsInsertionAsOneSymbol(t *testing.T) {
	idx := 0
	insertion := &grammar.Rule{RHS: []string{"A"}, InsertedSymIndex: &idx}
	assert.Equal(t, 1, symCountDelta(insertion))

	binary := &grammar.Rule{RHS: []string{"A", "B"}}
	assert.Equal(t, 2, symCountDelta(binary))
}
