package pnlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPushChainsWhenSubtreeStillOpen(t *testing.T) {
	outer := Push(nil, "pl", 1)
	inner := Push(outer, "threeSg", 3)

	assert.Equal(t, "threeSg", Head(inner))
	assert.Same(t, outer, inner.Next, "a newer entry in a still-open subtree chains onto the old head")
}

func TestPushShadowsWhenOlderSubtreeIsDeeper(t *testing.T) {
	deep := Push(nil, "deep", 5)
	shallow := Push(deep, "shallow", 2)

	assert.Equal(t, "shallow", Head(shallow))
	assert.Nil(t, shallow.Next, "the deeper, still-open entry is shadowed, not chained")
}

func TestTruncateKeepsListWhileSubtreeIsStillOpen(t *testing.T) {
	l := Push(nil, "outer", 1)
	l = Push(l, "inner", 3)

	// current continuation size is smaller than the newest entry's
	// size_at_insertion, so its subtree has not closed yet and nothing
	// is discarded.
	stillOpen := Truncate(l, 2)
	assert.Equal(t, "inner", Head(stillOpen))
	assert.Same(t, l, stillOpen)
}

func TestTruncateDropsClosedChainOnceNewestEntryCloses(t *testing.T) {
	l := Push(nil, "outer", 1)
	l = Push(l, "inner", 3)

	// once the current size reaches the newest entry's size_at_insertion,
	// its subtree (and everything nested inside it, since a chained list's
	// entries only grow in size_at_insertion toward the head) has closed.
	assert.Nil(t, Truncate(l, 3))
}

func TestHeadOfEmptyList(t *testing.T) {
	assert.Equal(t, "", Head(nil))
}
