package path

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBucketStoreGroupsByTerminalsInInsertionOrder(t *testing.T) {
	b := NewBucket()
	p1 := &Path{Terminals: " a"}
	p2 := &Path{Terminals: " b"}
	p3 := &Path{Terminals: " a"}

	b.Store(p1)
	b.Store(p2)
	b.Store(p3)

	assert.Equal(t, []string{" a", " b"}, b.Keys())
	assert.Equal(t, []*Path{p1, p3}, b.Get(" a"))
	assert.Equal(t, 3, b.Len())
}

func TestBucketGetOfMissingKeyIsEmpty(t *testing.T) {
	b := NewBucket()
	assert.Nil(t, b.Get("nope"))
}
