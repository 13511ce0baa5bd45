package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakeTextListEmpty(t *testing.T) {
	assert.Equal(t, "", MakeTextList(nil))
}

func TestMakeTextListSingle(t *testing.T) {
	assert.Equal(t, "S", MakeTextList([]string{"S"}))
}

func TestMakeTextListPair(t *testing.T) {
	assert.Equal(t, "S and T", MakeTextList([]string{"S", "T"}))
}

func TestMakeTextListThreeUsesOxfordComma(t *testing.T) {
	assert.Equal(t, "S, T, and U", MakeTextList([]string{"S", "T", "U"}))
}
