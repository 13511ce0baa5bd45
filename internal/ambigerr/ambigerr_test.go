package ambigerr

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFatalClassification(t *testing.T) {
	fatal := []error{
		Fatal("bug", nil),
		ConjugationFailure("no match"),
		TestModeMismatch("missing ambiguity"),
		IllFormedGrammar("too few rules"),
	}
	for _, err := range fatal {
		assert.True(t, IsFatal(err), "%v should be fatal", err)
	}

	assert.False(t, IsFatal(LatentIllegalSemantic("discarded")), "a latent illegal semantic is recovered locally")
}

func TestIsFatalOnNilAndUnrecognizedErrors(t *testing.T) {
	assert.False(t, IsFatal(nil))
	assert.True(t, IsFatal(errors.New("some other error")), "an unrecognized error type has no known recovery strategy")
}

func TestErrorUnwrap(t *testing.T) {
	wrapped := errors.New("root cause")
	err := Fatal("wrapper", wrapped)
	assert.ErrorIs(t, err, wrapped)
	assert.Contains(t, err.Error(), "root cause")
}

func TestLoggerRespectsQuiet(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, true)
	l.Line("hello %s", "world")
	assert.Empty(t, buf.String())

	l2 := NewLogger(&buf, false)
	l2.Line("hello %s", "world")
	assert.Equal(t, "hello world\n", buf.String())
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() { l.Line("anything") })
}
