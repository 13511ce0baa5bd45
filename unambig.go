// Package unambig is the public entry point for detecting ambiguities in
// an annotated context-free grammar. It wraps internal/driver behind one
// constructor, sane defaults, and a single call that runs to completion.
package unambig

import (
	"fmt"

	"github.com/dekarrin/unambig/internal/ambiguity"
	"github.com/dekarrin/unambig/internal/ambigerr"
	"github.com/dekarrin/unambig/internal/driver"
	"github.com/dekarrin/unambig/internal/grammar"
)

// Re-exported types so callers of this package don't need to import
// internal/* packages directly.
type (
	Grammar  = grammar.Grammar
	Rule     = grammar.Rule
	Options  = driver.Options
	Report   = ambiguity.Report
	NTResult = driver.NTResult
	Stats    = driver.Stats
)

// RHSSemantic and LHSSemantic build a Rule's Semantic/InsertedSemantic
// field, re-exported from internal/grammar for convenience.
var (
	RHSSemantic = grammar.RHSSemantic
	LHSSemantic = grammar.LHSSemantic
	PlainText   = grammar.PlainText
	TableText   = grammar.TableText
	SeqText     = grammar.SeqText
)

// DefaultTreeSymLimit is the default bound on path.SymCount, re-exported
// from internal/driver.
const DefaultTreeSymLimit = driver.DefaultTreeSymLimit

// IsFatal reports whether err is one of the fatal ambigerr.Kind classes,
// meaning the run must stop rather than merely skip a path.
func IsFatal(err error) bool {
	return ambigerr.IsFatal(err)
}

// Logger is the progress sink Detect writes to; *ambigerr.Logger and any
// type with a matching Line method satisfy it. Pass nil for silence.
type Logger interface {
	Line(format string, args ...any)
}

type discardLogger struct{}

func (discardLogger) Line(format string, args ...any) {}

// Detect runs the ambiguity detector over g: it removes transpositions,
// expands every nonterminal with at least two rules (or, under
// opts.SemanticCheck, every nonterminal at all), and reports every
// ambiguous rule pair found. A non-nil error is always one of the fatal
// ambigerr classes; check it with IsFatal before presenting it as a
// plain message.
func Detect(g Grammar, opts Options, logger Logger) ([]NTResult, Stats, error) {
	if logger == nil {
		logger = discardLogger{}
	}
	results, stats, err := driver.Run(g, opts, logger)
	if err != nil {
		return results, stats, fmt.Errorf("detect ambiguity: %w", err)
	}
	return results, stats, nil
}

// CoveredNonterminals returns the set of nonterminal names Detect actually
// visited, re-exported from internal/driver for callers validating their
// own coverage convention outside of opts.UseTestRules.
func CoveredNonterminals(results []NTResult) map[string]bool {
	covered := driver.CoveredNonterminals(results)
	out := make(map[string]bool, covered.Len())
	for _, nt := range covered.Elements() {
		out[nt] = true
	}
	return out
}
