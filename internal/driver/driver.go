// Package driver is the top-level orchestration: for each nonterminal,
// remove transpositions once, expand every rule of the nonterminal into a
// path bucket, and run the equivalence comparator over the resulting
// buckets.
package driver

import (
	"fmt"
	"strings"
	"time"

	"github.com/dekarrin/unambig/internal/ambigerr"
	"github.com/dekarrin/unambig/internal/ambiguity"
	"github.com/dekarrin/unambig/internal/grammar"
	"github.com/dekarrin/unambig/internal/path"
	"github.com/dekarrin/unambig/internal/semlist"
	"github.com/dekarrin/unambig/internal/util"

	"github.com/google/uuid"
)

// Options mirrors the CLI surface.
type Options struct {
	// TreeSymLimit bounds path.SymCount. Must be >= 9 in test mode.
	TreeSymLimit int

	// StoreIncompleteTrees turns off the default complete-trees behavior:
	// normally only fully-reduced paths are stored in a bucket, but with
	// this set every intermediate path is stored too.
	StoreIncompleteTrees bool

	// FindAll reports every distinct ambiguous pair instead of stopping at
	// the first one found for a given rule pair.
	FindAll bool

	// SemanticCheck forces every path's semantics to complete during
	// expansion, surfacing latent illegal semantics the comparator would
	// never otherwise visit.
	SemanticCheck bool

	// UseTestRules, when true, enforces the [ambig-*]/[unambig-*] coverage
	// convention.
	UseTestRules bool

	// Quiet suppresses report logging; it does not change the exit code.
	Quiet bool
}

// DefaultTreeSymLimit is the default tree-symbol budget, used when
// Options.TreeSymLimit is left at zero.
const DefaultTreeSymLimit = 9

func (o Options) limit() int {
	if o.TreeSymLimit <= 0 {
		return DefaultTreeSymLimit
	}
	return o.TreeSymLimit
}

// NTResult is the result of running the driver against one nonterminal.
type NTResult struct {
	Nonterminal string
	Reports     []ambiguity.Report
	PathCount   int
	Elapsed     time.Duration
}

// Stats is process-wide, trivial bookkeeping for one driver run: a run ID
// for correlating log lines and cache entries, plus simple totals. It
// carries no semantic weight.
type Stats struct {
	RunID            uuid.UUID
	NonterminalsRun  int
	TotalReports     int
	TotalPathsStored int
}

// Logger is the minimal progress sink the driver writes to. *ambigerr.Logger
// satisfies it; callers that want no logging can pass nil.
type Logger interface {
	Line(format string, args ...any)
}

type discardLogger struct{}

func (discardLogger) Line(format string, args ...any) {}

// Run removes transpositions once, then visits every nonterminal in g (in
// g.SortedNonterminals order, for determinism) that has at least one
// rule, expanding and comparing per rule count:
//
//   - nonterminals with < 2 rules are skipped entirely, except in
//     SemanticCheck mode, where they are still expanded (to force-complete
//     every path's semantics) but the comparator is never invoked.
//   - in UseTestRules mode, a nonterminal whose name starts with "[ambig-"
//     must produce at least one report and one whose name starts with
//     "[unambig-" must produce none; any violation is a fatal
//     ambigerr.TestModeMismatch.
//   - a nonterminal with fewer than two rules named with either test
//     prefix is itself ill-formed and fatal.
func Run(g grammar.Grammar, opts Options, logger Logger) ([]NTResult, Stats, error) {
	if logger == nil {
		logger = discardLogger{}
	}
	runID, err := uuid.NewRandom()
	if err != nil {
		return nil, Stats{}, fmt.Errorf("generate run id: %w", err)
	}
	stats := Stats{RunID: runID}

	clean := g.RemoveTranspositions()
	nts := clean.SortedNonterminals()

	// The --find-all dedupe list resets per root nonterminal, so a fresh
	// SeenPairs is built inside the loop rather than once here.
	var results []NTResult

	for _, nt := range nts {
		rules := clean[nt]
		if len(rules) == 0 {
			continue
		}

		isAmbigTest := strings.HasPrefix(nt, "[ambig-")
		isUnambigTest := strings.HasPrefix(nt, "[unambig-")

		if opts.UseTestRules && (isAmbigTest || isUnambigTest) && len(rules) < 2 {
			return results, stats, ambigerr.IllFormedGrammar(fmt.Sprintf("test symbol %q has fewer than two rules", nt))
		}

		if len(rules) < 2 && !opts.SemanticCheck {
			continue
		}

		start := time.Now()
		buckets, err := path.ExpandRoot(clean, nt, opts.limit(), !opts.StoreIncompleteTrees)
		if err != nil {
			if ambigerr.IsFatal(err) {
				return results, stats, err
			}
			continue
		}

		pathCount := 0
		for _, b := range buckets {
			pathCount += b.Len()
		}
		stats.TotalPathsStored += pathCount

		if opts.SemanticCheck {
			if err := forceCompleteAll(buckets, nt, logger); err != nil {
				return results, stats, err
			}
		}

		var reports []ambiguity.Report
		if len(rules) >= 2 {
			seen := &ambiguity.SeenPairs{}
			reports, err = ambiguity.Compare(buckets, opts.FindAll, seen)
			if err != nil {
				return results, stats, err
			}
		}

		elapsed := time.Since(start)
		stats.NonterminalsRun++
		stats.TotalReports += len(reports)

		logger.Line("nonterminal %s: %d rule(s), %d path(s) stored, %d ambiguity(ies), %s", nt, len(rules), pathCount, len(reports), elapsed)

		if opts.UseTestRules {
			if isAmbigTest && len(reports) == 0 {
				return results, stats, ambigerr.TestModeMismatch(fmt.Sprintf("%q: expected at least one ambiguity, found none", nt))
			}
			if isUnambigTest && len(reports) != 0 {
				return results, stats, ambigerr.TestModeMismatch(fmt.Sprintf("%q: expected no ambiguity, found %d", nt, len(reports)))
			}
		}

		results = append(results, NTResult{Nonterminal: nt, Reports: reports, PathCount: pathCount, Elapsed: elapsed})
	}

	return results, stats, nil
}

// forceCompleteAll implements --semantic-check: every stored path's semantic
// list is force-completed to surface a latent illegal semantic that
// ordinary incremental reduction might never visit because the comparator
// was never asked to compare that particular path. A latent illegal is
// recovered locally — the path is simply never reported on, same as the
// comparator's own lazy skip — but it is the whole point of the mode, so
// each one found is logged.
func forceCompleteAll(buckets []*path.Bucket, nt string, logger Logger) error {
	for _, b := range buckets {
		for _, key := range b.Keys() {
			for _, p := range b.Get(key) {
				_, legal, err := semlist.ForceComplete(p.SemanticList)
				if err != nil {
					return err
				}
				if !legal {
					lerr := ambigerr.LatentIllegalSemantic(fmt.Sprintf("%s: path %q carries a latent illegal semantic; discarded", nt, p.Terminals))
					logger.Line("%s", lerr.Error())
				}
			}
		}
	}
	return nil
}

// CoveredNonterminals returns the set of nonterminal names visited by a set
// of results, used by callers that want to cross-check the coverage
// convention against the full grammar rather than rely solely on Run's
// fatal-on-mismatch behavior.
func CoveredNonterminals(results []NTResult) util.ISet[string] {
	s := util.NewStringSet()
	for _, r := range results {
		s.Add(r.Nonterminal)
	}
	return s
}
