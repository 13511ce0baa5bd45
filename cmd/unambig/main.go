/*
Unambig runs the ambiguity detector over a compiled grammar.

It reads a JSON-encoded grammar file (or, with --use-test-rules, the
built-in coverage grammar in internal/testgrammar) and reports every
ambiguous derivation pair it finds for every nonterminal with at least two
rules. With the report cache enabled in the config file, a run whose
grammar and options hash to a previously stored run replays the stored
reports instead of re-enumerating; test mode and --semantic-check always
run live.

Usage:

	unambig [flags] [GRAMMAR_FILE]

The flags are:

	-v, --version
		Give the current version of unambig and then exit.

	-c, --config FILE
		Load options from the given TOML config file. CLI flags override
		whatever the file sets.

	-l, --tree-sym-limit N
		Hard cap on path.SymCount (default 9; must be >= 9 with
		--use-test-rules).

	--complete-trees
		Store only fully-reduced paths in a bucket (default true).

	--find-all
		Report every distinct ambiguous pair instead of stopping at the
		first found for a given rule pair.

	--semantic-check
		Force-complete every path's semantics during expansion, to find
		latent illegal semantics.

	-t, --use-test-rules
		Replace the grammar with the built-in test grammar and enforce
		[ambig-*]/[unambig-*] coverage.

	-q, --quiet
		Suppress ambiguity reports; still affects the exit code in test
		mode.

	-r, --repl
		After the run completes, open an interactive shell over the
		reports instead of printing them directly.

Exit codes: 0 on normal completion; 1 if the grammar could not be loaded;
2 if the detector raised a fatal error (a test-mode mismatch, an
impossible illegal mid-force-complete, or a conjugation failure).
*/
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/pflag"

	"github.com/dekarrin/unambig/internal/ambigerr"
	"github.com/dekarrin/unambig/internal/cache"
	"github.com/dekarrin/unambig/internal/config"
	"github.com/dekarrin/unambig/internal/driver"
	"github.com/dekarrin/unambig/internal/grammar"
	"github.com/dekarrin/unambig/internal/replshell"
	"github.com/dekarrin/unambig/internal/report"
	"github.com/dekarrin/unambig/internal/testgrammar"
	"github.com/dekarrin/unambig/internal/util"
	"github.com/dekarrin/unambig/internal/version"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitLoadError indicates the grammar file could not be read or
	// decoded.
	ExitLoadError

	// ExitDetectError indicates a fatal error raised during detection.
	ExitDetectError
)

var (
	returnCode int = ExitSuccess

	flagVersion       = pflag.BoolP("version", "v", false, "Gives the version info")
	flagConfig        = pflag.StringP("config", "c", "", "Load options from the given TOML config file")
	flagTreeSymLimit  = pflag.IntP("tree-sym-limit", "l", 0, "Hard cap on path symbol count (0 = use config/default)")
	flagCompleteTrees = pflag.Bool("complete-trees", true, "Store only fully-reduced paths in a bucket")
	flagFindAll       = pflag.Bool("find-all", false, "Report every distinct ambiguous pair")
	flagSemanticCheck = pflag.Bool("semantic-check", false, "Force-complete every path's semantics during expansion")
	flagUseTestRules  = pflag.BoolP("use-test-rules", "t", false, "Replace the grammar with the built-in test grammar")
	flagQuiet         = pflag.BoolP("quiet", "q", false, "Suppress ambiguity reports")
	flagRepl          = pflag.BoolP("repl", "r", false, "Open an interactive shell over the reports")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	cfg, err := config.Load(*flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitLoadError
		return
	}
	cfg = cfg.FillDefaults()
	applyFlagOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitLoadError
		return
	}

	var g grammar.Grammar
	if cfg.Detect.UseTestRules {
		g = testgrammar.Build()
	} else {
		args := pflag.Args()
		if len(args) != 1 {
			fmt.Fprintf(os.Stderr, "ERROR: exactly one GRAMMAR_FILE argument is required unless --use-test-rules is set\n")
			returnCode = ExitLoadError
			return
		}
		g, err = loadGrammarFile(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitLoadError
			return
		}
	}

	var rcache *cache.Cache
	if cfg.Cache.Enabled {
		rcache, err = cache.Open(cfg.Cache)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitLoadError
			return
		}
		defer rcache.Close()
	}

	logger := ambigerr.NewLogger(os.Stderr, cfg.Detect.Quiet)
	opts := cfg.Detect.ToOptions()

	// Test mode and --semantic-check must always run live; their exit-code
	// side effects cannot be replayed from storage.
	var key string
	if rcache != nil {
		key = cache.Key(fmt.Sprintf("%+v", g), opts)
		if !opts.UseTestRules && !opts.SemanticCheck && !*flagRepl {
			if hit, ok := replayCachedRun(rcache, key, cfg.Cache.TTL()); ok {
				if !cfg.Detect.Quiet {
					fmt.Print(hit)
				}
				return
			}
		}
	}

	results, stats, err := driver.Run(g, opts, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitDetectError
		return
	}

	if rcache != nil {
		if err := rcache.Put(context.Background(), stats.RunID, key, results); err != nil {
			fmt.Fprintf(os.Stderr, "WARN: could not write cache entry: %s\n", err.Error())
		}
	}

	if *flagRepl {
		shell, err := replshell.New(results, "", os.Stdout)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitDetectError
			return
		}
		defer shell.Close()
		if err := shell.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitDetectError
			return
		}
		return
	}

	if !cfg.Detect.Quiet {
		for _, res := range results {
			fmt.Print(report.NTResult(res, 0))
		}
		if len(results) > 0 {
			covered := driver.CoveredNonterminals(results).Elements()
			sort.Strings(covered)
			fmt.Printf("checked %s\n", util.MakeTextList(covered))
		}
	}
}

// applyFlagOverrides layers any explicitly-set pflag values on top of cfg,
// so a flag the user actually passed always wins over the config file.
func applyFlagOverrides(cfg *config.Config) {
	if pflag.Lookup("tree-sym-limit").Changed {
		cfg.Detect.TreeSymLimit = *flagTreeSymLimit
	}
	if pflag.Lookup("complete-trees").Changed {
		cfg.Detect.CompleteTrees = flagCompleteTrees
	}
	if pflag.Lookup("find-all").Changed {
		cfg.Detect.FindAll = *flagFindAll
	}
	if pflag.Lookup("semantic-check").Changed {
		cfg.Detect.SemanticCheck = *flagSemanticCheck
	}
	if pflag.Lookup("use-test-rules").Changed {
		cfg.Detect.UseTestRules = *flagUseTestRules
	}
	if pflag.Lookup("quiet").Changed {
		cfg.Detect.Quiet = *flagQuiet
	}
}

// replayCachedRun looks up the most recent non-expired cached run for key
// and renders it. A miss or any lookup error falls back to a live run.
func replayCachedRun(rcache *cache.Cache, key string, ttl time.Duration) (string, bool) {
	ctx := context.Background()
	runID, ok, err := rcache.FindByKey(ctx, key, ttl)
	if err != nil || !ok {
		return "", false
	}
	run, ok, err := rcache.Get(ctx, runID)
	if err != nil || !ok {
		return "", false
	}
	return report.CachedRun(run, 0), true
}

func loadGrammarFile(path string) (grammar.Grammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open grammar file: %w", err)
	}
	defer f.Close()

	var g grammar.Grammar
	if err := json.NewDecoder(f).Decode(&g); err != nil {
		return nil, fmt.Errorf("decode grammar file: %w", err)
	}
	return g, nil
}
