// Package report renders driver.NTResult/ambiguity.Report values into
// human-readable text, in the style of internal/ictiobus/parse's rosed-based
// table dumps and engine.go's rosed.Edit(...).Wrap(...) console formatting.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/dekarrin/rosed"

	"github.com/dekarrin/unambig/internal/ambiguity"
	"github.com/dekarrin/unambig/internal/cache"
	"github.com/dekarrin/unambig/internal/driver"
)

// DefaultWidth is the column width reports wrap prose text to when no
// terminal width is known.
const DefaultWidth = 80

// NTResult renders one nonterminal's findings: a header line, then one
// block per ambiguity report.
func NTResult(res driver.NTResult, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}

	var sb strings.Builder
	header := fmt.Sprintf("%s: %d ambiguity(ies) in %s", res.Nonterminal, len(res.Reports), res.Elapsed)
	sb.WriteString(rosed.Edit(header).Wrap(width).String())
	sb.WriteString("\n")

	for i, r := range res.Reports {
		sb.WriteString(Ambiguity(i+1, r, width))
		sb.WriteString("\n")
	}
	return sb.String()
}

// Ambiguity renders a single report: the shared terminal sequence, the two
// colliding rule indices, and a side-by-side table of the two trimmed
// parse trees.
func Ambiguity(n int, r ambiguity.Report, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}

	title := fmt.Sprintf("#%d: rule %d vs rule %d, terminals: %q", n, r.RuleIndexA, r.RuleIndexB, strings.TrimSpace(r.Terminals))

	var detail strings.Builder
	if r.TextA != "" || r.TextB != "" {
		fmt.Fprintf(&detail, "text: %q vs %q\n", r.TextA, r.TextB)
	}
	if r.SemanticA != "" || r.SemanticB != "" {
		fmt.Fprintf(&detail, "sem:  %s vs %s\n", r.SemanticA, r.SemanticB)
	}

	rowsA := treeLines(r.TreeA)
	rowsB := treeLines(r.TreeB)
	rows := len(rowsA)
	if len(rowsB) > rows {
		rows = len(rowsB)
	}

	data := make([][]string, 0, rows)
	for i := 0; i < rows; i++ {
		var a, b string
		if i < len(rowsA) {
			a = rowsA[i]
		}
		if i < len(rowsB) {
			b = rowsB[i]
		}
		data = append(data, []string{a, b})
	}

	table := rosed.Edit("").
		InsertTableOpts(0, data, width/2, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()

	return rosed.Edit(title).Wrap(width).String() + "\n" + detail.String() + table
}

// CachedRun renders a replayed cache.Run: a replay banner, then the same
// per-nonterminal shape NTResult produces, from the flattened entries the
// cache stored.
func CachedRun(run cache.Run, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "replaying cached run %s from %s\n", run.RunID, run.Created.Format(time.RFC3339))

	for _, e := range run.Entries {
		header := fmt.Sprintf("%s: %d ambiguity(ies) in %s", e.Nonterminal, len(e.Reports), time.Duration(e.ElapsedNS))
		sb.WriteString(rosed.Edit(header).Wrap(width).String())
		sb.WriteString("\n")
		for i, r := range e.Reports {
			fmt.Fprintf(&sb, "#%d: rule %d vs rule %d, terminals: %q\n", i+1, r.RuleIndexA, r.RuleIndexB, strings.TrimSpace(r.Terminals))
			fmt.Fprintf(&sb, "%s\n%s\n", r.TreeTextA, r.TreeTextB)
		}
	}
	return sb.String()
}

// treeLines renders t as indented "symbol: text" lines, depth-first,
// children last-to-first so the rightmost spine (the part the comparator
// and differ both pivot on) reads first.
func treeLines(t *ambiguity.Tree) []string {
	var out []string
	var walk func(t *ambiguity.Tree, depth int)
	walk = func(t *ambiguity.Tree, depth int) {
		if t == nil {
			out = append(out, strings.Repeat("  ", depth)+"(trimmed)")
			return
		}
		line := strings.Repeat("  ", depth) + t.Symbol
		if t.Text != nil {
			line += fmt.Sprintf(" %q", *t.Text)
		}
		if t.Semantic != nil {
			line += " sem=" + *t.Semantic
		}
		if t.InsertedSemantic != nil {
			line += " ins-sem=" + *t.InsertedSemantic
		}
		out = append(out, line)
		for _, c := range t.Children {
			walk(c, depth+1)
		}
	}
	walk(t, 0)
	return out
}
