package ambiguity

import (
	"sort"
	"strings"

	"github.com/dekarrin/unambig/internal/contlist"
	"github.com/dekarrin/unambig/internal/grammar"
	"github.com/dekarrin/unambig/internal/path"
	"github.com/dekarrin/unambig/internal/semalg"
	"github.com/dekarrin/unambig/internal/semlist"
)

// FlatItem is one element of a text-and-syms flattening: a plain string
// or an unresolved inflection table.
type FlatItem struct {
	Plain string
	Table map[string]string
}

func (f FlatItem) isTable() bool { return f.Table != nil }

// Report is one reported ambiguous pair, with both trees trimmed to their
// first point of difference. TextA/TextB hold each path's rendered
// text-and-syms flattening and SemanticA/SemanticB the stringified
// force-reduced semantic (or an illegal marker), so a reporter needs no
// access to the live paths.
type Report struct {
	RuleIndexA, RuleIndexB int
	Terminals              string
	TextA, TextB           string
	SemanticA, SemanticB   string
	TreeA, TreeB           *Tree
}

// flattenTextValue expands a grammar.TextValue into flat items, splicing
// nested sequences in rather than nesting them: a sequence's items
// concatenate into the surrounding run of flat items.
func flattenTextValue(tv grammar.TextValue) []FlatItem {
	switch tv.Kind {
	case grammar.TextNone:
		return nil
	case grammar.TextPlain:
		return []FlatItem{{Plain: tv.Plain}}
	case grammar.TextTable:
		return []FlatItem{{Table: tv.Table}}
	case grammar.TextSequence:
		var out []FlatItem
		for _, e := range tv.Seq {
			out = append(out, flattenTextValue(e)...)
		}
		return out
	default:
		return nil
	}
}

// flattenPath implements the "text-and-syms flattening" used to compare
// two paths for equivalence by surface appearance.
func flattenPath(p *path.Path) []FlatItem {
	var items []FlatItem
	for _, tv := range p.Text {
		items = append(items, flattenTextValue(tv)...)
	}
	if p.CurSym != nil {
		items = append(items, FlatItem{Plain: *p.CurSym})
	}
	for cur := p.NextItemList; cur != nil; cur = cur.Next {
		if cur.IsText {
			items = append(items, flattenTextValue(cur.Text)...)
		} else {
			items = append(items, FlatItem{Plain: cur.Sym})
		}
	}
	return mergeAdjacentStrings(items)
}

// mergeAdjacentStrings joins consecutive plain-string items with a single
// space, so `"x" "y"` flattens the same as `"x y"`.
func mergeAdjacentStrings(items []FlatItem) []FlatItem {
	var out []FlatItem
	for _, it := range items {
		if !it.isTable() && len(out) > 0 && !out[len(out)-1].isTable() {
			out[len(out)-1].Plain += " " + it.Plain
			continue
		}
		out = append(out, it)
	}
	return out
}

func mapsEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}

func flatItemsEqual(a, b []FlatItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].isTable() != b[i].isTable() {
			return false
		}
		if a[i].isTable() {
			if !mapsEqual(a[i].Table, b[i].Table) {
				return false
			}
		} else if a[i].Plain != b[i].Plain {
			return false
		}
	}
	return true
}

func rightmostEqual(a, b *path.Path) bool {
	switch {
	case a.CurSym == nil && b.CurSym != nil, a.CurSym != nil && b.CurSym == nil:
		return false
	case a.CurSym != nil && b.CurSym != nil && *a.CurSym != *b.CurSym:
		return false
	}
	return contlist.SymsEqual(a.NextItemList, b.NextItemList)
}

// compareResult holds the outcome of comparing one pair of paths.
type compareResult struct {
	ambiguous bool
	fatal     error
}

// comparePaths runs the equivalence checks in order: rightmost symbols
// first, then the actual verdict. When either path carries any semantics,
// the forced-reduced semantic trees decide — equal means ambiguous, and a
// semantic attached to only one side distinguishes the pair no matter what
// the surface text looks like. Only when neither path has a semantic at
// all does the flattened text-and-syms comparison decide.
func comparePaths(a, b *path.Path) compareResult {
	if !rightmostEqual(a, b) {
		return compareResult{}
	}

	if a.SemanticList == nil && b.SemanticList == nil {
		return compareResult{ambiguous: flatItemsEqual(flattenPath(a), flattenPath(b))}
	}

	semA, legalA, errA := semlist.ForceComplete(a.SemanticList)
	if errA != nil {
		return compareResult{fatal: errA}
	}
	semB, legalB, errB := semlist.ForceComplete(b.SemanticList)
	if errB != nil {
		return compareResult{fatal: errB}
	}
	if !legalA || !legalB {
		return compareResult{}
	}

	return compareResult{ambiguous: semalg.ArraysEqual(semA, semB)}
}

// flatString renders a path's text-and-syms flattening for a report line.
func flatString(p *path.Path) string {
	items := flattenPath(p)
	parts := make([]string, len(items))
	for i, it := range items {
		if it.isTable() {
			parts[i] = textValueString(grammar.TableText(it.Table))
		} else {
			parts[i] = it.Plain
		}
	}
	return strings.Join(parts, " ")
}

// semString renders a path's force-reduced semantic for a report line.
func semString(p *path.Path) string {
	if p.SemanticList == nil {
		return "(none)"
	}
	nodes, ok, err := semlist.ForceComplete(p.SemanticList)
	if err != nil || !ok {
		return "(illegal)"
	}
	return semalg.ToString(nodes)
}

func sortedByKeyAscSymCount(b *path.Bucket, key string) []*path.Path {
	ps := append([]*path.Path(nil), b.Get(key)...)
	sort.SliceStable(ps, func(i, j int) bool { return ps[i].SymCount < ps[j].SymCount })
	return ps
}

// SeenPairs records the trimmed tree pairs already reported under
// --find-all so duplicates are skipped. Duplicate detection is a linear
// scan with Tree.Equal, symmetric in the pair; the trees are small and
// structural equality is cheap, so no key derivation is attempted.
type SeenPairs struct {
	pairs []treePair
}

type treePair struct {
	a, b *Tree
}

func (s *SeenPairs) contains(a, b *Tree) bool {
	for _, p := range s.pairs {
		if p.a.Equal(a) && p.b.Equal(b) {
			return true
		}
		if p.a.Equal(b) && p.b.Equal(a) {
			return true
		}
	}
	return false
}

func (s *SeenPairs) add(a, b *Tree) {
	s.pairs = append(s.pairs, treePair{a: a, b: b})
}

// Compare runs the equivalence comparator over every rule-pair of
// buckets: for each unordered pair (i,j), i<j, and each terminals key
// present in both buckets, cross-compare paths (sorted ascending by
// SymCount so the smallest ambiguous pair reports first). Without
// findAll, the first ambiguity found for a given (i,j) ends that pair's
// search, and any path already reported ambiguous is skipped in later
// pairs, so a whole family of mutually ambiguous rules yields a single
// report. With findAll every distinct trimmed-tree pair is reported,
// deduplicated against seen, which spans the whole nonterminal (reset by
// the caller between nonterminals).
func Compare(buckets []*path.Bucket, findAll bool, seen *SeenPairs) ([]Report, error) {
	if seen == nil {
		seen = &SeenPairs{}
	}
	var reports []Report
	reported := make(map[*path.Path]bool)

	for i := 0; i < len(buckets); i++ {
		for j := i + 1; j < len(buckets); j++ {
			bi, bj := buckets[i], buckets[j]

		pair:
			for _, key := range bi.Keys() {
				if len(bj.Get(key)) == 0 {
					continue
				}
				pathsI := sortedByKeyAscSymCount(bi, key)
				pathsJ := sortedByKeyAscSymCount(bj, key)

				for _, a := range pathsI {
					if !findAll && reported[a] {
						continue
					}
					for _, b := range pathsJ {
						if !findAll && reported[b] {
							continue
						}
						res := comparePaths(a, b)
						if res.fatal != nil {
							return reports, res.fatal
						}
						if !res.ambiguous {
							continue
						}

						treeA := Reconstruct(a)
						treeB := Reconstruct(b)
						Diff(treeA, treeB)

						if findAll {
							if seen.contains(treeA, treeB) {
								continue
							}
							seen.add(treeA, treeB)
						}

						reports = append(reports, Report{
							RuleIndexA: i,
							RuleIndexB: j,
							Terminals:  key,
							TextA:      flatString(a),
							TextB:      flatString(b),
							SemanticA:  semString(a),
							SemanticB:  semString(b),
							TreeA:      treeA,
							TreeB:      treeB,
						})

						if !findAll {
							reported[a] = true
							reported[b] = true
							break pair
						}
					}
				}
			}
		}
	}

	return reports, nil
}
