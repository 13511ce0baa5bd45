package path

import "github.com/dekarrin/unambig/internal/grammar"

// ExpandRoot implements the path expander for root nonterminal n: for
// each of n's k rules, build a per-rule bucket and depth-first expand via
// CreatePath. Buckets are returned in rule order, so bucket i's outermost
// rule is always n's i-th rule.
//
// Expansion is single-threaded, deterministic DFS on (rule index, child
// rule index, …): callers that want per-root parallelism may run
// ExpandRoot concurrently across different root nonterminals, but must
// not reorder the rule loop within one root.
func ExpandRoot(g grammar.Grammar, n string, limit int, completeTrees bool) ([]*Bucket, error) {
	rules := g[n]
	buckets := make([]*Bucket, len(rules))
	for i := range rules {
		buckets[i] = NewBucket()
	}

	root := Root(n)
	for i := range rules {
		if err := expandRule(g, root, &rules[i], limit, completeTrees, buckets[i]); err != nil {
			return buckets, err
		}
	}
	return buckets, nil
}

func expandRule(g grammar.Grammar, prev *Path, r *grammar.Rule, limit int, completeTrees bool, bucket *Bucket) error {
	newPath, outcome, err := CreatePath(prev, r)
	if err != nil {
		return err
	}
	if outcome == Discard {
		return nil
	}

	if !completeTrees || newPath.Complete() {
		bucket.Store(newPath)
	}

	if newPath.CurSym != nil && newPath.SymCount < limit {
		childRules := g[*newPath.CurSym]
		for idx := range childRules {
			if err := expandRule(g, newPath, &childRules[idx], limit, completeTrees, bucket); err != nil {
				return err
			}
		}
	}
	return nil
}
