package path

// Bucket stores every path produced by expanding one rule of a root
// nonterminal, keyed by the path's Terminals string. Keys is the
// insertion order of distinct Terminals values: Go map iteration order is
// randomized per-process, and the driver/comparator need deterministic
// DFS-discovery order, so the ordered key slice is load-bearing, not
// cosmetic.
type Bucket struct {
	paths map[string][]*Path
	keys  []string
}

// NewBucket builds an empty Bucket.
func NewBucket() *Bucket {
	return &Bucket{paths: make(map[string][]*Path)}
}

// Store appends p to the bucket under its Terminals key.
func (b *Bucket) Store(p *Path) {
	if _, ok := b.paths[p.Terminals]; !ok {
		b.keys = append(b.keys, p.Terminals)
	}
	b.paths[p.Terminals] = append(b.paths[p.Terminals], p)
}

// Keys returns the distinct Terminals values stored, in first-insertion
// order.
func (b *Bucket) Keys() []string {
	return b.keys
}

// Get returns the paths stored under key, in insertion (DFS discovery)
// order.
func (b *Bucket) Get(key string) []*Path {
	return b.paths[key]
}

// Len returns the total number of paths stored across all keys.
func (b *Bucket) Len() int {
	n := 0
	for _, k := range b.keys {
		n += len(b.paths[k])
	}
	return n
}
