package match

import (
	"github.com/cnf/structhash"
)

// fingerprintKey is hashed to deduplicate rendering of shared subtrees: two
// matches with the same producer id and input span are the same node
// reached twice through a DAG-shaped grammar (an element referenced from
// more than one place), so rendering it twice would be both wasteful and,
// for XML/JSON output, misleading about tree shape.
type fingerprintKey struct {
	Kind   Kind
	ID     int
	Offset int
	Length int
}

// Fingerprint derives a stable dedup key for m, following the same
// structhash.Hash(..., 1) convention gorgo's lr/earley package uses to key
// its backlinks map by (item, state).
func Fingerprint(m *Match) string {
	if m == nil {
		return ""
	}
	h, err := structhash.Hash(fingerprintKey{
		Kind:   m.ProducerKind,
		ID:     m.ProducerID,
		Offset: m.Offset,
		Length: m.Length,
	}, 1)
	if err != nil {
		// structhash only fails on unsupported reflect kinds; fingerprintKey
		// is entirely plain scalars, so this is unreachable in practice.
		return ""
	}
	return h
}

// RenderCache memoizes Node conversion by Fingerprint, so that re-rendering
// an already-seen shared subtree (reached via a second Reference into the
// same DAG node) returns the cached Node instead of re-walking it.
type RenderCache struct {
	seen map[string]*Node
}

// NewRenderCache creates an empty cache.
func NewRenderCache() *RenderCache {
	return &RenderCache{seen: make(map[string]*Node)}
}

// ToNodeCached behaves like ToNode but consults/populates c by Fingerprint.
func (c *RenderCache) ToNodeCached(m *Match) *Node {
	if m.IsFailure() {
		return nil
	}
	key := Fingerprint(m)
	if n, ok := c.seen[key]; ok {
		return n
	}
	n := toNode(m, c)
	c.seen[key] = n
	return n
}
