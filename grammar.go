package peg

import (
	"fmt"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/sets/hashset"
	"github.com/npillmayer/peg/iter"
	"github.com/npillmayer/peg/match"
	"github.com/npillmayer/peg/pctx"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'peg'.
func tracer() tracing.Trace {
	return tracing.Select("peg")
}

// node is either an *Element or a *Reference during the id-assignment walk;
// both occupy the same id space (§4.5 and §9's open-question note).
type node interface {
	nodeID() int
	setNodeID(int)
	childNodes() []node
}

func (e *Element) nodeID() int     { return e.ID }
func (e *Element) setNodeID(i int) { e.ID = i }
func (e *Element) childNodes() []node {
	if e.comp == nil {
		return nil
	}
	var out []node
	for r := e.comp.children; r != nil; r = r.Next {
		out = append(out, r)
	}
	return out
}

func (r *Reference) nodeID() int     { return r.ID }
func (r *Reference) setNodeID(i int) { r.ID = i }
func (r *Reference) childNodes() []node {
	if r.Element == nil {
		return nil
	}
	return []node{r.Element}
}

// Grammar holds the axiom, the optional skip element, and an id-indexed
// table of every element/reference reachable from either (§3, §4.5).
type Grammar struct {
	Name  string
	axiom *Element
	skip  *Element

	elements []node // indexed by id after Prepare
	prepared bool
	cfg      Config
}

// NewGrammar creates an empty, unprepared grammar.
func NewGrammar(name string) *Grammar {
	return &Grammar{Name: name, cfg: DefaultConfig()}
}

// SetAxiom sets the top-level element tried against the input.
func (g *Grammar) SetAxiom(e *Element) { g.axiom = e; g.prepared = false }

// SetSkip sets the distinguished skip element applied between Rule
// children and Reference-loop iterations. nil is legal and means "no skip
// rule" (§12): the skip protocol then degenerates to a no-op.
func (g *Grammar) SetSkip(e *Element) { g.skip = e; g.prepared = false }

// Axiom returns the grammar's axiom element, or nil.
func (g *Grammar) Axiom() *Element { return g.axiom }

// SkipElement returns the grammar's skip element, or nil.
func (g *Grammar) SkipElement() *Element { return g.skip }

// MaxID returns the highest id assigned by Prepare (satisfies pctx.SkipSource).
func (g *Grammar) MaxID() int {
	return len(g.elements) - 1
}

// Skip satisfies pctx.SkipSource, handing the context a Recognizer for the
// skip axiom (or nil).
func (g *Grammar) Skip() pctx.Recognizer {
	if g.skip == nil {
		return nil
	}
	return g.skip
}

// ByID returns the element or reference assigned id, or nil if id is out of
// range. Panics-free by design so diagnostics code can probe freely.
func (g *Grammar) ByID(id int) interface{} {
	if id < 0 || id >= len(g.elements) {
		return nil
	}
	return g.elements[id]
}

// Prepare performs the breadth-first id-assignment walk of §4.5: ids are
// reset to unassignedID, then dense ids are handed out in order of first
// visit. The skip element's own root claims id 0 first (§3); its children
// are deliberately left unvisited at that point so a composite skip
// doesn't steal ids from the axiom subtree, which is assigned next (ids
// 1..N). Only after axiom is fully walked does skip's remaining subtree
// (its children and beyond) pick up the trailing ids N+1..N+M.
//
// A node seen before (tracked via its assigned id no longer being the
// sentinel) terminates that branch of the walk, which is what makes the
// walk safe over the DAG-shaped (possibly cyclic-by-reference) element
// graph described in §9.
func (g *Grammar) Prepare(opts ...Option) error {
	if g.axiom == nil {
		return ErrNilAxiom
	}
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	g.cfg = cfg

	resetIDs(g.axiom, hashset.New())
	if g.skip != nil {
		resetIDs(g.skip, hashset.New())
	}

	elements := arraylist.New()
	next := 0
	if g.skip != nil {
		next = assignOne(g.skip, next, elements)
	}
	next = bfsAssign(g.axiom, next, elements)
	if g.skip != nil {
		// skip's root already has its id; resume from its children so the
		// remainder of a composite skip subtree lands after axiom.
		next = bfsAssignChildren(g.skip, next, elements)
	}

	table := make([]node, elements.Size())
	it := elements.Iterator()
	for it.Next() {
		n := it.Value().(node)
		table[n.nodeID()] = n
	}
	g.elements = table
	g.prepared = true
	tracer().Debugf("grammar %q prepared: %d ids assigned", g.Name, len(table))
	return nil
}

// resetIDs walks the graph from n, setting every reachable node's id back
// to unassignedID, guarding against infinite recursion on shared/cyclic
// subgraphs with a visited set keyed by pointer identity.
func resetIDs(start node, visited *hashset.Set) {
	var walk func(n node)
	walk = func(n node) {
		if n == nil || visited.Contains(n) {
			return
		}
		visited.Add(n)
		n.setNodeID(unassignedID)
		for _, c := range n.childNodes() {
			walk(c)
		}
	}
	walk(start)
}

// assignOne claims id for a single node without enqueueing its children,
// used to hand the skip root its id ahead of the axiom walk while leaving
// the rest of a composite skip subtree untouched.
func assignOne(n node, id int, elements *arraylist.List) int {
	if n.nodeID() != unassignedID {
		return id
	}
	n.setNodeID(id)
	elements.Add(n)
	return id + 1
}

// bfsAssign assigns dense ids breadth-first starting at firstID, appending
// every newly-assigned node to elements in assignment order, and returns
// the next free id.
func bfsAssign(start node, firstID int, elements *arraylist.List) int {
	queue := arraylist.New()
	queue.Add(start)
	return drainQueue(queue, firstID, elements)
}

// bfsAssignChildren is bfsAssign resumed past a start node that already
// holds an id (assigned via assignOne), seeding the queue with start's
// children instead of start itself.
func bfsAssignChildren(start node, firstID int, elements *arraylist.List) int {
	queue := arraylist.New()
	for _, c := range start.childNodes() {
		if c.nodeID() == unassignedID {
			queue.Add(c)
		}
	}
	return drainQueue(queue, firstID, elements)
}

// drainQueue runs the shared breadth-first assignment loop over an
// already-seeded queue.
func drainQueue(queue *arraylist.List, firstID int, elements *arraylist.List) int {
	id := firstID
	for !queue.Empty() {
		v, _ := queue.Get(0)
		queue.Remove(0)
		n := v.(node)
		if n.nodeID() != unassignedID {
			continue // already visited (shared subgraph)
		}
		n.setNodeID(id)
		elements.Add(n)
		id++
		for _, c := range n.childNodes() {
			if c.nodeID() == unassignedID {
				queue.Add(c)
			}
		}
	}
	return id
}

// --- Parsing entry points ----------------------------------------------

// Status is the overall outcome of a parse (§6).
type Status uint8

const (
	// StatusFailure: the axiom returned FAILURE.
	StatusFailure Status = iota
	// StatusPartial: the axiom succeeded but input remains unconsumed.
	StatusPartial
	// StatusSuccess: the axiom succeeded and consumed all input.
	StatusSuccess
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "Success"
	case StatusPartial:
		return "Partial"
	default:
		return "Failure"
	}
}

// Char returns the single-character status code of §6.
func (s Status) Char() byte {
	switch s {
	case StatusSuccess:
		return 'S'
	case StatusPartial:
		return 'p'
	default:
		return 'F'
	}
}

// ParseResult is what a parse run returns: the overall status, the match
// tree (nil on failure), and the context the parse ran in (so a caller can
// still query furthest-failure / stats after the fact).
type ParseResult struct {
	status    Status
	Match     *match.Match
	Context   *Context
	Remaining int
}

// Status returns the overall outcome.
func (r *ParseResult) Status() Status { return r.status }

// Span returns the input range covered by the root match, or the zero
// Span on failure.
func (r *ParseResult) Span() Span {
	if r.Match == nil {
		return Span{}
	}
	return MatchSpan(r.Match.Offset, r.Match.Length)
}

// FurthestFailure returns the furthest-failure heuristic recorded on the
// context (§7): the span of the deepest successful match, and the id of
// the element that produced it.
func (r *ParseResult) FurthestFailure() (span Span, elementID int, ok bool) {
	offset, length, id, valid := r.Context.LastMatch()
	if !valid {
		return Span{}, 0, false
	}
	return MatchSpan(offset, length), id, true
}

// ParseString parses text against the grammar's axiom. The grammar must
// already be prepared.
func (g *Grammar) ParseString(text string, opts ...Option) (*ParseResult, error) {
	it := iter.FromString(text, iter.LineSeparator(g.lineSep(opts)))
	return g.parseIterator(it, opts)
}

// ParsePath opens path and parses its contents against the grammar's
// axiom. The grammar must already be prepared.
func (g *Grammar) ParsePath(path string, opts ...Option) (*ParseResult, error) {
	it, err := iter.OpenPath(path, iter.LineSeparator(g.lineSep(opts)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileNotFound, err)
	}
	defer it.Close()
	return g.parseIterator(it, opts)
}

// ParseIterator parses against an already-constructed iterator, e.g. one
// backtracked from a previous run. The grammar must already be prepared.
func (g *Grammar) ParseIterator(it *iter.Iterator, opts ...Option) (*ParseResult, error) {
	return g.parseIterator(it, opts)
}

func (g *Grammar) lineSep(opts []Option) byte {
	cfg := g.cfg
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.LineSeparator == 0 {
		return '\n'
	}
	return cfg.LineSeparator
}

func (g *Grammar) parseIterator(it *iter.Iterator, opts []Option) (*ParseResult, error) {
	if !g.prepared {
		return nil, ErrNotPrepared
	}
	cfg := g.cfg
	for _, opt := range opts {
		opt(&cfg)
	}
	ctx := pctx.New(it, g, pctx.Options{
		Verbose:        cfg.Verbose,
		LoopLimit:      cfg.LoopLimit,
		RecursionLimit: cfg.RecursionLimit,
	})

	m := g.axiom.Recognize(ctx)
	res := &ParseResult{Context: ctx}
	if m.IsFailure() {
		res.status = StatusFailure
		return res, nil
	}
	res.Match = m
	res.Remaining = it.Remaining()
	if it.HasMore() {
		res.status = StatusPartial
	} else {
		res.status = StatusSuccess
	}
	return res, nil
}
