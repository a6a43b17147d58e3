/*
Package pctx implements the parsing context threaded through every
recognize call: the iterator, grammar stats, the variable scope stack, the
skip re-entrancy flag, verbose indentation, and furthest-successful-match
tracking (§4.7 of the engine spec).

pctx deliberately does not import the grammar object model package (the
root peg package): it depends on it only through the small Recognizer/
SkipSource interfaces below, which peg.Element and peg.Grammar satisfy by
structural typing. This keeps peg -> pctx a one-way dependency even though
conceptually a Context "belongs to" a Grammar.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package pctx

import (
	"github.com/npillmayer/peg/iter"
	"github.com/npillmayer/peg/match"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("peg.pctx")
}

// Recognizer is satisfied by anything that can attempt a match against the
// context's iterator: peg.Element and peg.Reference both implement it.
type Recognizer interface {
	Recognize(ctx *Context) *match.Match
}

// SkipSource is satisfied by a prepared grammar: it hands the context the
// skip axiom (which may be nil) and the id range to size stats for.
type SkipSource interface {
	Skip() Recognizer
	MaxID() int
}

// flag bits for Context.flags.
const (
	flagSkipping uint32 = 1 << iota
	flagVerbose
)

// indentString is precomputed once, following the original C
// implementation's trick of slicing into a fixed whitespace buffer instead
// of building a new string per trace line.
const indentString = "                                                                                                                                                                " // 160 spaces

// lastMatch records the furthest-successful-match heuristic of §4.7/§7.
type lastMatch struct {
	offset    int
	length    int
	elementID int
	valid     bool
}

// stat is a per-id attempt/success/failure tally, sized to MaxID()+1.
type stat struct {
	attempts  int
	successes int
	failures  int
}

// varFrame is one frame of the variable scope stack (§4.7): a linked list
// of (depth, key, value) triples. push places a sentinel frame and bumps
// depth; pop discards every frame whose depth is >= the depth being
// restored to.
type varFrame struct {
	depth int
	key   string
	value interface{}
	prev  *varFrame
}

// Context is the single mutable object threaded through a parse.
type Context struct {
	It    *iter.Iterator
	skip  SkipSource
	flags uint32
	depth int
	vars  *varFrame
	stats []stat
	last  lastMatch

	loopLimit      int
	recursionLimit int

	// TraceScope, if set, is called on every Push/Pop of the variable
	// stack, for tracing — mirrors gorgo's ScopeTree push/pop tracer
	// calls in runtime/symtable.go.
	TraceScope func(pushed bool, depth int)
}

// Options configures a Context at construction time. It is kept separate
// from the grammar-construction Config type (which lives in the peg
// package) so that pctx never needs to import peg.
type Options struct {
	Verbose        bool
	LoopLimit      int
	RecursionLimit int
}

// New creates a Context over it, bound to a prepared grammar (for its skip
// axiom and id range).
func New(it *iter.Iterator, g SkipSource, opts Options) *Context {
	ctx := &Context{
		It:             it,
		skip:           g,
		stats:          make([]stat, g.MaxID()+1),
		loopLimit:      opts.LoopLimit,
		recursionLimit: opts.RecursionLimit,
	}
	if opts.Verbose {
		ctx.flags |= flagVerbose
	}
	return ctx
}

// LoopLimit returns the configured cardinality-loop ceiling (<=0 means
// unlimited).
func (ctx *Context) LoopLimit() int { return ctx.loopLimit }

// RecursionLimit returns the configured recognition-depth ceiling (<=0
// means unlimited).
func (ctx *Context) RecursionLimit() int { return ctx.recursionLimit }

// Skip returns the grammar's skip axiom, or nil if none was configured.
func (ctx *Context) Skip() Recognizer {
	if ctx.skip == nil {
		return nil
	}
	return ctx.skip.Skip()
}

// IsSkipping reports whether the context is currently inside a skip
// attempt, preventing the skip rule from recursively invoking itself.
func (ctx *Context) IsSkipping() bool {
	return ctx.flags&flagSkipping != 0
}

// EnterSkip sets the SKIPPING flag and returns a function that restores its
// previous value; callers should `defer ctx.EnterSkip()()`.
func (ctx *Context) EnterSkip() func() {
	was := ctx.flags & flagSkipping
	ctx.flags |= flagSkipping
	return func() {
		ctx.flags = ctx.flags&^flagSkipping | was
	}
}

// Verbose reports whether verbose indent-tracing is enabled.
func (ctx *Context) Verbose() bool {
	return ctx.flags&flagVerbose != 0
}

// Indent returns a whitespace prefix for the context's current depth,
// capped to the precomputed indentString length, for verbose trace output.
func (ctx *Context) Indent() string {
	n := ctx.depth * 2
	if n > len(indentString) {
		n = len(indentString)
	}
	return indentString[:n]
}

// Depth returns the current recognition depth (incremented on every Rule
// entry, per Push).
func (ctx *Context) Depth() int { return ctx.depth }

// --- Variable stack ---------------------------------------------------

// Push enters a new variable scope. It is called once when entering each
// Rule (never a Group), so that variable mutations performed by Procedures
// inside a failed Rule are discarded wholesale on Pop.
func (ctx *Context) Push() {
	ctx.depth++
	ctx.vars = &varFrame{depth: ctx.depth, prev: ctx.vars} // sentinel frame marks the boundary
	if ctx.TraceScope != nil {
		ctx.TraceScope(true, ctx.depth)
	}
	tracer().Debugf("%spush scope, depth=%d", ctx.Indent(), ctx.depth)
}

// Pop discards every frame pushed since the matching Push, restoring depth.
func (ctx *Context) Pop() {
	tracer().Debugf("%spop scope, depth=%d", ctx.Indent(), ctx.depth)
	for ctx.vars != nil && ctx.vars.depth >= ctx.depth {
		ctx.vars = ctx.vars.prev
	}
	if ctx.depth > 0 {
		ctx.depth--
	}
	if ctx.TraceScope != nil {
		ctx.TraceScope(false, ctx.depth)
	}
}

// Set assigns key=value in the current scope. If key already exists at the
// current depth it is updated in place; otherwise a new frame is prepended.
func (ctx *Context) Set(key string, value interface{}) {
	for f := ctx.vars; f != nil && f.depth == ctx.depth; f = f.prev {
		if f.key == key {
			f.value = value
			return
		}
	}
	ctx.vars = &varFrame{depth: ctx.depth, key: key, value: value, prev: ctx.vars}
}

// Get looks up key, walking outward through enclosing scopes. ok is false
// if no frame defines key.
func (ctx *Context) Get(key string) (value interface{}, ok bool) {
	for f := ctx.vars; f != nil; f = f.prev {
		if f.key == key {
			return f.value, true
		}
	}
	return nil, false
}

// VarCount returns the number of live (non-sentinel) variable frames.
func (ctx *Context) VarCount() int {
	n := 0
	for f := ctx.vars; f != nil; f = f.prev {
		if f.key != "" {
			n++
		}
	}
	return n
}

// --- Stats & furthest-failure tracking ---------------------------------

// RecordAttempt bumps the attempt counter for id.
func (ctx *Context) RecordAttempt(id int) {
	if id >= 0 && id < len(ctx.stats) {
		ctx.stats[id].attempts++
	}
}

// RecordOutcome bumps the success or failure counter for id and, on a
// successful non-empty match that extends beyond the current furthest
// match, updates the furthest-failure/furthest-match heuristic.
func (ctx *Context) RecordOutcome(id int, m *match.Match) {
	if id < 0 || id >= len(ctx.stats) {
		return
	}
	if m.IsFailure() {
		ctx.stats[id].failures++
		return
	}
	ctx.stats[id].successes++
	if m.Length > 0 {
		end := m.Offset + m.Length
		if !ctx.last.valid || end > ctx.last.offset+ctx.last.length {
			ctx.last = lastMatch{offset: m.Offset, length: m.Length, elementID: id, valid: true}
		}
	}
}

// Stats returns the attempt/success/failure tally recorded for id.
func (ctx *Context) Stats(id int) (attempts, successes, failures int) {
	if id < 0 || id >= len(ctx.stats) {
		return 0, 0, 0
	}
	s := ctx.stats[id]
	return s.attempts, s.successes, s.failures
}

// LastMatch returns the furthest-successful-match heuristic: the start offset
// of the furthest-reaching non-empty match registered so far, its length, and the
// producing element's id. ok is false if no match has been registered yet.
func (ctx *Context) LastMatch() (offset, length, elementID int, ok bool) {
	return ctx.last.offset, ctx.last.length, ctx.last.elementID, ctx.last.valid
}
