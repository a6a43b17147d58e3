package pctx

import (
	"testing"

	"github.com/npillmayer/peg/iter"
	"github.com/npillmayer/peg/match"
)

// noSkipGrammar is a minimal SkipSource stub for tests that don't need an
// actual skip axiom or real recognizers.
type noSkipGrammar struct {
	maxID int
	skip  Recognizer
}

func (g *noSkipGrammar) Skip() Recognizer { return g.skip }
func (g *noSkipGrammar) MaxID() int       { return g.maxID }

// recognizerFunc adapts a plain function to the Recognizer interface, the
// same "function implements a one-method interface" trick gorgo's own
// scanner/earley option plumbing uses for small adapter types.
type recognizerFunc func(ctx *Context) *match.Match

func (f recognizerFunc) Recognize(ctx *Context) *match.Match { return f(ctx) }

func newTestContext(text string, g SkipSource) *Context {
	it := iter.FromString(text)
	return New(it, g, Options{})
}

func TestPushPopRestoresDepthAndVars(t *testing.T) {
	ctx := newTestContext("x", &noSkipGrammar{maxID: 0})
	ctx.Push()
	ctx.Set("a", 1)
	if v, ok := ctx.Get("a"); !ok || v != 1 {
		t.Fatalf("expected to find 'a'=1 in the current scope")
	}
	ctx.Pop()
	if _, ok := ctx.Get("a"); ok {
		t.Fatalf("variable set inside a popped scope must not be visible afterwards")
	}
	if ctx.Depth() != 0 {
		t.Fatalf("expected depth 0 after matching Push/Pop, got %d", ctx.Depth())
	}
}

func TestNestedScopesShadowOuter(t *testing.T) {
	ctx := newTestContext("x", &noSkipGrammar{maxID: 0})
	ctx.Push()
	ctx.Set("k", "outer")
	ctx.Push()
	ctx.Set("k", "inner")
	if v, _ := ctx.Get("k"); v != "inner" {
		t.Fatalf("expected the inner scope's binding to shadow the outer one, got %v", v)
	}
	ctx.Pop()
	if v, _ := ctx.Get("k"); v != "outer" {
		t.Fatalf("expected the outer binding to reappear after popping the inner scope, got %v", v)
	}
	ctx.Pop()
}

func TestSetUpdatesInPlaceAtSameDepth(t *testing.T) {
	ctx := newTestContext("x", &noSkipGrammar{maxID: 0})
	ctx.Push()
	ctx.Set("k", 1)
	ctx.Set("k", 2)
	if ctx.VarCount() != 1 {
		t.Fatalf("re-setting a key at the same depth must update in place, not grow VarCount; got %d", ctx.VarCount())
	}
	if v, _ := ctx.Get("k"); v != 2 {
		t.Fatalf("expected the updated value 2, got %v", v)
	}
}

func TestSkipReentrancyGuard(t *testing.T) {
	g := &noSkipGrammar{maxID: 0}
	ctx := newTestContext("x", g)
	if ctx.IsSkipping() {
		t.Fatalf("a fresh context must not report IsSkipping()")
	}
	restore := ctx.EnterSkip()
	if !ctx.IsSkipping() {
		t.Fatalf("expected IsSkipping() true while inside EnterSkip")
	}
	restore()
	if ctx.IsSkipping() {
		t.Fatalf("expected IsSkipping() false after the restore function runs")
	}
}

func TestRecordOutcomeTracksFurthestMatch(t *testing.T) {
	g := &noSkipGrammar{maxID: 2}
	ctx := newTestContext("abcdef", g)
	ctx.RecordAttempt(0)
	ctx.RecordOutcome(0, match.New(match.WordKind, 0, "a", 0, 1, 1))
	ctx.RecordAttempt(1)
	ctx.RecordOutcome(1, match.New(match.WordKind, 1, "bc", 1, 2, 1))

	offset, length, id, ok := ctx.LastMatch()
	if !ok {
		t.Fatalf("expected a recorded furthest match")
	}
	if offset != 1 || length != 2 || id != 1 {
		t.Fatalf("expected the furthest match to be (offset=1, length=2, id=1), got (%d, %d, %d)", offset, length, id)
	}

	// A shorter match ending earlier must not overwrite the furthest one.
	ctx.RecordOutcome(0, match.New(match.WordKind, 0, "a", 0, 1, 1))
	if _, _, id, _ := ctx.LastMatch(); id != 1 {
		t.Fatalf("a match ending earlier than the recorded furthest one must not replace it")
	}
}

func TestStatsCountAttemptsSuccessesFailures(t *testing.T) {
	g := &noSkipGrammar{maxID: 0}
	ctx := newTestContext("x", g)
	ctx.RecordAttempt(0)
	ctx.RecordOutcome(0, match.FAILURE)
	ctx.RecordAttempt(0)
	ctx.RecordOutcome(0, match.New(match.WordKind, 0, "x", 0, 1, 1))

	attempts, successes, failures := ctx.Stats(0)
	if attempts != 2 || successes != 1 || failures != 1 {
		t.Fatalf("expected attempts=2 successes=1 failures=1, got %d/%d/%d", attempts, successes, failures)
	}
}

func TestSkipDelegatesToGrammar(t *testing.T) {
	called := false
	skipFn := recognizerFunc(func(ctx *Context) *match.Match {
		called = true
		return match.FAILURE
	})
	g := &noSkipGrammar{maxID: 0, skip: skipFn}
	ctx := newTestContext("x", g)
	if ctx.Skip() == nil {
		t.Fatalf("expected a non-nil Skip() recognizer")
	}
	ctx.Skip().Recognize(ctx)
	if !called {
		t.Fatalf("expected the grammar's skip recognizer to have been invoked")
	}
}

func TestIndentIsTwoSpacesPerDepth(t *testing.T) {
	g := &noSkipGrammar{maxID: 0}
	ctx := newTestContext("x", g)
	for i := 0; i < 5; i++ {
		ctx.Push()
	}
	if len(ctx.Indent()) != 10 {
		t.Fatalf("expected an indent of 2*depth=10 spaces, got %d", len(ctx.Indent()))
	}
}
