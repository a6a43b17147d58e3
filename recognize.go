package peg

import (
	"github.com/npillmayer/peg/match"
)

// Recognize dispatches on e's Kind, implementing §4.3's per-kind contract:
// on success the iterator has advanced past the matched bytes; on failure
// it is restored to its pre-attempt offset for composites (leaves need not
// restore, since they either don't move the iterator at all before
// deciding, or move it exactly as far as they matched).
func (e *Element) Recognize(ctx *Context) *match.Match {
	ctx.RecordAttempt(e.ID)
	if ctx.Verbose() {
		tracer().Debugf("%s-> %s#%d %q @%d", ctx.Indent(), e.Kind, e.ID, e.Name, ctx.It.Offset())
	}
	var m *match.Match
	switch e.Kind {
	case match.WordKind:
		m = e.recognizeWord(ctx)
	case match.TokenKind:
		m = e.recognizeToken(ctx)
	case match.GroupKind:
		m = e.recognizeGroup(ctx)
	case match.RuleKind:
		m = e.recognizeRule(ctx)
	case match.ProcedureKind:
		m = e.recognizeProcedure(ctx)
	case match.ConditionKind:
		m = e.recognizeCondition(ctx)
	default:
		m = match.FAILURE
	}
	ctx.RecordOutcome(e.ID, m)
	if ctx.Verbose() {
		tracer().Debugf("%s<- %s#%d %s", ctx.Indent(), e.Kind, e.ID, m)
	}
	return m
}

func (e *Element) recognizeWord(ctx *Context) *match.Match {
	lit := e.word.literal
	offset, line := ctx.It.Mark()
	if !ctx.It.HasPrefix(lit) {
		return match.FAILURE
	}
	ctx.It.Move(int64(len(lit)))
	return match.New(match.WordKind, e.ID, e.Name, offset, len(lit), line)
}

func (e *Element) recognizeToken(ctx *Context) *match.Match {
	offset, line := ctx.It.Mark()
	window := ctx.It.Window(-1)
	if len(window) == 0 && !ctx.It.HasMore() {
		return match.FAILURE
	}
	res, err := e.token.pattern.MatchAt(window)
	if err != nil {
		// ErrInternal is logged by the rx package itself; either way this
		// attempt is a dismatch, never an exceptional condition (§7.4).
		return match.FAILURE
	}
	ctx.It.Move(int64(res.Length))
	m := match.New(match.TokenKind, e.ID, e.Name, offset, res.Length, line)
	m.Data = &match.TokenData{Groups: res.Groups, NamedGroups: res.NamedGroups}
	return m
}

func (e *Element) recognizeGroup(ctx *Context) *match.Match {
	offset, line := ctx.It.Mark()
	for r := e.comp.children; r != nil; r = r.Next {
		if m := r.Recognize(ctx); !m.IsFailure() {
			result := match.New(match.GroupKind, e.ID, e.Name, m.Offset, m.Length, m.Line)
			result.Children = m
			return result
		}
	}
	ctx.It.Backtrack(offset, line)
	return match.FAILURE
}

func (e *Element) recognizeRule(ctx *Context) *match.Match {
	if limit := ctx.RecursionLimit(); limit > 0 && ctx.Depth() >= limit {
		tracer().Errorf("rule %q exceeded recursion limit %d (likely left recursion)", e.Name, limit)
		return match.FAILURE
	}
	offset, line := ctx.It.Mark()
	ctx.Push()
	defer ctx.Pop()

	var first, last *match.Match
	for r := e.comp.children; r != nil; r = r.Next {
		m := r.Recognize(ctx)
		if m.IsFailure() {
			if consumed := applySkip(ctx); consumed {
				m = r.Recognize(ctx)
			}
		}
		if m.IsFailure() {
			ctx.It.Backtrack(offset, line)
			return match.FAILURE
		}
		if first == nil {
			first, last = m, m
		} else {
			last.Next = m
			last = m
		}
	}
	length := (last.Offset + last.Length) - first.Offset
	result := match.New(match.RuleKind, e.ID, e.Name, first.Offset, length, first.Line)
	result.Children = first
	return result
}

func (e *Element) recognizeProcedure(ctx *Context) *match.Match {
	offset, line := ctx.It.Mark()
	if e.proc != nil {
		if err := e.proc(e, ctx); err != nil {
			tracer().Errorf("procedure %q failed: %v", e.Name, err)
			return match.FAILURE
		}
	}
	return match.Empty(match.ProcedureKind, e.ID, e.Name, offset, line)
}

func (e *Element) recognizeCondition(ctx *Context) *match.Match {
	offset, line := ctx.It.Mark()
	if e.cond != nil && e.cond(ctx) {
		return match.Empty(match.ConditionKind, e.ID, e.Name, offset, line)
	}
	return match.FAILURE
}

// applySkip runs one attempt of the grammar's skip axiom with the
// re-entrancy guard set, per §4.4's skip protocol. It reports whether the
// skip consumed at least one byte.
func applySkip(ctx *Context) bool {
	if ctx.IsSkipping() {
		return false
	}
	skip := ctx.Skip()
	if skip == nil {
		return false
	}
	restore := ctx.EnterSkip()
	defer restore()
	before := ctx.It.Offset()
	m := skip.Recognize(ctx)
	if m.IsFailure() {
		return false
	}
	return ctx.It.Offset() > before
}

// Recognize implements the Reference-level recognition of §4.4: looping
// element.Recognize per cardinality, applying the skip protocol between
// failed attempts, and enforcing the zero-length-match loop guard.
func (r *Reference) Recognize(ctx *Context) *match.Match {
	offset, line := ctx.It.Mark()
	ctx.RecordAttempt(r.ID)

	var first, last *match.Match
	count := 0
	loopLimit := ctx.LoopLimit()
	for {
		m := r.Element.Recognize(ctx)
		if m.IsFailure() {
			if consumed := applySkip(ctx); consumed {
				continue
			}
			break
		}
		if first == nil {
			first, last = m, m
		} else {
			last.Next = m
			last = m
		}
		count++
		if r.Cardinality.bounded() {
			break
		}
		if m.Length == 0 {
			// A zero-length match is the sole defense against infinite
			// loops on nullable MANY/MANY_OPTIONAL children (§4.4, §8
			// property 3): stop after counting it once.
			break
		}
		if loopLimit > 0 && count >= loopLimit {
			tracer().Errorf("reference %q exceeded loop limit %d", r.Name, loopLimit)
			break
		}
	}

	ok := count >= 1 || r.Cardinality.alwaysSucceeds()
	if !ok {
		ctx.RecordOutcome(r.ID, match.FAILURE)
		ctx.It.Backtrack(offset, line)
		return match.FAILURE
	}
	length := ctx.It.Offset() - offset
	result := match.New(match.ReferenceKind, r.ID, r.Name, offset, length, line)
	result.Children = first
	ctx.RecordOutcome(r.ID, result)
	return result
}
