package peg

import (
	"github.com/npillmayer/peg/match"
	"github.com/npillmayer/peg/rx"
)

// unassignedID is the sentinel used before Grammar.Prepare runs, and also
// used transiently during the BFS walk to detect cycles (§4.5).
const unassignedID = -1

// Element is the polymorphic base of the grammar object model: every
// element carries a Kind tag, an id (assigned by Grammar.Prepare), an
// optional display name and kind-specific configuration (§3).
type Element struct {
	Kind match.Kind
	ID   int
	Name string

	word  *wordConfig
	token *tokenConfig
	comp  *compConfig // Group or Rule
	proc  ProcedureFunc
	cond  ConditionFunc
}

// ProcedureFunc is invoked by a Procedure element for its side effects. It
// receives the element itself (so a callback can read its own Name, per
// §12's "Procedure/Condition callback signature richness") and the parsing
// context.
type ProcedureFunc func(e *Element, ctx *Context) error

// ConditionFunc is invoked by a Condition element; it returns true to
// succeed (with a zero-length match) or false to fail.
type ConditionFunc func(ctx *Context) bool

type wordConfig struct {
	literal string
}

type tokenConfig struct {
	pattern *rx.Pattern
	source  string
}

type compConfig struct {
	isRule   bool // true for Rule (sequence), false for Group (alternation)
	children *Reference
}

// Cardinality is the repetition semantics of a Reference (§3).
type Cardinality uint8

const (
	// One: exactly one match required.
	One Cardinality = iota
	// Optional: zero or one match; missing match is an empty success.
	Optional
	// Many: one or more, greedy.
	Many
	// ManyOptional: zero or more, greedy; empty succeeds with zero length.
	ManyOptional
)

// Char returns the wire/textual character for a Cardinality, per §6.
func (c Cardinality) Char() byte {
	switch c {
	case One:
		return '1'
	case Optional:
		return '?'
	case Many:
		return '+'
	case ManyOptional:
		return '*'
	default:
		return '?'
	}
}

func (c Cardinality) String() string {
	switch c {
	case One:
		return "ONE"
	case Optional:
		return "OPTIONAL"
	case Many:
		return "MANY"
	case ManyOptional:
		return "MANY_OPTIONAL"
	default:
		return "?"
	}
}

// alwaysSucceeds reports whether a Reference with this cardinality always
// succeeds regardless of whether its element matched (Optional, ManyOptional).
func (c Cardinality) alwaysSucceeds() bool {
	return c == Optional || c == ManyOptional
}

// bounded reports whether this cardinality stops after the first match
// (One, Optional) rather than looping (Many, ManyOptional).
func (c Cardinality) bounded() bool {
	return c == One || c == Optional
}

// Reference wraps an element with a cardinality and an optional display
// name; it is the only way an element appears as a child of a composite
// (§3). References form a singly-linked sibling list through Next.
type Reference struct {
	ID          int
	Name        string
	Cardinality Cardinality
	Element     *Element
	Next        *Reference
}

// Word creates a literal-matching element. Zero-length literals are
// rejected at construction (§4.3).
func Word(literal string) (*Element, error) {
	if len(literal) == 0 {
		return nil, ErrZeroLengthWord
	}
	return &Element{Kind: match.WordKind, ID: unassignedID, Name: literal, word: &wordConfig{literal: literal}}, nil
}

// MustWord is like Word but panics on error, for use in package-level
// grammar tables where the pattern is a compile-time constant.
func MustWord(literal string) *Element {
	e, err := Word(literal)
	if err != nil {
		panic(err)
	}
	return e
}

// Token creates a regex-matching element. pattern is compiled with rx.Compile
// and matched anchored at the current position (§4.2).
func Token(pattern string, opts ...rx.Option) (*Element, error) {
	compiled, err := rx.Compile(pattern, opts...)
	if err != nil {
		return nil, err
	}
	return &Element{
		Kind:  match.TokenKind,
		ID:    unassignedID,
		Name:  pattern,
		token: &tokenConfig{pattern: compiled, source: pattern},
	}, nil
}

// MustToken is like Token but panics on error.
func MustToken(pattern string, opts ...rx.Option) *Element {
	e, err := Token(pattern, opts...)
	if err != nil {
		panic(err)
	}
	return e
}

// Group creates an ordered-alternation element: children are tried
// left-to-right and the first success wins (§4.3). Bare *Element children
// are auto-wrapped in ONE-cardinality References.
func Group(children ...interface{}) (*Element, error) {
	refs, err := wrapChildren(children)
	if err != nil {
		return nil, err
	}
	if refs == nil {
		return nil, ErrEmptyComposite
	}
	return &Element{Kind: match.GroupKind, ID: unassignedID, comp: &compConfig{isRule: false, children: refs}}, nil
}

// MustGroup is like Group but panics on error.
func MustGroup(children ...interface{}) *Element {
	e, err := Group(children...)
	if err != nil {
		panic(err)
	}
	return e
}

// Rule creates an ordered-sequence element: every child must match, in
// order, with the skip protocol applied between children on failure
// (§4.3). Bare *Element children are auto-wrapped in ONE-cardinality
// References.
func Rule(children ...interface{}) (*Element, error) {
	refs, err := wrapChildren(children)
	if err != nil {
		return nil, err
	}
	if refs == nil {
		return nil, ErrEmptyComposite
	}
	return &Element{Kind: match.RuleKind, ID: unassignedID, comp: &compConfig{isRule: true, children: refs}}, nil
}

// MustRule is like Rule but panics on error.
func MustRule(children ...interface{}) *Element {
	e, err := Rule(children...)
	if err != nil {
		panic(err)
	}
	return e
}

// Procedure creates an element that invokes fn for its side effects and
// succeeds with a zero-length match, never consuming input (§4.3). If fn
// returns an error, the error is logged and the element fails.
func Procedure(fn ProcedureFunc) *Element {
	return &Element{Kind: match.ProcedureKind, ID: unassignedID, proc: fn}
}

// Condition creates an element that succeeds (zero-length) iff fn returns
// true (§4.3).
func Condition(fn ConditionFunc) *Element {
	return &Element{Kind: match.ConditionKind, ID: unassignedID, cond: fn}
}

// wrapChildren auto-wraps bare *Element values in ONE-cardinality
// References, threading existing *Reference values through unchanged, and
// links the result into a singly-linked list.
func wrapChildren(children []interface{}) (*Reference, error) {
	var head, tail *Reference
	for _, c := range children {
		var ref *Reference
		switch v := c.(type) {
		case *Reference:
			ref = v
		case *Element:
			r, err := Ref(v)
			if err != nil {
				return nil, err
			}
			ref = r
		default:
			continue
		}
		if head == nil {
			head, tail = ref, ref
		} else {
			tail.Next = ref
			tail = ref
		}
	}
	return head, nil
}

// Ref wraps e in a new ONE-cardinality Reference. Use builder-style
// From(e).Cardinality(c).Name(n) for anything else.
func Ref(e *Element) (*Reference, error) {
	return newRef(e, One, "")
}

func newRef(e *Element, c Cardinality, name string) (*Reference, error) {
	if (e.Kind == match.ProcedureKind || e.Kind == match.ConditionKind) &&
		(c == Many || c == ManyOptional) {
		return nil, ErrProcedureCardinality
	}
	return &Reference{ID: unassignedID, Name: name, Cardinality: c, Element: e}, nil
}

// RefBuilder is a fluent builder for References, mirroring the external
// interface's `Reference.from(element).cardinality(c).name(n)` (§6).
type RefBuilder struct {
	e    *Element
	c    Cardinality
	name string
}

// From starts building a Reference around e, defaulting to ONE
// cardinality and no display name.
func From(e *Element) *RefBuilder {
	return &RefBuilder{e: e, c: One}
}

// Cardinality sets the reference's cardinality.
func (b *RefBuilder) Cardinality(c Cardinality) *RefBuilder {
	b.c = c
	return b
}

// Opt is shorthand for Cardinality(Optional).
func (b *RefBuilder) Opt() *RefBuilder { return b.Cardinality(Optional) }

// Plus is shorthand for Cardinality(Many).
func (b *RefBuilder) Plus() *RefBuilder { return b.Cardinality(Many) }

// Star is shorthand for Cardinality(ManyOptional).
func (b *RefBuilder) Star() *RefBuilder { return b.Cardinality(ManyOptional) }

// Name sets the reference's display name.
func (b *RefBuilder) Name(n string) *RefBuilder {
	b.name = n
	return b
}

// Build finalizes the Reference, validating the cardinality/kind
// compatibility invariant of §3.
func (b *RefBuilder) Build() (*Reference, error) {
	return newRef(b.e, b.c, b.name)
}

// MustBuild is like Build but panics on error.
func (b *RefBuilder) MustBuild() *Reference {
	r, err := b.Build()
	if err != nil {
		panic(err)
	}
	return r
}
