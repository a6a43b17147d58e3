/*
Package rx adapts github.com/dlclark/regexp2 to the anchored-match-with-
captures contract a Token element needs (§4.2 of the engine spec).

regexp2 is chosen over the standard library's regexp because Token patterns
are hand-authored grammar fragments where backreferences, lookaround and
.NET-style named groups are common and genuinely useful (e.g. matching a
closing fence that must equal an opening one); RE2's guaranteed linear time
comes at the cost of dropping exactly those features.

The engine never wants a regex engine to scan forward looking for a match —
Token.Recognize must fail cleanly at the current position rather than
skipping ahead. This package enforces that by matching against a window
starting exactly at the requested offset and rejecting anything that
doesn't start at index 0 of that window.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package rx

import (
	"errors"
	"fmt"

	"github.com/dlclark/regexp2"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("peg.rx")
}

// Sentinel errors per §7.2/§4.2's error taxonomy: NoMatch is ordinary
// control flow, InternalError is diagnostic-only and logged as fatal for
// that parse step.
var (
	ErrNoMatch      = errors.New("rx: no match")
	ErrInternal     = errors.New("rx: internal error")
	ErrBadPattern   = errors.New("rx: invalid pattern")
	ErrEmptyPattern = errors.New("rx: empty pattern")
)

// Options configure how a Pattern is compiled and matched.
type Options struct {
	// IgnoreCase enables case-insensitive matching.
	IgnoreCase bool

	// Multiline enables ^/$ to match at line boundaries rather than only
	// at the start/end of the whole window.
	Multiline bool

	// AssumeValidUTF8 marks input as already validated by the host. It is
	// stored with the Pattern but does not change matching: MatchAt runs no
	// UTF-8 validation pass of its own, with or without it.
	AssumeValidUTF8 bool
}

// Option mutates an Options value.
type Option func(*Options)

// IgnoreCase enables case-insensitive matching.
func IgnoreCase() Option { return func(o *Options) { o.IgnoreCase = true } }

// Multiline enables multiline ^/$ semantics.
func Multiline() Option { return func(o *Options) { o.Multiline = true } }

// AssumeValidUTF8 sets Options.AssumeValidUTF8; matching is unaffected.
func AssumeValidUTF8() Option { return func(o *Options) { o.AssumeValidUTF8 = true } }

// Pattern is a compiled, anchored-at-match-time regular expression.
type Pattern struct {
	source string
	re     *regexp2.Regexp
	opts   Options
}

// Source returns the original pattern text, for diagnostics.
func (p *Pattern) Source() string { return p.source }

// Compile compiles pattern into a Pattern ready for repeated anchored
// matching. A Pattern is immutable after construction and may be freely
// reused across parses and goroutines, per §5's "regex compilation
// artifacts within a Token are immutable after construction" guarantee —
// regexp2.Regexp itself is documented safe for concurrent Match calls
// because match state lives on a per-call runner, not on the Regexp.
func Compile(pattern string, opts ...Option) (*Pattern, error) {
	if pattern == "" {
		return nil, ErrEmptyPattern
	}
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	var flags regexp2.RegexOptions
	if o.IgnoreCase {
		flags |= regexp2.IgnoreCase
	}
	if o.Multiline {
		flags |= regexp2.Multiline
	}
	re, err := regexp2.Compile(pattern, flags)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrBadPattern, pattern, err)
	}
	return &Pattern{source: pattern, re: re, opts: o}, nil
}

// Result is the outcome of a successful anchored match.
type Result struct {
	Length      int               // total bytes consumed, counted in the window's encoding
	Groups      []string          // group 0 is the whole match, followed by numbered groups
	NamedGroups map[string]string // named captures, if the pattern used any
}

// MatchAt runs an anchored match of p against window, which must already be
// sliced to start at the iterator's current offset and to extend no
// further than the caller's available byte count (§4.2: "receive the
// maximum available byte count so it does not read past the loaded
// window"). A match that does not begin at index 0 of window is treated as
// ErrNoMatch — this is what "anchored" means here, since regexp2 has no
// direct \G-at-offset primitive across arbitrary windows.
func (p *Pattern) MatchAt(window []byte) (Result, error) {
	text := string(window)
	m, err := p.re.FindStringMatch(text)
	if err != nil {
		tracer().Errorf("rx: internal error matching %q: %v", p.source, err)
		return Result{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if m == nil || m.Index != 0 {
		return Result{}, ErrNoMatch
	}
	// m.Length counts runes; the iterator advances in bytes, and the match
	// starts at index 0, so the matched text's byte length is the length.
	res := Result{Length: len(m.String())}
	groups := m.Groups()
	res.Groups = make([]string, 0, len(groups))
	for _, g := range groups {
		if g.Name != "" && !isNumericName(g.Name) {
			if res.NamedGroups == nil {
				res.NamedGroups = make(map[string]string)
			}
			res.NamedGroups[g.Name] = g.String()
		}
		res.Groups = append(res.Groups, g.String())
	}
	return res, nil
}

func isNumericName(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
