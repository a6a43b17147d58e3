package peg

import "fmt"

// Span is a small type for capturing a range of input positions, adapted
// from gorgo's own Span type (gorgo.Span) for reporting match ranges and
// the furthest-failure diagnostic (§7) without requiring callers to do
// offset+length arithmetic by hand.
type Span [2]int // (x…y)

// From returns the start of the span.
func (s Span) From() int { return s[0] }

// To returns the position just behind the end of the span.
func (s Span) To() int { return s[1] }

// Len returns the length of the span.
func (s Span) Len() int { return s[1] - s[0] }

// Extend grows s to also cover other.
func (s Span) Extend(other Span) Span {
	if other[0] < s[0] {
		s[0] = other[0]
	}
	if other[1] > s[1] {
		s[1] = other[1]
	}
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s[0], s[1])
}

// MatchSpan returns the Span covered by a successful match.
func MatchSpan(offset, length int) Span {
	return Span{offset, offset + length}
}
