/*
Package match implements the match tree produced by a PEG parse run.

A tree of Match nodes is built bottom-up during recognition: leaves are
produced by Word/Token/Procedure/Condition elements, and composite nodes
(Group, Rule, Reference) are built from the matches of their children.
The shape follows sebastien/libparsing's ParsingResult / Match duality,
adapted to Go value semantics: Matches form a singly-linked sibling chain
through Next, with the first child reachable through Children.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package match

import "fmt"

// Kind tags which grammar construct produced a Match. It is owned by this
// package (rather than by the grammar object model) so that the object
// model and the match tree can both depend on it without an import cycle.
type Kind uint8

// The six element kinds plus Reference, which wraps an element with a
// cardinality and is itself a distinct node kind in the match tree.
const (
	UnknownKind Kind = iota
	WordKind
	TokenKind
	GroupKind
	RuleKind
	ProcedureKind
	ConditionKind
	ReferenceKind
)

func (k Kind) String() string {
	switch k {
	case WordKind:
		return "Word"
	case TokenKind:
		return "Token"
	case GroupKind:
		return "Group"
	case RuleKind:
		return "Rule"
	case ProcedureKind:
		return "Procedure"
	case ConditionKind:
		return "Condition"
	case ReferenceKind:
		return "Reference"
	default:
		return "Unknown"
	}
}

// Status is the outcome of a single recognition attempt.
type Status uint8

const (
	// FAILED marks the shared FAILURE singleton and any match derived from it.
	FAILED Status = iota
	// MATCHED marks a successful recognition.
	MATCHED
)

func (s Status) String() string {
	if s == MATCHED {
		return "MATCHED"
	}
	return "FAILED"
}

// TokenData is the payload attached to a Token match's Data field: the
// captured groups of the underlying regular expression, numbered and
// optionally named. Freeing a Token match (dropping its reference) releases
// these along with it, as Go's GC reclaims the slice/map with no explicit
// step required — this satisfies §3's "freeing a Token match must release
// the captured groups" without a finalizer.
type TokenData struct {
	Groups      []string          // all captured groups, group 0 is the whole match
	NamedGroups map[string]string // named captures, if the pattern used any
}

// Count returns the number of captured groups, including group 0.
func (d *TokenData) Count() int {
	if d == nil {
		return 0
	}
	return len(d.Groups)
}

// Match is one node of the tree produced by a successful parse, or the
// shared FAILURE sentinel.
type Match struct {
	Status Status

	// Offset, Length, Line describe where in the input this match occurred.
	Offset int
	Length int
	Line   int

	// ProducerKind/ProducerID/ProducerName identify the grammar node (an
	// Element or a Reference) that produced this match, without requiring
	// this package to import the grammar object model.
	ProducerKind Kind
	ProducerID   int
	ProducerName string

	// Data carries kind-specific payload, e.g. *TokenData for TokenKind.
	Data interface{}

	// Children is the first child match; Next is the next sibling. A
	// ParsingResult owns the root of this tree; a Match owns everything
	// reachable through Children and Next.
	Children *Match
	Next     *Match
}

// FAILURE is the shared, immutable failure sentinel. It is never mutated
// and never needs to be freed: recognizers return this value directly
// instead of allocating a fresh failed Match on every dismatch.
var FAILURE = &Match{Status: FAILED}

// IsFailure reports whether m is the shared failure sentinel (or nil).
func (m *Match) IsFailure() bool {
	return m == nil || m == FAILURE || m.Status == FAILED
}

// New creates a successful leaf match.
func New(kind Kind, id int, name string, offset, length, line int) *Match {
	return &Match{
		Status:       MATCHED,
		Offset:       offset,
		Length:       length,
		Line:         line,
		ProducerKind: kind,
		ProducerID:   id,
		ProducerName: name,
	}
}

// Empty creates a zero-length successful match, used by Procedure/Condition
// recognitions.
func Empty(kind Kind, id int, name string, offset, line int) *Match {
	return New(kind, id, name, offset, 0, line)
}

// AppendSibling appends m2 to the end of m's Next chain and returns m (the
// unchanged head), or m2 if m is nil.
func AppendSibling(m, m2 *Match) *Match {
	if m == nil {
		return m2
	}
	last := m
	for last.Next != nil {
		last = last.Next
	}
	last.Next = m2
	return m
}

// Last walks the Next chain and returns the final sibling.
func Last(m *Match) *Match {
	if m == nil {
		return nil
	}
	for m.Next != nil {
		m = m.Next
	}
	return m
}

// Count returns the number of siblings in m's Next chain, starting at m.
func Count(m *Match) int {
	n := 0
	for ; m != nil; m = m.Next {
		n++
	}
	return n
}

func (m *Match) String() string {
	if m.IsFailure() {
		return "FAILURE"
	}
	return fmt.Sprintf("%s#%d[%s]@%d+%d", m.ProducerKind, m.ProducerID, m.ProducerName, m.Offset, m.Length)
}

// Visitor is called once per node during a Walk, post-order: Children are
// visited before Next. step is a monotonically increasing counter; Walk
// aborts early if the visitor returns a negative step.
type Visitor func(m *Match, step int, userdata interface{}) int

// Walk performs a post-order traversal of the tree rooted at m, visiting
// Children before Next, exactly as §4.6 specifies. It returns the final
// step count, or the negative value returned by the visitor on early exit.
func Walk(m *Match, visit Visitor, userdata interface{}) int {
	step := 0
	return walk(m, visit, userdata, &step)
}

func walk(m *Match, visit Visitor, userdata interface{}, step *int) int {
	for n := m; n != nil; n = n.Next {
		if n.Children != nil {
			if r := walk(n.Children, visit, userdata, step); r < 0 {
				return r
			}
		}
		r := visit(n, *step, userdata)
		*step++
		if r < 0 {
			return r
		}
	}
	return *step
}
