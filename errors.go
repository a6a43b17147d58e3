package peg

import "errors"

// Sentinel errors for the two error kinds the engine surfaces to hosts as
// distinct values (§7.1, §7.2): grammar-construction errors and I/O
// errors. Recognition failures are never errors — they are represented by
// match.FAILURE and ParseResult.Status().
var (
	// ErrZeroLengthWord is returned by Word when given an empty literal.
	ErrZeroLengthWord = errors.New("peg: word literal must not be empty")

	// ErrEmptyComposite is returned by Group/Rule with no children.
	ErrEmptyComposite = errors.New("peg: group/rule must have at least one child")

	// ErrProcedureCardinality is returned when a Procedure or Condition
	// element is wrapped in a Reference with MANY or MANY_OPTIONAL
	// cardinality (§3 invariants: they may only appear under ONE/OPTIONAL).
	ErrProcedureCardinality = errors.New("peg: procedure/condition may only be referenced with cardinality ONE or OPTIONAL")

	// ErrNilAxiom is returned by Grammar.Prepare when no axiom has been set.
	ErrNilAxiom = errors.New("peg: grammar has no axiom")

	// ErrCycleNotTerminated names a non-terminating id-assignment walk.
	// Grammar.Prepare never returns it: the sentinel-id cycle guard always
	// ends the walk.
	ErrCycleNotTerminated = errors.New("peg: id assignment did not terminate")

	// ErrFileNotFound wraps an I/O error opening a grammar's input file.
	ErrFileNotFound = errors.New("peg: input file not found")

	// ErrNotPrepared is returned by Parse* when called on a grammar that
	// has never had Prepare called successfully.
	ErrNotPrepared = errors.New("peg: grammar.Prepare must be called before parsing")
)
