/*
Package peg implements a runtime Parsing Expression Grammar (PEG) engine.

Grammars are not compiled to a state machine; they are ordinary Go data
structures — Elements and References — that can be assembled (and, in
principle, mutated between parses) before being matched against an input
stream with backtracking, cherry-picking (skip rules) and
context-sensitive predicates.

Package structure mirrors gorgo's own LR/GLR/Earley family:

■ peg: the grammar object model (Element, Reference, Grammar) and the
recognition driver that ties the sub-packages below together.

■ peg/iter: the buffered input iterator, with on-demand reads for file
input and bounded backtrack.

■ peg/rx: the regex backend adapter used by Token elements.

■ peg/match: the match tree produced by a parse, its traversal and its
XML/JSON serialization.

■ peg/pctx: the parsing context threaded through every recognize call —
variable scopes, stats, the skip re-entrancy flag, furthest-match
tracking.

■ cmd/pegcheck: a CLI test harness.

■ pegrepl: an interactive REPL for trying a prepared grammar against ad
hoc input.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package peg
