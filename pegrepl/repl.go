/*
pegrepl is an interactive read-eval-print loop for trying a prepared PEG
grammar against successive lines of input: each line is parsed against the
demo arithmetic grammar and reported the way cmd/pegcheck reports a single
run, plus a rendered match tree.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package main

import (
	"flag"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"

	"github.com/npillmayer/peg"
	"github.com/npillmayer/peg/match"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
)

func tracer() tracing.Trace {
	return tracing.Select("peg")
}

// WS      = token `\s+`
// NUMBER  = token `[0-9]+`
// VAR     = token `[a-zA-Z_][a-zA-Z0-9_]*`
// OP      = word "+" | word "-"
// Value   = NUMBER | VAR
// Suffix  = OP Value
// Expr    = Value Suffix*
func demoGrammar() (*peg.Grammar, error) {
	ws := peg.MustToken(`\s+`)
	number := peg.MustToken(`[0-9]+`)
	variable := peg.MustToken(`[a-zA-Z_][a-zA-Z0-9_]*`)
	op := peg.MustGroup(peg.MustWord("+"), peg.MustWord("-"))
	value := peg.MustGroup(number, variable)
	suffix := peg.MustRule(op, value)
	expr := peg.MustRule(
		peg.From(value).MustBuild(),
		peg.From(peg.MustRule(suffix)).Star().MustBuild(),
	)

	g := peg.NewGrammar("Arith")
	g.SetAxiom(expr)
	g.SetSkip(ws)
	if err := g.Prepare(); err != nil {
		return nil, err
	}
	return g, nil
}

// Repl wraps a prepared grammar and a readline instance.
type Repl struct {
	grammar *peg.Grammar
	rl      *readline.Instance
}

func main() {
	gtrace.SyntaxTracer = gologadapter.New()
	tlevel := flag.String("trace", "Error", "Trace level [Debug|Info|Error]")
	flag.Parse()
	tracer().SetTraceLevel(tracing.TraceLevelFromString(*tlevel))

	g, err := demoGrammar()
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(2)
	}
	rl, err := readline.New("peg> ")
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(3)
	}
	defer rl.Close()

	pterm.Info.Println("Welcome to pegrepl — enter arithmetic expressions, Ctrl-D to quit")
	r := &Repl{grammar: g, rl: rl}
	r.Run()
}

// Run reads lines until EOF, parsing each against the REPL's grammar.
func (r *Repl) Run() {
	for {
		line, err := r.rl.Readline()
		if err != nil { // io.EOF or interrupt
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r.eval(line)
	}
	pterm.Info.Println("Good bye!")
}

func (r *Repl) eval(line string) {
	res, err := r.grammar.ParseString(line)
	if err != nil {
		pterm.Error.Println(err.Error())
		return
	}
	switch res.Status() {
	case peg.StatusSuccess:
		pterm.Success.Printfln("Successful: parsed %d, remaining 0", res.Span().Len())
	case peg.StatusPartial:
		pterm.Warning.Printfln("Partial: parsed %d, remaining %d", res.Span().Len(), res.Remaining)
	default:
		pterm.Error.Println("Failed: no match")
		return
	}
	var sb strings.Builder
	if err := match.Render(&sb, res.Match, true); err != nil {
		pterm.Error.Println(err.Error())
		return
	}
	pterm.Println(sb.String())
}
