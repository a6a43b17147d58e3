/*
pegcheck is a small CLI test harness for the PEG engine: it builds a demo
arithmetic grammar, parses either a string argument or a file, and prints
a colored status line plus a furthest-failure summary.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pterm/pterm"

	"github.com/npillmayer/peg"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
)

func tracer() tracing.Trace {
	return tracing.Select("peg")
}

// demoGrammar builds the small arithmetic expression grammar used
// throughout this module's tests, as a ready-to-run sample for the CLI.
//
//	WS      = token `\s+`
//	NUMBER  = token `[0-9]+`
//	VAR     = token `[a-zA-Z_][a-zA-Z0-9_]*`
//	OP      = word "+" | word "-"
//	Value   = NUMBER | VAR
//	Suffix  = OP Value
//	Expr    = Value Suffix*
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
		return nil, fmt.Errorf("preparing demo grammar: %w", err)
	}
	return g, nil
}

func initDisplay() {
	pterm.Success.Prefix = pterm.Prefix{Text: " OK ", Style: pterm.NewStyle(pterm.BgGreen, pterm.FgBlack)}
	pterm.Warning.Prefix = pterm.Prefix{Text: "PART", Style: pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)}
	pterm.Error.Prefix = pterm.Prefix{Text: "FAIL", Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack)}
}

func main() {
	initDisplay()
	gtrace.SyntaxTracer = gologadapter.New()

	tlevel := flag.String("trace", "Error", "Trace level [Debug|Info|Error]")
	inputPath := flag.String("file", "", "read input from this file instead of the command line")
	verbose := flag.Bool("v", false, "enable verbose recognition tracing")
	flag.Parse()

	tracer().SetTraceLevel(tracing.TraceLevelFromString(*tlevel))

	g, err := demoGrammar()
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(2)
	}

	var opts []peg.Option
	if *verbose {
		opts = append(opts, peg.Verbose())
	}

	var res *peg.ParseResult
	if *inputPath != "" {
		res, err = g.ParsePath(*inputPath, opts...)
	} else {
		text := flag.Arg(0)
		if text == "" {
			pterm.Error.Println("no input given: pass text as an argument or -file <path>")
			os.Exit(2)
		}
		res, err = g.ParseString(text, opts...)
	}
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(2)
	}

	report(res)
	if res.Status() == peg.StatusFailure {
		os.Exit(1)
	}
}

func report(res *peg.ParseResult) {
	span := res.Span()
	switch res.Status() {
	case peg.StatusSuccess:
		pterm.Success.Printfln("Successful: parsed %d, remaining 0", span.Len())
	case peg.StatusPartial:
		pterm.Warning.Printfln("Partial: parsed %d, remaining %d", span.Len(), res.Remaining)
	default:
		pterm.Error.Printfln("Failed: no match")
	}
	if fspan, id, ok := res.FurthestFailure(); ok {
		pterm.Info.Printfln("furthest match: element #%d reached %s", id, fspan)
	}
}
