// Command lexforge reads a grammar specification from stdin (or --input),
// compiles it to a Thompson NFA, and writes the result as Graphviz DOT on
// stdout. Fatal errors are reported on stderr as "Error LINE:COL: <detail>"
// and the process exits 1; non-fatal conditions (unrecognized escapes) are
// logged as warnings and compilation continues (spec §4.9).
package main

import (
	"fmt"
	"os"

	"github.com/projectdiscovery/gologger"
	"github.com/spf13/cobra"

	"github.com/lexforge/lexforge"
	"github.com/lexforge/lexforge/dot"
	"github.com/lexforge/lexforge/internal/arena"
)

var version = "dev"

type flags struct {
	input               string
	emit                string
	maxNonTerminals     int
	maxTerminalBytes    int
	maxLineLength       int
	maxNFAStates        int
	maxNFAEdgesPerState int
}

func main() {
	os.Exit(run())
}

func run() int {
	var f flags

	root := &cobra.Command{
		Use:           "lexforge",
		Short:         "Compile a grammar specification to a Thompson NFA rendered as Graphviz DOT",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return compile(f)
		},
	}

	root.Flags().StringVar(&f.input, "input", "", "grammar file to read (default: stdin)")
	root.Flags().StringVar(&f.emit, "emit", "", "emit a single non-terminal's own NFA by name (default: the master union NFA)")
	def := arena.DefaultLimits()
	root.Flags().IntVar(&f.maxNonTerminals, "max-nonterminals", def.MaxNonTerminals, "maximum number of non-terminal definitions")
	root.Flags().IntVar(&f.maxTerminalBytes, "max-terminal-bytes", def.MaxTerminalBytes, "maximum total bytes across all decoded terminals")
	root.Flags().IntVar(&f.maxLineLength, "max-line-length", def.MaxLineLength, "maximum bytes per grammar line")
	root.Flags().IntVar(&f.maxNFAStates, "max-nfa-states", def.MaxNFAStates, "maximum number of NFA states")
	root.Flags().IntVar(&f.maxNFAEdgesPerState, "max-nfa-edges-per-state", def.MaxNFAEdgesPerState, "maximum outgoing edges per NFA state")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		return 1
	}
	return 0
}

func compile(f flags) error {
	in := os.Stdin
	if f.input != "" {
		file, err := os.Open(f.input)
		if err != nil {
			return err
		}
		defer file.Close()
		in = file
	}

	limits := arena.DefaultLimits()
	limits.MaxNonTerminals = f.maxNonTerminals
	limits.MaxExprNodes = 4 * f.maxNonTerminals
	limits.MaxTerminalBytes = f.maxTerminalBytes
	limits.MaxLineLength = f.maxLineLength
	limits.MaxNFAStates = f.maxNFAStates
	limits.MaxNFAEdgesPerState = f.maxNFAEdgesPerState

	result, err := lexforge.Compile(in, limits, func(line, col int, format string, args ...any) {
		gologger.Warning().Msgf("%d:%d: %s", line, col, fmt.Sprintf(format, args...))
	})
	if err != nil {
		return err
	}

	if f.emit == "" {
		return dot.Write(os.Stdout, result.Arena, result.Master)
	}

	h, ok := result.NonTermNFA(f.emit)
	if !ok {
		return fmt.Errorf("no such non-terminal: %q", f.emit)
	}
	return dot.Write(os.Stdout, result.Arena, h, dot.WithName(f.emit), dot.WithAcceptLabel(f.emit))
}
