package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/teris-io/cli"

	"vslc.dev/backend/pkg/codegen"
	"vslc.dev/backend/pkg/parser"
	"vslc.dev/backend/pkg/resolve"
	"vslc.dev/backend/pkg/simplify"
	"vslc.dev/backend/pkg/tree"
)

var Description = strings.ReplaceAll(`
The VSL compiler translates programs (composed of one or more modules/files)
written in the VSL language into x86-64 AT&T-syntax assembly, targeting the
System V AMD64 calling convention. Every input file is parsed independently
and its top-level declarations are merged into a single program before
symbol resolution, so functions and globals in one file are visible from
another.
`, "\n", " ")

var VSLC = cli.New(Description).
	WithArg(cli.NewArg("inputs", "The source (.vsl) files to be compiled").
		AsOptional().WithType(cli.TypeString)).
	WithOption(cli.NewOption("out", "The compiled assembly output (.s)").
		WithType(cli.TypeString)).
	WithOption(cli.NewOption("dump-ast", "Print the resolved AST instead of assembly").
		WithType(cli.TypeBool)).
	WithOption(cli.NewOption("strict", "Reject programs with unused global declarations").
		WithType(cli.TypeBool)).
	WithAction(Handler)

// Handler implements the compile pipeline: parse every input, merge their
// top-level declarations into one tree, simplify, resolve, and either dump
// the resolved AST or generate assembly.
//
// A malformed tree reaching simplify/resolve/codegen - one of this
// package's own invariants broken, not a user syntax error - surfaces as a
// panic from those packages; recover here and report it the same way as
// any other error, since a CLI user has no use for a Go stack trace.
func Handler(args []string, options map[string]string) (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "error: internal compiler error: %v\n", r)
			code = -1
		}
	}()

	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "error: no input files provided, use --help")
		return -1
	}

	root, err := parseAll(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return -1
	}

	simplified := simplify.New().Run(root)

	prog, err := resolve.New().Run(simplified)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return -1
	}

	if _, enabled := options["strict"]; enabled {
		if err := checkUnusedGlobals(prog); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return -1
		}
	}

	out := os.Stdout
	if path := options["out"]; path != "" {
		f, err := os.Create(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: unable to open output file: %s\n", err)
			return -1
		}
		defer f.Close()
		out = f
	}

	if _, enabled := options["dump-ast"]; enabled {
		tree.Print(out, prog.Root)
		return 0
	}

	if err := codegen.Generate(out, prog); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return -1
	}

	return 0
}

// parseAll parses every input file and splices their top-level
// declarations into a single Program node, so a multi-file build resolves
// as one compilation unit with no separate-compilation linking step.
func parseAll(paths []string) (*tree.Node, error) {
	p := parser.New()
	merged := tree.New(tree.Program, nil)

	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error: unable to open input file %q: %w", path, err)
		}

		fileRoot, err := p.Parse(content)
		if err != nil {
			return nil, fmt.Errorf("error: %q: %w", path, err)
		}

		merged.Children = append(merged.Children, fileRoot.Children...)
	}

	return merged, nil
}

// checkUnusedGlobals reports an error if a global variable or array is
// never read or written anywhere in the program - a check the original
// compiler never had, added behind --strict since it's only useful to
// callers who ask for the stricter check.
func checkUnusedGlobals(prog *tree.Program) error {
	used := make(map[*tree.Symbol]bool)

	var walk func(n *tree.Node)
	walk = func(n *tree.Node) {
		if n.Symbol != nil {
			used[n.Symbol] = true
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(prog.Root)

	for _, sym := range prog.Globals.Symbols {
		if (sym.Kind == tree.GlobalVar || sym.Kind == tree.GlobalArray) && !used[sym] {
			return fmt.Errorf("error: unused global '%s'", sym.Name)
		}
	}
	return nil
}

func main() { os.Exit(VSLC.Run(os.Args, os.Stdout)) }
