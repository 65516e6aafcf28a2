// Package parser turns VSL source text into a parse tree, using the
// teacher's goparsec combinator idiom (pkg/jack/parsing.go's ast.And /
// ast.Kleene / ast.OrdChoice style) rather than a hand-rolled recursive
// descent parser.
//
// Where the teacher's own Jack parser stops short - its FromAST step is
// commented out and Parse returns a not-implemented error - this package
// finishes the job: every Nodify callback in grammar.go builds a
// *tree.Node directly, so a successful parse already hands back a usable
// tree with no separate translation pass.
package parser

import (
	"fmt"
	"os"

	pc "github.com/prataprc/goparsec"

	"vslc.dev/backend/pkg/tree"
)

// Parser runs the shared grammar entry point over a source buffer; it holds
// only the PARSEC_DEBUG setting read by New.
type Parser struct {
	debug bool
}

// New returns a Parser ready to parse VSL source. When the PARSEC_DEBUG
// environment variable is set, a successful parse also prints the
// matched AST to stderr via ast.Prettyprint, mirroring the teacher's own
// PARSEC_DEBUG check in pkg/jack/parsing.go.
func New() *Parser {
	return &Parser{debug: os.Getenv("PARSEC_DEBUG") != ""}
}

// Parse scans and parses src, returning the root Program node.
func (p *Parser) Parse(src []byte) (*tree.Node, error) {
	scanner := pc.NewScanner(src)

	node, rest := ast.Parsewith(pProgram, scanner)
	if node == nil {
		return nil, fmt.Errorf("error: failed to parse source")
	}

	if p.debug {
		ast.Prettyprint()
	}

	if !rest.Endof() {
		return nil, fmt.Errorf("error: unexpected trailing input at byte offset %d", rest.GetCursor())
	}

	root, ok := node.(*tree.Node)
	if !ok {
		return nil, fmt.Errorf("error: parser produced a non-tree result %T", node)
	}
	return root, nil
}

// ParseString is a convenience wrapper over Parse for string input.
func (p *Parser) ParseString(src string) (*tree.Node, error) {
	return p.Parse([]byte(src))
}
