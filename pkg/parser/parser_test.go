package parser

import (
	"testing"

	"vslc.dev/backend/pkg/resolve"
	"vslc.dev/backend/pkg/simplify"
	"vslc.dev/backend/pkg/tree"
)

const sumProgram = `
var total

def sum(limit) begin
    var i
    i := 0
    total := 0
    while i < limit begin
        total := total + i
        i := i + 1
    end
    return total
end
`

func TestParseProducesProgramNode(t *testing.T) {
	root, err := New().ParseString(sumProgram)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if root.Kind != tree.Program {
		t.Fatalf("expected root kind Program, got %s", root.Kind)
	}
	if len(root.Children) != 2 {
		t.Fatalf("expected 2 top-level declarations, got %d", len(root.Children))
	}
}

func TestParseThenResolve(t *testing.T) {
	root, err := New().ParseString(sumProgram)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	simplified := simplify.New().Run(root)
	prog, err := resolve.New().Run(simplified)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if prog.Entry == nil || prog.Entry.Name != "sum" {
		t.Fatalf("expected entry function 'sum', got %v", prog.Entry)
	}
}

func TestParseRejectsMalformedSource(t *testing.T) {
	if _, err := New().ParseString("def ( begin end"); err == nil {
		t.Fatal("expected an error for malformed source, got nil")
	}
}

const arrayProgram = `
var buf[4]

def fill(n) begin
    var i
    i := 0
    while i < n begin
        buf[i] := i * 2
        i := i + 1
    end
    return buf[0]
end
`

func TestParseArraysAndExpressions(t *testing.T) {
	root, err := New().ParseString(arrayProgram)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if root.Children[0].Kind != tree.ArrayDeclaration {
		t.Fatalf("expected first global to be an ArrayDeclaration, got %s", root.Children[0].Kind)
	}
}
