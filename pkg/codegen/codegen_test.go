package codegen

import (
	"strings"
	"testing"

	"vslc.dev/backend/pkg/resolve"
	"vslc.dev/backend/pkg/simplify"
	"vslc.dev/backend/pkg/tree"
)

// compile runs the simplify+resolve+codegen pipeline over root and returns
// the emitted assembly text.
func compile(t *testing.T, root *tree.Node) string {
	t.Helper()

	simplified := simplify.New().Run(root)
	prog, err := resolve.New().Run(simplified)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	var out strings.Builder
	if err := Generate(&out, prog); err != nil {
		t.Fatalf("generate: %v", err)
	}
	return out.String()
}

// addFunction builds:
//
//	def add(a, b) begin
//	    return a + b
//	end
func addFunction() *tree.Node {
	params := tree.New(tree.ParameterList, nil,
		tree.New(tree.IdentifierData, "a"), tree.New(tree.IdentifierData, "b"))
	body := tree.New(tree.Block, nil,
		tree.New(tree.StatementList, nil,
			tree.New(tree.ReturnStatement, nil,
				tree.New(tree.Expression, "+",
					tree.New(tree.IdentifierData, "a"),
					tree.New(tree.IdentifierData, "b")))))
	return tree.New(tree.FunctionDef, nil, tree.New(tree.IdentifierData, "add"), params, body)
}

func TestGenerateFunctionPrologueAndReturn(t *testing.T) {
	root := tree.New(tree.Program, nil, addFunction())
	asm := compile(t, root)

	for _, want := range []string{
		".add:",
		"pushq\t%rbp",
		"movq\t%rsp, %rbp",
		"pushq\t%rdi",
		"pushq\t%rsi",
		"addq\t%r10, %rax",
		"ret",
	} {
		if !strings.Contains(asm, want) {
			t.Errorf("expected generated assembly to contain %q, got:\n%s", want, asm)
		}
	}
}

func TestGenerateMainValidatesArgc(t *testing.T) {
	root := tree.New(tree.Program, nil, addFunction())
	asm := compile(t, root)

	for _, want := range []string{
		"main:",
		"cmpq\t$2, %rdi",
		"jne\tABORT",
		"call\tstrtol",
		"call\t.add",
		"ABORT:",
		"call\tputs",
	} {
		if !strings.Contains(asm, want) {
			t.Errorf("expected main wrapper to contain %q, got:\n%s", want, asm)
		}
	}
}

// ifWhileFunction builds:
//
//	def count(limit) begin
//	    var i
//	    i := 0
//	    while i < limit begin
//	        if i = 0 then
//	            print i
//	        print i
//	    end
//	    return i
//	end
func ifWhileFunction() *tree.Node {
	params := tree.New(tree.ParameterList, nil, tree.New(tree.IdentifierData, "limit"))

	iDecl := tree.New(tree.Declaration, nil, tree.New(tree.IdentifierData, "i"))
	declarationList := tree.New(tree.DeclarationList, nil, iDecl)

	initAssign := tree.New(tree.AssignmentStatement, nil,
		tree.New(tree.IdentifierData, "i"), tree.New(tree.NumberData, int64(0)))

	ifStmt := tree.New(tree.IfStatement, nil,
		tree.New(tree.Relation, "=", tree.New(tree.IdentifierData, "i"), tree.New(tree.NumberData, int64(0))),
		tree.New(tree.PrintStatement, nil, tree.New(tree.IdentifierData, "i")))

	printStmt := tree.New(tree.PrintStatement, nil, tree.New(tree.IdentifierData, "i"))

	loopBody := tree.New(tree.Block, nil,
		tree.New(tree.StatementList, nil, ifStmt, printStmt))

	whileStmt := tree.New(tree.WhileStatement, nil,
		tree.New(tree.Relation, "<", tree.New(tree.IdentifierData, "i"), tree.New(tree.IdentifierData, "limit")),
		loopBody)

	ret := tree.New(tree.ReturnStatement, nil, tree.New(tree.IdentifierData, "i"))

	body := tree.New(tree.Block, nil, declarationList,
		tree.New(tree.StatementList, nil, initAssign, whileStmt, ret))

	return tree.New(tree.FunctionDef, nil, tree.New(tree.IdentifierData, "count"), params, body)
}

func TestGenerateIfAndWhileLabels(t *testing.T) {
	root := tree.New(tree.Program, nil, ifWhileFunction())
	asm := compile(t, root)

	for _, want := range []string{
		"while0:",
		"jge\tendwhile0",
		"if0:",
		"jne\telse0",
		"endif0:",
		"jmp\twhile0",
		"endwhile0:",
	} {
		if !strings.Contains(asm, want) {
			t.Errorf("expected assembly to contain %q, got:\n%s", want, asm)
		}
	}
}

// breakFunction builds a function whose body is a single while loop with a
// break statement directly in it, so the emitted jump target must resolve
// to the loop's own end label via the whileLabels stack rather than a
// fragile shared counter.
func breakFunction() *tree.Node {
	params := tree.New(tree.ParameterList, nil)

	loopBody := tree.New(tree.Block, nil,
		tree.New(tree.StatementList, nil, tree.New(tree.BreakStatement, nil)))

	whileStmt := tree.New(tree.WhileStatement, nil,
		tree.New(tree.Relation, "<", tree.New(tree.NumberData, int64(0)), tree.New(tree.NumberData, int64(1))),
		loopBody)

	ret := tree.New(tree.ReturnStatement, nil, tree.New(tree.NumberData, int64(0)))
	body := tree.New(tree.Block, nil, tree.New(tree.StatementList, nil, whileStmt, ret))

	return tree.New(tree.FunctionDef, nil, tree.New(tree.IdentifierData, "loop"), params, body)
}

func TestGenerateBreakJumpsToOwnLoop(t *testing.T) {
	root := tree.New(tree.Program, nil, breakFunction())
	asm := compile(t, root)

	if !strings.Contains(asm, "jmp\tendwhile0") {
		t.Errorf("expected break to jump to endwhile0, got:\n%s", asm)
	}
}

func TestGenerateStringTableAndPrint(t *testing.T) {
	body := tree.New(tree.Block, nil,
		tree.New(tree.StatementList, nil,
			tree.New(tree.PrintStatement, nil, tree.New(tree.StringData, `"hello"`)),
			tree.New(tree.ReturnStatement, nil, tree.New(tree.NumberData, int64(0)))))
	fn := tree.New(tree.FunctionDef, nil,
		tree.New(tree.IdentifierData, "main"), tree.New(tree.ParameterList, nil), body)
	root := tree.New(tree.Program, nil, fn)

	asm := compile(t, root)

	for _, want := range []string{
		`string0:	.asciz "hello"`,
		"leaq\tstrout(%rip), %rdi",
		"leaq\tstring0(%rip), %rsi",
		"call\tsafe_printf",
	} {
		if !strings.Contains(asm, want) {
			t.Errorf("expected assembly to contain %q, got:\n%s", want, asm)
		}
	}
}

func TestGenerateGlobalArrayAccess(t *testing.T) {
	arrayDecl := tree.New(tree.ArrayDeclaration, nil,
		tree.New(tree.IdentifierData, "buf"), tree.New(tree.NumberData, int64(4)))

	index := tree.New(tree.ArrayIndexing, nil,
		tree.New(tree.IdentifierData, "buf"), tree.New(tree.NumberData, int64(1)))
	ret := tree.New(tree.ReturnStatement, nil, index)
	body := tree.New(tree.Block, nil, tree.New(tree.StatementList, nil, ret))
	fn := tree.New(tree.FunctionDef, nil,
		tree.New(tree.IdentifierData, "main"), tree.New(tree.ParameterList, nil), body)

	root := tree.New(tree.Program, nil, arrayDecl, fn)
	asm := compile(t, root)

	for _, want := range []string{
		".buf:\t.zero 32",
		"leaq\t.buf(%rip), %r10",
		"leaq\t(%r10, %rax, 8), %r10",
	} {
		if !strings.Contains(asm, want) {
			t.Errorf("expected assembly to contain %q, got:\n%s", want, asm)
		}
	}
}
