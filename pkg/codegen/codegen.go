// Package codegen lowers a resolved tree.Program into x86-64 assembly in AT&T
// syntax, targeting the System V AMD64 calling convention. The emitted text
// assembles and links against libc (strtol, printf, putchar, puts, exit).
//
// It is a single-pass, accumulator-register (%rax) stack-discipline emitter
// grounded directly on original_source/src/generator.c, restructured in Go
// after the teacher's CodeGenerator struct-with-Generate*-methods idiom in
// pkg/hack/codegen.go and pkg/vm/codegen.go.
package codegen

import (
	"bufio"
	"fmt"
	"io"

	"vslc.dev/backend/pkg/tree"
	"vslc.dev/backend/pkg/utils"
)

// registerParams holds the System V integer argument registers, in order.
var registerParams = [6]string{"%rdi", "%rsi", "%rdx", "%rcx", "%r8", "%r9"}

const numRegisterParams = 6

// Generator walks a resolved Program and writes assembly to an io.Writer.
// It carries the small amount of state that original_source/src/generator.c
// kept in file-scope globals: the function currently being generated, and
// label-numbering counters.
type Generator struct {
	out     *bufio.Writer
	program *tree.Program

	current *tree.Symbol // function being generated

	ifCounter    int
	whileCounter int
	whileLabels  utils.Stack[int] // label numbers of enclosing while loops, innermost on top
}

// Generate emits the full assembly listing for prog to w.
func Generate(w io.Writer, prog *tree.Program) error {
	g := &Generator{out: bufio.NewWriter(w), program: prog}
	if err := g.run(); err != nil {
		return err
	}
	return g.out.Flush()
}

func (g *Generator) run() error {
	g.directive(".section .rodata")
	g.generateStringTable()

	g.directive(".section .bss")
	g.directive(".align 8")
	if err := g.generateGlobalVariables(); err != nil {
		return err
	}

	g.directive(".text")

	functions := g.functionSymbols()
	if len(functions) == 0 {
		return fmt.Errorf("error: program contained no functions")
	}
	for _, fn := range functions {
		if err := g.generateFunction(fn); err != nil {
			return err
		}
	}

	if err := g.generateMain(g.program.Entry); err != nil {
		return err
	}
	g.generateSafePrintf()

	g.directive(".globl main")
	g.directive(".globl safe_printf")
	return nil
}

// functionSymbols returns every Function symbol in the global table, in
// declaration order.
func (g *Generator) functionSymbols() []*tree.Symbol {
	var fns []*tree.Symbol
	for _, sym := range g.program.Globals.Symbols {
		if sym.Kind == tree.Function {
			fns = append(fns, sym)
		}
	}
	return fns
}

// generateStringTable emits the fixed printf-format strings plus one .asciz
// entry per interned string literal, in interning order.
func (g *Generator) generateStringTable() {
	g.label("intout")
	g.directive(".asciz \"%%ld \"")
	g.label("strout")
	g.directive(".asciz \"%%s \"")
	g.label("errout")
	g.directive(".asciz \"Wrong number of arguments\"")

	for i, lexeme := range g.program.Strings.Entries() {
		g.emit("string%d:\t.asciz %s", i, lexeme)
	}
	g.blank()
}

// generateGlobalVariables emits one .zero reservation per global variable
// (8 bytes) or array (8 bytes per element).
func (g *Generator) generateGlobalVariables() error {
	for _, sym := range g.program.Globals.Symbols {
		switch sym.Kind {
		case tree.GlobalVar:
			g.emit(".%s:\t.zero 8", sym.Name)
		case tree.GlobalArray:
			length, err := arrayLength(sym)
			if err != nil {
				return err
			}
			g.emit(".%s:\t.zero %d", sym.Name, length*8)
		}
	}
	g.blank()
	return nil
}

func arrayLength(sym *tree.Symbol) (int64, error) {
	lengthNode := sym.Node.Children[1]
	if lengthNode.Kind != tree.NumberData {
		return 0, fmt.Errorf("error: length of array '%s' is not compile-time known", sym.Name)
	}
	return lengthNode.Number(), nil
}

// funcParamCount returns how many parameters fn (a Function symbol) takes.
func funcParamCount(fn *tree.Symbol) int {
	return len(fn.Node.Children[1].Children)
}

// generateFunction emits a function's label, prologue (pushing register
// parameters and zeroing locals onto the stack), body, and a fallback
// epilogue returning 0 for functions that fall off their end without an
// explicit return.
func (g *Generator) generateFunction(fn *tree.Symbol) error {
	g.label(".%s", fn.Name)
	g.current = fn

	g.instr("pushq", "%rbp")
	g.instr2("movq", "%rsp", "%rbp")

	paramCount := funcParamCount(fn)
	for i := 0; i < paramCount && i < numRegisterParams; i++ {
		g.instr("pushq", registerParams[i])
	}

	for _, sym := range fn.Locals.Symbols {
		if sym.Kind == tree.LocalVar {
			g.instr("pushq", "$0")
		}
	}

	body := fn.Node.Children[2]
	if err := g.generateStatement(body); err != nil {
		return err
	}

	g.instr2("movq", "$0", "%rax")
	g.instr2("movq", "%rbp", "%rsp")
	g.instr("popq", "%rbp")
	g.ret()
	g.blank()

	return nil
}

func (g *Generator) label(format string, args ...any) {
	fmt.Fprintf(g.out, format+":\n", args...)
}

func (g *Generator) directive(format string, args ...any) {
	fmt.Fprintf(g.out, "\t"+format+"\n", args...)
}

func (g *Generator) emit(format string, args ...any) {
	fmt.Fprintf(g.out, "\t"+format+"\n", args...)
}

func (g *Generator) instr(mnemonic, operand string) {
	fmt.Fprintf(g.out, "\t%s\t%s\n", mnemonic, operand)
}

func (g *Generator) instr2(mnemonic, src, dst string) {
	fmt.Fprintf(g.out, "\t%s\t%s, %s\n", mnemonic, src, dst)
}

func (g *Generator) ret() {
	fmt.Fprint(g.out, "\tret\n")
}

func (g *Generator) blank() {
	fmt.Fprint(g.out, "\n")
}
