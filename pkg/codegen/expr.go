package codegen

import (
	"fmt"

	"vslc.dev/backend/pkg/tree"
)

// generateVariableAccess returns the AT&T operand string addressing the
// quadword an IdentifierData node refers to: RIP-relative for globals,
// %rbp-relative for parameters and locals. The stack-frame offset
// arithmetic mirrors generate_variable_access exactly, including the hole
// left in the local sequence numbering when a function has more than 6
// parameters (those extra parameters live above %rbp, not below it).
func (g *Generator) generateVariableAccess(node *tree.Node) (string, error) {
	sym := node.Symbol
	if sym == nil {
		return "", fmt.Errorf("error: identifier '%s' was never resolved", node.Name())
	}

	switch sym.Kind {
	case tree.GlobalVar:
		return fmt.Sprintf(".%s(%%rip)", sym.Name), nil

	case tree.LocalVar:
		offset := sym.Seq
		if funcParamCount(g.current) > numRegisterParams {
			offset -= funcParamCount(g.current) - numRegisterParams
		}
		offset = (-offset - 1) * 8
		return fmt.Sprintf("%d(%%rbp)", offset), nil

	case tree.Parameter:
		var offset int
		if sym.Seq < numRegisterParams {
			offset = (-sym.Seq - 1) * 8
		} else {
			offset = 16 + (sym.Seq-numRegisterParams)*8
		}
		return fmt.Sprintf("%d(%%rbp)", offset), nil

	case tree.Function:
		return "", fmt.Errorf("error: symbol '%s' is a function, not a variable", sym.Name)

	case tree.GlobalArray:
		return "", fmt.Errorf("error: symbol '%s' is an array, not a variable", sym.Name)

	default:
		return "", fmt.Errorf("error: unknown symbol kind for '%s'", sym.Name)
	}
}

// generateArrayAccess emits code that computes the address of an
// ArrayIndexing node's element into %r10 (evaluating the index expression
// first, which may clobber %rax and other scratch registers) and returns
// the "(%r10)" operand referring to it. The caller's use of %rax is safe
// because this never touches it once the index has been computed.
func (g *Generator) generateArrayAccess(node *tree.Node) (string, error) {
	sym := node.Children[0].Symbol
	if sym == nil || sym.Kind != tree.GlobalArray {
		name := "?"
		if sym != nil {
			name = sym.Name
		}
		return "", fmt.Errorf("error: symbol '%s' is not an array", name)
	}

	if err := g.generateExpression(node.Children[1]); err != nil {
		return "", err
	}

	g.emit("leaq\t.%s(%%rip), %%r10", sym.Name)
	g.emit("leaq\t(%%r10, %%rax, 8), %%r10")
	return "(%r10)", nil
}

// generateExpression emits code to evaluate expression and leave the
// result in %rax.
func (g *Generator) generateExpression(expression *tree.Node) error {
	switch expression.Kind {
	case tree.NumberData:
		g.instr2("movq", fmt.Sprintf("$%d", expression.Number()), "%rax")
		return nil

	case tree.IdentifierData:
		access, err := g.generateVariableAccess(expression)
		if err != nil {
			return err
		}
		g.instr2("movq", access, "%rax")
		return nil

	case tree.ArrayIndexing:
		access, err := g.generateArrayAccess(expression)
		if err != nil {
			return err
		}
		g.instr2("movq", access, "%rax")
		return nil

	case tree.Expression:
		return g.generateOperatorExpression(expression)

	default:
		return fmt.Errorf("error: unknown expression node kind %s", expression.Kind)
	}
}

// generateOperatorExpression handles the operator-bearing Expression cases:
// function calls and the four arithmetic operators. Evaluation order
// matters here and is preserved verbatim from the source language's
// generator: + and * evaluate left then right; - and / evaluate right then
// left, so that the final operation can always be issued with the left
// operand already sitting in %rax.
func (g *Generator) generateOperatorExpression(expression *tree.Node) error {
	op := expression.Operator()
	left := expression.Children[0]

	switch op {
	case tree.CallOperator:
		return g.generateFunctionCall(expression)

	case "+":
		right := expression.Children[1]
		if err := g.generateExpression(left); err != nil {
			return err
		}
		g.instr("pushq", "%rax")
		if err := g.generateExpression(right); err != nil {
			return err
		}
		g.instr("popq", "%r10")
		g.instr2("addq", "%r10", "%rax")
		return nil

	case "-":
		if len(expression.Children) == 1 {
			if err := g.generateExpression(left); err != nil {
				return err
			}
			g.instr("negq", "%rax")
			return nil
		}
		right := expression.Children[1]
		if err := g.generateExpression(right); err != nil {
			return err
		}
		g.instr("pushq", "%rax")
		if err := g.generateExpression(left); err != nil {
			return err
		}
		g.instr("popq", "%r10")
		g.instr2("subq", "%r10", "%rax")
		return nil

	case "*":
		right := expression.Children[1]
		if err := g.generateExpression(left); err != nil {
			return err
		}
		g.instr("pushq", "%rax")
		if err := g.generateExpression(right); err != nil {
			return err
		}
		g.instr("popq", "%r10")
		g.instr2("imulq", "%r10", "%rax")
		return nil

	case "/":
		right := expression.Children[1]
		if err := g.generateExpression(right); err != nil {
			return err
		}
		g.instr("pushq", "%rax")
		if err := g.generateExpression(left); err != nil {
			return err
		}
		fmt.Fprint(g.out, "\tcqo\n")
		g.instr("popq", "%r10")
		g.instr("idivq", "%r10")
		return nil

	default:
		return fmt.Errorf("error: unknown expression operator %q", op)
	}
}

// generateFunctionCall evaluates each argument right to left (pushing its
// value), then distributes up to the first 6 into the ABI's argument
// registers, issues the call, and reclaims any stack-passed arguments
// afterwards.
func (g *Generator) generateFunctionCall(call *tree.Node) error {
	sym := call.Children[0].Symbol
	if sym == nil || sym.Kind != tree.Function {
		name := "?"
		if sym != nil {
			name = sym.Name
		}
		return fmt.Errorf("error: '%s' is not a function", name)
	}

	argumentList := call.Children[1]
	paramCount := funcParamCount(sym)
	if paramCount != len(argumentList.Children) {
		return fmt.Errorf("error: function '%s' expects %d arguments, but %d were given",
			sym.Name, paramCount, len(argumentList.Children))
	}

	for i := paramCount - 1; i >= 0; i-- {
		if err := g.generateExpression(argumentList.Children[i]); err != nil {
			return err
		}
		g.instr("pushq", "%rax")
	}

	for i := 0; i < paramCount && i < numRegisterParams; i++ {
		g.instr("popq", registerParams[i])
	}

	g.emit("call\t.%s", sym.Name)

	if paramCount > numRegisterParams {
		g.emit("addq\t$%d, %%rsp", (paramCount-numRegisterParams)*8)
	}

	return nil
}
