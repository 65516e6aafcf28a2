package codegen

import (
	"fmt"

	"vslc.dev/backend/pkg/tree"
)

// generateStatement dispatches on node's kind and emits the corresponding
// statement code.
func (g *Generator) generateStatement(node *tree.Node) error {
	switch node.Kind {
	case tree.Block:
		return g.generateBlockStatement(node)
	case tree.AssignmentStatement:
		return g.generateAssignmentStatement(node)
	case tree.PrintStatement:
		return g.generatePrintStatement(node)
	case tree.ReturnStatement:
		return g.generateReturnStatement(node)
	case tree.IfStatement:
		return g.generateIfStatement(node)
	case tree.WhileStatement:
		return g.generateWhileStatement(node)
	case tree.BreakStatement:
		return g.generateBreakStatement()
	default:
		return fmt.Errorf("error: unknown statement node kind %s", node.Kind)
	}
}

// generateBlockStatement generates the statements that make up a block's
// body, in order. Scope push/pop has already happened during resolution;
// this only cares about the trailing StatementList child (the last child
// regardless of whether a DeclarationList precedes it).
func (g *Generator) generateBlockStatement(node *tree.Node) error {
	statementList := node.Children[len(node.Children)-1]
	for _, statement := range statementList.Children {
		if err := g.generateStatement(statement); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) generateAssignmentStatement(node *tree.Node) error {
	destination := node.Children[0]
	expression := node.Children[1]

	if err := g.generateExpression(expression); err != nil {
		return err
	}

	if destination.Kind == tree.IdentifierData {
		access, err := g.generateVariableAccess(destination)
		if err != nil {
			return err
		}
		g.instr2("movq", "%rax", access)
		return nil
	}

	// Array element assignment: stash the value while the index expression
	// (which clobbers %rax) resolves the element's address.
	g.instr("pushq", "%rax")
	access, err := g.generateArrayAccess(destination)
	if err != nil {
		return err
	}
	g.instr("popq", "%rax")
	g.instr2("movq", "%rax", access)
	return nil
}

func (g *Generator) generatePrintStatement(node *tree.Node) error {
	for _, child := range node.Children {
		if child.Kind == tree.StringData {
			idx, ok := child.StringIndex()
			if !ok {
				return fmt.Errorf("error: string literal was never interned")
			}
			g.emit("leaq\tstrout(%%rip), %%rdi")
			g.emit("leaq\tstring%d(%%rip), %%rsi", idx)
		} else {
			if err := g.generateExpression(child); err != nil {
				return err
			}
			g.instr2("movq", "%rax", "%rsi")
			g.emit("leaq\tintout(%%rip), %%rdi")
		}
		g.emit("call\tsafe_printf")
	}

	g.instr2("movq", "$'\\n'", "%rdi")
	g.emit("call\tputchar")
	return nil
}

func (g *Generator) generateReturnStatement(node *tree.Node) error {
	if err := g.generateExpression(node.Children[0]); err != nil {
		return err
	}
	g.instr2("movq", "%rbp", "%rsp")
	g.instr("popq", "%rbp")
	g.ret()
	return nil
}

// relationJump returns the mnemonic that jumps to label when relation's
// operator is FALSE, i.e. the inverse of the comparison: an if/while body
// is only entered by falling through, so the test jumps away on failure.
func relationJump(op, label string) (string, error) {
	switch op {
	case "=":
		return fmt.Sprintf("jne\t%s", label), nil
	case "!=":
		return fmt.Sprintf("je\t%s", label), nil
	case "<":
		return fmt.Sprintf("jge\t%s", label), nil
	case ">":
		return fmt.Sprintf("jle\t%s", label), nil
	default:
		return "", fmt.Errorf("error: unknown relation operator %q", op)
	}
}

// generateRelation evaluates both sides of a two-child Relation node and
// leaves the comparison flags set, ready for a conditional jump.
func (g *Generator) generateRelation(relation *tree.Node) error {
	left, right := relation.Children[0], relation.Children[1]

	if err := g.generateExpression(left); err != nil {
		return err
	}
	g.instr("pushq", "%rax")
	if err := g.generateExpression(right); err != nil {
		return err
	}
	g.instr("popq", "%r10")
	g.instr2("cmpq", "%rax", "%r10")
	return nil
}

func (g *Generator) generateIfStatement(statement *tree.Node) error {
	n := g.ifCounter
	g.ifCounter++

	g.label("if%d", n)

	relation := statement.Children[0]
	thenStatement := statement.Children[1]

	if err := g.generateRelation(relation); err != nil {
		return err
	}

	elseLabel := fmt.Sprintf("else%d", n)
	jump, err := relationJump(relation.Operator(), elseLabel)
	if err != nil {
		return err
	}
	g.emit(jump)

	if err := g.generateStatement(thenStatement); err != nil {
		return err
	}

	endifLabel := fmt.Sprintf("endif%d", n)
	g.emit("jmp\t%s", endifLabel)

	g.label("else%d", n)
	if len(statement.Children) == 3 {
		if err := g.generateStatement(statement.Children[2]); err != nil {
			return err
		}
	}

	g.label("endif%d", n)
	return nil
}

// generateWhileStatement pushes this loop's label number onto whileLabels
// before generating its body, so that any break statement reached while
// generating the body (however deeply nested inside further ifs or
// whiles) knows exactly where to jump.
func (g *Generator) generateWhileStatement(statement *tree.Node) error {
	n := g.whileCounter
	g.whileCounter++
	g.whileLabels.Push(n)
	defer g.whileLabels.Pop()

	g.label("while%d", n)

	relation := statement.Children[0]
	block := statement.Children[1]

	if err := g.generateRelation(relation); err != nil {
		return err
	}

	endLabel := fmt.Sprintf("endwhile%d", n)
	jump, err := relationJump(relation.Operator(), endLabel)
	if err != nil {
		return err
	}
	g.emit(jump)

	if err := g.generateBlockStatement(block); err != nil {
		return err
	}

	g.emit("jmp\twhile%d", n)
	g.label("endwhile%d", n)
	return nil
}

func (g *Generator) generateBreakStatement() error {
	n, err := g.whileLabels.Top()
	if err != nil {
		return fmt.Errorf("error: break statement outside of a while loop")
	}
	g.emit("jmp\tendwhile%d", n)
	return nil
}
