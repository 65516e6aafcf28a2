package simplify

import "vslc.dev/backend/pkg/tree"

// foldExpression implements constant_fold_expression from
// original_source/src/tree.c: an Expression with no operator and one child
// is just a wrapper and collapses to that child; an Expression with an
// operator whose children are all already-folded NumberData literals
// evaluates at compile time into a NumberData node.
func (p Pass) foldExpression(node *tree.Node) *tree.Node {
	op := node.Operator()

	if op == "" && len(node.Children) == 1 {
		return replaceWithChild(node)
	}

	if op != "" && len(node.Children) > 0 && allNumbers(node.Children) {
		return fold(node, op)
	}

	return node
}

func allNumbers(children []*tree.Node) bool {
	for _, child := range children {
		if !child.IsNumber() {
			return false
		}
	}
	return true
}

// fold evaluates node (either a one- or two-child Expression) and returns
// its NumberData replacement.
func fold(node *tree.Node, op string) *tree.Node {
	var result int64

	switch len(node.Children) {
	case 1:
		result = foldUnary(op, node.Children[0].Number())
	case 2:
		result = foldBinary(op, node.Children[0].Number(), node.Children[1].Number())
	}

	return tree.New(tree.NumberData, result)
}

// foldUnary mirrors calculate_unary_fold. Unary '*' and '/' folding to zero
// is a quirk of the source language preserved verbatim (see spec.md §9
// Open Question (a)).
func foldUnary(op string, value int64) int64 {
	switch op {
	case "+":
		return value
	case "-":
		return -value
	case "*", "/":
		return 0
	default:
		return 0
	}
}

// foldBinary mirrors calculate_binary_fold: 64-bit signed wraparound for
// + - *, truncated-toward-zero division for /.
func foldBinary(op string, left, right int64) int64 {
	switch op {
	case "+":
		return left + right
	case "-":
		return left - right
	case "*":
		return left * right
	case "/":
		return left / right
	default:
		return 0
	}
}
