// Package simplify rewrites a parse tree into its canonical AST form:
// constant arithmetic folds at compile time and for-loops de-sugar into
// while-loops.
//
// original_source/src/tree.c's simplify_tree earns its keep collapsing
// the raw grammar's single-child wrapper nodes and binary-recursive list
// productions (Global, GlobalList, PrintItem, and the like) down to a flat
// canonical shape. pkg/parser's combinators build that flat shape directly
// via their Nodify callbacks, so none of those wrapper kinds ever appear
// in a tree this package sees; only constant folding and for-desugaring
// remain genuine rewrites here.
//
// The pass is a post-order rewrite - children are simplified before the
// node itself - shaped, in Go, after the teacher's struct-with-Handle*-
// methods traversal idiom in pkg/jack/lowering.go.
package simplify

import "vslc.dev/backend/pkg/tree"

// Pass holds no state between calls; it exists (rather than a bare
// function) so the Handle* helpers read like the teacher's Lowerer.
type Pass struct{}

// New returns a ready-to-use simplification pass.
func New() Pass { return Pass{} }

// Run rewrites node and its subtree in place and returns the (possibly
// different) root of the simplified subtree.
func (p Pass) Run(node *tree.Node) *tree.Node {
	if node == nil {
		return nil
	}

	for i, child := range node.Children {
		node.Children[i] = p.Run(child)
	}

	switch node.Kind {
	case tree.Expression:
		return p.foldExpression(node)

	case tree.ForStatement:
		return desugarFor(node)

	default:
		return node
	}
}

// replaceWithChild drops a single-child wrapper node, returning its sole
// child in its place. foldExpression uses this for an Expression with no
// operator, the shape a parenthesized expression collapses to.
func replaceWithChild(node *tree.Node) *tree.Node {
	return node.Children[0]
}
