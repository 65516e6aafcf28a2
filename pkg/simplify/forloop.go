package simplify

import "vslc.dev/backend/pkg/tree"

// desugarFor implements replace_for_statement: a
// ForStatement(var, start, end, body) becomes a Block declaring var and a
// synthesized __FOR_END__ local, assigning their initial values, and
// looping with a WhileStatement that increments var each iteration.
//
// var and __FOR_END__ are each used in more than one place in the
// resulting tree; every occurrence past the first is a fresh Clone() so
// that no Node ends up with more than one parent.
func desugarFor(forNode *tree.Node) *tree.Node {
	variable := forNode.Children[0]
	start := forNode.Children[1]
	end := forNode.Children[2]
	body := forNode.Children[3]

	endVariable := tree.New(tree.IdentifierData, tree.ForEndVariable)

	declarationList := tree.New(tree.DeclarationList,
		nil, tree.New(tree.Declaration, nil, variable, endVariable))

	initAssignment := tree.New(tree.AssignmentStatement, nil, variable.Clone(), start)
	endAssignment := tree.New(tree.AssignmentStatement, nil, endVariable.Clone(), end)

	relation := tree.New(tree.Relation, "<", variable.Clone(), endVariable.Clone())

	one := tree.New(tree.NumberData, int64(1))
	increment := tree.New(tree.AssignmentStatement, nil,
		variable.Clone(),
		tree.New(tree.Expression, "+", variable.Clone(), one))

	loopBody := tree.New(tree.Block, nil,
		tree.New(tree.StatementList, nil, body, increment))

	whileNode := tree.New(tree.WhileStatement, nil, relation, loopBody)

	statements := tree.New(tree.StatementList, nil, initAssignment, endAssignment, whileNode)

	return tree.New(tree.Block, nil, declarationList, statements)
}
