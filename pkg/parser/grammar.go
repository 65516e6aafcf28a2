package parser

import (
	"strconv"

	pc "github.com/prataprc/goparsec"

	"vslc.dev/backend/pkg/tree"
)

// ast is the named-AST builder the teacher's pkg/jack/parsing.go uses for
// every non-terminal rule (ast.And/ast.Kleene/ast.OrdChoice), so matched
// rules can still be dumped with ast.Prettyprint()/ast.Dotstring() under
// the PARSEC_DEBUG-style feature flags below.
var ast = pc.NewAST("vsl_program", 256)

// pProgram is the grammar's start symbol. pExpr, pFactor and pStatement
// are declared separately because VSL's grammar is mutually recursive in
// three places (an expression may parenthesize another expression; a
// unary operator applies to another factor; a statement may be a block
// containing further statements) and Go var initializers can't express
// that cycle directly. Each is wired up from inside grammar's init, and
// until then is reached only through the *Fwd closures below, which
// resolve the live value at parse time rather than at package-init time.
var (
	pProgram   pc.Parser
	pExpr      pc.Parser
	pFactor    pc.Parser
	pStatement pc.Parser
)

func exprFwd(s pc.Scanner) (pc.ParsecNode, pc.Scanner)      { return pExpr(s) }
func factorFwd(s pc.Scanner) (pc.ParsecNode, pc.Scanner)    { return pFactor(s) }
func statementFwd(s pc.Scanner) (pc.ParsecNode, pc.Scanner) { return pStatement(s) }

// passthrough is the Nodify for OrdChoice rules that simply hand back
// whichever single alternative matched, with no wrapping NonTerminal.
func passthrough(ns []pc.ParsecNode) pc.ParsecNode { return ns[0] }

// takeSecond discards a leading punctuation terminal (",", "(", "else")
// and keeps the following rule's already-built *tree.Node.
func takeSecond(ns []pc.ParsecNode) pc.ParsecNode { return ns[1] }

// nodeListIdentity collects a Kleene repetition of *tree.Node matches
// into a []*tree.Node, so the enclosing rule's Nodify can wrap them in
// whatever list Node it needs.
func nodeListIdentity(ns []pc.ParsecNode) pc.ParsecNode {
	nodes := make([]*tree.Node, 0, len(ns))
	for _, n := range ns {
		nodes = append(nodes, n.(*tree.Node))
	}
	return nodes
}

// wrapList returns a Kleene Nodify that collects the repeated *tree.Node
// matches directly into a single wrapper node of the given kind, for the
// list productions whose consumers (pkg/resolve, pkg/codegen) expect a
// Node with .Children rather than a bare slice.
func wrapList(kind tree.Kind) func([]pc.ParsecNode) pc.ParsecNode {
	return func(ns []pc.ParsecNode) pc.ParsecNode {
		nodes := make([]*tree.Node, 0, len(ns))
		for _, n := range ns {
			nodes = append(nodes, n.(*tree.Node))
		}
		return tree.New(kind, nil, nodes...)
	}
}

// opOperand pairs an infix operator's text with the operand that follows
// it, used while folding a Kleene chain of (operator, operand) pairs into
// a left-associative Expression tree.
type opOperand struct {
	op   string
	node *tree.Node
}

func pairNodify(ns []pc.ParsecNode) pc.ParsecNode {
	return opOperand{op: text(ns[0]), node: ns[1].(*tree.Node)}
}

func pairListIdentity(ns []pc.ParsecNode) pc.ParsecNode {
	pairs := make([]opOperand, 0, len(ns))
	for _, n := range ns {
		pairs = append(pairs, n.(opOperand))
	}
	return pairs
}

// chainNodify builds a left-associative Expression chain: a (op b) (op c)
// ... folds into Expression(op, Expression(op, a, b), c), matching the
// binary-only shape generate_expression/constant_fold_expression expect.
func chainNodify(ns []pc.ParsecNode) pc.ParsecNode {
	left := ns[0].(*tree.Node)
	for _, pair := range ns[1].([]opOperand) {
		left = tree.New(tree.Expression, pair.op, left, pair.node)
	}
	return left
}

func identNodify(ns []pc.ParsecNode) pc.ParsecNode {
	return tree.New(tree.IdentifierData, text(ns[0]))
}

func numberNodify(ns []pc.ParsecNode) pc.ParsecNode {
	n, _ := strconv.ParseInt(text(ns[0]), 10, 64)
	return tree.New(tree.NumberData, n)
}

func stringNodify(ns []pc.ParsecNode) pc.ParsecNode {
	return tree.New(tree.StringData, text(ns[0]))
}

func callNodify(ns []pc.ParsecNode) pc.ParsecNode {
	name := ns[0].(*tree.Node)
	args := ns[2].([]*tree.Node)
	argumentList := tree.New(tree.ArgumentList, nil, args...)
	return tree.New(tree.Expression, tree.CallOperator, name, argumentList)
}

func arrayIndexNodify(ns []pc.ParsecNode) pc.ParsecNode {
	name := ns[0].(*tree.Node)
	index := ns[2].(*tree.Node)
	return tree.New(tree.ArrayIndexing, nil, name, index)
}

func unaryNodify(ns []pc.ParsecNode) pc.ParsecNode {
	op := text(ns[0])
	operand := ns[1].(*tree.Node)
	return tree.New(tree.Expression, op, operand)
}

func relationNodify(ns []pc.ParsecNode) pc.ParsecNode {
	left := ns[0].(*tree.Node)
	op := text(ns[1])
	right := ns[2].(*tree.Node)
	return tree.New(tree.Relation, op, left, right)
}

func assignNodify(ns []pc.ParsecNode) pc.ParsecNode {
	dest := ns[0].(*tree.Node)
	expr := ns[2].(*tree.Node)
	return tree.New(tree.AssignmentStatement, nil, dest, expr)
}

func printNodify(ns []pc.ParsecNode) pc.ParsecNode {
	first := ns[1].(*tree.Node)
	rest := ns[2].([]*tree.Node)
	items := append([]*tree.Node{first}, rest...)
	return tree.New(tree.PrintStatement, nil, items...)
}

func returnNodify(ns []pc.ParsecNode) pc.ParsecNode {
	return tree.New(tree.ReturnStatement, nil, ns[1].(*tree.Node))
}

func breakNodify([]pc.ParsecNode) pc.ParsecNode {
	return tree.New(tree.BreakStatement, nil)
}

func scalarDeclNodify(ns []pc.ParsecNode) pc.ParsecNode {
	first := ns[1].(*tree.Node)
	rest := ns[2].([]*tree.Node)
	idents := append([]*tree.Node{first}, rest...)
	return tree.New(tree.Declaration, nil, idents...)
}

func arrayDeclNodify(ns []pc.ParsecNode) pc.ParsecNode {
	ident := ns[1].(*tree.Node)
	length := ns[3].(*tree.Node)
	return tree.New(tree.ArrayDeclaration, nil, ident, length)
}

func declListNodify(ns []pc.ParsecNode) pc.ParsecNode {
	decls := make([]*tree.Node, 0, len(ns))
	for _, n := range ns {
		decls = append(decls, n.(*tree.Node))
	}
	return tree.New(tree.DeclarationList, nil, decls...)
}

// blockNodify drops an empty declaration list rather than keeping a
// DeclarationList child with zero children, matching what pkg/resolve's
// bindBlock expects (one child means statements-only, two means
// declarations-then-statements).
func blockNodify(ns []pc.ParsecNode) pc.ParsecNode {
	declarationList := ns[1].(*tree.Node)
	statementList := ns[2].(*tree.Node)
	if len(declarationList.Children) == 0 {
		return tree.New(tree.Block, nil, statementList)
	}
	return tree.New(tree.Block, nil, declarationList, statementList)
}

func ifElseNodify(ns []pc.ParsecNode) pc.ParsecNode {
	relation := ns[1].(*tree.Node)
	then := ns[3].(*tree.Node)
	els := ns[5].(*tree.Node)
	return tree.New(tree.IfStatement, nil, relation, then, els)
}

func ifNodify(ns []pc.ParsecNode) pc.ParsecNode {
	relation := ns[1].(*tree.Node)
	then := ns[3].(*tree.Node)
	return tree.New(tree.IfStatement, nil, relation, then)
}

func whileNodify(ns []pc.ParsecNode) pc.ParsecNode {
	relation := ns[1].(*tree.Node)
	block := ns[2].(*tree.Node)
	return tree.New(tree.WhileStatement, nil, relation, block)
}

func forNodify(ns []pc.ParsecNode) pc.ParsecNode {
	variable := ns[1].(*tree.Node)
	start := ns[3].(*tree.Node)
	end := ns[5].(*tree.Node)
	body := ns[6].(*tree.Node)
	return tree.New(tree.ForStatement, nil, variable, start, end, body)
}

func functionDefNodify(ns []pc.ParsecNode) pc.ParsecNode {
	name := ns[1].(*tree.Node)
	params := ns[3].(*tree.Node)
	body := ns[5].(*tree.Node)
	return tree.New(tree.FunctionDef, nil, name, params, body)
}

func programNodify(ns []pc.ParsecNode) pc.ParsecNode {
	globals := ns[0].([]*tree.Node)
	return tree.New(tree.Program, nil, globals...)
}

// init wires the full grammar together bottom-up, closing the three
// mutually-recursive cycles (expression/paren-expression, factor/unary,
// statement/block) through the *Fwd closures declared above.
func init() {
	pIdentNode := ast.And("ident", identNodify, pIdent)
	pNumberNode := ast.And("number", numberNodify, pNumber)
	pStringNode := ast.And("string", stringNodify, pString)

	parenExpr := ast.And("paren_expr", takeSecond, opLParen, pc.Parser(exprFwd), opRParen)
	argumentList := ast.Kleene("argument_list", nodeListIdentity, pc.Parser(exprFwd), opComma)
	call := ast.And("call", callNodify, pIdentNode, opLParen, argumentList, opRParen)
	arrayIndex := ast.And("array_index", arrayIndexNodify, pIdentNode, opLBrack, pc.Parser(exprFwd), opRBrack)
	unaryOp := ast.OrdChoice("unary_op", passthrough, opPlus, opMinus, opStar, opSlash)
	unary := ast.And("unary", unaryNodify, unaryOp, pc.Parser(factorFwd))

	pFactor = ast.OrdChoice("factor", passthrough, call, arrayIndex, pIdentNode, pNumberNode, parenExpr, unary)

	mulOp := ast.OrdChoice("mul_op", passthrough, opStar, opSlash)
	termTail := ast.Kleene("term_tail", pairListIdentity, ast.And("term_op", pairNodify, mulOp, pFactor))
	term := ast.And("term", chainNodify, pFactor, termTail)

	addOp := ast.OrdChoice("add_op", passthrough, opPlus, opMinus)
	exprTail := ast.Kleene("expr_tail", pairListIdentity, ast.And("expr_op", pairNodify, addOp, term))
	pExpr = ast.And("expr", chainNodify, term, exprTail)

	relOp := ast.OrdChoice("rel_op", passthrough, opNE, opEQ, opLT, opGT)
	relation := ast.And("relation", relationNodify, pExpr, relOp, pExpr)

	target := ast.OrdChoice("assign_target", passthrough, arrayIndex, pIdentNode)
	assignment := ast.And("assignment", assignNodify, target, opAssign, pExpr)

	printItem := ast.OrdChoice("print_item", passthrough, pStringNode, pExpr)
	printTail := ast.Kleene("print_tail", nodeListIdentity, ast.And("print_tail_item", takeSecond, opComma, printItem))
	printStmt := ast.And("print", printNodify, kwPrint, printItem, printTail)

	returnStmt := ast.And("return", returnNodify, kwReturn, pExpr)
	breakStmt := ast.And("break", breakNodify, kwBreak)

	declRest := ast.Kleene("decl_rest", nodeListIdentity, ast.And("decl_rest_item", takeSecond, opComma, pIdentNode))
	scalarDecl := ast.And("scalar_decl", scalarDeclNodify, kwVar, pIdentNode, declRest)
	arrayDecl := ast.And("array_decl", arrayDeclNodify, kwVar, pIdentNode, opLBrack, pNumberNode, opRBrack)
	varDecl := ast.OrdChoice("var_decl", passthrough, arrayDecl, scalarDecl)

	declarationList := ast.Kleene("declaration_list", declListNodify, varDecl)
	statementList := ast.Kleene("statement_list", wrapList(tree.StatementList), pc.Parser(statementFwd))
	block := ast.And("block", blockNodify, kwBegin, declarationList, statementList, kwEnd)

	ifThenElse := ast.And("if_then_else", ifElseNodify, kwIf, relation, kwThen, pc.Parser(statementFwd), kwElse, pc.Parser(statementFwd))
	ifThen := ast.And("if_then", ifNodify, kwIf, relation, kwThen, pc.Parser(statementFwd))
	ifStmt := ast.OrdChoice("if", passthrough, ifThenElse, ifThen)

	whileStmt := ast.And("while", whileNodify, kwWhile, relation, block)
	forStmt := ast.And("for", forNodify, kwFor, pIdentNode, opAssign, pExpr, opComma, pExpr, pc.Parser(statementFwd))

	pStatement = ast.OrdChoice("statement", passthrough,
		block, ifStmt, whileStmt, forStmt, breakStmt, printStmt, returnStmt, assignment)

	parameterList := ast.Kleene("parameter_list", wrapList(tree.ParameterList), pIdentNode, opComma)
	functionDef := ast.And("function_def", functionDefNodify, kwDef, pIdentNode, opLParen, parameterList, opRParen, block)

	global := ast.OrdChoice("global", passthrough, functionDef, arrayDecl, scalarDecl)
	globalList := ast.Kleene("global_list", nodeListIdentity, global)
	pProgram = ast.And("program", programNodify, globalList)
}
