// Package tree defines the shared AST/parse-tree data model used by the
// parser, simplify, resolve and codegen passes: a single Node shape
// discriminated by Kind, plus the Symbol and string tables attached to it
// during resolution.
package tree

// Kind identifies the shape and role of a Node. The set is closed: every
// pass in this module switches on Kind exhaustively rather than relying on
// a type hierarchy.
type Kind string

const (
	// Structural
	Program         Kind = "Program"
	GlobalList      Kind = "GlobalList"
	Global          Kind = "Global"
	FunctionDef     Kind = "FunctionDef"
	ParameterList   Kind = "ParameterList"
	DeclarationList Kind = "DeclarationList"
	Declaration     Kind = "Declaration"
	ArrayDeclaration Kind = "ArrayDeclaration"
	VariableList    Kind = "VariableList"
	StatementList   Kind = "StatementList"
	Statement       Kind = "Statement"
	Block           Kind = "Block"
	PrintList       Kind = "PrintList"
	PrintItem       Kind = "PrintItem"
	ArgumentList    Kind = "ArgumentList"
	ExpressionList  Kind = "ExpressionList"

	// Statements
	AssignmentStatement Kind = "AssignmentStatement"
	PrintStatement      Kind = "PrintStatement"
	ReturnStatement     Kind = "ReturnStatement"
	IfStatement         Kind = "IfStatement"
	WhileStatement      Kind = "WhileStatement"
	ForStatement        Kind = "ForStatement"
	BreakStatement      Kind = "BreakStatement"

	// Expressions
	Expression    Kind = "Expression"
	Relation      Kind = "Relation"
	ArrayIndexing Kind = "ArrayIndexing"
	IdentifierData Kind = "IdentifierData"
	NumberData    Kind = "NumberData"
	StringData    Kind = "StringData"
)

// CallOperator is the sentinel Expression operator payload used for
// function-call expressions, as opposed to the arithmetic operators.
const CallOperator = "call"

// ForEndVariable is the synthesized local introduced when a ForStatement is
// de-sugared into a WhileStatement (see pkg/simplify).
const ForEndVariable = "__FOR_END__"

// Node is a single vertex of the parse tree/AST. Payload's shape depends on
// Kind:
//   - IdentifierData: string (the identifier text)
//   - NumberData:     int64
//   - StringData:     string (raw quoted lexeme) before interning,
//                      int (interned index) after interning
//   - Expression/Relation: string (operator text, or "" for a bare wrapper)
//   - everything else: nil
type Node struct {
	Kind     Kind
	Payload  any
	Children []*Node
	Symbol   *Symbol
}

// New builds a Node with the given children. Passing no children is fine
// for leaves.
func New(kind Kind, payload any, children ...*Node) *Node {
	return &Node{Kind: kind, Payload: payload, Children: children}
}

// Clone makes a shallow, detached copy of a leaf node (no children), used by
// SimplifyPass when it must duplicate an IdentifierData node to preserve the
// one-parent-per-node invariant after de-sugaring a ForStatement.
func (n *Node) Clone() *Node {
	return &Node{Kind: n.Kind, Payload: n.Payload}
}

// Name returns the identifier text of an IdentifierData node.
func (n *Node) Name() string {
	name, _ := n.Payload.(string)
	return name
}

// Number returns the integer value of a NumberData node.
func (n *Node) Number() int64 {
	num, _ := n.Payload.(int64)
	return num
}

// Operator returns the operator text of an Expression or Relation node.
func (n *Node) Operator() string {
	op, _ := n.Payload.(string)
	return op
}

// RawString returns the pre-interning quoted lexeme of a StringData node.
// Ok is false once the node has been interned (Payload is now an int index).
func (n *Node) RawString() (string, bool) {
	s, ok := n.Payload.(string)
	return s, ok
}

// StringIndex returns the post-interning index of a StringData node.
// Ok is false if the node has not been interned yet.
func (n *Node) StringIndex() (int, bool) {
	idx, ok := n.Payload.(int)
	return idx, ok
}

// IsNumber reports whether the node is a folded NumberData literal.
func (n *Node) IsNumber() bool {
	return n.Kind == NumberData
}
