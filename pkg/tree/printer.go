package tree

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Print dumps root to w. When the GRAPHVIZ_OUTPUT environment variable is
// set, it emits Graphviz dot source instead of an indented textual tree -
// the same feature-flag-gated dual mode as the original compiler's
// print_syntax_tree/graphviz_node_print, and in the same spirit as the
// teacher's PARSEC_DEBUG/EXPORT_AST/PRINT_AST env-var checks in
// pkg/jack/parsing.go.
func Print(w io.Writer, root *Node) {
	if os.Getenv("GRAPHVIZ_OUTPUT") != "" {
		printGraphviz(w, root)
		return
	}
	printIndented(w, root, 0)
}

func printIndented(w io.Writer, node *Node, nesting int) {
	if node == nil {
		fmt.Fprintf(w, "%s(NULL)\n", strings.Repeat(" ", nesting))
		return
	}

	fmt.Fprintf(w, "%s%s%s\n", strings.Repeat(" ", nesting), node.Kind, describePayload(node))

	for _, child := range node.Children {
		printIndented(w, child, nesting+1)
	}
}

// describePayload renders a node's payload and, if resolved, its attached
// symbol's kind and sequence number - mirroring node_print's per-kind
// switch in original_source/src/tree.c.
func describePayload(node *Node) string {
	var payload string
	switch node.Kind {
	case IdentifierData:
		payload = fmt.Sprintf("(%s)", node.Name())
	case Expression, Relation:
		if op := node.Operator(); op != "" {
			payload = fmt.Sprintf("(%s)", op)
		}
	case NumberData:
		payload = fmt.Sprintf("(%d)", node.Number())
	case StringData:
		if idx, ok := node.StringIndex(); ok {
			payload = fmt.Sprintf("(#%d)", idx)
		} else if raw, ok := node.RawString(); ok {
			payload = fmt.Sprintf("(%s)", raw)
		}
	}

	if node.Symbol != nil {
		payload += fmt.Sprintf(" %s(%d)", node.Symbol.Kind, node.Symbol.Seq)
	}

	return payload
}

func printGraphviz(w io.Writer, root *Node) {
	fmt.Fprintln(w, "digraph AST {")
	counter := 0
	var walk func(node *Node) int
	walk = func(node *Node) int {
		id := counter
		counter++

		label := "(NULL)"
		if node != nil {
			label = fmt.Sprintf("%s%s", node.Kind, describePayload(node))
		}
		fmt.Fprintf(w, "  n%d [label=%q];\n", id, label)

		if node != nil {
			for _, child := range node.Children {
				childID := walk(child)
				fmt.Fprintf(w, "  n%d -> n%d;\n", id, childID)
			}
		}
		return id
	}
	walk(root)
	fmt.Fprintln(w, "}")
}
