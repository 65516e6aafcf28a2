// Package resolve builds the global symbol table and per-function local
// symbol tables over a simplified AST, attaches a resolved Symbol to every
// IdentifierData occurrence, and interns string literals into a global
// string table.
//
// It is a two-phase walk - global discovery, then per-function body
// binding - grounded on original_source/src/symbols.c's find_globals/bind
// split, reshaped in Go after the teacher's ScopeTable
// (pkg/jack/scopes.go) for scope push/pop and pkg/jack/lowering.go's
// struct-with-Handle*-methods traversal idiom.
package resolve

import (
	"fmt"

	"vslc.dev/backend/pkg/tree"
)

// Resolver carries the in-progress global symbol table and string table
// across both discovery and binding phases.
type Resolver struct {
	globals *tree.SymbolTable
	strings *tree.StringTable
}

// New returns a Resolver ready to run over a simplified Program root.
func New() *Resolver {
	return &Resolver{globals: tree.NewSymbolTable(), strings: &tree.StringTable{}}
}

// Run discovers every top-level declaration, binds every function body,
// and returns the fully resolved Program.
func (r *Resolver) Run(root *tree.Node) (*tree.Program, error) {
	entry, err := r.discoverGlobals(root)
	if err != nil {
		return nil, err
	}

	if err := r.bindAll(); err != nil {
		return nil, err
	}

	return &tree.Program{
		Root:    root,
		Globals: r.globals,
		Strings: r.strings,
		Entry:   entry,
	}, nil
}

// discoverGlobals is phase A: it walks the Program root's top-level
// declarations (built flat by pkg/parser) and inserts a symbol for each global variable,
// global array, and function (with a freshly created local symbol table
// for each function's parameters). It returns the first function
// encountered, which spec.md's topmost-function-as-entry rule designates
// as the program entry point.
func (r *Resolver) discoverGlobals(root *tree.Node) (*tree.Symbol, error) {
	var entry *tree.Symbol

	for _, top := range root.Children {
		switch top.Kind {
		case tree.Declaration:
			if err := r.discoverVariables(top); err != nil {
				return nil, err
			}

		case tree.ArrayDeclaration:
			if err := r.discoverArray(top); err != nil {
				return nil, err
			}

		case tree.FunctionDef:
			fn, err := r.discoverFunction(top)
			if err != nil {
				return nil, err
			}
			if entry == nil {
				entry = fn
			}

		default:
			return nil, fmt.Errorf("error: unexpected top-level node kind %s", top.Kind)
		}
	}

	if entry == nil {
		return nil, fmt.Errorf("error: program contained no functions")
	}

	return entry, nil
}

func (r *Resolver) discoverVariables(decl *tree.Node) error {
	for _, ident := range decl.Children {
		if ident.Kind != tree.IdentifierData {
			return fmt.Errorf("error: malformed global declaration")
		}
		sym := &tree.Symbol{Name: ident.Name(), Kind: tree.GlobalVar, Node: ident}
		if err := r.globals.Insert(sym); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) discoverArray(decl *tree.Node) error {
	if len(decl.Children) != 2 {
		return fmt.Errorf("error: malformed array declaration")
	}
	ident, length := decl.Children[0], decl.Children[1]
	if length.Kind != tree.NumberData {
		return fmt.Errorf("error: length of array '%s' is not compile-time known", ident.Name())
	}

	sym := &tree.Symbol{Name: ident.Name(), Kind: tree.GlobalArray, Node: decl}
	return r.globals.Insert(sym)
}

func (r *Resolver) discoverFunction(fn *tree.Node) (*tree.Symbol, error) {
	if len(fn.Children) != 3 {
		return nil, fmt.Errorf("error: malformed function definition")
	}
	ident, params := fn.Children[0], fn.Children[1]

	local := tree.NewLocalSymbolTable(r.globals)
	for _, param := range params.Children {
		if param.Kind != tree.IdentifierData {
			return nil, fmt.Errorf("error: malformed parameter list in function '%s'", ident.Name())
		}
		sym := &tree.Symbol{Name: param.Name(), Kind: tree.Parameter, Node: param}
		if err := local.Insert(sym); err != nil {
			return nil, err
		}
	}

	sym := &tree.Symbol{Name: ident.Name(), Kind: tree.Function, Node: fn, Locals: local}
	if err := r.globals.Insert(sym); err != nil {
		return nil, err
	}
	return sym, nil
}

// bindAll is phase B: for every function discovered in phase A, walk its
// body binding identifiers and interning strings.
func (r *Resolver) bindAll() error {
	for _, sym := range r.globals.Symbols {
		if sym.Kind != tree.Function {
			continue
		}
		body := sym.Node.Children[2]
		if err := r.bindNames(sym.Locals, body); err != nil {
			return fmt.Errorf("error: in function '%s': %w", sym.Name, err)
		}
	}
	return nil
}

// bindNames recursively walks node, attaching resolved symbols to every
// IdentifierData, interning every StringData, and pushing/popping scopes on
// Block entry/exit.
func (r *Resolver) bindNames(local *tree.SymbolTable, node *tree.Node) error {
	switch node.Kind {
	case tree.IdentifierData:
		return r.bindIdentifier(local, node)

	case tree.Block:
		return r.bindBlock(local, node)

	case tree.StringData:
		raw, ok := node.RawString()
		if !ok {
			return fmt.Errorf("error: string literal already interned")
		}
		node.Payload = r.strings.Intern(raw)
		return nil

	default:
		for _, child := range node.Children {
			if err := r.bindNames(local, child); err != nil {
				return err
			}
		}
		return nil
	}
}

func (r *Resolver) bindIdentifier(local *tree.SymbolTable, node *tree.Node) error {
	sym, ok := local.Lookup(node.Name())
	if !ok {
		return fmt.Errorf("error: undefined identifier '%s'", node.Name())
	}
	node.Symbol = sym
	return nil
}

// bindBlock pushes a fresh scope and inserts local declarations when the
// Block has a declaration list (two children); blocks that are
// statements-only (one child) don't need a scope at all.
func (r *Resolver) bindBlock(local *tree.SymbolTable, node *tree.Node) error {
	if len(node.Children) == 2 {
		local.PushScope()
		defer local.PopScope()

		declarationList := node.Children[0]
		for _, decl := range declarationList.Children {
			for _, ident := range decl.Children {
				if ident.Kind != tree.IdentifierData {
					return fmt.Errorf("error: malformed local declaration")
				}
				sym := &tree.Symbol{Name: ident.Name(), Kind: tree.LocalVar, Node: ident}
				if err := local.Insert(sym); err != nil {
					return err
				}
				ident.Symbol = sym
			}
		}

		return r.bindNames(local, node.Children[1])
	}

	return r.bindNames(local, node.Children[0])
}
