package tree

import "fmt"

// SymbolKind identifies the role a Symbol plays, mirroring
// SYMBOL_GLOBAL_VAR/SYMBOL_GLOBAL_ARRAY/SYMBOL_FUNCTION/SYMBOL_PARAMETER/
// SYMBOL_LOCAL_VAR from the original implementation.
type SymbolKind string

const (
	GlobalVar   SymbolKind = "GlobalVar"
	GlobalArray SymbolKind = "GlobalArray"
	Function    SymbolKind = "Function"
	Parameter   SymbolKind = "Parameter"
	LocalVar    SymbolKind = "LocalVar"
)

// Symbol is a single entry in a SymbolTable: a name, its kind, the sequence
// number it was assigned at insertion, the node that declared it, and (for
// functions only) the local table holding its parameters and locals.
type Symbol struct {
	Name   string
	Kind   SymbolKind
	Seq    int
	Node   *Node
	Locals *SymbolTable // non-nil only when Kind == Function
}

// SymbolTable is an insertion-ordered sequence of symbols with a layered
// name->symbol lookup map. Scope push installs a new empty inner layer;
// scope pop discards it without touching the underlying Symbols sequence,
// so sequence numbers stay permanent even after their declaring scope
// closes. A function's table chains to the global table's outermost layer
// via Parent, so lookups that miss every local layer fall through to
// globals.
type SymbolTable struct {
	Symbols []*Symbol
	layers  []map[string]*Symbol
	Parent  *SymbolTable
}

// NewSymbolTable returns an empty table with a single (outermost) layer.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{layers: []map[string]*Symbol{{}}}
}

// NewLocalSymbolTable returns an empty table whose lookups chain to parent
// (normally the global table) once every local layer misses.
func NewLocalSymbolTable(parent *SymbolTable) *SymbolTable {
	st := NewSymbolTable()
	st.Parent = parent
	return st
}

// PushScope installs a new, empty innermost layer.
func (st *SymbolTable) PushScope() {
	st.layers = append(st.layers, map[string]*Symbol{})
}

// PopScope discards the innermost layer. It does not remove the symbols
// declared in it from Symbols - their sequence numbers remain valid.
func (st *SymbolTable) PopScope() {
	st.layers = st.layers[:len(st.layers)-1]
}

// Insert assigns the next sequence number to sym, appends it to Symbols,
// and installs it in the innermost layer. It returns an error if a symbol
// with the same name already exists in that same layer (shadowing across
// layers is allowed; duplication within a layer is not).
func (st *SymbolTable) Insert(sym *Symbol) error {
	top := st.layers[len(st.layers)-1]
	if _, exists := top[sym.Name]; exists {
		return fmt.Errorf("error: '%s' is already declared in this scope", sym.Name)
	}

	sym.Seq = len(st.Symbols)
	st.Symbols = append(st.Symbols, sym)
	top[sym.Name] = sym
	return nil
}

// Lookup searches layers from innermost to outermost, then falls through to
// Parent if present.
func (st *SymbolTable) Lookup(name string) (*Symbol, bool) {
	for i := len(st.layers) - 1; i >= 0; i-- {
		if sym, ok := st.layers[i][name]; ok {
			return sym, true
		}
	}
	if st.Parent != nil {
		return st.Parent.Lookup(name)
	}
	return nil, false
}

// StringTable interns literal lexemes (with their surrounding quotes still
// attached) in first-come order; indices are never reused.
type StringTable struct {
	entries []string
}

// Intern appends lexeme and returns its (permanent) index.
func (st *StringTable) Intern(lexeme string) int {
	idx := len(st.entries)
	st.entries = append(st.entries, lexeme)
	return idx
}

// Entries returns the interned lexemes in assignment order.
func (st *StringTable) Entries() []string {
	return st.entries
}

// Len reports how many strings have been interned so far.
func (st *StringTable) Len() int {
	return len(st.entries)
}
