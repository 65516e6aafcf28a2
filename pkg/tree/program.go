package tree

// Program bundles everything a resolved compilation unit carries forward
// out of pkg/resolve and into pkg/codegen: the simplified root, the global
// symbol table, the interned string table, and the entry function.
//
// Keeping these as fields on an owned value - rather than the original
// compiler's root/global_symbols/string_list process globals - is the
// explicit redesign spec.md §9 calls for.
type Program struct {
	Root    *Node
	Globals *SymbolTable
	Strings *StringTable

	// Entry is the first FunctionDef encountered in top-level declaration
	// order. The generated main wrapper validates argc against its
	// parameter count and calls it, mirroring the original compiler's
	// get_topmost_function.
	Entry *Symbol
}
