package symbols

// Type is the inferred type of a program variable.
type Type uint8

const (
	// TypeUnknown marks a variable seen by `read` before any assignment
	// fixed its type.
	TypeUnknown Type = iota
	// TypeInt is a 64-bit signed integer.
	TypeInt
	// TypeFloat is a 64-bit IEEE float.
	TypeFloat
)

func (t Type) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	default:
		return "unknown"
	}
}

// Entry records what semantic analysis knows about one variable.
type Entry struct {
	Type Type
	Norm string
}

// SymbolTable maps original identifier names to their inferred type and
// normalized name. First assignment (or an externally supplied declaration)
// fixes the type; later uses are checked against it.
type SymbolTable struct {
	entries map[string]Entry
	order   []string
	norms   *NormTable
}

// NewSymbolTable builds an empty table backed by the shared normalization
// table. norms must not be nil.
func NewSymbolTable(norms *NormTable) *SymbolTable {
	return &SymbolTable{
		entries: make(map[string]Entry),
		norms:   norms,
	}
}

// Declare records a variable with the given type. The first declaration
// wins; redeclaring with a different type updates the entry only when the
// existing type is unknown.
func (st *SymbolTable) Declare(name string, typ Type) Entry {
	if e, ok := st.entries[name]; ok {
		if e.Type == TypeUnknown && typ != TypeUnknown {
			e.Type = typ
			st.entries[name] = e
		}
		return st.entries[name]
	}
	e := Entry{Type: typ, Norm: st.norms.Intern(name)}
	st.entries[name] = e
	st.order = append(st.order, name)
	return e
}

// Lookup returns the entry for name, if declared.
func (st *SymbolTable) Lookup(name string) (Entry, bool) {
	e, ok := st.entries[name]
	return e, ok
}

// Declared reports whether name has an entry.
func (st *SymbolTable) Declared(name string) bool {
	_, ok := st.entries[name]
	return ok
}

// Names returns declared names in declaration order.
func (st *SymbolTable) Names() []string {
	out := make([]string, len(st.order))
	copy(out, st.order)
	return out
}

// Norms returns the shared normalization table.
func (st *SymbolTable) Norms() *NormTable { return st.norms }
