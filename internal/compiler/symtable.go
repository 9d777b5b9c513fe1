package compiler

import (
	"fmt"
	"sort"
	"strings"
)

// Scalar is the descriptor for a plain int variable (spec.md §3).
type Scalar struct {
	Line        int
	Address     int
	Initialized bool
	IsIterator  bool // iterators are born initialized and immutable from user code
}

// Array is the descriptor for a one-dimensional array with inclusive
// bounds [Lower, Upper].
type Array struct {
	Line    int
	Lower   int
	Upper   int
	Base    int
	IsBig   bool         // > bigArrayThreshold elements: no per-element tracking
	initSet map[int]bool // element index -> written; nil when IsBig
}

// ElementAddress returns the absolute cell address of element i. The
// caller is responsible for bounds-checking literal indices first.
func (a *Array) ElementAddress(i int) int {
	return a.Base + (i - a.Lower)
}

// IsElementInitialized reports whether element i has been written. Big
// arrays are considered fully initialized unconditionally (spec.md §9).
func (a *Array) IsElementInitialized(i int) bool {
	if a.IsBig {
		return true
	}
	return a.initSet[i]
}

// InitializeElement marks element i as written.
func (a *Array) InitializeElement(i int) {
	if a.IsBig {
		return
	}
	a.initSet[i] = true
}

// InitializeAll marks every element as written. Used when an array is
// indexed by a scalar: the concrete element is unknown at compile time, so
// the whole array is conservatively treated as initialized from then on.
func (a *Array) InitializeAll() {
	if a.IsBig {
		return
	}
	for i := a.Lower; i <= a.Upper; i++ {
		a.initSet[i] = true
	}
}

// Symbol is a tagged variable descriptor: exactly one of Scalar or Array is
// non-nil.
type Symbol struct {
	Name   string
	Scalar *Scalar
	Array  *Array
}

func (s *Symbol) IsArray() bool { return s.Array != nil }

// SymbolTable maps identifier names to variable descriptors and implements
// iterator shadowing (spec.md §4.2).
type SymbolTable struct {
	mem     *Allocator
	vars    map[string]*Symbol
	shadow  map[string][]*Symbol // stack of bindings hidden by an active iterator
}

// NewSymbolTable returns an empty table backed by mem.
func NewSymbolTable(mem *Allocator) *SymbolTable {
	return &SymbolTable{
		mem:    mem,
		vars:   make(map[string]*Symbol),
		shadow: make(map[string][]*Symbol),
	}
}

// DeclareScalar declares a new int variable. It fails if name is already
// declared (shadowed iterator bindings don't count — those live in the
// shadow stack, not vars).
func (st *SymbolTable) DeclareScalar(name string, line int) error {
	if existing, ok := st.vars[name]; ok {
		return fmt.Errorf("multiple declaration of a variable. %s already declared in %d line", name, existing.declLine())
	}
	addr := st.mem.Allocate(1)
	st.vars[name] = &Symbol{Name: name, Scalar: &Scalar{Line: line, Address: addr}}
	return nil
}

// DeclareArray declares a new array variable with inclusive bounds.
func (st *SymbolTable) DeclareArray(name string, lower, upper, line int) error {
	if existing, ok := st.vars[name]; ok {
		return fmt.Errorf("multiple declaration of a variable. %s already declared in %d line", name, existing.declLine())
	}
	size := upper - lower + 1
	base := st.mem.Allocate(size)
	arr := &Array{Line: line, Lower: lower, Upper: upper, Base: base}
	if size > bigArrayThreshold {
		arr.IsBig = true
	} else {
		arr.initSet = make(map[int]bool, size)
	}
	st.vars[name] = &Symbol{Name: name, Array: arr}
	return nil
}

func (s *Symbol) declLine() int {
	if s.Array != nil {
		return s.Array.Line
	}
	return s.Scalar.Line
}

// Lookup returns the current binding for name, if any.
func (st *SymbolTable) Lookup(name string) (*Symbol, bool) {
	sym, ok := st.vars[name]
	return sym, ok
}

// IntroduceIterator allocates a dedicated cell for a new counted-loop
// iterator (or its hidden bound) named name, shadowing any existing
// binding of that name until RetireIterator is called.
func (st *SymbolTable) IntroduceIterator(name string, line int) *Symbol {
	if existing, ok := st.vars[name]; ok {
		st.shadow[name] = append(st.shadow[name], existing)
		delete(st.vars, name)
	}
	addr := st.mem.AllocateIterator()
	sym := &Symbol{Name: name, Scalar: &Scalar{Line: line, Address: addr, Initialized: true, IsIterator: true}}
	st.vars[name] = sym
	return sym
}

// String dumps every currently-visible binding, one per line, sorted by
// name, in the form the -dump-symbols flag prints. Shadowed bindings (a
// variable temporarily hidden by an iterator of the same name) aren't
// shown — the table only reports what's actually in scope right now.
func (st *SymbolTable) String() string {
	names := make([]string, 0, len(st.vars))
	for name := range st.vars {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		sym := st.vars[name]
		switch {
		case sym.Array != nil:
			fmt.Fprintf(&b, "%s(%d:%d) @%d\n", name, sym.Array.Lower, sym.Array.Upper, sym.Array.Base)
		case sym.Scalar.IsIterator:
			fmt.Fprintf(&b, "%s @%d [iterator]\n", name, sym.Scalar.Address)
		default:
			fmt.Fprintf(&b, "%s @%d\n", name, sym.Scalar.Address)
		}
	}
	return b.String()
}

// RetireIterator releases an iterator's cell and restores whatever binding
// it shadowed, if any. Nested loops must retire in LIFO order relative to
// their introductions (spec.md §3's lifecycle note).
func (st *SymbolTable) RetireIterator(name string) {
	sym, ok := st.vars[name]
	if !ok || sym.Scalar == nil || !sym.Scalar.IsIterator {
		return
	}
	st.mem.DeallocateIterator(sym.Scalar.Address)
	delete(st.vars, name)
	if stack := st.shadow[name]; len(stack) > 0 {
		st.vars[name] = stack[len(stack)-1]
		st.shadow[name] = stack[:len(stack)-1]
	}
}
