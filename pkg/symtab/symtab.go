// Package symtab implements a small string interner. Strings are deduplicated
// into compact Symbol ids assigned in first-seen order; ids are stable for the
// lifetime of a Table and are never reused.
package symtab

import "fmt"

// Symbol is a compact identifier for an interned string. It is cheap to copy
// and compare, and is only meaningful together with the Table that issued it.
type Symbol uint32

// Table interns strings. It has a single writer during index construction and
// becomes a read-only, freely shareable mapping once the build is done.
type Table struct {
	s2i map[string]Symbol
	i2s []string
}

func NewTable() *Table {
	return &Table{
		s2i: make(map[string]Symbol, 1000),
		i2s: make([]string, 0, 1000),
	}
}

// Intern returns the Symbol for s, allocating the next id if s has not been
// seen before. O(1) amortized.
func (t *Table) Intern(s string) Symbol {
	sym, ok := t.s2i[s]
	if ok {
		return sym
	}

	sym = Symbol(len(t.i2s))
	t.s2i[s] = sym
	t.i2s = append(t.i2s, s)
	return sym
}

// Resolve returns the string interned for sym.
//
// Resolving a Symbol that was not issued by this Table is a contract
// violation and panics. Callers must never invent Symbols or cross-use them
// between Table instances.
func (t *Table) Resolve(sym Symbol) string {
	if int(sym) >= len(t.i2s) {
		panic(fmt.Sprintf("symtab: unknown symbol %d (table holds %d strings)", sym, len(t.i2s)))
	}
	return t.i2s[sym]
}

// Len returns the number of unique interned strings.
func (t *Table) Len() int {
	return len(t.i2s)
}

// Strings returns the interned strings indexed by Symbol. The returned slice
// is the Table's backing storage; callers must treat it as read-only.
func (t *Table) Strings() []string {
	return t.i2s
}
