package linker

import (
	"golang.org/x/exp/slices"
)

// SymbolTable owns the one Symbol of every global name in the link.
type SymbolTable struct {
	SymbolMap map[string]*Symbol
	Names     []string // first-seen order
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		SymbolMap: make(map[string]*Symbol),
	}
}

func (t *SymbolTable) GetSymbolByName(name string) *Symbol {
	if sym, ok := t.SymbolMap[name]; ok {
		return sym
	}
	sym := NewSymbol(name)
	t.SymbolMap[name] = sym
	t.Names = append(t.Names, name)
	return sym
}

func (t *SymbolTable) Lookup(name string) (*Symbol, bool) {
	sym, ok := t.SymbolMap[name]
	return sym, ok
}

func (t *SymbolTable) IsDefined(name string) bool {
	sym, ok := t.SymbolMap[name]
	return ok && sym.IsDefined()
}

func (t *SymbolTable) Len() int {
	return len(t.Names)
}

func (t *SymbolTable) SortedNames() []string {
	names := slices.Clone(t.Names)
	slices.Sort(names)
	return names
}

func (t *SymbolTable) addDecl(d *SymbolDecl) {
	sym := t.GetSymbolByName(d.Name)
	sym.Decls = append(sym.Decls, d)
	if sym.State == StateUnseen {
		sym.setState(StateDeclared)
	}
}
