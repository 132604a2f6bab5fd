package linker

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDuplicateDefinition = errors.New("duplicate symbol")
	ErrUndefinedSymbol     = errors.New("undefined symbol")
	ErrBadObject           = errors.New("malformed input")
	ErrLibraryNotFound     = errors.New("library not found")
)

// SymbolError is a fatal resolution failure for one name. Sites lists the
// conflicting definitions or the unsatisfied references.
type SymbolError struct {
	Kind  error
	Name  string
	Sites []string
}

func (e *SymbolError) Error() string {
	verb := "referenced by"
	if errors.Is(e.Kind, ErrDuplicateDefinition) {
		verb = "defined in"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%v: %s", e.Kind, e.Name)
	for _, site := range e.Sites {
		fmt.Fprintf(&sb, "\n>>> %s %s", verb, site)
	}
	return sb.String()
}

func (e *SymbolError) Unwrap() error {
	return e.Kind
}
