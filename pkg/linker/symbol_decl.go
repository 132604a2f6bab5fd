package linker

import "fmt"

type Binding uint8

const (
	BindingUndefined Binding = iota
	BindingWeakUndefined
	BindingStrong
	BindingWeak
	BindingCommon
)

func (b Binding) String() string {
	switch b {
	case BindingUndefined:
		return "undefined"
	case BindingWeakUndefined:
		return "weak-undefined"
	case BindingStrong:
		return "strong"
	case BindingWeak:
		return "weak"
	case BindingCommon:
		return "common"
	}
	return fmt.Sprintf("binding(%d)", uint8(b))
}

func (b Binding) IsDefinition() bool {
	return b == BindingStrong || b == BindingWeak || b == BindingCommon
}

func (b Binding) IsReference() bool {
	return b == BindingUndefined || b == BindingWeakUndefined
}

// SymbolDecl is one global symbol as one object declares it.
type SymbolDecl struct {
	File    *ObjectFile
	Name    string
	Binding Binding

	// definition site; nil for undefined, common and absolute symbols
	InputSection *InputSection
	Value        uint64
	IsAbs        bool

	Size  uint64
	Align uint64 // common only

	Idx int // declaration order within File
}

func (d *SymbolDecl) String() string {
	switch {
	case d.InputSection != nil:
		return fmt.Sprintf("%s(%s+0x%x)", d.File.DisplayName(), d.InputSection.Name, d.Value)
	case d.IsAbs:
		return fmt.Sprintf("%s(*ABS*=0x%x)", d.File.DisplayName(), d.Value)
	case d.Binding == BindingCommon:
		return fmt.Sprintf("%s(COMMON size=%d)", d.File.DisplayName(), d.Size)
	}
	return d.File.DisplayName()
}

// orders declarations by input position
func compareDecls(a, b *SymbolDecl) int {
	if a.File.Priority != b.File.Priority {
		return a.File.Priority - b.File.Priority
	}
	return a.Idx - b.Idx
}
