package linker

import (
	"fmt"
)

// SymbolState is where a name sits in its resolution lifecycle. Every
// state after StateDeclared is terminal.
type SymbolState uint8

const (
	StateUnseen SymbolState = iota
	StateDeclared
	StateResolved
	StateSynthesized
	StateSentinel
	StateDuplicateDefinition
	StateUnresolved
)

func (s SymbolState) String() string {
	switch s {
	case StateUnseen:
		return "unseen"
	case StateDeclared:
		return "declared"
	case StateResolved:
		return "resolved"
	case StateSynthesized:
		return "synthesized"
	case StateSentinel:
		return "sentinel"
	case StateDuplicateDefinition:
		return "error(duplicate)"
	case StateUnresolved:
		return "error(unresolved)"
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

func (s SymbolState) IsTerminal() bool {
	return s > StateDeclared
}

// SentinelAddr is the value of weak symbols nothing defines.
const SentinelAddr uint64 = 0

// Symbol is the single resolution of a global name.
type Symbol struct {
	Name    string
	State   SymbolState
	Binding Binding // of the winning declaration

	// winning declaration, nil for synthesized and sentinel symbols
	Winner *SymbolDecl

	// exactly one of InputSection, OutputSection is set for symbols
	// with an address; neither for absolute values and sentinels
	InputSection  *InputSection
	OutputSection *MergedSection
	AtEnd         bool // bound to the end of OutputSection
	Value         uint64
	Size          uint64

	Decls []*SymbolDecl // every declaration, in input order
}

func NewSymbol(name string) *Symbol {
	return &Symbol{
		Name:  name,
		State: StateUnseen,
	}
}

// either use the output section or the input section
func (s *Symbol) SetInputSection(isec *InputSection) {
	s.InputSection = isec
	s.OutputSection = nil
}

func (s *Symbol) SetOutputSection(osec *MergedSection, atEnd bool) {
	s.OutputSection = osec
	s.AtEnd = atEnd
	s.InputSection = nil
}

func (s *Symbol) setState(state SymbolState) {
	if s.State.IsTerminal() {
		panic(fmt.Sprintf("symbol %s: %s is final, cannot become %s", s.Name, s.State, state))
	}
	s.State = state
}

func (s *Symbol) resolveTo(d *SymbolDecl) {
	s.setState(StateResolved)
	s.Winner = d
	s.Binding = d.Binding
	s.Value = d.Value
	s.Size = d.Size
	if d.InputSection != nil {
		s.SetInputSection(d.InputSection)
	}
}

func (s *Symbol) IsDefined() bool {
	return s.State == StateResolved || s.State == StateSynthesized
}

func (s *Symbol) GetAddr() uint64 {
	if s.OutputSection != nil {
		if s.AtEnd {
			return s.OutputSection.Shdr.Addr + s.OutputSection.Shdr.Size
		}
		return s.OutputSection.Shdr.Addr + s.Value
	}
	if s.InputSection != nil {
		return s.InputSection.GetAddr() + s.Value
	}
	if s.State == StateSentinel {
		return SentinelAddr
	}
	return s.Value
}

func (s *Symbol) hasReference() bool {
	for _, d := range s.Decls {
		if d.Binding.IsReference() {
			return true
		}
	}
	return false
}

// a weak reference alone never demands a definition
func (s *Symbol) hasStrongReference() bool {
	for _, d := range s.Decls {
		if d.Binding == BindingUndefined {
			return true
		}
	}
	return false
}

func (s *Symbol) declsOf(bindings ...Binding) []*SymbolDecl {
	var ret []*SymbolDecl
	for _, d := range s.Decls {
		for _, b := range bindings {
			if d.Binding == b {
				ret = append(ret, d)
				break
			}
		}
	}
	return ret
}

func (s *Symbol) site() string {
	switch s.State {
	case StateSynthesized:
		edge := "start"
		if s.AtEnd {
			edge = "end"
		}
		return fmt.Sprintf("<linker>(%s of %s)", edge, s.OutputSection.Name)
	case StateSentinel:
		return "<absent>"
	}
	if s.Winner != nil {
		return s.Winner.String()
	}
	return ""
}
