package linker

import (
	"debug/elf"
)

// ObjectFile is one compilation unit as seen by resolution: its
// contributed sections and its global symbol declarations, both in
// declaration order.
type ObjectFile struct {
	File     *File
	Elf      *InputFile // nil for objects built in memory
	Priority int        // position in the link line
	IsAlive  bool       // false for archive members nobody needs yet

	InputSections []*InputSection
	Symbols       []*SymbolDecl
}

func NewObjectFile(file *File, isAlive bool) *ObjectFile {
	return &ObjectFile{
		File:    file,
		IsAlive: isAlive,
	}
}

func (o *ObjectFile) IsInArchive() bool {
	return o.File.Parent != nil
}

func (o *ObjectFile) DisplayName() string {
	return o.File.DisplayName()
}

func (o *ObjectFile) AddSection(name string, typ elf.SectionType, flags elf.SectionFlag, align uint64, content []byte, size uint64) *InputSection {
	if typ != elf.SHT_NOBITS && content != nil {
		size = uint64(len(content))
	}
	shdr := &Shdr{
		Type:      uint32(typ),
		Flags:     uint64(flags),
		Size:      size,
		AddrAlign: align,
	}
	isec := NewInputSection(o, name, shdr, content, uint32(len(o.InputSections)+1))
	o.InputSections = append(o.InputSections, isec)
	return isec
}

func (o *ObjectFile) addSymbol(d *SymbolDecl) *SymbolDecl {
	d.File = o
	d.Idx = len(o.Symbols)
	o.Symbols = append(o.Symbols, d)
	return d
}

// Define declares a strong or weak definition at isec+value.
func (o *ObjectFile) Define(name string, binding Binding, isec *InputSection, value, size uint64) *SymbolDecl {
	return o.addSymbol(&SymbolDecl{
		Name:         name,
		Binding:      binding,
		InputSection: isec,
		Value:        value,
		Size:         size,
	})
}

func (o *ObjectFile) DefineAbs(name string, binding Binding, value uint64) *SymbolDecl {
	return o.addSymbol(&SymbolDecl{
		Name:    name,
		Binding: binding,
		Value:   value,
		IsAbs:   true,
	})
}

func (o *ObjectFile) DeclareCommon(name string, size, align uint64) *SymbolDecl {
	if align == 0 {
		align = 1
	}
	return o.addSymbol(&SymbolDecl{
		Name:    name,
		Binding: BindingCommon,
		Size:    size,
		Align:   align,
	})
}

func (o *ObjectFile) Reference(name string, weak bool) *SymbolDecl {
	binding := BindingUndefined
	if weak {
		binding = BindingWeakUndefined
	}
	return o.addSymbol(&SymbolDecl{
		Name:    name,
		Binding: binding,
	})
}

// ParseObjectFile decodes an ELF relocatable into sections and symbols.
func ParseObjectFile(file *File, isAlive bool) (*ObjectFile, error) {
	in, err := NewInputFile(file)
	if err != nil {
		return nil, err
	}
	o := NewObjectFile(file, isAlive)
	o.Elf = in

	if err := in.ParseSymTab(); err != nil {
		return nil, err
	}
	if err := in.ParseSymtabShndxSec(); err != nil {
		return nil, err
	}
	byShndx, err := o.parseInputSections()
	if err != nil {
		return nil, err
	}
	if err := o.parseSymbols(byShndx); err != nil {
		return nil, err
	}
	return o, nil
}

// keeps allocated sections only, indexed by their ELF section number
func (o *ObjectFile) parseInputSections() ([]*InputSection, error) {
	in := o.Elf
	byShndx := make([]*InputSection, len(in.ElfSecHdrs))
	for i := range in.ElfSecHdrs {
		shdr := &in.ElfSecHdrs[i]
		switch elf.SectionType(shdr.Type) {
		case elf.SHT_NULL, elf.SHT_GROUP, elf.SHT_SYMTAB, elf.SHT_STRTAB,
			elf.SHT_REL, elf.SHT_RELA, elf.SHT_SYMTAB_SHNDX:
			continue
		}
		if shdr.Flags&uint64(elf.SHF_ALLOC) == 0 {
			continue
		}
		content, err := in.GetBytesFromShdr(shdr)
		if err != nil {
			return nil, err
		}
		name := ElfGetName(in.ShStrTab, shdr.Name)
		isec := NewInputSection(o, name, shdr, content, uint32(i))
		byShndx[i] = isec
		o.InputSections = append(o.InputSections, isec)
	}
	return byShndx, nil
}

// local symbols are skipped, they never take part in global resolution
func (o *ObjectFile) parseSymbols(byShndx []*InputSection) error {
	in := o.Elf
	largeCommons := elf.Machine(in.ElfEhdr.Machine) == elf.EM_X86_64
	for i := in.FirstGlobal; i < len(in.ElfSyms); i++ {
		if i == 0 {
			continue
		}
		esym := &in.ElfSyms[i]
		bind := esym.Bind()
		if bind != elf.STB_GLOBAL && bind != elf.STB_WEAK {
			continue
		}
		name := ElfGetName(in.SymStrTab, esym.Name)
		weak := bind == elf.STB_WEAK

		switch {
		case esym.IsUndef():
			o.Reference(name, weak)
		case esym.IsCommon() || (esym.IsLargeCommon() && largeCommons):
			o.DeclareCommon(name, esym.Size, esym.Val)
		case esym.IsAbs():
			o.DefineAbs(name, definitionBinding(weak), esym.Val).Size = esym.Size
		default:
			if esym.Shndx == uint16(elf.SHN_XINDEX) && i >= len(in.SymtabShndxSec) {
				return badObject(o.File, "symbol %s: missing extended section index", name)
			}
			shndx := esym.GetShndx(in.SymtabShndxSec, i)
			if shndx >= uint32(len(byShndx)) {
				return badObject(o.File, "symbol %s: section index %d out of range", name, shndx)
			}
			isec := byShndx[shndx]
			if isec == nil {
				continue
			}
			o.Define(name, definitionBinding(weak), isec, esym.Val, esym.Size)
		}
	}
	return nil
}

func definitionBinding(weak bool) Binding {
	if weak {
		return BindingWeak
	}
	return BindingStrong
}
