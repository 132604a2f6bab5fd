package linker

import (
	"debug/elf"
	"fmt"

	"github.com/hcyang1106/linkres/pkg/utils"
)

// InputFile holds the raw ELF tables of one relocatable object.
type InputFile struct {
	File           *File
	ElfEhdr        Ehdr
	ElfSecHdrs     []Shdr
	ElfSyms        []Sym
	SymTabSecHdr   *Shdr // points into ElfSecHdrs
	FirstGlobal    int
	ShStrTab       []byte
	SymStrTab      []byte
	SymtabShndxSec []uint32
}

func badObject(file *File, format string, args ...any) error {
	return fmt.Errorf("%s: %w: %s", file.DisplayName(), ErrBadObject, fmt.Sprintf(format, args...))
}

// fill in ElfEhdr, ElfSecHdrs, ShStrTab
func NewInputFile(file *File) (*InputFile, error) {
	f := &InputFile{File: file}

	if len(file.Content) < EhdrSize {
		return nil, badObject(file, "file is smaller than Ehdr size")
	}
	if !CheckMagic(file.Content) {
		return nil, badObject(file, "invalid magic number")
	}
	if err := utils.Read[Ehdr](file.Content, &f.ElfEhdr); err != nil {
		return nil, badObject(file, "%v", err)
	}

	shOff, size := f.ElfEhdr.ShOff, uint64(len(file.Content))
	if shOff == 0 || shOff > size || size-shOff < uint64(ShdrSize) {
		return nil, badObject(file, "section header table out of range")
	}
	secHdrContent := file.Content[shOff:]
	shdr := Shdr{}
	if err := utils.Read[Shdr](secHdrContent, &shdr); err != nil {
		return nil, badObject(file, "%v", err)
	}

	numSecs := uint64(f.ElfEhdr.ShNum)
	if numSecs == 0 {
		numSecs = shdr.Size
	}
	// e_shnum == 0 takes the count from shdr[0], which can be anything
	if numSecs > (size-shOff)/uint64(ShdrSize) {
		return nil, badObject(file, "section header table out of range")
	}

	f.ElfSecHdrs = make([]Shdr, 0, numSecs)
	f.ElfSecHdrs = append(f.ElfSecHdrs, shdr)
	for i := uint64(1); i < numSecs; i++ {
		secHdrContent = secHdrContent[ShdrSize:]
		shdr = Shdr{}
		if err := utils.Read[Shdr](secHdrContent, &shdr); err != nil {
			return nil, badObject(file, "%v", err)
		}
		f.ElfSecHdrs = append(f.ElfSecHdrs, shdr)
	}

	shStrndx := uint32(f.ElfEhdr.ShStrndx)
	if shStrndx == uint32(elf.SHN_XINDEX) {
		shStrndx = f.ElfSecHdrs[0].Link
	}
	var err error
	f.ShStrTab, err = f.GetBytesFromIdx(shStrndx)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (f *InputFile) GetBytesFromShdr(s *Shdr) ([]byte, error) {
	if s.Type == uint32(elf.SHT_NOBITS) {
		return nil, nil
	}
	end := s.Offset + s.Size
	if end < s.Offset || end > uint64(len(f.File.Content)) {
		return nil, badObject(f.File, "section at offset %d exceeds file length", s.Offset)
	}
	return f.File.Content[s.Offset:end], nil
}

func (f *InputFile) GetBytesFromIdx(idx uint32) ([]byte, error) {
	if idx >= uint32(len(f.ElfSecHdrs)) {
		return nil, badObject(f.File, "section index %d out of range", idx)
	}
	return f.GetBytesFromShdr(&f.ElfSecHdrs[idx])
}

func (f *InputFile) FindSectionHdr(secType uint32) *Shdr {
	for i := range f.ElfSecHdrs {
		if f.ElfSecHdrs[i].Type == secType {
			return &f.ElfSecHdrs[i]
		}
	}
	return nil
}

// find the symbol table and decode its entries
func (f *InputFile) ParseSymTab() error {
	f.SymTabSecHdr = f.FindSectionHdr(uint32(elf.SHT_SYMTAB))
	if f.SymTabSecHdr == nil {
		return nil
	}
	f.FirstGlobal = int(f.SymTabSecHdr.Info)

	bs, err := f.GetBytesFromShdr(f.SymTabSecHdr)
	if err != nil {
		return err
	}
	f.ElfSyms, err = utils.ReadSlice[Sym](bs, SymSize)
	if err != nil {
		return badObject(f.File, "symtab: %v", err)
	}
	f.SymStrTab, err = f.GetBytesFromIdx(f.SymTabSecHdr.Link)
	return err
}

func (f *InputFile) ParseSymtabShndxSec() error {
	secHdr := f.FindSectionHdr(uint32(elf.SHT_SYMTAB_SHNDX))
	if secHdr == nil {
		return nil
	}
	content, err := f.GetBytesFromShdr(secHdr)
	if err != nil {
		return err
	}
	f.SymtabShndxSec, err = utils.ReadSlice[uint32](content, 4)
	if err != nil {
		return badObject(f.File, "symtab_shndx: %v", err)
	}
	return nil
}
