package linker

import (
	"debug/elf"
	"math/bits"
)

type InputSection struct {
	File    *ObjectFile
	Name    string
	Content []byte // nil for NOBITS
	Size    uint64
	Type    uint32
	Flags   uint64
	P2Align uint8
	Shndx   uint32

	// filled in by the merger
	Offset        uint64
	OutputSection *MergedSection
}

func NewInputSection(file *ObjectFile, name string, shdr *Shdr, content []byte, shndx uint32) *InputSection {
	return &InputSection{
		File:    file,
		Name:    name,
		Content: content,
		Size:    shdr.Size,
		Type:    shdr.Type,
		Flags:   shdr.Flags,
		P2Align: toP2Align(shdr.AddrAlign),
		Shndx:   shndx,
	}
}

func toP2Align(align uint64) uint8 {
	if align == 0 {
		return 0
	}
	return uint8(bits.TrailingZeros64(align))
}

func (i *InputSection) IsNoBits() bool {
	return i.Type == uint32(elf.SHT_NOBITS)
}

func (i *InputSection) Align() uint64 {
	return 1 << i.P2Align
}

func (i *InputSection) GetAddr() uint64 {
	return i.OutputSection.Shdr.Addr + i.Offset
}

func (i *InputSection) WriteTo(buf []byte) {
	if i.IsNoBits() || i.Size == 0 {
		return
	}
	copy(buf, i.Content)
}
