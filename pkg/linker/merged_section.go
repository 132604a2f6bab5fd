package linker

import (
	"debug/elf"
	"strings"

	"github.com/hcyang1106/linkres/pkg/utils"
)

// MergedSection is the concatenation of every input section with one
// output name, members kept in input order.
type MergedSection struct {
	OutputWriter
	Members []*InputSection
	Idx     uint32 // position in ctx.MergedSections
}

func NewMergedSection(name string, idx uint32) *MergedSection {
	m := &MergedSection{OutputWriter: *NewOutputWriter()}
	m.Name = name
	m.Shdr.Type = uint32(elf.SHT_NOBITS)
	m.Idx = idx
	return m
}

var prefixes = []string{
	".text.", ".data.rel.ro.", ".data.", ".rodata.", ".bss.rel.ro.", ".bss.",
	".init_array.", ".fini_array.", ".preinit_array.", ".tbss.", ".tdata.",
	".gcc_except_table.", ".ctors.", ".dtors.",
}

// built-in prefixed names fold into their stem, custom names are kept
func GetOutputName(name string) string {
	for _, prefix := range prefixes {
		stem := prefix[:len(prefix)-1]
		if name == stem || strings.HasPrefix(name, prefix) {
			return stem
		}
	}
	return name
}

func GetMergedSection(ctx *Context, name string) *MergedSection {
	name = GetOutputName(name)
	if osec := FindMergedSection(ctx, name); osec != nil {
		return osec
	}
	osec := NewMergedSection(name, uint32(len(ctx.MergedSections)))
	ctx.MergedSections = append(ctx.MergedSections, osec)
	return osec
}

func FindMergedSection(ctx *Context, name string) *MergedSection {
	for _, osec := range ctx.MergedSections {
		if osec.Name == name {
			return osec
		}
	}
	return nil
}

func (m *MergedSection) AddMember(isec *InputSection) {
	isec.OutputSection = m
	m.Members = append(m.Members, isec)
	if !isec.IsNoBits() {
		m.Shdr.Type = isec.Type
	}
	m.Shdr.Flags |= isec.Flags &^ uint64(elf.SHF_GROUP|elf.SHF_COMPRESSED|elf.SHF_LINK_ORDER)
}

// every member lands on the first multiple of its own alignment at or
// after the running size; members are never reordered
func (m *MergedSection) AssignOffsets() {
	offset := uint64(0)
	p2align := uint8(0)
	for _, isec := range m.Members {
		offset = utils.AlignTo(offset, isec.Align())
		isec.Offset = offset
		offset += isec.Size
		if p2align < isec.P2Align {
			p2align = isec.P2Align
		}
	}
	m.Shdr.Size = offset
	m.Shdr.AddrAlign = 1 << p2align
}

func (m *MergedSection) IsNoBits() bool {
	return m.Shdr.Type == uint32(elf.SHT_NOBITS)
}

func (m *MergedSection) CopyBuf(ctx *Context) {
	if m.IsNoBits() {
		return
	}
	base := ctx.Buf[m.Shdr.Offset:]
	for _, isec := range m.Members {
		isec.WriteTo(base[isec.Offset:])
	}
}
