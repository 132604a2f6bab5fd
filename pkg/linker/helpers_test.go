package linker

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestContext() *Context {
	ctx := NewContext()
	ctx.Args.Machine = MachineTypeX86_64
	return ctx
}

func addObj(ctx *Context, name string) *ObjectFile {
	obj := NewObjectFile(&File{Name: name}, true)
	ctx.AddObjectFile(obj)
	return obj
}

func addLazyObj(ctx *Context, lib, name string) *ObjectFile {
	obj := NewObjectFile(&File{Name: name, Parent: &File{Name: lib}}, false)
	ctx.AddObjectFile(obj)
	return obj
}

func int32s(vals ...int32) []byte {
	buf := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(buf[4*i:], uint32(v))
	}
	return buf
}

func dataSection(obj *ObjectFile, name string, content []byte) *InputSection {
	return obj.AddSection(name, elf.SHT_PROGBITS, elf.SHF_ALLOC|elf.SHF_WRITE, 4, content, 0)
}

func textSection(obj *ObjectFile) *InputSection {
	return obj.AddSection(".text", elf.SHT_PROGBITS, elf.SHF_ALLOC|elf.SHF_EXECINSTR, 16,
		[]byte{0xc3, 0x90, 0x90, 0x90}, 0)
}

func mustLink(t *testing.T, ctx *Context) {
	t.Helper()
	require.NoError(t, Link(ctx))
}

func symbol(t *testing.T, ctx *Context, name string) *Symbol {
	t.Helper()
	sym, ok := ctx.Symbols.Lookup(name)
	require.Truef(t, ok, "symbol %s not in table", name)
	return sym
}

func readInt32(t *testing.T, ctx *Context, addr uint64) int32 {
	t.Helper()
	bs, ok := ImageSlice(ctx, addr, 4)
	require.Truef(t, ok, "address 0x%x outside image", addr)
	return int32(binary.LittleEndian.Uint32(bs))
}

func writeInt32(t *testing.T, ctx *Context, addr uint64, v int32) {
	t.Helper()
	bs, ok := ImageSlice(ctx, addr, 4)
	require.Truef(t, ok, "address 0x%x outside image", addr)
	binary.LittleEndian.PutUint32(bs, uint32(v))
}

type testSection struct {
	name  string
	typ   elf.SectionType
	flags elf.SectionFlag
	align uint64
	data  []byte
	size  uint64 // NOBITS only
}

type testSym struct {
	name  string
	bind  elf.SymBind
	typ   elf.SymType
	shndx uint16 // 1-based index into the section list, or SHN_*
	value uint64
	size  uint64
}

// encodes a minimal ELF64 little-endian relocatable:
// ehdr | section data | .shstrtab | .strtab | .symtab | section headers
func buildObject(t *testing.T, machine elf.Machine, secs []testSection, syms []testSym) []byte {
	t.Helper()
	le := binary.LittleEndian
	var shstr, str, body bytes.Buffer
	shstr.WriteByte(0)
	str.WriteByte(0)
	addStr := func(b *bytes.Buffer, s string) uint32 {
		off := uint32(b.Len())
		b.WriteString(s)
		b.WriteByte(0)
		return off
	}
	pad := func(align int) {
		for body.Len()%align != 0 {
			body.WriteByte(0)
		}
	}

	body.Write(make([]byte, EhdrSize))
	shdrs := []Shdr{{}}
	for _, s := range secs {
		align := max(s.align, 1)
		pad(int(align))
		shdr := Shdr{
			Name:      addStr(&shstr, s.name),
			Type:      uint32(s.typ),
			Flags:     uint64(s.flags),
			Offset:    uint64(body.Len()),
			Size:      uint64(len(s.data)),
			AddrAlign: align,
		}
		if s.typ == elf.SHT_NOBITS {
			shdr.Size = s.size
		} else {
			body.Write(s.data)
		}
		shdrs = append(shdrs, shdr)
	}

	var symtab bytes.Buffer
	require.NoError(t, binary.Write(&symtab, le, Sym{}))
	for _, s := range syms {
		require.NoError(t, binary.Write(&symtab, le, Sym{
			Name:  addStr(&str, s.name),
			Info:  elf.ST_INFO(s.bind, s.typ),
			Shndx: s.shndx,
			Val:   s.value,
			Size:  s.size,
		}))
	}

	shstrIdx := len(shdrs)
	nameShstr := addStr(&shstr, ".shstrtab")
	nameStr := addStr(&shstr, ".strtab")
	nameSym := addStr(&shstr, ".symtab")

	shdrs = append(shdrs, Shdr{Name: nameShstr, Type: uint32(elf.SHT_STRTAB),
		Offset: uint64(body.Len()), Size: uint64(shstr.Len()), AddrAlign: 1})
	body.Write(shstr.Bytes())
	shdrs = append(shdrs, Shdr{Name: nameStr, Type: uint32(elf.SHT_STRTAB),
		Offset: uint64(body.Len()), Size: uint64(str.Len()), AddrAlign: 1})
	body.Write(str.Bytes())
	pad(8)
	shdrs = append(shdrs, Shdr{Name: nameSym, Type: uint32(elf.SHT_SYMTAB),
		Offset: uint64(body.Len()), Size: uint64(symtab.Len()),
		Link: uint32(shstrIdx + 1), Info: 1, AddrAlign: 8, EntSize: uint64(SymSize)})
	body.Write(symtab.Bytes())

	pad(8)
	shoff := body.Len()
	for _, shdr := range shdrs {
		require.NoError(t, binary.Write(&body, le, shdr))
	}

	ehdr := Ehdr{
		Type:      uint16(elf.ET_REL),
		Machine:   uint16(machine),
		Version:   uint32(elf.EV_CURRENT),
		ShOff:     uint64(shoff),
		EhSize:    uint16(EhdrSize),
		ShEntSize: uint16(ShdrSize),
		ShNum:     uint16(len(shdrs)),
		ShStrndx:  uint16(shstrIdx),
	}
	WriteMagic(ehdr.Ident[:])
	ehdr.Ident[elf.EI_CLASS] = uint8(elf.ELFCLASS64)
	ehdr.Ident[elf.EI_DATA] = uint8(elf.ELFDATA2LSB)
	ehdr.Ident[elf.EI_VERSION] = uint8(elf.EV_CURRENT)

	out := body.Bytes()
	var hdr bytes.Buffer
	require.NoError(t, binary.Write(&hdr, le, ehdr))
	copy(out, hdr.Bytes())
	return out
}

type testMember struct {
	name string
	data []byte
}

func arHeader(name string, size int) string {
	return fmt.Sprintf("%-16s%-12s%-6s%-6s%-8s%-10d`\n", name, "0", "0", "0", "644", size)
}

// GNU ar layout; names longer than 15 bytes go through the "//" member
func buildArchive(members ...testMember) []byte {
	var buf, longNames bytes.Buffer
	names := make([]string, len(members))
	for i, m := range members {
		if len(m.name) > 15 {
			names[i] = fmt.Sprintf("/%d", longNames.Len())
			longNames.WriteString(m.name + "/\n")
		} else {
			names[i] = m.name + "/"
		}
	}

	buf.WriteString("!<arch>\n")
	write := func(name string, data []byte) {
		buf.WriteString(arHeader(name, len(data)))
		buf.Write(data)
		if len(data)%2 == 1 {
			buf.WriteByte('\n')
		}
	}
	write("/", []byte{0, 0, 0, 0})
	if longNames.Len() > 0 {
		write("//", longNames.Bytes())
	}
	for i, m := range members {
		write(names[i], m.data)
	}
	return buf.Bytes()
}
