package linker

import (
	"bytes"
	"debug/elf"
	"fmt"
	"strconv"
	"strings"
	"unsafe"
)

const EhdrSize = int(unsafe.Sizeof(Ehdr{}))
const ShdrSize = int(unsafe.Sizeof(Shdr{}))
const SymSize = int(unsafe.Sizeof(Sym{}))
const AhdrSize = int(unsafe.Sizeof(ArHdr{}))

type Ehdr struct {
	Ident     [16]uint8
	Type      uint16
	Machine   uint16
	Version   uint32
	Entry     uint64
	PhOff     uint64
	ShOff     uint64
	Flags     uint32
	EhSize    uint16
	PhEntSize uint16
	PhNum     uint16
	ShEntSize uint16
	ShNum     uint16
	ShStrndx  uint16
}

type Shdr struct {
	Name      uint32
	Type      uint32
	Flags     uint64
	Addr      uint64
	Offset    uint64
	Size      uint64
	Link      uint32
	Info      uint32
	AddrAlign uint64
	EntSize   uint64
}

type Sym struct {
	Name  uint32
	Info  uint8
	Other uint8
	Shndx uint16
	Val   uint64
	Size  uint64
}

func (s *Sym) GetShndx(table []uint32, idx int) uint32 {
	if elf.SectionIndex(s.Shndx) != elf.SHN_XINDEX {
		return uint32(s.Shndx)
	}
	return table[idx]
}

func (s *Sym) IsAbs() bool {
	return s.Shndx == uint16(elf.SHN_ABS)
}

func (s *Sym) IsUndef() bool {
	return s.Shndx == uint16(elf.SHN_UNDEF)
}

func (s *Sym) IsCommon() bool {
	return s.Shndx == uint16(elf.SHN_COMMON)
}

func (s *Sym) Bind() elf.SymBind {
	return elf.ST_BIND(s.Info)
}

// SHN_X86_64_LCOMMON, tentative definitions under -mcmodel=large
const shnX86_64LCommon = 0xff02

// only meaningful for EM_X86_64 objects, the index is processor specific
func (s *Sym) IsLargeCommon() bool {
	return s.Shndx == shnX86_64LCommon
}

type ArHdr struct {
	Name [16]byte
	Date [12]byte
	Uid  [6]byte
	Gid  [6]byte
	Mode [8]byte
	Size [10]byte
	Fmag [2]byte
}

func (a *ArHdr) HasPrefix(s string) bool {
	return strings.HasPrefix(string(a.Name[:]), s)
}

func (a *ArHdr) IsStrTab() bool {
	return a.HasPrefix("// ")
}

func (a *ArHdr) IsSymtab() bool {
	return a.HasPrefix("/ ") || a.HasPrefix("/SYM64/ ")
}

func (a *ArHdr) GetSize() (int, error) {
	trimmed := strings.TrimSpace(string(a.Size[:]))
	return strconv.Atoi(trimmed)
}

func (a *ArHdr) ReadName(strTab []byte) (string, error) {
	// long name: "/123" is an offset into the "//" member
	if a.HasPrefix("/") {
		trimmed := strings.TrimSpace(string(a.Name[1:]))
		start, err := strconv.Atoi(trimmed)
		if err != nil {
			return "", err
		}
		if start < 0 || start >= len(strTab) {
			return "", fmt.Errorf("archive name offset %d out of range", start)
		}
		end := bytes.Index(strTab[start:], []byte("/\n"))
		if end < 0 {
			return "", fmt.Errorf("unterminated archive name at %d", start)
		}
		return string(strTab[start : start+end]), nil
	}
	// short name: "foo.o/"
	end := bytes.Index(a.Name[:], []byte("/"))
	if end < 0 {
		return strings.TrimSpace(string(a.Name[:])), nil
	}
	return string(a.Name[:end]), nil
}

func ElfGetName(strTab []byte, offset uint32) string {
	if int(offset) >= len(strTab) {
		return ""
	}
	length := bytes.IndexByte(strTab[offset:], 0)
	if length < 0 {
		return string(strTab[offset:])
	}
	return string(strTab[offset : int(offset)+length])
}
