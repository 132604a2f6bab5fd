package linker

import (
	"debug/elf"
	"fmt"

	"github.com/hcyang1106/linkres/pkg/utils"
)

type FileType uint8

const (
	FileTypeUnknown FileType = iota
	FileTypeEmpty
	FileTypeObject
	FileTypeArchive
)

func GetFileTypeFromContent(content []byte) FileType {
	if len(content) == 0 {
		return FileTypeEmpty
	}
	// only relocatable objects can be linked
	if CheckMagic(content) && len(content) >= EhdrSize {
		var elfType uint16
		if utils.Read[uint16](content[16:], &elfType) == nil &&
			elf.Type(elfType) == elf.ET_REL {
			return FileTypeObject
		}
	}

	if CheckArchiveMagic(content) {
		return FileTypeArchive
	}

	return FileTypeUnknown
}

func CheckFileCompatibility(ctx *Context, file *File) error {
	t := GetMachineTypeFromContent(file.Content)
	if ctx.Args.Machine != t {
		return fmt.Errorf("%s: %w: machine type %s, expected %s",
			file.Name, ErrBadObject, t, ctx.Args.Machine)
	}
	return nil
}
