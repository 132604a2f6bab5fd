package linker

import (
	"bytes"
)

var (
	elfMagic     = []byte("\177ELF")
	archiveMagic = []byte("!<arch>\n")
)

func CheckMagic(content []byte) bool {
	return bytes.HasPrefix(content, elfMagic)
}

func CheckArchiveMagic(content []byte) bool {
	return bytes.HasPrefix(content, archiveMagic)
}

func WriteMagic(dst []byte) {
	copy(dst, elfMagic)
}
