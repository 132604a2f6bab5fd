package linker

import (
	"github.com/hcyang1106/linkres/pkg/utils"
)

func ReadArchiveMembers(file *File) ([]*File, error) {
	if !CheckArchiveMagic(file.Content) {
		return nil, badObject(file, "not an archive")
	}

	pos := len(archiveMagic)
	var strTab []byte
	var files []*File
	// members are 2-byte aligned
	for len(file.Content)-pos > 1 {
		if pos%2 == 1 {
			pos++
		}
		if len(file.Content)-pos < AhdrSize {
			return nil, badObject(file, "truncated archive member header at %d", pos)
		}

		hdr := ArHdr{}
		if err := utils.Read[ArHdr](file.Content[pos:], &hdr); err != nil {
			return nil, badObject(file, "%v", err)
		}
		size, err := hdr.GetSize()
		if err != nil || size < 0 {
			return nil, badObject(file, "bad archive member size at %d", pos)
		}
		dataStart := pos + AhdrSize
		pos = dataStart + size
		if pos > len(file.Content) {
			return nil, badObject(file, "archive member at %d exceeds file length", dataStart)
		}
		content := file.Content[dataStart:pos]

		if hdr.IsSymtab() {
			continue
		}
		if hdr.IsStrTab() {
			strTab = content
			continue
		}

		name, err := hdr.ReadName(strTab)
		if err != nil {
			return nil, badObject(file, "%v", err)
		}
		files = append(files, &File{
			Name:    name,
			Content: content,
			Parent:  file,
		})
	}

	return files, nil
}
