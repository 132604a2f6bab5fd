package linker

import (
	"fmt"
	"os"
	"path/filepath"
)

type File struct {
	Name    string
	Content []byte
	Parent  *File // set for archive members
}

func NewFile(filename string) (*File, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return &File{
		Name:    filename,
		Content: content,
	}, nil
}

func OpenLibrary(path string) *File {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	return &File{
		Name:    path,
		Content: content,
	}
}

// searches -L directories in order for lib<name>.a
func FindLibrary(ctx *Context, name string) (*File, error) {
	for _, dir := range ctx.Args.LibraryPaths {
		stem := filepath.Join(dir, "lib"+name+".a")
		if f := OpenLibrary(stem); f != nil {
			return f, nil
		}
	}
	return nil, fmt.Errorf("-l%s: %w", name, ErrLibraryNotFound)
}

// "lib.a(member.o)" for archive members
func (f *File) DisplayName() string {
	if f.Parent != nil {
		return fmt.Sprintf("%s(%s)", f.Parent.Name, f.Name)
	}
	return f.Name
}
