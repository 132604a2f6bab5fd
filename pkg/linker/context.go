package linker

import (
	"io"
	"log/slog"
)

type Args struct {
	Output       string
	MapFile      string
	Machine      MachineType
	LibraryPaths []string
	Undefined    []string // extra roots for archive extraction (-u, entry)
	ImageBase    uint64
	PageSize     uint64
	Jobs         int
}

type Context struct {
	Args   Args
	Logger *slog.Logger

	Objs           []*ObjectFile
	InternalObj    *ObjectFile // owns the COMMON allocations
	MergedSections []*MergedSection
	Symbols        *SymbolTable

	Buf []byte
}

func NewContext() *Context {
	return &Context{
		Args: Args{
			Output:    "a.out",
			ImageBase: 0x400000,
			PageSize:  4096,
			Jobs:      4,
		},
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Symbols: NewSymbolTable(),
	}
}

// AddObjectFile appends obj to the link line, after everything added so far.
func (ctx *Context) AddObjectFile(obj *ObjectFile) {
	obj.Priority = len(ctx.Objs) + 1
	ctx.Objs = append(ctx.Objs, obj)
}

// the internal file sorts after every input
func (ctx *Context) CreateInternalFile() *ObjectFile {
	if ctx.InternalObj == nil {
		obj := NewObjectFile(&File{Name: "<internal>"}, true)
		obj.Priority = len(ctx.Objs) + 1
		ctx.InternalObj = obj
	}
	return ctx.InternalObj
}
