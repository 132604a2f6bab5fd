package linker

import (
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/hcyang1106/linkres/pkg/utils"
)

// Link runs every resolution pass over the objects already in ctx.
// Collection (liveness, binning, declaration gathering) completes
// before any name is decided.
func Link(ctx *Context) error {
	MarkLiveObjects(ctx)
	ClearUnusedFiles(ctx)
	BinSections(ctx)

	ResolveSymbols(ctx)
	SynthesizeBoundarySymbols(ctx)
	ResolveCommonSymbols(ctx)
	ComputeSectionSizes(ctx)
	if err := FinalizeSymbols(ctx); err != nil {
		return err
	}

	fileSize := SetOutputSectionOffsets(ctx)
	WriteImage(ctx, fileSize)
	return nil
}

// MarkLiveObjects pulls in archive members that define a name some
// live object references and nothing live defines yet.
func MarkLiveObjects(ctx *Context) {
	definers := make(map[string]*ObjectFile)
	liveDefs := make(map[string]bool)
	for _, file := range ctx.Objs {
		for _, d := range file.Symbols {
			if !d.Binding.IsDefinition() {
				continue
			}
			if file.IsAlive {
				liveDefs[d.Name] = true
			} else if _, ok := definers[d.Name]; !ok {
				definers[d.Name] = file
			}
		}
	}

	roots := make([]*ObjectFile, 0)
	for _, file := range ctx.Objs {
		if file.IsAlive {
			roots = append(roots, file)
		}
	}

	extract := func(name string, by string) {
		if liveDefs[name] {
			return
		}
		file, ok := definers[name]
		if !ok || file.IsAlive {
			return
		}
		file.IsAlive = true
		for _, d := range file.Symbols {
			if d.Binding.IsDefinition() {
				liveDefs[d.Name] = true
			}
		}
		ctx.Logger.Debug("extracting archive member",
			slog.String("member", file.DisplayName()),
			slog.String("symbol", name),
			slog.String("needed_by", by))
		roots = append(roots, file)
	}

	for _, name := range ctx.Args.Undefined {
		extract(name, "command line")
	}
	for len(roots) > 0 {
		file := roots[0]
		for _, d := range file.Symbols {
			if d.Binding == BindingUndefined {
				extract(d.Name, file.DisplayName())
			}
		}
		roots = roots[1:]
	}
}

func ClearUnusedFiles(ctx *Context) {
	ctx.Objs = slices.DeleteFunc(ctx.Objs, func(file *ObjectFile) bool {
		return !file.IsAlive
	})
}

func BinSections(ctx *Context) {
	for _, file := range ctx.Objs {
		for _, isec := range file.InputSections {
			GetMergedSection(ctx, isec.Name).AddMember(isec)
		}
	}
}

func ComputeSectionSizes(ctx *Context) {
	for _, osec := range ctx.MergedSections {
		osec.AssignOffsets()
	}
}

// ResolveSymbols gathers every declaration first, then settles the
// names that have a user definition: one strong definition wins,
// otherwise the first weak one in input order.
func ResolveSymbols(ctx *Context) {
	for _, file := range ctx.Objs {
		for _, d := range file.Symbols {
			ctx.Symbols.addDecl(d)
		}
	}

	for _, name := range ctx.Symbols.Names {
		sym := ctx.Symbols.SymbolMap[name]
		slices.SortStableFunc(sym.Decls, compareDecls)

		strong := sym.declsOf(BindingStrong)
		if len(strong) > 1 {
			sym.setState(StateDuplicateDefinition)
			continue
		}
		if len(strong) == 1 {
			sym.resolveTo(strong[0])
			continue
		}
		if weak := sym.declsOf(BindingWeak); len(weak) > 0 {
			sym.resolveTo(weak[0])
		}
	}
}

// FinalizeSymbols moves every still-open name to a terminal state and
// reports all fatal ones at once.
func FinalizeSymbols(ctx *Context) error {
	var errs []*SymbolError
	for _, name := range ctx.Symbols.Names {
		sym := ctx.Symbols.SymbolMap[name]
		switch sym.State {
		case StateDuplicateDefinition:
			errs = append(errs, &SymbolError{
				Kind:  ErrDuplicateDefinition,
				Name:  name,
				Sites: declSites(sym.declsOf(BindingStrong)),
			})
		case StateDeclared:
			if sym.hasStrongReference() {
				sym.setState(StateUnresolved)
				errs = append(errs, &SymbolError{
					Kind:  ErrUndefinedSymbol,
					Name:  name,
					Sites: declSites(sym.declsOf(BindingUndefined)),
				})
				continue
			}
			sym.setState(StateSentinel)
			sym.Binding = BindingWeakUndefined
			ctx.Logger.Debug("undefined weak symbol", slog.String("symbol", name))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	slices.SortFunc(errs, func(a, b *SymbolError) int {
		return strings.Compare(a.Name, b.Name)
	})
	joined := make([]error, len(errs))
	for i, err := range errs {
		joined[i] = err
	}
	return errors.Join(joined...)
}

func declSites(decls []*SymbolDecl) []string {
	sites := make([]string, len(decls))
	for i, d := range decls {
		sites[i] = d.String()
	}
	return sites
}

// merged sections are placed in first-seen order; returns the image size
func SetOutputSectionOffsets(ctx *Context) uint64 {
	base := utils.AlignTo(ctx.Args.ImageBase, ctx.Args.PageSize)
	addr := base
	for _, osec := range ctx.MergedSections {
		addr = utils.AlignTo(addr, osec.Shdr.AddrAlign)
		osec.Shdr.Addr = addr
		osec.Shdr.Offset = addr - base
		addr += osec.Shdr.Size
	}
	return addr - base
}

func WriteImage(ctx *Context, fileSize uint64) {
	ctx.Buf = make([]byte, fileSize)
	for _, osec := range ctx.MergedSections {
		osec.CopyBuf(ctx)
	}
}

// ImageSlice returns the image bytes backing [addr, addr+size).
func ImageSlice(ctx *Context, addr, size uint64) ([]byte, bool) {
	base := utils.AlignTo(ctx.Args.ImageBase, ctx.Args.PageSize)
	if addr < base || addr-base > uint64(len(ctx.Buf)) {
		return nil, false
	}
	off := addr - base
	if size > uint64(len(ctx.Buf))-off {
		return nil, false
	}
	return ctx.Buf[off : off+size : off+size], true
}
