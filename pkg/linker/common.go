package linker

import (
	"debug/elf"
	"log/slog"
)

// ResolveCommonSymbols gives every name that is still open and has a
// tentative definition one zero-filled .bss allocation: the largest
// declared size, the largest declared alignment. Equal sizes keep the
// first declaration in input order.
func ResolveCommonSymbols(ctx *Context) {
	for _, name := range ctx.Symbols.Names {
		sym := ctx.Symbols.SymbolMap[name]
		if sym.State.IsTerminal() {
			continue
		}
		commons := sym.declsOf(BindingCommon)
		if len(commons) == 0 {
			continue
		}

		winner := commons[0]
		align := uint64(1)
		mismatch := false
		for _, d := range commons {
			if d.Size != winner.Size {
				mismatch = true
			}
			if d.Size > winner.Size {
				winner = d
			}
			align = max(align, d.Align)
		}
		if mismatch {
			ctx.Logger.Debug("common symbol size mismatch",
				slog.String("symbol", name),
				slog.Uint64("size", winner.Size),
				slog.String("chosen", winner.String()))
		}

		isec := allocateCommon(ctx, winner.Size, align)
		sym.resolveTo(winner)
		sym.SetInputSection(isec)
		sym.Value = 0
		sym.Size = winner.Size
	}
}

// each allocation is its own input section, so the merger keeps it
// disjoint from everything else in .bss
func allocateCommon(ctx *Context, size, align uint64) *InputSection {
	internal := ctx.CreateInternalFile()
	isec := internal.AddSection(".bss", elf.SHT_NOBITS,
		elf.SHF_ALLOC|elf.SHF_WRITE, align, nil, size)
	GetMergedSection(ctx, isec.Name).AddMember(isec)
	return isec
}
