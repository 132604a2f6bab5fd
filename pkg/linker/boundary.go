package linker

import (
	"log/slog"
	"strings"
)

type boundary struct {
	section string
	atEnd   bool
	builtin bool
}

var builtinBoundaries = map[string]boundary{
	"__init_array_start":    {section: ".init_array", builtin: true},
	"__init_array_end":      {section: ".init_array", atEnd: true, builtin: true},
	"__fini_array_start":    {section: ".fini_array", builtin: true},
	"__fini_array_end":      {section: ".fini_array", atEnd: true, builtin: true},
	"__preinit_array_start": {section: ".preinit_array", builtin: true},
	"__preinit_array_end":   {section: ".preinit_array", atEnd: true, builtin: true},
}

func parseBoundarySymbol(name string) (boundary, bool) {
	if b, ok := builtinBoundaries[name]; ok {
		return b, true
	}
	if section, ok := strings.CutPrefix(name, "__start_"); ok && IsCIdentifier(section) {
		return boundary{section: section}, true
	}
	if section, ok := strings.CutPrefix(name, "__stop_"); ok && IsCIdentifier(section) {
		return boundary{section: section, atEnd: true}, true
	}
	return boundary{}, false
}

// only sections named like C identifiers get __start_/__stop_ symbols
func IsCIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

type boundaryRequest struct {
	sym *Symbol
	boundary
}

// SynthesizeBoundarySymbols binds every referenced, still-open boundary
// name to the start or end of its merged section. A user definition of
// the same name always wins. With no such section, weak references and
// the builtin array symbols become the absent sentinel; strong ones are
// left for FinalizeSymbols to report.
func SynthesizeBoundarySymbols(ctx *Context) {
	var requests []boundaryRequest
	for _, name := range ctx.Symbols.Names {
		sym := ctx.Symbols.SymbolMap[name]
		if !sym.hasReference() {
			continue
		}
		if b, ok := parseBoundarySymbol(name); ok {
			requests = append(requests, boundaryRequest{sym: sym, boundary: b})
		}
	}

	for _, req := range requests {
		sym := req.sym
		if sym.State.IsTerminal() {
			if sym.State == StateResolved {
				ctx.Logger.Debug("linker-defined symbol overridden",
					slog.String("symbol", sym.Name),
					slog.String("by", sym.Winner.String()))
			}
			continue
		}

		if osec := FindMergedSection(ctx, req.section); osec != nil {
			sym.setState(StateSynthesized)
			sym.Binding = BindingStrong
			sym.SetOutputSection(osec, req.atEnd)
			continue
		}

		// a tentative definition still outranks the sentinel
		if len(sym.declsOf(BindingCommon)) > 0 {
			continue
		}
		if req.builtin || !sym.hasStrongReference() {
			sym.setState(StateSentinel)
			sym.Binding = BindingWeakUndefined
			ctx.Logger.Debug("boundary symbol of absent section",
				slog.String("symbol", sym.Name),
				slog.String("section", req.section))
		}
	}
}
