package linker

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// WriteSymbolMap prints the merged section layout followed by every
// global symbol in name order.
func WriteSymbolMap(ctx *Context, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)

	fmt.Fprintln(tw, "SECTION\tADDR\tSIZE\tALIGN\tMEMBER")
	for _, osec := range ctx.MergedSections {
		shdr := osec.GetShdr()
		fmt.Fprintf(tw, "%s\t0x%x\t0x%x\t%d\t\n", osec.GetName(), shdr.Addr, shdr.Size, shdr.AddrAlign)
		for _, isec := range osec.Members {
			fmt.Fprintf(tw, "\t0x%x\t0x%x\t%d\t%s\n",
				isec.GetAddr(), isec.Size, isec.Align(), isec.File.DisplayName())
		}
	}

	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "SYMBOL\tSTATE\tBINDING\tADDR\tSIZE\tSITE")
	for _, name := range ctx.Symbols.SortedNames() {
		sym := ctx.Symbols.SymbolMap[name]
		fmt.Fprintf(tw, "%s\t%s\t%s\t0x%x\t%d\t%s\n",
			name, sym.State, sym.Binding, sym.GetAddr(), sym.Size, sym.site())
	}
	return tw.Flush()
}
