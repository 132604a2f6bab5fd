package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/hcyang1106/linkres/pkg/config"
	"github.com/hcyang1106/linkres/pkg/fixture"
	"github.com/hcyang1106/linkres/pkg/linker"
	"github.com/hcyang1106/linkres/pkg/utils"
)

var version string

type options struct {
	printMap bool
	expect   string
	entry    string
}

// errors are fatal here, the linker package only returns them
func main() {
	cfg, err := config.FromEnv()
	utils.MustNo(err)

	ctx := linker.NewContext()
	ctx.Args.ImageBase = cfg.ImageBase
	ctx.Args.PageSize = cfg.PageSize
	ctx.Args.Jobs = cfg.Jobs
	ctx.Logger = newLogger(cfg, os.Stderr)

	// remaining holds object files and -l libraries
	opts, remaining := parseArgs(ctx)
	if len(remaining) == 0 {
		utils.Fatal("no input files")
	}
	ctx.Args.Undefined = append(ctx.Args.Undefined, opts.entry)

	// without -m, take the machine of the first object
	if ctx.Args.Machine == linker.MachineTypeNone {
		for _, filename := range remaining {
			if strings.HasPrefix(filename, "-") {
				continue
			}
			file, err := linker.NewFile(filename)
			utils.MustNo(err)
			if mType := linker.GetMachineTypeFromContent(file.Content); mType != linker.MachineTypeNone {
				ctx.Args.Machine = mType
				break
			}
		}
	}
	if ctx.Args.Machine == linker.MachineTypeNone {
		utils.Fatal("unknown emulation type")
	}

	utils.MustNo(linker.ReadInputFiles(ctx, remaining))
	ctx.Logger.Info("inputs read", slog.Int("objects", len(ctx.Objs)))

	utils.MustNo(linker.Link(ctx))
	ctx.Logger.Info("link done",
		slog.Int("objects", len(ctx.Objs)),
		slog.Int("symbols", ctx.Symbols.Len()),
		slog.Int("sections", len(ctx.MergedSections)))

	utils.MustNo(os.WriteFile(ctx.Args.Output, ctx.Buf, 0o644))

	if ctx.Args.MapFile != "" {
		f, err := os.Create(ctx.Args.MapFile)
		utils.MustNo(err)
		utils.MustNo(linker.WriteSymbolMap(ctx, f))
		utils.MustNo(f.Close())
	}
	if opts.printMap {
		utils.MustNo(linker.WriteSymbolMap(ctx, os.Stdout))
	}

	if opts.expect != "" {
		fx, err := fixture.ParseFile(opts.expect)
		utils.MustNo(err)
		utils.MustNo(fx.Check(ctx.Symbols))
	}
}

func newLogger(cfg config.Config, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	hopts := &slog.HandlerOptions{Level: level}
	if cfg.LogJSON {
		return slog.New(slog.NewJSONHandler(w, hopts))
	}
	return slog.New(slog.NewTextHandler(w, hopts))
}

func parseArgs(ctx *linker.Context) (options, []string) {
	args := os.Args[1:]
	opts := options{entry: "_start"}

	// "-o a.out", "-o=a.out", "--output=a.out"
	arg := ""
	readArg := func(name string) bool {
		for _, opt := range utils.AddDashes(name) {
			if args[0] == opt {
				if len(args) == 1 {
					utils.Fatal(fmt.Sprintf("option -%s: argument missing", name))
				}
				arg = args[1]
				args = args[2:]
				return true
			}

			prefix := opt
			if len(name) > 1 {
				prefix += "="
			}
			if strings.HasPrefix(args[0], prefix) {
				arg = args[0][len(prefix):]
				args = args[1:]
				return true
			}
		}
		return false
	}

	readFlag := func(name string) bool {
		for _, opt := range utils.AddDashes(name) {
			if args[0] == opt {
				args = args[1:]
				return true
			}
		}
		return false
	}

	remaining := make([]string, 0)
	for len(args) > 0 {
		if readFlag("help") {
			fmt.Printf("usage: %s [options] file...\n", os.Args[0])
			os.Exit(0)
		}

		if readArg("output") || readArg("o") {
			ctx.Args.Output = arg
		} else if readFlag("v") || readFlag("version") {
			fmt.Printf("linkres %s\n", version)
			os.Exit(0)
		} else if readArg("m") {
			ctx.Args.Machine = linker.GetMachineTypeFromEmulation(arg)
			if ctx.Args.Machine == linker.MachineTypeNone {
				utils.Fatal(fmt.Sprintf("unknown -m argument: %s", arg))
			}
		} else if readArg("L") {
			ctx.Args.LibraryPaths = append(ctx.Args.LibraryPaths, filepath.Clean(arg))
		} else if readArg("l") {
			remaining = append(remaining, "-l"+arg)
		} else if readArg("undefined") || readArg("u") {
			ctx.Args.Undefined = append(ctx.Args.Undefined, arg)
		} else if readArg("expect") {
			opts.expect = arg
		} else if readArg("entry") || readArg("e") {
			opts.entry = arg
		} else if readArg("Map") {
			ctx.Args.MapFile = arg
		} else if readFlag("print-map") || readFlag("M") {
			opts.printMap = true
		} else if readArg("sysroot") ||
			readFlag("static") ||
			readArg("plugin") ||
			readArg("plugin-opt") ||
			readFlag("as-needed") ||
			readFlag("start-group") ||
			readFlag("end-group") ||
			readArg("hash-style") ||
			readArg("build-id") ||
			readFlag("s") ||
			readFlag("no-relax") {
			// ignored
		} else {
			if args[0][0] == '-' {
				utils.Fatal(fmt.Sprintf("unknown command line option: %s", args[0]))
			}
			remaining = append(remaining, args[0])
			args = args[1:]
		}
	}

	return opts, remaining
}
