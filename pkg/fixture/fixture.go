// Package fixture reads the //#Directive lines embedded in linker test
// sources and checks a finished link against them.
package fixture

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var ErrMissingSymbol = errors.New("expected symbol not defined")

type InputType uint8

const (
	InputObject InputType = iota + 1
	InputArchive
)

func (t InputType) String() string {
	switch t {
	case InputObject:
		return "Object"
	case InputArchive:
		return "Archive"
	}
	return fmt.Sprintf("InputType(%d)", uint8(t))
}

type CompArgs struct {
	Target string // empty applies to every target
	Flags  []string
}

type Fixture struct {
	Name       string
	CompArgs   []CompArgs
	InputTypes []InputType
	ExpectSyms []string
	Objects    []string
	LinkArgs   []string
}

// SymbolLookup is satisfied by the linker's global symbol table.
type SymbolLookup interface {
	IsDefined(name string) bool
}

func ParseFile(path string) (*Fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f, path)
}

func Parse(r io.Reader, name string) (*Fixture, error) {
	fx := &Fixture{Name: name}
	sc := bufio.NewScanner(r)
	lineno := 0
	for sc.Scan() {
		lineno++
		line := strings.TrimSpace(sc.Text())
		rest, ok := strings.CutPrefix(line, "//#")
		if !ok {
			continue
		}
		key, value, ok := strings.Cut(rest, ":")
		if !ok {
			return nil, fmt.Errorf("%s:%d: directive %q has no value", name, lineno, rest)
		}
		if err := fx.apply(strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", name, lineno, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(fx.InputTypes) == 0 {
		fx.InputTypes = []InputType{InputObject}
	}
	return fx, nil
}

func (fx *Fixture) apply(key, value string) error {
	switch key {
	case "CompArgs":
		fx.CompArgs = append(fx.CompArgs, parseCompArgs(value))
	case "InputType":
		for _, field := range strings.Split(value, ",") {
			switch strings.TrimSpace(field) {
			case "Object":
				fx.InputTypes = append(fx.InputTypes, InputObject)
			case "Archive":
				fx.InputTypes = append(fx.InputTypes, InputArchive)
			default:
				return fmt.Errorf("unknown input type %q", strings.TrimSpace(field))
			}
		}
	case "ExpectSym":
		if value == "" {
			return errors.New("ExpectSym needs a symbol name")
		}
		fx.ExpectSyms = append(fx.ExpectSyms, value)
	case "Object":
		fx.Objects = append(fx.Objects, value)
	case "LinkArgs":
		fx.LinkArgs = append(fx.LinkArgs, strings.Fields(value)...)
	default:
		return fmt.Errorf("unknown directive %q", key)
	}
	return nil
}

// "<target>:<flags>" or just "<flags>"
func parseCompArgs(value string) CompArgs {
	target, flags, ok := strings.Cut(value, ":")
	if !ok || target == "" || strings.HasPrefix(target, "-") || strings.ContainsAny(target, " \t") {
		return CompArgs{Flags: strings.Fields(value)}
	}
	return CompArgs{Target: target, Flags: strings.Fields(flags)}
}

// CompArgsFor collects the compiler flags that apply to target.
func (fx *Fixture) CompArgsFor(target string) []string {
	var flags []string
	for _, ca := range fx.CompArgs {
		if ca.Target == "" || ca.Target == target {
			flags = append(flags, ca.Flags...)
		}
	}
	return flags
}

func (fx *Fixture) HasInputType(t InputType) bool {
	for _, it := range fx.InputTypes {
		if it == t {
			return true
		}
	}
	return false
}

// Check reports every ExpectSym that the link left undefined.
func (fx *Fixture) Check(table SymbolLookup) error {
	var missing []string
	for _, name := range fx.ExpectSyms {
		if !table.IsDefined(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s: %w: %s", fx.Name, ErrMissingSymbol, strings.Join(missing, ", "))
	}
	return nil
}
