package linker

import (
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/hcyang1106/linkres/pkg/utils"
)

// ReadInputFiles parses every object and archive on the link line.
// Parsing is independent per file and runs in parallel; the results
// are appended to ctx.Objs in link-line order.
func ReadInputFiles(ctx *Context, remaining []string) error {
	files := make([]*File, len(remaining))
	for i, arg := range remaining {
		var err error
		if name, ok := utils.RemovePrefix(arg, "-l"); ok {
			files[i], err = FindLibrary(ctx, name)
		} else {
			files[i], err = NewFile(arg)
		}
		if err != nil {
			return err
		}
	}

	parsed := make([][]*ObjectFile, len(files))
	g := errgroup.Group{}
	if ctx.Args.Jobs > 0 {
		g.SetLimit(ctx.Args.Jobs)
	}
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			objs, err := ReadFile(ctx, file)
			parsed[i] = objs
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, objs := range parsed {
		for _, obj := range objs {
			ctx.AddObjectFile(obj)
		}
	}
	return nil
}

// ReadFile must not touch shared Context state, it runs concurrently.
func ReadFile(ctx *Context, file *File) ([]*ObjectFile, error) {
	switch GetFileTypeFromContent(file.Content) {
	case FileTypeObject:
		obj, err := CreateObjectFile(ctx, file, false)
		if err != nil {
			return nil, err
		}
		return []*ObjectFile{obj}, nil
	case FileTypeArchive:
		members, err := ReadArchiveMembers(file)
		if err != nil {
			return nil, err
		}
		objs := make([]*ObjectFile, 0, len(members))
		for _, child := range members {
			if GetFileTypeFromContent(child.Content) != FileTypeObject {
				ctx.Logger.Debug("skipping archive member", slog.String("member", child.DisplayName()))
				continue
			}
			obj, err := CreateObjectFile(ctx, child, true)
			if err != nil {
				return nil, err
			}
			objs = append(objs, obj)
		}
		return objs, nil
	case FileTypeEmpty:
		return nil, nil
	}
	return nil, fmt.Errorf("%s: %w: unknown file type", file.Name, ErrBadObject)
}

func CreateObjectFile(ctx *Context, file *File, inLib bool) (*ObjectFile, error) {
	if err := CheckFileCompatibility(ctx, file); err != nil {
		return nil, err
	}
	return ParseObjectFile(file, !inLib)
}
