// Package picker models the image library / capture collaborator.
package picker

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/talkincode/bodega/internal/domain"
)

// Selection is a picked local file reference, or a cancellation.
type Selection struct {
	Ref      string
	Canceled bool
}

type Picker interface {
	Pick(ctx context.Context) (Selection, error)
}

// FilePicker picks files from a local library directory. Choose returns the
// name of the file to pick, or "" when the user backs out.
type FilePicker struct {
	Library string
	Choose  func(ctx context.Context, library string) string
}

var imageExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".webp": true, ".gif": true}

func (p *FilePicker) Pick(ctx context.Context) (Selection, error) {
	if err := ctx.Err(); err != nil {
		return Selection{Canceled: true}, nil
	}
	if _, err := os.ReadDir(p.Library); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return Selection{}, &domain.PermissionError{Resource: p.Library}
		}
		return Selection{}, &domain.IOError{Path: p.Library, Err: err}
	}
	name := ""
	if p.Choose != nil {
		name = strings.TrimSpace(p.Choose(ctx, p.Library))
	}
	if name == "" {
		return Selection{Canceled: true}, nil
	}
	ref := filepath.Join(p.Library, filepath.Base(name))
	if !imageExts[strings.ToLower(filepath.Ext(ref))] {
		return Selection{}, &domain.IOError{Path: ref, Err: errors.New("not an image file")}
	}
	return Selection{Ref: ref}, nil
}

// Static always returns the same selection; handy for scripted flows.
type Static Selection

func (s Static) Pick(context.Context) (Selection, error) {
	return Selection(s), nil
}
