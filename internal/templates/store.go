package templates

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
)

//go:embed builtin
var builtin embed.FS

// DefaultTarget is the built-in set used when none is configured.
const DefaultTarget = "csharp"

// FSStore serves templates from Dir inside FS, one file per template named <name><Ext>.
type FSStore struct {
	FS  fs.FS
	Dir string
	Ext string
}

// Open implements Store.
func (s FSStore) Open(name string) (io.ReadCloser, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, &NotFoundError{Name: name}
	}
	ext := s.Ext
	if ext == "" {
		ext = Ext
	}
	p := name + ext
	if s.Dir != "" {
		p = path.Join(s.Dir, p)
	}
	f, err := s.FS.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Name: name}
		}
		return nil, fmt.Errorf("open template %q: %w", name, err)
	}
	return f, nil
}

// Targets lists the built-in template sets.
func Targets() []string {
	entries, err := builtin.ReadDir("builtin")
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out
}

// Embedded returns the built-in set for target. An empty target selects DefaultTarget.
func Embedded(target string) (Store, error) {
	if target == "" {
		target = DefaultTarget
	}
	dir := path.Join("builtin", target)
	if info, err := fs.Stat(builtin, dir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("unknown template target %q (available: %s)", target, strings.Join(Targets(), ", "))
	}
	return FSStore{FS: builtin, Dir: dir, Ext: Ext}, nil
}

// Dir serves templates from a directory on disk.
func Dir(dir string) Store {
	return FSStore{FS: os.DirFS(dir), Ext: Ext}
}

// Layered tries each store in order and falls through only on a missing template.
type Layered []Store

// Open implements Store.
func (l Layered) Open(name string) (io.ReadCloser, error) {
	for _, s := range l {
		rc, err := s.Open(name)
		if errors.Is(err, ErrTemplateNotFound) {
			continue
		}
		return rc, err
	}
	return nil, &NotFoundError{Name: name}
}
