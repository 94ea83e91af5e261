// Package vfs exposes a directory tree extracted from a tar archive as a
// read-only filesystem rooted at a fixed host directory. Paths handed out
// by this package are host paths inside an afero.Fs; callers never leave
// the root through them.
package vfs

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

var (
	ErrOutsideRoot = errors.New("outside of filesystem root")
	ErrNotDir      = errors.New("not a directory")
)

type FS struct {
	fs     afero.Fs
	root   string
	sorted bool
}

type Option func(*FS)

// WithSortedListing orders List and Walk by name. When off, entries come in
// whatever order the underlying directory read yields.
func WithSortedListing(sorted bool) Option {
	return func(v *FS) {
		v.sorted = sorted
	}
}

func New(fs afero.Fs, root string, opts ...Option) *FS {
	v := &FS{
		fs:     fs,
		root:   filepath.Clean(root),
		sorted: true,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *FS) Root() string {
	return v.root
}

// Resolve maps target, as typed while at cwd, to a host path. Targets
// starting with "/" are taken from the root.
func (v *FS) Resolve(cwd, target string) (string, error) {
	var p string
	if strings.HasPrefix(target, "/") {
		p = filepath.Join(v.root, filepath.FromSlash(strings.TrimLeft(target, "/")))
	} else {
		p = filepath.Join(cwd, filepath.FromSlash(target))
	}
	if !v.Contains(p) {
		return "", errors.Wrapf(ErrOutsideRoot, "%s", target)
	}
	return p, nil
}

// Contains reports whether p is the root or one of its descendants.
func (v *FS) Contains(p string) bool {
	rel, err := filepath.Rel(v.root, filepath.Clean(p))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Dir resolves target like Resolve and checks that it is an existing
// directory.
func (v *FS) Dir(cwd, target string) (string, error) {
	p, err := v.Resolve(cwd, target)
	if err != nil {
		return "", err
	}
	if !v.IsDir(p) {
		return "", errors.Wrapf(ErrNotDir, "%s", target)
	}
	return p, nil
}

func (v *FS) IsDir(p string) bool {
	ok, err := afero.IsDir(v.fs, p)
	return err == nil && ok
}

// Virtual renders host path p the way a user inside the shell sees it.
func (v *FS) Virtual(p string) string {
	rel, err := filepath.Rel(v.root, p)
	if err != nil || rel == "." {
		return "/"
	}
	return "/" + filepath.ToSlash(rel)
}

// List returns the entries directly under p.
func (v *FS) List(p string) ([]os.FileInfo, error) {
	if v.sorted {
		infos, err := afero.ReadDir(v.fs, p)
		if err != nil {
			return nil, errors.Wrapf(err, "list %s", p)
		}
		return infos, nil
	}
	f, err := v.fs.Open(p)
	if err != nil {
		return nil, errors.Wrapf(err, "list %s", p)
	}
	defer f.Close()
	infos, err := f.Readdir(-1)
	if err != nil {
		return nil, errors.Wrapf(err, "list %s", p)
	}
	return infos, nil
}

// WalkFunc is called for every entry below the walked directory; depth is 0
// for its direct children.
type WalkFunc func(depth int, p string, info os.FileInfo) error

// Walk visits the tree under p depth-first, each directory right before its
// children, in List order.
func (v *FS) Walk(p string, fn WalkFunc) error {
	return v.walk(p, 0, fn)
}

func (v *FS) walk(p string, depth int, fn WalkFunc) error {
	infos, err := v.List(p)
	if err != nil {
		return err
	}
	for _, info := range infos {
		child := filepath.Join(p, info.Name())
		if err := fn(depth, child, info); err != nil {
			return err
		}
		if info.IsDir() {
			if err := v.walk(child, depth+1, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

func (v *FS) Exists(p string) bool {
	ok, err := afero.Exists(v.fs, p)
	return err == nil && ok
}
