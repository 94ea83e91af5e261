package vfs

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Neev4n/vfs-shell/internal/vfs/vfstest"
)

func newTestFS(t *testing.T, opts ...Option) *FS {
	t.Helper()
	fs := afero.NewMemMapFs()
	archive := vfstest.Tar(t,
		vfstest.Dir("root"),
		vfstest.File("root/readme.txt", "hello"),
		vfstest.Dir("root/docs"),
		vfstest.File("root/docs/guide.md", "guide"),
		vfstest.Dir("root/docs/api"),
		vfstest.File("root/docs/api/v1.md", "v1"),
		vfstest.Dir("root/bin"),
	)
	_, err := Extract(context.Background(), fs, bytes.NewReader(archive), "/vfs")
	require.NoError(t, err)
	return New(fs, "/vfs/root", opts...)
}

func TestFS_Resolve(t *testing.T) {
	v := newTestFS(t)

	tests := []struct {
		name        string
		cwd         string
		target      string
		expected    string
		expectedErr error
	}{
		{name: "root", cwd: "/vfs/root/docs", target: "/", expected: "/vfs/root"},
		{name: "absolute", cwd: "/vfs/root/docs/api", target: "/bin", expected: "/vfs/root/bin"},
		{name: "relative", cwd: "/vfs/root", target: "docs/api", expected: "/vfs/root/docs/api"},
		{name: "parent", cwd: "/vfs/root/docs", target: "..", expected: "/vfs/root"},
		{name: "dot", cwd: "/vfs/root/docs", target: ".", expected: "/vfs/root/docs"},
		{name: "above root", cwd: "/vfs/root", target: "..", expectedErr: ErrOutsideRoot},
		{name: "absolute above root", cwd: "/vfs/root", target: "/../..", expectedErr: ErrOutsideRoot},
		{name: "sibling of root", cwd: "/vfs/root", target: "../rootx", expectedErr: ErrOutsideRoot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := v.Resolve(tt.cwd, tt.target)
			if tt.expectedErr != nil {
				assert.True(t, errors.Is(err, tt.expectedErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, p)
		})
	}
}

func TestFS_Dir(t *testing.T) {
	v := newTestFS(t)

	p, err := v.Dir("/vfs/root", "docs")
	require.NoError(t, err)
	assert.Equal(t, "/vfs/root/docs", p)

	_, err = v.Dir("/vfs/root", "readme.txt")
	assert.True(t, errors.Is(err, ErrNotDir))

	_, err = v.Dir("/vfs/root", "missing")
	assert.True(t, errors.Is(err, ErrNotDir))
	assert.Contains(t, err.Error(), "missing")
}

func TestFS_Virtual(t *testing.T) {
	v := newTestFS(t)
	assert.Equal(t, "/", v.Virtual("/vfs/root"))
	assert.Equal(t, "/docs/api", v.Virtual("/vfs/root/docs/api"))
}

func TestFS_List(t *testing.T) {
	v := newTestFS(t)

	infos, err := v.List("/vfs/root")
	require.NoError(t, err)
	assert.Equal(t, []string{"bin", "docs", "readme.txt"}, names(infos))

	_, err = v.List("/vfs/root/missing")
	assert.Error(t, err)
}

func TestFS_ListUnsorted(t *testing.T) {
	v := newTestFS(t, WithSortedListing(false))

	infos, err := v.List("/vfs/root")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"bin", "docs", "readme.txt"}, names(infos))
}

func TestFS_Walk(t *testing.T) {
	v := newTestFS(t)

	var lines []string
	err := v.Walk("/vfs/root", func(depth int, p string, info os.FileInfo) error {
		lines = append(lines, strings.Repeat("  ", depth)+info.Name())
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"bin",
		"docs",
		"  api",
		"    v1.md",
		"  guide.md",
		"readme.txt",
	}, lines)
}

func TestFS_WalkStops(t *testing.T) {
	v := newTestFS(t)
	stop := errors.New("stop")

	count := 0
	err := v.Walk("/vfs/root", func(depth int, p string, info os.FileInfo) error {
		count++
		return stop
	})
	assert.Equal(t, stop, err)
	assert.Equal(t, 1, count)
}

func names(infos []os.FileInfo) []string {
	out := make([]string, len(infos))
	for i, info := range infos {
		out[i] = info.Name()
	}
	return out
}
