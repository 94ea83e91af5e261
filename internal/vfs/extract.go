package vfs

import (
	"archive/tar"
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/Neev4n/vfs-shell/internal/debug"
)

var (
	// ErrUnsafePath is returned for absolute archive entries and for
	// entries that would land outside the extraction directory.
	ErrUnsafePath = errors.New("archive entry escapes destination")
	// ErrTruncated is returned when the stream ends without the two zero
	// blocks that close a tar archive.
	ErrTruncated = errors.New("archive truncated")
)

// trailerSize is the length of the end-of-archive marker.
const trailerSize = 2 * 512

var gzipMagic = []byte{0x1f, 0x8b}

// Summary describes what Extract wrote.
type Summary struct {
	Files   int
	Dirs    int
	Skipped int
	Bytes   int64
	// TopLevel holds the distinct first path elements of the archive, in
	// archive order.
	TopLevel []string
}

func (s *Summary) String() string {
	return humanize.Comma(int64(s.Files)) + " files, " +
		humanize.Comma(int64(s.Dirs)) + " dirs, " +
		humanize.Bytes(uint64(s.Bytes))
}

func (s *Summary) addTop(name string) {
	for _, t := range s.TopLevel {
		if t == name {
			return
		}
	}
	s.TopLevel = append(s.TopLevel, name)
}

// ExtractFile opens archive on fs and extracts it into dest.
func ExtractFile(ctx context.Context, fs afero.Fs, archive, dest string) (*Summary, error) {
	f, err := fs.Open(archive)
	if err != nil {
		return nil, errors.Wrapf(err, "open archive %s", archive)
	}
	defer f.Close()

	summary, err := Extract(ctx, fs, f, dest)
	if err != nil {
		return nil, errors.Wrapf(err, "extract %s", archive)
	}
	return summary, nil
}

// Extract writes every directory and regular file of the tar stream r
// (optionally gzip-compressed) under dest. Other entry types are skipped.
func Extract(ctx context.Context, fs afero.Fs, r io.Reader, dest string) (*Summary, error) {
	br := bufio.NewReader(r)
	var src io.Reader = br
	if magic, err := br.Peek(len(gzipMagic)); err == nil && bytes.Equal(magic, gzipMagic) {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, errors.Wrap(err, "open gzip stream")
		}
		defer zr.Close()
		src = zr
	}

	if err := fs.MkdirAll(dest, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create %s", dest)
	}

	tail := &zeroTail{r: src}
	summary := &Summary{}
	tr := tar.NewReader(tail)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		hdr, err := tr.Next()
		if err == io.EOF {
			if tail.zeros < trailerSize {
				return nil, ErrTruncated
			}
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "read archive")
		}

		rel, err := entryPath(hdr.Name)
		if err != nil {
			return nil, err
		}
		if rel == "." {
			continue
		}
		target := filepath.Join(dest, filepath.FromSlash(rel))

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := fs.MkdirAll(target, 0o755); err != nil {
				return nil, errors.Wrapf(err, "create %s", target)
			}
			summary.Dirs++
		case tar.TypeReg:
			n, err := writeFile(fs, target, tr)
			if err != nil {
				return nil, err
			}
			summary.Files++
			summary.Bytes += n
		default:
			debug.DPrintf(debug.VFS, "skip %s (type %q)", hdr.Name, hdr.Typeflag)
			summary.Skipped++
			continue
		}
		summary.addTop(strings.SplitN(rel, "/", 2)[0])
	}

	debug.DPrintf(debug.VFS, "extracted into %s: %v", dest, summary)
	return summary, nil
}

// zeroTail counts the zero bytes at the end of what has been read so far.
// tar.Reader treats a stream ending on a block boundary as a clean end, so
// the trailer has to be checked separately.
type zeroTail struct {
	r     io.Reader
	zeros int64
}

func (z *zeroTail) Read(p []byte) (int, error) {
	n, err := z.r.Read(p)
	i := n
	for i > 0 && p[i-1] == 0 {
		i--
	}
	if i == 0 {
		z.zeros += int64(n)
	} else {
		z.zeros = int64(n - i)
	}
	return n, err
}

// entryPath cleans an archive name into a slash-separated path relative to
// the destination. Absolute names and ".." escapes are rejected.
func entryPath(name string) (string, error) {
	slashed := filepath.ToSlash(name)
	if path.IsAbs(slashed) {
		return "", errors.Wrapf(ErrUnsafePath, "%s", name)
	}
	rel := path.Clean(slashed)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", errors.Wrapf(ErrUnsafePath, "%s", name)
	}
	return rel, nil
}

func writeFile(fs afero.Fs, target string, r io.Reader) (int64, error) {
	if err := fs.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return 0, errors.Wrapf(err, "create %s", filepath.Dir(target))
	}
	out, err := fs.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, errors.Wrapf(err, "create %s", target)
	}
	n, err := io.Copy(out, r)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, errors.Wrapf(err, "write %s", target)
	}
	return n, nil
}

// DetectRoot picks the shell root inside dest. A non-empty rootDir wins;
// otherwise an archive with a single top-level directory is rooted there,
// and anything else is rooted at dest itself.
func DetectRoot(fs afero.Fs, dest, rootDir string, summary *Summary) (string, error) {
	if rootDir != "" {
		root := filepath.Join(dest, filepath.FromSlash(rootDir))
		if ok, _ := afero.IsDir(fs, root); !ok {
			return "", errors.Wrapf(ErrNotDir, "root %s", root)
		}
		return root, nil
	}
	if summary != nil && len(summary.TopLevel) == 1 {
		root := filepath.Join(dest, summary.TopLevel[0])
		if ok, _ := afero.IsDir(fs, root); ok {
			return root, nil
		}
	}
	return filepath.Clean(dest), nil
}
