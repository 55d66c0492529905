package vault

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/charlievieth/fastwalk"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Archive compression formats.
const (
	FormatGzip = "gzip"
	FormatZstd = "zstd"
)

// ArchiveExtension returns the file extension conventionally used for an
// archive in the given format.
func ArchiveExtension(format string) string {
	if format == FormatZstd {
		return ".tar.zst"
	}
	return ".tar.gz"
}

// Archive streams a compressed tar archive of the folder at path to w.
// Entry names are relative to the folder. An empty format means gzip.
func (v *Vault) Archive(ctx context.Context, path string, w io.Writer, format string) (err error) {
	defer v.observe(OpArchive, path, time.Now(), &err)

	if err := v.validate(OpArchive, path); err != nil {
		return err
	}

	if format == "" {
		format = FormatGzip
	}
	if format != FormatGzip && format != FormatZstd {
		return newError(OpArchive, path, ErrInvalidFormat, fmt.Errorf("unsupported archive format %q", format))
	}

	folder := v.resolve(path)
	if _, err := requireFolder(OpArchive, path, folder); err != nil {
		return err
	}

	// Nothing reaches w until the member list is known.
	members, err := collectMembers(ctx, folder)
	if err != nil {
		return newError(OpArchive, path, ErrInternal, err)
	}

	var compressor io.WriteCloser
	if format == FormatZstd {
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return newError(OpArchive, path, ErrInternal, err)
		}
		compressor = zw
	} else {
		compressor = gzip.NewWriter(w)
	}
	closed := false
	defer func() {
		if !closed {
			compressor.Close()
		}
	}()

	tw := tar.NewWriter(compressor)
	for _, member := range members {
		if err := ctx.Err(); err != nil {
			return newError(OpArchive, path, ErrInternal, err)
		}
		if err := writeMember(tw, folder, member); err != nil {
			return newError(OpArchive, path, ErrInternal, err)
		}
	}

	if err := tw.Close(); err != nil {
		return newError(OpArchive, path, ErrInternal, err)
	}
	closed = true
	if err := compressor.Close(); err != nil {
		return newError(OpArchive, path, ErrInternal, err)
	}
	return nil
}

// collectMembers gathers every path below folder in sorted order so the
// archive layout is deterministic despite the concurrent walk.
func collectMembers(ctx context.Context, folder string) ([]string, error) {
	var (
		mu      sync.Mutex
		members []string
	)

	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, folder, func(p string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			return err
		}
		if p == folder {
			return nil
		}
		mu.Lock()
		members = append(members, p)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(members)
	return members, nil
}

func writeMember(tw *tar.Writer, folder, member string) error {
	info, err := os.Lstat(member)
	if err != nil {
		return err
	}

	var link string
	if info.Mode()&fs.ModeSymlink != 0 {
		if link, err = os.Readlink(member); err != nil {
			return err
		}
	} else if !info.IsDir() && !info.Mode().IsRegular() {
		// Devices, sockets and pipes have no meaningful archive content.
		return nil
	}

	hdr, err := tar.FileInfoHeader(info, link)
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(folder, member)
	if err != nil {
		return err
	}
	hdr.Name = filepath.ToSlash(rel)
	if info.IsDir() {
		hdr.Name += "/"
	}

	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return nil
	}

	f, err := os.Open(member)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(tw, f)
	return err
}
