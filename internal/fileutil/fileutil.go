// Package fileutil provides file helpers shared by samples, converters and reports.
// Paths ending in ".xz" are transparently decompressed on Open and compressed on Create.
package fileutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
)

// XZExt is the suffix that marks xz-compressed files.
const XZExt = ".xz"

// IsCompressed reports whether path names an xz-compressed file.
func IsCompressed(path string) bool {
	return strings.HasSuffix(path, XZExt)
}

// TrimCompression strips the compression suffix from path, if any.
func TrimCompression(path string) string {
	return strings.TrimSuffix(path, XZExt)
}

// Open opens path for reading, decompressing xz content when the name ends in ".xz".
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !IsCompressed(path) {
		return f, nil
	}
	r, err := xz.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create xz reader for %s: %w", path, err)
	}
	return &xzReadCloser{Reader: r, file: f}, nil
}

// Create creates path (and its parent directories) for writing, compressing
// with xz when the name ends in ".xz". Close must be called to flush.
func Create(path string) (io.WriteCloser, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if !IsCompressed(path) {
		return f, nil
	}
	w, err := xz.NewWriter(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create xz writer for %s: %w", path, err)
	}
	return &xzWriteCloser{Writer: w, file: f}, nil
}

// CopyFile copies src to dst, creating parent directories. Compressed sources
// are decompressed, so dst always holds plain content.
func CopyFile(src, dst string) error {
	in, err := Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return out.Close()
}

type xzReadCloser struct {
	*xz.Reader
	file *os.File
}

func (r *xzReadCloser) Close() error { return r.file.Close() }

type xzWriteCloser struct {
	*xz.Writer
	file *os.File
}

func (w *xzWriteCloser) Close() error {
	if err := w.Writer.Close(); err != nil {
		_ = w.file.Close()
		return err
	}
	return w.file.Close()
}
