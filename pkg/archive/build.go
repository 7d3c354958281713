// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"archive/tar"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Build creates a gzip-compressed tar archive from files. Relative paths are resolved
// against root and absolute paths must be inside it; each file is stored under its
// slash-separated path relative to root. Duplicate paths are added once and entries
// are written in sorted order.
//
// Any failure aborts the build; a partial archive is never returned.
func Build(root string, files []string) ([]byte, error) {
	names, err := entryNames(root, files)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip writer: %w", err)
	}
	tw := tar.NewWriter(zw)

	for _, name := range names {
		if err := addFile(tw, filepath.Join(root, filepath.FromSlash(name)), name); err != nil {
			return nil, err
		}
	}

	if err := tw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize tar stream: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish compression: %w", err)
	}
	return buf.Bytes(), nil
}

func entryNames(root string, files []string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", root, err)
	}

	seen := make(map[string]struct{}, len(files))
	names := make([]string, 0, len(files))
	for _, f := range files {
		rel := filepath.FromSlash(f)
		if filepath.IsAbs(rel) {
			if rel, err = filepath.Rel(absRoot, rel); err != nil {
				return nil, fmt.Errorf("failed to add %s: %w", f, err)
			}
		}
		rel = filepath.Clean(rel)
		if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return nil, fmt.Errorf("failed to add %s: path is outside of %s", f, root)
		}

		name := filepath.ToSlash(rel)
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

func addFile(tw *tar.Writer, path, name string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to add %s: %w", name, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to add %s: %w", name, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("failed to add %s: not a regular file", name)
	}

	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return fmt.Errorf("failed to add %s: %w", name, err)
	}
	hdr.Name = name
	hdr.Uid, hdr.Gid = 0, 0
	hdr.Uname, hdr.Gname = "", ""

	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("failed to add %s: %w", name, err)
	}
	// CopyN guards against the file growing between Stat and Copy.
	if _, err := io.CopyN(tw, f, info.Size()); err != nil {
		return fmt.Errorf("failed to add %s: %w", name, err)
	}
	return nil
}
