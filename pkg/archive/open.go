// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/klauspost/compress/gzip"
	"github.com/nlepage/go-tarfs"
)

// ErrUnpackedTooLarge is returned by Open when the decompressed stream exceeds the
// configured ceiling.
var ErrUnpackedTooLarge = errors.New("decompressed archive exceeds the size limit")

// ceilingReader fails once more than limit bytes have been read from r.
// A limit of zero or less disables the ceiling.
type ceilingReader struct {
	r        io.Reader
	limit    int64
	read     int64
	exceeded bool
}

func (c *ceilingReader) Read(p []byte) (int, error) {
	if c.exceeded {
		return 0, ErrUnpackedTooLarge
	}
	n, err := c.r.Read(p)
	c.read += int64(n)
	if c.limit > 0 && c.read > c.limit {
		c.exceeded = true
		return n, ErrUnpackedTooLarge
	}
	return n, err
}

// Open exposes a gzip-compressed tar archive as a read-only random-access filesystem.
// At most maxUnpacked bytes of decompressed data are read (no limit when <= 0).
// The whole stream is consumed so that gzip checksum errors surface here.
func Open(data []byte, maxUnpacked int64) (fs.FS, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("invalid gzip stream: %w", err)
	}
	defer zr.Close()

	cr := &ceilingReader{r: zr, limit: maxUnpacked}
	fsys, err := tarfs.New(cr)
	if cr.exceeded {
		return nil, fmt.Errorf("%w (%d bytes)", ErrUnpackedTooLarge, maxUnpacked)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid tar stream: %w", err)
	}

	if _, err := io.Copy(io.Discard, cr); err != nil {
		if cr.exceeded {
			return nil, fmt.Errorf("%w (%d bytes)", ErrUnpackedTooLarge, maxUnpacked)
		}
		return nil, fmt.Errorf("invalid gzip stream: %w", err)
	}
	return fsys, nil
}
