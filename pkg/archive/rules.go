// SPDX-License-Identifier: MPL-2.0

package archive

import "github.com/dustin/go-humanize"

const (
	// DefaultMaxCompressedSize is the largest accepted archive, in bytes.
	DefaultMaxCompressedSize = 5 * humanize.MByte
	// DefaultMaxEntrySize is the largest accepted file inside an archive, in bytes.
	DefaultMaxEntrySize = 5 * humanize.MByte
	// DefaultMaxUnpackedSize caps how much decompressed data is read from an archive.
	DefaultMaxUnpackedSize = 64 * humanize.MByte

	// LibEntryPoint is the entry point of a library package.
	LibEntryPoint = "lib.ua"
	// MainEntryPoint is the entry point of a runnable package.
	MainEntryPoint = "main.ua"
)

// Rules configure Validate. Zero size limits disable the corresponding check.
// ExpectedName and ExpectedVersion, when set, must match the embedded manifest.
type Rules struct {
	MaxCompressedSize int64
	MaxEntrySize      int64
	MaxUnpackedSize   int64
	ExpectedName      string
	ExpectedVersion   string
}

// DefaultRules returns the limits enforced by the registry.
func DefaultRules() Rules {
	return Rules{
		MaxCompressedSize: DefaultMaxCompressedSize,
		MaxEntrySize:      DefaultMaxEntrySize,
		MaxUnpackedSize:   DefaultMaxUnpackedSize,
	}
}

// WithExpectations returns a copy of r that also checks the manifest name and version.
func (r Rules) WithExpectations(name, version string) Rules {
	r.ExpectedName = name
	r.ExpectedVersion = version
	return r
}
