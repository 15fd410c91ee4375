// Package romloader turns user-supplied files into raw ROM images. It
// auto-detects compressed archives (ZIP, 7z, gzip, tar.gz, RAR) by
// magic bytes and pulls out the first entry matching the core's
// extensions. Everything operates on in-memory bytes so the same path
// serves files on disk and assets bundled into the binary.
package romloader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Magic bytes for format detection
var (
	magicZIP    = []byte{0x50, 0x4B, 0x03, 0x04}
	magicZIPEnd = []byte{0x50, 0x4B, 0x05, 0x06} // empty zip
	magic7z     = []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}
	magicGzip   = []byte{0x1F, 0x8B}
	magicRAR    = []byte{0x52, 0x61, 0x72, 0x21} // "Rar!"
)

// Maximum ROM size (64MB safety limit, generous for cartridge systems)
const maxROMSize = 64 * 1024 * 1024

// ErrNoROMFile is returned when no ROM file is found in an archive
var ErrNoROMFile = errors.New("no ROM file found in archive")

// ErrUnsupportedFormat is returned for unrecognized file formats
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ErrFileTooLarge is returned when extracted content exceeds size limit
var ErrFileTooLarge = errors.New("file exceeds maximum size limit")

// formatType represents the detected file format
type formatType int

const (
	formatUnknown formatType = iota
	formatRaw
	formatZIP
	format7z
	formatGzip
	formatRAR
)

// Extract resolves in-memory content to a ROM image. Archives are
// detected by magic bytes and searched for the first entry with one of
// the given extensions; raw content is accepted as-is when name carries
// a matching extension.
//
// Returns the ROM data, the entry's filename (basename only, useful for
// display), and any error.
func Extract(data []byte, name string, extensions []string) ([]byte, string, error) {
	if len(data) > maxROMSize {
		return nil, "", ErrFileTooLarge
	}

	switch detectFormat(data, name, extensions) {
	case formatRaw:
		return data, filepath.Base(name), nil

	case formatZIP:
		return extractFromZIP(data, extensions)

	case format7z:
		return extractFrom7z(data, extensions)

	case formatGzip:
		return extractFromGzip(data, name, extensions)

	case formatRAR:
		return extractFromRAR(data, extensions)

	default:
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
}

// Load reads a ROM from a file path and resolves it through Extract.
func Load(path string, extensions []string) ([]byte, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	data, err := limitedRead(f)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Extract(data, path, extensions)
}

// detectFormat determines the content format based on magic bytes and,
// as a fallback, the filename. The extensions parameter lists valid ROM
// file extensions (e.g. []string{".sms"}).
func detectFormat(data []byte, name string, extensions []string) formatType {
	if len(data) >= 4 {
		if bytes.HasPrefix(data, magicZIP) || bytes.HasPrefix(data, magicZIPEnd) {
			return formatZIP
		}
		if bytes.HasPrefix(data, magicRAR) {
			return formatRAR
		}
	}
	if len(data) >= 6 && bytes.HasPrefix(data, magic7z) {
		return format7z
	}
	if len(data) >= 2 && bytes.HasPrefix(data, magicGzip) {
		return formatGzip
	}

	// Fall back to the filename for archive formats
	lower := strings.ToLower(name)
	switch filepath.Ext(lower) {
	case ".zip":
		return formatZIP
	case ".7z":
		return format7z
	case ".gz", ".tgz":
		return formatGzip
	case ".rar":
		return formatRAR
	}

	if isROMFile(lower, extensions) {
		return formatRaw
	}

	return formatUnknown
}

// isROMFile checks if a filename has one of the given ROM extensions (case-insensitive)
func isROMFile(name string, extensions []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range extensions {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// limitedRead reads from r up to maxROMSize bytes, returning an error if exceeded
func limitedRead(r io.Reader) ([]byte, error) {
	lr := io.LimitReader(r, maxROMSize+1)
	data, err := io.ReadAll(lr)
	if err != nil {
		return nil, err
	}
	if len(data) > maxROMSize {
		return nil, ErrFileTooLarge
	}
	return data, nil
}
