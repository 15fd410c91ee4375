package romloader

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// extractFromGzip extracts the first ROM file from gzip or tar.gz content
func extractFromGzip(data []byte, name string, extensions []string) ([]byte, string, error) {
	gr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gr.Close()

	// Check if this is a tar.gz or just a .gz
	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, ".tar.gz") || strings.HasSuffix(lower, ".tgz") {
		return extractFromTar(gr, extensions)
	}

	// Plain .gz - assume the decompressed content is the ROM.
	// Use the base name without the .gz extension.
	out, err := limitedRead(gr)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decompress gzip: %w", err)
	}

	base := filepath.Base(name)
	if strings.HasSuffix(strings.ToLower(base), ".gz") {
		base = base[:len(base)-3]
	}
	return out, base, nil
}

// extractFromTar extracts the first ROM file from a tar stream
func extractFromTar(r io.Reader, extensions []string) ([]byte, string, error) {
	tr := tar.NewReader(r)

	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, "", fmt.Errorf("failed to read tar entry: %w", err)
		}

		if header.Typeflag != tar.TypeReg {
			continue
		}
		if !isROMFile(header.Name, extensions) {
			continue
		}

		out, err := limitedRead(tr)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s from tar: %w", header.Name, err)
		}
		return out, filepath.Base(header.Name), nil
	}

	return nil, "", ErrNoROMFile
}
