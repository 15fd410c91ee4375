package romloader

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/bodgit/sevenzip"
)

// extractFrom7z extracts the first ROM file from in-memory 7z content
func extractFrom7z(data []byte, extensions []string) ([]byte, string, error) {
	r, err := sevenzip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, "", fmt.Errorf("failed to open 7z: %w", err)
	}

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if !isROMFile(f.Name, extensions) {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, "", fmt.Errorf("failed to open %s in archive: %w", f.Name, err)
		}
		defer rc.Close()

		out, err := limitedRead(rc)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s: %w", f.Name, err)
		}
		return out, filepath.Base(f.Name), nil
	}

	return nil, "", ErrNoROMFile
}
