package romloader

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"

	"github.com/nwaples/rardecode/v2"
)

// extractFromRAR extracts the first ROM file from in-memory RAR content
func extractFromRAR(data []byte, extensions []string) ([]byte, string, error) {
	r, err := rardecode.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to open rar: %w", err)
	}

	for {
		header, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, "", fmt.Errorf("failed to read rar entry: %w", err)
		}

		if header.IsDir {
			continue
		}
		if !isROMFile(header.Name, extensions) {
			continue
		}

		out, err := limitedRead(r)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s: %w", header.Name, err)
		}
		return out, filepath.Base(header.Name), nil
	}

	return nil, "", ErrNoROMFile
}
