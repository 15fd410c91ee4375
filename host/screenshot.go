package host

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.design/x/clipboard"
)

// screenshotSaver writes PNG captures to the screenshots directory and
// mirrors them onto the system clipboard when one is available.
type screenshotSaver struct {
	dir             string
	clipboardInited bool
	clipboardFailed bool
}

func newScreenshotSaver(baseDir string) *screenshotSaver {
	return &screenshotSaver{dir: filepath.Join(baseDir, "screenshots")}
}

// save captures the screen. Unix timestamp filenames, silent capture.
func (m *screenshotSaver) save(screen *ebiten.Image) error {
	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return fmt.Errorf("failed to create screenshot directory: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, screen); err != nil {
		return fmt.Errorf("failed to encode screenshot: %w", err)
	}

	filename := fmt.Sprintf("%d.png", time.Now().Unix())
	path := filepath.Join(m.dir, filename)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write screenshot: %w", err)
	}

	m.copyToClipboard(buf.Bytes())
	return nil
}

// copyToClipboard is best-effort; some environments have no clipboard.
func (m *screenshotSaver) copyToClipboard(pngData []byte) {
	if m.clipboardFailed {
		return
	}
	// Initialize clipboard on first use
	if !m.clipboardInited {
		if err := clipboard.Init(); err != nil {
			m.clipboardFailed = true
			return
		}
		m.clipboardInited = true
	}
	clipboard.Write(clipboard.FmtImage, pngData)
}
