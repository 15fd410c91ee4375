// Package assets manages the on-disk working set for a session: the
// program ROM, the battery save, and the suspend state. Assets live in
// a per-OS application data directory and can be seeded from a bundle
// filesystem compiled into the binary.
package assets

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"runtime"

	"github.com/KecklerHoch/LibRetroWrapper/romloader"
)

// Name identifies one asset inside a store.
type Name string

const (
	// ROM is the extracted program image the core boots from.
	ROM Name = "program.rom"
	// Save is the battery-backed cartridge RAM image.
	Save Name = "cart.srm"
	// State is the suspend snapshot written on session pause.
	State Name = "resume.state"
)

// Store is a directory of session assets. All operations are keyed by
// Name so callers never build paths themselves.
type Store struct {
	dir        string
	extensions []string
}

// NewStore opens the store in the per-OS application data directory.
// Example paths:
// - macOS: ~/Library/Application Support/<dataDirName>
// - Linux: ~/.local/share/<dataDirName>
// - Windows: %APPDATA%/<dataDirName>
func NewStore(dataDirName string, extensions []string) (*Store, error) {
	base, err := baseDir(dataDirName)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(base, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return NewStoreAt(base, extensions), nil
}

// NewStoreAt opens the store rooted at an explicit directory.
func NewStoreAt(dir string, extensions []string) *Store {
	return &Store{dir: dir, extensions: extensions}
}

// Dir returns the store's root directory.
func (s *Store) Dir() string { return s.dir }

// Path returns the on-disk path of an asset.
func (s *Store) Path(name Name) string {
	return filepath.Join(s.dir, string(name))
}

// Has reports whether the asset exists with non-zero size.
func (s *Store) Has(name Name) bool {
	info, err := os.Stat(s.Path(name))
	return err == nil && info.Mode().IsRegular() && info.Size() > 0
}

// Ensure materializes an asset from the bundle if it is not already on
// disk. Present assets are left untouched, so user progress survives
// bundle updates. Failures are logged and swallowed: a missing optional
// asset must not block session startup.
func (s *Store) Ensure(name Name, bundle fs.FS) {
	if s.Has(name) || bundle == nil {
		return
	}

	data, err := s.fromBundle(name, bundle)
	if err != nil {
		log.Printf("Asset %s not seeded from bundle: %v", name, err)
		return
	}
	if err := s.Write(name, data); err != nil {
		log.Printf("Failed to seed asset %s: %v", name, err)
	}
}

// fromBundle resolves an asset's content inside the bundle. The ROM may
// be bundled as an archive or under its original filename, so every
// bundle file is tried through the archive extractor. Other assets use
// their store name verbatim.
func (s *Store) fromBundle(name Name, bundle fs.FS) ([]byte, error) {
	if name != ROM {
		return fs.ReadFile(bundle, string(name))
	}

	entries, err := fs.Glob(bundle, "*")
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		raw, err := fs.ReadFile(bundle, entry)
		if err != nil {
			continue
		}
		data, _, err := romloader.Extract(raw, entry, s.extensions)
		if err == nil {
			return data, nil
		}
	}
	return nil, fmt.Errorf("no usable program image in bundle")
}

// Read returns the asset's content, or nil if it does not exist or
// cannot be read. Callers treat nil as "absent".
func (s *Store) Read(name Name) []byte {
	data, err := os.ReadFile(s.Path(name))
	if err != nil || len(data) == 0 {
		return nil
	}
	return data
}

// Write atomically replaces an asset: the content lands in a temp file
// first and is renamed over the target, so a crash mid-write never
// leaves a truncated save behind.
func (s *Store) Write(name Name, data []byte) error {
	path := s.Path(name)
	tempFile := path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Remove deletes an asset. Missing assets are not an error.
func (s *Store) Remove(name Name) error {
	err := os.Remove(s.Path(name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", name, err)
	}
	return nil
}

// baseDir returns the per-OS base directory for application data.
func baseDir(dataDirName string) (string, error) {
	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, "Library", "Application Support", dataDirName), nil
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", fmt.Errorf("APPDATA environment variable not set")
		}
		return filepath.Join(appData, dataDirName), nil
	default: // Linux and other Unix-like systems
		if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
			return filepath.Join(dataHome, dataDirName), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, ".local", "share", dataDirName), nil
	}
}
