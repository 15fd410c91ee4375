package romloader

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// testExtensions is a common set of ROM extensions used across tests
var testExtensions = []string{".sms"}

// zipContent builds in-memory ZIP content holding one file
func zipContent(t *testing.T, romData []byte, romName string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	fw, err := w.Create(romName)
	if err != nil {
		t.Fatalf("Failed to create file in zip: %v", err)
	}
	if _, err := fw.Write(romData); err != nil {
		t.Fatalf("Failed to write to zip: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close zip: %v", err)
	}
	return buf.Bytes()
}

// gzipContent builds in-memory gzip content
func gzipContent(t *testing.T, romData []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write(romData); err != nil {
		t.Fatalf("Failed to write gzip: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("Failed to close gzip: %v", err)
	}
	return buf.Bytes()
}

// tarGzContent builds in-memory tar.gz content holding the given files
func tarGzContent(t *testing.T, files map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)
	for name, data := range files {
		hdr := &tar.Header{Name: name, Mode: 0644, Size: int64(len(data)), Typeflag: tar.TypeReg}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("Failed to write tar header: %v", err)
		}
		if _, err := tw.Write(data); err != nil {
			t.Fatalf("Failed to write tar entry: %v", err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("Failed to close tar: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("Failed to close gzip: %v", err)
	}
	return buf.Bytes()
}

func TestExtract_RawROM(t *testing.T) {
	romData := []byte{0x01, 0x02, 0x03, 0x04}

	data, name, err := Extract(romData, "game.sms", testExtensions)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if !bytes.Equal(data, romData) {
		t.Errorf("Data mismatch: got %v, want %v", data, romData)
	}
	if name != "game.sms" {
		t.Errorf("Name mismatch: got %q, want %q", name, "game.sms")
	}
}

func TestExtract_RawROMCaseInsensitive(t *testing.T) {
	romData := []byte{0xAA}
	_, name, err := Extract(romData, "GAME.SMS", testExtensions)
	if err != nil {
		t.Fatalf("Extract failed for uppercase extension: %v", err)
	}
	if name != "GAME.SMS" {
		t.Errorf("Name mismatch: got %q", name)
	}
}

func TestExtract_ZIP(t *testing.T) {
	romData := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	content := zipContent(t, romData, "nested/dir/game.sms")

	data, name, err := Extract(content, "anything.bin", testExtensions)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if !bytes.Equal(data, romData) {
		t.Errorf("Data mismatch: got %v, want %v", data, romData)
	}
	if name != "game.sms" {
		t.Errorf("Expected basename of zip entry, got %q", name)
	}
}

func TestExtract_ZIPNoMatch(t *testing.T) {
	content := zipContent(t, []byte("readme"), "readme.txt")

	_, _, err := Extract(content, "test.zip", testExtensions)
	if !errors.Is(err, ErrNoROMFile) {
		t.Errorf("Expected ErrNoROMFile, got %v", err)
	}
}

func TestExtract_Gzip(t *testing.T) {
	romData := []byte{0x11, 0x22, 0x33}
	content := gzipContent(t, romData)

	data, name, err := Extract(content, "game.sms.gz", testExtensions)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if !bytes.Equal(data, romData) {
		t.Errorf("Data mismatch: got %v, want %v", data, romData)
	}
	if name != "game.sms" {
		t.Errorf("Expected .gz suffix stripped, got %q", name)
	}
}

func TestExtract_TarGz(t *testing.T) {
	romData := []byte{0x42, 0x43}
	content := tarGzContent(t, map[string][]byte{
		"notes.txt": []byte("skip me"),
		"game.sms":  romData,
	})

	data, name, err := Extract(content, "bundle.tar.gz", testExtensions)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if !bytes.Equal(data, romData) {
		t.Errorf("Data mismatch: got %v, want %v", data, romData)
	}
	if name != "game.sms" {
		t.Errorf("Name mismatch: got %q", name)
	}
}

func TestExtract_UnsupportedFormat(t *testing.T) {
	_, _, err := Extract([]byte("plain text"), "notes.txt", testExtensions)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestExtract_MagicBeatsExtension(t *testing.T) {
	// ZIP content with a misleading .sms name still extracts as a ZIP.
	romData := []byte{0x99}
	content := zipContent(t, romData, "game.sms")

	data, _, err := Extract(content, "mislabeled.sms", testExtensions)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if !bytes.Equal(data, romData) {
		t.Errorf("Expected zip entry data, got %v", data)
	}
}

func TestLoad_FromDisk(t *testing.T) {
	romData := []byte{0x10, 0x20}
	path := filepath.Join(t.TempDir(), "game.sms")
	if err := os.WriteFile(path, romData, 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	data, name, err := Load(path, testExtensions)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !bytes.Equal(data, romData) {
		t.Errorf("Data mismatch: got %v, want %v", data, romData)
	}
	if name != "game.sms" {
		t.Errorf("Name mismatch: got %q", name)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, _, err := Load("/nonexistent/path/game.sms", testExtensions)
	if err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestDetectFormat(t *testing.T) {
	cases := []struct {
		desc string
		data []byte
		name string
		want formatType
	}{
		{"zip magic", []byte{0x50, 0x4B, 0x03, 0x04, 0x00}, "x.bin", formatZIP},
		{"empty zip magic", []byte{0x50, 0x4B, 0x05, 0x06}, "x.bin", formatZIP},
		{"7z magic", []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}, "x.bin", format7z},
		{"gzip magic", []byte{0x1F, 0x8B, 0x08}, "x.bin", formatGzip},
		{"rar magic", []byte{0x52, 0x61, 0x72, 0x21}, "x.bin", formatRAR},
		{"zip by name", []byte{0x00, 0x00, 0x00, 0x00}, "x.zip", formatZIP},
		{"raw by extension", []byte{0x00, 0x00}, "game.sms", formatRaw},
		{"unknown", []byte{0x00, 0x00}, "game.xyz", formatUnknown},
	}

	for _, c := range cases {
		if got := detectFormat(c.data, c.name, testExtensions); got != c.want {
			t.Errorf("%s: detectFormat = %v, want %v", c.desc, got, c.want)
		}
	}
}

func TestIsROMFile(t *testing.T) {
	if !isROMFile("dir/Game.SMS", []string{".sms"}) {
		t.Error("Expected case-insensitive extension match")
	}
	if isROMFile("game.gg", []string{".sms"}) {
		t.Error("Expected non-matching extension to be rejected")
	}
}
