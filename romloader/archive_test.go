package romloader

import (
	"testing"
)

// TestExtractFromRAR_InvalidContent tests error handling for non-RAR bytes
func TestExtractFromRAR_InvalidContent(t *testing.T) {
	_, _, err := extractFromRAR([]byte("not a rar file"), testExtensions)
	if err == nil {
		t.Error("Expected error for invalid RAR content")
	}
}

// TestExtractFromRAR_Empty tests error handling for empty content
func TestExtractFromRAR_Empty(t *testing.T) {
	_, _, err := extractFromRAR(nil, testExtensions)
	if err == nil {
		t.Error("Expected error for empty RAR content")
	}
}

// TestExtractFrom7z_InvalidContent tests error handling for non-7z bytes
func TestExtractFrom7z_InvalidContent(t *testing.T) {
	_, _, err := extractFrom7z([]byte("not a 7z file"), testExtensions)
	if err == nil {
		t.Error("Expected error for invalid 7z content")
	}
}

// TestExtractFrom7z_Empty tests error handling for empty content
func TestExtractFrom7z_Empty(t *testing.T) {
	_, _, err := extractFrom7z(nil, testExtensions)
	if err == nil {
		t.Error("Expected error for empty 7z content")
	}
}
