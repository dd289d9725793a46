package gateways

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestVerifyChecksum tests SHA256 checksum verification
func TestVerifyChecksum(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "project.zip")

	if err := os.WriteFile(testFile, []byte("Hello, World!"), 0600); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	const sum = "dffd6021bb2bd5b0af676290809ec3a53191dd81c7f70a4b28688a362182986f"
	verifier := NewChecksumVerifier()

	tests := []struct {
		name     string
		path     string
		expected string
		wantErr  string
	}{
		{name: "valid checksum", path: testFile, expected: sum},
		{name: "uppercase with prefix", path: testFile, expected: "sha256:" + strings.ToUpper(sum)},
		{name: "mismatch", path: testFile, expected: strings.Repeat("0", 64), wantErr: "checksum mismatch"},
		{name: "non-existent file", path: filepath.Join(tmpDir, "missing"), expected: sum, wantErr: "failed to open file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := verifier.VerifyChecksum(tt.path, tt.expected)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("VerifyChecksum() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("VerifyChecksum() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

// TestCalculateChecksum tests SHA256 checksum calculation
func TestCalculateChecksum(t *testing.T) {
	tests := []struct {
		name         string
		content      []byte
		wantChecksum string
	}{
		{
			name:         "empty file",
			content:      []byte(""),
			wantChecksum: "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
		{
			name:         "simple content",
			content:      []byte("Hello, World!"),
			wantChecksum: "dffd6021bb2bd5b0af676290809ec3a53191dd81c7f70a4b28688a362182986f",
		},
	}

	verifier := NewChecksumVerifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "file")
			if err := os.WriteFile(path, tt.content, 0600); err != nil {
				t.Fatalf("Failed to create test file: %v", err)
			}

			got, err := verifier.CalculateChecksum(path)
			if err != nil {
				t.Fatalf("CalculateChecksum() error = %v", err)
			}
			if got != tt.wantChecksum {
				t.Errorf("CalculateChecksum() = %s, want %s", got, tt.wantChecksum)
			}
		})
	}
}
