package validation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewFilePathValidator(t *testing.T) {
	v := NewFilePathValidator()

	if len(v.AllowedBaseDirs) != 3 {
		t.Fatalf("Expected 3 allowed base dirs, got %d", len(v.AllowedBaseDirs))
	}
	if !strings.HasSuffix(v.AllowedBaseDirs[0], ".gamesearch") {
		t.Errorf("Expected first base dir to be ~/.gamesearch, got %s", v.AllowedBaseDirs[0])
	}
	if !v.AllowHomeExpansion {
		t.Error("Expected AllowHomeExpansion to be true")
	}
}

func TestValidateFile(t *testing.T) {
	tmpDir := t.TempDir()
	v := &FilePathValidator{
		AllowedBaseDirs:    []string{tmpDir},
		AllowHomeExpansion: true,
		MaxPathLength:      4096,
	}

	subDir := filepath.Join(tmpDir, "logs")
	if err := os.MkdirAll(subDir, 0o755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name        string
		path        string
		shouldError bool
		errorMsg    string
	}{
		{name: "file in allowed dir", path: filepath.Join(tmpDir, "gamesearch.log")},
		{name: "nested file", path: filepath.Join(subDir, "debug.log")},
		{name: "empty", path: "", shouldError: true, errorMsg: "cannot be empty"},
		{name: "traversal", path: tmpDir + "/../etc/passwd", shouldError: true, errorMsg: "traversal"},
		{name: "null byte", path: filepath.Join(tmpDir, "a\x00b"), shouldError: true, errorMsg: "null bytes"},
		{name: "control char", path: filepath.Join(tmpDir, "a\nb"), shouldError: true, errorMsg: "control characters"},
		{name: "outside allowed dirs", path: "/etc/gamesearch.log", shouldError: true, errorMsg: "not within allowed"},
		{name: "directory", path: subDir, shouldError: true, errorMsg: "is a directory"},
		{name: "bad tilde", path: "~root/x.log", shouldError: true, errorMsg: "tilde"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.ValidateFile(tt.path)
			if tt.shouldError {
				if err == nil {
					t.Fatalf("Expected error for %q, got %q", tt.path, got)
				}
				if !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("Expected error containing %q, got %q", tt.errorMsg, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !filepath.IsAbs(got) {
				t.Errorf("Expected absolute path, got %q", got)
			}
		})
	}
}

func TestValidateFile_HomeExpansion(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	v := NewPermissiveFilePathValidator()
	got, err := v.ValidateFile("~/.gamesearch/gamesearch.log")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	want := filepath.Join(home, ".gamesearch", "gamesearch.log")
	if got != want {
		t.Errorf("ValidateFile() = %q, want %q", got, want)
	}
}

func TestValidateFile_SiblingPrefixRejected(t *testing.T) {
	tmpDir := t.TempDir()
	v := &FilePathValidator{
		AllowedBaseDirs: []string{filepath.Join(tmpDir, "app")},
		MaxPathLength:   4096,
	}

	if _, err := v.ValidateFile(filepath.Join(tmpDir, "app-other", "x.log")); err == nil {
		t.Error("Expected sibling directory with shared prefix to be rejected")
	}
}

func TestIsPathSafe(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"/home/user/.gamesearch/gamesearch.log", true},
		{"relative/file.toml", true},
		{"../escape", false},
		{"..\\escape", false},
		{"nul\x00byte", false},
		{strings.Repeat("a", 5000), false},
	}

	for _, tt := range tests {
		if got := IsPathSafe(tt.path); got != tt.expected {
			t.Errorf("IsPathSafe(%q) = %v, want %v", tt.path, got, tt.expected)
		}
	}
}
