package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FilePathValidator validates the files the client writes: the debug log
// and generated config files.
type FilePathValidator struct {
	// AllowedBaseDirs restricts writes to these directories. Empty allows all.
	AllowedBaseDirs    []string
	AllowHomeExpansion bool
	MaxPathLength      int
}

// NewFilePathValidator restricts writes to the application directories and
// the temp dir.
func NewFilePathValidator() *FilePathValidator {
	homeDir, _ := os.UserHomeDir()
	return &FilePathValidator{
		AllowedBaseDirs: []string{
			filepath.Join(homeDir, ".gamesearch"),
			filepath.Join(homeDir, ".config", "gamesearch"),
			os.TempDir(),
		},
		AllowHomeExpansion: true,
		MaxPathLength:      4096,
	}
}

func NewPermissiveFilePathValidator() *FilePathValidator {
	return &FilePathValidator{
		AllowHomeExpansion: true,
		MaxPathLength:      4096,
	}
}

// ValidateFile returns the cleaned absolute form of path, or an error when
// the path is unsafe, outside the allowed directories, or names a directory.
func (v *FilePathValidator) ValidateFile(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	if len(path) > v.MaxPathLength {
		return "", fmt.Errorf("path too long (max %d characters)", v.MaxPathLength)
	}
	if !IsPathSafe(path) {
		return "", fmt.Errorf("path contains null bytes or traversal sequences")
	}
	for _, char := range path {
		if char < 32 && char != '\t' {
			return "", fmt.Errorf("path contains control characters")
		}
	}

	normalized, err := v.normalizePath(path)
	if err != nil {
		return "", err
	}

	if err := v.validateBaseDirs(normalized); err != nil {
		return "", err
	}

	if info, err := os.Stat(normalized); err == nil && info.IsDir() {
		return "", fmt.Errorf("path is a directory, not a file: %s", normalized)
	}

	return normalized, nil
}

func (v *FilePathValidator) normalizePath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		if !v.AllowHomeExpansion || !strings.HasPrefix(path, "~/") {
			return "", fmt.Errorf("tilde expansion not allowed or invalid tilde usage")
		}
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("cannot make path absolute: %w", err)
	}
	return filepath.Clean(abs), nil
}

func (v *FilePathValidator) validateBaseDirs(path string) error {
	if len(v.AllowedBaseDirs) == 0 {
		return nil
	}

	for _, baseDir := range v.AllowedBaseDirs {
		absBaseDir, err := filepath.Abs(baseDir)
		if err != nil {
			continue
		}
		rel, err := filepath.Rel(absBaseDir, path)
		if err != nil {
			continue
		}
		if rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return nil
		}
	}

	return fmt.Errorf("path not within allowed directories: %v", v.AllowedBaseDirs)
}

// IsPathSafe performs a quick safety check on a path without full validation
func IsPathSafe(path string) bool {
	if strings.Contains(path, "\x00") {
		return false
	}
	if strings.Contains(path, "../") || strings.Contains(path, "..\\") {
		return false
	}
	return len(path) <= 4096
}
