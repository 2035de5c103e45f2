// Package utils holds name checks used by the manifest validator.
package utils

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// MaxVariantNameLength is the maximum length for a variant name.
	MaxVariantNameLength = 64
)

// validVariantNamePattern matches alphanumerics, dots, hyphens and underscores.
var validVariantNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._\-]*$`)

// ValidateVariantName validates a manifest variant name.
func ValidateVariantName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("variant name cannot be empty")
	}

	if utf8.RuneCountInString(name) > MaxVariantNameLength {
		return fmt.Errorf("variant name cannot exceed %d characters", MaxVariantNameLength)
	}

	// Check for path traversal attempts before regex check
	if strings.Contains(name, "..") || strings.Contains(name, "/") || strings.Contains(name, "\\") {
		return fmt.Errorf("variant name contains invalid characters")
	}

	if !validVariantNamePattern.MatchString(name) {
		return fmt.Errorf("variant name can only contain letters, numbers, dots, hyphens, and underscores")
	}

	return nil
}

// ValidateOutputName checks that an output document name is a plain file
// name inside the output directory.
func ValidateOutputName(name string) error {
	if name == "" {
		return fmt.Errorf("output name cannot be empty")
	}
	if name != filepath.Base(name) || name == "." || name == ".." || strings.Contains(name, "\\") {
		return fmt.Errorf("output name must be a file name, not a path")
	}
	return nil
}
