// Package project provides utilities for working with the parts directory:
// locating it and reading the input files it holds.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ManifestFileName is the manifest looked for when discovering the root.
const ManifestFileName = "armparts.yaml"

// ErrInputNotFound is returned when a template, fragment or script is missing.
var ErrInputNotFound = errors.New("input not found")

// FindRoot finds the parts root by walking up from the working directory
// looking for armparts.yaml or go.mod.
func FindRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return FindRootFrom(cwd)
}

// FindRootFrom is FindRoot starting at dir.
func FindRootFrom(dir string) (string, error) {
	for {
		if _, err := os.Stat(filepath.Join(dir, ManifestFileName)); err == nil {
			return dir, nil
		}

		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("could not find parts root (looked for %s or go.mod)", ManifestFileName)
}

// ReadInput reads a whole input file. A missing file is reported as
// ErrInputNotFound wrapped with the path; other failures keep their cause.
func ReadInput(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// ResolvePath joins a manifest-relative path onto base. Absolute paths and
// empty strings are returned unchanged.
func ResolvePath(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
