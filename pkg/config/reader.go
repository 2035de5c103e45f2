package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jaspreet-dot-casa/armparts/pkg/project"
)

// Reader handles reading the build manifest.
type Reader struct {
	ProjectRoot string
}

// NewReader creates a new manifest reader.
func NewReader(projectRoot string) *Reader {
	return &Reader{ProjectRoot: projectRoot}
}

// ManifestPath returns where the manifest is expected.
func (r *Reader) ManifestPath() string {
	return filepath.Join(r.ProjectRoot, project.ManifestFileName)
}

// ReadAll loads armparts.yaml from the project root. When the file does not
// exist the default manifest is returned, rooted at the project root.
func (r *Reader) ReadAll() (*Manifest, error) {
	m, err := Load(r.ManifestPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			m = Default()
			m.SetDir(r.ProjectRoot)
			return m, nil
		}
		return nil, err
	}
	return m, nil
}

// Load reads a manifest file. Relative input paths resolve against the
// directory containing it.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve manifest directory: %w", err)
	}
	m.SetDir(dir)
	return m, nil
}

// Parse decodes manifest YAML and applies defaults.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	if m.Version == "" {
		m.Version = Version
	}
	if newerThanSupported(m.Version) {
		slog.Warn("manifest version is newer than supported", "version", m.Version, "supported", Version)
	}
	if m.SizeMapping == "" {
		m.SizeMapping = DefaultSizeMapping
	}
	for i := range m.Variants {
		v := &m.Variants[i]
		if v.Output == "" && v.Name != "" {
			v.Output = v.Name + ".json"
		}
	}

	return &m, nil
}

// newerThanSupported compares major.minor versions.
func newerThanSupported(v string) bool {
	fileMajor, fileMinor := parseVersion(v)
	currentMajor, currentMinor := parseVersion(Version)
	return fileMajor > currentMajor || (fileMajor == currentMajor && fileMinor > currentMinor)
}

// parseVersion extracts major and minor version numbers.
// Returns (0, 0) for invalid versions.
func parseVersion(v string) (major, minor int) {
	parts := strings.Split(v, ".")
	if len(parts) >= 1 {
		major, _ = strconv.Atoi(parts[0])
	}
	if len(parts) >= 2 {
		minor, _ = strconv.Atoi(parts[1])
	}
	return major, minor
}
