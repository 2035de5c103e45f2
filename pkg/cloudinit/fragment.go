// Package cloudinit builds the #cloud-config write_files documents that
// carry provisioning scripts into ARM custom data.
package cloudinit

import (
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jaspreet-dot-casa/armparts/pkg/payload"
)

const (
	// Header is the first line cloud-init requires on user data.
	Header = "#cloud-config"

	// DestinationDir is where every written file lands on the VM.
	DestinationDir = "/opt/azure/containers"

	// Permissions is the mode given to every written file.
	Permissions = "0744"

	// Encoding is the write_files encoding of every entry.
	Encoding = "gzip"
)

// writeFileBlock renders one write_files entry. The base64 payload is a
// single line indented under the !!binary block scalar.
const writeFileBlock = ` -  encoding: %s
    content: !!binary |
        %s
    path: %s
    permissions: "%s"
`

// Entry is one file to be written by cloud-init.
type Entry struct {
	Payload     *payload.Payload
	Path        string
	Permissions string
}

// Destination returns the on-VM path for a source file.
func Destination(sourcePath string) string {
	return DestinationDir + "/" + filepath.Base(sourcePath)
}

// BuildEntries encodes each path, in order, into an Entry.
func BuildEntries(paths []string) ([]Entry, error) {
	entries := make([]Entry, 0, len(paths))
	for _, path := range paths {
		p, err := payload.EncodeFile(path)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{
			Payload:     p,
			Path:        Destination(path),
			Permissions: Permissions,
		})
	}
	return entries, nil
}

// Render writes the entries under a single #cloud-config header.
func Render(entries []Entry) string {
	var b strings.Builder
	b.WriteString(Header)
	b.WriteString("\n\nwrite_files:\n")
	for _, e := range entries {
		fmt.Fprintf(&b, writeFileBlock, Encoding, e.Payload.Text, e.Path, e.Permissions)
	}
	b.WriteString("\n")
	return b.String()
}

// BuildFragment encodes the given scripts and renders their write_files
// document. Two inputs sharing a base name produce two entries with the same
// destination; callers validate that beforehand.
func BuildFragment(paths []string) (string, error) {
	entries, err := BuildEntries(paths)
	if err != nil {
		return "", err
	}
	return Render(entries), nil
}

// Config is the decoded form of a fragment.
type Config struct {
	WriteFiles []WriteFile `yaml:"write_files"`
}

// WriteFile is a decoded write_files entry. Content holds the gzip bytes,
// already base64-decoded by the YAML !!binary tag.
type WriteFile struct {
	Encoding    string `yaml:"encoding"`
	Content     string `yaml:"content"`
	Path        string `yaml:"path"`
	Permissions string `yaml:"permissions"`
}

// Script returns the decompressed file content.
func (w WriteFile) Script() ([]byte, error) {
	if w.Encoding != Encoding {
		return []byte(w.Content), nil
	}
	return payload.Decompress([]byte(w.Content))
}

// ParseFragment decodes a rendered fragment.
func ParseFragment(text string) (*Config, error) {
	if !strings.HasPrefix(text, Header) {
		return nil, fmt.Errorf("fragment does not start with %s", Header)
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(text), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse fragment: %w", err)
	}
	return &cfg, nil
}
