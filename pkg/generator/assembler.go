// Package generator assembles ARM templates from a base template, fragment
// templates and provisioning scripts.
package generator

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jaspreet-dot-casa/armparts/pkg/cloudinit"
	"github.com/jaspreet-dot-casa/armparts/pkg/payload"
	"github.com/jaspreet-dot-casa/armparts/pkg/project"
)

// DumpSuffix is appended to the dump of a template that failed validation.
const DumpSuffix = ".err"

// Inputs names the files one document is assembled from. Optional paths are
// left empty when the variant does not use them.
type Inputs struct {
	BaseTemplate  string
	SizeMapping   string
	ClusterScript string
	ExtraFiles    []string

	JumpboxTemplate    string
	LinuxJumpboxScript string

	WindowsAgentScript  string
	DiagnosticsTemplate string

	// DumpPath overrides where unparseable output is written. Defaults to
	// BaseTemplate + DumpSuffix.
	DumpPath string
}

// dumpPath returns where a failed assembly is written.
func (in *Inputs) dumpPath() string {
	if in.DumpPath != "" {
		return in.DumpPath
	}
	return in.BaseTemplate + DumpSuffix
}

// EmbeddedFile describes a script carried by the document.
type EmbeddedFile struct {
	Marker      Marker
	Source      string
	Destination string
	Size        int
	EncodedSize int
}

// Document is an assembled template that parsed as JSON.
type Document struct {
	Template string
	Text     string
	Files    []EmbeddedFile
}

// WriteFile writes the document to path, creating parent directories.
func (d *Document) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(d.Text), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Assembler builds documents.
type Assembler struct {
	logger *slog.Logger
}

// NewAssembler creates an Assembler logging to logger. A nil logger uses
// slog.Default().
func NewAssembler(logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{logger: logger}
}

// Assemble builds one document with the default logger.
func Assemble(in *Inputs) (*Document, error) {
	return NewAssembler(nil).Assemble(in)
}

// Assemble reads the inputs, substitutes every marker and checks the result
// is JSON. When it is not, the substituted text is written next to the base
// template (see Inputs.DumpPath) and a *ValidationError is returned.
func (a *Assembler) Assemble(in *Inputs) (*Document, error) {
	if in.BaseTemplate == "" {
		return nil, fmt.Errorf("base template is required")
	}
	if in.ClusterScript == "" {
		return nil, fmt.Errorf("cluster script is required")
	}

	base, err := project.ReadInput(in.BaseTemplate)
	if err != nil {
		return nil, err
	}

	doc := &Document{Template: in.BaseTemplate}
	values := NewPlaceholders()

	if in.SizeMapping == "" {
		return nil, fmt.Errorf("size mapping fragment is required")
	}
	sizeMapping, err := project.ReadInput(in.SizeMapping)
	if err != nil {
		return nil, err
	}
	if err := values.Set(MarkerSizeMapping, string(sizeMapping)); err != nil {
		return nil, err
	}

	clusterFiles := append([]string{in.ClusterScript}, in.ExtraFiles...)
	clusterYaml, err := a.writeFilesFragment(doc, MarkerClusterInstallYaml, clusterFiles)
	if err != nil {
		return nil, err
	}
	if err := values.Set(MarkerClusterInstallYaml, clusterYaml); err != nil {
		return nil, err
	}

	if in.JumpboxTemplate != "" {
		jumpbox, err := project.ReadInput(in.JumpboxTemplate)
		if err != nil {
			return nil, err
		}
		if err := values.Set(MarkerJumpboxFragment, string(jumpbox)); err != nil {
			return nil, err
		}
		if err := values.Set(MarkerJumpboxFQDN, JumpboxFQDNExpression); err != nil {
			return nil, err
		}

		if in.LinuxJumpboxScript != "" {
			linuxYaml, err := a.writeFilesFragment(doc, MarkerJumpboxLinuxYaml, []string{in.LinuxJumpboxScript})
			if err != nil {
				return nil, err
			}
			if err := values.Set(MarkerJumpboxLinuxYaml, linuxYaml); err != nil {
				return nil, err
			}
		}
	} else if in.LinuxJumpboxScript != "" {
		a.logger.Warn("linux jumpbox script ignored without a jumpbox template",
			"template", in.BaseTemplate, "script", in.LinuxJumpboxScript)
	}

	if in.WindowsAgentScript != "" {
		p, err := payload.EncodeFile(in.WindowsAgentScript)
		if err != nil {
			return nil, err
		}
		doc.Files = append(doc.Files, EmbeddedFile{
			Marker:      MarkerWindowsAgentCustomData,
			Source:      in.WindowsAgentScript,
			Size:        len(p.Compressed),
			EncodedSize: len(p.Text),
		})
		if err := values.Set(MarkerWindowsAgentCustomData, p.Text); err != nil {
			return nil, err
		}
	}

	if in.DiagnosticsTemplate != "" {
		diagnostics, err := project.ReadInput(in.DiagnosticsTemplate)
		if err != nil {
			return nil, err
		}
		if err := values.Set(MarkerWindowsDiagnosticsExtension, string(diagnostics)); err != nil {
			return nil, err
		}
	}

	text, err := Substitute(string(base), values)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", in.BaseTemplate, err)
	}

	if err := checkJSON(text); err != nil {
		return nil, a.dump(in, text, err)
	}

	doc.Text = text
	a.logger.Debug("assembled template", "template", in.BaseTemplate, "bytes", len(text), "files", len(doc.Files))
	return doc, nil
}

// writeFilesFragment builds and flattens the write_files document for paths.
func (a *Assembler) writeFilesFragment(doc *Document, m Marker, paths []string) (string, error) {
	entries, err := cloudinit.BuildEntries(paths)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		doc.Files = append(doc.Files, EmbeddedFile{
			Marker:      m,
			Source:      e.Payload.SourcePath,
			Destination: e.Path,
			Size:        len(e.Payload.Compressed),
			EncodedSize: len(e.Payload.Text),
		})
	}
	return Flatten(cloudinit.Render(entries)), nil
}

// dump writes the unparseable text for inspection and builds the error.
func (a *Assembler) dump(in *Inputs, text string, cause error) error {
	verr := &ValidationError{Template: in.BaseTemplate, Err: cause}

	var syntaxErr *json.SyntaxError
	if errors.As(cause, &syntaxErr) {
		verr.Offset = syntaxErr.Offset
	}

	path := in.dumpPath()
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		a.logger.Error("failed to save invalid template", "path", path, "error", err)
	} else {
		verr.DumpPath = path
	}

	a.logger.Error("assembled template is not valid JSON",
		"template", in.BaseTemplate, "dump", verr.DumpPath, "error", cause)
	return verr
}

// checkJSON reports whether text is a single JSON value.
func checkJSON(text string) error {
	var v any
	return json.Unmarshal([]byte(text), &v)
}

// ValidateTemplate checks if the template file exists and is readable.
func ValidateTemplate(templatePath string) error {
	info, err := os.Stat(templatePath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: template %s", project.ErrInputNotFound, templatePath)
		}
		return fmt.Errorf("cannot access template: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("template path is a directory: %s", templatePath)
	}

	return nil
}
