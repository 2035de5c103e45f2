// Package validation checks a build manifest before any document is built.
package validation

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jaspreet-dot-casa/armparts/pkg/cloudinit"
	"github.com/jaspreet-dot-casa/armparts/pkg/config"
	"github.com/jaspreet-dot-casa/armparts/pkg/generator"
	"github.com/jaspreet-dot-casa/armparts/pkg/project"
	"github.com/jaspreet-dot-casa/armparts/pkg/utils"
)

// Severity represents the severity of a validation issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue represents a validation issue found in the manifest or its inputs.
type Issue struct {
	File     string   `json:"file"`
	Field    string   `json:"field,omitempty"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Result holds all validation results.
type Result struct {
	Issues []Issue `json:"issues"`
}

// HasErrors returns true if there are any error-level issues.
func (r *Result) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ErrorCount returns the number of error-level issues.
func (r *Result) ErrorCount() int {
	count := 0
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			count++
		}
	}
	return count
}

// WarningCount returns the number of warning-level issues.
func (r *Result) WarningCount() int {
	count := 0
	for _, issue := range r.Issues {
		if issue.Severity == SeverityWarning {
			count++
		}
	}
	return count
}

// Validator validates a manifest and the files it names.
type Validator struct {
	Manifest *config.Manifest
}

// NewValidator creates a new Validator.
func NewValidator(m *config.Manifest) *Validator {
	return &Validator{Manifest: m}
}

// ValidateAll validates the manifest and every variant and returns the result.
func (v *Validator) ValidateAll() *Result {
	result := &Result{Issues: []Issue{}}

	result.Issues = append(result.Issues, v.ValidateManifest()...)

	// The size mapping is shared by every variant, so check it once.
	if len(v.Manifest.Variants) > 0 {
		result.Issues = append(result.Issues, v.requireFile("", "size_mapping", v.Manifest.SizeMapping)...)
	}

	for i := range v.Manifest.Variants {
		result.Issues = append(result.Issues, v.ValidateVariant(&v.Manifest.Variants[i])...)
	}

	return result
}

// ValidateManifest checks names and outputs across variants.
func (v *Validator) ValidateManifest() []Issue {
	issues := []Issue{}

	if len(v.Manifest.Variants) == 0 {
		issues = append(issues, Issue{
			Field:    "variants",
			Message:  "manifest declares no variants",
			Severity: SeverityWarning,
		})
	}

	names := make(map[string]bool)
	outputs := make(map[string]string)
	for _, variant := range v.Manifest.Variants {
		if strings.TrimSpace(variant.Name) == "" {
			issues = append(issues, Issue{
				Field:    "name",
				Message:  "variant name is required",
				Severity: SeverityError,
			})
		} else if err := utils.ValidateVariantName(variant.Name); err != nil {
			issues = append(issues, Issue{
				Field:    variant.Name + ".name",
				Message:  err.Error(),
				Severity: SeverityError,
			})
		} else if names[variant.Name] {
			issues = append(issues, Issue{
				Field:    variant.Name + ".name",
				Message:  fmt.Sprintf("duplicate variant name %q", variant.Name),
				Severity: SeverityError,
			})
		}
		names[variant.Name] = true

		if variant.Output == "" {
			continue
		}
		if err := utils.ValidateOutputName(variant.Output); err != nil {
			issues = append(issues, Issue{
				Field:    variant.Name + ".output",
				Message:  err.Error(),
				Severity: SeverityError,
			})
		} else if !strings.EqualFold(filepath.Ext(variant.Output), ".json") {
			issues = append(issues, Issue{
				Field:    variant.Name + ".output",
				Message:  fmt.Sprintf("output %s does not end in .json", variant.Output),
				Severity: SeverityWarning,
			})
		}
		if other, exists := outputs[variant.Output]; exists {
			issues = append(issues, Issue{
				Field:    variant.Name + ".output",
				Message:  fmt.Sprintf("output %s is also written by variant %q", variant.Output, other),
				Severity: SeverityError,
			})
		}
		outputs[variant.Output] = variant.Name
	}

	return issues
}

// ValidateVariant checks the input files of one variant.
func (v *Validator) ValidateVariant(variant *config.Variant) []Issue {
	issues := []Issue{}
	field := func(name string) string { return variant.Name + "." + name }

	// Required roles
	if variant.Output == "" {
		issues = append(issues, Issue{
			Field:    field("output"),
			Message:  "output is required",
			Severity: SeverityError,
		})
	}
	issues = append(issues, v.requireFile(variant.Name, "base_template", variant.BaseTemplate)...)
	issues = append(issues, v.requireFile(variant.Name, "cluster_script", variant.ClusterScript)...)
	for _, f := range variant.ExtraFiles {
		issues = append(issues, v.requireFile(variant.Name, "extra_files", f)...)
	}

	// Optional roles
	optional := []struct {
		name string
		path string
	}{
		{"jumpbox_template", variant.JumpboxTemplate},
		{"linux_jumpbox_script", variant.LinuxJumpboxScript},
		{"windows_agent_script", variant.WindowsAgentScript},
		{"diagnostics_template", variant.DiagnosticsTemplate},
		{"parameters", variant.Parameters},
	}
	for _, o := range optional {
		if o.path == "" {
			continue
		}
		if err := checkFile(v.Manifest.Path(o.path)); err != nil {
			issues = append(issues, Issue{
				File:     o.path,
				Field:    field(o.name),
				Message:  err.Error(),
				Severity: SeverityWarning,
			})
		}
	}

	if variant.LinuxJumpboxScript != "" && variant.JumpboxTemplate == "" {
		issues = append(issues, Issue{
			Field:    field("linux_jumpbox_script"),
			Message:  "linux_jumpbox_script is set but jumpbox_template is not; the script will not be embedded",
			Severity: SeverityWarning,
		})
	}

	// Two fragment files with the same base name land on the same path.
	seen := make(map[string]string)
	for _, f := range variant.FragmentFiles() {
		base := filepath.Base(f)
		if other, exists := seen[base]; exists {
			issues = append(issues, Issue{
				File:     f,
				Field:    field("extra_files"),
				Message:  fmt.Sprintf("%s and %s both install to %s", other, f, cloudinit.Destination(f)),
				Severity: SeverityWarning,
			})
		}
		seen[base] = f
	}

	issues = append(issues, v.validateMarkers(variant)...)

	return issues
}

// validateMarkers inspects the base template's marker usage.
func (v *Validator) validateMarkers(variant *config.Variant) []Issue {
	issues := []Issue{}
	if variant.BaseTemplate == "" {
		return issues
	}

	data, err := os.ReadFile(v.Manifest.Path(variant.BaseTemplate))
	if err != nil {
		// Missing base template is already reported.
		return issues
	}

	counts := generator.CountMarkers(string(data))
	for _, m := range generator.Markers {
		if counts[m] > 1 {
			issues = append(issues, Issue{
				File:     variant.BaseTemplate,
				Field:    variant.Name + ".base_template",
				Message:  fmt.Sprintf("marker %s appears %d times", m, counts[m]),
				Severity: SeverityWarning,
			})
		}
	}

	if counts[generator.MarkerClusterInstallYaml] == 0 {
		issues = append(issues, Issue{
			File:     variant.BaseTemplate,
			Field:    variant.Name + ".base_template",
			Message:  fmt.Sprintf("marker %s not found; the cluster script will not be embedded", generator.MarkerClusterInstallYaml),
			Severity: SeverityWarning,
		})
	}

	return issues
}

// requireFile reports an error when a required input is unset or missing.
func (v *Validator) requireFile(variant, name, path string) []Issue {
	fieldName := name
	if variant != "" {
		fieldName = variant + "." + name
	}

	if strings.TrimSpace(path) == "" {
		return []Issue{{
			Field:    fieldName,
			Message:  fmt.Sprintf("%s is required", name),
			Severity: SeverityError,
		}}
	}

	if err := checkFile(v.Manifest.Path(path)); err != nil {
		return []Issue{{
			File:     path,
			Field:    fieldName,
			Message:  err.Error(),
			Severity: SeverityError,
		}}
	}

	return nil
}

// checkFile reports whether path is a readable regular file.
func checkFile(path string) error {
	err := generator.ValidateTemplate(path)
	if err == nil {
		return nil
	}
	if errors.Is(err, project.ErrInputNotFound) {
		return fmt.Errorf("file not found: %s", path)
	}
	return err
}

