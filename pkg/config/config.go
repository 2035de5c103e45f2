// Package config defines the build manifest: which documents to assemble
// and which input files fill each role.
package config

import (
	"path/filepath"
	"strings"

	"github.com/jaspreet-dot-casa/armparts/pkg/generator"
	"github.com/jaspreet-dot-casa/armparts/pkg/project"
)

// Version is the current manifest schema version.
const Version = "1.0"

// DefaultSizeMapping is the size-mapping fragment every variant consumes.
const DefaultSizeMapping = "vmsizes-storage-account-mappings.json"

// Manifest lists the documents a build produces.
type Manifest struct {
	Version     string    `yaml:"version"`
	SizeMapping string    `yaml:"size_mapping"`
	Variants    []Variant `yaml:"variants"`

	// dir is the directory relative paths resolve against.
	dir string
}

// Variant is one output document and the files it is assembled from.
// Optional roles are left empty when unused.
type Variant struct {
	Name                string   `yaml:"name"`
	Output              string   `yaml:"output"`
	BaseTemplate        string   `yaml:"base_template"`
	ClusterScript       string   `yaml:"cluster_script"`
	ExtraFiles          []string `yaml:"extra_files,omitempty"`
	JumpboxTemplate     string   `yaml:"jumpbox_template,omitempty"`
	LinuxJumpboxScript  string   `yaml:"linux_jumpbox_script,omitempty"`
	WindowsAgentScript  string   `yaml:"windows_agent_script,omitempty"`
	DiagnosticsTemplate string   `yaml:"diagnostics_template,omitempty"`
	Parameters          string   `yaml:"parameters,omitempty"`
}

// Input file names used by the default manifest.
const (
	baseTemplate               = "base-template.json"
	baseParameters             = "base-template.parameters.json"
	windowsJumpboxTemplate     = "fragment-windows-jumpbox.json"
	windowsDiagnosticsTemplate = "fragment-windows-agent-diagnostics-extension.json"
	linuxJumpboxTemplate       = "fragment-linux-jumpbox.json"
	swarmTemplate              = "base-swarm-template.json"
	swarmWindowsTemplate       = "base-swarm-windows-template.json"

	mesosClusterScript       = "configure-mesos-cluster.sh"
	swarmClusterScript       = "configure-swarm-cluster.sh"
	linuxJumpboxScript       = "configure-ubuntu.sh"
	swarmWindowsAgentScript  = "Install-ContainerHost-And-Join-Swarm.ps1"
	adminRouterConfiguration = "nginx.conf"
)

// Default returns the manifest for the mesos and swarm parts directory.
func Default() *Manifest {
	return &Manifest{
		Version:     Version,
		SizeMapping: DefaultSizeMapping,
		Variants: []Variant{
			{
				Name:          "mesos",
				Output:        "mesos-cluster-with-no-jumpbox.json",
				BaseTemplate:  baseTemplate,
				ClusterScript: mesosClusterScript,
				ExtraFiles:    []string{adminRouterConfiguration},
				Parameters:    baseParameters,
			},
			{
				Name:               "mesos-linux-jumpbox",
				Output:             "mesos-cluster-with-linux-jumpbox.json",
				BaseTemplate:       baseTemplate,
				ClusterScript:      mesosClusterScript,
				ExtraFiles:         []string{adminRouterConfiguration},
				JumpboxTemplate:    linuxJumpboxTemplate,
				LinuxJumpboxScript: linuxJumpboxScript,
				Parameters:         baseParameters,
			},
			{
				Name:            "mesos-windows-jumpbox",
				Output:          "mesos-cluster-with-windows-jumpbox.json",
				BaseTemplate:    baseTemplate,
				ClusterScript:   mesosClusterScript,
				ExtraFiles:      []string{adminRouterConfiguration},
				JumpboxTemplate: windowsJumpboxTemplate,
				Parameters:      baseParameters,
			},
			{
				Name:          "swarm",
				Output:        "swarm-cluster-with-no-jumpbox.json",
				BaseTemplate:  swarmTemplate,
				ClusterScript: swarmClusterScript,
				Parameters:    baseParameters,
			},
			{
				Name:                "swarm-windows",
				Output:              "swarm-cluster-with-windows.json",
				BaseTemplate:        swarmWindowsTemplate,
				ClusterScript:       swarmClusterScript,
				WindowsAgentScript:  swarmWindowsAgentScript,
				DiagnosticsTemplate: windowsDiagnosticsTemplate,
				Parameters:          baseParameters,
			},
			{
				Name:               "swarm-windows-no-diagnostics",
				Output:             "swarm-cluster-with-windows-no-diagnostics.json",
				BaseTemplate:       swarmWindowsTemplate,
				ClusterScript:      swarmClusterScript,
				WindowsAgentScript: swarmWindowsAgentScript,
				Parameters:         baseParameters,
			},
		},
	}
}

// Dir returns the directory relative input paths resolve against.
func (m *Manifest) Dir() string {
	return m.dir
}

// SetDir sets the directory relative input paths resolve against.
func (m *Manifest) SetDir(dir string) {
	m.dir = dir
}

// Path resolves a manifest-relative path.
func (m *Manifest) Path(p string) string {
	return project.ResolvePath(m.dir, p)
}

// Find returns the variant with the given name, or nil.
func (m *Manifest) Find(name string) *Variant {
	for i := range m.Variants {
		if m.Variants[i].Name == name {
			return &m.Variants[i]
		}
	}
	return nil
}

// Inputs resolves a variant's roles into assembler inputs.
func (m *Manifest) Inputs(v *Variant) *generator.Inputs {
	extra := make([]string, 0, len(v.ExtraFiles))
	for _, f := range v.ExtraFiles {
		extra = append(extra, m.Path(f))
	}

	return &generator.Inputs{
		BaseTemplate:        m.Path(v.BaseTemplate),
		SizeMapping:         m.Path(m.SizeMapping),
		ClusterScript:       m.Path(v.ClusterScript),
		ExtraFiles:          extra,
		JumpboxTemplate:     m.Path(v.JumpboxTemplate),
		LinuxJumpboxScript:  m.Path(v.LinuxJumpboxScript),
		WindowsAgentScript:  m.Path(v.WindowsAgentScript),
		DiagnosticsTemplate: m.Path(v.DiagnosticsTemplate),
	}
}

// ParametersOutput returns the name of the variant's parameter companion:
// mesos.json becomes mesos.parameters.json.
func (v *Variant) ParametersOutput() string {
	ext := filepath.Ext(v.Output)
	return strings.TrimSuffix(v.Output, ext) + ".parameters" + ext
}

// FragmentFiles returns every file that is embedded through a write_files
// fragment, in the order it is embedded.
func (v *Variant) FragmentFiles() []string {
	files := append([]string{v.ClusterScript}, v.ExtraFiles...)
	if v.JumpboxTemplate != "" && v.LinuxJumpboxScript != "" {
		files = append(files, v.LinuxJumpboxScript)
	}
	return files
}
