package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaspreet-dot-casa/armparts/pkg/project"
)

func TestReadAll(t *testing.T) {
	t.Run("reads manifest from project root", func(t *testing.T) {
		tmpDir := t.TempDir()

		manifest := `
version: "1.0"
size_mapping: sizes.json
variants:
  - name: mesos
    output: mesos.json
    base_template: base.json
    cluster_script: configure.sh
    extra_files:
      - nginx.conf
`
		err := os.WriteFile(filepath.Join(tmpDir, project.ManifestFileName), []byte(manifest), 0644)
		require.NoError(t, err)

		m, err := NewReader(tmpDir).ReadAll()
		require.NoError(t, err)

		require.Len(t, m.Variants, 1)
		assert.Equal(t, "sizes.json", m.SizeMapping)
		assert.Equal(t, "mesos", m.Variants[0].Name)
		assert.Equal(t, []string{"nginx.conf"}, m.Variants[0].ExtraFiles)

		dir, err := filepath.Abs(tmpDir)
		require.NoError(t, err)
		assert.Equal(t, dir, m.Dir())
	})

	t.Run("falls back to default manifest", func(t *testing.T) {
		tmpDir := t.TempDir()

		m, err := NewReader(tmpDir).ReadAll()
		require.NoError(t, err)

		assert.Len(t, m.Variants, 6)
		assert.Equal(t, tmpDir, m.Dir())
	})

	t.Run("reports malformed manifest", func(t *testing.T) {
		tmpDir := t.TempDir()
		err := os.WriteFile(filepath.Join(tmpDir, project.ManifestFileName), []byte("variants: [\n"), 0644)
		require.NoError(t, err)

		_, err = NewReader(tmpDir).ReadAll()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse manifest")
	})
}

func TestParseDefaults(t *testing.T) {
	m, err := Parse([]byte("variants:\n  - name: swarm\n    base_template: b.json\n    cluster_script: s.sh\n"))
	require.NoError(t, err)

	assert.Equal(t, Version, m.Version)
	assert.Equal(t, DefaultSizeMapping, m.SizeMapping)
	assert.Equal(t, "swarm.json", m.Variants[0].Output)
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		version string
		major   int
		minor   int
		newer   bool
	}{
		{"1.0", 1, 0, false},
		{"1.1", 1, 1, true},
		{"2", 2, 0, true},
		{"0.9", 0, 9, false},
		{"garbage", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			major, minor := parseVersion(tt.version)
			assert.Equal(t, tt.major, major)
			assert.Equal(t, tt.minor, minor)
			assert.Equal(t, tt.newer, newerThanSupported(tt.version))
		})
	}
}

func TestDefault(t *testing.T) {
	m := Default()

	outputs := make(map[string]bool)
	for _, v := range m.Variants {
		assert.NotEmpty(t, v.BaseTemplate, v.Name)
		assert.NotEmpty(t, v.ClusterScript, v.Name)
		assert.Equal(t, "base-template.parameters.json", v.Parameters, v.Name)
		assert.False(t, outputs[v.Output], "duplicate output %s", v.Output)
		outputs[v.Output] = true
	}

	linux := m.Find("mesos-linux-jumpbox")
	require.NotNil(t, linux)
	assert.Equal(t, "fragment-linux-jumpbox.json", linux.JumpboxTemplate)
	assert.Equal(t, "configure-ubuntu.sh", linux.LinuxJumpboxScript)

	windows := m.Find("swarm-windows")
	require.NotNil(t, windows)
	assert.Equal(t, "fragment-windows-agent-diagnostics-extension.json", windows.DiagnosticsTemplate)

	noDiagnostics := m.Find("swarm-windows-no-diagnostics")
	require.NotNil(t, noDiagnostics)
	assert.Empty(t, noDiagnostics.DiagnosticsTemplate)
	assert.Equal(t, windows.WindowsAgentScript, noDiagnostics.WindowsAgentScript)

	assert.Nil(t, m.Find("kubernetes"))
}

func TestInputs(t *testing.T) {
	m := Default()
	m.SetDir("/parts")

	in := m.Inputs(m.Find("mesos-linux-jumpbox"))

	assert.Equal(t, "/parts/base-template.json", in.BaseTemplate)
	assert.Equal(t, "/parts/vmsizes-storage-account-mappings.json", in.SizeMapping)
	assert.Equal(t, "/parts/configure-mesos-cluster.sh", in.ClusterScript)
	assert.Equal(t, []string{"/parts/nginx.conf"}, in.ExtraFiles)
	assert.Equal(t, "/parts/fragment-linux-jumpbox.json", in.JumpboxTemplate)
	assert.Equal(t, "/parts/configure-ubuntu.sh", in.LinuxJumpboxScript)
	assert.Empty(t, in.WindowsAgentScript)
	assert.Empty(t, in.DiagnosticsTemplate)
}

func TestVariantHelpers(t *testing.T) {
	v := &Variant{
		Output:             "mesos-cluster-with-linux-jumpbox.json",
		ClusterScript:      "configure.sh",
		ExtraFiles:         []string{"nginx.conf"},
		LinuxJumpboxScript: "ubuntu.sh",
	}

	assert.Equal(t, "mesos-cluster-with-linux-jumpbox.parameters.json", v.ParametersOutput())
	assert.Equal(t, []string{"configure.sh", "nginx.conf"}, v.FragmentFiles())

	v.JumpboxTemplate = "jumpbox.json"
	assert.Equal(t, []string{"configure.sh", "nginx.conf", "ubuntu.sh"}, v.FragmentFiles())
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", project.ManifestFileName)

	require.NoError(t, Default().Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default().Variants, loaded.Variants)
	assert.Equal(t, DefaultSizeMapping, loaded.SizeMapping)
}
