package cloudinit

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaspreet-dot-casa/armparts/pkg/payload"
	"github.com/jaspreet-dot-casa/armparts/pkg/project"
)

func writeScript(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestBuildFragment(t *testing.T) {
	t.Run("renders one entry per script in order", func(t *testing.T) {
		dir := t.TempDir()
		cluster := writeScript(t, dir, "configure-mesos-cluster.sh", "#!/bin/bash\necho cluster\n")
		nginx := writeScript(t, dir, "nginx.conf", "events {}\n")

		text, err := BuildFragment([]string{cluster, nginx})
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(text, "#cloud-config\n\nwrite_files:\n"))
		first := strings.Index(text, "path: /opt/azure/containers/configure-mesos-cluster.sh")
		second := strings.Index(text, "path: /opt/azure/containers/nginx.conf")
		require.NotEqual(t, -1, first)
		require.NotEqual(t, -1, second)
		assert.Less(t, first, second)
		assert.Equal(t, 2, strings.Count(text, "content: !!binary |"))
		assert.Equal(t, 2, strings.Count(text, `permissions: "0744"`))
	})

	t.Run("embeds the encoded payload", func(t *testing.T) {
		dir := t.TempDir()
		script := writeScript(t, dir, "configure-ubuntu.sh", "echo hi\n")

		encoded, err := payload.Encode(script)
		require.NoError(t, err)

		text, err := BuildFragment([]string{script})
		require.NoError(t, err)
		assert.Contains(t, text, "        "+encoded+"\n")
	})

	t.Run("exact layout", func(t *testing.T) {
		dir := t.TempDir()
		script := writeScript(t, dir, "a.sh", "x")
		encoded, err := payload.Encode(script)
		require.NoError(t, err)

		text, err := BuildFragment([]string{script})
		require.NoError(t, err)

		expected := "#cloud-config\n\nwrite_files:\n" +
			" -  encoding: gzip\n" +
			"    content: !!binary |\n" +
			"        " + encoded + "\n" +
			"    path: /opt/azure/containers/a.sh\n" +
			"    permissions: \"0744\"\n" +
			"\n"
		assert.Equal(t, expected, text)
	})

	t.Run("missing script", func(t *testing.T) {
		_, err := BuildFragment([]string{filepath.Join(t.TempDir(), "nope.sh")})
		require.Error(t, err)
		assert.True(t, errors.Is(err, project.ErrInputNotFound))
	})

	t.Run("duplicate base names are not rejected", func(t *testing.T) {
		dirA := t.TempDir()
		dirB := t.TempDir()
		a := writeScript(t, dirA, "install.sh", "echo a\n")
		b := writeScript(t, dirB, "install.sh", "echo b\n")

		text, err := BuildFragment([]string{a, b})
		require.NoError(t, err)
		assert.Equal(t, 2, strings.Count(text, "path: /opt/azure/containers/install.sh"))
	})
}

func TestParseFragment(t *testing.T) {
	dir := t.TempDir()
	cluster := writeScript(t, dir, "configure-swarm-cluster.sh", "#!/bin/bash\nset -e\necho \"swarm\"\n")
	conf := writeScript(t, dir, "nginx.conf", "")

	text, err := BuildFragment([]string{cluster, conf})
	require.NoError(t, err)

	cfg, err := ParseFragment(text)
	require.NoError(t, err)
	require.Len(t, cfg.WriteFiles, 2)

	first := cfg.WriteFiles[0]
	assert.Equal(t, "gzip", first.Encoding)
	assert.Equal(t, "/opt/azure/containers/configure-swarm-cluster.sh", first.Path)
	assert.Equal(t, "0744", first.Permissions)

	script, err := first.Script()
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/bash\nset -e\necho \"swarm\"\n", string(script))

	empty, err := cfg.WriteFiles[1].Script()
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestParseFragmentRejectsMissingHeader(t *testing.T) {
	_, err := ParseFragment("write_files: []\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "#cloud-config")
}

func TestDestination(t *testing.T) {
	assert.Equal(t, "/opt/azure/containers/nginx.conf", Destination("/parts/conf/nginx.conf"))
	assert.Equal(t, "/opt/azure/containers/run.sh", Destination("run.sh"))
}
