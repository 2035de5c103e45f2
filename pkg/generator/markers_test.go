package generator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceholdersSet(t *testing.T) {
	t.Run("accepts recognized markers once", func(t *testing.T) {
		p := NewPlaceholders()
		require.NoError(t, p.Set(MarkerJumpboxFQDN, "fqdn"))

		value, ok := p.Get(MarkerJumpboxFQDN)
		assert.True(t, ok)
		assert.Equal(t, "fqdn", value)
	})

	t.Run("rejects unknown marker", func(t *testing.T) {
		err := NewPlaceholders().Set(Marker("#masterCustomData"), "x")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown marker")
	})

	t.Run("rejects duplicate marker", func(t *testing.T) {
		p := NewPlaceholders()
		require.NoError(t, p.Set(MarkerSizeMapping, "a"))
		err := p.Set(MarkerSizeMapping, "b")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "set twice")
	})
}

func TestSubstitute(t *testing.T) {
	tests := []struct {
		name     string
		template string
		values   map[Marker]string
		expected string
	}{
		{
			name:     "replaces marker",
			template: `{"fqdn": "#jumpboxFQDN"}`,
			values:   map[Marker]string{MarkerJumpboxFQDN: "host"},
			expected: `{"fqdn": "host"}`,
		},
		{
			name:     "replaces every occurrence",
			template: `#swarmWindowsAgentCustomData/#swarmWindowsAgentCustomData`,
			values:   map[Marker]string{MarkerWindowsAgentCustomData: "H4sI"},
			expected: `H4sI/H4sI`,
		},
		{
			name:     "unset markers become empty",
			template: `[#jumpboxFragment]"#jumpboxLinuxCustomDataInstallYaml"`,
			values:   map[Marker]string{},
			expected: `[]""`,
		},
		{
			name:     "markers inside inlined fragment",
			template: `[#jumpboxFragment]`,
			values: map[Marker]string{
				MarkerJumpboxFragment:  `{"fqdn": "#jumpboxFQDN", "data": "#jumpboxLinuxCustomDataInstallYaml"}`,
				MarkerJumpboxFQDN:      "host",
				MarkerJumpboxLinuxYaml: "yaml",
			},
			expected: `[{"fqdn": "host", "data": "yaml"}]`,
		},
		{
			name:     "later fragment brings earlier marker",
			template: `#windowsAgentDiagnosticsExtension`,
			values: map[Marker]string{
				MarkerWindowsDiagnosticsExtension: `"#vmsizemapping"`,
				MarkerSizeMapping:                 "sizes",
			},
			expected: `"sizes"`,
		},
		{
			name:     "leaves unrelated hashes alone",
			template: `"#cloud-config" #notAMarker`,
			values:   map[Marker]string{},
			expected: `"#cloud-config" #notAMarker`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPlaceholders()
			for m, v := range tt.values {
				require.NoError(t, p.Set(m, v))
			}

			result, err := Substitute(tt.template, p)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestSubstituteSelfReference(t *testing.T) {
	p := NewPlaceholders()
	require.NoError(t, p.Set(MarkerJumpboxFragment, "#jumpboxFragment!"))

	_, err := Substitute("#jumpboxFragment", p)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnresolvedMarker))
	assert.Contains(t, err.Error(), "#jumpboxFragment")
}

func TestCountMarkers(t *testing.T) {
	counts := CountMarkers(`"#clusterCustomDataInstallYaml" "#clusterCustomDataInstallYaml" #vmsizemapping`)

	assert.Equal(t, 2, counts[MarkerClusterInstallYaml])
	assert.Equal(t, 1, counts[MarkerSizeMapping])
	_, present := counts[MarkerJumpboxFQDN]
	assert.False(t, present)
}

func TestMarkerValid(t *testing.T) {
	for _, m := range Markers {
		assert.True(t, m.Valid(), m.String())
	}
	assert.False(t, Marker("#vmsizemappings").Valid())
	assert.Len(t, Markers, 7)
}
