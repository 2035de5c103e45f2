package generator

import (
	"fmt"
	"strings"
)

// Marker is a placeholder token recognized in base templates.
type Marker string

// Recognized markers. Base templates carry them as literal substrings.
const (
	MarkerClusterInstallYaml          Marker = "#clusterCustomDataInstallYaml"
	MarkerSizeMapping                 Marker = "#vmsizemapping"
	MarkerJumpboxFragment             Marker = "#jumpboxFragment"
	MarkerJumpboxFQDN                 Marker = "#jumpboxFQDN"
	MarkerJumpboxLinuxYaml            Marker = "#jumpboxLinuxCustomDataInstallYaml"
	MarkerWindowsAgentCustomData      Marker = "#swarmWindowsAgentCustomData"
	MarkerWindowsDiagnosticsExtension Marker = "#windowsAgentDiagnosticsExtension"
)

// JumpboxFQDNExpression is the ARM expression substituted for MarkerJumpboxFQDN.
const JumpboxFQDNExpression = "[reference(concat('Microsoft.Network/publicIPAddresses/', variables('jumpboxPublicIPAddressName'))).dnsSettings.fqdn]"

// Markers lists every recognized marker in substitution order. Inlined
// templates (size mapping, jumpbox fragment) come before the markers they
// usually contain.
var Markers = []Marker{
	MarkerSizeMapping,
	MarkerClusterInstallYaml,
	MarkerJumpboxFragment,
	MarkerJumpboxFQDN,
	MarkerJumpboxLinuxYaml,
	MarkerWindowsAgentCustomData,
	MarkerWindowsDiagnosticsExtension,
}

// Valid reports whether m is a recognized marker.
func (m Marker) Valid() bool {
	for _, known := range Markers {
		if m == known {
			return true
		}
	}
	return false
}

func (m Marker) String() string {
	return string(m)
}

// Placeholders maps markers to their replacement text. Markers that are
// never set resolve to the empty string.
type Placeholders struct {
	values map[Marker]string
}

// NewPlaceholders creates an empty placeholder set.
func NewPlaceholders() *Placeholders {
	return &Placeholders{values: make(map[Marker]string)}
}

// Set assigns the replacement for m. Unknown markers and markers that were
// already set are rejected.
func (p *Placeholders) Set(m Marker, value string) error {
	if !m.Valid() {
		return fmt.Errorf("unknown marker %q", m)
	}
	if _, exists := p.values[m]; exists {
		return fmt.Errorf("marker %s set twice", m)
	}
	p.values[m] = value
	return nil
}

// Get returns the replacement for m and whether it was set.
func (p *Placeholders) Get(m Marker) (string, bool) {
	v, ok := p.values[m]
	return v, ok
}

// Substitute replaces every occurrence of every recognized marker in
// template, in Markers order. Unset markers are removed. Markers brought in
// by an inlined template are resolved by a further pass; an error is returned
// if markers keep reappearing.
func Substitute(template string, p *Placeholders) (string, error) {
	result := template
	for pass := 0; pass < len(Markers); pass++ {
		for _, m := range Markers {
			value, _ := p.Get(m)
			result = strings.ReplaceAll(result, string(m), value)
		}
		if len(CountMarkers(result)) == 0 {
			return result, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnresolvedMarker, remainingMarkers(result))
}

func remainingMarkers(text string) string {
	var names []string
	for _, m := range Markers {
		if strings.Contains(text, string(m)) {
			names = append(names, string(m))
		}
	}
	return strings.Join(names, ", ")
}

// CountMarkers returns how many times each recognized marker occurs in
// template. Markers that do not occur are omitted.
func CountMarkers(template string) map[Marker]int {
	counts := make(map[Marker]int)
	for _, m := range Markers {
		if n := strings.Count(template, string(m)); n > 0 {
			counts[m] = n
		}
	}
	return counts
}
