// Package sizes turns a VM size catalog into the size-mapping fragment and
// allowed-size lists consumed by the base templates.
//
// The catalog is the output of `az vm list-sizes`, saved ahead of time. This
// package never talks to the network.
package sizes

import (
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jaspreet-dot-casa/armparts/pkg/project"
)

// Size is one VM size as reported by the size catalog.
type Size struct {
	Name                 string `json:"name" yaml:"name"`
	NumberOfCores        int    `json:"numberOfCores" yaml:"numberOfCores"`
	MemoryInMB           int    `json:"memoryInMb" yaml:"memoryInMb"`
	ResourceDiskSizeInMB int    `json:"resourceDiskSizeInMb" yaml:"resourceDiskSizeInMb"`
	OSDiskSizeInMB       int    `json:"osDiskSizeInMb,omitempty" yaml:"osDiskSizeInMb,omitempty"`
	MaxDataDiskCount     int    `json:"maxDataDiskCount,omitempty" yaml:"maxDataDiskCount,omitempty"`
}

// Catalog is a set of sizes ordered by name with unique names.
type Catalog []Size

// Names returns the size names in catalog order.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for _, s := range c {
		names = append(names, s.Name)
	}
	return names
}

// LoadCatalog reads one or more catalog files, typically one per location,
// and merges them. The first occurrence of a name wins and Basic tier sizes
// are dropped.
func LoadCatalog(paths ...string) (Catalog, error) {
	var all []Size
	for _, path := range paths {
		data, err := project.ReadInput(path)
		if err != nil {
			return nil, err
		}

		sizes, err := ParseCatalog(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		all = append(all, sizes...)
	}
	return NewCatalog(all), nil
}

// ParseCatalog decodes a catalog document. Both a list of sizes (the az CLI
// shape) and a mapping of name to size are accepted, in JSON or YAML.
func ParseCatalog(data []byte) ([]Size, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse size catalog: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		var sizes []Size
		if err := root.Decode(&sizes); err != nil {
			return nil, fmt.Errorf("failed to decode size list: %w", err)
		}
		return sizes, nil

	case yaml.MappingNode:
		var byName map[string]Size
		if err := root.Decode(&byName); err != nil {
			return nil, fmt.Errorf("failed to decode size map: %w", err)
		}
		sizes := make([]Size, 0, len(byName))
		for name, s := range byName {
			if s.Name == "" {
				s.Name = name
			}
			sizes = append(sizes, s)
		}
		return sizes, nil

	default:
		return nil, fmt.Errorf("size catalog must be a list or a mapping, line %d", root.Line)
	}
}

// NewCatalog drops Basic tier and unnamed sizes, removes duplicate names
// keeping the first, and sorts by name.
func NewCatalog(sizes []Size) Catalog {
	seen := make(map[string]bool, len(sizes))
	catalog := make(Catalog, 0, len(sizes))
	for _, s := range sizes {
		if s.Name == "" || isBasic(s.Name) || seen[s.Name] {
			continue
		}
		seen[s.Name] = true
		catalog = append(catalog, s)
	}

	slices.SortFunc(catalog, func(a, b Size) int {
		return strings.Compare(a.Name, b.Name)
	})
	return catalog
}

func isBasic(name string) bool {
	tier, _, _ := strings.Cut(name, "_")
	return tier == "Basic"
}

// StorageAccountType returns Premium_LRS when the size supports premium
// storage (an s in the capability segment, as in Standard_DS2), otherwise
// Standard_LRS.
func StorageAccountType(name string) string {
	parts := strings.Split(name, "_")
	if len(parts) < 2 {
		return "Standard_LRS"
	}
	if strings.ContainsAny(parts[1], "sS") {
		return "Premium_LRS"
	}
	return "Standard_LRS"
}
