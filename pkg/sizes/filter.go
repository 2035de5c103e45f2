package sizes

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jaspreet-dot-casa/armparts/pkg/canonical"
)

// Role selects which sizes a node pool may use.
type Role int

const (
	// RoleAll allows every catalog size.
	RoleAll Role = iota
	// RoleMasterAgent requires at least one core.
	RoleMasterAgent
	// RoleDCOSMaster requires two cores and a large resource disk.
	RoleDCOSMaster
)

// Role thresholds.
const (
	MinCoresMasterAgent   = 1
	MinCoresDCOSMaster    = 2
	MinDCOSMasterDiskInMB = 102400
)

var roleNames = map[Role]string{
	RoleAll:         "all",
	RoleMasterAgent: "master-agent",
	RoleDCOSMaster:  "dcos-master",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// ParseRole converts a role name as printed by String.
func ParseRole(s string) (Role, error) {
	for role, name := range roleNames {
		if strings.EqualFold(s, name) {
			return role, nil
		}
	}
	return 0, fmt.Errorf("unknown role %q (want all, master-agent or dcos-master)", s)
}

// Allows reports whether a size qualifies for the role.
func (r Role) Allows(s Size) bool {
	switch r {
	case RoleMasterAgent:
		return s.NumberOfCores >= MinCoresMasterAgent
	case RoleDCOSMaster:
		return s.NumberOfCores >= MinCoresDCOSMaster && s.ResourceDiskSizeInMB >= MinDCOSMasterDiskInMB
	default:
		return true
	}
}

// Filter returns the sizes in c that the role allows, keeping order.
func Filter(c Catalog, r Role) Catalog {
	out := make(Catalog, 0, len(c))
	for _, s := range c {
		if r.Allows(s) {
			out = append(out, s)
		}
	}
	return out
}

type storageMapping struct {
	StorageAccountType string `json:"storageAccountType"`
}

// MappingFragment renders the "vmSizesMap" member substituted for the size
// mapping marker: every size name mapped to its storage account type.
func MappingFragment(c Catalog) (string, error) {
	mapping := make(map[string]storageMapping, len(c))
	for _, s := range c {
		mapping[s.Name] = storageMapping{StorageAccountType: StorageAccountType(s.Name)}
	}
	return member("vmSizesMap", mapping)
}

// AllowedValues renders the "allowedValues" member listing the sizes the
// role allows.
func AllowedValues(c Catalog, r Role) (string, error) {
	return member("allowedValues", Filter(c, r).Names())
}

// member renders `"name": value` with value canonically indented.
func member(name string, value any) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", name, err)
	}

	text, err := canonical.Canonicalize(string(data))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%q: %s", name, strings.TrimSuffix(text, "\n")), nil
}
