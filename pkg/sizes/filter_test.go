package sizes

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() Catalog {
	return NewCatalog([]Size{
		{Name: "Standard_A0", NumberOfCores: 1, ResourceDiskSizeInMB: 20480},
		{Name: "Standard_D3", NumberOfCores: 4, ResourceDiskSizeInMB: 204800},
		{Name: "Standard_DS2", NumberOfCores: 2, ResourceDiskSizeInMB: 14336},
		{Name: "Standard_D2", NumberOfCores: 2, ResourceDiskSizeInMB: 102400},
		{Name: "Standard_Z0", NumberOfCores: 0},
	})
}

func TestFilter(t *testing.T) {
	tests := []struct {
		role     Role
		expected []string
	}{
		{RoleAll, []string{"Standard_A0", "Standard_D2", "Standard_D3", "Standard_DS2", "Standard_Z0"}},
		{RoleMasterAgent, []string{"Standard_A0", "Standard_D2", "Standard_D3", "Standard_DS2"}},
		{RoleDCOSMaster, []string{"Standard_D2", "Standard_D3"}},
	}

	for _, tt := range tests {
		t.Run(tt.role.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, Filter(testCatalog(), tt.role).Names())
		})
	}
}

func TestParseRole(t *testing.T) {
	for _, role := range []Role{RoleAll, RoleMasterAgent, RoleDCOSMaster} {
		parsed, err := ParseRole(role.String())
		require.NoError(t, err)
		assert.Equal(t, role, parsed)
	}

	parsed, err := ParseRole("DCOS-Master")
	require.NoError(t, err)
	assert.Equal(t, RoleDCOSMaster, parsed)

	_, err = ParseRole("kubernetes")
	require.Error(t, err)
	assert.Equal(t, "Role(7)", Role(7).String())
}

func TestMappingFragment(t *testing.T) {
	catalog := NewCatalog([]Size{{Name: "Standard_DS2"}, {Name: "Standard_A0"}})

	fragment, err := MappingFragment(catalog)
	require.NoError(t, err)

	expected := `"vmSizesMap": {
  "Standard_A0": {
    "storageAccountType": "Standard_LRS"
  },
  "Standard_DS2": {
    "storageAccountType": "Premium_LRS"
  }
}`
	assert.Equal(t, expected, fragment)

	// The fragment is a member, so it must parse once wrapped in an object.
	var decoded map[string]map[string]map[string]string
	require.NoError(t, json.Unmarshal([]byte("{"+fragment+"}"), &decoded))
	assert.Equal(t, "Premium_LRS", decoded["vmSizesMap"]["Standard_DS2"]["storageAccountType"])
}

func TestMappingFragment_Empty(t *testing.T) {
	fragment, err := MappingFragment(Catalog{})
	require.NoError(t, err)
	assert.Equal(t, `"vmSizesMap": {}`, fragment)
}

func TestAllowedValues(t *testing.T) {
	values, err := AllowedValues(testCatalog(), RoleDCOSMaster)
	require.NoError(t, err)

	assert.Equal(t, "\"allowedValues\": [\n  \"Standard_D2\",\n  \"Standard_D3\"\n]", values)

	empty, err := AllowedValues(Catalog{}, RoleAll)
	require.NoError(t, err)
	assert.Equal(t, `"allowedValues": []`, empty)
}
