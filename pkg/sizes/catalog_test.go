package sizes

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaspreet-dot-casa/armparts/pkg/project"
)

const eastus = `[
  {"name": "Standard_DS2", "numberOfCores": 2, "memoryInMb": 7168, "resourceDiskSizeInMb": 14336, "maxDataDiskCount": 8},
  {"name": "Basic_A1", "numberOfCores": 1, "memoryInMb": 1792, "resourceDiskSizeInMb": 40960},
  {"name": "Standard_D3", "numberOfCores": 4, "memoryInMb": 14336, "resourceDiskSizeInMb": 204800},
  {"name": "Standard_A0", "numberOfCores": 1, "memoryInMb": 768, "resourceDiskSizeInMb": 20480}
]`

const westus = `
Standard_D3:
  numberOfCores: 8
  resourceDiskSizeInMb: 1
Standard_GS5:
  numberOfCores: 32
  resourceDiskSizeInMb: 786432
`

func writeCatalog(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadCatalog(t *testing.T) {
	t.Run("merges locations keeping first", func(t *testing.T) {
		catalog, err := LoadCatalog(writeCatalog(t, "eastus.json", eastus), writeCatalog(t, "westus.yaml", westus))
		require.NoError(t, err)

		assert.Equal(t, []string{"Standard_A0", "Standard_D3", "Standard_DS2", "Standard_GS5"}, catalog.Names())
		assert.Equal(t, 4, catalog[1].NumberOfCores, "eastus entry wins")
		assert.Equal(t, 32, catalog[3].NumberOfCores)
		assert.Equal(t, 8, catalog[2].MaxDataDiskCount)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadCatalog(filepath.Join(t.TempDir(), "absent.json"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, project.ErrInputNotFound))
	})

	t.Run("scalar document", func(t *testing.T) {
		_, err := LoadCatalog(writeCatalog(t, "bad.json", `"sizes"`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "list or a mapping")
	})

	t.Run("malformed document", func(t *testing.T) {
		_, err := LoadCatalog(writeCatalog(t, "bad.json", `[{"name": `))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse size catalog")
	})

	t.Run("empty document", func(t *testing.T) {
		catalog, err := LoadCatalog(writeCatalog(t, "empty.json", ""))
		require.NoError(t, err)
		assert.Empty(t, catalog)
	})
}

func TestNewCatalog(t *testing.T) {
	catalog := NewCatalog([]Size{
		{Name: "Standard_B"},
		{Name: "Basic_A0"},
		{Name: ""},
		{Name: "Standard_A", NumberOfCores: 1},
		{Name: "Standard_A", NumberOfCores: 9},
	})

	assert.Equal(t, []string{"Standard_A", "Standard_B"}, catalog.Names())
	assert.Equal(t, 1, catalog[0].NumberOfCores)
}

func TestStorageAccountType(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"Standard_DS2", "Premium_LRS"},
		{"Standard_DS2_v2", "Premium_LRS"},
		{"Standard_GS5", "Premium_LRS"},
		{"Standard_F4s", "Premium_LRS"},
		{"Standard_D3", "Standard_LRS"},
		{"Standard_A0", "Standard_LRS"},
		{"Standard_D3_v2s", "Standard_LRS"},
		{"Standard", "Standard_LRS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StorageAccountType(tt.name))
		})
	}
}
