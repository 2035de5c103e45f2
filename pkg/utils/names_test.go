package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateVariantName(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantError bool
		errorMsg  string
	}{
		{name: "simple", input: "mesos"},
		{name: "hyphens", input: "swarm-windows-no-diagnostics"},
		{name: "dots and underscores", input: "mesos_1.2"},
		{name: "empty", input: "", wantError: true, errorMsg: "cannot be empty"},
		{name: "whitespace only", input: "   ", wantError: true, errorMsg: "cannot be empty"},
		{name: "too long", input: strings.Repeat("a", MaxVariantNameLength+1), wantError: true, errorMsg: "cannot exceed"},
		{name: "path traversal", input: "../mesos", wantError: true, errorMsg: "invalid characters"},
		{name: "slash", input: "mesos/linux", wantError: true, errorMsg: "invalid characters"},
		{name: "backslash", input: `mesos\linux`, wantError: true, errorMsg: "invalid characters"},
		{name: "space", input: "mesos linux", wantError: true, errorMsg: "can only contain"},
		{name: "leading hyphen", input: "-mesos", wantError: true, errorMsg: "can only contain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateVariantName(tt.input)
			if tt.wantError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateOutputName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		errorMsg string
	}{
		{name: "plain", input: "mesos-cluster-with-no-jumpbox.json"},
		{name: "upper case extension", input: "mesos.JSON"},
		{name: "empty", input: "", errorMsg: "cannot be empty"},
		{name: "nested", input: "out/mesos.json", errorMsg: "not a path"},
		{name: "parent", input: "..", errorMsg: "not a path"},
		{name: "windows separator", input: `out\mesos.json`, errorMsg: "not a path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputName(tt.input)
			if tt.errorMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}
