package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAndReport_ValidMinimalUser(t *testing.T) {
	var buf bytes.Buffer
	body := `{"schemas":["urn:ietf:params:scim:schemas:core:2.0:User"],"userName":"john.doe@example.com"}`
	code := validateAndReport(&buf, strings.NewReader(body), false)
	assert.Equal(t, 0, code)
	assert.Contains(t, buf.String(), "Valid SCIM resource")
}

func TestValidateAndReport_AgentMissingName(t *testing.T) {
	var buf bytes.Buffer
	body := `{"schemas":["urn:ietf:params:scim:schemas:core:2.0:Agent"]}`
	code := validateAndReport(&buf, strings.NewReader(body), false)
	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "name")
}

func TestValidateAndReport_InvalidJSON(t *testing.T) {
	var buf bytes.Buffer
	code := validateAndReport(&buf, strings.NewReader("{not json"), false)
	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "Invalid JSON")
}

func TestValidateAndReport_PatchDuplicatePathRejected(t *testing.T) {
	var buf bytes.Buffer
	body := `{
		"schemas": ["urn:ietf:params:scim:api:messages:2.0:PatchOp"],
		"Operations": [
			{"op": "replace", "path": "displayName", "value": "A"},
			{"op": "replace", "path": "displayName", "value": "B"}
		]
	}`
	code := validateAndReport(&buf, strings.NewReader(body), true)
	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "duplicate")
}

func TestValidateFile_ValidatesFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "user.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"schemas":["urn:ietf:params:scim:schemas:core:2.0:User"],"userName":"jane"}`), 0o644))

	var buf bytes.Buffer
	code := validateFile(&buf, path, false)
	assert.Equal(t, 0, code)
}

func TestValidateFile_MissingFileReportsNotFound(t *testing.T) {
	var buf bytes.Buffer
	code := validateFile(&buf, "/nonexistent/path/user.json", false)
	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "File not found")
}
