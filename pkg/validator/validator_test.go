package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFull_MinimalUser(t *testing.T) {
	ok, errs := ValidateFull(map[string]interface{}{
		"schemas":  []interface{}{"urn:ietf:params:scim:schemas:core:2.0:User"},
		"userName": "scim-sanity-test-abc12345",
	})
	assert.True(t, ok)
	assert.Empty(t, errs)
}

func TestValidateFull_MissingSchemas(t *testing.T) {
	ok, errs := ValidateFull(map[string]interface{}{
		"userName": "alice",
	})
	assert.False(t, ok)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "schemas")
}

func TestValidateFull_UnknownSchemaURN(t *testing.T) {
	ok, errs := ValidateFull(map[string]interface{}{
		"schemas": []interface{}{"urn:example:bogus"},
	})
	assert.False(t, ok)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, "Invalid schema URN")
}

func TestValidateFull_UserMissingUserName(t *testing.T) {
	ok, errs := ValidateFull(map[string]interface{}{
		"schemas": []interface{}{"urn:ietf:params:scim:schemas:core:2.0:User"},
	})
	assert.False(t, ok)
	found := false
	for _, e := range errs {
		if e.Path == "userName" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestValidateFull_AgentRequiresName(t *testing.T) {
	ok, errs := ValidateFull(map[string]interface{}{
		"schemas": []interface{}{"urn:ietf:params:scim:schemas:core:2.0:Agent"},
	})
	assert.False(t, ok)
	assert.Condition(t, func() bool {
		for _, e := range errs {
			if containsBoth(e.Message, "name", "required") {
				return true
			}
		}
		return false
	})

	ok, errs = ValidateFull(map[string]interface{}{
		"schemas": []interface{}{"urn:ietf:params:scim:schemas:core:2.0:Agent"},
		"name":    "",
	})
	assert.False(t, ok)
	assert.Condition(t, func() bool {
		for _, e := range errs {
			if containsBoth(e.Message, "name", "non-empty") {
				return true
			}
		}
		return false
	})
}

func TestValidateFull_AgenticApplicationRequiresName(t *testing.T) {
	ok, _ := ValidateFull(map[string]interface{}{
		"schemas": []interface{}{"urn:ietf:params:scim:schemas:core:2.0:AgenticApplication"},
		"name":    "router",
	})
	assert.True(t, ok)

	ok, errs := ValidateFull(map[string]interface{}{
		"schemas": []interface{}{"urn:ietf:params:scim:schemas:core:2.0:AgenticApplication"},
	})
	assert.False(t, ok)
	assert.Condition(t, func() bool {
		for _, e := range errs {
			if containsBoth(e.Message, "name", "required") {
				return true
			}
		}
		return false
	})
}

func TestValidateFull_ImmutableAttributeRejected(t *testing.T) {
	ok, errs := ValidateFull(map[string]interface{}{
		"schemas":  []interface{}{"urn:ietf:params:scim:schemas:core:2.0:User"},
		"userName": "bob",
		"id":       "client-supplied-id",
	})
	assert.False(t, ok)
	found := false
	for _, e := range errs {
		if e.Path == "id" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestValidateFull_NullValueRejected(t *testing.T) {
	ok, errs := ValidateFull(map[string]interface{}{
		"schemas":     []interface{}{"urn:ietf:params:scim:schemas:core:2.0:User"},
		"userName":    "bob",
		"displayName": nil,
	})
	assert.False(t, ok)
	found := false
	for _, e := range errs {
		if e.Path == "displayName" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestValidateFull_ExtensionAttributesNested(t *testing.T) {
	ok, errs := ValidateFull(map[string]interface{}{
		"schemas": []interface{}{
			"urn:ietf:params:scim:schemas:core:2.0:User",
			"urn:ietf:params:scim:schemas:extension:enterprise:2.0:User",
		},
		"userName": "carol",
		"urn:ietf:params:scim:schemas:extension:enterprise:2.0:User": "not-an-object",
	})
	assert.False(t, ok)
	require.NotEmpty(t, errs)
}

func TestValidatePatch_DuplicatePathRejected(t *testing.T) {
	ok, errs := ValidatePatch(map[string]interface{}{
		"schemas": []interface{}{"urn:ietf:params:scim:api:messages:2.0:PatchOp"},
		"Operations": []interface{}{
			map[string]interface{}{"op": "replace", "path": "displayName", "value": "A"},
			map[string]interface{}{"op": "replace", "path": "displayName", "value": "B"},
		},
	})
	assert.False(t, ok)
	found := false
	for _, e := range errs {
		if containsBoth(e.Message, "duplicate", "displayName") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestValidatePatch_RemoveRequiresPath(t *testing.T) {
	ok, errs := ValidatePatch(map[string]interface{}{
		"schemas": []interface{}{"urn:ietf:params:scim:api:messages:2.0:PatchOp"},
		"Operations": []interface{}{
			map[string]interface{}{"op": "remove"},
		},
	})
	assert.False(t, ok)
	require.NotEmpty(t, errs)
}

func TestValidatePatch_AddRequiresValue(t *testing.T) {
	ok, errs := ValidatePatch(map[string]interface{}{
		"schemas": []interface{}{"urn:ietf:params:scim:api:messages:2.0:PatchOp"},
		"Operations": []interface{}{
			map[string]interface{}{"op": "add", "path": "nickName"},
		},
	})
	assert.False(t, ok)
	require.NotEmpty(t, errs)
}

func TestValidatePatch_Valid(t *testing.T) {
	ok, errs := ValidatePatch(map[string]interface{}{
		"schemas": []interface{}{"urn:ietf:params:scim:api:messages:2.0:PatchOp"},
		"Operations": []interface{}{
			map[string]interface{}{"op": "replace", "path": "displayName", "value": "New Name"},
		},
	})
	assert.True(t, ok)
	assert.Empty(t, errs)
}

func containsBoth(s, a, b string) bool {
	return containsSub(s, a) && containsSub(s, b)
}

func containsSub(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
