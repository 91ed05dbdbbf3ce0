package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomaselliottbetz/scim-sanity/pkg/validator"
)

func TestMakeUser_PassesValidator(t *testing.T) {
	ok, errs := validator.ValidateFull(MakeUser())
	assert.True(t, ok, "%v", errs)
}

func TestMakeGroup_PassesValidator(t *testing.T) {
	ok, errs := validator.ValidateFull(MakeGroup(nil))
	assert.True(t, ok, "%v", errs)

	withMembers := MakeGroup([]interface{}{
		map[string]interface{}{"value": "user-1"},
	})
	ok, errs = validator.ValidateFull(withMembers)
	assert.True(t, ok, "%v", errs)
}

func TestMakeAgent_PassesValidator(t *testing.T) {
	ok, errs := validator.ValidateFull(MakeAgent())
	assert.True(t, ok, "%v", errs)
}

func TestMakeAgenticApplication_PassesValidator(t *testing.T) {
	ok, errs := validator.ValidateFull(MakeAgenticApplication())
	assert.True(t, ok, "%v", errs)
}

func TestMakePatch_PassesValidator(t *testing.T) {
	payload := MakePatch([]interface{}{
		map[string]interface{}{"op": "replace", "path": "displayName", "value": "New"},
	})
	ok, errs := validator.ValidatePatch(payload)
	assert.True(t, ok, "%v", errs)
}

func TestUniqueSuffix_GeneratesDistinctUsers(t *testing.T) {
	a := MakeUser()
	b := MakeUser()
	assert.NotEqual(t, a["userName"], b["userName"])
}

func TestUpdateUserDisplayName_DoesNotMutateOriginal(t *testing.T) {
	original := MakeUser()
	originalName := original["displayName"]

	updated := UpdateUserDisplayName(original, "Changed Name")

	require.Equal(t, originalName, original["displayName"])
	assert.Equal(t, "Changed Name", updated["displayName"])
}
