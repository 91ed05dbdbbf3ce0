// Package factory generates minimal, spec-conformant SCIM payloads for use
// by the probe orchestrator. Every generated value is namespaced with the
// "scim-sanity-test-" prefix so probe-created resources are trivially
// identifiable and never collide with real data on a live server.
package factory

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/thomaselliottbetz/scim-sanity/pkg/spec"
)

const prefix = "scim-sanity-test-"

// uniqueSuffix generates an 8-character hex suffix for unique test values.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// MakeUser generates a minimal valid User payload with a unique userName and
// email, plus name/displayName/active/emails to exercise common server-side
// attribute handling during the CRUD lifecycle.
func MakeUser() map[string]interface{} {
	suffix := uniqueSuffix()
	userName := fmt.Sprintf("%s%s@example.com", prefix, suffix)
	return map[string]interface{}{
		"schemas":  []interface{}{spec.UserSchemaURN},
		"userName": userName,
		"name": map[string]interface{}{
			"givenName":  "SCIMSanity",
			"familyName": fmt.Sprintf("Test-%s", suffix),
		},
		"displayName": fmt.Sprintf("SCIM Sanity Test User %s", suffix),
		"active":      true,
		"emails": []interface{}{
			map[string]interface{}{
				"value":   userName,
				"type":    "work",
				"primary": true,
			},
		},
	}
}

// MakeGroup generates a minimal valid Group payload with a unique
// displayName. members, if non-empty, is attached as the Group's members
// array.
func MakeGroup(members []interface{}) map[string]interface{} {
	payload := map[string]interface{}{
		"schemas":     []interface{}{spec.GroupSchemaURN},
		"displayName": fmt.Sprintf("%sgroup-%s", prefix, uniqueSuffix()),
	}
	if len(members) > 0 {
		payload["members"] = members
	}
	return payload
}

// MakeAgent generates a minimal valid Agent payload per the draft agent
// extension, with displayName and active beyond the required name to
// exercise common attribute handling.
func MakeAgent() map[string]interface{} {
	suffix := uniqueSuffix()
	return map[string]interface{}{
		"schemas":     []interface{}{spec.AgentSchemaURN},
		"name":        fmt.Sprintf("%sagent-%s", prefix, suffix),
		"displayName": fmt.Sprintf("SCIM Sanity Test Agent %s", suffix),
		"active":      true,
	}
}

// MakeAgenticApplication generates a minimal valid AgenticApplication
// payload.
func MakeAgenticApplication() map[string]interface{} {
	suffix := uniqueSuffix()
	return map[string]interface{}{
		"schemas":     []interface{}{spec.AgenticApplicationSchemaURN},
		"name":        fmt.Sprintf("%sapp-%s", prefix, suffix),
		"displayName": fmt.Sprintf("SCIM Sanity Test App %s", suffix),
		"active":      true,
	}
}

// MakePatch wraps operations in a SCIM PatchOp payload.
func MakePatch(operations []interface{}) map[string]interface{} {
	return map[string]interface{}{
		"schemas":    []interface{}{spec.PatchOpSchemaURN},
		"Operations": operations,
	}
}

// UpdateUserDisplayName returns a shallow copy of a user payload with
// displayName changed. The caller's original payload is never mutated.
func UpdateUserDisplayName(original map[string]interface{}, newName string) map[string]interface{} {
	updated := make(map[string]interface{}, len(original)+1)
	for k, v := range original {
		updated[k] = v
	}
	updated["displayName"] = newName
	return updated
}
