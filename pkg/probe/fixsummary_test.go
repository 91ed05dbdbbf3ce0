package probe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildFixSummary_MatchesKnownPatterns(t *testing.T) {
	results := []Result{
		{Status: StatusFail, Message: "Server response missing required attribute 'meta'"},
		{Status: StatusWarn, Message: "Content-Type should be application/scim+json, got 'application/json'"},
		{Status: StatusPass, Message: "unrelated"},
	}
	fixes := BuildFixSummary(results)
	assert.Len(t, fixes, 2)
	assert.Equal(t, "Resource responses omit 'meta'", fixes[0].Pattern)
	assert.Contains(t, fixes[1].Pattern, "application/json")
}

func TestBuildFixSummary_DeduplicatesRepeatedPattern(t *testing.T) {
	results := []Result{
		{Status: StatusFail, Message: "writeOnly attribute 'password' must not appear in server response"},
		{Status: StatusFail, Message: "writeOnly attribute 'secret' must not appear in server response"},
	}
	fixes := BuildFixSummary(results)
	assert.Len(t, fixes, 1)
}

func TestBuildFixSummary_NoMatchesReturnsEmpty(t *testing.T) {
	results := []Result{{Status: StatusPass, Message: "all good"}}
	assert.Empty(t, BuildFixSummary(results))
}

func TestBuildFixSummary_OrdersByPriority(t *testing.T) {
	results := []Result{
		{Status: StatusFail, Message: "does not match meta.version"},
		{Status: StatusFail, Message: "missing required attribute 'id'"},
	}
	fixes := BuildFixSummary(results)
	assert.Len(t, fixes, 2)
	assert.Less(t, fixes[0].Priority, fixes[1].Priority)
}
