package probe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize_CountsEachStatus(t *testing.T) {
	results := []Result{
		{Status: StatusPass},
		{Status: StatusPass},
		{Status: StatusFail},
		{Status: StatusWarn},
		{Status: StatusSkip},
		{Status: StatusError},
	}
	s := summarize(results)
	assert.Equal(t, 6, s.total)
	assert.Equal(t, 2, s.passed)
	assert.Equal(t, 1, s.failed)
	assert.Equal(t, 1, s.warned)
	assert.Equal(t, 1, s.skipped)
	assert.Equal(t, 1, s.errored)
}

func TestHasFailures_TrueOnFailOrError(t *testing.T) {
	assert.True(t, HasFailures([]Result{{Status: StatusFail}}))
	assert.True(t, HasFailures([]Result{{Status: StatusError}}))
	assert.False(t, HasFailures([]Result{{Status: StatusPass}, {Status: StatusWarn}, {Status: StatusSkip}}))
	assert.False(t, HasFailures(nil))
}
