// Package probe orchestrates the live conformance probe: a 7-phase CRUD
// lifecycle test harness run against a real SCIM service provider, plus the
// report formatter that renders its findings.
package probe

// Status is the outcome of a single probe check.
type Status string

const (
	StatusPass  Status = "pass"
	StatusFail  Status = "fail"
	StatusWarn  Status = "warn"
	StatusSkip  Status = "skip"
	StatusError Status = "error"
)

// Result is a single conformance test result, grouped for display by Phase.
type Result struct {
	Name    string
	Status  Status
	Message string
	Details string
	Phase   string
}

type resultJSON struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Details string `json:"details,omitempty"`
	Phase   string `json:"phase,omitempty"`
}

func (r Result) toJSON() resultJSON {
	return resultJSON{
		Name:    r.Name,
		Status:  string(r.Status),
		Message: r.Message,
		Details: r.Details,
		Phase:   r.Phase,
	}
}

// summary holds the pass/fail/warn/skip/error counts over a Result set.
type summary struct {
	total, passed, failed, warned, skipped, errored int
}

func summarize(results []Result) summary {
	s := summary{total: len(results)}
	for _, r := range results {
		switch r.Status {
		case StatusPass:
			s.passed++
		case StatusFail:
			s.failed++
		case StatusWarn:
			s.warned++
		case StatusSkip:
			s.skipped++
		case StatusError:
			s.errored++
		}
	}
	return s
}

// HasFailures reports whether any FAIL or ERROR result is present — the
// only statuses that drive the probe's non-zero exit code. WARN and SKIP
// never do.
func HasFailures(results []Result) bool {
	for _, r := range results {
		if r.Status == StatusFail || r.Status == StatusError {
			return true
		}
	}
	return false
}
