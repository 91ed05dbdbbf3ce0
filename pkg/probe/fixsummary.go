package probe

import (
	"sort"
	"strings"
)

// FixSuggestion is one entry in the probe's Fix Summary: a recognized
// non-conformance pattern paired with the concrete remediation an operator
// should apply. Priority orders the summary, lowest first.
type FixSuggestion struct {
	Pattern  string `json:"pattern"`
	Fix      string `json:"fix"`
	Priority int    `json:"priority"`
}

// fixPatterns is the static table of non-conformance patterns the probe
// knows how to recognize and advise on, drawn from the same taxonomy the
// reference server's non-conformance knobs and the response validator's
// checks exercise: missing meta fields, wrong content-type, writeOnly
// leakage, missing Location, ETag mismatch, and duplicate PATCH paths.
var fixPatterns = []struct {
	match    string
	fix      FixSuggestion
}{
	{
		match: "missing required attribute 'id'",
		fix: FixSuggestion{
			Pattern:  "Resource responses omit 'id'",
			Fix:      "Always include the server-assigned 'id' in every resource response, per RFC 7643 Section 3.1.",
			Priority: 1,
		},
	},
	{
		match: "missing required attribute 'meta'",
		fix: FixSuggestion{
			Pattern:  "Resource responses omit 'meta'",
			Fix:      "Include a 'meta' object (resourceType, created, lastModified, location) on every resource response, per RFC 7643 Section 3.1.",
			Priority: 2,
		},
	},
	{
		match: "must be present in server response",
		fix: FixSuggestion{
			Pattern:  "'meta' object is missing required sub-attributes",
			Fix:      "Populate meta.resourceType, meta.created, and meta.lastModified on every resource response, per RFC 7643 Section 3.1.",
			Priority: 3,
		},
	},
	{
		match: "Content-Type should be application/scim+json",
		fix: FixSuggestion{
			Pattern:  "Responses use Content-Type: application/json instead of application/scim+json",
			Fix:      "Set the Content-Type header to 'application/scim+json' on all SCIM responses, per RFC 7644 Section 8.1.",
			Priority: 4,
		},
	},
	{
		match: "must not appear in server response",
		fix: FixSuggestion{
			Pattern:  "writeOnly attributes (e.g. password) leak into responses",
			Fix:      "Strip attributes marked mutability:writeOnly or returned:never before serializing any response, per RFC 7643 Section 7.",
			Priority: 5,
		},
	},
	{
		match: "Location header should be present",
		fix: FixSuggestion{
			Pattern:  "201 Created responses omit the Location header",
			Fix:      "Set the Location header to the new resource's URI on every 201 Created response, per RFC 7644 Section 3.3.",
			Priority: 6,
		},
	},
	{
		match: "does not match meta.version",
		fix: FixSuggestion{
			Pattern:  "ETag header and meta.version disagree",
			Fix:      "Derive the ETag header from the same value stored in meta.version, per RFC 7644 Section 3.14.",
			Priority: 7,
		},
	},
	{
		match: "duplicate path",
		fix: FixSuggestion{
			Pattern:  "PatchOp requests contain duplicate paths",
			Fix:      "Reject PatchOp requests whose Operations contain the same path more than once, per RFC 7644 Section 3.5.2.",
			Priority: 8,
		},
	},
	{
		match: "rejected Content-Type: application/scim+json",
		fix: FixSuggestion{
			Pattern:  "Server rejects application/scim+json request bodies",
			Fix:      "Accept Content-Type: application/scim+json on all write endpoints, per RFC 7644 Section 8.2.",
			Priority: 9,
		},
	},
}

// BuildFixSummary scans results for FAIL and WARN messages matching the
// known non-conformance taxonomy and returns the matched suggestions,
// deduplicated and ordered by priority. Results with no recognized pattern
// contribute nothing — the Fix Summary only ever covers known issues.
func BuildFixSummary(results []Result) []FixSuggestion {
	seen := map[string]bool{}
	var matched []FixSuggestion

	for _, r := range results {
		if r.Status != StatusFail && r.Status != StatusWarn {
			continue
		}
		for _, p := range fixPatterns {
			if !strings.Contains(r.Message, p.match) {
				continue
			}
			if seen[p.fix.Pattern] {
				continue
			}
			seen[p.fix.Pattern] = true
			matched = append(matched, p.fix)
		}
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].Priority < matched[j].Priority })
	return matched
}
