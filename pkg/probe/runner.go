package probe

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/thomaselliottbetz/scim-sanity/pkg/serverval"
	"github.com/thomaselliottbetz/scim-sanity/pkg/transport"
)

// TestPrefix namespaces every resource the probe creates, so operators can
// recognize and purge them even if cleanup is skipped or fails partway.
const TestPrefix = "scim-sanity-test-"

// MaxRapidAgents caps the Agent Rapid Lifecycle phase to prevent runaway
// resource creation against a production server.
const MaxRapidAgents = 10

// Options configures a single probe run.
type Options struct {
	BaseURL           string
	Token             string
	Username          string
	Password          string
	TLSNoVerify       bool
	SkipCleanup       bool
	JSONOutput        bool
	ResourceFilter    string
	Strict            bool
	AcceptSideEffects bool
	Timeout           time.Duration
	RapidAgentCount   int
	Proxy             string
	CABundle          string

	// Timestamp is stamped into the JSON report's timestamp field as-is.
	// Run never calls time.Now() itself, so a run's JSON output is
	// reproducible in tests; cmd/scimsanity supplies the real wall-clock
	// time when invoking Run from the probe subcommand.
	Timestamp string
}

// modeString renders opts.Strict as the JSON report's mode field.
func modeString(strict bool) string {
	if strict {
		return "strict"
	}
	return "compat"
}

// Run executes the full conformance probe against opts.BaseURL and writes
// its report to w. It returns an exit code: 0 if every check passed (warnings
// and skips are fine), 1 if any check failed, errored, or side-effect
// consent was withheld.
func Run(w io.Writer, isTTY bool, opts Options) int {
	if !opts.AcceptSideEffects {
		printSideEffectWarning(w, opts.BaseURL, opts.ResourceFilter, opts.JSONOutput)
		return 1
	}

	rapidAgentCount := opts.RapidAgentCount
	if rapidAgentCount <= 0 || rapidAgentCount > MaxRapidAgents {
		rapidAgentCount = MaxRapidAgents
	}

	client, err := transport.New(transport.Options{
		BaseURL:     opts.BaseURL,
		Token:       opts.Token,
		Username:    opts.Username,
		Password:    opts.Password,
		TLSNoVerify: opts.TLSNoVerify,
		Timeout:     opts.Timeout,
		Proxy:       opts.Proxy,
		CABundle:    opts.CABundle,
	})
	if err != nil {
		fmt.Fprintf(w, "error: %v\n", err)
		return 1
	}

	rv := serverval.New(opts.Strict)

	var results []Result
	var created []CreatedResource

	results = append(results, testDiscovery(client, rv)...)

	supported := discoverSupportedResources(client)
	requested := supported
	if opts.ResourceFilter != "" {
		requested = map[string]bool{opts.ResourceFilter: true}
	}

	if requested["User"] {
		results = append(results, testUserLifecycle(client, rv, &created)...)
	} else {
		results = append(results, Result{Name: "User CRUD Lifecycle", Status: StatusSkip, Message: "User not in scope", Phase: phaseUserCRUD})
	}

	if requested["Group"] {
		results = append(results, testGroupLifecycle(client, rv, &created)...)
	} else {
		results = append(results, Result{Name: "Group CRUD Lifecycle", Status: StatusSkip, Message: "Group not in scope", Phase: phaseGroupCRUD})
	}

	if requested["Agent"] && supported["Agent"] {
		results = append(results, testAgentLifecycle(client, rv, &created)...)
	} else {
		results = append(results, Result{Name: "Agent CRUD Lifecycle", Status: StatusSkip, Message: "Agent " + skipReason("Agent", requested, supported), Phase: phaseAgentCRUD})
	}

	if requested["AgenticApplication"] && supported["AgenticApplication"] {
		results = append(results, testAgenticApplicationLifecycle(client, rv, &created)...)
	} else {
		results = append(results, Result{
			Name:    "AgenticApplication CRUD Lifecycle",
			Status:  StatusSkip,
			Message: "AgenticApplication " + skipReason("AgenticApplication", requested, supported),
			Phase:   phaseAgenticApplicationCRUD,
		})
	}

	if requested["Agent"] && supported["Agent"] {
		results = append(results, testAgentRapidLifecycle(client, &created, rapidAgentCount)...)
	} else {
		results = append(results, Result{
			Name:    "Agent Rapid Lifecycle",
			Status:  StatusSkip,
			Message: "Agent not supported or not in scope",
			Phase:   phaseAgentRapidLifecycle,
		})
	}

	results = append(results, testSearch(client, rv)...)
	results = append(results, testErrorHandling(client, rv)...)

	if !opts.SkipCleanup && len(created) > 0 {
		results = append(results, cleanup(client, created)...)
	}

	PrintResults(w, results, opts.JSONOutput, isTTY, modeString(opts.Strict), opts.Timestamp)

	if HasFailures(results) {
		return 1
	}
	return 0
}

func skipReason(resourceType string, requested, supported map[string]bool) string {
	if !supported[resourceType] {
		return "not supported by server"
	}
	return "not in scope"
}

const phaseCleanup = "Cleanup"

// cleanup deletes every tracked created resource in reverse order of
// creation, so a resource created later (e.g. a group referencing earlier
// users) is removed before the resources it may reference.
func cleanup(client *transport.Transport, created []CreatedResource) []Result {
	var results []Result
	for i := len(created) - 1; i >= 0; i-- {
		r := created[i]
		name := fmt.Sprintf("DELETE %s/%s", r.Endpoint, r.ID)
		resp, err := client.Delete(r.Endpoint + "/" + r.ID)
		switch {
		case err != nil:
			results = append(results, Result{Name: name, Status: StatusError, Message: err.Error(), Phase: phaseCleanup})
		case resp.Status == http.StatusNoContent:
			results = append(results, Result{Name: name, Status: StatusPass, Phase: phaseCleanup})
		default:
			results = append(results, Result{Name: name, Status: StatusFail, Message: "Expected 204, got a different status", Phase: phaseCleanup})
		}
	}
	return results
}

func printSideEffectWarning(w io.Writer, baseURL, resourceFilter string, jsonOutput bool) {
	resources := resourceFilter
	if resources == "" {
		resources = "User, Group, Agent, AgenticApplication"
	}

	if jsonOutput {
		out := map[string]string{
			"error": "Side-effect consent required",
			"message": fmt.Sprintf(
				"The probe will create, modify, and delete test resources (%s) on %s. "+
					"All test resources use the prefix '%s'. Pass --i-accept-side-effects to proceed.",
				resources, baseURL, TestPrefix),
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
		return
	}

	fmt.Fprintf(w, "\n  The probe will create, modify, and delete test resources\n"+
		"  (%s) on:\n\n"+
		"    %s\n\n"+
		"  All test resources use the prefix '%s'.\n"+
		"  Pass --i-accept-side-effects to proceed.\n",
		resources, baseURL, TestPrefix)
}
