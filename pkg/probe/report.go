package probe

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-isatty"
)

var ansiColors = map[string]string{
	"red":    "\033[91m",
	"green":  "\033[92m",
	"yellow": "\033[93m",
	"cyan":   "\033[96m",
	"bold":   "\033[1m",
	"dim":    "\033[2m",
	"reset":  "\033[0m",
}

type statusDisplay struct {
	symbol string
	color  string
}

var statusSymbols = map[Status]statusDisplay{
	StatusPass:  {"PASS", "green"},
	StatusFail:  {"FAIL", "red"},
	StatusWarn:  {"WARN", "yellow"},
	StatusSkip:  {"SKIP", "yellow"},
	StatusError: {"ERR ", "red"},
}

// scimSanityVersion is reported in the JSON output's scim_sanity_version
// field, matching the version the Python original reports via
// click.version_option.
const scimSanityVersion = "0.5.1"

// PrintResults renders the full probe report to w, in terminal or JSON
// format, followed by the Fix Summary when any result matches a recognized
// non-conformance pattern. isTTY gates ANSI color in terminal mode. mode and
// timestamp are only used by the JSON report (scim_sanity_version/mode/
// timestamp envelope fields); timestamp is supplied by the caller rather
// than taken via time.Now() here, so a probe run is reproducible in tests.
func PrintResults(w io.Writer, results []Result, jsonOutput bool, isTTY bool, mode, timestamp string) {
	fixes := BuildFixSummary(results)
	if jsonOutput {
		printJSON(w, results, fixes, mode, timestamp)
		return
	}
	printTerminal(w, results, isTTY)
	printFixSummaryTerminal(w, fixes, isTTY)
}

// IsOutputTTY reports whether fd is a terminal, for deciding ANSI color use
// the same way the probe's Python original checks sys.stdout.isatty().
func IsOutputTTY(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func colorize(text, color string, isTTY bool) string {
	if !isTTY {
		return text
	}
	code, ok := ansiColors[color]
	if !ok {
		return text
	}
	return code + text + ansiColors["reset"]
}

func printTerminal(w io.Writer, results []Result, isTTY bool) {
	s := summarize(results)

	fmt.Fprintln(w)
	fmt.Fprintln(w, colorize("SCIM Server Conformance Probe", "bold", isTTY))
	fmt.Fprintln(w, colorize(strings.Repeat("=", 50), "dim", isTTY))

	currentPhase := ""
	for _, r := range results {
		if r.Phase != "" && r.Phase != currentPhase {
			currentPhase = r.Phase
			fmt.Fprintln(w)
			fmt.Fprintln(w, colorize("  "+currentPhase, "cyan", isTTY))
			fmt.Fprintln(w, colorize("  "+strings.Repeat("-", 40), "dim", isTTY))
		}

		display, ok := statusSymbols[r.Status]
		if !ok {
			display = statusDisplay{"???", "dim"}
		}
		fmt.Fprintf(w, "  [%s] %s\n", colorize(display.symbol, display.color, isTTY), r.Name)
		if r.Message != "" {
			fmt.Fprintf(w, "         %s\n", colorize(r.Message, "dim", isTTY))
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, colorize(strings.Repeat("=", 50), "dim", isTTY))

	var parts []string
	if s.passed > 0 {
		parts = append(parts, colorize(fmt.Sprintf("%d passed", s.passed), "green", isTTY))
	}
	if s.failed > 0 {
		parts = append(parts, colorize(fmt.Sprintf("%d failed", s.failed), "red", isTTY))
	}
	if s.errored > 0 {
		parts = append(parts, colorize(fmt.Sprintf("%d errors", s.errored), "red", isTTY))
	}
	if s.warned > 0 {
		parts = append(parts, colorize(fmt.Sprintf("%d warnings", s.warned), "yellow", isTTY))
	}
	if s.skipped > 0 {
		parts = append(parts, colorize(fmt.Sprintf("%d skipped", s.skipped), "yellow", isTTY))
	}
	parts = append(parts, fmt.Sprintf("%d total", s.total))

	fmt.Fprintln(w, "  "+strings.Join(parts, ", "))
	fmt.Fprintln(w)
}

type jsonReport struct {
	ScimSanityVersion string          `json:"scim_sanity_version"`
	Mode              string          `json:"mode"`
	Timestamp         string          `json:"timestamp"`
	Summary           jsonSummary     `json:"summary"`
	Issues            []FixSuggestion `json:"issues"`
	Results           []resultJSON    `json:"results"`
}

type jsonSummary struct {
	Total    int `json:"total"`
	Passed   int `json:"passed"`
	Failed   int `json:"failed"`
	Warnings int `json:"warnings"`
	Skipped  int `json:"skipped"`
	Errors   int `json:"errors"`
}

func printJSON(w io.Writer, results []Result, fixes []FixSuggestion, mode, timestamp string) {
	s := summarize(results)
	if fixes == nil {
		fixes = []FixSuggestion{}
	}
	out := jsonReport{
		ScimSanityVersion: scimSanityVersion,
		Mode:              mode,
		Timestamp:         timestamp,
		Summary: jsonSummary{
			Total:    s.total,
			Passed:   s.passed,
			Failed:   s.failed,
			Warnings: s.warned,
			Skipped:  s.skipped,
			Errors:   s.errored,
		},
		Issues:  fixes,
		Results: make([]resultJSON, 0, len(results)),
	}
	for _, r := range results {
		out.Results = append(out.Results, r.toJSON())
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
}

// printFixSummaryTerminal renders the prioritized Fix Summary after the main
// terminal report, when any recognized non-conformance pattern was found.
func printFixSummaryTerminal(w io.Writer, fixes []FixSuggestion, isTTY bool) {
	if len(fixes) == 0 {
		return
	}

	fmt.Fprintln(w, colorize("  Fix Summary", "bold", isTTY))
	fmt.Fprintln(w, colorize("  "+strings.Repeat("-", 40), "dim", isTTY))
	for i, f := range fixes {
		fmt.Fprintf(w, "  %d. %s\n", i+1, f.Pattern)
		fmt.Fprintf(w, "     %s\n", colorize(f.Fix, "dim", isTTY))
	}
	fmt.Fprintln(w)
}
