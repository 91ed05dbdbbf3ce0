package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/thomaselliottbetz/scim-sanity/pkg/validator"
)

// validateAndReport reads a SCIM JSON document from r, validates it as a
// full resource or a PATCH operation, and prints a human-readable result to
// w. Returns the process exit code: 0 valid, 1 invalid or unreadable.
func validateAndReport(w io.Writer, r io.Reader, patch bool) int {
	var doc map[string]interface{}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		printValidationError(w, fmt.Sprintf("Invalid JSON: %v", err), "", 0)
		return 1
	}

	var ok bool
	var errs []validator.ValidationError
	if patch {
		ok, errs = validator.ValidatePatch(doc)
	} else {
		ok, errs = validator.ValidateFull(doc)
	}

	if ok {
		kind := "SCIM resource"
		if patch {
			kind = "PATCH operation"
		}
		fmt.Fprintln(w, colorize(fmt.Sprintf("Valid %s", kind), "green", isTTYWriter(w)))
		return 0
	}

	fmt.Fprintln(w, colorize(fmt.Sprintf("\nFound %d error(s):\n", len(errs)), "bold", isTTYWriter(w)))
	for _, e := range errs {
		printValidationError(w, e.Message, e.Path, e.Line)
	}
	return 1
}

func printValidationError(w io.Writer, message, path string, line int) {
	loc := ""
	if path != "" {
		loc = " at " + path
	}
	lineInfo := ""
	if line > 0 {
		lineInfo = fmt.Sprintf(" (line %d)", line)
	}
	fmt.Fprintln(w, colorize(fmt.Sprintf("FAIL %s%s%s", message, loc, lineInfo), "red", isTTYWriter(w)))
}

// validateFile opens path and runs validateAndReport over its contents.
func validateFile(w io.Writer, path string, patch bool) int {
	f, err := os.Open(path)
	if err != nil {
		printValidationError(w, fmt.Sprintf("File not found: %s", path), "", 0)
		return 1
	}
	defer f.Close()
	return validateAndReport(w, f, patch)
}
