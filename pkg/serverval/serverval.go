// Package serverval implements the inbound response validator: it checks
// that a SCIM service provider's HTTP responses conform to RFC 7643/7644,
// the inverse check of pkg/validator's outbound payload validation.
package serverval

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/thomaselliottbetz/scim-sanity/pkg/spec"
)

// Severity classifies a ServerValidationError. Warn is informational; every
// other error, whether marked Fail or left with no Severity as the
// always-fail checks are, flips a validation result to invalid.
type Severity string

const (
	Fail Severity = "fail"
	Warn Severity = "warn"
)

// ServerValidationError locates a single conformance finding in a server
// response.
type ServerValidationError struct {
	Message  string
	Path     string
	Severity Severity
}

func (e ServerValidationError) Error() string {
	prefix := ""
	if e.Severity == Warn {
		prefix = "[WARN] "
	}
	if e.Path == "" {
		return prefix + e.Message
	}
	return fmt.Sprintf("%s%s at %s", prefix, e.Message, e.Path)
}

// Validator checks SCIM server responses for conformance. In compat mode
// (Strict: false), known real-world deviations are downgraded from Fail to
// Warn and no longer flip a check's result to invalid.
type Validator struct {
	Strict bool
}

// New constructs a Validator. strict selects RFC-strict (true) or
// real-world-compat (false) severity for known deviations.
func New(strict bool) *Validator {
	return &Validator{Strict: strict}
}

// sev determines the severity for a check. isStrictOnly checks are FAIL in
// strict mode but downgrade to WARN in compat mode; other checks are always
// FAIL.
func (v *Validator) sev(isStrictOnly bool) Severity {
	if isStrictOnly && !v.Strict {
		return Warn
	}
	return Fail
}

func isValid(errs []ServerValidationError) bool {
	for _, e := range errs {
		if e.Severity != Warn {
			return false
		}
	}
	return true
}

// ValidateResource validates a server response containing a single SCIM
// resource: status code, Content-Type, schemas/id/meta presence, writeOnly
// absence, Location-on-201, and ETag/meta.version consistency.
func (v *Validator) ValidateResource(data map[string]interface{}, expectedStatus, actualStatus int, header http.Header, resourceType string) (bool, []ServerValidationError) {
	var errs []ServerValidationError

	if actualStatus != expectedStatus {
		errs = append(errs, ServerValidationError{Message: fmt.Sprintf("Expected HTTP %d, got %d", expectedStatus, actualStatus)})
		if actualStatus >= 400 {
			return isValid(errs), errs
		}
	}

	if data == nil {
		if expectedStatus != 204 {
			errs = append(errs, ServerValidationError{Message: "Response body is empty"})
		}
		return isValid(errs), errs
	}

	if header != nil {
		if ct := header.Get("Content-Type"); ct != "" {
			switch {
			case strings.Contains(ct, "application/scim+json"):
				// correct per spec
			case strings.Contains(ct, "application/json"):
				errs = append(errs, ServerValidationError{
					Message:  fmt.Sprintf("Content-Type should be application/scim+json, got '%s'", ct),
					Severity: v.sev(true),
				})
			default:
				errs = append(errs, ServerValidationError{Message: fmt.Sprintf("Content-Type should be application/scim+json, got '%s'", ct)})
			}
		}
	}

	schemas, ok := asStringList(data["schemas"])
	if !ok || len(schemas) == 0 {
		errs = append(errs, ServerValidationError{Message: "Response missing 'schemas' array"})
		return false, errs
	}

	if _, present := data["id"]; !present {
		errs = append(errs, ServerValidationError{Message: "Server response missing required attribute 'id'"})
	}

	meta, metaIsObject := data["meta"].(map[string]interface{})
	if data["meta"] == nil {
		errs = append(errs, ServerValidationError{Message: "Server response missing required attribute 'meta'"})
	} else if metaIsObject {
		for _, field := range []string{"resourceType", "created", "lastModified"} {
			if _, present := meta[field]; !present {
				errs = append(errs, ServerValidationError{Message: fmt.Sprintf("meta.%s must be present in server response", field), Path: "meta." + field})
			}
		}

		if version, present := meta["version"]; present {
			if _, ok := version.(string); !ok {
				errs = append(errs, ServerValidationError{Message: fmt.Sprintf("meta.version must be a string, got %T", version), Path: "meta.version"})
			}
		}
	}

	if header != nil && metaIsObject {
		if etag := header.Get("ETag"); etag != "" {
			if version, ok := meta["version"].(string); ok && version != "" {
				if strings.Trim(etag, `"`) != strings.Trim(version, `"`) {
					errs = append(errs, ServerValidationError{
						Message:  fmt.Sprintf("ETag header '%s' does not match meta.version '%s'", etag, version),
						Severity: v.sev(true),
					})
				}
			}
		}
	}

	if actualStatus == 201 && header != nil && metaIsObject {
		locHeader := header.Get("Location")
		metaLoc, _ := meta["location"].(string)
		switch {
		case locHeader != "" && metaLoc != "" && locHeader != metaLoc:
			errs = append(errs, ServerValidationError{
				Message:  fmt.Sprintf("Location header '%s' does not match meta.location '%s'", locHeader, metaLoc),
				Severity: v.sev(true),
			})
		case locHeader == "":
			errs = append(errs, ServerValidationError{Message: "Location header should be present on 201 Created", Severity: v.sev(true)})
		}
	}

	v.checkWriteOnly(data, schemas, &errs)

	if resourceType != "" && metaIsObject {
		v.checkResourceTypeMatch(meta, resourceType, &errs)
	}

	return isValid(errs), errs
}

// ValidateList validates a ListResponse, per RFC 7644 Section 3.4.2.
func (v *Validator) ValidateList(data map[string]interface{}, actualStatus int) (bool, []ServerValidationError) {
	var errs []ServerValidationError

	if actualStatus != 200 {
		errs = append(errs, ServerValidationError{Message: fmt.Sprintf("Expected HTTP 200 for list, got %d", actualStatus)})
	}

	if data == nil {
		errs = append(errs, ServerValidationError{Message: "Response body is empty"})
		return false, errs
	}

	schemas, _ := asStringList(data["schemas"])
	if !containsURN(schemas, spec.ListResponseSchemaURN) {
		errs = append(errs, ServerValidationError{Message: fmt.Sprintf("ListResponse must include schema '%s'", spec.ListResponseSchemaURN)})
	}

	if total, present := data["totalResults"]; !present {
		errs = append(errs, ServerValidationError{Message: "ListResponse missing required attribute 'totalResults'"})
	} else if !isJSONInteger(total) {
		errs = append(errs, ServerValidationError{Message: fmt.Sprintf("totalResults must be an integer, got %T", total), Severity: v.sev(true)})
	}

	if resources, present := data["Resources"]; present {
		if _, ok := resources.([]interface{}); !ok {
			errs = append(errs, ServerValidationError{Message: "'Resources' must be an array"})
		}
	}

	for _, field := range []string{"startIndex", "itemsPerPage"} {
		if val, present := data[field]; present && !isJSONInteger(val) {
			errs = append(errs, ServerValidationError{Message: fmt.Sprintf("'%s' must be an integer", field), Severity: v.sev(true)})
		}
	}

	return isValid(errs), errs
}

// ValidateError validates a SCIM error response, per RFC 7644 Section 3.12.
func (v *Validator) ValidateError(data map[string]interface{}, expectedStatus, actualStatus int) (bool, []ServerValidationError) {
	var errs []ServerValidationError

	if actualStatus != expectedStatus {
		errs = append(errs, ServerValidationError{Message: fmt.Sprintf("Expected HTTP %d, got %d", expectedStatus, actualStatus)})
	}

	if data == nil {
		errs = append(errs, ServerValidationError{Message: "Error response body is empty", Severity: v.sev(true)})
		return isValid(errs), errs
	}

	schemas, _ := asStringList(data["schemas"])
	if !containsURN(schemas, spec.ErrorSchemaURN) {
		errs = append(errs, ServerValidationError{Message: fmt.Sprintf("Error response must include schema '%s'", spec.ErrorSchemaURN), Severity: v.sev(true)})
	}

	if _, present := data["status"]; !present {
		errs = append(errs, ServerValidationError{Message: "Error response missing required attribute 'status'", Severity: v.sev(true)})
	}

	return isValid(errs), errs
}

// ValidateDelete validates a DELETE response, per RFC 7644 Section 3.6
// (expect 204 No Content).
func (v *Validator) ValidateDelete(actualStatus int, body string) (bool, []ServerValidationError) {
	var errs []ServerValidationError

	if actualStatus != 204 {
		errs = append(errs, ServerValidationError{Message: fmt.Sprintf("Expected HTTP 204 for DELETE, got %d", actualStatus)})
	}
	if strings.TrimSpace(body) != "" {
		errs = append(errs, ServerValidationError{Message: "DELETE 204 response should have no body", Severity: v.sev(true)})
	}

	return isValid(errs), errs
}

// checkWriteOnly verifies that attributes marked returned:never or
// mutability:writeOnly (e.g. password) never appear in a response.
func (v *Validator) checkWriteOnly(data map[string]interface{}, schemas []string, errs *[]ServerValidationError) {
	for _, urn := range schemas {
		schema, ok := spec.Schemas().Get(urn)
		if !ok {
			continue
		}

		isExtension := isExtensionURN(urn)
		checkData := data
		if isExtension {
			nested, ok := data[urn].(map[string]interface{})
			if !ok {
				continue
			}
			checkData = nested
		}

		for _, attr := range schema.Attributes {
			if attr.Returned != spec.ReturnedNever && attr.Mutability != spec.MutabilityWriteOnly {
				continue
			}
			if _, present := checkData[attr.Name]; present {
				*errs = append(*errs, ServerValidationError{
					Message: fmt.Sprintf("writeOnly attribute '%s' must not appear in server response", attr.Name),
					Path:    attr.Name,
				})
			}
		}
	}
}

func (v *Validator) checkResourceTypeMatch(meta map[string]interface{}, expectedType string, errs *[]ServerValidationError) {
	rt, _ := meta["resourceType"].(string)
	if rt != "" && rt != expectedType {
		*errs = append(*errs, ServerValidationError{
			Message: fmt.Sprintf("meta.resourceType '%s' does not match expected '%s'", rt, expectedType),
			Path:    "meta.resourceType",
		})
	}
}

func containsURN(schemas []string, urn string) bool {
	for _, s := range schemas {
		if s == urn {
			return true
		}
	}
	return false
}

func isExtensionURN(urn string) bool {
	const prefix = "urn:ietf:params:scim:schemas:extension:"
	return strings.HasPrefix(urn, prefix)
}

func asStringList(raw interface{}) ([]string, bool) {
	list, ok := raw.([]interface{})
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

// isJSONInteger reports whether a value decoded from encoding/json (as
// float64 via map[string]interface{}) represents a whole number.
func isJSONInteger(v interface{}) bool {
	f, ok := v.(float64)
	if !ok {
		return false
	}
	return f == float64(int64(f))
}
