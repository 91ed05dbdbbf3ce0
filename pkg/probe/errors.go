package probe

import (
	"net/http"

	"github.com/thomaselliottbetz/scim-sanity/pkg/serverval"
	"github.com/thomaselliottbetz/scim-sanity/pkg/spec"
	"github.com/thomaselliottbetz/scim-sanity/pkg/transport"
)

const phaseErrorHandling = "Phase 7 — Error Handling"

// testErrorHandling verifies that the server returns proper SCIM error
// responses for 404 and 400 scenarios.
func testErrorHandling(client *transport.Transport, rv *serverval.Validator) []Result {
	var results []Result

	results = append(results, errorScenario(client, rv, http.MethodGet, "/Users/nonexistent-id-000000", nil,
		"GET /Users/nonexistent (expect 404)", http.StatusNotFound)...)

	results = append(results, errorScenario(client, rv, http.MethodPost, "/Users",
		map[string]interface{}{"not": "a scim resource"},
		"POST /Users invalid body (expect 400)", http.StatusBadRequest)...)

	results = append(results, errorScenario(client, rv, http.MethodPost, "/Users",
		map[string]interface{}{"schemas": []interface{}{spec.UserSchemaURN}},
		"POST /Users missing userName (expect 400)", http.StatusBadRequest)...)

	return results
}

func errorScenario(client *transport.Transport, rv *serverval.Validator, method, path string, payload map[string]interface{}, name string, expectedStatus int) []Result {
	var resp *transport.Response
	var err error
	switch method {
	case http.MethodGet:
		resp, err = client.Get(path)
	case http.MethodPost:
		resp, err = client.Post(path, payload)
	}
	if err != nil {
		return []Result{{Name: name, Status: StatusError, Message: err.Error(), Phase: phaseErrorHandling}}
	}

	data, _ := resp.JSON()
	ok, errs := rv.ValidateError(data, expectedStatus, resp.Status)
	return validationResults(name, phaseErrorHandling, ok, errs, "")
}
