package probe

import (
	"net/http"
	"net/url"

	"github.com/thomaselliottbetz/scim-sanity/pkg/serverval"
	"github.com/thomaselliottbetz/scim-sanity/pkg/transport"
)

const phaseSearch = "Phase 6 — Search"

// testSearch exercises list/search endpoints for ListResponse structure,
// filtering, and pagination.
func testSearch(client *transport.Transport, rv *serverval.Validator) []Result {
	var results []Result

	results = append(results, testBasicList(client, rv)...)
	results = append(results, testFilterNoMatch(client)...)
	results = append(results, testPagination(client)...)
	results = append(results, testCountZeroBoundary(client)...)

	return results
}

func testBasicList(client *transport.Transport, rv *serverval.Validator) []Result {
	name := "GET /Users (ListResponse)"
	resp, err := client.Get("/Users")
	if err != nil {
		return []Result{{Name: name, Status: StatusError, Message: err.Error(), Phase: phaseSearch}}
	}
	data, _ := resp.JSON()
	ok, errs := rv.ValidateList(data, resp.Status)
	return validationResults(name, phaseSearch, ok, errs, "")
}

func testFilterNoMatch(client *transport.Transport) []Result {
	name := "GET /Users?filter (no match)"
	filterVal := url.QueryEscape(`userName eq "nonexistent@test.invalid"`)
	resp, err := client.Get("/Users?filter=" + filterVal)
	if err != nil {
		return []Result{{Name: name, Status: StatusError, Message: err.Error(), Phase: phaseSearch}}
	}

	data, _ := resp.JSON()

	switch {
	case resp.Status == http.StatusOK && data != nil && isJSONIntegerValue(data["totalResults"]) && data["totalResults"].(float64) == 0:
		return []Result{{Name: name, Status: StatusPass, Phase: phaseSearch}}
	case resp.Status == http.StatusOK:
		return []Result{{Name: name, Status: StatusPass, Message: "Filter returned results (server may ignore filter)", Phase: phaseSearch}}
	case resp.Status == http.StatusBadRequest:
		return []Result{{Name: name, Status: StatusWarn, Message: "Server rejected filter with 400 (partial filter support)", Phase: phaseSearch}}
	default:
		return []Result{{Name: name, Status: StatusFail, Message: "Expected 200, got a different status", Phase: phaseSearch}}
	}
}

func testPagination(client *transport.Transport) []Result {
	name := "GET /Users?startIndex=1&count=1"
	resp, err := client.Get("/Users?startIndex=1&count=1")
	if err != nil {
		return []Result{{Name: name, Status: StatusError, Message: err.Error(), Phase: phaseSearch}}
	}
	if resp.Status != http.StatusOK {
		return []Result{{Name: name, Status: StatusFail, Message: "Expected 200, got a different status", Phase: phaseSearch}}
	}

	results := []Result{{Name: name, Status: StatusPass, Phase: phaseSearch}}

	data, _ := resp.JSON()
	if data != nil {
		if items, present := data["itemsPerPage"]; present && isJSONIntegerValue(items) && items.(float64) > 1 {
			results = append(results, Result{
				Name:    "Pagination: itemsPerPage honors count",
				Status:  StatusWarn,
				Message: "Requested count=1 but itemsPerPage exceeds it",
				Phase:   phaseSearch,
			})
		}
	}
	return results
}

func testCountZeroBoundary(client *transport.Transport) []Result {
	name := "GET /Users?count=0 (boundary)"
	resp, err := client.Get("/Users?count=0")
	if err != nil {
		return []Result{{Name: name, Status: StatusError, Message: err.Error(), Phase: phaseSearch}}
	}
	if resp.Status != http.StatusOK {
		return []Result{{Name: name, Status: StatusWarn, Message: "Expected 200, got a different status", Phase: phaseSearch}}
	}

	data, _ := resp.JSON()
	if data != nil {
		if resources, ok := data["Resources"].([]interface{}); ok && len(resources) == 0 {
			return []Result{{Name: name, Status: StatusPass, Phase: phaseSearch}}
		}
	}
	return []Result{{Name: name, Status: StatusWarn, Message: "count=0 should return no Resources", Phase: phaseSearch}}
}

// isJSONIntegerValue mirrors serverval's isJSONInteger check locally since
// that helper is unexported across package boundaries.
func isJSONIntegerValue(v interface{}) bool {
	f, ok := v.(float64)
	if !ok {
		return false
	}
	return f == float64(int64(f))
}
