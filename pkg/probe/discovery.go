package probe

import (
	"net/http"
	"strings"

	"github.com/thomaselliottbetz/scim-sanity/pkg/serverval"
	"github.com/thomaselliottbetz/scim-sanity/pkg/transport"
)

const phaseDiscovery = "Phase 1 — Discovery"

// testDiscovery exercises the three SCIM discovery endpoints (RFC 7644
// Section 4), checking each returns 200 with an appropriate Content-Type.
func testDiscovery(client *transport.Transport, rv *serverval.Validator) []Result {
	var results []Result

	endpoints := []struct{ path, name string }{
		{"/ServiceProviderConfig", "GET /ServiceProviderConfig"},
		{"/Schemas", "GET /Schemas"},
		{"/ResourceTypes", "GET /ResourceTypes"},
	}

	for _, ep := range endpoints {
		resp, err := client.Get(ep.path)
		if err != nil {
			results = append(results, Result{Name: ep.name, Status: StatusError, Message: err.Error(), Phase: phaseDiscovery})
			continue
		}

		if resp.Status != http.StatusOK {
			results = append(results, Result{
				Name:    ep.name,
				Status:  StatusFail,
				Message: "Expected 200, got a different status",
				Phase:   phaseDiscovery,
			})
			continue
		}

		ct := resp.Header.Get("Content-Type")
		switch {
		case strings.Contains(ct, "scim+json"):
			results = append(results, Result{Name: ep.name, Status: StatusPass, Phase: phaseDiscovery})
		case strings.Contains(ct, "application/json"):
			results = append(results, Result{Name: ep.name, Status: StatusPass, Phase: phaseDiscovery})
			if rv.Strict {
				results = append(results, Result{
					Name:    ep.name,
					Status:  StatusWarn,
					Message: "Content-Type should be application/scim+json, got '" + ct + "'",
					Phase:   phaseDiscovery,
				})
			}
		default:
			results = append(results, Result{
				Name:    ep.name,
				Status:  StatusFail,
				Message: "Content-Type should be application/scim+json, got '" + ct + "'",
				Phase:   phaseDiscovery,
			})
		}
	}

	return results
}

// discoverSupportedResources queries /ResourceTypes to learn which resource
// types the server supports, falling back to {User, Group} (the two
// resource types RFC 7644 requires) if the endpoint is unavailable.
func discoverSupportedResources(client *transport.Transport) map[string]bool {
	fallback := map[string]bool{"User": true, "Group": true}

	resp, err := client.Get("/ResourceTypes")
	if err != nil || resp.Status != http.StatusOK || resp.Body == "" {
		return fallback
	}

	data, err := resp.JSON()
	if err != nil {
		return fallback
	}

	var entries []interface{}
	if data != nil {
		if list, ok := data["Resources"].([]interface{}); ok {
			entries = list
		}
	}
	if entries == nil {
		return fallback
	}

	supported := map[string]bool{}
	for _, e := range entries {
		obj, ok := e.(map[string]interface{})
		if !ok {
			continue
		}
		if name, ok := obj["name"].(string); ok && name != "" {
			supported[name] = true
		}
	}
	if len(supported) == 0 {
		return fallback
	}
	return supported
}
