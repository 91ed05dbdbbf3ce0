package refserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"

	"github.com/thomaselliottbetz/scim-sanity/pkg/spec"
)

// serviceProviderConfigHandler, schemasHandler, and resourceTypesHandler
// serve the three static discovery documents. Unlike the teacher's
// production API, the responses aren't pre-rendered at construction time:
// supportedResources never changes after New, but ThrottleCount does, so
// every request still passes through the throttle gate.
func (s *Server) serviceProviderConfigHandler() httprouter.Handle {
	return func(rw http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		if s.throttled(rw) {
			return
		}
		s.writeJSON(rw, http.StatusOK, s.serviceProviderConfig())
	}
}

func (s *Server) schemasHandler() httprouter.Handle {
	return func(rw http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		if s.throttled(rw) {
			return
		}
		s.writeJSON(rw, http.StatusOK, s.schemasResponse())
	}
}

func (s *Server) resourceTypesHandler() httprouter.Handle {
	return func(rw http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		if s.throttled(rw) {
			return
		}
		s.writeJSON(rw, http.StatusOK, s.resourceTypesResponse())
	}
}

// listHandler returns all resources of a type as a ListResponse, applying
// the reject_filters non-conformance when the query string carries a
// "filter=" parameter.
func (s *Server) listHandler(endpoint string) httprouter.Handle {
	return func(rw http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		if s.throttled(rw) {
			return
		}

		if s.nc.RejectFilters && strings.Contains(r.URL.RawQuery, "filter=") {
			s.writeError(rw, http.StatusBadRequest, "Filtering is not supported")
			return
		}

		resourceType := resourceTypeForEndpoint[endpoint]

		s.mu.Lock()
		store := s.stores[endpoint]
		resources := make([]interface{}, 0, len(store))
		for id, data := range store {
			resources = append(resources, s.enrich(resourceType, endpoint, id, data))
		}
		s.mu.Unlock()

		s.writeJSON(rw, http.StatusOK, map[string]interface{}{
			"schemas":      []interface{}{spec.ListResponseSchemaURN},
			"totalResults": len(resources),
			"Resources":    resources,
			"startIndex":   1,
			"itemsPerPage": len(resources),
		})
	}
}

// createHandler assigns a server-generated id, validates the minimum
// required attribute for the resource type, and stores the payload.
func (s *Server) createHandler(endpoint string) httprouter.Handle {
	return func(rw http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		if s.throttled(rw) {
			return
		}

		body, ok := s.readBody(rw, r)
		if !ok {
			return
		}

		schemas, ok := body["schemas"].([]interface{})
		if !ok || len(schemas) == 0 {
			s.writeError(rw, http.StatusBadRequest, "Missing or invalid 'schemas' field")
			return
		}

		resourceType := resourceTypeForEndpoint[endpoint]
		if missing := requiredAttributeFor(resourceType, body); missing != "" {
			s.writeError(rw, http.StatusBadRequest, "Missing required attribute: "+missing)
			return
		}

		id := uuid.New().String()

		s.mu.Lock()
		s.stores[endpoint][id] = body
		s.mu.Unlock()

		enriched := s.enrich(resourceType, endpoint, id, body)

		location := fmt.Sprintf("%s/%s/%s", s.baseURL, endpoint, id)
		rw.Header().Set("Location", location)
		if version, ok := metaVersion(enriched); ok {
			rw.Header().Set("ETag", version)
		}
		s.log.Debug().Str("endpoint", endpoint).Str("id", id).Msg("created resource")
		s.writeJSON(rw, http.StatusCreated, enriched)
	}
}

func (s *Server) getHandler(endpoint string) httprouter.Handle {
	return func(rw http.ResponseWriter, r *http.Request, params httprouter.Params) {
		if s.throttled(rw) {
			return
		}
		id := params.ByName("id")
		resourceType := resourceTypeForEndpoint[endpoint]

		s.mu.Lock()
		staleKey := staleKey(endpoint, id)
		if stale, found := s.staleSnapshots[staleKey]; found {
			delete(s.staleSnapshots, staleKey)
			s.mu.Unlock()
			s.writeJSON(rw, http.StatusOK, s.enrich(resourceType, endpoint, id, stale))
			return
		}

		data, found := s.stores[endpoint][id]
		s.mu.Unlock()
		if !found {
			s.writeError(rw, http.StatusNotFound, "Resource not found")
			return
		}
		s.writeJSON(rw, http.StatusOK, s.enrich(resourceType, endpoint, id, data))
	}
}

// replaceHandler overwrites the stored resource. When stale_after_put is
// set, the pre-update snapshot is saved and served once on the next GET,
// simulating eventual consistency.
func (s *Server) replaceHandler(endpoint string) httprouter.Handle {
	return func(rw http.ResponseWriter, r *http.Request, params httprouter.Params) {
		if s.throttled(rw) {
			return
		}
		id := params.ByName("id")

		body, ok := s.readBody(rw, r)
		if !ok {
			return
		}

		s.mu.Lock()
		previous, found := s.stores[endpoint][id]
		if !found {
			s.mu.Unlock()
			s.writeError(rw, http.StatusNotFound, "Resource not found")
			return
		}
		if s.nc.StaleAfterPut {
			s.staleSnapshots[staleKey(endpoint, id)] = previous
		}
		s.stores[endpoint][id] = body
		s.mu.Unlock()

		resourceType := resourceTypeForEndpoint[endpoint]
		s.writeJSON(rw, http.StatusOK, s.enrich(resourceType, endpoint, id, body))
	}
}

// patchHandler applies add/replace/remove operations to top-level
// attributes of the stored resource, matching the probe's use of PATCH to
// toggle `active` and manage group membership.
func (s *Server) patchHandler(endpoint string) httprouter.Handle {
	return func(rw http.ResponseWriter, r *http.Request, params httprouter.Params) {
		if s.throttled(rw) {
			return
		}
		id := params.ByName("id")

		body, ok := s.readBody(rw, r)
		if !ok {
			return
		}

		rawOps, _ := body["Operations"].([]interface{})

		s.mu.Lock()
		resource, found := s.stores[endpoint][id]
		if !found {
			s.mu.Unlock()
			s.writeError(rw, http.StatusNotFound, "Resource not found")
			return
		}
		for _, raw := range rawOps {
			op, ok := raw.(map[string]interface{})
			if !ok {
				continue
			}
			opType, _ := op["op"].(string)
			path, _ := op["path"].(string)
			switch opType {
			case "add", "replace":
				if path != "" {
					resource[path] = op["value"]
				}
			case "remove":
				if path != "" {
					delete(resource, path)
				}
			}
		}
		s.stores[endpoint][id] = resource
		s.mu.Unlock()

		resourceType := resourceTypeForEndpoint[endpoint]
		s.writeJSON(rw, http.StatusOK, s.enrich(resourceType, endpoint, id, resource))
	}
}

func (s *Server) deleteHandler(endpoint string) httprouter.Handle {
	return func(rw http.ResponseWriter, r *http.Request, params httprouter.Params) {
		if s.throttled(rw) {
			return
		}
		id := params.ByName("id")

		s.mu.Lock()
		_, found := s.stores[endpoint][id]
		delete(s.stores[endpoint], id)
		delete(s.staleSnapshots, staleKey(endpoint, id))
		s.mu.Unlock()

		if !found {
			s.writeError(rw, http.StatusNotFound, "Resource not found")
			return
		}
		rw.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) readBody(rw http.ResponseWriter, r *http.Request) (map[string]interface{}, bool) {
	defer r.Body.Close()
	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(rw, http.StatusBadRequest, "Invalid or missing JSON body")
		return nil, false
	}
	return body, true
}

func requiredAttributeFor(resourceType string, body map[string]interface{}) string {
	switch resourceType {
	case "User":
		if _, ok := body["userName"]; !ok {
			return "userName"
		}
	case "Group":
		if _, ok := body["displayName"]; !ok {
			return "displayName"
		}
	case "Agent", "AgenticApplication":
		if _, ok := body["name"]; !ok {
			return "name"
		}
	}
	return ""
}

func metaVersion(resource map[string]interface{}) (string, bool) {
	meta, ok := resource["meta"].(map[string]interface{})
	if !ok {
		return "", false
	}
	version, ok := meta["version"].(string)
	return version, ok
}

func staleKey(endpoint, id string) string {
	return endpoint + "/" + id
}
