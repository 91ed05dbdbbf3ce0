package probe

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_RefusesWithoutSideEffectConsent(t *testing.T) {
	var buf bytes.Buffer
	code := Run(&buf, false, Options{BaseURL: "http://example.invalid", AcceptSideEffects: false})
	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "--i-accept-side-effects")
}

func TestRun_RefusesWithoutSideEffectConsent_JSON(t *testing.T) {
	var buf bytes.Buffer
	code := Run(&buf, false, Options{BaseURL: "http://example.invalid", AcceptSideEffects: false, JSONOutput: true})
	assert.Equal(t, 1, code)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "Side-effect consent required", decoded["error"])
}

// fakeServer is a minimal in-memory SCIM server used only to exercise the
// probe's CRUD lifecycle and discovery phases end-to-end.
type fakeServer struct {
	mu    sync.Mutex
	users map[string]map[string]interface{}
	next  int
}

func newFakeServer() *httptest.Server {
	fs := &fakeServer{users: map[string]map[string]interface{}{}}
	mux := http.NewServeMux()

	mux.HandleFunc("/ServiceProviderConfig", fs.discoveryStub)
	mux.HandleFunc("/Schemas", fs.discoveryStub)
	mux.HandleFunc("/ResourceTypes", fs.resourceTypes)

	mux.HandleFunc("/Users", fs.usersCollection)
	mux.HandleFunc("/Users/", fs.usersItem)

	mux.HandleFunc("/Groups", fs.notSupportedCollection)
	mux.HandleFunc("/Groups/", fs.notSupportedItem)

	return httptest.NewServer(mux)
}

func (fs *fakeServer) writeJSON(w http.ResponseWriter, status int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/scim+json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func (fs *fakeServer) discoveryStub(w http.ResponseWriter, r *http.Request) {
	fs.writeJSON(w, http.StatusOK, map[string]interface{}{})
}

func (fs *fakeServer) resourceTypes(w http.ResponseWriter, r *http.Request) {
	fs.writeJSON(w, http.StatusOK, map[string]interface{}{
		"Resources": []interface{}{
			map[string]interface{}{"name": "User"},
		},
	})
}

func (fs *fakeServer) looksLikeValidUser(payload map[string]interface{}) bool {
	schemas, ok := payload["schemas"].([]interface{})
	if !ok || len(schemas) == 0 {
		return false
	}
	userName, ok := payload["userName"].(string)
	return ok && userName != ""
}

func (fs *fakeServer) meta(resourceType, id string) map[string]interface{} {
	return map[string]interface{}{
		"resourceType": resourceType,
		"created":      "2024-01-01T00:00:00Z",
		"lastModified": "2024-01-01T00:00:00Z",
		"location":     fmt.Sprintf("/Users/%s", id),
		"version":      `W/"1"`,
	}
}

func (fs *fakeServer) usersCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var payload map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&payload)

		if !fs.looksLikeValidUser(payload) {
			fs.writeJSON(w, http.StatusBadRequest, map[string]interface{}{
				"schemas": []interface{}{"urn:ietf:params:scim:api:messages:2.0:Error"},
				"status":  "400",
			})
			return
		}

		fs.mu.Lock()
		fs.next++
		id := fmt.Sprintf("user-%d", fs.next)
		payload["id"] = id
		payload["meta"] = fs.meta("User", id)
		fs.users[id] = payload
		fs.mu.Unlock()

		w.Header().Set("Location", fmt.Sprintf("/Users/%s", id))
		fs.writeJSON(w, http.StatusCreated, payload)
	case http.MethodGet:
		fs.mu.Lock()
		list := []interface{}{}
		for _, u := range fs.users {
			list = append(list, u)
		}
		fs.mu.Unlock()

		if strings.Contains(r.URL.RawQuery, "filter=") {
			fs.writeJSON(w, http.StatusOK, map[string]interface{}{
				"schemas":      []interface{}{"urn:ietf:params:scim:api:messages:2.0:ListResponse"},
				"totalResults": float64(0),
				"Resources":    []interface{}{},
			})
			return
		}
		if strings.Contains(r.URL.RawQuery, "count=0") {
			fs.writeJSON(w, http.StatusOK, map[string]interface{}{
				"schemas":      []interface{}{"urn:ietf:params:scim:api:messages:2.0:ListResponse"},
				"totalResults": float64(len(list)),
				"Resources":    []interface{}{},
			})
			return
		}
		fs.writeJSON(w, http.StatusOK, map[string]interface{}{
			"schemas":      []interface{}{"urn:ietf:params:scim:api:messages:2.0:ListResponse"},
			"totalResults": float64(len(list)),
			"itemsPerPage": float64(len(list)),
			"Resources":    list,
		})
	}
}

func (fs *fakeServer) usersItem(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/Users/")

	switch r.Method {
	case http.MethodGet:
		fs.mu.Lock()
		u, ok := fs.users[id]
		fs.mu.Unlock()
		if !ok {
			fs.writeJSON(w, http.StatusNotFound, map[string]interface{}{
				"schemas": []interface{}{"urn:ietf:params:scim:api:messages:2.0:Error"},
				"status":  "404",
			})
			return
		}
		fs.writeJSON(w, http.StatusOK, u)

	case http.MethodPut:
		var payload map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&payload)
		fs.mu.Lock()
		payload["id"] = id
		payload["meta"] = fs.meta("User", id)
		fs.users[id] = payload
		fs.mu.Unlock()
		fs.writeJSON(w, http.StatusOK, payload)

	case http.MethodPatch:
		fs.mu.Lock()
		u, ok := fs.users[id]
		if ok {
			u["active"] = false
			u["meta"] = fs.meta("User", id)
			fs.users[id] = u
		}
		fs.mu.Unlock()
		if !ok {
			fs.writeJSON(w, http.StatusNotFound, nil)
			return
		}
		fs.writeJSON(w, http.StatusOK, u)

	case http.MethodDelete:
		fs.mu.Lock()
		_, ok := fs.users[id]
		delete(fs.users, id)
		fs.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (fs *fakeServer) notSupportedCollection(w http.ResponseWriter, r *http.Request) {
	fs.writeJSON(w, http.StatusOK, map[string]interface{}{
		"schemas":      []interface{}{"urn:ietf:params:scim:api:messages:2.0:ListResponse"},
		"totalResults": float64(0),
		"Resources":    []interface{}{},
	})
}

func (fs *fakeServer) notSupportedItem(w http.ResponseWriter, r *http.Request) {
	fs.writeJSON(w, http.StatusNotFound, map[string]interface{}{
		"schemas": []interface{}{"urn:ietf:params:scim:api:messages:2.0:Error"},
		"status":  "404",
	})
}

func TestRun_EndToEndAgainstFakeServer(t *testing.T) {
	srv := newFakeServer()
	defer srv.Close()

	var buf bytes.Buffer
	code := Run(&buf, false, Options{
		BaseURL:           srv.URL,
		AcceptSideEffects: true,
		Strict:            false,
		ResourceFilter:    "User",
	})

	output := buf.String()
	assert.Contains(t, output, "POST /Users")
	assert.Contains(t, output, "Phase 2 — User CRUD Lifecycle")
	assert.Equal(t, 0, code, output)
}
