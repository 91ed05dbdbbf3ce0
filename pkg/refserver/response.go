package refserver

import (
	"encoding/json"
	"net/http"

	"github.com/thomaselliottbetz/scim-sanity/pkg/spec"
)

func (s *Server) contentType() string {
	if s.nc.ContentTypeJSON {
		return "application/json"
	}
	return "application/scim+json"
}

func (s *Server) writeJSON(rw http.ResponseWriter, status int, body interface{}) {
	rw.Header().Set("Content-Type", s.contentType())
	rw.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(rw).Encode(body); err != nil {
		s.log.Err(err).Msg("failed to encode response body")
	}
}

func (s *Server) writeError(rw http.ResponseWriter, status int, detail string) {
	s.writeJSON(rw, status, map[string]interface{}{
		"schemas": []interface{}{spec.ErrorSchemaURN},
		"status":  statusString(status),
		"detail":  detail,
	})
}

func statusString(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "400"
	case http.StatusNotFound:
		return "404"
	case http.StatusTooManyRequests:
		return "429"
	default:
		return http.StatusText(status)
	}
}

// throttled consumes one unit of ThrottleCount, if any remain, and writes a
// 429 response with Retry-After: 0. Returns true if the request was
// throttled and the caller must not write any further response.
func (s *Server) throttled(rw http.ResponseWriter) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nc.ThrottleCount <= 0 {
		return false
	}
	s.nc.ThrottleCount--

	rw.Header().Set("Retry-After", "0")
	s.writeJSON(rw, http.StatusTooManyRequests, map[string]interface{}{
		"schemas": []interface{}{spec.ErrorSchemaURN},
		"status":  "429",
		"detail":  "Too Many Requests",
	})
	return true
}
