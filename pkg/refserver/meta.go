package refserver

import (
	"fmt"
	"time"
)

// makeMeta builds the meta object the spec requires on every resource
// response: resourceType, created/lastModified timestamps, location, and a
// weak ETag version derived from the first 8 characters of the resource id.
// missing_meta_fields strips created/lastModified while leaving the rest.
func (s *Server) makeMeta(resourceType, endpoint, id string) map[string]interface{} {
	now := time.Now().UTC().Format(time.RFC3339)
	meta := map[string]interface{}{
		"resourceType": resourceType,
		"created":      now,
		"lastModified": now,
		"location":     fmt.Sprintf("%s/%s/%s", s.baseURL, endpoint, id),
		"version":      weakETag(id),
	}
	if s.nc.MissingMetaFields {
		delete(meta, "created")
		delete(meta, "lastModified")
	}
	return meta
}

func weakETag(id string) string {
	prefix := id
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	return fmt.Sprintf(`W/"%s"`, prefix)
}

// enrich adds server-managed id/meta fields to a stored resource before it
// goes out over the wire, applying the missing_id, missing_meta, and
// password_in_response non-conformance knobs.
func (s *Server) enrich(resourceType, endpoint, id string, data map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{}, len(data)+2)
	for k, v := range data {
		result[k] = v
	}

	result["id"] = id
	if s.nc.MissingID {
		delete(result, "id")
	}

	if !s.nc.MissingMeta {
		result["meta"] = s.makeMeta(resourceType, endpoint, id)
	}

	if s.nc.PasswordInResponse {
		if _, ok := data["password"]; !ok {
			delete(result, "password")
		}
	} else {
		delete(result, "password")
	}

	return result
}
