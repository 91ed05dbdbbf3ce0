package refserver

import "github.com/thomaselliottbetz/scim-sanity/pkg/spec"

// serviceProviderConfig returns the static ServiceProviderConfig document.
// Matches the reference server's fixed capability set: patch and filter
// supported, bulk/sort/etag/changePassword not.
func (s *Server) serviceProviderConfig() map[string]interface{} {
	return map[string]interface{}{
		"schemas":        []interface{}{spec.ServiceProviderConfigURN},
		"patch":          map[string]interface{}{"supported": true},
		"bulk":           map[string]interface{}{"supported": false},
		"filter":         map[string]interface{}{"supported": true, "maxResults": 200},
		"changePassword": map[string]interface{}{"supported": false},
		"sort":           map[string]interface{}{"supported": false},
		"etag":           map[string]interface{}{"supported": false},
		"authenticationSchemes": []interface{}{
			map[string]interface{}{"type": "oauthbearertoken", "name": "Bearer"},
		},
	}
}

// resourceTypesResponse returns a ListResponse enumerating one ResourceType
// entry per supported resource type.
func (s *Server) resourceTypesResponse() map[string]interface{} {
	resources := make([]interface{}, 0, len(s.supportedResources))
	for _, rt := range s.supportedResources {
		resources = append(resources, map[string]interface{}{
			"schemas":  []interface{}{spec.ResourceTypeSchemaURN},
			"name":     rt,
			"endpoint": "/" + endpointFor(rt),
			"schema":   resourceSchemaURN(rt),
		})
	}
	return map[string]interface{}{
		"schemas":      []interface{}{spec.ListResponseSchemaURN},
		"totalResults": len(resources),
		"Resources":    resources,
	}
}

// schemasResponse returns an empty Schemas ListResponse; the reference
// server does not serialize full schema documents over the wire.
func (s *Server) schemasResponse() map[string]interface{} {
	return map[string]interface{}{
		"schemas":      []interface{}{spec.ListResponseSchemaURN},
		"totalResults": 0,
		"Resources":    []interface{}{},
	}
}

func resourceSchemaURN(resourceType string) string {
	switch resourceType {
	case "User":
		return spec.UserSchemaURN
	case "Group":
		return spec.GroupSchemaURN
	case "Agent":
		return spec.AgentSchemaURN
	case "AgenticApplication":
		return spec.AgenticApplicationSchemaURN
	default:
		return ""
	}
}
