// Package validator implements the outbound payload validator: it checks
// that a client-authored SCIM resource document or PATCH request body
// conforms to RFC 7643/7644 and the draft agent extension schemas before
// it is ever sent to a service provider.
package validator

import (
	"fmt"

	"github.com/thomaselliottbetz/scim-sanity/pkg/spec"
)

// ValidationError locates a single conformance failure in a validated
// document.
type ValidationError struct {
	Message string
	Path    string
	Line    int
}

func (e ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s at %s", e.Message, e.Path)
}

// ValidateFull validates a full SCIM resource document, as submitted via
// POST or PUT.
func ValidateFull(doc map[string]interface{}) (bool, []ValidationError) {
	v := &fullValidator{}
	v.run(doc)
	return len(v.errs) == 0, v.errs
}

// ValidatePatch validates a SCIM PATCH request body.
func ValidatePatch(doc map[string]interface{}) (bool, []ValidationError) {
	v := &patchValidator{}
	v.run(doc)
	return len(v.errs) == 0, v.errs
}

type fullValidator struct {
	errs []ValidationError
}

func (v *fullValidator) fail(message, path string) {
	v.errs = append(v.errs, ValidationError{Message: message, Path: path})
}

func (v *fullValidator) run(doc map[string]interface{}) {
	rawSchemas, present := doc["schemas"]
	if !present {
		v.fail("Missing required field: 'schemas'", "")
		return
	}

	schemas, ok := asStringList(rawSchemas)
	if !ok || len(schemas) == 0 {
		v.fail("'schemas' must be a non-empty array", "")
		return
	}

	isUser := containsURN(schemas, spec.UserSchemaURN)
	isGroup := containsURN(schemas, spec.GroupSchemaURN)
	isAgent := containsURN(schemas, spec.AgentSchemaURN)
	isAgenticApplication := containsURN(schemas, spec.AgenticApplicationSchemaURN)

	if !isUser && !isGroup && !isAgent && !isAgenticApplication {
		v.fail(fmt.Sprintf(
			"Invalid schema URN. Must include '%s', '%s', '%s', or '%s'",
			spec.UserSchemaURN, spec.GroupSchemaURN, spec.AgentSchemaURN, spec.AgenticApplicationSchemaURN,
		), "")
		return
	}

	for _, urn := range schemas {
		schema, ok := spec.Schemas().Get(urn)
		if !ok {
			v.fail("Unknown schema URN: "+urn, "")
			continue
		}
		v.validateSchemaAttributes(doc, urn, schema)
	}

	switch {
	case isUser:
		v.validateUser(doc)
	case isGroup:
		v.validateGroup(doc)
	case isAgent:
		v.validateAgent(doc)
	case isAgenticApplication:
		v.validateAgenticApplication(doc)
	}

	v.checkImmutableAttributes(doc, schemas)
	v.checkNullSemantics(doc)
}

// validateSchemaAttributes walks the top-level attributes a schema defines
// and reports missing required attributes and malformed complex values.
// Extension schema attributes live under a nested mapping keyed by the
// extension's own URN.
func (v *fullValidator) validateSchemaAttributes(doc map[string]interface{}, urn string, schema *spec.Schema) {
	isExtension := isExtensionURN(urn)

	data := doc
	if isExtension {
		raw, present := doc[urn]
		if !present {
			return
		}
		nested, ok := raw.(map[string]interface{})
		if !ok {
			v.fail(fmt.Sprintf("Extension schema '%s' must be an object", urn), urn)
			return
		}
		data = nested
	}

	for _, attr := range schema.Attributes {
		value, present := data[attr.Name]

		fullPath := attr.Name
		if isExtension {
			fullPath = urn + "." + attr.Name
		}

		if attr.Required && !present {
			v.fail(fmt.Sprintf("Missing required attribute: '%s' (schema: %s)", attr.Name, urn), fullPath)
		}

		if present && attr.Type == spec.TypeComplex {
			if attr.MultiValued {
				list, ok := value.([]interface{})
				if !ok {
					v.fail(fmt.Sprintf("Attribute '%s' must be an array (multiValued)", attr.Name), fullPath)
					continue
				}
				for idx, item := range list {
					v.validateComplexAttribute(item, attr, fmt.Sprintf("%s[%d]", fullPath, idx))
				}
			} else {
				v.validateComplexAttribute(value, attr, fullPath)
			}
		}
	}
}

func (v *fullValidator) validateComplexAttribute(value interface{}, attr *spec.Attribute, path string) {
	obj, ok := value.(map[string]interface{})
	if !ok {
		return
	}
	for _, sub := range attr.SubAttributes {
		if sub.Required {
			if _, present := obj[sub.Name]; !present {
				v.fail(fmt.Sprintf("Missing required sub-attribute: '%s' in '%s'", sub.Name, path), path+"."+sub.Name)
			}
		}
	}
}

func (v *fullValidator) validateUser(doc map[string]interface{}) {
	if _, present := doc["userName"]; !present {
		v.fail("User resource missing required attribute: 'userName'", "")
	}
}

func (v *fullValidator) validateGroup(doc map[string]interface{}) {
	if _, present := doc["displayName"]; !present {
		v.fail("Group resource missing required attribute: 'displayName'", "")
	}
}

// validateAgent enforces the draft agent extension's sole requirement: name
// must be present and non-empty, since it doubles as the agent's
// authentication identifier.
func (v *fullValidator) validateAgent(doc map[string]interface{}) {
	v.requireNonEmptyName(doc, "Agent")
}

// validateAgenticApplication enforces the draft agent extension's sole
// requirement for the hosting application resource type.
func (v *fullValidator) validateAgenticApplication(doc map[string]interface{}) {
	v.requireNonEmptyName(doc, "AgenticApplication")
}

func (v *fullValidator) requireNonEmptyName(doc map[string]interface{}, resourceType string) {
	name, present := doc["name"]
	if !present {
		v.fail(fmt.Sprintf("%s resource missing required attribute: 'name'", resourceType), "")
		return
	}
	if s, ok := name.(string); ok && s == "" {
		v.fail(fmt.Sprintf("%s resource 'name' attribute must be non-empty", resourceType), "")
	}
}

// checkImmutableAttributes reports top-level, client-set attributes whose
// mutability is readOnly. Nested paths (e.g. meta.created) are not reached
// by this check, matching the original's "." not in attr_name guard.
func (v *fullValidator) checkImmutableAttributes(doc map[string]interface{}, schemas []string) {
	for _, urn := range schemas {
		schema, ok := spec.Schemas().Get(urn)
		if !ok {
			continue
		}

		isExtension := isExtensionURN(urn)
		data := doc
		if isExtension {
			nested, ok := doc[urn].(map[string]interface{})
			if !ok {
				continue
			}
			data = nested
		}

		for _, attr := range schema.Attributes {
			if attr.Mutability != spec.MutabilityReadOnly {
				continue
			}
			if _, present := data[attr.Name]; !present {
				continue
			}
			fullPath := attr.Name
			if isExtension {
				fullPath = urn + "." + attr.Name
			}
			v.fail(fmt.Sprintf("Immutable attribute '%s' should not be set by client (mutability: readOnly)", attr.Name), fullPath)
		}
	}
}

// checkNullSemantics reports top-level null values: SCIM callers should omit
// an attribute or issue a PATCH remove rather than set it to null.
func (v *fullValidator) checkNullSemantics(doc map[string]interface{}) {
	for key, value := range doc {
		if value == nil {
			v.fail(fmt.Sprintf("Attribute '%s' has null value. Use PATCH 'remove' operation to clear attributes instead", key), key)
		}
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
	return len(urn) >= len(prefix) && urn[:len(prefix)] == prefix
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
