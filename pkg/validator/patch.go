package validator

import (
	"fmt"

	"github.com/thomaselliottbetz/scim-sanity/pkg/spec"
)

type patchValidator struct {
	errs []ValidationError
}

func (v *patchValidator) fail(message, path string) {
	v.errs = append(v.errs, ValidationError{Message: message, Path: path})
}

func (v *patchValidator) run(doc map[string]interface{}) {
	rawSchemas, present := doc["schemas"]
	if !present {
		v.fail("Missing required field: 'schemas'", "")
		return
	}

	schemas, _ := asStringList(rawSchemas)
	if !containsURN(schemas, spec.PatchOpSchemaURN) {
		v.fail(fmt.Sprintf("PATCH operation must include schema: '%s'", spec.PatchOpSchemaURN), "")
	}

	rawOps, present := doc["Operations"]
	if !present {
		v.fail("Missing required field: 'Operations'", "")
		return
	}

	ops, ok := rawOps.([]interface{})
	if !ok {
		v.fail("'Operations' must be an array", "")
		return
	}
	if len(ops) == 0 {
		v.fail("'Operations' array cannot be empty", "")
		return
	}

	// Duplicate detection is raw string equality on the "path" value, not
	// a normalized comparison of path expressions: two paths that address
	// the same attribute via different filter syntax are not caught.
	seenPaths := map[string]bool{}

	for idx, rawOp := range ops {
		op, ok := rawOp.(map[string]interface{})
		if !ok {
			v.fail(fmt.Sprintf("Operation %d must be an object", idx), "")
			continue
		}

		opType, _ := op["op"].(string)
		if opType == "" {
			v.fail(fmt.Sprintf("Operation %d: missing required field 'op'", idx), "")
			continue
		}

		if opType != "add" && opType != "remove" && opType != "replace" {
			v.fail(fmt.Sprintf("Operation %d: invalid 'op' value '%s'. Must be one of: add, remove, replace", idx, opType), "")
		}

		if rawPath, present := op["path"]; present {
			if path, ok := rawPath.(string); ok && path != "" {
				if seenPaths[path] {
					v.fail(fmt.Sprintf("Operation %d: duplicate path '%s' in PATCH operations", idx, path), "")
				}
				seenPaths[path] = true
			}
		}

		switch opType {
		case "remove":
			if _, present := op["path"]; !present {
				v.fail(fmt.Sprintf("Operation %d: 'remove' operation requires 'path'", idx), "")
			}
		case "add", "replace":
			if _, present := op["value"]; !present {
				v.fail(fmt.Sprintf("Operation %d: '%s' operation requires 'value'", idx, opType), "")
			}
		}
	}
}
