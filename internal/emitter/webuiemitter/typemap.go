package webuiemitter

import genspec "github.com/mark3labs/swagger2webui/internal/spec"

// TypeAny is the explicit marker for unrecognized or absent type descriptors.
// Swagger documents routinely omit type information for loosely-typed fields,
// so mapping is total rather than failing.
const TypeAny = "any"

// MapType maps a schema-level type descriptor to the human-readable type
// expression used in generated docstrings. Pure and total: a nil or unknown
// descriptor maps to TypeAny. Array descriptors recurse one level per nesting
// depth and terminate for any finite-depth input.
func MapType(td *genspec.TypeDesc) string {
	if td == nil {
		return TypeAny
	}
	switch td.Kind {
	case "string":
		return "string"
	case "integer":
		return "integer"
	case "number":
		return "float"
	case "boolean":
		return "boolean"
	case "array":
		return "sequence of " + MapType(td.Items)
	case "object":
		return "mapping of string to any"
	default:
		return TypeAny
	}
}
