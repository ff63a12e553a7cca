package spec

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi3"
)

// Documented fallbacks for optional document metadata.
const (
	DefaultTitle       = "API Integration"
	DefaultDescription = "API Integration Tool"
	DefaultVersion     = "1.0.0"
	DefaultScheme      = "https"
)

// parseDocument unmarshals raw JSON into a Swagger 2.0 document and runs the
// normalization pass. The document must be strict JSON: Swagger YAML is not
// accepted by this tool.
func parseDocument(raw []byte) (*Document, error) {
	var v2 openapi2.T
	if err := json.Unmarshal(raw, &v2); err != nil {
		return nil, err
	}
	return normalize(&v2), nil
}

// normalize converts the parsed Swagger document into the repo-owned model,
// resolving every documented fallback in one place: metadata defaults, the
// default scheme, verb restriction, parameter locations, and the
// one-body-parameter rule. Paths are sorted and verbs follow VerbOrder so a
// given document always normalizes to the same Document.
func normalize(v2 *openapi2.T) *Document {
	doc := &Document{
		Title:       v2.Info.Title,
		Description: v2.Info.Description,
		Version:     v2.Info.Version,
		Host:        v2.Host,
		BasePath:    v2.BasePath,
		Schemes:     v2.Schemes,
	}
	if doc.Title == "" {
		doc.Title = DefaultTitle
	}
	if doc.Description == "" {
		doc.Description = DefaultDescription
	}
	if doc.Version == "" {
		doc.Version = DefaultVersion
	}
	doc.Scheme = DefaultScheme
	if len(v2.Schemes) > 0 && v2.Schemes[0] != "" {
		doc.Scheme = v2.Schemes[0]
	}

	paths := make([]string, 0, len(v2.Paths))
	for p := range v2.Paths {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		item := v2.Paths[p]
		if item == nil {
			continue
		}
		pi := PathItem{Path: p}
		for _, vo := range verbOperations(item) {
			if vo.op == nil {
				continue
			}
			pi.Operations = append(pi.Operations, VerbOperation{
				Verb: vo.verb,
				Op:   normalizeOperation(p, vo.verb, vo.op),
			})
		}
		if len(pi.Operations) > 0 {
			doc.Paths = append(doc.Paths, pi)
		}
	}

	for name := range v2.Definitions {
		doc.Definitions = append(doc.Definitions, name)
	}
	sort.Strings(doc.Definitions)

	return doc
}

type rawVerbOp struct {
	verb Verb
	op   *openapi2.Operation
}

// verbOperations returns the path item's operations in VerbOrder. Verbs the
// generator does not support (head, options) are dropped here.
func verbOperations(item *openapi2.PathItem) []rawVerbOp {
	return []rawVerbOp{
		{GET, item.Get},
		{POST, item.Post},
		{PUT, item.Put},
		{DELETE, item.Delete},
		{PATCH, item.Patch},
	}
}

func normalizeOperation(path string, verb Verb, op *openapi2.Operation) Operation {
	out := Operation{
		OperationID: op.OperationID,
		Summary:     op.Summary,
		Description: op.Description,
	}
	// Summary and description back-fill each other; with neither present the
	// verb and path stand in, so error payloads always carry something
	// readable.
	if out.Summary == "" {
		out.Summary = op.Description
	}
	if out.Summary == "" {
		out.Summary = fmt.Sprintf("%s %s", verb, path)
	}
	if out.Description == "" {
		out.Description = out.Summary
	}

	seenBody := false
	for _, p := range op.Parameters {
		if p == nil {
			continue
		}
		loc := ParamLocation(p.In)
		switch loc {
		case InPath, InQuery:
			out.Parameters = append(out.Parameters, Parameter{
				Name:        p.Name,
				In:          loc,
				Type:        typeDescFromParameter(p),
				Required:    p.Required,
				Description: p.Description,
			})
		case InBody:
			// Only the first body parameter is used.
			if seenBody {
				continue
			}
			seenBody = true
			out.Parameters = append(out.Parameters, Parameter{
				Name:        p.Name,
				In:          InBody,
				Type:        typeDescFromSchemaRef(p.Schema),
				Required:    p.Required,
				Description: p.Description,
			})
		}
	}
	return out
}

// typeDescFromParameter builds the descriptor for a non-body parameter, which
// declares its type inline (with items for arrays).
func typeDescFromParameter(p *openapi2.Parameter) *TypeDesc {
	if p.Type == "" {
		return nil
	}
	td := &TypeDesc{Kind: p.Type}
	if p.Type == "array" {
		td.Items = typeDescFromSchemaRef(p.Items)
	}
	return td
}

// typeDescFromSchemaRef builds the descriptor for schema-carried types (body
// parameters and array items). References are not dereferenced; a bare $ref
// yields an untyped descriptor.
func typeDescFromSchemaRef(ref *openapi3.SchemaRef) *TypeDesc {
	if ref == nil || ref.Value == nil || ref.Value.Type == "" {
		return nil
	}
	td := &TypeDesc{Kind: ref.Value.Type}
	if ref.Value.Type == "array" {
		td.Items = typeDescFromSchemaRef(ref.Value.Items)
	}
	return td
}
