package webuiemitter

import (
	"strings"

	genspec "github.com/mark3labs/swagger2webui/internal/spec"
)

// OperationUnit is the structured intermediate form of one generated
// callable. Synthesis classifies parameters and fixes the body/query policy
// here; rendering to Python text happens in a separate stage so the policy
// logic stays testable independent of the output syntax.
type OperationUnit struct {
	Identifier  string
	Verb        genspec.Verb
	Path        string
	Summary     string
	Description string

	PathParams  []genspec.Parameter
	QueryParams []genspec.Parameter
	BodyParam   *genspec.Parameter // nil when no body parameter is declared

	// AllowBody is false for GET and DELETE: those verbs never attach a
	// request body even when the document declares one.
	AllowBody bool
}

// Synthesize derives the operation unit for one (path, verb) pair.
//
// The identifier is the document's operationId when present; otherwise it is
// synthesized as <verb>_<path> with slashes replaced by underscores and brace
// characters stripped. Uniqueness is only as good as the source document's
// path/verb combinations: when two operations normalize to the same
// identifier, the later one shadows the earlier inside the generated Python
// class. That is a known limitation, not a guaranteed-unique namespace.
func Synthesize(path string, verb genspec.Verb, op genspec.Operation) OperationUnit {
	unit := OperationUnit{
		Identifier:  DeriveIdentifier(path, verb, op.OperationID),
		Verb:        verb,
		Path:        path,
		Summary:     op.Summary,
		Description: op.Description,
		AllowBody:   verb != genspec.GET && verb != genspec.DELETE,
	}

	for _, p := range op.Parameters {
		switch p.In {
		case genspec.InPath:
			unit.PathParams = append(unit.PathParams, p)
		case genspec.InQuery:
			unit.QueryParams = append(unit.QueryParams, p)
		case genspec.InBody:
			if unit.BodyParam == nil {
				p := p
				unit.BodyParam = &p
			}
		}
	}
	return unit
}

// SynthesizeAll walks the document's paths and verbs in their normalized
// order and returns one unit per operation. No deduplication is performed.
func SynthesizeAll(doc *genspec.Document) []OperationUnit {
	var units []OperationUnit
	for _, pi := range doc.Paths {
		for _, vo := range pi.Operations {
			units = append(units, Synthesize(pi.Path, vo.Verb, vo.Op))
		}
	}
	return units
}

// DeriveIdentifier returns operationID verbatim when non-empty, otherwise a
// syntactically valid identifier synthesized from the verb and path:
// /users/{id} + get -> get_users_id.
func DeriveIdentifier(path string, verb genspec.Verb, operationID string) string {
	if operationID != "" {
		return operationID
	}
	cleaned := strings.NewReplacer("/", "_", "{", "", "}", "").Replace(path)
	cleaned = strings.Trim(cleaned, "_")
	if cleaned == "" {
		return string(verb)
	}
	return string(verb) + "_" + cleaned
}
