package spec

// Normalized document model consumed by the emitter. All optional schema
// fields are resolved to their documented fallbacks during normalization, so
// downstream code never re-checks defaults.

// Verb is an HTTP verb the generator emits operations for. Verbs outside
// VerbOrder are ignored during normalization.
type Verb string

const (
	GET    Verb = "get"
	POST   Verb = "post"
	PUT    Verb = "put"
	DELETE Verb = "delete"
	PATCH  Verb = "patch"
)

// VerbOrder is the fixed emission order for verbs within a path. Paths
// themselves are sorted lexicographically, which keeps generation
// byte-deterministic for a fixed timestamp.
var VerbOrder = []Verb{GET, POST, PUT, DELETE, PATCH}

// Document is the parsed and normalized Swagger 2.0 schema.
type Document struct {
	Title       string
	Description string
	Version     string
	Host        string
	BasePath    string
	Scheme      string   // first entry of schemes, "https" when absent
	Schemes     []string // original ordered list
	Paths       []PathItem
	Definitions []string // definition names, read but not dereferenced
}

// PathItem pairs one route template with its operations, ordered by VerbOrder.
type PathItem struct {
	Path       string
	Operations []VerbOperation
}

// VerbOperation is one (verb, operation) entry under a path.
type VerbOperation struct {
	Verb Verb
	Op   Operation
}

// Operation is one schema-defined endpoint action.
type Operation struct {
	OperationID string // empty when the document omits it
	Summary     string
	Description string
	Parameters  []Parameter
}

// ParamLocation restricts parameter placement to the locations the generated
// module can wire. Header and formData parameters are dropped during
// normalization.
type ParamLocation string

const (
	InPath  ParamLocation = "path"
	InQuery ParamLocation = "query"
	InBody  ParamLocation = "body"
)

// Parameter is one operation input.
type Parameter struct {
	Name        string
	In          ParamLocation
	Type        *TypeDesc // nil when the document omits type information
	Required    bool
	Description string
}

// TypeDesc is a recursive schema-level type descriptor.
type TypeDesc struct {
	Kind  string    // string|integer|number|boolean|array|object, or any other raw value
	Items *TypeDesc // set for arrays; nil means untyped items
}
