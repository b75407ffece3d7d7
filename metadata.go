package fhirquery

// SearchParamType is the declared type of a FHIR search parameter.
// It determines which modifiers and comparator prefixes apply.
type SearchParamType string

// FHIR R4 search parameter types.
const (
	TypeNumber    SearchParamType = "number"
	TypeDate      SearchParamType = "date"
	TypeString    SearchParamType = "string"
	TypeToken     SearchParamType = "token"
	TypeReference SearchParamType = "reference"
	TypeComposite SearchParamType = "composite"
	TypeQuantity  SearchParamType = "quantity"
	TypeURI       SearchParamType = "uri"
	TypeSpecial   SearchParamType = "special"
)

// AllowsPrefix reports whether values of this type accept the two-letter
// comparator prefixes (eq, ne, gt, lt, ge, le, sa, eb, ap).
func (t SearchParamType) AllowsPrefix() bool {
	switch t {
	case TypeNumber, TypeDate, TypeQuantity:
		return true
	default:
		return false
	}
}

// modifiersByType maps a search parameter type to the modifiers it
// supports per the FHIR R4 search specification.
var modifiersByType = map[SearchParamType][]string{
	TypeString:    {"exact", "contains", "missing"},
	TypeToken:     {"text", "not", "in", "not-in", "of-type", "missing"},
	TypeReference: {"identifier", "type", "missing"},
	TypeURI:       {"below", "above", "missing"},
	TypeNumber:    {"missing"},
	TypeDate:      {"missing"},
	TypeQuantity:  {"missing"},
	TypeComposite: {"missing"},
	TypeSpecial:   {"missing"},
}

// ModifiersForType returns the modifiers supported by a search parameter
// type. The returned slice is shared and must not be mutated.
func ModifiersForType(t SearchParamType) []string {
	return modifiersByType[t]
}

// SearchParam describes one search parameter a resource supports, as
// declared by the server's capability statement.
type SearchParam struct {
	// Code is the parameter name as it appears in the query string.
	Code string `json:"code"`

	// Type is the declared search parameter type.
	Type SearchParamType `json:"type"`

	// Modifiers lists the modifiers this parameter supports. Empty means
	// the server declared none, in which case modifier validation is
	// skipped.
	Modifiers []string `json:"modifiers,omitempty"`

	// Expression is the FHIRPath expression that defines the parameter,
	// when the server publishes one.
	Expression string `json:"expression,omitempty"`

	// Documentation is server-supplied usage text, surfaced in
	// completion items.
	Documentation string `json:"documentation,omitempty"`
}

// Metadata is the sole external input to the suggestion, diagnostics and
// explain engines besides the raw string: server capability data describing
// resource types, per-resource search parameters and operation support.
//
// Metadata is treated as read-only and is typically built once per
// capability fetch by the loader package. Any slice left empty disables the
// corresponding checks and suggestions rather than producing guesses.
type Metadata struct {
	// ResourceTypes lists the resource types the server supports.
	ResourceTypes []string `json:"resourceTypes,omitempty"`

	// SearchParams maps a resource type to its declared search parameters.
	SearchParams map[string][]SearchParam `json:"searchParams,omitempty"`

	// SystemOperations are $-operations invocable at the server root,
	// including the leading "$".
	SystemOperations []string `json:"systemOperations,omitempty"`

	// TypeOperations maps a resource type to its type-level $-operations.
	TypeOperations map[string][]string `json:"typeOperations,omitempty"`

	// InstanceOperations maps a resource type to its instance-level
	// $-operations.
	InstanceOperations map[string][]string `json:"instanceOperations,omitempty"`

	// SortFields maps a resource type to the fields accepted by _sort.
	SortFields map[string][]string `json:"sortFields,omitempty"`

	// Includes maps a resource type to its declared _include targets
	// ("Resource:param" form).
	Includes map[string][]string `json:"includes,omitempty"`

	// RevIncludes maps a resource type to its declared _revinclude targets.
	RevIncludes map[string][]string `json:"revIncludes,omitempty"`

	// APIEndpoints lists non-FHIR console endpoints under /api offered in
	// completions at an /api path.
	APIEndpoints []string `json:"apiEndpoints,omitempty"`
}

// HasResourceType reports whether the metadata declares the resource type.
func (m *Metadata) HasResourceType(rt string) bool {
	if m == nil {
		return false
	}
	for _, t := range m.ResourceTypes {
		if t == rt {
			return true
		}
	}
	return false
}

// ParamsFor returns the declared search parameters for a resource type.
// The second return is false when the metadata carries no entry for the
// type, which callers must treat as "unknown", not "no parameters".
func (m *Metadata) ParamsFor(rt string) ([]SearchParam, bool) {
	if m == nil || m.SearchParams == nil {
		return nil, false
	}
	params, ok := m.SearchParams[rt]
	return params, ok
}

// FindParam looks up a search parameter by code for a resource type.
func (m *Metadata) FindParam(rt, code string) (SearchParam, bool) {
	params, ok := m.ParamsFor(rt)
	if !ok {
		return SearchParam{}, false
	}
	for _, p := range params {
		if p.Code == code {
			return p, true
		}
	}
	return SearchParam{}, false
}

// TypeOperationsFor returns the type-level operations for a resource type,
// falling back to the default set when the metadata declares none.
func (m *Metadata) TypeOperationsFor(rt string) []string {
	if m != nil && m.TypeOperations != nil {
		if ops, ok := m.TypeOperations[rt]; ok && len(ops) > 0 {
			return ops
		}
	}
	return DefaultTypeOperations
}

// InstanceOperationsFor returns the instance-level operations for a
// resource type, falling back to the default set.
func (m *Metadata) InstanceOperationsFor(rt string) []string {
	if m != nil && m.InstanceOperations != nil {
		if ops, ok := m.InstanceOperations[rt]; ok && len(ops) > 0 {
			return ops
		}
	}
	return DefaultInstanceOperations
}

// SystemOperationsList returns the system-level operations, falling back
// to the default set.
func (m *Metadata) SystemOperationsList() []string {
	if m != nil && len(m.SystemOperations) > 0 {
		return m.SystemOperations
	}
	return DefaultSystemOperations
}

// Default operation sets offered when the capability statement does not
// declare operations explicitly.
var (
	DefaultSystemOperations   = []string{"$export"}
	DefaultTypeOperations     = []string{"$validate", "$export"}
	DefaultInstanceOperations = []string{"$validate", "$everything"}
)

// CommonSearchParams returns the parameters that apply to every resource
// type: the _-prefixed search and result parameters from the FHIR search
// specification. The returned slice is freshly allocated.
func CommonSearchParams() []SearchParam {
	return []SearchParam{
		{Code: "_id", Type: TypeToken, Documentation: "Logical id of the resource"},
		{Code: "_lastUpdated", Type: TypeDate, Documentation: "When the resource version last changed"},
		{Code: "_tag", Type: TypeToken, Documentation: "Tags applied to the resource"},
		{Code: "_profile", Type: TypeURI, Documentation: "Profiles the resource claims to conform to"},
		{Code: "_security", Type: TypeToken, Documentation: "Security labels applied to the resource"},
		{Code: "_text", Type: TypeString, Documentation: "Search on the narrative text"},
		{Code: "_content", Type: TypeString, Documentation: "Search on the entire content"},
		{Code: "_has", Type: TypeSpecial, Documentation: "Reverse chaining"},
		{Code: "_type", Type: TypeToken, Documentation: "Restrict a cross-type search to listed types"},
		{Code: "_sort", Type: TypeSpecial, Documentation: "Order results by the listed fields"},
		{Code: "_count", Type: TypeNumber, Documentation: "Maximum number of results per page"},
		{Code: "_offset", Type: TypeNumber, Documentation: "Number of results to skip"},
		{Code: "_include", Type: TypeSpecial, Documentation: "Include referenced resources"},
		{Code: "_revinclude", Type: TypeSpecial, Documentation: "Include resources that reference the match"},
		{Code: "_summary", Type: TypeSpecial, Documentation: "Return a subset of each resource"},
		{Code: "_total", Type: TypeSpecial, Documentation: "Control the total-count calculation"},
		{Code: "_elements", Type: TypeSpecial, Documentation: "Return only the listed elements"},
		{Code: "_contained", Type: TypeToken, Documentation: "Whether to return contained resources"},
	}
}
