// Package ast defines the typed abstract syntax tree for FHIR REST
// path+query strings, and its serializer. The parser package produces
// these nodes; the diagnose, explain and builder packages consume them.
//
// Path is a closed sum type: every variant is a struct in this package
// and nothing else implements the interface. Consumers switch over the
// concrete types, so adding a variant forces every consumer to be
// revisited.
package ast

import (
	"strings"

	fq "github.com/gofhir/query"
)

// PathKind discriminates the Path variants.
type PathKind string

// Path variants.
const (
	KindRoot              PathKind = "root"
	KindAPIEndpoint       PathKind = "api-endpoint"
	KindResourceType      PathKind = "resource-type"
	KindResourceInstance  PathKind = "resource-instance"
	KindTypeOperation     PathKind = "type-operation"
	KindInstanceOperation PathKind = "instance-operation"
	KindSystemOperation   PathKind = "system-operation"
	KindUnknown           PathKind = "unknown"
)

// Path is the parsed path portion of a query. It is a closed tagged
// union: segment count and $-prefix are the sole discriminators, and the
// variant fully determines which fields are populated.
type Path interface {
	Kind() PathKind
	Span() fq.TextSpan
	isPath()
}

// Root is the server root: an empty path, a bare "/", or the base path
// alone.
type Root struct {
	Loc fq.TextSpan
}

// APIEndpoint is a non-FHIR console path under /api. Text holds the full
// path part verbatim, including the "/api" prefix.
type APIEndpoint struct {
	Text string
	Loc  fq.TextSpan
}

// ResourceType is a type-level path: one segment naming a resource type.
type ResourceType struct {
	Name string
	Loc  fq.TextSpan
}

// ResourceInstance is an instance path: ResourceType/id. NameLoc covers
// just the resource-type segment.
type ResourceInstance struct {
	Name    string
	ID      string
	Loc     fq.TextSpan
	NameLoc fq.TextSpan
}

// TypeOperation is a type-level operation: ResourceType/$op. Operation
// includes the leading "$".
type TypeOperation struct {
	Name      string
	Operation string
	Loc       fq.TextSpan
	NameLoc   fq.TextSpan
}

// InstanceOperation is an instance-level operation: ResourceType/id/$op.
type InstanceOperation struct {
	Name      string
	ID        string
	Operation string
	Loc       fq.TextSpan
	NameLoc   fq.TextSpan
}

// SystemOperation is a root-level operation: $op directly under the base
// path.
type SystemOperation struct {
	Operation string
	Loc       fq.TextSpan
}

// Unknown is an unparseable path. Text holds the full path part verbatim
// so serialization reproduces the input unchanged.
type Unknown struct {
	Text string
	Loc  fq.TextSpan
}

func (Root) Kind() PathKind              { return KindRoot }
func (APIEndpoint) Kind() PathKind       { return KindAPIEndpoint }
func (ResourceType) Kind() PathKind      { return KindResourceType }
func (ResourceInstance) Kind() PathKind  { return KindResourceInstance }
func (TypeOperation) Kind() PathKind     { return KindTypeOperation }
func (InstanceOperation) Kind() PathKind { return KindInstanceOperation }
func (SystemOperation) Kind() PathKind   { return KindSystemOperation }
func (Unknown) Kind() PathKind           { return KindUnknown }

func (p Root) Span() fq.TextSpan              { return p.Loc }
func (p APIEndpoint) Span() fq.TextSpan       { return p.Loc }
func (p ResourceType) Span() fq.TextSpan      { return p.Loc }
func (p ResourceInstance) Span() fq.TextSpan  { return p.Loc }
func (p TypeOperation) Span() fq.TextSpan     { return p.Loc }
func (p InstanceOperation) Span() fq.TextSpan { return p.Loc }
func (p SystemOperation) Span() fq.TextSpan   { return p.Loc }
func (p Unknown) Span() fq.TextSpan           { return p.Loc }

func (Root) isPath()              {}
func (APIEndpoint) isPath()       {}
func (ResourceType) isPath()      {}
func (ResourceInstance) isPath()  {}
func (TypeOperation) isPath()     {}
func (InstanceOperation) isPath() {}
func (SystemOperation) isPath()   {}
func (Unknown) isPath()           {}

// ResourceTypeOf returns the resource type a path variant carries, if any.
func ResourceTypeOf(p Path) (string, bool) {
	switch v := p.(type) {
	case ResourceType:
		return v.Name, true
	case ResourceInstance:
		return v.Name, true
	case TypeOperation:
		return v.Name, true
	case InstanceOperation:
		return v.Name, true
	default:
		return "", false
	}
}

// ResourceNameSpan returns the span of just the resource-type segment for
// variants that carry one, so diagnostics can flag the type name without
// covering the id or operation.
func ResourceNameSpan(p Path) (fq.TextSpan, bool) {
	switch v := p.(type) {
	case ResourceType:
		return v.Loc, true
	case ResourceInstance:
		return v.NameLoc, true
	case TypeOperation:
		return v.NameLoc, true
	case InstanceOperation:
		return v.NameLoc, true
	default:
		return fq.TextSpan{}, false
	}
}

// ResourceIDOf returns the resource id a path variant carries, if any.
func ResourceIDOf(p Path) (string, bool) {
	switch v := p.(type) {
	case ResourceInstance:
		return v.ID, true
	case InstanceOperation:
		return v.ID, true
	default:
		return "", false
	}
}

// OperationOf returns the operation a path variant carries (with its
// leading "$"), if any.
func OperationOf(p Path) (string, bool) {
	switch v := p.(type) {
	case TypeOperation:
		return v.Operation, true
	case InstanceOperation:
		return v.Operation, true
	case SystemOperation:
		return v.Operation, true
	default:
		return "", false
	}
}

// Param is one query-string parameter: name[:modifier]=value,value.
// Parameters appear in query-string order; duplicates are preserved as
// separate nodes and flagged by diagnostics, not the parser.
type Param struct {
	// Name is the parameter name, without modifier.
	Name string

	// Modifier is the substring after the ":" in the key, empty if none.
	Modifier string

	// Values holds one node per comma-separated OR segment. A nil slice
	// means the token carried no "=" at all; a single empty value means
	// an explicit "name=".
	Values []Value

	// IsSpecial is true for "_"-prefixed parameter names.
	IsSpecial bool

	// Loc covers the whole token, NameLoc just the name, ModifierLoc
	// just the modifier text (zero when absent).
	Loc         fq.TextSpan
	NameLoc     fq.TextSpan
	ModifierLoc fq.TextSpan
}

// Key returns the serialized key: name[:modifier].
func (p Param) Key() string {
	if p.Modifier != "" {
		return p.Name + ":" + p.Modifier
	}
	return p.Name
}

// Value is one comma-separated OR segment of a parameter value.
type Value struct {
	// Raw is the full segment text, including any comparator prefix.
	Raw string

	// Prefix is the detected two-letter comparator, empty if none.
	// Detection is purely lexical; type-appropriateness is a
	// diagnostics-time concern.
	Prefix Prefix

	// Loc covers this segment in the original raw string.
	Loc fq.TextSpan
}

// Argument returns the value text with any comparator prefix removed.
func (v Value) Argument() string {
	return strings.TrimPrefix(v.Raw, string(v.Prefix))
}

// Query is an immutable snapshot of one parse.
type Query struct {
	// Raw is the original input string.
	Raw string

	// BasePath is the mount prefix the path was parsed against.
	BasePath string

	// Path is the parsed path portion.
	Path Path

	// Params are the query-string parameters in original order.
	Params []Param
}
