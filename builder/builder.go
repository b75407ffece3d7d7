// Package builder maps between the AST and a flat, UI-friendly state
// record used by chip-based visual query editors. The mapping is
// bidirectional: FromQuery flattens a parse, ToQuery reassembles a raw
// string and re-parses it through the parser, so builder-driven queries
// always pass through the same invariants as hand-typed input.
package builder

import (
	"strings"

	"github.com/google/uuid"

	fq "github.com/gofhir/query"
	"github.com/gofhir/query/ast"
	"github.com/gofhir/query/parser"
)

// Param is one parameter chip. ID is a synthetic identifier used only for
// list-item identity in an editing UI; it has no semantic meaning and
// never appears in serialized output.
type Param struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	Modifier string `json:"modifier,omitempty"`

	// Value is the comma-joined value text. HasValue distinguishes an
	// explicit empty value ("name=") from a bare key ("name"), which
	// serialize differently.
	Value    string `json:"value"`
	HasValue bool   `json:"hasValue"`

	IsSpecial bool `json:"isSpecial"`
}

// State is the flat builder model: the path flattened into optional
// fields plus the parameter chips in order.
type State struct {
	ResourceType string  `json:"resourceType,omitempty"`
	ResourceID   string  `json:"resourceId,omitempty"`
	Operation    string  `json:"operation,omitempty"`
	Params       []Param `json:"params"`

	// rawPath preserves api-endpoint and unknown paths, which the flat
	// fields cannot represent, so those parses still round-trip.
	rawPath string
}

// FromQuery flattens a parsed query into builder state. Individual value
// spans are discarded (the builder UI re-derives spans by re-parsing on
// change). Param IDs come from the configured generator, defaulting to
// random UUIDs.
func FromQuery(q *ast.Query, opts ...fq.Option) State {
	o := fq.DefaultOptions().Apply(opts...)
	gen := o.IDGenerator
	if gen == nil {
		gen = uuid.NewString
	}

	var s State
	switch v := q.Path.(type) {
	case ast.Root:
		// all fields empty
	case ast.APIEndpoint:
		s.rawPath = v.Text
	case ast.ResourceType:
		s.ResourceType = v.Name
	case ast.ResourceInstance:
		s.ResourceType = v.Name
		s.ResourceID = v.ID
	case ast.TypeOperation:
		s.ResourceType = v.Name
		s.Operation = v.Operation
	case ast.InstanceOperation:
		s.ResourceType = v.Name
		s.ResourceID = v.ID
		s.Operation = v.Operation
	case ast.SystemOperation:
		s.Operation = v.Operation
	case ast.Unknown:
		s.rawPath = v.Text
	}

	for _, p := range q.Params {
		bp := Param{
			ID:        gen(),
			Code:      p.Name,
			Modifier:  p.Modifier,
			IsSpecial: p.IsSpecial,
		}
		if p.Values != nil {
			bp.HasValue = true
			var raws []string
			for _, v := range p.Values {
				raws = append(raws, v.Raw)
			}
			bp.Value = strings.Join(raws, ",")
		}
		s.Params = append(s.Params, bp)
	}
	return s
}

// ToQuery reassembles a raw string from the flat state and re-parses it.
func (s State) ToQuery(opts ...fq.Option) *ast.Query {
	o := fq.DefaultOptions().Apply(opts...)
	return parser.ParseWithBase(s.assemble(o.BasePath), o.BasePath)
}

// Raw composes ToQuery with the serializer. For any parser-built query q,
// FromQuery(q).Raw() == q.Serialize().
func (s State) Raw(opts ...fq.Option) string {
	return s.ToQuery(opts...).Serialize()
}

// assemble builds the raw path+query string for the state.
func (s State) assemble(basePath string) string {
	var b strings.Builder
	b.WriteString(s.assemblePath(basePath))

	if len(s.Params) > 0 {
		b.WriteByte('?')
		for i, p := range s.Params {
			if i > 0 {
				b.WriteByte('&')
			}
			b.WriteString(p.Code)
			if p.Modifier != "" {
				b.WriteByte(':')
				b.WriteString(p.Modifier)
			}
			if p.HasValue {
				b.WriteByte('=')
				b.WriteString(p.Value)
			}
		}
	}
	return b.String()
}

func (s State) assemblePath(basePath string) string {
	if s.rawPath != "" {
		return s.rawPath
	}
	if s.ResourceType == "" {
		if s.Operation != "" {
			return basePath + "/" + s.Operation
		}
		return basePath
	}
	path := basePath + "/" + s.ResourceType
	if s.ResourceID != "" {
		path += "/" + s.ResourceID
	}
	if s.Operation != "" {
		path += "/" + s.Operation
	}
	return path
}
