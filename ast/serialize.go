package ast

import "strings"

// Serialize renders the query back to a raw string. It is a pure function
// of Path and Params, not of Raw, which is what makes it usable for the
// builder round trip: an AST assembled programmatically serializes the
// same way as a parsed one.
//
// For every string s the serializer can produce from a parser-built AST,
// parser.Parse(s).Serialize() == s.
func (q *Query) Serialize() string {
	var b strings.Builder
	b.WriteString(SerializePath(q.Path, q.BasePath))
	if len(q.Params) > 0 {
		b.WriteByte('?')
		for i, p := range q.Params {
			if i > 0 {
				b.WriteByte('&')
			}
			p.serializeTo(&b)
		}
	}
	return b.String()
}

// SerializePath renders a path variant under the given base path. The
// api-endpoint and unknown variants carry their original text verbatim
// and ignore basePath.
func SerializePath(p Path, basePath string) string {
	switch v := p.(type) {
	case Root:
		return basePath
	case APIEndpoint:
		return v.Text
	case ResourceType:
		return basePath + "/" + v.Name
	case ResourceInstance:
		return basePath + "/" + v.Name + "/" + v.ID
	case TypeOperation:
		return basePath + "/" + v.Name + "/" + v.Operation
	case InstanceOperation:
		return basePath + "/" + v.Name + "/" + v.ID + "/" + v.Operation
	case SystemOperation:
		return basePath + "/" + v.Operation
	case Unknown:
		return v.Text
	default:
		return basePath
	}
}

// serializeTo writes name[:modifier][=v1,v2]. A param whose Values slice
// is nil serializes with no "=" at all; a single empty value serializes
// as "name=".
func (p Param) serializeTo(b *strings.Builder) {
	b.WriteString(p.Key())
	if p.Values == nil {
		return
	}
	b.WriteByte('=')
	for i, v := range p.Values {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(v.Raw)
	}
}

// SerializeParam renders a single parameter token.
func SerializeParam(p Param) string {
	var b strings.Builder
	p.serializeTo(&b)
	return b.String()
}
