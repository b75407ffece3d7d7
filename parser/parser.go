// Package parser turns a raw FHIR REST path+query string into a typed
// ast.Query. Parsing is total: malformed input produces an unknown path
// variant, never an error. No segment is validated against metadata here;
// "unknown resource type" is a diagnostics-time concern, not a parse
// error.
package parser

import (
	"strings"

	fq "github.com/gofhir/query"
	"github.com/gofhir/query/ast"
)

// Parse parses raw against the default base path.
func Parse(raw string) *ast.Query {
	return ParseWithBase(raw, fq.DefaultBasePath)
}

// ParseWithBase parses raw against the given base path prefix. Every span
// on the resulting nodes is an exact character range into raw.
func ParseWithBase(raw, basePath string) *ast.Query {
	if basePath == "" {
		basePath = fq.DefaultBasePath
	}

	pathPart, queryPart, hasQuery := strings.Cut(raw, "?")

	q := &ast.Query{
		Raw:      raw,
		BasePath: basePath,
		Path:     parsePath(pathPart, basePath),
	}
	if hasQuery {
		q.Params = parseParams(queryPart, len(pathPart)+1)
	}
	return q
}

// segment is one non-empty path segment with its absolute offsets.
type segment struct {
	text       string
	start, end int
}

func (s segment) span() fq.TextSpan {
	return fq.Span(s.start, s.end)
}

func (s segment) isOperation() bool {
	return strings.HasPrefix(s.text, "$")
}

// parsePath classifies the path part. Segment count and $-prefix are the
// sole discriminators:
//
//	1 segment: resource-type, or system-operation if $-prefixed
//	2 segments: resource-instance, or type-operation if segment 2 is $-prefixed
//	3 segments: instance-operation only if segment 3 is $-prefixed
//	anything else: unknown
func parsePath(path, basePath string) ast.Path {
	full := fq.Span(0, len(path))

	if path == "" || path == "/" {
		return ast.Root{Loc: full}
	}
	if path == "/api" || strings.HasPrefix(path, "/api/") {
		return ast.APIEndpoint{Text: path, Loc: full}
	}

	rest, ok := stripBase(path, basePath)
	if !ok {
		return ast.Unknown{Text: path, Loc: full}
	}

	segs := splitSegments(path, len(basePath), len(basePath)+len(rest))
	switch len(segs) {
	case 0:
		// Base path alone, with or without a trailing slash.
		return ast.Root{Loc: full}
	case 1:
		s := segs[0]
		if s.isOperation() {
			return ast.SystemOperation{Operation: s.text, Loc: s.span()}
		}
		return ast.ResourceType{Name: s.text, Loc: s.span()}
	case 2:
		s1, s2 := segs[0], segs[1]
		loc := fq.Span(s1.start, s2.end)
		if s2.isOperation() {
			return ast.TypeOperation{Name: s1.text, Operation: s2.text, Loc: loc, NameLoc: s1.span()}
		}
		return ast.ResourceInstance{Name: s1.text, ID: s2.text, Loc: loc, NameLoc: s1.span()}
	case 3:
		s1, s2, s3 := segs[0], segs[1], segs[2]
		if s3.isOperation() {
			loc := fq.Span(s1.start, s3.end)
			return ast.InstanceOperation{Name: s1.text, ID: s2.text, Operation: s3.text, Loc: loc, NameLoc: s1.span()}
		}
		return ast.Unknown{Text: path, Loc: full}
	default:
		return ast.Unknown{Text: path, Loc: full}
	}
}

// stripBase removes the base path prefix. It requires a real segment
// boundary: "/fhirfoo" does not match base path "/fhir".
func stripBase(path, basePath string) (string, bool) {
	if !strings.HasPrefix(path, basePath) {
		return "", false
	}
	rest := path[len(basePath):]
	if rest != "" && rest[0] != '/' {
		return "", false
	}
	return rest, true
}

// splitSegments collects the non-empty "/"-separated segments of
// path[start:end], with absolute offsets. Trailing slashes fall out
// naturally as empty segments and are discarded.
func splitSegments(path string, start, end int) []segment {
	var segs []segment
	i := start
	for i < end {
		if path[i] == '/' {
			i++
			continue
		}
		j := i
		for j < end && path[j] != '/' {
			j++
		}
		segs = append(segs, segment{text: path[i:j], start: i, end: j})
		i = j
	}
	return segs
}

// parseParams splits the query part on "&" into parameter nodes. base is
// the absolute offset of the first character after the "?". Empty tokens
// ("a=1&&b=2") are skipped; a token with no "=" yields a nil Values slice,
// not an error.
func parseParams(query string, base int) []ast.Param {
	var params []ast.Param

	i := 0
	for i <= len(query) {
		j := strings.IndexByte(query[i:], '&')
		var token string
		if j < 0 {
			token = query[i:]
			j = len(query) + 1 - i
		} else {
			token = query[i : i+j]
			j++
		}
		if token != "" {
			params = append(params, parseParam(token, base+i))
		}
		i += j
	}
	return params
}

// parseParam parses one name[:modifier][=value,value] token starting at
// absolute offset start.
func parseParam(token string, start int) ast.Param {
	key, val, hasEq := strings.Cut(token, "=")
	name, modifier, hasModifier := strings.Cut(key, ":")

	p := ast.Param{
		Name:      name,
		Modifier:  modifier,
		IsSpecial: strings.HasPrefix(name, "_"),
		Loc:       fq.Span(start, start+len(token)),
		NameLoc:   fq.Span(start, start+len(name)),
	}
	if hasModifier {
		modStart := start + len(name) + 1
		p.ModifierLoc = fq.Span(modStart, start+len(key))
	}
	if hasEq {
		p.Values = parseValues(val, start+len(key)+1)
	}
	return p
}

// parseValues splits a value on "," into OR segments, each with its own
// span and lexically detected comparator prefix.
func parseValues(val string, start int) []ast.Value {
	parts := strings.Split(val, ",")
	values := make([]ast.Value, 0, len(parts))

	offset := start
	for _, part := range parts {
		values = append(values, ast.Value{
			Raw:    part,
			Prefix: ast.DetectPrefix(part),
			Loc:    fq.Span(offset, offset+len(part)),
		})
		offset += len(part) + 1
	}
	return values
}
