// Package cursor classifies "what is the user typing right now" inside a
// raw, possibly partial, possibly invalid query string. It operates only
// on the substring before the cursor plus a one-character lookahead; it
// shares the parser's raw-string conventions but never calls it, since
// the text under the cursor is usually not yet parseable.
//
// The resolver is a small state machine over segment count, trailing
// character and known-resource membership. Its single most important
// output is the Insert flag: a zero-width insertion point (append after a
// complete token) behaves differently from a fragment replacement, and
// suggestion insertion is only correct when the two are kept distinct.
package cursor

import (
	"strings"

	fq "github.com/gofhir/query"
)

// Kind classifies the editing position.
type Kind string

// The fixed set of cursor contexts.
const (
	KindRoot              Kind = "root"
	KindBasePath          Kind = "base-path"
	KindResourceType      Kind = "resource-type"
	KindResourceID        Kind = "resource-id"
	KindNextAfterResource Kind = "next-after-resource"
	KindNextAfterID       Kind = "next-after-id"
	KindTypeOperation     Kind = "type-operation"
	KindInstanceOperation Kind = "instance-operation"
	KindSystemOperation   Kind = "system-operation"
	KindQueryParam        Kind = "query-param"
	KindQueryModifier     Kind = "query-modifier"
	KindQueryValue        Kind = "query-value"
	KindAPIEndpoint       Kind = "api-endpoint"
	KindUnknown           Kind = "unknown"
)

// Context is the classified editing position. Span is exactly the range
// an accepted suggestion should replace; when Insert is true the span is
// zero-width and suggestions append at the cursor instead of replacing.
type Context struct {
	Kind Kind `json:"kind"`

	// ResourceType, ResourceID and ParamName carry the surrounding
	// tokens when the position determines them.
	ResourceType string `json:"resourceType,omitempty"`
	ResourceID   string `json:"resourceId,omitempty"`
	ParamName    string `json:"paramName,omitempty"`

	// ParamType is left empty by the resolver, which has no metadata;
	// consumers that resolve ParamName against metadata may fill it in.
	ParamType fq.SearchParamType `json:"paramType,omitempty"`

	// Fragment is the partial text being typed at the cursor.
	Fragment string `json:"fragment"`

	// Span is the range an accepted suggestion replaces.
	Span fq.TextSpan `json:"span"`

	// Insert marks a zero-width insertion point after a complete token,
	// as opposed to replacement of the fragment.
	Insert bool `json:"insert,omitempty"`
}

// Resolve classifies the cursor position against the default base path.
func Resolve(raw string, offset int, resourceTypes []string) Context {
	return ResolveWithBase(raw, offset, resourceTypes, fq.DefaultBasePath)
}

// ResolveWithBase classifies the cursor position. offset is clamped into
// [0, len(raw)]. resourceTypes is the set of known resource types, used
// only to decide whether a complete segment is a resource type; an empty
// set degrades to fragment-replacement classification.
func ResolveWithBase(raw string, offset int, resourceTypes []string, basePath string) Context {
	if basePath == "" {
		basePath = fq.DefaultBasePath
	}
	if offset < 0 {
		offset = 0
	}
	if offset > len(raw) {
		offset = len(raw)
	}

	before := raw[:offset]
	var lookahead byte
	if offset < len(raw) {
		lookahead = raw[offset]
	}

	if strings.HasPrefix(before, "/api") {
		return Context{Kind: KindAPIEndpoint, Fragment: before, Span: fq.Span(0, offset)}
	}
	if before == "" || before == "/" {
		return Context{Kind: KindRoot, Fragment: before, Span: fq.Span(0, offset)}
	}
	if qi := strings.IndexByte(before, '?'); qi >= 0 {
		return resolveQuery(before, qi, offset, basePath)
	}
	return resolvePath(before, offset, lookahead, resourceTypes, basePath)
}

// resolvePath classifies a cursor inside the path part.
func resolvePath(before string, offset int, lookahead byte, resourceTypes []string, basePath string) Context {
	if !strings.HasPrefix(before, basePath) {
		// Still typing the mount prefix itself, or an /api prefix.
		if strings.HasPrefix(basePath, before) {
			return Context{Kind: KindBasePath, Fragment: before, Span: fq.Span(0, offset)}
		}
		if strings.HasPrefix("/api", before) {
			return Context{Kind: KindAPIEndpoint, Fragment: before, Span: fq.Span(0, offset)}
		}
		return Context{Kind: KindUnknown, Fragment: before, Span: fq.Span(0, offset)}
	}
	rest := before[len(basePath):]
	if rest != "" && rest[0] != '/' {
		return Context{Kind: KindUnknown, Fragment: before, Span: fq.Span(0, offset)}
	}

	segs := splitSegments(before, len(basePath), offset)
	trailingSlash := strings.HasSuffix(before, "/")

	switch len(segs) {
	case 0:
		// "/fhir" or "/fhir/": about to type the first segment.
		return Context{Kind: KindResourceType, Span: fq.ZeroSpan(offset)}

	case 1:
		s := segs[0]
		if trailingSlash {
			// "/fhir/Patient/": second-segment position.
			return Context{Kind: KindResourceID, ResourceType: s.text, Span: fq.ZeroSpan(offset)}
		}
		if s.isOperation() {
			return Context{Kind: KindSystemOperation, Fragment: s.text, Span: s.span()}
		}
		if containsString(resourceTypes, s.text) {
			if lookahead == '$' {
				// Cursor wedged between a complete type and an
				// existing $-operation text.
				return Context{Kind: KindTypeOperation, ResourceType: s.text, Span: fq.ZeroSpan(offset), Insert: true}
			}
			return Context{Kind: KindNextAfterResource, ResourceType: s.text, Span: fq.ZeroSpan(offset), Insert: true}
		}
		return Context{Kind: KindResourceType, Fragment: s.text, Span: s.span()}

	case 2:
		s1, s2 := segs[0], segs[1]
		if trailingSlash {
			// "/fhir/Patient/123/": third-segment position, only
			// operations are legal there.
			return Context{Kind: KindInstanceOperation, ResourceType: s1.text, ResourceID: s2.text, Span: fq.ZeroSpan(offset)}
		}
		if s2.isOperation() {
			return Context{Kind: KindTypeOperation, ResourceType: s1.text, Fragment: s2.text, Span: s2.span()}
		}
		if lookahead == '$' {
			return Context{Kind: KindInstanceOperation, ResourceType: s1.text, ResourceID: s2.text, Span: fq.ZeroSpan(offset), Insert: true}
		}
		// An id segment is never "complete" against a known set the way
		// a resource type is, so cursor-at-end is treated as the
		// zero-width append point.
		return Context{Kind: KindNextAfterID, ResourceType: s1.text, ResourceID: s2.text, Span: fq.ZeroSpan(offset), Insert: true}

	case 3:
		s1, s2, s3 := segs[0], segs[1], segs[2]
		if s3.isOperation() {
			return Context{Kind: KindInstanceOperation, ResourceType: s1.text, ResourceID: s2.text, Fragment: s3.text, Span: s3.span()}
		}
		return Context{Kind: KindUnknown, Fragment: before, Span: fq.Span(0, offset)}

	default:
		return Context{Kind: KindUnknown, Fragment: before, Span: fq.Span(0, offset)}
	}
}

// resolveQuery classifies a cursor inside the query part by locating the
// last "&", then the "=" and ":" within the trailing token.
func resolveQuery(before string, queryStart, offset int, basePath string) Context {
	rt, rid := pathHint(before[:queryStart], basePath)

	tokStart := queryStart + 1
	if amp := strings.LastIndexByte(before[tokStart:], '&'); amp >= 0 {
		tokStart += amp + 1
	}
	token := before[tokStart:offset]

	if eq := strings.IndexByte(token, '='); eq >= 0 {
		name, _, _ := strings.Cut(token[:eq], ":")
		// OR values: only the segment after the last comma is edited.
		fragStart := tokStart + eq + 1
		if comma := strings.LastIndexByte(token[eq+1:], ','); comma >= 0 {
			fragStart += comma + 1
		}
		return Context{
			Kind:         KindQueryValue,
			ResourceType: rt,
			ResourceID:   rid,
			ParamName:    name,
			Fragment:     before[fragStart:offset],
			Span:         fq.Span(fragStart, offset),
		}
	}

	if colon := strings.IndexByte(token, ':'); colon >= 0 {
		fragStart := tokStart + colon + 1
		return Context{
			Kind:         KindQueryModifier,
			ResourceType: rt,
			ResourceID:   rid,
			ParamName:    token[:colon],
			Fragment:     before[fragStart:offset],
			Span:         fq.Span(fragStart, offset),
		}
	}

	return Context{
		Kind:         KindQueryParam,
		ResourceType: rt,
		ResourceID:   rid,
		Fragment:     token,
		Span:         fq.Span(tokStart, offset),
	}
}

// pathHint extracts the resource type and id from a complete path part,
// for query contexts that need to know which resource's parameters apply.
func pathHint(path, basePath string) (rt, id string) {
	if !strings.HasPrefix(path, basePath) {
		return "", ""
	}
	rest := path[len(basePath):]
	if rest != "" && rest[0] != '/' {
		return "", ""
	}
	segs := splitSegments(path, len(basePath), len(path))
	if len(segs) >= 1 && !segs[0].isOperation() {
		rt = segs[0].text
	}
	if len(segs) >= 2 && !segs[1].isOperation() {
		id = segs[1].text
	}
	return rt, id
}

// segment mirrors the parser's segment bookkeeping; the resolver keeps
// its own copy because it works on the pre-cursor substring, not a parse.
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

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
