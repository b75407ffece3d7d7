package parser

import (
	"testing"

	fq "github.com/gofhir/query"
	"github.com/gofhir/query/ast"
)

func TestParse_PathVariants(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want ast.PathKind
	}{
		{"empty", "", ast.KindRoot},
		{"slash", "/", ast.KindRoot},
		{"base path", "/fhir", ast.KindRoot},
		{"base path trailing slash", "/fhir/", ast.KindRoot},
		{"resource type", "/fhir/Patient", ast.KindResourceType},
		{"resource instance", "/fhir/Patient/123", ast.KindResourceInstance},
		{"type operation", "/fhir/Patient/$validate", ast.KindTypeOperation},
		{"instance operation", "/fhir/Patient/123/$everything", ast.KindInstanceOperation},
		{"system operation", "/fhir/$export", ast.KindSystemOperation},
		{"api endpoint", "/api/health", ast.KindAPIEndpoint},
		{"api bare", "/api", ast.KindAPIEndpoint},
		{"not under base", "/other/Patient", ast.KindUnknown},
		{"base without boundary", "/fhirfoo", ast.KindUnknown},
		{"four segments", "/fhir/Patient/123/history/456", ast.KindUnknown},
		{"third segment not operation", "/fhir/Patient/123/extra", ast.KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Parse(tt.raw)
			if got := q.Path.Kind(); got != tt.want {
				t.Errorf("Parse(%q).Path.Kind() = %s; want %s", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParse_ResourceInstance(t *testing.T) {
	q := Parse("/fhir/Patient/abc-123")

	ri, ok := q.Path.(ast.ResourceInstance)
	if !ok {
		t.Fatalf("Path = %T; want ResourceInstance", q.Path)
	}
	if ri.Name != "Patient" || ri.ID != "abc-123" {
		t.Errorf("ResourceInstance = %q/%q; want Patient/abc-123", ri.Name, ri.ID)
	}
	if ri.NameLoc != fq.Span(6, 13) {
		t.Errorf("NameLoc = %+v; want {6 13}", ri.NameLoc)
	}
	if ri.Loc != fq.Span(6, 21) {
		t.Errorf("Loc = %+v; want {6 21}", ri.Loc)
	}
}

func TestParse_Operations(t *testing.T) {
	q := Parse("/fhir/Patient/123/$everything")
	op, ok := q.Path.(ast.InstanceOperation)
	if !ok {
		t.Fatalf("Path = %T; want InstanceOperation", q.Path)
	}
	if op.Name != "Patient" || op.ID != "123" || op.Operation != "$everything" {
		t.Errorf("InstanceOperation = %+v", op)
	}

	q = Parse("/fhir/$export")
	sys, ok := q.Path.(ast.SystemOperation)
	if !ok {
		t.Fatalf("Path = %T; want SystemOperation", q.Path)
	}
	if sys.Operation != "$export" {
		t.Errorf("Operation = %q; want $export", sys.Operation)
	}
	if sys.Loc != fq.Span(6, 13) {
		t.Errorf("Loc = %+v; want {6 13}", sys.Loc)
	}
}

func TestParse_UnknownKeepsText(t *testing.T) {
	raw := "/somewhere/else?x=1"
	q := Parse(raw)
	u, ok := q.Path.(ast.Unknown)
	if !ok {
		t.Fatalf("Path = %T; want Unknown", q.Path)
	}
	if u.Text != "/somewhere/else" {
		t.Errorf("Text = %q; want the verbatim path part", u.Text)
	}
}

func TestParseWithBase(t *testing.T) {
	q := ParseWithBase("/r4/Patient", "/r4")
	if got := q.Path.Kind(); got != ast.KindResourceType {
		t.Errorf("Kind = %s; want resource-type", got)
	}

	// Under the default base the same string is unknown.
	q = Parse("/r4/Patient")
	if got := q.Path.Kind(); got != ast.KindUnknown {
		t.Errorf("Kind = %s; want unknown", got)
	}

	// Empty base path falls back to the default.
	q = ParseWithBase("/fhir/Patient", "")
	if got := q.Path.Kind(); got != ast.KindResourceType {
		t.Errorf("Kind = %s; want resource-type", got)
	}
}

func TestParse_Params(t *testing.T) {
	q := Parse("/fhir/Patient?name:exact=Smith&_count=10")

	if len(q.Params) != 2 {
		t.Fatalf("len(Params) = %d; want 2", len(q.Params))
	}

	p := q.Params[0]
	if p.Name != "name" || p.Modifier != "exact" {
		t.Errorf("param[0] = %q:%q; want name:exact", p.Name, p.Modifier)
	}
	if p.IsSpecial {
		t.Error("param[0].IsSpecial = true; want false")
	}
	if len(p.Values) != 1 || p.Values[0].Raw != "Smith" {
		t.Errorf("param[0].Values = %+v; want [Smith]", p.Values)
	}

	c := q.Params[1]
	if c.Name != "_count" || !c.IsSpecial {
		t.Errorf("param[1] = %q special=%v; want _count special", c.Name, c.IsSpecial)
	}
}

func TestParse_ParamSpans(t *testing.T) {
	raw := "/fhir/Patient?name:exact=Smith,Jones"
	q := Parse(raw)

	p := q.Params[0]
	if got := p.Loc.Slice(raw); got != "name:exact=Smith,Jones" {
		t.Errorf("Loc covers %q; want full token", got)
	}
	if got := p.NameLoc.Slice(raw); got != "name" {
		t.Errorf("NameLoc covers %q; want name", got)
	}
	if got := p.ModifierLoc.Slice(raw); got != "exact" {
		t.Errorf("ModifierLoc covers %q; want exact", got)
	}
	if len(p.Values) != 2 {
		t.Fatalf("len(Values) = %d; want 2", len(p.Values))
	}
	if got := p.Values[0].Loc.Slice(raw); got != "Smith" {
		t.Errorf("Values[0].Loc covers %q; want Smith", got)
	}
	if got := p.Values[1].Loc.Slice(raw); got != "Jones" {
		t.Errorf("Values[1].Loc covers %q; want Jones", got)
	}
}

func TestParse_ParamShapes(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantValues int  // -1 means nil slice
		hasEq      bool
	}{
		{"bare key", "/fhir/Patient?name", -1, false},
		{"explicit empty", "/fhir/Patient?name=", 1, true},
		{"single value", "/fhir/Patient?name=a", 1, true},
		{"or values", "/fhir/Patient?status=a,b,c", 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Parse(tt.raw)
			if len(q.Params) != 1 {
				t.Fatalf("len(Params) = %d; want 1", len(q.Params))
			}
			p := q.Params[0]
			if tt.wantValues < 0 {
				if p.Values != nil {
					t.Errorf("Values = %+v; want nil", p.Values)
				}
				return
			}
			if len(p.Values) != tt.wantValues {
				t.Errorf("len(Values) = %d; want %d", len(p.Values), tt.wantValues)
			}
		})
	}
}

func TestParse_EmptyTokensSkipped(t *testing.T) {
	q := Parse("/fhir/Patient?a=1&&b=2&")
	if len(q.Params) != 2 {
		t.Fatalf("len(Params) = %d; want 2", len(q.Params))
	}
	if q.Params[0].Name != "a" || q.Params[1].Name != "b" {
		t.Errorf("params = %q, %q; want a, b", q.Params[0].Name, q.Params[1].Name)
	}
}

func TestParse_DuplicatesPreserved(t *testing.T) {
	q := Parse("/fhir/Patient?name=a&name=b")
	if len(q.Params) != 2 {
		t.Fatalf("len(Params) = %d; want 2, duplicates kept as separate nodes", len(q.Params))
	}
}

func TestParse_ValuePrefixes(t *testing.T) {
	q := Parse("/fhir/Patient?birthdate=ge2020-01-01,le2021-12-31")
	p := q.Params[0]
	if len(p.Values) != 2 {
		t.Fatalf("len(Values) = %d; want 2", len(p.Values))
	}
	if p.Values[0].Prefix != ast.PrefixGe {
		t.Errorf("Values[0].Prefix = %q; want ge", p.Values[0].Prefix)
	}
	if p.Values[1].Prefix != ast.PrefixLe {
		t.Errorf("Values[1].Prefix = %q; want le", p.Values[1].Prefix)
	}
	if got := p.Values[0].Argument(); got != "2020-01-01" {
		t.Errorf("Argument() = %q; want 2020-01-01", got)
	}
}

// Prefix detection is purely lexical; the string-typed parameter is only
// re-judged by diagnostics, never by the parser.
func TestParse_PrefixDetectionIsLexical(t *testing.T) {
	q := Parse("/fhir/Patient?name=george")
	if got := q.Params[0].Values[0].Prefix; got != ast.PrefixGe {
		t.Errorf("Prefix = %q; want lexical ge", got)
	}
}

// Round trip: for any string the serializer produces, re-parsing and
// re-serializing reproduces it exactly.
func TestParse_RoundTrip(t *testing.T) {
	raws := []string{
		"/fhir",
		"/fhir/Patient",
		"/fhir/Patient/123",
		"/fhir/Patient/$validate",
		"/fhir/Patient/123/$everything",
		"/fhir/$export",
		"/api/health",
		"/fhir/Patient?name=smith",
		"/fhir/Patient?name:exact=Smith&_count=10",
		"/fhir/Patient?status=active,completed",
		"/fhir/Patient?name=",
		"/fhir/Patient?name",
		"/fhir/Observation?date=ge2020-01-01&_sort=-date",
		"/somewhere/else",
		"/somewhere/else?x=1,2&y:mod=z",
	}

	for _, raw := range raws {
		if got := Parse(raw).Serialize(); got != raw {
			t.Errorf("Parse(%q).Serialize() = %q; want input unchanged", raw, got)
		}
	}
}

func TestParse_Deterministic(t *testing.T) {
	raw := "/fhir/Patient?name:exact=Smith&_sort=-date,name"
	a := Parse(raw)
	b := Parse(raw)
	if a.Serialize() != b.Serialize() {
		t.Error("two parses of the same input serialize differently")
	}
	if len(a.Params) != len(b.Params) {
		t.Error("two parses of the same input differ in params")
	}
}
