package builder

import (
	"fmt"
	"testing"

	fq "github.com/gofhir/query"
	"github.com/gofhir/query/ast"
	"github.com/gofhir/query/parser"
)

// sequentialIDs returns a deterministic generator for tests.
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("p%d", n)
	}
}

func TestFromQuery_Path(t *testing.T) {
	tests := []struct {
		raw          string
		resourceType string
		resourceID   string
		operation    string
	}{
		{"/fhir", "", "", ""},
		{"/fhir/Patient", "Patient", "", ""},
		{"/fhir/Patient/123", "Patient", "123", ""},
		{"/fhir/Patient/$validate", "Patient", "", "$validate"},
		{"/fhir/Patient/123/$everything", "Patient", "123", "$everything"},
		{"/fhir/$export", "", "", "$export"},
	}

	for _, tt := range tests {
		s := FromQuery(parser.Parse(tt.raw))
		if s.ResourceType != tt.resourceType || s.ResourceID != tt.resourceID || s.Operation != tt.operation {
			t.Errorf("FromQuery(%q) = %s/%s/%s; want %s/%s/%s",
				tt.raw, s.ResourceType, s.ResourceID, s.Operation,
				tt.resourceType, tt.resourceID, tt.operation)
		}
	}
}

func TestFromQuery_Params(t *testing.T) {
	q := parser.Parse("/fhir/Patient?name:exact=Smith&status=a,b&flag&empty=")
	s := FromQuery(q, fq.WithIDGenerator(sequentialIDs()))

	if len(s.Params) != 4 {
		t.Fatalf("len(Params) = %d; want 4", len(s.Params))
	}

	p := s.Params[0]
	if p.ID != "p1" {
		t.Errorf("ID = %q; want p1 from the configured generator", p.ID)
	}
	if p.Code != "name" || p.Modifier != "exact" || p.Value != "Smith" || !p.HasValue {
		t.Errorf("param[0] = %+v", p)
	}

	if s.Params[1].Value != "a,b" {
		t.Errorf("or values joined = %q; want a,b", s.Params[1].Value)
	}

	// Bare key: no value at all.
	if s.Params[2].HasValue {
		t.Error("bare key has HasValue = true")
	}
	// Explicit empty value: HasValue with empty text.
	if !s.Params[3].HasValue || s.Params[3].Value != "" {
		t.Errorf("param[3] = %+v; want explicit empty value", s.Params[3])
	}
}

func TestFromQuery_DefaultIDsUnique(t *testing.T) {
	s := FromQuery(parser.Parse("/fhir/Patient?a=1&b=2&c=3"))
	seen := make(map[string]bool)
	for _, p := range s.Params {
		if p.ID == "" {
			t.Error("param with empty ID")
		}
		if seen[p.ID] {
			t.Errorf("duplicate param ID %q", p.ID)
		}
		seen[p.ID] = true
	}
}

func TestState_ToQuery(t *testing.T) {
	s := State{
		ResourceType: "Patient",
		Params: []Param{
			{Code: "name", Modifier: "exact", Value: "Smith", HasValue: true},
			{Code: "_count", Value: "10", HasValue: true, IsSpecial: true},
		},
	}

	q := s.ToQuery()
	if got := q.Serialize(); got != "/fhir/Patient?name:exact=Smith&_count=10" {
		t.Errorf("Serialize() = %q", got)
	}
	if _, ok := q.Path.(ast.ResourceType); !ok {
		t.Errorf("Path = %T; want ResourceType", q.Path)
	}
}

func TestState_ToQuery_OperationWithoutResource(t *testing.T) {
	s := State{Operation: "$export"}
	if got := s.Raw(); got != "/fhir/$export" {
		t.Errorf("Raw() = %q; want /fhir/$export", got)
	}
}

func TestState_CustomBasePath(t *testing.T) {
	s := State{ResourceType: "Patient"}
	if got := s.Raw(fq.WithBasePath("/r4")); got != "/r4/Patient" {
		t.Errorf("Raw() = %q; want /r4/Patient", got)
	}
}

// Round trip law: flattening a parse and reassembling it reproduces the
// canonical serialization exactly.
func TestRoundTrip(t *testing.T) {
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
		"/somewhere/else?x=1",
	}

	for _, raw := range raws {
		q := parser.Parse(raw)
		if got := FromQuery(q).Raw(); got != q.Serialize() {
			t.Errorf("FromQuery(parse(%q)).Raw() = %q; want %q", raw, got, q.Serialize())
		}
	}
}

func TestRoundTrip_PreservesVerbatimPaths(t *testing.T) {
	for _, raw := range []string{"/api/metrics?window=1h", "/fhir/a/b/c/d"} {
		s := FromQuery(parser.Parse(raw))
		if got := s.Raw(); got != raw {
			t.Errorf("Raw() = %q; want verbatim %q", got, raw)
		}
	}
}
