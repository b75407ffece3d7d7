package explain

import (
	"testing"

	fq "github.com/gofhir/query"
	"github.com/gofhir/query/parser"
)

func testMeta() *fq.Metadata {
	return &fq.Metadata{
		ResourceTypes: []string{"Patient"},
		SearchParams: map[string][]fq.SearchParam{
			"Patient": {
				{Code: "name", Type: fq.TypeString},
				{Code: "birthdate", Type: fq.TypeDate},
			},
		},
	}
}

func texts(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Text
	}
	return out
}

func TestExplain_Paths(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"/fhir", "FHIR server root"},
		{"/fhir/Patient", "Search Patient resources"},
		{"/fhir/Patient/123", `Read Patient resource with id "123"`},
		{"/fhir/Patient/$validate", "Invoke operation $validate on all Patient resources"},
		{"/fhir/Patient/123/$everything", "Invoke operation $everything on Patient/123"},
		{"/fhir/$export", "Invoke system operation $export"},
		{"/api/health", "Console API endpoint /api/health"},
		{"/nowhere", `Unrecognized path "/nowhere"`},
	}

	meta := testMeta()
	for _, tt := range tests {
		items := Explain(parser.Parse(tt.raw), meta)
		if len(items) != 1 {
			t.Fatalf("Explain(%q) = %v; want one item", tt.raw, texts(items))
		}
		if items[0].Text != tt.want {
			t.Errorf("Explain(%q) = %q; want %q", tt.raw, items[0].Text, tt.want)
		}
	}
}

func TestExplain_Filters(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			"plain match",
			"/fhir/Patient?name=smith",
			`Filter where Patient name matches "smith"`,
		},
		{
			"exact modifier",
			"/fhir/Patient?name:exact=Smith",
			`Filter where Patient name exactly matches "Smith"`,
		},
		{
			"contains modifier",
			"/fhir/Patient?name:contains=mit",
			`Filter where Patient name contains "mit"`,
		},
		{
			"date prefix",
			"/fhir/Patient?birthdate=ge2020-01-01",
			`Filter where Patient birthdate is on or after "2020-01-01"`,
		},
		{
			"or values",
			"/fhir/Patient?name=smith,jones",
			`Filter where Patient name matches "smith" or matches "jones"`,
		},
		{
			"missing true",
			"/fhir/Patient?name:missing=true",
			"Filter where Patient name is missing",
		},
		{
			"missing false",
			"/fhir/Patient?name:missing=false",
			"Filter where Patient name is present",
		},
	}

	meta := testMeta()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := Explain(parser.Parse(tt.raw), meta)
			if len(items) != 2 {
				t.Fatalf("items = %v; want path + param", texts(items))
			}
			if items[1].Text != tt.want {
				t.Errorf("param item = %q; want %q", items[1].Text, tt.want)
			}
		})
	}
}

// A lexically detected prefix on a string parameter is not read as a
// comparator; the diagnostics type rule applies here too.
func TestExplain_PrefixOnStringParam(t *testing.T) {
	items := Explain(parser.Parse("/fhir/Patient?name=george"), testMeta())
	want := `Filter where Patient name matches "george"`
	if items[1].Text != want {
		t.Errorf("param item = %q; want %q", items[1].Text, want)
	}
}

// Without metadata the lexical detection is trusted.
func TestExplain_PrefixWithoutMetadata(t *testing.T) {
	items := Explain(parser.Parse("/fhir/Patient?date=ge2020"), &fq.Metadata{})
	want := `Filter where Patient date is on or after "2020"`
	if items[1].Text != want {
		t.Errorf("param item = %q; want %q", items[1].Text, want)
	}
}

func TestExplain_SpecialParams(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"count", "/fhir/Patient?_count=10", "Return at most 10 results per page"},
		{"offset", "/fhir/Patient?_offset=20", "Skip the first 20 results"},
		{"summary", "/fhir/Patient?_summary=count", "Summary mode: return only the result count"},
		{"summary unknown", "/fhir/Patient?_summary=odd", `Summary mode "odd"`},
		{"total", "/fhir/Patient?_total=accurate", "Total mode: compute the exact total count"},
		{"sort", "/fhir/Patient?_sort=-birthdate,name", "Sort by birthdate (descending), then name (ascending)"},
		{"include", "/fhir/Patient?_include=Patient:organization", "Also fetch resources referenced via Patient:organization"},
		{"revinclude", "/fhir/Patient?_revinclude=Observation:subject", "Also fetch resources that reference the matches via Observation:subject"},
		{"elements", "/fhir/Patient?_elements=name,gender", "Return only the elements: name, gender"},
		{"other special", "/fhir/Patient?_custom=x", "Result parameter _custom = x"},
		{"bare special", "/fhir/Patient?_custom", "Result parameter _custom"},
	}

	meta := testMeta()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := Explain(parser.Parse(tt.raw), meta)
			if len(items) != 2 {
				t.Fatalf("items = %v; want path + param", texts(items))
			}
			if items[1].Text != tt.want {
				t.Errorf("param item = %q; want %q", items[1].Text, tt.want)
			}
		})
	}
}

func TestExplain_Spans(t *testing.T) {
	raw := "/fhir/Patient?name=smith"
	items := Explain(parser.Parse(raw), testMeta())

	if got := items[0].Span.Slice(raw); got != "Patient" {
		t.Errorf("path span covers %q; want Patient", got)
	}
	if got := items[1].Span.Slice(raw); got != "name=smith" {
		t.Errorf("param span covers %q; want the full token", got)
	}
}

// One item per component, in traversal order, even for invalid input.
func TestExplain_Totality(t *testing.T) {
	raw := "/fhir/FakeResource?bogus:weird=ge9&_count=no"
	items := Explain(parser.Parse(raw), testMeta())
	if len(items) != 3 {
		t.Fatalf("items = %v; want 3", texts(items))
	}
	for i, it := range items {
		if it.Text == "" {
			t.Errorf("item %d has empty text", i)
		}
	}
}

func TestExplain_NilInputs(t *testing.T) {
	if items := Explain(nil, testMeta()); items != nil {
		t.Errorf("Explain(nil) = %v; want nil", texts(items))
	}
	if items := Explain(parser.Parse("/fhir/Patient"), nil); len(items) != 1 {
		t.Errorf("Explain with nil metadata = %v; want one item", texts(items))
	}
}
