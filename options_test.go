package fhirquery

import "testing"

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()
	if o.BasePath != DefaultBasePath {
		t.Errorf("BasePath = %q; want %q", o.BasePath, DefaultBasePath)
	}
	if o.SuggestionLimit != DefaultSuggestionLimit {
		t.Errorf("SuggestionLimit = %d; want %d", o.SuggestionLimit, DefaultSuggestionLimit)
	}
	if o.ParseCacheSize <= 0 {
		t.Errorf("ParseCacheSize = %d; want > 0", o.ParseCacheSize)
	}
}

func TestOptions_Apply(t *testing.T) {
	o := DefaultOptions().Apply(
		WithBasePath("/r4"),
		WithSuggestionLimit(5),
		WithParseCacheSize(0),
	)

	if o.BasePath != "/r4" {
		t.Errorf("BasePath = %q; want /r4", o.BasePath)
	}
	if o.SuggestionLimit != 5 {
		t.Errorf("SuggestionLimit = %d; want 5", o.SuggestionLimit)
	}
	if o.ParseCacheSize != 0 {
		t.Errorf("ParseCacheSize = %d; want 0", o.ParseCacheSize)
	}
}

func TestOptions_ZeroValuesIgnored(t *testing.T) {
	o := DefaultOptions().Apply(
		WithBasePath(""),
		WithSuggestionLimit(0),
	)

	if o.BasePath != DefaultBasePath {
		t.Errorf("empty WithBasePath overrode default: %q", o.BasePath)
	}
	if o.SuggestionLimit != DefaultSuggestionLimit {
		t.Errorf("zero WithSuggestionLimit overrode default: %d", o.SuggestionLimit)
	}
}

func TestWithIDGenerator(t *testing.T) {
	o := DefaultOptions().Apply(WithIDGenerator(func() string { return "fixed" }))
	if o.IDGenerator == nil {
		t.Fatal("IDGenerator not set")
	}
	if got := o.IDGenerator(); got != "fixed" {
		t.Errorf("IDGenerator() = %q; want fixed", got)
	}
}
