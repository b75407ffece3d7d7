package ast

import "testing"

func TestDetectPrefix(t *testing.T) {
	tests := []struct {
		raw  string
		want Prefix
	}{
		{"ge2020-01-01", PrefixGe},
		{"le2020", PrefixLe},
		{"gt5", PrefixGt},
		{"lt5", PrefixLt},
		{"eq5", PrefixEq},
		{"ne5", PrefixNe},
		{"sa2020", PrefixSa},
		{"eb2020", PrefixEb},
		{"ap5.4", PrefixAp},
		{"ge", PrefixGe}, // bare prefix, no argument
		{"smith", ""},
		{"g", ""},
		{"", ""},
		{"GE2020", ""}, // prefixes are lowercase only
	}

	for _, tt := range tests {
		if got := DetectPrefix(tt.raw); got != tt.want {
			t.Errorf("DetectPrefix(%q) = %q; want %q", tt.raw, got, tt.want)
		}
	}
}

func TestPrefixes_Complete(t *testing.T) {
	if len(Prefixes) != 9 {
		t.Fatalf("len(Prefixes) = %d; want 9", len(Prefixes))
	}
	for _, p := range Prefixes {
		if got := DetectPrefix(string(p) + "x"); got != p {
			t.Errorf("DetectPrefix(%q) = %q; want %q", string(p)+"x", got, p)
		}
	}
}
