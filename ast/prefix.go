package ast

// Prefix is a FHIR search comparator prefix.
type Prefix string

// The fixed set of two-letter comparator prefixes.
const (
	PrefixEq Prefix = "eq"
	PrefixNe Prefix = "ne"
	PrefixGt Prefix = "gt"
	PrefixLt Prefix = "lt"
	PrefixGe Prefix = "ge"
	PrefixLe Prefix = "le"
	PrefixSa Prefix = "sa"
	PrefixEb Prefix = "eb"
	PrefixAp Prefix = "ap"
)

// Prefixes lists all comparator prefixes in specification order.
var Prefixes = []Prefix{
	PrefixEq, PrefixNe, PrefixGt, PrefixLt,
	PrefixGe, PrefixLe, PrefixSa, PrefixEb, PrefixAp,
}

var prefixSet = map[string]Prefix{
	"eq": PrefixEq, "ne": PrefixNe, "gt": PrefixGt, "lt": PrefixLt,
	"ge": PrefixGe, "le": PrefixLe, "sa": PrefixSa, "eb": PrefixEb,
	"ap": PrefixAp,
}

// DetectPrefix returns the comparator prefix of a raw value, or "" when
// the first two characters are not a known prefix. Detection is a pure
// lexical heuristic applied regardless of the parameter's declared type:
// a token value such as "eq123" is tagged here and only re-judged by the
// diagnostics layer's type check.
func DetectPrefix(raw string) Prefix {
	if len(raw) < 2 {
		return ""
	}
	return prefixSet[raw[:2]]
}
