// Package explain renders a parsed query as a human-readable breakdown:
// one item per path component and one per parameter. It shares the
// diagnostics traversal shape but performs no validation — an item is
// produced even for semantically invalid input, so a UI can show an
// explanation and an error side by side.
package explain

import (
	"fmt"
	"strings"

	fq "github.com/gofhir/query"
	"github.com/gofhir/query/ast"
)

// Item is one line of the breakdown, tied to the span it describes.
type Item struct {
	// Text is the natural-language description.
	Text string `json:"text"`

	// Span locates the described component in the raw string.
	Span fq.TextSpan `json:"span"`
}

// Explain produces the breakdown in traversal order: the path item first,
// then one item per parameter in original order.
func Explain(q *ast.Query, meta *fq.Metadata) []Item {
	if q == nil {
		return nil
	}
	if meta == nil {
		meta = &fq.Metadata{}
	}

	items := []Item{explainPath(q.Path)}
	rt, _ := ast.ResourceTypeOf(q.Path)
	for _, p := range q.Params {
		items = append(items, explainParam(p, rt, meta))
	}
	return items
}

func explainPath(p ast.Path) Item {
	var text string
	switch v := p.(type) {
	case ast.Root:
		text = "FHIR server root"
	case ast.APIEndpoint:
		text = fmt.Sprintf("Console API endpoint %s", v.Text)
	case ast.ResourceType:
		text = fmt.Sprintf("Search %s resources", v.Name)
	case ast.ResourceInstance:
		text = fmt.Sprintf("Read %s resource with id %q", v.Name, v.ID)
	case ast.TypeOperation:
		text = fmt.Sprintf("Invoke operation %s on all %s resources", v.Operation, v.Name)
	case ast.InstanceOperation:
		text = fmt.Sprintf("Invoke operation %s on %s/%s", v.Operation, v.Name, v.ID)
	case ast.SystemOperation:
		text = fmt.Sprintf("Invoke system operation %s", v.Operation)
	case ast.Unknown:
		text = fmt.Sprintf("Unrecognized path %q", v.Text)
	default:
		text = "FHIR server root"
	}
	return Item{Text: text, Span: p.Span()}
}

func explainParam(p ast.Param, rt string, meta *fq.Metadata) Item {
	if p.IsSpecial {
		return Item{Text: explainSpecial(p), Span: p.Loc}
	}
	return Item{Text: explainFilter(p, rt, meta), Span: p.Loc}
}

var summaryPhrases = map[string]string{
	"true":  "return only summary elements",
	"false": "return full resources",
	"count": "return only the result count",
	"text":  "return only narrative text and ids",
	"data":  "omit the narrative text",
}

var totalPhrases = map[string]string{
	"none":     "skip the total count",
	"estimate": "estimate the total count",
	"accurate": "compute the exact total count",
}

func explainSpecial(p ast.Param) string {
	switch p.Name {
	case "_count":
		return fmt.Sprintf("Return at most %s results per page", firstValue(p))
	case "_offset":
		return fmt.Sprintf("Skip the first %s results", firstValue(p))
	case "_sort":
		return explainSort(p)
	case "_summary":
		if phrase, ok := summaryPhrases[firstValue(p)]; ok {
			return "Summary mode: " + phrase
		}
		return fmt.Sprintf("Summary mode %q", firstValue(p))
	case "_total":
		if phrase, ok := totalPhrases[firstValue(p)]; ok {
			return "Total mode: " + phrase
		}
		return fmt.Sprintf("Total mode %q", firstValue(p))
	case "_include":
		return fmt.Sprintf("Also fetch resources referenced via %s", joinValues(p, " and "))
	case "_revinclude":
		return fmt.Sprintf("Also fetch resources that reference the matches via %s", joinValues(p, " and "))
	case "_elements":
		return fmt.Sprintf("Return only the elements: %s", joinValues(p, ", "))
	case "_has":
		return fmt.Sprintf("Match resources referenced by %s", joinValues(p, " or "))
	default:
		if p.Values == nil {
			return fmt.Sprintf("Result parameter %s", p.Key())
		}
		return fmt.Sprintf("Result parameter %s = %s", p.Key(), joinValues(p, ", "))
	}
}

// explainSort describes each sort field with its direction.
func explainSort(p ast.Param) string {
	var parts []string
	for _, v := range p.Values {
		field := strings.TrimPrefix(v.Raw, "-")
		dir := "ascending"
		if strings.HasPrefix(v.Raw, "-") {
			dir = "descending"
		}
		parts = append(parts, fmt.Sprintf("%s (%s)", field, dir))
	}
	if len(parts) == 0 {
		return "Sort results"
	}
	return "Sort by " + strings.Join(parts, ", then ")
}

var modifierPhrases = map[string]string{
	"exact":      "exactly matches",
	"contains":   "contains",
	"text":       "matches the text of",
	"not":        "is not",
	"in":         "is in value set",
	"not-in":     "is not in value set",
	"below":      "is below",
	"above":      "is above",
	"identifier": "has identifier",
	"of-type":    "is of type",
	"type":       "is of type",
}

var prefixPhrases = map[ast.Prefix]string{
	ast.PrefixEq: "equals",
	ast.PrefixNe: "is not",
	ast.PrefixGt: "is after",
	ast.PrefixLt: "is before",
	ast.PrefixGe: "is on or after",
	ast.PrefixLe: "is on or before",
	ast.PrefixSa: "starts after",
	ast.PrefixEb: "ends before",
	ast.PrefixAp: "is approximately",
}

// explainFilter describes a regular search parameter, folding modifier
// and prefix semantics into fixed phrases and joining OR values.
func explainFilter(p ast.Param, rt string, meta *fq.Metadata) string {
	subject := p.Name
	if rt != "" {
		subject = rt + " " + p.Name
	}

	if p.Modifier == "missing" {
		if firstValue(p) == "false" {
			return fmt.Sprintf("Filter where %s is present", subject)
		}
		return fmt.Sprintf("Filter where %s is missing", subject)
	}

	verb := "matches"
	if phrase, ok := modifierPhrases[p.Modifier]; ok {
		verb = phrase
	}

	if len(p.Values) == 0 {
		return fmt.Sprintf("Filter on %s", subject)
	}

	var parts []string
	for _, v := range p.Values {
		if phrase, ok := prefixPhrases[v.Prefix]; ok && v.Prefix != "" && prefixApplies(p, rt, meta) {
			parts = append(parts, fmt.Sprintf("%s %q", phrase, v.Argument()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %q", verb, v.Raw))
	}
	return fmt.Sprintf("Filter where %s %s", subject, strings.Join(parts, " or "))
}

// prefixApplies mirrors the diagnostics type rule: a detected prefix is
// only described as a comparator when the parameter's declared type
// accepts prefixes. Without metadata the lexical detection is trusted.
func prefixApplies(p ast.Param, rt string, meta *fq.Metadata) bool {
	def, ok := meta.FindParam(rt, p.Name)
	if !ok {
		return true
	}
	return def.Type.AllowsPrefix()
}

func firstValue(p ast.Param) string {
	if len(p.Values) == 0 {
		return ""
	}
	return p.Values[0].Raw
}

func joinValues(p ast.Param, sep string) string {
	var parts []string
	for _, v := range p.Values {
		parts = append(parts, v.Raw)
	}
	return strings.Join(parts, sep)
}
