// Package suggest produces ranked completion candidates for a cursor
// context. It is a pure dispatch table keyed on the context kind: each
// branch filters the relevant metadata slice by case-insensitive
// substring match against the fragment, maps to Suggestion values and
// assigns sort priorities biasing likely candidates first.
//
// InsertText is not always the label. Operation suggestions carry a
// leading "/" only at zero-width insertion points (ctx.Insert); at
// fragment-replacement positions the separator is already in the text
// being kept. Getting that separator bookkeeping wrong is the classic
// failure mode here — modifier insertion destroying the parameter name,
// or operation insertion creating a double slash.
package suggest

import (
	"sort"
	"strings"

	fq "github.com/gofhir/query"
	"github.com/gofhir/query/cursor"
)

// Kind classifies a suggestion for consumer rendering.
type Kind string

// Suggestion kinds.
const (
	KindResource    Kind = "resource"
	KindOperation   Kind = "operation"
	KindParam       Kind = "param"
	KindModifier    Kind = "modifier"
	KindValue       Kind = "value"
	KindPrefix      Kind = "prefix"
	KindSpecial     Kind = "special"
	KindAPIEndpoint Kind = "api-endpoint"
	KindStructural  Kind = "structural"
)

// Suggestion is one completion candidate. Applying it means replacing the
// originating context's span with InsertText.
type Suggestion struct {
	// Label is the display text.
	Label string `json:"label"`

	// InsertText is the text that replaces the context span.
	InsertText string `json:"insertText"`

	// FilterText, when non-empty, is what editors should match user
	// input against instead of the label.
	FilterText string `json:"filterText,omitempty"`

	// Kind classifies the candidate.
	Kind Kind `json:"kind"`

	// Detail is a short type or category annotation.
	Detail string `json:"detail,omitempty"`

	// Documentation is longer usage text.
	Documentation string `json:"documentation,omitempty"`

	// SortPriority ranks candidates, ascending; ties keep source order.
	SortPriority int `json:"sortPriority"`
}

// Sort priorities, ascending.
const (
	priStructural = 0
	priPrimary    = 1
	priSecondary  = 2
)

// Suggest returns the ranked, capped candidate list for a cursor context.
// The result is deterministic for a fixed (ctx, meta) pair.
func Suggest(ctx cursor.Context, meta *fq.Metadata, opts ...fq.Option) []Suggestion {
	o := fq.DefaultOptions().Apply(opts...)
	if meta == nil {
		meta = &fq.Metadata{}
	}

	var list []Suggestion
	switch ctx.Kind {
	case cursor.KindRoot, cursor.KindBasePath:
		list = suggestRoot(ctx, o)
	case cursor.KindAPIEndpoint:
		list = suggestAPIEndpoints(ctx, meta)
	case cursor.KindResourceType:
		list = suggestResourceTypes(ctx, meta)
	case cursor.KindSystemOperation:
		list = suggestOperations(ctx, meta.SystemOperationsList())
	case cursor.KindTypeOperation:
		list = suggestOperations(ctx, meta.TypeOperationsFor(ctx.ResourceType))
	case cursor.KindInstanceOperation:
		list = suggestOperations(ctx, meta.InstanceOperationsFor(ctx.ResourceType))
	case cursor.KindResourceID:
		list = suggestOperations(ctx, meta.TypeOperationsFor(ctx.ResourceType))
	case cursor.KindNextAfterResource:
		list = suggestContinuations(meta.TypeOperationsFor(ctx.ResourceType))
	case cursor.KindNextAfterID:
		list = suggestContinuations(meta.InstanceOperationsFor(ctx.ResourceType))
	case cursor.KindQueryParam:
		list = suggestParams(ctx, meta)
	case cursor.KindQueryModifier:
		list = suggestModifiers(ctx, meta)
	case cursor.KindQueryValue:
		list = suggestValues(ctx, meta)
	default:
		return nil
	}

	sort.SliceStable(list, func(i, j int) bool {
		return list[i].SortPriority < list[j].SortPriority
	})
	if len(list) > o.SuggestionLimit {
		list = list[:o.SuggestionLimit]
	}
	return list
}

// matches is the shared candidate filter: case-insensitive substring, and
// an empty fragment matches everything.
func matches(candidate, fragment string) bool {
	if fragment == "" {
		return true
	}
	return strings.Contains(strings.ToLower(candidate), strings.ToLower(fragment))
}

// suggestRoot offers the FHIR mount point and the console API prefix when
// the cursor is at the start of the string.
func suggestRoot(ctx cursor.Context, o *fq.Options) []Suggestion {
	var list []Suggestion
	if matches(o.BasePath, ctx.Fragment) {
		list = append(list, Suggestion{
			Label:        o.BasePath,
			InsertText:   o.BasePath,
			Kind:         KindStructural,
			Detail:       "FHIR endpoint",
			SortPriority: priStructural,
		})
	}
	if matches("/api", ctx.Fragment) {
		list = append(list, Suggestion{
			Label:        "/api",
			InsertText:   "/api",
			Kind:         KindAPIEndpoint,
			Detail:       "Console API",
			SortPriority: priPrimary,
		})
	}
	return list
}

func suggestAPIEndpoints(ctx cursor.Context, meta *fq.Metadata) []Suggestion {
	var list []Suggestion
	for _, ep := range meta.APIEndpoints {
		if !matches(ep, ctx.Fragment) {
			continue
		}
		list = append(list, Suggestion{
			Label:        ep,
			InsertText:   ep,
			Kind:         KindAPIEndpoint,
			SortPriority: priPrimary,
		})
	}
	return list
}

// suggestResourceTypes offers resource types first, then system
// operations, since a bare first segment can legally be either.
func suggestResourceTypes(ctx cursor.Context, meta *fq.Metadata) []Suggestion {
	var list []Suggestion
	for _, rt := range meta.ResourceTypes {
		if !matches(rt, ctx.Fragment) {
			continue
		}
		list = append(list, Suggestion{
			Label:        rt,
			InsertText:   rt,
			Kind:         KindResource,
			Detail:       "Resource type",
			SortPriority: priPrimary,
		})
	}
	for _, op := range meta.SystemOperationsList() {
		if !matches(op, ctx.Fragment) {
			continue
		}
		list = append(list, Suggestion{
			Label:        op,
			InsertText:   op,
			Kind:         KindOperation,
			Detail:       "System operation",
			SortPriority: priSecondary,
		})
	}
	return list
}

// suggestOperations offers $-operations at a fragment-replacement or
// post-slash position. The separator is prepended only for zero-width
// insertion contexts.
func suggestOperations(ctx cursor.Context, ops []string) []Suggestion {
	sep := ""
	if ctx.Insert {
		sep = "/"
	}
	var list []Suggestion
	for _, op := range ops {
		if !matches(op, ctx.Fragment) {
			continue
		}
		list = append(list, Suggestion{
			Label:        sep + op,
			InsertText:   sep + op,
			FilterText:   op,
			Kind:         KindOperation,
			Detail:       "Operation",
			SortPriority: priPrimary,
		})
	}
	return list
}

// suggestContinuations offers what may follow a complete resource type or
// id: a query string, or a slash-prefixed operation. These are pure
// appends; the span is zero-width.
func suggestContinuations(ops []string) []Suggestion {
	list := []Suggestion{{
		Label:         "?",
		InsertText:    "?",
		Kind:          KindStructural,
		Detail:        "Begin search query",
		Documentation: "Start the query-parameter section",
		SortPriority:  priStructural,
	}}
	for _, op := range ops {
		list = append(list, Suggestion{
			Label:        "/" + op,
			InsertText:   "/" + op,
			FilterText:   op,
			Kind:         KindOperation,
			Detail:       "Operation",
			SortPriority: priPrimary,
		})
	}
	return list
}

// suggestParams offers common search/result parameters first, then the
// resource's own parameters. InsertText appends "=" so the caret lands in
// value position.
func suggestParams(ctx cursor.Context, meta *fq.Metadata) []Suggestion {
	var list []Suggestion
	for _, p := range fq.CommonSearchParams() {
		if !matches(p.Code, ctx.Fragment) {
			continue
		}
		list = append(list, Suggestion{
			Label:         p.Code,
			InsertText:    p.Code + "=",
			FilterText:    p.Code,
			Kind:          KindSpecial,
			Detail:        string(p.Type),
			Documentation: p.Documentation,
			SortPriority:  priPrimary,
		})
	}
	if params, ok := meta.ParamsFor(ctx.ResourceType); ok {
		for _, p := range params {
			if !matches(p.Code, ctx.Fragment) {
				continue
			}
			list = append(list, Suggestion{
				Label:         p.Code,
				InsertText:    p.Code + "=",
				FilterText:    p.Code,
				Kind:          KindParam,
				Detail:        string(p.Type),
				Documentation: p.Documentation,
				SortPriority:  priSecondary,
			})
		}
	}
	return list
}

// suggestModifiers offers the modifiers the edited parameter supports.
// InsertText replaces only the text after the colon and appends "=", so
// accepting a modifier never destroys the parameter name.
func suggestModifiers(ctx cursor.Context, meta *fq.Metadata) []Suggestion {
	mods := modifiersFor(ctx, meta)
	var list []Suggestion
	for _, mod := range mods {
		if !matches(mod, ctx.Fragment) {
			continue
		}
		list = append(list, Suggestion{
			Label:        ":" + mod,
			InsertText:   mod + "=",
			FilterText:   mod,
			Kind:         KindModifier,
			Detail:       "Modifier",
			SortPriority: priPrimary,
		})
	}
	return list
}

// modifiersFor resolves the edited parameter's modifier set: the declared
// list when the server supplied one, otherwise the defaults for its type.
func modifiersFor(ctx cursor.Context, meta *fq.Metadata) []string {
	if p, ok := lookupParam(ctx, meta); ok {
		if len(p.Modifiers) > 0 {
			return p.Modifiers
		}
		return fq.ModifiersForType(p.Type)
	}
	return fq.ModifiersForType(fq.TypeString)
}

// suggestValues offers values for the edited parameter: fixed sets for
// the special parameters, capability-declared targets for _sort and
// _include/_revinclude, and comparator prefixes for prefix-capable types.
func suggestValues(ctx cursor.Context, meta *fq.Metadata) []Suggestion {
	switch ctx.ParamName {
	case "_summary":
		return valueSet(ctx, []string{"true", "false", "count", "text", "data"})
	case "_total":
		return valueSet(ctx, []string{"none", "estimate", "accurate"})
	case "_contained":
		return valueSet(ctx, []string{"true", "false"})
	case "_sort":
		return suggestSortFields(ctx, meta)
	case "_include":
		return valueSet(ctx, withWildcard(meta.Includes[ctx.ResourceType]))
	case "_revinclude":
		return valueSet(ctx, withWildcard(meta.RevIncludes[ctx.ResourceType]))
	}

	if p, ok := lookupParam(ctx, meta); ok && p.Type.AllowsPrefix() {
		return suggestPrefixes(ctx)
	}
	return nil
}

func valueSet(ctx cursor.Context, values []string) []Suggestion {
	var list []Suggestion
	for _, v := range values {
		if !matches(v, ctx.Fragment) {
			continue
		}
		list = append(list, Suggestion{
			Label:        v,
			InsertText:   v,
			Kind:         KindValue,
			SortPriority: priPrimary,
		})
	}
	return list
}

// withWildcard prepends the always-accepted "*" to declared include
// targets. Nil input yields just the wildcard.
func withWildcard(targets []string) []string {
	return append([]string{"*"}, targets...)
}

// suggestSortFields offers each sortable field ascending and, with a "-"
// prefix, descending.
func suggestSortFields(ctx cursor.Context, meta *fq.Metadata) []Suggestion {
	fields := meta.SortFields[ctx.ResourceType]
	var list []Suggestion
	for _, f := range fields {
		if matches(f, ctx.Fragment) {
			list = append(list, Suggestion{
				Label:        f,
				InsertText:   f,
				Kind:         KindValue,
				Detail:       "ascending",
				SortPriority: priPrimary,
			})
		}
		desc := "-" + f
		if matches(desc, ctx.Fragment) {
			list = append(list, Suggestion{
				Label:        desc,
				InsertText:   desc,
				FilterText:   f,
				Kind:         KindValue,
				Detail:       "descending",
				SortPriority: priSecondary,
			})
		}
	}
	return list
}

var prefixDetails = map[string]string{
	"eq": "equals", "ne": "not equal", "gt": "greater than",
	"lt": "less than", "ge": "greater or equal", "le": "less or equal",
	"sa": "starts after", "eb": "ends before", "ap": "approximately",
}

func suggestPrefixes(ctx cursor.Context) []Suggestion {
	var list []Suggestion
	for _, p := range []string{"eq", "ne", "gt", "lt", "ge", "le", "sa", "eb", "ap"} {
		if !matches(p, ctx.Fragment) {
			continue
		}
		list = append(list, Suggestion{
			Label:        p,
			InsertText:   p,
			Kind:         KindPrefix,
			Detail:       prefixDetails[p],
			SortPriority: priPrimary,
		})
	}
	return list
}

// lookupParam finds the edited parameter's definition among the
// resource's declared parameters, then the common set.
func lookupParam(ctx cursor.Context, meta *fq.Metadata) (fq.SearchParam, bool) {
	if p, ok := meta.FindParam(ctx.ResourceType, ctx.ParamName); ok {
		return p, true
	}
	for _, p := range fq.CommonSearchParams() {
		if p.Code == ctx.ParamName {
			return p, true
		}
	}
	return fq.SearchParam{}, false
}
