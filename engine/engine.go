// Package engine bundles the query front-end behind a single facade:
// metadata, options, parse memoization and batch execution. Editor
// adapters that call on every keystroke construct one Engine per
// capability fetch and reuse it; the underlying core functions stay pure
// and can still be called directly.
package engine

import (
	"context"

	fq "github.com/gofhir/query"
	"github.com/gofhir/query/ast"
	"github.com/gofhir/query/builder"
	"github.com/gofhir/query/cache"
	"github.com/gofhir/query/cursor"
	"github.com/gofhir/query/diagnose"
	"github.com/gofhir/query/explain"
	"github.com/gofhir/query/parser"
	"github.com/gofhir/query/suggest"
	"github.com/gofhir/query/worker"
)

// Engine coordinates the core packages against one metadata snapshot.
type Engine struct {
	meta    *fq.Metadata
	options *fq.Options
	metrics *fq.Metrics

	// parses memoizes Parse by raw string; nil when disabled. ASTs are
	// immutable snapshots, so sharing them across callers is safe.
	parses *cache.LRU[string, *ast.Query]

	pool *worker.Pool
}

// New creates an Engine over a metadata snapshot. A nil metadata behaves
// like an empty one: all metadata-dependent checks degrade gracefully.
func New(meta *fq.Metadata, opts ...fq.Option) *Engine {
	if meta == nil {
		meta = &fq.Metadata{}
	}
	options := fq.DefaultOptions().Apply(opts...)

	e := &Engine{
		meta:    meta,
		options: options,
		metrics: fq.NewMetrics(),
		pool:    worker.NewPool(0),
	}
	if options.ParseCacheSize > 0 {
		e.parses = cache.New[string, *ast.Query](options.ParseCacheSize)
	}
	return e
}

// Metadata returns the metadata snapshot the engine was built over.
func (e *Engine) Metadata() *fq.Metadata {
	return e.meta
}

// Metrics returns a point-in-time snapshot of the engine's counters.
func (e *Engine) Metrics() fq.Snapshot {
	return e.metrics.Snapshot()
}

// Parse parses raw against the engine's base path, memoizing by raw
// string when a parse cache is configured.
func (e *Engine) Parse(raw string) *ast.Query {
	e.metrics.RecordParse()

	if e.parses == nil {
		return parser.ParseWithBase(raw, e.options.BasePath)
	}
	if q, ok := e.parses.Get(raw); ok {
		e.metrics.RecordCacheHit()
		return q
	}
	e.metrics.RecordCacheMiss()
	q := parser.ParseWithBase(raw, e.options.BasePath)
	e.parses.Set(raw, q)
	return q
}

// Context classifies the cursor position in raw.
func (e *Engine) Context(raw string, offset int) cursor.Context {
	return cursor.ResolveWithBase(raw, offset, e.meta.ResourceTypes, e.options.BasePath)
}

// Suggest produces completion candidates for an already-resolved context.
func (e *Engine) Suggest(ctx cursor.Context) []suggest.Suggestion {
	e.metrics.RecordSuggest()
	return suggest.Suggest(ctx, e.meta,
		fq.WithBasePath(e.options.BasePath),
		fq.WithSuggestionLimit(e.options.SuggestionLimit))
}

// Complete resolves the cursor context and produces suggestions in one
// call, the per-keystroke entry point for editor adapters.
func (e *Engine) Complete(raw string, offset int) []suggest.Suggestion {
	return e.Suggest(e.Context(raw, offset))
}

// Diagnose validates a parsed query against the engine's metadata.
func (e *Engine) Diagnose(q *ast.Query) []fq.Diagnostic {
	e.metrics.RecordDiagnose()
	return diagnose.Diagnose(q, e.meta)
}

// Lint parses and diagnoses raw in one call.
func (e *Engine) Lint(raw string) []fq.Diagnostic {
	return e.Diagnose(e.Parse(raw))
}

// LintAll lints many raw strings concurrently, preserving input order.
// It returns early with the context error when ctx is canceled.
func (e *Engine) LintAll(ctx context.Context, raws []string) ([][]fq.Diagnostic, error) {
	return worker.Map(ctx, e.pool, raws, e.Lint)
}

// Explain produces the natural-language breakdown of a parsed query.
func (e *Engine) Explain(q *ast.Query) []explain.Item {
	e.metrics.RecordExplain()
	return explain.Explain(q, e.meta)
}

// BuilderState flattens a parsed query into the visual-builder model,
// using the engine's configured ID generator.
func (e *Engine) BuilderState(q *ast.Query) builder.State {
	return builder.FromQuery(q, fq.WithIDGenerator(e.options.IDGenerator))
}
