package fhirquery

// DefaultBasePath is the path prefix a FHIR server is mounted under unless
// configured otherwise.
const DefaultBasePath = "/fhir"

// DefaultSuggestionLimit caps the number of candidates per suggestion list
// to bound consumer rendering cost.
const DefaultSuggestionLimit = 20

// Option configures the query front-end.
type Option func(*Options)

// Options holds all configuration shared by the engine and the individual
// core functions.
type Options struct {
	// BasePath is the prefix the FHIR endpoint is mounted under.
	// Supports multi-tenant or non-default mount points.
	BasePath string

	// SuggestionLimit caps each suggestion list. Zero means the default.
	SuggestionLimit int

	// ParseCacheSize bounds the engine's parse memoization cache.
	// Zero disables memoization.
	ParseCacheSize int

	// IDGenerator produces synthetic identifiers for builder params.
	// Nil selects the default (random UUIDs). The identifier carries no
	// semantic meaning and only needs local uniqueness.
	IDGenerator func() string
}

// DefaultOptions returns the default configuration.
func DefaultOptions() *Options {
	return &Options{
		BasePath:        DefaultBasePath,
		SuggestionLimit: DefaultSuggestionLimit,
		ParseCacheSize:  256,
	}
}

// Apply copies the non-zero settings from each Option onto o and returns o.
func (o *Options) Apply(opts ...Option) *Options {
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithBasePath sets the FHIR endpoint mount prefix.
func WithBasePath(basePath string) Option {
	return func(o *Options) {
		if basePath != "" {
			o.BasePath = basePath
		}
	}
}

// WithSuggestionLimit caps the number of candidates per suggestion list.
func WithSuggestionLimit(limit int) Option {
	return func(o *Options) {
		if limit > 0 {
			o.SuggestionLimit = limit
		}
	}
}

// WithParseCacheSize bounds the engine's parse memoization cache.
// Use 0 to disable memoization.
func WithParseCacheSize(size int) Option {
	return func(o *Options) {
		if size >= 0 {
			o.ParseCacheSize = size
		}
	}
}

// WithIDGenerator sets the generator for builder param identifiers.
func WithIDGenerator(gen func() string) Option {
	return func(o *Options) {
		o.IDGenerator = gen
	}
}
