package fhirquery

// TextSpan is a half-open [Start, End) range of character offsets into the
// original raw query string. Every AST node, cursor context and diagnostic
// carries one; editor adapters use it to place completion ranges and
// markers. Spans are computed once, at the point the text is read, and
// passed forward — they are never recomputed by substring search, which
// would be fragile when the fragment text recurs elsewhere in the string.
//
// Invariant: 0 <= Start <= End <= len(raw).
type TextSpan struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Span constructs a TextSpan.
func Span(start, end int) TextSpan {
	return TextSpan{Start: start, End: end}
}

// ZeroSpan returns a zero-width span at the given offset, used for
// insertion points where an accepted suggestion appends rather than
// replaces.
func ZeroSpan(at int) TextSpan {
	return TextSpan{Start: at, End: at}
}

// Len returns the number of characters covered by the span.
func (s TextSpan) Len() int {
	return s.End - s.Start
}

// IsZero reports whether the span is zero-width.
func (s TextSpan) IsZero() bool {
	return s.Start == s.End
}

// Slice returns the substring of raw covered by the span. Out-of-range
// spans yield an empty string rather than panicking; the parser never
// produces one, but callers may hold spans from a stale raw string.
func (s TextSpan) Slice(raw string) string {
	if s.Start < 0 || s.End > len(raw) || s.Start > s.End {
		return ""
	}
	return raw[s.Start:s.End]
}

// Contains reports whether the offset falls inside the span. The end
// offset is considered inside, matching how editors treat a cursor
// sitting immediately after the last character of a token.
func (s TextSpan) Contains(offset int) bool {
	return offset >= s.Start && offset <= s.End
}
