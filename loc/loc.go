// Package loc provides source positions and ranges shared by banyan's two
// syntax tree schemas. Offsets are byte offsets into the original source,
// lines are 1-based, and columns are 0-based byte offsets within the line,
// matching what the whitequark parser gem reports.
package loc

import "fmt"

// Position is a single location in source text.
type Position struct {
	Offset int // byte offset, 0-based
	Line   int // line number, 1-based
	Col    int // byte offset within the line, 0-based
}

// Before reports whether p is strictly before q in source order.
func (p Position) Before(q Position) bool {
	return p.Offset < q.Offset
}

// Range is a half-open span of source text: [Start, End).
// Equality is exact — all six coordinates must match.
type Range struct {
	Start Position
	End   Position
}

// NewRange builds a Range from offset/line/col pairs.
func NewRange(startOff, startLine, startCol, endOff, endLine, endCol int) Range {
	return Range{
		Start: Position{Offset: startOff, Line: startLine, Col: startCol},
		End:   Position{Offset: endOff, Line: endLine, Col: endCol},
	}
}

// None marks a node with no presence in the source text, such as the empty
// parameter list the reference schema attaches to a parameterless method.
var None = Range{
	Start: Position{Offset: -1},
	End:   Position{Offset: -1},
}

// Valid reports whether the range points into source text.
func (r Range) Valid() bool {
	return r.Start.Offset >= 0
}

// Union returns the smallest Range covering both r and s.
func (r Range) Union(s Range) Range {
	out := r
	if s.Start.Before(out.Start) {
		out.Start = s.Start
	}
	if out.End.Before(s.End) {
		out.End = s.End
	}
	return out
}

// Contains reports whether s lies entirely within r.
func (r Range) Contains(s Range) bool {
	return r.Start.Offset <= s.Start.Offset && s.End.Offset <= r.End.Offset
}

// Len returns the number of source bytes the range covers.
func (r Range) Len() int {
	return r.End.Offset - r.Start.Offset
}

// Text returns the bytes the range covers in src.
func (r Range) Text(src []byte) string {
	if r.Start.Offset < 0 || r.End.Offset > len(src) || r.Start.Offset > r.End.Offset {
		return ""
	}
	return string(src[r.Start.Offset:r.End.Offset])
}

// String renders the range as "line:col-line:col" for diagnostics.
func (r Range) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", r.Start.Line, r.Start.Col, r.End.Line, r.End.Col)
}
