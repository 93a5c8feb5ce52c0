package ast

// Span references a range of the original template source by offset and
// length. Nodes synthesized during transformation carry a zero-length span
// anchored at the offset of the construct they were derived from, so every
// span stays inside the source that produced it.
type Span struct {
	Start  int
	Length int
}

// SpanBetween builds the span covering [start, end).
func SpanBetween(start, end int) Span {
	if end < start {
		end = start
	}
	return Span{Start: start, Length: end - start}
}

// End returns the offset one past the last byte covered by the span.
func (s Span) End() int {
	return s.Start + s.Length
}

// IsZero reports whether the span covers no source text.
func (s Span) IsZero() bool {
	return s.Length == 0
}

// Text slices the covered range out of source, clamping to the source
// bounds so a malformed span can never cause a panic at reporting time.
func (s Span) Text(source string) string {
	start, end := s.Start, s.End()
	if start < 0 {
		start = 0
	}
	if start > len(source) {
		start = len(source)
	}
	if end > len(source) {
		end = len(source)
	}
	if end < start {
		end = start
	}
	return source[start:end]
}

// Clamp bounds the span to a source of the given length.
func (s Span) Clamp(sourceLen int) Span {
	if s.Start < 0 {
		s.Start = 0
	}
	if s.Start > sourceLen {
		s.Start = sourceLen
	}
	if s.End() > sourceLen {
		s.Length = sourceLen - s.Start
	}
	if s.Length < 0 {
		s.Length = 0
	}
	return s
}
