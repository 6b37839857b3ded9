package pbdesc

import (
	"fmt"
)

// ParseError is the error type returned by Parse. It carries the byte
// offset and the 1-based line/column in the input at which matching
// stopped, plus an underlying error describing what went wrong there.
type ParseError struct {
	Offset int
	Line   int
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %v", e.Line, e.Column, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// errorAt builds a ParseError for the given byte offset, locating the
// line and column by scanning the input.
func (p *parser) errorAt(offset int, format string, args ...interface{}) *ParseError {
	line, col := 1, 1
	for _, b := range p.in[:offset] {
		if b == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return &ParseError{
		Offset: offset,
		Line:   line,
		Column: col,
		Err:    fmt.Errorf(format, args...),
	}
}

// remainder returns a short prefix of the unconsumed input, for use in
// mismatch messages.
func (p *parser) remainder(offset int) string {
	rest := p.in[offset:]
	const max = 20
	if len(rest) > max {
		rest = rest[:max]
	}
	return string(rest)
}
