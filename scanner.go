package pbdesc

import (
	"bytes"
	"math"
	"strconv"
)

// The lexical primitives. Every method advances the cursor on a match
// and leaves it exactly where it was on a no-match, so callers can try
// the next grammar alternative without cleanup.

// lit consumes the literal s. Matching is a plain prefix comparison;
// rules which need a word boundary after a keyword require a break
// next, the scanner does not.
func (p *parser) lit(s string) bool {
	if len(p.in)-p.pos < len(s) {
		return false
	}
	if string(p.in[p.pos:p.pos+len(s)]) != s {
		return false
	}
	p.pos += len(s)
	return true
}

// word consumes the maximal run of letters, digits, underscores and
// dots. Dotted type names come out as one word; nothing checks that a
// word is a well-formed identifier, that is a later stage's concern.
func (p *parser) word() (string, bool) {
	start := p.pos
	for p.pos < len(p.in) && isWordChar(p.in[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return "", false
	}
	return string(p.in[start:p.pos]), true
}

// integer consumes a run of decimal digits as a signed 32-bit value.
// A run that overflows int32 is a no-match, not an error.
func (p *parser) integer() (int32, bool) {
	start := p.pos
	for p.pos < len(p.in) && isDigit(p.in[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return 0, false
	}
	n, err := strconv.ParseInt(string(p.in[start:p.pos]), 10, 32)
	if err != nil {
		p.pos = start
		return 0, false
	}
	return int32(n), true
}

// hexInteger consumes a 0x-prefixed run of hex digits as a signed
// 32-bit value, with the same overflow-is-no-match behavior as integer.
func (p *parser) hexInteger() (int32, bool) {
	start := p.pos
	if !p.lit("0x") {
		return 0, false
	}
	digits := p.pos
	for p.pos < len(p.in) && isHexDigit(p.in[p.pos]) {
		p.pos++
	}
	if p.pos == digits {
		p.pos = start
		return 0, false
	}
	n, err := strconv.ParseInt(string(p.in[digits:p.pos]), 16, 32)
	if err != nil {
		p.pos = start
		return 0, false
	}
	return int32(n), true
}

// intLit consumes a hex integer, falling back to decimal. When a hex
// literal overflows, the decimal attempt stops at the leading 0 and the
// stray x surfaces as a grammar mismatch in the caller.
func (p *parser) intLit() (int32, bool) {
	if n, ok := p.hexInteger(); ok {
		return n, true
	}
	return p.integer()
}

// br consumes one word break: a whitespace run, a line comment, or a
// block comment. Breaks may appear between any two tokens; rules always
// consume them in zero-or-more loops via breaks.
func (p *parser) br() bool {
	if p.whitespace() {
		return true
	}
	if p.lineComment() {
		return true
	}
	return p.blockComment()
}

// breaks consumes zero or more word breaks.
func (p *parser) breaks() {
	for p.br() {
	}
}

// breaks1 consumes word breaks and reports whether at least one was
// present. Keywords are separated from what follows by breaks1, which
// is what keeps "message" from matching the head of "messageFoo".
func (p *parser) breaks1() bool {
	if !p.br() {
		return false
	}
	p.breaks()
	return true
}

func (p *parser) whitespace() bool {
	start := p.pos
	for p.pos < len(p.in) && isWhitespace(p.in[p.pos]) {
		p.pos++
	}
	return p.pos > start
}

// lineComment consumes "// ..." through the end of the line. EOF
// terminates the comment as well as a newline does.
func (p *parser) lineComment() bool {
	if !p.lit("//") {
		return false
	}
	for p.pos < len(p.in) && p.in[p.pos] != '\n' {
		p.pos++
	}
	if p.pos < len(p.in) {
		p.pos++
	}
	return true
}

// blockComment consumes "/* ... */". Block comments do not nest; the
// first */ ends the comment. An unterminated comment is a no-match.
func (p *parser) blockComment() bool {
	start := p.pos
	if !p.lit("/*") {
		return false
	}
	for p.pos+1 < len(p.in) {
		if p.in[p.pos] == '*' && p.in[p.pos+1] == '/' {
			p.pos += 2
			return true
		}
		p.pos++
	}
	p.pos = start
	return false
}

// quotedRaw consumes a double-quoted literal and returns its raw text,
// quotes included. A backslash escapes the byte after it, so escaped
// quotes do not terminate the literal; no unescaping is performed.
func (p *parser) quotedRaw() (string, bool) {
	start := p.pos
	if !p.lit(`"`) {
		return "", false
	}
	for p.pos < len(p.in) {
		switch p.in[p.pos] {
		case '\\':
			p.pos++
			if p.pos < len(p.in) {
				p.pos++
			}
		case '"':
			p.pos++
			return string(p.in[start:p.pos]), true
		default:
			p.pos++
		}
	}
	p.pos = start
	return "", false
}

// until consumes bytes up to the first occurrence of b, which is left
// unconsumed. No-match when b never occurs.
func (p *parser) until(b byte) (string, bool) {
	i := bytes.IndexByte(p.in[p.pos:], b)
	if i < 0 {
		return "", false
	}
	s := string(p.in[p.pos : p.pos+i])
	p.pos += i
	return s, true
}

// skipStatement consumes input through the first ';' that is outside a
// string literal. Used to discard option statements.
func (p *parser) skipStatement() bool {
	start := p.pos
	for p.pos < len(p.in) {
		switch p.in[p.pos] {
		case ';':
			p.pos++
			return true
		case '"':
			if _, ok := p.quotedRaw(); !ok {
				p.pos = start
				return false
			}
		default:
			p.pos++
		}
	}
	p.pos = start
	return false
}

// skipBlock consumes a brace-enclosed block, counting nested braces so
// inner blocks do not end the skip early. Braces inside string literals
// do not count. Used to discard service bodies.
func (p *parser) skipBlock() bool {
	start := p.pos
	if !p.lit("{") {
		return false
	}
	depth := 1
	for p.pos < len(p.in) {
		switch p.in[p.pos] {
		case '{':
			depth++
			p.pos++
		case '}':
			depth--
			p.pos++
			if depth == 0 {
				return true
			}
		case '"':
			if _, ok := p.quotedRaw(); !ok {
				p.pos = start
				return false
			}
		default:
			p.pos++
		}
	}
	p.pos = start
	return false
}

// satAdd1 returns n+1, saturating at the int32 maximum so an inclusive
// upper bound converts to a half-open one without overflow.
func satAdd1(n int32) int32 {
	if n == math.MaxInt32 {
		return n
	}
	return n + 1
}

func isWordChar(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || isDigit(b) || b == '_' || b == '.'
}

func isWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
