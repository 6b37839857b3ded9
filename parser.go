package pbdesc

import (
	"io"
)

// Parse parses the complete content of a single .proto file into its
// FileDescriptor. The whole input must be consumed: a trailing
// construct that matches no grammar alternative fails the parse, no
// partial result is returned. Parse holds no state between calls and
// may be invoked concurrently from independent goroutines.
func Parse(data []byte) (FileDescriptor, error) {
	p := &parser{in: data}
	var events []fileEvent
	for {
		ev, ok := p.topLevelEvent()
		if !ok {
			break
		}
		events = append(events, ev)
	}
	if p.fatal != nil {
		return FileDescriptor{}, p.fatal
	}
	if p.pos < len(p.in) {
		return FileDescriptor{}, p.errorAt(p.pos, "unparsable input near %q", p.remainder(p.pos))
	}
	return foldFile(events), nil
}

// ParseReader reads all of r and parses the content. It is a
// convenience wrapper over Parse; no file-system access happens here.
func ParseReader(r io.Reader) (FileDescriptor, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return FileDescriptor{}, err
	}
	return Parse(data)
}

// The parser. It threads a cursor over the input buffer through the
// mutually recursive grammar methods. Grammar methods return their
// parsed value plus a match flag; on a no-match the cursor is restored,
// so the caller is free to try the next alternative.
type parser struct {
	in  []byte
	pos int
	// Set when the parse cannot succeed no matter how alternatives
	// backtrack, e.g. a malformed boolean attribute value. Reported in
	// preference to the generic mismatch error.
	fatal *ParseError
}

// fatalAt records an unrecoverable error at the given offset. The
// first one sticks.
func (p *parser) fatalAt(offset int, format string, args ...interface{}) {
	if p.fatal == nil {
		p.fatal = p.errorAt(offset, format, args...)
	}
}

// Each grammar level produces tagged events which a fold then reduces
// into the owning node. The grammar rules construct events only; all
// mutation of the tree lives in foldMessage and foldFile.

// bodyEvent is one parsed item of a message body.
type bodyEvent interface{ isBodyEvent() }

// fileEvent is one parsed top-level item.
type fileEvent interface{ isFileEvent() }

type fieldEvent FieldElement
type messageDecl MessageElement
type enumDecl EnumElement
type oneOfDecl OneOfElement
type reservedRangesDecl []Range
type reservedNamesDecl []string
type extensionRangesDecl []Range
type syntaxDecl Syntax
type packageDecl string
type extendDecl []ExtensionElement

type importDecl struct {
	path   string
	public bool
}

// skipped covers the constructs that are consumed and discarded: word
// breaks, option statements, service blocks and stray semicolons.
type skipped struct{}

func (fieldEvent) isBodyEvent()          {}
func (messageDecl) isBodyEvent()         {}
func (messageDecl) isFileEvent()         {}
func (enumDecl) isBodyEvent()            {}
func (enumDecl) isFileEvent()            {}
func (oneOfDecl) isBodyEvent()           {}
func (reservedRangesDecl) isBodyEvent()  {}
func (reservedNamesDecl) isBodyEvent()   {}
func (extensionRangesDecl) isBodyEvent() {}
func (syntaxDecl) isFileEvent()          {}
func (packageDecl) isFileEvent()         {}
func (extendDecl) isFileEvent()          {}
func (importDecl) isFileEvent()          {}
func (skipped) isBodyEvent()             {}
func (skipped) isFileEvent()             {}

// topLevelEvent parses one top-level construct. Alternatives are tried
// in order; the first match wins.
func (p *parser) topLevelEvent() (fileEvent, bool) {
	if s, ok := p.syntax(); ok {
		return syntaxDecl(s), true
	}
	if imp, ok := p.importPath(); ok {
		return imp, true
	}
	if pkg, ok := p.packageName(); ok {
		return packageDecl(pkg), true
	}
	if m, ok := p.message(); ok {
		return messageDecl(m), true
	}
	if e, ok := p.enum(); ok {
		return enumDecl(e), true
	}
	if exts, ok := p.extend(); ok {
		return extendDecl(exts), true
	}
	if p.optionSkip() {
		return skipped{}, true
	}
	if p.serviceSkip() {
		return skipped{}, true
	}
	if p.lit(";") {
		return skipped{}, true
	}
	if p.br() {
		return skipped{}, true
	}
	return nil, false
}

// foldFile reduces the top-level event sequence into the root
// descriptor. Syntax and package overwrite, so the last statement wins;
// imports, messages, enums and extensions append in declaration order.
func foldFile(events []fileEvent) FileDescriptor {
	var fd FileDescriptor
	for _, ev := range events {
		switch e := ev.(type) {
		case syntaxDecl:
			fd.Syntax = Syntax(e)
		case importDecl:
			if e.public {
				fd.PublicDependencies = append(fd.PublicDependencies, e.path)
			} else {
				fd.Dependencies = append(fd.Dependencies, e.path)
			}
		case packageDecl:
			fd.PackageName = string(e)
		case messageDecl:
			fd.Messages = append(fd.Messages, MessageElement(e))
		case enumDecl:
			fd.Enums = append(fd.Enums, EnumElement(e))
		case extendDecl:
			fd.Extensions = append(fd.Extensions, e...)
		}
	}
	return fd
}

// syntax parses `syntax = "proto2";` or `syntax = "proto3";`.
func (p *parser) syntax() (Syntax, bool) {
	start := p.pos
	if !p.lit("syntax") {
		return 0, false
	}
	p.breaks()
	if !p.lit("=") {
		p.pos = start
		return 0, false
	}
	p.breaks()
	var s Syntax
	switch {
	case p.lit(`"proto2"`):
		s = SyntaxProto2
	case p.lit(`"proto3"`):
		s = SyntaxProto3
	default:
		p.pos = start
		return 0, false
	}
	p.breaks()
	if !p.lit(";") {
		p.pos = start
		return 0, false
	}
	return s, true
}

// importPath parses `import "path";` and `import public "path";`. The
// path is raw text up to the closing quote.
func (p *parser) importPath() (importDecl, bool) {
	start := p.pos
	if !p.lit("import") || !p.breaks1() {
		p.pos = start
		return importDecl{}, false
	}
	var d importDecl
	if p.lit("public") {
		if !p.breaks1() {
			p.pos = start
			return importDecl{}, false
		}
		d.public = true
	}
	if !p.lit(`"`) {
		p.pos = start
		return importDecl{}, false
	}
	path, ok := p.until('"')
	if !ok {
		p.pos = start
		return importDecl{}, false
	}
	p.pos++ // closing quote
	d.path = path
	p.breaks()
	if !p.lit(";") {
		p.pos = start
		return importDecl{}, false
	}
	return d, true
}

// packageName parses `package dotted.name;`.
func (p *parser) packageName() (string, bool) {
	start := p.pos
	if !p.lit("package") || !p.breaks1() {
		p.pos = start
		return "", false
	}
	name, ok := p.word()
	if !ok {
		p.pos = start
		return "", false
	}
	p.breaks()
	if !p.lit(";") {
		p.pos = start
		return "", false
	}
	return name, true
}

// message parses a message declaration with its full body, stray
// semicolons after the closing brace included.
func (p *parser) message() (MessageElement, bool) {
	start := p.pos
	if !p.lit("message") || !p.breaks1() {
		p.pos = start
		return MessageElement{}, false
	}
	name, ok := p.word()
	if !ok {
		p.pos = start
		return MessageElement{}, false
	}
	p.breaks()
	if !p.lit("{") {
		p.pos = start
		return MessageElement{}, false
	}
	var events []bodyEvent
	for {
		ev, ok := p.messageEvent()
		if !ok {
			break
		}
		events = append(events, ev)
	}
	if !p.lit("}") {
		p.pos = start
		return MessageElement{}, false
	}
	p.breaks()
	for p.lit(";") {
	}
	return foldMessage(name, events), true
}

// messageEvent parses one construct of a message body. The field
// alternative comes after the reserved and extensions statements, which
// would otherwise parse as a field type named "reserved" or
// "extensions", and before the nested aggregates, whose keywords it
// cannot consume because a field requires "= number" where an aggregate
// has its brace body.
func (p *parser) messageEvent() (bodyEvent, bool) {
	if ranges, ok := p.reservedRanges(); ok {
		return reservedRangesDecl(ranges), true
	}
	if names, ok := p.reservedNames(); ok {
		return reservedNamesDecl(names), true
	}
	if ranges, ok := p.extensionRanges(); ok {
		return extensionRangesDecl(ranges), true
	}
	if f, ok := p.field(true); ok {
		return fieldEvent(f), true
	}
	if m, ok := p.message(); ok {
		return messageDecl(m), true
	}
	if e, ok := p.enum(); ok {
		return enumDecl(e), true
	}
	if o, ok := p.oneOf(); ok {
		return oneOfDecl(o), true
	}
	if p.optionSkip() {
		return skipped{}, true
	}
	if p.lit(";") {
		return skipped{}, true
	}
	if p.br() {
		return skipped{}, true
	}
	return nil, false
}

// foldMessage reduces a message body's event sequence into the owning
// MessageElement. Reserved and extensions statements accumulate across
// repeated declarations of the same kind.
func foldMessage(name string, events []bodyEvent) MessageElement {
	me := MessageElement{Name: name}
	for _, ev := range events {
		switch e := ev.(type) {
		case fieldEvent:
			me.Fields = append(me.Fields, FieldElement(e))
		case messageDecl:
			me.Messages = append(me.Messages, MessageElement(e))
		case enumDecl:
			me.Enums = append(me.Enums, EnumElement(e))
		case oneOfDecl:
			me.OneOfs = append(me.OneOfs, OneOfElement(e))
		case reservedRangesDecl:
			me.ReservedRanges = append(me.ReservedRanges, e...)
		case reservedNamesDecl:
			me.ReservedNames = append(me.ReservedNames, e...)
		case extensionRangesDecl:
			me.ExtensionRanges = append(me.ExtensionRanges, e...)
		}
	}
	return me
}

// reservedRanges parses `reserved 4, 15, 17 to 20;` into half-open
// ranges.
func (p *parser) reservedRanges() ([]Range, bool) {
	start := p.pos
	if !p.lit("reserved") || !p.breaks1() {
		p.pos = start
		return nil, false
	}
	var ranges []Range
	for {
		save := p.pos
		if len(ranges) > 0 {
			p.breaks()
			if !p.lit(",") {
				p.pos = save
				break
			}
			p.breaks()
		}
		r, ok := p.numRange()
		if !ok {
			p.pos = save
			break
		}
		ranges = append(ranges, r)
	}
	p.breaks()
	if !p.lit(";") {
		p.pos = start
		return nil, false
	}
	return ranges, true
}

// numRange parses a single number or "A to B"; both forms produce a
// half-open Range, the latter inclusive of B.
func (p *parser) numRange() (Range, bool) {
	from, ok := p.integer()
	if !ok {
		return Range{}, false
	}
	save := p.pos
	if p.breaks1() && p.lit("to") && p.breaks1() {
		if to, ok := p.integer(); ok {
			return Range{Start: from, End: satAdd1(to)}, true
		}
	}
	p.pos = save
	return Range{Start: from, End: satAdd1(from)}, true
}

// reservedNames parses `reserved "foo", "bar";`. Names may be separated
// by commas, word breaks, or both.
func (p *parser) reservedNames() ([]string, bool) {
	start := p.pos
	if !p.lit("reserved") || !p.breaks1() {
		p.pos = start
		return nil, false
	}
	var names []string
	for p.lit(`"`) {
		name, _ := p.word()
		if !p.lit(`"`) {
			p.pos = start
			return nil, false
		}
		names = append(names, name)
		for p.br() || p.lit(",") {
		}
	}
	if len(names) == 0 || !p.lit(";") {
		p.pos = start
		return nil, false
	}
	return names, true
}

// extensionRanges parses `extensions 100, 200 to 299;` declarations.
// The keyword max stands for the largest valid field number, 536870911.
func (p *parser) extensionRanges() ([]Range, bool) {
	start := p.pos
	if !p.lit("extensions") || !p.breaks1() {
		p.pos = start
		return nil, false
	}
	var ranges []Range
	for {
		save := p.pos
		if len(ranges) > 0 {
			p.breaks()
			if !p.lit(",") {
				p.pos = save
				break
			}
			p.breaks()
		}
		r, ok := p.extensionRange()
		if !ok {
			p.pos = save
			break
		}
		ranges = append(ranges, r)
	}
	if len(ranges) == 0 {
		p.pos = start
		return nil, false
	}
	p.breaks()
	if !p.lit(";") {
		p.pos = start
		return nil, false
	}
	return ranges, true
}

const maxFieldNumber = 536870911

func (p *parser) extensionRange() (Range, bool) {
	from, ok := p.integer()
	if !ok {
		return Range{}, false
	}
	save := p.pos
	if p.breaks1() && p.lit("to") && p.breaks1() {
		if p.lit("max") {
			return Range{Start: from, End: maxFieldNumber + 1}, true
		}
		if to, ok := p.integer(); ok {
			return Range{Start: from, End: satAdd1(to)}, true
		}
	}
	p.pos = save
	return Range{Start: from, End: satAdd1(from)}, true
}

// oneOf parses a oneof construct. Its members reuse the field grammar
// with labels disallowed; all of them are implicitly singular.
func (p *parser) oneOf() (OneOfElement, bool) {
	start := p.pos
	if !p.lit("oneof") || !p.breaks1() {
		p.pos = start
		return OneOfElement{}, false
	}
	name, ok := p.word()
	if !ok {
		p.pos = start
		return OneOfElement{}, false
	}
	p.breaks()
	fields, ok := p.fieldsInBraces(false)
	if !ok {
		p.pos = start
		return OneOfElement{}, false
	}
	return OneOfElement{Name: name, Fields: fields}, true
}

// enum parses an enum declaration. Option statements and stray
// semicolons inside the body are skipped.
func (p *parser) enum() (EnumElement, bool) {
	start := p.pos
	if !p.lit("enum") || !p.breaks1() {
		p.pos = start
		return EnumElement{}, false
	}
	name, ok := p.word()
	if !ok {
		p.pos = start
		return EnumElement{}, false
	}
	p.breaks()
	if !p.lit("{") {
		p.pos = start
		return EnumElement{}, false
	}
	ee := EnumElement{Name: name}
	for {
		p.breaks()
		if c, ok := p.enumConstant(); ok {
			ee.Constants = append(ee.Constants, c)
			continue
		}
		if p.optionSkip() {
			continue
		}
		if p.lit(";") {
			continue
		}
		break
	}
	if !p.lit("}") {
		p.pos = start
		return EnumElement{}, false
	}
	p.breaks()
	for p.lit(";") {
	}
	return ee, true
}

// enumConstant parses one `NAME = number;` declaration, the number in
// decimal or 0x-prefixed hex.
func (p *parser) enumConstant() (EnumConstantElement, bool) {
	start := p.pos
	name, ok := p.word()
	if !ok {
		return EnumConstantElement{}, false
	}
	p.breaks()
	if !p.lit("=") {
		p.pos = start
		return EnumConstantElement{}, false
	}
	p.breaks()
	tag, ok := p.intLit()
	if !ok {
		p.pos = start
		return EnumConstantElement{}, false
	}
	p.breaks()
	if !p.lit(";") {
		p.pos = start
		return EnumConstantElement{}, false
	}
	return EnumConstantElement{Name: name, Tag: tag}, true
}

// extend parses an extend block and flattens it into one
// ExtensionElement per field, all sharing the extendee name.
func (p *parser) extend() ([]ExtensionElement, bool) {
	start := p.pos
	if !p.lit("extend") || !p.breaks1() {
		p.pos = start
		return nil, false
	}
	extendee, ok := p.word()
	if !ok {
		p.pos = start
		return nil, false
	}
	p.breaks()
	fields, ok := p.fieldsInBraces(true)
	if !ok {
		p.pos = start
		return nil, false
	}
	var exts []ExtensionElement
	for _, f := range fields {
		exts = append(exts, ExtensionElement{Extendee: extendee, Field: f})
	}
	return exts, true
}

// optionSkip consumes an option statement without modeling it: raw
// bytes through the first semicolon outside a string literal.
func (p *parser) optionSkip() bool {
	start := p.pos
	if !p.lit("option") || !p.breaks1() {
		p.pos = start
		return false
	}
	if !p.skipStatement() {
		p.pos = start
		return false
	}
	return true
}

// serviceSkip consumes a service block without modeling it. The body is
// discarded with a brace-depth scan so nested rpc option blocks do not
// end the skip early.
func (p *parser) serviceSkip() bool {
	start := p.pos
	if !p.lit("service") || !p.breaks1() {
		p.pos = start
		return false
	}
	if _, ok := p.word(); !ok {
		p.pos = start
		return false
	}
	p.breaks()
	if !p.skipBlock() {
		p.pos = start
		return false
	}
	return true
}
