package pbdesc

import (
	"strconv"
	"strings"
)

// scalarKeywords lists the scalar type keywords in the order the type
// grammar tries them. All of them come before the group, map and
// identifier alternatives: keywords are identifier-shaped words, so the
// fallback would otherwise swallow them as type references.
var scalarKeywords = []struct {
	text string
	typ  ScalarType
}{
	{"int32", Int32Scalar},
	{"int64", Int64Scalar},
	{"uint32", Uint32Scalar},
	{"uint64", Uint64Scalar},
	{"sint32", Sint32Scalar},
	{"sint64", Sint64Scalar},
	{"fixed32", Fixed32Scalar},
	{"sfixed32", Sfixed32Scalar},
	{"fixed64", Fixed64Scalar},
	{"sfixed64", Sfixed64Scalar},
	{"bool", BoolScalar},
	{"string", StringScalar},
	{"ref_counted_string", RefCountedStringScalar},
	{"bytes", BytesScalar},
	{"ref_counted_bytes", RefCountedBytesScalar},
	{"float", FloatScalar},
	{"double", DoubleScalar},
}

// label parses a multiplicity keyword.
func (p *parser) label() (Label, bool) {
	switch {
	case p.lit("optional"):
		return LabelOptional, true
	case p.lit("repeated"):
		return LabelRepeated, true
	case p.lit("required"):
		return LabelRequired, true
	}
	return LabelOptional, false
}

// dataType parses a field type: a scalar keyword, the group keyword, a
// map<K, V> construct, or any remaining word taken as a reference to a
// message or enum type. A group's field list stays empty here; the
// field grammar fills it in once the brace body has been parsed.
func (p *parser) dataType() (DataType, bool) {
	for _, kw := range scalarKeywords {
		if p.lit(kw.text) {
			return ScalarDataType{scalarType: kw.typ}, true
		}
	}
	if p.lit("group") {
		return GroupDataType{}, true
	}
	if mdt, ok := p.mapType(); ok {
		return mdt, true
	}
	if w, ok := p.word(); ok {
		return NamedDataType{name: w}, true
	}
	return nil, false
}

// mapType parses map<Key, Value>, key first.
func (p *parser) mapType() (MapDataType, bool) {
	start := p.pos
	if !p.lit("map") {
		return MapDataType{}, false
	}
	p.breaks()
	if !p.lit("<") {
		p.pos = start
		return MapDataType{}, false
	}
	p.breaks()
	key, ok := p.dataType()
	if !ok {
		p.pos = start
		return MapDataType{}, false
	}
	p.breaks()
	if !p.lit(",") {
		p.pos = start
		return MapDataType{}, false
	}
	p.breaks()
	value, ok := p.dataType()
	if !ok || !p.lit(">") {
		p.pos = start
		return MapDataType{}, false
	}
	return MapDataType{KeyType: key, ValueType: value}, true
}

// field parses one field declaration: an optional label, a type, a
// name, "= number", optional attribute lists, and then a semicolon, or
// a brace body when the type is a group. allowLabel is false inside a
// oneof body, where multiplicity keywords are not accepted and their
// presence fails the whole oneof.
func (p *parser) field(allowLabel bool) (FieldElement, bool) {
	start := p.pos
	label, hasLabel := p.label()
	if hasLabel && !allowLabel {
		p.pos = start
		return FieldElement{}, false
	}
	p.breaks()
	typ, ok := p.dataType()
	if !ok || !p.breaks1() {
		p.pos = start
		return FieldElement{}, false
	}
	name, ok := p.word()
	if !ok {
		p.pos = start
		return FieldElement{}, false
	}
	p.breaks()
	if !p.lit("=") {
		p.pos = start
		return FieldElement{}, false
	}
	p.breaks()
	tag, ok := p.integer()
	if !ok {
		p.pos = start
		return FieldElement{}, false
	}
	p.breaks()

	fe := FieldElement{Name: name, Label: label, Type: typ, Tag: tag}
	fe.Options = p.attrs()
	if !p.applyAttrs(&fe) {
		p.pos = start
		return FieldElement{}, false
	}
	p.breaks()

	if gdt, isGroup := typ.(GroupDataType); isGroup {
		// A group terminated by a semicolon keeps its empty field
		// list; a brace body fills it in.
		if !p.lit(";") {
			fields, ok := p.fieldsInBraces(true)
			if !ok {
				p.pos = start
				return FieldElement{}, false
			}
			gdt.Fields = fields
			fe.Type = gdt
		}
	} else if !p.lit(";") {
		p.pos = start
		return FieldElement{}, false
	}
	return fe, true
}

// fieldsInBraces parses a brace-enclosed field list, any number of word
// breaks between members. Shared by group bodies, oneof bodies and
// extend blocks.
func (p *parser) fieldsInBraces(allowLabel bool) ([]FieldElement, bool) {
	start := p.pos
	if !p.lit("{") {
		return nil, false
	}
	var fields []FieldElement
	for {
		p.breaks()
		f, ok := p.field(allowLabel)
		if !ok {
			break
		}
		fields = append(fields, f)
	}
	if !p.lit("}") {
		p.pos = start
		return nil, false
	}
	return fields, true
}

// attrs parses zero or more bracketed attribute lists and returns the
// concatenated raw pairs.
func (p *parser) attrs() []OptionElement {
	var opts []OptionElement
	for {
		group, ok := p.attrGroup()
		if !ok {
			return opts
		}
		opts = append(opts, group...)
	}
}

// attrGroup parses one "[key = value, ...]" list, trailing word breaks
// included.
func (p *parser) attrGroup() ([]OptionElement, bool) {
	start := p.pos
	if !p.lit("[") {
		return nil, false
	}
	var opts []OptionElement
	for {
		p.breaks()
		key, ok := p.word()
		if !ok {
			p.pos = start
			return nil, false
		}
		p.breaks()
		if !p.lit("=") {
			p.pos = start
			return nil, false
		}
		p.breaks()
		value, ok := p.attrValue()
		if !ok {
			p.pos = start
			return nil, false
		}
		opts = append(opts, OptionElement{Name: key, Value: value})
		if !p.lit(",") {
			break
		}
	}
	if !p.lit("]") {
		p.pos = start
		return nil, false
	}
	p.breaks()
	return opts, true
}

// attrValue reads raw value text up to the next ',' or ']' outside a
// string literal, trimmed of surrounding whitespace. Quoted values are
// consumed whole, so commas and brackets inside them do not terminate
// the value, and their text is preserved byte-for-byte, quotes and
// escape sequences included.
func (p *parser) attrValue() (string, bool) {
	start := p.pos
	for p.pos < len(p.in) {
		switch p.in[p.pos] {
		case ',', ']':
			return strings.TrimSpace(string(p.in[start:p.pos])), true
		case '"':
			if _, ok := p.quotedRaw(); !ok {
				p.pos = start
				return "", false
			}
		default:
			p.pos++
		}
	}
	p.pos = start
	return "", false
}

// applyAttrs extracts the recognized attribute keys into the field.
// Only the first pair with a given key counts; unrecognized keys stay
// in Options and are otherwise ignored. A packed or deprecated value
// that is not a boolean literal fails the whole parse with a positioned
// error rather than a bare mismatch.
func (p *parser) applyAttrs(fe *FieldElement) bool {
	if v, ok := findAttr(fe.Options, "default"); ok {
		fe.Default = v
	}
	if v, ok := findAttr(fe.Options, "packed"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			p.fatalAt(p.pos, "invalid packed value %q for field %q", v, fe.Name)
			return false
		}
		fe.Packed = b
	}
	if v, ok := findAttr(fe.Options, "deprecated"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			p.fatalAt(p.pos, "invalid deprecated value %q for field %q", v, fe.Name)
			return false
		}
		fe.Deprecated = b
	}
	return true
}

func findAttr(opts []OptionElement, key string) (string, bool) {
	for _, o := range opts {
		if o.Name == key {
			return o.Value, true
		}
	}
	return "", false
}
