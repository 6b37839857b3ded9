package pbdesc

// Syntax is the protocol buffer syntax level declared by a file.
// Files which do not carry a syntax statement default to proto2.
type Syntax int

// The supported syntax levels.
const (
	SyntaxProto2 Syntax = iota
	SyntaxProto3
)

func (s Syntax) String() string {
	if s == SyntaxProto3 {
		return "proto3"
	}
	return "proto2"
}

// Label is the multiplicity keyword preceding a field declaration.
// Fields declared without a keyword are optional.
type Label int

// The supported field labels.
const (
	LabelOptional Label = iota
	LabelRepeated
	LabelRequired
)

var labelToStringMap = [...]string{
	LabelOptional: "optional",
	LabelRepeated: "repeated",
	LabelRequired: "required",
}

func (l Label) String() string {
	return labelToStringMap[l]
}

// Range is a half-open interval of field numbers: Start is included,
// End is not. The source form "17 to 20" covers numbers 17..20 and is
// stored as Range{17, 21}.
type Range struct {
	Start int32
	End   int32
}

// OptionElement is a raw key/value pair from the bracketed attribute
// list of a field declaration, e.g. [default = "abc"]. The value is the
// literal text as written, trimmed of surrounding whitespace; quoted
// values keep their quotes and escape sequences untouched.
type OptionElement struct {
	Name  string
	Value string
}

// FieldElement is a datastructure which models a field of a message,
// a field of a oneof element, a member of a group body or an entry in
// an extend declaration.
//
// Default, Packed and Deprecated are extracted from the attribute list
// by exact key match; only the first pair with a given key counts.
// Options retains every pair, recognized or not, in declaration order.
type FieldElement struct {
	Name       string
	Label      Label
	Type       DataType
	Tag        int32
	Default    string // raw literal text; empty when no default attribute
	Packed     bool
	Deprecated bool
	Options    []OptionElement
}

// OneOfElement is a datastructure which models a oneof construct.
// All the fields in a oneof construct share memory, and at most one
// field can be set at any time. Oneof fields never carry a label.
type OneOfElement struct {
	Name   string
	Fields []FieldElement
}

// EnumConstantElement is a datastructure which models a constant
// within an enum construct.
type EnumConstantElement struct {
	Name string
	Tag  int32
}

// EnumElement is a datastructure which models the enum construct in a
// protobuf file. Enums are defined standalone or as nested entities
// within messages.
type EnumElement struct {
	Name      string
	Constants []EnumConstantElement
}

// MessageElement is a datastructure which models the message construct
// in a protobuf file.
//
// Fields holds only the fields declared directly in the message body;
// fields declared inside a oneof live under the owning OneOfElement.
// ReservedRanges and ReservedNames accumulate across multiple reserved
// statements in the same body.
type MessageElement struct {
	Name            string
	Fields          []FieldElement
	Messages        []MessageElement
	Enums           []EnumElement
	OneOfs          []OneOfElement
	ReservedRanges  []Range
	ReservedNames   []string
	ExtensionRanges []Range
}

// ExtensionElement is a datastructure which models a single field of
// an extend declaration. An extend block with N fields yields N
// ExtensionElements sharing the same extendee name. The extendee is
// recorded verbatim, dotted qualification included; resolving it is
// the caller's concern.
type ExtensionElement struct {
	Extendee string
	Field    FieldElement
}

// FileDescriptor is a datastructure which represents the parsed model
// of a single protobuf file.
//
// It is populated bottom-up by the parser and returned to the client
// code. It holds no references back into the input buffer and is not
// mutated after Parse returns.
type FileDescriptor struct {
	Syntax             Syntax
	PackageName        string
	Dependencies       []string
	PublicDependencies []string
	Messages           []MessageElement
	Enums              []EnumElement
	Extensions         []ExtensionElement
}
