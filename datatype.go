package pbdesc

// DataTypeCategory is an enumeration which represents the possible kinds
// of field datatypes in message, oneof, group and extend declaration
// constructs.
type DataTypeCategory int

const (
	// ScalarDataTypeCategory indicates a scalar-builtin datatype
	ScalarDataTypeCategory DataTypeCategory = iota
	// MapDataTypeCategory indicates a protobuf map datatype
	MapDataTypeCategory
	// GroupDataTypeCategory indicates a legacy group datatype whose
	// fields are declared inline in the field's own brace body
	GroupDataTypeCategory
	// NamedDataTypeCategory indicates a named type-reference to a
	// message or enum, left unresolved for a later resolution stage
	NamedDataTypeCategory
)

// DataType is the interface which must be implemented by the field
// datatypes. Name() returns the source spelling of the datatype and
// Category() returns the category of the datatype.
type DataType interface {
	Name() string
	Category() DataTypeCategory
}

// ScalarType is an enumeration which represents all known supported
// scalar field datatypes.
type ScalarType int

const (
	// BoolScalar represents the bool protobuf type
	BoolScalar ScalarType = iota + 1
	// BytesScalar represents the bytes protobuf type
	BytesScalar
	// DoubleScalar represents the double protobuf type
	DoubleScalar
	// FloatScalar represents the float protobuf type
	FloatScalar
	// Fixed32Scalar represents the fixed32 protobuf type
	Fixed32Scalar
	// Fixed64Scalar represents the fixed64 protobuf type
	Fixed64Scalar
	// Int32Scalar represents the int32 protobuf type
	Int32Scalar
	// Int64Scalar represents the int64 protobuf type
	Int64Scalar
	// RefCountedBytesScalar represents the ref_counted_bytes type, a
	// reference-counted alias of bytes
	RefCountedBytesScalar
	// RefCountedStringScalar represents the ref_counted_string type, a
	// reference-counted alias of string
	RefCountedStringScalar
	// Sfixed32Scalar represents the sfixed32 protobuf type
	Sfixed32Scalar
	// Sfixed64Scalar represents the sfixed64 protobuf type
	Sfixed64Scalar
	// Sint32Scalar represents the sint32 protobuf type
	Sint32Scalar
	// Sint64Scalar represents the sint64 protobuf type
	Sint64Scalar
	// StringScalar represents the string protobuf type
	StringScalar
	// Uint32Scalar represents the uint32 protobuf type
	Uint32Scalar
	// Uint64Scalar represents the uint64 protobuf type
	Uint64Scalar
)

var scalarToStringMap = map[ScalarType]string{
	BoolScalar:             "bool",
	BytesScalar:            "bytes",
	DoubleScalar:           "double",
	FloatScalar:            "float",
	Fixed32Scalar:          "fixed32",
	Fixed64Scalar:          "fixed64",
	Int32Scalar:            "int32",
	Int64Scalar:            "int64",
	RefCountedBytesScalar:  "ref_counted_bytes",
	RefCountedStringScalar: "ref_counted_string",
	Sfixed32Scalar:         "sfixed32",
	Sfixed64Scalar:         "sfixed64",
	Sint32Scalar:           "sint32",
	Sint64Scalar:           "sint64",
	StringScalar:           "string",
	Uint32Scalar:           "uint32",
	Uint64Scalar:           "uint64",
}

// ScalarDataType is a construct which represents all supported protobuf
// scalar datatypes.
type ScalarDataType struct {
	scalarType ScalarType
}

// NewScalarDataType creates a ScalarDataType for the given ScalarType.
func NewScalarDataType(st ScalarType) ScalarDataType {
	return ScalarDataType{scalarType: st}
}

// Scalar returns which scalar datatype this is.
func (sdt ScalarDataType) Scalar() ScalarType {
	return sdt.scalarType
}

// Name function implementation of interface DataType for ScalarDataType
func (sdt ScalarDataType) Name() string {
	return scalarToStringMap[sdt.scalarType]
}

// Category function implementation of interface DataType for ScalarDataType
func (sdt ScalarDataType) Category() DataTypeCategory {
	return ScalarDataTypeCategory
}

// MapDataType is a construct which represents a protobuf map datatype.
// KeyType and ValueType keep the left-to-right order of the source.
type MapDataType struct {
	KeyType   DataType
	ValueType DataType
}

// Name function implementation of interface DataType for MapDataType
func (mdt MapDataType) Name() string {
	return "map<" + mdt.KeyType.Name() + ", " + mdt.ValueType.Name() + ">"
}

// Category function implementation of interface DataType for MapDataType
func (mdt MapDataType) Category() DataTypeCategory {
	return MapDataTypeCategory
}

// GroupDataType is a construct which represents a legacy group
// datatype. Fields is empty until the group's brace body has been
// parsed, and stays empty for a group declaration terminated by a
// semicolon instead of a body.
type GroupDataType struct {
	Fields []FieldElement
}

// Name function implementation of interface DataType for GroupDataType
func (gdt GroupDataType) Name() string {
	return "group"
}

// Category function implementation of interface DataType for GroupDataType
func (gdt GroupDataType) Category() DataTypeCategory {
	return GroupDataTypeCategory
}

// NamedDataType is a construct which represents a message or enum
// datatype referenced by name, possibly dot-qualified. The name is
// recorded verbatim; matching it to a definition is the concern of a
// later resolution stage.
type NamedDataType struct {
	name string
}

// NewNamedDataType creates a NamedDataType for the given type name.
func NewNamedDataType(name string) NamedDataType {
	return NamedDataType{name: name}
}

// Name function implementation of interface DataType for NamedDataType
func (ndt NamedDataType) Name() string {
	return ndt.name
}

// Category function implementation of interface DataType for NamedDataType
func (ndt NamedDataType) Category() DataTypeCategory {
	return NamedDataTypeCategory
}
