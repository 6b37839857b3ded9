package pbdesc

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cmpOpts = []cmp.Option{
	cmp.AllowUnexported(ScalarDataType{}, NamedDataType{}),
}

func mustParse(t *testing.T, src string) FileDescriptor {
	t.Helper()
	fd, err := Parse([]byte(src))
	require.NoError(t, err)
	return fd
}

func scalar(st ScalarType) ScalarDataType {
	return ScalarDataType{scalarType: st}
}

func named(name string) NamedDataType {
	return NamedDataType{name: name}
}

func TestMessageFields(t *testing.T) {
	fd := mustParse(t, `message ReferenceData
	{
		repeated ScenarioInfo  scenarioSet = 1;
		repeated CalculatedObjectInfo calculatedObjectSet = 2;
		// per-factor lists
		repeated RiskFactorList riskFactorListSet = 3;
		repeated RiskMaturityInfo riskMaturitySet = 4;
		/* legacy, kept for readers of old snapshots */
		repeated IndicatorInfo indicatorSet = 5;
		repeated RiskStrikeInfo riskStrikeSet = 6;
		repeated FreeProjectionList freeProjectionListSet = 7;
		repeated ValidationProperty ValidationSet = 8;
		repeated CalcProperties calcPropertiesSet = 9;
		repeated MaturityInfo maturitySet = 10;
	}`)

	require.Len(t, fd.Messages, 1)
	msg := fd.Messages[0]
	assert.Equal(t, "ReferenceData", msg.Name)
	require.Len(t, msg.Fields, 10)
	for i, f := range msg.Fields {
		assert.Equal(t, LabelRepeated, f.Label)
		assert.Equal(t, int32(i+1), f.Tag)
	}
	assert.Equal(t, "scenarioSet", msg.Fields[0].Name)
	assert.Equal(t, named("ScenarioInfo"), msg.Fields[0].Type)
	assert.Equal(t, "maturitySet", msg.Fields[9].Name)
}

func TestEnum(t *testing.T) {
	fd := mustParse(t, `enum PairingStatus {
		DEALPAIRED        = 0;
		INVENTORYORPHAN   = 1;
		CALCULATEDORPHAN  = 2;
		CANCELED          = 3;
	}`)

	require.Len(t, fd.Enums, 1)
	want := []EnumConstantElement{
		{Name: "DEALPAIRED", Tag: 0},
		{Name: "INVENTORYORPHAN", Tag: 1},
		{Name: "CALCULATEDORPHAN", Tag: 2},
		{Name: "CANCELED", Tag: 3},
	}
	assert.Equal(t, want, fd.Enums[0].Constants)
}

func TestEnumHexValues(t *testing.T) {
	fd := mustParse(t, `enum Flags {
		NONE = 0;
		LOW = 0x10;
		HIGH = 0x7fffffff;
	}`)

	require.Len(t, fd.Enums, 1)
	require.Len(t, fd.Enums[0].Constants, 3)
	assert.Equal(t, int32(16), fd.Enums[0].Constants[1].Tag)
	assert.Equal(t, int32(math.MaxInt32), fd.Enums[0].Constants[2].Tag)
}

func TestNestedMessage(t *testing.T) {
	fd := mustParse(t, `message A
	{
		message B {
			repeated int32 a = 1;
			optional string b = 2;
		}
		optional B b = 1;
	}`)

	require.Len(t, fd.Messages, 1)
	msg := fd.Messages[0]
	require.Len(t, msg.Messages, 1)
	assert.Equal(t, "B", msg.Messages[0].Name)
	require.Len(t, msg.Messages[0].Fields, 2)
	require.Len(t, msg.Fields, 1)
	assert.Equal(t, named("B"), msg.Fields[0].Type)
}

func TestMapField(t *testing.T) {
	fd := mustParse(t, `message A
	{
		optional map<string, int32> b = 1;
	}`)

	require.Len(t, fd.Messages[0].Fields, 1)
	want := MapDataType{KeyType: scalar(StringScalar), ValueType: scalar(Int32Scalar)}
	assert.Equal(t, want, fd.Messages[0].Fields[0].Type)
}

func TestOneOf(t *testing.T) {
	fd := mustParse(t, `message A
	{
		optional int32 a1 = 1;
		oneof a_oneof {
			string a2 = 2;
			// either a number
			int32 a3 = 3;
			bytes a4 = 4;
		}
		repeated bool a5 = 5;
	}`)

	msg := fd.Messages[0]
	require.Len(t, msg.OneOfs, 1)
	assert.Equal(t, "a_oneof", msg.OneOfs[0].Name)
	require.Len(t, msg.OneOfs[0].Fields, 3)

	// oneof members live under the oneof, not in the message's own list
	require.Len(t, msg.Fields, 2)
	assert.Equal(t, "a1", msg.Fields[0].Name)
	assert.Equal(t, "a5", msg.Fields[1].Name)
}

func TestOneOfRejectsLabels(t *testing.T) {
	_, err := Parse([]byte(`message A {
		oneof choice {
			optional int32 a = 1;
		}
	}`))
	require.Error(t, err)
}

func TestReserved(t *testing.T) {
	fd := mustParse(t, `message Sample {
		reserved 4, 15, 17 to 20, 30;
		reserved "foo", "bar";
		uint64 age =1;
		bytes name =2;
	}`)

	msg := fd.Messages[0]
	assert.Equal(t, []Range{{4, 5}, {15, 16}, {17, 21}, {30, 31}}, msg.ReservedRanges)
	assert.Equal(t, []string{"foo", "bar"}, msg.ReservedNames)
	require.Len(t, msg.Fields, 2)
}

func TestReservedNamesBreakSeparated(t *testing.T) {
	fd := mustParse(t, `message Sample {
		reserved "foo" "bar"
			"baz";
	}`)
	assert.Equal(t, []string{"foo", "bar", "baz"}, fd.Messages[0].ReservedNames)
}

func TestReservedAccumulates(t *testing.T) {
	fd := mustParse(t, `message Sample {
		reserved 2;
		reserved 9 to 11;
		reserved "old_name";
		reserved "older_name";
	}`)

	msg := fd.Messages[0]
	assert.Equal(t, []Range{{2, 3}, {9, 12}}, msg.ReservedRanges)
	assert.Equal(t, []string{"old_name", "older_name"}, msg.ReservedNames)
}

func TestReservedSaturatesAtMaxInt32(t *testing.T) {
	fd := mustParse(t, `message Sample {
		reserved 5 to 2147483647;
	}`)
	assert.Equal(t, []Range{{5, math.MaxInt32}}, fd.Messages[0].ReservedRanges)
}

func TestDefaultValueInt(t *testing.T) {
	fd := mustParse(t, `message Sample {
		optional int32 x = 1 [default = 17];
	}`)
	assert.Equal(t, "17", fd.Messages[0].Fields[0].Default)
}

func TestDefaultValueString(t *testing.T) {
	fd := mustParse(t, `message Sample {
		optional string x = 1 [default = "ab\nc d\"g\'h\0\"z"];
	}`)
	// raw text, quotes and escapes untouched
	assert.Equal(t, `"ab\nc d\"g\'h\0\"z"`, fd.Messages[0].Fields[0].Default)
}

func TestDefaultValueBytes(t *testing.T) {
	fd := mustParse(t, `message Sample {
		optional bytes x = 1 [default = "ab\nc d\xfeE\"g\'h\0\"z"];
	}`)
	assert.Equal(t, `"ab\nc d\xfeE\"g\'h\0\"z"`, fd.Messages[0].Fields[0].Default)
}

func TestFieldAttributes(t *testing.T) {
	fd := mustParse(t, `message Sample {
		repeated int32 a = 1 [packed = true, deprecated = false];
		optional int32 b = 2 [packed = true] [lazy = true];
	}`)

	a := fd.Messages[0].Fields[0]
	assert.True(t, a.Packed)
	assert.False(t, a.Deprecated)
	assert.Equal(t, []OptionElement{
		{Name: "packed", Value: "true"},
		{Name: "deprecated", Value: "false"},
	}, a.Options)

	// unrecognized keys are retained but otherwise ignored
	b := fd.Messages[0].Fields[1]
	assert.True(t, b.Packed)
	assert.Equal(t, []OptionElement{
		{Name: "packed", Value: "true"},
		{Name: "lazy", Value: "true"},
	}, b.Options)
}

func TestFieldAttributeFirstKeyWins(t *testing.T) {
	fd := mustParse(t, `message Sample {
		optional int32 x = 1 [default = 1, default = 2];
	}`)
	f := fd.Messages[0].Fields[0]
	assert.Equal(t, "1", f.Default)
	assert.Len(t, f.Options, 2)
}

func TestMalformedBoolAttribute(t *testing.T) {
	_, err := Parse([]byte(`message Sample {
		repeated int32 x = 1 [packed = yes];
	}`))
	require.Error(t, err)

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Contains(t, pe.Error(), "packed")
	assert.Equal(t, 2, pe.Line)
}

func TestGroup(t *testing.T) {
	fd := mustParse(t, `message MessageWithGroup {
		optional string aaa = 1;

		repeated group Identifier = 18 {
			optional int32 iii = 19;
			optional string sss = 20;
		}

		required int bbb = 3;
	}`)

	msg := fd.Messages[0]
	require.Len(t, msg.Fields, 3)

	assert.Equal(t, "Identifier", msg.Fields[1].Name)
	assert.Equal(t, LabelRepeated, msg.Fields[1].Label)
	group, ok := msg.Fields[1].Type.(GroupDataType)
	require.True(t, ok)
	require.Len(t, group.Fields, 2)
	assert.Equal(t, "iii", group.Fields[0].Name)

	// the field after the group's closing brace is an ordinary sibling
	assert.Equal(t, "bbb", msg.Fields[2].Name)
	assert.Equal(t, LabelRequired, msg.Fields[2].Label)
	assert.Equal(t, named("int"), msg.Fields[2].Type)
}

func TestGroupWithoutBody(t *testing.T) {
	fd := mustParse(t, `message M {
		optional group G = 5;
	}`)
	group, ok := fd.Messages[0].Fields[0].Type.(GroupDataType)
	require.True(t, ok)
	assert.Empty(t, group.Fields)
}

func TestSyntaxAndImport(t *testing.T) {
	fd := mustParse(t, `syntax = "proto3";

	import "test_import_nested_imported_pb.proto";

	message ContainsImportedNested {
		ContainerForNested.NestedMessage m = 1;
		ContainerForNested.NestedEnum e = 2;
	}
	`)

	assert.Equal(t, SyntaxProto3, fd.Syntax)
	assert.Equal(t, []string{"test_import_nested_imported_pb.proto"}, fd.Dependencies)
	require.Len(t, fd.Messages, 1)
	assert.Equal(t, named("ContainerForNested.NestedMessage"), fd.Messages[0].Fields[0].Type)
}

func TestPublicImport(t *testing.T) {
	fd := mustParse(t, `
	import "a.proto";
	import public "b.proto";
	`)
	assert.Equal(t, []string{"a.proto"}, fd.Dependencies)
	assert.Equal(t, []string{"b.proto"}, fd.PublicDependencies)
}

func TestPackage(t *testing.T) {
	fd := mustParse(t, `
	package foo.bar;

	message ContainsImportedNested {
		optional ContainerForNested.NestedMessage m = 1;
		optional ContainerForNested.NestedEnum e = 2;
	}
	`)
	assert.Equal(t, "foo.bar", fd.PackageName)
}

func TestLastSyntaxAndPackageWin(t *testing.T) {
	fd := mustParse(t, `
	syntax = "proto2";
	package one;
	syntax = "proto3";
	package two.three;
	`)
	assert.Equal(t, SyntaxProto3, fd.Syntax)
	assert.Equal(t, "two.three", fd.PackageName)
}

func TestExtend(t *testing.T) {
	fd := mustParse(t, `
	syntax = "proto2";

	extend google.protobuf.FileOptions {
		optional bool foo = 17001;
		optional string bar = 17002;
	}

	extend google.protobuf.MessageOptions {
		optional bool baz = 17003;
	}
	`)

	require.Len(t, fd.Extensions, 3)
	assert.Equal(t, "google.protobuf.FileOptions", fd.Extensions[0].Extendee)
	assert.Equal(t, "google.protobuf.FileOptions", fd.Extensions[1].Extendee)
	assert.Equal(t, "google.protobuf.MessageOptions", fd.Extensions[2].Extendee)
	assert.Equal(t, int32(17003), fd.Extensions[2].Field.Tag)
	assert.Equal(t, "bar", fd.Extensions[1].Field.Name)
}

func TestExtensionRanges(t *testing.T) {
	fd := mustParse(t, `message M {
		extensions 100 to 199, 500;
		extensions 1000 to max;
	}`)
	want := []Range{{100, 200}, {500, 501}, {1000, 536870912}}
	assert.Equal(t, want, fd.Messages[0].ExtensionRanges)
}

func TestRefCountedTypes(t *testing.T) {
	fd := mustParse(t, `message M {
		optional ref_counted_string s = 1;
		optional ref_counted_bytes b = 2;
		optional string plain = 3;
	}`)
	fields := fd.Messages[0].Fields
	assert.Equal(t, scalar(RefCountedStringScalar), fields[0].Type)
	assert.Equal(t, scalar(RefCountedBytesScalar), fields[1].Type)
	assert.Equal(t, scalar(StringScalar), fields[2].Type)
}

func TestOptionStatementsAreSkipped(t *testing.T) {
	fd := mustParse(t, `
	option optimize_for = SPEED;
	option java_package = "com.example;inner";

	message M {
		option message_set_wire_format = true;
		optional int32 a = 1;

		enum E {
			option allow_alias = true;
			A = 0;
			B = 0;
		}
	}
	`)

	msg := fd.Messages[0]
	require.Len(t, msg.Fields, 1)
	require.Len(t, msg.Enums, 1)
	assert.Len(t, msg.Enums[0].Constants, 2)
}

func TestServiceBlocksAreSkipped(t *testing.T) {
	fd := mustParse(t, `
	message Ping {}
	message Pong {}

	service PingService {
		rpc Call (Ping) returns (Pong) {
			option (google.api.http) = {
				post: "/v1/ping"
				body: "*"
			};
			option note = "unbalanced } inside a string";
		}
	}
	`)
	require.Len(t, fd.Messages, 2)
}

func TestEmptyStatements(t *testing.T) {
	fd := mustParse(t, `
	;
	message M {
		;
		optional int32 a = 1;;
	};
	`)
	require.Len(t, fd.Messages, 1)
	require.Len(t, fd.Messages[0].Fields, 1)
}

func TestEmptyInput(t *testing.T) {
	fd := mustParse(t, "")
	assert.Equal(t, FileDescriptor{}, fd)
	assert.Equal(t, SyntaxProto2, fd.Syntax)
}

func TestTrailingGarbageFails(t *testing.T) {
	_, err := Parse([]byte(`
	message Foo {}

	dfgdg
	`))
	require.Error(t, err)

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 4, pe.Line)
	assert.Contains(t, err.Error(), "dfgdg")
}

func TestFieldNumberOverflowFails(t *testing.T) {
	_, err := Parse([]byte(`message M {
		optional int32 a = 3000000000;
	}`))
	require.Error(t, err)
}

func TestEnumValueOverflowFails(t *testing.T) {
	_, err := Parse([]byte(`enum E {
		A = 0x80000000;
	}`))
	require.Error(t, err)
}

func TestUnterminatedBlockCommentFails(t *testing.T) {
	_, err := Parse([]byte(`message M {} /* no end`))
	require.Error(t, err)
}

func TestLineCommentAtEOF(t *testing.T) {
	fd := mustParse(t, "message M {} // no trailing newline")
	require.Len(t, fd.Messages, 1)
}

func TestWholeTree(t *testing.T) {
	fd := mustParse(t, `syntax = "proto3";

	package p;

	message M {
		int64 creationDate = 1;
		levelType level = 2;
		map<string, propertyEntry> properties = 3;

		enum levelType {
			DEBUG = 0;
			ERROR = 1;
		}

		message Array {
			repeated ArrayItem item = 1;
		}

		message ArrayItem {
			oneof item {
				bool bool = 1;
				double number = 2;
				string str = 3;
			}
		}
	}
	`)

	want := FileDescriptor{
		Syntax:      SyntaxProto3,
		PackageName: "p",
		Messages: []MessageElement{{
			Name: "M",
			Fields: []FieldElement{
				{Name: "creationDate", Type: scalar(Int64Scalar), Tag: 1},
				{Name: "level", Type: named("levelType"), Tag: 2},
				{
					Name: "properties",
					Type: MapDataType{KeyType: scalar(StringScalar), ValueType: named("propertyEntry")},
					Tag:  3,
				},
			},
			Enums: []EnumElement{{
				Name: "levelType",
				Constants: []EnumConstantElement{
					{Name: "DEBUG", Tag: 0},
					{Name: "ERROR", Tag: 1},
				},
			}},
			Messages: []MessageElement{
				{
					Name: "Array",
					Fields: []FieldElement{
						{Name: "item", Label: LabelRepeated, Type: named("ArrayItem"), Tag: 1},
					},
				},
				{
					Name: "ArrayItem",
					OneOfs: []OneOfElement{{
						Name: "item",
						Fields: []FieldElement{
							{Name: "bool", Type: scalar(BoolScalar), Tag: 1},
							{Name: "number", Type: scalar(DoubleScalar), Tag: 2},
							{Name: "str", Type: scalar(StringScalar), Tag: 3},
						},
					}},
				},
			},
		}},
	}

	if diff := cmp.Diff(want, fd, cmpOpts...); diff != "" {
		t.Errorf("descriptor mismatch (-want +got):\n%s", diff)
	}
}

func TestParseReader(t *testing.T) {
	fd, err := ParseReader(strings.NewReader(`package pkg;`))
	require.NoError(t, err)
	assert.Equal(t, "pkg", fd.PackageName)
}
