/*
Package pbdesc parses a single protocol buffer (".proto") file into an
in-memory descriptor tree.

The tree captures everything a code generator needs from one file: the
syntax level, the package name, import paths, messages with their nested
messages, enums, oneofs, maps, groups and reserved declarations,
top-level enums, and extend declarations. Option statements and service
blocks are recognized only enough to be skipped; their content is
discarded.

API

Clients should invoke one of the following :-

	func Parse(data []byte) (FileDescriptor, error)

The Parse() function expects the complete content of one protobuf file.
It returns the parsed FileDescriptor and a non-nil error if the input
does not match the grammar. There is no partial result: either the whole
file parses or the call fails, with the error carrying the line and
column at which matching stopped.

	func ParseReader(r io.Reader) (FileDescriptor, error)

The ParseReader() function is a utility which reads everything from the
given reader and parses it. The library itself never touches the file
system; loading files, walking the import graph and driving the parser
per file are the client's concern.

FileDescriptor datastructure

This datastructure represents the parsed model of the given protobuf
file :-

	type FileDescriptor struct {
		Syntax             Syntax               // proto2 or proto3
		PackageName        string               // name of the package
		Dependencies       []string             // paths of any imports
		PublicDependencies []string             // paths of any public imports
		Messages           []MessageElement     // any defined messages
		Enums              []EnumElement        // any defined enums
		Extensions         []ExtensionElement   // one entry per extend-block field
	}

Each attribute in turn has a defined structure, which is explained in
the godoc of the corresponding elements.

Type references are not resolved: a field whose type names another
message or enum carries the literal name, dotted qualification included,
as a NamedDataType. Matching those names against this file and its
imports, checking field-number uniqueness and reserved-range conflicts,
and generating bindings are all downstream concerns.

Design Considerations

This library consciously chooses to log no information on its own. Any
failure is communicated back to client code via the returned error.

Parsing is a pure function over the input bytes: no global state, no
I/O, no configuration. Independent files may be parsed concurrently
without coordination.
*/
package pbdesc
