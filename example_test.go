package pbdesc_test

import (
	"fmt"
	"log"

	"github.com/aristanetworks/pbdesc"
)

func ExampleParse() {
	src := `
syntax = "proto3";

package tutorial;

message Person {
	string name = 1;
	int32 id = 2;
	repeated string email = 3;
}
`
	fd, err := pbdesc.Parse([]byte(src))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("syntax: %v\n", fd.Syntax)
	fmt.Printf("package: %v\n", fd.PackageName)
	for _, m := range fd.Messages {
		fmt.Printf("message %v\n", m.Name)
		for _, f := range m.Fields {
			fmt.Printf("  %v %v = %v\n", f.Type.Name(), f.Name, f.Tag)
		}
	}

	// Output:
	// syntax: proto3
	// package: tutorial
	// message Person
	//   string name = 1
	//   int32 id = 2
	//   string email = 3
}
