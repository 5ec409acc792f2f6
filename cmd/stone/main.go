package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	stone "github.com/adrian2x/stone"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "validate":
		validateCmd(os.Args[2:])
	case "example":
		exampleCmd(os.Args[2:])
	case "types":
		typesCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `stone CLI

Usage:
  stone validate -schema schema.yaml -type TypeName [-in value.json]
  stone example  -schema schema.yaml -type TypeName [-label default]
  stone types    -schema schema.yaml

validate reads a wire JSON value (stdin by default) and decodes it against
the named composite type, printing one line per issue.`)
}

func loadRegistry(path string) *stone.Registry {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "stone: %v\n", err)
		os.Exit(2)
	}
	var reg *stone.Registry
	if strings.HasSuffix(path, ".json") {
		reg, err = stone.LoadJSON(data)
	} else {
		reg, err = stone.LoadYAML(data)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}
	return reg
}

func lookupType(reg *stone.Registry, name string) stone.CompositeType {
	t, ok := reg.Lookup(name)
	if !ok {
		fmt.Fprintf(os.Stderr, "stone: unknown type %q\n", name)
		os.Exit(2)
	}
	return t
}

func validateCmd(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	var schema, typeName, in string
	fs.StringVar(&schema, "schema", "", "schema descriptor file (.yaml or .json)")
	fs.StringVar(&typeName, "type", "", "composite type to decode against")
	fs.StringVar(&in, "in", "", "wire JSON value file (defaults to stdin)")
	_ = fs.Parse(args)
	if schema == "" || typeName == "" {
		fs.Usage()
		os.Exit(2)
	}

	reg := loadRegistry(schema)
	t := lookupType(reg, typeName)

	var data []byte
	var err error
	if in == "" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(in)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "stone: %v\n", err)
		os.Exit(2)
	}

	if _, err := stone.DecodeJSON(t, data); err != nil {
		if iss, ok := stone.AsIssues(err); ok {
			for _, it := range iss {
				fmt.Fprintf(os.Stderr, "%s at %s: %s\n", it.Code, it.Path, it.Message)
			}
		} else {
			fmt.Fprintf(os.Stderr, "%v\n", err)
		}
		os.Exit(1)
	}
	fmt.Printf("valid %s\n", typeName)
}

func exampleCmd(args []string) {
	fs := flag.NewFlagSet("example", flag.ExitOnError)
	var schema, typeName, label string
	fs.StringVar(&schema, "schema", "", "schema descriptor file (.yaml or .json)")
	fs.StringVar(&typeName, "type", "", "composite type to show an example for")
	fs.StringVar(&label, "label", "default", "example label")
	_ = fs.Parse(args)
	if schema == "" || typeName == "" {
		fs.Usage()
		os.Exit(2)
	}

	reg := loadRegistry(schema)
	t := lookupType(reg, typeName)

	ex, ok := t.GetExample(label)
	if !ok {
		fmt.Fprintf(os.Stderr, "stone: type %q has no example %q\n", typeName, label)
		os.Exit(1)
	}
	b, err := stone.MarshalWire(ex)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(b))
}

func typesCmd(args []string) {
	fs := flag.NewFlagSet("types", flag.ExitOnError)
	var schema string
	fs.StringVar(&schema, "schema", "", "schema descriptor file (.yaml or .json)")
	_ = fs.Parse(args)
	if schema == "" {
		fs.Usage()
		os.Exit(2)
	}

	reg := loadRegistry(schema)
	names := make([]string, 0)
	for _, t := range reg.Types() {
		names = append(names, t.TypeName())
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Println(n)
	}
}
