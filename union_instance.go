package stone

import (
	"fmt"
)

// UnionInstance holds at most one active variant. A freshly constructed
// instance has no tag and is invalid; selecting a tag always replaces the
// previous one. Instances are not safe for concurrent mutation.
type UnionInstance struct {
	typ     *UnionType
	tag     string
	payload any
}

// New creates an instance of the union type with no tag selected.
func (t *UnionType) New() *UnionInstance {
	return &UnionInstance{typ: t}
}

// Type reports the instance's descriptor.
func (x *UnionInstance) Type() *UnionType { return x.typ }

func (x *UnionInstance) compositeType() CompositeType { return x.typ }

// Tag reports the active tag name, or false when none is selected.
func (x *UnionInstance) Tag() (string, bool) {
	if x.tag == "" {
		return "", false
	}
	return x.tag, true
}

// Is reports whether the named tag is currently active.
func (x *UnionInstance) Is(name string) bool { return x.tag != "" && x.tag == name }

// SetSymbol activates a tag-only variant, discarding any previous selection.
func (x *UnionInstance) SetSymbol(name string) error {
	variant, ok := x.typ.VariantByName(name)
	if !ok {
		return Issues{{Path: "/" + name, Code: CodeUnknownField, Message: fmt.Sprintf("unknown union tag %q on %s", name, x.typ.TypeName())}}
	}
	if _, sym := variant.(*SymbolField); !sym {
		return Issues{{Path: "/" + name, Code: CodeInvalidType, Message: fmt.Sprintf("union tag %q requires a payload", name)}}
	}
	x.tag = name
	x.payload = nil
	return nil
}

// SetPayload validates and activates a payload variant, discarding any
// previous selection. The value must be a valid instance of the variant's
// declared composite type.
func (x *UnionInstance) SetPayload(name string, v any) error {
	variant, ok := x.typ.VariantByName(name)
	if !ok {
		return Issues{{Path: "/" + name, Code: CodeUnknownField, Message: fmt.Sprintf("unknown union tag %q on %s", name, x.typ.TypeName())}}
	}
	f, ok := variant.(*Field)
	if !ok {
		return Issues{{Path: "/" + name, Code: CodeInvalidType, Message: fmt.Sprintf("symbol tag %q takes no payload", name)}}
	}
	checked, err := checkFieldValue(f, v)
	if err != nil {
		return err
	}
	x.tag = name
	x.payload = checked
	return nil
}

// Payload reads the named tag's payload. Reading a payload whose tag is not
// currently active is an error.
func (x *UnionInstance) Payload(name string) (any, error) {
	if !x.Is(name) {
		return nil, Issues{{Path: "/" + name, Code: CodeTagNotSet, Message: fmt.Sprintf("tag %q not set", name)}}
	}
	return x.payload, nil
}

// Validate succeeds iff a tag is selected.
func (x *UnionInstance) Validate() error {
	if x.tag == "" {
		return Issues{{Path: "/", Code: CodeTagNotSet, Message: fmt.Sprintf("no tag selected for %s", x.typ.TypeName())}}
	}
	return nil
}
