package stone

import (
	"fmt"
)

// Field declares one named slot of a composite type. For unions a Field is a
// payload-carrying variant; tag-only variants are SymbolFields.
type Field struct {
	Name     string
	Type     DataType
	Doc      string
	Optional bool
	Nullable bool
	// Default is returned when reading an unset optional field. HasDefault
	// distinguishes "no default" from a nil default on a nullable field.
	Default    any
	HasDefault bool
}

// VariantName implements UnionVariant.
func (f *Field) VariantName() string { return f.Name }

// VariantDoc implements UnionVariant.
func (f *Field) VariantDoc() string { return f.Doc }

// SymbolField is a union variant with no payload, identified only by its tag
// name.
type SymbolField struct {
	Name string
	Doc  string
}

// VariantName implements UnionVariant.
func (f *SymbolField) VariantName() string { return f.Name }

// VariantDoc implements UnionVariant.
func (f *SymbolField) VariantDoc() string { return f.Doc }

// UnionVariant is either a *Field (payload variant) or a *SymbolField.
type UnionVariant interface {
	VariantName() string
	VariantDoc() string
}

// CompositeType is a struct or union type descriptor. Descriptors are built
// once when the schema loads and are immutable afterwards.
type CompositeType interface {
	DataType
	Doc() string
	// HasExample reports whether an example resolves under the label.
	HasExample(label string) bool
	// GetExample returns the example stored (or, for unions, derived) under
	// the label, with composite-typed fields recursively expanded.
	GetExample(label string) (any, bool)

	soleExample() (any, bool)
}

// ---- Struct ----

// StructType describes a fixed set of named, independently present fields. A
// struct may extend a parent; the parent's fields come first in AllFields and
// may not be redefined.
type StructType struct {
	name     string
	doc      string
	super    *StructType
	fields   []*Field
	examples map[string]map[string]any
}

// NewStruct builds a struct descriptor. Field names must be unique across the
// full (inherited plus own) field set.
func NewStruct(name, doc string, fields []*Field, super *StructType) (*StructType, error) {
	t := &StructType{name: name, doc: doc, super: super, fields: fields, examples: map[string]map[string]any{}}
	seen := map[string]bool{}
	if super != nil {
		for _, f := range super.AllFields() {
			seen[f.Name] = true
		}
	}
	for _, f := range fields {
		if f.Type == nil {
			return nil, fmt.Errorf("stone: struct %q field %q has no type", name, f.Name)
		}
		if seen[f.Name] {
			return nil, fmt.Errorf("stone: struct %q redefines field %q", name, f.Name)
		}
		seen[f.Name] = true
	}
	return t, nil
}

// MustStruct is NewStruct that panics on error, for schemas declared in code.
func MustStruct(name, doc string, fields []*Field, super *StructType) *StructType {
	t, err := NewStruct(name, doc, fields, super)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *StructType) TypeName() string { return t.name }

// Doc reports the type's documentation string.
func (t *StructType) Doc() string { return t.doc }

// Super reports the parent descriptor, or nil.
func (t *StructType) Super() *StructType { return t.super }

// Fields reports the type's own fields in declaration order.
func (t *StructType) Fields() []*Field { return t.fields }

// AllFields reports inherited fields followed by own fields.
func (t *StructType) AllFields() []*Field {
	if t.super == nil {
		return t.fields
	}
	parent := t.super.AllFields()
	out := make([]*Field, 0, len(parent)+len(t.fields))
	out = append(out, parent...)
	out = append(out, t.fields...)
	return out
}

// FieldByName resolves a field across the full field set.
func (t *StructType) FieldByName(name string) (*Field, bool) {
	for _, f := range t.AllFields() {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// extendsOrIs reports whether t is parent or a descendant of parent.
func (t *StructType) extendsOrIs(parent *StructType) bool {
	for cur := t; cur != nil; cur = cur.super {
		if cur == parent {
			return true
		}
	}
	return false
}

// AddExample validates and stores an example value set under the label. The
// example must only name declared fields, and may assign null only to
// nullable fields. Accepted examples are stored verbatim.
func (t *StructType) AddExample(label string, ex map[string]any) error {
	var iss Issues
	for k, v := range ex {
		f, ok := t.FieldByName(k)
		if !ok {
			iss = AppendIssues(iss, Issue{Path: "/" + k, Code: CodeUnknownField, Message: fmt.Sprintf("example %q for %q has invalid fields: %q", label, t.name, k)})
			continue
		}
		if v == nil && !f.Nullable {
			iss = AppendIssues(iss, Issue{Path: "/" + k, Code: CodeNotNullable, Message: fmt.Sprintf("field is not nullable: %q", k)})
		}
	}
	if len(iss) > 0 {
		return iss
	}
	t.examples[label] = ex
	return nil
}

// HasExample reports whether an example is stored under the label.
func (t *StructType) HasExample(label string) bool {
	_, ok := t.examples[label]
	return ok
}

// GetExample returns a copy of the stored example with composite-typed fields
// expanded into their own example dicts. A nested type's example is chosen by
// the same label, falling back to its sole example when it has exactly one;
// otherwise the field stays absent. An explicit entry in the stored example
// always wins over expansion.
func (t *StructType) GetExample(label string) (any, bool) {
	ex, ok := t.examples[label]
	if !ok {
		return nil, false
	}
	out := make(map[string]any, len(ex))
	for k, v := range ex {
		out[k] = v
	}
	for _, f := range t.AllFields() {
		ct, isComposite := f.Type.(CompositeType)
		if !isComposite {
			continue
		}
		if _, explicit := out[f.Name]; explicit {
			continue
		}
		if nested, ok := nestedExample(ct, label); ok {
			out[f.Name] = nested
		}
	}
	return out, true
}

func (t *StructType) soleExample() (any, bool) {
	if len(t.examples) != 1 {
		return nil, false
	}
	for label := range t.examples {
		return t.GetExample(label)
	}
	return nil, false
}

// nestedExample resolves a nested type's example for expansion: same label
// first, then the type's sole example.
func nestedExample(ct CompositeType, label string) (any, bool) {
	if ct.HasExample(label) {
		return ct.GetExample(label)
	}
	return ct.soleExample()
}

// ---- Union ----

// UnionType describes a tagged union: exactly one active variant from a fixed
// set. Variants are either tag-only symbols or carry a composite payload.
type UnionType struct {
	name     string
	doc      string
	super    *UnionType
	variants []UnionVariant
	examples map[string]any
}

// NewUnion builds a union descriptor. Payload variants must carry composite
// types; variant names must be unique across the full variant set.
func NewUnion(name, doc string, variants []UnionVariant, super *UnionType) (*UnionType, error) {
	t := &UnionType{name: name, doc: doc, super: super, variants: variants, examples: map[string]any{}}
	seen := map[string]bool{}
	if super != nil {
		for _, v := range super.AllVariants() {
			seen[v.VariantName()] = true
		}
	}
	for _, v := range variants {
		if f, ok := v.(*Field); ok {
			if _, composite := f.Type.(CompositeType); !composite {
				return nil, fmt.Errorf("stone: union %q variant %q: only symbols and composite types may be union fields", name, f.Name)
			}
		}
		if seen[v.VariantName()] {
			return nil, fmt.Errorf("stone: union %q redefines variant %q", name, v.VariantName())
		}
		seen[v.VariantName()] = true
	}
	return t, nil
}

// MustUnion is NewUnion that panics on error, for schemas declared in code.
func MustUnion(name, doc string, variants []UnionVariant, super *UnionType) *UnionType {
	t, err := NewUnion(name, doc, variants, super)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *UnionType) TypeName() string { return t.name }

// Doc reports the type's documentation string.
func (t *UnionType) Doc() string { return t.doc }

// Super reports the parent descriptor, or nil.
func (t *UnionType) Super() *UnionType { return t.super }

// Variants reports the type's own variants in declaration order.
func (t *UnionType) Variants() []UnionVariant { return t.variants }

// AllVariants reports inherited variants followed by own variants.
func (t *UnionType) AllVariants() []UnionVariant {
	if t.super == nil {
		return t.variants
	}
	parent := t.super.AllVariants()
	out := make([]UnionVariant, 0, len(parent)+len(t.variants))
	out = append(out, parent...)
	out = append(out, t.variants...)
	return out
}

// VariantByName resolves a variant across the full variant set.
func (t *UnionType) VariantByName(name string) (UnionVariant, bool) {
	for _, v := range t.AllVariants() {
		if v.VariantName() == name {
			return v, true
		}
	}
	return nil, false
}

func (t *UnionType) extendsOrIs(parent *UnionType) bool {
	for cur := t; cur != nil; cur = cur.super {
		if cur == parent {
			return true
		}
	}
	return false
}

// AddExample validates and stores a union example: either a bare symbol name
// or a single-key dict selecting a payload variant.
func (t *UnionType) AddExample(label string, ex any) error {
	switch v := ex.(type) {
	case string:
		variant, ok := t.VariantByName(v)
		if !ok {
			return Issues{{Path: "/", Code: CodeUnknownField, Message: fmt.Sprintf("example %q for %q has invalid fields: %q", label, t.name, v)}}
		}
		if _, sym := variant.(*SymbolField); !sym {
			return Issues{{Path: "/", Code: CodeInvalidType, Message: fmt.Sprintf("union tag %q requires a payload", v)}}
		}
	case map[string]any:
		if len(v) != 1 {
			return Issues{{Path: "/", Code: CodeUnionAmbiguous, Message: fmt.Sprintf("union example can only have one key set, not %d", len(v))}}
		}
		for k := range v {
			variant, ok := t.VariantByName(k)
			if !ok {
				return Issues{{Path: "/" + k, Code: CodeUnknownField, Message: fmt.Sprintf("example %q for %q has invalid fields: %q", label, t.name, k)}}
			}
			if _, sym := variant.(*SymbolField); sym {
				return Issues{{Path: "/" + k, Code: CodeInvalidType, Message: fmt.Sprintf("symbol tag %q takes no payload", k)}}
			}
		}
	default:
		return Issues{{Path: "/", Code: CodeInvalidType, Message: fmt.Sprintf("'%v' is not a valid union example", ex)}}
	}
	t.examples[label] = ex
	return nil
}

// HasExample reports whether an example resolves under the label: stored
// examples, symbol variant names, and labels resolvable through a payload
// variant's type all count.
func (t *UnionType) HasExample(label string) bool {
	if _, ok := t.examples[label]; ok {
		return true
	}
	_, ok := t.derivedExample(label)
	return ok
}

// GetExample returns either a bare symbol name or a single-key dict
// {variant_name: nested_example}. Stored examples win; otherwise symbol
// variants answer to their own name and payload variants to any label their
// type can resolve, in declaration order.
func (t *UnionType) GetExample(label string) (any, bool) {
	if ex, ok := t.examples[label]; ok {
		return ex, true
	}
	return t.derivedExample(label)
}

func (t *UnionType) derivedExample(label string) (any, bool) {
	for _, v := range t.AllVariants() {
		switch f := v.(type) {
		case *SymbolField:
			if f.Name == label {
				return f.Name, true
			}
		case *Field:
			ct := f.Type.(CompositeType)
			if ct.HasExample(label) {
				if nested, ok := ct.GetExample(label); ok {
					return map[string]any{f.Name: nested}, true
				}
			}
		}
	}
	return nil, false
}

// soleExample for a union resolves only when exactly one example is stored;
// derived examples are never unambiguous enough to act as a fallback.
func (t *UnionType) soleExample() (any, bool) {
	if len(t.examples) != 1 {
		return nil, false
	}
	for _, ex := range t.examples {
		return ex, true
	}
	return nil, false
}
