package stone

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	j "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Schema-descriptor documents. These are plain data files (YAML or JSON)
// describing composite types structurally; they are not an IDL.
//
//	types:
//	  - name: QuotaInfo
//	    kind: struct
//	    doc: Information about a user's space quota.
//	    fields:
//	      - name: quota
//	        type: { kind: uint64 }
//	    examples:
//	      default: { quota: 64000 }
type schemaDoc struct {
	Types []typeDecl `yaml:"types" json:"types"`
}

type typeDecl struct {
	Name     string         `yaml:"name" json:"name"`
	Kind     string         `yaml:"kind" json:"kind"` // "struct" or "union"
	Doc      string         `yaml:"doc" json:"doc"`
	Extends  string         `yaml:"extends" json:"extends"`
	Fields   []fieldDecl    `yaml:"fields" json:"fields"`
	Examples map[string]any `yaml:"examples" json:"examples"`
}

type fieldDecl struct {
	Name     string    `yaml:"name" json:"name"`
	Symbol   string    `yaml:"symbol" json:"symbol"` // union tag-only variant
	Doc      string    `yaml:"doc" json:"doc"`
	Optional bool      `yaml:"optional" json:"optional"`
	Nullable bool      `yaml:"nullable" json:"nullable"`
	Default  *any      `yaml:"default" json:"default"`
	Type     *typeExpr `yaml:"type" json:"type"`
}

type typeExpr struct {
	Kind      string    `yaml:"kind" json:"kind"` // primitive kind, "list", or empty with ref
	Ref       string    `yaml:"ref" json:"ref"`   // composite type reference
	MinValue  *int64    `yaml:"min_value" json:"min_value"`
	MaxValue  *int64    `yaml:"max_value" json:"max_value"`
	MinLength *int      `yaml:"min_length" json:"min_length"`
	MaxLength *int      `yaml:"max_length" json:"max_length"`
	Pattern   string    `yaml:"pattern" json:"pattern"`
	Format    string    `yaml:"format" json:"format"` // timestamp strptime format
	MinItems  *int      `yaml:"min_items" json:"min_items"`
	MaxItems  *int      `yaml:"max_items" json:"max_items"`
	Items     *typeExpr `yaml:"items" json:"items"`
}

// LoadYAML reads one or more YAML schema documents and builds a frozen
// registry. Types may reference each other in any order.
func LoadYAML(data []byte) (*Registry, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var decls []typeDecl
	for {
		var doc schemaDoc
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("stone: invalid schema document: %w", err)
		}
		decls = append(decls, doc.Types...)
	}
	return buildRegistry(decls)
}

// LoadJSON reads a single JSON schema document and builds a frozen registry.
func LoadJSON(data []byte) (*Registry, error) {
	var doc schemaDoc
	if err := j.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("stone: invalid schema document: %w", err)
	}
	return buildRegistry(doc.Types)
}

type loader struct {
	decls    map[string]*typeDecl
	order    []string
	built    map[string]CompositeType
	building map[string]bool
}

func buildRegistry(decls []typeDecl) (*Registry, error) {
	l := &loader{
		decls:    make(map[string]*typeDecl, len(decls)),
		built:    map[string]CompositeType{},
		building: map[string]bool{},
	}
	for i := range decls {
		d := &decls[i]
		if d.Name == "" {
			return nil, fmt.Errorf("stone: schema declares a type with no name")
		}
		if _, dup := l.decls[d.Name]; dup {
			return nil, fmt.Errorf("stone: type %q declared twice", d.Name)
		}
		l.decls[d.Name] = d
		l.order = append(l.order, d.Name)
	}
	reg := NewRegistry()
	for _, name := range l.order {
		t, err := l.resolve(name)
		if err != nil {
			return nil, err
		}
		if err := reg.Register(t); err != nil {
			return nil, err
		}
	}
	reg.Freeze()
	return reg, nil
}

func (l *loader) resolve(name string) (CompositeType, error) {
	if t, ok := l.built[name]; ok {
		return t, nil
	}
	d, ok := l.decls[name]
	if !ok {
		return nil, fmt.Errorf("stone: unknown type reference %q", name)
	}
	if l.building[name] {
		return nil, fmt.Errorf("stone: recursive type reference through %q", name)
	}
	l.building[name] = true
	defer delete(l.building, name)

	var t CompositeType
	var err error
	switch d.Kind {
	case "struct", "":
		t, err = l.buildStruct(d)
	case "union":
		t, err = l.buildUnion(d)
	default:
		return nil, fmt.Errorf("stone: type %q has unknown kind %q", d.Name, d.Kind)
	}
	if err != nil {
		return nil, err
	}
	l.built[name] = t
	return t, nil
}

func (l *loader) buildStruct(d *typeDecl) (CompositeType, error) {
	var super *StructType
	if d.Extends != "" {
		parent, err := l.resolve(d.Extends)
		if err != nil {
			return nil, err
		}
		st, ok := parent.(*StructType)
		if !ok {
			return nil, fmt.Errorf("stone: struct %q cannot extend union %q", d.Name, d.Extends)
		}
		super = st
	}
	fields := make([]*Field, 0, len(d.Fields))
	for i := range d.Fields {
		fd := &d.Fields[i]
		if fd.Symbol != "" {
			return nil, fmt.Errorf("stone: struct %q cannot declare symbol variant %q", d.Name, fd.Symbol)
		}
		f, err := l.buildField(d.Name, fd)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	t, err := NewStruct(d.Name, d.Doc, fields, super)
	if err != nil {
		return nil, err
	}
	for label, ex := range d.Examples {
		m, ok := ex.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("stone: example %q for struct %q must be a mapping", label, d.Name)
		}
		if err := t.AddExample(label, m); err != nil {
			return nil, fmt.Errorf("stone: example %q for struct %q: %w", label, d.Name, err)
		}
	}
	return t, nil
}

func (l *loader) buildUnion(d *typeDecl) (CompositeType, error) {
	var super *UnionType
	if d.Extends != "" {
		parent, err := l.resolve(d.Extends)
		if err != nil {
			return nil, err
		}
		ut, ok := parent.(*UnionType)
		if !ok {
			return nil, fmt.Errorf("stone: union %q cannot extend struct %q", d.Name, d.Extends)
		}
		super = ut
	}
	variants := make([]UnionVariant, 0, len(d.Fields))
	for i := range d.Fields {
		fd := &d.Fields[i]
		if fd.Symbol != "" {
			variants = append(variants, &SymbolField{Name: fd.Symbol, Doc: fd.Doc})
			continue
		}
		f, err := l.buildField(d.Name, fd)
		if err != nil {
			return nil, err
		}
		variants = append(variants, f)
	}
	t, err := NewUnion(d.Name, d.Doc, variants, super)
	if err != nil {
		return nil, err
	}
	for label, ex := range d.Examples {
		if err := t.AddExample(label, ex); err != nil {
			return nil, fmt.Errorf("stone: example %q for union %q: %w", label, d.Name, err)
		}
	}
	return t, nil
}

func (l *loader) buildField(typeName string, fd *fieldDecl) (*Field, error) {
	if fd.Name == "" {
		return nil, fmt.Errorf("stone: type %q declares a field with no name", typeName)
	}
	if fd.Type == nil {
		return nil, fmt.Errorf("stone: field %q of %q has no type", fd.Name, typeName)
	}
	dt, err := l.buildDataType(typeName, fd.Name, fd.Type)
	if err != nil {
		return nil, err
	}
	f := &Field{
		Name:     fd.Name,
		Type:     dt,
		Doc:      fd.Doc,
		Optional: fd.Optional,
		Nullable: fd.Nullable,
	}
	if fd.Default != nil {
		f.Default = *fd.Default
		f.HasDefault = true
	}
	return f, nil
}

func (l *loader) buildDataType(typeName, fieldName string, e *typeExpr) (DataType, error) {
	if e.Ref != "" {
		return l.resolve(e.Ref)
	}
	switch e.Kind {
	case "boolean":
		return Boolean(), nil
	case "int32":
		return intBounds(Int32(), e, func(v int64) (int32, bool) { return int32(v), v >= -1<<31 && v <= 1<<31-1 })
	case "int64":
		return intBounds(Int64(), e, func(v int64) (int64, bool) { return v, true })
	case "uint32":
		return intBounds(UInt32(), e, func(v int64) (uint32, bool) { return uint32(v), v >= 0 && v <= 1<<32-1 })
	case "uint64":
		return intBounds(UInt64(), e, func(v int64) (uint64, bool) { return uint64(v), v >= 0 })
	case "float32":
		return Float32(), nil
	case "float64":
		return Float64(), nil
	case "string":
		s := String()
		if e.MinLength != nil {
			s = s.MinLength(*e.MinLength)
		}
		if e.MaxLength != nil {
			s = s.MaxLength(*e.MaxLength)
		}
		if e.Pattern != "" {
			s = s.Pattern(e.Pattern)
		}
		return s, nil
	case "binary":
		return Binary(), nil
	case "null":
		return Null(), nil
	case "timestamp":
		if e.Format == "" {
			return nil, fmt.Errorf("stone: timestamp field %q of %q requires a format", fieldName, typeName)
		}
		return Timestamp(e.Format), nil
	case "list":
		if e.Items == nil {
			return nil, fmt.Errorf("stone: list field %q of %q requires items", fieldName, typeName)
		}
		elem, err := l.buildDataType(typeName, fieldName, e.Items)
		if err != nil {
			return nil, err
		}
		validator, ok := elem.(Validator)
		if !ok {
			return nil, fmt.Errorf("stone: list field %q of %q must have a primitive element type", fieldName, typeName)
		}
		lt := List(validator)
		if e.MinItems != nil {
			lt = lt.MinItems(*e.MinItems)
		}
		if e.MaxItems != nil {
			lt = lt.MaxItems(*e.MaxItems)
		}
		return lt, nil
	case "":
		return nil, fmt.Errorf("stone: field %q of %q has an empty type", fieldName, typeName)
	default:
		return nil, fmt.Errorf("stone: field %q of %q has unknown type kind %q", fieldName, typeName, e.Kind)
	}
}

// intBounds applies optional min/max constraints from a descriptor onto an
// integer validator, rejecting bounds outside the kind's natural range.
func intBounds[T integerValue](t *Integer[T], e *typeExpr, conv func(int64) (T, bool)) (Validator, error) {
	if e.MinValue != nil {
		v, ok := conv(*e.MinValue)
		if !ok {
			return nil, fmt.Errorf("stone: min_value %d does not fit %s", *e.MinValue, t.TypeName())
		}
		t = t.Min(v)
	}
	if e.MaxValue != nil {
		v, ok := conv(*e.MaxValue)
		if !ok {
			return nil, fmt.Errorf("stone: max_value %d does not fit %s", *e.MaxValue, t.TypeName())
		}
		t = t.Max(v)
	}
	return t, nil
}
