package stone

import (
	"fmt"
)

// Instance is a runtime value of a composite type: either a *StructInstance
// or a *UnionInstance.
type Instance interface {
	// Validate is a pure read: it reports whether the instance is complete
	// (all required struct fields set; a union tag selected).
	Validate() error

	compositeType() CompositeType
}

// StructInstance holds one slot per declared field. Each slot carries a set
// flag besides its value, so "explicitly set to null" and "never set" stay
// distinct. Instances are not safe for concurrent mutation.
type StructInstance struct {
	typ   *StructType
	slots map[string]any
	set   map[string]bool
}

// New creates an empty instance of the struct type.
func (t *StructType) New() *StructInstance {
	return &StructInstance{typ: t, slots: map[string]any{}, set: map[string]bool{}}
}

// Type reports the instance's descriptor.
func (x *StructInstance) Type() *StructType { return x.typ }

func (x *StructInstance) compositeType() CompositeType { return x.typ }

// checkFieldValue routes a value through the field's declared type before it
// may be stored: composite values must be instances of a compatible type and
// pass their own Validate; primitive/container values go through the field's
// validator. Values are never stored unvalidated.
func checkFieldValue(f *Field, v any) (any, error) {
	if v == nil {
		if !f.Nullable {
			return nil, Issues{{Path: "/" + f.Name, Code: CodeNotNullable, Message: fmt.Sprintf("field is not nullable: %q", f.Name)}}
		}
		return nil, nil
	}
	switch ft := f.Type.(type) {
	case *StructType:
		inst, ok := v.(*StructInstance)
		if !ok || !inst.typ.extendsOrIs(ft) {
			return nil, Issues{{Path: "/" + f.Name, Code: CodeInvalidType, Message: fmt.Sprintf("%q is of type %T but must be of type %s", f.Name, v, ft.TypeName())}}
		}
		if err := inst.Validate(); err != nil {
			return nil, rebaseIssues("/"+f.Name, err)
		}
		return inst, nil
	case *UnionType:
		inst, ok := v.(*UnionInstance)
		if !ok || !inst.typ.extendsOrIs(ft) {
			return nil, Issues{{Path: "/" + f.Name, Code: CodeInvalidType, Message: fmt.Sprintf("%q is of type %T but must be of type %s", f.Name, v, ft.TypeName())}}
		}
		if err := inst.Validate(); err != nil {
			return nil, rebaseIssues("/"+f.Name, err)
		}
		return inst, nil
	case Validator:
		checked, err := ft.Check(v)
		if err != nil {
			return nil, rebaseIssues("/"+f.Name, err)
		}
		return checked, nil
	default:
		return nil, Issues{{Path: "/" + f.Name, Code: CodeInvalidType, Message: fmt.Sprintf("field %q has unsupported type %T", f.Name, f.Type)}}
	}
}

// Set validates and stores a field value, marking the slot set. Re-setting a
// field overwrites the value; there is no way back to unset short of building
// a fresh instance.
func (x *StructInstance) Set(name string, v any) error {
	f, ok := x.typ.FieldByName(name)
	if !ok {
		return Issues{{Path: "/" + name, Code: CodeUnknownField, Message: fmt.Sprintf("unknown field %q on %s", name, x.typ.TypeName())}}
	}
	checked, err := checkFieldValue(f, v)
	if err != nil {
		return err
	}
	x.slots[name] = checked
	x.set[name] = true
	return nil
}

// Get reads a field. Reading an unset required field is an error; an unset
// optional field yields its default, or nil when it has none.
func (x *StructInstance) Get(name string) (any, error) {
	f, ok := x.typ.FieldByName(name)
	if !ok {
		return nil, Issues{{Path: "/" + name, Code: CodeUnknownField, Message: fmt.Sprintf("unknown field %q on %s", name, x.typ.TypeName())}}
	}
	if x.set[name] {
		return x.slots[name], nil
	}
	if f.Optional {
		if f.HasDefault {
			return f.Default, nil
		}
		return nil, nil
	}
	return nil, Issues{{Path: "/" + name, Code: CodeRequired, Message: fmt.Sprintf("missing required field %q", name)}}
}

// IsSet reports whether the field has been explicitly set.
func (x *StructInstance) IsSet(name string) bool { return x.set[name] }

// Validate succeeds iff every required field's slot is set.
func (x *StructInstance) Validate() error {
	var iss Issues
	for _, f := range x.typ.AllFields() {
		if !f.Optional && !x.set[f.Name] {
			iss = AppendIssues(iss, Issue{Path: "/" + f.Name, Code: CodeRequired, Message: fmt.Sprintf("missing required field %q", f.Name)})
		}
	}
	if len(iss) > 0 {
		return iss
	}
	return nil
}
