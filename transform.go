package stone

import (
	"encoding/base64"
	"fmt"
	"sort"

	"github.com/adrian2x/stone/i18n"
)

// Decode converts a wire (JSON-compatible) value into an instance of the
// composite type, validating every field against its declared type. On error
// the partially built instance is discarded; decode is all-or-nothing from
// the caller's point of view.
func Decode(t CompositeType, wire any) (Instance, error) {
	switch ct := t.(type) {
	case *StructType:
		return DecodeStruct(ct, wire)
	case *UnionType:
		return DecodeUnion(ct, wire)
	default:
		return nil, Issues{{Path: "/", Code: CodeInvalidType, Message: fmt.Sprintf("cannot decode into %T", t)}}
	}
}

// DecodeStruct decodes a wire object into a struct instance. Unknown keys are
// a hard error; required fields must be present; optional fields absent from
// the wire object are left unset.
func DecodeStruct(t *StructType, wire any) (*StructInstance, error) {
	obj, ok := wire.(map[string]any)
	if !ok {
		return nil, Issues{{Path: "/", Code: CodeInvalidType, Message: fmt.Sprintf("expected object for %s, got %T", t.TypeName(), wire)}}
	}
	var iss Issues

	// Unknown keys first, in sorted order for deterministic issue output.
	var unknown []string
	for k := range obj {
		if _, known := t.FieldByName(k); !known {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	for _, k := range unknown {
		iss = AppendIssues(iss, Issue{Path: "/" + k, Code: CodeUnknownField, Message: i18n.T(CodeUnknownField, nil), Params: map[string]any{"field": k, "type": t.TypeName()}})
	}

	x := t.New()
	for _, f := range t.AllFields() {
		val, present := obj[f.Name]
		if !present {
			if !f.Optional {
				iss = AppendIssues(iss, Issue{Path: "/" + f.Name, Code: CodeRequired, Message: i18n.T(CodeRequired, nil), Params: map[string]any{"field": f.Name}})
			}
			continue
		}
		if err := decodeField(x, f, val); err != nil {
			iss = AppendIssues(iss, rebaseIssues("", err)...)
		}
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return x, nil
}

// decodeField assigns one present wire value through the instance setter,
// recursing first for composite fields.
func decodeField(x *StructInstance, f *Field, val any) error {
	if ct, composite := f.Type.(CompositeType); composite && val != nil {
		nested, err := Decode(ct, val)
		if err != nil {
			return rebaseIssues("/"+f.Name, err)
		}
		return x.Set(f.Name, nested)
	}
	return x.Set(f.Name, val)
}

// DecodeUnion decodes a wire value into a union instance. The wire form is
// either a bare string naming a symbol variant or a single-key object naming
// a payload variant.
func DecodeUnion(t *UnionType, wire any) (*UnionInstance, error) {
	x := t.New()
	switch w := wire.(type) {
	case string:
		variant, ok := t.VariantByName(w)
		if !ok {
			return nil, Issues{{Path: "/", Code: CodeUnknownField, Message: fmt.Sprintf("unknown union tag %q on %s", w, t.TypeName())}}
		}
		if _, sym := variant.(*SymbolField); !sym {
			return nil, Issues{{Path: "/", Code: CodeInvalidType, Message: fmt.Sprintf("union tag %q requires a payload", w)}}
		}
		if err := x.SetSymbol(w); err != nil {
			return nil, err
		}
		return x, nil
	case map[string]any:
		if len(w) != 1 {
			return nil, Issues{{Path: "/", Code: CodeUnionAmbiguous, Message: fmt.Sprintf("union can only have one key set, not %d", len(w)), Params: map[string]any{"keys": len(w)}}}
		}
		for k, val := range w {
			variant, ok := t.VariantByName(k)
			if !ok {
				return nil, Issues{{Path: "/" + k, Code: CodeUnknownField, Message: fmt.Sprintf("unknown union tag %q on %s", k, t.TypeName())}}
			}
			f, payload := variant.(*Field)
			if !payload {
				return nil, Issues{{Path: "/" + k, Code: CodeInvalidType, Message: fmt.Sprintf("symbol tag %q takes no payload", k)}}
			}
			nested, err := Decode(f.Type.(CompositeType), val)
			if err != nil {
				return nil, rebaseIssues("/"+k, err)
			}
			if err := x.SetPayload(k, nested); err != nil {
				return nil, err
			}
		}
		return x, nil
	default:
		return nil, Issues{{Path: "/", Code: CodeInvalidType, Message: fmt.Sprintf("expected object or string for %s, got %T", t.TypeName(), wire)}}
	}
}

// Encode converts an instance back to its wire form, re-validating every
// primitive/container slot on the way out. Re-validation guards against
// mutation after construction that bypassed a setter.
func Encode(x Instance) (any, error) {
	switch inst := x.(type) {
	case *StructInstance:
		return EncodeStruct(inst)
	case *UnionInstance:
		return EncodeUnion(inst)
	default:
		return nil, Issues{{Path: "/", Code: CodeInvalidType, Message: fmt.Sprintf("cannot encode %T", x)}}
	}
}

// EncodeStruct emits required fields always and optional fields only when
// set; unset optional fields are omitted entirely, never emitted as null.
func EncodeStruct(x *StructInstance) (map[string]any, error) {
	var iss Issues
	out := make(map[string]any)
	for _, f := range x.typ.AllFields() {
		if !x.set[f.Name] {
			if !f.Optional {
				iss = AppendIssues(iss, Issue{Path: "/" + f.Name, Code: CodeRequired, Message: fmt.Sprintf("missing required field %q", f.Name)})
			}
			continue
		}
		wv, err := encodeSlot(f.Type, x.slots[f.Name])
		if err != nil {
			iss = AppendIssues(iss, rebaseIssues("/"+f.Name, err)...)
			continue
		}
		out[f.Name] = wv
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

// EncodeUnion emits a bare string for a symbol tag and a single-key object
// for a payload tag.
func EncodeUnion(x *UnionInstance) (any, error) {
	if x.tag == "" {
		return nil, Issues{{Path: "/", Code: CodeTagNotSet, Message: fmt.Sprintf("no tag selected for %s", x.typ.TypeName())}}
	}
	variant, _ := x.typ.VariantByName(x.tag)
	f, payload := variant.(*Field)
	if !payload {
		return x.tag, nil
	}
	wv, err := encodeSlot(f.Type, x.payload)
	if err != nil {
		return nil, rebaseIssues("/"+x.tag, err)
	}
	return map[string]any{x.tag: wv}, nil
}

// encodeSlot turns one stored slot value into its wire form.
func encodeSlot(dt DataType, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	if _, composite := dt.(CompositeType); composite {
		inst, ok := v.(Instance)
		if !ok {
			return nil, Issues{{Path: "/", Code: CodeInvalidType, Message: fmt.Sprintf("slot holds %T but its type is composite", v)}}
		}
		return Encode(inst)
	}
	validator, ok := dt.(Validator)
	if !ok {
		return nil, Issues{{Path: "/", Code: CodeInvalidType, Message: fmt.Sprintf("unsupported field type %T", dt)}}
	}
	checked, err := validator.Check(v)
	if err != nil {
		return nil, err
	}
	return toWireValue(checked), nil
}

// toWireValue maps in-memory forms without a JSON shape onto wire forms
// (byte slices become base64 strings), recursing through lists.
func toWireValue(v any) any {
	switch t := v.(type) {
	case []byte:
		return base64.StdEncoding.EncodeToString(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = toWireValue(item)
		}
		return out
	default:
		return v
	}
}
