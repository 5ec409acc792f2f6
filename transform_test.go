package stone_test

import (
	"encoding/json"
	"reflect"
	"testing"

	stone "github.com/adrian2x/stone"
)

func accountInfoType(t *testing.T) *stone.StructType {
	t.Helper()
	quotaInfo := quotaInfoType(t)
	return stone.MustStruct("AccountInfo", "", []*stone.Field{
		{Name: "account_id", Type: stone.String().MinLength(1)},
		{Name: "quota_info", Type: quotaInfo, Optional: true, Nullable: true},
		{Name: "tags", Type: stone.List(stone.String()).MaxItems(3), Optional: true},
	}, nil)
}

func TestDecodeStruct_RoundTrip(t *testing.T) {
	typ := accountInfoType(t)
	wire := map[string]any{
		"account_id": "xyz123",
		"quota_info": map[string]any{"quota": json.Number("64000")},
	}

	x, err := stone.DecodeStruct(typ, wire)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	out, err := stone.EncodeStruct(x)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !reflect.DeepEqual(out, wire) {
		t.Fatalf("round trip mismatch:\n got %#v\nwant %#v", out, wire)
	}

	// the optional field absent from the wire stays unset and is omitted
	if x.IsSet("tags") {
		t.Fatalf("absent optional field must stay unset")
	}
	if _, present := out["tags"]; present {
		t.Fatalf("unset optional field must be omitted, not emitted as null")
	}
}

func TestDecodeStruct_Errors(t *testing.T) {
	typ := accountInfoType(t)

	wantCode(t, second2(stone.DecodeStruct(typ, "not an object")), stone.CodeInvalidType)

	err := second2(stone.DecodeStruct(typ, map[string]any{"account_id": "a", "bogus": 1}))
	wantCode(t, err, stone.CodeUnknownField)
	iss, _ := stone.AsIssues(err)
	if iss[0].Path != "/bogus" {
		t.Fatalf("expected /bogus, got %q", iss[0].Path)
	}

	wantCode(t, second2(stone.DecodeStruct(typ, map[string]any{})), stone.CodeRequired)

	// nested failures carry the nested path
	err = second2(stone.DecodeStruct(typ, map[string]any{
		"account_id": "a",
		"quota_info": map[string]any{"quota": json.Number("-1")},
	}))
	wantCode(t, err, stone.CodeOutOfRange)
	iss, _ = stone.AsIssues(err)
	if iss[0].Path != "/quota_info/quota" {
		t.Fatalf("expected /quota_info/quota, got %q", iss[0].Path)
	}
}

func TestDecodeStruct_CollectsAllIssues(t *testing.T) {
	typ := accountInfoType(t)
	err := second2(stone.DecodeStruct(typ, map[string]any{
		"bogus": 1,
		"tags":  []any{"a", "b", "c", "d"},
	}))
	iss, ok := stone.AsIssues(err)
	if !ok || len(iss) != 3 {
		// unknown key, missing required account_id, oversized list
		t.Fatalf("expected 3 issues, got %v", err)
	}
}

func TestDecodeStruct_NullableField(t *testing.T) {
	typ := accountInfoType(t)
	wire := map[string]any{"account_id": "a", "quota_info": nil}

	x, err := stone.DecodeStruct(typ, wire)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	out, err := stone.EncodeStruct(x)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	// explicitly-null nullable fields survive the round trip as null
	if v, present := out["quota_info"]; !present || v != nil {
		t.Fatalf("expected explicit null, got %#v", out)
	}
}

func TestDecodeUnion_WireForms(t *testing.T) {
	conflict, _ := writeConflictPolicyType(t)

	// bare symbol string
	u, err := stone.DecodeUnion(conflict, "reject")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !u.Is("reject") {
		t.Fatalf("expected reject active")
	}
	w, err := stone.EncodeUnion(u)
	if err != nil || w != "reject" {
		t.Fatalf("unexpected wire value: %#v err=%v", w, err)
	}

	// single-key payload object
	wire := map[string]any{"update_if_matching_parent_rev": map[string]any{"parent_rev": "xyz123"}}
	u, err = stone.DecodeUnion(conflict, wire)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	w, err = stone.EncodeUnion(u)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !reflect.DeepEqual(w, wire) {
		t.Fatalf("round trip mismatch:\n got %#v\nwant %#v", w, wire)
	}
}

func TestDecodeUnion_Errors(t *testing.T) {
	conflict, _ := writeConflictPolicyType(t)

	wantCode(t, second2u(stone.DecodeUnion(conflict, "no_such_tag")), stone.CodeUnknownField)
	wantCode(t, second2u(stone.DecodeUnion(conflict, map[string]any{})), stone.CodeUnionAmbiguous)
	wantCode(t, second2u(stone.DecodeUnion(conflict, map[string]any{"a": 1, "b": 2})), stone.CodeUnionAmbiguous)
	wantCode(t, second2u(stone.DecodeUnion(conflict, map[string]any{"reject": nil})), stone.CodeInvalidType)
	wantCode(t, second2u(stone.DecodeUnion(conflict, "update_if_matching_parent_rev")), stone.CodeInvalidType)
	wantCode(t, second2u(stone.DecodeUnion(conflict, 42)), stone.CodeInvalidType)
}

func TestEncodeUnion_NoTag(t *testing.T) {
	conflict, _ := writeConflictPolicyType(t)
	wantCode(t, second(stone.EncodeUnion(conflict.New())), stone.CodeTagNotSet)
}

func TestEncode_BinaryWireForm(t *testing.T) {
	typ := stone.MustStruct("Blob", "", []*stone.Field{
		{Name: "data", Type: stone.Binary()},
	}, nil)

	x := typ.New()
	if err := x.Set("data", []byte("hello")); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	out, err := stone.EncodeStruct(x)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out["data"] != "aGVsbG8=" {
		t.Fatalf("expected base64 wire form, got %#v", out["data"])
	}

	// and back
	x2, err := stone.DecodeStruct(typ, out)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	v, _ := x2.Get("data")
	if string(v.([]byte)) != "hello" {
		t.Fatalf("unexpected value: %#v", v)
	}
}

func second2(_ *stone.StructInstance, err error) error { return err }

func second2u(_ *stone.UnionInstance, err error) error { return err }
