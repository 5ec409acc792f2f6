package stone_test

import (
	"reflect"
	"testing"

	stone "github.com/adrian2x/stone"
)

func quotaInfoType(t *testing.T) *stone.StructType {
	t.Helper()
	return stone.MustStruct(
		"QuotaInfo",
		"Information about a user's space quota.",
		[]*stone.Field{
			{Name: "quota", Type: stone.UInt64(), Doc: "Total amount of space."},
		},
		nil,
	)
}

func TestNewStruct_RejectsShadowing(t *testing.T) {
	base := quotaInfoType(t)

	_, err := stone.NewStruct("ExtendedQuota", "", []*stone.Field{
		{Name: "quota", Type: stone.UInt64()},
	}, base)
	if err == nil {
		t.Fatalf("expected shadowing error")
	}

	_, err = stone.NewStruct("Dup", "", []*stone.Field{
		{Name: "a", Type: stone.String()},
		{Name: "a", Type: stone.String()},
	}, nil)
	if err == nil {
		t.Fatalf("expected duplicate field error")
	}
}

func TestStruct_AllFields_InheritedFirst(t *testing.T) {
	base := quotaInfoType(t)
	child := stone.MustStruct("TeamQuotaInfo", "", []*stone.Field{
		{Name: "team_id", Type: stone.String()},
	}, base)

	all := child.AllFields()
	if len(all) != 2 || all[0].Name != "quota" || all[1].Name != "team_id" {
		t.Fatalf("unexpected field order: %#v", all)
	}
}

func TestStruct_AddExample(t *testing.T) {
	quotaInfo := quotaInfoType(t)

	// an example that doesn't fit the definition of the struct
	err := quotaInfo.AddExample("default", map[string]any{"bad_field": "xyz123"})
	wantCode(t, err, stone.CodeUnknownField)

	if err := quotaInfo.AddExample("default", map[string]any{"quota": 64000}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	// null for a non-nullable field
	err = quotaInfo.AddExample("null", map[string]any{"quota": nil})
	wantCode(t, err, stone.CodeNotNullable)

	if !quotaInfo.HasExample("default") {
		t.Fatalf("expected example %q", "default")
	}
}

func TestStruct_ExamplePropagation(t *testing.T) {
	quotaInfo := quotaInfoType(t)
	if err := quotaInfo.AddExample("default", map[string]any{"quota": 64000}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	accountInfo := stone.MustStruct("AccountInfo", "Information about an account.", []*stone.Field{
		{Name: "account_id", Type: stone.String(), Doc: "Unique identifier for account."},
		{Name: "quota_info", Type: quotaInfo, Doc: "Quota", Nullable: true},
	}, nil)
	if err := accountInfo.AddExample("default", map[string]any{"account_id": "xyz123"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	// the nested type's example is propagated up
	ex, ok := accountInfo.GetExample("default")
	if !ok {
		t.Fatalf("expected example")
	}
	m := ex.(map[string]any)
	want := map[string]any{"quota": 64000}
	if !reflect.DeepEqual(m["quota_info"], want) {
		t.Fatalf("expected propagated nested example, got %#v", m["quota_info"])
	}
}

func TestStruct_ExampleSoleFallback(t *testing.T) {
	quotaInfo := quotaInfoType(t)
	// sole example under a different label
	if err := quotaInfo.AddExample("small", map[string]any{"quota": 1}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	accountInfo := stone.MustStruct("AccountInfo", "", []*stone.Field{
		{Name: "quota_info", Type: quotaInfo, Nullable: true},
	}, nil)
	if err := accountInfo.AddExample("default", map[string]any{}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	ex, _ := accountInfo.GetExample("default")
	m := ex.(map[string]any)
	if !reflect.DeepEqual(m["quota_info"], map[string]any{"quota": 1}) {
		t.Fatalf("expected sole-example fallback, got %#v", m["quota_info"])
	}
}

func writeConflictPolicyType(t *testing.T) (*stone.UnionType, *stone.StructType) {
	t.Helper()
	updateParentRev := stone.MustStruct(
		"UpdateParentRev",
		"Overwrite existing file if the parent rev matches.",
		[]*stone.Field{
			{Name: "parent_rev", Type: stone.String(), Doc: "The revision to be updated."},
		},
		nil,
	)
	if err := updateParentRev.AddExample("default", map[string]any{"parent_rev": "xyz123"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	conflict := stone.MustUnion(
		"WriteConflictPolicy",
		"Policy for managing write conflicts.",
		[]stone.UnionVariant{
			&stone.SymbolField{Name: "reject", Doc: "On a write conflict, reject the new file."},
			&stone.SymbolField{Name: "overwrite", Doc: "On a write conflict, overwrite the existing file."},
			&stone.Field{Name: "update_if_matching_parent_rev", Type: updateParentRev, Doc: "On a write conflict, overwrite the existing file."},
		},
		nil,
	)
	return conflict, updateParentRev
}

func TestUnion_Examples(t *testing.T) {
	conflict, _ := writeConflictPolicyType(t)

	// only a symbol name is returned for a symbol variant's example
	ex, ok := conflict.GetExample("reject")
	if !ok || ex != "reject" {
		t.Fatalf("expected bare symbol, got %#v (ok=%v)", ex, ok)
	}

	// a single-key dict is returned for a payload variant
	ex, ok = conflict.GetExample("default")
	if !ok {
		t.Fatalf("expected example")
	}
	m, isMap := ex.(map[string]any)
	if !isMap {
		t.Fatalf("expected map, got %#v", ex)
	}
	if _, has := m["update_if_matching_parent_rev"]; !has {
		t.Fatalf("expected payload variant key, got %#v", m)
	}
}

func TestUnion_PayloadMustBeComposite(t *testing.T) {
	_, err := stone.NewUnion("Bad", "", []stone.UnionVariant{
		&stone.Field{Name: "n", Type: stone.Int32()},
	}, nil)
	if err == nil {
		t.Fatalf("expected error for non-composite payload variant")
	}
}

func TestUnion_AddExample(t *testing.T) {
	conflict, _ := writeConflictPolicyType(t)

	if err := conflict.AddExample("custom", "overwrite"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ex, _ := conflict.GetExample("custom")
	if ex != "overwrite" {
		t.Fatalf("unexpected example: %#v", ex)
	}

	wantCode(t, conflict.AddExample("bad", "no_such_tag"), stone.CodeUnknownField)
	wantCode(t, conflict.AddExample("bad", map[string]any{"a": 1, "b": 2}), stone.CodeUnionAmbiguous)
	wantCode(t, conflict.AddExample("bad", map[string]any{"reject": nil}), stone.CodeInvalidType)
}
