package stone

import (
	"fmt"
	"strconv"
)

// ListType validates "list of T": every element must pass the element
// validator, and the item count must sit within the declared bounds.
type ListType struct {
	elem           Validator
	minItems       int
	maxItems       int
	hasMin, hasMax bool
}

// List returns a list validator over the given element validator.
func List(elem Validator) *ListType { return &ListType{elem: elem} }

// MinItems sets the minimum item count.
func (t *ListType) MinItems(n int) *ListType {
	t.minItems, t.hasMin = n, true
	return t
}

// MaxItems sets the maximum item count.
func (t *ListType) MaxItems(n int) *ListType {
	t.maxItems, t.hasMax = n, true
	return t
}

// Elem reports the element validator.
func (t *ListType) Elem() Validator { return t.elem }

func (t *ListType) TypeName() string { return "List" }

func (t *ListType) Check(v any) (any, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, Issues{{Path: "/", Code: CodeInvalidType, Message: fmt.Sprintf("'%v' is not a valid list", v)}}
	}
	if t.hasMax && len(items) > t.maxItems {
		return nil, Issues{{Path: "/", Code: CodeOutOfRange, Message: fmt.Sprintf("list has more than %d items", t.maxItems)}}
	}
	if t.hasMin && len(items) < t.minItems {
		return nil, Issues{{Path: "/", Code: CodeOutOfRange, Message: fmt.Sprintf("list has fewer than %d items", t.minItems)}}
	}
	out := make([]any, len(items))
	var iss Issues
	for i, item := range items {
		checked, err := t.elem.Check(item)
		if err != nil {
			iss = AppendIssues(iss, rebaseIssues("/"+strconv.Itoa(i), err)...)
			continue
		}
		out[i] = checked
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}
