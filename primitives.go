package stone

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// DataType is implemented by everything a field may be declared as: primitive
// and container validators as well as composite type descriptors.
type DataType interface {
	TypeName() string
}

// Validator checks a runtime value against a primitive or container type's
// constraints. Check returns the accepted value (normalized where the wire and
// in-memory forms differ, e.g. base64 strings become []byte) or Issues.
// Validators are immutable after construction and safe to share across
// goroutines.
type Validator interface {
	DataType
	Check(v any) (any, error)
}

// ---- Boolean ----

// BooleanType accepts exactly the two boolean values.
type BooleanType struct{}

// Boolean returns the boolean validator.
func Boolean() *BooleanType { return &BooleanType{} }

func (*BooleanType) TypeName() string { return "Boolean" }

func (*BooleanType) Check(v any) (any, error) {
	if _, ok := v.(bool); !ok {
		return nil, Issues{{Path: "/", Code: CodeInvalidType, Message: fmt.Sprintf("'%v' is not a valid boolean", v)}}
	}
	return v, nil
}

// ---- Integers ----

type integerValue interface {
	int32 | int64 | uint32 | uint64
}

// Integer validates one of the four width/signedness integer kinds. Optional
// Min/Max tighten the kind's natural range.
type Integer[T integerValue] struct {
	min, max       T
	hasMin, hasMax bool
}

// Int32 returns a validator for signed 32-bit integers.
func Int32() *Integer[int32] { return &Integer[int32]{} }

// Int64 returns a validator for signed 64-bit integers.
func Int64() *Integer[int64] { return &Integer[int64]{} }

// UInt32 returns a validator for unsigned 32-bit integers.
func UInt32() *Integer[uint32] { return &Integer[uint32]{} }

// UInt64 returns a validator for unsigned 64-bit integers.
func UInt64() *Integer[uint64] { return &Integer[uint64]{} }

// Min tightens the lower bound.
func (t *Integer[T]) Min(v T) *Integer[T] {
	t.min, t.hasMin = v, true
	return t
}

// Max tightens the upper bound.
func (t *Integer[T]) Max(v T) *Integer[T] {
	t.max, t.hasMax = v, true
	return t
}

func (t *Integer[T]) TypeName() string {
	name, _, _ := intKind[T]()
	return name
}

func intKind[T integerValue]() (name string, bits int, signed bool) {
	var zero T
	switch any(zero).(type) {
	case int32:
		return "Int32", 32, true
	case int64:
		return "Int64", 64, true
	case uint32:
		return "UInt32", 32, false
	default:
		return "UInt64", 64, false
	}
}

// integerString renders an integral input as its decimal form. json.Number is
// the usual wire representation; native Go integers come from in-process
// setters.
func integerString(v any) (string, bool) {
	switch n := v.(type) {
	case json.Number:
		return n.String(), true
	case int:
		return strconv.Itoa(n), true
	case int32:
		return strconv.FormatInt(int64(n), 10), true
	case int64:
		return strconv.FormatInt(n, 10), true
	case uint32:
		return strconv.FormatUint(uint64(n), 10), true
	case uint64:
		return strconv.FormatUint(n, 10), true
	default:
		return "", false
	}
}

func (t *Integer[T]) Check(v any) (any, error) {
	name, bits, signed := intKind[T]()
	s, ok := integerString(v)
	if !ok {
		return nil, Issues{{Path: "/", Code: CodeInvalidType, Message: fmt.Sprintf("'%v' is not a valid integer", v)}}
	}
	var val T
	if signed {
		n, err := strconv.ParseInt(s, 10, bits)
		if err != nil {
			return nil, t.parseIssue(name, bits, signed, s, err)
		}
		val = T(n)
	} else {
		if strings.HasPrefix(s, "-") {
			return nil, t.rangeIssue(name, bits, signed, s)
		}
		n, err := strconv.ParseUint(s, 10, bits)
		if err != nil {
			return nil, t.parseIssue(name, bits, signed, s, err)
		}
		val = T(n)
	}
	if t.hasMin && val < t.min {
		return nil, Issues{{Path: "/", Code: CodeOutOfRange, Message: fmt.Sprintf("%s is not within range [%v, %v]", s, t.min, t.boundMax(bits, signed))}}
	}
	if t.hasMax && val > t.max {
		return nil, Issues{{Path: "/", Code: CodeOutOfRange, Message: fmt.Sprintf("%s is not within range [%v, %v]", s, t.boundMin(bits, signed), t.max)}}
	}
	return v, nil
}

func (t *Integer[T]) parseIssue(name string, bits int, signed bool, s string, err error) Issues {
	if errors.Is(err, strconv.ErrRange) {
		return t.rangeIssue(name, bits, signed, s)
	}
	return Issues{{Path: "/", Code: CodeInvalidType, Message: fmt.Sprintf("'%s' is not a valid %s", s, name), Cause: err}}
}

func (t *Integer[T]) rangeIssue(name string, bits int, signed bool, s string) Issues {
	return Issues{{Path: "/", Code: CodeOutOfRange, Message: fmt.Sprintf("%s is not within range [%v, %v]", s, t.boundMin(bits, signed), t.boundMax(bits, signed))}}
}

// boundMin reports the effective lower bound for error messages.
func (t *Integer[T]) boundMin(bits int, signed bool) string {
	if t.hasMin {
		return fmt.Sprintf("%v", t.min)
	}
	if !signed {
		return "0"
	}
	return strconv.FormatInt(-1<<(bits-1), 10)
}

// boundMax reports the effective upper bound for error messages.
func (t *Integer[T]) boundMax(bits int, signed bool) string {
	if t.hasMax {
		return fmt.Sprintf("%v", t.max)
	}
	if signed {
		return strconv.FormatInt(1<<(bits-1)-1, 10)
	}
	return strconv.FormatUint(^uint64(0)>>(64-bits), 10)
}

// ---- Floats ----

type floatValue interface {
	float32 | float64
}

// Float validates 32- or 64-bit floating point numbers. Any numeric input
// representable in the kind is accepted.
type Float[T floatValue] struct{}

// Float32 returns a validator for 32-bit floats.
func Float32() *Float[float32] { return &Float[float32]{} }

// Float64 returns a validator for 64-bit floats.
func Float64() *Float[float64] { return &Float[float64]{} }

func (*Float[T]) TypeName() string {
	var zero T
	if _, ok := any(zero).(float32); ok {
		return "Float32"
	}
	return "Float64"
}

func floatOf(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

func (t *Float[T]) Check(v any) (any, error) {
	f, ok := floatOf(v)
	if !ok {
		return nil, Issues{{Path: "/", Code: CodeInvalidType, Message: fmt.Sprintf("'%v' is not a valid float", v)}}
	}
	var zero T
	if _, is32 := any(zero).(float32); is32 {
		if !math.IsInf(f, 0) && (f > math.MaxFloat32 || f < -math.MaxFloat32) {
			return nil, Issues{{Path: "/", Code: CodeOutOfRange, Message: fmt.Sprintf("%v is not within range for Float32", v)}}
		}
	}
	return v, nil
}

// ---- String ----

// StringType validates strings with optional rune-count bounds and a
// full-match pattern.
type StringType struct {
	minLength, maxLength int
	hasMin, hasMax       bool
	pattern              *regexp.Regexp
	patternSrc           string
}

// String returns a string validator with no constraints.
func String() *StringType { return &StringType{} }

// MinLength sets the minimum character count (runes, not bytes).
func (t *StringType) MinLength(n int) *StringType {
	t.minLength, t.hasMin = n, true
	return t
}

// MaxLength sets the maximum character count (runes, not bytes).
func (t *StringType) MaxLength(n int) *StringType {
	t.maxLength, t.hasMax = n, true
	return t
}

// Pattern requires the full value to match the regular expression. It panics
// on an invalid expression; schemas are built once at load time.
func (t *StringType) Pattern(expr string) *StringType {
	t.patternSrc = expr
	t.pattern = regexp.MustCompile(`\A(?:` + expr + `)\z`)
	return t
}

func (*StringType) TypeName() string { return "String" }

func (t *StringType) Check(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, Issues{{Path: "/", Code: CodeInvalidType, Message: fmt.Sprintf("'%v' is not a valid string", v)}}
	}
	n := utf8.RuneCountInString(s)
	if t.hasMax && n > t.maxLength {
		return nil, Issues{{Path: "/", Code: CodeOutOfRange, Message: fmt.Sprintf("'%s' has more than %d characters", s, t.maxLength)}}
	}
	if t.hasMin && n < t.minLength {
		return nil, Issues{{Path: "/", Code: CodeOutOfRange, Message: fmt.Sprintf("'%s' has fewer than %d characters", s, t.minLength)}}
	}
	if t.pattern != nil && !t.pattern.MatchString(s) {
		return nil, Issues{{Path: "/", Code: CodePattern, Message: fmt.Sprintf("'%s' did not match pattern '%s'", s, t.patternSrc)}}
	}
	return v, nil
}

// ---- Binary ----

// BinaryType accepts byte slices, or base64 strings as they appear on the
// wire (JSON has no byte-string form).
type BinaryType struct{}

// Binary returns the binary validator.
func Binary() *BinaryType { return &BinaryType{} }

func (*BinaryType) TypeName() string { return "Binary" }

func (*BinaryType) Check(v any) (any, error) {
	switch b := v.(type) {
	case []byte:
		return b, nil
	case string:
		raw, err := base64.StdEncoding.DecodeString(b)
		if err != nil {
			return nil, Issues{{Path: "/", Code: CodeInvalidType, Message: fmt.Sprintf("'%v' is not valid base64 data", v), Cause: err}}
		}
		return raw, nil
	default:
		return nil, Issues{{Path: "/", Code: CodeInvalidType, Message: fmt.Sprintf("'%v' is not valid binary data", v)}}
	}
}

// ---- Null ----

// NullType accepts only null.
type NullType struct{}

// Null returns the null validator.
func Null() *NullType { return &NullType{} }

func (*NullType) TypeName() string { return "Null" }

func (*NullType) Check(v any) (any, error) {
	if v != nil {
		return nil, Issues{{Path: "/", Code: CodeInvalidType, Message: fmt.Sprintf("'%v' is not null", v)}}
	}
	return nil, nil
}
