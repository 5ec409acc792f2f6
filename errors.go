package stone

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType    = "invalid_type"    // wrong runtime kind for the declared type
	CodeOutOfRange     = "out_of_range"    // numeric value, length, or item count out of bounds
	CodePattern        = "pattern"         // string failed to match the declared pattern
	CodeInvalidFormat  = "invalid_format"  // timestamp failed to parse against its format
	CodeUnknownField   = "unknown_field"   // key does not name a declared field
	CodeRequired       = "required"        // required field missing or unset
	CodeNotNullable    = "not_nullable"    // null assigned to a non-nullable field
	CodeTagNotSet      = "tag_not_set"     // union payload read while its tag is not active
	CodeUnionAmbiguous = "union_ambiguous" // union wire value with zero or multiple candidate keys
	CodeParseError     = "parse_error"     // malformed wire or schema document
)

// Issue represents a single validation entry.
type Issue struct {
	Path    string // JSON Pointer (for example: /quota_info/quota).
	Code    string // One of the codes listed above.
	Message string
	Cause   error // Optional: underlying error.
	// Params carries structured parameters (e.g., {"min":1, "max":10, "got":42})
	// for i18n and observability.
	Params map[string]any
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. out_of_range at /quota: 5 is not within range [0, 3]
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
		if it.Message != "" {
			fmt.Fprintf(b, ": %s", it.Message)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// rebaseIssues prefixes every issue path from a nested check with the field
// path it occurred under, so callers see /field/sub rather than /sub.
func rebaseIssues(base string, err error) Issues {
	if err == nil {
		return nil
	}
	child, ok := AsIssues(err)
	if !ok {
		return Issues{{Path: base, Code: CodeParseError, Message: err.Error(), Cause: err}}
	}
	out := make(Issues, 0, len(child))
	for _, it := range child {
		p := it.Path
		switch {
		case p == "" || p == "/":
			p = base
		case p[0] == '/':
			p = base + p
		default:
			p = base + "/" + p
		}
		out = append(out, Issue{Path: p, Code: it.Code, Message: it.Message, Cause: it.Cause, Params: it.Params})
	}
	return out
}
