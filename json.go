package stone

import (
	"bytes"

	j "github.com/goccy/go-json"
)

// DecodeJSON parses wire JSON bytes and decodes them into an instance of t.
// Numbers are preserved as json.Number so 64-bit integer ranges survive.
func DecodeJSON(t CompositeType, data []byte) (Instance, error) {
	dec := j.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, Issues{{Path: "/", Code: CodeParseError, Message: "invalid JSON", Cause: err}}
	}
	return Decode(t, v)
}

// EncodeJSON encodes an instance to wire JSON bytes.
func EncodeJSON(x Instance) ([]byte, error) {
	w, err := Encode(x)
	if err != nil {
		return nil, err
	}
	b, err := j.Marshal(w)
	if err != nil {
		return nil, Issues{{Path: "/", Code: CodeParseError, Message: "cannot marshal wire value", Cause: err}}
	}
	return b, nil
}

// MarshalWire renders any wire value tree as JSON bytes.
func MarshalWire(v any) ([]byte, error) {
	b, err := j.Marshal(v)
	if err != nil {
		return nil, Issues{{Path: "/", Code: CodeParseError, Message: "cannot marshal wire value", Cause: err}}
	}
	return b, nil
}
