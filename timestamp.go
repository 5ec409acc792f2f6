package stone

import (
	"fmt"
	"strings"
	"time"
)

// TimestampType validates timestamp strings against a strptime-style format
// declared per field (wire timestamps are not ISO-8601 by default).
type TimestampType struct {
	format string
	layout string
}

// Timestamp returns a validator for the given strptime-style format, e.g.
// "%a, %d %b %Y %H:%M:%S". It panics on an unsupported directive; schemas are
// built once at load time.
func Timestamp(format string) *TimestampType {
	layout, err := strptimeLayout(format)
	if err != nil {
		panic(fmt.Sprintf("stone: %v", err))
	}
	return &TimestampType{format: format, layout: layout}
}

// Format reports the declared strptime-style format.
func (t *TimestampType) Format() string { return t.format }

func (*TimestampType) TypeName() string { return "Timestamp" }

func (t *TimestampType) Check(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, Issues{{Path: "/", Code: CodeInvalidType, Message: fmt.Sprintf("'%v' is not a valid timestamp string", v)}}
	}
	if _, err := time.Parse(t.layout, s); err != nil {
		return nil, Issues{{Path: "/", Code: CodeInvalidFormat, Message: fmt.Sprintf("'%s' does not match format '%s'", s, t.format), Cause: err}}
	}
	return v, nil
}

// Time parses an already wire-shaped value into time.Time.
func (t *TimestampType) Time(v any) (time.Time, error) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, Issues{{Path: "/", Code: CodeInvalidType, Message: fmt.Sprintf("'%v' is not a valid timestamp string", v)}}
	}
	ts, err := time.Parse(t.layout, s)
	if err != nil {
		return time.Time{}, Issues{{Path: "/", Code: CodeInvalidFormat, Message: fmt.Sprintf("'%s' does not match format '%s'", s, t.format), Cause: err}}
	}
	return ts, nil
}

// strptime directives mapped onto Go's reference time. Directives without a
// Go layout equivalent (e.g. %j) are rejected at construction.
var strptimeDirectives = map[byte]string{
	'a': "Mon",
	'A': "Monday",
	'b': "Jan",
	'B': "January",
	'd': "02",
	'H': "15",
	'I': "03",
	'm': "01",
	'M': "04",
	'p': "PM",
	'S': "05",
	'y': "06",
	'Y': "2006",
	'z': "-0700",
	'Z': "MST",
	'%': "%",
}

func strptimeLayout(format string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(format) {
			return "", fmt.Errorf("timestamp format %q ends with a bare %%", format)
		}
		rep, ok := strptimeDirectives[format[i]]
		if !ok {
			return "", fmt.Errorf("timestamp format %q uses unsupported directive %%%c", format, format[i])
		}
		b.WriteString(rep)
	}
	return b.String(), nil
}
