package main

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// jsonValue holds a single JSON literal exactly as it was received or seeded.
// An empty jsonValue means the field is absent and is dropped from responses
// when tagged omitempty.
type jsonValue []byte

func stringValue(s string) jsonValue {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return jsonValue(bytes.TrimRight(buf.Bytes(), "\n"))
}

func intValue(n int64) jsonValue {
	return jsonValue(strconv.FormatInt(n, 10))
}

func (v jsonValue) MarshalJSON() ([]byte, error) {
	if len(v) == 0 {
		return []byte("null"), nil
	}
	return v, nil
}

func (v *jsonValue) UnmarshalJSON(data []byte) error {
	*v = append(jsonValue(nil), data...)
	return nil
}

// Scan implements [sql.Scanner]; the column stores the JSON literal as text.
func (v *jsonValue) Scan(src any) error {
	switch s := src.(type) {
	case nil:
		*v = nil
	case string:
		*v = jsonValue(s)
	case []byte:
		*v = append(jsonValue(nil), s...)
	default:
		return fmt.Errorf("unsupported json value column type %T", src)
	}
	return nil
}

// Value implements [driver.Valuer].
func (v jsonValue) Value() (driver.Value, error) {
	if len(v) == 0 {
		return nil, nil
	}
	return string(v), nil
}

func (jsonValue) GormDataType() string {
	return "text"
}

func (v jsonValue) String() string {
	if len(v) == 0 {
		return "undefined"
	}
	return string(v)
}

func (v jsonValue) isString() bool {
	return len(v) > 0 && v[0] == '"'
}

// number reports the numeric value of a JSON number or boolean.
func (v jsonValue) number() (float64, bool) {
	if len(v) == 0 {
		return 0, false
	}
	switch {
	case bytes.Equal(v, []byte("true")):
		return 1, true
	case bytes.Equal(v, []byte("false")):
		return 0, true
	case v[0] == '-' || (v[0] >= '0' && v[0] <= '9'):
		f, err := strconv.ParseFloat(string(v), 64)
		return f, err == nil
	}
	return 0, false
}

func (v jsonValue) text() (string, bool) {
	if !v.isString() {
		return "", false
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", false
	}
	return s, true
}

// looseEquals compares the value against a string taken from a request path
// the way a loose == comparison does: strings compare as text, numbers and
// booleans compare numerically against the string's numeric conversion.
func (v jsonValue) looseEquals(s string) bool {
	if t, ok := v.text(); ok {
		return t == s
	}
	n, ok := v.number()
	if !ok {
		return false
	}
	m, ok := stringToNumber(s)
	return ok && n == m
}

// strictEquals is true only for two strings with equal text, two numbers with
// equal value, or two identical booleans/nulls.
func (v jsonValue) strictEquals(o jsonValue) bool {
	if len(v) == 0 || len(o) == 0 {
		return false
	}
	if v.isString() || o.isString() {
		a, okA := v.text()
		b, okB := o.text()
		return okA && okB && a == b
	}
	if v[0] == '{' || v[0] == '[' {
		return false
	}
	a, okA := v.number()
	b, okB := o.number()
	if okA && okB && v.isNumber() == o.isNumber() {
		return a == b
	}
	return bytes.Equal(v, o)
}

func (v jsonValue) isNumber() bool {
	return len(v) > 0 && (v[0] == '-' || (v[0] >= '0' && v[0] <= '9'))
}

func stringToNumber(s string) (float64, bool) {
	t := strings.TrimSpace(s)
	if t == "" {
		return 0, true
	}
	f, err := strconv.ParseFloat(t, 64)
	return f, err == nil
}

// propertyKey is the object key the value would address when used as an
// index: string values as-is, numbers in shortest form, absent as "undefined".
func (v jsonValue) propertyKey() string {
	if len(v) == 0 {
		return "undefined"
	}
	if t, ok := v.text(); ok {
		return t
	}
	if v.isNumber() {
		if f, err := strconv.ParseFloat(string(v), 64); err == nil {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
	}
	return string(v)
}
