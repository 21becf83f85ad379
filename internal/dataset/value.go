package dataset

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Kind identifies the scalar type held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindNumber
	KindBool
	KindString
	KindTime
)

// Value is a typed scalar cell: number, boolean, string, timestamp or null.
type Value struct {
	kind Kind
	num  float64
	b    bool
	str  string
	t    time.Time
}

// Null returns the null value.
func Null() Value {
	return Value{kind: KindNull}
}

// Number returns a numeric value.
func Number(v float64) Value {
	return Value{kind: KindNumber, num: v}
}

// Bool returns a boolean value.
func Bool(v bool) Value {
	return Value{kind: KindBool, b: v}
}

// String returns a string value.
func String(v string) Value {
	return Value{kind: KindString, str: v}
}

// Time returns a timestamp value.
func Time(v time.Time) Value {
	return Value{kind: KindTime, t: v}
}

// FromAny converts a decoded JSON scalar (nil, json.Number, float64, bool or
// string) into a Value. Non-scalar input is rejected.
func FromAny(v any) (Value, error) {
	switch typed := v.(type) {
	case nil:
		return Null(), nil
	case json.Number:
		f, err := typed.Float64()
		if err != nil {
			return Null(), fmt.Errorf("invalid number %q: %w", typed.String(), err)
		}

		return Number(f), nil
	case float64:
		return Number(typed), nil
	case int:
		return Number(float64(typed)), nil
	case bool:
		return Bool(typed), nil
	case string:
		return String(typed), nil
	case time.Time:
		return Time(typed), nil
	default:
		return Null(), fmt.Errorf("non-scalar value of type %T", v)
	}
}

// Kind returns the scalar type of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether the value is null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Number returns the numeric content and whether the value is a number.
func (v Value) Number() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// Bool returns the boolean content and whether the value is a boolean.
func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// Str returns the string content and whether the value is a string.
func (v Value) Str() (string, bool) {
	return v.str, v.kind == KindString
}

// Time returns the timestamp content and whether the value is a timestamp.
func (v Value) Time() (time.Time, bool) {
	return v.t, v.kind == KindTime
}

// Truthy reports whether a present value coerces to boolean true: any
// non-null value is truthy unless it is an explicit false-like token
// (false, 0, "", "false", "False", "0").
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindBool:
		return v.b
	case KindNumber:
		return v.num != 0
	case KindString:
		switch strings.TrimSpace(v.str) {
		case "", "0", "false", "False", "FALSE":
			return false
		default:
			return true
		}
	default:
		return true
	}
}

// Equal reports whether two values hold the same kind and content.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}

	switch v.kind {
	case KindNull:
		return true
	case KindNumber:
		return v.num == other.num
	case KindBool:
		return v.b == other.b
	case KindString:
		return v.str == other.str
	default:
		return v.t.Equal(other.t)
	}
}

// String implements fmt.Stringer for diagnostics.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindNumber:
		return fmt.Sprintf("%g", v.num)
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindString:
		return v.str
	default:
		return v.t.Format(time.RFC3339)
	}
}
