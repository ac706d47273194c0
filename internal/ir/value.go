package ir

import (
	"fmt"
	"strconv"
)

// Value is a sealed interface over the scalar kinds a condition can compare
// against. Only Null, Text, Int, Float and Bool implement it.
type Value interface {
	// ShouldFilter reports whether the value counts as "not set".
	// Builder mutators drop conditions whose value should be filtered.
	ShouldFilter() bool

	// Kind identifies the active variant.
	Kind() Kind

	// Native returns the Go value handed to a database/sql driver.
	Native() any

	fmt.Stringer

	value() // Sealed - only these types implement it
}

// Kind enumerates the Value variants.
type Kind int

const (
	KindNull Kind = iota
	KindText
	KindInt
	KindFloat
	KindBool
)

var kindNames = [...]string{
	KindNull:  "null",
	KindText:  "text",
	KindInt:   "int",
	KindFloat: "float",
	KindBool:  "bool",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Null is the absent value. It is always filtered.
type Null struct{}

func (Null) value()             {}
func (Null) ShouldFilter() bool { return true }
func (Null) Kind() Kind         { return KindNull }
func (Null) Native() any        { return nil }
func (Null) String() string     { return "NULL" }

// Text is a string value. Filtered when empty.
type Text string

func (Text) value()               {}
func (t Text) ShouldFilter() bool { return len(t) == 0 }
func (Text) Kind() Kind           { return KindText }
func (t Text) Native() any        { return string(t) }
func (t Text) String() string     { return strconv.Quote(string(t)) }

// Int is a 64-bit signed integer. Filtered when zero.
type Int int64

func (Int) value()               {}
func (n Int) ShouldFilter() bool { return n == 0 }
func (Int) Kind() Kind           { return KindInt }
func (n Int) Native() any        { return int64(n) }
func (n Int) String() string     { return strconv.FormatInt(int64(n), 10) }

// Float is a 64-bit float. Filtered when equal to zero (including -0).
type Float float64

func (Float) value()               {}
func (f Float) ShouldFilter() bool { return f == 0 }
func (Float) Kind() Kind           { return KindFloat }
func (f Float) Native() any        { return float64(f) }
func (f Float) String() string     { return strconv.FormatFloat(float64(f), 'g', -1, 64) }

// Bool is a boolean. Never filtered: false is a real condition.
type Bool bool

func (Bool) value()             {}
func (Bool) ShouldFilter() bool { return false }
func (Bool) Kind() Kind         { return KindBool }
func (b Bool) Native() any      { return bool(b) }
func (b Bool) String() string   { return strconv.FormatBool(bool(b)) }

// Scalar is the closed set of Go types Of accepts.
// uint, uint64 and uintptr are left out because they do not fit in an Int.
type Scalar interface {
	string | bool |
		int | int8 | int16 | int32 | int64 |
		uint8 | uint16 | uint32 |
		float32 | float64
}

// Of converts a Go scalar to its Value variant.
// Unsupported source types fail to compile.
func Of[T Scalar](v T) Value {
	switch x := any(v).(type) {
	case string:
		return Text(x)
	case bool:
		return Bool(x)
	case int:
		return Int(x)
	case int8:
		return Int(x)
	case int16:
		return Int(x)
	case int32:
		return Int(x)
	case int64:
		return Int(x)
	case uint8:
		return Int(x)
	case uint16:
		return Int(x)
	case uint32:
		return Int(x)
	case float32:
		return Float(x)
	case float64:
		return Float(x)
	}
	// Unreachable: the type set is closed.
	panic(fmt.Sprintf("ir.Of: unsupported type %T", v))
}

// Natives converts values to driver arguments, preserving order.
func Natives(vals []Value) []any {
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = v.Native()
	}
	return out
}
