package ir

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueSealed(t *testing.T) {
	// Compile-time check via assignment
	var _ Value = Null{}
	var _ Value = Text("test")
	var _ Value = Int(42)
	var _ Value = Float(1.5)
	var _ Value = Bool(true)
}

func TestShouldFilter(t *testing.T) {
	tests := []struct {
		name     string
		value    Value
		expected bool
	}{
		{"null", Null{}, true},
		{"empty text", Text(""), true},
		{"text", Text("Alice"), false},
		{"whitespace text", Text(" "), false},
		{"zero int", Int(0), true},
		{"positive int", Int(1), false},
		{"negative int", Int(-1), false},
		{"zero float", Float(0), true},
		{"negative zero float", Float(math.Copysign(0, -1)), true},
		{"float", Float(100.0), false},
		{"tiny float", Float(1e-300), false},
		{"false", Bool(false), false},
		{"true", Bool(true), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.value.ShouldFilter())
		})
	}
}

func TestOf(t *testing.T) {
	assert.Equal(t, Text("Alice"), Of("Alice"))
	assert.Equal(t, Bool(false), Of(false))
	assert.Equal(t, Int(1), Of(1))
	assert.Equal(t, Int(-8), Of(int8(-8)))
	assert.Equal(t, Int(16), Of(int16(16)))
	assert.Equal(t, Int(32), Of(int32(32)))
	assert.Equal(t, Int(math.MaxInt64), Of(int64(math.MaxInt64)))
	assert.Equal(t, Int(255), Of(uint8(255)))
	assert.Equal(t, Int(65535), Of(uint16(65535)))
	assert.Equal(t, Int(math.MaxUint32), Of(uint32(math.MaxUint32)))
	assert.Equal(t, Float(0.5), Of(float32(0.5)))
	assert.Equal(t, Float(100.0), Of(100.0))
}

func TestKind(t *testing.T) {
	assert.Equal(t, KindNull, Null{}.Kind())
	assert.Equal(t, KindText, Text("x").Kind())
	assert.Equal(t, KindInt, Int(1).Kind())
	assert.Equal(t, KindFloat, Float(1).Kind())
	assert.Equal(t, KindBool, Bool(true).Kind())

	assert.Equal(t, "null", KindNull.String())
	assert.Equal(t, "float", KindFloat.String())
	assert.Equal(t, "Kind(9)", Kind(9).String())
}

func TestNative(t *testing.T) {
	assert.Nil(t, Null{}.Native())
	assert.Equal(t, "Alice", Text("Alice").Native())
	assert.Equal(t, int64(18), Int(18).Native())
	assert.Equal(t, 100.0, Float(100).Native())
	assert.Equal(t, false, Bool(false).Native())
}

func TestNatives(t *testing.T) {
	got := Natives([]Value{Int(1), Text("Alice"), Int(18)})
	assert.Equal(t, []any{int64(1), "Alice", int64(18)}, got)

	assert.Empty(t, Natives(nil))
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "NULL", Null{}.String())
	assert.Equal(t, `"Alice"`, Text("Alice").String())
	assert.Equal(t, "-3", Int(-3).String())
	assert.Equal(t, "100", Float(100).String())
	assert.Equal(t, "0.25", Float(0.25).String())
	assert.Equal(t, "false", Bool(false).String())
}
