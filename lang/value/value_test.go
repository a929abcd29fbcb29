package value_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mna/ember/lang/value"
)

func TestFalsey(t *testing.T) {
	assert.True(t, value.Nil.Falsey())
	assert.True(t, value.False.Falsey())
	assert.False(t, value.True.Falsey())
	assert.False(t, value.Number(0).Falsey(), "0 is truthy")
	assert.False(t, value.FromObj(value.NewString("")).Falsey(), "the empty string is truthy")
}

func TestEqualNumbersAndNaN(t *testing.T) {
	assert.True(t, value.Equal(value.Number(1), value.Number(1)))
	assert.False(t, value.Equal(value.Number(1), value.Number(2)))

	nan := value.Number(nan())
	assert.False(t, value.Equal(nan, nan), "NaN must not equal itself")
}

func TestEqualStringsByIdentityOnly(t *testing.T) {
	a := value.FromObj(value.NewString("hi"))
	b := value.FromObj(value.NewString("hi"))
	assert.False(t, value.Equal(a, b), "two distinct, un-interned ObjStrings are not equal even with the same content")
	assert.True(t, value.Equal(a, a))
}

func TestEqualAcrossTypes(t *testing.T) {
	assert.False(t, value.Equal(value.Nil, value.False))
	assert.False(t, value.Equal(value.Number(0), value.False))
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "nil", value.Nil.TypeName())
	assert.Equal(t, "boolean", value.True.TypeName())
	assert.Equal(t, "number", value.Number(1).TypeName())
	assert.Equal(t, "string", value.FromObj(value.NewString("x")).TypeName())
}

func TestStringRendering(t *testing.T) {
	assert.Equal(t, "nil", value.Nil.String())
	assert.Equal(t, "true", value.True.String())
	assert.Equal(t, "3", value.Number(3).String())
	assert.Equal(t, "3.5", value.Number(3.5).String())
	assert.Equal(t, "hello", value.FromObj(value.NewString("hello")).String())
}

func nan() float64 {
	var zero float64
	return zero / zero
}
