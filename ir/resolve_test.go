package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_UnaryConversion(t *testing.T) {
	reg := NewTypeRegistry()
	b := NewBuilder(reg)

	f := &Constant{ResultType: reg.Scalar(BaseFloat), Value: ConstantValue{Floats: []float32{1.5}}}
	expr, err := b.Unary(OpF2I, f)
	require.NoError(t, err)
	assert.Equal(t, BaseInt, expr.ResultType.Base)
	assert.True(t, expr.Op.IsConversion())
}

func TestBuilder_BinaryBroadcast(t *testing.T) {
	reg := NewTypeRegistry()
	b := NewBuilder(reg)

	vec3 := reg.Vector(BaseFloat, 3)
	scalar := reg.Scalar(BaseFloat)

	v := &Constant{ResultType: vec3, Value: ConstantValue{Floats: []float32{1, 2, 3}}}
	s := &Constant{ResultType: scalar, Value: ConstantValue{Floats: []float32{2}}}

	expr, err := b.Binary(OpMul, v, s)
	require.NoError(t, err)
	assert.Equal(t, vec3, expr.ResultType, "scalar*vector should broadcast to the vector's type")
}

func TestBuilder_BinaryComparisonYieldsBool(t *testing.T) {
	reg := NewTypeRegistry()
	b := NewBuilder(reg)
	vec4 := reg.Vector(BaseFloat, 4)

	x := &Constant{ResultType: vec4}
	y := &Constant{ResultType: vec4}

	expr, err := b.Binary(OpLt, x, y)
	require.NoError(t, err)
	assert.Equal(t, TypeVector, expr.ResultType.Kind)
	assert.Equal(t, BaseBool, expr.ResultType.Base)
	assert.Equal(t, 4, expr.ResultType.Cols)
}

func TestBuilder_DotRequiresMatchingVectors(t *testing.T) {
	reg := NewTypeRegistry()
	b := NewBuilder(reg)

	v3 := &Constant{ResultType: reg.Vector(BaseFloat, 3)}
	v4 := &Constant{ResultType: reg.Vector(BaseFloat, 4)}

	_, err := b.Binary(OpDot, v3, v4)
	assert.Error(t, err)
}

func TestBuilder_SwizzleResultWidth(t *testing.T) {
	reg := NewTypeRegistry()
	b := NewBuilder(reg)
	v4 := &Variable{Name: "v", Type: reg.Vector(BaseFloat, 4)}

	sw, err := b.SwizzleOf(&DerefVariable{Var: v4}, Mask{Components: [4]Component{CompX, CompY}, Num: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, Components(sw.ResultType))
	assert.Equal(t, BaseFloat, sw.ResultType.Base)
}

func TestBuilder_AssignRejectsMismatchedWriteMask(t *testing.T) {
	reg := NewTypeRegistry()
	b := NewBuilder(reg)
	v4 := &Variable{Name: "v", Type: reg.Vector(BaseFloat, 4)}
	scalarRhs := &Constant{ResultType: reg.Scalar(BaseFloat)}

	_, err := b.Assign(&DerefVariable{Var: v4}, scalarRhs, 0b0011, nil)
	assert.Error(t, err, "a 2-lane write mask with a scalar rhs should be rejected")

	_, err = b.Assign(&DerefVariable{Var: v4}, scalarRhs, 0b0001, nil)
	assert.NoError(t, err, "a single-lane write mask with a scalar rhs is valid")
}
