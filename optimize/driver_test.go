package optimize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/glslopt/ir"
)

// TestDriver_SweepsUntilFixedPoint builds a small fragment-shader-shaped
// program with a dead store, a literal copy, and an identity swizzle, and
// checks the fixed-point driver removes all three in whatever number of
// sweeps it takes.
func TestDriver_SweepsUntilFixedPoint(t *testing.T) {
	reg := ir.NewTypeRegistry()
	f := reg.Scalar(ir.BaseFloat)
	vec3 := reg.Vector(ir.BaseFloat, 3)

	color := &ir.Variable{Name: "color", Type: vec3, Storage: ir.StorageOut}
	tmp := &ir.Variable{Name: "tmp", Type: f, Storage: ir.StorageTemporary}
	unread := &ir.Variable{Name: "unread", Type: f, Storage: ir.StorageTemporary}

	litOne := &ir.Constant{ResultType: f, Value: ir.ConstantValue{Floats: []float32{1}}}
	litTwo := &ir.Constant{ResultType: f, Value: ir.ConstantValue{Floats: []float32{2}}}
	source := &ir.DerefVariable{Var: &ir.Variable{Name: "src", Type: vec3, Storage: ir.StorageIn}}

	main := &ir.Function{
		Name: "main",
		Signatures: []*ir.FunctionSignature{{
			ReturnType: reg.Void(),
			IsDefined:  true,
			Body: ir.List{
				unread,
				&ir.Assignment{Lhs: &ir.DerefVariable{Var: unread}, Rhs: litOne, WriteMask: ir.FullMask(1)},
				tmp,
				&ir.Assignment{Lhs: &ir.DerefVariable{Var: tmp}, Rhs: litOne, WriteMask: ir.FullMask(1)},
				&ir.Assignment{Lhs: &ir.DerefVariable{Var: tmp}, Rhs: litTwo, WriteMask: ir.FullMask(1)},
				&ir.Assignment{
					Lhs: &ir.DerefVariable{Var: color},
					Rhs: &ir.Swizzle{
						ResultType: vec3,
						Source:     source,
						Mask:       ir.Identity(3),
					},
					WriteMask: ir.FullMask(3),
				},
			},
		}},
	}

	unit := &ir.TranslationUnit{
		Types:        reg,
		Instructions: ir.List{source.Var, color, main},
	}

	sweeps := 0
	driver := NewDriver()
	driver.OnSweep = func(sweep int, progressed []string) { sweeps = sweep }
	driver.Run(unit)

	require.Greater(t, sweeps, 0, "expected at least one sweep to run")

	sig := main.Signatures[0]
	for _, instr := range sig.Body {
		if v, ok := instr.(*ir.Variable); ok {
			assert.NotEqual(t, unread, v, "unread should have been eliminated by dead_code_unlinked")
		}
	}

	finalAssign := sig.Body[len(sig.Body)-1].(*ir.Assignment)
	_, stillSwizzled := finalAssign.Rhs.(*ir.Swizzle)
	assert.False(t, stillSwizzled, "the identity swizzle onto color should have been unwrapped by noop_swizzle")
}

func TestDriver_PassesAreInSpecifiedOrder(t *testing.T) {
	d := NewDriver()
	names := make([]string, len(d.Passes()))
	for i, p := range d.Passes() {
		names[i] = p.Name()
	}
	assert.Equal(t, []string{
		"function_inlining",
		"dead_functions",
		"structure_splitting",
		"if_simplification",
		"copy_propagation",
		"dead_code_local",
		"dead_code_unlinked",
		"tree_grafting",
		"constant_propagation",
		"constant_variable_unlinked",
		"constant_folding",
		"algebraic",
		"vec_index_to_swizzle",
		"swizzle_swizzle",
		"noop_swizzle",
	}, names)
}
