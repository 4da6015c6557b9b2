// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glslopt

import (
	"fmt"
	"strings"
	"testing"

	"github.com/gogpu/glslopt/ir"
)

// stubFrontEnd hand-builds a TranslationUnit instead of lexing and parsing,
// the same way optimize/driver_test.go builds IR trees directly — there is
// no real front-end in this module for a test to drive.
type stubFrontEnd struct {
	build func(reg *ir.TypeRegistry) ir.List
	fail  bool
	err   error
}

func (f *stubFrontEnd) BuildHIR(stage ir.Stage, source string) (*ir.ParseState, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.fail {
		return &ir.ParseState{Stage: stage, Error: true, InfoLog: "1:1: unexpected token"}, nil
	}
	reg := ir.NewTypeRegistry()
	unit := &ir.TranslationUnit{Types: reg, Instructions: f.build(reg)}
	return &ir.ParseState{Stage: stage, TranslationUnit: unit}, nil
}

// redundantAssignUnit builds "vec3 color; void main() { vec3 tmp; tmp =
// vec3(1.0, 1.0, 1.0); color = tmp; }" worth of IR — grafting and dead
// code elimination should fold the temporary away, giving the optimized
// output a visibly smaller body than the raw one.
func redundantAssignUnit(reg *ir.TypeRegistry) ir.List {
	vec3 := reg.Vector(ir.BaseFloat, 3)
	color := &ir.Variable{Name: "color", Type: vec3, Storage: ir.StorageOut}
	tmp := &ir.Variable{Name: "tmp", Type: vec3, Storage: ir.StorageTemporary}

	lit := &ir.Constant{ResultType: vec3, Value: ir.ConstantValue{Floats: []float32{1, 1, 1}}}

	main := &ir.Function{Name: "main", Signatures: []*ir.FunctionSignature{{
		ReturnType: reg.Void(),
		IsDefined:  true,
		Body: ir.List{
			tmp,
			&ir.Assignment{Lhs: &ir.DerefVariable{Var: tmp}, Rhs: lit, WriteMask: ir.FullMask(3)},
			&ir.Assignment{Lhs: &ir.DerefVariable{Var: color}, Rhs: &ir.DerefVariable{Var: tmp}, WriteMask: ir.FullMask(3)},
		},
	}}}
	return ir.List{color, main}
}

// vecConstructorUnit builds "vec3 vtmp = vec3(1.0); void main() {
// gl_Position = vec4(vtmp, 1.0); }" worth of IR — tree grafting should
// splice vtmp's literal into the vec4(...) call and dead code elimination
// should remove the now-unread temporary entirely.
func vecConstructorUnit(reg *ir.TypeRegistry) ir.List {
	f := reg.Scalar(ir.BaseFloat)
	vec3 := reg.Vector(ir.BaseFloat, 3)
	vec4 := reg.Vector(ir.BaseFloat, 4)

	vtmp := &ir.Variable{Name: "vtmp", Type: vec3, Storage: ir.StorageTemporary}
	glPos := &ir.Variable{Name: "gl_Position", Type: vec4, Storage: ir.StorageOut}
	lit := &ir.Constant{ResultType: vec3, Value: ir.ConstantValue{Floats: []float32{1, 1, 1}}}
	one := &ir.Constant{ResultType: f, Value: ir.ConstantValue{Floats: []float32{1}}}

	vec4Ctor := &ir.Function{Name: "vec4"}
	vec4Sig := &ir.FunctionSignature{
		ReturnType: vec4,
		Parameters: []*ir.Variable{{Name: "xyz", Type: vec3}, {Name: "w", Type: f}},
		IsDefined:  true,
		IsBuiltin:  true,
	}
	vec4Ctor.Signatures = []*ir.FunctionSignature{vec4Sig}
	call := &ir.Call{ResultType: vec4, Callee: vec4Ctor, Signature: vec4Sig, Arguments: []ir.Rvalue{&ir.DerefVariable{Var: vtmp}, one}}

	main := &ir.Function{Name: "main", Signatures: []*ir.FunctionSignature{{
		ReturnType: reg.Void(),
		IsDefined:  true,
		Body: ir.List{
			vtmp,
			&ir.Assignment{Lhs: &ir.DerefVariable{Var: vtmp}, Rhs: lit, WriteMask: ir.FullMask(3)},
			&ir.Assignment{Lhs: &ir.DerefVariable{Var: glPos}, Rhs: call, WriteMask: ir.FullMask(4)},
		},
	}}}
	return ir.List{glPos, main}
}

// constantAdditionUnit builds "float f = 2.0 + 3.0;" worth of IR —
// constant folding should evaluate the addition at compile time.
func constantAdditionUnit(reg *ir.TypeRegistry) ir.List {
	f := reg.Scalar(ir.BaseFloat)
	fVar := &ir.Variable{Name: "f", Type: f, Storage: ir.StorageOut}
	two := &ir.Constant{ResultType: f, Value: ir.ConstantValue{Floats: []float32{2}}}
	three := &ir.Constant{ResultType: f, Value: ir.ConstantValue{Floats: []float32{3}}}
	sum := &ir.BinaryExpr{ResultType: f, Op: ir.OpAdd, X: two, Y: three}

	main := &ir.Function{Name: "main", Signatures: []*ir.FunctionSignature{{
		ReturnType: reg.Void(),
		IsDefined:  true,
		Body: ir.List{
			&ir.Assignment{Lhs: &ir.DerefVariable{Var: fVar}, Rhs: sum, WriteMask: ir.FullMask(1)},
		},
	}}}
	return ir.List{fVar, main}
}

// constantIfUnit builds "float a; if (true) { a = 1.0; } else { a = 2.0;
// }" worth of IR — if_simplification should collapse the If to its then
// branch.
func constantIfUnit(reg *ir.TypeRegistry) ir.List {
	f := reg.Scalar(ir.BaseFloat)
	aVar := &ir.Variable{Name: "a", Type: f, Storage: ir.StorageOut}
	cond := &ir.Constant{ResultType: reg.Scalar(ir.BaseBool), Value: ir.ConstantValue{Bools: []bool{true}}}
	thenAssign := &ir.Assignment{Lhs: &ir.DerefVariable{Var: aVar}, Rhs: &ir.Constant{ResultType: f, Value: ir.ConstantValue{Floats: []float32{1}}}, WriteMask: ir.FullMask(1)}
	elseAssign := &ir.Assignment{Lhs: &ir.DerefVariable{Var: aVar}, Rhs: &ir.Constant{ResultType: f, Value: ir.ConstantValue{Floats: []float32{2}}}, WriteMask: ir.FullMask(1)}

	main := &ir.Function{Name: "main", Signatures: []*ir.FunctionSignature{{
		ReturnType: reg.Void(),
		IsDefined:  true,
		Body:       ir.List{&ir.If{Condition: cond, Then: ir.List{thenAssign}, Else: ir.List{elseAssign}}},
	}}}
	return ir.List{aVar, main}
}

func TestOptimize_Scenarios(t *testing.T) {
	tests := []struct {
		name    string
		stage   Stage
		build   func(reg *ir.TypeRegistry) ir.List
		wants   []string
		rejects []string
	}{
		{
			name:    "vec4 constructor takes the temporary's literal and drops the temporary",
			stage:   StageVertex,
			build:   vecConstructorUnit,
			wants:   []string{"gl_Position = vec4(vec3(1.0, 1.0, 1.0), 1.0);"},
			rejects: []string{"vtmp"},
		},
		{
			name:  "constant addition folds to a single literal",
			stage: StageFragment,
			build: constantAdditionUnit,
			wants: []string{"f = 5.0;"},
		},
		{
			name:    "if with a constant true condition collapses to its then branch",
			stage:   StageFragment,
			build:   constantIfUnit,
			wants:   []string{"a = 1.0;"},
			rejects: []string{"a = 2.0;", "if ("},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := NewContext(&stubFrontEnd{build: tt.build})
			defer ctx.Close()

			shader := ctx.Optimize(tt.stage, "")
			defer shader.Close()

			if !shader.Status() {
				t.Fatalf("expected success, got log: %s", shader.Log())
			}
			for _, want := range tt.wants {
				if !strings.Contains(shader.OptimizedOutput(), want) {
					t.Errorf("expected optimized output to contain %q, got:\n%s", want, shader.OptimizedOutput())
				}
			}
			for _, reject := range tt.rejects {
				if strings.Contains(shader.OptimizedOutput(), reject) {
					t.Errorf("expected optimized output not to contain %q, got:\n%s", reject, shader.OptimizedOutput())
				}
			}
		})
	}
}

func TestOptimize_SuccessRoundTrip(t *testing.T) {
	ctx := NewContext(&stubFrontEnd{build: redundantAssignUnit})
	defer ctx.Close()

	shader := ctx.Optimize(StageFragment, "")
	defer shader.Close()

	if !shader.Status() {
		t.Fatalf("expected success, got log: %s", shader.Log())
	}
	if !strings.Contains(shader.RawOutput(), "tmp") {
		t.Errorf("expected raw output to still mention the temporary, got:\n%s", shader.RawOutput())
	}
	if strings.Contains(shader.OptimizedOutput(), "tmp") {
		t.Errorf("expected optimized output to have propagated the temporary away, got:\n%s", shader.OptimizedOutput())
	}
	if !strings.Contains(shader.OptimizedOutput(), "color = vec3(1.0, 1.0, 1.0);") {
		t.Errorf("expected optimized output to assign color directly, got:\n%s", shader.OptimizedOutput())
	}
}

func TestOptimize_FrontEndParseError(t *testing.T) {
	ctx := NewContext(&stubFrontEnd{fail: true})

	shader := ctx.Optimize(StageVertex, "bad shader source")

	if shader.Status() {
		t.Fatalf("expected failure")
	}
	if shader.RawOutput() != "" || shader.OptimizedOutput() != "" {
		t.Errorf("expected empty outputs on failure")
	}
	if !strings.Contains(shader.Log(), "unexpected token") {
		t.Errorf("expected log to carry the front-end's InfoLog, got: %q", shader.Log())
	}
}

func TestOptimize_FrontEndError(t *testing.T) {
	ctx := NewContext(&stubFrontEnd{err: fmt.Errorf("front end exploded")})

	shader := ctx.Optimize(StageFragment, "")

	if shader.Status() {
		t.Fatalf("expected failure")
	}
	if !strings.Contains(shader.Log(), "front end exploded") {
		t.Errorf("expected log to carry the returned error, got: %q", shader.Log())
	}
}
