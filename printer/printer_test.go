// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package printer

import (
	"strings"
	"testing"

	"github.com/gogpu/glslopt/ir"
)

func mustContain(t *testing.T, source, expected string) {
	t.Helper()
	if !strings.Contains(source, expected) {
		t.Errorf("expected output to contain %q.\noutput:\n%s", expected, source)
	}
}

func TestPrint_SkipsGLBuiltinRedeclare(t *testing.T) {
	reg := ir.NewTypeRegistry()
	glPos := &ir.Variable{Name: "gl_Position", Type: reg.Vector(ir.BaseFloat, 4), Storage: ir.StorageOut}
	unit := &ir.TranslationUnit{Types: reg, Instructions: ir.List{glPos}}

	out := Print(unit, ir.StageVertex)
	if strings.Contains(out, "gl_Position") {
		t.Fatalf("expected gl_-prefixed variable to be skipped, got:\n%s", out)
	}
}

func TestPrint_StageQualifiers(t *testing.T) {
	reg := ir.NewTypeRegistry()
	uv := &ir.Variable{Name: "uv", Type: reg.Vector(ir.BaseFloat, 2), Storage: ir.StorageIn}

	vertexUnit := &ir.TranslationUnit{Types: reg, Instructions: ir.List{uv}}
	mustContain(t, Print(vertexUnit, ir.StageVertex), "attribute vec2 uv;")
	mustContain(t, Print(vertexUnit, ir.StageFragment), "varying vec2 uv;")
}

func TestPrint_StructDeclaration(t *testing.T) {
	reg := ir.NewTypeRegistry()
	f := reg.Scalar(ir.BaseFloat)
	vec3 := reg.Vector(ir.BaseFloat, 3)
	light := reg.Struct("Light", []ir.StructField{{Name: "position", Type: vec3}, {Name: "intensity", Type: f}})
	v := &ir.Variable{Name: "sun", Type: light, Storage: ir.StorageUniform}

	unit := &ir.TranslationUnit{Types: reg, Instructions: ir.List{v}}
	out := Print(unit, ir.StageFragment)
	mustContain(t, out, "struct Light {")
	mustContain(t, out, "vec3 position;")
	mustContain(t, out, "float intensity;")
	mustContain(t, out, "uniform Light sun;")
}

func TestPrint_SwizzleBroadcastsFloatScalar(t *testing.T) {
	reg := ir.NewTypeRegistry()
	f := reg.Scalar(ir.BaseFloat)
	vec3 := reg.Vector(ir.BaseFloat, 3)
	src := &ir.DerefVariable{Var: &ir.Variable{Name: "gray", Type: f, Storage: ir.StorageTemporary}}
	out := &ir.Variable{Name: "color", Type: vec3, Storage: ir.StorageOut}

	main := &ir.Function{Name: "main", Signatures: []*ir.FunctionSignature{{
		ReturnType: reg.Void(),
		IsDefined:  true,
		Body: ir.List{
			&ir.Assignment{
				Lhs:       &ir.DerefVariable{Var: out},
				Rhs:       &ir.Swizzle{ResultType: vec3, Source: src, Mask: ir.Identity(3)},
				WriteMask: ir.FullMask(3),
			},
		},
	}}}
	unit := &ir.TranslationUnit{Types: reg, Instructions: ir.List{src.Var, out, main}}

	mustContain(t, Print(unit, ir.StageFragment), "color = vec3(gray);")
}

func TestPrint_MaskedAssignmentAppendsLetters(t *testing.T) {
	reg := ir.NewTypeRegistry()
	vec3 := reg.Vector(ir.BaseFloat, 3)
	vec2 := reg.Vector(ir.BaseFloat, 2)
	v := &ir.Variable{Name: "p", Type: vec3, Storage: ir.StorageTemporary}
	rhs := &ir.DerefVariable{Var: &ir.Variable{Name: "uv", Type: vec2, Storage: ir.StorageIn}}

	main := &ir.Function{Name: "main", Signatures: []*ir.FunctionSignature{{
		ReturnType: reg.Void(),
		IsDefined:  true,
		Body: ir.List{
			v,
			&ir.Assignment{Lhs: &ir.DerefVariable{Var: v}, Rhs: rhs, WriteMask: 0b011},
		},
	}}}
	unit := &ir.TranslationUnit{Types: reg, Instructions: ir.List{rhs.Var, main}}

	mustContain(t, Print(unit, ir.StageFragment), "p.xy = uv;")
}

func TestPrint_AssignmentCastsOnTypeMismatch(t *testing.T) {
	reg := ir.NewTypeRegistry()
	f := reg.Scalar(ir.BaseFloat)
	i := reg.Scalar(ir.BaseInt)
	v := &ir.Variable{Name: "f", Type: f, Storage: ir.StorageTemporary}
	rhs := &ir.DerefVariable{Var: &ir.Variable{Name: "n", Type: i, Storage: ir.StorageTemporary}}

	main := &ir.Function{Name: "main", Signatures: []*ir.FunctionSignature{{
		ReturnType: reg.Void(),
		IsDefined:  true,
		Body: ir.List{
			v,
			&ir.Assignment{Lhs: &ir.DerefVariable{Var: v}, Rhs: rhs, WriteMask: ir.FullMask(1)},
		},
	}}}
	unit := &ir.TranslationUnit{Types: reg, Instructions: ir.List{rhs.Var, main}}

	mustContain(t, Print(unit, ir.StageFragment), "f = float(n);")
}

func TestPrint_MaskedAssignmentCastsAndReappliesMask(t *testing.T) {
	reg := ir.NewTypeRegistry()
	vec3 := reg.Vector(ir.BaseFloat, 3)
	ivec2 := reg.Vector(ir.BaseInt, 2)
	v := &ir.Variable{Name: "p", Type: vec3, Storage: ir.StorageTemporary}
	rhs := &ir.DerefVariable{Var: &ir.Variable{Name: "n", Type: ivec2, Storage: ir.StorageTemporary}}

	main := &ir.Function{Name: "main", Signatures: []*ir.FunctionSignature{{
		ReturnType: reg.Void(),
		IsDefined:  true,
		Body: ir.List{
			v,
			&ir.Assignment{Lhs: &ir.DerefVariable{Var: v}, Rhs: rhs, WriteMask: 0b011},
		},
	}}}
	unit := &ir.TranslationUnit{Types: reg, Instructions: ir.List{rhs.Var, main}}

	mustContain(t, Print(unit, ir.StageFragment), "p.xy = vec3(n).xy;")
}

func TestPrint_IfAndDiscard(t *testing.T) {
	reg := ir.NewTypeRegistry()
	f := reg.Scalar(ir.BaseFloat)
	alpha := &ir.DerefVariable{Var: &ir.Variable{Name: "alpha", Type: f, Storage: ir.StorageIn}}
	zero := &ir.Constant{ResultType: f, Value: ir.ConstantValue{Floats: []float32{0}}}

	main := &ir.Function{Name: "main", Signatures: []*ir.FunctionSignature{{
		ReturnType: reg.Void(),
		IsDefined:  true,
		Body: ir.List{
			&ir.If{
				Condition: &ir.BinaryExpr{ResultType: reg.Scalar(ir.BaseBool), Op: ir.OpLe, X: alpha, Y: zero},
				Then:      ir.List{&ir.Discard{}},
			},
		},
	}}}
	unit := &ir.TranslationUnit{Types: reg, Instructions: ir.List{alpha.Var, main}}

	out := Print(unit, ir.StageFragment)
	mustContain(t, out, "if ((alpha <= 0.0)) {")
	mustContain(t, out, "discard;")
}

func TestPrint_UnboundedLoop(t *testing.T) {
	reg := ir.NewTypeRegistry()
	main := &ir.Function{Name: "main", Signatures: []*ir.FunctionSignature{{
		ReturnType: reg.Void(),
		IsDefined:  true,
		Body: ir.List{
			&ir.Loop{Body: ir.List{&ir.LoopJump{JumpKind: ir.JumpBreak}}},
		},
	}}}
	unit := &ir.TranslationUnit{Types: reg, Instructions: ir.List{main}}

	out := Print(unit, ir.StageFragment)
	mustContain(t, out, "while (true) {")
	mustContain(t, out, "break;")
}

func TestPrint_FunctionCallAndDotProduct(t *testing.T) {
	reg := ir.NewTypeRegistry()
	vec3 := reg.Vector(ir.BaseFloat, 3)
	f := reg.Scalar(ir.BaseFloat)
	a := &ir.DerefVariable{Var: &ir.Variable{Name: "a", Type: vec3, Storage: ir.StorageIn}}
	b := &ir.DerefVariable{Var: &ir.Variable{Name: "b", Type: vec3, Storage: ir.StorageIn}}

	helper := &ir.Function{Name: "lambert", Signatures: []*ir.FunctionSignature{{
		ReturnType: f,
		IsDefined:  true,
		Parameters: []*ir.Variable{a.Var, b.Var},
		Body: ir.List{
			&ir.Return{Value: &ir.BinaryExpr{ResultType: f, Op: ir.OpDot, X: a, Y: b}},
		},
	}}}

	call := &ir.Call{ResultType: f, Callee: helper, Signature: helper.Signatures[0], Arguments: []ir.Rvalue{a, b}}
	out := &ir.Variable{Name: "lighting", Type: f, Storage: ir.StorageOut}
	main := &ir.Function{Name: "main", Signatures: []*ir.FunctionSignature{{
		ReturnType: reg.Void(),
		IsDefined:  true,
		Body: ir.List{
			&ir.Assignment{Lhs: &ir.DerefVariable{Var: out}, Rhs: call, WriteMask: ir.FullMask(1)},
		},
	}}}

	unit := &ir.TranslationUnit{Types: reg, Instructions: ir.List{a.Var, b.Var, out, helper, main}}
	out2 := Print(unit, ir.StageFragment)
	mustContain(t, out2, "float lambert(in vec3 a, in vec3 b) {")
	mustContain(t, out2, "return dot(a, b);")
	mustContain(t, out2, "lighting = lambert(a, b);")
}
