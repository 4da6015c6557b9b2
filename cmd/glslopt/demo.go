// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/gogpu/glslopt/ir"
)

// demoFrontEnd hand-builds a TranslationUnit for one of a small catalogue
// of named fixture shaders instead of lexing and parsing source text.
// Lexing, parsing, and AST-to-HIR lowering are out of scope for this
// module (spec.md §4.1) — there is no real front-end anywhere in it, the
// same way optimize/driver_test.go and glslopt_test.go build IR trees by
// hand rather than through a parser. demoFrontEnd exists only so this
// command has something runnable to drive; it implements ir.FrontEnd and
// treats the source argument as the name of a demo shader, not as text.
type demoFrontEnd struct{}

func (demoFrontEnd) BuildHIR(stage ir.Stage, name string) (*ir.ParseState, error) {
	build, ok := demoShaders[name]
	if !ok {
		return nil, fmt.Errorf("no built-in demo shader named %q (try one of: %s)", name, demoShaderNames())
	}
	reg := ir.NewTypeRegistry()
	unit := &ir.TranslationUnit{Types: reg, Instructions: build(reg)}
	return &ir.ParseState{Stage: stage, TranslationUnit: unit}, nil
}

func demoShaderNames() string {
	out := ""
	for name := range demoShaders {
		if out != "" {
			out += ", "
		}
		out += name
	}
	return out
}

var demoShaders = map[string]func(*ir.TypeRegistry) ir.List{
	"lambert": lambertShader,
}

// lambertShader builds the IR for a single-light Lambertian fragment
// shader: a helper function computing a clamped dot product, a redundant
// copy the pass catalogue should fold away, and a final full-width write
// of the broadcast result to the fragment color.
func lambertShader(reg *ir.TypeRegistry) ir.List {
	vec3 := reg.Vector(ir.BaseFloat, 3)
	f := reg.Scalar(ir.BaseFloat)

	normal := &ir.Variable{Name: "normal", Type: vec3, Storage: ir.StorageIn}
	lightDir := &ir.Variable{Name: "lightDir", Type: vec3, Storage: ir.StorageUniform}
	fragColor := &ir.Variable{Name: "fragColor", Type: vec3, Storage: ir.StorageOut}

	a := &ir.Variable{Name: "a", Type: vec3, Storage: ir.StorageIn}
	b := &ir.Variable{Name: "b", Type: vec3, Storage: ir.StorageIn}
	lambert := &ir.Function{Name: "lambert", Signatures: []*ir.FunctionSignature{{
		ReturnType: f,
		IsDefined:  true,
		Parameters: []*ir.Variable{a, b},
		Body: ir.List{
			&ir.Return{Value: &ir.BinaryExpr{
				ResultType: f, Op: ir.OpMax,
				X: &ir.BinaryExpr{ResultType: f, Op: ir.OpDot,
					X: &ir.DerefVariable{Var: a}, Y: &ir.DerefVariable{Var: b}},
				Y: &ir.Constant{ResultType: f, Value: ir.ConstantValue{Floats: []float32{0}}},
			}},
		},
	}}}

	call := &ir.Call{
		ResultType: f, Callee: lambert, Signature: lambert.Signatures[0],
		Arguments: []ir.Rvalue{&ir.DerefVariable{Var: normal}, &ir.DerefVariable{Var: lightDir}},
	}
	tmp := &ir.Variable{Name: "intensity", Type: f, Storage: ir.StorageTemporary}

	main := &ir.Function{Name: "main", Signatures: []*ir.FunctionSignature{{
		ReturnType: reg.Void(),
		IsDefined:  true,
		Body: ir.List{
			tmp,
			&ir.Assignment{Lhs: &ir.DerefVariable{Var: tmp}, Rhs: call, WriteMask: ir.FullMask(1)},
			&ir.Assignment{
				Lhs: &ir.DerefVariable{Var: fragColor},
				Rhs: &ir.Swizzle{ResultType: vec3, Source: &ir.DerefVariable{Var: tmp}, Mask: ir.Identity(3)},
				WriteMask: ir.FullMask(3),
			},
		},
	}}}

	return ir.List{normal, lightDir, fragColor, lambert, main}
}
