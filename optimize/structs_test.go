// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package optimize

import (
	"testing"

	"github.com/gogpu/glslopt/ir"
)

func TestStructureSplitting_SplitsFieldOnlyLocal(t *testing.T) {
	reg := ir.NewTypeRegistry()
	f := reg.Scalar(ir.BaseFloat)
	s := reg.Struct("S", []ir.StructField{{Name: "a", Type: f}, {Name: "b", Type: f}})
	v := &ir.Variable{Name: "s", Type: s, Storage: ir.StorageTemporary}
	out := &ir.Variable{Name: "out", Type: f, Storage: ir.StorageOut}

	assignA := &ir.Assignment{
		Lhs:       &ir.DerefRecord{ResultType: f, Record: &ir.DerefVariable{Var: v}, Field: "a"},
		Rhs:       &ir.Constant{ResultType: f, Value: ir.ConstantValue{Floats: []float32{1}}},
		WriteMask: ir.FullMask(1),
	}
	readA := &ir.Assignment{
		Lhs:       &ir.DerefVariable{Var: out},
		Rhs:       &ir.DerefRecord{ResultType: f, Record: &ir.DerefVariable{Var: v}, Field: "a"},
		WriteMask: ir.FullMask(1),
	}
	body := ir.List{v, assignA, readA}

	if !trySplitStruct(&body, body) {
		t.Fatal("expected the field-only-accessed struct local to be split")
	}
	if len(body) != 4 {
		t.Fatalf("expected the struct declaration to become two field declarations, got %d statements: %#v", len(body), body)
	}
	if _, ok := body[0].(*ir.Variable); !ok {
		t.Fatalf("expected a field variable declaration at index 0, got %#v", body[0])
	}
	if _, ok := body[1].(*ir.Variable); !ok {
		t.Fatalf("expected a field variable declaration at index 1, got %#v", body[1])
	}

	asn, ok := body[2].(*ir.Assignment)
	if !ok {
		t.Fatalf("expected the field write to remain an assignment, got %#v", body[2])
	}
	dv, ok := asn.Lhs.(*ir.DerefVariable)
	if !ok || dv.Var.Name != "s_a" {
		t.Fatalf("expected the write's DerefRecord to be rewritten to a direct reference to s_a, got %#v", asn.Lhs)
	}

	read, ok := body[3].(*ir.Assignment)
	if !ok {
		t.Fatalf("expected the field read to remain an assignment, got %#v", body[3])
	}
	rdv, ok := read.Rhs.(*ir.DerefVariable)
	if !ok || rdv.Var.Name != "s_a" {
		t.Fatalf("expected the read's DerefRecord to be rewritten to a direct reference to s_a, got %#v", read.Rhs)
	}
}

func TestStructureSplitting_LeavesWholeValueUseAlone(t *testing.T) {
	reg := ir.NewTypeRegistry()
	f := reg.Scalar(ir.BaseFloat)
	s := reg.Struct("S", []ir.StructField{{Name: "a", Type: f}})
	v := &ir.Variable{Name: "s", Type: s, Storage: ir.StorageTemporary}
	other := &ir.Variable{Name: "other", Type: s, Storage: ir.StorageTemporary}

	// s is assigned as a whole value to another struct local, so it must
	// not be split: there would be nowhere to reconstruct the aggregate.
	wholeAssign := &ir.Assignment{Lhs: &ir.DerefVariable{Var: other}, Rhs: &ir.DerefVariable{Var: v}, WriteMask: ir.FullMask(1)}
	body := ir.List{v, other, wholeAssign}

	if trySplitStruct(&body, body) {
		t.Fatal("expected a struct local with a whole-value use to be left alone")
	}
}
