// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ir

import "fmt"

// BaseKind is the scalar element kind underlying scalars, vectors, and
// matrices.
type BaseKind int

const (
	BaseVoid BaseKind = iota
	BaseBool
	BaseInt
	BaseUint
	BaseFloat
)

func (b BaseKind) String() string {
	switch b {
	case BaseBool:
		return "bool"
	case BaseInt:
		return "int"
	case BaseUint:
		return "uint"
	case BaseFloat:
		return "float"
	default:
		return "void"
	}
}

// SamplerKind distinguishes the handful of sampler shapes the language
// supports; the printer maps these to GLSL's samplerND / samplerNDShadow
// spellings.
type SamplerKind int

const (
	Sampler2D SamplerKind = iota
	Sampler3D
	SamplerCube
	Sampler2DShadow
	SamplerCubeShadow
)

// TypeKind discriminates the shape of a Type descriptor.
type TypeKind int

const (
	TypeVoid TypeKind = iota
	TypeScalar
	TypeVector
	TypeMatrix
	TypeArray
	TypeStruct
	TypeSampler
)

// StructField is one (name, type) member of a struct Type, in declaration
// order.
type StructField struct {
	Name string
	Type *Type
}

// Type is a canonical type descriptor. Two Types constructed with
// identical parameters through a TypeRegistry are the same *Type value —
// structural equality is pointer identity once interned.
type Type struct {
	Kind    TypeKind
	Base    BaseKind // scalar/vector/matrix element kind
	Cols    int      // vector width, or matrix column count (1 for scalar)
	Rows    int      // matrix row count (1 for scalar and vector)
	Elem    *Type    // array element type
	Length  int      // array length; 0 means runtime-sized
	Name    string   // struct type name
	Fields  []StructField
	Sampler SamplerKind
}

// Components returns the number of scalar lanes a type occupies: 1 for
// scalars, the vector width for vectors, cols*rows for matrices, the
// field count for structs, and the element count for fixed-size arrays.
func Components(t *Type) int {
	switch t.Kind {
	case TypeScalar:
		return 1
	case TypeVector:
		return t.Cols
	case TypeMatrix:
		return t.Cols * t.Rows
	case TypeStruct:
		return len(t.Fields)
	case TypeArray:
		return t.Length
	default:
		return 0
	}
}

// IsArray reports whether t is an array type.
func IsArray(t *Type) bool { return t.Kind == TypeArray }

// BaseKindOf returns the scalar kind underlying a scalar, vector, or
// matrix type, and BaseVoid otherwise.
func BaseKindOf(t *Type) BaseKind {
	switch t.Kind {
	case TypeScalar, TypeVector, TypeMatrix:
		return t.Base
	default:
		return BaseVoid
	}
}

// GetInstance returns the canonical scalar/vector/matrix type for the
// given base kind and shape: cols==1,rows==1 is a scalar; rows==1 is a
// vector of width cols; otherwise a cols x rows matrix.
func (r *TypeRegistry) GetInstance(base BaseKind, cols, rows int) *Type {
	switch {
	case cols <= 1 && rows <= 1:
		return r.Scalar(base)
	case rows <= 1:
		return r.Vector(base, cols)
	default:
		return r.Matrix(base, cols, rows)
	}
}

// TypeRegistry interns Type descriptors so structural equality reduces to
// pointer identity, matching the spec's canonicalization invariant.
// Grounded on the naga ir.TypeRegistry string-keyed dedup pattern.
type TypeRegistry struct {
	byKey map[string]*Type
	all   []*Type
}

// NewTypeRegistry returns an empty registry; every type, void included, is
// interned on first request.
func NewTypeRegistry() *TypeRegistry {
	r := &TypeRegistry{byKey: make(map[string]*Type)}
	return r
}

func (r *TypeRegistry) intern(key string, build func() *Type) *Type {
	if t, ok := r.byKey[key]; ok {
		return t
	}
	t := build()
	r.byKey[key] = t
	r.all = append(r.all, t)
	return t
}

// Void returns the canonical void type.
func (r *TypeRegistry) Void() *Type {
	return r.intern("void", func() *Type { return &Type{Kind: TypeVoid, Name: "void"} })
}

// Scalar returns the canonical scalar type of the given base kind.
func (r *TypeRegistry) Scalar(base BaseKind) *Type {
	key := fmt.Sprintf("scalar:%d", base)
	return r.intern(key, func() *Type {
		return &Type{Kind: TypeScalar, Base: base, Cols: 1, Rows: 1, Name: base.String()}
	})
}

// Vector returns the canonical vector type of the given base kind and
// width (2, 3, or 4).
func (r *TypeRegistry) Vector(base BaseKind, width int) *Type {
	key := fmt.Sprintf("vector:%d:%d", base, width)
	return r.intern(key, func() *Type {
		return &Type{Kind: TypeVector, Base: base, Cols: width, Rows: 1}
	})
}

// Matrix returns the canonical cols x rows matrix type over base.
func (r *TypeRegistry) Matrix(base BaseKind, cols, rows int) *Type {
	key := fmt.Sprintf("matrix:%d:%d:%d", base, cols, rows)
	return r.intern(key, func() *Type {
		return &Type{Kind: TypeMatrix, Base: base, Cols: cols, Rows: rows}
	})
}

// Array returns the canonical array type of elem with the given length;
// length 0 means runtime-sized.
func (r *TypeRegistry) Array(elem *Type, length int) *Type {
	key := fmt.Sprintf("array:%p:%d", elem, length)
	return r.intern(key, func() *Type {
		return &Type{Kind: TypeArray, Elem: elem, Length: length}
	})
}

// Struct returns the canonical struct type with the given name and
// ordered fields. Two structs with the same name and field list (even if
// constructed independently) resolve to the same descriptor.
func (r *TypeRegistry) Struct(name string, fields []StructField) *Type {
	key := "struct:" + name
	for _, f := range fields {
		key += fmt.Sprintf(":%s=%p", f.Name, f.Type)
	}
	return r.intern(key, func() *Type {
		return &Type{Kind: TypeStruct, Name: name, Fields: fields}
	})
}

// Sampler returns the canonical sampler type of the given kind.
func (r *TypeRegistry) Sampler(kind SamplerKind) *Type {
	key := fmt.Sprintf("sampler:%d", kind)
	return r.intern(key, func() *Type {
		return &Type{Kind: TypeSampler, Sampler: kind}
	})
}

// Count returns the number of distinct interned types.
func (r *TypeRegistry) Count() int { return len(r.all) }
