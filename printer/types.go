// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package printer

import (
	"fmt"
	"strings"

	"github.com/gogpu/glslopt/ir"
)

// typeName returns a type's base spelling, unwrapping arrays to their
// element type — array brackets are attached to the variable name by
// declString/typeNamePost, not to the type, matching print_type's split
// from print_type_post.
func (p *Printer) typeName(t *ir.Type) string {
	switch t.Kind {
	case ir.TypeVoid:
		return "void"
	case ir.TypeScalar:
		return scalarName(t.Base)
	case ir.TypeVector:
		return vectorName(t.Base, t.Cols)
	case ir.TypeMatrix:
		return matrixName(t.Cols, t.Rows)
	case ir.TypeStruct:
		return t.Name
	case ir.TypeSampler:
		return samplerName(t.Sampler)
	case ir.TypeArray:
		return p.typeName(t.Elem)
	default:
		return "?"
	}
}

func scalarName(b ir.BaseKind) string {
	switch b {
	case ir.BaseBool:
		return "bool"
	case ir.BaseInt:
		return "int"
	case ir.BaseUint:
		return "uint"
	case ir.BaseFloat:
		return "float"
	default:
		return "void"
	}
}

func vectorName(b ir.BaseKind, n int) string {
	switch b {
	case ir.BaseBool:
		return fmt.Sprintf("bvec%d", n)
	case ir.BaseInt:
		return fmt.Sprintf("ivec%d", n)
	case ir.BaseUint:
		return fmt.Sprintf("uvec%d", n)
	default:
		return fmt.Sprintf("vec%d", n)
	}
}

func matrixName(cols, rows int) string {
	if cols == rows {
		return fmt.Sprintf("mat%d", cols)
	}
	return fmt.Sprintf("mat%dx%d", cols, rows)
}

func samplerName(k ir.SamplerKind) string {
	switch k {
	case ir.Sampler2D:
		return "sampler2D"
	case ir.Sampler3D:
		return "sampler3D"
	case ir.SamplerCube:
		return "samplerCube"
	case ir.Sampler2DShadow:
		return "sampler2DShadow"
	case ir.SamplerCubeShadow:
		return "samplerCubeShadow"
	default:
		return "sampler2D"
	}
}

// declString renders "T name" for a scalar/vector/matrix/struct/sampler
// type, or "T name[N]..." for an array, with bracket suffixes attached to
// the name rather than the base type spelling.
func (p *Printer) declString(t *ir.Type, name string) string {
	base, suffix := p.typeNamePost(t)
	return base + " " + name + suffix
}

func (p *Printer) typeNamePost(t *ir.Type) (base, suffix string) {
	if t.Kind != ir.TypeArray {
		return p.typeName(t), ""
	}
	innerBase, innerSuffix := p.typeNamePost(t.Elem)
	var length string
	if t.Length > 0 {
		length = fmt.Sprintf("[%d]", t.Length)
	} else {
		length = "[]"
	}
	return innerBase, length + innerSuffix
}

// variableDeclString renders a Variable declaration: invariant/qualifier/
// centroid/interpolation prefixes followed by its type+name. generic
// forces the qualifier-free-of-stage-keywords spelling table, used for
// function-signature parameters (spec: "Variables inside a function
// signature print with qualifiers set to the generic table").
func (p *Printer) variableDeclString(v *ir.Variable, generic bool) string {
	var b strings.Builder
	if v.Invariant {
		b.WriteString("invariant ")
	}
	b.WriteString(qualifierKeyword(p.stage, generic, v.Storage))
	if v.Centroid {
		b.WriteString("centroid ")
	}
	if v.Storage == ir.StorageIn || v.Storage == ir.StorageOut || v.Storage == ir.StorageInout {
		switch v.Interp {
		case ir.InterpFlat:
			b.WriteString("flat ")
		case ir.InterpNoperspective:
			b.WriteString("noperspective ")
		}
	}
	b.WriteString(p.declString(v.Type, v.Name))
	return b.String()
}
