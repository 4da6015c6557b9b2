// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ir

import "fmt"

// Builder constructs type-checked HIR nodes against a shared TypeRegistry.
// Passes that synthesize new nodes (inlining's fresh temporaries, constant
// folding's replacement Constants, algebraic simplification's rewrites)
// go through a Builder rather than filling in ResultType by hand, so a
// mismatched rewrite fails at construction time instead of silently
// producing a tree the validator must later catch.
type Builder struct {
	Types *TypeRegistry
}

// NewBuilder returns a Builder backed by reg.
func NewBuilder(reg *TypeRegistry) *Builder { return &Builder{Types: reg} }

// Unary constructs a UnaryExpr, computing its result type from op and x's
// type, and returns an error if op cannot apply to x's base kind.
func (b *Builder) Unary(op UnaryOp, x Rvalue) (*UnaryExpr, error) {
	xt := x.Type()
	if xt.Kind != TypeScalar && xt.Kind != TypeVector {
		return nil, fmt.Errorf("ir: unary %s requires scalar or vector operand, got %s", op.OpName(), describeType(xt))
	}
	resultBase := op.ResultBaseKind(xt.Base)
	var result *Type
	if xt.Kind == TypeScalar {
		result = b.Types.Scalar(resultBase)
	} else {
		result = b.Types.Vector(resultBase, xt.Cols)
	}
	return &UnaryExpr{ResultType: result, Op: op, X: x}, nil
}

// Binary constructs a BinaryExpr, computing its result type from op and
// the operand types following spec.md §4.3's broadcasting and comparison
// rules, and returns an error on an invalid shape combination.
func (b *Builder) Binary(op BinaryOp, x, y Rvalue) (*BinaryExpr, error) {
	xt, yt := x.Type(), y.Type()

	if op == OpDot {
		if xt.Kind != TypeVector || yt.Kind != TypeVector || xt.Cols != yt.Cols {
			return nil, fmt.Errorf("ir: dot requires equal-width vectors, got %s and %s", describeType(xt), describeType(yt))
		}
		return &BinaryExpr{ResultType: b.Types.Scalar(xt.Base), Op: op, X: x, Y: y}, nil
	}
	if op == OpCross {
		if xt.Kind != TypeVector || xt.Cols != 3 || yt.Kind != TypeVector || yt.Cols != 3 {
			return nil, fmt.Errorf("ir: cross requires two vec3 operands, got %s and %s", describeType(xt), describeType(yt))
		}
		return &BinaryExpr{ResultType: xt, Op: op, X: x, Y: y}, nil
	}
	if op == OpShl || op == OpShr {
		// Shifts preserve the left operand's type (spec.md §4.3).
		return &BinaryExpr{ResultType: xt, Op: op, X: x, Y: y}, nil
	}

	resultShape, err := broadcastShape(xt, yt)
	if err != nil {
		return nil, fmt.Errorf("ir: %s: %w", op.Symbol(), err)
	}

	var result *Type
	switch {
	case op.IsComparison():
		if resultShape.Kind == TypeScalar {
			result = b.Types.Scalar(BaseBool)
		} else {
			result = b.Types.Vector(BaseBool, resultShape.Cols)
		}
	default:
		result = resultShape
	}
	return &BinaryExpr{ResultType: result, Op: op, X: x, Y: y}, nil
}

// broadcastShape returns the scalar/vector shape an arithmetic binary
// opcode produces from x and y: matching shapes pass through unchanged; a
// scalar paired with a vector broadcasts to the vector's width.
func broadcastShape(x, y *Type) (*Type, error) {
	switch {
	case x.Kind == TypeVector && y.Kind == TypeVector:
		if x.Cols != y.Cols {
			return nil, fmt.Errorf("mismatched vector widths %d and %d", x.Cols, y.Cols)
		}
		return x, nil
	case x.Kind == TypeVector && y.Kind == TypeScalar:
		return x, nil
	case x.Kind == TypeScalar && y.Kind == TypeVector:
		return y, nil
	case x.Kind == TypeScalar && y.Kind == TypeScalar:
		return x, nil
	default:
		return nil, fmt.Errorf("incompatible operand shapes %s and %s", describeType(x), describeType(y))
	}
}

// SwizzleOf constructs a Swizzle over source with the given mask,
// deriving the result type from the mask width and the source's base
// kind.
func (b *Builder) SwizzleOf(source Rvalue, mask Mask) (*Swizzle, error) {
	st := source.Type()
	if st.Kind != TypeVector && st.Kind != TypeScalar {
		return nil, fmt.Errorf("ir: swizzle source must be scalar or vector, got %s", describeType(st))
	}
	var result *Type
	if mask.Num == 1 {
		result = b.Types.Scalar(st.Base)
	} else {
		result = b.Types.Vector(st.Base, mask.Num)
	}
	return &Swizzle{ResultType: result, Source: source, Mask: mask}, nil
}

// Assign constructs an Assignment, validating that popcount(writeMask)
// equals rhs's vector width whenever writeMask is a strict subset of
// lhs's lanes (spec.md §3 Assignment invariant).
func (b *Builder) Assign(lhs Lvalue, rhs Rvalue, writeMask uint8, cond Rvalue) (*Assignment, error) {
	lhsWidth := Components(lhs.Type())
	full := FullMask(lhsWidth)
	if writeMask != full {
		n := popcount(writeMask)
		rhsWidth := Components(rhs.Type())
		if n != rhsWidth {
			return nil, fmt.Errorf("ir: write mask selects %d lanes but rhs has width %d", n, rhsWidth)
		}
	}
	return &Assignment{Lhs: lhs, Rhs: rhs, WriteMask: writeMask, Condition: cond}, nil
}

func popcount(mask uint8) int {
	n := 0
	for mask != 0 {
		n += int(mask & 1)
		mask >>= 1
	}
	return n
}

func describeType(t *Type) string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case TypeScalar:
		return t.Base.String()
	case TypeVector:
		return fmt.Sprintf("vec%d<%s>", t.Cols, t.Base)
	case TypeMatrix:
		return fmt.Sprintf("mat%dx%d<%s>", t.Cols, t.Rows, t.Base)
	case TypeArray:
		return fmt.Sprintf("%s[%d]", describeType(t.Elem), t.Length)
	case TypeStruct:
		return t.Name
	case TypeSampler:
		return "sampler"
	default:
		return "void"
	}
}
