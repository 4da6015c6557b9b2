// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package optimize

import "github.com/gogpu/glslopt/ir"

// Algebraic rewrites a binary expression with an identity-element operand
// into its non-identity operand directly, grounded on do_algebraic: x+0,
// 0+x, x-0, x*1, 1*x, x/1 collapse to x; x*0 and 0*x collapse to a zero
// literal of the expression's own type.
//
// Scope limit: identities are only recognized for float-base operands,
// matching ConstantFolding's scope — the int/uint/bool forms of these
// identities are real but unexercised by the float-heavy arithmetic this
// catalogue's other passes tend to produce.
type Algebraic struct{}

func (p *Algebraic) Name() string { return "algebraic" }

func (p *Algebraic) Description() string {
	return "Collapses a binary expression against an additive or multiplicative identity."
}

func (p *Algebraic) Apply(unit *ir.TranslationUnit, b *ir.Builder) bool {
	return forEachSignature(unit, func(sig *ir.FunctionSignature) bool {
		return algebraicList(sig.Body)
	})
}

func algebraicList(list ir.List) bool {
	changed := false
	for _, instr := range list {
		switch n := instr.(type) {
		case *ir.Assignment:
			if r, c := algebraicRv(n.Rhs); c {
				n.Rhs = r
				changed = true
			}
			if r, c := algebraicRv(n.Condition); c {
				n.Condition = r
				changed = true
			}
			if arr, ok := n.Lhs.(*ir.DerefArray); ok {
				if r, c := algebraicRv(arr.Index); c {
					arr.Index = r
					changed = true
				}
			}
		case *ir.Call:
			for i, a := range n.Arguments {
				if r, c := algebraicRv(a); c {
					n.Arguments[i] = r
					changed = true
				}
			}
		case *ir.Return:
			if r, c := algebraicRv(n.Value); c {
				n.Value = r
				changed = true
			}
		case *ir.Discard:
			if r, c := algebraicRv(n.Condition); c {
				n.Condition = r
				changed = true
			}
		case *ir.If:
			if r, c := algebraicRv(n.Condition); c {
				n.Condition = r
				changed = true
			}
			if algebraicList(n.Then) {
				changed = true
			}
			if algebraicList(n.Else) {
				changed = true
			}
		case *ir.Loop:
			if algebraicList(n.Body) {
				changed = true
			}
		}
	}
	return changed
}

func algebraicRv(r ir.Rvalue) (ir.Rvalue, bool) {
	switch n := r.(type) {
	case nil:
		return nil, false
	case *ir.UnaryExpr:
		if x, c := algebraicRv(n.X); c {
			n.X = x
			return n, true
		}
		return n, false
	case *ir.BinaryExpr:
		changed := false
		if x, c := algebraicRv(n.X); c {
			n.X = x
			changed = true
		}
		if y, c := algebraicRv(n.Y); c {
			n.Y = y
			changed = true
		}
		if ir.BaseKindOf(n.ResultType) == ir.BaseFloat {
			if simplified, ok := simplifyAlgebraic(n); ok {
				return simplified, true
			}
		}
		return n, changed
	case *ir.Swizzle:
		if s, c := algebraicRv(n.Source); c {
			n.Source = s
			return n, true
		}
		return n, false
	case *ir.DerefArray:
		if idx, c := algebraicRv(n.Index); c {
			n.Index = idx
			return n, true
		}
		return n, false
	case *ir.Texture:
		changed := false
		if s, c := algebraicRv(n.Sampler); c {
			n.Sampler = s
			changed = true
		}
		if co, c := algebraicRv(n.Coordinate); c {
			n.Coordinate = co
			changed = true
		}
		return n, changed
	case *ir.Call:
		changed := false
		for i, a := range n.Arguments {
			if nv, c := algebraicRv(a); c {
				n.Arguments[i] = nv
				changed = true
			}
		}
		return n, changed
	default:
		return r, false
	}
}

func simplifyAlgebraic(n *ir.BinaryExpr) (ir.Rvalue, bool) {
	cx, xIsConst := asConstant(n.X)
	cy, yIsConst := asConstant(n.Y)
	switch n.Op {
	case ir.OpAdd:
		if yIsConst && isAllFloat(cy, 0) {
			return n.X, true
		}
		if xIsConst && isAllFloat(cx, 0) {
			return n.Y, true
		}
	case ir.OpSub:
		if yIsConst && isAllFloat(cy, 0) {
			return n.X, true
		}
	case ir.OpMul:
		if yIsConst && isAllFloat(cy, 1) {
			return n.X, true
		}
		if xIsConst && isAllFloat(cx, 1) {
			return n.Y, true
		}
		if (yIsConst && isAllFloat(cy, 0)) || (xIsConst && isAllFloat(cx, 0)) {
			return zeroConstant(n.ResultType), true
		}
	case ir.OpDiv:
		if yIsConst && isAllFloat(cy, 1) {
			return n.X, true
		}
	}
	return nil, false
}

func isAllFloat(c *ir.Constant, val float32) bool {
	if len(c.Value.Floats) == 0 {
		return false
	}
	for _, v := range c.Value.Floats {
		if v != val {
			return false
		}
	}
	return true
}

func zeroConstant(t *ir.Type) *ir.Constant {
	return &ir.Constant{ResultType: t, Value: ir.ConstantValue{Floats: make([]float32, ir.Components(t))}}
}
