// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package optimize

import "github.com/gogpu/glslopt/ir"

// rewriteAllRvalues applies transform to every Rvalue position reachable
// from list (recursing through If/Loop), replacing it with transform's
// result. transform is expected to recurse into its own operand tree
// itself; this only visits the statement-level slots that hold an
// Rvalue.
func rewriteAllRvalues(list ir.List, transform func(r ir.Rvalue) (ir.Rvalue, bool)) bool {
	changed := false
	rv := func(r ir.Rvalue) ir.Rvalue {
		out, c := transform(r)
		if c {
			changed = true
		}
		return out
	}
	var walk func(l ir.List)
	walk = func(l ir.List) {
		for _, instr := range l {
			switch n := instr.(type) {
			case *ir.Assignment:
				n.Rhs = rv(n.Rhs)
				n.Condition = rv(n.Condition)
				if arr, ok := n.Lhs.(*ir.DerefArray); ok {
					arr.Index = rv(arr.Index)
				}
			case *ir.Call:
				for i, a := range n.Arguments {
					n.Arguments[i] = rv(a)
				}
			case *ir.Return:
				n.Value = rv(n.Value)
			case *ir.Discard:
				n.Condition = rv(n.Condition)
			case *ir.If:
				n.Condition = rv(n.Condition)
				walk(n.Then)
				walk(n.Else)
			case *ir.Loop:
				walk(n.Body)
			}
		}
	}
	walk(list)
	return changed
}

// VecIndexToSwizzle replaces a dynamic single-component index into a
// vector by a compile-time-constant lane number with a single-lane
// Swizzle, grounded on do_vec_index_to_swizzle. The printer renders a
// one-component Swizzle as `.x`/`.y`/`.z`/`.w`, which every target GLSL
// version accepts, where a runtime array-index expression on a vector
// does not parse at all in GLSL-ES.
type VecIndexToSwizzle struct{}

func (p *VecIndexToSwizzle) Name() string { return "vec_index_to_swizzle" }

func (p *VecIndexToSwizzle) Description() string {
	return "Replaces a constant-index vector read with a single-lane swizzle."
}

func (p *VecIndexToSwizzle) Apply(unit *ir.TranslationUnit, b *ir.Builder) bool {
	return forEachSignature(unit, func(sig *ir.FunctionSignature) bool {
		return rewriteAllRvalues(sig.Body, func(r ir.Rvalue) (ir.Rvalue, bool) {
			return vecIndexToSwizzle(r, b)
		})
	})
}

func vecIndexToSwizzle(r ir.Rvalue, b *ir.Builder) (ir.Rvalue, bool) {
	switch n := r.(type) {
	case nil:
		return nil, false
	case *ir.DerefArray:
		changed := false
		if idx, c := vecIndexToSwizzle(n.Index, b); c {
			n.Index = idx
			changed = true
		}
		if n.Array.Type().Kind == ir.TypeVector {
			if c, ok := asConstant(n.Index); ok && len(c.Value.Ints) == 1 {
				lane := int(c.Value.Ints[0])
				if lane >= 0 && lane < n.Array.Type().Cols {
					mask := ir.Mask{Num: 1}
					mask.Components[0] = ir.Component(lane)
					if sw, err := b.SwizzleOf(n.Array, mask); err == nil {
						return sw, true
					}
				}
			}
		}
		return n, changed
	case *ir.UnaryExpr:
		if x, c := vecIndexToSwizzle(n.X, b); c {
			n.X = x
			return n, true
		}
		return n, false
	case *ir.BinaryExpr:
		changed := false
		if x, c := vecIndexToSwizzle(n.X, b); c {
			n.X = x
			changed = true
		}
		if y, c := vecIndexToSwizzle(n.Y, b); c {
			n.Y = y
			changed = true
		}
		return n, changed
	case *ir.Swizzle:
		if s, c := vecIndexToSwizzle(n.Source, b); c {
			n.Source = s
			return n, true
		}
		return n, false
	case *ir.Texture:
		changed := false
		if s, c := vecIndexToSwizzle(n.Sampler, b); c {
			n.Sampler = s
			changed = true
		}
		if co, c := vecIndexToSwizzle(n.Coordinate, b); c {
			n.Coordinate = co
			changed = true
		}
		return n, changed
	case *ir.Call:
		changed := false
		for i, a := range n.Arguments {
			if nv, c := vecIndexToSwizzle(a, b); c {
				n.Arguments[i] = nv
				changed = true
			}
		}
		return n, changed
	default:
		return r, false
	}
}

// SwizzleSwizzle composes a swizzle of a swizzle into a single swizzle,
// grounded on do_swizzle_swizzle.
type SwizzleSwizzle struct{}

func (p *SwizzleSwizzle) Name() string { return "swizzle_swizzle" }

func (p *SwizzleSwizzle) Description() string {
	return "Collapses a swizzle applied to another swizzle into one swizzle."
}

func (p *SwizzleSwizzle) Apply(unit *ir.TranslationUnit, b *ir.Builder) bool {
	return forEachSignature(unit, func(sig *ir.FunctionSignature) bool {
		return rewriteAllRvalues(sig.Body, composeSwizzles)
	})
}

func composeSwizzles(r ir.Rvalue) (ir.Rvalue, bool) {
	switch n := r.(type) {
	case nil:
		return nil, false
	case *ir.Swizzle:
		changed := false
		if s, c := composeSwizzles(n.Source); c {
			n.Source = s
			changed = true
		}
		for {
			inner, ok := n.Source.(*ir.Swizzle)
			if !ok {
				break
			}
			composed := ir.Mask{Num: n.Mask.Num}
			for i := 0; i < n.Mask.Num; i++ {
				composed.Components[i] = inner.Mask.Components[n.Mask.Components[i]]
			}
			n.Mask = composed
			n.Source = inner.Source
			changed = true
		}
		return n, changed
	case *ir.UnaryExpr:
		if x, c := composeSwizzles(n.X); c {
			n.X = x
			return n, true
		}
		return n, false
	case *ir.BinaryExpr:
		changed := false
		if x, c := composeSwizzles(n.X); c {
			n.X = x
			changed = true
		}
		if y, c := composeSwizzles(n.Y); c {
			n.Y = y
			changed = true
		}
		return n, changed
	case *ir.DerefArray:
		if idx, c := composeSwizzles(n.Index); c {
			n.Index = idx
			return n, true
		}
		return n, false
	case *ir.Texture:
		changed := false
		if s, c := composeSwizzles(n.Sampler); c {
			n.Sampler = s
			changed = true
		}
		if co, c := composeSwizzles(n.Coordinate); c {
			n.Coordinate = co
			changed = true
		}
		return n, changed
	case *ir.Call:
		changed := false
		for i, a := range n.Arguments {
			if nv, c := composeSwizzles(a); c {
				n.Arguments[i] = nv
				changed = true
			}
		}
		return n, changed
	default:
		return r, false
	}
}

// NoopSwizzle replaces a swizzle that selects every lane of its source in
// order with the source directly, grounded on do_noop_swizzle.
type NoopSwizzle struct{}

func (p *NoopSwizzle) Name() string { return "noop_swizzle" }

func (p *NoopSwizzle) Description() string {
	return "Removes a swizzle that selects all of its source's lanes in order."
}

func (p *NoopSwizzle) Apply(unit *ir.TranslationUnit, b *ir.Builder) bool {
	return forEachSignature(unit, func(sig *ir.FunctionSignature) bool {
		return rewriteAllRvalues(sig.Body, removeNoopSwizzle)
	})
}

func removeNoopSwizzle(r ir.Rvalue) (ir.Rvalue, bool) {
	switch n := r.(type) {
	case nil:
		return nil, false
	case *ir.Swizzle:
		changed := false
		if s, c := removeNoopSwizzle(n.Source); c {
			n.Source = s
			changed = true
		}
		if n.Mask.IsIdentity() && n.Mask.Num == ir.Components(n.Source.Type()) {
			return n.Source, true
		}
		return n, changed
	case *ir.UnaryExpr:
		if x, c := removeNoopSwizzle(n.X); c {
			n.X = x
			return n, true
		}
		return n, false
	case *ir.BinaryExpr:
		changed := false
		if x, c := removeNoopSwizzle(n.X); c {
			n.X = x
			changed = true
		}
		if y, c := removeNoopSwizzle(n.Y); c {
			n.Y = y
			changed = true
		}
		return n, changed
	case *ir.DerefArray:
		if idx, c := removeNoopSwizzle(n.Index); c {
			n.Index = idx
			return n, true
		}
		return n, false
	case *ir.Texture:
		changed := false
		if s, c := removeNoopSwizzle(n.Sampler); c {
			n.Sampler = s
			changed = true
		}
		if co, c := removeNoopSwizzle(n.Coordinate); c {
			n.Coordinate = co
			changed = true
		}
		return n, changed
	case *ir.Call:
		changed := false
		for i, a := range n.Arguments {
			if nv, c := removeNoopSwizzle(a); c {
				n.Arguments[i] = nv
				changed = true
			}
		}
		return n, changed
	default:
		return r, false
	}
}
