// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package optimize

import "github.com/gogpu/glslopt/ir"

// ConstantPropagation replaces reads of a variable known, at that program
// point, to hold a literal value with that literal directly, grounded on
// do_constant_propagation. Scoped like CopyPropagation: a single linear
// scan per List, reset on entry to an If arm or Loop body.
type ConstantPropagation struct{}

func (p *ConstantPropagation) Name() string { return "constant_propagation" }

func (p *ConstantPropagation) Description() string {
	return "Replaces reads of a variable holding a known literal with that literal."
}

func (p *ConstantPropagation) Apply(unit *ir.TranslationUnit, b *ir.Builder) bool {
	return forEachSignature(unit, func(sig *ir.FunctionSignature) bool {
		return constPropagateList(sig.Body)
	})
}

func constPropagateList(list ir.List) bool {
	changed := false
	known := map[*ir.Variable]*ir.Constant{}

	invalidate := func(v *ir.Variable) { delete(known, v) }

	var sub func(r ir.Rvalue) ir.Rvalue
	sub = func(r ir.Rvalue) ir.Rvalue {
		switch n := r.(type) {
		case nil:
			return nil
		case *ir.DerefVariable:
			if c, ok := known[n.Var]; ok {
				changed = true
				return c
			}
			return n
		case *ir.UnaryExpr:
			n.X = sub(n.X)
			return n
		case *ir.BinaryExpr:
			n.X = sub(n.X)
			n.Y = sub(n.Y)
			return n
		case *ir.Swizzle:
			n.Source = sub(n.Source)
			return n
		case *ir.DerefArray:
			n.Index = sub(n.Index)
			return n
		case *ir.Texture:
			n.Sampler = sub(n.Sampler)
			n.Coordinate = sub(n.Coordinate)
			return n
		case *ir.Call:
			for i, a := range n.Arguments {
				n.Arguments[i] = sub(a)
			}
			return n
		default:
			return r
		}
	}

	for _, instr := range list {
		switch n := instr.(type) {
		case *ir.Assignment:
			n.Rhs = sub(n.Rhs)
			n.Condition = sub(n.Condition)
			if arr, ok := n.Lhs.(*ir.DerefArray); ok {
				arr.Index = sub(arr.Index)
			}
			dv, ok := n.Lhs.(*ir.DerefVariable)
			if !ok {
				if arr, ok := n.Lhs.(*ir.DerefArray); ok {
					if base := variableRef(arr.Array); base != nil {
						invalidate(base)
					}
				}
				continue
			}
			invalidate(dv.Var)
			if n.Condition == nil && n.WriteMask == ir.FullMask(ir.Components(dv.Var.Type)) {
				if c, ok := asConstant(n.Rhs); ok {
					known[dv.Var] = c
				}
			}

		case *ir.Call:
			for i, a := range n.Arguments {
				n.Arguments[i] = sub(a)
			}

		case *ir.Return:
			n.Value = sub(n.Value)

		case *ir.Discard:
			n.Condition = sub(n.Condition)

		case *ir.If:
			n.Condition = sub(n.Condition)
			if constPropagateList(n.Then) {
				changed = true
			}
			if constPropagateList(n.Else) {
				changed = true
			}
			known = map[*ir.Variable]*ir.Constant{}

		case *ir.Loop:
			if constPropagateList(n.Body) {
				changed = true
			}
			known = map[*ir.Variable]*ir.Constant{}
		}
	}
	return changed
}

// ConstantVariableUnlinked replaces every read of a local variable with
// its value when that variable is assigned a literal exactly once, with
// no other write anywhere in its declaring function, grounded on
// do_constant_variable_unlinked — the whole-function counterpart to
// ConstantPropagation's single-scan version.
type ConstantVariableUnlinked struct{}

func (p *ConstantVariableUnlinked) Name() string { return "constant_variable_unlinked" }

func (p *ConstantVariableUnlinked) Description() string {
	return "Replaces every read of a write-once literal local with that literal."
}

func (p *ConstantVariableUnlinked) Apply(unit *ir.TranslationUnit, b *ir.Builder) bool {
	for _, fn := range functions(unit) {
		for _, sig := range fn.Signatures {
			for _, v := range allLocalVars(sig.Body) {
				c, ok := soleConstantAssignment(sig.Body, v)
				if !ok {
					continue
				}
				if replaceVariableUses(sig.Body, v, func() ir.Rvalue { return c }) > 0 {
					return true
				}
			}
		}
	}
	return false
}

func allLocalVars(list ir.List) []*ir.Variable {
	var out []*ir.Variable
	var walk func(l ir.List)
	walk = func(l ir.List) {
		for _, instr := range l {
			switch n := instr.(type) {
			case *ir.Variable:
				if n.Storage == ir.StorageTemporary || n.Storage == ir.StorageAuto {
					out = append(out, n)
				}
			case *ir.If:
				walk(n.Then)
				walk(n.Else)
			case *ir.Loop:
				walk(n.Body)
			}
		}
	}
	walk(list)
	return out
}

// soleConstantAssignment reports the literal v is assigned, when v is
// written to exactly once in list (recursively), with a full-width,
// unconditional Constant right-hand side.
func soleConstantAssignment(list ir.List, v *ir.Variable) (*ir.Constant, bool) {
	var found *ir.Constant
	ok := true
	count := 0
	var walk func(l ir.List)
	walk = func(l ir.List) {
		for _, instr := range l {
			switch n := instr.(type) {
			case *ir.Assignment:
				if dv, is := n.Lhs.(*ir.DerefVariable); is && dv.Var == v {
					count++
					if n.Condition != nil || n.WriteMask != ir.FullMask(ir.Components(v.Type)) {
						ok = false
					} else if c, is := asConstant(n.Rhs); is {
						found = c
					} else {
						ok = false
					}
				}
				if arr, is := n.Lhs.(*ir.DerefArray); is && variableRef(arr.Array) == v {
					count++
					ok = false
				}
			case *ir.If:
				walk(n.Then)
				walk(n.Else)
			case *ir.Loop:
				walk(n.Body)
			}
		}
	}
	walk(list)
	if !ok || count != 1 || found == nil {
		return nil, false
	}
	return found, true
}

// ConstantFolding evaluates a unary or binary expression whose operands
// are both literals into a single literal, grounded on do_constant_folding.
// Equality and inequality (==, !=) fold for operands of any base kind;
// arithmetic folding is narrower, see below.
//
// Scope limit: arithmetic folding (+, -, *, /) is only evaluated for
// float-base operands, and the only unary ops evaluated are the two
// float/int conversions (f2i, i2f). int/uint
// arithmetic folding and the transcendental unary ops (sqrt, sin, cos,
// ...) are left unfolded — the common case this catalogue's other passes
// produce (literal math introduced by copy/constant propagation) is float
// arithmetic, and widening the evaluator to every opcode is
// straightforward but not exercised by the shaders this pass catalogue is
// meant to simplify.
type ConstantFolding struct{}

func (p *ConstantFolding) Name() string { return "constant_folding" }

func (p *ConstantFolding) Description() string {
	return "Evaluates arithmetic over literal operands into a single literal."
}

func (p *ConstantFolding) Apply(unit *ir.TranslationUnit, b *ir.Builder) bool {
	return forEachSignature(unit, func(sig *ir.FunctionSignature) bool {
		return foldList(sig.Body)
	})
}

func foldList(list ir.List) bool {
	changed := false
	for _, instr := range list {
		switch n := instr.(type) {
		case *ir.Assignment:
			if r, c := foldRv(n.Rhs); c {
				n.Rhs = r
				changed = true
			}
			if r, c := foldRv(n.Condition); c {
				n.Condition = r
				changed = true
			}
			if arr, ok := n.Lhs.(*ir.DerefArray); ok {
				if r, c := foldRv(arr.Index); c {
					arr.Index = r
					changed = true
				}
			}
		case *ir.Call:
			for i, a := range n.Arguments {
				if r, c := foldRv(a); c {
					n.Arguments[i] = r
					changed = true
				}
			}
		case *ir.Return:
			if r, c := foldRv(n.Value); c {
				n.Value = r
				changed = true
			}
		case *ir.Discard:
			if r, c := foldRv(n.Condition); c {
				n.Condition = r
				changed = true
			}
		case *ir.If:
			if r, c := foldRv(n.Condition); c {
				n.Condition = r
				changed = true
			}
			if foldList(n.Then) {
				changed = true
			}
			if foldList(n.Else) {
				changed = true
			}
		case *ir.Loop:
			if foldList(n.Body) {
				changed = true
			}
		}
	}
	return changed
}

func foldRv(r ir.Rvalue) (ir.Rvalue, bool) {
	switch n := r.(type) {
	case nil:
		return nil, false
	case *ir.UnaryExpr:
		changed := false
		if x, c := foldRv(n.X); c {
			n.X = x
			changed = true
		}
		if c, ok := asConstant(n.X); ok {
			if folded, ok := foldUnary(n.Op, n.ResultType, c); ok {
				return folded, true
			}
		}
		return n, changed
	case *ir.BinaryExpr:
		changed := false
		if x, c := foldRv(n.X); c {
			n.X = x
			changed = true
		}
		if y, c := foldRv(n.Y); c {
			n.Y = y
			changed = true
		}
		if cx, ok := asConstant(n.X); ok {
			if cy, ok := asConstant(n.Y); ok {
				if folded, ok := foldBinary(n.Op, n.ResultType, cx, cy); ok {
					return folded, true
				}
			}
		}
		return n, changed
	case *ir.Swizzle:
		if s, c := foldRv(n.Source); c {
			n.Source = s
			return n, true
		}
		return n, false
	case *ir.DerefArray:
		if idx, c := foldRv(n.Index); c {
			n.Index = idx
			return n, true
		}
		return n, false
	case *ir.Texture:
		changed := false
		if s, c := foldRv(n.Sampler); c {
			n.Sampler = s
			changed = true
		}
		if co, c := foldRv(n.Coordinate); c {
			n.Coordinate = co
			changed = true
		}
		return n, changed
	case *ir.Call:
		changed := false
		for i, a := range n.Arguments {
			if nv, c := foldRv(a); c {
				n.Arguments[i] = nv
				changed = true
			}
		}
		return n, changed
	default:
		return r, false
	}
}

func foldUnary(op ir.UnaryOp, resultType *ir.Type, c *ir.Constant) (*ir.Constant, bool) {
	switch op {
	case ir.OpNegate:
		if ir.BaseKindOf(resultType) != ir.BaseFloat || len(c.Value.Floats) == 0 {
			return nil, false
		}
		out := make([]float32, len(c.Value.Floats))
		for i, v := range c.Value.Floats {
			out[i] = -v
		}
		return &ir.Constant{ResultType: resultType, Value: ir.ConstantValue{Floats: out}}, true
	case ir.OpLogicalNot:
		if len(c.Value.Bools) == 0 {
			return nil, false
		}
		out := make([]bool, len(c.Value.Bools))
		for i, v := range c.Value.Bools {
			out[i] = !v
		}
		return &ir.Constant{ResultType: resultType, Value: ir.ConstantValue{Bools: out}}, true
	case ir.OpF2I:
		if len(c.Value.Floats) == 0 {
			return nil, false
		}
		out := make([]int32, len(c.Value.Floats))
		for i, v := range c.Value.Floats {
			out[i] = int32(v)
		}
		return &ir.Constant{ResultType: resultType, Value: ir.ConstantValue{Ints: out}}, true
	case ir.OpI2F:
		if len(c.Value.Ints) == 0 {
			return nil, false
		}
		out := make([]float32, len(c.Value.Ints))
		for i, v := range c.Value.Ints {
			out[i] = float32(v)
		}
		return &ir.Constant{ResultType: resultType, Value: ir.ConstantValue{Floats: out}}, true
	default:
		return nil, false
	}
}

func foldBinary(op ir.BinaryOp, resultType *ir.Type, a, b *ir.Constant) (*ir.Constant, bool) {
	if op == ir.OpEq || op == ir.OpNe {
		eq := constantEqual(a, b)
		return &ir.Constant{ResultType: resultType, Value: ir.ConstantValue{Bools: []bool{eq == (op == ir.OpEq)}}}, true
	}
	if ir.BaseKindOf(resultType) != ir.BaseFloat {
		return nil, false
	}
	width := ir.Components(resultType)
	la, lb := floatLanes(a, width), floatLanes(b, width)
	if la == nil || lb == nil {
		return nil, false
	}
	out := make([]float32, width)
	switch op {
	case ir.OpAdd:
		for i := range out {
			out[i] = la[i] + lb[i]
		}
	case ir.OpSub:
		for i := range out {
			out[i] = la[i] - lb[i]
		}
	case ir.OpMul:
		for i := range out {
			out[i] = la[i] * lb[i]
		}
	case ir.OpDiv:
		for i := range out {
			if lb[i] == 0 {
				return nil, false
			}
			out[i] = la[i] / lb[i]
		}
	default:
		return nil, false
	}
	return &ir.Constant{ResultType: resultType, Value: ir.ConstantValue{Floats: out}}, true
}

// floatLanes returns c's float components broadcast to width, or nil if c
// is not a float constant of width 1 or width lanes.
func floatLanes(c *ir.Constant, width int) []float32 {
	switch len(c.Value.Floats) {
	case width:
		return c.Value.Floats
	case 1:
		out := make([]float32, width)
		for i := range out {
			out[i] = c.Value.Floats[0]
		}
		return out
	default:
		return nil
	}
}
