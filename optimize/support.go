// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package optimize

import "github.com/gogpu/glslopt/ir"

// forEachSignature invokes fn once per FunctionSignature in the unit
// (every overload of every Function), returning true if any call
// reported progress.
func forEachSignature(unit *ir.TranslationUnit, fn func(sig *ir.FunctionSignature) bool) bool {
	changed := false
	for _, instr := range unit.Instructions {
		f, ok := instr.(*ir.Function)
		if !ok {
			continue
		}
		for _, sig := range f.Signatures {
			if fn(sig) {
				changed = true
			}
		}
	}
	return changed
}

// functions returns every *ir.Function declared at the top level, in
// order.
func functions(unit *ir.TranslationUnit) []*ir.Function {
	var out []*ir.Function
	for _, instr := range unit.Instructions {
		if f, ok := instr.(*ir.Function); ok {
			out = append(out, f)
		}
	}
	return out
}

// isPure reports whether evaluating r can be done with no observable
// side effect, i.e. it contains no Call. Texture sampling and all
// Expression/Swizzle/Deref/Constant nodes are pure; a Call is
// conservatively treated as impure even though many callees have none,
// since whether a given callee is side-effect-free is a whole-function
// question this local check does not attempt to answer.
func isPure(r ir.Rvalue) bool {
	switch n := r.(type) {
	case nil:
		return true
	case *ir.Call:
		return false
	case *ir.UnaryExpr:
		return isPure(n.X)
	case *ir.BinaryExpr:
		return isPure(n.X) && isPure(n.Y)
	case *ir.Swizzle:
		return isPure(n.Source)
	case *ir.Texture:
		return isPure(n.Sampler) && isPure(n.Coordinate)
	case *ir.DerefArray:
		return isPure(n.Array) && isPure(n.Index)
	case *ir.DerefRecord:
		return isPure(n.Record)
	default:
		return true
	}
}

// constantEqual reports whether two Constants hold the same ResultType
// and value. Used by ConstantFolding to evaluate == and != between two
// literal operands.
func constantEqual(a, b *ir.Constant) bool {
	if a.ResultType != b.ResultType {
		return false
	}
	av, bv := a.Value, b.Value
	if len(av.Bools) != len(bv.Bools) || len(av.Ints) != len(bv.Ints) ||
		len(av.Uints) != len(bv.Uints) || len(av.Floats) != len(bv.Floats) {
		return false
	}
	for i := range av.Bools {
		if av.Bools[i] != bv.Bools[i] {
			return false
		}
	}
	for i := range av.Ints {
		if av.Ints[i] != bv.Ints[i] {
			return false
		}
	}
	for i := range av.Uints {
		if av.Uints[i] != bv.Uints[i] {
			return false
		}
	}
	for i := range av.Floats {
		if av.Floats[i] != bv.Floats[i] {
			return false
		}
	}
	return true
}

// asConstant returns r as a *ir.Constant and true if r is one.
func asConstant(r ir.Rvalue) (*ir.Constant, bool) {
	c, ok := r.(*ir.Constant)
	return c, ok
}

// variableRef returns the *ir.Variable a simple DerefVariable names, or
// nil for any other lvalue shape.
func variableRef(l ir.Lvalue) *ir.Variable {
	if dv, ok := l.(*ir.DerefVariable); ok {
		return dv.Var
	}
	return nil
}

// replaceVariableUses walks list (recursively through If/Loop) rewriting
// every DerefVariable referencing from into a fresh value from
// replacement (called once per substitution), returning the count of
// substitutions made. Used by ConstantVariableUnlinked to rewrite reads
// of a variable into its constant without touching writes.
func replaceVariableUses(list ir.List, from *ir.Variable, replacement func() ir.Rvalue) int {
	count := 0
	var rewriteRv func(r ir.Rvalue) ir.Rvalue
	rewriteRv = func(r ir.Rvalue) ir.Rvalue {
		switch n := r.(type) {
		case nil:
			return nil
		case *ir.DerefVariable:
			if n.Var == from {
				count++
				return replacement()
			}
			return n
		case *ir.UnaryExpr:
			n.X = rewriteRv(n.X)
			return n
		case *ir.BinaryExpr:
			n.X = rewriteRv(n.X)
			n.Y = rewriteRv(n.Y)
			return n
		case *ir.Swizzle:
			n.Source = rewriteRv(n.Source)
			return n
		case *ir.DerefArray:
			if arr := rewriteRv(n.Array); arr != nil {
				if lv, ok := arr.(ir.Lvalue); ok {
					n.Array = lv
				}
			}
			n.Index = rewriteRv(n.Index)
			return n
		case *ir.DerefRecord:
			if rec := rewriteRv(n.Record); rec != nil {
				if lv, ok := rec.(ir.Lvalue); ok {
					n.Record = lv
				}
			}
			return n
		case *ir.Call:
			for i, a := range n.Arguments {
				n.Arguments[i] = rewriteRv(a)
			}
			return n
		case *ir.Texture:
			n.Sampler = rewriteRv(n.Sampler)
			n.Coordinate = rewriteRv(n.Coordinate)
			return n
		default:
			return r
		}
	}

	var walkList func(l ir.List)
	walkList = func(l ir.List) {
		for _, instr := range l {
			switch n := instr.(type) {
			case *ir.Assignment:
				n.Rhs = rewriteRv(n.Rhs)
				if n.Condition != nil {
					n.Condition = rewriteRv(n.Condition)
				}
				if arr, ok := n.Lhs.(*ir.DerefArray); ok {
					arr.Index = rewriteRv(arr.Index)
				}
			case *ir.Call:
				rewriteRv(n)
			case *ir.Return:
				n.Value = rewriteRv(n.Value)
			case *ir.Discard:
				n.Condition = rewriteRv(n.Condition)
			case *ir.If:
				n.Condition = rewriteRv(n.Condition)
				walkList(n.Then)
				walkList(n.Else)
			case *ir.Loop:
				walkList(n.Body)
			}
		}
	}
	walkList(list)
	return count
}

// countVariableUses reports how many DerefVariable reads of v occur in
// list, recursing through If/Loop. Writes to v (as an Assignment's Lhs)
// do not count as uses.
func countVariableUses(list ir.List, v *ir.Variable) int {
	count := 0
	var visitRv func(r ir.Rvalue)
	visitRv = func(r ir.Rvalue) {
		switch n := r.(type) {
		case nil:
			return
		case *ir.DerefVariable:
			if n.Var == v {
				count++
			}
		case *ir.UnaryExpr:
			visitRv(n.X)
		case *ir.BinaryExpr:
			visitRv(n.X)
			visitRv(n.Y)
		case *ir.Swizzle:
			visitRv(n.Source)
		case *ir.DerefArray:
			visitRv(n.Array)
			visitRv(n.Index)
		case *ir.DerefRecord:
			visitRv(n.Record)
		case *ir.Call:
			for _, a := range n.Arguments {
				visitRv(a)
			}
		case *ir.Texture:
			visitRv(n.Sampler)
			visitRv(n.Coordinate)
		}
	}
	var walkList func(l ir.List)
	walkList = func(l ir.List) {
		for _, instr := range l {
			switch n := instr.(type) {
			case *ir.Assignment:
				visitRv(n.Rhs)
				visitRv(n.Condition)
				if arr, ok := n.Lhs.(*ir.DerefArray); ok {
					visitRv(arr.Index)
				}
			case *ir.Call:
				visitRv(n)
			case *ir.Return:
				visitRv(n.Value)
			case *ir.Discard:
				visitRv(n.Condition)
			case *ir.If:
				visitRv(n.Condition)
				walkList(n.Then)
				walkList(n.Else)
			case *ir.Loop:
				walkList(n.Body)
			}
		}
	}
	walkList(list)
	return count
}
