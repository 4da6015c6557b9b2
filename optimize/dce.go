// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package optimize

import "github.com/gogpu/glslopt/ir"

// DeadCodeLocal removes a full-width, unconditional write to a variable
// that is immediately overwritten by another full-width, unconditional
// write before ever being read, grounded on do_dead_code_local. Analysis
// is scoped to a single List: entering an If or Loop flushes all pending
// writes, since a branch or loop body may or may not execute.
type DeadCodeLocal struct{}

func (p *DeadCodeLocal) Name() string { return "dead_code_local" }

func (p *DeadCodeLocal) Description() string {
	return "Drops a write that is unconditionally overwritten before it is ever read."
}

func (p *DeadCodeLocal) Apply(unit *ir.TranslationUnit, b *ir.Builder) bool {
	return forEachSignature(unit, func(sig *ir.FunctionSignature) bool {
		newBody, c := deadCodeLocalList(sig.Body)
		if c {
			sig.Body = newBody
		}
		return c
	})
}

func deadCodeLocalList(list ir.List) (ir.List, bool) {
	changed := false
	pending := map[*ir.Variable]int{}
	toRemove := map[int]bool{}

	var visitRv func(r ir.Rvalue)
	visitRv = func(r ir.Rvalue) {
		switch n := r.(type) {
		case nil:
			return
		case *ir.DerefVariable:
			delete(pending, n.Var)
		case *ir.UnaryExpr:
			visitRv(n.X)
		case *ir.BinaryExpr:
			visitRv(n.X)
			visitRv(n.Y)
		case *ir.Swizzle:
			visitRv(n.Source)
		case *ir.DerefArray:
			visitRv(n.Index)
			if base := variableRef(n.Array); base != nil {
				delete(pending, base)
			}
		case *ir.DerefRecord:
			if base := variableRef(n.Record); base != nil {
				delete(pending, base)
			}
		case *ir.Texture:
			visitRv(n.Sampler)
			visitRv(n.Coordinate)
		case *ir.Call:
			for _, a := range n.Arguments {
				visitRv(a)
			}
		}
	}

	for i, instr := range list {
		switch n := instr.(type) {
		case *ir.Assignment:
			visitRv(n.Rhs)
			visitRv(n.Condition)
			if arr, ok := n.Lhs.(*ir.DerefArray); ok {
				visitRv(arr.Index)
			}
			dv, ok := n.Lhs.(*ir.DerefVariable)
			if !ok {
				continue
			}
			full := n.Condition == nil && n.WriteMask == ir.FullMask(ir.Components(dv.Var.Type))
			if !full {
				delete(pending, dv.Var)
				continue
			}
			if prevIdx, ok := pending[dv.Var]; ok {
				toRemove[prevIdx] = true
				changed = true
			}
			pending[dv.Var] = i

		case *ir.Call:
			for _, a := range n.Arguments {
				visitRv(a)
			}

		case *ir.Return:
			visitRv(n.Value)
			pending = map[*ir.Variable]int{}

		case *ir.Discard:
			visitRv(n.Condition)

		case *ir.If:
			visitRv(n.Condition)
			if newThen, c := deadCodeLocalList(n.Then); c {
				n.Then = newThen
				changed = true
			}
			if newElse, c := deadCodeLocalList(n.Else); c {
				n.Else = newElse
				changed = true
			}
			pending = map[*ir.Variable]int{}

		case *ir.Loop:
			if newBody, c := deadCodeLocalList(n.Body); c {
				n.Body = newBody
				changed = true
			}
			pending = map[*ir.Variable]int{}
		}
	}

	if len(toRemove) == 0 {
		return list, changed
	}
	filtered := make(ir.List, 0, len(list)-len(toRemove))
	for i, instr := range list {
		if toRemove[i] {
			continue
		}
		filtered = append(filtered, instr)
	}
	return filtered, true
}

// DeadCodeUnlinked removes a local variable's declaration, along with
// every assignment that targets it, when no read of it remains anywhere
// in its declaring scope. Grounded on do_dead_code_unlinked; restricted
// to StorageTemporary and StorageAuto variables since uniform/in/out/inout
// locals are externally visible regardless of whether this shader reads
// them back.
type DeadCodeUnlinked struct{}

func (p *DeadCodeUnlinked) Name() string { return "dead_code_unlinked" }

func (p *DeadCodeUnlinked) Description() string {
	return "Removes a local variable and all its writes when nothing reads it."
}

func (p *DeadCodeUnlinked) Apply(unit *ir.TranslationUnit, b *ir.Builder) bool {
	return forEachSignature(unit, func(sig *ir.FunctionSignature) bool {
		return removeUnusedLocals(&sig.Body)
	})
}

func removeUnusedLocals(list *ir.List) bool {
	l := *list
	for _, instr := range l {
		v, ok := instr.(*ir.Variable)
		if !ok {
			continue
		}
		if v.Storage != ir.StorageTemporary && v.Storage != ir.StorageAuto {
			continue
		}
		if countVariableUses(l, v) > 0 {
			continue
		}
		*list = filterOutVar(l, v)
		return true
	}
	for _, instr := range l {
		switch n := instr.(type) {
		case *ir.If:
			if removeUnusedLocals(&n.Then) {
				return true
			}
			if removeUnusedLocals(&n.Else) {
				return true
			}
		case *ir.Loop:
			if removeUnusedLocals(&n.Body) {
				return true
			}
		}
	}
	return false
}

// filterOutVar returns list with v's declaration and every assignment
// that writes it removed, recursing into nested branches and loops.
func filterOutVar(list ir.List, v *ir.Variable) ir.List {
	out := make(ir.List, 0, len(list))
	for _, instr := range list {
		switch n := instr.(type) {
		case *ir.Variable:
			if n == v {
				continue
			}
			out = append(out, n)
		case *ir.Assignment:
			if dv, ok := n.Lhs.(*ir.DerefVariable); ok && dv.Var == v {
				continue
			}
			if arr, ok := n.Lhs.(*ir.DerefArray); ok && variableRef(arr.Array) == v {
				continue
			}
			out = append(out, n)
		case *ir.If:
			n.Then = filterOutVar(n.Then, v)
			n.Else = filterOutVar(n.Else, v)
			out = append(out, n)
		case *ir.Loop:
			n.Body = filterOutVar(n.Body, v)
			out = append(out, n)
		default:
			out = append(out, instr)
		}
	}
	return out
}
