// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package optimize

import "github.com/gogpu/glslopt/ir"

// CopyPropagation rewrites reads of a variable known, at that program
// point, to hold an exact copy of another variable into reads of the
// source variable directly, grounded on do_copy_propagation.
//
// Scope limit: propagation state is tracked with a single linear scan per
// List and is not merged across an If's two arms or across a Loop body —
// entering either resets the copy set to empty. This is conservative
// (it misses some propagation opportunities a full dataflow analysis
// would find) but never propagates a copy relation that does not hold on
// every path reaching a use, which is the soundness property that
// matters here.
type CopyPropagation struct{}

func (p *CopyPropagation) Name() string { return "copy_propagation" }

func (p *CopyPropagation) Description() string {
	return "Replaces reads of a variable that exactly copies another with reads of the source."
}

func (p *CopyPropagation) Apply(unit *ir.TranslationUnit, b *ir.Builder) bool {
	return forEachSignature(unit, func(sig *ir.FunctionSignature) bool {
		return copyPropagateList(sig.Body)
	})
}

func copyPropagateList(list ir.List) bool {
	changed := false
	copyOf := map[*ir.Variable]*ir.Variable{}

	invalidate := func(v *ir.Variable) {
		delete(copyOf, v)
		for dst, src := range copyOf {
			if src == v {
				delete(copyOf, dst)
			}
		}
	}

	for _, instr := range list {
		switch n := instr.(type) {
		case *ir.Assignment:
			if rewriteReadsWithCopy(&n.Rhs, copyOf) {
				changed = true
			}
			if rewriteReadsWithCopy(&n.Condition, copyOf) {
				changed = true
			}
			if arr, ok := n.Lhs.(*ir.DerefArray); ok {
				if rewriteReadsWithCopy(&arr.Index, copyOf) {
					changed = true
				}
			}

			switch lhs := n.Lhs.(type) {
			case *ir.DerefVariable:
				invalidate(lhs.Var)
				if n.Condition == nil {
					if src, ok := n.Rhs.(*ir.DerefVariable); ok &&
						n.WriteMask == ir.FullMask(ir.Components(lhs.Var.Type)) {
						copyOf[lhs.Var] = src.Var
					}
				}
			case *ir.DerefArray:
				if base := variableRef(lhs.Array); base != nil {
					invalidate(base)
				}
			}

		case *ir.Call:
			if rewriteArgs(n.Arguments, copyOf) {
				changed = true
			}

		case *ir.Return:
			if rewriteReadsWithCopy(&n.Value, copyOf) {
				changed = true
			}

		case *ir.Discard:
			if rewriteReadsWithCopy(&n.Condition, copyOf) {
				changed = true
			}

		case *ir.If:
			if rewriteReadsWithCopy(&n.Condition, copyOf) {
				changed = true
			}
			if copyPropagateList(n.Then) {
				changed = true
			}
			if copyPropagateList(n.Else) {
				changed = true
			}
			copyOf = map[*ir.Variable]*ir.Variable{}

		case *ir.Loop:
			if copyPropagateList(n.Body) {
				changed = true
			}
			copyOf = map[*ir.Variable]*ir.Variable{}
		}
	}
	return changed
}

func rewriteArgs(args []ir.Rvalue, copyOf map[*ir.Variable]*ir.Variable) bool {
	changed := false
	for i := range args {
		if rewriteReadsWithCopy(&args[i], copyOf) {
			changed = true
		}
	}
	return changed
}

// rewriteReadsWithCopy rewrites *rv in place, replacing every read of a
// variable present in copyOf with a fresh reference to its mapped source.
func rewriteReadsWithCopy(rv *ir.Rvalue, copyOf map[*ir.Variable]*ir.Variable) bool {
	changed := false
	var rewrite func(r ir.Rvalue) ir.Rvalue
	rewrite = func(r ir.Rvalue) ir.Rvalue {
		switch n := r.(type) {
		case nil:
			return nil
		case *ir.DerefVariable:
			if src, ok := copyOf[n.Var]; ok {
				changed = true
				return &ir.DerefVariable{Var: src}
			}
			return n
		case *ir.UnaryExpr:
			n.X = rewrite(n.X)
			return n
		case *ir.BinaryExpr:
			n.X = rewrite(n.X)
			n.Y = rewrite(n.Y)
			return n
		case *ir.Swizzle:
			n.Source = rewrite(n.Source)
			return n
		case *ir.DerefArray:
			n.Index = rewrite(n.Index)
			return n
		case *ir.Texture:
			n.Sampler = rewrite(n.Sampler)
			n.Coordinate = rewrite(n.Coordinate)
			return n
		case *ir.Call:
			for i, a := range n.Arguments {
				n.Arguments[i] = rewrite(a)
			}
			return n
		default:
			return r
		}
	}
	*rv = rewrite(*rv)
	return changed
}
