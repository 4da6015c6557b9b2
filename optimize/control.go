// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package optimize

import "github.com/gogpu/glslopt/ir"

// IfSimplification collapses an If whose Condition folds to a compile-time
// bool constant into whichever branch survives, drops an If whose
// surviving branch is empty, and normalizes a negated condition by
// swapping the two arms (if(!c) A else B -> if(c) B else A) so later
// passes never have to look through a logical-not to find the arm that
// actually runs on the common path. Grounded on do_if_simplification.
type IfSimplification struct{}

func (p *IfSimplification) Name() string { return "if_simplification" }

func (p *IfSimplification) Description() string {
	return "Replaces an If with a constant-bool condition by its surviving branch."
}

func (p *IfSimplification) Apply(unit *ir.TranslationUnit, b *ir.Builder) bool {
	return forEachSignature(unit, func(sig *ir.FunctionSignature) bool {
		return simplifyIfsIn(&sig.Body)
	})
}

func simplifyIfsIn(list *ir.List) bool {
	changed := false
	l := *list
	out := make(ir.List, 0, len(l))
	for _, instr := range l {
		n, ok := instr.(*ir.If)
		if !ok {
			out = append(out, instr)
			continue
		}
		if simplifyIfsIn(&n.Then) {
			changed = true
		}
		if simplifyIfsIn(&n.Else) {
			changed = true
		}

		if c, ok := asConstant(n.Condition); ok && len(c.Value.Bools) == 1 {
			changed = true
			if c.Value.Bools[0] {
				out = append(out, n.Then...)
			} else {
				out = append(out, n.Else...)
			}
			continue
		}

		if negated, ok := n.Condition.(*ir.UnaryExpr); ok && negated.Op == ir.OpLogicalNot {
			n.Condition = negated.X
			n.Then, n.Else = n.Else, n.Then
			changed = true
		}

		if len(n.Then) == 0 && len(n.Else) == 0 {
			changed = true
			continue
		}
		out = append(out, n)
	}
	if changed {
		*list = out
	}
	return changed
}
