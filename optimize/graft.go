// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package optimize

import "github.com/gogpu/glslopt/ir"

// TreeGrafting eliminates a temporary that is assigned once and read
// exactly once, by splicing its (pure) right-hand-side expression
// directly into the single use site, grounded on do_tree_grafting.
//
// Only a pure Rhs (isPure, no Call) is grafted: moving a call's
// evaluation past whatever statements sit between the definition and its
// single use would change when its side effect runs relative to them.
type TreeGrafting struct{}

func (p *TreeGrafting) Name() string { return "tree_grafting" }

func (p *TreeGrafting) Description() string {
	return "Splices a once-read temporary's pure right-hand side into its use site."
}

func (p *TreeGrafting) Apply(unit *ir.TranslationUnit, b *ir.Builder) bool {
	return forEachSignature(unit, func(sig *ir.FunctionSignature) bool {
		return graftList(&sig.Body)
	})
}

func graftList(list *ir.List) bool {
	l := *list
	for i, instr := range l {
		asn, ok := instr.(*ir.Assignment)
		if !ok {
			continue
		}
		dv, ok := asn.Lhs.(*ir.DerefVariable)
		if !ok || dv.Var.Storage != ir.StorageTemporary {
			continue
		}
		if asn.Condition != nil || !isPure(asn.Rhs) {
			continue
		}
		if asn.WriteMask != ir.FullMask(ir.Components(dv.Var.Type)) {
			continue
		}

		rest := l[i+1:]
		if countVariableUses(rest, dv.Var) != 1 {
			continue
		}
		st := &graftState{target: dv.Var, rhs: asn.Rhs}
		st.walk(rest)
		if !st.used || st.abort {
			continue
		}

		replaced := make(ir.List, 0, len(l)-1)
		replaced = append(replaced, l[:i]...)
		replaced = append(replaced, rest...)
		*list = replaced
		return true
	}

	for _, instr := range l {
		switch n := instr.(type) {
		case *ir.If:
			if graftList(&n.Then) {
				return true
			}
			if graftList(&n.Else) {
				return true
			}
		case *ir.Loop:
			if graftList(&n.Body) {
				return true
			}
		}
	}
	return false
}

// graftState performs a single ordered pass over a statement list,
// substituting the first read of target with rhs and aborting if a write
// to target is found before any read occurs.
type graftState struct {
	target *ir.Variable
	rhs    ir.Rvalue
	used   bool
	abort  bool
}

func (s *graftState) rewriteRv(r ir.Rvalue) ir.Rvalue {
	if s.used || s.abort {
		return r
	}
	switch n := r.(type) {
	case nil:
		return nil
	case *ir.DerefVariable:
		if n.Var == s.target {
			s.used = true
			return s.rhs
		}
		return n
	case *ir.UnaryExpr:
		n.X = s.rewriteRv(n.X)
		return n
	case *ir.BinaryExpr:
		n.X = s.rewriteRv(n.X)
		n.Y = s.rewriteRv(n.Y)
		return n
	case *ir.Swizzle:
		n.Source = s.rewriteRv(n.Source)
		return n
	case *ir.DerefArray:
		n.Index = s.rewriteRv(n.Index)
		return n
	case *ir.Texture:
		n.Sampler = s.rewriteRv(n.Sampler)
		n.Coordinate = s.rewriteRv(n.Coordinate)
		return n
	case *ir.Call:
		for i, a := range n.Arguments {
			n.Arguments[i] = s.rewriteRv(a)
		}
		return n
	default:
		return r
	}
}

func (s *graftState) walk(list ir.List) {
	for _, instr := range list {
		if s.used || s.abort {
			return
		}
		switch n := instr.(type) {
		case *ir.Assignment:
			n.Rhs = s.rewriteRv(n.Rhs)
			n.Condition = s.rewriteRv(n.Condition)
			if arr, ok := n.Lhs.(*ir.DerefArray); ok {
				arr.Index = s.rewriteRv(arr.Index)
			}
			if s.used {
				return
			}
			if dv, ok := n.Lhs.(*ir.DerefVariable); ok && dv.Var == s.target {
				s.abort = true
				return
			}
			if arr, ok := n.Lhs.(*ir.DerefArray); ok && variableRef(arr.Array) == s.target {
				s.abort = true
				return
			}
		case *ir.Call:
			for i, a := range n.Arguments {
				n.Arguments[i] = s.rewriteRv(a)
			}
		case *ir.Return:
			n.Value = s.rewriteRv(n.Value)
		case *ir.Discard:
			n.Condition = s.rewriteRv(n.Condition)
		case *ir.If:
			n.Condition = s.rewriteRv(n.Condition)
			if s.used {
				return
			}
			s.walk(n.Then)
			if s.used || s.abort {
				return
			}
			s.walk(n.Else)
		case *ir.Loop:
			s.walk(n.Body)
		}
	}
}
