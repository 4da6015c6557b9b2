// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package optimize

import "github.com/gogpu/glslopt/ir"

// StructureSplitting replaces a local struct-typed variable that is never
// used as a whole value — only ever through field access — with one fresh
// temporary per field, grounded on do_structure_splitting. This removes
// the DerefRecord indirection entirely for such variables, which in turn
// lets copy propagation and dead-code elimination treat each field
// independently.
//
// Scope limit: a variable qualifies only when every occurrence is either
// its declaration or a DerefRecord selecting one of its fields. A
// variable passed whole to a Call, Return, or assigned/read as a whole
// value anywhere is left untouched — splitting it would require
// reconstructing the aggregate at that use site, which do_structure_splitting
// itself also declines to do.
type StructureSplitting struct{}

func (p *StructureSplitting) Name() string { return "structure_splitting" }

func (p *StructureSplitting) Description() string {
	return "Replaces a field-only-accessed local struct variable with one temporary per field."
}

func (p *StructureSplitting) Apply(unit *ir.TranslationUnit, b *ir.Builder) bool {
	for _, fn := range functions(unit) {
		for _, sig := range fn.Signatures {
			if trySplitStruct(&sig.Body, sig.Body) {
				return true
			}
		}
	}
	return false
}

func trySplitStruct(list *ir.List, root ir.List) bool {
	l := *list
	for i, instr := range l {
		v, ok := instr.(*ir.Variable)
		if !ok || v.Type == nil || v.Type.Kind != ir.TypeStruct || v.Storage != ir.StorageTemporary {
			continue
		}
		if structHasWholeUse(root, v) {
			continue
		}
		fieldVars, byName := splitVariable(v)
		if len(fieldVars) == 0 {
			continue
		}
		decls := make(ir.List, len(fieldVars))
		for j, fv := range fieldVars {
			decls[j] = fv
		}
		replaced := make(ir.List, 0, len(l)-1+len(decls))
		replaced = append(replaced, l[:i]...)
		replaced = append(replaced, decls...)
		replaced = append(replaced, l[i+1:]...)
		*list = replaced
		rewriteFieldAccess(root, v, byName)
		return true
	}
	for _, instr := range l {
		switch n := instr.(type) {
		case *ir.If:
			if trySplitStruct(&n.Then, root) {
				return true
			}
			if trySplitStruct(&n.Else, root) {
				return true
			}
		case *ir.Loop:
			if trySplitStruct(&n.Body, root) {
				return true
			}
		}
	}
	return false
}

func splitVariable(v *ir.Variable) ([]*ir.Variable, map[string]*ir.Variable) {
	fields := v.Type.Fields
	vars := make([]*ir.Variable, len(fields))
	byName := make(map[string]*ir.Variable, len(fields))
	for i, f := range fields {
		nv := &ir.Variable{
			Name:    v.Name + "_" + f.Name,
			Type:    f.Type,
			Storage: v.Storage,
		}
		vars[i] = nv
		byName[f.Name] = nv
	}
	return vars, byName
}

// structHasWholeUse reports whether v is read or written as a whole value
// anywhere in root, as opposed to only ever appearing as the base of a
// DerefRecord field selection.
func structHasWholeUse(root ir.List, v *ir.Variable) bool {
	whole := false

	var visitLv func(l ir.Lvalue, asFieldBase bool)
	var visitRv func(r ir.Rvalue)

	visitLv = func(l ir.Lvalue, asFieldBase bool) {
		switch n := l.(type) {
		case nil:
			return
		case *ir.DerefVariable:
			if n.Var == v && !asFieldBase {
				whole = true
			}
		case *ir.DerefArray:
			visitLv(n.Array, false)
			visitRv(n.Index)
		case *ir.DerefRecord:
			visitLv(n.Record, true)
		}
	}
	visitRv = func(r ir.Rvalue) {
		switch n := r.(type) {
		case nil:
			return
		case *ir.DerefVariable:
			visitLv(n, false)
		case *ir.DerefArray:
			visitLv(n, false)
		case *ir.DerefRecord:
			visitLv(n, false)
		case *ir.UnaryExpr:
			visitRv(n.X)
		case *ir.BinaryExpr:
			visitRv(n.X)
			visitRv(n.Y)
		case *ir.Swizzle:
			visitRv(n.Source)
		case *ir.Texture:
			visitRv(n.Sampler)
			visitRv(n.Coordinate)
		case *ir.Call:
			for _, a := range n.Arguments {
				visitRv(a)
			}
		}
	}

	var walk func(list ir.List)
	walk = func(list ir.List) {
		for _, instr := range list {
			switch n := instr.(type) {
			case *ir.Assignment:
				visitLv(n.Lhs, false)
				visitRv(n.Rhs)
				visitRv(n.Condition)
			case *ir.Call:
				for _, a := range n.Arguments {
					visitRv(a)
				}
			case *ir.Return:
				visitRv(n.Value)
			case *ir.Discard:
				visitRv(n.Condition)
			case *ir.If:
				visitRv(n.Condition)
				walk(n.Then)
				walk(n.Else)
			case *ir.Loop:
				walk(n.Body)
			}
		}
	}
	walk(root)
	return whole
}

// rewriteFieldAccess replaces every DerefRecord selecting a field of v
// with a direct reference to that field's replacement variable.
func rewriteFieldAccess(root ir.List, v *ir.Variable, byName map[string]*ir.Variable) {
	var rewriteLv func(l ir.Lvalue) ir.Lvalue
	var rewriteRv func(r ir.Rvalue) ir.Rvalue

	rewriteLv = func(l ir.Lvalue) ir.Lvalue {
		switch n := l.(type) {
		case nil:
			return nil
		case *ir.DerefRecord:
			if dv, ok := n.Record.(*ir.DerefVariable); ok && dv.Var == v {
				if nv, ok2 := byName[n.Field]; ok2 {
					return &ir.DerefVariable{Var: nv}
				}
			}
			if rec := rewriteLv(n.Record); rec != nil {
				n.Record = rec
			}
			return n
		case *ir.DerefArray:
			if arr := rewriteLv(n.Array); arr != nil {
				n.Array = arr
			}
			n.Index = rewriteRv(n.Index)
			return n
		default:
			return l
		}
	}
	rewriteRv = func(r ir.Rvalue) ir.Rvalue {
		switch n := r.(type) {
		case nil:
			return nil
		case *ir.DerefArray:
			return rewriteLv(n)
		case *ir.DerefRecord:
			return rewriteLv(n)
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
		case *ir.Texture:
			n.Sampler = rewriteRv(n.Sampler)
			n.Coordinate = rewriteRv(n.Coordinate)
			return n
		case *ir.Call:
			for i, a := range n.Arguments {
				n.Arguments[i] = rewriteRv(a)
			}
			return n
		default:
			return r
		}
	}

	var walk func(list ir.List)
	walk = func(list ir.List) {
		for _, instr := range list {
			switch n := instr.(type) {
			case *ir.Assignment:
				if lv := rewriteLv(n.Lhs); lv != nil {
					n.Lhs = lv
				}
				n.Rhs = rewriteRv(n.Rhs)
				n.Condition = rewriteRv(n.Condition)
			case *ir.Call:
				for i, a := range n.Arguments {
					n.Arguments[i] = rewriteRv(a)
				}
			case *ir.Return:
				n.Value = rewriteRv(n.Value)
			case *ir.Discard:
				n.Condition = rewriteRv(n.Condition)
			case *ir.If:
				n.Condition = rewriteRv(n.Condition)
				walk(n.Then)
				walk(n.Else)
			case *ir.Loop:
				walk(n.Body)
			}
		}
	}
	walk(root)
}
