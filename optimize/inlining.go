// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package optimize

import "github.com/gogpu/glslopt/ir"

// FunctionInlining replaces a call to a single-definition, non-recursive
// function with a clone of its body spliced at the call site, grounded on
// do_function_inlining in the source this pass catalogue was distilled
// from.
//
// Scope limit: a callee is only inlined when its body has at most one
// Return and, if present, that Return is the last top-level statement —
// i.e. straight-line code with a single exit point. A callee with an
// early return nested inside a branch is left uninlined; spec.md does not
// require inlining to be exhaustive, only semantics-preserving, and this
// restriction keeps the rewrite from having to reconstruct control flow
// around a dropped mid-body exit.
type FunctionInlining struct {
	counter int
}

func (p *FunctionInlining) Name() string { return "function_inlining" }

func (p *FunctionInlining) Description() string {
	return "Splices the body of a single-definition, non-recursive callee into its call site."
}

func (p *FunctionInlining) Apply(unit *ir.TranslationUnit, b *ir.Builder) bool {
	for _, fn := range functions(unit) {
		for _, sig := range fn.Signatures {
			if p.inlineFirstCallIn(&sig.Body) {
				return true
			}
		}
	}
	return false
}

func (p *FunctionInlining) inlineFirstCallIn(list *ir.List) bool {
	l := *list
	for i := 0; i < len(l); i++ {
		switch n := l[i].(type) {
		case *ir.Call:
			sig, _, ok := inlineEligible(n)
			if !ok {
				continue
			}
			prelude, body, _ := p.prepareInline(sig, n)
			replaced := make(ir.List, 0, len(l)-1+len(prelude)+len(body))
			replaced = append(replaced, l[:i]...)
			replaced = append(replaced, prelude...)
			replaced = append(replaced, body...)
			replaced = append(replaced, l[i+1:]...)
			*list = replaced
			return true

		case *ir.Assignment:
			call, ok := n.Rhs.(*ir.Call)
			if !ok {
				continue
			}
			sig, _, ok := inlineEligible(call)
			if !ok {
				continue
			}
			prelude, body, result := p.prepareInline(sig, call)
			if result != nil {
				n.Rhs = result
			}
			replaced := make(ir.List, 0, len(l)+len(prelude)+len(body))
			replaced = append(replaced, l[:i]...)
			replaced = append(replaced, prelude...)
			replaced = append(replaced, body...)
			replaced = append(replaced, n)
			replaced = append(replaced, l[i+1:]...)
			*list = replaced
			return true

		case *ir.If:
			if p.inlineFirstCallIn(&n.Then) {
				return true
			}
			if p.inlineFirstCallIn(&n.Else) {
				return true
			}

		case *ir.Loop:
			if p.inlineFirstCallIn(&n.Body) {
				return true
			}
		}
	}
	return false
}

// prepareInline binds call's arguments to fresh temporaries standing in
// for sig's parameters, clones sig's body with that substitution, and
// strips a trailing Return, returning its value separately so the caller
// can splice it into an enclosing expression (or discard it, for a
// statement-position call).
func (p *FunctionInlining) prepareInline(sig *ir.FunctionSignature, call *ir.Call) (prelude, body ir.List, result ir.Rvalue) {
	temps := make([]*ir.Variable, len(sig.Parameters))
	for i, param := range sig.Parameters {
		p.counter++
		temp := &ir.Variable{
			Name:    param.Name + "_inl",
			Type:    param.Type,
			Storage: ir.StorageTemporary,
		}
		prelude = append(prelude, temp)
		prelude = append(prelude, &ir.Assignment{
			Lhs:       &ir.DerefVariable{Var: temp},
			Rhs:       call.Arguments[i],
			WriteMask: ir.FullMask(ir.Components(param.Type)),
		})
		temps[i] = temp
	}

	cloner := ir.NewCloner(sig.Parameters, temps)
	body = cloner.CloneList(sig.Body)
	if n := len(body); n > 0 {
		if ret, ok := body[n-1].(*ir.Return); ok {
			result = ret.Value
			body = body[:n-1]
		}
	}
	return prelude, body, result
}

// inlineEligible reports whether call's callee qualifies for inlining:
// resolved to a single overload, defined with a present body, not a
// built-in, not recursive, and with at most one Return in tail position.
func inlineEligible(call *ir.Call) (*ir.FunctionSignature, *ir.Function, bool) {
	sig, fn := call.Signature, call.Callee
	if sig == nil || fn == nil || !sig.IsDefined || sig.IsBuiltin || sig.Body == nil {
		return nil, nil, false
	}
	if len(fn.Signatures) != 1 {
		return nil, nil, false
	}
	if callsFunction(sig.Body, fn) {
		return nil, nil, false
	}
	switch rc := countReturns(sig.Body); {
	case rc == 0:
		return sig, fn, true
	case rc == 1:
		if _, ok := sig.Body[len(sig.Body)-1].(*ir.Return); ok {
			return sig, fn, true
		}
		return nil, nil, false
	default:
		return nil, nil, false
	}
}

func countReturns(list ir.List) int {
	count := 0
	for _, instr := range list {
		switch n := instr.(type) {
		case *ir.Return:
			count++
		case *ir.If:
			count += countReturns(n.Then) + countReturns(n.Else)
		case *ir.Loop:
			count += countReturns(n.Body)
		}
	}
	return count
}

// callsFunction reports whether list contains a direct call to target,
// recursing into nested branches and loops. This is a single-level check:
// it catches simple self-recursion but not mutual recursion between two
// functions, which would require whole-program call-graph analysis this
// pass does not perform.
func callsFunction(list ir.List, target *ir.Function) bool {
	found := false
	var scan func(l ir.List)
	scan = func(l ir.List) {
		for _, instr := range l {
			switch n := instr.(type) {
			case *ir.Call:
				if n.Callee == target {
					found = true
				}
			case *ir.Assignment:
				if c, ok := n.Rhs.(*ir.Call); ok && c.Callee == target {
					found = true
				}
			case *ir.If:
				scan(n.Then)
				scan(n.Else)
			case *ir.Loop:
				scan(n.Body)
			}
		}
	}
	scan(list)
	return found
}

// DeadFunctions removes function declarations with no remaining call
// site, grounded on do_dead_functions. The entry point ("main") is never
// removed even though nothing in the unit calls it.
type DeadFunctions struct{}

func (p *DeadFunctions) Name() string { return "dead_functions" }

func (p *DeadFunctions) Description() string {
	return "Drops function declarations no longer referenced by any call."
}

func (p *DeadFunctions) Apply(unit *ir.TranslationUnit, b *ir.Builder) bool {
	referenced := map[*ir.Function]bool{}
	forEachSignature(unit, func(sig *ir.FunctionSignature) bool {
		markCalledFunctions(sig.Body, referenced)
		return false
	})

	changed := false
	kept := make(ir.List, 0, len(unit.Instructions))
	for _, instr := range unit.Instructions {
		if fn, ok := instr.(*ir.Function); ok && fn.Name != "main" && !referenced[fn] {
			changed = true
			continue
		}
		kept = append(kept, instr)
	}
	if changed {
		unit.Instructions = kept
	}
	return changed
}

// markCalledFunctions records, in seen, every Function referenced by a
// Call reachable from list.
func markCalledFunctions(list ir.List, seen map[*ir.Function]bool) {
	for _, instr := range list {
		switch n := instr.(type) {
		case *ir.Call:
			markCallRvalue(n, seen)
		case *ir.Assignment:
			markRvalueCalls(n.Rhs, seen)
			markRvalueCalls(n.Condition, seen)
		case *ir.Return:
			markRvalueCalls(n.Value, seen)
		case *ir.Discard:
			markRvalueCalls(n.Condition, seen)
		case *ir.If:
			markRvalueCalls(n.Condition, seen)
			markCalledFunctions(n.Then, seen)
			markCalledFunctions(n.Else, seen)
		case *ir.Loop:
			markCalledFunctions(n.Body, seen)
		}
	}
}

func markCallRvalue(c *ir.Call, seen map[*ir.Function]bool) {
	if c.Callee != nil {
		seen[c.Callee] = true
	}
	for _, a := range c.Arguments {
		markRvalueCalls(a, seen)
	}
}

func markRvalueCalls(r ir.Rvalue, seen map[*ir.Function]bool) {
	switch n := r.(type) {
	case nil:
		return
	case *ir.Call:
		markCallRvalue(n, seen)
	case *ir.UnaryExpr:
		markRvalueCalls(n.X, seen)
	case *ir.BinaryExpr:
		markRvalueCalls(n.X, seen)
		markRvalueCalls(n.Y, seen)
	case *ir.Swizzle:
		markRvalueCalls(n.Source, seen)
	case *ir.Texture:
		markRvalueCalls(n.Sampler, seen)
		markRvalueCalls(n.Coordinate, seen)
	case *ir.DerefArray:
		markRvalueCalls(n.Index, seen)
	}
}
