// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ir

// Cloner deep-copies instruction lists while substituting a fixed set of
// Variables for others — the mechanism function_inlining uses to copy a
// callee body in place of a Call, substituting formal parameters for
// fresh temporaries bound to the actual arguments.
//
// Every Variable the source list declares (locals, not just parameters)
// is also freshened, so two inlined copies of the same callee never
// alias each other's temporaries.
type Cloner struct {
	subst map[*Variable]*Variable
}

// NewCloner returns a Cloner that substitutes vars[i] with repl[i] and
// freshens every other Variable it encounters on first sight.
func NewCloner(vars []*Variable, repl []*Variable) *Cloner {
	c := &Cloner{subst: make(map[*Variable]*Variable, len(vars))}
	for i, v := range vars {
		c.subst[v] = repl[i]
	}
	return c
}

func (c *Cloner) variable(v *Variable) *Variable {
	if repl, ok := c.subst[v]; ok {
		return repl
	}
	fresh := &Variable{
		Name:      v.Name,
		Type:      v.Type,
		Storage:   v.Storage,
		Interp:    v.Interp,
		Centroid:  v.Centroid,
		Invariant: v.Invariant,
	}
	c.subst[v] = fresh
	return fresh
}

// CloneList deep-copies a List under c's substitution map.
func (c *Cloner) CloneList(list List) List {
	out := make(List, len(list))
	for i, instr := range list {
		out[i] = c.cloneInstruction(instr)
	}
	return out
}

func (c *Cloner) cloneInstruction(instr Instruction) Instruction {
	switch n := instr.(type) {
	case *Variable:
		return c.variable(n)
	case *Assignment:
		return &Assignment{
			Lhs:       c.cloneRvalue(n.Lhs).(Lvalue),
			Rhs:       c.cloneRvalue(n.Rhs),
			WriteMask: n.WriteMask,
			Condition: c.cloneOptRvalue(n.Condition),
		}
	case *Call:
		return c.cloneRvalue(n)
	case *Return:
		return &Return{Value: c.cloneOptRvalue(n.Value)}
	case *Discard:
		return &Discard{Condition: c.cloneOptRvalue(n.Condition)}
	case *If:
		return &If{
			Condition: c.cloneRvalue(n.Condition),
			Then:      c.CloneList(n.Then),
			Else:      c.CloneList(n.Else),
		}
	case *Loop:
		var ind *Induction
		if n.Induction != nil {
			ind = &Induction{
				Counter:   c.variable(n.Induction.Counter),
				From:      c.cloneOptRvalue(n.Induction.From),
				To:        c.cloneOptRvalue(n.Induction.To),
				Increment: c.cloneOptRvalue(n.Induction.Increment),
			}
		}
		return &Loop{Body: c.CloneList(n.Body), Induction: ind}
	case *LoopJump:
		return &LoopJump{JumpKind: n.JumpKind}
	default:
		return instr
	}
}

func (c *Cloner) cloneOptRvalue(r Rvalue) Rvalue {
	if r == nil {
		return nil
	}
	return c.cloneRvalue(r)
}

func (c *Cloner) cloneRvalue(r Rvalue) Rvalue {
	switch n := r.(type) {
	case *UnaryExpr:
		return &UnaryExpr{ResultType: n.ResultType, Op: n.Op, X: c.cloneRvalue(n.X)}
	case *BinaryExpr:
		return &BinaryExpr{ResultType: n.ResultType, Op: n.Op, X: c.cloneRvalue(n.X), Y: c.cloneRvalue(n.Y)}
	case *Swizzle:
		return &Swizzle{ResultType: n.ResultType, Source: c.cloneRvalue(n.Source), Mask: n.Mask}
	case *Texture:
		clone := &Texture{
			ResultType: n.ResultType,
			Op:         n.Op,
			Sampler:    c.cloneRvalue(n.Sampler),
			Coordinate: c.cloneRvalue(n.Coordinate),
			Offsets:    n.Offsets,
			Projector:  c.cloneOptRvalue(n.Projector),
			ShadowComparator: c.cloneOptRvalue(n.ShadowComparator),
			Bias:       c.cloneOptRvalue(n.Bias),
			Lod:        c.cloneOptRvalue(n.Lod),
		}
		if n.Grad != nil {
			clone.Grad = &GradInfo{DPdx: c.cloneRvalue(n.Grad.DPdx), DPdy: c.cloneRvalue(n.Grad.DPdy)}
		}
		return clone
	case *DerefVariable:
		return &DerefVariable{Var: c.variable(n.Var)}
	case *DerefArray:
		return &DerefArray{ResultType: n.ResultType, Array: c.cloneRvalue(n.Array).(Lvalue), Index: c.cloneRvalue(n.Index)}
	case *DerefRecord:
		return &DerefRecord{ResultType: n.ResultType, Record: c.cloneRvalue(n.Record).(Lvalue), Field: n.Field}
	case *Call:
		args := make([]Rvalue, len(n.Arguments))
		for i, a := range n.Arguments {
			args[i] = c.cloneRvalue(a)
		}
		return &Call{ResultType: n.ResultType, Callee: n.Callee, Signature: n.Signature, Arguments: args}
	case *Constant:
		elems := make([]*Constant, len(n.Value.Elements))
		for i, e := range n.Value.Elements {
			elems[i] = c.cloneRvalue(e).(*Constant)
		}
		v := n.Value
		v.Elements = elems
		return &Constant{ResultType: n.ResultType, Value: v}
	default:
		return r
	}
}
