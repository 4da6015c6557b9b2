// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ir

import "fmt"

// ValidationError reports one violation of the invariants in spec.md §3.
// Grounded on naga's ir.ValidationError: an optional structural context
// (the enclosing signature and instruction) plus a message, with a
// hand-formatted Error() rather than a generic struct dump.
type ValidationError struct {
	Message  string
	Function string // enclosing Function name, if any
	NodePath string // best-effort node path for diagnostics
}

func (e ValidationError) Error() string {
	switch {
	case e.Function != "" && e.NodePath != "":
		return fmt.Sprintf("%s: in function %q at %s: %s", "IRMalformed", e.Function, e.NodePath, e.Message)
	case e.Function != "":
		return fmt.Sprintf("%s: in function %q: %s", "IRMalformed", e.Function, e.Message)
	default:
		return fmt.Sprintf("%s: %s", "IRMalformed", e.Message)
	}
}

// Validator walks a TranslationUnit checking every invariant in spec.md
// §3. It fails soft — collecting every violation rather than stopping at
// the first — so debug builds can print a full report.
type Validator struct {
	unit    *TranslationUnit
	errors  []ValidationError
	context validationContext
}

type validationContext struct {
	functionName string
	seenInstrs   map[Instruction]bool
	declared     map[*Variable]bool
}

// Validate checks unit against spec.md §3's five invariants and returns
// every violation found. A nil unit is itself an error.
func Validate(unit *TranslationUnit) ([]ValidationError, error) {
	if unit == nil {
		return nil, fmt.Errorf("ir: cannot validate a nil translation unit")
	}
	v := &Validator{
		unit: unit,
		context: validationContext{
			seenInstrs: make(map[Instruction]bool),
			declared:   make(map[*Variable]bool),
		},
	}
	v.run()
	return v.errors, nil
}

func (v *Validator) addError(msg string, args ...interface{}) {
	v.errors = append(v.errors, ValidationError{
		Message:  fmt.Sprintf(msg, args...),
		Function: v.context.functionName,
	})
}

func (v *Validator) run() {
	v.declareGlobals()
	for _, instr := range v.unit.Instructions {
		switch n := instr.(type) {
		case *Variable:
			v.context.declared[n] = true
		case *Function:
			v.validateFunction(n)
		default:
			v.addError("unexpected top-level instruction kind %s", instr.Kind())
		}
	}
}

func (v *Validator) declareGlobals() {
	for _, instr := range v.unit.Instructions {
		if vr, ok := instr.(*Variable); ok {
			v.context.declared[vr] = true
		}
	}
}

func (v *Validator) validateFunction(fn *Function) {
	for _, sig := range fn.Signatures {
		prev := v.context.functionName
		v.context.functionName = fn.Name
		for _, p := range sig.Parameters {
			v.context.declared[p] = true
		}
		v.validateList(sig.Body)
		v.context.functionName = prev
	}
}

// validateList checks invariant 2 (each instruction belongs to exactly
// one list) and recurses into every instruction the list holds. Membership
// is tracked per instruction node rather than per list header: a List is
// a slice header, so two call sites holding independently-sliced headers
// over the same backing array (or simply two lists that happen to share
// a node by construction error) would never collide on list identity —
// only tracking the instruction pointers themselves catches a node
// spliced into more than one list.
func (v *Validator) validateList(list List) {
	for _, instr := range list {
		if v.context.seenInstrs[instr] {
			v.addError("instruction %s visited in more than one list (aliased across lists)", instr.Kind())
			continue
		}
		v.context.seenInstrs[instr] = true
		v.validateInstruction(instr)
	}
}

func (v *Validator) validateInstruction(instr Instruction) {
	switch n := instr.(type) {
	case *Variable:
		v.context.declared[n] = true
	case *Assignment:
		v.validateAssignment(n)
		v.validateRvalue(n.Rhs)
		v.validateLvalue(n.Lhs)
		if n.Condition != nil {
			v.validateRvalue(n.Condition)
		}
	case *Call:
		v.validateCall(n)
	case *Return:
		if n.Value != nil {
			v.validateRvalue(n.Value)
		}
	case *Discard:
		if n.Condition != nil {
			v.validateRvalue(n.Condition)
		}
	case *If:
		v.validateRvalue(n.Condition)
		v.validateList(n.Then)
		v.validateList(n.Else)
	case *Loop:
		if n.Induction != nil {
			if n.Induction.From != nil {
				v.validateRvalue(n.Induction.From)
			}
			if n.Induction.To != nil {
				v.validateRvalue(n.Induction.To)
			}
			if n.Induction.Increment != nil {
				v.validateRvalue(n.Induction.Increment)
			}
		}
		v.validateList(n.Body)
	case *LoopJump:
		// nothing to check structurally
	default:
		v.addError("unexpected statement kind %s", instr.Kind())
	}
}

// validateAssignment checks invariant 4: write-masks are consistent with
// the lhs vector width.
func (v *Validator) validateAssignment(a *Assignment) {
	lhsWidth := Components(a.Lhs.Type())
	full := FullMask(lhsWidth)
	if a.WriteMask&^full != 0 {
		v.addError("write mask %#x has bits outside lhs width %d", a.WriteMask, lhsWidth)
		return
	}
	if a.WriteMask != full {
		n := popcount(a.WriteMask)
		rhsWidth := Components(a.Rhs.Type())
		if n != rhsWidth {
			v.addError("write mask selects %d lanes but rhs has width %d", n, rhsWidth)
		}
	}
}

// validateCall checks invariant 5: argument count and types match the
// resolved signature.
func (v *Validator) validateCall(c *Call) {
	if c.Signature == nil {
		v.addError("call to %q has no resolved signature", calleeName(c))
		return
	}
	if len(c.Arguments) != len(c.Signature.Parameters) {
		v.addError("call to %q passes %d arguments, signature wants %d", calleeName(c), len(c.Arguments), len(c.Signature.Parameters))
	}
	for i, arg := range c.Arguments {
		v.validateRvalue(arg)
		if i < len(c.Signature.Parameters) && arg.Type() != c.Signature.Parameters[i].Type {
			v.addError("call to %q argument %d has type %s, parameter wants %s", calleeName(c), i, describeType(arg.Type()), describeType(c.Signature.Parameters[i].Type))
		}
	}
}

func calleeName(c *Call) string {
	if c.Callee == nil {
		return "<unresolved>"
	}
	return c.Callee.Name
}

// validateRvalue checks invariant 1 (result type agrees with opcode and
// operands) for unary expressions (result base kind) and swizzles (result
// width), and invariant 3 for derefs reached in rvalue position. A
// BinaryExpr's result type is not checked; only its operands are visited.
func (v *Validator) validateRvalue(r Rvalue) {
	switch n := r.(type) {
	case *UnaryExpr:
		v.validateRvalue(n.X)
		want := n.Op.ResultBaseKind(BaseKindOf(n.X.Type()))
		if BaseKindOf(n.ResultType) != want {
			v.addError("unary %s result base kind %s does not match expected %s", n.Op.OpName(), n.ResultType.Base, want)
		}
	case *BinaryExpr:
		v.validateRvalue(n.X)
		v.validateRvalue(n.Y)
	case *Swizzle:
		v.validateRvalue(n.Source)
		if Components(n.ResultType) != n.Mask.Num {
			v.addError("swizzle result width %d does not match mask width %d", Components(n.ResultType), n.Mask.Num)
		}
	case *Texture:
		v.validateRvalue(n.Sampler)
		v.validateRvalue(n.Coordinate)
	case *Constant:
		v.validateConstant(n)
	case *Call:
		v.validateCall(n)
	case *DerefVariable, *DerefArray, *DerefRecord:
		v.validateLvalue(n.(Lvalue))
	}
}

func (v *Validator) validateLvalue(l Lvalue) {
	switch n := l.(type) {
	case *DerefVariable:
		if !v.context.declared[n.Var] {
			v.addError("variable %q dereferenced outside its declaring scope", n.Var.Name)
		}
	case *DerefArray:
		v.validateLvalue(n.Array)
		v.validateRvalue(n.Index)
	case *DerefRecord:
		v.validateLvalue(n.Record)
	}
}

func (v *Validator) validateConstant(c *Constant) {
	want := Components(c.ResultType)
	got := len(c.Value.Bools) + len(c.Value.Ints) + len(c.Value.Uints) + len(c.Value.Floats) + len(c.Value.Elements)
	if got != want && want != 0 {
		v.addError("constant of type %s has %d values, want %d", describeType(c.ResultType), got, want)
	}
}
