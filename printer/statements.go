// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package printer

import (
	"fmt"
	"strings"

	"github.com/gogpu/glslopt/ir"
)

func (p *Printer) printFunction(fn *ir.Function) {
	for _, sig := range fn.Signatures {
		if !sig.IsDefined || sig.Body == nil {
			continue // prototype / builtin declaration — no source to print
		}
		p.printSignature(fn.Name, sig)
	}
}

func (p *Printer) printSignature(name string, sig *ir.FunctionSignature) {
	params := make([]string, len(sig.Parameters))
	for i, param := range sig.Parameters {
		params[i] = p.variableDeclString(param, true)
	}
	p.writeLine("%s %s(%s) {", p.typeName(sig.ReturnType), name, strings.Join(params, ", "))
	p.pushIndent()
	p.printList(sig.Body)
	p.popIndent()
	p.writeLine("}")
}

func (p *Printer) printList(list ir.List) {
	for _, instr := range list {
		p.printStatement(instr)
	}
}

func (p *Printer) printStatement(instr ir.Instruction) {
	switch n := instr.(type) {
	case *ir.Variable:
		p.writeLine("%s;", p.variableDeclString(n, true))
	case *ir.Assignment:
		p.writeLine("%s;", p.assignmentString(n))
	case *ir.Call:
		p.writeLine("%s;", p.callString(n))
	case *ir.Return:
		if n.Value != nil {
			p.writeLine("return %s;", p.exprString(n.Value))
		} else {
			p.writeLine("return;")
		}
	case *ir.Discard:
		p.printDiscard(n)
	case *ir.If:
		p.printIf(n)
	case *ir.Loop:
		p.printLoop(n)
	case *ir.LoopJump:
		if n.JumpKind == ir.JumpBreak {
			p.writeLine("break;")
		} else {
			p.writeLine("continue;")
		}
	}
}

// printDiscard renders an unconditional discard as "discard;". A
// conditional discard has no direct single-statement GLSL form in this
// IR's source dialect (it would need to be lowered to "if (cond)
// discard;" upstream of the printer), so it is left as an explicit marker
// rather than silently guessed at.
func (p *Printer) printDiscard(n *ir.Discard) {
	if n.Condition == nil {
		p.writeLine("discard;")
		return
	}
	p.writeLine("discard TODO %s;", p.exprString(n.Condition))
}

func (p *Printer) printIf(n *ir.If) {
	p.writeLine("if (%s) {", p.exprString(n.Condition))
	p.pushIndent()
	p.printList(n.Then)
	p.popIndent()
	if len(n.Else) > 0 {
		p.writeLine("} else {")
		p.pushIndent()
		p.printList(n.Else)
		p.popIndent()
	}
	p.writeLine("}")
}

// printLoop renders an unconditional loop as "while (true) { ... }". A
// counted Loop's induction fields don't map onto a single canonical
// for-loop spelling without re-deriving the comparison direction the
// front end already resolved, so — like conditional Discard — it is left
// as an explicit TODO marker rather than guessed at.
func (p *Printer) printLoop(n *ir.Loop) {
	if n.Induction == nil {
		p.writeLine("while (true) {")
		p.pushIndent()
		p.printList(n.Body)
		p.popIndent()
		p.writeLine("}")
		return
	}
	ind := n.Induction
	p.writeLine("( TODO loop (%s) (%s) (%s) (%s) (", ind.Counter.Name,
		p.exprString(ind.From), p.exprString(ind.To), p.exprString(ind.Increment))
	p.pushIndent()
	p.printList(n.Body)
	p.popIndent()
	p.writeLine("))")
}

// assignmentString renders "lhs[.mask] = [T(]rhs[)][.mask]", grounded on
// spec.md §4.6's assignment rule and cross-checked against
// ir_print_glsl_visitor's visit(ir_assignment*): a type-mismatch cast
// wraps rhs at the lhs's full (unmasked) type, and when a write-mask also
// applies the same mask letters are appended a second time after the
// cast, so the cast result is narrowed to the same width the masked lhs
// expects. A guarded assignment (Condition set) wraps the whole statement
// as "(if cond lhs = rhs)", mirroring that same visitor's treatment of
// the legacy per-assignment condition field.
func (p *Printer) assignmentString(n *ir.Assignment) string {
	lhsStr := p.exprString(n.Lhs)
	lhsWidth := ir.Components(n.Lhs.Type())
	full := ir.FullMask(lhsWidth)
	masked := n.WriteMask != 0 && n.WriteMask != full
	maskSuffix := ""
	if masked {
		maskSuffix = "." + maskLetters(n.WriteMask)
		lhsStr += maskSuffix
	}

	maskedWidth := lhsWidth
	if n.WriteMask != 0 {
		maskedWidth = popcountMask(n.WriteMask)
	}
	lhsBase := ir.BaseKindOf(n.Lhs.Type())

	var rhsStr string
	rhsType := n.Rhs.Type()
	if rhsType != nil && (ir.BaseKindOf(rhsType) != lhsBase || ir.Components(rhsType) != maskedWidth) {
		target := p.unit.Types.GetInstance(lhsBase, lhsWidth, 1)
		rhsStr = fmt.Sprintf("%s(%s)", p.typeName(target), p.exprString(n.Rhs))
		if masked {
			rhsStr += maskSuffix
		}
	} else {
		rhsStr = p.exprStringLimited(n.Rhs, maskedWidth)
	}

	if n.Condition != nil {
		return fmt.Sprintf("(if %s %s = %s)", p.exprString(n.Condition), lhsStr, rhsStr)
	}
	return fmt.Sprintf("%s = %s", lhsStr, rhsStr)
}

func maskLetters(mask uint8) string {
	var b strings.Builder
	for i := 0; i < 4; i++ {
		if mask&(1<<uint(i)) != 0 {
			b.WriteByte("xyzw"[i])
		}
	}
	return b.String()
}

func popcountMask(mask uint8) int {
	n := 0
	for i := 0; i < 4; i++ {
		if mask&(1<<uint(i)) != 0 {
			n++
		}
	}
	return n
}
