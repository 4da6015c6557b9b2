// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package printer

import (
	"fmt"
	"strings"

	"github.com/gogpu/glslopt/ir"
)

// exprString renders r as an expression with no inherited lane limit.
func (p *Printer) exprString(r ir.Rvalue) string {
	return p.exprStringLimited(r, 0)
}

// exprStringLimited renders r. When r is itself a Swizzle, limit (if
// nonzero) trims the printed lane count below the swizzle's own width —
// the "inherited write-mask register" an Assignment sets on its
// right-hand side so a same-cardinality swizzle-then-mask doesn't need a
// redundant cast. limit does not propagate into r's operand subtrees,
// since those already carry their own correct widths.
func (p *Printer) exprStringLimited(r ir.Rvalue, limit int) string {
	switch n := r.(type) {
	case nil:
		return ""
	case *ir.Constant:
		return p.constantString(n)
	case *ir.DerefVariable:
		return n.Var.Name
	case *ir.DerefArray:
		return fmt.Sprintf("%s[%s]", p.exprString(n.Array), p.exprString(n.Index))
	case *ir.DerefRecord:
		return fmt.Sprintf("%s.%s", p.exprString(n.Record), n.Field)
	case *ir.UnaryExpr:
		return p.unaryString(n)
	case *ir.BinaryExpr:
		return p.binaryString(n)
	case *ir.Swizzle:
		return p.swizzleString(n, limit)
	case *ir.Texture:
		return p.textureString(n)
	case *ir.Call:
		return p.callString(n)
	default:
		return "?"
	}
}

// unaryString renders a non-conversion op uniformly as "opname(x)" — even
// for the prefix-looking spellings ("-", "!", "~", "1.0/"), matching the
// original operator_glsl_strs-driven printer rather than special-casing
// them into bare prefix notation. Conversion ops render as "T(x)".
func (p *Printer) unaryString(n *ir.UnaryExpr) string {
	x := p.exprString(n.X)
	if n.Op.IsConversion() {
		target := scalarName(n.Op.ResultBaseKind(ir.BaseKindOf(n.X.Type())))
		return fmt.Sprintf("%s(%s)", target, x)
	}
	return fmt.Sprintf("%s(%s)", n.Op.OpName(), x)
}

func (p *Printer) binaryString(n *ir.BinaryExpr) string {
	x := p.exprString(n.X)
	y := p.exprString(n.Y)
	if n.Op.IsInfix() {
		return fmt.Sprintf("(%s %s %s)", x, n.Op.Symbol(), y)
	}
	return fmt.Sprintf("%s(%s, %s)", n.Op.FuncName(), x, y)
}

// swizzleString special-cases a float-scalar source with more than one
// requested lane as a broadcasting constructor call rather than swizzle
// notation, since "x.xxx" does not parse for a scalar.
func (p *Printer) swizzleString(n *ir.Swizzle, limit int) string {
	src := n.Source
	if srcType := src.Type(); srcType.Kind == ir.TypeScalar && srcType.Base == ir.BaseFloat && n.Mask.Num > 1 {
		return fmt.Sprintf("%s(%s)", vectorName(ir.BaseFloat, n.Mask.Num), p.exprString(src))
	}
	num := n.Mask.Num
	if limit > 0 && limit < num {
		num = limit
	}
	var letters strings.Builder
	for i := 0; i < num; i++ {
		letters.WriteByte(n.Mask.Components[i].Letter())
	}
	return fmt.Sprintf("%s.%s", p.exprString(src), letters.String())
}

func (p *Printer) textureString(n *ir.Texture) string {
	args := []string{p.exprString(n.Sampler), p.exprString(n.Coordinate)}
	switch n.Op {
	case ir.TexTxb:
		args = append(args, p.exprString(n.Bias))
	case ir.TexTxl, ir.TexTxf:
		args = append(args, p.exprString(n.Lod))
	case ir.TexTxd:
		if n.Grad != nil {
			args = append(args, p.exprString(n.Grad.DPdx), p.exprString(n.Grad.DPdy))
		}
	}
	return fmt.Sprintf("%s(%s)", textureFuncName(n.Op), strings.Join(args, ", "))
}

func textureFuncName(op ir.TextureOp) string {
	switch op {
	case ir.TexTxl:
		return "textureLod"
	case ir.TexTxf:
		return "texelFetch"
	case ir.TexTxd:
		return "textureGrad"
	default:
		// tex and txb (plain sample and sample-with-bias) share GLSL's
		// single overloaded texture() entry point, the bias becoming a
		// trailing argument.
		return "texture"
	}
}

func (p *Printer) callString(n *ir.Call) string {
	args := make([]string, len(n.Arguments))
	for i, a := range n.Arguments {
		args[i] = p.exprString(a)
	}
	return fmt.Sprintf("%s(%s)", n.Callee.Name, strings.Join(args, ", "))
}

func (p *Printer) constantString(c *ir.Constant) string {
	if ir.Components(c.ResultType) == 1 {
		return p.scalarLiteral(c)
	}
	return fmt.Sprintf("%s(%s)", p.typeName(c.ResultType), strings.Join(p.compositeParts(c), ", "))
}

func (p *Printer) scalarLiteral(c *ir.Constant) string {
	switch {
	case len(c.Value.Bools) == 1:
		if c.Value.Bools[0] {
			return "true"
		}
		return "false"
	case len(c.Value.Ints) == 1:
		return fmt.Sprintf("%d", c.Value.Ints[0])
	case len(c.Value.Uints) == 1:
		return fmt.Sprintf("%du", c.Value.Uints[0])
	case len(c.Value.Floats) == 1:
		return formatFloat(c.Value.Floats[0])
	case len(c.Value.Elements) == 1:
		return p.exprString(c.Value.Elements[0])
	default:
		return "0"
	}
}

func (p *Printer) compositeParts(c *ir.Constant) []string {
	switch {
	case len(c.Value.Bools) > 0:
		parts := make([]string, len(c.Value.Bools))
		for i, v := range c.Value.Bools {
			if v {
				parts[i] = "true"
			} else {
				parts[i] = "false"
			}
		}
		return parts
	case len(c.Value.Ints) > 0:
		parts := make([]string, len(c.Value.Ints))
		for i, v := range c.Value.Ints {
			parts[i] = fmt.Sprintf("%d", v)
		}
		return parts
	case len(c.Value.Uints) > 0:
		parts := make([]string, len(c.Value.Uints))
		for i, v := range c.Value.Uints {
			parts[i] = fmt.Sprintf("%du", v)
		}
		return parts
	case len(c.Value.Floats) > 0:
		parts := make([]string, len(c.Value.Floats))
		for i, v := range c.Value.Floats {
			parts[i] = formatFloat(v)
		}
		return parts
	case len(c.Value.Elements) > 0:
		parts := make([]string, len(c.Value.Elements))
		for i, e := range c.Value.Elements {
			parts[i] = p.exprString(e)
		}
		return parts
	default:
		return nil
	}
}

func formatFloat(f float32) string {
	s := fmt.Sprintf("%g", f)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
