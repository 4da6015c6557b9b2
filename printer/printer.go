// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package printer

import (
	"fmt"
	"strings"

	"github.com/gogpu/glslopt/ir"
)

// Printer accumulates rendered source text for one TranslationUnit. It
// holds no IR-mutating state — every method either reads the tree or
// writes to out — grounded on glsl.Writer's strings.Builder-plus-indent
// shape.
type Printer struct {
	unit   *ir.TranslationUnit
	stage  ir.Stage
	out    strings.Builder
	indent int
}

// Print renders unit for the given stage and returns the generated source
// text. stage selects the storage-qualifier spelling table (attribute vs.
// in, varying vs. out/in).
func Print(unit *ir.TranslationUnit, stage ir.Stage) string {
	p := &Printer{unit: unit, stage: stage}
	p.printUnit()
	return p.out.String()
}

func (p *Printer) printUnit() {
	for _, t := range p.unit.UserStructures() {
		p.printStructDecl(t)
	}
	for _, instr := range p.unit.Instructions {
		switch n := instr.(type) {
		case *ir.Variable:
			if strings.HasPrefix(n.Name, "gl_") {
				continue
			}
			p.writeLine("%s;", p.variableDeclString(n, false))
		case *ir.Function:
			p.printFunction(n)
		}
	}
}

func (p *Printer) printStructDecl(t *ir.Type) {
	p.writeLine("struct %s {", t.Name)
	p.pushIndent()
	for _, f := range t.Fields {
		p.writeLine("%s;", p.declString(f.Type, f.Name))
	}
	p.popIndent()
	p.writeLine("};")
}

// writeLine writes an indented, newline-terminated line, printf-style.
func (p *Printer) writeLine(format string, args ...any) {
	p.writeIndent()
	if len(args) == 0 {
		p.out.WriteString(format)
	} else {
		fmt.Fprintf(&p.out, format, args...)
	}
	p.out.WriteByte('\n')
}

func (p *Printer) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.out.WriteString("  ")
	}
}

func (p *Printer) pushIndent() { p.indent++ }

func (p *Printer) popIndent() {
	if p.indent > 0 {
		p.indent--
	}
}
