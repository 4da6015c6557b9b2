// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glslopt

import (
	"github.com/gogpu/glslopt/internal/diag"
	"github.com/gogpu/glslopt/ir"
	"github.com/gogpu/glslopt/optimize"
	"github.com/gogpu/glslopt/printer"
)

// Stage selects which of the two shading roles a source string is
// compiled as.
type Stage = ir.Stage

const (
	StageVertex   = ir.StageVertex
	StageFragment = ir.StageFragment
)

// Context owns the FrontEnd collaborator used to lex, parse, and lower
// source text for every shader it compiles. A Context's interned type
// table and canonical function table are scoped to the compilations it
// runs; distinct Contexts share no mutable state and may run concurrently
// on separate goroutines (spec.md §5).
type Context struct {
	FrontEnd ir.FrontEnd
}

// NewContext returns a Context driven by the given front-end
// collaborator.
func NewContext(frontEnd ir.FrontEnd) *Context {
	return &Context{FrontEnd: frontEnd}
}

// Close releases resources held by the context. Go's garbage collector
// already owns everything a Context reaches, unlike the process-wide
// type table the original C API's destroy_context frees explicitly; Close
// exists only to round out the API surface and is safe to call any number
// of times.
func (c *Context) Close() {}

// Shader is the result of one compilation: either a successful pair of
// pre- and post-optimization source strings, or a failure recorded in Log.
type Shader struct {
	status          bool
	rawOutput       string
	optimizedOutput string
	log             diag.Log
}

// Status reports whether parsing, HIR construction, and validation all
// succeeded.
func (s *Shader) Status() bool { return s.status }

// RawOutput is the pre-optimization printed source, empty on failure.
func (s *Shader) RawOutput() string { return s.rawOutput }

// OptimizedOutput is the post-optimization printed source, empty on
// failure.
func (s *Shader) OptimizedOutput() string { return s.optimizedOutput }

// Log returns accumulated lexer/parser/lowering diagnostics as plain text.
func (s *Shader) Log() string { return s.log.String() }

// Close releases resources held by the shader. Go's garbage collector
// already owns every string and node a Shader holds, unlike the
// per-shader arena the original C API's delete_shader frees explicitly;
// Close exists only to round out the API surface.
func (s *Shader) Close() {}

// Optimize parses source as the given stage, lowers it to HIR, runs it
// through the fixed-point pass catalogue, and prints both the
// pre-optimization and post-optimization source. A front-end failure (an
// error return, or a ParseState with Error set) or a lowered tree that
// fails ir.Validate yields a Shader with Status() false, empty outputs,
// and the failure recorded in Log.
func (c *Context) Optimize(stage Stage, source string) *Shader {
	shader := &Shader{}

	state, err := c.FrontEnd.BuildHIR(stage, source)
	if err != nil {
		shader.log.Add(diag.Unsupported, diag.Position{}, "%v", err)
		return shader
	}
	if state.Error || state.TranslationUnit == nil {
		shader.log.Add(diag.ParseError, diag.Position{}, "%s", state.InfoLog)
		return shader
	}

	unit := state.TranslationUnit
	verrs, err := ir.Validate(unit)
	if err != nil {
		shader.log.Add(diag.IRMalformed, diag.Position{}, "%v", err)
		return shader
	}
	if len(verrs) > 0 {
		for _, e := range verrs {
			shader.log.Add(diag.IRMalformed, diag.Position{}, "%v", e)
		}
		return shader
	}
	shader.rawOutput = printer.Print(unit, stage)

	optimize.NewDriver().Run(unit)

	shader.optimizedOutput = printer.Print(unit, stage)
	shader.status = true
	if state.InfoLog != "" {
		shader.log.Add(diag.Unsupported, diag.Position{}, "%s", state.InfoLog)
	}
	return shader
}
