// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package printer renders an optimized ir.TranslationUnit back to valid
// source text for the same language it was parsed from: a type-directed,
// read-only visitor that walks every global, struct, and function in
// document order and accumulates into a growable byte buffer, grounded on
// the original glsl-optimizer project's ir_print_glsl_visitor.
//
// Unlike a cross-compiling backend, the printer never renames an
// identifier to dodge a keyword collision — HIR variable names already
// come from a parse of this same language, so no identifier a front-end
// accepted can collide with one of its own keywords. The one naming rule
// it does enforce is a skip, not a rename: a top-level Variable whose name
// begins with "gl_" is a built-in redeclare and is never printed.
package printer
