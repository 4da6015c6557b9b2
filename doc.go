// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package glslopt is a standalone optimizing compiler for a GLSL ES /
// GLSL 1.10-era shading language: it parses vertex or fragment shader
// source into a typed high-level intermediate representation, applies a
// fixed catalogue of semantics-preserving rewrites to a fixed point, and
// pretty-prints the result back out as valid source text.
//
// Lexing, parsing, and AST-to-HIR lowering are out of scope for this
// module and are supplied by the caller as a FrontEnd implementation (see
// package ir); Context.Optimize drives that collaborator plus the
// optimize and printer packages to produce a Shader.
package glslopt
