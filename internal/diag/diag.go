// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package diag accumulates and formats the diagnostics a front-end
// collaborator (lexer, parser, AST-to-HIR lowerer) reports while building
// a shader's ParseState, grounded on kanso's internal/errors reporter —
// scaled down to the error model spec.md §7 actually calls for (five flat
// kinds, no suggestion/fix-it machinery, since there is no real lexer or
// parser in this module to originate those).
package diag

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Kind is one of the five error kinds spec.md §7 names.
type Kind string

const (
	LexError    Kind = "lex error"
	ParseError  Kind = "parse error"
	LowerError  Kind = "lower error"
	IRMalformed Kind = "malformed IR"
	Unsupported Kind = "unsupported"
)

// Position locates a diagnostic in the original source text. Line and
// Column are zero when the front-end that reported it carries no
// position information.
type Position struct {
	Line   int
	Column int
}

// Entry is one reported diagnostic.
type Entry struct {
	Kind     Kind
	Message  string
	Position Position
}

// Log accumulates diagnostics for one compilation. The zero value is
// ready to use.
type Log struct {
	entries []Entry
}

// Add records a diagnostic.
func (l *Log) Add(kind Kind, pos Position, format string, args ...any) {
	l.entries = append(l.entries, Entry{Kind: kind, Message: fmt.Sprintf(format, args...), Position: pos})
}

// HasErrors reports whether any diagnostic was recorded. The catalogue
// has no warning-level kind, but an entry does not by itself mean
// status=false: a successful compilation still records the front-end's
// non-empty info log as an Unsupported entry.
func (l *Log) HasErrors() bool { return len(l.entries) > 0 }

// String renders the accumulated log as the plain-text form exposed
// through Shader.Log() — one line per diagnostic, no color codes, so it
// stays useful when captured to a file or compared in a test.
func (l *Log) String() string {
	var b strings.Builder
	for _, e := range l.entries {
		if e.Position.Line > 0 {
			fmt.Fprintf(&b, "%s: %d:%d: %s\n", e.Kind, e.Position.Line, e.Position.Column, e.Message)
		} else {
			fmt.Fprintf(&b, "%s: %s\n", e.Kind, e.Message)
		}
	}
	return b.String()
}

// Pretty renders the accumulated log with the same color treatment a
// terminal-facing CLI wants, one diagnostic per paragraph.
func (l *Log) Pretty() string {
	bold := color.New(color.Bold).SprintFunc()
	levelColor := color.New(color.FgRed, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	var b strings.Builder
	for _, e := range l.entries {
		fmt.Fprintf(&b, "%s: %s\n", levelColor(string(e.Kind)), bold(e.Message))
		if e.Position.Line > 0 {
			fmt.Fprintf(&b, "  %s %d:%d\n", dim("-->"), e.Position.Line, e.Position.Column)
		}
	}
	return b.String()
}

// Entries returns the recorded diagnostics in report order.
func (l *Log) Entries() []Entry { return l.entries }
