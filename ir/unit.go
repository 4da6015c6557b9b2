// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ir

// Stage is the shader role: it selects the printer's storage-qualifier
// spelling table and (conceptually) the builtin variable set a front-end
// recognizes.
type Stage int

const (
	StageVertex Stage = iota
	StageFragment
)

func (s Stage) String() string {
	if s == StageVertex {
		return "vertex"
	}
	return "fragment"
}

// TranslationUnit is the top-level ordered instruction list produced by
// lowering one shader: global Variables and Functions, plus the
// TypeRegistry the whole unit's types were interned through. There is
// exactly one TranslationUnit per compilation, matching the single
// hierarchical arena the spec describes (realized here as ordinary
// GC-owned slices — see SPEC_FULL.md §7).
type TranslationUnit struct {
	Types        *TypeRegistry
	Instructions List
}

// NewTranslationUnit returns an empty unit with a fresh TypeRegistry.
func NewTranslationUnit() *TranslationUnit {
	return &TranslationUnit{Types: NewTypeRegistry()}
}

// UserStructures returns every struct Type referenced by the unit's
// globals and function bodies, in first-seen order — the struct-usage
// pre-pass the printer needs to decide which struct declarations to
// emit (spec.md §4.6 "Emit every user-defined struct that is actually
// referenced").
func (u *TranslationUnit) UserStructures() []*Type {
	seen := make(map[*Type]bool)
	var order []*Type
	var visitType func(t *Type)
	visitType = func(t *Type) {
		if t == nil || seen[t] {
			return
		}
		switch t.Kind {
		case TypeStruct:
			seen[t] = true
			order = append(order, t)
			for _, f := range t.Fields {
				visitType(f.Type)
			}
		case TypeArray:
			visitType(t.Elem)
		}
	}
	Walk(u.Instructions, WalkFuncs{
		Type: visitType,
	})
	for _, instr := range u.Instructions {
		if vr, ok := instr.(*Variable); ok {
			visitType(vr.Type)
		}
	}
	return order
}

// ParseState is the result of the out-of-scope front-end collaborator:
// populated error/log state plus a TranslationUnit on success. Field
// names mirror the `parse_state` collaborator described in spec.md §6.
type ParseState struct {
	Stage           Stage
	Error           bool
	InfoLog         string
	UserStructures  []*Type
	TranslationUnit *TranslationUnit
}

// FrontEnd is the single interface the core consumes for lexing,
// parsing, and AST→HIR lowering (spec.md §4.1, §6) — all out of scope for
// this module. Tests supply a fake that builds a TranslationUnit by hand;
// there is no real lexer/parser anywhere in this module.
type FrontEnd interface {
	BuildHIR(stage Stage, source string) (*ParseState, error)
}
