// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package ir defines the typed high-level intermediate representation for
// the shader optimizer: canonical type descriptors, the tagged instruction
// kinds that make up a translation unit (variables, function signatures,
// expressions, control flow), and the utilities every optimization pass
// relies on — type-checked construction, structural validation, cloning,
// and a read-only tree walk.
//
// # Basic usage
//
//	unit := ir.NewTranslationUnit()
//	f := unit.Types.Scalar(ir.BaseFloat) // see TypeRegistry
//
// Nodes are ordinary Go values connected by pointers and held in Lists;
// there is no arena or handle table; the Go garbage collector owns
// lifetime, matching the "freed en bloc" contract of the system this
// package implements described only at the process level.
package ir
