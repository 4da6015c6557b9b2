// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package optimize

import "github.com/gogpu/glslopt/ir"

// Pass rewrites a translation unit in place and reports whether it made
// progress. Grounded on kanso-lang's OptimizationPass interface
// (Name/Apply/Description); adapted here to operate on an
// ir.TranslationUnit instead of a basic-block SSA program.
type Pass interface {
	Name() string
	Description() string
	Apply(unit *ir.TranslationUnit, b *ir.Builder) bool
}

// Driver runs a fixed, ordered catalogue of passes to a fixed point: a
// sweep runs every pass once in order; the driver repeats sweeps until
// one completes with no pass reporting progress. Grounded on kanso's
// OptimizationPipeline, wrapped in the do {...} while(progress) loop from
// glsl_optimizer.cpp's glslopt_optimize, which kanso's own single-sweep
// Run does not have.
type Driver struct {
	passes []Pass

	// OnSweep, if set, is invoked after every sweep with the names of
	// passes that reported progress during that sweep, e.g. to report
	// per-sweep progress the way glsl_optimizer.cpp's debug build does
	// with debug_print_ir. Only driver_test.go sets it; the CLI does not.
	OnSweep func(sweep int, progressed []string)
}

// NewDriver returns a Driver preloaded with the fifteen passes spec.md
// §4.4 names, in the fixed order glsl_optimizer.cpp runs them.
// do_vec_index_to_cond_assign is intentionally absent: it was disabled
// (commented out) in the source this was distilled from, and spec.md §9
// directs implementers to leave it out pending a separate specification.
func NewDriver() *Driver {
	return &Driver{
		passes: []Pass{
			&FunctionInlining{},
			&DeadFunctions{},
			&StructureSplitting{},
			&IfSimplification{},
			&CopyPropagation{},
			&DeadCodeLocal{},
			&DeadCodeUnlinked{},
			&TreeGrafting{},
			&ConstantPropagation{},
			&ConstantVariableUnlinked{},
			&ConstantFolding{},
			&Algebraic{},
			&VecIndexToSwizzle{},
			&SwizzleSwizzle{},
			&NoopSwizzle{},
		},
	}
}

// Passes returns the driver's pass catalogue in fixed order.
func (d *Driver) Passes() []Pass { return d.passes }

// Run sweeps the pass catalogue over unit until a full sweep reports no
// progress. The measure that decreases every rewrite (node count, call
// count, copy count — spec.md §4.5) is not tracked explicitly here: every
// individual pass below is written to only ever shrink or simplify the
// tree, which is sufficient for termination without a separate counter.
func (d *Driver) Run(unit *ir.TranslationUnit) {
	b := ir.NewBuilder(unit.Types)
	for sweep := 1; ; sweep++ {
		progress := false
		var progressed []string
		for _, p := range d.passes {
			if p.Apply(unit, b) {
				progress = true
				progressed = append(progressed, p.Name())
			}
		}
		if d.OnSweep != nil {
			d.OnSweep(sweep, progressed)
		}
		if !progress {
			return
		}
	}
}
