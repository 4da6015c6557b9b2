// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package optimize implements the fixed catalogue of semantics-preserving
// HIR rewrites and the fixed-point driver that runs them. Each Pass has
// signature (unit) -> bool changed; Driver runs the catalogue, in the
// fixed order the original glsl-optimizer's glslopt_optimize sweep used,
// repeatedly until a full sweep makes no further change.
package optimize
