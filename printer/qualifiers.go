// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package printer

import "github.com/gogpu/glslopt/ir"

// qualifierKeyword returns the storage-qualifier spelling for a
// (stage, storage) pair, or the forced generic spelling when generic is
// true (function-signature parameters never emit a stage keyword).
//
//	mode \ kind |  auto  uniform   in          out       inout
//	------------+----------------------------------------------
//	generic     |   ""   "uniform" "in "       "out "    "inout "
//	vertex      |   ""   "uniform" "attribute ""varying" "inout "
//	fragment    |   ""   "uniform" "varying "  "out "    "inout "
func qualifierKeyword(stage ir.Stage, generic bool, storage ir.StorageQualifier) string {
	if generic {
		return genericQualifier(storage)
	}
	switch stage {
	case ir.StageVertex:
		return vertexQualifier(storage)
	case ir.StageFragment:
		return fragmentQualifier(storage)
	default:
		return genericQualifier(storage)
	}
}

func genericQualifier(s ir.StorageQualifier) string {
	switch s {
	case ir.StorageUniform:
		return "uniform "
	case ir.StorageIn:
		return "in "
	case ir.StorageOut:
		return "out "
	case ir.StorageInout:
		return "inout "
	default:
		return ""
	}
}

func vertexQualifier(s ir.StorageQualifier) string {
	switch s {
	case ir.StorageUniform:
		return "uniform "
	case ir.StorageIn:
		return "attribute "
	case ir.StorageOut:
		return "varying "
	case ir.StorageInout:
		return "inout "
	default:
		return ""
	}
}

func fragmentQualifier(s ir.StorageQualifier) string {
	switch s {
	case ir.StorageUniform:
		return "uniform "
	case ir.StorageIn:
		return "varying "
	case ir.StorageOut:
		return "out "
	case ir.StorageInout:
		return "inout "
	default:
		return ""
	}
}
