// SPDX-License-Identifier: MPL-2.0

// Package runefile implements the surface syntax of a Runefile: the lexical
// grammar, the typed abstract syntax tree, and the base@version#sub_path
// dependency path notation.
//
// A Runefile is a line-oriented pipeline description. Each non-blank,
// non-comment line declares one instruction:
//
//	FROM runicos/base
//	CAPABILITY<F32[3]> ACCEL accelerometer --n 3
//	PROC_BLOCK<F32[3], F32[3]> hotg-ai/rune#proc_blocks/normalize normalize
//	MODEL<F32[3], F32[1]> ./sine.tflite sine
//	RUN accelerometer normalize sine
//	OUT serial
//
// Parse validates structural well-formedness only; cross-reference and type
// validation happen during lowering. Every AST node carries a Span of byte
// offsets into the original source so diagnostics can point at the exact
// offending region.
package runefile
