// SPDX-License-Identifier: MPL-2.0

// Package lower turns a parsed Runefile into a validated pipeline graph.
//
// Lowering walks the instruction sequence in declaration order, registers
// every stage in a name table, resolves each external reference through
// internal/resolve, folds the results into an aggregate dependency set, and
// validates the RUN instruction's step names against the table. It is the
// only stage of the compiler that performs cross-reference validation, and
// it is all-or-nothing: a partial graph is never handed to code generation.
package lower
