// SPDX-License-Identifier: MPL-2.0

// Package shape provides the tensor shape value model shared by lowering and
// code generation: an element type plus a fixed, ordered dimension sequence.
// The canonical text form ("f32[1, 2, 3]") round-trips exactly through
// Parse and String and is the stable representation used wherever a tensor
// type crosses a text boundary (manifests, diagnostics, debug output).
package shape
