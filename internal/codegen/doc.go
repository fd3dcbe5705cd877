// SPDX-License-Identifier: MPL-2.0

// Package codegen turns a lowered pipeline graph into a deployable build
// unit: a Cargo.toml dependency manifest plus the generated Rust pipeline
// source. Generation is a pure function of the graph (identical graphs
// produce byte-identical artifacts) and the artifacts are built fully in
// memory before Publish writes them out in a single atomic step.
package codegen
