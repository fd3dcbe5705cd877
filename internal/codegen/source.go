// SPDX-License-Identifier: MPL-2.0

package codegen

import (
	"fmt"
	"path"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"runec/internal/lower"
	"runec/pkg/runefile"
)

// GenerateSource renders the lib.rs pipeline wiring for a lowered graph.
// Output is deterministic: stages are emitted in declaration order and the
// pipeline closure threads them in validated execution order.
func GenerateSource(graph *lower.Graph) ([]byte, error) {
	// Lowering guarantees every execution-order entry resolves; a miss
	// here is a compiler defect.
	for _, name := range graph.RunOrder {
		if graph.Node(name) == nil {
			return nil, &InvariantError{Stage: name}
		}
	}

	var b strings.Builder
	writeAttributes(&b)
	writeHeader(&b)
	writeManifestFunction(&b, graph)
	writeCallFunction(&b)
	return []byte(b.String()), nil
}

func writeAttributes(b *strings.Builder) {
	b.WriteString("#![no_std]\n")
	b.WriteString("#![feature(alloc_error_handler)]\n\n")
}

func writeHeader(b *strings.Builder) {
	b.WriteString("extern crate alloc;\n\n")
	b.WriteString("use alloc::boxed::Box;\n")
	b.WriteString("use hotg_rune_core::{Sink, Source, Transform};\n")
	b.WriteString("use hotg_runicos_base_wasm::{debug, Capability, Model, Serial};\n\n")
	b.WriteString("static mut PIPELINE: Option<Box<dyn FnMut()>> = None;\n\n")
}

func writeManifestFunction(b *strings.Builder, graph *lower.Graph) {
	b.WriteString("#[no_mangle]\n")
	b.WriteString("pub extern \"C\" fn _manifest() -> u32 {\n")
	b.WriteString("    unsafe {\n")
	b.WriteString("        debug!(\"Initializing the pipeline\");\n\n")

	for _, node := range graph.StagesInDeclarationOrder() {
		writeStageSetup(b, graph, node)
	}

	b.WriteString(fmt.Sprintf("        let mut %s_sink = %s::new();\n\n",
		rustIdent(graph.Sink), rustType(graph.Sink)))

	writePipelineClosure(b, graph)

	b.WriteString("    }\n\n")
	b.WriteString("    1\n")
	b.WriteString("}\n\n")
}

// writeStageSetup emits one stage's construction and static configuration.
func writeStageSetup(b *strings.Builder, graph *lower.Graph, node *lower.Node) {
	name := rustIdent(node.Name.Value)

	switch node.Role {
	case lower.RoleCapability:
		b.WriteString(fmt.Sprintf("        let mut %s = Capability::new(%q);\n", name, node.Kind))
		for _, parameter := range node.Parameters {
			b.WriteString(fmt.Sprintf("        %s.set_parameter(%q, %s);\n",
				name, parameter.Name.Value, rustValue(parameter.Value)))
		}

	case lower.RoleModel:
		b.WriteString(fmt.Sprintf("        let %s_data = include_bytes!(%q);\n",
			name, path.Base(node.File)))
		b.WriteString(fmt.Sprintf("        let mut %s = Model::load(&%s_data[..]);\n",
			name, name))

	case lower.RoleProcBlock:
		crate := procBlockCrate(graph, node)
		b.WriteString(fmt.Sprintf("        let mut %s = %s::ProcBlock::default();\n", name, crate))
		// Call-site configuration comes from the aggregated parameter
		// table; keys are sorted so output stays deterministic.
		parameters := graph.Parameters[node.Name.Value]
		for _, parameterName := range sortedKeys(parameters) {
			b.WriteString(fmt.Sprintf("        %s.set_%s(%s);\n",
				name, rustIdent(parameterName), rustValue(parameters[parameterName])))
		}
	}
	b.WriteString("\n")
}

// writePipelineClosure threads each stage's output into the next and
// finally into the sink, in validated execution order.
func writePipelineClosure(b *strings.Builder, graph *lower.Graph) {
	b.WriteString("        PIPELINE = Some(Box::new(move || {\n")

	previous := ""
	for i, node := range graph.StagesInRunOrder() {
		name := rustIdent(node.Name.Value)
		variable := fmt.Sprintf("data_%d", i)
		switch node.Role {
		case lower.RoleCapability:
			b.WriteString(fmt.Sprintf("            let %s = %s.generate();\n", variable, name))
		default:
			b.WriteString(fmt.Sprintf("            let %s = %s.transform(%s);\n", variable, name, previous))
		}
		previous = variable
	}

	if previous != "" {
		b.WriteString(fmt.Sprintf("            %s_sink.consume(%s);\n", rustIdent(graph.Sink), previous))
	}

	b.WriteString("        }));\n")
}

func writeCallFunction(b *strings.Builder) {
	b.WriteString("#[no_mangle]\n")
	b.WriteString("pub extern \"C\" fn _call(\n")
	b.WriteString("    _capability_type: i32,\n")
	b.WriteString("    _input_type: i32,\n")
	b.WriteString("    _capability_idx: i32,\n")
	b.WriteString(") -> i32 {\n")
	b.WriteString("    unsafe {\n")
	b.WriteString("        let pipeline = PIPELINE\n")
	b.WriteString("            .as_mut()\n")
	b.WriteString("            .expect(\"the rune has not been initialized\");\n\n")
	b.WriteString("        pipeline();\n")
	b.WriteString("    }\n\n")
	b.WriteString("    0\n")
	b.WriteString("}\n")
}

// procBlockCrate derives the Rust module path a proc-block stage is called
// through: the crate key of its dependency entry, underscored.
func procBlockCrate(graph *lower.Graph, node *lower.Node) string {
	instr, ok := node.Instruction.(*runefile.ProcBlock)
	if !ok {
		return rustIdent(node.Name.Value)
	}
	segments := instr.Path.Base
	if instr.Path.SubPath != "" {
		segments = instr.Path.SubPath
	}
	return rustIdent(path.Base(segments))
}

func sortedKeys(table map[string]runefile.ArgumentValue) []string {
	keys := maps.Keys(table)
	slices.Sort(keys)
	return keys
}

// rustIdent makes a name usable as a Rust identifier segment.
func rustIdent(name string) string {
	return strings.ReplaceAll(strings.ReplaceAll(name, "-", "_"), ".", "_")
}

// rustType renders a sink kind as its runtime type name, e.g. "serial"
// becomes "Serial".
func rustType(kind string) string {
	if kind == "" {
		return kind
	}
	return strings.ToUpper(kind[:1]) + kind[1:]
}

// rustValue renders a parameter value as a Rust literal.
func rustValue(value runefile.ArgumentValue) string {
	if value.IsList() {
		quoted := make([]string, len(value.List))
		for i, item := range value.List {
			quoted[i] = fmt.Sprintf("%q", item)
		}
		return "&[" + strings.Join(quoted, ", ") + "]"
	}

	literal := value.Literal
	switch literal.Kind {
	case runefile.LiteralInteger, runefile.LiteralFloat:
		return literal.String()
	default:
		return fmt.Sprintf("%q", literal.Str)
	}
}
