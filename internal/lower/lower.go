// SPDX-License-Identifier: MPL-2.0

package lower

import (
	"log/slog"
	"strings"

	"runec/internal/resolve"
	"runec/pkg/runefile"
	"runec/pkg/shape"
)

// DefaultSink is the terminal output kind used when a Runefile declares no
// OUT instruction.
const DefaultSink = "serial"

// Lower walks the instruction sequence and produces the validated pipeline
// graph. workDir anchors local ("."-prefixed) dependency references.
//
// Any validation failure aborts the whole compile; the returned graph is
// complete or absent, never partial.
func Lower(doc *runefile.Runefile, workDir string) (*Graph, error) {
	l := &lowering{
		workDir: workDir,
		graph: &Graph{
			Nodes:        make(map[string]*Node),
			Dependencies: make(map[string]resolve.Dependency),
			Parameters:   make(map[string]map[string]runefile.ArgumentValue),
			Sink:         DefaultSink,
		},
	}

	// First pass: register every stage and record FROM/OUT declarations.
	for _, instruction := range doc.Instructions {
		if err := l.register(instruction); err != nil {
			return nil, err
		}
	}
	slog.Debug("lowering: stage registration complete",
		"stages", len(l.graph.Nodes), "dependencies", len(l.graph.Dependencies))

	// Second pass: resolve every RUN reference against the name table.
	for _, instruction := range doc.Instructions {
		run, ok := instruction.(*runefile.Run)
		if !ok {
			continue
		}
		for _, step := range run.Steps {
			if _, declared := l.graph.Nodes[step.Value]; !declared {
				return nil, &DanglingReferenceError{Name: step, RunSpan: run.Span}
			}
			l.graph.RunOrder = append(l.graph.RunOrder, step.Value)
		}
	}
	slog.Debug("lowering: run order validated", "steps", len(l.graph.RunOrder), "sink", l.graph.Sink)

	return l.graph, nil
}

type lowering struct {
	workDir string
	graph   *Graph
}

// register lowers a single instruction. The switch is exhaustive over the
// sealed instruction set; RUN is handled in the second pass.
func (l *lowering) register(instruction runefile.Instruction) error {
	switch instr := instruction.(type) {
	case *runefile.From:
		image := instr.Image
		l.graph.BaseImage = &image
		return nil

	case *runefile.Capability:
		node := &Node{
			Name:        instr.Name,
			Role:        RoleCapability,
			Instruction: instr,
			Kind:        instr.Kind.Value,
			Parameters:  instr.Parameters,
		}
		var err error
		if node.OutputShape, err = stageShape(instr.Name, instr.OutputType); err != nil {
			return err
		}
		return l.addNode(node)

	case *runefile.ProcBlock:
		node := &Node{
			Name:        instr.Name,
			Role:        RoleProcBlock,
			Instruction: instr,
			Parameters:  instr.Parameters,
		}
		var err error
		if node.InputShape, err = stageShape(instr.Name, instr.InputType); err != nil {
			return err
		}
		if node.OutputShape, err = stageShape(instr.Name, instr.OutputType); err != nil {
			return err
		}
		dep := resolve.Resolve(instr.Path, l.workDir)
		node.Dependency = &dep
		if err := l.addNode(node); err != nil {
			return err
		}
		if err := l.addDependency(resolve.CrateName(instr.Path), dep); err != nil {
			return err
		}
		l.addParameters(instr.Name.Value, instr.Parameters)
		return nil

	case *runefile.Model:
		node := &Node{
			Name:        instr.Name,
			Role:        RoleModel,
			Instruction: instr,
			File:        instr.File,
			Parameters:  instr.Parameters,
		}
		var err error
		if node.InputShape, err = stageShape(instr.Name, instr.InputType); err != nil {
			return err
		}
		if node.OutputShape, err = stageShape(instr.Name, instr.OutputType); err != nil {
			return err
		}
		if err := l.addNode(node); err != nil {
			return err
		}
		// Model files that are themselves external references (anything not
		// pointing into the local tree) contribute to the dependency set.
		if path, perr := runefile.ParsePath(instr.File, instr.SourceSpan()); perr == nil && !path.IsLocal() && strings.Contains(path.Base, "/") {
			dep := resolve.Resolve(path, l.workDir)
			node.Dependency = &dep
			if err := l.addDependency(resolve.CrateName(path), dep); err != nil {
				return err
			}
		}
		return nil

	case *runefile.Run:
		return nil

	case *runefile.Out:
		// The most recent OUT wins.
		l.graph.Sink = instr.OutType.Value
		return nil
	}

	return nil
}

// addNode registers a stage in the name table. Re-declaring a name is an
// error rather than a shadowing overwrite.
func (l *lowering) addNode(node *Node) error {
	name := node.Name.Value
	if previous, exists := l.graph.Nodes[name]; exists {
		return &DuplicateStageError{Name: node.Name, Previous: previous.Name.Span}
	}
	l.graph.Nodes[name] = node
	l.graph.Order = append(l.graph.Order, name)
	return nil
}

// addDependency folds one resolution into the aggregate set, keyed by crate
// name. Re-inserting an identical resolution is a no-op; a different one is
// a conflict.
func (l *lowering) addDependency(crate string, dep resolve.Dependency) error {
	if existing, exists := l.graph.Dependencies[crate]; exists {
		if existing.Equal(dep) {
			return nil
		}
		return &ConflictingDependencyError{Name: crate, First: existing, Second: dep}
	}
	l.graph.Dependencies[crate] = dep
	return nil
}

// addParameters merges one instruction's parameters into the aggregate
// proc-block parameter table. Later values for the same name win.
func (l *lowering) addParameters(name string, parameters []runefile.Argument) {
	if len(parameters) == 0 {
		return
	}
	table := l.graph.Parameters[name]
	if table == nil {
		table = make(map[string]runefile.ArgumentValue)
		l.graph.Parameters[name] = table
	}
	for _, parameter := range parameters {
		table[parameter.Name.Value] = parameter.Value
	}
}

// stageShape validates a buffer type annotation through the shape model.
// Inferred and named annotations carry no dimensions and lower to nil.
func stageShape(stage runefile.Ident, t runefile.Type) (*shape.Shape, error) {
	if t.Kind != runefile.TypeBuffer {
		return nil, nil
	}

	elementType, err := shape.ParseElementType(strings.ToLower(t.Name.Value))
	if err != nil {
		return nil, &InvalidStageTypeError{Stage: stage, Span: t.Span, Err: err}
	}

	s := shape.New(elementType, t.Dimensions...)
	return &s, nil
}
