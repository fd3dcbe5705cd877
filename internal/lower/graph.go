// SPDX-License-Identifier: MPL-2.0

package lower

import (
	"runec/internal/resolve"
	"runec/pkg/runefile"
	"runec/pkg/shape"
)

type (
	// Role classifies a pipeline stage.
	Role int

	// Node is one stage of the lowered pipeline: its originating
	// instruction, resolved type information, and (for models and
	// proc-blocks) resolved dependency metadata. Nodes are immutable once
	// lowering returns; code generation only reads them.
	Node struct {
		// Name is the declared stage name.
		Name runefile.Ident
		// Role is the stage classification.
		Role Role
		// Instruction is the AST node the stage was lowered from.
		Instruction runefile.Instruction
		// Kind is the capability kind (capabilities only).
		Kind string
		// File is the model file reference (models only).
		File string
		// InputShape is the validated input buffer shape, nil when the
		// annotation was inferred or named.
		InputShape *shape.Shape
		// OutputShape is the validated output buffer shape, nil when the
		// annotation was inferred or named.
		OutputShape *shape.Shape
		// Dependency is the resolved external reference (models and
		// proc-blocks only).
		Dependency *resolve.Dependency
		// Parameters are the instruction's declared parameters in source order.
		Parameters []runefile.Argument
	}

	// Graph is the lowered, validated pipeline: nodes keyed by stage name,
	// the validated execution order, the aggregate dependency set, and the
	// resolved sink kind.
	Graph struct {
		// BaseImage is the FROM declaration, nil when absent.
		BaseImage *runefile.Path
		// Nodes maps stage name to node.
		Nodes map[string]*Node
		// Order lists stage names in declaration order.
		Order []string
		// RunOrder lists stage names in validated execution order. Empty
		// when the Runefile has no RUN instruction.
		RunOrder []string
		// Dependencies is the aggregate dependency set keyed by crate name.
		// Two references to the same crate fold into one entry; two
		// different resolutions for one crate are a conflict.
		Dependencies map[string]resolve.Dependency
		// Parameters aggregates proc-block parameters keyed by block name,
		// used for generated call-site configuration.
		Parameters map[string]map[string]runefile.ArgumentValue
		// Sink is the pipeline's terminal output kind.
		Sink string
	}
)

const (
	// RoleCapability is a data source stage.
	RoleCapability Role = iota
	// RoleProcBlock is a transform stage.
	RoleProcBlock
	// RoleModel is an inference stage.
	RoleModel
)

// String returns the lowercase role name.
func (r Role) String() string {
	switch r {
	case RoleCapability:
		return "capability"
	case RoleProcBlock:
		return "proc-block"
	case RoleModel:
		return "model"
	default:
		return "unknown"
	}
}

// Node returns the stage registered under name, or nil.
func (g *Graph) Node(name string) *Node { return g.Nodes[name] }

// StagesInRunOrder returns the nodes in validated execution order.
func (g *Graph) StagesInRunOrder() []*Node {
	stages := make([]*Node, 0, len(g.RunOrder))
	for _, name := range g.RunOrder {
		stages = append(stages, g.Nodes[name])
	}
	return stages
}

// StagesInDeclarationOrder returns the nodes in source declaration order.
func (g *Graph) StagesInDeclarationOrder() []*Node {
	stages := make([]*Node, 0, len(g.Order))
	for _, name := range g.Order {
		stages = append(stages, g.Nodes[name])
	}
	return stages
}
