// SPDX-License-Identifier: MPL-2.0

package runefile

type (
	// Runefile is the parsed document: the ordered instruction sequence plus
	// a span covering the whole source. Instruction order is semantically
	// significant: it is pipeline declaration order and later code
	// generation preserves it.
	Runefile struct {
		Instructions []Instruction
		Span         Span
	}

	// Instruction is the sealed variant set of Runefile statements: From,
	// Model, Capability, Run, ProcBlock and Out. SourceSpan dispatches to
	// the active variant. The unexported marker keeps the set closed so
	// consumers can type-switch exhaustively without a default case.
	Instruction interface {
		// SourceSpan reports the source region covered by the instruction.
		SourceSpan() Span

		instruction()
	}

	// From declares the base image the compiled pipeline builds on.
	From struct {
		Image Path
		Span  Span
	}

	// Model declares a named inference stage backed by a model file.
	Model struct {
		Name       Ident
		File       string
		InputType  Type
		OutputType Type
		Parameters []Argument
		Span       Span
	}

	// Capability declares a named data source of some kind (e.g. ACCEL,
	// RAND, SOUND) producing values of OutputType.
	Capability struct {
		Kind       Ident
		Name       Ident
		OutputType Type
		Parameters []Argument
		Span       Span
	}

	// ProcBlock declares a named transform stage fetched from an external
	// dependency path.
	ProcBlock struct {
		Path       Path
		Name       Ident
		InputType  Type
		OutputType Type
		Parameters []Argument
		Span       Span
	}

	// Run declares the execution order as a sequence of stage names.
	Run struct {
		Steps []Ident
		Span  Span
	}

	// Out declares the pipeline's terminal output sink kind.
	Out struct {
		OutType Ident
		Span    Span
	}

	// Ident is a name with source attribution. Identity is the Value alone:
	// two uses of the same stage name must resolve to the same entity during
	// lowering, so the span never participates in comparisons; compare with
	// Equal or key maps by Value.
	Ident struct {
		Value string
		Span  Span
	}
)

// SourceSpan implements Instruction.
func (f *From) SourceSpan() Span { return f.Span }

// SourceSpan implements Instruction.
func (m *Model) SourceSpan() Span { return m.Span }

// SourceSpan implements Instruction.
func (c *Capability) SourceSpan() Span { return c.Span }

// SourceSpan implements Instruction.
func (p *ProcBlock) SourceSpan() Span { return p.Span }

// SourceSpan implements Instruction.
func (r *Run) SourceSpan() Span { return r.Span }

// SourceSpan implements Instruction.
func (o *Out) SourceSpan() Span { return o.Span }

func (f *From) instruction()       {}
func (m *Model) instruction()      {}
func (c *Capability) instruction() {}
func (p *ProcBlock) instruction()  {}
func (r *Run) instruction()        {}
func (o *Out) instruction()        {}

// NewIdent constructs an Ident.
func NewIdent(value string, span Span) Ident {
	return Ident{Value: value, Span: span}
}

// Equal compares idents by value only, ignoring spans.
func (i Ident) Equal(other Ident) bool { return i.Value == other.Value }

// String returns the ident's value.
func (i Ident) String() string { return i.Value }
