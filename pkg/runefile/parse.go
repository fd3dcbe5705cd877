// SPDX-License-Identifier: MPL-2.0

package runefile

import (
	"strconv"
	"strings"
)

// Parse tokenizes and parses Runefile source text into its typed AST.
// It validates structural well-formedness only; an unrecognized or malformed
// instruction is a hard SyntaxError, never a skip. Cross-reference checks
// (types, stage names, dependencies) belong to lowering.
func Parse(src string) (*Runefile, error) {
	doc := &Runefile{Span: NewSpan(0, len(src))}

	offset := 0
	for _, line := range strings.SplitAfter(src, "\n") {
		start := offset
		offset += len(line)

		line = strings.TrimSuffix(line, "\n")
		line = strings.TrimSuffix(line, "\r")

		// Strip trailing // comments; full-line comments and blanks vanish.
		// Only a "//" at the start of the line or preceded by whitespace
		// opens a comment, so URL bases like https://github.com survive.
		line = stripComment(line)
		trimmed := strings.TrimRight(line, " \t")
		if strings.TrimSpace(trimmed) == "" {
			continue
		}

		rec := &record{src: src, pos: start, end: start + len(trimmed)}
		rec.skipSpaces()

		instr, err := parseInstruction(rec)
		if err != nil {
			return nil, err
		}
		doc.Instructions = append(doc.Instructions, instr)
	}

	return doc, nil
}

// stripComment removes a trailing "//" comment. The marker only counts when
// it starts the line or follows whitespace.
func stripComment(line string) string {
	for i := 0; i+1 < len(line); i++ {
		if line[i] != '/' || line[i+1] != '/' {
			continue
		}
		if i == 0 || line[i-1] == ' ' || line[i-1] == '\t' {
			return line[:i]
		}
	}
	return line
}

// record is a cursor over a single instruction line. Positions are absolute
// byte offsets into the full source so every span survives into diagnostics.
type record struct {
	src string
	pos int
	end int
}

func (r *record) eof() bool { return r.pos >= r.end }

func (r *record) rest() string { return r.src[r.pos:r.end] }

func (r *record) skipSpaces() {
	for r.pos < r.end && (r.src[r.pos] == ' ' || r.src[r.pos] == '\t') {
		r.pos++
	}
}

// token consumes the next whitespace-delimited token. Trailing commas are
// stripped (the RUN step list is comma tolerant).
func (r *record) token() (string, Span) {
	r.skipSpaces()
	start := r.pos
	for r.pos < r.end && r.src[r.pos] != ' ' && r.src[r.pos] != '\t' {
		r.pos++
	}
	tok := r.src[start:r.pos]
	if trimmed := strings.TrimRight(tok, ","); trimmed != tok {
		tok = trimmed
	}
	return tok, NewSpan(start, start+len(tok))
}

func (r *record) spanFrom(start int) Span { return NewSpan(start, r.end) }

// parseInstruction dispatches on the leading keyword. The keyword is matched
// case-insensitively; a type list may be glued to it (CAPABILITY<F32[1]>).
func parseInstruction(r *record) (Instruction, error) {
	start := r.pos
	keyword := readKeyword(r)
	if keyword == "" {
		return nil, syntaxError("expected an instruction keyword", r.spanFrom(start), r.rest())
	}

	switch strings.ToUpper(keyword) {
	case "FROM":
		return fromRecord(r, start)
	case "CAPABILITY":
		return capabilityRecord(r, start)
	case "PROC_BLOCK":
		return procBlockRecord(r, start)
	case "MODEL":
		return modelRecord(r, start)
	case "RUN":
		return runRecord(r, start)
	case "OUT":
		return outRecord(r, start)
	default:
		return nil, syntaxError("unrecognized instruction", NewSpan(start, start+len(keyword)), keyword)
	}
}

// readKeyword consumes leading letters, digits, underscores, and dashes,
// stopping at the first '<' or whitespace so glued type lists stay in the
// record. It doubles as the reader for argument names ("--hz", "--n").
func readKeyword(r *record) string {
	start := r.pos
	for r.pos < r.end {
		c := r.src[r.pos]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
			(c >= '0' && c <= '9') || c == '_' || c == '-' {
			r.pos++
			continue
		}
		break
	}
	return r.src[start:r.pos]
}

func fromRecord(r *record, start int) (Instruction, error) {
	tok, span := r.token()
	if tok == "" {
		return nil, syntaxError("FROM expects a base image path", r.spanFrom(start), "")
	}
	image, err := ParsePath(tok, span)
	if err != nil {
		return nil, err
	}
	if err := expectEnd(r, "FROM"); err != nil {
		return nil, err
	}
	return &From{Image: image, Span: r.spanFrom(start)}, nil
}

func capabilityRecord(r *record, start int) (Instruction, error) {
	types, err := parseTypeList(r)
	if err != nil {
		return nil, err
	}
	outputType := InferredType(NewSpan(r.pos, r.pos))
	switch len(types) {
	case 0:
	case 1:
		outputType = types[0]
	default:
		return nil, syntaxError("CAPABILITY takes a single output type", types[1].Span, "")
	}

	kind, err := identToken(r, "CAPABILITY expects a capability kind")
	if err != nil {
		return nil, err
	}
	name, err := identToken(r, "CAPABILITY expects a stage name")
	if err != nil {
		return nil, err
	}
	parameters, err := parseArguments(r)
	if err != nil {
		return nil, err
	}

	return &Capability{
		Kind:       kind,
		Name:       name,
		OutputType: outputType,
		Parameters: parameters,
		Span:       r.spanFrom(start),
	}, nil
}

func procBlockRecord(r *record, start int) (Instruction, error) {
	inputType, outputType, err := stageTypes(r, "PROC_BLOCK")
	if err != nil {
		return nil, err
	}

	tok, span := r.token()
	if tok == "" {
		return nil, syntaxError("PROC_BLOCK expects a dependency path", r.spanFrom(start), "")
	}
	path, err := ParsePath(tok, span)
	if err != nil {
		return nil, err
	}

	name, err := identToken(r, "PROC_BLOCK expects a stage name")
	if err != nil {
		return nil, err
	}
	parameters, err := parseArguments(r)
	if err != nil {
		return nil, err
	}

	return &ProcBlock{
		Path:       path,
		Name:       name,
		InputType:  inputType,
		OutputType: outputType,
		Parameters: parameters,
		Span:       r.spanFrom(start),
	}, nil
}

func modelRecord(r *record, start int) (Instruction, error) {
	inputType, outputType, err := stageTypes(r, "MODEL")
	if err != nil {
		return nil, err
	}

	file, _ := r.token()
	if file == "" {
		return nil, syntaxError("MODEL expects a model file", r.spanFrom(start), "")
	}

	name, err := identToken(r, "MODEL expects a stage name")
	if err != nil {
		return nil, err
	}
	parameters, err := parseArguments(r)
	if err != nil {
		return nil, err
	}

	return &Model{
		Name:       name,
		File:       file,
		InputType:  inputType,
		OutputType: outputType,
		Parameters: parameters,
		Span:       r.spanFrom(start),
	}, nil
}

func runRecord(r *record, start int) (Instruction, error) {
	var steps []Ident
	for {
		r.skipSpaces()
		if r.eof() {
			break
		}
		step, err := identToken(r, "RUN expects stage names")
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	if len(steps) == 0 {
		return nil, syntaxError("RUN expects at least one stage name", r.spanFrom(start), "")
	}
	return &Run{Steps: steps, Span: r.spanFrom(start)}, nil
}

func outRecord(r *record, start int) (Instruction, error) {
	outType, err := identToken(r, "OUT expects an output kind")
	if err != nil {
		return nil, err
	}
	if err := expectEnd(r, "OUT"); err != nil {
		return nil, err
	}
	return &Out{OutType: outType, Span: r.spanFrom(start)}, nil
}

// stageTypes reads the optional <input, output> annotation shared by MODEL
// and PROC_BLOCK. Absent means both inferred; a single type is rejected.
func stageTypes(r *record, keyword string) (Type, Type, error) {
	types, err := parseTypeList(r)
	if err != nil {
		return Type{}, Type{}, err
	}
	switch len(types) {
	case 0:
		inferred := InferredType(NewSpan(r.pos, r.pos))
		return inferred, inferred, nil
	case 2:
		return types[0], types[1], nil
	default:
		return Type{}, Type{}, syntaxError(keyword+" expects both an input and an output type", types[0].Span, "")
	}
}

// parseTypeList reads "<type, type>" when the cursor sits on '<'. Commas
// inside '[' ']' belong to buffer dimensions, not the list.
func parseTypeList(r *record) ([]Type, error) {
	r.skipSpaces()
	if r.eof() || r.src[r.pos] != '<' {
		return nil, nil
	}

	open := r.pos
	r.pos++
	closing := strings.IndexByte(r.src[r.pos:r.end], '>')
	if closing < 0 {
		return nil, syntaxError("unterminated type list", NewSpan(open, r.end), r.src[open:r.end])
	}
	interior := r.src[r.pos : r.pos+closing]
	base := r.pos
	r.pos += closing + 1

	var types []Type
	depth := 0
	itemStart := 0
	flush := func(end int) error {
		item := interior[itemStart:end]
		span := NewSpan(base+itemStart, base+end)
		parsed, err := parseType(item, span)
		if err != nil {
			return err
		}
		types = append(types, parsed)
		return nil
	}
	for i := 0; i < len(interior); i++ {
		switch interior[i] {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				if err := flush(i); err != nil {
					return nil, err
				}
				itemStart = i + 1
			}
		}
	}
	if err := flush(len(interior)); err != nil {
		return nil, err
	}

	return types, nil
}

// parseType reads a single type annotation: "_" (inferred), a bare
// identifier (named), or "ident[d0, d1, ...]" (buffer).
func parseType(text string, span Span) (Type, error) {
	leading := len(text) - len(strings.TrimLeft(text, " \t"))
	trimmed := strings.TrimSpace(text)
	span = NewSpan(span.Start+leading, span.Start+leading+len(trimmed))

	if trimmed == "" {
		return Type{}, syntaxError("empty type in type list", span, text)
	}
	if trimmed == "_" {
		return InferredType(span), nil
	}

	open := strings.IndexByte(trimmed, '[')
	if open < 0 {
		if !isIdent(trimmed) {
			return Type{}, syntaxError("invalid type name", span, trimmed)
		}
		name := NewIdent(trimmed, span)
		return NamedType(name, span), nil
	}

	if !strings.HasSuffix(trimmed, "]") {
		return Type{}, syntaxError("unterminated buffer dimensions", span, trimmed)
	}
	elementName := strings.TrimSpace(trimmed[:open])
	if !isIdent(elementName) {
		return Type{}, syntaxError("invalid buffer element type", span, elementName)
	}

	var dimensions []int
	interior := strings.TrimSpace(trimmed[open+1 : len(trimmed)-1])
	if interior != "" {
		for _, word := range strings.Split(interior, ",") {
			word = strings.TrimSpace(word)
			dim, err := strconv.Atoi(word)
			if err != nil || dim < 0 {
				return Type{}, syntaxError("invalid buffer dimension", span, word)
			}
			dimensions = append(dimensions, dim)
		}
	}

	name := NewIdent(elementName, NewSpan(span.Start, span.Start+open))
	return BufferType(name, dimensions, span), nil
}

// parseArguments reads the trailing "--name value" parameter list. A value
// is a bare token, a quoted string, or a "[a, b, c]" string list.
func parseArguments(r *record) ([]Argument, error) {
	var arguments []Argument
	for {
		r.skipSpaces()
		if r.eof() {
			return arguments, nil
		}

		start := r.pos
		if !strings.HasPrefix(r.rest(), "--") {
			return nil, syntaxError("expected a --name argument", r.spanFrom(start), r.rest())
		}
		r.pos += 2
		name := readKeyword(r)
		if name == "" {
			return nil, syntaxError("argument is missing its name", r.spanFrom(start), r.rest())
		}
		nameSpan := NewSpan(start+2, r.pos)

		value, err := parseArgumentValue(r)
		if err != nil {
			return nil, err
		}

		arguments = append(arguments, Argument{
			Name:  NewIdent(name, nameSpan),
			Value: value,
			Span:  NewSpan(start, r.pos),
		})
	}
}

func parseArgumentValue(r *record) (ArgumentValue, error) {
	r.skipSpaces()
	if r.eof() {
		return ArgumentValue{}, syntaxError("argument is missing its value", r.spanFrom(r.pos), "")
	}

	if r.src[r.pos] == '[' {
		open := r.pos
		closing := strings.IndexByte(r.src[r.pos:r.end], ']')
		if closing < 0 {
			return ArgumentValue{}, syntaxError("unterminated list value", r.spanFrom(open), r.src[open:r.end])
		}
		interior := r.src[r.pos+1 : r.pos+closing]
		r.pos += closing + 1

		var items []string
		for _, item := range strings.Split(interior, ",") {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			items = append(items, unquote(item))
		}
		return ArgumentValue{List: items}, nil
	}

	if r.src[r.pos] == '"' {
		open := r.pos
		closing := strings.IndexByte(r.src[r.pos+1:r.end], '"')
		if closing < 0 {
			return ArgumentValue{}, syntaxError("unterminated string value", r.spanFrom(open), r.src[open:r.end])
		}
		value := r.src[r.pos+1 : r.pos+1+closing]
		span := NewSpan(open, r.pos+closing+2)
		r.pos += closing + 2
		return ArgumentValue{Literal: &Literal{Kind: LiteralString, Str: value, Span: span}}, nil
	}

	tok, span := r.token()
	return ArgumentValue{Literal: classifyLiteral(tok, span)}, nil
}

// classifyLiteral sorts a bare token into integer, float, or string.
func classifyLiteral(tok string, span Span) *Literal {
	if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return &Literal{Kind: LiteralInteger, Integer: n, Span: span}
	}
	if f, err := strconv.ParseFloat(tok, 64); err == nil {
		return &Literal{Kind: LiteralFloat, Float: f, Span: span}
	}
	return &Literal{Kind: LiteralString, Str: tok, Span: span}
}

func identToken(r *record, msg string) (Ident, error) {
	tok, span := r.token()
	if tok == "" {
		return Ident{}, syntaxError(msg, r.spanFrom(r.pos), "")
	}
	if !isIdent(tok) {
		return Ident{}, syntaxError("invalid identifier", span, tok)
	}
	return NewIdent(tok, span), nil
}

func expectEnd(r *record, keyword string) error {
	r.skipSpaces()
	if !r.eof() {
		return syntaxError("unexpected trailing text after "+keyword, r.spanFrom(r.pos), r.rest())
	}
	return nil
}

// isIdent reports whether s is a bare identifier: a letter or underscore
// followed by letters, digits, underscores, or dashes.
func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		case i > 0 && (c >= '0' && c <= '9' || c == '-'):
		default:
			return false
		}
	}
	return true
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
