// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log"
	"maps"
	"slices"
	"strings"

	"github.com/ezrec/xe/isa"
)

// sourceLine is a comment stripped, non-blank line of source text.
type sourceLine struct {
	LineNo int
	Text   string
}

// Assembler is a four pass assembler for the xe instruction set.
//
// Pass 1 assigns addresses to labels and constants, pass 2 lays out the
// data region, pass 3 emits code and pass 4 emits data. Problems on a
// line never stop assembly: they are recorded in Diagnostics and the
// line's output is degraded or skipped.
type Assembler struct {
	Verbose     bool              // If set, verbosely logs the assembler actions.
	Label       map[string]uint32 // Labels and constants from the last Parse.
	Diagnostics []error           // Per-line problems from the last Parse, all *ErrSyntax.

	predefine map[string]uint32
	lines     []sourceLine
	dataSize  uint32
	code      []byte
	data      []byte
	pool      []byte
	placed    []Line
}

// Predefine defines a constant visible to every subsequent Parse.
func (asm *Assembler) Predefine(name string, value uint32) {
	if asm.predefine == nil {
		asm.predefine = map[string]uint32{name: value}
	} else {
		asm.predefine[name] = value
	}
}

// Assemble assembles source text with a fresh assembler.
func Assemble(source string) (prog *Program, err error) {
	asm := &Assembler{}
	return asm.Parse(strings.NewReader(source))
}

// Parse assembles an input stream into a Program.
// The only errors returned are from reading the input.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	asm.Label = maps.Clone(asm.predefine)
	if asm.Label == nil {
		asm.Label = make(map[string]uint32)
	}
	asm.Diagnostics = nil
	asm.lines = asm.lines[:0]
	asm.dataSize = 0
	asm.code = nil
	asm.data = nil
	asm.pool = nil
	asm.placed = nil

	var lineno int
	for scanner.Scan() {
		lineno += 1
		text := strings.TrimSpace(stripComment(scanner.Text()))
		if len(text) == 0 {
			continue
		}
		if asm.Verbose {
			log.Printf("asm: %v: %v", lineno, text)
		}
		asm.lines = append(asm.lines, sourceLine{LineNo: lineno, Text: text})
	}
	err = scanner.Err()
	if err != nil {
		return
	}

	asm.scan()
	asm.layout()
	asm.emitCode()
	asm.emitData()

	prog = &Program{
		Code:   slices.Clone(asm.code),
		Data:   append(slices.Clone(asm.data), asm.pool...),
		Labels: maps.Clone(asm.Label),
		Lines:  slices.Clone(asm.placed),
	}

	return
}

// diag records a diagnostic for a line.
func (asm *Assembler) diag(ln sourceLine, err error) {
	err = &ErrSyntax{LineNo: ln.LineNo, Line: ln.Text, Err: err}
	asm.Diagnostics = append(asm.Diagnostics, err)
	log.Printf("asm: %v", err)
}

// unresolved records an operand that fell back to the unknown encoding.
// This is expected in degraded programs, so it is only logged when verbose.
func (asm *Assembler) unresolved(ln sourceLine, word string) {
	err := &ErrSyntax{LineNo: ln.LineNo, Line: ln.Text, Err: ErrSymbolUnresolved(word)}
	asm.Diagnostics = append(asm.Diagnostics, err)
	if asm.Verbose {
		log.Printf("asm: %v", err)
	}
}

// splitWord splits the first whitespace delimited word from a line.
func splitWord(text string) (word, rest string) {
	n := strings.IndexAny(text, " \t")
	if n < 0 {
		return text, ""
	}
	return text[:n], strings.TrimSpace(text[n+1:])
}

// splitLabel splits a leading "label:" from a line.
func splitLabel(text string) (label, rest string, ok bool) {
	n := strings.IndexByte(text, ':')
	if n <= 0 {
		return "", text, false
	}
	label = text[:n]
	if strings.ContainsAny(label, " \t\"'[],") {
		return "", text, false
	}
	return label, strings.TrimSpace(text[n+1:]), true
}

// validLabel returns true if a label is an identifier that is not a
// register name.
func validLabel(label string) bool {
	for n, ch := range label {
		switch {
		case ch == '_' || ch == '.':
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z':
		case ch >= '0' && ch <= '9' && n > 0:
		default:
			return false
		}
	}

	_, is_reg := isa.LookupRegister(label)
	return !is_reg
}

// splitEquate recognises "name equ value".
func splitEquate(text string) (name, value string, ok bool) {
	words := strings.Fields(text)
	if len(words) < 2 || !strings.EqualFold(words[1], "equ") {
		return
	}
	return words[0], strings.Join(words[2:], " "), true
}

// splitDirective recognises a data definition line.
func splitDirective(text string) (dir isa.Directive, items string, ok bool) {
	word, items := splitWord(text)
	dir, ok = isa.LookupDirective(word)
	return
}

// isData returns true if the text is a data definition.
func isData(text string) bool {
	_, _, ok := splitDirective(text)
	return ok
}

// bindsData returns true if a label on line n names data: either the
// rest of its own line, or the very next line, is a data definition.
func (asm *Assembler) bindsData(n int, rest string) bool {
	if len(rest) != 0 {
		return isData(rest)
	}
	return n+1 < len(asm.lines) && isData(asm.lines[n+1].Text)
}

// directiveSize returns the number of bytes a data definition emits.
func directiveSize(dir isa.Directive, items string) (size uint32) {
	tokens, _ := Lex(items)
	for _, tok := range tokens {
		size += uint32(tok.Size(dir.Width()))
	}
	return
}

// valueOf returns the value of an integer literal.
// Negative values are stored as 32-bit two's complement.
func valueOf(word string) (value uint32, err error) {
	v64, _, ok := parseInteger(word)
	if !ok {
		err = ErrParseNumber(word)
		return
	}

	value = uint32(v64)
	return
}

// value resolves an integer literal, a character literal, or a label.
func (asm *Assembler) value(word string) (value uint32, ok bool) {
	value, err := valueOf(word)
	if err == nil {
		return value, true
	}

	value, ok = asm.Label[word]
	if ok {
		return
	}

	str, ok := Unquote(word)
	if ok && len(str) == 1 {
		return uint32(str[0]), true
	}

	return 0, false
}

// scan is pass 1: assign addresses to labels and values to constants.
func (asm *Assembler) scan() {
	code_ip := isa.CODE_ORIGIN
	data_ip := isa.DATA_ORIGIN
	bound := make(map[string]bool)

	for n, ln := range asm.lines {
		text, expand_err := asm.expand(ln.Text)

		label, rest, has_label := splitLabel(text)
		if has_label {
			switch {
			case !validLabel(label):
				asm.diag(ln, fmt.Errorf("%w: %v", ErrLabelInvalid, label))
			case bound[label]:
				asm.diag(ln, ErrLabelDuplicate)
				fallthrough
			default:
				bound[label] = true
				if asm.bindsData(n, rest) {
					asm.Label[label] = data_ip
				} else {
					asm.Label[label] = code_ip
				}
			}
			if len(rest) == 0 {
				continue
			}
			text = rest
		}

		if name, word, ok := splitEquate(text); ok {
			if expand_err != nil {
				asm.diag(ln, expand_err)
			}
			value, ok := asm.value(word)
			if !ok {
				asm.diag(ln, errors.Join(ErrEquateSyntax, ErrParseNumber(word)))
			}
			asm.Label[name] = value
			continue
		}

		if dir, items, ok := splitDirective(text); ok {
			data_ip += directiveSize(dir, items)
			continue
		}

		word, _ := splitWord(text)
		op, ok := isa.LookupMnemonic(word)
		if ok {
			code_ip += uint32(op.Size())
		}
	}
}

// layout is pass 2: rebind data labels against the final data layout.
func (asm *Assembler) layout() {
	data_ip := isa.DATA_ORIGIN

	for n, ln := range asm.lines {
		text, _ := asm.expand(ln.Text)

		label, rest, has_label := splitLabel(text)
		if has_label {
			if validLabel(label) && asm.bindsData(n, rest) {
				asm.Label[label] = data_ip
			}
			text = rest
		}

		if dir, items, ok := splitDirective(text); ok {
			data_ip += directiveSize(dir, items)
		}
	}

	asm.dataSize = data_ip - isa.DATA_ORIGIN
}

// emitCode is pass 3: encode every instruction line.
func (asm *Assembler) emitCode() {
	for _, ln := range asm.lines {
		text, expand_err := asm.expand(ln.Text)

		_, rest, has_label := splitLabel(text)
		if has_label {
			text = rest
		}
		if len(text) == 0 || isData(text) {
			continue
		}
		if _, _, ok := splitEquate(text); ok {
			continue
		}

		if expand_err != nil {
			asm.diag(ln, expand_err)
		}
		asm.emitInstruction(ln, text)
	}

	if len(asm.code) > int(isa.CODE_LIMIT-isa.CODE_ORIGIN) {
		asm.diag(sourceLine{}, ErrCodeOverflow)
	}
}

// formArgs is the operand count of each instruction form.
var formArgs = map[isa.Form]int{
	isa.FORM_NILADIC:  0,
	isa.FORM_REGISTER: 1,
	isa.FORM_BYTE:     1,
	isa.FORM_ADDRESS:  1,
	isa.FORM_BINARY:   2,
	isa.FORM_PRINT:    1,
}

// emitInstruction encodes a single instruction line.
func (asm *Assembler) emitInstruction(ln sourceLine, text string) {
	word, rest := splitWord(text)

	op, ok := isa.LookupMnemonic(word)
	if !ok {
		asm.diag(ln, ErrMnemonicInvalid)
		return
	}

	ins := isa.Instruction{Opcode: op}
	addr := isa.CODE_ORIGIN + uint32(len(asm.code))

	if op.Form() == isa.FORM_PRINT {
		ins.Operand[0] = asm.printOperand(ln, rest)
	} else {
		args := splitFields(rest)
		need := formArgs[op.Form()]
		if len(args) > need {
			asm.diag(ln, ErrOperandExtra)
			args = args[:need]
		}
		if len(args) < need {
			asm.diag(ln, ErrOperandMissing)
			for len(args) < need {
				args = append(args, "")
			}
		}

		switch op.Form() {
		case isa.FORM_REGISTER:
			ins.Register = asm.register(ln, args[0])
		case isa.FORM_BYTE:
			ins.Vector = byte(asm.address(ln, args[0]) & 0xff)
		case isa.FORM_ADDRESS:
			ins.Address = asm.address(ln, args[0])
		case isa.FORM_BINARY:
			ins.Operand[0] = asm.operand(ln, args[0])
			ins.Operand[1] = asm.operand(ln, args[1])
		}
	}

	asm.code = ins.Append(asm.code)
	asm.placed = append(asm.placed, Line{
		LineNo:  ln.LineNo,
		Address: addr,
		Size:    op.Size(),
		Text:    text,
	})

	if asm.Verbose {
		log.Printf("asm: %#x: %v", addr, ins)
	}
}

// operand resolves a general operand. Priority: register, integer, label,
// bracketed memory reference, and finally the unknown encoding.
func (asm *Assembler) operand(ln sourceLine, word string) (op isa.Operand) {
	if len(word) == 0 {
		return
	}

	if reg, ok := isa.LookupRegister(word); ok {
		return isa.MakeRegister(reg)
	}

	if value, ok := asm.value(word); ok {
		return isa.MakeImmediate(value)
	}

	if len(word) >= 2 && word[0] == '[' && word[len(word)-1] == ']' {
		inner := strings.TrimSpace(word[1 : len(word)-1])
		if value, ok := asm.value(inner); ok {
			return isa.MakeMemory(value)
		}
	}

	asm.unresolved(ln, word)
	return
}

// register resolves a raw register operand, or 0.
func (asm *Assembler) register(ln sourceLine, word string) (reg isa.Register) {
	if len(word) == 0 {
		return
	}

	reg, ok := isa.LookupRegister(word)
	if !ok {
		asm.unresolved(ln, word)
	}
	return
}

// address resolves a raw address or vector operand, or 0.
func (asm *Assembler) address(ln sourceLine, word string) (addr uint32) {
	if len(word) == 0 {
		return
	}

	addr, ok := asm.value(word)
	if !ok {
		asm.unresolved(ln, word)
	}
	return
}

// printOperand resolves the PRINT operand. A string literal is moved to
// the literal pool at the end of the data region and replaced by an
// immediate holding its address.
func (asm *Assembler) printOperand(ln sourceLine, rest string) (op isa.Operand) {
	if len(rest) == 0 {
		return isa.MakeImmediate(0)
	}

	if str, ok := Unquote(rest); ok {
		addr := isa.DATA_ORIGIN + asm.dataSize + uint32(len(asm.pool))
		asm.pool = append(asm.pool, str...)
		asm.pool = append(asm.pool, 0)
		return isa.MakeImmediate(addr)
	}

	args := splitFields(rest)
	if len(args) > 1 {
		asm.diag(ln, ErrOperandExtra)
	}

	return asm.operand(ln, args[0])
}

// emitData is pass 4: encode every data definition, then the literal pool.
func (asm *Assembler) emitData() {
	for _, ln := range asm.lines {
		text, expand_err := asm.expand(ln.Text)

		_, rest, has_label := splitLabel(text)
		if has_label {
			text = rest
		}
		dir, items, ok := splitDirective(text)
		if !ok {
			continue
		}

		if expand_err != nil {
			asm.diag(ln, expand_err)
		}
		tokens, err := Lex(items)
		if err != nil {
			asm.diag(ln, err)
		}
		for _, tok := range tokens {
			asm.data = asm.emitToken(ln, dir, tok, asm.data)
		}
	}

	asm.data = append(asm.data, asm.pool...)
	asm.pool = nil
}

// emitToken appends the bytes of one data item.
func (asm *Assembler) emitToken(ln sourceLine, dir isa.Directive, tok Token, buf []byte) []byte {
	width := dir.Width()

	var value int64
	switch tok.Kind {
	case TOKEN_STRING:
		return append(buf, tok.Bytes...)
	case TOKEN_ESCAPE:
		value = int64(tok.Bytes[0])
	case TOKEN_NUMBER, TOKEN_HEX:
		value = tok.Value
	case TOKEN_WORD:
		if addr, ok := asm.Label[tok.Text]; ok {
			value = int64(addr)
		} else if len(tok.Text) == 1 {
			value = int64(tok.Text[0])
		} else {
			asm.unresolved(ln, tok.Text)
		}
	}

	limit := int64(1) << (8 * width)
	if value >= limit || value < -(limit/2) {
		asm.diag(ln, errors.Join(ErrDataRange, ErrParseNumber(tok.Text)))
		value = 0
	}

	var raw [4]byte
	binary.LittleEndian.PutUint32(raw[:], uint32(value))
	return append(buf, raw[:width]...)
}
