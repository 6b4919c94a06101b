package isa

import (
	"fmt"
	"strings"
)

// Opcode is the first byte of every encoded instruction.
type Opcode byte

const (
	OP_NOP   = Opcode(0x00) // NOP
	OP_MOV   = Opcode(0x10) // MOV
	OP_ADD   = Opcode(0x20) // ADD
	OP_AND   = Opcode(0x22) // AND
	OP_SUB   = Opcode(0x30) // SUB
	OP_OR    = Opcode(0x33) // OR
	OP_INC   = Opcode(0x40) // INC
	OP_XOR   = Opcode(0x44) // XOR
	OP_DEC   = Opcode(0x50) // DEC
	OP_INPUT = Opcode(0x55) // INPUT
	OP_CMP   = Opcode(0x60) // CMP
	OP_PRINT = Opcode(0x66) // PRINT
	OP_JMP   = Opcode(0x70) // JMP
	OP_JE    = Opcode(0x80) // JE
	OP_JNE   = Opcode(0x90) // JNE
	OP_CALL  = Opcode(0xA0) // CALL
	OP_RET   = Opcode(0xB0) // RET
	OP_PUSH  = Opcode(0xC0) // PUSH
	OP_POP   = Opcode(0xD0) // POP
	OP_INT   = Opcode(0xE0) // INT
	OP_HLT   = Opcode(0xF0) // HLT
)

// Form is the encoded shape of an instruction.
type Form int

const (
	FORM_NILADIC  = Form(iota) // opcode
	FORM_REGISTER              // opcode reg8
	FORM_BYTE                  // opcode imm8
	FORM_ADDRESS               // opcode addr32
	FORM_BINARY                // opcode operand operand
	FORM_PRINT                 // opcode operand
)

var formName = [...]string{
	FORM_NILADIC:  "niladic",
	FORM_REGISTER: "register",
	FORM_BYTE:     "byte",
	FORM_ADDRESS:  "address",
	FORM_BINARY:   "binary",
	FORM_PRINT:    "print",
}

func (form Form) String() string {
	if form < 0 || int(form) >= len(formName) {
		return fmt.Sprintf("Form(%d)", int(form))
	}
	return formName[form]
}

// Size returns the encoded size in bytes of an instruction of this form.
func (form Form) Size() int {
	switch form {
	case FORM_NILADIC:
		return 1
	case FORM_REGISTER, FORM_BYTE:
		return 2
	case FORM_ADDRESS:
		return 1 + 4
	case FORM_BINARY:
		return 1 + 2*OPERAND_SIZE
	case FORM_PRINT:
		return 1 + OPERAND_SIZE
	}
	return 0
}

type opcodeInfo struct {
	name string
	form Form
}

var opcodeTable = map[Opcode]opcodeInfo{
	OP_NOP:   {"NOP", FORM_NILADIC},
	OP_HLT:   {"HLT", FORM_NILADIC},
	OP_RET:   {"RET", FORM_NILADIC},
	OP_INC:   {"INC", FORM_REGISTER},
	OP_DEC:   {"DEC", FORM_REGISTER},
	OP_PUSH:  {"PUSH", FORM_REGISTER},
	OP_POP:   {"POP", FORM_REGISTER},
	OP_INPUT: {"INPUT", FORM_REGISTER},
	OP_INT:   {"INT", FORM_BYTE},
	OP_JMP:   {"JMP", FORM_ADDRESS},
	OP_JE:    {"JE", FORM_ADDRESS},
	OP_JNE:   {"JNE", FORM_ADDRESS},
	OP_CALL:  {"CALL", FORM_ADDRESS},
	OP_MOV:   {"MOV", FORM_BINARY},
	OP_ADD:   {"ADD", FORM_BINARY},
	OP_SUB:   {"SUB", FORM_BINARY},
	OP_CMP:   {"CMP", FORM_BINARY},
	OP_AND:   {"AND", FORM_BINARY},
	OP_OR:    {"OR", FORM_BINARY},
	OP_XOR:   {"XOR", FORM_BINARY},
	OP_PRINT: {"PRINT", FORM_PRINT},
}

var mnemonicMap = func() map[string]Opcode {
	m := make(map[string]Opcode, len(opcodeTable))
	for op, info := range opcodeTable {
		m[info.name] = op
	}
	return m
}()

// Valid returns true if the byte is a defined opcode.
func (op Opcode) Valid() bool {
	_, ok := opcodeTable[op]
	return ok
}

// Form returns the instruction form of a valid opcode.
func (op Opcode) Form() Form {
	return opcodeTable[op].form
}

// Size returns the declared encoded size of the instruction, or 0 for an
// undefined opcode.
func (op Opcode) Size() int {
	if !op.Valid() {
		return 0
	}
	return op.Form().Size()
}

func (op Opcode) String() string {
	info, ok := opcodeTable[op]
	if !ok {
		return fmt.Sprintf("Opcode(0x%02x)", byte(op))
	}
	return info.name
}

// Opcodes returns every defined opcode.
func Opcodes() (ops []Opcode) {
	for n := range 256 {
		if Opcode(n).Valid() {
			ops = append(ops, Opcode(n))
		}
	}
	return
}

// Directive is a data definition keyword.
type Directive int

const (
	DIRECTIVE_NONE = Directive(iota)
	DIRECTIVE_DB   // DB
	DIRECTIVE_DW   // DW
	DIRECTIVE_DD   // DD
)

// Width returns the number of bytes emitted per numeric item.
func (dir Directive) Width() int {
	switch dir {
	case DIRECTIVE_DB:
		return 1
	case DIRECTIVE_DW:
		return 2
	case DIRECTIVE_DD:
		return 4
	}
	return 0
}

func (dir Directive) String() string {
	switch dir {
	case DIRECTIVE_DB:
		return "DB"
	case DIRECTIVE_DW:
		return "DW"
	case DIRECTIVE_DD:
		return "DD"
	}
	return ""
}

var directiveMap = map[string]Directive{
	"DB": DIRECTIVE_DB,
	"DW": DIRECTIVE_DW,
	"DD": DIRECTIVE_DD,
}

// aliasMap maps alternate keywords to canonical names.
var aliasMap = map[string]string{
	"drag":       "MOV",
	"add":        "ADD",
	"subtract":   "SUB",
	"increase":   "INC",
	"decrease":   "DEC",
	"compare":    "CMP",
	"go":         "JMP",
	"go-true":    "JE",
	"go-false":   "JNE",
	"call":       "CALL",
	"return":     "RET",
	"place":      "PUSH",
	"extract":    "POP",
	"interrupt":  "INT",
	"stop":       "HLT",
	"logic-and":  "AND",
	"logic-or":   "OR",
	"exclude-or": "XOR",
	"pass":       "NOP",
	"input":      "INPUT",
	"print":      "PRINT",
	"defbyte":    "DB",
	"defword":    "DW",
	"defdouble":  "DD",
}

// Canonical resolves an alias to its canonical keyword. Aliases match
// exactly; anything else is upper-cased.
func Canonical(word string) string {
	if name, ok := aliasMap[word]; ok {
		return name
	}
	return strings.ToUpper(word)
}

// LookupMnemonic finds the opcode for a source keyword, through the alias
// table when needed.
func LookupMnemonic(word string) (op Opcode, ok bool) {
	op, ok = mnemonicMap[Canonical(word)]
	return
}

// LookupDirective finds the data directive for a source keyword, through
// the alias table when needed.
func LookupDirective(word string) (dir Directive, ok bool) {
	dir, ok = directiveMap[Canonical(word)]
	return
}
