package isa

import (
	"encoding/binary"
	"fmt"
)

// Instruction is a single decoded instruction.
// Which fields are meaningful depends on the opcode's form.
type Instruction struct {
	Opcode   Opcode
	Register Register   // FORM_REGISTER
	Vector   byte       // FORM_BYTE
	Address  uint32     // FORM_ADDRESS
	Operand  [2]Operand // FORM_BINARY uses both, FORM_PRINT the first.
}

// Append appends the encoded instruction to buf.
// The number of bytes appended is always Opcode.Size().
func (ins Instruction) Append(buf []byte) []byte {
	buf = append(buf, byte(ins.Opcode))

	switch ins.Opcode.Form() {
	case FORM_REGISTER:
		buf = append(buf, byte(ins.Register))
	case FORM_BYTE:
		buf = append(buf, ins.Vector)
	case FORM_ADDRESS:
		buf = binary.LittleEndian.AppendUint32(buf, ins.Address)
	case FORM_BINARY:
		buf = ins.Operand[0].Append(buf)
		buf = ins.Operand[1].Append(buf)
	case FORM_PRINT:
		buf = ins.Operand[0].Append(buf)
	}

	return buf
}

// Decode decodes one instruction from the start of buf.
// Returns ok == false for an undefined opcode or truncated input.
func Decode(buf []byte) (ins Instruction, ok bool) {
	if len(buf) == 0 {
		return
	}

	ins.Opcode = Opcode(buf[0])
	size := ins.Opcode.Size()
	if size == 0 || len(buf) < size {
		return
	}
	args := buf[1:size]

	switch ins.Opcode.Form() {
	case FORM_REGISTER:
		ins.Register = Register(args[0])
	case FORM_BYTE:
		ins.Vector = args[0]
	case FORM_ADDRESS:
		ins.Address = binary.LittleEndian.Uint32(args)
	case FORM_BINARY:
		ins.Operand[0] = DecodeOperand(args[:OPERAND_SIZE])
		ins.Operand[1] = DecodeOperand(args[OPERAND_SIZE:])
	case FORM_PRINT:
		ins.Operand[0] = DecodeOperand(args)
	}

	ok = true
	return
}

// String returns the assembly language form of the instruction.
func (ins Instruction) String() string {
	switch ins.Opcode.Form() {
	case FORM_REGISTER:
		return fmt.Sprintf("%v %v", ins.Opcode, ins.Register)
	case FORM_BYTE:
		return fmt.Sprintf("%v 0x%02x", ins.Opcode, ins.Vector)
	case FORM_ADDRESS:
		return fmt.Sprintf("%v %#x", ins.Opcode, ins.Address)
	case FORM_BINARY:
		return fmt.Sprintf("%v %v, %v", ins.Opcode, ins.Operand[0], ins.Operand[1])
	case FORM_PRINT:
		return fmt.Sprintf("%v %v", ins.Opcode, ins.Operand[0])
	}
	return ins.Opcode.String()
}
