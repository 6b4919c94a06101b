package isa

import (
	"encoding/binary"
	"fmt"
)

// OPERAND_SIZE is the encoded size of every operand.
const OPERAND_SIZE = 5

// OperandKind is the tag byte of an encoded operand.
type OperandKind byte

const (
	OPERAND_UNKNOWN   = OperandKind(0x00) // unk
	OPERAND_REGISTER  = OperandKind(0x01) // reg
	OPERAND_IMMEDIATE = OperandKind(0x02) // imm
	OPERAND_MEMORY    = OperandKind(0x03) // mem
)

func (kind OperandKind) String() string {
	switch kind {
	case OPERAND_REGISTER:
		return "reg"
	case OPERAND_IMMEDIATE:
		return "imm"
	case OPERAND_MEMORY:
		return "mem"
	}
	return "unk"
}

// Operand is a decoded instruction argument.
type Operand struct {
	Kind  OperandKind
	Value uint32 // Register code, immediate value, or absolute address.
}

// MakeRegister creates a register operand.
func MakeRegister(reg Register) Operand {
	return Operand{Kind: OPERAND_REGISTER, Value: uint32(reg)}
}

// MakeImmediate creates an immediate operand.
func MakeImmediate(value uint32) Operand {
	return Operand{Kind: OPERAND_IMMEDIATE, Value: value}
}

// MakeMemory creates a memory operand.
func MakeMemory(addr uint32) Operand {
	return Operand{Kind: OPERAND_MEMORY, Value: addr}
}

// Register returns the register named by a register operand.
func (op Operand) Register() Register {
	return Register(op.Value & 0xff)
}

// Append appends the 5-byte encoding of the operand to buf.
//
// Register operands carry the register code in the first payload byte
// followed by three zero bytes. Unknown operands are all zero.
func (op Operand) Append(buf []byte) []byte {
	switch op.Kind {
	case OPERAND_REGISTER:
		return append(buf, byte(op.Kind), byte(op.Value), 0, 0, 0)
	case OPERAND_IMMEDIATE, OPERAND_MEMORY:
		buf = append(buf, byte(op.Kind))
		return binary.LittleEndian.AppendUint32(buf, op.Value)
	}
	return append(buf, 0, 0, 0, 0, 0)
}

// DecodeOperand decodes an operand from the first OPERAND_SIZE bytes of
// buf. Short input is zero padded; an unrecognised tag decodes as unknown.
func DecodeOperand(buf []byte) (op Operand) {
	var raw [OPERAND_SIZE]byte
	copy(raw[:], buf)

	switch kind := OperandKind(raw[0]); kind {
	case OPERAND_REGISTER:
		op = Operand{Kind: kind, Value: uint32(raw[1])}
	case OPERAND_IMMEDIATE, OPERAND_MEMORY:
		op = Operand{Kind: kind, Value: binary.LittleEndian.Uint32(raw[1:])}
	default:
		op = Operand{}
	}

	return
}

func (op Operand) String() string {
	switch op.Kind {
	case OPERAND_REGISTER:
		return op.Register().String()
	case OPERAND_IMMEDIATE:
		return fmt.Sprintf("%#x", op.Value)
	case OPERAND_MEMORY:
		return fmt.Sprintf("[%#x]", op.Value)
	}
	return "?"
}
