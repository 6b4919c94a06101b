// Package isa defines the xe instruction set: opcode byte values, the
// mnemonic and alias tables, the register table, instruction forms with
// their encoded sizes, the 5-byte operand encoding, and the fixed memory
// layout shared by the assembler and the machine.
//
// The tables here are the single authority for instruction sizes. The
// assembler's address pre-scan and its emission pass both consult
// Opcode.Size(), so the two can never drift apart.
package isa
