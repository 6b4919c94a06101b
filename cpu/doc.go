// Package cpu implements the xe virtual machine.
//
// The machine has eight 32-bit registers, an instruction pointer, a flags
// word set by CMP and a flat 1 MiB memory. Code is loaded at
// isa.CODE_ORIGIN and data at isa.DATA_ORIGIN; the stack grows down from
// isa.STACK_TOP in 4 byte slots.
//
// Only an undecodable opcode and running off the end of the code stop
// the machine. Every other problem (bad memory access, malformed input,
// a missing interrupt handler) is logged and counted in FaultCount, the
// first FAULT_LIMIT are kept in Faults, and execution continues.
package cpu
