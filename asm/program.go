package asm

import (
	"iter"

	"github.com/ezrec/xe/isa"
)

// Line records where a source line's instruction was placed.
type Line struct {
	LineNo  int    // Source line number, 1 based.
	Address uint32 // Absolute address of the instruction.
	Size    int    // Encoded size in bytes.
	Text    string // Source text, comment removed.
}

// Program is an assembled image.
type Program struct {
	Code   []byte            // Code region, placed at isa.CODE_ORIGIN.
	Data   []byte            // Data region, placed at isa.DATA_ORIGIN.
	Labels map[string]uint32 // Labels, data labels and equ constants.
	Lines  []Line            // Instruction placement, in address order.
}

// Debug finds the source line whose instruction covers addr.
func (prog *Program) Debug(addr uint32) (line Line, ok bool) {
	for _, ln := range prog.Lines {
		if addr >= ln.Address && addr < ln.Address+uint32(ln.Size) {
			return ln, true
		}
	}

	return
}

// Instructions decodes the code region in address order, stopping at the
// first undecodable byte.
func (prog *Program) Instructions() iter.Seq2[uint32, isa.Instruction] {
	return func(yield func(addr uint32, ins isa.Instruction) bool) {
		code := prog.Code
		addr := isa.CODE_ORIGIN
		for len(code) > 0 {
			ins, ok := isa.Decode(code)
			if !ok {
				return
			}
			if !yield(addr, ins) {
				return
			}
			size := ins.Opcode.Size()
			code = code[size:]
			addr += uint32(size)
		}
	}
}
