package cpu

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/xe/io"
	"github.com/ezrec/xe/isa"
)

func FuzzExecute(f *testing.F) {
	for op := range 0x100 {
		f.Add(uint8(op), uint8(isa.OPERAND_REGISTER), uint32(isa.REG_BASE), uint8(isa.OPERAND_IMMEDIATE), uint32(0x1234), uint8(0))
		f.Add(uint8(op), uint8(isa.OPERAND_MEMORY), uint32(0x2000), uint8(isa.OPERAND_REGISTER), uint32(isa.REG_COUNT), uint8(isa.FLAG_ZERO))
	}

	f.Fuzz(func(t *testing.T, opcode uint8, kind1 uint8, value1 uint32, kind2 uint8, value2 uint32, flags uint8) {
		assert := assert.New(t)

		code := []byte{opcode, kind1}
		code = binary.LittleEndian.AppendUint32(code, value1)
		code = append(code, kind2)
		code = binary.LittleEndian.AppendUint32(code, value2)

		ins, ok := isa.Decode(code)
		if !ok {
			return
		}
		code = code[:ins.Opcode.Size()]

		cpu := NewCpu()
		assert.NoError(cpu.Load(code, []byte{0x11, 0x22, 0x33, 0x44}))
		for n := range cpu.Register {
			if isa.Register(n+1) == isa.REG_STACKPOINTER {
				continue
			}
			cpu.Register[n] = 0x01010101 * uint32(n+1)
		}
		cpu.Flags = uint32(flags) & (isa.FLAG_ZERO | isa.FLAG_NEGATIVE)

		tape_output := &bytes.Buffer{}
		cpu.Console = &io.Tape{Input: strings.NewReader(""), Output: tape_output}

		pre_register := cpu.Register
		pre_flags := cpu.Flags

		target := func(reg isa.Register) int {
			if !reg.Valid() {
				reg = isa.REG_ACCUMULATOR
			}
			return reg.Index()
		}

		pre_value := func(op isa.Operand) (value uint32) {
			switch op.Kind {
			case isa.OPERAND_REGISTER:
				value = pre_register[target(op.Register())]
			case isa.OPERAND_IMMEDIATE:
				value = op.Value
			case isa.OPERAND_MEMORY:
				if uint64(op.Value)+4 <= uint64(isa.MEMORY_SIZE) {
					value = binary.LittleEndian.Uint32(cpu.Memory[op.Value:])
				}
			}
			return
		}

		a := pre_value(ins.Operand[0])
		b := pre_value(ins.Operand[1])

		next_ip := isa.CODE_ORIGIN + uint32(ins.Opcode.Size())

		done, err := cpu.Tick()
		assert.NoError(err)

		code_str := fmt.Sprintf("% x (%v)\ncpu:%v", code, ins, cpu.String())

		peek := func() (value uint32) {
			value, _ = cpu.Peek()
			return
		}

		now_value := func(op isa.Operand) (value uint32, ok bool) {
			switch op.Kind {
			case isa.OPERAND_REGISTER:
				value, ok = cpu.Register[target(op.Register())], true
			case isa.OPERAND_MEMORY:
				if uint64(op.Value)+4 <= uint64(isa.MEMORY_SIZE) {
					value, ok = binary.LittleEndian.Uint32(cpu.Memory[op.Value:]), true
				}
			}
			return
		}

		switch ins.Opcode {
		case isa.OP_MOV, isa.OP_ADD, isa.OP_SUB, isa.OP_AND, isa.OP_OR, isa.OP_XOR:
			var expected uint32
			switch ins.Opcode {
			case isa.OP_MOV:
				expected = b
			case isa.OP_ADD:
				expected = a + b
			case isa.OP_SUB:
				expected = a - b
			case isa.OP_AND:
				expected = a & b
			case isa.OP_OR:
				expected = a | b
			case isa.OP_XOR:
				expected = a ^ b
			}
			output, ok := now_value(ins.Operand[0])
			if ok {
				assert.Equal(expected, output, code_str)
			}
		case isa.OP_CMP:
			var expected uint32
			if a == b {
				expected |= isa.FLAG_ZERO
			}
			if a < b {
				expected |= isa.FLAG_NEGATIVE
			}
			assert.Equal(expected, cpu.Flags, code_str)
		case isa.OP_INC:
			n := target(ins.Register)
			assert.Equal(pre_register[n]+1, cpu.Register[n], code_str)
		case isa.OP_DEC:
			n := target(ins.Register)
			assert.Equal(pre_register[n]-1, cpu.Register[n], code_str)
		case isa.OP_JMP:
			next_ip = ins.Address
		case isa.OP_JE:
			if (pre_flags & isa.FLAG_ZERO) != 0 {
				next_ip = ins.Address
			}
		case isa.OP_JNE:
			if (pre_flags & isa.FLAG_ZERO) == 0 {
				next_ip = ins.Address
			}
		case isa.OP_CALL:
			assert.Equal(next_ip, peek(), code_str)
			next_ip = ins.Address
		case isa.OP_RET:
			// Popping an empty stack reads the zeroed slot at STACK_TOP.
			next_ip = 0
		case isa.OP_PUSH:
			assert.Equal(isa.STACK_TOP-isa.STACK_SLOT, cpu.Register[isa.REG_STACKPOINTER.Index()], code_str)
			assert.Equal(pre_register[target(ins.Register)], peek(), code_str)
		case isa.OP_INT:
			if assert.Equal(1, len(cpu.Faults), code_str) {
				assert.True(errors.Is(cpu.Faults[0], ErrInterruptUnhandled(ins.Vector)), code_str)
			}
		case isa.OP_INPUT:
			assert.Equal(uint32(0), cpu.Register[target(ins.Register)], code_str)
		case isa.OP_HLT:
			assert.True(done, code_str)
		}

		if ins.Opcode != isa.OP_HLT {
			assert.False(done, code_str)
		}

		assert.Equal(next_ip, cpu.Ip, code_str)
		assert.Equal(1, cpu.Ticks, code_str)
	})
}
