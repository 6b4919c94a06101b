package cpu

import (
	"errors"
	"log"
	"strconv"
	"strings"

	"github.com/ezrec/xe/isa"
)

// Run executes instructions until the machine stops.
// Only an undecodable opcode is returned as an error.
func (cpu *Cpu) Run() (err error) {
	for {
		var done bool
		done, err = cpu.Tick()
		if done || err != nil {
			return
		}
	}
}

// Fetch decodes the instruction at the instruction pointer.
func (cpu *Cpu) Fetch() (ins isa.Instruction, err error) {
	if !cpu.inRange(cpu.Ip, 1) {
		err = errors.Join(ErrOpcodeDecode, ErrMemoryFault, ErrAddress{Address: cpu.Ip, Size: 1})
		return
	}

	ins, ok := isa.Decode(cpu.Memory[cpu.Ip:])
	if !ok {
		err = errors.Join(ErrOpcode(cpu.Memory[cpu.Ip]), ErrOpcodeDecode)
		return
	}

	return
}

// Tick executes a single instruction.
// Returns done when the machine has stopped: by HLT, by Exit, by running
// off the end of the loaded code, or on a decode error.
func (cpu *Cpu) Tick() (done bool, err error) {
	if !cpu.Running {
		done = true
		return
	}

	if cpu.Ip >= cpu.codeEnd {
		if cpu.Verbose {
			log.Printf("cpu: end of code at %#08x", cpu.Ip)
		}
		cpu.Running = false
		done = true
		return
	}

	ins, err := cpu.Fetch()
	if err != nil {
		log.Printf("cpu: %#08x: %v", cpu.Ip, err)
		cpu.Running = false
		done = true
		return
	}

	cpu.Execute(ins)

	done = !cpu.Running
	return
}

// Execute executes a single decoded instruction located at the
// instruction pointer.
func (cpu *Cpu) Execute(ins isa.Instruction) {
	if cpu.Verbose {
		log.Printf("cpu: %#08x: %v", cpu.Ip, ins)
	}

	cpu.ip = cpu.Ip
	cpu.Ip += uint32(ins.Opcode.Size())
	cpu.Ticks += 1

	switch ins.Opcode {
	case isa.OP_NOP:
		// pass
	case isa.OP_HLT:
		cpu.Running = false
	case isa.OP_MOV:
		cpu.setValue(ins.Operand[0], cpu.getValue(ins.Operand[1]))
	case isa.OP_ADD, isa.OP_SUB, isa.OP_AND, isa.OP_OR, isa.OP_XOR:
		dst := cpu.getValue(ins.Operand[0])
		src := cpu.getValue(ins.Operand[1])
		cpu.setValue(ins.Operand[0], doAlu(ins.Opcode, dst, src))
	case isa.OP_CMP:
		a := cpu.getValue(ins.Operand[0])
		b := cpu.getValue(ins.Operand[1])
		cpu.Flags = 0
		if a == b {
			cpu.Flags |= isa.FLAG_ZERO
		}
		if a < b {
			cpu.Flags |= isa.FLAG_NEGATIVE
		}
	case isa.OP_INC:
		*cpu.register(ins.Register) += 1
	case isa.OP_DEC:
		*cpu.register(ins.Register) -= 1
	case isa.OP_JMP:
		cpu.Ip = ins.Address
	case isa.OP_JE:
		if (cpu.Flags & isa.FLAG_ZERO) != 0 {
			cpu.Ip = ins.Address
		}
	case isa.OP_JNE:
		if (cpu.Flags & isa.FLAG_ZERO) == 0 {
			cpu.Ip = ins.Address
		}
	case isa.OP_CALL:
		cpu.Push(cpu.Ip)
		cpu.Ip = ins.Address
	case isa.OP_RET:
		cpu.Ip = cpu.Pop()
	case isa.OP_PUSH:
		cpu.Push(*cpu.register(ins.Register))
	case isa.OP_POP:
		// Pop before selecting the register, so POP STACKPOINTER loads
		// the popped value.
		value := cpu.Pop()
		*cpu.register(ins.Register) = value
	case isa.OP_INT:
		handler := cpu.interrupt[ins.Vector]
		if handler == nil {
			cpu.Fault(ErrInterruptUnhandled(ins.Vector))
			break
		}
		if cpu.Verbose {
			log.Printf("cpu: interrupt 0x%02x", ins.Vector)
		}
		handler(cpu)
	case isa.OP_INPUT:
		cpu.doInput(ins.Register)
	case isa.OP_PRINT:
		cpu.doPrint(ins.Operand[0])
	default:
		// Unreachable for decoded instructions.
		cpu.Fault(errors.Join(ErrOpcode(ins.Opcode), ErrOpcodeDecode))
		cpu.Running = false
	}
}

// getValue reads an operand. Unknown operands read as zero.
func (cpu *Cpu) getValue(op isa.Operand) (value uint32) {
	switch op.Kind {
	case isa.OPERAND_REGISTER:
		value = *cpu.register(op.Register())
	case isa.OPERAND_IMMEDIATE:
		value = op.Value
	case isa.OPERAND_MEMORY:
		value = cpu.ReadUint32(op.Value)
	}
	return
}

// setValue stores to an operand. Stores to immediate and unknown
// operands are dropped.
func (cpu *Cpu) setValue(op isa.Operand, value uint32) {
	switch op.Kind {
	case isa.OPERAND_REGISTER:
		*cpu.register(op.Register()) = value
	case isa.OPERAND_MEMORY:
		cpu.WriteUint32(op.Value, value)
	default:
		if cpu.Verbose {
			log.Printf("cpu: %#08x: store to %v operand dropped", cpu.ip, op.Kind)
		}
	}
}

// doAlu performs a binary operation. Arithmetic wraps at 32 bits.
func doAlu(op isa.Opcode, input uint32, value uint32) (output uint32) {
	switch op {
	case isa.OP_ADD:
		output = input + value
	case isa.OP_SUB:
		output = input - value
	case isa.OP_AND:
		output = input & value
	case isa.OP_OR:
		output = input | value
	case isa.OP_XOR:
		output = input ^ value
	}

	return
}

// doInput reads one line from the console as a decimal integer.
// Malformed or missing input faults and stores 0.
func (cpu *Cpu) doInput(reg isa.Register) {
	target := cpu.register(reg)

	if cpu.Console == nil {
		cpu.Fault(ErrInputFormat)
		*target = 0
		return
	}

	line, err := cpu.Console.ReadLine()
	if err != nil {
		cpu.Fault(errors.Join(ErrInputFormat, err))
		*target = 0
		return
	}

	value, err := strconv.ParseInt(strings.TrimSpace(line), 10, 64)
	if err != nil || value > 0xffffffff || value < -0x80000000 {
		cpu.Fault(errors.Join(ErrInputFormat, err))
		*target = 0
		return
	}

	*target = uint32(value)
}

// doPrint writes an operand to the console. An immediate is the address
// of a zero terminated string; address 0 prints nothing. Any other
// operand prints its value in decimal and a trailing space.
func (cpu *Cpu) doPrint(op isa.Operand) {
	var text []byte

	if op.Kind == isa.OPERAND_IMMEDIATE {
		if op.Value == 0 {
			return
		}
		text = cpu.ReadString(op.Value)
	} else {
		value := cpu.getValue(op)
		text = strconv.AppendUint(text, uint64(value), 10)
		text = append(text, ' ')
	}

	if cpu.Console == nil || len(text) == 0 {
		return
	}

	_, err := cpu.Console.Write(text)
	if err != nil {
		cpu.Fault(errors.Join(ErrOutput, err))
	}
}
