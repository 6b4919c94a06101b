package cpu

import (
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/xe/io"
	"github.com/ezrec/xe/isa"
)

// Channel is the console interface.
type Channel io.Channel

// Interrupt is a host routine installed on an interrupt vector.
// It runs to completion with exclusive access to the machine.
type Interrupt func(cpu *Cpu)

// FAULT_LIMIT is the number of faults kept in Cpu.Faults.
const FAULT_LIMIT = 256

var _cpu_defines = map[string]uint32{
	"CODE_ORIGIN":   isa.CODE_ORIGIN,
	"DATA_ORIGIN":   isa.DATA_ORIGIN,
	"MEMORY_SIZE":   isa.MEMORY_SIZE,
	"STACK_TOP":     isa.STACK_TOP,
	"FLAG_ZERO":     isa.FLAG_ZERO,
	"FLAG_NEGATIVE": isa.FLAG_NEGATIVE,
}

// Cpu is the simulation context of the xe virtual machine.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Ip       uint32                     // Current instruction pointer.
	Flags    uint32                     // Flags word, set by CMP.
	Register [isa.REGISTER_COUNT]uint32 // Register bank, indexed by isa.Register.Index().
	Memory   []byte                     // Flat memory, isa.MEMORY_SIZE bytes.
	Running  bool                       // Cleared by HLT, exit, end of code or a bad opcode.

	Exited   bool   // Set if the program stopped through Exit.
	ExitCode uint32 // Code passed to Exit.

	Ticks      int     // Instructions executed since the last load.
	Faults     []error // First FAULT_LIMIT non-fatal faults since the last load, all *ErrFault.
	FaultCount int     // Total non-fatal faults since the last load.

	Console Channel // INPUT and PRINT console.

	codeEnd   uint32
	ip        uint32 // Address of the executing instruction.
	interrupt [256]Interrupt
}

// NewCpu creates a new CPU with a cleared memory.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{
		Memory: make([]byte, isa.MEMORY_SIZE),
	}

	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, uint32] {
	return maps.All(_cpu_defines)
}

// RegisterInterrupt installs a handler on an interrupt vector.
// A nil handler removes the vector's handler.
func (cpu *Cpu) RegisterInterrupt(vector byte, handler Interrupt) {
	cpu.interrupt[vector] = handler
}

// Reset the CPU state.
// - Clears the registers, flags and memory.
// - Zeros statistics counters and the fault list.
// - Points the stack at isa.STACK_TOP and the IP at isa.CODE_ORIGIN.
//
// Installed interrupt handlers are kept.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Register[:])
	clear(cpu.Memory)
	cpu.Register[isa.REG_STACKPOINTER.Index()] = isa.STACK_TOP
	cpu.Ip = isa.CODE_ORIGIN
	cpu.ip = cpu.Ip
	cpu.Flags = 0
	cpu.Running = false
	cpu.Exited = false
	cpu.ExitCode = 0
	cpu.Ticks = 0
	cpu.Faults = nil
	cpu.FaultCount = 0
	cpu.codeEnd = isa.CODE_ORIGIN
}

// Load resets the machine, copies the code and data regions into memory
// and starts the machine at the code origin.
func (cpu *Cpu) Load(code []byte, data []byte) (err error) {
	if len(code) > int(isa.CODE_LIMIT-isa.CODE_ORIGIN) {
		err = ErrCodeSize
		return
	}
	if len(data) > int(isa.MEMORY_SIZE-isa.DATA_ORIGIN) {
		err = ErrDataSize
		return
	}

	cpu.Reset()

	copy(cpu.Memory[isa.CODE_ORIGIN:], code)
	copy(cpu.Memory[isa.DATA_ORIGIN:], data)
	cpu.codeEnd = isa.CODE_ORIGIN + uint32(len(code))
	cpu.Running = true

	if cpu.Verbose {
		log.Printf("cpu: loaded %d code bytes, %d data bytes", len(code), len(data))
	}

	return
}

// CodeEnd returns the address just past the loaded code.
func (cpu *Cpu) CodeEnd() uint32 {
	return cpu.codeEnd
}

// Exit stops the machine with an exit code.
func (cpu *Cpu) Exit(code uint32) {
	cpu.ExitCode = code
	cpu.Exited = true
	cpu.Running = false
}

// GetRegister returns a register's value. An invalid register code
// faults and selects ACCUMULATOR.
func (cpu *Cpu) GetRegister(reg isa.Register) uint32 {
	return *cpu.register(reg)
}

// SetRegister sets a register's value. An invalid register code
// faults and selects ACCUMULATOR.
func (cpu *Cpu) SetRegister(reg isa.Register, value uint32) {
	*cpu.register(reg) = value
}

func (cpu *Cpu) register(reg isa.Register) *uint32 {
	if !reg.Valid() {
		cpu.Fault(fmt.Errorf("%w: %v", ErrRegisterInvalid, reg))
		reg = isa.REG_ACCUMULATOR
	}
	return &cpu.Register[reg.Index()]
}

// Fault logs a non-fatal fault at the executing instruction, and records
// it if fewer than FAULT_LIMIT faults are held.
func (cpu *Cpu) Fault(err error) {
	err = &ErrFault{Ip: cpu.ip, Err: err}
	cpu.FaultCount++
	if len(cpu.Faults) < FAULT_LIMIT {
		cpu.Faults = append(cpu.Faults, err)
	}
	log.Printf("cpu: %v", err)
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	regs := []string{"ip", "flags"}
	for _, reg := range isa.Registers() {
		regs = append(regs, reg.String())
	}
	regs = append(regs, "stack")

	for _, reg := range regs {
		var strval string
		switch reg {
		case "ip":
			strval = fmt.Sprintf("%04X_%04X", cpu.Ip>>16, cpu.Ip&0xffff)
		case "flags":
			strval = fmt.Sprintf("%04X_%04X", cpu.Flags>>16, cpu.Flags&0xffff)
			if (cpu.Flags & isa.FLAG_ZERO) != 0 {
				strval += " ZF"
			}
			if (cpu.Flags & isa.FLAG_NEGATIVE) != 0 {
				strval += " SF"
			}
		case "stack":
			val, ok := cpu.Peek()
			if ok {
				strval = fmt.Sprintf("%04X_%04X", val>>16, val&0xffff)
			} else {
				strval = "----_----"
			}
		default:
			r, _ := isa.LookupRegister(reg)
			val := cpu.Register[r.Index()]
			strval = fmt.Sprintf("%04X_%04X (%d)", val>>16, val&0xffff, val)
		}
		text += fmt.Sprintf("% 12s: %v\n", reg, strval)
	}

	return
}
