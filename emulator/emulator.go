// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator wires the xe machine to its console and system calls,
// and locates runtime errors in the program source.
package emulator

import (
	"iter"
	"maps"

	"github.com/ezrec/xe/asm"
	"github.com/ezrec/xe/cpu"
	"github.com/ezrec/xe/internal"
	"github.com/ezrec/xe/io"
	"github.com/ezrec/xe/sys"
)

var _emulator_defines = map[string]uint32{
	"VECTOR_COUNT": 256,
}

// Emulator state. CPU + console + system calls.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *asm.Program // Reference to the currently loaded program.
	MaxTicks int          // If non-zero, the instruction limit per run.

	Tape    io.Tape     // Default console.
	Syscall sys.Syscall // System call interrupt.
}

// NewEmulator creates a new emulator, with the Tape as its console.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(),
		Program: &asm.Program{},
	}

	emu.SetConsole(&emu.Tape)
	emu.Syscall.Install(emu.Cpu)

	return
}

// SetConsole attaches a console to INPUT, PRINT and the system calls.
func (emu *Emulator) SetConsole(console io.Channel) {
	emu.Cpu.Console = console
	emu.Syscall.Console = console
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, uint32] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
		emu.Syscall.Defines(),
	)
}

// Assembler returns an assembler with all of the defines predefined.
func (emu *Emulator) Assembler() (as *asm.Assembler) {
	as = &asm.Assembler{Verbose: emu.Verbose}
	for key, value := range emu.Defines() {
		as.Predefine(key, value)
	}

	return
}

// Reset loads the current program into a freshly reset machine.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose
	emu.Syscall.Verbose = emu.Verbose

	err = emu.Cpu.Load(emu.Program.Code, emu.Program.Data)
	if err != nil {
		err = &ErrRuntime{Address: emu.Cpu.Ip, Err: err}
		return
	}

	return
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Ip returns current instruction pointer.
func (emu *Emulator) Ip() uint32 {
	return emu.Cpu.Ip
}

// LineNo returns the current line number for the executing opcode,
// or 0 if the instruction pointer is not on an assembled line.
func (emu *Emulator) LineNo() int {
	line, ok := emu.Program.Debug(emu.Cpu.Ip)
	if !ok {
		return 0
	}

	return line.LineNo
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	ip := emu.Cpu.Ip
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{Address: ip, LineNo: lineno, Err: err}
		}
	}()

	if emu.MaxTicks > 0 && emu.Cpu.Running && emu.Cpu.Ticks >= emu.MaxTicks {
		emu.Cpu.Running = false
		done = true
		err = ErrTickLimit
		return
	}

	return emu.Cpu.Tick()
}

// Run ticks the emulator until the program stops.
func (emu *Emulator) Run() (err error) {
	for {
		var done bool
		done, err = emu.Tick()
		if done || err != nil {
			return
		}
	}
}
