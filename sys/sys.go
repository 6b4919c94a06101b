// Package sys implements the system call interrupt of the xe machine.
//
// A program requests a service by loading ACCUMULATOR with the call
// number and BASE, COUNT and DATA with its arguments, then executing
// INT 0x80. Results are returned in ACCUMULATOR.
package sys

import (
	"errors"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/xe/cpu"
	"github.com/ezrec/xe/io"
	"github.com/ezrec/xe/isa"
)

const (
	SYSCALL = byte(0x80) // System call interrupt vector.
)

// System call numbers, in ACCUMULATOR.
const (
	SYS_EXIT  = uint32(1) // exit(code BASE)
	SYS_READ  = uint32(3) // read(fd BASE, buf COUNT, len DATA)
	SYS_WRITE = uint32(4) // write(fd BASE, buf COUNT, len DATA)
)

// File descriptors, in BASE.
const (
	STDIN  = uint32(0)
	STDOUT = uint32(1)
	STDERR = uint32(2)
)

// FAILED is returned in ACCUMULATOR by a failed read or write.
const FAILED = ^uint32(0)

var _sys_defines = map[string]uint32{
	"SYSCALL":   uint32(SYSCALL),
	"SYS_EXIT":  SYS_EXIT,
	"SYS_READ":  SYS_READ,
	"SYS_WRITE": SYS_WRITE,
	"STDIN":     STDIN,
	"STDOUT":    STDOUT,
	"STDERR":    STDERR,
}

// Syscall serves the system call interrupt.
type Syscall struct {
	Verbose bool       // If set, logs every system call.
	Console io.Channel // Standard input and output.
	Stderr  io.Channel // Standard error; if nil, Console is used.
}

// Defines returns the system call numbers and file descriptors.
func (sc *Syscall) Defines() iter.Seq2[string, uint32] {
	return maps.All(_sys_defines)
}

// Install registers the system call handler on a CPU.
func (sc *Syscall) Install(cp *cpu.Cpu) {
	cp.RegisterInterrupt(SYSCALL, sc.Interrupt)
}

// Interrupt is the SYSCALL interrupt handler.
func (sc *Syscall) Interrupt(cp *cpu.Cpu) {
	number := cp.GetRegister(isa.REG_ACCUMULATOR)
	fd := cp.GetRegister(isa.REG_BASE)
	buf := cp.GetRegister(isa.REG_COUNT)
	size := cp.GetRegister(isa.REG_DATA)

	switch number {
	case SYS_EXIT:
		if sc.Verbose {
			log.Printf("sys: exit(%v)", fd)
		}
		cp.Exit(fd)
	case SYS_READ:
		if sc.Verbose {
			log.Printf("sys: read(%v, %#x, %v)", fd, buf, size)
		}
		cp.SetRegister(isa.REG_ACCUMULATOR, sc.read(cp, fd, buf, size))
	case SYS_WRITE:
		if sc.Verbose {
			log.Printf("sys: write(%v, %#x, %v)", fd, buf, size)
		}
		cp.SetRegister(isa.REG_ACCUMULATOR, sc.write(cp, fd, buf, size))
	default:
		cp.Fault(ErrSyscallUnknown(number))
	}
}

// read reads one line of input into memory, without its line ending.
// Input longer than the buffer is truncated.
func (sc *Syscall) read(cp *cpu.Cpu, fd uint32, buf uint32, size uint32) (count uint32) {
	if fd != STDIN || sc.Console == nil {
		cp.Fault(ErrFileDescriptor(fd))
		return FAILED
	}

	line, err := sc.Console.ReadLine()
	if err != nil {
		cp.Fault(errors.Join(cpu.ErrInputFormat, err))
		return FAILED
	}

	data := []byte(line)
	if uint64(len(data)) > uint64(size) {
		cp.Fault(errors.Join(cpu.ErrInputFormat, ErrInputTruncated))
		data = data[:size]
	}

	if !cp.WriteMemory(buf, data) {
		return FAILED
	}

	return uint32(len(data))
}

// write writes a memory buffer to standard output or standard error.
func (sc *Syscall) write(cp *cpu.Cpu, fd uint32, buf uint32, size uint32) (count uint32) {
	var out io.Channel
	switch fd {
	case STDOUT:
		out = sc.Console
	case STDERR:
		out = sc.Stderr
		if out == nil {
			out = sc.Console
		}
	}
	if out == nil {
		cp.Fault(ErrFileDescriptor(fd))
		return FAILED
	}

	if uint64(buf)+uint64(size) > uint64(len(cp.Memory)) {
		cp.Fault(errors.Join(cpu.ErrMemoryFault, cpu.ErrAddress{Address: buf, Size: int(size)}))
		return FAILED
	}

	data := cp.ReadMemory(buf, int(size))
	n, err := out.Write(data)
	if err != nil {
		cp.Fault(errors.Join(cpu.ErrOutput, err))
		return FAILED
	}

	return uint32(n)
}
