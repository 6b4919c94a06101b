package cpu

import (
	"github.com/ezrec/xe/isa"
)

// Push moves STACKPOINTER down one slot and stores value there.
func (cpu *Cpu) Push(value uint32) {
	sp := &cpu.Register[isa.REG_STACKPOINTER.Index()]
	*sp -= isa.STACK_SLOT
	cpu.WriteUint32(*sp, value)
}

// Pop reads the value at STACKPOINTER and moves it up one slot.
func (cpu *Cpu) Pop() (value uint32) {
	sp := &cpu.Register[isa.REG_STACKPOINTER.Index()]
	value = cpu.ReadUint32(*sp)
	*sp += isa.STACK_SLOT
	return
}

// Empty returns true if nothing has been pushed below isa.STACK_TOP.
func (cpu *Cpu) Empty() bool {
	return cpu.Depth() == 0
}

// Depth returns the number of slots pushed below isa.STACK_TOP.
// A stack pointer above isa.STACK_TOP counts as empty.
func (cpu *Cpu) Depth() int {
	sp := cpu.Register[isa.REG_STACKPOINTER.Index()]
	if sp >= isa.STACK_TOP {
		return 0
	}
	return int((isa.STACK_TOP - sp) / isa.STACK_SLOT)
}

// Peek returns the top of stack without moving STACKPOINTER.
func (cpu *Cpu) Peek() (value uint32, ok bool) {
	if cpu.Empty() {
		return
	}

	sp := cpu.Register[isa.REG_STACKPOINTER.Index()]
	if !cpu.inRange(sp, 4) {
		return
	}

	return cpu.ReadUint32(sp), true
}
