package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/xe/isa"
)

func TestStack_Push(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	assert.True(cpu.Empty())

	cpu.Push(0x12345678)
	assert.False(cpu.Empty())
	assert.Equal(1, cpu.Depth())
	assert.Equal(isa.STACK_TOP-4, cpu.GetRegister(isa.REG_STACKPOINTER))
	assert.Equal(uint32(0x12345678), cpu.ReadUint32(isa.STACK_TOP-4))
}

func TestStack_Pop(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.Push(0x12345678)
	cpu.Push(0xABCDEF01)

	assert.Equal(uint32(0xABCDEF01), cpu.Pop())
	assert.Equal(1, cpu.Depth())
	assert.Equal(uint32(0x12345678), cpu.Pop())
	assert.Equal(0, cpu.Depth())
	assert.Equal(isa.STACK_TOP, cpu.GetRegister(isa.REG_STACKPOINTER))
}

func TestStack_Pop_Empty(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()

	// Popping an empty stack reads the word at STACK_TOP and moves the
	// stack pointer past it; the next pop runs off the end of memory.
	assert.Equal(uint32(0), cpu.Pop())
	assert.Equal(isa.MEMORY_SIZE, cpu.GetRegister(isa.REG_STACKPOINTER))
	assert.True(cpu.Empty())
	assert.Equal(0, len(cpu.Faults))

	assert.Equal(uint32(0), cpu.Pop())
	assert.Equal(1, faultIs(cpu, ErrMemoryFault))
}

func TestStack_Peek(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.Push(0x12345678)
	cpu.Push(0xABCDEF01)

	val, ok := cpu.Peek()
	assert.True(ok)
	assert.Equal(uint32(0xABCDEF01), val)
	assert.Equal(2, cpu.Depth())
}

func TestStack_Peek_Empty(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	val, ok := cpu.Peek()
	assert.False(ok)
	assert.Equal(uint32(0), val)
}

func TestStack_Wrap(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.SetRegister(isa.REG_STACKPOINTER, 0)

	// The stack pointer wraps below zero and the store faults.
	cpu.Push(1)
	assert.Equal(uint32(0xfffffffc), cpu.GetRegister(isa.REG_STACKPOINTER))
	assert.Equal(1, faultIs(cpu, ErrMemoryFault))

	_, ok := cpu.Peek()
	assert.False(ok)
}
