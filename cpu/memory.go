package cpu

import (
	"encoding/binary"
	"errors"
)

// inRange returns true if [addr, addr+size) lies within memory.
func (cpu *Cpu) inRange(addr uint32, size int) bool {
	return size >= 0 && uint64(addr)+uint64(size) <= uint64(len(cpu.Memory))
}

// ReadMemory returns a copy of size bytes at addr. An access outside
// memory faults and reads as zeros.
func (cpu *Cpu) ReadMemory(addr uint32, size int) (data []byte) {
	if size < 0 {
		size = 0
	}
	data = make([]byte, size)
	if !cpu.inRange(addr, size) {
		cpu.Fault(errors.Join(ErrMemoryFault, ErrAddress{Address: addr, Size: size}))
		return
	}

	copy(data, cpu.Memory[addr:])
	return
}

// WriteMemory stores data at addr. An access outside memory faults and
// is dropped.
func (cpu *Cpu) WriteMemory(addr uint32, data []byte) (ok bool) {
	if !cpu.inRange(addr, len(data)) {
		cpu.Fault(errors.Join(ErrMemoryFault, ErrAddress{Address: addr, Size: len(data)}))
		return
	}

	copy(cpu.Memory[addr:], data)
	return true
}

// ReadUint32 reads a little endian word.
func (cpu *Cpu) ReadUint32(addr uint32) uint32 {
	return binary.LittleEndian.Uint32(cpu.ReadMemory(addr, 4))
}

// WriteUint32 writes a little endian word.
func (cpu *Cpu) WriteUint32(addr uint32, value uint32) (ok bool) {
	var raw [4]byte
	binary.LittleEndian.PutUint32(raw[:], value)
	return cpu.WriteMemory(addr, raw[:])
}

// ReadString returns the bytes from addr up to, not including, the
// first zero byte or the end of memory.
func (cpu *Cpu) ReadString(addr uint32) (str []byte) {
	for ; uint64(addr) < uint64(len(cpu.Memory)); addr++ {
		ch := cpu.Memory[addr]
		if ch == 0 {
			break
		}
		str = append(str, ch)
	}
	return
}
