package isa

import (
	"fmt"
	"strings"
)

// Register is a 1-byte register code.
type Register byte

const (
	REG_ACCUMULATOR  = Register(0x01) // ACCUMULATOR
	REG_BASE         = Register(0x02) // BASE
	REG_COUNT        = Register(0x03) // COUNT
	REG_DATA         = Register(0x04) // DATA
	REG_SOURCE       = Register(0x05) // SOURCE
	REG_DEST         = Register(0x06) // DEST
	REG_BASEPOINTER  = Register(0x07) // BASEPOINTER
	REG_STACKPOINTER = Register(0x08) // STACKPOINTER
)

// REGISTER_COUNT is the number of registers in the register file.
const REGISTER_COUNT = 8

var registerName = [REGISTER_COUNT]string{
	"ACCUMULATOR",
	"BASE",
	"COUNT",
	"DATA",
	"SOURCE",
	"DEST",
	"BASEPOINTER",
	"STACKPOINTER",
}

var registerMap = func() map[string]Register {
	m := make(map[string]Register, REGISTER_COUNT)
	for n, name := range registerName {
		m[name] = Register(n + 1)
	}
	return m
}()

// LookupRegister finds a register by name, ignoring case.
func LookupRegister(name string) (reg Register, ok bool) {
	reg, ok = registerMap[strings.ToUpper(name)]
	return
}

// Valid returns true if the register code names a register.
func (reg Register) Valid() bool {
	return reg >= REG_ACCUMULATOR && reg <= REG_STACKPOINTER
}

// Index returns the register file slot of a valid register.
func (reg Register) Index() int {
	return int(reg) - 1
}

// Registers returns all registers in code order.
func Registers() (regs []Register) {
	for n := range REGISTER_COUNT {
		regs = append(regs, Register(n+1))
	}
	return
}

func (reg Register) String() string {
	if !reg.Valid() {
		return fmt.Sprintf("Register(0x%02x)", byte(reg))
	}
	return registerName[reg.Index()]
}
