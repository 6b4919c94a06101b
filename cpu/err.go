package cpu

import (
	"errors"

	"github.com/ezrec/xe/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrMemoryFault     = errors.New(f("memory fault"))
	ErrRegisterInvalid = errors.New(f("register invalid"))
	ErrInputFormat     = errors.New(f("input format"))
	ErrOutput          = errors.New(f("output failed"))
	ErrCodeSize        = errors.New(f("code overflows into data region"))
	ErrDataSize        = errors.New(f("data exceeds memory"))

	// Instruction decode errors
	ErrOpcodeDecode = errors.New(f("decode"))
)

// ErrOpcode is an undefined opcode byte.
type ErrOpcode byte

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%02x", byte(eo))
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

// ErrInterruptUnhandled is an INT to a vector with no handler.
type ErrInterruptUnhandled byte

func (ei ErrInterruptUnhandled) Error() string {
	return f("unhandled interrupt 0x%02x", byte(ei))
}

func (ei ErrInterruptUnhandled) Is(err error) (ok bool) {
	_, ok = err.(ErrInterruptUnhandled)
	return
}

// ErrAddress is the range of a faulting memory access.
type ErrAddress struct {
	Address uint32
	Size    int
}

func (ea ErrAddress) Error() string {
	return f("invalid access at 0x%08x, size %v", ea.Address, ea.Size)
}

// ErrFault locates a non-fatal fault at the instruction that caused it.
type ErrFault struct {
	Ip  uint32
	Err error
}

func (err *ErrFault) Error() string {
	return f("0x%08x: %v", err.Ip, err.Err)
}

func (err *ErrFault) Unwrap() error {
	return err.Err
}
