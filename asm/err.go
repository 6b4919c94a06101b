package asm

import (
	"errors"

	"github.com/ezrec/xe/translate"
)

var f = translate.From

var (
	ErrMnemonicInvalid    = errors.New(f("mnemonic invalid"))
	ErrOperandMissing     = errors.New(f("operand missing"))
	ErrOperandExtra       = errors.New(f("excessive operands"))
	ErrEquateSyntax       = errors.New(f("equ syntax"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrLabelInvalid       = errors.New(f("label invalid"))
	ErrStringUnterminated = errors.New(f("string unterminated"))
	ErrDataRange          = errors.New(f("data value out of range"))
	ErrCodeOverflow       = errors.New(f("code overflows into data region"))
)

// ErrSymbolUnresolved is an operand that could not be resolved to a
// register, number or label. The operand is encoded as unknown.
type ErrSymbolUnresolved string

func (err ErrSymbolUnresolved) Error() string {
	return f("'%v' is not a register, number or label", string(err))
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

// ErrSyntax locates an assembly diagnostic in the source text.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}
