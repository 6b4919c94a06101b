// Package io provides the console channels of the xe virtual machine.
//
// A channel is line oriented on input, as the INPUT instruction and the
// read system call both consume one line at a time, and a plain byte
// stream on output.
package io

import (
	"io"
)

// Channel defines the interface for the machine's console.
type Channel interface {
	// ReadLine returns the next line of input, without its line ending.
	// Returns io.EOF when no further input is available.
	ReadLine() (line string, err error)
	// Write writes program output.
	io.Writer
}
