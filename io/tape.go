package io

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// Tape provides line based input and byte based output over a pair of
// streams. A nil Input reads as empty, a nil Output discards.
type Tape struct {
	Input  io.Reader
	Output io.Writer

	reader *bufio.Reader
	source io.Reader
	closed bool
}

var _ Channel = (*Tape)(nil)

// Rewind drops any buffered input, so the next read starts fresh from
// the current Input.
func (tc *Tape) Rewind() {
	tc.reader = nil
	tc.source = nil
	tc.closed = false
}

// Close marks the tape as closed; further reads and writes fail.
func (tc *Tape) Close() (err error) {
	tc.closed = true
	return
}

// ReadLine reads the next line from the input stream.
// A final line without a line ending is still returned.
func (tc *Tape) ReadLine() (line string, err error) {
	if tc.closed {
		err = ErrChannelClosed
		return
	}

	if tc.Input == nil {
		err = io.EOF
		return
	}

	if tc.reader == nil || tc.source != tc.Input {
		tc.reader = bufio.NewReader(tc.Input)
		tc.source = tc.Input
	}

	line, err = tc.reader.ReadString('\n')
	if errors.Is(err, io.EOF) && len(line) > 0 {
		err = nil
	}
	if err != nil {
		return
	}

	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return
}

// Write writes to the output stream.
func (tc *Tape) Write(data []byte) (n int, err error) {
	if tc.closed {
		err = ErrChannelClosed
		return
	}

	if tc.Output == nil {
		return len(data), nil
	}

	return tc.Output.Write(data)
}
