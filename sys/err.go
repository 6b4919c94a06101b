package sys

import (
	"errors"

	"github.com/ezrec/xe/translate"
)

var f = translate.From

var (
	ErrInputTruncated = errors.New(f("input truncated"))
)

// ErrSyscallUnknown is an unknown system call number.
type ErrSyscallUnknown uint32

func (es ErrSyscallUnknown) Error() string {
	return f("unknown system call 0x%x", uint32(es))
}

func (es ErrSyscallUnknown) Is(err error) (ok bool) {
	_, ok = err.(ErrSyscallUnknown)
	return
}

// ErrFileDescriptor is a file descriptor with no stream behind it.
type ErrFileDescriptor uint32

func (ef ErrFileDescriptor) Error() string {
	return f("bad file descriptor 0x%x", uint32(ef))
}

func (ef ErrFileDescriptor) Is(err error) (ok bool) {
	_, ok = err.(ErrFileDescriptor)
	return
}
