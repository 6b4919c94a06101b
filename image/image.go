// Package image reads and writes assembled xe programs.
//
// An image is a fixed header followed by a snappy compressed stream
// holding the code region, the data region, the label table and the
// source line map.
package image

import (
	"encoding/binary"
	"io"

	"github.com/golang/snappy"
	"github.com/lunixbochs/struc"
	"github.com/pkg/errors"

	"github.com/ezrec/xe/asm"
	"github.com/ezrec/xe/internal"
	"github.com/ezrec/xe/isa"
	"github.com/ezrec/xe/translate"
)

var f = translate.From

const (
	MAGIC   = "XEIM" // Image file magic.
	VERSION = 1      // Image file format version.
)

var (
	ErrMagic   = errors.New(f("not an xe image"))
	ErrVersion = errors.New(f("unsupported image version"))
	ErrOrigin  = errors.New(f("image origin mismatch"))
	ErrSize    = errors.New(f("image region too large"))
)

var order = binary.LittleEndian

// Header is the uncompressed image header.
type Header struct {
	Magic      string `struc:"[4]byte"`
	Version    uint32
	CodeOrigin uint32
	DataOrigin uint32
	CodeSize   uint32
	DataSize   uint32
	LabelCount uint32
	LineCount  uint32
}

type labelRecord struct {
	NameSize int `struc:"uint16,sizeof=Name"`
	Name     string
	Value    uint32
}

type lineRecord struct {
	LineNo   int `struc:"uint32"`
	Address  uint32
	Size     int `struc:"uint8"`
	TextSize int `struc:"uint16,sizeof=Text"`
	Text     string
}

// maxText is the longest line text a record can hold.
const maxText = 0xffff

// Write writes a program image.
func Write(w io.Writer, prog *asm.Program) (err error) {
	header := &Header{
		Magic:      MAGIC,
		Version:    VERSION,
		CodeOrigin: isa.CODE_ORIGIN,
		DataOrigin: isa.DATA_ORIGIN,
		CodeSize:   uint32(len(prog.Code)),
		DataSize:   uint32(len(prog.Data)),
		LabelCount: uint32(len(prog.Labels)),
		LineCount:  uint32(len(prog.Lines)),
	}
	if err = struc.PackWithOrder(w, header, order); err != nil {
		return errors.Wrap(err, "failed to pack header")
	}

	zw := snappy.NewBufferedWriter(w)

	if _, err = zw.Write(prog.Code); err != nil {
		return errors.Wrap(err, "failed to write code")
	}
	if _, err = zw.Write(prog.Data); err != nil {
		return errors.Wrap(err, "failed to write data")
	}

	for name, value := range internal.SortedByKey(prog.Labels) {
		rec := &labelRecord{Name: name, Value: value}
		if err = struc.PackWithOrder(zw, rec, order); err != nil {
			return errors.Wrapf(err, "failed to pack label %v", name)
		}
	}

	for _, line := range prog.Lines {
		text := line.Text
		if len(text) > maxText {
			text = text[:maxText]
		}
		rec := &lineRecord{
			LineNo:  line.LineNo,
			Address: line.Address,
			Size:    line.Size,
			Text:    text,
		}
		if err = struc.PackWithOrder(zw, rec, order); err != nil {
			return errors.Wrapf(err, "failed to pack line %v", line.LineNo)
		}
	}

	if err = zw.Close(); err != nil {
		return errors.Wrap(err, "failed to flush image")
	}

	return
}

// ReadHeader reads and validates an image header.
func ReadHeader(r io.Reader) (header *Header, err error) {
	header = &Header{}
	if err = struc.UnpackWithOrder(r, header, order); err != nil {
		return nil, errors.Wrap(err, "failed to unpack header")
	}

	switch {
	case header.Magic != MAGIC:
		err = ErrMagic
	case header.Version != VERSION:
		err = errors.Wrapf(ErrVersion, "version %d", header.Version)
	case header.CodeOrigin != isa.CODE_ORIGIN || header.DataOrigin != isa.DATA_ORIGIN:
		err = ErrOrigin
	case header.CodeSize > isa.CODE_LIMIT-isa.CODE_ORIGIN:
		err = errors.Wrap(ErrSize, "code")
	case header.DataSize > isa.MEMORY_SIZE-isa.DATA_ORIGIN:
		err = errors.Wrap(ErrSize, "data")
	}
	if err != nil {
		header = nil
	}

	return
}

// Read reads a program image.
func Read(r io.Reader) (prog *asm.Program, err error) {
	header, err := ReadHeader(r)
	if err != nil {
		return
	}

	zr := snappy.NewReader(r)

	code := make([]byte, header.CodeSize)
	if _, err = io.ReadFull(zr, code); err != nil {
		return nil, errors.Wrap(err, "failed to read code")
	}

	data := make([]byte, header.DataSize)
	if _, err = io.ReadFull(zr, data); err != nil {
		return nil, errors.Wrap(err, "failed to read data")
	}

	labels := make(map[string]uint32)
	for range header.LabelCount {
		rec := &labelRecord{}
		if err = struc.UnpackWithOrder(zr, rec, order); err != nil {
			return nil, errors.Wrap(err, "failed to unpack label")
		}
		labels[rec.Name] = rec.Value
	}

	var lines []asm.Line
	for range header.LineCount {
		rec := &lineRecord{}
		if err = struc.UnpackWithOrder(zr, rec, order); err != nil {
			return nil, errors.Wrap(err, "failed to unpack line")
		}
		lines = append(lines, asm.Line{
			LineNo:  rec.LineNo,
			Address: rec.Address,
			Size:    rec.Size,
			Text:    rec.Text,
		})
	}

	prog = &asm.Program{
		Code:   code,
		Data:   data,
		Labels: labels,
		Lines:  lines,
	}

	return
}
