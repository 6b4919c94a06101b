package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mgutz/ansi"

	"github.com/ezrec/xe/cpu"
	"github.com/ezrec/xe/internal"
	"github.com/ezrec/xe/isa"
)

var chSame = ansi.ColorCode("default:default")
var chNew = ansi.ColorCode("default+bu:default")
var chAddr = ansi.ColorCode("cyan:default")

func colorPad(s, color string, pad int) string {
	length := len(s)
	s = color + s + ansi.Reset
	if length < pad {
		s = strings.Repeat(" ", pad-length) + s
	}
	return s
}

// dumpRegisters writes the machine state. Registers that differ from
// their reset value are highlighted, or marked with '+' without color.
func dumpRegisters(w io.Writer, cp *cpu.Cpu, color bool) {
	line := func(name string, value uint32, changed bool, extra string) {
		label := fmt.Sprintf("% 12s", name)
		switch {
		case changed && color:
			label = colorPad(name, chNew, 12)
		case changed:
			label = "+" + label[1:]
		case color:
			label = colorPad(name, chSame, 12)
		}
		fmt.Fprintf(w, "%s: %04X_%04X%s\n", label, value>>16, value&0xffff, extra)
	}

	line("ip", cp.Ip, cp.Ip != isa.CODE_ORIGIN, "")

	var flags string
	if (cp.Flags & isa.FLAG_ZERO) != 0 {
		flags += " ZF"
	}
	if (cp.Flags & isa.FLAG_NEGATIVE) != 0 {
		flags += " SF"
	}
	line("flags", cp.Flags, cp.Flags != 0, flags)

	for _, reg := range isa.Registers() {
		value := cp.GetRegister(reg)
		initial := uint32(0)
		if reg == isa.REG_STACKPOINTER {
			initial = isa.STACK_TOP
		}
		line(reg.String(), value, value != initial, fmt.Sprintf(" (%d)", value))
	}

	fmt.Fprintf(w, "% 12s: %d\n", "ticks", cp.Ticks)
	fmt.Fprintf(w, "% 12s: %d\n", "faults", cp.FaultCount)
}

// dumpMemory writes a hex and ASCII dump of a memory range, 16 bytes
// per row.
func dumpMemory(w io.Writer, origin uint32, data []byte, color bool) {
	for offset := 0; offset < len(data); offset += 16 {
		row := data[offset:min(offset+16, len(data))]

		addr := fmt.Sprintf("%08x", origin+uint32(offset))
		if color {
			addr = chAddr + addr + ansi.Reset
		}

		var hex strings.Builder
		var text strings.Builder
		for n := range 16 {
			if n == 8 {
				hex.WriteByte(' ')
			}
			if n >= len(row) {
				hex.WriteString("   ")
				continue
			}
			fmt.Fprintf(&hex, " %02x", row[n])
			if row[n] >= 0x20 && row[n] < 0x7f {
				text.WriteByte(row[n])
			} else {
				text.WriteByte('.')
			}
		}

		fmt.Fprintf(w, "%s %s  |%s|\n", addr, hex.String(), text.String())
	}
}

// dumpLabels writes the label map in address order, tagging each entry
// with the region it falls in.
func dumpLabels(w io.Writer, labels map[string]uint32, color bool) {
	for name, value := range internal.SortedByValue(labels) {
		var region string
		switch {
		case value >= isa.CODE_ORIGIN && value < isa.CODE_LIMIT:
			region = "code"
		case value >= isa.DATA_ORIGIN && value < isa.MEMORY_SIZE:
			region = "data"
		default:
			region = "equ"
		}

		addr := fmt.Sprintf("%08x", value)
		if color {
			addr = chAddr + addr + ansi.Reset
		}
		fmt.Fprintf(w, "%s %-4s %s\n", addr, region, name)
	}
}
