// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/ezrec/xe/asm"
	"github.com/ezrec/xe/emulator"
	"github.com/ezrec/xe/image"
	"github.com/ezrec/xe/io"
	"github.com/ezrec/xe/isa"
)

func main() {
	var compile string
	var load string
	var save string
	var input string
	var output string
	var hexdump bool
	var regdump bool
	var labelmap bool
	var maxTicks int
	var verbose bool

	flag.StringVar(&compile, "c", "", ".asm file to assemble")
	flag.StringVar(&load, "l", "", ".xe image to load")
	flag.StringVar(&save, "s", "", ".xe image to save, do not execute")
	flag.StringVar(&input, "i", "-", "Console input")
	flag.StringVar(&output, "o", "-", "Console output")
	flag.BoolVar(&hexdump, "x", false, "Hex dump the data region after the run")
	flag.BoolVar(&regdump, "d", false, "Dump the registers after the run")
	flag.BoolVar(&labelmap, "m", false, "List the labels in address order")
	flag.IntVar(&maxTicks, "n", 0, "Instruction limit, 0 for none")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(compile) != 0 && len(load) != 0 {
		log.Fatalf("%v: -c and -l are exclusive", os.Args[0])
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.MaxTicks = maxTicks

	var prog *asm.Program

	// Compile a new instruction stream.
	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		as := emu.Assembler()
		prog, err = as.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		for _, diag := range as.Diagnostics {
			log.Printf("%v: %v", compile, diag)
		}
	}

	// Load a saved image.
	if len(load) != 0 {
		inf, err := os.Open(load)
		if err != nil {
			log.Fatalf("%v: %v", load, err)
		}
		defer inf.Close()

		prog, err = image.Read(inf)
		if err != nil {
			log.Fatalf("%v: %v", load, err)
		}
	}

	if prog == nil {
		log.Fatalf("%v: one of -c or -l is required", os.Args[0])
	}

	if labelmap {
		dumpLabels(os.Stdout, prog.Labels, isatty.IsTerminal(os.Stdout.Fd()))
	}

	if len(save) != 0 {
		ouf, err := os.Create(save)
		if err != nil {
			log.Fatalf("%v: %v", save, err)
		}
		err = image.Write(ouf, prog)
		if err == nil {
			err = ouf.Close()
		}
		if err != nil {
			log.Fatalf("%v: %v", save, err)
		}
		return
	}

	emu.Program = prog
	emu.Syscall.Stderr = &io.Tape{Output: os.Stderr}

	interactive := input == "-" && output == "-" && isatty.IsTerminal(os.Stdin.Fd())
	if interactive {
		term, err := io.NewTerminal("? ")
		if err != nil {
			log.Fatalf("%v: %v", os.Args[0], err)
		}
		defer term.Close()
		emu.SetConsole(term)
	} else {
		if input == "-" {
			emu.Tape.Input = os.Stdin
		} else {
			inf, err := os.Open(input)
			if err != nil {
				log.Fatalf("%v: %v", input, err)
			}
			defer inf.Close()
			emu.Tape.Input = inf
		}

		if output == "-" {
			emu.Tape.Output = os.Stdout
		} else {
			ouf, err := os.Create(output)
			if err != nil {
				log.Fatalf("%v: %v", output, err)
			}
			defer ouf.Close()
			emu.Tape.Output = ouf
		}
	}

	err := emu.Reset()
	if err != nil {
		log.Fatal(err)
	}

	err = emu.Run()

	color := isatty.IsTerminal(os.Stdout.Fd())
	if regdump {
		dumpRegisters(os.Stdout, emu.Cpu, color)
	}
	if hexdump {
		data := emu.Cpu.Memory[isa.DATA_ORIGIN : isa.DATA_ORIGIN+uint32(len(prog.Data))]
		dumpMemory(os.Stdout, isa.DATA_ORIGIN, data, color)
	}

	if err != nil {
		log.Fatal(err)
	}

	if emu.Cpu.Exited {
		fmt.Printf("Program exited with code: %d\n", emu.Cpu.ExitCode)
	}
}
