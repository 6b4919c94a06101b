package emulator

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/xe/asm"
	"github.com/ezrec/xe/cpu"
	"github.com/ezrec/xe/image"
	"github.com/ezrec/xe/isa"
)

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu)
	assert.Equal(0, emu.Ticks())
	assert.Equal(isa.CODE_ORIGIN, emu.Ip())
}

func doAssemble(emu *Emulator, program []string, t *testing.T) {
	assert := assert.New(t)

	as := emu.Assembler()
	prog, err := as.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	assert.Equal(0, len(as.Diagnostics))
	emu.Program = prog
}

func doRunBranch(emu *Emulator, input string, t *testing.T) (output string) {
	assert := assert.New(t)

	err := emu.Reset()
	assert.NoError(err)

	emu.Tape.Input = strings.NewReader(input)
	tape_output := &bytes.Buffer{}
	emu.Tape.Output = tape_output

	var done bool
	for !done {
		done, err = emu.Tick()
		assert.NoError(err)
		if err != nil {
			t.Log(emu.Cpu.String())
			t.Fatal(err)
		}
	}

	output = tape_output.String()
	return
}

func doRunFile(emu *Emulator, name string, input string, t *testing.T) (output string) {
	assert := assert.New(t)

	inf, err := os.Open(filepath.Join("testdata", name))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}
	defer inf.Close()

	as := emu.Assembler()
	prog, err := as.Parse(inf)
	assert.NoError(err)
	assert.Equal(0, len(as.Diagnostics), name)
	emu.Program = prog

	return doRunBranch(emu, input, t)
}

func TestEmulatorSingle(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	program := []string{
		"MOV ACCUMULATOR, 5",
		"",
		"ADD ACCUMULATOR, 3 ; 8",
		"HLT",
	}
	doAssemble(emu, program, t)

	assert.NoError(emu.Reset())

	for n, line := range emu.Program.Lines {
		assert.Equal(line.Address, emu.Cpu.Ip)
		assert.Equal(line.LineNo, emu.LineNo())
		here := program[emu.LineNo()-1]
		done, err := emu.Tick()
		assert.NoError(err, here)
		assert.Equal(n == len(emu.Program.Lines)-1, done, here)
	}

	assert.Equal(uint32(8), emu.Cpu.GetRegister(isa.REG_ACCUMULATOR))
	assert.False(emu.Cpu.Running)
	assert.Equal(3, emu.Ticks())
}

func TestEmulatorDefines(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	defines := map[string]uint32{}
	for key, value := range emu.Defines() {
		defines[key] = value
	}

	assert.Equal(uint32(0x80), defines["SYSCALL"])
	assert.Equal(uint32(1), defines["SYS_EXIT"])
	assert.Equal(uint32(3), defines["SYS_READ"])
	assert.Equal(uint32(4), defines["SYS_WRITE"])
	assert.Equal(uint32(1), defines["STDOUT"])
	assert.Equal(isa.DATA_ORIGIN, defines["DATA_ORIGIN"])
	assert.Equal(uint32(256), defines["VECTOR_COUNT"])
}

func TestEmulatorPrograms(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name     string
		input    string
		output   string
		exited   bool
		exitCode uint32
	}){
		{"hello.asm", "", "Hello, world!\n", true, 0},
		{"countdown.asm", "", "5 4 3 2 1 \n", false, 0},
		{"factorial.asm", "", "120 ", false, 0},
		{"echo.asm", "ping\n", "ping", true, 4},
		{"echo.asm", "a line longer than sixteen bytes\n", "a line longer th", true, 16},
		{"sum.asm", "2\n40\n", "sum: 42 ", false, 0},
	}

	for _, entry := range table {
		emu := NewEmulator()
		output := doRunFile(emu, entry.name, entry.input, t)
		assert.Equal(entry.output, output, entry.name)
		assert.Equal(entry.exited, emu.Cpu.Exited, entry.name)
		assert.Equal(entry.exitCode, emu.Cpu.ExitCode, entry.name)
		assert.Equal(isa.STACK_TOP, emu.Cpu.GetRegister(isa.REG_STACKPOINTER), entry.name)
	}
}

func TestEmulatorRuntimeError(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	doAssemble(emu, []string{
		"NOP",
		"; the HLT is overwritten",
		"HLT",
	}, t)
	emu.Program.Code[1] = 0x99

	assert.NoError(emu.Reset())

	done, err := emu.Tick()
	assert.NoError(err)
	assert.False(done)

	done, err = emu.Tick()
	assert.True(done)

	var runtime *ErrRuntime
	if assert.True(errors.As(err, &runtime)) {
		assert.Equal(uint32(0x1001), runtime.Address)
		assert.Equal(3, runtime.LineNo)
	}
	assert.ErrorIs(err, cpu.ErrOpcodeDecode)
	assert.ErrorIs(err, cpu.ErrOpcode(0x99))
}

func TestEmulatorTickLimit(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.MaxTicks = 100
	doAssemble(emu, []string{
		"spin: JMP spin",
	}, t)

	assert.NoError(emu.Reset())
	err := emu.Run()
	assert.ErrorIs(err, ErrTickLimit)
	assert.Equal(100, emu.Ticks())
	assert.False(emu.Cpu.Running)

	var runtime *ErrRuntime
	if assert.True(errors.As(err, &runtime)) {
		assert.Equal(1, runtime.LineNo)
	}

	// A reset starts a new run.
	assert.NoError(emu.Reset())
	assert.Equal(0, emu.Ticks())
	assert.True(emu.Cpu.Running)
}

func TestEmulatorFaults(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	doAssemble(emu, []string{
		"INT 0x21",
		"MOV ACCUMULATOR, 99",
		"INT SYSCALL",
		"INPUT BASE",
		"MOV COUNT, 1",
	}, t)

	doRunBranch(emu, "", t)

	assert.Equal(uint32(1), emu.Cpu.GetRegister(isa.REG_COUNT))
	assert.Equal(3, len(emu.Cpu.Faults))
}

func TestEmulatorLoadTooLarge(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.Program = &asm.Program{Code: make([]byte, 0x1001)}

	err := emu.Reset()
	assert.ErrorIs(err, cpu.ErrCodeSize)
}

func TestEmulatorImage(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	inf, err := os.Open(filepath.Join("testdata", "factorial.asm"))
	assert.NoError(err)
	defer inf.Close()

	prog, err := emu.Assembler().Parse(inf)
	assert.NoError(err)

	buf := &bytes.Buffer{}
	assert.NoError(image.Write(buf, prog))

	emu.Program, err = image.Read(buf)
	assert.NoError(err)

	output := doRunBranch(emu, "", t)
	assert.Equal("120 ", output)
	assert.Equal(prog.Labels["multiply"], emu.Program.Labels["multiply"])
}
