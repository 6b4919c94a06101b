package cpu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/xe/isa"
)

func TestNewCpu(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()

	assert.False(cpu.Verbose)
	assert.False(cpu.Running)
	assert.Equal(int(isa.MEMORY_SIZE), len(cpu.Memory))
	assert.Equal(isa.CODE_ORIGIN, cpu.Ip)
	assert.Equal(isa.STACK_TOP, cpu.GetRegister(isa.REG_STACKPOINTER))
	assert.True(cpu.Empty())
}

func TestCpuLoad(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.SetRegister(isa.REG_BASE, 77)
	cpu.Flags = isa.FLAG_ZERO

	code := []byte{byte(isa.OP_NOP), byte(isa.OP_HLT)}
	data := []byte{1, 2, 3}
	assert.NoError(cpu.Load(code, data))

	assert.True(cpu.Running)
	assert.Equal(isa.CODE_ORIGIN, cpu.Ip)
	assert.Equal(isa.CODE_ORIGIN+2, cpu.CodeEnd())
	assert.Equal(uint32(0), cpu.GetRegister(isa.REG_BASE))
	assert.Equal(uint32(0), cpu.Flags)
	assert.Equal(code, cpu.Memory[isa.CODE_ORIGIN:isa.CODE_ORIGIN+2])
	assert.Equal(data, cpu.Memory[isa.DATA_ORIGIN:isa.DATA_ORIGIN+3])
}

func TestCpuLoadLimits(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()

	code := make([]byte, isa.CODE_LIMIT-isa.CODE_ORIGIN)
	assert.NoError(cpu.Load(code, nil))

	code = append(code, byte(isa.OP_HLT))
	assert.ErrorIs(cpu.Load(code, nil), ErrCodeSize)

	data := make([]byte, isa.MEMORY_SIZE-isa.DATA_ORIGIN+1)
	assert.ErrorIs(cpu.Load(nil, data), ErrDataSize)
}

func TestCpuReset(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	assert.NoError(cpu.Load([]byte{byte(isa.OP_INT), 0x42}, []byte{9}))

	called := 0
	cpu.RegisterInterrupt(0x42, func(cpu *Cpu) { called++ })
	assert.NoError(cpu.Run())
	assert.Equal(1, called)

	cpu.Exit(5)
	cpu.Reset()

	assert.False(cpu.Running)
	assert.False(cpu.Exited)
	assert.Equal(uint32(0), cpu.ExitCode)
	assert.Equal(0, cpu.Ticks)
	assert.Equal(byte(0), cpu.Memory[isa.DATA_ORIGIN])

	// Interrupt handlers survive a reset.
	assert.NoError(cpu.Load([]byte{byte(isa.OP_INT), 0x42}, nil))
	assert.NoError(cpu.Run())
	assert.Equal(2, called)
}

func TestCpuExit(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	assert.NoError(cpu.Load([]byte{byte(isa.OP_NOP)}, nil))

	cpu.Exit(3)
	assert.False(cpu.Running)
	assert.True(cpu.Exited)
	assert.Equal(uint32(3), cpu.ExitCode)

	done, err := cpu.Tick()
	assert.True(done)
	assert.NoError(err)
	assert.Equal(0, cpu.Ticks)
}

func TestCpuDefines(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()

	defines := map[string]uint32{}
	for key, value := range cpu.Defines() {
		defines[key] = value
	}

	assert.Equal(isa.CODE_ORIGIN, defines["CODE_ORIGIN"])
	assert.Equal(isa.DATA_ORIGIN, defines["DATA_ORIGIN"])
	assert.Equal(isa.MEMORY_SIZE, defines["MEMORY_SIZE"])
}

func TestCpuString(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.SetRegister(isa.REG_COUNT, 0x12345678)
	cpu.Flags = isa.FLAG_ZERO

	text := cpu.String()
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")

	assert.Equal(2+isa.REGISTER_COUNT+1, len(lines))
	assert.Equal("          ip: 0000_1000", lines[0])
	assert.Equal("       flags: 0000_0040 ZF", lines[1])
	assert.Equal("       COUNT: 1234_5678 (305419896)", lines[4])
	assert.Equal("       stack: ----_----", lines[len(lines)-1])

	cpu.Push(0xabcd)
	text = cpu.String()
	assert.True(strings.HasSuffix(text, "       stack: 0000_ABCD\n"))
}

func TestCpuRegisterInvalid(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.SetRegister(isa.Register(0), 12)
	assert.Equal(uint32(12), cpu.GetRegister(isa.REG_ACCUMULATOR))
	assert.Equal(1, faultIs(cpu, ErrRegisterInvalid))
}
