package isa

// Memory layout of a loaded program.
const (
	CODE_ORIGIN = uint32(0x1000)  // Base address of the code region.
	DATA_ORIGIN = uint32(0x2000)  // Base address of the data region.
	CODE_LIMIT  = DATA_ORIGIN     // Code must end at or before this address.
	MEMORY_SIZE = uint32(1 << 20) // Size of the machine's memory buffer.
	STACK_TOP   = MEMORY_SIZE - 4 // Initial STACKPOINTER value.
	STACK_SLOT  = 4               // Bytes moved per push or pop.
)

// Flags word bits, set by CMP.
const (
	FLAG_ZERO     = uint32(0x40) // Comparison was equal.
	FLAG_NEGATIVE = uint32(0x80) // First operand was below the second.
)
