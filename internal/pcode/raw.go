package pcode

// The external disassembly engine has its own object model for operations and
// storage locations. The record builder depends only on the narrow capability
// interfaces below, so the engine's concrete types stay isolated behind a
// thin adapter layer (see internal/ghidra).

// RawOperation is one low-level operation as exposed by the engine: a
// mnemonic, up to three indexed input slots, and an optional output slot.
type RawOperation interface {
	// Mnemonic returns the operation kind (e.g. "COPY", "LOAD").
	Mnemonic() string

	// Input returns the operand in the given input slot, or nil when the
	// slot is absent. Slots are indexed from 0.
	Input(slot int) RawOperand

	// Output returns the result operand, or nil when the operation
	// produces no result.
	Output() RawOperand
}

// RawOperand is one storage location referenced by a raw operation.
type RawOperand interface {
	// Space names the address space the operand lives in
	// ("register", "const", "ram", "unique", "stack").
	Space() string

	// Offset is the operand's offset within its address space. For the
	// const space this is the constant value itself.
	Offset() uint64

	// Size is the operand size in bytes. May be 0 when the engine did not
	// record a size; resolution then falls back to TypePropertyLookup.
	Size() int64
}

// NamingContext resolves a raw storage location to its symbolic identity
// within the program being analyzed (register name, constant literal,
// address). Implementations must be safe for concurrent read-only use.
type NamingContext interface {
	ResolveName(v RawOperand) (string, error)
}

// TypePropertyLookup supplies type-size metadata for the target architecture,
// used to default operand sizes the engine left unset.
type TypePropertyLookup interface {
	PointerSize() int64
	IntegerSize() int64
}
