package pcode

// OperandRecord is the resolved, serializable representation of one operand's
// storage location: which address space it lives in, its symbolic identity
// within that space (register name, constant literal, address), and its size.
type OperandRecord struct {
	AddressSpace string `json:"address_space"`
	ID           string `json:"id"`
	Size         int64  `json:"size"`
}

// OperationRecord represents a single low-level operation: a mnemonic, up to
// three input operands, and an optional output operand.
//
// Input and output slots are pointers so that an absent slot serializes as
// absent (omitted field), not as a zero-valued operand. Operations have
// variable arity from 0 to 3 inputs; absence is a valid, common state.
type OperationRecord struct {
	Index    int64          `json:"index"`
	Mnemonic string         `json:"mnemonic"`
	Input0   *OperandRecord `json:"input0,omitempty"`
	Input1   *OperandRecord `json:"input1,omitempty"`
	Input2   *OperandRecord `json:"input2,omitempty"`
	Output   *OperandRecord `json:"output,omitempty"`
}

// InstructionRecord groups the pcode operations of one assembly instruction.
// Operation indices are dense from 0 in listing order.
type InstructionRecord struct {
	Address     string            `json:"address"`
	Mnemonic    string            `json:"mnemonic"`
	FallThrough string            `json:"fall_through,omitempty"`
	Operations  []OperationRecord `json:"operations"`
}

// BlockRecord is one basic block of a function.
type BlockRecord struct {
	Address      string              `json:"address"`
	Instructions []InstructionRecord `json:"instructions"`
}

// FunctionRecord is one function of the exported program.
type FunctionRecord struct {
	Name    string        `json:"name"`
	Address string        `json:"address"`
	Blocks  []BlockRecord `json:"blocks"`
}

// RegisterProperties describes one register of the target architecture:
// its name, the base register it aliases, its byte offset within that base,
// and its size in bytes.
type RegisterProperties struct {
	Register     string `json:"register"`
	BaseRegister string `json:"base_register"`
	Offset       uint64 `json:"offset"`
	Size         int64  `json:"size"`
}

// DatatypeProperties carries the target's primitive type sizes in bytes.
type DatatypeProperties struct {
	CharSize     int64 `json:"char_size"`
	ShortSize    int64 `json:"short_size"`
	IntegerSize  int64 `json:"integer_size"`
	LongSize     int64 `json:"long_size"`
	LongLongSize int64 `json:"long_long_size"`
	PointerSize  int64 `json:"pointer_size"`
}

// ProgramRecord is the complete export of one program listing.
//
// BatchID identifies the export run that produced the record, not the record
// content; it is excluded from the content digest (see ProgramDigest).
type ProgramRecord struct {
	Format             string               `json:"format"`
	BatchID            string               `json:"batch_id,omitempty"`
	Program            string               `json:"program"`
	CPUArchitecture    string               `json:"cpu_architecture"`
	DatatypeProperties DatatypeProperties   `json:"datatype_properties"`
	Registers          []RegisterProperties `json:"registers"`
	Functions          []FunctionRecord     `json:"functions"`
}

// OperationCount returns the total number of pcode operations in the program.
func (p *ProgramRecord) OperationCount() int {
	count := 0
	for _, fn := range p.Functions {
		for _, blk := range fn.Blocks {
			for _, insn := range blk.Instructions {
				count += len(insn.Operations)
			}
		}
	}
	return count
}
