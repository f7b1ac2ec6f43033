package pcode

// BuildOperation builds the serializable record for one raw operation.
//
// index is the operation's caller-assigned position within its containing
// instruction; it is copied as-is, never validated or cross-checked against
// the raw operation. The mnemonic is copied byte-for-byte.
//
// Each input slot (0, 1, 2) and the output slot is checked for presence
// before resolution, so resolution is only attempted for slots that exist.
// Absent slots stay nil on the record.
//
// The naming context and type-property lookup are passed through to operand
// resolution unmodified. Resolution errors are returned unchanged - this
// layer neither catches nor wraps them. The returned record is a pure
// function of its inputs and holds no reference back to op, naming, or types.
func BuildOperation(index int64, op RawOperation, naming NamingContext, types TypePropertyLookup) (*OperationRecord, error) {
	rec := &OperationRecord{
		Index:    index,
		Mnemonic: op.Mnemonic(),
	}

	if in := op.Input(0); in != nil {
		resolved, err := ResolveOperand(in, naming, types)
		if err != nil {
			return nil, err
		}
		rec.Input0 = resolved
	}
	if in := op.Input(1); in != nil {
		resolved, err := ResolveOperand(in, naming, types)
		if err != nil {
			return nil, err
		}
		rec.Input1 = resolved
	}
	if in := op.Input(2); in != nil {
		resolved, err := ResolveOperand(in, naming, types)
		if err != nil {
			return nil, err
		}
		rec.Input2 = resolved
	}
	if out := op.Output(); out != nil {
		resolved, err := ResolveOperand(out, naming, types)
		if err != nil {
			return nil, err
		}
		rec.Output = resolved
	}

	return rec, nil
}

// ResolveOperand builds the operand descriptor for one raw storage location.
// The symbolic identity comes from the naming context; the size comes from
// the operand itself, falling back to the type-property lookup when the
// engine recorded no size.
func ResolveOperand(v RawOperand, naming NamingContext, types TypePropertyLookup) (*OperandRecord, error) {
	id, err := naming.ResolveName(v)
	if err != nil {
		return nil, err
	}

	size := v.Size()
	if size == 0 {
		size = defaultOperandSize(v.Space(), types)
	}

	return &OperandRecord{
		AddressSpace: v.Space(),
		ID:           id,
		Size:         size,
	}, nil
}

// defaultOperandSize picks a size for operands the engine left unsized.
// Address-like spaces default to the pointer size, everything else to the
// integer size.
func defaultOperandSize(space string, types TypePropertyLookup) int64 {
	switch space {
	case "ram", "stack":
		return types.PointerSize()
	default:
		return types.IntegerSize()
	}
}
