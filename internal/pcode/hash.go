package pcode

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity. The version suffix enables
// future algorithm migration.
const (
	DomainProgram   = "pcode/program/v1"
	DomainOperation = "pcode/operation/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null byte separator prevents
// domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ProgramDigest computes the content-addressed digest of an exported program.
//
// DESIGN DECISION: BatchID is intentionally EXCLUDED. The digest identifies
// "what was exported" (listing content), not "which run exported it", so
// re-exporting the same binary yields the same digest and the store can
// deduplicate across runs. BatchID is still stored on the record for audit.
func ProgramDigest(p *ProgramRecord) (string, error) {
	canonical, err := MarshalCanonical(p.canonicalMap())
	if err != nil {
		return "", fmt.Errorf("ProgramDigest: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainProgram, canonical), nil
}

// OperationDigest computes the content-addressed digest of one operation at
// a given instruction address. The address disambiguates identical operations
// appearing at different places in the listing.
func OperationDigest(instructionAddress string, op *OperationRecord) (string, error) {
	m := op.canonicalMap()
	m["instruction_address"] = instructionAddress

	canonical, err := MarshalCanonical(m)
	if err != nil {
		return "", fmt.Errorf("OperationDigest: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainOperation, canonical), nil
}

// MustProgramDigest is like ProgramDigest but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustProgramDigest(p *ProgramRecord) string {
	digest, err := ProgramDigest(p)
	if err != nil {
		panic(err)
	}
	return digest
}

// canonicalMap converters: absent slots are omitted entirely (never null),
// matching the JSON wire shape of the records.

func (v *OperandRecord) canonicalMap() map[string]any {
	return map[string]any{
		"address_space": v.AddressSpace,
		"id":            v.ID,
		"size":          v.Size,
	}
}

func (op *OperationRecord) canonicalMap() map[string]any {
	m := map[string]any{
		"index":    op.Index,
		"mnemonic": op.Mnemonic,
	}
	if op.Input0 != nil {
		m["input0"] = op.Input0.canonicalMap()
	}
	if op.Input1 != nil {
		m["input1"] = op.Input1.canonicalMap()
	}
	if op.Input2 != nil {
		m["input2"] = op.Input2.canonicalMap()
	}
	if op.Output != nil {
		m["output"] = op.Output.canonicalMap()
	}
	return m
}

func (insn *InstructionRecord) canonicalMap() map[string]any {
	ops := make([]any, len(insn.Operations))
	for i := range insn.Operations {
		ops[i] = insn.Operations[i].canonicalMap()
	}
	m := map[string]any{
		"address":    insn.Address,
		"mnemonic":   insn.Mnemonic,
		"operations": ops,
	}
	if insn.FallThrough != "" {
		m["fall_through"] = insn.FallThrough
	}
	return m
}

func (blk *BlockRecord) canonicalMap() map[string]any {
	insns := make([]any, len(blk.Instructions))
	for i := range blk.Instructions {
		insns[i] = blk.Instructions[i].canonicalMap()
	}
	return map[string]any{
		"address":      blk.Address,
		"instructions": insns,
	}
}

func (fn *FunctionRecord) canonicalMap() map[string]any {
	blocks := make([]any, len(fn.Blocks))
	for i := range fn.Blocks {
		blocks[i] = fn.Blocks[i].canonicalMap()
	}
	return map[string]any{
		"name":    fn.Name,
		"address": fn.Address,
		"blocks":  blocks,
	}
}

func (p *ProgramRecord) canonicalMap() map[string]any {
	regs := make([]any, len(p.Registers))
	for i, r := range p.Registers {
		regs[i] = map[string]any{
			"register":      r.Register,
			"base_register": r.BaseRegister,
			"offset":        r.Offset,
			"size":          r.Size,
		}
	}
	fns := make([]any, len(p.Functions))
	for i := range p.Functions {
		fns[i] = p.Functions[i].canonicalMap()
	}
	d := p.DatatypeProperties
	return map[string]any{
		"format":           p.Format,
		"program":          p.Program,
		"cpu_architecture": p.CPUArchitecture,
		"datatype_properties": map[string]any{
			"char_size":      d.CharSize,
			"short_size":     d.ShortSize,
			"integer_size":   d.IntegerSize,
			"long_size":      d.LongSize,
			"long_long_size": d.LongLongSize,
			"pointer_size":   d.PointerSize,
		},
		"registers": regs,
		"functions": fns,
	}
}
