// Package export walks a raw listing dump and builds the serializable
// program record, collecting per-operation errors along the way.
package export

import (
	"github.com/Hooo1941/cwe-checker/internal/ghidra"
	"github.com/Hooo1941/cwe-checker/internal/pcode"
)

// Mode controls how errors are handled during an export pass.
type Mode int

const (
	// FailFast stops on the first operation that fails to resolve.
	FailFast Mode = iota
	// CollectAll records every failure and keeps going, returning the
	// partial program alongside the errors.
	CollectAll
)

// Exporter runs export passes over raw dumps.
type Exporter struct {
	Mode   Mode
	Tokens TokenGenerator
}

// New returns an Exporter with the default configuration:
// collect-all error handling and UUIDv7 batch IDs.
func New() *Exporter {
	return &Exporter{Mode: CollectAll, Tokens: UUIDv7Generator{}}
}

// Export builds the program record for a raw dump.
//
// Operation indices are assigned per instruction, starting at 0 in listing
// order; the index is the operation's position among its instruction's
// pcode entries, including entries that later fail to resolve (so a gap in
// the output indices marks a dropped entry).
//
// In FailFast mode the first failure aborts the pass and the program is nil.
// In CollectAll mode the partial program is returned together with every
// failure; callers decide whether a partial export is acceptable.
func (e *Exporter) Export(dump *ghidra.Dump) (*pcode.ProgramRecord, []error) {
	naming := ghidra.NewRegisterMap(dump.Registers)
	types := ghidra.NewProps(dump.DatatypeProperties)

	prog := &pcode.ProgramRecord{
		Format:             pcode.FormatVersion,
		BatchID:            e.Tokens.Generate(),
		Program:            dump.Program,
		CPUArchitecture:    dump.CPUArchitecture,
		DatatypeProperties: dump.DatatypeProperties,
		Registers:          dump.Registers,
		Functions:          make([]pcode.FunctionRecord, 0, len(dump.Functions)),
	}

	var errs []error
	for _, fn := range dump.Functions {
		fnRec := pcode.FunctionRecord{
			Name:    fn.Name,
			Address: fn.Address,
			Blocks:  make([]pcode.BlockRecord, 0, len(fn.Blocks)),
		}

		for _, blk := range fn.Blocks {
			blkRec := pcode.BlockRecord{
				Address:      blk.Address,
				Instructions: make([]pcode.InstructionRecord, 0, len(blk.Instructions)),
			}

			for _, insn := range blk.Instructions {
				insnRec := pcode.InstructionRecord{
					Address:     insn.Address,
					Mnemonic:    insn.Mnemonic,
					FallThrough: insn.FallThrough,
					Operations:  make([]pcode.OperationRecord, 0, len(insn.Pcode)),
				}

				for i := range insn.Pcode {
					rec, err := pcode.BuildOperation(int64(i), ghidra.Operation(&insn.Pcode[i]), naming, types)
					if err != nil {
						opErr := &Error{
							Function:    fn.Name,
							Block:       blk.Address,
							Instruction: insn.Address,
							Index:       i,
							Err:         err,
						}
						if e.Mode == FailFast {
							return nil, []error{opErr}
						}
						errs = append(errs, opErr)
						continue
					}
					insnRec.Operations = append(insnRec.Operations, *rec)
				}

				blkRec.Instructions = append(blkRec.Instructions, insnRec)
			}

			fnRec.Blocks = append(fnRec.Blocks, blkRec)
		}

		prog.Functions = append(prog.Functions, fnRec)
	}

	return prog, errs
}
