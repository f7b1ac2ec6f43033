// Package ghidra adapts raw listing dumps produced by the external
// disassembly engine to the capability interfaces consumed by the record
// builder in internal/pcode.
//
// The dump is the engine-shaped side of the boundary: it mirrors how the
// engine models varnodes and pcode entries, nullable slots included. Nothing
// outside this package should touch these raw types.
package ghidra

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Hooo1941/cwe-checker/internal/pcode"
)

// MaxInputSlots is the number of input slots a raw pcode entry may carry.
const MaxInputSlots = 3

// SupportedFormat is the raw dump format version this adapter understands.
const SupportedFormat = "1"

// Dump is a parsed raw listing dump.
type Dump struct {
	Format             string                     `json:"format"`
	Program            string                     `json:"program"`
	CPUArchitecture    string                     `json:"cpu_architecture"`
	DatatypeProperties pcode.DatatypeProperties   `json:"datatype_properties"`
	Registers          []pcode.RegisterProperties `json:"registers"`
	Functions          []RawFunction              `json:"functions"`
}

// RawFunction is one function of the raw listing.
type RawFunction struct {
	Name    string     `json:"name"`
	Address string     `json:"address"`
	Blocks  []RawBlock `json:"blocks"`
}

// RawBlock is one basic block of the raw listing.
type RawBlock struct {
	Address      string           `json:"address"`
	Instructions []RawInstruction `json:"instructions"`
}

// RawInstruction is one assembly instruction with its pcode entries.
type RawInstruction struct {
	Address     string     `json:"address"`
	Mnemonic    string     `json:"mnemonic"`
	FallThrough string     `json:"fall_through,omitempty"`
	Pcode       []RawPcode `json:"pcode"`
}

// RawPcode is one pcode entry as the engine dumps it. Input slots and the
// output slot are nullable; null means the slot is absent.
type RawPcode struct {
	Mnemonic string        `json:"mnemonic"`
	Inputs   []*RawVarnode `json:"inputs"`
	Output   *RawVarnode   `json:"output"`
}

// RawVarnode is one storage location as the engine dumps it.
type RawVarnode struct {
	Space  string `json:"space"`
	Offset uint64 `json:"offset"`
	Size   int64  `json:"size"`
}

// ParseDump decodes and sanity-checks a raw listing dump.
//
// The format version is checked up front so a dump from an incompatible
// engine script is rejected before any per-operation work. Pcode entries
// with more than three input slots violate the engine contract and are
// rejected here rather than silently truncated.
func ParseDump(data []byte) (*Dump, error) {
	var dump Dump
	if err := json.Unmarshal(data, &dump); err != nil {
		if off, ok := decodeErrorOffset(err); ok {
			return nil, fmt.Errorf("decoding raw dump at byte %d: %w", off, err)
		}
		return nil, fmt.Errorf("decoding raw dump: %w", err)
	}

	if dump.Format != SupportedFormat {
		return nil, fmt.Errorf("unsupported dump format %q (expected %q)", dump.Format, SupportedFormat)
	}
	if dump.Program == "" {
		return nil, fmt.Errorf("raw dump is missing the program name")
	}

	for _, fn := range dump.Functions {
		for _, blk := range fn.Blocks {
			for _, insn := range blk.Instructions {
				for i, op := range insn.Pcode {
					if len(op.Inputs) > MaxInputSlots {
						return nil, fmt.Errorf(
							"instruction %s pcode %d: %d input slots (engine contract allows at most %d)",
							insn.Address, i, len(op.Inputs), MaxInputSlots)
					}
				}
			}
		}
	}

	return &dump, nil
}

// decodeErrorOffset extracts the byte offset a JSON decode error points at.
func decodeErrorOffset(err error) (int64, bool) {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return syntaxErr.Offset, true
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return typeErr.Offset, true
	}
	return 0, false
}
