// Package testutil provides YAML fixture programs for tests. A fixture is a
// concise, hand-written raw listing that converts to the same ghidra.Dump a
// real engine dump parses to, so tests exercise the exact production path.
package testutil

import (
	"fmt"
	"os"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/Hooo1941/cwe-checker/internal/ghidra"
	"github.com/Hooo1941/cwe-checker/internal/pcode"
)

// Fixture is the YAML shape of a test program. Omitted datatype properties
// default to a 64-bit target so fixtures stay short.
type Fixture struct {
	Program            string         `yaml:"program"`
	CPUArchitecture    string         `yaml:"cpu_architecture"`
	DatatypeProperties *DatatypeProps `yaml:"datatype_properties,omitempty"`
	Registers          []Register     `yaml:"registers"`
	Functions          []Function     `yaml:"functions"`
}

// DatatypeProps mirrors pcode.DatatypeProperties in YAML.
type DatatypeProps struct {
	CharSize     int64 `yaml:"char_size"`
	ShortSize    int64 `yaml:"short_size"`
	IntegerSize  int64 `yaml:"integer_size"`
	LongSize     int64 `yaml:"long_size"`
	LongLongSize int64 `yaml:"long_long_size"`
	PointerSize  int64 `yaml:"pointer_size"`
}

// Register mirrors pcode.RegisterProperties in YAML.
type Register struct {
	Register     string `yaml:"register"`
	BaseRegister string `yaml:"base_register"`
	Offset       uint64 `yaml:"offset"`
	Size         int64  `yaml:"size"`
}

// Function is one fixture function.
type Function struct {
	Name    string  `yaml:"name"`
	Address string  `yaml:"address"`
	Blocks  []Block `yaml:"blocks"`
}

// Block is one fixture basic block.
type Block struct {
	Address      string        `yaml:"address"`
	Instructions []Instruction `yaml:"instructions"`
}

// Instruction is one fixture instruction with its pcode entries.
type Instruction struct {
	Address     string  `yaml:"address"`
	Mnemonic    string  `yaml:"mnemonic"`
	FallThrough string  `yaml:"fall_through,omitempty"`
	Pcode       []Pcode `yaml:"pcode"`
}

// Pcode is one fixture pcode entry. A YAML null in the inputs list or the
// output field marks an absent slot, same as the engine's JSON dump.
type Pcode struct {
	Mnemonic string     `yaml:"mnemonic"`
	Inputs   []*Varnode `yaml:"inputs"`
	Output   *Varnode   `yaml:"output,omitempty"`
}

// Varnode is one fixture storage location.
type Varnode struct {
	Space  string `yaml:"space"`
	Offset uint64 `yaml:"offset"`
	Size   int64  `yaml:"size"`
}

// Load reads a fixture file and converts it to a raw dump.
func Load(path string) (*ghidra.Dump, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}

	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing fixture %s: %w", path, err)
	}

	return f.Dump(), nil
}

// MustLoad is Load for tests; failures abort the test.
func MustLoad(t *testing.T, path string) *ghidra.Dump {
	t.Helper()

	dump, err := Load(path)
	if err != nil {
		t.Fatalf("loading fixture: %v", err)
	}
	return dump
}

// Dump converts the fixture to the raw dump the exporter consumes.
func (f *Fixture) Dump() *ghidra.Dump {
	props := pcode.DatatypeProperties{
		CharSize: 1, ShortSize: 2, IntegerSize: 4,
		LongSize: 8, LongLongSize: 8, PointerSize: 8,
	}
	if f.DatatypeProperties != nil {
		d := f.DatatypeProperties
		props = pcode.DatatypeProperties{
			CharSize:     d.CharSize,
			ShortSize:    d.ShortSize,
			IntegerSize:  d.IntegerSize,
			LongSize:     d.LongSize,
			LongLongSize: d.LongLongSize,
			PointerSize:  d.PointerSize,
		}
	}

	dump := &ghidra.Dump{
		Format:             ghidra.SupportedFormat,
		Program:            f.Program,
		CPUArchitecture:    f.CPUArchitecture,
		DatatypeProperties: props,
	}

	for _, r := range f.Registers {
		dump.Registers = append(dump.Registers, pcode.RegisterProperties{
			Register:     r.Register,
			BaseRegister: r.BaseRegister,
			Offset:       r.Offset,
			Size:         r.Size,
		})
	}

	for _, fn := range f.Functions {
		rawFn := ghidra.RawFunction{Name: fn.Name, Address: fn.Address}
		for _, blk := range fn.Blocks {
			rawBlk := ghidra.RawBlock{Address: blk.Address}
			for _, insn := range blk.Instructions {
				rawInsn := ghidra.RawInstruction{
					Address:     insn.Address,
					Mnemonic:    insn.Mnemonic,
					FallThrough: insn.FallThrough,
				}
				for _, op := range insn.Pcode {
					rawOp := ghidra.RawPcode{Mnemonic: op.Mnemonic}
					for _, in := range op.Inputs {
						rawOp.Inputs = append(rawOp.Inputs, convertVarnode(in))
					}
					rawOp.Output = convertVarnode(op.Output)
					rawInsn.Pcode = append(rawInsn.Pcode, rawOp)
				}
				rawBlk.Instructions = append(rawBlk.Instructions, rawInsn)
			}
			rawFn.Blocks = append(rawFn.Blocks, rawBlk)
		}
		dump.Functions = append(dump.Functions, rawFn)
	}

	return dump
}

func convertVarnode(v *Varnode) *ghidra.RawVarnode {
	if v == nil {
		return nil
	}
	return &ghidra.RawVarnode{Space: v.Space, Offset: v.Offset, Size: v.Size}
}
