package pcode

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOperand is a minimal RawOperand for builder tests.
type fakeOperand struct {
	space  string
	offset uint64
	size   int64
}

func (f fakeOperand) Space() string  { return f.space }
func (f fakeOperand) Offset() uint64 { return f.offset }
func (f fakeOperand) Size() int64    { return f.size }

// fakeOperation is a minimal RawOperation with up to three inputs.
type fakeOperation struct {
	mnemonic string
	inputs   [3]*fakeOperand
	output   *fakeOperand
}

func (f fakeOperation) Mnemonic() string { return f.mnemonic }

func (f fakeOperation) Input(slot int) RawOperand {
	if slot < 0 || slot >= len(f.inputs) || f.inputs[slot] == nil {
		return nil
	}
	return *f.inputs[slot]
}

func (f fakeOperation) Output() RawOperand {
	if f.output == nil {
		return nil
	}
	return *f.output
}

// fakeNaming resolves every operand to "space:offset", or fails with err.
type fakeNaming struct {
	err error
}

func (n fakeNaming) ResolveName(v RawOperand) (string, error) {
	if n.err != nil {
		return "", n.err
	}
	return fmt.Sprintf("%s:%#x", v.Space(), v.Offset()), nil
}

// fakeTypes reports a 64-bit target.
type fakeTypes struct{}

func (fakeTypes) PointerSize() int64 { return 8 }
func (fakeTypes) IntegerSize() int64 { return 4 }

func operandAt(offset uint64) *fakeOperand {
	return &fakeOperand{space: "register", offset: offset, size: 8}
}

func TestBuildOperationArity(t *testing.T) {
	tests := []struct {
		name       string
		inputs     [3]*fakeOperand
		output     *fakeOperand
		wantInputs int
		wantOutput bool
	}{
		{"no operands", [3]*fakeOperand{}, nil, 0, false},
		{"one input", [3]*fakeOperand{operandAt(0)}, nil, 1, false},
		{"two inputs", [3]*fakeOperand{operandAt(0), operandAt(8)}, nil, 2, false},
		{"three inputs no output", [3]*fakeOperand{operandAt(0), operandAt(8), operandAt(16)}, nil, 3, false},
		{"output only", [3]*fakeOperand{}, operandAt(24), 0, true},
		{"full operation", [3]*fakeOperand{operandAt(0), operandAt(8), operandAt(16)}, operandAt(24), 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := fakeOperation{mnemonic: "INT_ADD", inputs: tt.inputs, output: tt.output}

			rec, err := BuildOperation(0, op, fakeNaming{}, fakeTypes{})
			require.NoError(t, err)

			slots := []*OperandRecord{rec.Input0, rec.Input1, rec.Input2}
			for i, slot := range slots {
				if i < tt.wantInputs {
					assert.NotNil(t, slot, "input%d should be present", i)
				} else {
					assert.Nil(t, slot, "input%d should be absent", i)
				}
			}
			if tt.wantOutput {
				assert.NotNil(t, rec.Output)
			} else {
				assert.Nil(t, rec.Output)
			}
		})
	}
}

func TestBuildOperationMatchesSlotOrder(t *testing.T) {
	op := fakeOperation{
		mnemonic: "INT_ADD",
		inputs:   [3]*fakeOperand{operandAt(0), operandAt(8), operandAt(16)},
	}

	rec, err := BuildOperation(0, op, fakeNaming{}, fakeTypes{})
	require.NoError(t, err)

	assert.Equal(t, "register:0x0", rec.Input0.ID)
	assert.Equal(t, "register:0x8", rec.Input1.ID)
	assert.Equal(t, "register:0x10", rec.Input2.ID)
}

func TestBuildOperationSparseSlots(t *testing.T) {
	// Slots are checked independently - a present input1 does not require
	// a present input0.
	op := fakeOperation{
		mnemonic: "STORE",
		inputs:   [3]*fakeOperand{nil, operandAt(8), nil},
	}

	rec, err := BuildOperation(3, op, fakeNaming{}, fakeTypes{})
	require.NoError(t, err)

	assert.Nil(t, rec.Input0)
	assert.NotNil(t, rec.Input1)
	assert.Nil(t, rec.Input2)
}

func TestBuildOperationCopiesVerbatim(t *testing.T) {
	op := fakeOperation{
		mnemonic: "COPY",
		inputs:   [3]*fakeOperand{{space: "const", offset: 42, size: 8}},
		output:   operandAt(0),
	}

	rec, err := BuildOperation(7, op, fakeNaming{}, fakeTypes{})
	require.NoError(t, err)

	assert.Equal(t, int64(7), rec.Index, "index is copied, not validated")
	assert.Equal(t, "COPY", rec.Mnemonic, "mnemonic is copied byte-for-byte")
	assert.NotNil(t, rec.Input0)
	assert.Nil(t, rec.Input1)
	assert.Nil(t, rec.Input2)
	assert.NotNil(t, rec.Output)
}

func TestBuildOperationIdempotent(t *testing.T) {
	op := fakeOperation{
		mnemonic: "LOAD",
		inputs:   [3]*fakeOperand{{space: "const", offset: 1, size: 4}, operandAt(8)},
		output:   operandAt(0),
	}

	rec1, err := BuildOperation(2, op, fakeNaming{}, fakeTypes{})
	require.NoError(t, err)
	rec2, err := BuildOperation(2, op, fakeNaming{}, fakeTypes{})
	require.NoError(t, err)

	assert.Equal(t, rec1, rec2, "same inputs must yield structurally equal records")
}

func TestBuildOperationPropagatesResolutionError(t *testing.T) {
	sentinel := errors.New("unknown register location")
	op := fakeOperation{
		mnemonic: "COPY",
		inputs:   [3]*fakeOperand{operandAt(0)},
	}

	rec, err := BuildOperation(0, op, fakeNaming{err: sentinel}, fakeTypes{})
	assert.Nil(t, rec)
	assert.ErrorIs(t, err, sentinel, "resolution errors pass through unwrapped")
	assert.Equal(t, sentinel, err, "error is returned unchanged, not wrapped")
}

func TestResolveOperandDefaultSize(t *testing.T) {
	tests := []struct {
		name     string
		operand  fakeOperand
		wantSize int64
	}{
		{"explicit size kept", fakeOperand{space: "register", offset: 0, size: 2}, 2},
		{"unsized ram defaults to pointer size", fakeOperand{space: "ram", offset: 0x4000}, 8},
		{"unsized stack defaults to pointer size", fakeOperand{space: "stack", offset: 16}, 8},
		{"unsized const defaults to integer size", fakeOperand{space: "const", offset: 1}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := ResolveOperand(tt.operand, fakeNaming{}, fakeTypes{})
			require.NoError(t, err)
			assert.Equal(t, tt.wantSize, rec.Size)
			assert.Equal(t, tt.operand.space, rec.AddressSpace)
		})
	}
}
