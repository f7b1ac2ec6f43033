package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Hooo1941/cwe-checker/internal/ghidra"
)

func TestLoadFixture(t *testing.T) {
	dump := MustLoad(t, "testdata/simple_copy.yaml")

	assert.Equal(t, ghidra.SupportedFormat, dump.Format)
	assert.Equal(t, "example.bin", dump.Program)
	assert.Equal(t, "x86_64", dump.CPUArchitecture)
	assert.Equal(t, int64(8), dump.DatatypeProperties.PointerSize,
		"omitted datatype properties default to a 64-bit target")
	require.Len(t, dump.Registers, 2)
	require.Len(t, dump.Functions, 1)

	blk := dump.Functions[0].Blocks[0]
	require.Len(t, blk.Instructions, 2)

	copyOp := blk.Instructions[0].Pcode[0]
	assert.Equal(t, "COPY", copyOp.Mnemonic)
	require.Len(t, copyOp.Inputs, 1)
	assert.Equal(t, uint64(42), copyOp.Inputs[0].Offset)
	require.NotNil(t, copyOp.Output)

	retOp := blk.Instructions[1].Pcode[0]
	assert.Nil(t, retOp.Output, "omitted output stays absent")
}

func TestLoadFixtureNullSlot(t *testing.T) {
	var f Fixture
	fixtureYAML := `
program: sparse.bin
functions:
  - name: f
    address: "0x0"
    blocks:
      - address: "0x0"
        instructions:
          - address: "0x0"
            mnemonic: weird
            pcode:
              - mnemonic: CALLOTHER
                inputs:
                  - { space: const, offset: 1, size: 4 }
                  - null
                  - { space: const, offset: 2, size: 4 }
`
	require.NoError(t, yaml.Unmarshal([]byte(fixtureYAML), &f))

	dump := f.Dump()
	op := dump.Functions[0].Blocks[0].Instructions[0].Pcode[0]
	require.Len(t, op.Inputs, 3)
	assert.NotNil(t, op.Inputs[0])
	assert.Nil(t, op.Inputs[1], "YAML null converts to an absent slot")
	assert.NotNil(t, op.Inputs[2])
}

func TestLoadFixtureMissingFile(t *testing.T) {
	_, err := Load("testdata/does_not_exist.yaml")
	assert.Error(t, err)
}
