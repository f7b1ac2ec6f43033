package pcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProgram() *ProgramRecord {
	return &ProgramRecord{
		Format:          FormatVersion,
		Program:         "example.bin",
		CPUArchitecture: "x86_64",
		DatatypeProperties: DatatypeProperties{
			CharSize: 1, ShortSize: 2, IntegerSize: 4,
			LongSize: 8, LongLongSize: 8, PointerSize: 8,
		},
		Registers: []RegisterProperties{
			{Register: "RAX", BaseRegister: "RAX", Offset: 0, Size: 8},
		},
		Functions: []FunctionRecord{
			{
				Name:    "main",
				Address: "0x1000",
				Blocks: []BlockRecord{
					{
						Address: "0x1000",
						Instructions: []InstructionRecord{
							{
								Address:     "0x1000",
								Mnemonic:    "MOV RAX,0x2a",
								FallThrough: "0x1004",
								Operations: []OperationRecord{
									{
										Index:    0,
										Mnemonic: "COPY",
										Input0:   &OperandRecord{AddressSpace: "const", ID: "0x2a", Size: 8},
										Output:   &OperandRecord{AddressSpace: "register", ID: "RAX", Size: 8},
									},
								},
							},
						},
					},
				},
			},
		},
	}
}

func TestProgramDigestDeterminism(t *testing.T) {
	d1, err := ProgramDigest(sampleProgram())
	require.NoError(t, err)
	d2, err := ProgramDigest(sampleProgram())
	require.NoError(t, err)

	assert.Equal(t, d1, d2, "digest must be deterministic")
	assert.Len(t, d1, 64, "SHA-256 hex is 64 characters")
}

func TestProgramDigestExcludesBatchID(t *testing.T) {
	p1 := sampleProgram()
	p1.BatchID = "batch-1"
	p2 := sampleProgram()
	p2.BatchID = "batch-2"

	assert.Equal(t, MustProgramDigest(p1), MustProgramDigest(p2),
		"re-exports of the same listing share a digest regardless of batch")
}

func TestProgramDigestChangesWithContent(t *testing.T) {
	base := MustProgramDigest(sampleProgram())

	renamed := sampleProgram()
	renamed.Program = "other.bin"
	assert.NotEqual(t, base, MustProgramDigest(renamed))

	mutated := sampleProgram()
	mutated.Functions[0].Blocks[0].Instructions[0].Operations[0].Mnemonic = "INT_ADD"
	assert.NotEqual(t, base, MustProgramDigest(mutated))
}

func TestOperationDigest(t *testing.T) {
	op := &OperationRecord{
		Index:    0,
		Mnemonic: "COPY",
		Input0:   &OperandRecord{AddressSpace: "const", ID: "0x2a", Size: 8},
	}

	d1, err := OperationDigest("0x1000", op)
	require.NoError(t, err)
	d2, err := OperationDigest("0x1000", op)
	require.NoError(t, err)
	assert.Equal(t, d1, d2)

	// Same operation at a different address gets a different identity.
	d3, err := OperationDigest("0x2000", op)
	require.NoError(t, err)
	assert.NotEqual(t, d1, d3)
}

func TestDigestDomainSeparation(t *testing.T) {
	// Identical canonical payloads under different domains must not collide.
	data := []byte(`{"a":1}`)
	assert.NotEqual(t,
		hashWithDomain(DomainProgram, data),
		hashWithDomain(DomainOperation, data))
}
