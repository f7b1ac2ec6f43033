package ghidra

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hooo1941/cwe-checker/internal/pcode"
)

func x86Registers() []pcode.RegisterProperties {
	return []pcode.RegisterProperties{
		{Register: "RAX", BaseRegister: "RAX", Offset: 0, Size: 8},
		{Register: "EAX", BaseRegister: "RAX", Offset: 0, Size: 4},
		{Register: "AX", BaseRegister: "RAX", Offset: 0, Size: 2},
		{Register: "RBX", BaseRegister: "RBX", Offset: 8, Size: 8},
	}
}

func TestResolveNameRegister(t *testing.T) {
	m := NewRegisterMap(x86Registers())

	tests := []struct {
		name    string
		operand RawVarnode
		want    string
	}{
		{"full register", RawVarnode{Space: "register", Offset: 0, Size: 8}, "RAX"},
		{"sub-register by size", RawVarnode{Space: "register", Offset: 0, Size: 4}, "EAX"},
		{"word register", RawVarnode{Space: "register", Offset: 0, Size: 2}, "AX"},
		{"second base", RawVarnode{Space: "register", Offset: 8, Size: 8}, "RBX"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.ResolveName(varnode{v: &tt.operand})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveNameUnknownRegister(t *testing.T) {
	m := NewRegisterMap(x86Registers())

	_, err := m.ResolveName(varnode{v: &RawVarnode{Space: "register", Offset: 0x999, Size: 8}})
	assert.ErrorIs(t, err, ErrUnknownRegister)
}

func TestResolveNameNonRegisterSpaces(t *testing.T) {
	m := NewRegisterMap(nil)

	tests := []struct {
		name    string
		operand RawVarnode
		want    string
	}{
		{"const", RawVarnode{Space: "const", Offset: 42, Size: 8}, "0x2a"},
		{"const zero", RawVarnode{Space: "const", Offset: 0, Size: 4}, "0x0"},
		{"ram", RawVarnode{Space: "ram", Offset: 0x401000, Size: 8}, "0x401000"},
		{"unique", RawVarnode{Space: "unique", Offset: 0xa80, Size: 8}, "$Ua80"},
		{"stack positive", RawVarnode{Space: "stack", Offset: 8, Size: 8}, "$S0x8"},
		{"stack negative", RawVarnode{Space: "stack", Offset: 0xfffffffffffffff0, Size: 8}, "$S-0x10"},
		{"stack most negative", RawVarnode{Space: "stack", Offset: 0x8000000000000000, Size: 8}, "$S-0x8000000000000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.ResolveName(varnode{v: &tt.operand})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveNameUnknownSpace(t *testing.T) {
	m := NewRegisterMap(nil)

	_, err := m.ResolveName(varnode{v: &RawVarnode{Space: "join", Offset: 0, Size: 8}})
	assert.ErrorIs(t, err, ErrUnknownSpace)
}
