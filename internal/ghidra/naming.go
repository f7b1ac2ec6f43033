package ghidra

import (
	"errors"
	"fmt"

	"github.com/Hooo1941/cwe-checker/internal/pcode"
)

// Address space names used by the engine.
const (
	SpaceRegister = "register"
	SpaceConst    = "const"
	SpaceRAM      = "ram"
	SpaceUnique   = "unique"
	SpaceStack    = "stack"
)

// ErrUnknownRegister reports a register-space location with no entry in the
// dump's register table.
var ErrUnknownRegister = errors.New("unknown register location")

// ErrUnknownSpace reports an address space this adapter does not understand.
var ErrUnknownSpace = errors.New("unknown address space")

// RegisterMap implements pcode.NamingContext over the register table carried
// in a raw dump. Register locations resolve to register names; the remaining
// spaces render to stable textual identities:
//
//	const   0x2a        the constant value
//	ram     0x1000      the absolute address
//	unique  $Ua80       engine-internal temporary
//	stack   $S0x8 $S-0x10  signed frame offset
//
// A RegisterMap is immutable after construction and safe for concurrent
// read-only use.
type RegisterMap struct {
	byLocation map[registerKey]string
}

type registerKey struct {
	offset uint64
	size   int64
}

// NewRegisterMap builds the naming context from a dump's register table.
func NewRegisterMap(regs []pcode.RegisterProperties) *RegisterMap {
	byLocation := make(map[registerKey]string, len(regs))
	for _, r := range regs {
		byLocation[registerKey{offset: r.Offset, size: r.Size}] = r.Register
	}
	return &RegisterMap{byLocation: byLocation}
}

// ResolveName resolves a raw storage location to its symbolic identity.
func (m *RegisterMap) ResolveName(v pcode.RawOperand) (string, error) {
	switch v.Space() {
	case SpaceRegister:
		name, ok := m.byLocation[registerKey{offset: v.Offset(), size: v.Size()}]
		if !ok {
			return "", fmt.Errorf("%w: offset %#x size %d", ErrUnknownRegister, v.Offset(), v.Size())
		}
		return name, nil
	case SpaceConst:
		return fmt.Sprintf("0x%x", v.Offset()), nil
	case SpaceRAM:
		return fmt.Sprintf("0x%x", v.Offset()), nil
	case SpaceUnique:
		return fmt.Sprintf("$U%x", v.Offset()), nil
	case SpaceStack:
		return formatStackOffset(v.Offset()), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSpace, v.Space())
	}
}

// formatStackOffset renders a stack-space offset as a signed frame offset.
// The engine stores the offset as the two's complement bit pattern of a
// signed value. The magnitude is formatted as unsigned because negating
// the most negative int64 overflows.
func formatStackOffset(offset uint64) string {
	signed := int64(offset)
	if signed < 0 {
		return fmt.Sprintf("$S-0x%x", uint64(-signed))
	}
	return fmt.Sprintf("$S0x%x", signed)
}
