package ghidra

import "github.com/Hooo1941/cwe-checker/internal/pcode"

// Props implements pcode.TypePropertyLookup over the datatype properties
// carried in a raw dump. Safe for concurrent read-only use.
type Props struct {
	p pcode.DatatypeProperties
}

// NewProps builds the type-property lookup from a dump's datatype section.
func NewProps(p pcode.DatatypeProperties) Props {
	return Props{p: p}
}

func (p Props) PointerSize() int64 { return p.p.PointerSize }
func (p Props) IntegerSize() int64 { return p.p.IntegerSize }
