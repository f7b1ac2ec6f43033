package ghidra

import "github.com/Hooo1941/cwe-checker/internal/pcode"

// Operation adapts one raw pcode entry to the pcode.RawOperation capability
// interface. The adapter is a view over the entry; it copies nothing.
func Operation(op *RawPcode) pcode.RawOperation {
	return rawOperation{op: op}
}

type rawOperation struct {
	op *RawPcode
}

func (r rawOperation) Mnemonic() string {
	return r.op.Mnemonic
}

func (r rawOperation) Input(slot int) pcode.RawOperand {
	if slot < 0 || slot >= len(r.op.Inputs) {
		return nil
	}
	// Explicit nil check so callers never see a typed-nil interface value.
	if r.op.Inputs[slot] == nil {
		return nil
	}
	return varnode{v: r.op.Inputs[slot]}
}

func (r rawOperation) Output() pcode.RawOperand {
	if r.op.Output == nil {
		return nil
	}
	return varnode{v: r.op.Output}
}

type varnode struct {
	v *RawVarnode
}

func (n varnode) Space() string  { return n.v.Space }
func (n varnode) Offset() uint64 { return n.v.Offset }
func (n varnode) Size() int64    { return n.v.Size }
