package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Hooo1941/cwe-checker/internal/pcode"
)

// marshalOperand serializes an operand slot for storage. An absent slot
// stores as SQL NULL, keeping "absent" distinct from any JSON value.
func marshalOperand(op *pcode.OperandRecord) (sql.NullString, error) {
	if op == nil {
		return sql.NullString{}, nil
	}

	data, err := pcode.MarshalCanonical(map[string]any{
		"address_space": op.AddressSpace,
		"id":            op.ID,
		"size":          op.Size,
	})
	if err != nil {
		return sql.NullString{}, fmt.Errorf("marshal operand: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// unmarshalOperand restores an operand slot from storage; NULL restores to
// an absent (nil) slot.
func unmarshalOperand(col sql.NullString) (*pcode.OperandRecord, error) {
	if !col.Valid {
		return nil, nil
	}

	var op pcode.OperandRecord
	if err := json.Unmarshal([]byte(col.String), &op); err != nil {
		return nil, fmt.Errorf("unmarshal operand: %w", err)
	}
	return &op, nil
}
