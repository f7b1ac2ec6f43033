package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Hooo1941/cwe-checker/internal/pcode"
)

// ProgramSummary is the stored metadata of one exported program.
type ProgramSummary struct {
	Digest          string `json:"digest"`
	Name            string `json:"name"`
	CPUArchitecture string `json:"cpu_architecture"`
	BatchID         string `json:"batch_id"`
	Format          string `json:"format"`
	FunctionCount   int    `json:"function_count"`
	OperationCount  int    `json:"operation_count"`
}

// MnemonicCount is one row of the mnemonic histogram.
type MnemonicCount struct {
	Mnemonic string `json:"mnemonic"`
	Count    int    `json:"count"`
}

// StoredOperation is one flattened operation row with its listing location
// and content digest.
type StoredOperation struct {
	Function           string                `json:"function"`
	BlockAddress       string                `json:"block_address"`
	InstructionAddress string                `json:"instruction_address"`
	Digest             string                `json:"digest"`
	Operation          pcode.OperationRecord `json:"operation"`
}

// ListPrograms returns all stored programs. Ordering is deterministic:
// name, then digest as the tiebreaker.
func (s *Store) ListPrograms(ctx context.Context) ([]ProgramSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT digest, name, cpu_architecture, batch_id, format, function_count, operation_count
		FROM programs
		ORDER BY name ASC, digest COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query programs: %w", err)
	}
	defer rows.Close()

	programs := []ProgramSummary{}
	for rows.Next() {
		var p ProgramSummary
		if err := rows.Scan(&p.Digest, &p.Name, &p.CPUArchitecture, &p.BatchID, &p.Format,
			&p.FunctionCount, &p.OperationCount); err != nil {
			return nil, fmt.Errorf("scan program: %w", err)
		}
		programs = append(programs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate programs: %w", err)
	}

	return programs, nil
}

// MnemonicStats returns the operation mnemonic histogram for a program,
// most frequent first, mnemonic as the tiebreaker.
func (s *Store) MnemonicStats(ctx context.Context, digest string) ([]MnemonicCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT mnemonic, COUNT(*) AS n
		FROM operations
		WHERE program_digest = ?
		GROUP BY mnemonic
		ORDER BY n DESC, mnemonic ASC
	`, digest)
	if err != nil {
		return nil, fmt.Errorf("query mnemonic stats: %w", err)
	}
	defer rows.Close()

	stats := []MnemonicCount{}
	for rows.Next() {
		var m MnemonicCount
		if err := rows.Scan(&m.Mnemonic, &m.Count); err != nil {
			return nil, fmt.Errorf("scan mnemonic stats: %w", err)
		}
		stats = append(stats, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mnemonic stats: %w", err)
	}

	return stats, nil
}

// OperationsByMnemonic returns a program's operations with the given
// mnemonic in listing order (function, instruction address, index). Values
// are always parameterized, never interpolated.
func (s *Store) OperationsByMnemonic(ctx context.Context, digest, mnemonic string) ([]StoredOperation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT function_name, block_address, instruction_address, op_index,
		       op_digest, mnemonic, input0, input1, input2, output
		FROM operations
		WHERE program_digest = ? AND mnemonic = ?
		ORDER BY function_name ASC, instruction_address ASC, op_index ASC
	`, digest, mnemonic)
	if err != nil {
		return nil, fmt.Errorf("query operations: %w", err)
	}
	defer rows.Close()

	return collectOperations(rows)
}

// OperationsByDigest returns every stored occurrence of an operation with
// the given content digest, across all programs. Ordering is deterministic:
// program digest, then listing order within the program.
func (s *Store) OperationsByDigest(ctx context.Context, opDigest string) ([]StoredOperation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT function_name, block_address, instruction_address, op_index,
		       op_digest, mnemonic, input0, input1, input2, output
		FROM operations
		WHERE op_digest = ?
		ORDER BY program_digest COLLATE BINARY ASC,
		         function_name ASC, instruction_address ASC, op_index ASC
	`, opDigest)
	if err != nil {
		return nil, fmt.Errorf("query operations: %w", err)
	}
	defer rows.Close()

	return collectOperations(rows)
}

func collectOperations(rows *sql.Rows) ([]StoredOperation, error) {
	ops := []StoredOperation{}
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate operations: %w", err)
	}

	return ops, nil
}

func scanOperation(rows *sql.Rows) (StoredOperation, error) {
	var (
		op                             StoredOperation
		input0, input1, input2, output sql.NullString
	)
	if err := rows.Scan(&op.Function, &op.BlockAddress, &op.InstructionAddress,
		&op.Operation.Index, &op.Digest, &op.Operation.Mnemonic,
		&input0, &input1, &input2, &output); err != nil {
		return StoredOperation{}, fmt.Errorf("scan operation: %w", err)
	}

	var err error
	if op.Operation.Input0, err = unmarshalOperand(input0); err != nil {
		return StoredOperation{}, err
	}
	if op.Operation.Input1, err = unmarshalOperand(input1); err != nil {
		return StoredOperation{}, err
	}
	if op.Operation.Input2, err = unmarshalOperand(input2); err != nil {
		return StoredOperation{}, err
	}
	if op.Operation.Output, err = unmarshalOperand(output); err != nil {
		return StoredOperation{}, err
	}

	return op, nil
}
