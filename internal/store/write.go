package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Hooo1941/cwe-checker/internal/pcode"
)

// WriteProgram persists an exported program and its flattened operations.
//
// The program is keyed by its content digest (which excludes the batch ID),
// so importing the same export twice is idempotent: the second call reports
// inserted=false and writes nothing. The returned digest identifies the
// program either way.
//
// The insert runs in a single transaction; a failure while flattening
// operations leaves no partial program behind.
func (s *Store) WriteProgram(ctx context.Context, prog *pcode.ProgramRecord) (digest string, inserted bool, err error) {
	digest, err = pcode.ProgramDigest(prog)
	if err != nil {
		return "", false, fmt.Errorf("write program: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", false, fmt.Errorf("write program: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO programs
		(digest, name, cpu_architecture, batch_id, format, function_count, operation_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(digest) DO NOTHING
	`,
		digest,
		prog.Program,
		prog.CPUArchitecture,
		prog.BatchID,
		prog.Format,
		len(prog.Functions),
		prog.OperationCount(),
	)
	if err != nil {
		return "", false, fmt.Errorf("write program: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return "", false, fmt.Errorf("write program: %w", err)
	}
	if affected == 0 {
		// Same content already stored; nothing to do.
		return digest, false, nil
	}

	if err := insertOperations(ctx, tx, digest, prog); err != nil {
		return "", false, fmt.Errorf("write program: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", false, fmt.Errorf("write program: %w", err)
	}
	return digest, true, nil
}

func insertOperations(ctx context.Context, tx *sql.Tx, digest string, prog *pcode.ProgramRecord) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO operations
		(program_digest, function_name, block_address, instruction_address, op_index,
		 op_digest, mnemonic, input0, input1, input2, output)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare operations insert: %w", err)
	}
	defer stmt.Close()

	for _, fn := range prog.Functions {
		for _, blk := range fn.Blocks {
			for _, insn := range blk.Instructions {
				for i := range insn.Operations {
					op := &insn.Operations[i]

					opDigest, err := pcode.OperationDigest(insn.Address, op)
					if err != nil {
						return fmt.Errorf("digest operation %s/%s[%d]: %w", fn.Name, insn.Address, op.Index, err)
					}

					input0, err := marshalOperand(op.Input0)
					if err != nil {
						return err
					}
					input1, err := marshalOperand(op.Input1)
					if err != nil {
						return err
					}
					input2, err := marshalOperand(op.Input2)
					if err != nil {
						return err
					}
					output, err := marshalOperand(op.Output)
					if err != nil {
						return err
					}

					if _, err := stmt.ExecContext(ctx,
						digest, fn.Name, blk.Address, insn.Address, op.Index,
						opDigest, op.Mnemonic, input0, input1, input2, output,
					); err != nil {
						return fmt.Errorf("insert operation %s/%s[%d]: %w", fn.Name, insn.Address, op.Index, err)
					}
				}
			}
		}
	}

	return nil
}
