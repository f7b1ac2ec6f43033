// Package pcode provides the serializable record types for low-level
// operation ("pcode") listings exported from an external disassembly engine.
//
// This package contains type definitions, the record builder, and canonical
// serialization only. All other internal packages import pcode; pcode imports
// nothing internal. This keeps the record layer foundational with no circular
// dependencies.
//
// Key design constraints:
//   - Absent operand slots are nil pointers, never zero-valued records.
//     Consumers must treat "absent" and "present-but-zero" as distinct.
//   - Records are immutable once built and hold no reference back to the
//     raw operation or resolution contexts.
//   - All JSON tags use snake_case.
//   - Canonical JSON (RFC 8785) is used only for content-addressed digests.
package pcode
