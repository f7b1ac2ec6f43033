package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Hooo1941/cwe-checker/internal/schema"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool                     `json:"valid"`
	Errors []schema.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <records.json>",
		Short: "Validate exported records against the schema",
		Long: `Validate an exported program record file against the record schema.

Checks structure, field types, operand address spaces, and operation slot
shapes. Does not re-resolve operands or recompute digests.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, recordsPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	data, err := os.ReadFile(recordsPath)
	if os.IsNotExist(err) {
		return outputCommandError(formatter, ErrCodeNotFound, fmt.Sprintf("records file not found: %s", recordsPath))
	}
	if err != nil {
		return outputCommandError(formatter, ErrCodeGeneric, fmt.Sprintf("reading records: %v", err))
	}

	violations := schema.Validate(recordsPath, data)
	if len(violations) > 0 {
		return outputValidationFailure(formatter, violations)
	}

	if formatter.Format == "json" {
		if err := formatter.Success(ValidationResult{Valid: true}); err != nil {
			return err
		}
		return nil
	}
	fmt.Fprintf(formatter.Writer, "✓ %s is valid\n", recordsPath)
	return nil
}

// outputValidationFailure reports schema violations (exit code 1).
func outputValidationFailure(formatter *OutputFormatter, violations []schema.ValidationError) error {
	if formatter.Format == "json" {
		_ = formatter.Error(ErrCodeSchemaViolation, fmt.Sprintf("%d violation(s)", len(violations)),
			ValidationResult{Valid: false, Errors: violations})
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d violation(s)", len(violations)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, v := range violations {
		fmt.Fprintf(formatter.Writer, "  %s: %s\n", ErrCodeSchemaViolation, v.Error())
	}
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d violation(s)", len(violations)))
}
