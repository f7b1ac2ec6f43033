package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Hooo1941/cwe-checker/internal/export"
	"github.com/Hooo1941/cwe-checker/internal/ghidra"
	"github.com/Hooo1941/cwe-checker/internal/pcode"
	"github.com/Hooo1941/cwe-checker/internal/store"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Output   string // output file path
	Database string // optional store path
	FailFast bool   // stop on the first resolution error
}

// ExportResult is the success payload of the export command.
type ExportResult struct {
	Digest         string `json:"digest"`
	Program        string `json:"program"`
	BatchID        string `json:"batch_id"`
	FunctionCount  int    `json:"function_count"`
	OperationCount int    `json:"operation_count"`
	OutputFile     string `json:"output_file,omitempty"`
	Stored         bool   `json:"stored,omitempty"`
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export <dump.json>",
		Short: "Normalize a raw listing dump into program records",
		Long: `Normalize a raw pcode listing dump into serializable program records.

The dump is parsed, every operation is resolved through the dump's register
table and datatype properties, and the resulting records are written as JSON
and optionally persisted to a store.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")
	cmd.Flags().StringVar(&opts.Database, "db", "", "store database path")
	cmd.Flags().BoolVar(&opts.FailFast, "fail-fast", false, "stop on the first resolution error")

	return cmd
}

func runExport(opts *ExportOptions, dumpPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	data, err := os.ReadFile(dumpPath)
	if os.IsNotExist(err) {
		return outputCommandError(formatter, ErrCodeNotFound, fmt.Sprintf("dump file not found: %s", dumpPath))
	}
	if err != nil {
		return outputCommandError(formatter, ErrCodeGeneric, fmt.Sprintf("reading dump: %v", err))
	}

	dump, err := ghidra.ParseDump(data)
	if err != nil {
		return outputCommandError(formatter, ErrCodeParseFailed, err.Error())
	}

	formatter.VerboseLog("Parsed %d function(s) from %s", len(dump.Functions), dumpPath)

	exporter := export.New()
	if opts.FailFast {
		exporter.Mode = export.FailFast
	}

	prog, errs := exporter.Export(dump)
	if len(errs) > 0 {
		return outputExportErrors(formatter, errs)
	}

	digest, err := pcode.ProgramDigest(prog)
	if err != nil {
		return outputCommandError(formatter, ErrCodeGeneric, fmt.Sprintf("computing digest: %v", err))
	}

	result := ExportResult{
		Digest:         digest,
		Program:        prog.Program,
		BatchID:        prog.BatchID,
		FunctionCount:  len(prog.Functions),
		OperationCount: prog.OperationCount(),
	}

	if opts.Output != "" {
		if err := writeRecordsToFile(prog, opts.Output); err != nil {
			return outputCommandError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err))
		}
		result.OutputFile = opts.Output
	}

	if opts.Database != "" {
		stored, err := storeProgram(cmd.Context(), opts.Database, prog)
		if err != nil {
			return outputCommandError(formatter, ErrCodeDatabase, err.Error())
		}
		result.Stored = stored
		if !stored {
			formatter.VerboseLog("Program %s already stored; skipped", digest)
		}
	}

	return outputExportSuccess(formatter, result)
}

// storeProgram persists the export, reporting whether a new row was written.
func storeProgram(ctx context.Context, path string, prog *pcode.ProgramRecord) (bool, error) {
	s, err := store.Open(path)
	if err != nil {
		return false, fmt.Errorf("opening store: %w", err)
	}
	defer s.Close()

	_, inserted, err := s.WriteProgram(ctx, prog)
	if err != nil {
		return false, fmt.Errorf("storing program: %w", err)
	}
	return inserted, nil
}

// outputExportSuccess outputs a successful export.
func outputExportSuccess(formatter *OutputFormatter, result ExportResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Exported %d function(s), %d operation(s)\n",
		result.FunctionCount, result.OperationCount)
	fmt.Fprintf(formatter.Writer, "  program: %s\n", result.Program)
	fmt.Fprintf(formatter.Writer, "  digest:  %s\n", result.Digest)
	fmt.Fprintf(formatter.Writer, "  batch:   %s\n", result.BatchID)
	if result.OutputFile != "" {
		fmt.Fprintf(formatter.Writer, "Wrote records to %s\n", result.OutputFile)
	}
	return nil
}

// outputExportErrors reports resolution failures. Resolution failures mean
// the listing could not be fully normalized: exit code 1.
func outputExportErrors(formatter *OutputFormatter, errs []error) error {
	if formatter.Format == "json" {
		cliErrors := make([]CLIError, len(errs))
		for i, err := range errs {
			cliErrors[i] = CLIError{Code: ErrCodeExportFailed, Message: err.Error()}
		}

		response := CLIResponse{
			Status: "error",
			Error:  &cliErrors[0],
			Data:   cliErrors, // Include all errors in data
		}
		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("export failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Export failed")
	fmt.Fprintln(formatter.Writer)
	for _, err := range errs {
		fmt.Fprintf(formatter.Writer, "  %s: %s\n", ErrCodeExportFailed, err.Error())
	}
	return NewExitError(ExitFailure, fmt.Sprintf("export failed with %d error(s)", len(errs)))
}

// outputCommandError reports a command-level error (exit code 2).
func outputCommandError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message), nil)
}

// writeRecordsToFile writes the program record as indented JSON.
func writeRecordsToFile(prog *pcode.ProgramRecord, filename string) error {
	data, err := json.MarshalIndent(prog, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling records: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}
