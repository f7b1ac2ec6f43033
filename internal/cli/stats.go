package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Hooo1941/cwe-checker/internal/store"
)

// StatsOptions holds flags for the stats command.
type StatsOptions struct {
	*RootOptions
	Database string
	Mnemonic string
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "stats [digest]",
		Short: "Query stored exports",
		Long: `Query programs persisted by export --db.

With no argument, lists stored programs. With a program digest, prints its
mnemonic histogram; add --mnemonic to list the matching operations instead.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			digest := ""
			if len(args) == 1 {
				digest = args[0]
			}
			return runStats(opts, digest, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "store database path (required)")
	cmd.Flags().StringVar(&opts.Mnemonic, "mnemonic", "", "list operations with this mnemonic")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runStats(opts *StatsOptions, digest string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if _, err := os.Stat(opts.Database); os.IsNotExist(err) {
		return outputCommandError(formatter, ErrCodeNotFound, fmt.Sprintf("database not found: %s", opts.Database))
	}

	s, err := store.Open(opts.Database)
	if err != nil {
		return outputCommandError(formatter, ErrCodeDatabase, fmt.Sprintf("opening store: %v", err))
	}
	defer s.Close()

	ctx := cmd.Context()

	if digest == "" {
		programs, err := s.ListPrograms(ctx)
		if err != nil {
			return outputCommandError(formatter, ErrCodeDatabase, err.Error())
		}
		return outputPrograms(formatter, programs)
	}

	if opts.Mnemonic != "" {
		ops, err := s.OperationsByMnemonic(ctx, digest, opts.Mnemonic)
		if err != nil {
			return outputCommandError(formatter, ErrCodeDatabase, err.Error())
		}
		return outputOperations(formatter, opts.Mnemonic, ops)
	}

	stats, err := s.MnemonicStats(ctx, digest)
	if err != nil {
		return outputCommandError(formatter, ErrCodeDatabase, err.Error())
	}
	return outputMnemonicStats(formatter, stats)
}

func outputPrograms(formatter *OutputFormatter, programs []store.ProgramSummary) error {
	if formatter.Format == "json" {
		return formatter.Success(programs)
	}

	if len(programs) == 0 {
		fmt.Fprintln(formatter.Writer, "No programs stored")
		return nil
	}
	fmt.Fprintf(formatter.Writer, "%d program(s):\n", len(programs))
	for _, p := range programs {
		fmt.Fprintf(formatter.Writer, "  %s  %s (%s): %d function(s), %d operation(s)\n",
			p.Digest[:12], p.Name, p.CPUArchitecture, p.FunctionCount, p.OperationCount)
	}
	return nil
}

func outputMnemonicStats(formatter *OutputFormatter, stats []store.MnemonicCount) error {
	if formatter.Format == "json" {
		return formatter.Success(stats)
	}

	if len(stats) == 0 {
		fmt.Fprintln(formatter.Writer, "No operations found")
		return nil
	}
	for _, m := range stats {
		fmt.Fprintf(formatter.Writer, "  %6d  %s\n", m.Count, m.Mnemonic)
	}
	return nil
}

func outputOperations(formatter *OutputFormatter, mnemonic string, ops []store.StoredOperation) error {
	if formatter.Format == "json" {
		return formatter.Success(ops)
	}

	if len(ops) == 0 {
		fmt.Fprintf(formatter.Writer, "No %s operations found\n", mnemonic)
		return nil
	}
	fmt.Fprintf(formatter.Writer, "%d %s operation(s):\n", len(ops), mnemonic)
	for _, op := range ops {
		fmt.Fprintf(formatter.Writer, "  %s %s pcode %d\n", op.Function, op.InstructionAddress, op.Operation.Index)
	}
	return nil
}
