// Package cli provides the command-line interface for csvsql.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/nao1215/csvsql"
	"github.com/nao1215/csvsql/domain/model"
	"github.com/spf13/cobra"
)

// Version information (set at build time).
var Version = "0.1.0"

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var (
		cfgFile    string
		inputs     inputList
		statements statementList
	)

	rootCmd := &cobra.Command{
		Use:   "csvsql [flags] [statement...]",
		Short: "Run SQL statements against CSV files",
		Long: `csvsql imports CSV, TSV, LTSV, XLSX and Parquet files into tables of an
embedded SQLite database, executes SQL statements against them and writes
the result of the last statement.

Statements come from -s, -f and the positional arguments, in that order.
The table of each input is named after the file without its extensions.`,
		Example: `  csvsql -i users.csv "SELECT name FROM users WHERE CAST(age AS INTEGER) > 25"
  csvsql -u raw.csv -f report.sql -o report.csv.gz
  csvsql -d cache.db -i orders.tsv --list-tables`,
		Version: Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := LoadSettings(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			cfg, err := settings.Config()
			if err != nil {
				return err
			}
			cfg.Inputs = inputs.inputs
			cfg.Statements = statements.sources
			for _, arg := range args {
				cfg.Statements = append(cfg.Statements, csvsql.InlineStatement(arg))
			}
			cfg.Logger = newLogger(cmd.ErrOrStderr(), settings.Verbose)

			return csvsql.Execute(cmd.Context(), cfg, cmd.OutOrStdout())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	flags := rootCmd.Flags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./csvsql.yaml)")
	flags.VarP(&inputFlag{list: &inputs, mode: model.HeaderModeWithHeader}, "input", "i", "Input file whose first row names the columns (repeatable)")
	flags.VarP(&inputFlag{list: &inputs, mode: model.HeaderModeWithoutHeader}, "input-no-header", "u", "Input file without a header row (repeatable)")
	flags.VarP(&statementFlag{list: &statements, kind: csvsql.StatementInline}, "statement", "s", "SQL statements to execute (repeatable)")
	flags.VarP(&statementFlag{list: &statements, kind: csvsql.StatementFile}, "file", "f", "File of SQL statements to execute (repeatable)")
	flags.StringP("database", "d", "", "Path to SQLite database (empty for in-memory)")
	flags.StringP("output", "o", "", "Write the result to this file instead of stdout")
	flags.Bool("force", false, "Overwrite the output file if it exists")
	flags.String("format", DefaultFormat, "Output format (csv|tsv|table|markdown|json)")
	flags.String("compression", "", "Output compression (gz|xz|zstd); default from the output extension")
	flags.String("delimiter", "", "Field delimiter of CSV and TSV inputs (a single character or 'tab')")
	flags.Bool("sniff", false, "Guess the delimiter of CSV and TSV inputs from their first line")
	flags.Bool("list-tables", false, "Print the tables of the database after the run")
	flags.BoolP("verbose", "v", false, "Verbose output")
	flags.Int("progress-interval", csvsql.DefaultProgressInterval, "Rows between import progress log lines")

	_ = rootCmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"csv", "tsv", "table", "markdown", "json"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("compression", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"gz", "xz", "zstd"}, cobra.ShellCompDirectiveNoFileComp
	})

	return rootCmd
}

// Execute runs the root command. An interrupt cancels the running import
// or statement batch.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// newLogger writes text logs to w. Only warnings and errors are shown
// unless verbose is set.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
