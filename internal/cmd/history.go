package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/textseek/internal/history"
)

// NewHistoryCommand creates the history subcommand, which lists recent
// search runs from the history database.
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent search runs",
		Args:  cobra.NoArgs,
		// Errors are reported once, by printError.
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runHistory,
	}

	cmd.Flags().IntP("limit", "n", 10, "Maximum number of runs to show")
	cmd.Flags().String("db", "", "Path to the history database (default: from settings)")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		settings, err := loadSettings(cmd)
		if err != nil {
			return printError(cmd, err)
		}
		dbPath = settings.History.Path
	}
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := history.NewStore(dbPath)
	if err != nil {
		return printError(cmd, err)
	}
	defer store.Close()

	runs, err := store.Recent(cmd.Context(), limit)
	if err != nil {
		return printError(cmd, err)
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No recorded searches.")
		return nil
	}

	for _, run := range runs {
		depth := fmt.Sprintf("%d", run.MaxDepth)
		if run.MaxDepth == -1 {
			depth = "all"
		}
		fmt.Fprintf(out, "%s  %s  '%s'  depth=%s  %d dirs  %d files  %.2fs\n",
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.Root, run.Term, depth,
			run.Directories, run.FilesMatched, run.Duration.Seconds())
	}
	return nil
}
