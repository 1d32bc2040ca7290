// Package cmd wires the textseek command-line interface: the search command
// itself, the hidden scan-worker subprocess entry point and the history
// viewer.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harrison/textseek/internal/config"
	"github.com/harrison/textseek/internal/executor"
	"github.com/harrison/textseek/internal/extensions"
	"github.com/harrison/textseek/internal/filter"
	"github.com/harrison/textseek/internal/history"
	"github.com/harrison/textseek/internal/logger"
	"github.com/harrison/textseek/internal/models"
	"github.com/harrison/textseek/internal/pattern"
	"github.com/harrison/textseek/internal/report"
	"github.com/harrison/textseek/internal/scanner"
	"github.com/harrison/textseek/internal/walker"
)

// Version is injected at build time via -ldflags
var Version = "dev"

const banner = `
 _            _                 _
| |_ _____  _| |_ ___  ___  ___| | __
| __/ _ \ \/ / __/ __|/ _ \/ _ \ |/ /
| ||  __/>  <| |_\__ \  __/  __/   <
 \__\___/_/\_\\__|___/\___|\___|_|\_\
`

// NewRootCommand creates the root cobra command for textseek.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "textseek <directory> <search-term>",
		Short: "Recursive parallel text search",
		Long: `Textseek recursively searches a directory tree for a term, in parallel.

Plain terms match whole words, case-insensitively by default. Terms
containing regex metacharacters are treated as regular expressions and
matched verbatim. Regex searches run across isolated worker processes;
literal searches run across lightweight goroutine workers.

Examples:
  textseek /var/log error
  textseek --maxdepth -1 ~/projects 'TODO.*urgent'
  textseek -e .go,.md -c ~/src Handler
  textseek --start-date 2026-01-01 --size-limit 512 /srv/data needle`,
		Version: Version,
		Args:    cobra.ExactArgs(2),
		// Errors are reported once, by printError.
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runSearch,
	}

	cmd.Flags().Int("maxdepth", 1, "Maximum recursion depth (-1 for unlimited)")
	cmd.Flags().StringP("extensions", "e", "", "Comma-separated file extensions to search (default: all known text extensions)")
	cmd.Flags().IntP("maxline", "m", 1000, "Maximum displayed line length in characters")
	cmd.Flags().BoolP("case-sensitive", "c", false, "Match case exactly")
	cmd.Flags().String("start-date", "", "Only search files modified on or after this date (YYYY-MM-DD)")
	cmd.Flags().String("end-date", "", "Only search files modified on or before this date (YYYY-MM-DD)")
	cmd.Flags().Float64("size-limit", -1, "Skip files larger than this many kilobytes (-1 for no limit)")
	cmd.Flags().Bool("no-history", false, "Do not record this run in the search history")
	cmd.Flags().String("log-level", "info", "Logging verbosity: debug, info, warn or error")
	cmd.PersistentFlags().String("config", "", "Path to settings file (default: ~/.textseek/config.yaml)")

	cmd.AddCommand(NewScanWorkerCommand())
	cmd.AddCommand(NewHistoryCommand())

	return cmd
}

// runSearch implements the search flow: validate, compile, walk, scan,
// report, record.
func runSearch(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return printError(cmd, err)
	}

	maxLine, _ := cmd.Flags().GetInt("maxline")
	if !cmd.Flags().Changed("maxline") && settings.MaxLine > 0 {
		maxLine = settings.MaxLine
	}
	extList, _ := cmd.Flags().GetString("extensions")
	if extList == "" {
		extList = settings.Extensions
	}
	logLevel, _ := cmd.Flags().GetString("log-level")
	if !cmd.Flags().Changed("log-level") && settings.LogLevel != "" {
		logLevel = settings.LogLevel
	}

	maxDepth, _ := cmd.Flags().GetInt("maxdepth")
	caseSensitive, _ := cmd.Flags().GetBool("case-sensitive")
	startDate, _ := cmd.Flags().GetString("start-date")
	endDate, _ := cmd.Flags().GetString("end-date")
	sizeLimitKB, _ := cmd.Flags().GetFloat64("size-limit")
	noHistory, _ := cmd.Flags().GetBool("no-history")

	reference, err := extensions.Reference()
	if err != nil {
		return printError(cmd, err)
	}

	search, err := config.NewSearch(config.Options{
		Directory:     args[0],
		SearchTerm:    args[1],
		MaxDepth:      maxDepth,
		Extensions:    extList,
		MaxLine:       maxLine,
		CaseSensitive: caseSensitive,
		StartDate:     startDate,
		EndDate:       endDate,
		SizeLimitKB:   sizeLimitKB,
	}, reference)
	if err != nil {
		return printError(cmd, err)
	}

	pat, err := pattern.Compile(search.Term, search.CaseSensitive)
	if err != nil {
		return printError(cmd, err)
	}

	log := logger.NewConsoleLogger(cmd.ErrOrStderr(), logLevel)
	fl := filter.New(search.Extensions, search.StartDate, search.EndDate, search.SizeLimit)
	sc := scanner.New(pat, fl, search.MaxLine)

	spec := executor.WorkerSpec{
		Term:          search.Term,
		CaseSensitive: search.CaseSensitive,
		MaxLine:       search.MaxLine,
		Extensions:    search.Extensions,
		StartDate:     search.StartDate,
		EndDate:       search.EndDate,
		SizeLimit:     search.SizeLimit,
	}
	sched, err := executor.NewScheduler(pat, spec, sc.ScanFile, log)
	if err != nil {
		return printError(cmd, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, color.CyanString(banner))
	fmt.Fprintf(out, "Using %d %s workers\n\n", sched.Pool().Workers(), sched.Pool().Kind())

	start := time.Now()
	res := walker.New(search.MaxDepth, fl.Valid).Walk(search.Directory)
	for _, walkErr := range res.Errors {
		log.Warnf("%v", walkErr)
	}

	records, matched, err := sched.Search(ctx, res.Files)
	if err != nil {
		if errors.Is(err, executor.ErrCancelled) {
			fmt.Fprintln(out)
		}
		return printError(cmd, err)
	}

	rep := report.New(out)
	rep.PrintRecords(records)
	rep.PrintSummary(models.Summary{
		Directories:  res.Directories,
		FilesMatched: matched,
		MaxDepth:     search.MaxDepth,
		Term:         search.Term,
	})
	elapsed := time.Since(start)

	if settings.History.Enabled && !noHistory {
		recordRun(log, settings.History.Path, history.Run{
			Root:         search.Directory,
			Term:         search.Term,
			MaxDepth:     search.MaxDepth,
			Directories:  res.Directories,
			FilesMatched: matched,
			Duration:     elapsed,
			StartedAt:    start,
		})
	}

	fmt.Fprintf(out, "\nElapsed time: %.2f seconds\n", elapsed.Seconds())
	return nil
}

// loadSettings reads the settings file named by --config, or the default
// location when the flag is unset.
func loadSettings(cmd *cobra.Command) (*config.Settings, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.DefaultSettingsPath()
	}
	return config.LoadSettings(path)
}

// recordRun appends the run to the history store. Recording is best-effort
// and never fails the search; problems surface at debug level only.
func recordRun(log *logger.ConsoleLogger, dbPath string, run history.Run) {
	store, err := history.NewStore(dbPath)
	if err != nil {
		log.Debugf("history not recorded: %v", err)
		return
	}
	defer store.Close()

	if err := store.Record(context.Background(), run); err != nil {
		log.Debugf("history not recorded: %v", err)
	}
}

// printError reports err once on stderr and passes it up so the process
// exits non-zero.
func printError(cmd *cobra.Command, err error) error {
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %v\n", color.RedString("[ERROR]"), err)
	return err
}
