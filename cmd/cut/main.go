// Package main is the entry point for the Claude usage TUI.
// It loads configuration, starts the services and runs the Bubble Tea program.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/j-veylop/claude-usage-tui/internal/app"
	"github.com/j-veylop/claude-usage-tui/internal/config"
	"github.com/j-veylop/claude-usage-tui/internal/format"
	"github.com/j-veylop/claude-usage-tui/internal/logger"
	"github.com/j-veylop/claude-usage-tui/internal/services"
	"github.com/j-veylop/claude-usage-tui/internal/services/snapshot"
	"github.com/j-veylop/claude-usage-tui/internal/stats"
	"github.com/j-veylop/claude-usage-tui/internal/ui/tabs/history"
	"github.com/j-veylop/claude-usage-tui/internal/ui/tabs/info"
	"github.com/j-veylop/claude-usage-tui/internal/ui/tabs/models"
	"github.com/j-veylop/claude-usage-tui/internal/ui/tabs/overview"
	"github.com/j-veylop/claude-usage-tui/internal/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:           "cut",
		Short:         "Terminal dashboard for Claude token usage",
		Long:          longHelp,
		Version:       version.GetVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			applyLocale(cfg.Locale)

			out := cmd.OutOrStdout()
			if once || !isTerminal(out) {
				return printOnce(out, cfg.StatsPath)
			}

			return run(cfg)
		},
	}

	cmd.SetVersionTemplate(version.Info() + "\n")
	cmd.Flags().BoolVar(&once, "once", false, "print the current month's usage line and exit")

	return cmd
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// applyLocale overrides the detected number locale when one is configured.
func applyLocale(value string) {
	if value == "" {
		return
	}
	tag, ok := format.ParseLocale(value)
	if !ok {
		logger.Warn("ignoring unrecognised locale", "locale", value)
		return
	}
	format.SetLocale(tag)
}

// printOnce writes the current month's summary line. A missing stats file
// is reported as an empty month.
func printOnce(w io.Writer, statsPath string) error {
	cache, err := snapshot.Load(statsPath)
	if err != nil && !errors.Is(err, snapshot.ErrNoSnapshot) {
		return err
	}

	_, err = fmt.Fprintln(w, onceLine(services.SummaryFor(cache, stats.SystemClock)))
	return err
}

func run(cfg *config.Config) error {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logFile, err := logger.Init(level, cfg.LogPath)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()

	logger.Info("starting", "version", version.GetVersion(), "stats", cfg.StatsPath)

	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			logger.Error("error closing services", "error", closeErr)
		}
	}()

	model := app.NewModel(svcManager)

	state := model.GetState()
	model.SetTabs([]app.Tab{
		overview.New(state),
		models.New(state),
		history.New(state),
		info.New(state, cfg),
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	p := tea.NewProgram(model, tea.WithAltScreen())

	go func() {
		if _, ok := <-sigChan; ok {
			p.Send(tea.Quit())
		}
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

const longHelp = `Terminal dashboard for the usage statistics Claude keeps in
~/.claude/stats-cache.json.

When stdout is not a terminal, or with --once, a single line with the current
month's token count is printed instead of the dashboard.

Keyboard Shortcuts:
  1-4             Switch tabs (Overview, Models, History, Info)
  Tab/Shift+Tab   Next/previous tab
  j/k, Up/Down    Scroll or move the selection
  [ / ]           Older/newer month (History)
  s               Change sort order (Models)
  r               Reload the stats file
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  STATS_PATH              Stats file (default: ~/.claude/stats-cache.json)
  DATABASE_PATH           SQLite history database
  LOG_PATH                Log file
  LOG_LEVEL               debug, info, warn or error (default: info)
  LOCALE                  Number formatting locale, e.g. de_DE (default: from LANG)
  REFRESH_INTERVAL        Fallback polling interval (default: 60s, minimum 1s)
  TOKEN_ALERT_THRESHOLD   Desktop alert when the month passes this many tokens
                          (accepts K, M and B suffixes, e.g. 5M)

Configuration:
  Variables may also be set in a .env file. The first of these that exists
  is loaded:
  - ./.env
  - ~/.config/claude-usage-tui/.env
  - ~/.claude/.env`
