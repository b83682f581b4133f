package cli

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/tgienger/studyhub/internal/logging"
	"github.com/tgienger/studyhub/internal/models"
	"github.com/tgienger/studyhub/internal/ui"
)

// runDefault opens the interactive view on a terminal and prints the task
// list otherwise.
func runDefault(opts *RootOptions, cmd *cobra.Command) error {
	if !isTerminal(cmd.OutOrStdout()) || opts.Format == "json" {
		return opts.withActor(cmd, func(s *session, actor models.Actor) error {
			return printWorkload(s, actor, &listFlags{Status: "all", SortPriority: "off", SortDue: "off"})
		})
	}

	cfg, path, err := opts.loadConfig()
	if err != nil {
		return err
	}
	level, err := cfg.Level()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	// The alternate screen owns the terminal, so log to a file.
	logger, closer, err := logging.OpenFile(cfg.DataDir, level)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open log file", err)
	}
	defer closer.Close()

	s, err := opts.openWith(cmd, cfg, path, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	actor, err := s.actor()
	if err != nil {
		return err
	}

	clock := time.Now
	if opts.Now != "" {
		fixed := s.now
		clock = func() time.Time { return fixed }
	}

	app := ui.NewApp(s.svc, actor, clock)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return WrapExitError(ExitCommandError, "error running application", err)
	}
	return nil
}
