// Package cli implements the studyhub command line.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/tgienger/studyhub/internal/config"
	"github.com/tgienger/studyhub/internal/db"
	"github.com/tgienger/studyhub/internal/engine"
	"github.com/tgienger/studyhub/internal/logging"
	"github.com/tgienger/studyhub/internal/models"
	"github.com/tgienger/studyhub/internal/tracker"
)

// BuildInfo is the version information set via ldflags.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	As         string // acting user, overrides config
	Format     string // "json" | "text"
	Verbose    bool
	Now        string // fixed clock, RFC 3339 or YYYY-MM-DD
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the studyhub CLI.
func NewRootCommand(info BuildInfo) *cobra.Command {
	return newRootCommand(info, &RootOptions{})
}

func newRootCommand(info BuildInfo, opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "studyhub",
		Short: "Tasks, habits and classroom assignments in your terminal",
		Long: `studyhub tracks personal tasks, daily habits and classroom assignments.

Run without a subcommand to open the interactive view. When output is not a
terminal the task list is printed instead.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDefault(opts, cmd)
		},
	}
	cmd.SetVersionTemplate("studyhub {{.Version}}\n")

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/studyhub/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.As, "as", "", "act as this user instead of the configured one")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Now, "now", "", "pretend the current time is this instant")
	_ = cmd.PersistentFlags().MarkHidden("now")

	// Add subcommands
	cmd.AddCommand(NewUserCommand(opts))
	cmd.AddCommand(NewTaskCommand(opts))
	cmd.AddCommand(NewHabitCommand(opts))
	cmd.AddCommand(NewClassCommand(opts))
	cmd.AddCommand(NewAssignCommand(opts))
	cmd.AddCommand(NewSubjectCommand(opts))
	cmd.AddCommand(NewCommentCommand(opts))
	cmd.AddCommand(NewStreakCommand(opts))

	return cmd
}

// Execute runs the CLI with args and reports any failure in the selected
// format. It returns the process exit code.
func Execute(info BuildInfo, args []string, stdout, stderr io.Writer) int {
	opts := &RootOptions{}
	cmd := newRootCommand(info, opts)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	format := opts.Format
	if !isValidFormat(format) {
		format = "text"
	}
	out := &OutputFormatter{Format: format, Writer: stdout, ErrWriter: stderr}
	_ = out.Error(err)
	return GetExitCode(err)
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// session is everything a command needs once flags are parsed
type session struct {
	opts    *RootOptions
	cfg     config.Config
	cfgPath string
	store   *db.DB
	svc     *tracker.Service
	now     time.Time
	out     *OutputFormatter
}

// configPath resolves --config or the default location
func (o *RootOptions) configPath() (string, error) {
	if o.ConfigPath != "" {
		return o.ConfigPath, nil
	}
	path, err := config.DefaultPath()
	if err != nil {
		return "", WrapExitError(ExitCommandError, "failed to locate config", err)
	}
	return path, nil
}

func (o *RootOptions) loadConfig() (config.Config, string, error) {
	path, err := o.configPath()
	if err != nil {
		return config.Config{}, "", err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, "", WrapExitError(ExitCommandError, "failed to load config", err)
	}
	return cfg, path, nil
}

// open loads config and the database with a logger writing to stderr.
func (o *RootOptions) open(cmd *cobra.Command) (*session, error) {
	cfg, path, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	level, err := cliLogLevel(cfg, o.Verbose)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	return o.openWith(cmd, cfg, path, logging.New(cmd.ErrOrStderr(), level))
}

// cliLogLevel is the configured log_level raised to at least Warn, so
// Info mutation logs stay out of command output. --verbose means Debug.
func cliLogLevel(cfg config.Config, verbose bool) (slog.Level, error) {
	if verbose {
		return slog.LevelDebug, nil
	}
	level, err := cfg.Level()
	if err != nil {
		return 0, err
	}
	return max(level, slog.LevelWarn), nil
}

func (o *RootOptions) openWith(cmd *cobra.Command, cfg config.Config, path string, logger *slog.Logger) (*session, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	eng := engine.New(loc)

	now := time.Now()
	if o.Now != "" {
		if now, err = parseNow(o.Now, eng); err != nil {
			return nil, err
		}
	}

	store, err := db.New(cfg.DataDir, cfg.Driver)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	logger.Debug("database opened", "dir", cfg.DataDir, "driver", cfg.Driver)

	return &session{
		opts:    o,
		cfg:     cfg,
		cfgPath: path,
		store:   store,
		svc:     tracker.New(store, eng, logger),
		now:     now,
		out: &OutputFormatter{
			Format:    o.Format,
			Writer:    cmd.OutOrStdout(),
			ErrWriter: cmd.ErrOrStderr(),
		},
	}, nil
}

func (s *session) Close() error {
	return s.store.Close()
}

// actor resolves the acting user from --as or the configured user
func (s *session) actor() (models.Actor, error) {
	name := s.opts.As
	if name == "" {
		name = s.cfg.User
	}
	if name == "" {
		return models.Actor{}, NewExitError(ExitCommandError, "no user selected: pass --as or run 'studyhub user use <name>'")
	}
	u, err := s.svc.UserByName(name)
	if err != nil {
		return models.Actor{}, err
	}
	return u.Actor(), nil
}

// withActor opens a session, resolves the actor and runs fn
func (o *RootOptions) withActor(cmd *cobra.Command, fn func(s *session, actor models.Actor) error) error {
	s, err := o.open(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	actor, err := s.actor()
	if err != nil {
		return err
	}
	return fn(s, actor)
}

func parseNow(v string, eng *engine.Engine) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	t, err := eng.Days().ParseDate(v)
	if err != nil {
		return time.Time{}, NewExitError(ExitCommandError, fmt.Sprintf("invalid --now %q: want RFC 3339 or YYYY-MM-DD", v))
	}
	return t, nil
}

func parseID(v string) (int64, error) {
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, NewExitError(ExitCommandError, fmt.Sprintf("invalid id %q", v))
	}
	return id, nil
}

// isTerminal reports whether w is an interactive terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
