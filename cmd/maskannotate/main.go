package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/example/maskannotate/internal/config"
	"github.com/example/maskannotate/internal/notify"
	"github.com/example/maskannotate/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs          *flag.FlagSet
	program     string
	stdout      io.Writer
	stderr      io.Writer
	config      *config.Config
	notifier    *notify.Notifier
	logger      *slog.Logger
	configPath  string
	themeName   string
	logFormat   string
	debug       bool
	saveAlerts  bool
	errorAlerts bool
	copyAlerts  bool
	activeTheme *theme.Theme
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot(stdout, stderr io.Writer) *root {
	r := &root{
		fs:      newFlagSet("maskannotate"),
		program: "maskannotate",
		stdout:  stdout,
		stderr:  stderr,
	}
	r.fs.StringVar(&r.configPath, "config", configPathOverride, "configuration file to load")
	r.fs.StringVar(&r.themeName, "theme", "", "colour theme to use (default, dark, or a theme file)")
	r.fs.StringVar(&r.logFormat, "log-format", "text", "log output format: text or json")
	r.fs.BoolVar(&r.debug, "debug", false, "enable debug logging")
	r.fs.BoolVar(&r.saveAlerts, "notify-save", false, "show a desktop notification after each mask save")
	r.fs.BoolVar(&r.errorAlerts, "notify-error", true, "show a desktop notification when a mask cannot be read or written")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", false, "show a desktop notification after copying to the clipboard")
	return r
}

func (r *root) Run(args []string) error {
	if err := parseFlags(r, args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}

	logger, err := newLogger(r.stderr, r.logFormat, r.debug)
	if err != nil {
		return err
	}
	r.logger = logger
	slog.SetDefault(logger)

	loader := config.NewLoader(version, r.configPath)
	cfg, err := loader.Load()
	if err != nil {
		r.logger.Warn("failed to load config, using defaults", "error", err)
		cfg = config.New()
	}
	r.config = cfg

	// Flags set on the command line win over the config file.
	set := map[string]bool{}
	r.fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if !set["notify-save"] {
		r.saveAlerts = cfg.Notify.Save
	}
	if !set["notify-error"] {
		r.errorAlerts = cfg.Notify.Error
	}
	r.notifier = notify.New(notify.LoadPreferences(), notify.WithLogger(logger))
	r.notifier.Enable(notify.EventSave, r.saveAlerts)
	r.notifier.Enable(notify.EventError, r.errorAlerts)
	r.notifier.Enable(notify.EventCopy, r.copyAlerts)

	r.activeTheme = r.resolveTheme()

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var cmd runnable
	switch cmdName {
	case "edit":
		cmd, err = parseEditCmd(subArgs, r)
	case "list":
		cmd, err = parseListCmd(subArgs, r)
	case "stroke":
		cmd, err = parseStrokeCmd(subArgs, r)
	case "export":
		cmd, err = parseExportCmd(subArgs, r)
	case "objects":
		cmd, err = parseObjectsCmd(subArgs, r)
	case "brushes":
		cmd, err = parseBrushesCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

// resolveTheme applies flag, environment, config precedence and falls back
// to the default theme.
func (r *root) resolveTheme() *theme.Theme {
	name := r.config.ThemeName(r.themeName)
	t, err := theme.NewLoader(r.config.Themes).Load(name)
	if err != nil {
		if name != "" && !strings.EqualFold(name, "default") {
			r.logger.Warn("failed to load theme, using default", "theme", name, "error", err)
		}
		return theme.Default()
	}
	return t
}

// subcommand derives the program name shown in help for name.
func (r *root) subcommand(name string) string {
	return strings.TrimSpace(r.program + " " + name)
}

// out returns stdout, defaulting to os.Stdout.
func (r *root) out() io.Writer {
	if r == nil || r.stdout == nil {
		return os.Stdout
	}
	return r.stdout
}

func main() {
	r := newRoot(os.Stdout, os.Stderr)
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
