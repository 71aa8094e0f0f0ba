package commands

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/pkgmeta"
	"git.home.luguber.info/inful/docsite/internal/siteconfig"
)

// Global carries the state shared by all subcommands.
type Global struct {
	Out io.Writer
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// CLI definition & global flags.
type CLI struct {
	Config    string           `short:"c" help:"Configuration file path" default:"docsite.yaml" env:"DOCSITE_CONFIG"`
	Package   string           `help:"package.json providing the default site description (defaults to the one next to the config file)" env:"DOCSITE_PACKAGE"`
	Strict    bool             `help:"Reject unknown configuration keys" env:"DOCSITE_STRICT"`
	Verbose   bool             `short:"v" help:"Enable verbose logging"`
	LogFormat string           `name:"log-format" help:"Log output format (text|json)" enum:"text,json" default:"text" env:"DOCSITE_LOG_FORMAT"`
	Version   kong.VersionFlag `name:"version" help:"Show version and exit"`

	Validate ValidateCmd `cmd:"" default:"withargs" help:"Resolve the configuration and report the first problem"`
	Show     ShowCmd     `cmd:"" help:"Print the resolved configuration"`
	Init     InitCmd     `cmd:"" help:"Initialize a new configuration file"`
	Export   ExportCmd   `cmd:"" help:"Write a Hugo configuration derived from the site configuration"`
	Watch    WatchCmd    `cmd:"" help:"Re-resolve the configuration whenever it changes"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	slog.SetDefault(newLogger(os.Stderr, c.LogFormat, c.Verbose))
	return nil
}

func newLogger(w io.Writer, format string, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// PackagePath returns the manifest consulted for locale descriptions.
func (c *CLI) PackagePath() string {
	if c.Package != "" {
		return c.Package
	}
	return filepath.Join(filepath.Dir(c.Config), "package.json")
}

func (c *CLI) options() []siteconfig.Option {
	if c.Strict {
		return []siteconfig.Option{siteconfig.WithStrict()}
	}
	return nil
}

// Resolve loads and resolves the configuration. Each call reads package.json
// afresh so a watcher picks up edits to it.
func (c *CLI) Resolve() (*siteconfig.SiteConfig, error) {
	return config.LoadAndResolve(c.Config, pkgmeta.NewFile(c.PackagePath()), c.options()...)
}
