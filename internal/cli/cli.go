// Package cli provides command-line interface functionality for convtest.
package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/AndreyAkinshin/convtest/internal/errors"
	"github.com/AndreyAkinshin/convtest/internal/logging"
	"github.com/AndreyAkinshin/convtest/internal/output"
	"github.com/AndreyAkinshin/convtest/internal/project"
)

// Version is set at build time.
var Version = "dev"

// Globals are flags shared by every command.
type Globals struct {
	Config    string `short:"c" type:"path" placeholder:"FILE" help:"Configuration file (default: .convtest/config.yaml in this or a parent directory)"`
	Quiet     bool   `short:"q" help:"Minimal output (failures and errors only)"`
	Verbose   int    `short:"v" type:"counter" help:"Log progress to stderr (-v info, -vv debug)"`
	LogFormat string `name:"log-format" enum:"text,json" default:"text" help:"Log format (text or json)"`
}

// CLI defines the command-line interface for convtest.
type CLI struct {
	Globals

	Run      RunCmd      `cmd:"" help:"Run every test path against its compare path"`
	Paths    PathsCmd    `cmd:"" help:"List formats, converter paths and comparators"`
	Validate ValidateCmd `cmd:"" help:"Validate the configuration"`
	Version  VersionCmd  `cmd:"" help:"Print version information"`
}

// env carries what commands need besides their flags.
type env struct {
	ctx       context.Context
	out       *output.Writer
	stderr    io.Writer
	newLogger func(w io.Writer, level logging.Level, format logging.Format) *slog.Logger
}

// exitCode is raised through kong's exit hook so help and version output
// return from Run instead of terminating the process.
type exitCode int

// Run executes the CLI with the given arguments and returns an exit code.
func Run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	e := &env{
		ctx:       ctx,
		out:       output.New(),
		stderr:    os.Stderr,
		newLogger: logging.Init,
	}
	return run(e, os.Stdout, args)
}

func run(e *env, stdout io.Writer, args []string) (code int) {
	if len(args) == 0 {
		args = []string{"--help"}
	}

	defer func() {
		if r := recover(); r != nil {
			c, ok := r.(exitCode)
			if !ok {
				panic(r)
			}
			code = int(c)
		}
	}()

	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("convtest"),
		kong.Description("Verify conversion pipelines by comparing the graphs produced by alternative converter paths."),
		kong.Writers(stdout, e.stderr),
		kong.Exit(func(c int) { panic(exitCode(c)) }),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)
	if err != nil {
		e.out.ErrorPrefix("%v", err)
		return errors.ExitRuntimeError
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		e.out.ErrorPrefix("%v", err)
		e.out.Hint("run 'convtest --help' for usage")
		return errors.ExitConfigError
	}
	e.out.SetQuiet(cli.Quiet)

	if err := kctx.Run(&cli.Globals, e); err != nil {
		if err != errTestsFailed {
			e.out.ErrorPrefix("%v", err)
		}
		return errors.GetExitCode(err)
	}
	return errors.ExitSuccess
}

// logger builds the logger selected by the global flags. Logs stay at
// warnings unless -v is given; -q limits them to errors.
func (g *Globals) logger(e *env) *slog.Logger {
	level := logging.LevelWarn
	switch {
	case g.Quiet:
		level = logging.LevelError
	case g.Verbose == 1:
		level = logging.LevelInfo
	case g.Verbose > 1:
		level = logging.LevelDebug
	}
	format, err := logging.ParseFormat(g.LogFormat)
	if err != nil {
		format = logging.FormatText
	}
	return e.newLogger(e.stderr, level, format)
}

// loadProject loads the project named by --config, or discovers it from
// the working directory. A configuration inside a .convtest directory
// belongs to that directory's parent.
func (g *Globals) loadProject() (*project.Project, error) {
	if g.Config == "" {
		return project.LoadProject()
	}
	dir := filepath.Dir(g.Config)
	root := dir
	if filepath.Base(dir) == project.ConfigDirName {
		root = filepath.Dir(dir)
	}
	return project.LoadConfigFile(root, g.Config)
}

// printWarnings prints configuration warnings unless quiet.
func printWarnings(out *output.Writer, warnings []string) {
	if out.Quiet() {
		return
	}
	for _, w := range warnings {
		out.Warning("%s", w)
	}
}
