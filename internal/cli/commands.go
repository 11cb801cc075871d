package cli

import (
	"fmt"
	"strings"

	"github.com/AndreyAkinshin/convtest/internal/compare"
	"github.com/AndreyAkinshin/convtest/internal/errors"
	"github.com/AndreyAkinshin/convtest/internal/report"
	"github.com/AndreyAkinshin/convtest/internal/tester"
)

// errTestsFailed signals a completed run with failed outcomes. The summary
// has already been printed, so it carries only the exit code.
var errTestsFailed = errors.New("one or more samples failed")

// RunCmd runs the test suite.
type RunCmd struct {
	Format   []string `short:"f" placeholder:"FORMAT" help:"Only test these formats (repeatable)"`
	Parallel bool     `short:"p" help:"Run path pairs in parallel (overrides execution.parallel)"`
	Workers  int      `short:"j" placeholder:"N" help:"Parallel workers (default: CONVTEST_PARALLEL or CPU count)"`
	Report   string   `short:"r" type:"path" placeholder:"FILE" help:"Write a JSON report (.xz suffix compresses)"`
}

// Run implements the run command.
func (c *RunCmd) Run(g *Globals, e *env) error {
	p, err := g.loadProject()
	if err != nil {
		return err
	}
	printWarnings(e.out, p.Warnings)

	known := make(map[string]bool)
	for _, f := range p.Graph.Formats() {
		known[f] = true
	}
	for _, f := range c.Format {
		if !known[f] {
			return errors.Configf("unknown format %q (configured: %s)", f, strings.Join(p.Graph.Formats(), ", "))
		}
	}
	if c.Workers < 0 || c.Workers > 256 {
		return errors.Configf("--workers must be between 0 and 256, got %d", c.Workers)
	}

	exec := p.Config.Execution
	opts := tester.Options{
		Parallel: c.Parallel || exec.Parallel,
		Workers:  exec.Workers,
		Formats:  c.Format,
		Compare:  p.CompareOptions(),
		Logger:   g.logger(e),
	}
	if c.Workers > 0 {
		opts.Workers = c.Workers
	}

	reporters := []tester.Reporter{report.NewConsoleReporter(e.out)}
	reportPath := c.Report
	if reportPath == "" {
		reportPath = p.ReportPath()
	}
	if reportPath != "" {
		reporters = append(reporters, report.NewJSONReporter(reportPath))
	}

	t := tester.New(p.Executor(), p.Provider(), opts, reporters...)
	result, err := t.RunAllTests(e.ctx, p.Graph)
	if result == nil {
		return errors.Wrap(err, "test run aborted")
	}
	if err != nil {
		return errors.Wrap(err, "failed to write report")
	}
	if reportPath != "" {
		e.out.Hint("report written to %s", reportPath)
	}
	if !result.Passed() {
		return errTestsFailed
	}
	return nil
}

// PathsCmd lists the converter paths per format.
type PathsCmd struct{}

// Run implements the paths command.
func (c *PathsCmd) Run(g *Globals, e *env) error {
	p, err := g.loadProject()
	if err != nil {
		return err
	}
	printWarnings(e.out, p.Warnings)

	var rows [][]string
	for _, format := range p.Graph.Formats() {
		cp, ok := p.Graph.ComparePath(format)
		for _, tp := range p.Graph.TestPaths(format) {
			if !ok {
				rows = append(rows, []string{format, tp.String(), "-", "skipped"})
				continue
			}
			rows = append(rows, []string{format, tp.String(), cp.String(), compare.Select(tp, cp).String()})
		}
	}
	if len(rows) == 0 {
		e.out.Info("no test paths configured")
		return nil
	}
	e.out.Table([]string{"FORMAT", "TEST PATH", "COMPARE PATH", "COMPARATOR"}, rows)
	return nil
}

// ValidateCmd validates the configuration.
type ValidateCmd struct{}

// Run implements the validate command.
func (c *ValidateCmd) Run(g *Globals, e *env) error {
	p, err := g.loadProject()
	if err != nil {
		return err
	}
	printWarnings(e.out, p.Warnings)

	formats := p.Graph.Formats()
	paths := 0
	items := make([]string, 0, len(formats))
	for _, f := range formats {
		n := len(p.Graph.TestPaths(f))
		paths += n
		if cp, ok := p.Graph.ComparePath(f); ok {
			items = append(items, fmt.Sprintf("%s: %d test paths against %s", f, n, cp))
		} else {
			items = append(items, fmt.Sprintf("%s: %d test paths, no compare path", f, n))
		}
	}
	e.out.Check("%s is valid", p.ConfigPath)
	e.out.Info("  %d converters, %d formats, %d test paths", len(p.Config.Converters), len(formats), paths)
	e.out.List(items)
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

// Run implements the version command.
func (c *VersionCmd) Run(e *env) error {
	e.out.Println("convtest %s", Version)
	return nil
}
