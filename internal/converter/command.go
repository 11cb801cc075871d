package converter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/AndreyAkinshin/convtest/internal/fileutil"
	"github.com/AndreyAkinshin/convtest/internal/graph"
	"github.com/AndreyAkinshin/convtest/internal/samples"
)

// varPattern matches variable references in the format ${varname}.
var varPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// escapePlaceholder temporarily replaces escaped $${var} references during
// interpolation. NUL cannot occur in shell command strings or JSON config.
const escapePlaceholder = "\x00ESCAPED\x00"

// stderrTailBytes bounds how much stderr an ExecError carries.
const stderrTailBytes = 512

// ExecReason classifies a failed conversion step.
type ExecReason string

const (
	ReasonNotFound      ExecReason = "command_not_found"
	ReasonExit          ExecReason = "exit"
	ReasonTimeout       ExecReason = "timeout"
	ReasonMissingOutput ExecReason = "missing_output"
	ReasonIO            ExecReason = "io"
)

// ExecError reports a conversion step that did not produce its output.
type ExecError struct {
	Converter string
	Step      int // 1-based
	Reason    ExecReason
	Detail    string
	Stderr    string
	Err       error
}

func (e *ExecError) Error() string {
	prefix := fmt.Sprintf("step %d (%s)", e.Step, e.Converter)
	var msg string
	switch e.Reason {
	case ReasonNotFound:
		msg = fmt.Sprintf("%s: command %s not found", prefix, e.Detail)
	case ReasonTimeout:
		msg = fmt.Sprintf("%s: timed out after %s", prefix, e.Detail)
	case ReasonMissingOutput:
		msg = fmt.Sprintf("%s: no output written to %s", prefix, e.Detail)
	case ReasonExit:
		msg = fmt.Sprintf("%s: %s", prefix, e.Detail)
	default:
		msg = fmt.Sprintf("%s: %s", prefix, e.Detail)
	}
	if e.Err != nil && e.Reason != ReasonExit {
		msg += ": " + e.Err.Error()
	}
	if e.Stderr != "" {
		msg += "\nstderr: " + e.Stderr
	}
	return msg
}

func (e *ExecError) Unwrap() error { return e.Err }

// IsExecError returns true if the error is or wraps an ExecError.
func IsExecError(err error) bool {
	var execErr *ExecError
	return errors.As(err, &execErr)
}

// CommandExecutor runs each step of a path as a shell command in a private
// temporary directory and decodes the final output as a graph.
type CommandExecutor struct {
	RootDir string        // Value of ${root}; working directory of commands is the temp dir
	WorkDir string        // Parent of temporary directories; empty uses the system default
	Timeout time.Duration // Per step; zero disables
}

// Execute converts input along path and returns the decoded result.
//
// Built-in variables:
//   - ${input}, ${output}: step input and output files
//   - ${in}, ${out}: step input and output formats
//   - ${converter}: converter name
//   - ${root}: project root directory
//
// Converter vars may add names but do not override built-ins.
func (e *CommandExecutor) Execute(ctx context.Context, path *Path, input samples.Input) (*graph.Graph, error) {
	if e.WorkDir != "" {
		if err := os.MkdirAll(e.WorkDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create work directory: %w", err)
		}
	}
	tmp, err := os.MkdirTemp(e.WorkDir, "convtest-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(tmp) }()

	current := filepath.Join(tmp, "input"+filepath.Ext(fileutil.TrimCompression(input.Path)))
	if err := fileutil.CopyFile(input.Path, current); err != nil {
		return nil, fmt.Errorf("failed to stage input %s: %w", input.Path, err)
	}

	for i, step := range path.steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		output := filepath.Join(tmp, fmt.Sprintf("step%d.%s", i+1, step.Out))
		if err := e.runStep(ctx, i+1, step, current, output, tmp); err != nil {
			return nil, err
		}
		current = output
	}

	g, err := graph.ReadFile(current, path.OutputFormat())
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s output: %w", path.OutputFormat(), err)
	}
	return g, nil
}

func (e *CommandExecutor) runStep(ctx context.Context, n int, step Converter, input, output, dir string) error {
	if step.Command == "" {
		if err := fileutil.CopyFile(input, output); err != nil {
			return &ExecError{Converter: step.Name, Step: n, Reason: ReasonIO, Detail: "identity copy failed", Err: err}
		}
		return nil
	}

	cmdStr := interpolateVars(step.Command, builtinVars(step, input, output, e.RootDir), step.Vars)

	execName := extractCommandName(cmdStr)
	if execName != "" && !isCommandAvailable(execName) {
		return &ExecError{Converter: step.Name, Step: n, Reason: ReasonNotFound, Detail: execName}
	}

	stepCtx := ctx
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		stepCtx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	var stderr bytes.Buffer
	shellCmd := buildShellCommand(stepCtx, cmdStr)
	shellCmd.Dir = dir
	shellCmd.Stderr = &stderr
	shellCmd.Env = os.Environ()
	for k, v := range step.Env {
		shellCmd.Env = append(shellCmd.Env, k+"="+v)
	}

	runErr := shellCmd.Run()
	if err := ctx.Err(); err != nil {
		return err
	}
	if errors.Is(stepCtx.Err(), context.DeadlineExceeded) {
		return &ExecError{Converter: step.Name, Step: n, Reason: ReasonTimeout, Detail: e.Timeout.String(), Stderr: tail(stderr.String())}
	}
	if runErr != nil {
		return &ExecError{Converter: step.Name, Step: n, Reason: ReasonExit, Detail: runErr.Error(), Stderr: tail(stderr.String()), Err: runErr}
	}
	if _, err := os.Stat(output); err != nil {
		return &ExecError{Converter: step.Name, Step: n, Reason: ReasonMissingOutput, Detail: filepath.Base(output), Stderr: tail(stderr.String())}
	}
	return nil
}

func builtinVars(step Converter, input, output, root string) map[string]string {
	return map[string]string{
		"input":     input,
		"output":    output,
		"in":        step.In,
		"out":       step.Out,
		"converter": step.Name,
		"root":      root,
	}
}

// interpolateVars replaces ${var} with variable values; built-ins take
// precedence over user vars. Escaping: $${var} becomes ${var} (literal).
// Unknown variables are kept as-is.
func interpolateVars(cmd string, builtins, user map[string]string) string {
	result := strings.ReplaceAll(cmd, "$${", escapePlaceholder)

	vars := make(map[string]string, len(builtins)+len(user))
	for k, v := range user {
		vars[k] = v
	}
	for k, v := range builtins {
		vars[k] = v
	}

	result = varPattern.ReplaceAllStringFunc(result, func(match string) string {
		name := match[2 : len(match)-1]
		if val, ok := vars[name]; ok {
			return val
		}
		return match
	})

	return strings.ReplaceAll(result, escapePlaceholder, "${")
}

// tail returns the last stderrTailBytes of s, trimmed.
func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= stderrTailBytes {
		return s
	}
	return "..." + s[len(s)-stderrTailBytes:]
}

// extractCommandName returns the executable name (first word) of a shell command.
// Commands starting with a quote or containing a variable assignment are left to the shell.
func extractCommandName(cmdStr string) string {
	trimmed := strings.TrimSpace(cmdStr)
	if len(trimmed) == 0 {
		return ""
	}
	if trimmed[0] == '"' || trimmed[0] == '\'' {
		return ""
	}
	name := strings.Fields(trimmed)[0]
	if strings.Contains(name, "=") {
		return ""
	}
	return name
}

// isCommandAvailable checks if a command is available in PATH.
// Shell builtins are always available via sh -c.
func isCommandAvailable(cmdName string) bool {
	if _, ok := shellBuiltins[cmdName]; ok {
		return true
	}
	_, err := exec.LookPath(cmdName)
	return err == nil
}

// shellBuiltins lists POSIX builtins that have no PATH entry.
var shellBuiltins = map[string]struct{}{
	"exit": {}, "test": {}, "[": {}, "echo": {}, "cd": {}, "pwd": {},
	"export": {}, "unset": {}, "set": {}, "true": {}, "false": {}, "read": {},
	"eval": {}, "exec": {}, ".": {}, "trap": {}, "wait": {}, "kill": {},
	"type": {}, "command": {}, "printf": {}, "umask": {}, "ulimit": {},
	"{": {}, "(": {}, "if": {}, "for": {}, "while": {}, "case": {},
}

// buildShellCommand creates a cross-platform shell command.
// On Windows it uses the full path to PowerShell; elsewhere sh -c.
func buildShellCommand(ctx context.Context, cmdStr string) *exec.Cmd {
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		systemRoot := os.Getenv("SYSTEMROOT")
		if systemRoot == "" {
			systemRoot = `C:\Windows`
		}
		powershell := filepath.Join(systemRoot, "System32", "WindowsPowerShell", "v1.0", "powershell.exe")
		cmd = exec.CommandContext(ctx, powershell, "-NoProfile", "-NonInteractive", "-Command", cmdStr)
	} else {
		cmd = exec.CommandContext(ctx, "sh", "-c", cmdStr)
	}
	// Children that inherit stderr would keep Wait blocked past cancellation.
	cmd.WaitDelay = time.Second
	return cmd
}
