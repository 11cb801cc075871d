// Package convtest provides public constants for scripts and CI jobs that
// invoke the convtest CLI.
package convtest

// Exit codes returned by the convtest CLI.
const (
	// ExitSuccess indicates every sample passed (or the command succeeded).
	ExitSuccess = 0

	// ExitFailure indicates at least one failed sample or an aborted run.
	ExitFailure = 1

	// ExitConfigError indicates an invalid configuration or converter graph.
	ExitConfigError = 2

	// ExitEnvError indicates an environment problem such as an unreadable samples directory.
	ExitEnvError = 3
)
