package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"timecardcli/internal/config"
	apperrors "timecardcli/internal/errors"
	"timecardcli/internal/infrastructure"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and maps the outcome to a process exit code
func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)

	defer infrastructure.CloseLogFile()

	err := root.Execute()
	if err == nil {
		return config.ExitOK
	}

	var usage usageError
	switch {
	case errors.As(err, &usage):
		fmt.Fprintf(stderr, "Error: %v\n", usage.err)
		fmt.Fprintln(stderr, "Run 'timecard --help' for usage.")
		return config.ExitUsage
	case apperrors.IsType(err, apperrors.ErrTypeConfig):
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return config.ExitUsage
	case apperrors.IsType(err, apperrors.ErrTypeInputLoad):
		fmt.Fprintf(stderr, "Error loading data: %v\n", err)
		return config.ExitLoadError
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return config.ExitLoadError
	}
}

// usageError marks command-line mistakes
type usageError struct {
	err error
}

func (e usageError) Error() string {
	return e.err.Error()
}

func (e usageError) Unwrap() error {
	return e.err
}
