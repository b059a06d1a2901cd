package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/Matgenix/abiflows/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config, a
// boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("abiflow", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
abiflow - assemble ab initio workflows and submit them to the launchpad.

Usage:
  abiflow [options] [FLOW_PATH]

Arguments:
  FLOW_PATH
    Path to a single .hcl flow file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	flowFlag := flagSet.String("flow", "", "Path to the flow file or directory.")
	fFlag := flagSet.String("f", "", "Path to the flow file or directory (shorthand).")
	launchpadFlag := flagSet.String("launchpad", "launchpad.yaml", "Path to the launchpad YAML configuration.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	cleanupFlag := flagSet.Bool("cleanup", false, "Append a final cleanup container to every flow.")
	dryRunFlag := flagSet.Bool("dry-run", false, "Assemble and summarize the flows without submitting them.")
	harvestFlag := flagSet.String("harvest", "", "Harvest results for the given workflow id instead of submitting.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	path := ""
	if *flowFlag != "" {
		path = *flowFlag
	} else if *fFlag != "" {
		path = *fFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}

	if path == "" && *harvestFlag == "" {
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	config, err := app.NewConfig(app.Config{
		FlowPath:      path,
		LaunchpadPath: *launchpadFlag,
		LogFormat:     logFormat,
		LogLevel:      logLevel,
		AddCleanup:    *cleanupFlag,
		DryRun:        *dryRunFlag,
		HarvestID:     *harvestFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	return config, false, nil
}
