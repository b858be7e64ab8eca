package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sagarc03/tomato/cli"
	"github.com/spf13/cobra"
)

const appName = "tomato"

var (
	version = "dev"

	jsonOutput bool
	quiet      bool

	// logCloser closes the log file opened by setupLogging, if any.
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:     appName,
	Version: version,
	Short:   "Layered configuration for command line applications",
	Long: `Tomato merges the configuration of an application from a defaults file,
a user file and override files into one document.

Files are read in this order, later files winning:
  - ./var/etc/defaults.toml
  - ~/.tomato.toml
  - every file listed in TOMATO_ETC_FILE (separated by ';'), or in a
    .tomato.env file found in the working directory or one of its parents

Missing or unreadable files are skipped with a warning. With
--strict-defaults the defaults file must exist and be readable.

Logging settings are read from the [logging] table of the merged document,
TOMATO_LOGGING_* environment variables and the flags below.`,
	SilenceErrors:     true,
	PersistentPreRunE: bootstrap,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("CLI API for '%s', version: {{.Version}}\n", appName))

	rootCmd.PersistentFlags().String("log", "", "log level: debug, info, warn, error (default: info, env: TOMATO_LOGGING_LEVEL)")
	rootCmd.PersistentFlags().String("logfile", "", "also write logs to this file (env: TOMATO_LOGGING_FILE)")
	rootCmd.PersistentFlags().Bool("strict-defaults", false, "fail when the defaults file is missing or unreadable")
	rootCmd.PersistentFlags().String("log-format", "", "log format: auto, text, json (default: auto, env: TOMATO_LOGGING_FORMAT)")

	rootCmd.AddCommand(etcCmd)
}

func main() {
	err := rootCmd.Execute()
	if logCloser != nil {
		_ = logCloser.Close()
	}
	if err == nil {
		return
	}

	var exitErr *exitError
	if !errors.As(err, &exitErr) {
		_ = cli.NewFormatter(jsonOutput, quiet).FormatError(os.Stderr, err)
	}
	os.Exit(1)
}

// exitError is returned when the error was already reported and only the
// exit code is left to set.
type exitError struct {
	err error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}
