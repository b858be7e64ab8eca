package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/sagarc03/tomato"
	"github.com/sagarc03/tomato/cli"
	"github.com/sagarc03/tomato/config"
	"github.com/sagarc03/tomato/filesystem"
	"github.com/spf13/cobra"
)

var (
	getDefault  string
	showFormat  string
	writeForce  bool
	queryRawOut bool
)

var etcCmd = &cobra.Command{
	Use:   "etc",
	Short: "Inspect and write the merged configuration",
}

var etcGetCmd = &cobra.Command{
	Use:   "get KEY [KEY...]",
	Short: "Print the value at a key path",
	Long: `Print the value at a key path. Each KEY is one segment of the path; a
single KEY is split on dots. A numeric segment indexes into a sequence.

Examples:
  tomato etc get logging level
  tomato etc get logging.level
  tomato etc get servers 0 host
  tomato etc get app.timeout --default 30`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGet,
}

var etcShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the merged configuration",
	Args:  cobra.NoArgs,
	RunE:  runShow,
}

var etcSourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the loaded configuration files, lowest priority first",
	Args:  cobra.NoArgs,
	RunE:  runSources,
}

var etcWriteCmd = &cobra.Command{
	Use:   "write PATH",
	Short: "Write the merged configuration to a file",
	Long: `Write the merged configuration to PATH. The format follows the file
extension (.toml, .yaml, .yml, .json). The directory must already exist.

Examples:
  tomato etc write ~/.tomato.toml
  tomato etc write /tmp/snapshot.json --force`,
	Args: cobra.ExactArgs(1),
	RunE: runWrite,
}

var etcQueryCmd = &cobra.Command{
	Use:   "query FILTER",
	Short: "Run a jq filter over the merged configuration",
	Long: `Run a jq filter over the merged configuration.

Examples:
  tomato etc query '.logging | keys'
  tomato etc query -r '.logging.level'`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

var etcReloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Discard the loaded state and read every file again",
	Args:  cobra.NoArgs,
	RunE:  runReload,
}

func init() {
	etcCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	etcCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")

	etcGetCmd.Flags().StringVarP(&getDefault, "default", "d", "", "value printed when the key is missing")
	etcShowCmd.Flags().StringVarP(&showFormat, "format", "f", "", "output format: toml, yaml, json (default: toml)")
	etcWriteCmd.Flags().BoolVar(&writeForce, "force", false, "replace an existing file without asking")
	etcQueryCmd.Flags().BoolVarP(&queryRawOut, "raw", "r", false, "print strings without quotes")

	etcCmd.AddCommand(etcGetCmd)
	etcCmd.AddCommand(etcShowCmd)
	etcCmd.AddCommand(etcSourcesCmd)
	etcCmd.AddCommand(etcWriteCmd)
	etcCmd.AddCommand(etcQueryCmd)
	etcCmd.AddCommand(etcReloadCmd)
}

// getFormatter returns the appropriate formatter based on flags.
func getFormatter() cli.Formatter {
	return cli.NewFormatter(jsonOutput, quiet)
}

// fail reports err in the selected output format.
func fail(cmd *cobra.Command, err error) error {
	_ = getFormatter().FormatError(cmd.ErrOrStderr(), err)
	return &exitError{err: err}
}

func keyPath(args []string) []any {
	path := make([]any, len(args))
	for i, arg := range args {
		path[i] = arg
	}
	return path
}

func runGet(cmd *cobra.Command, args []string) error {
	store, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	path := keyPath(args)
	var v tomato.Value
	if cmd.Flags().Changed("default") {
		v, err = store.GetOr(tomato.Scalar(getDefault), path...)
	} else {
		v, err = store.Get(path...)
	}
	if err != nil {
		return fail(cmd, err)
	}

	return getFormatter().FormatValue(cmd.OutOrStdout(), strings.Join(args, "."), v)
}

func runShow(cmd *cobra.Command, _ []string) error {
	store, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	format := showFormat
	if format == "" {
		format = store.Options().Format
	}
	if err := store.Encode(cmd.OutOrStdout(), format); err != nil {
		return fail(cmd, err)
	}
	return nil
}

func runSources(cmd *cobra.Command, _ []string) error {
	store, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}
	return getFormatter().FormatSources(cmd.OutOrStdout(), store.Sources())
}

func runWrite(cmd *cobra.Command, args []string) error {
	store, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	path, err := store.AbsPath(args[0])
	if err != nil {
		return fail(cmd, err)
	}

	exists, err := filesystem.NewOsStore().Exists(path)
	if err != nil {
		return fail(cmd, err)
	}
	if exists && !writeForce {
		prompt := promptui.Prompt{
			Label:     fmt.Sprintf("File '%s' already exists. Replace it", path),
			IsConfirm: true,
		}
		if _, promptErr := prompt.Run(); promptErr != nil {
			if !errors.Is(promptErr, promptui.ErrAbort) && !errors.Is(promptErr, promptui.ErrInterrupt) {
				return fail(cmd, promptErr)
			}
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Cancelled.")
			return nil
		}
	}

	if err := store.Write(path); err != nil {
		return fail(cmd, err)
	}
	return getFormatter().FormatWrite(cmd.OutOrStdout(), path)
}

func runQuery(cmd *cobra.Command, args []string) error {
	store, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	results, err := cli.Query(store.Document(), args[0])
	if err != nil {
		return fail(cmd, err)
	}
	return getFormatter().FormatQuery(cmd.OutOrStdout(), results, queryRawOut)
}

func runReload(cmd *cobra.Command, _ []string) error {
	store, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	if err := store.Reload(); err != nil {
		return fail(cmd, err)
	}
	return getFormatter().FormatReload(cmd.OutOrStdout(), store.Sources())
}
