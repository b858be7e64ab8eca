package main

import (
	"fmt"

	"github.com/sagarc03/tomato/config"
	"github.com/sagarc03/tomato/filesystem"
	"github.com/spf13/cobra"
)

// bootstrap loads the configuration, installs logging from it and attaches
// the store to the command context.
func bootstrap(cmd *cobra.Command, _ []string) error {
	if f := cmd.Flags().Lookup("log"); f != nil && f.Changed {
		if _, err := parseLevel(f.Value.String()); err != nil {
			return fmt.Errorf("invalid argument %q for \"--log\" flag: %w", f.Value.String(), err)
		}
	}

	// Usage is only useful for flag errors.
	cmd.SilenceUsage = true

	strict, err := cmd.Flags().GetBool("strict-defaults")
	if err != nil {
		return err
	}

	store, err := config.New(
		config.Options{AppName: appName, StrictDefaults: strict},
		config.WithLogger(deferredLogger()),
	)
	if err != nil {
		return err
	}
	if err := store.Init(false); err != nil {
		return err
	}

	settings, err := store.Settings(cmd.Flags())
	if err != nil {
		return err
	}

	logPath := ""
	if settings.Logging.File != "" {
		if logPath, err = store.AbsPath(settings.Logging.File); err != nil {
			return err
		}
		if err := filesystem.NewOsStore().CheckWritable(logPath); err != nil {
			return fmt.Errorf("log file %s: %w", logPath, err)
		}
	}

	if logCloser, err = setupLogging(settings.Logging, logPath); err != nil {
		return err
	}

	cmd.SetContext(config.WithContext(cmd.Context(), store))
	return nil
}
