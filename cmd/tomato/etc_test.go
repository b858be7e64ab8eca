package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/sagarc03/tomato"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDefaults = `[logging]
level = "INFO"
format = "json"

[app]
name = "demo"
ports = [80, 443]
`

// setupCLI prepares a working directory with a defaults file and an empty
// home directory, and returns the home directory.
func setupCLI(t *testing.T) (workDir, homeDir string) {
	t.Helper()

	workDir = t.TempDir()
	homeDir = t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(workDir, "var", "etc"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(workDir, "var", "etc", "defaults.toml"), []byte(testDefaults), 0o644))

	t.Chdir(workDir)
	t.Setenv("HOME", homeDir)
	t.Setenv("TOMATO_ETC_FILE", "")
	for _, key := range []string{"TOMATO_LOGGING_LEVEL", "TOMATO_LOGGING_FILE", "TOMATO_LOGGING_FORMAT"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	return workDir, homeDir
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	resetFlags(rootCmd)
	t.Cleanup(func() {
		if logCloser != nil {
			_ = logCloser.Close()
			logCloser = nil
		}
	})

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err = rootCmd.Execute()
	return out.String(), errOut.String(), err
}

// resetFlags restores every flag of cmd and its children to its default, as
// flag values and Changed survive between Execute calls.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func TestEtcGet(t *testing.T) {
	setupCLI(t)

	out, _, err := execute(t, "etc", "get", "logging.level")
	require.NoError(t, err)
	assert.Equal(t, "INFO\n", out)

	out, _, err = execute(t, "etc", "get", "app", "ports", "1")
	require.NoError(t, err)
	assert.Equal(t, "443\n", out)

	out, _, err = execute(t, "etc", "get", "app", "timeout", "--default", "30")
	require.NoError(t, err)
	assert.Equal(t, "30\n", out)
}

func TestEtcGet_Missing(t *testing.T) {
	setupCLI(t)

	_, stderr, err := execute(t, "etc", "get", "app.timeout")
	require.ErrorIs(t, err, tomato.ErrMissingKey)
	assert.Contains(t, stderr, "missing key")
}

func TestEtcGet_JSON(t *testing.T) {
	setupCLI(t)

	out, _, err := execute(t, "etc", "get", "app", "--json")
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "app", result["key"])
	assert.Equal(t, "table", result["kind"])
}

func TestEtcGet_UserFileOverrides(t *testing.T) {
	_, home := setupCLI(t)
	require.NoError(t, os.WriteFile(filepath.Join(home, ".tomato.toml"), []byte("[app]\nname = \"mine\"\n"), 0o644))

	out, _, err := execute(t, "etc", "get", "app.name")
	require.NoError(t, err)
	assert.Equal(t, "mine\n", out)
}

func TestEtcGet_OverrideFromEnv(t *testing.T) {
	work, _ := setupCLI(t)
	override := filepath.Join(work, "local.yaml")
	require.NoError(t, os.WriteFile(override, []byte("app:\n  name: local\n"), 0o644))
	t.Setenv("TOMATO_ETC_FILE", override)

	out, _, err := execute(t, "etc", "get", "app.name")
	require.NoError(t, err)
	assert.Equal(t, "local\n", out)
}

func TestEtcSources(t *testing.T) {
	work, _ := setupCLI(t)

	out, _, err := execute(t, "etc", "sources", "--json")
	require.NoError(t, err)

	var result struct {
		Sources []struct {
			Path string `json:"path"`
			Role string `json:"role"`
		} `json:"sources"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Sources, 1)
	assert.Equal(t, "defaults", result.Sources[0].Role)

	want, err := filepath.EvalSymlinks(filepath.Join(work, "var", "etc", "defaults.toml"))
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(result.Sources[0].Path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestEtcShow(t *testing.T) {
	setupCLI(t)

	out, _, err := execute(t, "etc", "show", "--format", "json")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, map[string]any{"level": "INFO", "format": "json"}, doc["logging"])
}

func TestEtcWrite(t *testing.T) {
	_, home := setupCLI(t)

	out, _, err := execute(t, "etc", "write", "~/snapshot.yaml", "--json")
	require.NoError(t, err)

	path := filepath.Join(home, "snapshot.yaml")
	assert.JSONEq(t, `{"written": "`+path+`"}`, out)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "name: demo")

	// Existing files need --force without a terminal to confirm on.
	_, _, err = execute(t, "etc", "write", "~/snapshot.yaml", "--force", "-q")
	require.NoError(t, err)
}

func TestEtcWrite_MissingDirectory(t *testing.T) {
	_, home := setupCLI(t)

	_, _, err := execute(t, "etc", "write", filepath.Join(home, "missing", "out.toml"))
	require.ErrorIs(t, err, tomato.ErrDirectoryNotFound)
}

func TestEtcQuery(t *testing.T) {
	setupCLI(t)

	out, _, err := execute(t, "etc", "query", "-r", ".app.name")
	require.NoError(t, err)
	assert.Equal(t, "demo\n", out)

	out, _, err = execute(t, "etc", "query", "--json", ".app.ports | add")
	require.NoError(t, err)
	assert.JSONEq(t, `[523]`, out)
}

func TestEtcReload(t *testing.T) {
	setupCLI(t)

	out, _, err := execute(t, "etc", "reload")
	require.NoError(t, err)
	assert.Equal(t, "Reloaded 1 configuration file(s)\n", out)
}

func TestRoot_InvalidLogLevel(t *testing.T) {
	setupCLI(t)

	_, _, err := execute(t, "--log", "verbose", "etc", "sources")
	assert.ErrorContains(t, err, `invalid argument "verbose" for "--log" flag`)
}

func TestRoot_LogFile(t *testing.T) {
	work, home := setupCLI(t)
	logPath := filepath.Join(work, "tomato.log")

	_, _, err := execute(t, "--logfile", logPath, "etc", "write", filepath.Join(home, "out.toml"))
	require.NoError(t, err)

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "configuration written")
}

func TestRoot_LogFileMissingDirectory(t *testing.T) {
	work, _ := setupCLI(t)

	_, _, err := execute(t, "--logfile", filepath.Join(work, "missing", "tomato.log"), "etc", "sources")
	require.ErrorIs(t, err, tomato.ErrDirectoryNotFound)
}

func TestRoot_Version(t *testing.T) {
	out, _, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, "CLI API for 'tomato', version: dev\n", out)
}

func TestRoot_StrictDefaults(t *testing.T) {
	work, _ := setupCLI(t)
	require.NoError(t, os.Remove(filepath.Join(work, "var", "etc", "defaults.toml")))

	_, _, err := execute(t, "etc", "sources")
	require.NoError(t, err)

	_, _, err = execute(t, "--strict-defaults", "etc", "sources")
	require.ErrorIs(t, err, tomato.ErrDefaultsUnavailable)
}
