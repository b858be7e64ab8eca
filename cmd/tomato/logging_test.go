package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tt := []struct {
		In   string
		Want slog.Level
	}{
		{In: "debug", Want: slog.LevelDebug},
		{In: "DEBUG", Want: slog.LevelDebug},
		{In: " info ", Want: slog.LevelInfo},
		{In: "", Want: slog.LevelInfo},
		{In: "warn", Want: slog.LevelWarn},
		{In: "Warning", Want: slog.LevelWarn},
		{In: "error", Want: slog.LevelError},
	}

	for _, tc := range tt {
		t.Run(tc.In, func(t *testing.T) {
			got, err := parseLevel(tc.In)
			require.NoError(t, err)
			assert.Equal(t, tc.Want, got)
		})
	}

	_, err := parseLevel("verbose")
	assert.ErrorContains(t, err, `unknown log level "verbose"`)
}

func TestNewLogHandler_JSON(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		Name   string
		Format string
		TTY    bool
	}{
		{Name: "explicit", Format: "json", TTY: true},
		{Name: "auto without terminal", Format: "auto", TTY: false},
	} {
		t.Run(tc.Name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(newLogHandler(&buf, tc.Format, slog.LevelInfo, tc.TTY))
			logger.Info("hello", "key", "value")
			logger.Debug("hidden")

			var record map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
			assert.Equal(t, "hello", record["msg"])
			assert.Equal(t, "value", record["key"])
			assert.Contains(t, record, "ts")
			assert.NotContains(t, record, "time")
		})
	}
}

func TestNewLogHandler_Text(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(newLogHandler(&buf, "text", slog.LevelWarn, false))
	logger.Info("hidden")
	logger.Warn("careful", "path", "/tmp/x")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "WRN careful path=/tmp/x")
	assert.NotContains(t, out, "\x1b[")
}

func TestDeferredHandler(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	logger := deferredLogger().With("component", "store").WithGroup("load")

	var buf bytes.Buffer
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	logger.Info("loaded", "files", 2)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "loaded", record["msg"])
	assert.Equal(t, "store", record["component"])
	assert.Equal(t, map[string]any{"files": 2.0}, record["load"])
}

func TestBuildLogHandler_ConsoleKeepsColourWithFile(t *testing.T) {
	t.Parallel()

	var console, file bytes.Buffer
	logger := slog.New(buildLogHandler(&console, &file, "auto", slog.LevelInfo, true))
	logger.With("path", "/tmp/x").Info("written", "bytes", 3)
	logger.Debug("hidden")

	assert.Contains(t, console.String(), "\x1b[")
	assert.Contains(t, console.String(), "written")
	assert.NotContains(t, console.String(), "hidden")

	var record map[string]any
	require.NoError(t, json.Unmarshal(file.Bytes(), &record))
	assert.Equal(t, "written", record["msg"])
	assert.Equal(t, "/tmp/x", record["path"])
	assert.Equal(t, 3.0, record["bytes"])
	assert.NotContains(t, file.String(), "\x1b[")
}

func TestBuildLogHandler_TextFileHasNoColour(t *testing.T) {
	t.Parallel()

	var console, file bytes.Buffer
	logger := slog.New(buildLogHandler(&console, &file, "text", slog.LevelInfo, true))
	logger.Warn("careful")

	assert.Contains(t, console.String(), "\x1b[")
	assert.Contains(t, file.String(), "WRN careful")
	assert.NotContains(t, file.String(), "\x1b[")
}

func TestBuildLogHandler_NoFile(t *testing.T) {
	t.Parallel()

	var console bytes.Buffer
	h := buildLogHandler(&console, nil, "json", slog.LevelInfo, false)
	_, isFanout := h.(fanoutHandler)
	assert.False(t, isFanout)
}
