package cli_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sagarc03/tomato"
	"github.com/sagarc03/tomato/cli"
	"github.com/sagarc03/tomato/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustValue(t *testing.T, x any) tomato.Value {
	t.Helper()
	v, err := tomato.ValueOf(x)
	require.NoError(t, err)
	return v
}

func TestNewFormatter(t *testing.T) {
	t.Run("json formatter", func(t *testing.T) {
		formatter := cli.NewFormatter(true, false)
		_, ok := formatter.(*cli.JSONFormatter)
		assert.True(t, ok)
	})

	t.Run("human formatter", func(t *testing.T) {
		formatter := cli.NewFormatter(false, false)
		_, ok := formatter.(*cli.HumanFormatter)
		assert.True(t, ok)
	})

	t.Run("human formatter quiet", func(t *testing.T) {
		formatter := cli.NewFormatter(false, true)
		hf, ok := formatter.(*cli.HumanFormatter)
		require.True(t, ok)
		assert.True(t, hf.Quiet)
	})
}

func TestHumanFormatter_FormatValue(t *testing.T) {
	formatter := &cli.HumanFormatter{NoColor: true}

	t.Run("scalar", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, formatter.FormatValue(&buf, "logging.level", tomato.Scalar("DEBUG")))
		assert.Equal(t, "DEBUG\n", buf.String())
	})

	t.Run("table is flattened in order", func(t *testing.T) {
		tbl := tomato.NewTable()
		tbl.Set("level", tomato.Scalar("DEBUG"))
		tbl.Set("targets", tomato.Sequence(tomato.Scalar("stderr"), tomato.Scalar("file")))
		tbl.Set("file", tomato.Scalar("/var/log/tomato.log"))

		var buf bytes.Buffer
		require.NoError(t, formatter.FormatValue(&buf, "logging", tomato.TableValue(tbl)))
		assert.Equal(t,
			"logging.level = DEBUG\n"+
				"logging.targets.0 = stderr\n"+
				"logging.targets.1 = file\n"+
				"logging.file = /var/log/tomato.log\n",
			buf.String())
	})

	t.Run("empty table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, formatter.FormatValue(&buf, "app", tomato.TableValue(nil)))
		assert.Equal(t, "app is empty\n", buf.String())
	})
}

func TestHumanFormatter_FormatSources(t *testing.T) {
	formatter := &cli.HumanFormatter{NoColor: true}

	t.Run("with sources", func(t *testing.T) {
		var buf bytes.Buffer
		err := formatter.FormatSources(&buf, []source.Source{
			{Path: "/work/var/etc/defaults.toml", Priority: 0, Role: source.RoleDefaults},
			{Path: "/home/me/.tomato.toml", Priority: 1, Role: source.RoleUser},
		})
		require.NoError(t, err)

		output := buf.String()
		assert.Contains(t, output, "PRIORITY")
		assert.Contains(t, output, "defaults  /work/var/etc/defaults.toml")
		assert.Contains(t, output, "user      /home/me/.tomato.toml")
	})

	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, formatter.FormatSources(&buf, nil))
		assert.Equal(t, "No configuration files found\n", buf.String())
	})
}

func TestHumanFormatter_Quiet(t *testing.T) {
	formatter := &cli.HumanFormatter{Quiet: true, NoColor: true}

	var buf bytes.Buffer
	require.NoError(t, formatter.FormatWrite(&buf, "/tmp/out.toml"))
	require.NoError(t, formatter.FormatReload(&buf, nil))
	assert.Empty(t, buf.String())
}

func TestHumanFormatter_FormatQuery(t *testing.T) {
	formatter := &cli.HumanFormatter{NoColor: true}
	results := []any{"text", nil, map[string]any{"a": 1}}

	t.Run("raw", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, formatter.FormatQuery(&buf, results, true))
		assert.Equal(t, "text\n{\n  \"a\": 1\n}\n", buf.String())
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, formatter.FormatQuery(&buf, results, false))
		assert.Equal(t, "\"text\"\nnull\n{\n  \"a\": 1\n}\n", buf.String())
	})
}

func TestHumanFormatter_FormatError(t *testing.T) {
	formatter := &cli.HumanFormatter{NoColor: true}

	var buf bytes.Buffer
	require.NoError(t, formatter.FormatError(&buf, errors.New("something went wrong")))
	assert.Equal(t, "Error: something went wrong\n", buf.String())
}

func TestJSONFormatter_FormatValue(t *testing.T) {
	formatter := &cli.JSONFormatter{}

	var buf bytes.Buffer
	v := mustValue(t, map[string]any{"array": []any{1, 2, 3}})
	require.NoError(t, formatter.FormatValue(&buf, "table2", v))

	var result map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, "table2", result["key"])
	assert.Equal(t, "table", result["kind"])
	assert.Equal(t, map[string]any{"array": []any{1.0, 2.0, 3.0}}, result["value"])
}

func TestJSONFormatter_FormatSources(t *testing.T) {
	formatter := &cli.JSONFormatter{}

	var buf bytes.Buffer
	err := formatter.FormatSources(&buf, []source.Source{
		{Path: "/etc/a.toml", Priority: 0, Role: source.RoleOverride},
	})
	require.NoError(t, err)

	var result struct {
		Sources []struct {
			Path     string `json:"path"`
			Priority int    `json:"priority"`
			Role     string `json:"role"`
		} `json:"sources"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	require.Len(t, result.Sources, 1)
	assert.Equal(t, "/etc/a.toml", result.Sources[0].Path)
	assert.Equal(t, "override", result.Sources[0].Role)

	buf.Reset()
	require.NoError(t, formatter.FormatSources(&buf, nil))
	assert.JSONEq(t, `{"sources": []}`, buf.String())
}

func TestJSONFormatter_Others(t *testing.T) {
	formatter := &cli.JSONFormatter{}

	var buf bytes.Buffer
	require.NoError(t, formatter.FormatWrite(&buf, "/tmp/out.toml"))
	assert.JSONEq(t, `{"written": "/tmp/out.toml"}`, buf.String())

	buf.Reset()
	require.NoError(t, formatter.FormatReload(&buf, make([]source.Source, 2)))
	assert.JSONEq(t, `{"reloaded": true, "files": 2}`, buf.String())

	buf.Reset()
	require.NoError(t, formatter.FormatQuery(&buf, nil, false))
	assert.JSONEq(t, `[]`, buf.String())

	buf.Reset()
	require.NoError(t, formatter.FormatError(&buf, errors.New("boom")))
	assert.JSONEq(t, `{"error": "boom"}`, buf.String())
}
