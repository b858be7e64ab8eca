package cli_test

import (
	"testing"
	"time"

	"github.com/sagarc03/tomato"
	"github.com/sagarc03/tomato/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queryDoc() *tomato.Table {
	logging := tomato.NewTable()
	logging.Set("level", tomato.Scalar("DEBUG"))
	logging.Set("rotate", tomato.Scalar(7))

	doc := tomato.NewTable()
	doc.Set("logging", tomato.TableValue(logging))
	doc.Set("ports", tomato.Sequence(tomato.Scalar(80), tomato.Scalar(443)))
	doc.Set("since", tomato.Scalar(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))
	return doc
}

func TestQuery(t *testing.T) {
	t.Parallel()

	tt := []struct {
		Name   string
		Filter string
		Want   []any
	}{
		{Name: "field", Filter: ".logging.level", Want: []any{"DEBUG"}},
		{Name: "integer", Filter: ".logging.rotate + 1", Want: []any{8}},
		{Name: "iterate", Filter: ".ports[]", Want: []any{80, 443}},
		{Name: "keys", Filter: ".logging | keys", Want: []any{[]any{"level", "rotate"}}},
		{Name: "time as string", Filter: ".since", Want: []any{"2024-01-02T03:04:05Z"}},
		{Name: "missing", Filter: ".nope", Want: []any{nil}},
		{Name: "empty", Filter: "empty", Want: nil},
	}

	for _, tc := range tt {
		t.Run(tc.Name, func(t *testing.T) {
			got, err := cli.Query(queryDoc(), tc.Filter)
			require.NoError(t, err)
			assert.Equal(t, tc.Want, got)
		})
	}
}

func TestQuery_Errors(t *testing.T) {
	t.Parallel()

	_, err := cli.Query(queryDoc(), ".logging[")
	assert.ErrorContains(t, err, "parse error")

	_, err = cli.Query(queryDoc(), "$undefined")
	assert.ErrorContains(t, err, "compile error")

	_, err = cli.Query(queryDoc(), ".logging.level + 1")
	assert.ErrorContains(t, err, "execution error")
}
