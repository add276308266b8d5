package chroma_test

import (
	"bytes"
	"testing"

	"github.com/fwojciec/vidgrade/chroma"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `{"overall_score": 75.5, "grade": "B+", "issues": []}`

func TestHighlighter_Highlight(t *testing.T) {
	t.Parallel()

	t.Run("colors JSON for terminals", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		err := chroma.NewHighlighter("", "").Highlight(&buf, sample)

		require.NoError(t, err)
		assert.Contains(t, buf.String(), "\x1b[")
		assert.Contains(t, buf.String(), "overall_score")
		assert.Contains(t, buf.String(), "75.5")
	})

	t.Run("plain formatter leaves text unchanged", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		err := chroma.NewHighlighter(chroma.DefaultStyle, chroma.PlainFormatter).Highlight(&buf, sample)

		require.NoError(t, err)
		assert.Equal(t, sample, buf.String())
	})

	t.Run("unknown style falls back", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		err := chroma.NewHighlighter("no-such-style", chroma.PlainFormatter).Highlight(&buf, sample)

		require.NoError(t, err)
		assert.Equal(t, sample, buf.String())
	})
}
