package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/fwojciec/vidgrade/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("info level hides debug", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logging.New(&buf, false)
		log.Debug().Msg("hidden")
		log.Info().Str("grade", "A").Msg("scored")

		out := buf.String()
		assert.NotContains(t, out, "hidden")
		assert.Contains(t, out, "scored")
		assert.Contains(t, out, "grade=A")
		assert.NotContains(t, out, "\x1b[", "non-terminal output is not colored")
	})

	t.Run("verbose shows debug", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logging.New(&buf, true)
		log.Debug().Msg("details")

		assert.Contains(t, buf.String(), "details")
	})
}

func TestNewJSON_Component(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logging.Component(logging.NewJSON(&buf, false), "pipeline")
	log.Info().Msg("run")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "pipeline", entry["component"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "run", entry["message"])
	assert.Contains(t, entry, "time")
}
