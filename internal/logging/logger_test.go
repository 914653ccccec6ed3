package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	defer SetLogger(Logger())

	t.Run("json output with component", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Init(Config{Level: "debug", Output: &buf}))

		l := WithComponent("mailbox")
		l.Debug().Str("id", "abc").Msg("hello")

		var line map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "mailbox", line["component"])
		assert.Equal(t, "abc", line["id"])
		assert.Equal(t, "debug", line["level"])
	})

	t.Run("level filters", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Init(Config{Level: "warn", Output: &buf}))

		l := Logger()
		l.Info().Msg("dropped")
		assert.Zero(t, buf.Len())
	})

	t.Run("invalid values", func(t *testing.T) {
		assert.Error(t, Init(Config{Level: "loud"}))
		assert.Error(t, Init(Config{Format: "xml"}))
	})
}
