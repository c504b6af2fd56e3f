package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCslLogger_Levels(t *testing.T) {
	ctx := context.Background()

	t.Run("drops messages below the minimum level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newCslLogger(&buf, "ginder", "warn")

		logger.Debug(ctx, "debug %d", 1)
		logger.Info(ctx, "info %d", 2)
		logger.Warn(ctx, "warn %d", 3)
		logger.Error(ctx, "error %d", 4)

		out := buf.String()
		assert.NotContains(t, out, "debug 1")
		assert.NotContains(t, out, "info 2")
		assert.Contains(t, out, "[WARN][ginder] warn 3")
		assert.Contains(t, out, "[ERROR][ginder] error 4")
	})

	t.Run("unknown level defaults to info", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newCslLogger(&buf, "", "verbose")

		logger.Debug(ctx, "hidden")
		logger.Notice(ctx, "shown")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "[NOTICE]shown")
	})
}

func TestCslLogger_SetLevel(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	logger := newCslLogger(&buf, "ginder", "info")
	var _ LevelSetter = logger

	logger.Debug(ctx, "before")
	require.NoError(t, logger.SetLevel("DEBUG"))
	logger.Debug(ctx, "after")

	assert.NotContains(t, buf.String(), "before")
	assert.Contains(t, buf.String(), "[DEBUG][ginder] after")

	assert.Error(t, logger.SetLevel("verbose"))
	logger.Debug(ctx, "still debug")
	assert.Contains(t, buf.String(), "still debug")
}
