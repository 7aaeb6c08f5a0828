package logutil

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LevelTrace)
	logger.Log(context.Background(), LevelTrace, "states generated", "count", 7)

	out := buf.String()
	assert.Contains(t, out, "level=TRACE")
	assert.Contains(t, out, "source=logutil_test.go:")
	assert.Contains(t, out, "count=7")
	assert.NotContains(t, out, "time=")
}

func TestTrace(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	var buf bytes.Buffer
	slog.SetDefault(NewLogger(&buf, LevelTrace))
	Trace("computed sets", "passes", 3)
	assert.Contains(t, buf.String(), "msg=\"computed sets\"")
	assert.Contains(t, buf.String(), "passes=3")

	buf.Reset()
	slog.SetDefault(NewLogger(&buf, slog.LevelDebug))
	Trace("computed sets", "passes", 3)
	assert.True(t, strings.TrimSpace(buf.String()) == "")
}
