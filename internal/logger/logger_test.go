package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	InitializeWithWriter("info", "json", &buf)
	t.Cleanup(func() { Initialize("info", "text") })

	Decision("payment", "approve", 12, "pending", "approved", 1)
	Debug("hidden at info level")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "Lifecycle decision applied", entry["msg"])
	assert.Equal(t, "payment", entry["entity"])
	assert.Equal(t, "approved", entry["to"])
	assert.Equal(t, "pamoja", entry["app"])
}

func TestDatabaseResult_ErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	InitializeWithWriter("error", "text", &buf)
	t.Cleanup(func() { Initialize("info", "text") })

	DatabaseResult("UPDATE", 0, nil)
	assert.Empty(t, buf.String())

	DatabaseResult("UPDATE", 0, errors.New("deadlock"))
	assert.Contains(t, buf.String(), "deadlock")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLevel("debug").String())
	assert.Equal(t, "WARN", parseLevel("warning").String())
	assert.Equal(t, "INFO", parseLevel("nonsense").String())
}
