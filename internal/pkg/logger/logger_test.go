package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogErrorWritesStructuredFields(t *testing.T) {
	l := New(DEBUG, "production")
	var buf bytes.Buffer
	l.SetOutput(&buf)

	l.LogError("reports", "Process", "conditional update", map[string]any{"report_id": 7}, errors.New("db down"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "reports", entry["module"])
	assert.Equal(t, "Process", entry["function"])
	assert.Equal(t, "db down", entry["error"])
	assert.Equal(t, "error", entry["level"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DEBUG, ParseLevel("debug"))
	assert.Equal(t, WARN, ParseLevel(" WARN "))
	assert.Equal(t, INFO, ParseLevel("nonsense"))
}
