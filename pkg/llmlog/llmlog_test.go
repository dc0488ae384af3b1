package llmlog

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestEnabled(t *testing.T) {
	log := quietLogger()

	assert.False(t, New("", log).Enabled())
	assert.True(t, New(t.TempDir(), log).Enabled())

	var nilLogger *Logger
	assert.False(t, nilLogger.Enabled())
}

func TestSuccess(t *testing.T) {
	dir := t.TempDir()
	l := New(dir, quietLogger())

	l.Success("Network_adapters", "the prompt", "the response")

	data, err := os.ReadFile(filepath.Join(dir, "Network_adapters_llm_interaction.json"))
	require.NoError(t, err)

	var rec Record
	require.NoError(t, json.Unmarshal(data, &rec))
	assert.Equal(t, "Network_adapters", rec.Section)
	assert.Equal(t, "the prompt", rec.Prompt)
	assert.Equal(t, "the response", rec.Response)
	assert.Equal(t, "success", rec.Status)
	assert.Empty(t, rec.Error)
	assert.NotEmpty(t, rec.Timestamp)
}

func TestFailure(t *testing.T) {
	dir := t.TempDir()
	l := New(dir, quietLogger())

	l.Failure("Path", "the prompt", "boom", "stack here")

	data, err := os.ReadFile(filepath.Join(dir, "Path_llm_interaction.json"))
	require.NoError(t, err)

	var rec Record
	require.NoError(t, json.Unmarshal(data, &rec))
	assert.Equal(t, "error", rec.Status)
	assert.Equal(t, "boom", rec.Error)
	assert.Equal(t, "stack here", rec.Traceback)
	assert.Empty(t, rec.Response)
}

func TestDisabledWritesNothing(t *testing.T) {
	l := New("", quietLogger())
	l.Success("Key", "p", "r")
	l.Failure("Key", "p", "e", "")
	// nothing to assert beyond not panicking with no directory
}

func TestDirectoryIsCreatedOnDemand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")
	l := New(dir, quietLogger())

	l.Success("Key", "p", "r")

	_, err := os.Stat(filepath.Join(dir, "Key_llm_interaction.json"))
	assert.NoError(t, err)
}
