package llmlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// Record captures one LLM interaction: the prompt sent and either the
// response or the failure. Records are write-once, one file per
// section (and category, for chunked sections).
type Record struct {
	Timestamp string `json:"timestamp"`
	Section   string `json:"section"`
	Prompt    string `json:"prompt"`
	Response  string `json:"response,omitempty"`
	Error     string `json:"error,omitempty"`
	Traceback string `json:"traceback,omitempty"`
	Status    string `json:"status"`
}

// Logger persists LLM interaction records to a directory. A nil Logger
// or one created with an empty directory is a no-op, so callers never
// need to branch on whether interaction logging is configured.
type Logger struct {
	dir string
	log logrus.FieldLogger
}

// New creates an interaction logger writing to dir. Pass an empty dir
// to disable logging.
func New(dir string, log logrus.FieldLogger) *Logger {
	return &Logger{dir: dir, log: log}
}

// Enabled reports whether records will actually be written.
func (l *Logger) Enabled() bool {
	return l != nil && l.dir != ""
}

// Success records a completed interaction under the given key.
func (l *Logger) Success(key, prompt, response string) {
	l.save(key, Record{
		Timestamp: time.Now().Format(time.RFC3339),
		Section:   key,
		Prompt:    prompt,
		Response:  response,
		Status:    "success",
	})
}

// Failure records a failed interaction under the given key.
func (l *Logger) Failure(key, prompt, errMsg, traceback string) {
	l.save(key, Record{
		Timestamp: time.Now().Format(time.RFC3339),
		Section:   key,
		Prompt:    prompt,
		Error:     errMsg,
		Traceback: traceback,
		Status:    "error",
	})
}

func (l *Logger) save(key string, rec Record) {
	if !l.Enabled() {
		return
	}
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		l.log.Warnf("Could not create LLM log directory %s: %v", l.dir, err)
		return
	}

	path := filepath.Join(l.dir, fmt.Sprintf("%s_llm_interaction.json", key))
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		l.log.Warnf("Could not encode LLM interaction record for %s: %v", key, err)
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		l.log.Warnf("Could not write LLM interaction log %s: %v", path, err)
		return
	}
	l.log.Debugf("Saved LLM interaction log to %s", path)
}
