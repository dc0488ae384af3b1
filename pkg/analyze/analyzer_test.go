package analyze

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysstate/snapai/pkg/analyzers"
	"github.com/sysstate/snapai/pkg/llmlog"
	"github.com/sysstate/snapai/pkg/report"
)

type scriptedClient struct {
	respond func(prompt string) (string, error)
	model   string
	prompts []string
}

func (c *scriptedClient) Generate(prompt string) (string, error) {
	c.prompts = append(c.prompts, prompt)
	return c.respond(prompt)
}

func (c *scriptedClient) Model() string { return c.model }

func newTestAnalyzer(client *scriptedClient) *Analyzer {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return New(client, analyzers.Default(), log, llmlog.New("", log), "http://localhost:1234/v1")
}

func writeSection(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func newSnapshotDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeSection(t, dir, "metadata.json", `{"ComputerName": "PC-01", "OSVersion": "Windows 11 Pro"}`)
	return dir
}

const okResponse = `{"issues": [{"severity": "high", "title": "Found"}], "summary": "section done"}`

func TestAnalyzeSnapshot(t *testing.T) {
	t.Run("missing snapshot directory fails the run", func(t *testing.T) {
		a := newTestAnalyzer(&scriptedClient{respond: func(string) (string, error) { return okResponse, nil }})
		_, err := a.AnalyzeSnapshot(filepath.Join(t.TempDir(), "missing"), Options{})
		assert.Error(t, err)
	})

	t.Run("every loaded section gets a result plus a summary", func(t *testing.T) {
		dir := newSnapshotDir(t)
		writeSection(t, dir, "Path.json", `{"Data": [{"Path": "C:\\Windows", "Exists": true}]}`)
		writeSection(t, dir, "DiskSpace.json", `{"Data": [{"Name": "C", "Used": 100, "Free": 50}]}`)

		client := &scriptedClient{model: "test-model", respond: func(prompt string) (string, error) {
			if strings.Contains(prompt, "create an overall system summary") {
				return `{"overall_health": "good", "critical_issues_count": 0, "high_priority_issues_count": 2}`, nil
			}
			return okResponse, nil
		}}
		a := newTestAnalyzer(client)

		rep, err := a.AnalyzeSnapshot(dir, Options{})
		require.NoError(t, err)

		require.Len(t, rep.Sections, 2)
		assert.Equal(t, "section done", rep.Sections["Path"].Summary)
		assert.Equal(t, "section done", rep.Sections["DiskSpace"].Summary)

		assert.Equal(t, "good", rep.Summary.OverallHealth)
		assert.Equal(t, 2, rep.Summary.HighPriorityIssuesCount)

		assert.Equal(t, "test-model", rep.Metadata.Model)
		assert.Equal(t, Version, rep.Metadata.AnalyzerVersion)
		assert.NotEmpty(t, rep.Metadata.RunID)
		assert.Equal(t, "PC-01", rep.Metadata.SnapshotMetadata["ComputerName"])
	})

	t.Run("section with a load error is not sent to the model", func(t *testing.T) {
		dir := newSnapshotDir(t)
		writeSection(t, dir, "Good.json", `{"Data": {"k": 1}}`)
		writeSection(t, dir, "Broken.json", `{not json`)

		client := &scriptedClient{respond: func(prompt string) (string, error) {
			assert.NotContains(t, prompt, "Broken")
			if strings.Contains(prompt, "create an overall system summary") {
				return `{"overall_health": "fair"}`, nil
			}
			return okResponse, nil
		}}
		a := newTestAnalyzer(client)

		rep, err := a.AnalyzeSnapshot(dir, Options{})
		require.NoError(t, err)

		broken := rep.Sections["Broken"]
		require.True(t, broken.IsError())
		assert.Contains(t, broken.Error, "failed to parse JSON")

		// one call for Good, one for the summary
		assert.Len(t, client.prompts, 2)
	})

	t.Run("one section failing does not stop the others", func(t *testing.T) {
		dir := newSnapshotDir(t)
		writeSection(t, dir, "Alpha.json", `{"Data": {"k": 1}}`)
		writeSection(t, dir, "Beta.json", `{"Data": {"k": 2}}`)

		client := &scriptedClient{respond: func(prompt string) (string, error) {
			if strings.Contains(prompt, "'Alpha' section") {
				return "", errors.New("connection reset")
			}
			if strings.Contains(prompt, "create an overall system summary") {
				return `{"overall_health": "fair"}`, nil
			}
			return okResponse, nil
		}}
		a := newTestAnalyzer(client)

		rep, err := a.AnalyzeSnapshot(dir, Options{})
		require.NoError(t, err)

		assert.True(t, rep.Sections["Alpha"].IsError())
		assert.Equal(t, "connection reset", rep.Sections["Alpha"].Error)
		assert.False(t, rep.Sections["Beta"].IsError())
		assert.Equal(t, "fair", rep.Summary.OverallHealth)
	})

	t.Run("chunked section runs the multi-call protocol", func(t *testing.T) {
		dir := newSnapshotDir(t)
		writeSection(t, dir, "Network.json", `{"Data": {
			"Adapters": [{"Name": "Ethernet", "Status": "Up"}],
			"DNSSettings": [{"ServerAddresses": ["8.8.8.8"]}]
		}}`)

		client := &scriptedClient{respond: func(prompt string) (string, error) {
			if strings.Contains(prompt, "create an overall system summary") {
				return `{"overall_health": "good"}`, nil
			}
			if strings.Contains(prompt, "Create a concise summary") {
				return `{"summary": "network consolidated"}`, nil
			}
			return `{"issues": [{"severity": "low", "title": "x"}], "summary": "part"}`, nil
		}}
		a := newTestAnalyzer(client)

		rep, err := a.AnalyzeSnapshot(dir, Options{})
		require.NoError(t, err)

		network := rep.Sections["Network"]
		assert.Equal(t, "network consolidated", network.Summary)
		for _, issue := range network.Issues {
			assert.NotEmpty(t, issue.Category)
		}
		// two component calls, one consolidation, one overall summary
		assert.Len(t, client.prompts, 4)
	})

	t.Run("summary transport failure degrades, run still succeeds", func(t *testing.T) {
		dir := newSnapshotDir(t)
		writeSection(t, dir, "Solo.json", `{"Data": {"k": 1}}`)

		client := &scriptedClient{respond: func(prompt string) (string, error) {
			if strings.Contains(prompt, "create an overall system summary") {
				return "", errors.New("timeout")
			}
			return okResponse, nil
		}}
		a := newTestAnalyzer(client)

		rep, err := a.AnalyzeSnapshot(dir, Options{})
		require.NoError(t, err)
		assert.True(t, rep.Summary.IsError())
		assert.Equal(t, "timeout", rep.Summary.Error)
	})

	t.Run("artifacts are written when an output directory is set", func(t *testing.T) {
		dir := newSnapshotDir(t)
		writeSection(t, dir, "Solo.json", `{"Data": {"k": 1}}`)
		outDir := filepath.Join(t.TempDir(), "out")

		client := &scriptedClient{respond: func(prompt string) (string, error) {
			if strings.Contains(prompt, "create an overall system summary") {
				return `{"overall_health": "good"}`, nil
			}
			return okResponse, nil
		}}
		a := newTestAnalyzer(client)

		_, err := a.AnalyzeSnapshot(dir, Options{OutputDir: outDir})
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join(outDir, "SoloAnalysis.json"))
		require.NoError(t, err)
		var saved report.Result
		require.NoError(t, json.Unmarshal(data, &saved))
		assert.Equal(t, "section done", saved.Summary)

		_, err = os.Stat(filepath.Join(outDir, "summaryAnalysis.json"))
		assert.NoError(t, err)
	})

	t.Run("focus restricts which sections are analyzed", func(t *testing.T) {
		dir := newSnapshotDir(t)
		writeSection(t, dir, "Alpha.json", `{"Data": {"k": 1}}`)
		writeSection(t, dir, "Beta.json", `{"Data": {"k": 2}}`)

		client := &scriptedClient{respond: func(prompt string) (string, error) {
			if strings.Contains(prompt, "create an overall system summary") {
				return `{"overall_health": "good"}`, nil
			}
			return okResponse, nil
		}}
		a := newTestAnalyzer(client)

		rep, err := a.AnalyzeSnapshot(dir, Options{Focus: []string{"Beta"}})
		require.NoError(t, err)
		require.Len(t, rep.Sections, 1)
		assert.Contains(t, rep.Sections, "Beta")
	})
}

type anonymousClient struct{}

func (anonymousClient) Generate(string) (string, error) { return okResponse, nil }

func TestModelNameFallback(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	a := New(anonymousClient{}, analyzers.Default(), log, llmlog.New("", log), "")
	assert.Equal(t, "", a.modelName())
}
