package analyzers

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysstate/snapai/pkg/llmlog"
	"github.com/sysstate/snapai/pkg/report"
)

// fakeClient scripts LLM responses by substring match on the prompt.
type fakeClient struct {
	respond func(prompt string) (string, error)
	prompts []string
}

func (f *fakeClient) Generate(prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.respond(prompt)
}

func newTestRuntime(client *fakeClient) Runtime {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return Runtime{
		LLM:          client,
		Log:          log,
		Interactions: llmlog.New("", log),
	}
}

func TestRunChunked(t *testing.T) {
	calls := []chunkCall{
		{Name: "first", Prompt: "analyze first"},
		{Name: "second", Prompt: "analyze second"},
		{Name: "third", Prompt: "analyze third"},
	}

	t.Run("issues and optimizations get category tags", func(t *testing.T) {
		client := &fakeClient{respond: func(prompt string) (string, error) {
			switch {
			case strings.Contains(prompt, "analyze first"):
				return `{"issues": [{"severity": "high", "title": "a"}], "summary": "first done"}`, nil
			case strings.Contains(prompt, "analyze second"):
				return `{"optimizations": [{"impact": "low", "title": "b"}], "summary": "second done"}`, nil
			case strings.Contains(prompt, "analyze third"):
				return `{"summary": "third done"}`, nil
			default:
				return `{"summary": "consolidated view"}`, nil
			}
		}}

		result := runChunked(newTestRuntime(client), "Test", calls, func(s []string) string {
			return "summarize: " + strings.Join(s, " | ")
		})

		require.False(t, result.IsError())
		require.Len(t, result.Issues, 1)
		assert.Equal(t, "first", result.Issues[0].Category)
		require.Len(t, result.Optimizations, 1)
		assert.Equal(t, "second", result.Optimizations[0].Category)
		assert.Equal(t, "consolidated view", result.Summary)

		// three category calls plus one summary call
		assert.Len(t, client.prompts, 4)
	})

	t.Run("one failing category does not abort the rest", func(t *testing.T) {
		client := &fakeClient{respond: func(prompt string) (string, error) {
			switch {
			case strings.Contains(prompt, "analyze second"):
				return "", errors.New("connection refused")
			case strings.Contains(prompt, "summarize:"):
				return `{"summary": "overall"}`, nil
			default:
				return `{"issues": [{"severity": "low", "title": "x"}], "summary": "ok"}`, nil
			}
		}}

		result := runChunked(newTestRuntime(client), "Test", calls, func(s []string) string {
			return "summarize: " + strings.Join(s, " | ")
		})

		require.False(t, result.IsError())
		assert.Len(t, result.Issues, 2)

		categories := []string{result.Issues[0].Category, result.Issues[1].Category}
		assert.Equal(t, []string{"first", "third"}, categories)
	})

	t.Run("summary call failure falls back to concatenation", func(t *testing.T) {
		client := &fakeClient{respond: func(prompt string) (string, error) {
			if strings.Contains(prompt, "summarize:") {
				return "", errors.New("timeout")
			}
			if strings.Contains(prompt, "analyze first") {
				return `{"summary": "alpha"}`, nil
			}
			return `{"summary": "beta"}`, nil
		}}

		result := runChunked(newTestRuntime(client), "Test", calls, func(s []string) string {
			return "summarize: " + strings.Join(s, " | ")
		})

		assert.Contains(t, result.Summary, "FIRST: alpha")
		assert.Contains(t, result.Summary, "SECOND: beta")
		assert.Equal(t, 3, strings.Count(result.Summary, ":"))
	})

	t.Run("summary response without summary key falls back", func(t *testing.T) {
		client := &fakeClient{respond: func(prompt string) (string, error) {
			if strings.Contains(prompt, "summarize:") {
				return `{"unexpected": "shape"}`, nil
			}
			return `{"summary": "only"}`, nil
		}}

		result := runChunked(newTestRuntime(client), "Test", calls[:1], func(s []string) string {
			return "summarize: " + strings.Join(s, " | ")
		})

		assert.Equal(t, "FIRST: only", result.Summary)
	})

	t.Run("no calls yields the empty-categories summary", func(t *testing.T) {
		client := &fakeClient{respond: func(string) (string, error) {
			t.Fatal("no LLM call expected")
			return "", nil
		}}

		result := runChunked(newTestRuntime(client), "Network", nil, func(s []string) string { return "" })

		assert.Equal(t, report.Result{
			Summary: "No analysis could be generated for any Network categories.",
		}, result)
		assert.Empty(t, client.prompts)
	})

	t.Run("error-variant category response becomes a summary note", func(t *testing.T) {
		client := &fakeClient{respond: func(prompt string) (string, error) {
			if strings.Contains(prompt, "summarize:") {
				return "", errors.New("down")
			}
			return "no json here at all", nil
		}}

		result := runChunked(newTestRuntime(client), "Test", calls[:1], func(s []string) string {
			return "summarize: " + strings.Join(s, " | ")
		})

		assert.Empty(t, result.Issues)
		assert.Contains(t, result.Summary, "Error analyzing first:")
	})
}
