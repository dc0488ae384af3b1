package analyzers

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
}

func program(name, installDate string) map[string]any {
	p := map[string]any{"Name": name}
	if installDate != "" {
		p["InstallDate"] = installDate
	}
	return p
}

func TestInstalledProgramsMetrics(t *testing.T) {
	a := NewInstalledProgramsAnalyzer()
	a.now = fixedNow

	t.Run("non-list data degrades", func(t *testing.T) {
		metrics := a.ExtractKeyMetrics(map[string]any{"weird": true})
		assert.Equal(t, 0, metrics["total_programs"])
	})

	t.Run("counts categories and recent installs", func(t *testing.T) {
		data := []any{
			program("Norton Antivirus", "20200101"),
			program("Visual Studio Code", ""),
			program("Shopping Coupon Deluxe", ""),
			program("Some Game", "20260815"), // 13 days before fixedNow
			program("Old Game", "20250101"),
			program("Driver Utility", "not-a-date"),
		}
		metrics := a.ExtractKeyMetrics(data)
		assert.Equal(t, 6, metrics["total_programs"])
		assert.Equal(t, 1, metrics["recent_installations"])
		assert.Equal(t, 1, metrics["security_software"])
		assert.Equal(t, 1, metrics["development_tools"])
		assert.Equal(t, 1, metrics["utility_software"])
		assert.Equal(t, 1, metrics["potential_bloatware"])
	})
}

func TestInstalledProgramsCategorize(t *testing.T) {
	a := NewInstalledProgramsAnalyzer()
	a.now = fixedNow

	t.Run("first match wins, recent beats bloatware", func(t *testing.T) {
		buckets := a.categorize([]any{
			program("Coupon Offers App", "20260820"), // bloatware name but recent install
			program("Coupon Offers Old", "20200101"),
			program("Mystery App", ""),
		})

		require.Len(t, buckets["recent"], 1)
		assert.Equal(t, "Coupon Offers App", stringField(buckets["recent"][0], "Name"))
		require.Len(t, buckets["bloatware"], 1)
		require.Len(t, buckets["other"], 1)
	})

	t.Run("every program lands in exactly one bucket", func(t *testing.T) {
		data := []any{
			program("Norton Antivirus", ""),
			program("PyCharm", ""),
			program("System Cleaner", ""),
			program("Plain App", ""),
		}
		buckets := a.categorize(data)

		total := 0
		for _, items := range buckets {
			total += len(items)
		}
		assert.Equal(t, len(data), total)
		assert.Len(t, buckets["security"], 1)
		assert.Len(t, buckets["development"], 1)
		assert.Len(t, buckets["utilities"], 1)
		assert.Len(t, buckets["other"], 1)
	})
}

func TestInstalledProgramsAnalyzeChunked(t *testing.T) {
	a := NewInstalledProgramsAnalyzer()
	a.now = fixedNow

	t.Run("one call per non-empty category plus summary", func(t *testing.T) {
		client := &fakeClient{respond: func(prompt string) (string, error) {
			if strings.Contains(prompt, "per-category summaries") {
				return `{"summary": "software looks healthy"}`, nil
			}
			return `{"issues": [{"severity": "medium", "title": "found"}], "summary": "done"}`, nil
		}}

		data := []any{
			program("Norton Antivirus", ""),
			program("Docker Desktop", ""),
			program("Unmatched Thing", ""),
		}
		result := a.AnalyzeChunked(newTestRuntime(client), data, nil)

		require.False(t, result.IsError())
		// security, development, other categories plus the summary call
		assert.Len(t, client.prompts, 4)
		assert.Equal(t, "software looks healthy", result.Summary)

		categories := map[string]bool{}
		for _, issue := range result.Issues {
			categories[issue.Category] = true
		}
		assert.Equal(t, map[string]bool{"security": true, "development": true, "other": true}, categories)
	})

	t.Run("category prompts are wrapped with the response contract", func(t *testing.T) {
		client := &fakeClient{respond: func(prompt string) (string, error) {
			return `{"summary": "s"}`, nil
		}}

		a.AnalyzeChunked(newTestRuntime(client), []any{program("Anything", "")}, nil)

		require.NotEmpty(t, client.prompts)
		first := client.prompts[0]
		assert.Contains(t, first, "You are analyzing the 'InstalledPrograms' section")
		assert.Equal(t, 1, strings.Count(first, "Respond ONLY with valid JSON"))
	})

	t.Run("oversized categories are sampled with a note", func(t *testing.T) {
		var data []any
		for i := 0; i < chunkSampleCap+10; i++ {
			data = append(data, program("Plain App", ""))
		}

		client := &fakeClient{respond: func(prompt string) (string, error) {
			return `{"summary": "s"}`, nil
		}}
		a.AnalyzeChunked(newTestRuntime(client), data, nil)

		require.NotEmpty(t, client.prompts)
		assert.Contains(t, client.prompts[0], "Showing the first 25 of 35 programs")
	})

	t.Run("invalid data shape is an error result", func(t *testing.T) {
		client := &fakeClient{respond: func(string) (string, error) {
			t.Fatal("no LLM call expected")
			return "", nil
		}}
		result := a.AnalyzeChunked(newTestRuntime(client), map[string]any{"not": "a list"}, nil)
		assert.True(t, result.IsError())
	})
}
