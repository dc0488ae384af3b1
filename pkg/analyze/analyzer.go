// Package analyze drives one full snapshot analysis end-to-end: load
// the snapshot, analyze every section with per-section fault isolation,
// and aggregate the outcomes into a single report.
package analyze

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sysstate/snapai/pkg/analyzers"
	"github.com/sysstate/snapai/pkg/jsonutil"
	"github.com/sysstate/snapai/pkg/llm"
	"github.com/sysstate/snapai/pkg/llmlog"
	"github.com/sysstate/snapai/pkg/prompt"
	"github.com/sysstate/snapai/pkg/report"
	"github.com/sysstate/snapai/pkg/snapshot"
)

// Version is stamped into every report's metadata.
const Version = "1.0.0"

// Options controls one analysis run.
type Options struct {
	// Focus limits which sections are analyzed. Empty or containing
	// "All" means every section in the snapshot.
	Focus []string

	// OutputDir, when set, receives one JSON artifact per section
	// analysis plus the summary.
	OutputDir string
}

// Analyzer orchestrates snapshot analysis. A setup problem (missing
// snapshot, unreachable directory) fails the run; everything after
// setup degrades per section instead of aborting.
type Analyzer struct {
	client       llm.Client
	registry     *analyzers.Registry
	engine       *prompt.Engine
	log          logrus.FieldLogger
	interactions *llmlog.Logger
	serverURL    string
}

// New builds an analyzer. Pass llmlog.New("", log) for interactions to
// disable interaction logging.
func New(client llm.Client, registry *analyzers.Registry, log logrus.FieldLogger, interactions *llmlog.Logger, serverURL string) *Analyzer {
	return &Analyzer{
		client:       client,
		registry:     registry,
		engine:       prompt.NewEngine(registry),
		log:          log,
		interactions: interactions,
		serverURL:    serverURL,
	}
}

// AnalyzeSnapshot runs the full pipeline over the snapshot directory.
// The returned report has exactly one entry per loaded section; the
// error is non-nil only for setup failures.
func (a *Analyzer) AnalyzeSnapshot(path string, opts Options) (*report.Report, error) {
	a.log.Infof("Loading snapshot data from %s", path)
	snap, err := snapshot.Load(path, opts.Focus, a.log)
	if err != nil {
		return nil, err
	}

	rep := &report.Report{
		Metadata: report.Metadata{
			AnalyzedAt:       time.Now().Format(time.RFC3339),
			RunID:            uuid.NewString(),
			AnalyzerVersion:  Version,
			ServerURL:        a.serverURL,
			Model:            a.modelName(),
			SnapshotMetadata: snap.Metadata,
		},
		Sections: make(map[string]report.Result, len(snap.Names)),
	}

	for _, name := range snap.Names {
		a.log.Infof("Analyzing section: %s", name)
		result := a.analyzeSection(name, snap)
		rep.Sections[name] = result

		if opts.OutputDir != "" {
			a.saveArtifact(opts.OutputDir, name+"Analysis.json", result)
		}
	}

	a.log.Info("Generating overall system summary")
	rep.Summary = a.summarize(rep.Sections, snap)
	if opts.OutputDir != "" {
		a.saveArtifact(opts.OutputDir, "summaryAnalysis.json", rep.Summary)
	}

	return rep, nil
}

// analyzeSection produces the result for one section. Any panic or
// error inside this step is converted into the failure variant so the
// loop over sections never stops early.
func (a *Analyzer) analyzeSection(name string, snap *snapshot.Snapshot) (result report.Result) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Errorf("Panic while analyzing section %s: %v", name, r)
			result = report.ErrorResult(fmt.Sprintf("analysis panicked: %v", r))
			result.Traceback = string(debug.Stack())
		}
	}()

	sectionData := snap.Sections[name]

	// A section that failed to load keeps its load error; no LLM call.
	if msg, ok := snapshot.ErrorMarker(sectionData); ok {
		a.log.Warnf("Section %s carries a load error, skipping analysis: %s", name, msg)
		return report.ErrorResult(msg)
	}

	if analyzer, ok := a.registry.Lookup(name); ok && analyzer.SupportsChunking() {
		if chunked, ok := analyzer.(analyzers.ChunkedAnalyzer); ok {
			additional := a.gatherOptionalInputs(analyzer, snap)
			rt := analyzers.Runtime{
				LLM:          a.client,
				Log:          a.log,
				Interactions: a.interactions,
			}
			return chunked.AnalyzeChunked(rt, sectionData, additional)
		}
	}

	promptText := a.engine.CreateSectionPrompt(name, sectionData, snap.Sections)
	response, err := a.client.Generate(promptText)
	if err != nil {
		a.log.Errorf("Error analyzing section %s: %v", name, err)
		a.interactions.Failure(name, promptText, err.Error(), "")
		return report.ErrorResult(err.Error())
	}
	a.interactions.Success(name, promptText, response)

	return report.ResultFromMap(jsonutil.ExtractJSON(response))
}

// gatherOptionalInputs resolves the analyzer's declared optional input
// files against the loaded sections, skipping any that are absent.
func (a *Analyzer) gatherOptionalInputs(analyzer analyzers.SectionAnalyzer, snap *snapshot.Snapshot) map[string]any {
	additional := map[string]any{}
	for _, fileName := range analyzer.OptionalInputFiles() {
		sectionName := fileName
		if ext := filepath.Ext(fileName); ext == ".json" {
			sectionName = fileName[:len(fileName)-len(ext)]
		}
		if data, ok := snap.Sections[sectionName]; ok {
			additional[sectionName] = data
		}
	}
	return additional
}

// summarize runs the final aggregation call. It never fails the run: a
// transport or parse failure becomes the summary's error variant.
func (a *Analyzer) summarize(sections map[string]report.Result, snap *snapshot.Snapshot) report.Summary {
	summaryPrompt := a.engine.CreateSummaryPrompt(sections, snap.Names, snap.Metadata)

	response, err := a.client.Generate(summaryPrompt)
	if err != nil {
		a.log.Errorf("Error generating system summary: %v", err)
		a.interactions.Failure("summary", summaryPrompt, err.Error(), "")
		return report.SummaryError(err.Error())
	}
	a.interactions.Success("summary", summaryPrompt, response)

	return report.SummaryFromMap(jsonutil.ExtractJSON(response))
}

func (a *Analyzer) modelName() string {
	if named, ok := a.client.(interface{ Model() string }); ok {
		return named.Model()
	}
	return ""
}

func (a *Analyzer) saveArtifact(dir, fileName string, v any) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		a.log.Warnf("Could not create output directory %s: %v", dir, err)
		return
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		a.log.Warnf("Could not encode %s: %v", fileName, err)
		return
	}
	path := filepath.Join(dir, fileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		a.log.Warnf("Could not write %s: %v", path, err)
		return
	}
	a.log.Infof("Saved %s", path)
}
