package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// Snapshot is one loaded system state capture: machine metadata plus a
// named section per JSON data file. Sections that fail to load are
// present with an error marker instead of being dropped, so every
// section still gets an entry in the final report. The input is never
// mutated after loading.
type Snapshot struct {
	Metadata map[string]any
	Names    []string // deterministic iteration order
	Sections map[string]any
}

// ErrorMarker returns the load-error message attached to a section
// payload, if any. The loader stores failures as {"error": message}.
func ErrorMarker(payload any) (string, bool) {
	m, ok := payload.(map[string]any)
	if !ok {
		return "", false
	}
	msg, ok := m["error"].(string)
	return msg, ok && len(m) == 1
}

// Load reads a snapshot directory. The directory must contain
// metadata.json and either index.json (section name -> file name) or
// plain per-section JSON files. focus limits which sections are
// loaded; nil, empty, or a list containing "All" loads everything.
//
// Load fails only for setup problems: missing directory, unreadable
// metadata, or no loadable section at all. Individual section failures
// become error markers in the returned snapshot.
func Load(dir string, focus []string, log logrus.FieldLogger) (*Snapshot, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("snapshot directory not found: %s", dir)
	}

	metadata, err := readJSONMap(filepath.Join(dir, "metadata.json"))
	if err != nil {
		return nil, fmt.Errorf("could not load snapshot metadata: %w", err)
	}
	log.Debug("Loaded metadata.json")

	index, err := loadIndex(dir, log)
	if err != nil {
		return nil, err
	}

	names, err := selectSections(index, focus, log)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Metadata: metadata,
		Sections: make(map[string]any, len(names)),
	}

	loaded := 0
	for _, name := range names {
		payload, loadErr := loadSection(filepath.Join(dir, index[name]))
		if loadErr != nil {
			log.Errorf("Error loading section %s: %v", name, loadErr)
			snap.Sections[name] = map[string]any{"error": loadErr.Error()}
		} else {
			snap.Sections[name] = payload
			loaded++
			log.Debugf("Loaded section: %s", name)
		}
		snap.Names = append(snap.Names, name)
	}

	if loaded == 0 {
		return nil, fmt.Errorf("failed to load any sections from %s", dir)
	}
	return snap, nil
}

// loadIndex reads index.json, or derives an index from the data files
// in the directory when no index exists.
func loadIndex(dir string, log logrus.FieldLogger) (map[string]string, error) {
	indexPath := filepath.Join(dir, "index.json")
	if _, err := os.Stat(indexPath); err == nil {
		data, err := os.ReadFile(indexPath)
		if err != nil {
			return nil, fmt.Errorf("could not read index.json: %w", err)
		}
		var index map[string]string
		if err := json.Unmarshal(stripBOM(data), &index); err != nil {
			return nil, fmt.Errorf("could not parse index.json: %w", err)
		}
		log.Debug("Loaded index.json")
		return index, nil
	}

	log.Info("No index.json found, creating index from directory contents")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("could not list snapshot directory: %w", err)
	}

	index := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		if name == "metadata.json" || name == "index.json" {
			continue
		}
		index[strings.TrimSuffix(name, ".json")] = name
	}
	if len(index) == 0 {
		return nil, fmt.Errorf("no data files found in snapshot directory: %s", dir)
	}
	return index, nil
}

// selectSections resolves the focus list against the index, returning
// section names in a stable sorted order.
func selectSections(index map[string]string, focus []string, log logrus.FieldLogger) ([]string, error) {
	all := len(focus) == 0
	for _, f := range focus {
		if f == "All" {
			all = true
		}
	}

	var names []string
	if all {
		for name := range index {
			names = append(names, name)
		}
		sort.Strings(names)
		return names, nil
	}

	for _, name := range focus {
		if _, ok := index[name]; ok {
			names = append(names, name)
		} else {
			log.Warnf("Section '%s' not found in snapshot data", name)
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("none of the specified sections %v were found in the snapshot", focus)
	}
	return names, nil
}

// loadSection reads one section file. Capture files wrap the payload
// in a {"Data": ...} envelope; files without the envelope are used
// whole.
func loadSection(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found")
		}
		return nil, fmt.Errorf("failed to read: %w", err)
	}

	var raw any
	if err := json.Unmarshal(stripBOM(data), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	if envelope, ok := raw.(map[string]any); ok {
		if payload, ok := envelope["Data"]; ok {
			return payload, nil
		}
	}
	return raw, nil
}

func readJSONMap(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(stripBOM(data), &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return m, nil
}

// stripBOM drops a UTF-8 byte order mark; Windows tooling regularly
// writes one.
func stripBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
}
