package util

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"listen-heatmap/models"
)

// ReadPlayRecordsFromJSON loads a streaming history export (a JSON array) from disk.
func ReadPlayRecordsFromJSON(filePath string) ([]models.PlayRecord, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", filePath, err)
	}
	var records []models.PlayRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal play records from %q: %w", filePath, err)
	}
	return records, nil
}

// highlightsFile accepts either a bare list or a document with a highlights key.
type highlightsFile struct {
	Highlights []models.HighlightEntry `yaml:"highlights"`
}

// ReadHighlightsFromYAML loads highlight entries from a YAML file.
func ReadHighlightsFromYAML(filePath string) ([]models.HighlightEntry, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", filePath, err)
	}

	var list []models.HighlightEntry
	if err := yaml.Unmarshal(data, &list); err == nil {
		return list, nil
	}
	var doc highlightsFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal highlights from %q: %w", filePath, err)
	}
	return doc.Highlights, nil
}

// MergePlayRecords concatenates record sets in chronological order. Records
// with equal timestamps keep their input order.
func MergePlayRecords(sets ...[]models.PlayRecord) []models.PlayRecord {
	n := 0
	for _, s := range sets {
		n += len(s)
	}
	merged := make([]models.PlayRecord, 0, n)
	for _, s := range sets {
		merged = append(merged, s...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp.Before(merged[j].Timestamp)
	})
	return merged
}
